package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-call-sync/internal/channel"
	"github.com/MKhiriev/go-call-sync/internal/network"
	"github.com/MKhiriev/go-call-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// Channel is the duplex channel as seen by the [Coordinator].
// *channel.Manager satisfies it.
type Channel interface {
	// Connect replaces the current connection with a new one for identity.
	Connect(identity string) error
	// IsConnected reports whether a transport is up.
	IsConnected() bool
	// IsAuthenticated reports whether the current connection was accepted.
	IsAuthenticated() bool
	// State returns the transport state.
	State() models.ConnectionState
	// Send queues one outbound event. It fails fast when not connected.
	Send(event string, payload any) error
	// On registers a handler and returns the function removing it.
	On(event string, h channel.Handler) (off func())
}

// NetworkObserver is the connectivity signal consumed by the [Coordinator].
// *network.Observer satisfies it.
type NetworkObserver interface {
	IsOnline() bool
	OnOnline(h network.Listener) (remove func())
	OnOffline(h network.Listener) (remove func())
}

// Publisher is the process-wide bus. *bus.Bus satisfies it.
type Publisher interface {
	Publish(topic string, payload any)
}

// Fetcher reads records changed after since over REST.
type Fetcher interface {
	FetchSince(ctx context.Context, resource string, since time.Time) ([]json.RawMessage, error)
}

// Syncer is the part of the [Coordinator] driven by the [SyncJob].
type Syncer interface {
	RequestSync(kind, identity string, since time.Time) bool
	ApplyFetched(kind string, records []json.RawMessage, asOf time.Time) (int, error)
	Identity() string
	LastSyncFor(kind string) time.Time
	IsEligible() bool
}
