package store

import (
	"context"
	"encoding/json"

	"github.com/MKhiriev/go-call-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KV is the raw key/value backend underneath every [LocalStore].
//
// Implementations must be safe for concurrent use. Get returns
// [ErrKeyNotFound] for a missing key; Delete of a missing key is not an
// error. Scan returns every entry whose key starts with prefix.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Scan(ctx context.Context, prefix string) (map[string][]byte, error)
	Close() error
}

// LocalStore is a namespaced envelope store on top of a [KV].
//
// Keys passed to and returned from a LocalStore never carry the namespace
// prefix.
type LocalStore interface {
	// Store wraps data into a [models.Envelope] and writes it under key,
	// replacing any previous value.
	Store(ctx context.Context, key string, data json.RawMessage) error
	// Retrieve returns the envelope stored under key. Missing, corrupt and
	// newer-schema entries are all reported as not found.
	Retrieve(ctx context.Context, key string) (models.Envelope, bool)
	// Remove deletes key. Removing a missing key succeeds.
	Remove(ctx context.Context, key string) error
	// GetAllOfflineData reads every decodable envelope of the namespace
	// directly from the backend.
	GetAllOfflineData(ctx context.Context) (map[string]models.Envelope, error)
	// ClearAll removes every key of the namespace.
	ClearAll(ctx context.Context) error
	// Prefix returns the namespace prefix.
	Prefix() string
}
