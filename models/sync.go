package models

import (
	"encoding/json"
	"time"
)

// ConnectionState describes the transport state of the duplex channel.
type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
)

func (s ConnectionState) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return "disconnected"
	}
}

// SyncStatus is the state of the single sync or flush slot of the coordinator.
type SyncStatus int

const (
	SyncIdle SyncStatus = iota
	SyncSyncing
	SyncError
)

func (s SyncStatus) String() string {
	switch s {
	case SyncSyncing:
		return "syncing"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// Delivery reports what EmitUpdate did with an update.
type Delivery int

const (
	// DeliverySent means the update was handed to the live channel.
	DeliverySent Delivery = iota
	// DeliveryQueued means the update was appended to the offline queue.
	DeliveryQueued
	// DeliveryRejected means the update was neither sent nor queued: the
	// payload is not valid JSON or the local store refused the write.
	DeliveryRejected
)

func (d Delivery) String() string {
	switch d {
	case DeliverySent:
		return "sent"
	case DeliveryQueued:
		return "queued"
	default:
		return "rejected"
	}
}

// AckMode selects how an offline_sync_response is turned into purges.
type AckMode string

const (
	// AckResults purges only the dataTypes listed in the response results.
	AckResults AckMode = "results"
	// AckBatch treats any positive response as confirming every dataType sent.
	AckBatch AckMode = "batch"
)

// SyncStatusChange is published on the bus every time the coordinator status
// changes.
type SyncStatusChange struct {
	Status   string    `json:"status"`
	Reason   string    `json:"reason,omitempty"`
	LastSync time.Time `json:"last_sync"`
}

// AuthenticateRequest is the payload of the outbound authenticate event.
type AuthenticateRequest struct {
	Identity string `json:"identity"`
}

// SyncRequest asks the server for every record of Type changed after LastSync.
type SyncRequest struct {
	Type     string `json:"type"`
	LastSync string `json:"lastSync"`
	Identity string `json:"identity"`
}

// SyncResponse carries the records changed since the requested watermark.
// Every update is an opaque JSON object; records that expose an "id" field are
// merged into the local cache by that id.
type SyncResponse struct {
	Type    string            `json:"type,omitempty"`
	Updates []json.RawMessage `json:"updates"`
}

// OfflineSyncResponse acknowledges a flush. Results is keyed by dataType; the
// value is server defined and not interpreted by the client.
type OfflineSyncResponse struct {
	Results map[string]json.RawMessage `json:"results"`
}

// ErrorResponse is the payload of sync_error, offline_sync_error and auth_error.
type ErrorResponse struct {
	Message string `json:"message"`
}

// ReconnectedEvent is the payload of the local reconnected event.
type ReconnectedEvent struct {
	AttemptNumber int `json:"attemptNumber"`
}
