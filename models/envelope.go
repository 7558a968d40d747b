package models

import (
	"encoding/json"
	"time"
)

// SchemaVersion is the version written into every stored [Envelope].
// Envelopes carrying a newer version are unreadable by this build.
const SchemaVersion = 1

// Envelope is the typed wrapper persisted for every key of the local store.
type Envelope struct {
	// Data is the stored value, already JSON encoded.
	Data json.RawMessage `json:"data"`

	// CapturedAt is the moment the value was written.
	CapturedAt time.Time `json:"capturedAt"`

	// SchemaVersion identifies the envelope layout.
	SchemaVersion int `json:"schemaVersion"`
}

// OfflineEnvelope is a single write captured while the channel was not
// eligible for live sends. Envelopes of one dataType are stored together as a
// list under the dataType key.
type OfflineEnvelope struct {
	// ID is a client generated UUIDv7 used to purge exactly what was flushed.
	ID string `json:"id"`

	// DataType is the plural queue identifier (e.g. "calls").
	DataType string `json:"dataType"`

	// Payload is the opaque entity body passed to EmitUpdate.
	Payload json.RawMessage `json:"payload"`

	// CapturedAt is the time EmitUpdate queued the write.
	CapturedAt time.Time `json:"capturedAt"`
}

// PendingSyncEntry mirrors an OfflineEnvelope created during the current
// process lifetime. It is informational only; the local store is the source of
// truth for what still has to be flushed.
type PendingSyncEntry struct {
	ID         string    `json:"id"`
	Kind       string    `json:"kind"`
	DataType   string    `json:"dataType"`
	CapturedAt time.Time `json:"capturedAt"`
}
