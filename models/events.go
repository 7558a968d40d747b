// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"strings"
)

// Outbound event names written by the client onto the duplex channel.
const (
	EventAuthenticate = "authenticate"
	EventSyncRequest  = "sync_request"
	EventOfflineSync  = "offline_sync"
	EventPing         = "ping"
)

// Inbound event names received from the remote service.
const (
	EventAuthenticated       = "authenticated"
	EventAuthError           = "auth_error"
	EventSyncResponse        = "sync_response"
	EventSyncError           = "sync_error"
	EventOfflineSyncResponse = "offline_sync_response"
	EventOfflineSyncError    = "offline_sync_error"
	EventPong                = "pong"
)

// Lifecycle events raised locally by the channel manager. They never travel
// over the wire.
const (
	EventConnected       = "connected"
	EventDisconnected    = "disconnected"
	EventReconnected     = "reconnected"
	EventReconnectFailed = "reconnect_failed"
)

// EventSyncStatus is the bus topic carrying [SyncStatusChange] values.
const EventSyncStatus = "sync_status"

const (
	updateSuffix  = "_update"
	updatedSuffix = "_updated"
)

// UpdateEvent returns the outbound event name for a live entity write,
// e.g. "call" -> "call_update".
func UpdateEvent(kind string) string {
	return kind + updateSuffix
}

// UpdatedEvent returns the inbound push event name for an entity,
// e.g. "call" -> "call_updated".
func UpdatedEvent(kind string) string {
	return kind + updatedSuffix
}

// KindFromUpdateEvent extracts the entity kind from an outbound "<kind>_update"
// event name. ok is false for any other event.
func KindFromUpdateEvent(event string) (kind string, ok bool) {
	if !strings.HasSuffix(event, updateSuffix) {
		return "", false
	}
	kind = strings.TrimSuffix(event, updateSuffix)
	return kind, kind != ""
}

// DataType maps an entity kind to the dataType identifier used for offline
// queues and flush batches, e.g. "call" -> "calls". Kinds that are already
// plural are returned unchanged.
func DataType(kind string) string {
	if kind == "" || strings.HasSuffix(kind, "s") {
		return kind
	}
	return kind + "s"
}

// Frame is a single message on the duplex channel. Every websocket text
// message carries exactly one JSON-encoded Frame.
type Frame struct {
	// Event is the wire event name.
	Event string `json:"event"`

	// Data is the raw event payload. Absent payloads decode as nil.
	Data json.RawMessage `json:"data,omitempty"`
}

// NewFrame encodes payload and wraps it into a Frame for event.
// A nil payload produces an empty JSON object so that receivers always see a
// decodable body.
func NewFrame(event string, payload any) (Frame, error) {
	if payload == nil {
		return Frame{Event: event, Data: json.RawMessage(`{}`)}, nil
	}
	if raw, ok := payload.(json.RawMessage); ok {
		return Frame{Event: event, Data: raw}, nil
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return Frame{}, err
	}
	return Frame{Event: event, Data: data}, nil
}
