// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter talks to the REST side of the remote service.
//
// [RelayAdapter] serves two consumers: the sync job falls back to
// [RelayAdapter.FetchSince] while the duplex channel is unavailable, and the
// network prober polls [RelayAdapter.Health].
//
// Non-2xx responses are mapped to the sentinel errors of errors.go by
// mapHTTPError, so callers can use [errors.Is].
package adapter

import (
	"context"
	"encoding/json"
	"time"
)

// RelayAdapter is the REST client of the remote service.
type RelayAdapter interface {
	// SetToken stores the bearer token attached to every request. An empty
	// token disables the Authorization header.
	SetToken(token string)

	// Token returns the current bearer token.
	Token() string

	// FetchSince returns the records of resource (a plural data type such as
	// "calls") changed after since. A zero since fetches everything.
	FetchSince(ctx context.Context, resource string, since time.Time) ([]json.RawMessage, error)

	// Health returns nil when the service answers its health endpoint with
	// a 2xx status.
	Health(ctx context.Context) error
}
