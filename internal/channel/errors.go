// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package channel

import "errors"

var (
	// ErrNotConnected is returned by Send while no transport is up.
	ErrNotConnected = errors.New("channel is not connected")

	// ErrSendQueueFull is returned by Send when the writer queue of the
	// current connection has no room left.
	ErrSendQueueFull = errors.New("channel send queue is full")

	// ErrClosed is returned by Connect after Close.
	ErrClosed = errors.New("channel manager is closed")

	// ErrEmptyIdentity is returned by Connect for an empty identity.
	ErrEmptyIdentity = errors.New("empty identity")
)
