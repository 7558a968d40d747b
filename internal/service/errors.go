// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import "errors"

var (
	// ErrCoordinatorClosed is returned by ConnectSocket after Close.
	ErrCoordinatorClosed = errors.New("coordinator is closed")

	// ErrEmptyIdentity is returned by ConnectSocket for an empty identity.
	ErrEmptyIdentity = errors.New("empty identity")
)

// Reasons attached to published status changes.
const (
	reasonConnectionLost = "connection lost"
	reasonCanceled       = "canceled"
	reasonSendFailed     = "send failed"
	reasonBadResponse    = "malformed response"
	reasonTypeMismatch   = "response for another type"
	reasonSyncDone       = "sync completed"
	reasonFlushDone      = "offline sync completed"
)
