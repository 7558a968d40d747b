// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package relay

import "errors"

var (
	ErrEmptyIdentity    = errors.New("empty identity")
	ErrInvalidIdentity  = errors.New("invalid identity token")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrUnknownType      = errors.New("empty or unknown type")
	ErrInvalidLastSync  = errors.New("invalid lastSync")
	ErrInvalidPayload   = errors.New("invalid payload")
)
