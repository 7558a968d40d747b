// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// Client defines the minimal lifecycle contract for runnable client
// applications.
type Client interface {
	// Run connects and blocks until ctx is canceled.
	Run(ctx context.Context) error
	// Close releases every resource opened by the constructor.
	Close() error
}
