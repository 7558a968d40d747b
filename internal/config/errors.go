package config

import "errors"

// Validation errors returned when a configuration group is incomplete or
// invalid.
var (
	// ErrInvalidAppConfigs indicates a missing client identity.
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidChannelConfigs indicates a missing or non-websocket channel
	// URL or negative retry settings.
	ErrInvalidChannelConfigs = errors.New("invalid channel configuration")
	// ErrInvalidStorageConfigs indicates an unknown driver or a missing DSN
	// for a file-backed driver.
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")
	// ErrInvalidNetworkConfigs indicates that no health URL could be
	// resolved for the connectivity prober.
	ErrInvalidNetworkConfigs = errors.New("invalid network configuration")
	// ErrInvalidSyncConfigs indicates an unknown ack mode or non-positive
	// sync job settings.
	ErrInvalidSyncConfigs = errors.New("invalid sync configuration")
	// ErrInvalidServerConfigs indicates a missing relay listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
)
