// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the merged configuration of the sync client and the
// reference relay. It is populated from environment variables, command-line
// flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds process-wide settings such as the client identity.
	App App `envPrefix:"APP_"`

	// Channel configures the duplex channel transport.
	Channel Channel `envPrefix:"CHANNEL_"`

	// Storage selects and configures the local key/value backend.
	Storage Storage `envPrefix:"STORAGE_"`

	// Network configures the connectivity prober.
	Network Network `envPrefix:"NETWORK_"`

	// Sync configures coordinator semantics and the periodic sync job.
	Sync Sync `envPrefix:"SYNC_"`

	// Adapter configures the REST client used for incremental fetches.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Server configures the reference relay.
	Server Server `envPrefix:"SERVER_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds process-wide settings.
type App struct {
	// Identity is the agent identity sent with authenticate, sync_request and
	// offline_sync. May be a plain agent id or a signed JWT.
	// Env: APP_IDENTITY
	Identity string `env:"IDENTITY"`
}

// Channel configures the duplex channel.
type Channel struct {
	// URL is the websocket endpoint, e.g. "ws://localhost:8080/ws".
	// Env: CHANNEL_URL
	URL string `env:"URL"`

	// ReconnectAttempts is the retry ceiling after a transport drop.
	// Env: CHANNEL_RECONNECT_ATTEMPTS
	ReconnectAttempts int `env:"RECONNECT_ATTEMPTS"`

	// ReconnectDelay is the fixed delay between reconnect attempts.
	// Env: CHANNEL_RECONNECT_DELAY
	ReconnectDelay time.Duration `env:"RECONNECT_DELAY"`

	// Timeout bounds the websocket handshake and read inactivity.
	// Env: CHANNEL_TIMEOUT
	Timeout time.Duration `env:"TIMEOUT"`

	// PingInterval is how often a ping frame is written.
	// Env: CHANNEL_PING_INTERVAL
	PingInterval time.Duration `env:"PING_INTERVAL"`

	// AssumeAuthenticated marks the connection authenticated as soon as the
	// authenticate frame is written, for servers that never acknowledge it.
	// Env: CHANNEL_ASSUME_AUTHENTICATED
	AssumeAuthenticated bool `env:"ASSUME_AUTHENTICATED"`
}

// Storage selects the local key/value backend.
type Storage struct {
	// Driver is one of "sqlite", "bolt" or "memory".
	// Env: STORAGE_DRIVER
	Driver string `env:"DRIVER"`

	// DSN is the database file path for the sqlite and bolt drivers.
	// Env: STORAGE_DSN
	DSN string `env:"DSN"`
}

// Network configures connectivity probing.
type Network struct {
	// HealthURL is polled to decide whether the host is online. When empty
	// it is derived from Channel.URL.
	// Env: NETWORK_HEALTH_URL
	HealthURL string `env:"HEALTH_URL"`

	// ProbeInterval is the delay between two health probes.
	// Env: NETWORK_PROBE_INTERVAL
	ProbeInterval time.Duration `env:"PROBE_INTERVAL"`
}

// Sync configures the coordinator.
type Sync struct {
	// AckMode is "results" or "batch", see models.AckMode.
	// Env: SYNC_ACK_MODE
	AckMode string `env:"ACK_MODE"`

	// Interval is the period of the background sync job.
	// Env: SYNC_INTERVAL
	Interval time.Duration `env:"INTERVAL"`

	// Kinds lists the entity kinds whose push events are fanned out and
	// which the sync job refreshes, e.g. "call,lead,reminder".
	// Env: SYNC_KINDS
	Kinds []string `env:"KINDS" envSeparator:","`

	// BusBuffer is the per-subscriber queue size of the event bus.
	// Env: SYNC_BUS_BUFFER
	BusBuffer int `env:"BUS_BUFFER"`
}

// Adapter configures the REST client.
type Adapter struct {
	// BaseURL is the REST API root. When empty it is derived from Channel.URL.
	// Env: ADAPTER_BASE_URL
	BaseURL string `env:"BASE_URL"`

	// RequestTimeout bounds a single REST call.
	// Env: ADAPTER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Server configures the reference relay.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// TokenSignKey enables JWT identity verification when non-empty.
	// Env: SERVER_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// RequestTimeout bounds a single REST request on the relay.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetStructuredConfig loads and merges configuration from all sources and
// fills defaults. Priority for a non-zero field is:
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build()
}
