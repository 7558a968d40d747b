// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
}

func TestParseEnv_AllFields(t *testing.T) {
	setEnvVars(t, map[string]string{
		"CONFIG": "/path/to/config.json",

		"APP_IDENTITY": "agent-7",

		"CHANNEL_URL":                  "ws://localhost:8080/ws",
		"CHANNEL_RECONNECT_ATTEMPTS":   "3",
		"CHANNEL_RECONNECT_DELAY":      "250ms",
		"CHANNEL_TIMEOUT":              "20s",
		"CHANNEL_PING_INTERVAL":        "5s",
		"CHANNEL_ASSUME_AUTHENTICATED": "true",

		"STORAGE_DRIVER": "bolt",
		"STORAGE_DSN":    "/tmp/callsync.db",

		"NETWORK_HEALTH_URL":     "http://localhost:8080/health",
		"NETWORK_PROBE_INTERVAL": "2s",

		"SYNC_ACK_MODE":   "batch",
		"SYNC_INTERVAL":   "1m",
		"SYNC_KINDS":      "call,lead",
		"SYNC_BUS_BUFFER": "16",

		"ADAPTER_BASE_URL":        "http://localhost:8080",
		"ADAPTER_REQUEST_TIMEOUT": "3s",

		"SERVER_ADDRESS":        "localhost:8080",
		"SERVER_TOKEN_SIGN_KEY": "secret",
	})

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)
	assert.Equal(t, "agent-7", cfg.App.Identity)

	assert.Equal(t, "ws://localhost:8080/ws", cfg.Channel.URL)
	assert.Equal(t, 3, cfg.Channel.ReconnectAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.Channel.ReconnectDelay)
	assert.Equal(t, 20*time.Second, cfg.Channel.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Channel.PingInterval)
	assert.True(t, cfg.Channel.AssumeAuthenticated)

	assert.Equal(t, "bolt", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/callsync.db", cfg.Storage.DSN)

	assert.Equal(t, "http://localhost:8080/health", cfg.Network.HealthURL)
	assert.Equal(t, 2*time.Second, cfg.Network.ProbeInterval)

	assert.Equal(t, "batch", cfg.Sync.AckMode)
	assert.Equal(t, time.Minute, cfg.Sync.Interval)
	assert.Equal(t, []string{"call", "lead"}, cfg.Sync.Kinds)
	assert.Equal(t, 16, cfg.Sync.BusBuffer)

	assert.Equal(t, "http://localhost:8080", cfg.Adapter.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Adapter.RequestTimeout)

	assert.Equal(t, "localhost:8080", cfg.Server.HTTPAddress)
	assert.Equal(t, "secret", cfg.Server.TokenSignKey)
}

func TestParseEnv_Empty(t *testing.T) {
	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))
	assert.Equal(t, "", cfg.Channel.URL)
	assert.Nil(t, cfg.Sync.Kinds)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	t.Setenv("CHANNEL_TIMEOUT", "not-a-duration")

	err := parseEnv(&StructuredConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error getting env configs")
}
