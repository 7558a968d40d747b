package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetAddress_String(t *testing.T) {
	tests := []struct {
		name     string
		addr     NetAddress
		expected string
	}{
		{name: "empty address", addr: NetAddress{}, expected: ""},
		{name: "localhost with port", addr: NetAddress{Host: "localhost", Port: 8080}, expected: "localhost:8080"},
		{name: "only port", addr: NetAddress{Port: 8080}, expected: ":8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.addr.String())
		})
	}
}

func TestNetAddress_Set(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expectError bool
		expected    NetAddress
	}{
		{name: "localhost", input: "localhost:8080", expected: NetAddress{Host: "localhost", Port: 8080}},
		{name: "ip", input: "127.0.0.1:9090", expected: NetAddress{Host: "127.0.0.1", Port: 9090}},
		{name: "all interfaces", input: ":8080", expected: NetAddress{Port: 8080}},
		{name: "missing port", input: "localhost", expectError: true},
		{name: "bad port", input: "localhost:abc", expectError: true},
		{name: "zero port", input: "localhost:0", expectError: true},
		{name: "hostname", input: "example.com:80", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a NetAddress
			err := a.Set(tt.input)
			if tt.expectError {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, a)
		})
	}
}

func TestParseFlags_AllFlags(t *testing.T) {
	cfg, err := parseFlags([]string{
		"-a", "localhost:9000",
		"-identity", "agent-1",
		"-channel-url", "ws://localhost:9000/ws",
		"-reconnect-attempts", "7",
		"-reconnect-delay", "2s",
		"-channel-timeout", "10s",
		"-ping-interval", "3s",
		"-assume-authenticated",
		"-storage-driver", "sqlite",
		"-d", "/tmp/sync.db",
		"-health-url", "http://localhost:9000/health",
		"-probe-interval", "1s",
		"-ack-mode", "batch",
		"-sync-interval", "30s",
		"-kinds", "call, lead ,,reminder",
		"-rest-url", "http://localhost:9000",
		"-token-sign-key", "k",
		"-config", "/etc/callsync.json",
	})
	require.NoError(t, err)

	assert.Equal(t, "localhost:9000", cfg.Server.HTTPAddress)
	assert.Equal(t, "agent-1", cfg.App.Identity)
	assert.Equal(t, "ws://localhost:9000/ws", cfg.Channel.URL)
	assert.Equal(t, 7, cfg.Channel.ReconnectAttempts)
	assert.Equal(t, 2*time.Second, cfg.Channel.ReconnectDelay)
	assert.Equal(t, 10*time.Second, cfg.Channel.Timeout)
	assert.Equal(t, 3*time.Second, cfg.Channel.PingInterval)
	assert.True(t, cfg.Channel.AssumeAuthenticated)
	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/sync.db", cfg.Storage.DSN)
	assert.Equal(t, "http://localhost:9000/health", cfg.Network.HealthURL)
	assert.Equal(t, time.Second, cfg.Network.ProbeInterval)
	assert.Equal(t, "batch", cfg.Sync.AckMode)
	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, []string{"call", "lead", "reminder"}, cfg.Sync.Kinds)
	assert.Equal(t, "http://localhost:9000", cfg.Adapter.BaseURL)
	assert.Equal(t, "k", cfg.Server.TokenSignKey)
	assert.Equal(t, "/etc/callsync.json", cfg.JSONFilePath)
}

func TestParseFlags_NoArgs(t *testing.T) {
	cfg, err := parseFlags(nil)
	require.NoError(t, err)
	assert.Equal(t, &StructuredConfig{}, cfg)
}

func TestParseFlags_UnknownFlag(t *testing.T) {
	_, err := parseFlags([]string{"-nope"})
	require.Error(t, err)
}

func TestParseFlags_BadAddress(t *testing.T) {
	_, err := parseFlags([]string{"-a", "nohost"})
	require.Error(t, err)
}
