// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"net/url"
	"strings"
	"time"

	"github.com/MKhiriev/go-call-sync/models"
)

// Defaults applied to zero fields after all sources are merged.
const (
	DefaultReconnectAttempts = 5
	DefaultReconnectDelay    = time.Second
	DefaultChannelTimeout    = 20 * time.Second
	DefaultPingInterval      = 10 * time.Second
	DefaultStorageDriver     = "sqlite"
	DefaultProbeInterval     = 5 * time.Second
	DefaultSyncInterval      = 5 * time.Minute
	DefaultBusBuffer         = 64
	DefaultRequestTimeout    = 15 * time.Second
)

// DefaultKinds are the business entities handled when SYNC_KINDS is empty.
var DefaultKinds = []string{"call", "lead", "reminder"}

func (cfg *StructuredConfig) applyDefaults() {
	if cfg.Channel.ReconnectAttempts == 0 {
		cfg.Channel.ReconnectAttempts = DefaultReconnectAttempts
	}
	if cfg.Channel.ReconnectDelay == 0 {
		cfg.Channel.ReconnectDelay = DefaultReconnectDelay
	}
	if cfg.Channel.Timeout == 0 {
		cfg.Channel.Timeout = DefaultChannelTimeout
	}
	if cfg.Channel.PingInterval == 0 {
		cfg.Channel.PingInterval = DefaultPingInterval
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultStorageDriver
	}
	if cfg.Network.ProbeInterval == 0 {
		cfg.Network.ProbeInterval = DefaultProbeInterval
	}
	if cfg.Sync.AckMode == "" {
		cfg.Sync.AckMode = string(models.AckResults)
	}
	if cfg.Sync.Interval == 0 {
		cfg.Sync.Interval = DefaultSyncInterval
	}
	if len(cfg.Sync.Kinds) == 0 {
		cfg.Sync.Kinds = append([]string(nil), DefaultKinds...)
	}
	if cfg.Sync.BusBuffer == 0 {
		cfg.Sync.BusBuffer = DefaultBusBuffer
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = DefaultRequestTimeout
	}

	if cfg.Channel.URL != "" {
		if cfg.Adapter.BaseURL == "" {
			cfg.Adapter.BaseURL = httpBase(cfg.Channel.URL)
		}
		if cfg.Network.HealthURL == "" && cfg.Adapter.BaseURL != "" {
			cfg.Network.HealthURL = strings.TrimRight(cfg.Adapter.BaseURL, "/") + "/health"
		}
	}
}

// httpBase turns "ws://host:port/ws" into "http://host:port".
func httpBase(channelURL string) string {
	u, err := url.Parse(channelURL)
	if err != nil || u.Host == "" {
		return ""
	}

	scheme := "http"
	if u.Scheme == "wss" || u.Scheme == "https" {
		scheme = "https"
	}
	return scheme + "://" + u.Host
}

// validate checks settings shared by both binaries.
func (cfg *StructuredConfig) validate() error {
	switch models.AckMode(cfg.Sync.AckMode) {
	case models.AckResults, models.AckBatch:
	default:
		return ErrInvalidSyncConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Identity == "" {
		return ErrInvalidAppConfigs
	}

	u, err := url.Parse(cfg.Channel.URL)
	if err != nil || (u.Scheme != "ws" && u.Scheme != "wss") || u.Host == "" {
		return ErrInvalidChannelConfigs
	}
	if cfg.Channel.ReconnectAttempts < 0 || cfg.Channel.ReconnectDelay < 0 || cfg.Channel.Timeout <= 0 {
		return ErrInvalidChannelConfigs
	}

	switch cfg.Storage.Driver {
	case "memory":
	case "sqlite", "bolt":
		if cfg.Storage.DSN == "" || strings.Contains(cfg.Storage.DSN, ":memory:") {
			return ErrInvalidStorageConfigs
		}
	default:
		return ErrInvalidStorageConfigs
	}

	if cfg.Sync.Interval <= 0 || cfg.Sync.BusBuffer <= 0 || len(cfg.Sync.Kinds) == 0 {
		return ErrInvalidSyncConfigs
	}

	if cfg.Network.HealthURL == "" || cfg.Network.ProbeInterval <= 0 {
		return ErrInvalidNetworkConfigs
	}

	return nil
}

func (cfg *RelayConfig) validate() error {
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}
	return nil
}
