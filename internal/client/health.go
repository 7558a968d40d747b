package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-call-sync/internal/adapter"
	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/network"
	"github.com/MKhiriev/go-call-sync/internal/utils"
)

// urlChecker probes a health URL that is not served by the relay adapter.
type urlChecker struct {
	client *utils.HTTPClient
	url    string
}

func (u *urlChecker) Health(ctx context.Context) error {
	resp, err := u.client.R().SetContext(ctx).Get(u.url)
	if err != nil {
		return fmt.Errorf("health request failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("health check returned %d", resp.StatusCode())
	}
	return nil
}

// healthChecker reuses the adapter when the configured health URL is the
// adapter's own /health endpoint.
func healthChecker(relay adapter.RelayAdapter, cfg config.Network, adapterCfg config.Adapter, timeout time.Duration) network.HealthChecker {
	own := strings.TrimRight(adapterCfg.BaseURL, "/") + "/health"
	if cfg.HealthURL == "" || cfg.HealthURL == own {
		return relay
	}

	client := utils.NewHTTPClient()
	client.SetTimeout(timeout)
	return &urlChecker{client: client, url: cfg.HealthURL}
}
