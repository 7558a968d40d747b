package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/internal/utils"
	"github.com/MKhiriev/go-call-sync/models"
)

type httpRelayAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPRelayAdapter returns the resty implementation of [RelayAdapter]
// rooted at cfg.BaseURL.
//
// Returns an error if cfg.BaseURL is empty or cannot be parsed as a URL.
func NewHTTPRelayAdapter(cfg config.Adapter, log *logger.Logger) (RelayAdapter, error) {
	baseURL, err := normalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter base url: %w", err)
	}

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = config.DefaultRequestTimeout
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	return &httpRelayAdapter{client: client, logger: log.WithComponent("adapter")}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpRelayAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpRelayAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// FetchSince implements [RelayAdapter]. It GETs /api/{resource}?since=... and
// decodes the updates list of the response.
func (h *httpRelayAdapter) FetchSince(ctx context.Context, resource string, since time.Time) ([]json.RawMessage, error) {
	resource = strings.Trim(resource, "/ ")
	if resource == "" {
		return nil, ErrEmptyResource
	}

	req := h.authedRequest(ctx).SetPathParam("resource", resource)
	if !since.IsZero() {
		req.SetQueryParam("since", since.UTC().Format(time.RFC3339Nano))
	}

	resp, err := req.Get("/api/{resource}")
	if err != nil {
		return nil, fmt.Errorf("fetch %s request: %w", resource, err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var sr models.SyncResponse
	if err = json.Unmarshal(resp.Body(), &sr); err != nil {
		return nil, fmt.Errorf("decode %s response: %w", resource, err)
	}

	h.logger.Debug().
		Str("func", "httpRelayAdapter.FetchSince").
		Str("resource", resource).
		Int("records", len(sr.Updates)).
		Msg("records fetched")
	return sr.Updates, nil
}

// Health implements [RelayAdapter].
func (h *httpRelayAdapter) Health(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("health request: %w", err)
	}
	return mapHTTPError(resp)
}

func (h *httpRelayAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}
