// Package handler assembles the transport handlers of the relay.
package handler

import (
	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/handler/http"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/internal/relay"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(hub *relay.Hub, cfg config.Server, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if hub == nil || cfg.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}

	return &Handlers{HTTP: http.NewHandler(hub, cfg, logger)}, nil
}
