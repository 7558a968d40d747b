package http

import (
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/internal/relay"
)

// sendBuffer bounds the outbound queue of one websocket session.
const sendBuffer = 64

type Handler struct {
	hub      *relay.Hub
	cfg      config.Server
	upgrader websocket.Upgrader

	logger *logger.Logger
}

func NewHandler(hub *relay.Hub, cfg config.Server, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		hub: hub,
		cfg: cfg,
		upgrader: websocket.Upgrader{
			// agents connect from desktop shells with arbitrary origins
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger,
	}
}
