package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/internal/relay"
	"github.com/MKhiriev/go-call-sync/internal/utils"
	"github.com/MKhiriev/go-call-sync/models"
)

type healthResponse struct {
	Status   string `json:"status"`
	Sessions int    `json:"sessions"`
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	if _, err := utils.WriteJSON(w, healthResponse{Status: "ok", Sessions: h.hub.Sessions()}, http.StatusOK); err != nil {
		logger.FromRequest(r).Err(err).Str("func", "Handler.health").Msg("error writing response")
	}
}

// fetchSince returns the log of a data type after the optional ?since
// watermark. The resource may be given as a kind ("call") or a data type
// ("calls").
func (h *Handler) fetchSince(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	resource := chi.URLParam(r, "resource")
	since, err := relay.ParseSince(r.URL.Query().Get("since"))
	if err != nil {
		log.Err(err).Str("func", "Handler.fetchSince").Str("resource", resource).Msg("bad since parameter")
		http.Error(w, err.Error(), statusFromError(err))
		return
	}

	dataType := models.DataType(resource)
	updates := h.hub.Since(dataType, since)

	agentID, _ := utils.GetAgentIDFromContext(r.Context())
	log.Debug().
		Str("func", "Handler.fetchSince").
		Str("agent", agentID).
		Str("data_type", dataType).
		Int("updates", len(updates)).
		Msg("serving catch-up")

	resp := models.SyncResponse{Type: resource, Updates: updates}
	if _, err := utils.WriteJSON(w, resp, http.StatusOK); err != nil {
		log.Err(err).Str("func", "Handler.fetchSince").Msg("error writing response")
	}
}
