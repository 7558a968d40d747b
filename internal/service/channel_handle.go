package service

import "github.com/MKhiriev/go-call-sync/models"

// ChannelHandle is a read-only view of the channel owned by the
// [Coordinator]. Writes go through [Coordinator.EmitUpdate].
type ChannelHandle struct {
	ch Channel
}

func (h *ChannelHandle) IsConnected() bool {
	return h.ch.IsConnected()
}

func (h *ChannelHandle) IsAuthenticated() bool {
	return h.ch.IsAuthenticated()
}

func (h *ChannelHandle) State() models.ConnectionState {
	return h.ch.State()
}
