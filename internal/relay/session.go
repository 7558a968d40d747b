package relay

import (
	"encoding/json"
	"sync"

	"github.com/MKhiriev/go-call-sync/models"
)

// SendFunc delivers one outbound frame to the peer. It must not block.
type SendFunc func(frame models.Frame) error

// Session is the relay side of one client connection.
type Session struct {
	id   uint64
	hub  *Hub
	send SendFunc

	mu            sync.Mutex
	agentID       string
	authenticated bool
}

// AgentID returns the agent id accepted by the last authenticate.
func (s *Session) AgentID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.agentID
}

func (s *Session) isAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Handle processes one inbound frame. Frames of a session must be handled
// sequentially.
func (s *Session) Handle(frame models.Frame) {
	log := s.hub.logger.With().Uint64("session", s.id).Str("event", frame.Event).Logger()

	switch frame.Event {
	case models.EventAuthenticate:
		s.authenticate(frame.Data)
		return
	case models.EventPing:
		s.emit(models.EventPong, nil)
		return
	}

	if !s.isAuthenticated() {
		log.Warn().Msg("frame before authentication rejected")
		if frame.Event == models.EventOfflineSync {
			s.fail(models.EventOfflineSyncError, ErrNotAuthenticated)
			return
		}
		s.fail(models.EventAuthError, ErrNotAuthenticated)
		return
	}

	switch frame.Event {
	case models.EventSyncRequest:
		s.syncRequest(frame.Data)
	case models.EventOfflineSync:
		s.offlineSync(frame.Data)
	default:
		kind, ok := models.KindFromUpdateEvent(frame.Event)
		if !ok {
			log.Debug().Msg("unknown event ignored")
			return
		}
		if _, err := s.apply(kind, frame.Data); err != nil {
			log.Warn().Err(err).Msg("update rejected")
			return
		}
		s.hub.RegisterKinds(kind)
	}
}

func (s *Session) authenticate(data json.RawMessage) {
	var req models.AuthenticateRequest
	_ = json.Unmarshal(data, &req)

	agentID, err := s.hub.VerifyIdentity(req.Identity)

	s.mu.Lock()
	s.authenticated = err == nil
	s.agentID = agentID
	s.mu.Unlock()

	if err != nil {
		s.hub.logger.Warn().Err(err).Uint64("session", s.id).Msg("authentication rejected")
		s.fail(models.EventAuthError, err)
		return
	}
	s.hub.logger.Info().Uint64("session", s.id).Str("agent", agentID).Msg("session authenticated")
	s.emit(models.EventAuthenticated, nil)
}

func (s *Session) syncRequest(data json.RawMessage) {
	var req models.SyncRequest
	if err := json.Unmarshal(data, &req); err != nil || req.Type == "" {
		s.fail(models.EventSyncError, ErrUnknownType)
		return
	}
	since, err := ParseSince(req.LastSync)
	if err != nil {
		s.fail(models.EventSyncError, err)
		return
	}

	updates := s.hub.Since(models.DataType(req.Type), since)
	s.emit(models.EventSyncResponse, mustJSON(models.SyncResponse{Type: req.Type, Updates: updates}))
}

func (s *Session) offlineSync(data json.RawMessage) {
	var lists map[string]json.RawMessage
	if err := json.Unmarshal(data, &lists); err != nil {
		s.fail(models.EventOfflineSyncError, ErrInvalidPayload)
		return
	}

	results := make(map[string]json.RawMessage, len(lists))
	for dataType, raw := range lists {
		if dataType == "identity" {
			continue
		}
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			s.fail(models.EventOfflineSyncError, ErrInvalidPayload)
			return
		}

		accepted := 0
		for _, item := range items {
			if _, err := s.apply(s.hub.kindOf(dataType), item); err == nil {
				accepted++
			}
		}
		results[dataType] = mustJSON(map[string]int{"accepted": accepted})
	}

	s.emit(models.EventOfflineSyncResponse, mustJSON(models.OfflineSyncResponse{Results: results}))
}

// apply stores one entity write and broadcasts it as "<kind>_updated".
func (s *Session) apply(kind string, payload json.RawMessage) (Record, error) {
	rec, err := s.hub.Append(models.DataType(kind), payload)
	if err != nil {
		return Record{}, err
	}
	s.hub.broadcast(s, models.UpdatedEvent(kind), rec.Payload)
	return rec, nil
}

func (s *Session) fail(event string, err error) {
	s.emit(event, mustJSON(models.ErrorResponse{Message: err.Error()}))
}

func (s *Session) emit(event string, data json.RawMessage) {
	if data == nil {
		data = json.RawMessage(`{}`)
	}
	if err := s.send(models.Frame{Event: event, Data: data}); err != nil {
		s.hub.logger.Debug().Err(err).Uint64("session", s.id).Str("event", event).Msg("error sending frame")
	}
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage(`{}`)
	}
	return raw
}
