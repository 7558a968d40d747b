// Package relay is an in-memory implementation of the remote side of the
// sync wire contract. It keeps one append-only log per data type and
// broadcasts accepted updates to every other authenticated session.
//
// It exists for local development and integration tests; nothing is
// persisted.
package relay

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/internal/utils"
	"github.com/MKhiriev/go-call-sync/models"
)

// TokenIssuer is the issuer expected in identity tokens when a sign key is
// configured.
const TokenIssuer = "call-relay"

// Record is one accepted entity write.
type Record struct {
	DataType   string
	Payload    json.RawMessage
	ReceivedAt time.Time
}

// Hub is safe for concurrent use.
type Hub struct {
	signKey string
	logger  *logger.Logger
	now     func() time.Time

	mu       sync.RWMutex
	sessions map[uint64]*Session
	nextID   uint64
	records  map[string][]Record
	kinds    map[string]string
}

// NewHub returns an empty hub. Identities are verified as HS256 tokens when
// cfg.TokenSignKey is set and accepted as plain agent ids otherwise.
func NewHub(cfg config.Server, log *logger.Logger) *Hub {
	return &Hub{
		signKey:  cfg.TokenSignKey,
		logger:   log.WithComponent("relay"),
		now:      time.Now,
		sessions: make(map[uint64]*Session),
		records:  make(map[string][]Record),
		kinds:    kindTable(config.DefaultKinds),
	}
}

// RegisterKinds adds kinds to the table used to name re-broadcasts of
// queued writes, which arrive keyed by dataType only.
func (h *Hub) RegisterKinds(kinds ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, kind := range kinds {
		if kind != "" {
			h.kinds[models.DataType(kind)] = kind
		}
	}
}

// VerifyIdentity resolves identity to an agent id.
func (h *Hub) VerifyIdentity(identity string) (string, error) {
	identity = strings.TrimSpace(identity)
	if identity == "" {
		return "", ErrEmptyIdentity
	}
	if h.signKey == "" {
		return utils.AgentIDFromIdentity(identity), nil
	}

	agentID, err := utils.ValidateIdentityToken(identity, h.signKey, TokenIssuer)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidIdentity, err)
	}
	return agentID, nil
}

// Join registers a session whose outbound frames go through send.
func (h *Hub) Join(send SendFunc) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextID++
	s := &Session{id: h.nextID, hub: h, send: send}
	h.sessions[s.id] = s
	h.logger.Debug().Uint64("session", s.id).Int("sessions", len(h.sessions)).Msg("session joined")
	return s
}

// Leave removes s. Leaving twice is a no-op.
func (h *Hub) Leave(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.sessions[s.id]; !ok {
		return
	}
	delete(h.sessions, s.id)
	h.logger.Debug().Uint64("session", s.id).Int("sessions", len(h.sessions)).Msg("session left")
}

// Sessions returns the number of joined sessions.
func (h *Hub) Sessions() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Append stores payload in the log of dataType.
func (h *Hub) Append(dataType string, payload json.RawMessage) (Record, error) {
	if dataType == "" {
		return Record{}, ErrUnknownType
	}
	if !json.Valid(payload) {
		return Record{}, ErrInvalidPayload
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	rec := Record{
		DataType:   dataType,
		Payload:    append(json.RawMessage(nil), payload...),
		ReceivedAt: h.now().UTC(),
	}
	h.records[dataType] = append(h.records[dataType], rec)
	return rec, nil
}

// Since returns the payloads of dataType received strictly after since, in
// receive order. A zero since returns the whole log.
func (h *Hub) Since(dataType string, since time.Time) []json.RawMessage {
	h.mu.RLock()
	defer h.mu.RUnlock()

	entries := h.records[dataType]
	out := make([]json.RawMessage, 0, len(entries))
	for _, rec := range entries {
		if rec.ReceivedAt.After(since) {
			out = append(out, rec.Payload)
		}
	}
	return out
}

// broadcast sends event to every authenticated session except from.
func (h *Hub) broadcast(from *Session, event string, payload json.RawMessage) {
	h.mu.RLock()
	targets := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		if s != from && s.isAuthenticated() {
			targets = append(targets, s)
		}
	}
	h.mu.RUnlock()

	for _, s := range targets {
		s.emit(event, payload)
	}
}

// ParseSince parses a lastSync/since value. An empty value is the zero time.
func ParseSince(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrInvalidLastSync, err)
	}
	return t, nil
}

func kindTable(kinds []string) map[string]string {
	table := make(map[string]string, len(kinds))
	for _, kind := range kinds {
		table[models.DataType(kind)] = kind
	}
	return table
}

// kindOf maps dataType back to the kind registered for it. Unregistered
// dataTypes lose their plural "s".
func (h *Hub) kindOf(dataType string) string {
	h.mu.RLock()
	kind, ok := h.kinds[dataType]
	h.mu.RUnlock()
	if ok {
		return kind
	}
	return strings.TrimSuffix(dataType, "s")
}
