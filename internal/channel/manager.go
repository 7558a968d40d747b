// Package channel manages the persistent duplex connection to the remote
// service.
//
// A [Manager] owns one websocket at a time. Every text message is one JSON
// [models.Frame]. Inbound frames and local lifecycle events
// (connected, disconnected, reconnected, reconnect_failed) are dispatched to
// handlers registered with [Manager.On], synchronously and in receive order,
// from the goroutine that reads the current connection.
//
// Handlers may call any Manager method except Close.
package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/models"
)

const (
	sendQueueSize = 256
	maxFrameSize  = 4 << 20
)

var emptyObject = json.RawMessage(`{}`)

// Handler receives the raw data of one event.
type Handler func(data json.RawMessage)

// Manager is safe for concurrent use.
type Manager struct {
	cfg    config.Channel
	dialer *websocket.Dialer
	logger *logger.Logger

	handlersMu    sync.RWMutex
	handlers      map[string]map[uint64]Handler
	nextHandlerID uint64

	mu            sync.Mutex
	state         models.ConnectionState
	authenticated bool
	identity      string
	gen           uint64
	cancel        context.CancelFunc
	outbox        chan []byte
	closed        bool

	wg sync.WaitGroup
}

// NewManager returns a disconnected manager. Nothing is dialed until
// [Manager.Connect].
func NewManager(cfg config.Channel, log *logger.Logger) *Manager {
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultChannelTimeout
	}
	if cfg.ReconnectAttempts < 0 {
		cfg.ReconnectAttempts = 0
	}

	return &Manager{
		cfg: cfg,
		dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: cfg.Timeout,
		},
		logger:   log.WithComponent("channel"),
		handlers: make(map[string]map[uint64]Handler),
	}
}

// On registers h for event and returns the function removing it. Handlers of
// one event run in registration order.
func (m *Manager) On(event string, h Handler) (off func()) {
	m.handlersMu.Lock()
	defer m.handlersMu.Unlock()

	m.nextHandlerID++
	id := m.nextHandlerID
	if m.handlers[event] == nil {
		m.handlers[event] = make(map[uint64]Handler)
	}
	m.handlers[event][id] = h

	var once sync.Once
	return func() {
		once.Do(func() {
			m.handlersMu.Lock()
			defer m.handlersMu.Unlock()
			delete(m.handlers[event], id)
			if len(m.handlers[event]) == 0 {
				delete(m.handlers, event)
			}
		})
	}
}

// HandlerCount returns the number of handlers registered for event.
func (m *Manager) HandlerCount(event string) int {
	m.handlersMu.RLock()
	defer m.handlersMu.RUnlock()
	return len(m.handlers[event])
}

// Connect tears down the current connection, if any, and starts connecting
// with identity. It returns immediately; progress is reported through
// lifecycle events.
func (m *Manager) Connect(identity string) error {
	if identity == "" {
		return ErrEmptyIdentity
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}

	wasConnected := m.state == models.Connected
	if m.cancel != nil {
		m.cancel()
	}
	m.gen++
	gen := m.gen
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.identity = identity
	m.state = models.Connecting
	m.authenticated = false
	m.outbox = nil
	m.wg.Add(1)
	m.mu.Unlock()

	m.logger.Info().Str("func", "Manager.Connect").Str("url", m.cfg.URL).Msg("connecting")

	go m.run(ctx, gen, identity, wasConnected)
	return nil
}

// IsConnected reports whether a transport is currently up.
func (m *Manager) IsConnected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == models.Connected
}

// IsAuthenticated reports whether the current connection is authenticated.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state == models.Connected && m.authenticated
}

// State returns the connection state.
func (m *Manager) State() models.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Identity returns the identity of the latest Connect call.
func (m *Manager) Identity() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity
}

// Send encodes payload as the data of event and queues it for the writer of
// the current connection. Nothing is kept across disconnects.
func (m *Manager) Send(event string, payload any) error {
	frame, err := models.NewFrame(event, payload)
	if err != nil {
		return fmt.Errorf("error encoding %s payload: %w", event, err)
	}
	raw, err := json.Marshal(frame)
	if err != nil {
		return fmt.Errorf("error encoding %s frame: %w", event, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != models.Connected || m.outbox == nil {
		return ErrNotConnected
	}
	select {
	case m.outbox <- raw:
		return nil
	default:
		return ErrSendQueueFull
	}
}

// Close disconnects and waits for the transport goroutines. It must not be
// called from a handler.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.gen++
	if m.cancel != nil {
		m.cancel()
	}
	m.state = models.Disconnected
	m.authenticated = false
	m.outbox = nil
	m.mu.Unlock()

	m.wg.Wait()
	m.logger.Info().Str("func", "Manager.Close").Msg("channel closed")
	return nil
}

// current reports whether gen is still the live connection generation.
func (m *Manager) current(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.gen == gen && !m.closed
}

// update applies fn to the manager state if gen is still current.
func (m *Manager) update(gen uint64, fn func()) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.gen != gen || m.closed {
		return false
	}
	fn()
	return true
}

func (m *Manager) emit(gen uint64, event string, data json.RawMessage) {
	if !m.current(gen) {
		return
	}
	m.dispatch(event, data)
}

func (m *Manager) dispatch(event string, data json.RawMessage) {
	m.handlersMu.RLock()
	ids := make([]uint64, 0, len(m.handlers[event]))
	for id := range m.handlers[event] {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	handlers := make([]Handler, 0, len(ids))
	for _, id := range ids {
		handlers = append(handlers, m.handlers[event][id])
	}
	m.handlersMu.RUnlock()

	for _, h := range handlers {
		m.call(event, h, data)
	}
}

func (m *Manager) call(event string, h Handler, data json.RawMessage) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error().
				Str("func", "Manager.call").
				Str("event", event).
				Interface("panic", r).
				Msg("channel handler panicked")
		}
	}()
	h(data)
}

func mustJSON(v any) json.RawMessage {
	raw, err := json.Marshal(v)
	if err != nil {
		return emptyObject
	}
	return raw
}

// sleep waits for d or until ctx is done. It reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
