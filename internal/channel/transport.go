package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-call-sync/models"
)

// run owns one Connect call: it dials, serves the connection and reconnects
// until the retry ceiling is hit or ctx is canceled.
func (m *Manager) run(ctx context.Context, gen uint64, identity string, wasConnected bool) {
	defer m.wg.Done()

	if wasConnected {
		m.emit(gen, models.EventDisconnected, emptyObject)
	}

	// the first sequence allows the initial dial plus the retries
	limit := m.cfg.ReconnectAttempts + 1
	reconnecting := false
	dials := 0

	for {
		m.update(gen, func() { m.state = models.Connecting })

		dials++
		conn, err := m.dial(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			m.logger.Warn().Err(err).
				Str("func", "Manager.run").
				Int("attempt", dials).
				Int("limit", limit).
				Msg("dial failed")

			if dials >= limit {
				m.giveUp(gen, dials)
				return
			}
			if !sleep(ctx, m.cfg.ReconnectDelay) {
				return
			}
			continue
		}

		if dropped := m.serve(ctx, gen, conn, identity, reconnecting, dials); !dropped {
			return
		}

		reconnecting = true
		dials = 0
		limit = m.cfg.ReconnectAttempts
		if limit == 0 {
			m.giveUp(gen, 0)
			return
		}
		if !sleep(ctx, m.cfg.ReconnectDelay) {
			return
		}
	}
}

func (m *Manager) giveUp(gen uint64, attempts int) {
	m.logger.Error().Str("func", "Manager.giveUp").Int("attempts", attempts).Msg("reconnect attempts exhausted")
	if m.update(gen, func() { m.state = models.Disconnected }) {
		m.emit(gen, models.EventReconnectFailed, mustJSON(map[string]int{"attempts": attempts}))
	}
}

func (m *Manager) dial(ctx context.Context) (*websocket.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, m.cfg.Timeout)
	defer cancel()

	conn, resp, err := m.dialer.DialContext(dialCtx, m.cfg.URL, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("error dialing %s: %w", m.cfg.URL, err)
	}
	return conn, nil
}

// serve runs one transport connection. It reports whether the connection
// dropped on its own, as opposed to being torn down through ctx.
func (m *Manager) serve(ctx context.Context, gen uint64, conn *websocket.Conn, identity string, reconnecting bool, attempt int) bool {
	connCtx, cancel := context.WithCancel(ctx)

	outbox := make(chan []byte, sendQueueSize)
	live := m.update(gen, func() {
		m.state = models.Connected
		m.authenticated = false
		m.outbox = outbox
	})
	if !live {
		cancel()
		conn.Close()
		return false
	}
	conn.SetReadLimit(maxFrameSize)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-connCtx.Done()
		// unblocks ReadMessage
		conn.Close()
	}()

	if err := m.writeFrame(conn, models.EventAuthenticate, models.AuthenticateRequest{Identity: identity}); err != nil {
		m.logger.Err(err).Str("func", "Manager.serve").Msg("error writing authenticate")
		cancel()
		wg.Wait()
		return m.drop(ctx, gen)
	}
	m.logger.Info().Str("func", "Manager.serve").Bool("reconnect", reconnecting).Msg("transport connected, authenticate sent")

	m.emit(gen, models.EventConnected, emptyObject)
	if reconnecting {
		m.emit(gen, models.EventReconnected, mustJSON(models.ReconnectedEvent{AttemptNumber: attempt}))
	}
	if m.cfg.AssumeAuthenticated {
		if m.update(gen, func() { m.authenticated = true }) {
			m.emit(gen, models.EventAuthenticated, emptyObject)
		}
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer cancel()
		m.writeLoop(connCtx, conn, outbox)
	}()

	m.readLoop(connCtx, gen, conn)
	cancel()
	wg.Wait()

	return m.drop(ctx, gen)
}

func (m *Manager) drop(ctx context.Context, gen uint64) bool {
	if ctx.Err() != nil {
		return false
	}

	changed := m.update(gen, func() {
		m.state = models.Disconnected
		m.authenticated = false
		m.outbox = nil
	})
	if changed {
		m.logger.Warn().Str("func", "Manager.drop").Msg("transport disconnected")
		m.emit(gen, models.EventDisconnected, emptyObject)
	}
	return changed
}

func (m *Manager) writeLoop(ctx context.Context, conn *websocket.Conn, outbox <-chan []byte) {
	var tick <-chan time.Time
	if m.cfg.PingInterval > 0 {
		ticker := time.NewTicker(m.cfg.PingInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case raw := <-outbox:
			if err := m.write(conn, raw); err != nil {
				m.logger.Debug().Err(err).Str("func", "Manager.writeLoop").Msg("write failed")
				return
			}
		case <-tick:
			if err := m.writeFrame(conn, models.EventPing, nil); err != nil {
				m.logger.Debug().Err(err).Str("func", "Manager.writeLoop").Msg("ping failed")
				return
			}
		}
	}
}

func (m *Manager) readLoop(ctx context.Context, gen uint64, conn *websocket.Conn) {
	for {
		conn.SetReadDeadline(time.Now().Add(m.cfg.Timeout))
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				m.logger.Debug().Err(err).Str("func", "Manager.readLoop").Msg("read failed")
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var frame models.Frame
		if err = json.Unmarshal(raw, &frame); err != nil || frame.Event == "" {
			m.logger.Warn().Err(err).Str("func", "Manager.readLoop").Msg("undecodable frame skipped")
			continue
		}
		if isLocalEvent(frame.Event) {
			m.logger.Warn().Str("func", "Manager.readLoop").Str("event", frame.Event).Msg("reserved event name from remote skipped")
			continue
		}
		if len(frame.Data) == 0 {
			frame.Data = emptyObject
		}

		switch frame.Event {
		case models.EventAuthenticated:
			m.update(gen, func() { m.authenticated = true })
		case models.EventAuthError:
			m.update(gen, func() { m.authenticated = false })
			m.logger.Warn().Str("func", "Manager.readLoop").RawJSON("data", frame.Data).Msg("authentication rejected")
		}

		m.emit(gen, frame.Event, frame.Data)
	}
}

func (m *Manager) writeFrame(conn *websocket.Conn, event string, payload any) error {
	frame, err := models.NewFrame(event, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return m.write(conn, raw)
}

func (m *Manager) write(conn *websocket.Conn, raw []byte) error {
	conn.SetWriteDeadline(time.Now().Add(m.cfg.Timeout))
	return conn.WriteMessage(websocket.TextMessage, raw)
}

func isLocalEvent(event string) bool {
	switch event {
	case models.EventConnected, models.EventDisconnected, models.EventReconnected, models.EventReconnectFailed:
		return true
	}
	return false
}
