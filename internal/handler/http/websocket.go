package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/models"
)

var errSendQueueFull = errors.New("send queue full")

const writeWait = 10 * time.Second

// serveWS upgrades the request and pumps frames between the socket and a hub
// session until either side closes.
func (h *Handler) serveWS(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// the upgrader has already replied with an HTTP error
		log.Err(err).Str("func", "Handler.serveWS").Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	out := make(chan models.Frame, sendBuffer)
	done := make(chan struct{})
	var closeOnce sync.Once
	stop := func() { closeOnce.Do(func() { close(done) }) }

	session := h.hub.Join(func(frame models.Frame) error {
		select {
		case <-done:
			return websocket.ErrCloseSent
		default:
		}
		select {
		case out <- frame:
			return nil
		default:
			return errSendQueueFull
		}
	})
	defer h.hub.Leave(session)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer stop()
		for {
			select {
			case <-done:
				return
			case frame := <-out:
				raw, err := json.Marshal(frame)
				if err != nil {
					continue
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
					log.Debug().Err(err).Str("func", "Handler.serveWS").Msg("write failed")
					// unblocks the read loop
					_ = conn.Close()
					return
				}
			}
		}
	}()

	for {
		msgType, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug().Err(err).Str("func", "Handler.serveWS").Msg("read loop ended")
			}
			break
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var frame models.Frame
		if err := json.Unmarshal(raw, &frame); err != nil || frame.Event == "" {
			log.Warn().Str("func", "Handler.serveWS").Msg("malformed frame dropped")
			continue
		}
		session.Handle(frame)
	}

	stop()
	wg.Wait()
}
