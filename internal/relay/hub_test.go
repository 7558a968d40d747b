package relay

import (
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/internal/utils"
	"github.com/MKhiriev/go-call-sync/models"
)

type inbox struct {
	mu     sync.Mutex
	frames []models.Frame
}

func (i *inbox) send(f models.Frame) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.frames = append(i.frames, f)
	return nil
}

func (i *inbox) last(t *testing.T) models.Frame {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	require.NotEmpty(t, i.frames)
	return i.frames[len(i.frames)-1]
}

func (i *inbox) events() []string {
	i.mu.Lock()
	defer i.mu.Unlock()
	out := make([]string, 0, len(i.frames))
	for _, f := range i.frames {
		out = append(out, f.Event)
	}
	return out
}

func frame(event, data string) models.Frame {
	return models.Frame{Event: event, Data: json.RawMessage(data)}
}

// clock returns increasing timestamps one second apart.
func clock(start time.Time) func() time.Time {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(time.Second)
		return t
	}
}

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestHub(signKey string) *Hub {
	h := NewHub(config.Server{TokenSignKey: signKey}, logger.Nop())
	h.now = clock(t0)
	return h
}

func joinAuthenticated(t *testing.T, h *Hub, identity string) (*Session, *inbox) {
	t.Helper()
	in := &inbox{}
	s := h.Join(in.send)
	s.Handle(frame(models.EventAuthenticate, `{"identity":"`+identity+`"}`))
	require.Equal(t, models.EventAuthenticated, in.last(t).Event)
	return s, in
}

func TestSession_Authenticate(t *testing.T) {
	t.Run("plain identity", func(t *testing.T) {
		h := newTestHub("")
		s, _ := joinAuthenticated(t, h, "agent-1")
		assert.Equal(t, "agent-1", s.AgentID())
	})

	t.Run("empty identity", func(t *testing.T) {
		h := newTestHub("")
		in := &inbox{}
		s := h.Join(in.send)
		s.Handle(frame(models.EventAuthenticate, `{"identity":""}`))

		got := in.last(t)
		assert.Equal(t, models.EventAuthError, got.Event)
		assert.JSONEq(t, `{"message":"empty identity"}`, string(got.Data))
	})

	t.Run("signed identity", func(t *testing.T) {
		h := newTestHub("relay-secret")
		token, err := utils.GenerateIdentityToken(TokenIssuer, "agent-9", time.Hour, "relay-secret")
		require.NoError(t, err)

		s, _ := joinAuthenticated(t, h, token)
		assert.Equal(t, "agent-9", s.AgentID())
	})

	t.Run("unsigned identity with sign key", func(t *testing.T) {
		h := newTestHub("relay-secret")
		in := &inbox{}
		s := h.Join(in.send)
		s.Handle(frame(models.EventAuthenticate, `{"identity":"agent-1"}`))

		assert.Equal(t, models.EventAuthError, in.last(t).Event)

		s.Handle(frame("call_update", `{"id":1}`))
		assert.Equal(t, models.EventAuthError, in.last(t).Event)
		assert.Empty(t, h.Since("calls", time.Time{}))
	})
}

func TestSession_Ping(t *testing.T) {
	h := newTestHub("")
	in := &inbox{}
	h.Join(in.send).Handle(frame(models.EventPing, `{}`))

	assert.Equal(t, []string{models.EventPong}, in.events())
}

func TestSession_UpdateBroadcasts(t *testing.T) {
	h := newTestHub("")
	a, aIn := joinAuthenticated(t, h, "agent-a")
	_, bIn := joinAuthenticated(t, h, "agent-b")

	unauth := &inbox{}
	h.Join(unauth.send)

	a.Handle(frame("call_update", `{"id":1,"status":"ringing"}`))

	got := bIn.last(t)
	assert.Equal(t, "call_updated", got.Event)
	assert.JSONEq(t, `{"id":1,"status":"ringing"}`, string(got.Data))
	assert.Equal(t, []string{models.EventAuthenticated}, aIn.events(), "sender does not get its own update")
	assert.Empty(t, unauth.events())
	assert.Len(t, h.Since("calls", time.Time{}), 1)
}

func TestSession_SyncRequest(t *testing.T) {
	h := newTestHub("")
	a, aIn := joinAuthenticated(t, h, "agent-a")

	a.Handle(frame("call_update", `{"id":1}`)) // t0
	a.Handle(frame("call_update", `{"id":2}`)) // t0+1s
	a.Handle(frame("lead_update", `{"id":3}`))

	tests := []struct {
		name      string
		request   string
		wantEvent string
		wantData  string
	}{
		{
			name:      "everything",
			request:   `{"type":"call","lastSync":"","identity":"agent-a"}`,
			wantEvent: models.EventSyncResponse,
			wantData:  `{"type":"call","updates":[{"id":1},{"id":2}]}`,
		},
		{
			name:      "after watermark",
			request:   `{"type":"call","lastSync":"2026-03-01T09:00:00Z","identity":"agent-a"}`,
			wantEvent: models.EventSyncResponse,
			wantData:  `{"type":"call","updates":[{"id":2}]}`,
		},
		{
			name:      "nothing new",
			request:   `{"type":"reminder","lastSync":"","identity":"agent-a"}`,
			wantEvent: models.EventSyncResponse,
			wantData:  `{"type":"reminder","updates":[]}`,
		},
		{
			name:      "missing type",
			request:   `{"lastSync":""}`,
			wantEvent: models.EventSyncError,
			wantData:  `{"message":"empty or unknown type"}`,
		},
		{
			name:      "bad watermark",
			request:   `{"type":"call","lastSync":"yesterday"}`,
			wantEvent: models.EventSyncError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a.Handle(frame(models.EventSyncRequest, tt.request))

			got := aIn.last(t)
			assert.Equal(t, tt.wantEvent, got.Event)
			if tt.wantData != "" {
				assert.JSONEq(t, tt.wantData, string(got.Data))
			}
		})
	}
}

func TestSession_OfflineSync(t *testing.T) {
	h := newTestHub("")
	a, aIn := joinAuthenticated(t, h, "agent-a")
	_, bIn := joinAuthenticated(t, h, "agent-b")

	a.Handle(frame(models.EventOfflineSync, `{"identity":"agent-a","calls":[{"id":1},{"id":2}],"leads":[{"id":"x"}]}`))

	got := aIn.last(t)
	assert.Equal(t, models.EventOfflineSyncResponse, got.Event)
	assert.JSONEq(t, `{"results":{"calls":{"accepted":2},"leads":{"accepted":1}}}`, string(got.Data))

	assert.Len(t, h.Since("calls", time.Time{}), 2)
	assert.Len(t, h.Since("leads", time.Time{}), 1)
	assert.ElementsMatch(t,
		[]string{models.EventAuthenticated, "call_updated", "call_updated", "lead_updated"},
		bIn.events())
}

func TestSession_OfflineSyncKindNames(t *testing.T) {
	tests := []struct {
		name      string
		register  []string
		live      string
		dataType  string
		wantEvent string
	}{
		{name: "default kind", dataType: "reminders", wantEvent: "reminder_updated"},
		{name: "registered kind ending in s", register: []string{"status"}, dataType: "status", wantEvent: "status_updated"},
		{name: "kind learned from live update", live: "address", dataType: "address", wantEvent: "address_updated"},
		{name: "unregistered plural", dataType: "notes", wantEvent: "note_updated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHub("")
			h.RegisterKinds(tt.register...)
			a, _ := joinAuthenticated(t, h, "agent-a")
			_, bIn := joinAuthenticated(t, h, "agent-b")

			if tt.live != "" {
				a.Handle(frame(models.UpdateEvent(tt.live), `{"id":0}`))
				require.Equal(t, models.UpdatedEvent(tt.live), bIn.last(t).Event)
			}

			a.Handle(frame(models.EventOfflineSync, `{"identity":"agent-a","`+tt.dataType+`":[{"id":1}]}`))

			assert.Equal(t, tt.wantEvent, bIn.last(t).Event)
		})
	}
}

func TestSession_OfflineSyncErrors(t *testing.T) {
	h := newTestHub("")

	in := &inbox{}
	h.Join(in.send).Handle(frame(models.EventOfflineSync, `{"calls":[{"id":1}]}`))
	assert.Equal(t, models.EventOfflineSyncError, in.last(t).Event)

	a, aIn := joinAuthenticated(t, h, "agent-a")
	a.Handle(frame(models.EventOfflineSync, `{"calls":{"id":1}}`))
	assert.Equal(t, models.EventOfflineSyncError, aIn.last(t).Event)

	a.Handle(frame(models.EventOfflineSync, `[]`))
	assert.Equal(t, models.EventOfflineSyncError, aIn.last(t).Event)
}

func TestHub_JoinLeave(t *testing.T) {
	h := newTestHub("")
	s1 := h.Join((&inbox{}).send)
	s2 := h.Join((&inbox{}).send)
	assert.Equal(t, 2, h.Sessions())

	h.Leave(s1)
	h.Leave(s1)
	assert.Equal(t, 1, h.Sessions())

	h.Leave(s2)
	assert.Zero(t, h.Sessions())
}

func TestHub_Append(t *testing.T) {
	h := newTestHub("")

	_, err := h.Append("", json.RawMessage(`{}`))
	assert.ErrorIs(t, err, ErrUnknownType)

	_, err = h.Append("calls", json.RawMessage(`{oops`))
	assert.ErrorIs(t, err, ErrInvalidPayload)

	rec, err := h.Append("calls", json.RawMessage(`{"id":1}`))
	require.NoError(t, err)
	assert.Equal(t, t0, rec.ReceivedAt)
}

func TestHub_SendErrorIsIgnored(t *testing.T) {
	h := newTestHub("")
	s := h.Join(func(models.Frame) error { return errors.New("peer gone") })

	assert.NotPanics(t, func() { s.Handle(frame(models.EventPing, `{}`)) })
}

func TestParseSince(t *testing.T) {
	got, err := ParseSince("")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = ParseSince("2026-03-01T09:00:00.5Z")
	require.NoError(t, err)
	assert.Equal(t, t0.Add(500*time.Millisecond), got)

	_, err = ParseSince("03/01/2026")
	assert.ErrorIs(t, err, ErrInvalidLastSync)
}
