package http

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-call-sync/internal/logger"
)

func TestWithTraceID(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	tests := []struct {
		name    string
		traceID string
	}{
		{name: "generated"},
		{name: "propagated", traceID: "trace-from-client"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxLogger *zerolog.Logger
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxLogger = zerolog.Ctx(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			if tt.traceID != "" {
				req.Header.Set(traceIDHeader, tt.traceID)
			}
			rr := httptest.NewRecorder()
			h.withTraceID(next).ServeHTTP(rr, req)

			got := rr.Header().Get(traceIDHeader)
			if tt.traceID != "" {
				assert.Equal(t, tt.traceID, got)
			} else {
				_, err := uuid.Parse(got)
				assert.NoError(t, err)
			}
			require.NotNil(t, ctxLogger)
		})
	}
}

func TestWithLogging(t *testing.T) {
	h := &Handler{logger: logger.Nop()}

	tests := []struct {
		name         string
		status       int
		body         string
		wantContains []string
	}{
		{
			name:         "explicit status",
			status:       http.StatusBadRequest,
			body:         "bad",
			wantContains: []string{`"status":400`, `"size":3`, `"method":"GET"`, `"uri":"/api/calls"`},
		},
		{
			name:         "implicit 200",
			body:         "{}",
			wantContains: []string{`"status":200`, `"size":2`, `"upgraded":false`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := zerolog.New(&buf)

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte(tt.body))
			})

			req := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
			req = req.WithContext(l.WithContext(req.Context()))
			h.withLogging(next).ServeHTTP(httptest.NewRecorder(), req)

			for _, want := range tt.wantContains {
				assert.Contains(t, buf.String(), want)
			}
			assert.Contains(t, buf.String(), `"duration":`)
		})
	}
}

func TestResponseWriter_WriteHeaderOnce(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	w.WriteHeader(http.StatusCreated)
	w.WriteHeader(http.StatusInternalServerError)

	assert.Equal(t, http.StatusCreated, w.status)
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestResponseWriter_WriteAccumulatesSize(t *testing.T) {
	rr := httptest.NewRecorder()
	w := &responseWriter{ResponseWriter: rr}

	_, err := w.Write([]byte("abc"))
	require.NoError(t, err)
	_, err = w.Write([]byte("de"))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, w.status)
	assert.Equal(t, 5, w.size)
	assert.Equal(t, "abcde", rr.Body.String())
	assert.Same(t, http.ResponseWriter(rr), w.Unwrap())
}

type hijackRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
}

func (h *hijackRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h.hijacked = true
	server, client := net.Pipe()
	_ = client.Close()
	return server, bufio.NewReadWriter(bufio.NewReader(server), bufio.NewWriter(server)), nil
}

func TestResponseWriter_Hijack(t *testing.T) {
	t.Run("supported", func(t *testing.T) {
		under := &hijackRecorder{ResponseRecorder: httptest.NewRecorder()}
		w := &responseWriter{ResponseWriter: under}

		conn, _, err := w.Hijack()
		require.NoError(t, err)
		defer conn.Close()

		assert.True(t, under.hijacked)
		assert.True(t, w.hijacked)
		assert.Equal(t, http.StatusSwitchingProtocols, w.status)
	})

	t.Run("unsupported", func(t *testing.T) {
		w := &responseWriter{ResponseWriter: httptest.NewRecorder()}

		_, _, err := w.Hijack()
		assert.ErrorIs(t, err, errHijackUnsupported)
		assert.False(t, w.hijacked)
	})
}

func TestCheckHTTPMethod(t *testing.T) {
	router := chi.NewRouter()
	router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	router.MethodNotAllowed(CheckHTTPMethod(router))

	tests := []struct {
		method     string
		wantStatus int
	}{
		{http.MethodGet, http.StatusOK},
		{http.MethodPost, http.StatusNotFound},
		{http.MethodPut, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, "/health", nil))
			assert.Equal(t, tt.wantStatus, rr.Code)
		})
	}
}

func TestAuth_PassesThroughWithoutSignKey(t *testing.T) {
	h := newTestHandler("")

	called := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/calls", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuth_ConcurrentRequests(t *testing.T) {
	h := newTestHandler(testSignKey)
	mw := h.auth(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	const n = 20
	var wg sync.WaitGroup
	codes := make(chan int, n)
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/api/calls", nil)
			req.Header.Set("Authorization", "Bearer not-a-token")
			rr := httptest.NewRecorder()
			mw.ServeHTTP(rr, req)
			codes <- rr.Code
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Equal(t, http.StatusUnauthorized, code)
	}
}
