package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-call-sync/internal/relay"
)

var errorStatusMap = map[error]int{
	relay.ErrInvalidLastSync:  http.StatusBadRequest,
	relay.ErrUnknownType:      http.StatusBadRequest,
	relay.ErrInvalidPayload:   http.StatusBadRequest,
	relay.ErrEmptyIdentity:    http.StatusUnauthorized,
	relay.ErrInvalidIdentity:  http.StatusUnauthorized,
	relay.ErrNotAuthenticated: http.StatusUnauthorized,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}
