// Package network tracks host connectivity and notifies listeners on
// online/offline transitions.
package network

import (
	"sync"

	"github.com/MKhiriev/go-call-sync/internal/logger"
)

// Listener is called once per observed transition.
type Listener func()

// Observer de-duplicates raw connectivity signals fed through [Observer.Set]
// into one listener call per state change.
type Observer struct {
	mu        sync.Mutex
	online    bool
	nextID    uint64
	onOnline  map[uint64]Listener
	onOffline map[uint64]Listener
	logger    *logger.Logger
}

// NewObserver returns an observer starting in the given state.
func NewObserver(online bool, log *logger.Logger) *Observer {
	return &Observer{
		online:    online,
		onOnline:  make(map[uint64]Listener),
		onOffline: make(map[uint64]Listener),
		logger:    log.WithComponent("network"),
	}
}

// IsOnline reports the last observed state.
func (o *Observer) IsOnline() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

// OnOnline registers h for offline to online transitions and returns its
// deregistration func.
func (o *Observer) OnOnline(h Listener) (remove func()) {
	return o.register(o.onOnline, h)
}

// OnOffline registers h for online to offline transitions and returns its
// deregistration func.
func (o *Observer) OnOffline(h Listener) (remove func()) {
	return o.register(o.onOffline, h)
}

func (o *Observer) register(set map[uint64]Listener, h Listener) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	set[id] = h

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		delete(set, id)
	}
}

// ListenerCount returns the number of registered online and offline listeners.
func (o *Observer) ListenerCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.onOnline) + len(o.onOffline)
}

// Set records a raw connectivity signal. Listeners run on the caller's
// goroutine, outside the observer lock, only when the state changes.
func (o *Observer) Set(online bool) {
	o.mu.Lock()
	if o.online == online {
		o.mu.Unlock()
		return
	}
	o.online = online

	set := o.onOffline
	if online {
		set = o.onOnline
	}
	listeners := make([]Listener, 0, len(set))
	for _, h := range set {
		listeners = append(listeners, h)
	}
	o.mu.Unlock()

	o.logger.Info().Str("func", "Observer.Set").Bool("online", online).Msg("connectivity changed")

	for _, h := range listeners {
		o.call(h)
	}
}

func (o *Observer) call(h Listener) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error().Str("func", "Observer.call").Interface("panic", r).Msg("network listener panicked")
		}
	}()
	h()
}
