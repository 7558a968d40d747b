package network

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/go-call-sync/internal/logger"
)

func TestObserver_OneCallPerTransition(t *testing.T) {
	o := NewObserver(true, logger.Nop())

	var onlineCalls, offlineCalls atomic.Int32
	o.OnOnline(func() { onlineCalls.Add(1) })
	o.OnOffline(func() { offlineCalls.Add(1) })

	// repeated raw signals of the same state
	o.Set(true)
	o.Set(true)
	assert.Equal(t, int32(0), onlineCalls.Load())

	o.Set(false)
	o.Set(false)
	o.Set(false)
	assert.Equal(t, int32(1), offlineCalls.Load())
	assert.False(t, o.IsOnline())

	o.Set(true)
	assert.Equal(t, int32(1), onlineCalls.Load())
	assert.True(t, o.IsOnline())
}

func TestObserver_HundredTogglesKeepListenersStable(t *testing.T) {
	o := NewObserver(false, logger.Nop())

	var onlineCalls atomic.Int32
	o.OnOnline(func() { onlineCalls.Add(1) })
	o.OnOffline(func() {})
	before := o.ListenerCount()

	for i := 0; i < 100; i++ {
		o.Set(true)
		o.Set(false)
	}

	assert.Equal(t, before, o.ListenerCount())
	assert.Equal(t, int32(100), onlineCalls.Load())
}

func TestObserver_Deregister(t *testing.T) {
	o := NewObserver(false, logger.Nop())

	var calls atomic.Int32
	remove := o.OnOnline(func() { calls.Add(1) })
	assert.Equal(t, 1, o.ListenerCount())

	remove()
	remove()
	assert.Equal(t, 0, o.ListenerCount())

	o.Set(true)
	assert.Equal(t, int32(0), calls.Load())
}

func TestObserver_PanickingListener(t *testing.T) {
	o := NewObserver(false, logger.Nop())

	var calls atomic.Int32
	o.OnOnline(func() { panic("boom") })
	o.OnOnline(func() { calls.Add(1) })

	assert.NotPanics(t, func() { o.Set(true) })
	assert.Equal(t, int32(1), calls.Load())
}

func TestObserver_ListenerMaySubscribe(t *testing.T) {
	o := NewObserver(false, logger.Nop())

	o.OnOnline(func() {
		// listeners run outside the lock
		o.OnOffline(func() {})
	})

	o.Set(true)
	assert.Equal(t, 2, o.ListenerCount())
}
