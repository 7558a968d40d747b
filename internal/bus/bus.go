// Package bus is the process-wide fan-out of push events and sync status.
//
// Every subscriber owns a buffered queue drained by its own goroutine, so a
// slow or panicking consumer never delays the publisher or other consumers.
// When a subscriber queue is full the event is dropped for that subscriber
// and the drop is logged.
package bus

import (
	"sync"
	"sync/atomic"

	"github.com/MKhiriev/go-call-sync/internal/logger"
)

// AllTopics subscribes to every published topic.
const AllTopics = "*"

// DefaultBuffer is the per-subscriber queue size used when New gets a
// non-positive value.
const DefaultBuffer = 64

// Event is one published value.
type Event struct {
	Topic   string
	Payload any
}

// Handler consumes events of a subscription.
type Handler func(Event)

type subscriber struct {
	id      uint64
	topic   string
	queue   chan Event
	handler Handler
	once    sync.Once
}

// Bus is safe for concurrent use.
type Bus struct {
	mu      sync.RWMutex
	subs    map[string]map[uint64]*subscriber
	nextID  uint64
	buffer  int
	closed  bool
	dropped atomic.Uint64
	wg      sync.WaitGroup
	logger  *logger.Logger
}

// New returns an empty bus with the given per-subscriber buffer.
func New(buffer int, log *logger.Logger) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Bus{
		subs:   make(map[string]map[uint64]*subscriber),
		buffer: buffer,
		logger: log.WithComponent("bus"),
	}
}

// Subscribe registers h for topic (or [AllTopics]) and returns the function
// that removes the subscription. Events of one subscription are delivered in
// publish order.
func (b *Bus) Subscribe(topic string, h Handler) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return func() {}
	}

	b.nextID++
	sub := &subscriber{
		id:      b.nextID,
		topic:   topic,
		queue:   make(chan Event, b.buffer),
		handler: h,
	}
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[uint64]*subscriber)
	}
	b.subs[topic][sub.id] = sub

	b.wg.Add(1)
	go b.drain(sub)

	return func() { b.remove(sub) }
}

func (b *Bus) remove(sub *subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if topicSubs, ok := b.subs[sub.topic]; ok {
		delete(topicSubs, sub.id)
		if len(topicSubs) == 0 {
			delete(b.subs, sub.topic)
		}
	}
	sub.once.Do(func() { close(sub.queue) })
}

func (b *Bus) drain(sub *subscriber) {
	defer b.wg.Done()
	for ev := range sub.queue {
		b.deliver(sub, ev)
	}
}

func (b *Bus) deliver(sub *subscriber, ev Event) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error().
				Str("func", "Bus.deliver").
				Str("topic", ev.Topic).
				Interface("panic", r).
				Msg("bus subscriber panicked")
		}
	}()
	sub.handler(ev)
}

// Publish hands payload to every subscriber of topic and of [AllTopics]
// without blocking.
func (b *Bus) Publish(topic string, payload any) {
	ev := Event{Topic: topic, Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return
	}
	b.offer(b.subs[topic], ev)
	if topic != AllTopics {
		b.offer(b.subs[AllTopics], ev)
	}
}

func (b *Bus) offer(subs map[uint64]*subscriber, ev Event) {
	for _, sub := range subs {
		select {
		case sub.queue <- ev:
		default:
			b.dropped.Add(1)
			b.logger.Warn().
				Str("func", "Bus.Publish").
				Str("topic", ev.Topic).
				Uint64("subscriber", sub.id).
				Msg("subscriber queue full, event dropped")
		}
	}
}

// Subscribers returns the number of live subscriptions for topic.
func (b *Bus) Subscribers(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

// Dropped returns how many deliveries were discarded because a queue was full.
func (b *Bus) Dropped() uint64 {
	return b.dropped.Load()
}

// Close removes every subscription and waits until queued events are
// delivered.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	for _, topicSubs := range b.subs {
		for _, sub := range topicSubs {
			sub.once.Do(func() { close(sub.queue) })
		}
	}
	b.subs = make(map[string]map[uint64]*subscriber)
	b.mu.Unlock()

	b.wg.Wait()
}
