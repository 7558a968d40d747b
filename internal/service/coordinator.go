// Package service holds the sync coordinator: the state machine deciding
// whether an update is sent live or queued offline, and reconciling the
// offline queue and the sync cache with the remote service.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-call-sync/internal/channel"
	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/internal/store"
	"github.com/MKhiriev/go-call-sync/internal/utils"
	"github.com/MKhiriev/go-call-sync/models"
)

type opKind int

const (
	opSync opKind = iota + 1
	opFlush
)

// inflightOp is the single outstanding sync_request or offline_sync.
type inflightOp struct {
	kind opKind
	gen  uint64
	// entity is the kind of a sync_request.
	entity string
	// sent maps every flushed dataType to the envelope ids it carried.
	sent map[string][]string
	// startedAt becomes the per-kind watermark of a successful sync.
	startedAt time.Time
}

// Coordinator owns the channel and the local store namespaces. All of its
// state is guarded by one mutex; no method blocks on network I/O.
type Coordinator struct {
	channel Channel
	network NetworkObserver
	bus     Publisher
	offline store.LocalStore
	cache   store.LocalStore
	ackMode models.AckMode
	kinds   []string
	ids     *utils.UUIDGenerator
	logger  *logger.Logger
	now     func() time.Time

	// wireMu serializes ConnectSocket so handlers are never wired twice.
	wireMu sync.Mutex

	mu           sync.Mutex
	status       models.SyncStatus
	lastSync     time.Time
	kindSync     map[string]time.Time
	identity     string
	pending      []models.PendingSyncEntry
	inflight     *inflightOp
	gen          uint64
	flushPending bool
	channelOffs  []func()
	networkOffs  []func()
	closed       bool
}

// NewCoordinator wires the coordinator to the network observer right away;
// the channel is wired by [Coordinator.ConnectSocket].
func NewCoordinator(
	ch Channel,
	obs NetworkObserver,
	pub Publisher,
	storages *store.ClientStorages,
	cfg config.ClientSync,
	log *logger.Logger,
) *Coordinator {
	ackMode := cfg.AckMode
	if ackMode == "" {
		ackMode = models.AckResults
	}
	kinds := cfg.Kinds
	if len(kinds) == 0 {
		kinds = config.DefaultKinds
	}

	c := &Coordinator{
		channel: ch,
		network: obs,
		bus:     pub,
		offline: storages.Offline,
		cache:   storages.Cache,
		ackMode: ackMode,
		kinds:   append([]string(nil), kinds...),
		ids:     utils.NewUUIDGenerator(),
		logger:  log.WithComponent("coordinator"),
		now:     time.Now,

		kindSync: make(map[string]time.Time),
	}
	c.networkOffs = []func(){
		obs.OnOnline(c.handleOnline),
		obs.OnOffline(c.handleOffline),
	}

	c.logger.Debug().Str("ack_mode", string(ackMode)).Strs("kinds", c.kinds).Msg("coordinator created")
	return c
}

// ConnectSocket replaces any previous channel wiring, connects with identity
// and returns a read-only handle to the channel.
func (c *Coordinator) ConnectSocket(identity string) (*ChannelHandle, error) {
	if identity == "" {
		return nil, ErrEmptyIdentity
	}

	c.wireMu.Lock()
	defer c.wireMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrCoordinatorClosed
	}
	c.identity = identity
	offs := c.channelOffs
	c.channelOffs = nil
	c.mu.Unlock()

	for _, off := range offs {
		off()
	}

	newOffs := c.wireChannel()
	c.mu.Lock()
	c.channelOffs = newOffs
	c.mu.Unlock()

	if err := c.channel.Connect(identity); err != nil {
		c.logger.Err(err).Str("func", "Coordinator.ConnectSocket").Msg("error connecting channel")
		return nil, fmt.Errorf("error connecting channel: %w", err)
	}

	return &ChannelHandle{ch: c.channel}, nil
}

func (c *Coordinator) wireChannel() []func() {
	handlers := []struct {
		event string
		h     channel.Handler
	}{
		{models.EventConnected, c.onConnected},
		{models.EventDisconnected, c.onDisconnected},
		{models.EventReconnected, c.onReconnected},
		{models.EventReconnectFailed, c.onReconnectFailed},
		{models.EventAuthenticated, c.onAuthenticated},
		{models.EventAuthError, c.onAuthError},
		{models.EventSyncResponse, c.onSyncResponse},
		{models.EventSyncError, c.onSyncError},
		{models.EventOfflineSyncResponse, c.onOfflineSyncResponse},
		{models.EventOfflineSyncError, c.onOfflineSyncError},
	}

	offs := make([]func(), 0, len(handlers)+len(c.kinds))
	for _, entry := range handlers {
		offs = append(offs, c.channel.On(entry.event, entry.h))
	}
	for _, kind := range c.kinds {
		event := models.UpdatedEvent(kind)
		offs = append(offs, c.channel.On(event, c.fanOut(event)))
	}
	return offs
}

// IsEligible reports whether live sends are allowed: the channel must be
// connected and authenticated.
func (c *Coordinator) IsEligible() bool {
	return c.channel.IsConnected() && c.channel.IsAuthenticated()
}

// EmitUpdate sends data live as "<kind>_update" when the channel is
// eligible and accepts the frame; otherwise it appends an offline envelope
// to the "<plural kind>" queue.
func (c *Coordinator) EmitUpdate(kind string, data json.RawMessage) models.Delivery {
	log := c.logger.With().Str("func", "Coordinator.EmitUpdate").Str("kind", kind).Logger()

	if kind == "" || !json.Valid(data) {
		log.Error().Msg("update rejected: empty kind or invalid JSON payload")
		return models.DeliveryRejected
	}

	if c.IsEligible() {
		err := c.channel.Send(models.UpdateEvent(kind), data)
		if err == nil {
			return models.DeliverySent
		}
		log.Warn().Err(err).Msg("live send failed, queuing update")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.enqueueLocked(kind, data); err != nil {
		log.Err(err).Msg("error queuing update")
		return models.DeliveryRejected
	}
	return models.DeliveryQueued
}

// RequestSync asks for every record of kind changed after since. It does
// nothing unless the channel is eligible and no sync or flush is in flight.
func (c *Coordinator) RequestSync(kind, identity string, since time.Time) bool {
	if kind == "" || !c.IsEligible() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || c.status == models.SyncSyncing {
		return false
	}
	identity = c.requestIdentityLocked(identity)

	c.gen++
	c.inflight = &inflightOp{kind: opSync, gen: c.gen, entity: kind, startedAt: c.now().UTC()}
	c.setStatusLocked(models.SyncSyncing, "sync_request "+kind)

	req := models.SyncRequest{Type: kind, LastSync: formatSince(since), Identity: identity}
	if err := c.channel.Send(models.EventSyncRequest, req); err != nil {
		c.logger.Warn().Err(err).Str("func", "Coordinator.RequestSync").Msg("error sending sync_request")
		c.inflight = nil
		c.setStatusLocked(models.SyncError, reasonSendFailed)
		return false
	}

	c.logger.Debug().Str("func", "Coordinator.RequestSync").Str("kind", kind).Str("since", req.LastSync).Uint64("op", c.gen).Msg("sync requested")
	return true
}

// SendOfflineSync flushes every queued envelope in one offline_sync batch.
// It does nothing unless the channel is eligible, nothing is in flight and
// the queue is not empty.
func (c *Coordinator) SendOfflineSync(identity string) bool {
	if !c.IsEligible() {
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sendOfflineSyncLocked(identity)
}

func (c *Coordinator) sendOfflineSyncLocked(identity string) bool {
	if c.closed || c.status == models.SyncSyncing {
		return false
	}
	identity = c.requestIdentityLocked(identity)

	all, err := c.offline.GetAllOfflineData(context.Background())
	if err != nil {
		c.logger.Err(err).Str("func", "Coordinator.SendOfflineSync").Msg("error reading offline queue")
		return false
	}

	payload := map[string]any{"identity": identity}
	sent := make(map[string][]string)
	total := 0
	for dataType, env := range all {
		if dataType == "identity" {
			c.logger.Warn().Str("func", "Coordinator.SendOfflineSync").Msg("queue named identity skipped")
			continue
		}
		queue := c.decodeQueue(dataType, env.Data)
		if len(queue) == 0 {
			continue
		}

		payloads := make([]json.RawMessage, 0, len(queue))
		ids := make([]string, 0, len(queue))
		for _, item := range queue {
			payloads = append(payloads, item.Payload)
			ids = append(ids, item.ID)
		}
		payload[dataType] = payloads
		sent[dataType] = ids
		total += len(queue)
	}
	if total == 0 {
		return false
	}

	c.gen++
	c.inflight = &inflightOp{kind: opFlush, gen: c.gen, sent: sent}
	c.setStatusLocked(models.SyncSyncing, "offline_sync")

	if err = c.channel.Send(models.EventOfflineSync, payload); err != nil {
		c.logger.Warn().Err(err).Str("func", "Coordinator.SendOfflineSync").Msg("error sending offline_sync")
		c.inflight = nil
		c.setStatusLocked(models.SyncError, reasonSendFailed)
		return false
	}

	c.logger.Info().
		Str("func", "Coordinator.SendOfflineSync").
		Int("envelopes", total).
		Int("data_types", len(sent)).
		Uint64("op", c.gen).
		Msg("offline queue flushed")
	return true
}

// CancelSync abandons the in-flight request; its late response is ignored.
func (c *Coordinator) CancelSync() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight == nil {
		return false
	}
	c.abandonLocked(reasonCanceled)
	return true
}

func (c *Coordinator) abandonLocked(reason string) {
	c.logger.Warn().Str("func", "Coordinator.abandon").Uint64("op", c.inflight.gen).Str("reason", reason).Msg("in-flight request abandoned")
	c.inflight = nil
	c.gen++
	c.setStatusLocked(models.SyncError, reason)
}

// ApplyFetched merges records fetched outside the channel into the sync
// cache of kind and moves the watermark of kind to asOf. The status and the
// global watermark are left alone.
func (c *Coordinator) ApplyFetched(kind string, records []json.RawMessage, asOf time.Time) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	merged, err := c.mergeLocked(kind, records)
	if err != nil {
		return 0, err
	}
	if asOf.After(c.kindSync[kind]) {
		c.kindSync[kind] = asOf.UTC()
	}
	return merged, nil
}

// ResetLocalState drops both the offline queue and the sync cache.
func (c *Coordinator) ResetLocalState() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	ctx := context.Background()
	err := errors.Join(c.offline.ClearAll(ctx), c.cache.ClearAll(ctx))
	c.pending = nil
	c.lastSync = time.Time{}
	c.kindSync = make(map[string]time.Time)
	c.flushPending = false
	if err != nil {
		return fmt.Errorf("error resetting local state: %w", err)
	}
	return nil
}

// Close removes every listener the coordinator registered.
func (c *Coordinator) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	offs := append(c.channelOffs, c.networkOffs...)
	c.channelOffs = nil
	c.networkOffs = nil
	c.mu.Unlock()

	for _, off := range offs {
		off()
	}
}

// Status returns the current sync status.
func (c *Coordinator) Status() models.SyncStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// LastSyncTimestamp returns the watermark of the last successful sync or
// flush. It is zero before the first one.
func (c *Coordinator) LastSyncTimestamp() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSync
}

// LastSyncFor returns the time the last successful sync of kind was
// requested. It is zero before the first one.
func (c *Coordinator) LastSyncFor(kind string) time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kindSync[kind]
}

// Identity returns the identity most recently passed to ConnectSocket.
func (c *Coordinator) Identity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.identity
}

// PendingEntries returns a copy of the envelopes queued in this process and
// not yet acknowledged.
func (c *Coordinator) PendingEntries() []models.PendingSyncEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.PendingSyncEntry(nil), c.pending...)
}

// Cached returns the merged sync cache of kind keyed by record id.
func (c *Coordinator) Cached(kind string) (map[string]json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, ok := c.loadCacheLocked(kind)
	return records, ok
}

// requestIdentityLocked returns identity, or the socket identity when it is
// empty. Request identities never replace the socket identity.
func (c *Coordinator) requestIdentityLocked(identity string) string {
	if identity == "" {
		return c.identity
	}
	return identity
}

func (c *Coordinator) setStatusLocked(status models.SyncStatus, reason string) {
	c.status = status
	c.bus.Publish(models.EventSyncStatus, models.SyncStatusChange{
		Status:   status.String(),
		Reason:   reason,
		LastSync: c.lastSync,
	})
}

func formatSince(since time.Time) string {
	if since.IsZero() {
		return ""
	}
	return since.UTC().Format(time.RFC3339Nano)
}
