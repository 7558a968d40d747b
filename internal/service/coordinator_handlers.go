package service

import (
	"encoding/json"
	"slices"

	"github.com/MKhiriev/go-call-sync/internal/channel"
	"github.com/MKhiriev/go-call-sync/models"
)

func (c *Coordinator) onConnected(json.RawMessage) {
	c.logger.Info().Str("func", "Coordinator.onConnected").Msg("channel connected")
}

// onDisconnected abandons the in-flight request: a response can no longer
// arrive on the dropped transport.
func (c *Coordinator) onDisconnected(json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Warn().Str("func", "Coordinator.onDisconnected").Msg("channel disconnected")
	if c.inflight != nil {
		c.abandonLocked(reasonConnectionLost)
	}
}

func (c *Coordinator) onReconnected(data json.RawMessage) {
	var ev models.ReconnectedEvent
	_ = json.Unmarshal(data, &ev)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info().Str("func", "Coordinator.onReconnected").Int("attempt", ev.AttemptNumber).Msg("channel reconnected")
	c.flushPending = true
}

func (c *Coordinator) onReconnectFailed(data json.RawMessage) {
	c.logger.Error().Str("func", "Coordinator.onReconnectFailed").RawJSON("data", data).Msg("channel gave up reconnecting, waiting for network")
}

// onAuthenticated runs the flush deferred by an online transition or an
// automatic reconnect, once.
func (c *Coordinator) onAuthenticated(json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Info().Str("func", "Coordinator.onAuthenticated").Bool("flush_pending", c.flushPending).Msg("channel authenticated")
	if !c.flushPending {
		return
	}
	c.flushPending = false
	c.sendOfflineSyncLocked(c.identity)
}

func (c *Coordinator) onAuthError(data json.RawMessage) {
	var resp models.ErrorResponse
	_ = json.Unmarshal(data, &resp)
	c.logger.Warn().Str("func", "Coordinator.onAuthError").Str("message", resp.Message).Msg("authentication rejected, updates will be queued")
}

func (c *Coordinator) onSyncResponse(data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.logger.With().Str("func", "Coordinator.onSyncResponse").Logger()

	op := c.inflight
	if op == nil || op.kind != opSync {
		log.Debug().Msg("unsolicited sync_response ignored")
		return
	}

	var resp models.SyncResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		log.Warn().Err(err).Msg("undecodable sync_response")
		c.inflight = nil
		c.setStatusLocked(models.SyncError, reasonBadResponse)
		return
	}
	c.inflight = nil
	if resp.Type != "" && resp.Type != op.entity && resp.Type != models.DataType(op.entity) {
		log.Warn().Str("type", resp.Type).Str("expected", op.entity).Msg("sync_response for another type")
		c.setStatusLocked(models.SyncError, reasonTypeMismatch)
		return
	}

	merged, err := c.mergeLocked(op.entity, resp.Updates)
	if err != nil {
		log.Err(err).Msg("error merging sync_response")
		c.setStatusLocked(models.SyncError, err.Error())
		return
	}

	c.lastSync = c.now().UTC()
	c.kindSync[op.entity] = op.startedAt
	c.setStatusLocked(models.SyncIdle, reasonSyncDone)
	log.Info().Str("kind", op.entity).Int("merged", merged).Int("received", len(resp.Updates)).Msg("sync completed")
}

func (c *Coordinator) onSyncError(data json.RawMessage) {
	c.failInflight(opSync, data, "Coordinator.onSyncError")
}

func (c *Coordinator) onOfflineSyncError(data json.RawMessage) {
	c.failInflight(opFlush, data, "Coordinator.onOfflineSyncError")
}

// failInflight moves to Error and leaves the local store untouched.
func (c *Coordinator) failInflight(kind opKind, data json.RawMessage, fn string) {
	var resp models.ErrorResponse
	_ = json.Unmarshal(data, &resp)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inflight == nil || c.inflight.kind != kind {
		c.logger.Debug().Str("func", fn).Msg("unsolicited error ignored")
		return
	}
	c.inflight = nil

	reason := resp.Message
	if reason == "" {
		reason = "rejected by server"
	}
	c.logger.Warn().Str("func", fn).Str("message", reason).Msg("request failed")
	c.setStatusLocked(models.SyncError, reason)
}

func (c *Coordinator) onOfflineSyncResponse(data json.RawMessage) {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := c.logger.With().Str("func", "Coordinator.onOfflineSyncResponse").Logger()

	op := c.inflight
	if op == nil || op.kind != opFlush {
		log.Debug().Msg("unsolicited offline_sync_response ignored")
		return
	}

	var resp models.OfflineSyncResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		log.Warn().Err(err).Msg("undecodable offline_sync_response")
		c.inflight = nil
		c.setStatusLocked(models.SyncError, reasonBadResponse)
		return
	}
	c.inflight = nil

	acked := c.ackedDataTypes(op.sent, resp.Results)
	purged := make(map[string]struct{})
	for _, dataType := range acked {
		ids := op.sent[dataType]
		if err := c.purgeLocked(dataType, ids); err != nil {
			log.Err(err).Str("data_type", dataType).Msg("error purging acknowledged envelopes")
			c.dropPendingLocked(purged)
			c.setStatusLocked(models.SyncError, err.Error())
			return
		}
		for _, id := range ids {
			purged[id] = struct{}{}
		}
	}
	c.dropPendingLocked(purged)

	c.lastSync = c.now().UTC()
	c.setStatusLocked(models.SyncIdle, reasonFlushDone)
	log.Info().Strs("acknowledged", acked).Int("sent_types", len(op.sent)).Int("purged", len(purged)).Msg("offline sync acknowledged")
}

// ackedDataTypes applies the acknowledgment mode to a flush response and
// returns the acknowledged dataTypes in sorted order.
func (c *Coordinator) ackedDataTypes(sent map[string][]string, results map[string]json.RawMessage) []string {
	acked := make([]string, 0, len(sent))
	for dataType := range sent {
		if c.ackMode == models.AckBatch {
			acked = append(acked, dataType)
			continue
		}
		if _, ok := results[dataType]; ok {
			acked = append(acked, dataType)
		}
	}
	slices.Sort(acked)
	return acked
}

func (c *Coordinator) fanOut(event string) channel.Handler {
	return func(data json.RawMessage) {
		c.bus.Publish(event, data)
	}
}

// handleOnline retries the flush once per online transition: right away when
// the channel is eligible, otherwise after the next authentication.
func (c *Coordinator) handleOnline() {
	c.mu.Lock()
	if c.closed || c.identity == "" {
		c.mu.Unlock()
		return
	}
	identity := c.identity

	if c.IsEligible() {
		c.sendOfflineSyncLocked(identity)
		c.mu.Unlock()
		return
	}

	c.flushPending = true
	reconnect := c.channel.State() == models.Disconnected
	c.mu.Unlock()

	c.logger.Info().Str("func", "Coordinator.handleOnline").Bool("reconnect", reconnect).Msg("network online, flush deferred until authenticated")
	if reconnect {
		if err := c.channel.Connect(identity); err != nil {
			c.logger.Err(err).Str("func", "Coordinator.handleOnline").Msg("error reconnecting channel")
		}
	}
}

func (c *Coordinator) handleOffline() {
	c.logger.Info().Str("func", "Coordinator.handleOffline").Msg("network offline, updates will be queued")
}
