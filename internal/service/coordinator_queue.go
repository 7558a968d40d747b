package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-call-sync/models"
)

// Offline queues live under the dataType key as a JSON list of
// models.OfflineEnvelope. The sync cache of a dataType is a JSON object of
// records keyed by their "id".

func (c *Coordinator) enqueueLocked(kind string, data json.RawMessage) error {
	dataType := models.DataType(kind)
	queue := c.loadQueueLocked(dataType)

	item := models.OfflineEnvelope{
		ID:         c.ids.Generate(),
		DataType:   dataType,
		Payload:    append(json.RawMessage(nil), data...),
		CapturedAt: c.now().UTC(),
	}
	queue = append(queue, item)

	if err := c.saveQueueLocked(dataType, queue); err != nil {
		return err
	}

	c.pending = append(c.pending, models.PendingSyncEntry{
		ID:         item.ID,
		Kind:       kind,
		DataType:   dataType,
		CapturedAt: item.CapturedAt,
	})
	c.logger.Debug().
		Str("func", "Coordinator.enqueue").
		Str("data_type", dataType).
		Int("queued", len(queue)).
		Msg("update queued offline")
	return nil
}

func (c *Coordinator) loadQueueLocked(dataType string) []models.OfflineEnvelope {
	env, ok := c.offline.Retrieve(context.Background(), dataType)
	if !ok {
		return nil
	}
	return c.decodeQueue(dataType, env.Data)
}

func (c *Coordinator) decodeQueue(dataType string, data json.RawMessage) []models.OfflineEnvelope {
	var queue []models.OfflineEnvelope
	if err := json.Unmarshal(data, &queue); err != nil {
		c.logger.Warn().Err(err).Str("func", "Coordinator.decodeQueue").Str("data_type", dataType).Msg("unreadable offline queue")
		return nil
	}
	return queue
}

func (c *Coordinator) saveQueueLocked(dataType string, queue []models.OfflineEnvelope) error {
	ctx := context.Background()
	if len(queue) == 0 {
		return c.offline.Remove(ctx, dataType)
	}

	raw, err := json.Marshal(queue)
	if err != nil {
		return fmt.Errorf("error encoding %s queue: %w", dataType, err)
	}
	return c.offline.Store(ctx, dataType, raw)
}

// purgeLocked removes the envelopes with the given ids from a queue. Envelopes
// queued after the flush was sent stay.
func (c *Coordinator) purgeLocked(dataType string, ids []string) error {
	sent := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		sent[id] = struct{}{}
	}

	queue := c.loadQueueLocked(dataType)
	kept := queue[:0]
	for _, item := range queue {
		if _, ok := sent[item.ID]; !ok {
			kept = append(kept, item)
		}
	}
	return c.saveQueueLocked(dataType, kept)
}

func (c *Coordinator) dropPendingLocked(ids map[string]struct{}) {
	if len(ids) == 0 {
		return
	}
	kept := c.pending[:0]
	for _, entry := range c.pending {
		if _, ok := ids[entry.ID]; !ok {
			kept = append(kept, entry)
		}
	}
	c.pending = kept
}

func (c *Coordinator) loadCacheLocked(kind string) (map[string]json.RawMessage, bool) {
	env, ok := c.cache.Retrieve(context.Background(), models.DataType(kind))
	if !ok {
		return nil, false
	}

	var records map[string]json.RawMessage
	if err := json.Unmarshal(env.Data, &records); err != nil || records == nil {
		c.logger.Warn().Err(err).Str("func", "Coordinator.loadCache").Str("kind", kind).Msg("unreadable sync cache")
		return nil, false
	}
	return records, true
}

// mergeLocked overwrites cached records by id. Records without an id are
// skipped.
func (c *Coordinator) mergeLocked(kind string, updates []json.RawMessage) (int, error) {
	records, ok := c.loadCacheLocked(kind)
	if !ok {
		records = make(map[string]json.RawMessage, len(updates))
	}

	merged := 0
	for _, update := range updates {
		id, ok := recordID(update)
		if !ok {
			c.logger.Warn().Str("func", "Coordinator.merge").Str("kind", kind).Msg("record without id skipped")
			continue
		}
		records[id] = update
		merged++
	}
	if merged == 0 && ok {
		return 0, nil
	}

	raw, err := json.Marshal(records)
	if err != nil {
		return 0, fmt.Errorf("error encoding %s cache: %w", kind, err)
	}
	if err = c.cache.Store(context.Background(), models.DataType(kind), raw); err != nil {
		return 0, fmt.Errorf("error storing %s cache: %w", kind, err)
	}
	return merged, nil
}

// recordID returns the "id" field of a record as a string. Numeric ids keep
// their JSON text.
func recordID(record json.RawMessage) (string, bool) {
	var probe struct {
		ID json.RawMessage `json:"id"`
	}
	if err := json.Unmarshal(record, &probe); err != nil {
		return "", false
	}

	raw := strings.TrimSpace(string(probe.ID))
	switch {
	case raw == "" || raw == "null":
		return "", false
	case strings.HasPrefix(raw, `"`):
		var id string
		if err := json.Unmarshal(probe.ID, &id); err != nil || id == "" {
			return "", false
		}
		return id, true
	case strings.HasPrefix(raw, "{") || strings.HasPrefix(raw, "["):
		return "", false
	default:
		return raw, true
	}
}
