// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/models"
)

// Namespace prefixes sharing one KV.
const (
	OfflinePrefix = "callsync:offline:"
	CachePrefix   = "callsync:cache:"
)

type localStore struct {
	kv     KV
	prefix string
	logger *logger.Logger
	now    func() time.Time
}

// NewLocalStore returns a [LocalStore] that keeps its keys under prefix in kv.
func NewLocalStore(kv KV, prefix string, log *logger.Logger) LocalStore {
	return &localStore{
		kv:     kv,
		prefix: prefix,
		logger: log.WithComponent("local_store"),
		now:    time.Now,
	}
}

func (s *localStore) Prefix() string {
	return s.prefix
}

func (s *localStore) Store(ctx context.Context, key string, data json.RawMessage) error {
	if key == "" {
		return ErrEmptyKey
	}
	if len(data) == 0 {
		data = json.RawMessage("null")
	}

	raw, err := json.Marshal(models.Envelope{
		Data:          data,
		CapturedAt:    s.now().UTC(),
		SchemaVersion: models.SchemaVersion,
	})
	if err != nil {
		s.logger.Err(err).Str("func", "localStore.Store").Str("key", key).Msg("error encoding envelope")
		return fmt.Errorf("error encoding envelope: %w", err)
	}

	if err = s.kv.Set(ctx, s.prefix+key, raw); err != nil {
		return fmt.Errorf("error storing %q: %w", key, err)
	}
	return nil
}

func (s *localStore) Retrieve(ctx context.Context, key string) (models.Envelope, bool) {
	if key == "" {
		return models.Envelope{}, false
	}

	raw, err := s.kv.Get(ctx, s.prefix+key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.logger.Err(err).Str("func", "localStore.Retrieve").Str("key", key).Msg("error reading envelope")
		}
		return models.Envelope{}, false
	}

	return s.decode(key, raw)
}

func (s *localStore) decode(key string, raw []byte) (models.Envelope, bool) {
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		s.logger.Warn().Err(err).Str("func", "localStore.decode").Str("key", key).Msg("corrupt envelope treated as missing")
		return models.Envelope{}, false
	}
	if env.SchemaVersion < 1 || env.SchemaVersion > models.SchemaVersion {
		s.logger.Warn().Str("func", "localStore.decode").Str("key", key).
			Int("schema_version", env.SchemaVersion).
			Msg("unsupported envelope schema treated as missing")
		return models.Envelope{}, false
	}

	return env, true
}

func (s *localStore) Remove(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := s.kv.Delete(ctx, s.prefix+key); err != nil {
		return fmt.Errorf("error removing %q: %w", key, err)
	}
	return nil
}

func (s *localStore) GetAllOfflineData(ctx context.Context) (map[string]models.Envelope, error) {
	entries, err := s.kv.Scan(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("error scanning %q: %w", s.prefix, err)
	}

	result := make(map[string]models.Envelope, len(entries))
	for fullKey, raw := range entries {
		key := strings.TrimPrefix(fullKey, s.prefix)
		if env, ok := s.decode(key, raw); ok {
			result[key] = env
		}
	}
	return result, nil
}

func (s *localStore) ClearAll(ctx context.Context) error {
	entries, err := s.kv.Scan(ctx, s.prefix)
	if err != nil {
		return fmt.Errorf("error scanning %q: %w", s.prefix, err)
	}

	var errs []error
	for fullKey := range entries {
		if err = s.kv.Delete(ctx, fullKey); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("error clearing %q: %w", s.prefix, errors.Join(errs...))
	}

	s.logger.Debug().Str("func", "localStore.ClearAll").Int("removed", len(entries)).Msg("namespace cleared")
	return nil
}
