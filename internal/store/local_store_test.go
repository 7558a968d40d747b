// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
	"github.com/MKhiriev/go-call-sync/models"
)

func newTestLocalStore(kv KV, prefix string) *localStore {
	s := NewLocalStore(kv, prefix, logger.Nop()).(*localStore)
	s.now = func() time.Time { return fixedNow }
	return s
}

func TestLocalStore_StoreRetrieve(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	s := newTestLocalStore(kv, OfflinePrefix)

	require.NoError(t, s.Store(ctx, "calls", json.RawMessage(`[{"id":"1"}]`)))

	env, ok := s.Retrieve(ctx, "calls")
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"1"}]`, string(env.Data))
	assert.Equal(t, fixedNow, env.CapturedAt)
	assert.Equal(t, models.SchemaVersion, env.SchemaVersion)

	// stored under the namespace prefix
	_, err := kv.Get(ctx, OfflinePrefix+"calls")
	require.NoError(t, err)

	// overwrite
	require.NoError(t, s.Store(ctx, "calls", json.RawMessage(`[]`)))
	env, ok = s.Retrieve(ctx, "calls")
	require.True(t, ok)
	assert.JSONEq(t, `[]`, string(env.Data))
}

func TestLocalStore_EmptyKey(t *testing.T) {
	s := newTestLocalStore(NewMemoryKV(), OfflinePrefix)

	assert.ErrorIs(t, s.Store(context.Background(), "", json.RawMessage(`1`)), ErrEmptyKey)
	assert.ErrorIs(t, s.Remove(context.Background(), ""), ErrEmptyKey)
	_, ok := s.Retrieve(context.Background(), "")
	assert.False(t, ok)
}

func TestLocalStore_RetrieveUnreadable(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "corrupt json", raw: `{"data":`},
		{name: "not an object", raw: `"hello"`},
		{name: "future schema", raw: `{"data":1,"capturedAt":"2026-01-01T00:00:00Z","schemaVersion":99}`},
		{name: "missing schema", raw: `{"data":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			require.NoError(t, kv.Set(ctx, OfflinePrefix+"calls", []byte(tt.raw)))

			s := newTestLocalStore(kv, OfflinePrefix)
			_, ok := s.Retrieve(ctx, "calls")
			assert.False(t, ok)

			all, err := s.GetAllOfflineData(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestLocalStore_RetrieveMissing(t *testing.T) {
	s := newTestLocalStore(NewMemoryKV(), OfflinePrefix)

	_, ok := s.Retrieve(context.Background(), "nothing")
	assert.False(t, ok)
}

func TestLocalStore_RemoveIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestLocalStore(NewMemoryKV(), OfflinePrefix)

	require.NoError(t, s.Store(ctx, "calls", json.RawMessage(`[]`)))
	require.NoError(t, s.Remove(ctx, "calls"))
	require.NoError(t, s.Remove(ctx, "calls"))

	_, ok := s.Retrieve(ctx, "calls")
	assert.False(t, ok)
}

func TestLocalStore_NamespacesAreIsolated(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	offline := newTestLocalStore(kv, OfflinePrefix)
	cache := newTestLocalStore(kv, CachePrefix)

	require.NoError(t, offline.Store(ctx, "calls", json.RawMessage(`[1]`)))
	require.NoError(t, offline.Store(ctx, "leads", json.RawMessage(`[2]`)))
	require.NoError(t, cache.Store(ctx, "calls", json.RawMessage(`{"1":{}}`)))
	require.NoError(t, kv.Set(ctx, "unrelated", []byte("x")))

	all, err := offline.GetAllOfflineData(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Contains(t, all, "calls")
	assert.Contains(t, all, "leads")

	require.NoError(t, offline.ClearAll(ctx))

	all, err = offline.GetAllOfflineData(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	_, ok := cache.Retrieve(ctx, "calls")
	assert.True(t, ok)
	assert.Equal(t, 2, kv.Len())
}

func TestLocalStore_GetAllOfflineDataReadsBackend(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()
	writer := newTestLocalStore(kv, OfflinePrefix)
	reader := newTestLocalStore(kv, OfflinePrefix)

	require.NoError(t, writer.Store(ctx, "calls", json.RawMessage(`[1]`)))

	all, err := reader.GetAllOfflineData(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, writer.Remove(ctx, "calls"))

	all, err = reader.GetAllOfflineData(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestLocalStore_ScanError(t *testing.T) {
	kv := NewMemoryKV()
	require.NoError(t, kv.Close())
	s := newTestLocalStore(kv, OfflinePrefix)

	_, err := s.GetAllOfflineData(context.Background())
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, s.ClearAll(context.Background()), ErrStoreClosed)
}

func TestNewClientStorages(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.Storage
		wantErr error
	}{
		{name: "memory", cfg: config.Storage{Driver: DriverMemory}},
		{name: "bolt", cfg: config.Storage{Driver: DriverBolt, DSN: filepath.Join(t.TempDir(), "c.bolt")}},
		{name: "sqlite", cfg: config.Storage{Driver: DriverSQLite, DSN: filepath.Join(t.TempDir(), "c.db")}},
		{name: "unknown", cfg: config.Storage{Driver: "redis"}, wantErr: ErrUnknownDriver},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storages, err := NewClientStorages(ctx, tt.cfg, logger.Nop())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			defer storages.Close()

			assert.Equal(t, OfflinePrefix, storages.Offline.Prefix())
			assert.Equal(t, CachePrefix, storages.Cache.Prefix())

			require.NoError(t, storages.Offline.Store(ctx, "calls", json.RawMessage(`[]`)))
			_, ok := storages.Offline.Retrieve(ctx, "calls")
			assert.True(t, ok)
			_, ok = storages.Cache.Retrieve(ctx, "calls")
			assert.False(t, ok)
		})
	}
}
