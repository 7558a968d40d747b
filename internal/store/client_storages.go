package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
)

// Storage driver names accepted by [NewClientStorages].
const (
	DriverSQLite = "sqlite"
	DriverBolt   = "bolt"
	DriverMemory = "memory"
)

// ClientStorages groups the two client namespaces over one shared backend.
type ClientStorages struct {
	// KV is the shared backend.
	KV KV
	// Offline holds the per-dataType offline queues.
	Offline LocalStore
	// Cache holds merged sync_response snapshots.
	Cache LocalStore
}

// NewClientStorages opens the backend selected by cfg.Driver:
//   - sqlite: opens cfg.DSN, runs migrations and wraps it with [NewSQLiteKV];
//   - bolt:   opens cfg.DSN with [NewBoltKV];
//   - memory: [NewMemoryKV].
func NewClientStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*ClientStorages, error) {
	log.Info().Str("driver", cfg.Driver).Msg("creating new storages...")

	var kv KV
	switch cfg.Driver {
	case DriverSQLite:
		db, err := NewConnectSQLite(ctx, cfg, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		if err = db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		kv = NewSQLiteKV(db, log)
	case DriverBolt:
		boltKV, err := NewBoltKV(cfg.DSN)
		if err != nil {
			return nil, fmt.Errorf("bolt connection error: %w", err)
		}
		kv = boltKV
	case DriverMemory:
		kv = NewMemoryKV()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}

	return NewClientStoragesFromKV(kv, log), nil
}

// NewClientStoragesFromKV builds both namespaces over an existing backend.
func NewClientStoragesFromKV(kv KV, log *logger.Logger) *ClientStorages {
	return &ClientStorages{
		KV:      kv,
		Offline: NewLocalStore(kv, OfflinePrefix, log),
		Cache:   NewLocalStore(kv, CachePrefix, log),
	}
}

// Close releases the backend.
func (s *ClientStorages) Close() error {
	return s.KV.Close()
}
