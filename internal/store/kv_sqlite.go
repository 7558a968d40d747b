package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-call-sync/internal/logger"
)

type sqliteKV struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteKV returns a [KV] backed by the kv_entries table of db. The
// schema must already be migrated.
func NewSQLiteKV(db *DB, log *logger.Logger) KV {
	log.Debug().Msg("sqlite KV created")
	return &sqliteKV{
		DB:     db,
		logger: log,
		now:    time.Now,
	}
}

func (s *sqliteKV) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := buildGetQuery(key)
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteKV.Get").Msg("error building select query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var value []byte
	if err = s.DB.QueryRowContext(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrKeyNotFound
		}
		s.logger.Err(err).Str("func", "sqliteKV.Get").Str("key", key).Msg("error reading kv entry")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return value, nil
}

func (s *sqliteKV) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := buildUpsertQuery(key, value, s.now().UTC())
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteKV.Set").Msg("error building upsert query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteKV.Set").Str("key", key).Msg("error writing kv entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteKV) Delete(ctx context.Context, key string) error {
	query, args, err := buildDeleteQuery(key)
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteKV.Delete").Msg("error building delete query")
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = s.DB.ExecContext(ctx, query, args...); err != nil {
		s.logger.Err(err).Str("func", "sqliteKV.Delete").Str("key", key).Msg("error deleting kv entry")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

func (s *sqliteKV) Scan(ctx context.Context, prefix string) (map[string][]byte, error) {
	query, args, err := buildScanQuery(prefix)
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteKV.Scan").Msg("error building scan query")
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		s.logger.Err(err).Str("func", "sqliteKV.Scan").Str("prefix", prefix).Msg("error scanning kv entries")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	entries := make(map[string][]byte)
	for rows.Next() {
		var (
			key   string
			value []byte
		)
		if err = rows.Scan(&key, &value); err != nil {
			s.logger.Err(err).Str("func", "sqliteKV.Scan").Msg("error scanning kv row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
		}
		entries[key] = value
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return entries, nil
}

func (s *sqliteKV) Close() error {
	return s.DB.Close()
}
