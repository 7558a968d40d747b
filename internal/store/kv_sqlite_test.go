package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-call-sync/internal/config"
	"github.com/MKhiriev/go-call-sync/internal/logger"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSQLiteKV(t *testing.T) (*sqliteKV, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	l := logger.Nop()
	kv := NewSQLiteKV(&DB{DB: db, logger: l}, l).(*sqliteKV)
	kv.now = func() time.Time { return fixedNow }
	return kv, mock
}

func TestSQLiteKV_Get_Success(t *testing.T) {
	kv, mock := newTestSQLiteKV(t)

	mock.ExpectQuery("SELECT storage_value FROM kv_entries").
		WithArgs("k").
		WillReturnRows(sqlmock.NewRows([]string{"storage_value"}).AddRow([]byte(`{"a":1}`)))

	v, err := kv.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), v)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_Get_NotFound(t *testing.T) {
	kv, mock := newTestSQLiteKV(t)

	mock.ExpectQuery("SELECT storage_value FROM kv_entries").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"storage_value"}))

	_, err := kv.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteKV_Get_DBError(t *testing.T) {
	kv, mock := newTestSQLiteKV(t)

	mock.ExpectQuery("SELECT storage_value FROM kv_entries").
		WithArgs("k").
		WillReturnError(errors.New("disk I/O error"))

	_, err := kv.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NotErrorIs(t, err, ErrKeyNotFound)
}

func TestSQLiteKV_Set(t *testing.T) {
	kv, mock := newTestSQLiteKV(t)

	mock.ExpectExec("INSERT INTO kv_entries (.+) ON CONFLICT").
		WithArgs("k", []byte("v"), fixedNow).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, kv.Set(context.Background(), "k", []byte("v")))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_Set_DBError(t *testing.T) {
	kv, mock := newTestSQLiteKV(t)

	mock.ExpectExec("INSERT INTO kv_entries").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnError(errors.New("database is locked"))

	err := kv.Set(context.Background(), "k", []byte("v"))
	assert.ErrorIs(t, err, ErrExecutingStatement)
}

func TestSQLiteKV_Delete(t *testing.T) {
	kv, mock := newTestSQLiteKV(t)

	mock.ExpectExec("DELETE FROM kv_entries WHERE storage_key").
		WithArgs("k").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, kv.Delete(context.Background(), "k"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLiteKV_Scan(t *testing.T) {
	kv, mock := newTestSQLiteKV(t)

	rows := sqlmock.NewRows([]string{"storage_key", "storage_value"}).
		AddRow("callsync:offline:calls", []byte("1")).
		AddRow("callsync:offline:leads", []byte("2"))
	mock.ExpectQuery("SELECT (.+) FROM kv_entries WHERE storage_key LIKE").
		WithArgs("callsync:offline:%").
		WillReturnRows(rows)

	entries, err := kv.Scan(context.Background(), OfflinePrefix)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{
		"callsync:offline:calls": []byte("1"),
		"callsync:offline:leads": []byte("2"),
	}, entries)
}

func TestSQLiteKV_Scan_RowError(t *testing.T) {
	kv, mock := newTestSQLiteKV(t)

	rows := sqlmock.NewRows([]string{"storage_key", "storage_value"}).
		AddRow("callsync:offline:calls", []byte("1")).
		RowError(0, errors.New("row broke"))
	mock.ExpectQuery("SELECT (.+) FROM kv_entries").
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(rows)

	_, err := kv.Scan(context.Background(), OfflinePrefix)
	assert.ErrorIs(t, err, ErrScanningRows)
}

func TestSQLiteKV_RealDatabase(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "nested", "client.db")

	storages, err := NewClientStorages(ctx, config.Storage{Driver: DriverSQLite, DSN: dsn}, logger.Nop())
	require.NoError(t, err)

	kv := storages.KV
	require.NoError(t, kv.Set(ctx, "callsync:offline:calls", []byte("first")))
	require.NoError(t, kv.Set(ctx, "callsync:offline:calls", []byte("second")))
	require.NoError(t, kv.Set(ctx, "callsync:cache:calls", []byte("cached")))
	require.NoError(t, kv.Set(ctx, "callsync_offline_x", []byte("not in namespace")))

	v, err := kv.Get(ctx, "callsync:offline:calls")
	require.NoError(t, err)
	assert.Equal(t, []byte("second"), v)

	entries, err := kv.Scan(ctx, OfflinePrefix)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, kv.Delete(ctx, "callsync:offline:calls"))
	require.NoError(t, kv.Delete(ctx, "callsync:offline:calls"))
	_, err = kv.Get(ctx, "callsync:offline:calls")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, storages.Close())

	// data survives a reopen
	reopened, err := NewClientStorages(ctx, config.Storage{Driver: DriverSQLite, DSN: dsn}, logger.Nop())
	require.NoError(t, err)
	defer reopened.Close()

	v, err = reopened.KV.Get(ctx, "callsync:cache:calls")
	require.NoError(t, err)
	assert.Equal(t, []byte("cached"), v)
}
