package store

import "errors"

// Sentinel errors returned by the key/value backends and the local store.
// Callers should use [errors.Is] to match against these values.
var (
	// ErrKeyNotFound is returned by [KV.Get] when the key does not exist.
	ErrKeyNotFound = errors.New("key not found")

	// ErrEmptyKey is returned when a store operation is called with an
	// empty key.
	ErrEmptyKey = errors.New("empty storage key")

	// ErrUnknownDriver is returned by [NewClientStorages] for a driver name
	// other than sqlite, bolt or memory.
	ErrUnknownDriver = errors.New("unknown storage driver")

	// ErrStoreClosed is returned by the memory backend after Close.
	ErrStoreClosed = errors.New("store is closed")
)

// Low-level database operation errors of the SQLite backend.
var (
	// ErrBuildingSQLQuery is returned when squirrel fails to render a query.
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when a SELECT fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrExecutingStatement is returned when an INSERT or DELETE fails.
	ErrExecutingStatement = errors.New("failed to execute statement")

	// ErrScanningRows is returned when reading a result row fails.
	ErrScanningRows = errors.New("failed to scan kv rows")
)
