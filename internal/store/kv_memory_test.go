package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	value := []byte("v")
	require.NoError(t, kv.Set(ctx, "a:1", value))
	require.NoError(t, kv.Set(ctx, "a:2", []byte("w")))
	require.NoError(t, kv.Set(ctx, "b:1", []byte("x")))

	// stored values are copies
	value[0] = 'z'
	got, err := kv.Get(ctx, "a:1")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)

	entries, err := kv.Scan(ctx, "a:")
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, 3, kv.Len())

	require.NoError(t, kv.Delete(ctx, "a:1"))
	require.NoError(t, kv.Delete(ctx, "a:1"))
	_, err = kv.Get(ctx, "a:1")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Close())
	assert.ErrorIs(t, kv.Set(ctx, "a:3", nil), ErrStoreClosed)
	_, err = kv.Get(ctx, "a:2")
	assert.ErrorIs(t, err, ErrStoreClosed)
}
