package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGetSetRoundTrip(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, kv.Set(ctx, "k", []byte(`{"a":1}`)))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"a":1}`), got)
}

func TestMemoryWatchFiresOnEverySet(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	var seen []string
	cancel := kv.Watch(func(key string) {
		seen = append(seen, key)
	})

	require.NoError(t, kv.Set(ctx, "a", []byte("1")))
	require.NoError(t, kv.Set(ctx, "b", []byte("2")))
	assert.Equal(t, []string{"a", "b"}, seen)

	cancel()
	require.NoError(t, kv.Set(ctx, "c", []byte("3")))
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	kv := NewMemory()
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", []byte("abc")))
	got, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	got[0] = 'x'

	again, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), again)
}
