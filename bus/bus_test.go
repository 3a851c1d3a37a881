package bus

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPublishReachesSubscribers(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()

	var got [][]byte
	cancel, err := b.Subscribe("t", func(payload []byte) {
		got = append(got, payload)
	})
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "t", []byte("one")))
	require.NoError(t, b.Publish(ctx, "other", []byte("ignored")))
	require.NoError(t, b.Publish(ctx, "t", []byte("two")))

	assert.Equal(t, [][]byte{[]byte("one"), []byte("two")}, got)

	cancel()
	require.NoError(t, b.Publish(ctx, "t", []byte("three")))
	assert.Len(t, got, 2)
}

func TestMemoryMultipleSubscribers(t *testing.T) {
	b := NewMemory()
	ctx := context.Background()

	var a, c int
	_, err := b.Subscribe("t", func([]byte) { a++ })
	require.NoError(t, err)
	_, err = b.Subscribe("t", func([]byte) { c++ })
	require.NoError(t, err)

	require.NoError(t, b.Publish(ctx, "t", nil))
	assert.Equal(t, 1, a)
	assert.Equal(t, 1, c)
}
