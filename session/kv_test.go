package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKV(t *testing.T) {
	ctx := context.Background()
	kv := NewMemoryKV()

	require.NoError(t, kv.Set(ctx, "a", []byte("1"), 0))
	got, err := kv.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), got)

	require.NoError(t, kv.Delete(ctx, "a"))
	_, err = kv.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestMemoryKVExpiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	kv := NewMemoryKV()
	kv.now = func() time.Time { return clock }

	require.NoError(t, kv.Set(ctx, "s", []byte("user"), time.Minute))

	clock = clock.Add(59 * time.Second)
	_, err := kv.Get(ctx, "s")
	assert.NoError(t, err)

	clock = clock.Add(time.Second)
	_, err = kv.Get(ctx, "s")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestKey(t *testing.T) {
	assert.Equal(t, "admin_user:abc", Key("abc"))
}
