package ratelimit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	l, err := New(Config{})
	require.NoError(t, err)
	assert.Nil(t, l)

	_, err = New(Config{Rate: "five per minute"})
	assert.Error(t, err)

	_, err = New(Config{Rate: "5-M", Driver: DriverRedis})
	assert.ErrorIs(t, err, ErrRedisRequired)

	_, err = New(Config{Rate: "5-M", Driver: "etcd"})
	assert.Error(t, err)
}

func TestNew_MemoryReachesLimit(t *testing.T) {
	l, err := New(Config{Rate: "2-M", Prefix: "test"})
	require.NoError(t, err)

	ctx := context.Background()
	for range 2 {
		lctx, err := l.Get(ctx, "jane@example.com")
		require.NoError(t, err)
		assert.False(t, lctx.Reached)
	}

	lctx, err := l.Get(ctx, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, lctx.Reached)

	other, err := l.Get(ctx, "john@example.com")
	require.NoError(t, err)
	assert.False(t, other.Reached)
}
