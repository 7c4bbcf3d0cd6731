package goroutine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestManager(t *testing.T) {
	t.Run("collects errors", func(t *testing.T) {
		m := NewManager(4)
		errBoom := errors.New("boom")

		assert.True(t, m.Go(context.Background(), func(context.Context) error { return nil }))
		assert.True(t, m.Go(context.Background(), func(context.Context) error { return errBoom }))

		assert.ErrorIs(t, m.Wait(), errBoom)
	})

	t.Run("recovers panics", func(t *testing.T) {
		m := NewManager(1)
		assert.True(t, m.Go(context.Background(), func(context.Context) error { panic("oops") }))
		assert.NoError(t, m.Wait())
	})

	t.Run("rejects after wait", func(t *testing.T) {
		m := NewManager(1)
		assert.NoError(t, m.Wait())
		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))
	})

	t.Run("rejects over capacity", func(t *testing.T) {
		m := NewManager(1)
		release := make(chan struct{})
		started := make(chan struct{})

		assert.True(t, m.Go(context.Background(), func(context.Context) error {
			close(started)
			<-release
			return nil
		}))
		<-started
		assert.False(t, m.Go(context.Background(), func(context.Context) error { return nil }))

		close(release)
		assert.NoError(t, m.Wait())
	})

	t.Run("skips canceled context", func(t *testing.T) {
		m := NewManager(1)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		ran := false
		m.Go(ctx, func(context.Context) error { ran = true; return nil })
		assert.NoError(t, m.Wait())
		assert.False(t, ran)
	})

	t.Run("nil manager", func(t *testing.T) {
		var m *Manager
		assert.False(t, m.Go(context.Background(), nil))
		assert.NoError(t, m.Wait())
	})
}
