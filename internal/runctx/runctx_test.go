package runctx

import (
	"bytes"
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger(t *testing.T) {
	t.Run("returns the attached logger", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))
		ctx := WithLogger(context.Background(), logger)

		Logger(ctx).Info("hello")

		assert.Same(t, logger, Logger(ctx))
		assert.Contains(t, buf.String(), "hello")
	})

	t.Run("falls back to the default logger", func(t *testing.T) {
		assert.Same(t, slog.Default(), Logger(context.Background()))
	})
}

func TestResume(t *testing.T) {
	t.Run("absent means not resumed", func(t *testing.T) {
		assert.False(t, Resumed(context.Background()))
	})

	t.Run("override is scoped to the child context", func(t *testing.T) {
		parent := context.Background()
		child := WithResume(parent, true)

		assert.True(t, Resumed(child))
		assert.False(t, Resumed(parent))

		assert.False(t, Resumed(WithResume(child, false)))
		assert.True(t, Resumed(child))
	})

	t.Run("concurrent scopes do not leak", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(want bool) {
				defer wg.Done()
				ctx := WithResume(context.Background(), want)
				assert.Equal(t, want, Resumed(ctx))
			}(i%2 == 0)
		}
		wg.Wait()
	})
}
