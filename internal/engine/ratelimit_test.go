package engine

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBWLimiter(t *testing.T) {
	t.Parallel()

	t.Run("burst capped to rate when rate < buffer", func(t *testing.T) {
		t.Parallel()
		lim := NewBWLimiter(1024, 1<<20)
		assert.Equal(t, 1024, lim.Burst())
	})

	t.Run("burst is the buffer size when rate >= buffer", func(t *testing.T) {
		t.Parallel()
		lim := NewBWLimiter(10*1024*1024, 1<<20)
		assert.Equal(t, 1<<20, lim.Burst())
	})
}

func TestRateLimitedReader(t *testing.T) {
	t.Parallel()

	t.Run("reads all data", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("x"), 4096)
		src := bytes.NewReader(data)
		lim := NewBWLimiter(1<<20, 4096)
		rl := newRateLimitedReader(context.Background(), src, lim)

		got, err := io.ReadAll(rl)
		require.NoError(t, err)
		assert.Equal(t, data, got)
	})

	t.Run("enforces rate limit", func(t *testing.T) {
		t.Parallel()
		// 10 KB at 5 KB/s with a 5 KB burst takes about a second.
		dataSize := 10 * 1024
		rateLimit := int64(5 * 1024)
		data := bytes.Repeat([]byte("a"), dataSize)
		src := bytes.NewReader(data)
		lim := NewBWLimiter(rateLimit, 1<<20)

		start := time.Now()
		rl := newRateLimitedReader(context.Background(), src, lim)
		got, err := io.ReadAll(rl)
		elapsed := time.Since(start)

		require.NoError(t, err)
		assert.Len(t, got, dataSize)
		assert.Greater(t, elapsed, 500*time.Millisecond,
			"rate limiter should slow reads to ~5KB/s")
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		t.Parallel()
		data := bytes.Repeat([]byte("b"), 1<<20)
		src := bytes.NewReader(data)
		lim := NewBWLimiter(1024, 4096)

		ctx, cancel := context.WithCancel(context.Background())
		rl := newRateLimitedReader(ctx, src, lim)

		// WaitN fails fast once the context is done.
		cancel()
		buf := make([]byte, 4096)
		for range 100 {
			_, err := rl.Read(buf)
			if err != nil {
				return
			}
		}
		t.Fatal("expected context cancellation error")
	})
}

func TestRateLimitedReaderCapsReadLength(t *testing.T) {
	t.Parallel()
	lim := NewBWLimiter(1<<30, 256)
	rl := newRateLimitedReader(context.Background(), bytes.NewReader(make([]byte, 4096)), lim)

	buf := make([]byte, 4096)
	n, err := rl.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 256, n)
}
