package engine

import (
	"context"
	"io"

	"golang.org/x/time/rate"
)

// NewBWLimiter creates a limiter capping split throughput at bytesPerSec.
// The burst matches the read buffer (capped at bytesPerSec) so a single
// buffered read never exceeds it.
func NewBWLimiter(bytesPerSec, bufferSize int64) *rate.Limiter {
	burst := bufferSize
	if bytesPerSec < burst {
		burst = bytesPerSec
	}
	return rate.NewLimiter(rate.Limit(bytesPerSec), int(burst))
}

// rateLimitedReader throttles reads from r by the bytes they return.
type rateLimitedReader struct {
	ctx     context.Context //nolint:containedctx // reader outlives no call; scoped to one split
	r       io.Reader
	limiter *rate.Limiter
}

func newRateLimitedReader(ctx context.Context, r io.Reader, limiter *rate.Limiter) *rateLimitedReader {
	return &rateLimitedReader{ctx: ctx, r: r, limiter: limiter}
}

func (rl *rateLimitedReader) Read(p []byte) (int, error) {
	if len(p) > rl.limiter.Burst() {
		p = p[:rl.limiter.Burst()]
	}
	n, err := rl.r.Read(p)
	if n > 0 {
		if waitErr := rl.limiter.WaitN(rl.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}
