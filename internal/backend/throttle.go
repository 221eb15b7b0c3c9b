package backend

import (
	"context"

	"golang.org/x/time/rate"
)

// Throttle caps how often backend requests leave the process. A nil Throttle
// never waits.
type Throttle struct {
	limiter *rate.Limiter
}

// NewThrottle allows perSecond requests with the given burst. A non-positive
// rate yields a nil Throttle.
func NewThrottle(perSecond float64, burst int) *Throttle {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &Throttle{limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

// Wait blocks until a request may proceed or ctx is done.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.limiter == nil {
		return nil
	}
	return t.limiter.Wait(ctx)
}
