package sampler

import (
	"context"
	"time"
)

// FrameSource delivers rendering-frame boundaries.
//
// WaitFrame blocks until the next frame is produced and returns its timestamp.
// Implementations must honor context cancellation; the sampler relies on that
// to stop promptly.
type FrameSource interface {
	WaitFrame(ctx context.Context) (time.Time, error)
}

// FrameFunc adapts a plain function to the FrameSource interface.
type FrameFunc func(ctx context.Context) (time.Time, error)

// WaitFrame calls fn.
func (fn FrameFunc) WaitFrame(ctx context.Context) (time.Time, error) { return fn(ctx) }

// TickerFrames returns a FrameSource that synthesizes frame boundaries at a
// fixed rate. It stands in for a real vsync when the sampled surface has none.
func TickerFrames(hz int) FrameSource {
	if hz <= 0 {
		hz = DefaultFrameRate
	}
	return &tickerFrames{interval: time.Second / time.Duration(hz)}
}

type tickerFrames struct {
	interval time.Duration
}

func (t *tickerFrames) WaitFrame(ctx context.Context) (time.Time, error) {
	timer := time.NewTimer(t.interval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now := <-timer.C:
		return now, nil
	}
}
