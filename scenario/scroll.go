package scenario

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// RunScrollSweep smooth-scrolls the page from top to bottom in fixed steps,
// then returns to the top and lets the page settle.
//
// Heavy and demo pages use larger steps with longer waits so the sweep itself
// does not overload a page that is already busy.
func (s *Suite) RunScrollSweep(ctx context.Context) (Result, error) {
	cls, err := classify(ctx, s.page)
	if err != nil {
		return Result{}, err
	}
	pace := cls.pacing()
	started := time.Now()

	height, err := s.page.ScrollHeight(ctx)
	if err != nil {
		return Result{}, errors.Wrap(err, "read scroll height")
	}

	steps := height / pace.scrollStepPx
	if steps < 1 {
		steps = 1
	}

	s.sampler.IncrementAnimations()
	defer s.sampler.DecrementAnimations()

	for i := 1; i <= steps; i++ {
		if err := s.page.ScrollTo(ctx, i*pace.scrollStepPx, true); err != nil {
			return Result{}, errors.Wrapf(err, "scroll step %d", i)
		}
		if err := s.sleep(ctx, pace.scrollWait); err != nil {
			return Result{}, err
		}
	}

	if err := s.page.ScrollTo(ctx, 0, true); err != nil {
		return Result{}, errors.Wrap(err, "scroll back to top")
	}
	if err := s.sleep(ctx, scrollSettleWait); err != nil {
		return Result{}, err
	}

	return s.record(ScenarioScroll, started, map[string]interface{}{
		"scroll_height": height,
		"steps":         steps,
		"step_px":       pace.scrollStepPx,
		"step_wait_ms":  pace.scrollWait.Milliseconds(),
		"heavy":         cls.slow(),
		"decorative":    cls.Decorative,
	}), nil
}
