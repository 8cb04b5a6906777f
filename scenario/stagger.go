package scenario

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// target is one matched selector with its element count.
type target struct {
	selector string
	count    int
}

// RunStaggerReveal reveals every matched element with a per-element stagger
// delay, then waits for the transitions to settle.
//
// Pages without any matching elements get a synthesized batch of off-screen
// placeholder blocks, removed again before the scenario returns.
func (s *Suite) RunStaggerReveal(ctx context.Context) (Result, error) {
	cls, err := classify(ctx, s.page)
	if err != nil {
		return Result{}, err
	}
	pace := cls.pacing()
	started := time.Now()

	targets, total, err := s.staggerTargets(ctx)
	if err != nil {
		return Result{}, err
	}

	synthesized := false
	if total == 0 {
		selector, cleanup, err := s.page.SynthesizeBlocks(ctx, synthesizedBlocks)
		if err != nil {
			return Result{}, errors.Wrap(err, "synthesize placeholder blocks")
		}
		defer s.releaseCleanup(ctx, cleanup)

		targets = []target{{selector: selector, count: synthesizedBlocks}}
		total = synthesizedBlocks
		synthesized = true
	}

	revealed := 0
	defer func() {
		for i := 0; i < revealed; i++ {
			s.sampler.DecrementAnimations()
		}
	}()

	for _, tg := range targets {
		for i := 0; i < tg.count; i++ {
			if err := s.page.Reveal(ctx, tg.selector, i); err != nil {
				return Result{}, errors.Wrapf(err, "reveal %s[%d]", tg.selector, i)
			}
			s.sampler.IncrementAnimations()
			revealed++

			if err := s.sleep(ctx, pace.staggerDelay); err != nil {
				return Result{}, err
			}
		}
	}

	if err := s.sleep(ctx, staggerSettleWait); err != nil {
		return Result{}, err
	}

	return s.record(ScenarioStagger, started, map[string]interface{}{
		"elements":    total,
		"delay_ms":    pace.staggerDelay.Milliseconds(),
		"synthesized": synthesized,
		"heavy":       cls.slow(),
	}), nil
}

// staggerTargets probes the candidate selectors and keeps the non-empty ones.
func (s *Suite) staggerTargets(ctx context.Context) ([]target, int, error) {
	var targets []target
	total := 0
	for _, selector := range staggerSelectors {
		n, err := s.page.Count(ctx, selector)
		if err != nil {
			return nil, 0, errors.Wrapf(err, "count %s", selector)
		}
		if n > 0 {
			targets = append(targets, target{selector: selector, count: n})
			total += n
		}
	}
	return targets, total, nil
}
