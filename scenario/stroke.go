package scenario

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/anim-bench/go-animbench/page"
)

// RunStrokeDrawing animates every drawable vector shape with a per-shape
// delay: paths and lines ease their dash offset to zero, circles double their
// radius, rectangles grow their width by half.
//
// Pages without any shapes get one synthesized dash-animatable path, removed
// again before the scenario returns.
func (s *Suite) RunStrokeDrawing(ctx context.Context) (Result, error) {
	cls, err := classify(ctx, s.page)
	if err != nil {
		return Result{}, err
	}
	pace := cls.pacing()
	started := time.Now()

	shapes, err := s.page.Shapes(ctx, strokeSelectors)
	if err != nil {
		return Result{}, errors.Wrap(err, "collect shapes")
	}

	synthesized := false
	if len(shapes) == 0 {
		shape, cleanup, err := s.page.SynthesizeShape(ctx)
		if err != nil {
			return Result{}, errors.Wrap(err, "synthesize path")
		}
		defer s.releaseCleanup(ctx, cleanup)

		shapes = []page.Shape{shape}
		synthesized = true
	}

	animated := 0
	defer func() {
		for i := 0; i < animated; i++ {
			s.sampler.DecrementAnimations()
		}
	}()

	for _, shape := range shapes {
		if err := s.page.AnimateShape(ctx, shape); err != nil {
			return Result{}, errors.Wrapf(err, "animate %s[%d]", shape.Selector, shape.Index)
		}
		s.sampler.IncrementAnimations()
		animated++

		if err := s.sleep(ctx, pace.strokeDelay); err != nil {
			return Result{}, err
		}
	}

	if err := s.sleep(ctx, strokeSettleWait); err != nil {
		return Result{}, err
	}

	return s.record(ScenarioStroke, started, map[string]interface{}{
		"shapes":      len(shapes),
		"delay_ms":    pace.strokeDelay.Milliseconds(),
		"synthesized": synthesized,
		"heavy":       cls.slow(),
	}), nil
}
