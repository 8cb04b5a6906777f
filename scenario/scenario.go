// Package scenario - Synthetic animation load scenarios and the suite that
// sequences them.
//
// A Suite drives three standardized load patterns against a page.Page (scroll
// sweep, staggered reveal, stroke drawing) while a sampler.Sampler watches the
// frame loop, then folds the per-scenario timings and the sampler summary into
// a single report.
package scenario

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/anim-bench/go-animbench/page"
	"github.com/anim-bench/go-animbench/sampler"
)

// Scenario names as they appear in results and reports.
const (
	ScenarioScroll  = "scroll_sweep"
	ScenarioStagger = "staggered_reveal"
	ScenarioStroke  = "stroke_drawing"
)

// ErrRunInProgress is returned when RunAll is invoked while another run is
// still active on the same suite.
var ErrRunInProgress = errors.New("scenario run already in progress")

// Result records one completed scenario.
type Result struct {
	Name       string                 `json:"name"`
	DurationMs float64                `json:"duration_ms"`
	Timestamp  time.Time              `json:"timestamp"`
	Details    map[string]interface{} `json:"details"`
}

// Report combines the per-scenario durations with the sampler's final summary.
type Report struct {
	RunID     string          `json:"run_id"`
	StartedAt time.Time       `json:"started_at"`
	Page      page.Info       `json:"page"`
	ScrollMs  float64         `json:"scroll_animations_ms"`
	StaggerMs float64         `json:"stagger_animations_ms"`
	StrokeMs  float64         `json:"svg_animations_ms"`
	Summary   sampler.Summary `json:"summary"`
	Results   []Result        `json:"results"`
}

// SleepFunc suspends the scenario sequence for the given pacing interval.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Options configures a Suite.
type Options struct {
	// Logger receives per-scenario progress events. Defaults to a no-op logger.
	Logger *zerolog.Logger
	// Sleep replaces the pacing waits. Defaults to a context-aware timer;
	// tests substitute a recording clock.
	Sleep SleepFunc
	// OnScenario is invoked with every recorded result, in completion order.
	// Optional; used for progress output and filmstrip capture.
	OnScenario func(Result)
}

// Suite manages and executes the synthetic load scenarios against one page.
type Suite struct {
	page       page.Page
	sampler    *sampler.Sampler
	log        zerolog.Logger
	sleep      SleepFunc
	onScenario func(Result)

	running atomic.Bool
	mu      sync.RWMutex
	results []Result
}

// NewSuite creates a scenario suite bound to a page and a sampler.
func NewSuite(p page.Page, s *sampler.Sampler, opts Options) *Suite {
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = defaultSleep
	}

	return &Suite{
		page:       p,
		sampler:    s,
		log:        log,
		sleep:      sleep,
		onScenario: opts.OnScenario,
		results:    make([]Result, 0),
	}
}

// defaultSleep waits out the pacing interval unless the context ends first.
func defaultSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RunAll starts the sampler, executes the three scenarios strictly
// sequentially, stops the sampler and returns the combined report.
//
// A second RunAll while one is active is rejected with ErrRunInProgress. A
// scenario failure aborts the remainder and propagates; no partial report is
// returned.
func (s *Suite) RunAll(ctx context.Context) (*Report, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer s.running.Store(false)

	runID := uuid.NewString()
	started := time.Now()
	info := s.page.Info()
	s.log.Info().Str("run_id", runID).Str("path", info.Path).Msg("scenario run starting")

	s.sampler.Start()
	defer s.sampler.Stop()

	scroll, err := s.RunScrollSweep(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "scroll sweep")
	}

	stagger, err := s.RunStaggerReveal(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "staggered reveal")
	}

	stroke, err := s.RunStrokeDrawing(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "stroke drawing")
	}

	s.sampler.Stop()

	report := &Report{
		RunID:     runID,
		StartedAt: started,
		Page:      info,
		ScrollMs:  scroll.DurationMs,
		StaggerMs: stagger.DurationMs,
		StrokeMs:  stroke.DurationMs,
		Summary:   s.sampler.Summary(),
		Results:   []Result{scroll, stagger, stroke},
	}

	s.log.Info().
		Str("run_id", runID).
		Float64("total_ms", scroll.DurationMs+stagger.DurationMs+stroke.DurationMs).
		Str("grade", string(report.Summary.Grade)).
		Msg("scenario run completed")

	return report, nil
}

// Running reports whether a RunAll invocation is active.
func (s *Suite) Running() bool {
	return s.running.Load()
}

// Results returns a copy of every result recorded over the suite's lifetime.
func (s *Suite) Results() []Result {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}

// record appends a result for a scenario that started at the given time.
func (s *Suite) record(name string, started time.Time, details map[string]interface{}) Result {
	result := Result{
		Name:       name,
		DurationMs: float64(time.Since(started)) / float64(time.Millisecond),
		Timestamp:  time.Now(),
		Details:    details,
	}

	s.mu.Lock()
	s.results = append(s.results, result)
	s.mu.Unlock()

	s.log.Info().Str("scenario", name).Float64("duration_ms", result.DurationMs).Msg("scenario completed")
	if s.onScenario != nil {
		s.onScenario(result)
	}
	return result
}

// releaseCleanup runs a synthesized-element cleanup even when the scenario's
// context has already ended.
func (s *Suite) releaseCleanup(ctx context.Context, cleanup page.CleanupFunc) {
	if cleanup == nil {
		return
	}
	if err := cleanup(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn().Err(err).Msg("synthesized element cleanup failed")
	}
}

// String renders the report as a plain text block.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Scenario run %s on %s\n", r.RunID, r.Page.Path)
	fmt.Fprintf(&b, "  Scroll sweep:     %9.1f ms\n", r.ScrollMs)
	fmt.Fprintf(&b, "  Staggered reveal: %9.1f ms\n", r.StaggerMs)
	fmt.Fprintf(&b, "  Stroke drawing:   %9.1f ms\n", r.StrokeMs)
	fmt.Fprintf(&b, "  Average FPS:      %9.1f\n", r.Summary.AverageFPS)
	fmt.Fprintf(&b, "  Avg frame time:   %9.2f ms\n", r.Summary.AverageFrameTimeMs)
	if r.Summary.Memory != nil {
		fmt.Fprintf(&b, "  Heap used:        %6d MB of %d MB\n", r.Summary.Memory.UsedMB, r.Summary.Memory.LimitMB)
	}
	fmt.Fprintf(&b, "  Grade:            %6s (%s)\n", r.Summary.Grade, r.Summary.GradeLabel)
	return b.String()
}
