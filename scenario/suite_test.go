package scenario

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anim-bench/go-animbench/page"
	"github.com/anim-bench/go-animbench/sampler"
)

// recordingSleep collects requested pacing waits without actually waiting.
type recordingSleep struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (rs *recordingSleep) sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rs.mu.Lock()
	rs.waits = append(rs.waits, d)
	rs.mu.Unlock()
	return nil
}

func (rs *recordingSleep) total() time.Duration {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	var sum time.Duration
	for _, d := range rs.waits {
		sum += d
	}
	return sum
}

func (rs *recordingSleep) count(d time.Duration) int {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	n := 0
	for _, w := range rs.waits {
		if w == d {
			n++
		}
	}
	return n
}

func newTestSuite(p page.Page) (*Suite, *sampler.Sampler, *recordingSleep) {
	rs := &recordingSleep{}
	sam := sampler.New(sampler.Options{
		Frames:      sampler.TickerFrames(500),
		FPSInterval: 10 * time.Millisecond,
	})
	return NewSuite(p, sam, Options{Sleep: rs.sleep}), sam, rs
}

func TestScrollSweepLightPacing(t *testing.T) {
	p := page.NewSyntheticBuilder("/pricing").WithScrollHeight(1000).Build()
	suite, _, rs := newTestSuite(p)

	result, err := suite.RunScrollSweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ScenarioScroll, result.Name)
	assert.Equal(t, 10, result.Details["steps"])
	assert.Equal(t, 100, result.Details["step_px"])
	assert.Equal(t, false, result.Details["heavy"])

	// Ten inter-step waits plus the settle wait after returning to top.
	assert.Equal(t, 10, rs.count(150*time.Millisecond))
	assert.Equal(t, 1, rs.count(scrollSettleWait))

	events := p.ScrollEvents()
	require.Len(t, events, 11)
	assert.Equal(t, page.ScrollEvent{Y: 1000, Smooth: true}, events[9])
	assert.Equal(t, page.ScrollEvent{Y: 0, Smooth: true}, events[10])
	assert.Zero(t, p.ScrollY())
}

func TestScrollSweepHeavyPacing(t *testing.T) {
	p := page.NewSyntheticBuilder("/pricing").
		WithScrollHeight(1000).
		WithFloatingShapes(11).
		Build()
	suite, _, rs := newTestSuite(p)

	result, err := suite.RunScrollSweep(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, result.Details["steps"])
	assert.Equal(t, 200, result.Details["step_px"])
	assert.Equal(t, true, result.Details["heavy"])
	assert.Equal(t, 5, rs.count(300*time.Millisecond))
	assert.Zero(t, rs.count(150*time.Millisecond))
}

func TestStaggerRevealExistingElements(t *testing.T) {
	p := page.NewSyntheticBuilder("/pricing").WithCards(3).WithTagChips(2).Build()
	suite, sam, rs := newTestSuite(p)

	maxActive := 0
	suite.sleep = func(ctx context.Context, d time.Duration) error {
		if n := sam.Summary().AnimationCount; n > maxActive {
			maxActive = n
		}
		return rs.sleep(ctx, d)
	}

	result, err := suite.RunStaggerReveal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ScenarioStagger, result.Name)
	assert.Equal(t, 5, result.Details["elements"])
	assert.Equal(t, int64(80), result.Details["delay_ms"])
	assert.Equal(t, false, result.Details["synthesized"])

	// All five reveals were in flight by the settle wait, and the counter
	// drains once the scenario concludes.
	assert.Equal(t, 5, maxActive)
	assert.Zero(t, sam.Summary().AnimationCount)

	// Transitions land at fully visible.
	p.Flush()
	style, err := p.StyleOf("."+page.ClassCard, 2)
	require.NoError(t, err)
	assert.Equal(t, float32(1), style.Opacity)
	assert.Zero(t, style.TranslateY)
}

func TestStaggerPacingTotalWait(t *testing.T) {
	// 25 light-page elements: 80ms per element plus the 1s settle = 3s.
	p := page.NewSyntheticBuilder("/pricing").WithCards(25).Build()
	suite, _, rs := newTestSuite(p)

	_, err := suite.RunStaggerReveal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 25, rs.count(80*time.Millisecond))
	assert.Equal(t, 3*time.Second, rs.total())
}

func TestStaggerHeavyDelay(t *testing.T) {
	p := page.NewSyntheticBuilder("/pricing").WithCards(4).WithFloatingShapes(12).Build()
	suite, _, rs := newTestSuite(p)

	result, err := suite.RunStaggerReveal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(120), result.Details["delay_ms"])
	assert.Equal(t, 4, rs.count(120*time.Millisecond))
	assert.Zero(t, rs.count(80*time.Millisecond))
}

func TestStaggerSynthesizesOnEmptyPage(t *testing.T) {
	p := page.NewSyntheticBuilder("/pricing").Build()
	suite, _, rs := newTestSuite(p)

	result, err := suite.RunStaggerReveal(context.Background())
	require.NoError(t, err)

	assert.Equal(t, true, result.Details["synthesized"])
	assert.Equal(t, synthesizedBlocks, result.Details["elements"])
	assert.Equal(t, synthesizedBlocks, rs.count(80*time.Millisecond))

	// Placeholders are gone once the scenario returns.
	assert.Zero(t, p.NodeCount())
}

func TestStrokeDrawingAnimatesShapes(t *testing.T) {
	p := page.NewSyntheticBuilder("/pricing").
		WithShapes(page.ShapePath, page.ShapeLine, page.ShapeCircle, page.ShapeRect).
		Build()
	suite, _, rs := newTestSuite(p)

	result, err := suite.RunStrokeDrawing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ScenarioStroke, result.Name)
	assert.Equal(t, 4, result.Details["shapes"])
	assert.Equal(t, int64(200), result.Details["delay_ms"])
	assert.Equal(t, false, result.Details["synthesized"])
	assert.Equal(t, 4, rs.count(200*time.Millisecond))
	assert.Equal(t, 1, rs.count(strokeSettleWait))

	// Kind-specific end states.
	p.Flush()
	style, _ := p.StyleOf("circle", 0)
	assert.Equal(t, float32(80), style.Radius)
	style, _ = p.StyleOf("rect", 0)
	assert.Equal(t, float32(180), style.Width)
	style, _ = p.StyleOf("path", 0)
	assert.Zero(t, style.DashOffset)
}

func TestStrokeSynthesizesPathOnEmptyPage(t *testing.T) {
	p := page.NewSyntheticBuilder("/pricing").Build()
	suite, _, rs := newTestSuite(p)

	result, err := suite.RunStrokeDrawing(context.Background())
	require.NoError(t, err)

	assert.Equal(t, true, result.Details["synthesized"])
	assert.Equal(t, 1, result.Details["shapes"])
	assert.Equal(t, 1, rs.count(200*time.Millisecond))
	assert.Zero(t, p.NodeCount())
}

func TestRunAllSequentialReport(t *testing.T) {
	p := page.DemoPage()
	suite, sam, _ := newTestSuite(p)

	report, err := suite.RunAll(context.Background())
	require.NoError(t, err)
	require.NotNil(t, report)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, "/demos/animations", report.Page.Path)
	assert.GreaterOrEqual(t, report.ScrollMs, 0.0)
	assert.GreaterOrEqual(t, report.StaggerMs, 0.0)
	assert.GreaterOrEqual(t, report.StrokeMs, 0.0)
	assert.NotEmpty(t, report.Summary.Grade)

	// Strictly sequential: results arrive in scenario order.
	require.Len(t, report.Results, 3)
	assert.Equal(t, ScenarioScroll, report.Results[0].Name)
	assert.Equal(t, ScenarioStagger, report.Results[1].Name)
	assert.Equal(t, ScenarioStroke, report.Results[2].Name)

	// The sampler is stopped once the run concludes.
	assert.False(t, sam.Running())
	assert.Len(t, suite.Results(), 3)
}

func TestOnScenarioCallbackOrder(t *testing.T) {
	p := page.DemoPage()
	rs := &recordingSleep{}
	sam := sampler.New(sampler.Options{Frames: sampler.TickerFrames(500)})

	var seen []string
	suite := NewSuite(p, sam, Options{
		Sleep:      rs.sleep,
		OnScenario: func(r Result) { seen = append(seen, r.Name) },
	})

	_, err := suite.RunAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{ScenarioScroll, ScenarioStagger, ScenarioStroke}, seen)
}

func TestRunAllOnEmptyPageLeaksNothing(t *testing.T) {
	p := page.NewSyntheticBuilder("/pricing").Build()
	suite, _, _ := newTestSuite(p)
	before := p.NodeCount()

	report, err := suite.RunAll(context.Background())
	require.NoError(t, err)

	assert.GreaterOrEqual(t, report.ScrollMs, 0.0)
	assert.GreaterOrEqual(t, report.StaggerMs, 0.0)
	assert.GreaterOrEqual(t, report.StrokeMs, 0.0)
	assert.Equal(t, before, p.NodeCount())
}

func TestRunAllRejectsConcurrentRun(t *testing.T) {
	p := page.DemoPage()
	suite, _, _ := newTestSuite(p)

	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	suite.sleep = func(ctx context.Context, _ time.Duration) error {
		once.Do(func() { close(entered) })
		select {
		case <-release:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	var wg sync.WaitGroup
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, firstErr = suite.RunAll(context.Background())
	}()

	<-entered
	_, err := suite.RunAll(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(release)
	wg.Wait()
	assert.NoError(t, firstErr)

	// Once the first run finishes the suite accepts new runs.
	assert.False(t, suite.Running())
}

func TestRunAllStopsOnCancel(t *testing.T) {
	p := page.DemoPage()
	suite, sam, _ := newTestSuite(p)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := suite.RunAll(ctx)
	assert.Error(t, err)
	assert.Nil(t, report)
	assert.False(t, sam.Running())
	assert.False(t, suite.Running())
}

func TestSaveReport(t *testing.T) {
	p := page.NewSyntheticBuilder("/pricing").WithCards(2).Build()
	suite, _, _ := newTestSuite(p)

	report, err := suite.RunAll(context.Background())
	require.NoError(t, err)

	dir := t.TempDir()
	jsonPath, csvPath, err := SaveReport(report, dir)
	require.NoError(t, err)

	data, err := os.ReadFile(jsonPath)
	require.NoError(t, err)
	var loaded Report
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, report.RunID, loaded.RunID)
	assert.Len(t, loaded.Results, 3)

	csv, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(csv)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "Scenario,Duration_ms")
	assert.Contains(t, lines[1], ScenarioScroll)
}

func TestReportString(t *testing.T) {
	report := &Report{
		RunID:     "test-run",
		Page:      page.Info{Path: "/demos/animations"},
		ScrollMs:  1200.5,
		StaggerMs: 900.25,
		StrokeMs:  3100,
	}
	report.Summary.Grade = sampler.GradeGood
	report.Summary.GradeLabel = "Good"
	report.Summary.AverageFPS = 57.5

	text := report.String()
	assert.Contains(t, text, "test-run")
	assert.Contains(t, text, "/demos/animations")
	assert.Contains(t, text, "Grade")
	assert.Contains(t, text, "Good")
}
