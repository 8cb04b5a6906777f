package sampler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// scriptedFrames replays fixed frame timestamps, then blocks until cancel.
type scriptedFrames struct {
	mu    sync.Mutex
	times []time.Time
	next  int
}

func (f *scriptedFrames) WaitFrame(ctx context.Context) (time.Time, error) {
	f.mu.Lock()
	if f.next < len(f.times) {
		t := f.times[f.next]
		f.next++
		f.mu.Unlock()
		return t, nil
	}
	f.mu.Unlock()

	<-ctx.Done()
	return time.Time{}, ctx.Err()
}

// scriptedProber returns a fixed sample and records how often it was asked.
type scriptedProber struct {
	mu     sync.Mutex
	sample MemorySample
	ok     bool
	calls  int
}

func (p *scriptedProber) Probe(_ context.Context) (MemorySample, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	return p.sample, p.ok
}

func (p *scriptedProber) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.calls
}

func TestNewDefaults(t *testing.T) {
	s := New(Options{})

	assert.NotNil(t, s.opts.Frames)
	assert.Equal(t, DefaultFPSInterval, s.opts.FPSInterval)
	assert.Equal(t, DefaultMemoryInterval, s.opts.MemoryInterval)
	assert.Equal(t, fpsWindowSize, s.fps.max)
	assert.Equal(t, memoryWindowSize, s.memory.max)
	assert.Equal(t, frameTimeWindowSize, s.frameTime.max)
	assert.False(t, s.Running())
}

func TestIntWindowEviction(t *testing.T) {
	w := newIntWindow(3)
	for v := 1; v <= 5; v++ {
		w.push(v)
	}

	assert.Equal(t, []int{3, 4, 5}, w.snapshot())
	assert.Equal(t, 3, w.len())
	assert.InDelta(t, 4.0, w.average(), 1e-9)
}

func TestFloatWindowEviction(t *testing.T) {
	w := newFloatWindow(2)
	w.push(10)
	w.push(20)
	w.push(30)

	assert.Equal(t, []float64{20, 30}, w.snapshot())
	assert.InDelta(t, 25.0, w.average(), 1e-9)
}

func TestMemoryWindowLatest(t *testing.T) {
	w := newMemoryWindow(2)

	_, ok := w.latest()
	assert.False(t, ok)

	w.push(MemorySample{UsedMB: 10})
	w.push(MemorySample{UsedMB: 20})
	w.push(MemorySample{UsedMB: 30})

	latest, ok := w.latest()
	assert.True(t, ok)
	assert.Equal(t, 30, latest.UsedMB)
	assert.Equal(t, 2, w.len())
}

func TestEmptySummary(t *testing.T) {
	s := New(Options{})
	summary := s.Summary()

	assert.Zero(t, summary.AverageFPS)
	assert.Zero(t, summary.AverageFrameTimeMs)
	assert.Nil(t, summary.Memory)
	assert.Zero(t, summary.AnimationCount)
	assert.Equal(t, GradePoor, summary.Grade)
	assert.Equal(t, "Poor", summary.GradeLabel)
}

func TestAnimationCounterClamped(t *testing.T) {
	s := New(Options{})

	for i := 0; i < 3; i++ {
		s.IncrementAnimations()
	}
	for i := 0; i < 5; i++ {
		s.DecrementAnimations()
	}
	assert.Zero(t, s.Summary().AnimationCount)

	s.IncrementAnimations()
	s.IncrementAnimations()
	s.DecrementAnimations()
	assert.Equal(t, 1, s.Summary().AnimationCount)
}

func TestResetClearsState(t *testing.T) {
	s := New(Options{})

	s.mu.Lock()
	s.fps.push(60)
	s.frameTime.push(12.5)
	s.memory.push(MemorySample{UsedMB: 42})
	s.mu.Unlock()
	s.IncrementAnimations()

	s.Reset()

	summary := s.Summary()
	assert.Zero(t, summary.AverageFPS)
	assert.Zero(t, summary.AverageFrameTimeMs)
	assert.Nil(t, summary.Memory)
	assert.Zero(t, summary.AnimationCount)
	assert.Equal(t, GradePoor, summary.Grade)
}

func TestFrameDeltasBecomeFrameTimes(t *testing.T) {
	base := time.Now()
	frames := &scriptedFrames{times: []time.Time{
		base,
		base.Add(10 * time.Millisecond),
		base.Add(20 * time.Millisecond),
	}}

	s := New(Options{Frames: frames, FPSInterval: time.Hour, MemoryInterval: time.Hour})
	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	samples := s.ExportData().Raw.FrameTimesMs
	assert.Equal(t, []float64{10, 10}, samples)
}

func TestSamplerCollectsWhileRunning(t *testing.T) {
	prober := &scriptedProber{sample: MemorySample{UsedMB: 128, TotalMB: 256, LimitMB: 512}, ok: true}
	s := New(Options{
		Frames:         TickerFrames(500),
		Memory:         prober,
		FPSInterval:    20 * time.Millisecond,
		MemoryInterval: 10 * time.Millisecond,
	})

	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	export := s.ExportData()
	assert.NotEmpty(t, export.Raw.FPS)
	assert.NotEmpty(t, export.Raw.FrameTimesMs)
	assert.NotEmpty(t, export.Raw.Memory)
	assert.Greater(t, prober.callCount(), 0)

	summary := s.Summary()
	assert.NotNil(t, summary.Memory)
	assert.Equal(t, 128, summary.Memory.UsedMB)
	assert.Greater(t, summary.ElapsedSeconds, 0.0)
}

func TestProberSkippedWhenUnavailable(t *testing.T) {
	prober := &scriptedProber{ok: false}
	s := New(Options{
		Frames:         TickerFrames(500),
		Memory:         prober,
		FPSInterval:    20 * time.Millisecond,
		MemoryInterval: 10 * time.Millisecond,
	})

	s.Start()
	time.Sleep(60 * time.Millisecond)
	s.Stop()

	assert.Greater(t, prober.callCount(), 0)
	assert.Empty(t, s.ExportData().Raw.Memory)
	assert.Nil(t, s.Summary().Memory)
}

func TestStopHaltsSampling(t *testing.T) {
	s := New(Options{Frames: TickerFrames(500), FPSInterval: 10 * time.Millisecond})

	s.Start()
	time.Sleep(50 * time.Millisecond)
	s.Stop()

	before := s.ExportData()
	time.Sleep(50 * time.Millisecond)
	after := s.ExportData()

	assert.Equal(t, len(before.Raw.FPS), len(after.Raw.FPS))
	assert.Equal(t, len(before.Raw.FrameTimesMs), len(after.Raw.FrameTimesMs))
}

func TestStartStopIdempotent(t *testing.T) {
	s := New(Options{Frames: TickerFrames(500), FPSInterval: 10 * time.Millisecond})

	s.Start()
	s.Start()
	assert.True(t, s.Running())

	s.Stop()
	s.Stop()
	assert.False(t, s.Running())

	// A stopped sampler can be started again.
	s.Start()
	assert.True(t, s.Running())
	s.Stop()
	assert.False(t, s.Running())
}

func TestCallbacksFire(t *testing.T) {
	var mu sync.Mutex
	var gotFPS []int
	var gotMem []MemorySample

	prober := &scriptedProber{sample: MemorySample{UsedMB: 64}, ok: true}
	s := New(Options{
		Frames:         TickerFrames(500),
		Memory:         prober,
		FPSInterval:    15 * time.Millisecond,
		MemoryInterval: 15 * time.Millisecond,
		OnFPS: func(fps int) {
			mu.Lock()
			gotFPS = append(gotFPS, fps)
			mu.Unlock()
		},
		OnMemory: func(sample MemorySample) {
			mu.Lock()
			gotMem = append(gotMem, sample)
			mu.Unlock()
		},
	})

	s.Start()
	time.Sleep(80 * time.Millisecond)
	s.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.NotEmpty(t, gotFPS)
	assert.NotEmpty(t, gotMem)
	assert.Equal(t, 64, gotMem[0].UsedMB)
}

func TestExportDataSnapshot(t *testing.T) {
	surface := Surface{Agent: "animbench/synthetic", ViewportWidth: 1920, ViewportHeight: 1080, DevicePixelRatio: 2}
	s := New(Options{Surface: surface})

	s.mu.Lock()
	s.fps.push(58)
	s.fps.push(61)
	s.frameTime.push(16.1)
	s.memory.push(MemorySample{UsedMB: 100, TotalMB: 200, LimitMB: 400})
	s.mu.Unlock()

	export := s.ExportData()

	assert.Equal(t, []int{58, 61}, export.Raw.FPS)
	assert.Len(t, export.Raw.Memory, 1)
	assert.Len(t, export.Raw.FrameTimesMs, 1)
	assert.Equal(t, "animbench/synthetic", export.Agent)
	assert.Equal(t, "1920x1080", export.Resolution)
	assert.Equal(t, 2.0, export.PixelRatio)
	assert.NotEmpty(t, export.Runtime.GoVersion)
	assert.Greater(t, export.Runtime.NumCPU, 0)
	assert.WithinDuration(t, time.Now(), export.Timestamp, time.Second)

	// The export is a copy; mutating it leaves the sampler untouched.
	export.Raw.FPS[0] = 0
	assert.Equal(t, []int{58, 61}, s.ExportData().Raw.FPS)
}

func TestRuntimeProber(t *testing.T) {
	sample, ok := RuntimeProber{}.Probe(context.Background())

	assert.True(t, ok)
	assert.GreaterOrEqual(t, sample.TotalMB, sample.UsedMB)
	assert.Greater(t, sample.LimitMB, 0)
	assert.WithinDuration(t, time.Now(), sample.Timestamp, time.Second)
}

func BenchmarkSummary(b *testing.B) {
	s := New(Options{})
	s.mu.Lock()
	for i := 0; i < fpsWindowSize; i++ {
		s.fps.push(60)
	}
	for i := 0; i < frameTimeWindowSize; i++ {
		s.frameTime.push(16.6)
	}
	for i := 0; i < memoryWindowSize; i++ {
		s.memory.push(MemorySample{UsedMB: i})
	}
	s.mu.Unlock()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = s.Summary()
	}
}

func BenchmarkWindowPush(b *testing.B) {
	w := newFloatWindow(frameTimeWindowSize)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w.push(16.6)
	}
}
