// Package sampler - Live animation performance sampling.
//
// A Sampler observes a rendering surface through injected capabilities (a frame
// source, an optional heap prober) and maintains rolling windows of FPS, memory
// and frame-time samples. Point-in-time summaries grade the observed smoothness.
package sampler

import (
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Default sampling cadence and window capacities.
const (
	// DefaultFPSInterval specifies how often the frame counter is folded into
	// an FPS sample (default: 1s)
	DefaultFPSInterval = time.Second
	// DefaultMemoryInterval specifies how often the heap prober is consulted
	// (default: 2s)
	DefaultMemoryInterval = 2 * time.Second
	// DefaultFrameRate is the synthetic vsync rate used when no frame source
	// is injected
	DefaultFrameRate = 60

	fpsWindowSize       = 60
	memoryWindowSize    = 30
	frameTimeWindowSize = 120
)

// Options configures a Sampler.
type Options struct {
	// Frames supplies the await-next-frame primitive. Defaults to a synthetic
	// 60Hz ticker when nil.
	Frames FrameSource
	// Memory probes heap usage. Nil means the capability is absent and memory
	// sampling is skipped entirely.
	Memory MemoryProber
	// Surface describes the observed rendering surface for exports.
	Surface Surface
	// FPSInterval overrides the FPS sampling cadence (default: 1s)
	FPSInterval time.Duration
	// MemoryInterval overrides the memory sampling cadence (default: 2s)
	MemoryInterval time.Duration
	// Logger receives debug-level sample events. Defaults to a no-op logger.
	Logger *zerolog.Logger
	// OnFPS is invoked with every new FPS sample. Optional.
	OnFPS func(fps int)
	// OnMemory is invoked with every new memory sample. Optional.
	OnMemory func(sample MemorySample)
}

// Sampler maintains a bounded, live picture of rendering performance.
//
// All methods are safe for concurrent use. Start and Stop are idempotent and a
// stopped sampler can be started again; the windows survive restarts until
// Reset is called.
type Sampler struct {
	// Configuration
	opts Options
	log  zerolog.Logger

	// State management
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.RWMutex
	startTime time.Time
	running   bool

	// Frame accounting
	frameCount atomic.Int64

	// Rolling windows
	fps       *intWindow
	memory    *memoryWindow
	frameTime *floatWindow

	animations int
}

// New creates a sampler with the specified options.
//
// Arguments:
// - opts: Capability and cadence configuration
//
// Returns:
// - A configured Sampler, not yet started
func New(opts Options) *Sampler {
	// Set defaults
	if opts.Frames == nil {
		opts.Frames = TickerFrames(DefaultFrameRate)
	}
	if opts.FPSInterval == 0 {
		opts.FPSInterval = DefaultFPSInterval
	}
	if opts.MemoryInterval == 0 {
		opts.MemoryInterval = DefaultMemoryInterval
	}

	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	return &Sampler{
		opts:      opts,
		log:       log,
		startTime: time.Now(),
		fps:       newIntWindow(fpsWindowSize),
		memory:    newMemoryWindow(memoryWindowSize),
		frameTime: newFloatWindow(frameTimeWindowSize),
	}
}

// Start launches the sampling loops.
//
// It records the start time and spawns the FPS fold loop, the frame probe and,
// when a prober is present, the memory loop. Calling Start on a running
// sampler is a no-op.
func (s *Sampler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}

	s.running = true
	s.startTime = time.Now()
	s.frameCount.Store(0)
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.wg.Add(2)
	go s.fpsLoop(s.ctx)
	go s.frameLoop(s.ctx)

	if s.opts.Memory != nil {
		s.wg.Add(1)
		go s.memoryLoop(s.ctx)
	}

	s.log.Debug().Msg("sampler started")
}

// Stop halts the sampling loops and waits for them to exit.
//
// After Stop returns no further samples are recorded. Calling Stop on a
// stopped sampler is a no-op.
func (s *Sampler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.log.Debug().Msg("sampler stopped")
}

// Running reports whether the sampling loops are active.
func (s *Sampler) Running() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// IncrementAnimations records the start of a tracked animation.
func (s *Sampler) IncrementAnimations() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.animations++
}

// DecrementAnimations records the end of a tracked animation. The counter
// never goes below zero, even on unbalanced calls.
func (s *Sampler) DecrementAnimations() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.animations > 0 {
		s.animations--
	}
}

// Reset clears all windows and the animation counter and restarts the elapsed
// clock. It may be called while the sampler is running or stopped.
func (s *Sampler) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fps.reset()
	s.memory.reset()
	s.frameTime.reset()
	s.animations = 0
	s.frameCount.Store(0)
	s.startTime = time.Now()
}

// Summary computes a point-in-time view over the current windows.
//
// Empty windows yield zero averages and grade D. The memory field carries the
// most recent sample verbatim and is nil when none exists.
func (s *Sampler) Summary() Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sum := Summary{
		AverageFPS:         s.fps.average(),
		AverageFrameTimeMs: s.frameTime.average(),
		AnimationCount:     s.animations,
		ElapsedSeconds:     time.Since(s.startTime).Seconds(),
	}
	if latest, ok := s.memory.latest(); ok {
		m := latest
		sum.Memory = &m
	}
	sum.Grade = gradeFor(sum.AverageFPS, sum.AverageFrameTimeMs)
	sum.GradeLabel = sum.Grade.Label()
	return sum
}

// ExportData snapshots the summary, the raw windows and the surface and
// runtime descriptors. It has no side effects on sampler state.
func (s *Sampler) ExportData() Export {
	summary := s.Summary()

	s.mu.RLock()
	defer s.mu.RUnlock()

	return Export{
		Summary:    summary,
		Raw:        RawSamples{FPS: s.fps.snapshot(), Memory: s.memory.snapshot(), FrameTimesMs: s.frameTime.snapshot()},
		Timestamp:  time.Now(),
		Agent:      s.opts.Surface.Agent,
		Resolution: s.opts.Surface.Resolution(),
		PixelRatio: s.opts.Surface.DevicePixelRatio,
		Runtime:    currentRuntimeInfo(),
	}
}

// fpsLoop folds the frame counter into an FPS sample once per interval.
func (s *Sampler) fpsLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.FPSInterval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			now := time.Now()
			elapsed := now.Sub(last)
			last = now
			if elapsed <= 0 {
				continue
			}

			frames := s.frameCount.Swap(0)
			fps := int(math.Round(float64(frames) / elapsed.Seconds()))

			s.mu.Lock()
			s.fps.push(fps)
			s.mu.Unlock()

			if s.opts.OnFPS != nil {
				s.opts.OnFPS(fps)
			}
			s.log.Debug().Int("fps", fps).Msg("fps sample")
		}
	}
}

// memoryLoop consults the heap prober once per interval. A probe that reports
// ok=false is skipped without error; the capability may come and go.
func (s *Sampler) memoryLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.opts.MemoryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample, ok := s.opts.Memory.Probe(ctx)
			if !ok {
				continue
			}

			s.mu.Lock()
			s.memory.push(sample)
			s.mu.Unlock()

			if s.opts.OnMemory != nil {
				s.opts.OnMemory(sample)
			}
			s.log.Debug().Int("used_mb", sample.UsedMB).Msg("memory sample")
		}
	}
}

// frameLoop waits for frame boundaries in an explicit loop. Each delivered
// frame bumps the FPS counter; the delta between consecutive frames becomes a
// frame-time sample. The first frame after a start records no delta.
func (s *Sampler) frameLoop(ctx context.Context) {
	defer s.wg.Done()

	var last time.Time
	for {
		if !s.Running() {
			return
		}

		frame, err := s.opts.Frames.WaitFrame(ctx)
		if err != nil {
			return
		}

		s.frameCount.Add(1)
		if !last.IsZero() {
			delta := frame.Sub(last)
			s.mu.Lock()
			s.frameTime.push(float64(delta) / float64(time.Millisecond))
			s.mu.Unlock()
		}
		last = frame
	}
}
