package sampler

import (
	"context"
	"math"
	"runtime"
	"runtime/metrics"
	"time"
)

const bytesPerMB = 1 << 20

// MemoryProber reads heap usage from whatever backs the sampled surface.
//
// Probe reports ok=false when the capability is unavailable; the sampler then
// skips the tick silently. Probing must not block for long.
type MemoryProber interface {
	Probe(ctx context.Context) (MemorySample, bool)
}

// ProbeFunc adapts a plain function to the MemoryProber interface.
type ProbeFunc func(ctx context.Context) (MemorySample, bool)

// Probe calls fn.
func (fn ProbeFunc) Probe(ctx context.Context) (MemorySample, bool) { return fn(ctx) }

// RuntimeProber samples the Go heap of the current process. The limit comes
// from GOMEMLIMIT when one is configured, otherwise from the memory reserved
// from the OS.
type RuntimeProber struct{}

// Probe reads the current heap stats. It always succeeds.
func (RuntimeProber) Probe(_ context.Context) (MemorySample, bool) {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	limit := memoryLimit()
	if limit <= 0 || limit == math.MaxInt64 {
		limit = int64(ms.Sys)
	}

	return MemorySample{
		UsedMB:    int(ms.HeapAlloc / bytesPerMB),
		TotalMB:   int(ms.HeapSys / bytesPerMB),
		LimitMB:   int(limit / bytesPerMB),
		Timestamp: time.Now(),
	}, true
}

// memoryLimit reads the soft memory limit via runtime/metrics. An unset
// GOMEMLIMIT reads as MaxInt64.
func memoryLimit() int64 {
	samples := []metrics.Sample{{Name: "/gc/gomemlimit:bytes"}}
	metrics.Read(samples)
	if samples[0].Value.Kind() != metrics.KindUint64 {
		return 0
	}
	v := samples[0].Value.Uint64()
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}
