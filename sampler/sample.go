package sampler

import "time"

// MemorySample is a single heap usage reading in whole megabytes.
type MemorySample struct {
	UsedMB    int       `json:"used_mb"`
	TotalMB   int       `json:"total_mb"`
	LimitMB   int       `json:"limit_mb"`
	Timestamp time.Time `json:"timestamp"`
}

// intWindow keeps the most recent int samples up to a fixed capacity.
type intWindow struct {
	max    int
	values []int
}

func newIntWindow(max int) *intWindow {
	return &intWindow{max: max, values: make([]int, 0, max)}
}

func (w *intWindow) push(v int) {
	w.values = append(w.values, v)
	if len(w.values) > w.max {
		// Remove oldest sample
		w.values = w.values[1:]
	}
}

func (w *intWindow) average() float64 {
	if len(w.values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range w.values {
		sum += v
	}
	return float64(sum) / float64(len(w.values))
}

func (w *intWindow) snapshot() []int {
	out := make([]int, len(w.values))
	copy(out, w.values)
	return out
}

func (w *intWindow) len() int { return len(w.values) }

func (w *intWindow) reset() { w.values = w.values[:0] }

// floatWindow keeps the most recent float64 samples up to a fixed capacity.
type floatWindow struct {
	max    int
	values []float64
}

func newFloatWindow(max int) *floatWindow {
	return &floatWindow{max: max, values: make([]float64, 0, max)}
}

func (w *floatWindow) push(v float64) {
	w.values = append(w.values, v)
	if len(w.values) > w.max {
		w.values = w.values[1:]
	}
}

func (w *floatWindow) average() float64 {
	if len(w.values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range w.values {
		sum += v
	}
	return sum / float64(len(w.values))
}

func (w *floatWindow) snapshot() []float64 {
	out := make([]float64, len(w.values))
	copy(out, w.values)
	return out
}

func (w *floatWindow) len() int { return len(w.values) }

func (w *floatWindow) reset() { w.values = w.values[:0] }

// memoryWindow keeps the most recent memory samples up to a fixed capacity.
type memoryWindow struct {
	max    int
	values []MemorySample
}

func newMemoryWindow(max int) *memoryWindow {
	return &memoryWindow{max: max, values: make([]MemorySample, 0, max)}
}

func (w *memoryWindow) push(v MemorySample) {
	w.values = append(w.values, v)
	if len(w.values) > w.max {
		w.values = w.values[1:]
	}
}

// latest returns the most recent sample, ok=false when the window is empty.
func (w *memoryWindow) latest() (MemorySample, bool) {
	if len(w.values) == 0 {
		return MemorySample{}, false
	}
	return w.values[len(w.values)-1], true
}

func (w *memoryWindow) snapshot() []MemorySample {
	out := make([]MemorySample, len(w.values))
	copy(out, w.values)
	return out
}

func (w *memoryWindow) len() int { return len(w.values) }

func (w *memoryWindow) reset() { w.values = w.values[:0] }
