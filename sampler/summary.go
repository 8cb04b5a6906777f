package sampler

import (
	"fmt"
	"runtime"
	"time"
)

// Surface describes the rendering surface a sampler observes. For a browser
// page this mirrors the user agent and screen descriptors; for a synthetic
// surface the fields carry whatever the harness configured.
type Surface struct {
	Agent            string  `json:"agent"`
	ViewportWidth    int     `json:"viewport_width"`
	ViewportHeight   int     `json:"viewport_height"`
	DevicePixelRatio float64 `json:"device_pixel_ratio"`
}

// Resolution renders the viewport as "WxH".
func (s Surface) Resolution() string {
	return fmt.Sprintf("%dx%d", s.ViewportWidth, s.ViewportHeight)
}

// Summary is a point-in-time view over the rolling windows.
type Summary struct {
	AverageFPS         float64       `json:"average_fps"`
	AverageFrameTimeMs float64       `json:"average_frame_time_ms"`
	Memory             *MemorySample `json:"memory"`
	AnimationCount     int           `json:"animation_count"`
	ElapsedSeconds     float64       `json:"elapsed_seconds"`
	Grade              Grade         `json:"grade"`
	GradeLabel         string        `json:"grade_label"`
}

// RawSamples carries full copies of the rolling windows.
type RawSamples struct {
	FPS          []int          `json:"fps"`
	Memory       []MemorySample `json:"memory"`
	FrameTimesMs []float64      `json:"frame_times_ms"`
}

// RuntimeInfo identifies the Go runtime that produced an export.
type RuntimeInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func currentRuntimeInfo() RuntimeInfo {
	return RuntimeInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

// Export is a complete snapshot suitable for persistence or transfer.
type Export struct {
	Summary    Summary     `json:"summary"`
	Raw        RawSamples  `json:"raw"`
	Timestamp  time.Time   `json:"timestamp"`
	Agent      string      `json:"agent"`
	Resolution string      `json:"screen_resolution"`
	PixelRatio float64     `json:"device_pixel_ratio"`
	Runtime    RuntimeInfo `json:"runtime"`
}
