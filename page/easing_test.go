package page

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEaseOutCubic(t *testing.T) {
	assert.Equal(t, float32(0), easeOutCubic(0))
	assert.Equal(t, float32(1), easeOutCubic(1))
	assert.InDelta(t, 0.875, easeOutCubic(0.5), 1e-5)

	// Progress outside [0,1] clamps.
	assert.Equal(t, float32(0), easeOutCubic(-2))
	assert.Equal(t, float32(1), easeOutCubic(3))
}

func TestLerp(t *testing.T) {
	assert.Equal(t, float32(10), lerp(10, 20, 0))
	assert.Equal(t, float32(20), lerp(10, 20, 1))
	assert.InDelta(t, 15, lerp(10, 20, 0.5), 1e-5)
}

func TestPolylineLength(t *testing.T) {
	// 3-4-5 triangle leg.
	assert.InDelta(t, 5, polylineLength([][2]float32{{0, 0}, {3, 4}}), 1e-5)

	// A flat wave is just its width.
	flat := wavePoints(100, 0, 4)
	assert.InDelta(t, 100, polylineLength(flat), 1e-4)

	assert.Zero(t, polylineLength(nil))
}

func TestWavePoints(t *testing.T) {
	points := wavePoints(400, 40, 12)
	assert.Len(t, points, 13)
	assert.Equal(t, float32(0), points[0][0])
	assert.Equal(t, float32(400), points[12][0])

	// Amplitude alternates sign.
	assert.Equal(t, float32(40), points[0][1])
	assert.Equal(t, float32(-40), points[1][1])

	// A degenerate segment count still yields a line.
	assert.Len(t, wavePoints(10, 1, 0), 2)
}
