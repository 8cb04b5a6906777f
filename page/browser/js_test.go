package browser

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anim-bench/go-animbench/page"
	"github.com/anim-bench/go-animbench/sampler"
)

// The live adapter must satisfy the scenario and sampler surfaces.
var (
	_ page.Page            = (*Page)(nil)
	_ sampler.FrameSource  = (*Page)(nil)
	_ sampler.MemoryProber = (*Page)(nil)
)

func TestScrollToJS(t *testing.T) {
	smooth := scrollToJS(1200, true)
	assert.Contains(t, smooth, "top: 1200")
	assert.Contains(t, smooth, `"smooth"`)

	instant := scrollToJS(0, false)
	assert.Contains(t, instant, "top: 0")
	assert.Contains(t, instant, `"auto"`)
}

func TestCountJSQuotesSelector(t *testing.T) {
	js := countJS(".demo-card")
	assert.Contains(t, js, `querySelectorAll(".demo-card")`)
	assert.Contains(t, js, ".length")
}

func TestJSStringEscapesQuotes(t *testing.T) {
	js := countJS(`a[href="/demos"]`)
	assert.Contains(t, js, `\"/demos\"`)
}

func TestRevealJS(t *testing.T) {
	js := revealJS(".card", 3)
	assert.Contains(t, js, `querySelectorAll(".card")`)
	assert.Contains(t, js, "3 >= els.length")
	assert.Contains(t, js, "els[3]")
	assert.Contains(t, js, "opacity 0.6s ease, transform 0.6s ease")
	assert.Contains(t, js, "requestAnimationFrame")
}

func TestShapesJSEncodesSelectorList(t *testing.T) {
	js, err := shapesJS([]string{"path", "circle", "rect"})
	require.NoError(t, err)
	assert.Contains(t, js, `["path","circle","rect"]`)
	assert.Contains(t, js, "tagName.toLowerCase()")
}

func TestAnimateShapeJSPerKind(t *testing.T) {
	tests := []struct {
		kind page.ShapeKind
		want string
	}{
		{page.ShapePath, "stroke-dashoffset"},
		{page.ShapeLine, "stroke-dashoffset"},
		{page.ShapeCircle, "r * 2"},
		{page.ShapeRect, "w * 1.5"},
	}
	for _, tt := range tests {
		js, err := animateShapeJS(page.Shape{Selector: "svg *", Index: 0, Kind: tt.kind})
		require.NoError(t, err, "kind %s", tt.kind)
		assert.Contains(t, js, tt.want, "kind %s", tt.kind)
	}
}

func TestAnimateShapeJSDrawDuration(t *testing.T) {
	js, err := animateShapeJS(page.Shape{Selector: "path", Kind: page.ShapePath})
	require.NoError(t, err)
	assert.Contains(t, js, "stroke-dashoffset 1.5s ease")
}

func TestAnimateShapeJSRejectsUnknownKind(t *testing.T) {
	_, err := animateShapeJS(page.Shape{Selector: "g", Kind: "group"})
	assert.Error(t, err)
}

func TestSynthesizeBlocksJS(t *testing.T) {
	js := synthesizeBlocksJS("animbench-synth-1", "animbench-synth-item-1", 20)
	assert.Contains(t, js, `"animbench-synth-1"`)
	assert.Contains(t, js, `"animbench-synth-item-1"`)
	assert.Contains(t, js, "i < 20")
	assert.Contains(t, js, "left = '-9999px'")
}

func TestSynthesizeShapeJSEmbedsWavePath(t *testing.T) {
	js := synthesizeShapeJS("animbench-synth-2", "animbench-synth-item-2")
	assert.Contains(t, js, "createElementNS")
	assert.Contains(t, js, `"M 0 40`)
	assert.Contains(t, js, "stroke-width")
}

func TestRemoveByIDJS(t *testing.T) {
	js := removeByIDJS("animbench-synth-7")
	assert.Contains(t, js, `getElementById("animbench-synth-7")`)
	assert.Contains(t, js, "c.remove()")
}

func TestWavePathD(t *testing.T) {
	d := wavePathD(400, 40, 12)
	assert.True(t, strings.HasPrefix(d, "M 0 40"))
	assert.Equal(t, 12, strings.Count(d, "L "))
	assert.Contains(t, d, "L 396 ")
	// Alternating peaks between 0 and twice the amplitude.
	assert.Contains(t, d, "L 33 0")
	assert.Contains(t, d, "L 66 80")
}

func TestSynthNaming(t *testing.T) {
	assert.Equal(t, "animbench-synth-3", synthContainerID(3))
	assert.Equal(t, "animbench-synth-item-3", synthBlockClass(3))
}

func TestProbeMemoryJSShape(t *testing.T) {
	assert.Contains(t, probeMemoryJS, "performance.memory")
	assert.Contains(t, probeMemoryJS, "available: false")
	assert.Contains(t, probeMemoryJS, "1048576")
}
