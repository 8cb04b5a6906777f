package browser

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/anim-bench/go-animbench/page"
)

// Transition timings for the injected animations, mirroring the demo site's
// stylesheet values.
const (
	revealSeconds = 0.6
	dashSeconds   = 1.5
	shapeSeconds  = 0.8
)

// waitFrameJS resolves on the next paint. Evaluated with await.
const waitFrameJS = `new Promise(resolve => requestAnimationFrame(() => resolve(true)))`

// probeMemoryJS reads the Chromium-only heap counters in whole megabytes.
const probeMemoryJS = `(() => {
	if (!performance.memory) {
		return {available: false, used_mb: 0, total_mb: 0, limit_mb: 0};
	}
	const mb = 1048576;
	return {
		available: true,
		used_mb: Math.round(performance.memory.usedJSHeapSize / mb),
		total_mb: Math.round(performance.memory.totalJSHeapSize / mb),
		limit_mb: Math.round(performance.memory.jsHeapSizeLimit / mb),
	};
})()`

// jsString quotes a Go string as a JS string literal.
func jsString(s string) string {
	quoted, _ := json.Marshal(s)
	return string(quoted)
}

func scrollToJS(y int, smooth bool) string {
	behavior := "auto"
	if smooth {
		behavior = "smooth"
	}
	return fmt.Sprintf(`window.scrollTo({top: %d, behavior: %s})`, y, jsString(behavior))
}

func countJS(selector string) string {
	return fmt.Sprintf(`document.querySelectorAll(%s).length`, jsString(selector))
}

// revealJS hides the nth match, then transitions it back in on the next
// frame. Returns false when the element does not exist.
func revealJS(selector string, index int) string {
	return fmt.Sprintf(`(() => {
	const els = document.querySelectorAll(%s);
	if (%d >= els.length) return false;
	const el = els[%d];
	el.style.opacity = '0';
	el.style.transform = 'translateY(30px)';
	el.style.transition = 'opacity %[4]vs ease, transform %[4]vs ease';
	requestAnimationFrame(() => {
		el.style.opacity = '1';
		el.style.transform = 'translateY(0)';
	});
	return true;
})()`, jsString(selector), index, index, revealSeconds)
}

// shapesJS collects tag names and indexes for every selector, preserving
// selector priority order.
func shapesJS(selectors []string) (string, error) {
	list, err := json.Marshal(selectors)
	if err != nil {
		return "", errors.Wrap(err, "encode selectors")
	}
	return fmt.Sprintf(`(() => {
	const out = [];
	for (const sel of %s) {
		document.querySelectorAll(sel).forEach((el, i) => {
			out.push({selector: sel, index: i, kind: el.tagName.toLowerCase()});
		});
	}
	return out;
})()`, string(list)), nil
}

// animateShapeJS starts the per-kind animation: paths and lines draw in via
// dash offset, circles double their radius, rects grow half again wider.
// Returns false when the shape does not exist.
func animateShapeJS(shape page.Shape) (string, error) {
	var mutate string
	switch shape.Kind {
	case page.ShapePath, page.ShapeLine:
		mutate = fmt.Sprintf(`const len = el.getTotalLength ? el.getTotalLength() : 300;
	el.style.strokeDasharray = len;
	el.style.strokeDashoffset = len;
	el.style.transition = 'stroke-dashoffset %vs ease';
	requestAnimationFrame(() => { el.style.strokeDashoffset = '0'; });`, dashSeconds)
	case page.ShapeCircle:
		mutate = fmt.Sprintf(`const r = parseFloat(el.getAttribute('r') || '20');
	el.style.transition = 'r %vs ease';
	el.style.r = (r * 2) + 'px';`, shapeSeconds)
	case page.ShapeRect:
		mutate = fmt.Sprintf(`const w = parseFloat(el.getAttribute('width') || '100');
	el.style.transition = 'width %vs ease';
	el.style.width = (w * 1.5) + 'px';`, shapeSeconds)
	default:
		return "", errors.Errorf("unknown shape kind %q", shape.Kind)
	}
	return fmt.Sprintf(`(() => {
	const els = document.querySelectorAll(%s);
	if (%d >= els.length) return false;
	const el = els[%d];
	%s
	return true;
})()`, jsString(shape.Selector), shape.Index, shape.Index, mutate), nil
}

// synthesizeBlocksJS parks count placeholder blocks in a fixed container off
// the left edge so they never affect layout or paint.
func synthesizeBlocksJS(id, class string, count int) string {
	return fmt.Sprintf(`(() => {
	const c = document.createElement('div');
	c.id = %s;
	c.style.position = 'fixed';
	c.style.left = '-9999px';
	c.style.top = '0';
	for (let i = 0; i < %d; i++) {
		const d = document.createElement('div');
		d.className = %s;
		d.style.width = '120px';
		d.style.height = '80px';
		c.appendChild(d);
	}
	document.body.appendChild(c);
	return %d;
})()`, jsString(id), count, jsString(class), count)
}

// synthesizeShapeJS parks one SVG wave path off-screen for dash animation.
func synthesizeShapeJS(id, class string) string {
	d := wavePathD(400, 40, 12)
	return fmt.Sprintf(`(() => {
	const ns = 'http://www.w3.org/2000/svg';
	const c = document.createElement('div');
	c.id = %s;
	c.style.position = 'fixed';
	c.style.left = '-9999px';
	c.style.top = '0';
	const svg = document.createElementNS(ns, 'svg');
	svg.setAttribute('width', '400');
	svg.setAttribute('height', '80');
	svg.setAttribute('viewBox', '0 0 400 80');
	const path = document.createElementNS(ns, 'path');
	path.setAttribute('class', %s);
	path.setAttribute('d', %s);
	path.setAttribute('fill', 'none');
	path.setAttribute('stroke', '#4a9eff');
	path.setAttribute('stroke-width', '2');
	svg.appendChild(path);
	c.appendChild(svg);
	document.body.appendChild(c);
	return true;
})()`, jsString(id), jsString(class), jsString(d))
}

func removeByIDJS(id string) string {
	return fmt.Sprintf(`(() => {
	const c = document.getElementById(%s);
	if (c) c.remove();
	return true;
})()`, jsString(id))
}

// wavePathD builds a zigzag path definition spanning width with the given
// peak amplitude.
func wavePathD(width, amplitude, segments int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M 0 %d", amplitude)
	step := width / segments
	for i := 1; i <= segments; i++ {
		y := 0
		if i%2 == 0 {
			y = 2 * amplitude
		}
		fmt.Fprintf(&b, " L %d %d", i*step, y)
	}
	return b.String()
}

func synthContainerID(seq int) string {
	return fmt.Sprintf("animbench-synth-%d", seq)
}

func synthBlockClass(seq int) string {
	return fmt.Sprintf("animbench-synth-item-%d", seq)
}
