package page

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// Transition timings for synthetic style mutations.
const (
	revealDuration = 600 * time.Millisecond
	dashDuration   = 1500 * time.Millisecond
	shapeDuration  = 800 * time.Millisecond

	defaultFrameInterval = time.Second / 60
)

// ScrollEvent records one ScrollTo call.
type ScrollEvent struct {
	Y      int
	Smooth bool
}

// Synthetic is an in-memory Page with a deterministic element tree.
//
// It doubles as a frame source: WaitFrame ticks at the configured frame rate
// and advances in-flight style transitions with an eased interpolation, so a
// sampler driving a Synthetic page observes believable motion.
type Synthetic struct {
	mu            sync.Mutex
	info          Info
	height        int
	scrollY       int
	scrollEvents  []ScrollEvent
	elements      []*element
	transitions   []*transition
	frameInterval time.Duration
	synthSeq      int
}

// transition is one in-flight style interpolation.
type transition struct {
	el       *element
	field    styleField
	from, to float32
	start    time.Time
	duration time.Duration
}

// Info returns the page descriptors.
func (p *Synthetic) Info() Info {
	return p.info
}

// ScrollHeight reports the configured scrollable height.
func (p *Synthetic) ScrollHeight(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.height, nil
}

// ScrollTo clamps the offset into the scroll range and records the event.
func (p *Synthetic) ScrollTo(ctx context.Context, y int, smooth bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if y < 0 {
		y = 0
	}
	if y > p.height {
		y = p.height
	}
	p.scrollY = y
	p.scrollEvents = append(p.scrollEvents, ScrollEvent{Y: y, Smooth: smooth})
	return nil
}

// Count reports how many elements match the selector.
func (p *Synthetic) Count(ctx context.Context, selector string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, el := range p.elements {
		if el.matches(selector) {
			n++
		}
	}
	return n, nil
}

// Reveal hides the nth match and transitions it to visible.
func (p *Synthetic) Reveal(ctx context.Context, selector string, index int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	el, err := p.nth(selector, index)
	if err != nil {
		return err
	}

	now := time.Now()
	el.style.Opacity = 0
	el.style.TranslateY = 30
	p.schedule(el, fieldOpacity, 1, now, revealDuration)
	p.schedule(el, fieldTranslateY, 0, now, revealDuration)
	return nil
}

// Shapes collects drawable vector elements in selector priority order.
func (p *Synthetic) Shapes(ctx context.Context, selectors []string) ([]Shape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	var shapes []Shape
	for _, selector := range selectors {
		i := 0
		for _, el := range p.elements {
			if !el.matches(selector) {
				continue
			}
			if el.kind != "" {
				shapes = append(shapes, Shape{Selector: selector, Index: i, Kind: el.kind})
			}
			i++
		}
	}
	return shapes, nil
}

// AnimateShape starts the kind-specific animation on one shape.
func (p *Synthetic) AnimateShape(ctx context.Context, shape Shape) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	el, err := p.nth(shape.Selector, shape.Index)
	if err != nil {
		return err
	}

	now := time.Now()
	switch shape.Kind {
	case ShapePath, ShapeLine:
		el.style.DashOffset = el.pathLen
		p.schedule(el, fieldDashOffset, 0, now, dashDuration)
	case ShapeCircle:
		p.schedule(el, fieldRadius, el.style.Radius*2, now, shapeDuration)
	case ShapeRect:
		p.schedule(el, fieldWidth, el.style.Width*1.5, now, shapeDuration)
	default:
		return errors.Errorf("unknown shape kind %q", shape.Kind)
	}
	return nil
}

// SynthesizeBlocks inserts count off-screen placeholder blocks tracked under a
// fresh batch class.
func (p *Synthetic) SynthesizeBlocks(ctx context.Context, count int) (string, CleanupFunc, error) {
	if err := ctx.Err(); err != nil {
		return "", nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.synthSeq++
	batch := fmt.Sprintf("synthetic-batch-%d", p.synthSeq)
	for i := 0; i < count; i++ {
		p.elements = append(p.elements, &element{
			tag:     "div",
			classes: []string{"synthetic-block", batch},
		})
	}
	return "." + batch, p.cleanupBatch(batch), nil
}

// SynthesizeShape inserts one dash-animatable wave path.
func (p *Synthetic) SynthesizeShape(ctx context.Context) (Shape, CleanupFunc, error) {
	if err := ctx.Err(); err != nil {
		return Shape{}, nil, err
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	p.synthSeq++
	batch := fmt.Sprintf("synthetic-batch-%d", p.synthSeq)
	length := polylineLength(wavePoints(400, 40, 12))
	p.elements = append(p.elements, &element{
		tag:     "path",
		classes: []string{"synthetic-stroke", batch},
		kind:    ShapePath,
		pathLen: length,
	})

	shape := Shape{Selector: "." + batch, Index: 0, Kind: ShapePath}
	return shape, p.cleanupBatch(batch), nil
}

// cleanupBatch builds the CleanupFunc that removes one synthesized batch.
func (p *Synthetic) cleanupBatch(batch string) CleanupFunc {
	return func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.mu.Lock()
		defer p.mu.Unlock()

		kept := p.elements[:0]
		for _, el := range p.elements {
			if !el.hasClass(batch) {
				kept = append(kept, el)
			}
		}
		p.elements = kept
		return nil
	}
}

// WaitFrame ticks at the configured frame rate and advances transitions.
func (p *Synthetic) WaitFrame(ctx context.Context) (time.Time, error) {
	timer := time.NewTimer(p.frameInterval)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return time.Time{}, ctx.Err()
	case now := <-timer.C:
		p.mu.Lock()
		p.step(now)
		p.mu.Unlock()
		return now, nil
	}
}

// ScrollY reports the current scroll offset.
func (p *Synthetic) ScrollY() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scrollY
}

// ScrollEvents returns a copy of all recorded ScrollTo calls.
func (p *Synthetic) ScrollEvents() []ScrollEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]ScrollEvent, len(p.scrollEvents))
	copy(out, p.scrollEvents)
	return out
}

// NodeCount reports the total number of elements, synthesized included.
func (p *Synthetic) NodeCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.elements)
}

// StyleOf snapshots the animatable style of the nth match.
func (p *Synthetic) StyleOf(selector string, index int) (Style, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	el, err := p.nth(selector, index)
	if err != nil {
		return Style{}, err
	}
	return el.style, nil
}

// Flush completes all in-flight transitions immediately.
func (p *Synthetic) Flush() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, tr := range p.transitions {
		tr.el.set(tr.field, tr.to)
	}
	p.transitions = p.transitions[:0]
}

// nth resolves the index-th match of selector. Callers hold the lock.
func (p *Synthetic) nth(selector string, index int) (*element, error) {
	i := 0
	for _, el := range p.elements {
		if !el.matches(selector) {
			continue
		}
		if i == index {
			return el, nil
		}
		i++
	}
	return nil, errors.Errorf("selector %q has no element %d", selector, index)
}

// schedule starts a transition from the current value. Callers hold the lock.
func (p *Synthetic) schedule(el *element, field styleField, to float32, start time.Time, d time.Duration) {
	p.transitions = append(p.transitions, &transition{
		el:       el,
		field:    field,
		from:     el.get(field),
		to:       to,
		start:    start,
		duration: d,
	})
}

// step advances transitions to now. Callers hold the lock.
func (p *Synthetic) step(now time.Time) {
	active := p.transitions[:0]
	for _, tr := range p.transitions {
		progress := float32(now.Sub(tr.start)) / float32(tr.duration)
		tr.el.set(tr.field, lerp(tr.from, tr.to, easeOutCubic(progress)))
		if progress < 1 {
			active = append(active, tr)
		}
	}
	p.transitions = active
}
