// Package page - Document surfaces that animation scenarios run against.
//
// The Page interface is the coarse query-and-mutate API a scenario needs:
// selector counting, scrolling, reveal and stroke mutations, and synthesis of
// throwaway elements for pages that have nothing to animate. Synthetic is the
// in-memory implementation; package page/browser drives a real page over the
// Chrome DevTools Protocol.
package page

import "context"

// Info describes a page for classification and export purposes.
type Info struct {
	Path             string  `json:"path"`
	Agent            string  `json:"agent"`
	ViewportWidth    int     `json:"viewport_width"`
	ViewportHeight   int     `json:"viewport_height"`
	DevicePixelRatio float64 `json:"device_pixel_ratio"`
}

// ShapeKind distinguishes how a drawable vector element is animated.
type ShapeKind string

const (
	ShapePath   ShapeKind = "path"
	ShapeLine   ShapeKind = "line"
	ShapeCircle ShapeKind = "circle"
	ShapeRect   ShapeKind = "rect"
)

// Shape addresses one drawable vector element on a page.
type Shape struct {
	Selector string    `json:"selector"`
	Index    int       `json:"index"`
	Kind     ShapeKind `json:"kind"`
}

// CleanupFunc removes previously synthesized nodes from the page.
type CleanupFunc func(ctx context.Context) error

// Page is the document surface a scenario drives.
//
// Selectors are deliberately simple: ".name" matches a class, anything else
// matches a tag. Mutations must be cheap to issue; the visual work happens on
// whatever backs the implementation.
type Page interface {
	// Info returns static descriptors for classification and exports.
	Info() Info

	// ScrollHeight reports the total scrollable height in pixels.
	ScrollHeight(ctx context.Context) (int, error)

	// ScrollTo scrolls the viewport to the given offset, smoothly when asked.
	ScrollTo(ctx context.Context, y int, smooth bool) error

	// Count reports how many elements match the selector.
	Count(ctx context.Context, selector string) (int, error)

	// Reveal transitions the nth match from hidden to visible.
	Reveal(ctx context.Context, selector string, index int) error

	// Shapes collects drawable vector elements for the given selectors, in
	// selector priority order.
	Shapes(ctx context.Context, selectors []string) ([]Shape, error)

	// AnimateShape starts the kind-specific animation on one shape.
	AnimateShape(ctx context.Context, shape Shape) error

	// SynthesizeBlocks inserts count throwaway off-screen placeholder blocks
	// and returns the selector that matches them.
	SynthesizeBlocks(ctx context.Context, count int) (string, CleanupFunc, error)

	// SynthesizeShape inserts one throwaway dash-animatable path.
	SynthesizeShape(ctx context.Context) (Shape, CleanupFunc, error)
}
