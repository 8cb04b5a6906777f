package scenario

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/anim-bench/go-animbench/page"
)

// A page is heavy when its decorative movers outnumber this threshold.
const heavyMoverThreshold = 10

// Number of placeholder blocks synthesized when no stagger targets exist.
const synthesizedBlocks = 20

// Settle waits appended after the last step of each scenario.
const (
	scrollSettleWait  = 1000 * time.Millisecond
	staggerSettleWait = 1000 * time.Millisecond
	strokeSettleWait  = 2500 * time.Millisecond
)

// pacing groups the per-step delays of one load tier.
type pacing struct {
	scrollStepPx int
	scrollWait   time.Duration
	staggerDelay time.Duration
	strokeDelay  time.Duration
}

// Conservative pacing for pages that are already animation-dense, faster
// pacing for light pages.
var (
	heavyPacing = pacing{
		scrollStepPx: 200,
		scrollWait:   300 * time.Millisecond,
		staggerDelay: 120 * time.Millisecond,
		strokeDelay:  300 * time.Millisecond,
	}
	lightPacing = pacing{
		scrollStepPx: 100,
		scrollWait:   150 * time.Millisecond,
		staggerDelay: 80 * time.Millisecond,
		strokeDelay:  200 * time.Millisecond,
	}
)

// Selector candidates, in priority order.
var (
	// decorativeSelectors count toward the heavy classification.
	decorativeSelectors = []string{
		"." + page.ClassFloatingShape,
		"." + page.ClassGradientOrb,
		".particle",
		".blob",
	}

	// staggerSelectors locate reveal targets.
	staggerSelectors = []string{
		"." + page.ClassCard,
		".project-card",
		"." + page.ClassTagChip,
		"." + page.ClassTitleLine,
		".reveal-item",
	}

	// strokeSelectors locate drawable vector shapes.
	strokeSelectors = []string{"path", "line", "circle", "rect"}
)

// demoPathFragments mark paths of pages that ship their own animation load.
var demoPathFragments = []string{"/demos/", "demo.html", "animations"}

// classification captures the adaptive-pacing heuristics for one page.
type classification struct {
	Decorative int
	Heavy      bool
	Demo       bool
}

// slow reports whether the conservative pacing tier applies.
func (c classification) slow() bool {
	return c.Heavy || c.Demo
}

func (c classification) pacing() pacing {
	if c.slow() {
		return heavyPacing
	}
	return lightPacing
}

// classify counts decorative movers and applies the demo-path heuristic.
func classify(ctx context.Context, p page.Page) (classification, error) {
	total := 0
	for _, selector := range decorativeSelectors {
		n, err := p.Count(ctx, selector)
		if err != nil {
			return classification{}, errors.Wrapf(err, "count %s", selector)
		}
		total += n
	}

	return classification{
		Decorative: total,
		Heavy:      total > heavyMoverThreshold,
		Demo:       isDemoPath(p.Info().Path),
	}, nil
}

func isDemoPath(path string) bool {
	lower := strings.ToLower(path)
	for _, fragment := range demoPathFragments {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return false
}
