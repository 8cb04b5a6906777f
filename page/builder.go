package page

import "time"

// Class names preloaded content is built from. They line up with the selector
// candidates the scenario runner probes first.
const (
	ClassCard          = "card"
	ClassTagChip       = "tag-chip"
	ClassTitleLine     = "title-line"
	ClassFloatingShape = "floating-shape"
	ClassGradientOrb   = "gradient-orb"
	ClassStrokeShape   = "stroke-shape"
)

// SyntheticBuilder assembles a Synthetic page with fluent API
type SyntheticBuilder struct {
	page *Synthetic
}

// NewSyntheticBuilder creates a new page builder rooted at the given path
func NewSyntheticBuilder(path string) *SyntheticBuilder {
	return &SyntheticBuilder{
		page: &Synthetic{
			info: Info{
				Path:             path,
				Agent:            "animbench/synthetic",
				ViewportWidth:    1920,
				ViewportHeight:   1080,
				DevicePixelRatio: 1,
			},
			height:        2400,
			frameInterval: defaultFrameInterval,
		},
	}
}

// WithAgent sets the agent descriptor
func (sb *SyntheticBuilder) WithAgent(agent string) *SyntheticBuilder {
	sb.page.info.Agent = agent
	return sb
}

// WithViewport sets the viewport dimensions
func (sb *SyntheticBuilder) WithViewport(width, height int) *SyntheticBuilder {
	sb.page.info.ViewportWidth = width
	sb.page.info.ViewportHeight = height
	return sb
}

// WithPixelRatio sets the device pixel ratio
func (sb *SyntheticBuilder) WithPixelRatio(ratio float64) *SyntheticBuilder {
	sb.page.info.DevicePixelRatio = ratio
	return sb
}

// WithScrollHeight sets the total scrollable height in pixels
func (sb *SyntheticBuilder) WithScrollHeight(px int) *SyntheticBuilder {
	sb.page.height = px
	return sb
}

// WithFrameRate sets the synthetic vsync rate
func (sb *SyntheticBuilder) WithFrameRate(hz int) *SyntheticBuilder {
	if hz > 0 {
		sb.page.frameInterval = time.Second / time.Duration(hz)
	}
	return sb
}

// WithCards adds content cards
func (sb *SyntheticBuilder) WithCards(n int) *SyntheticBuilder {
	return sb.addPlain("div", ClassCard, n)
}

// WithTagChips adds tag chips
func (sb *SyntheticBuilder) WithTagChips(n int) *SyntheticBuilder {
	return sb.addPlain("span", ClassTagChip, n)
}

// WithTitleLines adds headline lines
func (sb *SyntheticBuilder) WithTitleLines(n int) *SyntheticBuilder {
	return sb.addPlain("h2", ClassTitleLine, n)
}

// WithFloatingShapes adds decorative floating movers
func (sb *SyntheticBuilder) WithFloatingShapes(n int) *SyntheticBuilder {
	return sb.addPlain("div", ClassFloatingShape, n)
}

// WithGradientOrbs adds decorative gradient orbs
func (sb *SyntheticBuilder) WithGradientOrbs(n int) *SyntheticBuilder {
	return sb.addPlain("div", ClassGradientOrb, n)
}

// WithShapes adds drawable vector shapes of the given kinds, in order
func (sb *SyntheticBuilder) WithShapes(kinds ...ShapeKind) *SyntheticBuilder {
	for _, kind := range kinds {
		el := &element{tag: string(kind), classes: []string{ClassStrokeShape}, kind: kind}
		switch kind {
		case ShapePath:
			el.pathLen = polylineLength(wavePoints(300, 30, 10))
		case ShapeLine:
			el.pathLen = 200
		case ShapeCircle:
			el.style.Radius = 40
		case ShapeRect:
			el.style.Width = 120
		}
		sb.page.elements = append(sb.page.elements, el)
	}
	return sb
}

// Build returns the assembled page
func (sb *SyntheticBuilder) Build() *Synthetic {
	return sb.page
}

func (sb *SyntheticBuilder) addPlain(tag, class string, n int) *SyntheticBuilder {
	for i := 0; i < n; i++ {
		sb.page.elements = append(sb.page.elements, &element{tag: tag, classes: []string{class}})
	}
	return sb
}

// DemoPage builds the synthetic stand-in for the animation demo page: plenty
// of reveal targets, enough decorative movers to classify as heavy, and a
// spread of drawable shapes.
func DemoPage() *Synthetic {
	return NewSyntheticBuilder("/demos/animations").
		WithScrollHeight(4200).
		WithCards(12).
		WithTagChips(10).
		WithTitleLines(4).
		WithFloatingShapes(8).
		WithGradientOrbs(6).
		WithShapes(ShapePath, ShapePath, ShapeLine, ShapeCircle, ShapeCircle, ShapeRect).
		Build()
}
