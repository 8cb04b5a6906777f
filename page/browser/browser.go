// Package browser - Drives a live Chromium page through the DevTools
// protocol and exposes it as a page.Page.
//
// The adapter also provides the two sampler capabilities a real page has: the
// frame source is requestAnimationFrame and the heap prober reads
// performance.memory, which only Chromium-family engines expose. Probing a
// page without that API reports the capability as absent rather than failing.
package browser

import (
	"context"
	"time"

	cdpruntime "github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/anim-bench/go-animbench/page"
	"github.com/anim-bench/go-animbench/sampler"
)

// DefaultOpTimeout bounds every single protocol round trip.
const DefaultOpTimeout = 30 * time.Second

// Options configures the browser session.
type Options struct {
	// Headed runs a visible browser window. Default is headless.
	Headed bool
	// Viewport sets the browser window size. Defaults to 1920x1080.
	ViewportWidth  int
	ViewportHeight int
	// OpTimeout bounds each protocol operation (default: 30s).
	OpTimeout time.Duration
	// Logger receives session lifecycle events. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

// Page is a live browser tab implementing page.Page.
type Page struct {
	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc
	timeout     time.Duration
	info        page.Info
	log         zerolog.Logger
	synthSeq    int
}

// Open launches a browser, navigates to the URL and collects the page
// descriptors. Close must be called to release the browser.
func Open(ctx context.Context, url string, opts Options) (*Page, error) {
	if opts.ViewportWidth == 0 {
		opts.ViewportWidth = 1920
	}
	if opts.ViewportHeight == 0 {
		opts.ViewportHeight = 1080
	}
	if opts.OpTimeout == 0 {
		opts.OpTimeout = DefaultOpTimeout
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
	)
	if opts.Headed {
		allocOpts = append(allocOpts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	p := &Page{
		ctx:         tabCtx,
		cancel:      tabCancel,
		allocCancel: allocCancel,
		timeout:     opts.OpTimeout,
		log:         log,
	}

	navCtx, navCancel := context.WithTimeout(tabCtx, opts.OpTimeout)
	defer navCancel()

	var path, agent string
	var width, height int
	var ratio float64
	err := chromedp.Run(navCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Evaluate(`location.pathname`, &path),
		chromedp.Evaluate(`navigator.userAgent`, &agent),
		chromedp.Evaluate(`window.innerWidth`, &width),
		chromedp.Evaluate(`window.innerHeight`, &height),
		chromedp.Evaluate(`window.devicePixelRatio`, &ratio),
	)
	if err != nil {
		p.Close()
		return nil, errors.Wrapf(err, "open %s", url)
	}

	p.info = page.Info{
		Path:             path,
		Agent:            agent,
		ViewportWidth:    width,
		ViewportHeight:   height,
		DevicePixelRatio: ratio,
	}
	log.Info().Str("url", url).Str("path", path).Msg("browser page ready")
	return p, nil
}

// Close releases the tab and the browser process.
func (p *Page) Close() error {
	p.cancel()
	p.allocCancel()
	return nil
}

// Info returns the descriptors collected at open time.
func (p *Page) Info() page.Info {
	return p.info
}

// run executes actions against the tab with the per-op timeout. The caller
// context only gates entry; protocol work rides on the tab context.
func (p *Page) run(ctx context.Context, actions ...chromedp.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	opCtx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()
	return chromedp.Run(opCtx, actions...)
}

// ScrollHeight reads the full document scroll height.
func (p *Page) ScrollHeight(ctx context.Context) (int, error) {
	var height int
	if err := p.run(ctx, chromedp.Evaluate(`document.documentElement.scrollHeight`, &height)); err != nil {
		return 0, errors.Wrap(err, "read scroll height")
	}
	return height, nil
}

// ScrollTo scrolls the window, smoothly when asked.
func (p *Page) ScrollTo(ctx context.Context, y int, smooth bool) error {
	if err := p.run(ctx, chromedp.Evaluate(scrollToJS(y, smooth), nil)); err != nil {
		return errors.Wrapf(err, "scroll to %d", y)
	}
	return nil
}

// Count reports how many elements match the selector.
func (p *Page) Count(ctx context.Context, selector string) (int, error) {
	var n int
	if err := p.run(ctx, chromedp.Evaluate(countJS(selector), &n)); err != nil {
		return 0, errors.Wrapf(err, "count %s", selector)
	}
	return n, nil
}

// Reveal transitions the nth match from hidden to visible.
func (p *Page) Reveal(ctx context.Context, selector string, index int) error {
	var ok bool
	if err := p.run(ctx, chromedp.Evaluate(revealJS(selector, index), &ok)); err != nil {
		return errors.Wrapf(err, "reveal %s[%d]", selector, index)
	}
	if !ok {
		return errors.Errorf("selector %q has no element %d", selector, index)
	}
	return nil
}

// Shapes collects drawable vector elements for the given selectors.
func (p *Page) Shapes(ctx context.Context, selectors []string) ([]page.Shape, error) {
	js, err := shapesJS(selectors)
	if err != nil {
		return nil, err
	}
	var shapes []page.Shape
	if err := p.run(ctx, chromedp.Evaluate(js, &shapes)); err != nil {
		return nil, errors.Wrap(err, "collect shapes")
	}
	return shapes, nil
}

// AnimateShape starts the kind-specific animation on one shape.
func (p *Page) AnimateShape(ctx context.Context, shape page.Shape) error {
	js, err := animateShapeJS(shape)
	if err != nil {
		return err
	}
	var ok bool
	if err := p.run(ctx, chromedp.Evaluate(js, &ok)); err != nil {
		return errors.Wrapf(err, "animate %s[%d]", shape.Selector, shape.Index)
	}
	if !ok {
		return errors.Errorf("selector %q has no shape %d", shape.Selector, shape.Index)
	}
	return nil
}

// SynthesizeBlocks inserts an off-screen container of placeholder blocks.
func (p *Page) SynthesizeBlocks(ctx context.Context, count int) (string, page.CleanupFunc, error) {
	p.synthSeq++
	id := synthContainerID(p.synthSeq)
	class := synthBlockClass(p.synthSeq)

	if err := p.run(ctx, chromedp.Evaluate(synthesizeBlocksJS(id, class, count), nil)); err != nil {
		return "", nil, errors.Wrap(err, "synthesize placeholder blocks")
	}
	return "." + class, p.removeByID(id), nil
}

// SynthesizeShape inserts an off-screen SVG with one dash-animatable path.
func (p *Page) SynthesizeShape(ctx context.Context) (page.Shape, page.CleanupFunc, error) {
	p.synthSeq++
	id := synthContainerID(p.synthSeq)
	class := synthBlockClass(p.synthSeq)

	if err := p.run(ctx, chromedp.Evaluate(synthesizeShapeJS(id, class), nil)); err != nil {
		return page.Shape{}, nil, errors.Wrap(err, "synthesize path")
	}
	shape := page.Shape{Selector: "." + class, Index: 0, Kind: page.ShapePath}
	return shape, p.removeByID(id), nil
}

// removeByID builds the CleanupFunc that removes one synthesized container.
func (p *Page) removeByID(id string) page.CleanupFunc {
	return func(ctx context.Context) error {
		if err := p.run(ctx, chromedp.Evaluate(removeByIDJS(id), nil)); err != nil {
			return errors.Wrapf(err, "remove synthesized container %s", id)
		}
		return nil
	}
}

// WaitFrame blocks until the page paints its next frame.
func (p *Page) WaitFrame(ctx context.Context) (time.Time, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, err
	}
	opCtx, cancel := context.WithTimeout(p.ctx, p.timeout)
	defer cancel()

	err := chromedp.Run(opCtx, chromedp.Evaluate(waitFrameJS, nil, awaitPromise))
	if err != nil {
		return time.Time{}, errors.Wrap(err, "await frame")
	}
	return time.Now(), nil
}

// Probe reads performance.memory. Engines without the API report ok=false.
func (p *Page) Probe(ctx context.Context) (sampler.MemorySample, bool) {
	var probe struct {
		Available bool `json:"available"`
		UsedMB    int  `json:"used_mb"`
		TotalMB   int  `json:"total_mb"`
		LimitMB   int  `json:"limit_mb"`
	}
	if err := p.run(ctx, chromedp.Evaluate(probeMemoryJS, &probe)); err != nil {
		p.log.Debug().Err(err).Msg("memory probe failed")
		return sampler.MemorySample{}, false
	}
	if !probe.Available {
		return sampler.MemorySample{}, false
	}
	return sampler.MemorySample{
		UsedMB:    probe.UsedMB,
		TotalMB:   probe.TotalMB,
		LimitMB:   probe.LimitMB,
		Timestamp: time.Now(),
	}, true
}

// awaitPromise makes Evaluate resolve the returned promise before returning.
func awaitPromise(params *cdpruntime.EvaluateParams) *cdpruntime.EvaluateParams {
	return params.WithAwaitPromise(true)
}
