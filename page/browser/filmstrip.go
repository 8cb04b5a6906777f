package browser

import (
	"bytes"
	"context"
	"image/png"

	"github.com/chromedp/chromedp"
	"github.com/nfnt/resize"
	"github.com/pkg/errors"
)

// DefaultThumbnailWidth is the filmstrip frame width in pixels.
const DefaultThumbnailWidth = 320

// Thumbnail captures the current viewport and scales it down to at most
// maxWidth pixels wide, preserving aspect ratio. The result is PNG-encoded.
// Scenario runs capture one thumbnail per scenario to build a filmstrip of
// the page's visual state over the run.
func (p *Page) Thumbnail(ctx context.Context, maxWidth int) ([]byte, error) {
	if maxWidth <= 0 {
		maxWidth = DefaultThumbnailWidth
	}

	var shot []byte
	if err := p.run(ctx, chromedp.CaptureScreenshot(&shot)); err != nil {
		return nil, errors.Wrap(err, "capture screenshot")
	}

	img, err := png.Decode(bytes.NewReader(shot))
	if err != nil {
		return nil, errors.Wrap(err, "decode screenshot")
	}

	thumb := resize.Thumbnail(uint(maxWidth), uint(maxWidth), img, resize.Lanczos3)

	var out bytes.Buffer
	if err := png.Encode(&out, thumb); err != nil {
		return nil, errors.Wrap(err, "encode thumbnail")
	}
	return out.Bytes(), nil
}
