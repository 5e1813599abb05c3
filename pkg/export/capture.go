package export

import (
	"context"
	"image"
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/errors"
)

// Capture defaults.
const (
	DefaultScale       = 2.0
	DefaultBackground  = "#1a1a2e"
	DefaultJPEGQuality = 90
)

// CaptureOptions controls a capture.
type CaptureOptions struct {
	// UseCORS requests images with an Origin header so servers can approve
	// cross-origin reads.
	UseCORS bool
	// AllowTaint draws unapproved cross-origin images anyway, tainting the
	// canvas. When false such images are skipped.
	AllowTaint bool
	Background color.Color
	Scale      float64
}

// DefaultCaptureOptions returns the options used for every export.
func DefaultCaptureOptions() CaptureOptions {
	bg, _ := ParseColor(DefaultBackground)
	return CaptureOptions{
		UseCORS:    true,
		AllowTaint: true,
		Background: bg,
		Scale:      DefaultScale,
	}
}

// ParseColor parses a hex color such as "#1a1a2e".
func ParseColor(s string) (color.Color, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid color %q", s)
	}
	return c, nil
}

// Region is the part of the screen to capture: the board canvas and copies
// of its items.
type Region struct {
	BoardID string
	Width   float64
	Height  float64
	Items   []board.Item
}

// RegionOf copies b into a Region.
func RegionOf(b *board.Board) Region {
	w, h := b.Size()
	return Region{BoardID: b.ID(), Width: w, Height: h, Items: b.Items()}
}

// Canvas is a captured raster.
type Canvas struct {
	Image   image.Image
	Tainted bool
}

// Capturer rasterizes a region.
type Capturer interface {
	Capture(ctx context.Context, r Region, opts CaptureOptions) (*Canvas, error)
}

// CapturerFunc adapts a function to [Capturer].
type CapturerFunc func(ctx context.Context, r Region, opts CaptureOptions) (*Canvas, error)

// Capture calls f.
func (f CapturerFunc) Capture(ctx context.Context, r Region, opts CaptureOptions) (*Canvas, error) {
	return f(ctx, r, opts)
}
