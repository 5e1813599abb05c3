package render

import (
	"context"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/visionboard/pkg/errors"
	"github.com/matzehuels/visionboard/pkg/export"
)

// DefaultConcurrency is the number of images loaded in parallel.
const DefaultConcurrency = 4

// Rasterizer composites board items into a raster. It implements
// [export.Capturer] and is safe for concurrent use.
type Rasterizer struct {
	loader      Loader
	concurrency int
	logger      *log.Logger
}

// RasterOption configures a Rasterizer.
type RasterOption func(*Rasterizer)

// WithConcurrency limits parallel image loads.
func WithConcurrency(n int) RasterOption {
	return func(r *Rasterizer) {
		if n > 0 {
			r.concurrency = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) RasterOption {
	return func(r *Rasterizer) { r.logger = l }
}

// NewRasterizer returns a Rasterizer loading images through l.
func NewRasterizer(l Loader, opts ...RasterOption) *Rasterizer {
	r := &Rasterizer{loader: l, concurrency: DefaultConcurrency}
	for _, o := range opts {
		o(r)
	}
	if r.logger == nil {
		r.logger = log.New(io.Discard)
	}
	return r
}

// Capture implements [export.Capturer].
func (r *Rasterizer) Capture(ctx context.Context, region export.Region, opts export.CaptureOptions) (*export.Canvas, error) {
	scale := opts.Scale
	if scale <= 0 {
		scale = export.DefaultScale
	}
	w := int(math.Round(region.Width * scale))
	h := int(math.Round(region.Height * scale))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeCaptureFailed, "empty capture region %vx%v", region.Width, region.Height)
	}

	images, err := r.loadAll(ctx, region, opts.UseCORS)
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(w, h)
	if opts.Background != nil {
		dc.SetColor(opts.Background)
		dc.Clear()
	}

	tainted := false
	for _, it := range region.Items {
		sw := int(math.Round(it.Width * scale))
		sh := int(math.Round(it.Height * scale))
		if sw < 1 || sh < 1 {
			continue
		}
		img := images[it.URL]
		if img == nil {
			continue
		}
		if !img.Approved {
			if !opts.AllowTaint {
				r.logger.Debug("skipping cross-origin image", "url", it.URL)
				continue
			}
			tainted = true
		}
		fitted := imaging.Fill(img.Image, sw, sh, imaging.Center, imaging.Lanczos)
		dc.DrawImage(fitted, int(math.Round(it.X*scale)), int(math.Round(it.Y*scale)))
	}

	return &export.Canvas{Image: dc.Image(), Tainted: tainted}, nil
}

// loadAll fetches every distinct URL of region concurrently.
func (r *Rasterizer) loadAll(ctx context.Context, region export.Region, cors bool) (map[string]*Image, error) {
	var urls []string
	seen := make(map[string]bool)
	for _, it := range region.Items {
		if !seen[it.URL] {
			seen[it.URL] = true
			urls = append(urls, it.URL)
		}
	}

	results := make([]*Image, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)
	for i, u := range urls {
		g.Go(func() error {
			img, err := r.loader.Load(gctx, u, cors)
			if err != nil {
				return errors.Wrap(errors.ErrCodeCaptureFailed, err, "load %s", u)
			}
			results[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*Image, len(urls))
	for i, u := range urls {
		out[u] = results[i]
	}
	return out, nil
}

var _ export.Capturer = (*Rasterizer)(nil)
