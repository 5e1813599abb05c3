package export

import (
	"bytes"
	"context"
	"image"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/errors"
	"github.com/matzehuels/visionboard/pkg/observability"
)

// Pipeline captures boards and encodes them.
type Pipeline struct {
	capturer    Capturer
	pdf         PDFEncoder
	downloader  Downloader
	notifier    Notifier
	capture     CaptureOptions
	jpegQuality int
	logger      *log.Logger
	busy        *inflight
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPDFEncoder replaces the default fpdf encoder.
func WithPDFEncoder(e PDFEncoder) Option {
	return func(p *Pipeline) { p.pdf = e }
}

// WithDownloader sets where finished exports go.
func WithDownloader(d Downloader) Option {
	return func(p *Pipeline) { p.downloader = d }
}

// WithNotifier sets how failures are shown.
func WithNotifier(n Notifier) Option {
	return func(p *Pipeline) { p.notifier = n }
}

// WithCaptureOptions overrides [DefaultCaptureOptions].
func WithCaptureOptions(o CaptureOptions) Option {
	return func(p *Pipeline) { p.capture = o }
}

// WithJPEGQuality sets the JPEG quality (1-100).
func WithJPEGQuality(q int) Option {
	return func(p *Pipeline) { p.jpegQuality = q }
}

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// New returns a pipeline that captures with c. Without a downloader,
// artifacts are kept in a [MemoryDownloader].
func New(c Capturer, opts ...Option) *Pipeline {
	p := &Pipeline{
		capturer:    c,
		pdf:         FPDFEncoder{},
		capture:     DefaultCaptureOptions(),
		jpegQuality: DefaultJPEGQuality,
		busy:        &inflight{ids: make(map[string]struct{})},
	}
	for _, o := range opts {
		o(p)
	}
	if p.downloader == nil {
		p.downloader = &MemoryDownloader{}
	}
	if p.notifier == nil {
		// Notices are for the user; without a logger they go to log.Default().
		p.notifier = LogNotifier{Logger: p.logger}
	}
	if p.logger == nil {
		p.logger = log.New(io.Discard)
	}
	if p.capture.Background == nil {
		p.capture.Background = DefaultCaptureOptions().Background
	}
	if p.capture.Scale <= 0 {
		p.capture.Scale = DefaultScale
	}
	return p
}

// WithSink returns a copy of p that delivers to d and n. The copy shares
// p's in-flight guard, so exports through either are serialized per board.
func (p *Pipeline) WithSink(d Downloader, n Notifier) *Pipeline {
	cp := *p
	if d != nil {
		cp.downloader = d
	}
	if n != nil {
		cp.notifier = n
	}
	return &cp
}

// CaptureOptions returns the options used for captures.
func (p *Pipeline) CaptureOptions() CaptureOptions { return p.capture }

// Busy reports whether an export for boardID is running.
func (p *Pipeline) Busy(boardID string) bool { return p.busy.has(boardID) }

// Export captures b, encodes it as f and hands the result to the
// downloader. On failure the user sees [FailureNotice], nothing is
// downloaded and the coded error is returned. b is only read.
func (p *Pipeline) Export(ctx context.Context, b *board.Board, f Format) (Artifact, error) {
	if !p.busy.acquire(b.ID()) {
		return Artifact{}, errors.New(errors.ErrCodeExportInFlight, "export already running for board %s", b.ID())
	}
	defer p.busy.release(b.ID())

	a, err := p.Render(ctx, RegionOf(b), f)
	if err == nil {
		if err = p.downloader.Download(ctx, a); err != nil {
			err = errors.Wrap(errors.ErrCodeInternal, err, "save %s", a.Filename)
		}
	}
	if err != nil {
		p.logger.Debug("export failed", "board", b.ID(), "format", f, "error", err)
		p.notifier.Notify(ctx, FailureNotice)
		return Artifact{}, err
	}
	p.logger.Info("exported", "file", a.Filename, "bytes", len(a.Data))
	return a, nil
}

// Render captures r and encodes it as f without delivering it.
func (p *Pipeline) Render(ctx context.Context, r Region, f Format) (Artifact, error) {
	if _, err := ParseFormat(string(f)); err != nil {
		return Artifact{}, err
	}
	hooks := observability.Export()
	start := time.Now()
	hooks.OnExportStart(ctx, r.BoardID, string(f))

	data, err := p.render(ctx, r, f)

	hooks.OnExportComplete(ctx, r.BoardID, string(f), len(data), time.Since(start), err)
	if err != nil {
		return Artifact{}, err
	}
	return Artifact{Format: f, Filename: f.Filename(), MIMEType: f.MIMEType(), Data: data}, nil
}

func (p *Pipeline) render(ctx context.Context, r Region, f Format) ([]byte, error) {
	hooks := observability.Export()
	start := time.Now()
	hooks.OnCaptureStart(ctx, r.BoardID, len(r.Items))
	canvas, err := p.capturer.Capture(ctx, r, p.capture)
	hooks.OnCaptureComplete(ctx, r.BoardID, time.Since(start), err)
	if err != nil {
		if errors.GetCode(err) == "" {
			err = errors.Wrap(errors.ErrCodeCaptureFailed, err, "capture board")
		}
		return nil, err
	}
	if canvas == nil || canvas.Image == nil {
		return nil, errors.New(errors.ErrCodeCaptureFailed, "capture returned no image")
	}
	if canvas.Tainted {
		return nil, errors.New(errors.ErrCodeTaintedCanvas, "canvas is tainted by cross-origin images and cannot be read back")
	}

	switch f {
	case FormatPNG:
		return encode(canvas.Image, imaging.PNG)
	case FormatJPG:
		return encode(canvas.Image, imaging.JPEG, imaging.JPEGQuality(p.jpegQuality))
	default:
		png, err := encode(canvas.Image, imaging.PNG)
		if err != nil {
			return nil, err
		}
		size := canvas.Image.Bounds().Size()
		page := Page{Orientation: "L", Unit: "pt", Width: float64(size.X), Height: float64(size.Y)}
		doc, err := p.pdf.Encode(page, png)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode pdf")
		}
		return doc, nil
	}
}

func encode(img image.Image, f imaging.Format, opts ...imaging.EncodeOption) ([]byte, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, f, opts...); err != nil {
		return nil, errors.Wrap(errors.ErrCodeEncodeFailed, err, "encode %s", f)
	}
	return buf.Bytes(), nil
}

// inflight tracks boards with a running export.
type inflight struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func (g *inflight) acquire(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.ids[id]; ok {
		return false
	}
	g.ids[id] = struct{}{}
	return true
}

func (g *inflight) release(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.ids, id)
}

func (g *inflight) has(id string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.ids[id]
	return ok
}
