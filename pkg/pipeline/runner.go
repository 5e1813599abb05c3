package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/cache"
	"github.com/matzehuels/visionboard/pkg/export"
	"github.com/matzehuels/visionboard/pkg/interaction"
	"github.com/matzehuels/visionboard/pkg/layout"
	"github.com/matzehuels/visionboard/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for the cache, capturer and logger. It
// doesn't store pipeline results, so multiple goroutines can safely use
// the same Runner with different options.
type Runner struct {
	Cache    cache.Cache
	Keyer    cache.Keyer
	Capturer export.Capturer
	Logger   *log.Logger

	// PDF overrides the PDF encoder. Nil uses fpdf.
	PDF export.PDFEncoder
}

// NewRunner creates a runner.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, capturer export.Capturer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:    c,
		Keyer:    keyer,
		Capturer: capturer,
		Logger:   logger,
	}
}

// Execute builds a board, replays gestures and exports every format.
// An input without a non-blank URL returns [board.ErrNoImages] unwrapped.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	// Stage 1: Board
	boardStart := time.Now()
	b, spec, err := r.Build(ctx, opts.URLs)
	if err != nil {
		return nil, err
	}
	result := &Result{Board: b, Layout: spec}
	result.Stats.Items = b.Len()

	// Stage 2: Gestures
	if opts.Gestures != nil {
		events, err := opts.Gestures.Resolve(b)
		if err != nil {
			return nil, fmt.Errorf("gestures: %w", err)
		}
		result.Stats.Events = len(events)
		result.Stats.Consumed = r.Replay(ctx, b, opts.Gestures.Origin, events)
		opts.Logger.Debug("replayed gestures",
			"events", result.Stats.Events,
			"consumed", result.Stats.Consumed)
	}
	result.Stats.BoardTime = time.Since(boardStart)

	// Stage 3: Export
	exportStart := time.Now()
	artifacts, info, err := r.Export(ctx, b, opts)
	if err != nil {
		return nil, fmt.Errorf("export: %w", err)
	}
	result.Artifacts = artifacts
	result.CacheInfo = info
	result.Stats.ExportTime = time.Since(exportStart)

	opts.Logger.Info("exported board",
		"formats", opts.Formats,
		"cached", info.Hits,
		"duration", result.Stats.ExportTime)

	return result, nil
}

// Build creates a board for urls and reports the grid it was seeded from.
func (r *Runner) Build(ctx context.Context, urls []string) (*board.Board, layout.Spec, error) {
	b, err := board.New(urls)
	if err != nil {
		return nil, layout.Spec{}, err
	}
	w, h := b.Size()
	spec := layout.Plan(b.Len(), w, h)
	observability.Board().OnBoardCreate(ctx, b.ID(), b.Len(), spec.Cols, spec.Rows)
	r.Logger.Debug("created board", "id", b.ID(), "items", b.Len(), "cols", spec.Cols, "rows", spec.Rows)
	return b, spec, nil
}

// Replay applies events to b through a controller anchored at origin and
// returns how many were consumed.
func (r *Runner) Replay(ctx context.Context, b *board.Board, origin interaction.Point, events []interaction.Event) int {
	ctrl := interaction.NewController(b, interaction.WithOrigin(origin))
	hooks := observability.Board()
	consumed := 0
	for _, ev := range events {
		ok := ctrl.Handle(ev)
		hooks.OnPointerEvent(ctx, b.ID(), interaction.Encode(ev).Type, ok)
		if ok {
			consumed++
		}
	}
	return consumed
}

// Export encodes b in every requested format, serving cached artifacts
// unless opts.Refresh is set. The first failure aborts the run.
func (r *Runner) Export(ctx context.Context, b *board.Board, opts Options) ([]export.Artifact, CacheInfo, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, CacheInfo{}, err
	}
	if r.Capturer == nil {
		return nil, CacheInfo{}, fmt.Errorf("runner has no capturer")
	}

	boardHash, err := geometryHash(b)
	if err != nil {
		return nil, CacheInfo{}, fmt.Errorf("hash board: %w", err)
	}

	pipelineOpts := []export.Option{
		export.WithCaptureOptions(opts.CaptureOptions()),
		export.WithJPEGQuality(opts.JPEGQuality),
		export.WithNotifier(opts.Notifier),
		export.WithLogger(opts.Logger),
	}
	if r.PDF != nil {
		pipelineOpts = append(pipelineOpts, export.WithPDFEncoder(r.PDF))
	}
	p := export.New(r.Capturer, pipelineOpts...)

	var info CacheInfo
	artifacts := make([]export.Artifact, 0, len(opts.ExportFormats()))
	for _, f := range opts.ExportFormats() {
		key := r.Keyer.ArtifactKey(boardHash, opts.ArtifactKeyOpts(f))
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				info.Hits++
				artifacts = append(artifacts, export.Artifact{
					Format:   f,
					Filename: f.Filename(),
					MIMEType: f.MIMEType(),
					Data:     data,
				})
				continue
			}
		}
		info.Misses++

		a, err := p.Export(ctx, b, f)
		if err != nil {
			return nil, info, err
		}
		if err := r.Cache.Set(ctx, key, a.Data, cache.TTLArtifact); err != nil {
			opts.Logger.Debug("cache artifact", "format", f, "error", err)
		}
		artifacts = append(artifacts, a)
	}
	info.ExportHit = info.Misses == 0 && info.Hits > 0
	return artifacts, info, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

// geometry is the part of a board that determines its pixels. Item ids
// are time-derived and excluded so identical boards share cache entries.
type geometry struct {
	Width  float64        `json:"w"`
	Height float64        `json:"h"`
	Items  []geometryItem `json:"items"`
}

type geometryItem struct {
	URL string  `json:"url"`
	X   float64 `json:"x"`
	Y   float64 `json:"y"`
	W   float64 `json:"w"`
	H   float64 `json:"h"`
}

func geometryHash(b *board.Board) (string, error) {
	w, h := b.Size()
	g := geometry{Width: w, Height: h}
	for _, it := range b.Items() {
		g.Items = append(g.Items, geometryItem{URL: it.URL, X: it.X, Y: it.Y, W: it.Width, H: it.Height})
	}
	return cache.HashJSON(g)
}
