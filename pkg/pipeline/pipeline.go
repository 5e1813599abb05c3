// Package pipeline runs the complete create → gesture → export flow.
//
// The CLI and the HTTP server both build boards, replay gestures and
// export artifacts. Centralizing the flow here keeps defaults, caching and
// observability identical across entry points.
//
// # Stages
//
//  1. Board: place the URLs on the canvas using the grid planner
//  2. Gestures: replay a scripted drag/resize sequence through the
//     interaction controller
//  3. Export: capture the board and encode each requested format
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, render.NewRasterizer(loader), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    URLs:    []string{"https://example.com/a.jpg", "https://example.com/b.jpg"},
//	    Formats: []string{"png", "pdf"},
//	})
//	if errors.Is(err, board.ErrNoImages) {
//	    return nil // nothing to do
//	}
//	png := result.Artifact(export.FormatPNG)
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/cache"
	"github.com/matzehuels/visionboard/pkg/export"
	boardio "github.com/matzehuels/visionboard/pkg/io"
	"github.com/matzehuels/visionboard/pkg/layout"
)

// =============================================================================
// Default Values
// =============================================================================

// DefaultFormats are exported when Options.Formats is empty.
var DefaultFormats = []string{string(export.FormatPNG)}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Board options
	URLs     []string        `json:"urls"`
	Gestures *boardio.Script `json:"gestures,omitempty"`

	// Export options
	Formats     []string `json:"formats,omitempty"`
	Scale       float64  `json:"scale,omitempty"`
	Background  string   `json:"background,omitempty"`
	NoCORS      bool     `json:"no_cors,omitempty"`
	NoTaint     bool     `json:"no_taint,omitempty"`
	JPEGQuality int      `json:"jpeg_quality,omitempty"`
	Refresh     bool     `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger   *log.Logger     `json:"-"`
	Notifier export.Notifier `json:"-"`

	formats   []export.Format
	capture   export.CaptureOptions
	validated bool
}

// ValidateAndSetDefaults checks fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if len(o.Formats) == 0 {
		o.Formats = DefaultFormats
	}
	formats, err := export.ParseFormats(o.Formats)
	if err != nil {
		return err
	}
	o.formats = formats

	if o.Scale == 0 {
		o.Scale = export.DefaultScale
	}
	if o.Background == "" {
		o.Background = export.DefaultBackground
	}
	if o.JPEGQuality == 0 {
		o.JPEGQuality = export.DefaultJPEGQuality
	}
	bg, err := export.ParseColor(o.Background)
	if err != nil {
		return err
	}
	o.capture = export.CaptureOptions{
		UseCORS:    !o.NoCORS,
		AllowTaint: !o.NoTaint,
		Background: bg,
		Scale:      o.Scale,
	}

	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
	if o.Notifier == nil {
		o.Notifier = export.LogNotifier{Logger: o.Logger}
	}
	o.validated = true
	return nil
}

// ExportFormats returns the parsed formats. Valid after
// [Options.ValidateAndSetDefaults].
func (o *Options) ExportFormats() []export.Format { return o.formats }

// CaptureOptions returns the capture settings. Valid after
// [Options.ValidateAndSetDefaults].
func (o *Options) CaptureOptions() export.CaptureOptions { return o.capture }

// ArtifactKeyOpts returns cache key options for one format.
func (o *Options) ArtifactKeyOpts(f export.Format) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:     string(f),
		Scale:      o.Scale,
		Background: strings.ToLower(o.Background),
		UseCORS:    !o.NoCORS,
		AllowTaint: !o.NoTaint,
	}
	if f == export.FormatJPG {
		opts.JPEGQuality = o.JPEGQuality
	}
	return opts
}

// =============================================================================
// Results
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Board is the board after gestures were applied.
	Board *board.Board

	// Layout is the grid the board was seeded from.
	Layout layout.Spec

	// Artifacts are the encoded exports in request order.
	Artifacts []export.Artifact

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which artifacts came from the cache.
	CacheInfo CacheInfo
}

// Artifact returns the artifact for f, or nil.
func (r *Result) Artifact(f export.Format) *export.Artifact {
	for i := range r.Artifacts {
		if r.Artifacts[i].Format == f {
			return &r.Artifacts[i]
		}
	}
	return nil
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Items      int
	Events     int
	Consumed   int
	BoardTime  time.Duration
	ExportTime time.Duration
}

// CacheInfo tracks artifact cache hits.
type CacheInfo struct {
	Hits      int
	Misses    int
	ExportHit bool // all artifacts came from cache
}
