package cli

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/visionboard/pkg/buildinfo"
	"github.com/matzehuels/visionboard/pkg/cache"
	"github.com/matzehuels/visionboard/pkg/config"
	"github.com/matzehuels/visionboard/pkg/export"
	"github.com/matzehuels/visionboard/pkg/httputil"
	"github.com/matzehuels/visionboard/pkg/pipeline"
	"github.com/matzehuels/visionboard/pkg/render"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = buildinfo.Name

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before any command runs.
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Visionboard arranges images on a canvas and exports them",
		Long:         `Visionboard places a list of image URLs on an 800x600 canvas in a balanced grid, lets you drag and resize them, and exports the board as PNG, JPEG or PDF.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			c.SetLogLevel(resolveLevel(c.verbose, cfg))
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")

	// Register all subcommands
	root.AddCommand(c.createCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	loader := c.newLoader(store, c.Logger)
	return pipeline.NewRunner(store, nil, render.NewRasterizer(loader, render.WithLogger(c.Logger)), c.Logger), nil
}

// newLoader builds an image loader that fetches http(s) images through
// store and reads local files directly.
func (c *CLI) newLoader(store cache.Cache, logger *log.Logger) render.Loader {
	httpLoader := render.NewHTTPLoader(
		render.WithOrigin(c.Config.Export.Origin),
		render.WithCache(store, c.imageKeyer(), c.Config.Cache.TTL),
		render.WithLoaderLogger(logger),
	)
	return render.NewMultiLoader(httpLoader, render.FileLoader{})
}

// newServeLoader builds the loader for the HTTP API. Image URLs come from
// remote clients, so only public hosts are dialled and local files are never
// read.
func (c *CLI) newServeLoader(store cache.Cache, logger *log.Logger) render.Loader {
	return render.NewHTTPLoader(
		render.WithClient(httputil.NewPublicClient(30*time.Second)),
		render.WithOrigin(c.Config.Export.Origin),
		render.WithCache(store, c.imageKeyer(), c.Config.Cache.TTL),
		render.WithLoaderLogger(logger),
	)
}

// imageKeyer scopes image keys to the configured origin.
func (c *CLI) imageKeyer() cache.Keyer {
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), "origin:"+c.Config.Export.Origin+":")
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// cacheDir returns the configured cache directory, falling back to the
// XDG cache directory (~/.cache/visionboard/).
func (c *CLI) cacheDir() (string, error) {
	if dir := c.Config.CacheDir(); dir != "" {
		return dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// exportOptions returns pipeline options seeded from the config file.
func (c *CLI) exportOptions() pipeline.Options {
	e := c.Config.Export
	return pipeline.Options{
		Scale:       e.Scale,
		Background:  e.Background,
		NoCORS:      !e.UseCORS,
		NoTaint:     !e.AllowTaint,
		JPEGQuality: e.JPEGQuality,
		Logger:      c.Logger,
	}
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(export.FormatPNG)}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
