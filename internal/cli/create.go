package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/export"
	boardio "github.com/matzehuels/visionboard/pkg/io"
)

// boardJSONName is the snapshot written by create --json.
const boardJSONName = "visionboard.json"

type createOptions struct {
	URLs       []string
	Input      string
	Gestures   string
	Formats    string
	OutputDir  string
	Scale      float64
	Background string
	JSON       bool
	NoCache    bool
	Refresh    bool
}

// createCommand creates the create command, the non-interactive path from
// URLs to exported files.
func (c *CLI) createCommand() *cobra.Command {
	var o createOptions

	cmd := &cobra.Command{
		Use:   "create [url...]",
		Short: "Place images on a board and export it",
		Long: `Place images on a board and export it.

URLs come from the arguments and from --input (one per line, # comments,
"-" for stdin). Blank entries are ignored; if none remain nothing is done.
Images are laid out in a balanced grid on an 800x600 canvas.

A gesture script (--gestures) replays drags and resizes before export:

  origin: {x: 0, y: 0}
  events:
    - {type: down, item: 1, x: 20, y: 20}
    - {type: move, x: 120, y: 80}
    - {type: up}

Exports are written as visionboard.<ext> into --output.`,
		Example: `  visionboard create https://example.com/a.jpg https://example.com/b.jpg
  visionboard create -i urls.txt -f png,pdf -o out/
  visionboard create -i urls.txt -g gestures.yaml --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.URLs = args
			return c.runCreate(cmd.Context(), o)
		},
	}

	cmd.Flags().StringVarP(&o.Input, "input", "i", "", "file with one image URL per line (- for stdin)")
	cmd.Flags().StringVarP(&o.Gestures, "gestures", "g", "", "YAML gesture script to replay before export")
	cmd.Flags().StringVarP(&o.Formats, "format", "f", "", "output formats: png (default), jpg, pdf (comma-separated)")
	cmd.Flags().StringVarP(&o.OutputDir, "output", "o", "", "output directory (default: export.output_dir)")
	cmd.Flags().Float64Var(&o.Scale, "scale", 0, "capture scale (default: export.scale)")
	cmd.Flags().StringVar(&o.Background, "background", "", "background color (default: export.background)")
	cmd.Flags().BoolVar(&o.JSON, "json", false, "also write the board snapshot as "+boardJSONName)
	cmd.Flags().BoolVar(&o.NoCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&o.Refresh, "refresh", false, "ignore cached exports")

	return cmd
}

// runCreate builds the board, exports it and writes the files.
func (c *CLI) runCreate(ctx context.Context, o createOptions) error {
	logger := loggerFromContext(ctx)

	urls := o.URLs
	if o.Input != "" {
		more, err := boardio.ImportURLs(o.Input)
		if err != nil {
			return fmt.Errorf("read urls: %w", err)
		}
		urls = append(urls, more...)
	}

	opts := c.exportOptions()
	opts.URLs = urls
	opts.Formats = parseFormats(o.Formats)
	opts.Refresh = o.Refresh
	opts.Logger = logger
	if o.Scale > 0 {
		opts.Scale = o.Scale
	}
	if o.Background != "" {
		opts.Background = o.Background
	}
	if o.Gestures != "" {
		script, err := boardio.ImportGestures(o.Gestures)
		if err != nil {
			return fmt.Errorf("read gestures: %w", err)
		}
		opts.Gestures = script
	}

	var notice string
	opts.Notifier = export.NotifierFunc(func(_ context.Context, msg string) { notice = msg })

	runner, err := c.newRunner(o.NoCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	spinner := newSpinnerWithContext(ctx, "Exporting board...")
	spinner.Start()
	result, err := runner.Execute(ctx, opts)
	spinner.Stop()

	if errors.Is(err, board.ErrNoImages) {
		printInfo("No images to place")
		return nil
	}
	if err != nil {
		if notice != "" {
			printNotice(notice)
		}
		return err
	}
	prog.done("Exported board", "items", result.Stats.Items, "formats", len(result.Artifacts))

	dir := o.OutputDir
	if dir == "" {
		dir = c.Config.Export.OutputDir
	}
	sink := export.FileDownloader{Dir: dir}
	for _, a := range result.Artifacts {
		if err := sink.Download(ctx, a); err != nil {
			return fmt.Errorf("write %s: %w", a.Filename, err)
		}
	}
	if o.JSON {
		if err := boardio.ExportBoardJSON(result.Board, filepath.Join(dir, boardJSONName)); err != nil {
			return fmt.Errorf("write %s: %w", boardJSONName, err)
		}
	}

	printSuccess("Board exported")
	for _, a := range result.Artifacts {
		printArtifact(sink.Path(a.Format))
	}
	if o.JSON {
		printArtifact(filepath.Join(dir, boardJSONName))
	}
	printBoardSummary(result.Stats.Items, result.Layout.Cols, result.Layout.Rows, result.CacheInfo.ExportHit)
	printNewline()
	printNextStep("Edit interactively", appName+" edit "+urlHint(urls, o.Input))
	return nil
}

// urlHint is the argument list suggested for a follow-up command.
func urlHint(urls []string, input string) string {
	if input != "" && input != "-" {
		return "-i " + input
	}
	if len(urls) == 1 {
		return urls[0]
	}
	return "<url...>"
}
