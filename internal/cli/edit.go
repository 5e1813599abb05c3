package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/export"
	boardio "github.com/matzehuels/visionboard/pkg/io"
	"github.com/matzehuels/visionboard/pkg/render"
)

// editCommand creates the edit command, an interactive mouse-driven editor.
func (c *CLI) editCommand() *cobra.Command {
	var o editOptions

	cmd := &cobra.Command{
		Use:   "edit [url...]",
		Short: "Arrange a board interactively in the terminal",
		Long: `Arrange a board interactively in the terminal.

Drag an image with the left mouse button to move it; drag its bottom-right
corner to resize it. A board saved with "create --json" or the s key can be
reopened with --board. Images stay inside the canvas while moving and never
shrink below 50px.

Keys:
  p, j, d   export PNG, JPEG or PDF into --output
  s         save the board as visionboard.json into --output
  r         remove all images
  esc       cancel the current drag
  q         quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			o.URLs = args
			return c.runEdit(cmd.Context(), o)
		},
	}

	cmd.Flags().StringVarP(&o.Input, "input", "i", "", "file with one image URL per line (- for stdin)")
	cmd.Flags().StringVarP(&o.Board, "board", "b", "", "reopen a saved board JSON file")
	cmd.Flags().StringVarP(&o.OutputDir, "output", "o", "", "output directory (default: export.output_dir)")
	cmd.Flags().BoolVar(&o.NoCache, "no-cache", false, "disable caching")
	cmd.MarkFlagsMutuallyExclusive("board", "input")

	return cmd
}

type editOptions struct {
	URLs      []string
	Input     string
	Board     string
	OutputDir string
	NoCache   bool
}

// loadBoard opens the saved board or lays out a new one from the URLs.
func loadBoard(o editOptions) (*board.Board, error) {
	if o.Board != "" {
		if len(o.URLs) > 0 {
			return nil, fmt.Errorf("--board cannot be combined with URL arguments")
		}
		return boardio.ImportBoardJSON(o.Board)
	}
	urls := o.URLs
	if o.Input != "" {
		more, err := boardio.ImportURLs(o.Input)
		if err != nil {
			return nil, fmt.Errorf("read urls: %w", err)
		}
		urls = append(urls, more...)
	}
	return board.New(urls)
}

func (c *CLI) runEdit(ctx context.Context, o editOptions) error {
	b, err := loadBoard(o)
	if errors.Is(err, board.ErrNoImages) {
		printInfo("No images to place")
		return nil
	}
	if err != nil {
		return err
	}

	store, err := c.newCache(o.NoCache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	defer store.Close()

	capture, err := c.Config.CaptureOptions()
	if err != nil {
		return err
	}

	// Log output would corrupt the full-screen view.
	quiet := log.New(io.Discard)
	loader := c.newLoader(store, quiet)
	p := export.New(render.NewRasterizer(loader, render.WithLogger(quiet)),
		export.WithCaptureOptions(capture),
		export.WithJPEGQuality(c.Config.Export.JPEGQuality),
		export.WithLogger(quiet),
	)

	dir := o.OutputDir
	if dir == "" {
		dir = c.Config.Export.OutputDir
	}
	m := newEditor(ctx, b, p, export.FileDownloader{Dir: dir}, loader)

	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := prog.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("editor: %w", err)
	}
	return ctx.Err()
}
