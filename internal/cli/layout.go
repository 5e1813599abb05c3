package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/errors"
	"github.com/matzehuels/visionboard/pkg/layout"
)

// layoutCommand creates the layout command, which prints the grid the
// planner chooses for a number of images.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		width, height float64
		asJSON        bool
	)

	cmd := &cobra.Command{
		Use:   "layout <count>",
		Short: "Show the grid used for a number of images",
		Long: `Show the grid used for a number of images.

Up to 12 images use a curated grid (for example 5 images become 3x2).
Larger counts use ceil(sqrt(n)) columns. Each cell is separated by 10px
of padding on a canvas of --width x --height.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			count, err := strconv.Atoi(args[0])
			if err != nil || count < 0 {
				return errors.New(errors.ErrCodeInvalidInput, "count must be a non-negative integer, got %q", args[0])
			}
			if asJSON {
				return writeLayoutJSON(os.Stdout, count, width, height)
			}
			fmt.Println(renderLayout(count, width, height))
			return nil
		},
	}

	cmd.Flags().Float64Var(&width, "width", board.Width, "canvas width")
	cmd.Flags().Float64Var(&height, "height", board.Height, "canvas height")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the layout as JSON")

	return cmd
}

type layoutJSON struct {
	Spec  layout.Spec   `json:"spec"`
	Rects []layout.Rect `json:"rects"`
}

func writeLayoutJSON(w io.Writer, count int, width, height float64) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(layoutJSON{
		Spec:  layout.Plan(count, width, height),
		Rects: layout.Seed(count, width, height),
	})
}

// renderLayout renders the grid summary and a table of cell rectangles.
func renderLayout(count int, width, height float64) string {
	spec := layout.Plan(count, width, height)
	if count <= 0 {
		return StyleDim.Render("No images, nothing to place")
	}

	header := fmt.Sprintf("%s %s  %s %s  %s %s",
		StyleDim.Render("grid"), StyleNumber.Render(fmt.Sprintf("%dx%d", spec.Cols, spec.Rows)),
		StyleDim.Render("cell"), StyleNumber.Render(fmt.Sprintf("%.1fx%.1f", spec.CellWidth, spec.CellHeight)),
		StyleDim.Render("canvas"), StyleValue.Render(fmt.Sprintf("%.0fx%.0f", width, height)))
	if spec.Degenerate() {
		header += "\n" + StyleWarning.Render("cells have no area; a board with this many images is rejected")
	}

	rows := make([][]string, 0, count)
	for i, cell := range layout.Place(count, spec) {
		r := spec.Rect(cell)
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(cell.Row),
			strconv.Itoa(cell.Col),
			fmt.Sprintf("%.1f", r.X),
			fmt.Sprintf("%.1f", r.Y),
			fmt.Sprintf("%.1f", r.Width),
			fmt.Sprintf("%.1f", r.Height),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Row", "Col", "X", "Y", "Width", "Height").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	return header + "\n" + t.Render()
}
