package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all command output; tests swap it.
var stdout io.Writer = os.Stdout

var (
	colorCyan   = lipgloss.Color("36")
	colorGreen  = lipgloss.Color("35")
	colorYellow = lipgloss.Color("220") // active board item
	colorRed    = lipgloss.Color("167")
	colorBlue   = lipgloss.Color("75")
	colorWhite  = lipgloss.Color("255")
	colorGray   = lipgloss.Color("245")
	colorDim    = lipgloss.Color("240")
	colorBoard  = lipgloss.Color("#1a1a2e") // canvas background in the editor
)

var (
	StyleTitle   = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim     = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue   = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber  = lipgloss.NewStyle().Foreground(colorCyan)
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleOK      = lipgloss.NewStyle().Foreground(colorGreen)
	styleFailed  = lipgloss.NewStyle().Foreground(colorRed)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleNotice  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
	styleLabel   = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

func writeLine(s string) { fmt.Fprintln(stdout, s) }

func printSuccess(format string, args ...any) {
	writeLine(styleOK.Render("✓") + " " + fmt.Sprintf(format, args...))
}

func printInfo(format string, args ...any) {
	writeLine(styleInfo.Render("›") + " " + fmt.Sprintf(format, args...))
}

func printDetail(format string, args ...any) {
	writeLine("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printNotice shows the single user-facing notice of a failed export. It
// replaces any partial output, so it stands on its own line without a path.
func printNotice(msg string) {
	writeLine(noticeLine(msg))
}

func noticeLine(msg string) string {
	msg = strings.TrimSpace(msg)
	if msg == "" {
		return ""
	}
	return styleFailed.Render("✗") + " " + styleNotice.Render("Export failed:") + " " + msg
}

// printArtifact lists one written export file.
func printArtifact(path string) {
	writeLine("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	writeLine(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printBoardSummary prints image count, grid shape and whether the export
// came from the artifact cache.
func printBoardSummary(items, cols, rows int, cached bool) {
	writeLine(boardSummary(items, cols, rows, cached))
}

func boardSummary(items, cols, rows int, cached bool) string {
	sep := StyleDim.Render(" · ")
	status := StyleDim.Render("fresh")
	if cached {
		status = styleOK.Render("cached")
	}
	noun := "images"
	if items == 1 {
		noun = "image"
	}
	return "  " + StyleDim.Render(fmt.Sprintf("%d %s", items, noun)) + sep +
		StyleDim.Render(fmt.Sprintf("%dx%d grid", cols, rows)) + sep + status
}

func printNextStep(description, cmd string) {
	writeLine(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { writeLine("") }
