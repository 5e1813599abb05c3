package cli

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/export"
	"github.com/matzehuels/visionboard/pkg/interaction"
	boardio "github.com/matzehuels/visionboard/pkg/io"
	"github.com/matzehuels/visionboard/pkg/observability"
	"github.com/matzehuels/visionboard/pkg/render"
)

// Board placement inside the terminal, in cells.
const (
	boardTop  = 2
	boardLeft = 0

	defaultBoardCols = 80
	minBoardCols     = 24
	maxBoardCols     = 160
)

// Item fill colors used until a preview has loaded.
var itemPalette = []lipgloss.Color{"24", "58", "53", "23", "94", "60"}

var (
	editorBoardStyle  = lipgloss.NewStyle().Background(colorBoard).Foreground(colorDim)
	editorLabelStyle  = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
	editorActiveStyle = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	editorHelpStyle   = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// Messages
// =============================================================================

// previewMsg carries the average color of an item's image.
type previewMsg struct {
	id    board.ItemID
	color color.Color
	err   error
}

// exportDoneMsg reports a finished export.
type exportDoneMsg struct {
	format export.Format
	path   string
	notice string
	err    error
}

// =============================================================================
// editor - Interactive board editor
// =============================================================================

// editor is the bubbletea model for editing a board with the mouse.
// Terminal cells map onto board pixels; a press over an item starts a drag,
// a press on its bottom-right cell starts a resize.
type editor struct {
	ctx      context.Context
	ctrl     *interaction.Controller
	exporter *export.Pipeline
	sink     export.FileDownloader
	loader   render.Loader
	cors     bool

	// listening is true while the controller's listeners are attached;
	// motion and release events are routed to it only then.
	listening bool

	cols, rows int
	previews   map[board.ItemID]lipgloss.Color
	failed     map[board.ItemID]bool
	exporting  bool
	status     string
	statusErr  bool
}

// newEditor returns an editor for b. loader may be nil to skip previews.
func newEditor(ctx context.Context, b *board.Board, p *export.Pipeline, sink export.FileDownloader, loader render.Loader) *editor {
	m := &editor{
		ctx:      ctx,
		exporter: p,
		sink:     sink,
		loader:   loader,
		cors:     p.CaptureOptions().UseCORS,
		previews: make(map[board.ItemID]lipgloss.Color),
		failed:   make(map[board.ItemID]bool),
	}
	m.ctrl = interaction.NewController(b, interaction.WithListeners(interaction.ListenerFuncs{
		OnAttach: func() { m.listening = true },
		OnDetach: func() { m.listening = false },
	}))
	m.resize(defaultBoardCols, 0)
	return m
}

func (m *editor) Init() tea.Cmd {
	if m.loader == nil {
		return nil
	}
	var cmds []tea.Cmd
	for _, it := range m.ctrl.Board().Items() {
		cmds = append(cmds, m.loadPreview(it))
	}
	return tea.Batch(cmds...)
}

func (m *editor) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
	case tea.WindowSizeMsg:
		m.resize(msg.Width-boardLeft, msg.Height-boardTop-2)
	case previewMsg:
		if msg.err != nil {
			m.failed[msg.id] = true
		} else if c, ok := colorful.MakeColor(msg.color); ok {
			m.previews[msg.id] = lipgloss.Color(c.Hex())
		}
	case exportDoneMsg:
		m.exporting = false
		switch {
		case msg.notice != "":
			m.setStatus(msg.notice, true)
		case msg.err != nil:
			m.setStatus(msg.err.Error(), true)
		default:
			m.setStatus("Saved "+msg.path, false)
		}
	}
	return m, nil
}

func (m *editor) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c":
		m.ctrl.Cancel()
		return tea.Quit
	case "esc":
		m.ctrl.Cancel()
	case "s":
		m.save()
	case "r":
		m.ctrl.Reset()
		observability.Board().OnBoardReset(m.ctx, m.ctrl.Board().ID())
		m.setStatus("Board cleared", false)
	case "p":
		return m.export(export.FormatPNG)
	case "j":
		return m.export(export.FormatJPG)
	case "d":
		return m.export(export.FormatPDF)
	}
	return nil
}

func (m *editor) handleMouse(msg tea.MouseMsg) {
	p := m.clientPoint(msg.X, msg.Y)
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if down, ok := m.pressAt(msg.X, msg.Y, p); ok {
			m.dispatch(down)
		}
	case msg.Action == tea.MouseActionMotion && m.listening:
		m.dispatch(interaction.PointerMove{Point: p})
	case msg.Action == tea.MouseActionRelease && m.listening:
		m.dispatch(interaction.PointerUp{Point: p})
	}
}

func (m *editor) dispatch(ev interaction.Event) {
	consumed := m.ctrl.Handle(ev)
	observability.Board().OnPointerEvent(m.ctx, m.ctrl.Board().ID(), interaction.Encode(ev).Type, consumed)
}

// export starts an export of a copy of the board so the editor can keep
// mutating the original while the capture runs.
func (m *editor) export(f export.Format) tea.Cmd {
	if m.exporting {
		m.setStatus("Export already running", true)
		return nil
	}
	if m.ctrl.Board().Len() == 0 {
		m.setStatus("Nothing to export", true)
		return nil
	}
	m.exporting = true
	m.setStatus(fmt.Sprintf("Exporting %s...", f), false)

	snapshot := board.Restore(m.ctrl.Board().Snapshot())
	ctx, exporter, sink := m.ctx, m.exporter, m.sink
	return func() tea.Msg {
		var notice string
		p := exporter.WithSink(sink, export.NotifierFunc(func(_ context.Context, msg string) { notice = msg }))
		_, err := p.Export(ctx, snapshot, f)
		return exportDoneMsg{format: f, path: sink.Path(f), notice: notice, err: err}
	}
}

// save writes the board snapshot next to the exports.
func (m *editor) save() {
	dir := m.sink.Dir
	if dir == "" {
		dir = "."
	}
	path := filepath.Join(dir, boardJSONName)
	err := os.MkdirAll(dir, 0755)
	if err == nil {
		err = boardio.ExportBoardJSON(m.ctrl.Board(), path)
	}
	if err != nil {
		m.setStatus(err.Error(), true)
		return
	}
	m.setStatus("Saved "+path, false)
}

func (m *editor) loadPreview(it board.Item) tea.Cmd {
	ctx, loader, cors := m.ctx, m.loader, m.cors
	return func() tea.Msg {
		img, err := loader.Load(ctx, it.URL, cors)
		if err != nil {
			return previewMsg{id: it.ID, err: err}
		}
		avg := imaging.Resize(img.Image, 1, 1, imaging.Box).At(0, 0)
		return previewMsg{id: it.ID, color: avg}
	}
}

func (m *editor) setStatus(msg string, isErr bool) {
	m.status, m.statusErr = msg, isErr
}

// =============================================================================
// Geometry
// =============================================================================

// resize fits the board into cols x rows cells keeping the canvas aspect
// ratio. Terminal cells are about twice as tall as wide. rows <= 0 means
// unbounded.
func (m *editor) resize(cols, rows int) {
	w, h := m.ctrl.Board().Size()
	cols = min(max(cols, minBoardCols), maxBoardCols)
	fit := int(math.Round(float64(cols) * h / w / 2))
	if rows > 0 && fit > rows {
		fit = max(rows, 4)
		cols = max(int(math.Round(float64(fit)*2*w/h)), minBoardCols)
	}
	m.cols, m.rows = cols, max(fit, 1)
}

// scale returns board pixels per terminal cell.
func (m *editor) scale() (sx, sy float64) {
	w, h := m.ctrl.Board().Size()
	return w / float64(m.cols), h / float64(m.rows)
}

// clientPoint maps the center of terminal cell (x, y) to client pixels and
// keeps the controller's origin in sync with the board's screen position.
func (m *editor) clientPoint(x, y int) interaction.Point {
	sx, sy := m.scale()
	m.ctrl.SetOrigin(interaction.Point{X: boardLeft * sx, Y: boardTop * sy})
	return interaction.Point{X: (float64(x) + 0.5) * sx, Y: (float64(y) + 0.5) * sy}
}

// cellSpan returns the first and last cell covering [pos, pos+size).
func cellSpan(pos, size, scale float64) (int, int) {
	first := int(math.Floor(pos / scale))
	last := int(math.Ceil((pos+size)/scale)) - 1
	return first, max(last, first)
}

// pressAt builds the pointer-down for a press on terminal cell (x, y).
// Cells are coarser than board pixels, so hit testing works on the cells an
// item is drawn over: the topmost item wins and its bottom-right cell is
// the resize handle.
func (m *editor) pressAt(x, y int, p interaction.Point) (interaction.PointerDown, bool) {
	items := m.ctrl.Board().Items()
	sx, sy := m.scale()
	col, row := x-boardLeft, y-boardTop
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		c0, c1 := cellSpan(it.X, it.Width, sx)
		r0, r1 := cellSpan(it.Y, it.Height, sy)
		if col < c0 || col > c1 || row < r0 || row > r1 {
			continue
		}
		target := interaction.TargetBody
		if col == c1 && row == r1 {
			target = interaction.TargetHandle
		}
		return interaction.PointerDown{Point: p, ItemID: it.ID, Target: target}, true
	}
	return interaction.PointerDown{}, false
}

// =============================================================================
// View
// =============================================================================

type cell struct {
	ch    rune
	style lipgloss.Style
}

func (m *editor) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(appName))
	b.WriteString(editorHelpStyle.Render("  drag to move · drag ◢ to resize · p/j/d export png/jpg/pdf · s save · r reset · q quit"))
	b.WriteString("\n\n")
	b.WriteString(m.renderBoard())
	b.WriteString("\n")

	switch {
	case m.status == "":
		b.WriteString(editorHelpStyle.Render(fmt.Sprintf("%d images", m.ctrl.Board().Len())))
	case m.statusErr:
		b.WriteString(styleFailed.Render("✗") + " " + m.status)
	default:
		b.WriteString(styleInfo.Render("›") + " " + m.status)
	}
	return b.String()
}

func (m *editor) renderBoard() string {
	grid := make([][]cell, m.rows)
	for r := range grid {
		grid[r] = make([]cell, m.cols)
		for c := range grid[r] {
			grid[r][c] = cell{ch: '·', style: editorBoardStyle}
		}
	}

	active, _ := board.Target(m.ctrl.Board().Interaction())
	sx, sy := m.scale()
	for i, it := range m.ctrl.Board().Items() {
		fill, ok := m.previews[it.ID]
		if !ok {
			fill = itemPalette[i%len(itemPalette)]
		}
		base := lipgloss.NewStyle().Background(fill)
		c0, c1 := cellSpan(it.X, it.Width, sx)
		r0, r1 := cellSpan(it.Y, it.Height, sy)
		for r := max(r0, 0); r <= min(r1, m.rows-1); r++ {
			for c := max(c0, 0); c <= min(c1, m.cols-1); c++ {
				grid[r][c] = cell{ch: ' ', style: base}
			}
		}

		labelStyle := base.Inherit(editorLabelStyle)
		if it.ID == active {
			labelStyle = base.Inherit(editorActiveStyle)
		}
		if !m.failed[it.ID] && r0 >= 0 && r0 < m.rows {
			label := []rune(fmt.Sprintf("%d %s", i+1, shortName(it.URL)))
			for k, ch := range label {
				c := c0 + k
				if c > c1 || c >= m.cols || c < 0 {
					break
				}
				grid[r0][c] = cell{ch: ch, style: labelStyle}
			}
		}
		if r1 >= 0 && r1 < m.rows && c1 >= 0 && c1 < m.cols {
			grid[r1][c1] = cell{ch: '◢', style: labelStyle}
		}
	}

	lines := make([]string, m.rows)
	for r, row := range grid {
		var line strings.Builder
		line.WriteString(strings.Repeat(" ", boardLeft))
		for _, c := range row {
			line.WriteString(c.style.Render(string(c.ch)))
		}
		lines[r] = line.String()
	}
	return strings.Join(lines, "\n")
}

// shortName returns the last path element of an image URL.
func shortName(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.Path != "" && u.Path != "/" {
		return path.Base(u.Path)
	}
	return raw
}
