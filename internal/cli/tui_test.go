package cli

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/export"
	"github.com/matzehuels/visionboard/pkg/render"
)

func fill(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func solidCapture(_ context.Context, r export.Region, opts export.CaptureOptions) (*export.Canvas, error) {
	return &export.Canvas{Image: fill(int(r.Width*opts.Scale), int(r.Height*opts.Scale), opts.Background)}, nil
}

// newTestEditor returns an editor over four images laid out 2x2. At the
// default 80 columns each terminal cell covers 10x20 board pixels.
func newTestEditor(t *testing.T) (*editor, string) {
	t.Helper()
	b, err := board.New([]string{
		"https://example.com/a.png",
		"https://example.com/b.png",
		"https://example.com/c.png",
		"https://example.com/d.png",
	})
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	p := export.New(export.CapturerFunc(solidCapture))
	return newEditor(context.Background(), b, p, export.FileDownloader{Dir: dir}, nil), dir
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: tea.MouseButtonLeft}
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func firstItem(t *testing.T, m *editor) board.Item {
	t.Helper()
	return m.ctrl.Board().Items()[0]
}

func TestEditorGeometry(t *testing.T) {
	m, _ := newTestEditor(t)
	if m.cols != 80 || m.rows != 30 {
		t.Fatalf("grid = %dx%d, want 80x30", m.cols, m.rows)
	}
	if sx, sy := m.scale(); sx != 10 || sy != 20 {
		t.Errorf("scale = %v,%v, want 10,20", sx, sy)
	}

	m.resize(200, 0)
	if m.cols != maxBoardCols {
		t.Errorf("cols = %d, want clamp to %d", m.cols, maxBoardCols)
	}
	m.resize(80, 10)
	if m.rows != 10 {
		t.Errorf("rows = %d, want 10 when height-bound", m.rows)
	}
}

func TestCellSpan(t *testing.T) {
	tests := []struct {
		pos, size, scale float64
		first, last      int
	}{
		{10, 385, 10, 1, 39},
		{10, 285, 20, 0, 14},
		{0, 5, 10, 0, 0},
		{405, 385, 10, 40, 78},
	}
	for _, tt := range tests {
		first, last := cellSpan(tt.pos, tt.size, tt.scale)
		if first != tt.first || last != tt.last {
			t.Errorf("cellSpan(%v,%v,%v) = %d,%d, want %d,%d", tt.pos, tt.size, tt.scale, first, last, tt.first, tt.last)
		}
	}
}

func TestEditorDrag(t *testing.T) {
	m, _ := newTestEditor(t)

	m.Update(mouse(tea.MouseActionPress, 5, 7))
	if !m.listening {
		t.Fatal("press on an item should attach listeners")
	}
	if _, ok := m.ctrl.Board().Interaction().(board.Dragging); !ok {
		t.Fatalf("interaction = %T, want Dragging", m.ctrl.Board().Interaction())
	}

	m.Update(mouse(tea.MouseActionMotion, 10, 9))
	if it := firstItem(t, m); it.X != 60 || it.Y != 50 {
		t.Errorf("after drag item at (%v,%v), want (60,50)", it.X, it.Y)
	}

	m.Update(mouse(tea.MouseActionRelease, 10, 9))
	if m.listening {
		t.Error("release should detach listeners")
	}
	if m.ctrl.Active() {
		t.Error("release should end the interaction")
	}

	// Motion after release is ignored.
	m.Update(mouse(tea.MouseActionMotion, 30, 20))
	if it := firstItem(t, m); it.X != 60 || it.Y != 50 {
		t.Errorf("motion while idle moved item to (%v,%v)", it.X, it.Y)
	}
}

func TestEditorResize(t *testing.T) {
	m, _ := newTestEditor(t)

	// Bottom-right cell of the first item: column 39, board row 14.
	m.Update(mouse(tea.MouseActionPress, 39, 14+boardTop))
	if _, ok := m.ctrl.Board().Interaction().(board.Resizing); !ok {
		t.Fatalf("interaction = %T, want Resizing", m.ctrl.Board().Interaction())
	}
	m.Update(mouse(tea.MouseActionMotion, 44, 16+boardTop))
	m.Update(mouse(tea.MouseActionRelease, 44, 16+boardTop))

	it := firstItem(t, m)
	if it.Width != 435 || it.Height != 325 {
		t.Errorf("size = %vx%v, want 435x325", it.Width, it.Height)
	}
	if it.X != 10 || it.Y != 10 {
		t.Errorf("resize moved item to (%v,%v)", it.X, it.Y)
	}
}

func TestEditorPressMisses(t *testing.T) {
	m, _ := newTestEditor(t)
	m.Update(mouse(tea.MouseActionPress, 0, boardTop))
	if m.listening || m.ctrl.Active() {
		t.Error("press on empty canvas should not start an interaction")
	}
}

func TestEditorKeys(t *testing.T) {
	m, _ := newTestEditor(t)

	m.Update(mouse(tea.MouseActionPress, 5, 7))
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.listening || m.ctrl.Active() {
		t.Error("esc should cancel the interaction")
	}

	m.Update(key("r"))
	if n := m.ctrl.Board().Len(); n != 0 {
		t.Errorf("after reset board has %d items", n)
	}
	if m.status != "Board cleared" {
		t.Errorf("status = %q", m.status)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should return tea.Quit")
	}
}

func TestEditorExport(t *testing.T) {
	m, dir := newTestEditor(t)

	cmd := m.export(export.FormatPNG)
	if cmd == nil {
		t.Fatal("export returned no command")
	}
	if !m.exporting {
		t.Error("exporting should be set while the command runs")
	}
	if again := m.export(export.FormatJPG); again != nil {
		t.Error("second export while running should be refused")
	}

	m.Update(cmd())
	if m.exporting {
		t.Error("exporting should clear when done")
	}
	if m.statusErr {
		t.Fatalf("export failed: %s", m.status)
	}
	data, err := os.ReadFile(filepath.Join(dir, "visionboard.png"))
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := image.Decode(bytes.NewReader(data)); err != nil {
		t.Errorf("exported file is not an image: %v", err)
	}
}

func TestEditorExportEmpty(t *testing.T) {
	m, _ := newTestEditor(t)
	m.ctrl.Reset()
	if cmd := m.export(export.FormatPNG); cmd != nil {
		t.Error("exporting an empty board should be refused")
	}
	if !m.statusErr {
		t.Error("empty export should report an error status")
	}
}

func TestEditorExportFailure(t *testing.T) {
	m, _ := newTestEditor(t)
	m.exporter = export.New(export.CapturerFunc(func(_ context.Context, r export.Region, opts export.CaptureOptions) (*export.Canvas, error) {
		c, _ := solidCapture(context.Background(), r, opts)
		c.Tainted = true
		return c, nil
	}))

	m.Update(m.export(export.FormatPNG)())
	if !m.statusErr || m.status != export.FailureNotice {
		t.Errorf("status = %q (err=%v), want failure notice", m.status, m.statusErr)
	}
}

func TestEditorPreviews(t *testing.T) {
	m, _ := newTestEditor(t)
	m.loader = render.LoaderFunc(func(_ context.Context, url string, _ bool) (*render.Image, error) {
		if strings.HasSuffix(url, "d.png") {
			return nil, os.ErrNotExist
		}
		return &render.Image{Image: fill(4, 4, color.RGBA{R: 255, A: 255}), Approved: true}, nil
	})

	items := m.ctrl.Board().Items()
	for _, it := range items {
		m.Update(m.loadPreview(it)())
	}
	if got := m.previews[items[0].ID]; got != lipgloss.Color("#ff0000") {
		t.Errorf("preview color = %q, want #ff0000", got)
	}
	if !m.failed[items[3].ID] {
		t.Error("failed preview should be recorded")
	}
}

func TestEditorView(t *testing.T) {
	m, _ := newTestEditor(t)
	view := m.View()
	for _, want := range []string{appName, "4 images", "◢", "a.png"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestShortName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://example.com/img/cat.png?w=200", "cat.png"},
		{"https://example.com/", "https://example.com/"},
		{"file:///tmp/dog.jpg", "dog.jpg"},
	}
	for _, tt := range tests {
		if got := shortName(tt.in); got != tt.want {
			t.Errorf("shortName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestEditorSaveAndReopen(t *testing.T) {
	m, dir := newTestEditor(t)
	m.Update(mouse(tea.MouseActionPress, 5, 7))
	m.Update(mouse(tea.MouseActionMotion, 10, 9))
	m.Update(mouse(tea.MouseActionRelease, 10, 9))

	m.Update(key("s"))
	if m.statusErr {
		t.Fatalf("save failed: %s", m.status)
	}

	b, err := loadBoard(editOptions{Board: filepath.Join(dir, boardJSONName)})
	if err != nil {
		t.Fatal(err)
	}
	if b.ID() != m.ctrl.Board().ID() || b.Len() != 4 {
		t.Errorf("reopened board %s with %d items", b.ID(), b.Len())
	}
	if it := b.Items()[0]; it.X != 60 || it.Y != 50 {
		t.Errorf("reopened item at (%v,%v), want (60,50)", it.X, it.Y)
	}

	if _, err := loadBoard(editOptions{Board: "x.json", URLs: []string{"a.png"}}); err == nil {
		t.Error("--board with URLs should be rejected")
	}
}

func TestLoadBoardFromURLs(t *testing.T) {
	list := filepath.Join(t.TempDir(), "urls.txt")
	if err := os.WriteFile(list, []byte("b.png\n\nc.png\n"), 0644); err != nil {
		t.Fatal(err)
	}
	b, err := loadBoard(editOptions{URLs: []string{"a.png"}, Input: list})
	if err != nil {
		t.Fatal(err)
	}
	if b.Len() != 3 {
		t.Errorf("board has %d items, want 3", b.Len())
	}
	if _, err := loadBoard(editOptions{}); err != board.ErrNoImages {
		t.Errorf("empty edit error = %v, want ErrNoImages", err)
	}
}
