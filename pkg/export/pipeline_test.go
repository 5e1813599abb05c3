package export

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/errors"
)

// solidCapturer returns a canvas of the scaled region size filled with the
// background.
func solidCapturer(tainted bool) Capturer {
	return CapturerFunc(func(_ context.Context, r Region, o CaptureOptions) (*Canvas, error) {
		w, h := int(r.Width*o.Scale), int(r.Height*o.Scale)
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.Draw(img, img.Bounds(), image.NewUniform(o.Background), image.Point{}, draw.Src)
		return &Canvas{Image: img, Tainted: tainted}, nil
	})
}

type noticeRecorder struct{ msgs []string }

func (n *noticeRecorder) Notify(_ context.Context, msg string) { n.msgs = append(n.msgs, msg) }

func testBoard(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.New([]string{"https://a.example/1.png", "https://b.example/2.png"}, board.WithID("b1"))
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	return b
}

func TestExportFormats(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			d := &MemoryDownloader{}
			p := New(solidCapturer(false), WithDownloader(d))

			a, err := p.Export(context.Background(), testBoard(t), f)
			if err != nil {
				t.Fatalf("Export: %v", err)
			}
			if a.Filename != "visionboard."+string(f) {
				t.Errorf("Filename = %q", a.Filename)
			}
			if got := d.Artifacts(); len(got) != 1 || got[0].Filename != a.Filename {
				t.Fatalf("downloads = %+v", got)
			}

			switch f {
			case FormatPNG:
				img, err := png.Decode(bytes.NewReader(a.Data))
				if err != nil {
					t.Fatalf("decode png: %v", err)
				}
				if s := img.Bounds().Size(); s.X != 1600 || s.Y != 1200 {
					t.Errorf("png size = %v, want 1600x1200", s)
				}
			case FormatJPG:
				if _, err := jpeg.Decode(bytes.NewReader(a.Data)); err != nil {
					t.Fatalf("decode jpg: %v", err)
				}
			case FormatPDF:
				if !bytes.HasPrefix(a.Data, []byte("%PDF-")) {
					t.Errorf("pdf header = %q", a.Data[:8])
				}
			}
		})
	}
}

func TestExportTaintedCanvas(t *testing.T) {
	d := &MemoryDownloader{}
	n := &noticeRecorder{}
	p := New(solidCapturer(true), WithDownloader(d), WithNotifier(n))
	b := testBoard(t)
	before := b.Items()

	_, err := p.Export(context.Background(), b, FormatPNG)
	if !errors.Is(err, errors.ErrCodeTaintedCanvas) {
		t.Fatalf("err = %v, want TAINTED_CANVAS", err)
	}
	if len(d.Artifacts()) != 0 {
		t.Error("tainted export should not download anything")
	}
	if len(n.msgs) != 1 || n.msgs[0] != FailureNotice {
		t.Errorf("notices = %q", n.msgs)
	}
	after := b.Items()
	for i := range before {
		if after[i] != before[i] {
			t.Errorf("export changed item %d", i)
		}
	}

	// retry succeeds once the capture is clean
	p2 := New(solidCapturer(false), WithDownloader(d), WithNotifier(n))
	if _, err := p2.Export(context.Background(), b, FormatPNG); err != nil {
		t.Errorf("retry: %v", err)
	}
}

func TestExportCaptureFailure(t *testing.T) {
	failing := CapturerFunc(func(context.Context, Region, CaptureOptions) (*Canvas, error) {
		return nil, fmt.Errorf("image failed to load")
	})
	dir := t.TempDir()
	n := &noticeRecorder{}
	p := New(failing, WithDownloader(FileDownloader{Dir: dir}), WithNotifier(n))

	_, err := p.Export(context.Background(), testBoard(t), FormatJPG)
	if !errors.Is(err, errors.ErrCodeCaptureFailed) {
		t.Fatalf("err = %v, want CAPTURE_FAILED", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("failed export left files: %v", entries)
	}
	if len(n.msgs) != 1 {
		t.Errorf("want one notice, got %d", len(n.msgs))
	}
}

func TestExportDefaultNotifier(t *testing.T) {
	failing := CapturerFunc(func(context.Context, Region, CaptureOptions) (*Canvas, error) {
		return nil, fmt.Errorf("image failed to load")
	})

	var global bytes.Buffer
	prev := log.Default()
	log.SetDefault(log.New(&global))
	t.Cleanup(func() { log.SetDefault(prev) })

	if _, err := New(failing).Export(context.Background(), testBoard(t), FormatPNG); err == nil {
		t.Fatal("Export should fail")
	}
	if !strings.Contains(global.String(), FailureNotice) {
		t.Errorf("notice not delivered without options, log = %q", global.String())
	}

	var own bytes.Buffer
	if _, err := New(failing, WithLogger(log.New(&own))).Export(context.Background(), testBoard(t), FormatPNG); err == nil {
		t.Fatal("Export should fail")
	}
	if !strings.Contains(own.String(), FailureNotice) {
		t.Errorf("notice not delivered to pipeline logger, log = %q", own.String())
	}
}

func TestExportPDFEncoderFailure(t *testing.T) {
	p := New(solidCapturer(false), WithPDFEncoder(pdfFunc(func(Page, []byte) ([]byte, error) {
		return nil, fmt.Errorf("boom")
	})), WithNotifier(&noticeRecorder{}))
	_, err := p.Export(context.Background(), testBoard(t), FormatPDF)
	if !errors.Is(err, errors.ErrCodeEncodeFailed) {
		t.Fatalf("err = %v, want ENCODE_FAILED", err)
	}
}

func TestExportPDFPage(t *testing.T) {
	var got Page
	p := New(solidCapturer(false), WithPDFEncoder(pdfFunc(func(page Page, png []byte) ([]byte, error) {
		got = page
		return []byte("%PDF-fake"), nil
	})))
	if _, err := p.Export(context.Background(), testBoard(t), FormatPDF); err != nil {
		t.Fatal(err)
	}
	want := Page{Orientation: "L", Unit: "pt", Width: 1600, Height: 1200}
	if got != want {
		t.Errorf("page = %+v, want %+v", got, want)
	}
}

func TestExportInFlight(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	blocking := CapturerFunc(func(ctx context.Context, r Region, o CaptureOptions) (*Canvas, error) {
		close(started)
		<-release
		return solidCapturer(false).Capture(ctx, r, o)
	})
	n := &noticeRecorder{}
	p := New(blocking)
	b := testBoard(t)

	done := make(chan error, 1)
	go func() {
		_, err := p.Export(context.Background(), b, FormatPNG)
		done <- err
	}()
	<-started

	if !p.Busy(b.ID()) {
		t.Error("Busy should report the running export")
	}
	_, err := p.WithSink(nil, n).Export(context.Background(), b, FormatPNG)
	if !errors.Is(err, errors.ErrCodeExportInFlight) {
		t.Errorf("second export err = %v, want EXPORT_IN_FLIGHT", err)
	}
	if len(n.msgs) != 0 {
		t.Error("busy rejection should not show a notice")
	}

	close(release)
	if err := <-done; err != nil {
		t.Fatalf("first export: %v", err)
	}
	if p.Busy(b.ID()) {
		t.Error("guard not released")
	}
}

func TestFPDFEncoder(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 30))
	img.Set(1, 1, color.White)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	doc, err := FPDFEncoder{}.Encode(Page{Orientation: "L", Unit: "pt", Width: 40, Height: 30}, buf.Bytes())
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !bytes.HasPrefix(doc, []byte("%PDF-")) {
		t.Error("missing PDF header")
	}
	if !bytes.Contains(doc, []byte("%%EOF")) {
		t.Error("missing PDF trailer")
	}
}

func TestFileDownloader(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	d := FileDownloader{Dir: dir}
	a := Artifact{Format: FormatPNG, Filename: FormatPNG.Filename(), Data: []byte("data")}
	if err := d.Download(context.Background(), a); err != nil {
		t.Fatal(err)
	}
	got, err := os.ReadFile(d.Path(FormatPNG))
	if err != nil || string(got) != "data" {
		t.Errorf("file = %q, %v", got, err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("temp files left behind: %v", entries)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"png", FormatPNG, true},
		{"JPG", FormatJPG, true},
		{"jpeg", FormatJPG, true},
		{" pdf ", FormatPDF, true},
		{"gif", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
		if !tt.ok && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ParseFormat(%q) err code = %s", tt.in, errors.GetCode(err))
		}
	}

	fs, err := ParseFormats([]string{"png", "jpeg", "jpg"})
	if err != nil || len(fs) != 2 {
		t.Errorf("ParseFormats = %v, %v", fs, err)
	}
}

func TestDefaultCaptureOptions(t *testing.T) {
	o := DefaultCaptureOptions()
	if !o.UseCORS || !o.AllowTaint || o.Scale != 2 {
		t.Errorf("defaults = %+v", o)
	}
	r, g, b, _ := o.Background.RGBA()
	if r>>8 != 0x1a || g>>8 != 0x1a || b>>8 != 0x2e {
		t.Errorf("background = %x %x %x", r>>8, g>>8, b>>8)
	}
	if _, err := ParseColor("not-a-color"); err == nil {
		t.Error("ParseColor should reject garbage")
	}
}

type pdfFunc func(Page, []byte) ([]byte, error)

func (f pdfFunc) Encode(p Page, png []byte) ([]byte, error) { return f(p, png) }
