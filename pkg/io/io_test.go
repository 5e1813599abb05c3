package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/errors"
	"github.com/matzehuels/visionboard/pkg/interaction"
)

func TestReadURLs(t *testing.T) {
	in := "# header\nhttps://a.example/1.png\n\n   \n  https://a.example/2.png  \n#skip\n"
	urls, err := ReadURLs(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"https://a.example/1.png", "https://a.example/2.png"}
	if len(urls) != len(want) {
		t.Fatalf("got %q", urls)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("url %d = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestReadGestures(t *testing.T) {
	b, _ := board.New([]string{"a", "b"}, board.WithClock(func() time.Time { return time.UnixMilli(100) }))

	in := `
origin: {x: 5, y: 5}
events:
  - {type: down, x: 20, y: 20, item: 2, target: handle}
  - {type: move, x: 60, y: 40}
  - {type: up}
  - {type: down, item_id: 100}
`
	s, err := ReadGestures(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadGestures: %v", err)
	}
	if s.Origin != (interaction.Point{X: 5, Y: 5}) {
		t.Errorf("origin = %+v", s.Origin)
	}
	events, err := s.Resolve(b)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(events) != 4 {
		t.Fatalf("got %d events", len(events))
	}
	down, ok := events[0].(interaction.PointerDown)
	if !ok || down.ItemID != 101 || down.Target != interaction.TargetHandle {
		t.Errorf("event 0 = %#v", events[0])
	}
	if d, _ := events[3].(interaction.PointerDown); d.ItemID != 100 {
		t.Errorf("item_id not kept: %#v", events[3])
	}
}

func TestReadGesturesBareList(t *testing.T) {
	s, err := ReadGestures(strings.NewReader(`[{"type": "cancel"}]`))
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Events) != 1 || s.Events[0].Type != "cancel" {
		t.Errorf("events = %+v", s.Events)
	}
}

func TestResolveOutOfRange(t *testing.T) {
	b, _ := board.New([]string{"a"})
	s := &Script{Events: []GestureEvent{{Wire: interaction.Wire{Type: "down"}, Item: 3}}}
	if _, err := s.Resolve(b); err == nil {
		t.Error("out-of-range item should fail")
	}
}

func TestBoardJSONRoundTrip(t *testing.T) {
	b, _ := board.New([]string{"a", "b", "c"}, board.WithID("round"))
	b.SetInteraction(board.Dragging{ItemID: b.Items()[1].ID, OffsetX: 3, OffsetY: 4})

	var buf bytes.Buffer
	if err := WriteBoardJSON(b, &buf); err != nil {
		t.Fatal(err)
	}
	got, err := ReadBoardJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID() != "round" || got.Len() != 3 || got.Interaction() != b.Interaction() {
		t.Errorf("restored board = %+v", got.Snapshot())
	}

	path := filepath.Join(t.TempDir(), "board.json")
	if err := ExportBoardJSON(b, path); err != nil {
		t.Fatal(err)
	}
	if again, err := ImportBoardJSON(path); err != nil || again.Len() != 3 {
		t.Errorf("ImportBoardJSON = %v, %v", again, err)
	}
}

func TestReadBoardJSONRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"duplicate ids", `{"id":"b","items":[{"id":1,"url":"a.png","x":0,"y":0,"width":100,"height":100},{"id":1,"url":"b.png","x":10,"y":10,"width":100,"height":100}]}`},
		{"negative position", `{"id":"b","items":[{"id":1,"url":"a.png","x":-500,"y":0,"width":10,"height":5}]}`},
		{"missing url", `{"id":"b","items":[{"id":1,"x":0,"y":0,"width":100,"height":100}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := ReadBoardJSON(strings.NewReader(tt.in))
			if !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("ReadBoardJSON() = %v, %v; want INVALID_INPUT", b, err)
			}
		})
	}
}

func TestReadBoardJSONFloorsSizes(t *testing.T) {
	in := `{"id":"b","items":[{"id":1,"url":"a.png","x":5,"y":5,"width":10,"height":5}]}`
	b, err := ReadBoardJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if it := b.Items()[0]; it.Width != board.MinSize || it.Height != board.MinSize {
		t.Errorf("size = %vx%v, want floored to %v", it.Width, it.Height, board.MinSize)
	}
	if w, h := b.Size(); w != board.Width || h != board.Height {
		t.Errorf("board size = %vx%v", w, h)
	}
}

func TestExportBoardJSONReportsWriteErrors(t *testing.T) {
	if _, err := os.Stat("/dev/full"); err != nil {
		t.Skip("/dev/full not available")
	}
	b, err := board.New([]string{"a.png"})
	if err != nil {
		t.Fatal(err)
	}
	if err := ExportBoardJSON(b, "/dev/full"); err == nil {
		t.Error("ExportBoardJSON to a full device should fail")
	}
	if err := ExportBoardJSON(b, filepath.Join(t.TempDir(), "missing", "board.json")); err == nil {
		t.Error("ExportBoardJSON into a missing directory should fail")
	}
}
