package board

import (
	"encoding/json"
	"testing"
	"time"

	verrors "github.com/matzehuels/visionboard/pkg/errors"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestNewDropsBlankURLs(t *testing.T) {
	b, err := New([]string{"  ", "https://a.example/1.png", "", "\thttps://a.example/2.png\n"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	items := b.Items()
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[1].URL != "https://a.example/2.png" {
		t.Errorf("URL not trimmed: %q", items[1].URL)
	}
}

func TestNewNoImages(t *testing.T) {
	for _, urls := range [][]string{nil, {}, {"", "   ", "\n"}} {
		b, err := New(urls)
		if err != ErrNoImages {
			t.Errorf("New(%q) err = %v, want ErrNoImages", urls, err)
		}
		if b != nil {
			t.Errorf("New(%q) returned a board", urls)
		}
	}
}

func TestNewFourURLs(t *testing.T) {
	urls := []string{"a", "b", "c", "d"}
	b, err := New(urls, WithClock(fixedClock(1000)))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	want := []Item{
		{ID: 1000, URL: "a", X: 10, Y: 10, Width: 385, Height: 285},
		{ID: 1001, URL: "b", X: 405, Y: 10, Width: 385, Height: 285},
		{ID: 1002, URL: "c", X: 10, Y: 305, Width: 385, Height: 285},
		{ID: 1003, URL: "d", X: 405, Y: 305, Width: 385, Height: 285},
	}
	got := b.Items()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	if b.Interaction().Kind() != KindIdle {
		t.Errorf("new board interaction = %s, want idle", b.Interaction().Kind())
	}
	if b.ID() == "" {
		t.Error("board id should be generated")
	}
}

func TestNewTooManyItems(t *testing.T) {
	urls := make([]string, 10000)
	for i := range urls {
		urls[i] = "x"
	}
	_, err := New(urls)
	if !verrors.Is(err, verrors.ErrCodeTooManyItems) {
		t.Fatalf("err = %v, want TOO_MANY_ITEMS", err)
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	b, _ := New([]string{"a"})
	items := b.Items()
	items[0].X = 999
	if got, _ := b.Item(items[0].ID); got.X == 999 {
		t.Error("mutating Items() result changed the board")
	}
}

func TestUpdateOnlyMatchingItem(t *testing.T) {
	b, _ := New([]string{"a", "b", "c"}, WithClock(fixedClock(0)))
	before := b.Items()

	if !b.Update(1, func(it *Item) { it.X, it.ID = 42, 99 }) {
		t.Fatal("Update(1) reported missing item")
	}
	after := b.Items()
	if after[1].X != 42 || after[1].ID != 1 {
		t.Errorf("item 1 = %+v", after[1])
	}
	if after[0] != before[0] || after[2] != before[2] {
		t.Error("Update touched other items")
	}
	if b.Update(77, func(*Item) {}) {
		t.Error("Update on unknown id should report false")
	}
}

func TestReset(t *testing.T) {
	b, _ := New([]string{"a", "b"})
	b.SetInteraction(Dragging{ItemID: b.Items()[0].ID})
	b.Reset()
	if b.Len() != 0 {
		t.Errorf("Len after Reset = %d", b.Len())
	}
	if Active(b.Interaction()) {
		t.Error("interaction should be idle after Reset")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	tests := []Interaction{
		Idle{},
		Dragging{ItemID: 5, OffsetX: 10, OffsetY: 12.5},
		Resizing{ItemID: 6, AnchorX: 100, AnchorY: 200, InitialWidth: 385, InitialHeight: 285},
	}
	for _, in := range tests {
		t.Run(string(in.Kind()), func(t *testing.T) {
			b, _ := New([]string{"a", "b", "c"}, WithClock(fixedClock(5)), WithID("board-1"))
			b.SetInteraction(in)

			data, err := json.Marshal(b.Snapshot())
			if err != nil {
				t.Fatalf("Marshal: %v", err)
			}
			var snap Snapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}
			r := Restore(snap)
			if r.ID() != "board-1" {
				t.Errorf("ID = %q", r.ID())
			}
			if r.Interaction() != in {
				t.Errorf("interaction = %#v, want %#v", r.Interaction(), in)
			}
			orig, got := b.Items(), r.Items()
			for i := range orig {
				if orig[i] != got[i] {
					t.Errorf("item %d = %+v, want %+v", i, got[i], orig[i])
				}
			}
		})
	}
}

func TestRestoreDropsDanglingInteraction(t *testing.T) {
	r := Restore(Snapshot{
		ID:          "x",
		Items:       []Item{{ID: 1, Width: 60, Height: 60}},
		Interaction: InteractionJSON{Dragging{ItemID: 2}},
	})
	if Active(r.Interaction()) {
		t.Error("interaction on missing item should be dropped")
	}
	if w, h := r.Size(); w != Width || h != Height {
		t.Errorf("Size = %vx%v, want defaults", w, h)
	}
}

func TestUnmarshalUnknownKind(t *testing.T) {
	var v InteractionJSON
	if err := json.Unmarshal([]byte(`{"kind":"rotating"}`), &v); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestSnapshotSanitize(t *testing.T) {
	item := func(id ItemID, x, y, w, h float64) Item {
		return Item{ID: id, URL: "https://a.example/1.png", X: x, Y: y, Width: w, Height: h}
	}
	tests := []struct {
		name    string
		items   []Item
		wantErr bool
		wantW   float64
		wantH   float64
	}{
		{"valid", []Item{item(1, 10, 10, 385, 285)}, false, 385, 285},
		{"floors small sizes", []Item{item(1, 10, 10, 10, 5)}, false, MinSize, MinSize},
		{"grown past canvas is kept", []Item{item(1, 700, 500, 300, 300)}, false, 300, 300},
		{"negative x", []Item{item(1, -500, 10, 100, 100)}, true, 0, 0},
		{"negative y", []Item{item(1, 10, -1, 100, 100)}, true, 0, 0},
		{"duplicate ids", []Item{item(1, 10, 10, 100, 100), item(1, 20, 20, 100, 100)}, true, 0, 0},
		{"blank url", []Item{{ID: 1, URL: " ", Width: 100, Height: 100}}, true, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Snapshot{ID: "b", Width: Width, Height: Height, Items: tt.items}
			err := s.Sanitize()
			if tt.wantErr {
				if !verrors.Is(err, verrors.ErrCodeInvalidInput) {
					t.Fatalf("Sanitize() = %v, want INVALID_INPUT", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Sanitize() = %v", err)
			}
			if it := s.Items[0]; it.Width != tt.wantW || it.Height != tt.wantH {
				t.Errorf("size = %vx%v, want %vx%v", it.Width, it.Height, tt.wantW, tt.wantH)
			}
		})
	}
}
