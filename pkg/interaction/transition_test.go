package interaction

import (
	"testing"

	"github.com/matzehuels/visionboard/pkg/board"
)

func TestBeginDrag(t *testing.T) {
	item := board.Item{ID: 3, X: 100, Y: 100, Width: 200, Height: 150}
	got := Begin(item, PointerDown{Point: Point{X: 160, Y: 130}, ItemID: 3}, Point{X: 50, Y: 20})
	want := board.Dragging{ItemID: 3, OffsetX: 10, OffsetY: 10}
	if got != want {
		t.Errorf("Begin = %#v, want %#v", got, want)
	}
}

func TestBeginResize(t *testing.T) {
	item := board.Item{ID: 3, X: 100, Y: 100, Width: 200, Height: 150}
	got := Begin(item, PointerDown{Point: Point{X: 400, Y: 300}, ItemID: 3, Target: TargetHandle}, Point{})
	want := board.Resizing{ItemID: 3, AnchorX: 400, AnchorY: 300, InitialWidth: 200, InitialHeight: 150}
	if got != want {
		t.Errorf("Begin = %#v, want %#v", got, want)
	}
}

func TestDragClamp(t *testing.T) {
	item := board.Item{ID: 1, X: 100, Y: 100, Width: 200, Height: 100}
	d := board.Dragging{ItemID: 1, OffsetX: 10, OffsetY: 10}

	tests := []struct {
		name   string
		p      Point
		wx, wy float64
	}{
		{"inside", Point{X: 60, Y: 60}, 50, 50},
		{"left edge", Point{X: -500, Y: 60}, 0, 50},
		{"top edge", Point{X: 60, Y: -500}, 50, 0},
		{"right edge", Point{X: 2000, Y: 60}, 600, 50},
		{"bottom edge", Point{X: 60, Y: 2000}, 50, 500},
		{"corner", Point{X: 2000, Y: 2000}, 600, 500},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Drag(item, d, tt.p, Point{}, board.Width, board.Height)
			if got.X != tt.wx || got.Y != tt.wy {
				t.Errorf("Drag to %+v = (%v,%v), want (%v,%v)", tt.p, got.X, got.Y, tt.wx, tt.wy)
			}
			if got.Width != item.Width || got.Height != item.Height {
				t.Error("Drag changed size")
			}
		})
	}
}

func TestDragOversizedItemPinsToOrigin(t *testing.T) {
	item := board.Item{ID: 1, X: 0, Y: 0, Width: 1000, Height: 700}
	got := Drag(item, board.Dragging{ItemID: 1}, Point{X: 300, Y: 300}, Point{}, board.Width, board.Height)
	if got.X != 0 || got.Y != 0 {
		t.Errorf("oversized item moved to (%v,%v)", got.X, got.Y)
	}
}

func TestResizeFloor(t *testing.T) {
	item := board.Item{ID: 1, X: 700, Y: 500, Width: 100, Height: 100}
	r := board.Resizing{ItemID: 1, AnchorX: 800, AnchorY: 600, InitialWidth: 100, InitialHeight: 100}

	tests := []struct {
		name   string
		p      Point
		ww, wh float64
	}{
		{"grow past canvas", Point{X: 1000, Y: 900}, 300, 400},
		{"shrink", Point{X: 760, Y: 580}, 60, 80},
		{"floor", Point{X: 0, Y: 0}, board.MinSize, board.MinSize},
		{"floor one axis", Point{X: 900, Y: 0}, 200, board.MinSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resize(item, r, tt.p)
			if got.Width != tt.ww || got.Height != tt.wh {
				t.Errorf("size = %vx%v, want %vx%v", got.Width, got.Height, tt.ww, tt.wh)
			}
			if got.X != item.X || got.Y != item.Y {
				t.Error("Resize moved the item")
			}
		})
	}
}

func TestNext(t *testing.T) {
	items := map[board.ItemID]board.Item{
		1: {ID: 1, X: 0, Y: 0, Width: 100, Height: 100},
	}
	lookup := func(id board.ItemID) (board.Item, bool) {
		it, ok := items[id]
		return it, ok
	}
	drag := board.Dragging{ItemID: 1, OffsetX: 5, OffsetY: 5}

	tests := []struct {
		name  string
		state board.Interaction
		ev    Event
		want  board.Kind
	}{
		{"idle move", board.Idle{}, PointerMove{}, board.KindIdle},
		{"idle up", board.Idle{}, PointerUp{}, board.KindIdle},
		{"idle down body", board.Idle{}, PointerDown{Point: Point{X: 5, Y: 5}, ItemID: 1}, board.KindDragging},
		{"idle down handle", board.Idle{}, PointerDown{ItemID: 1, Target: TargetHandle}, board.KindResizing},
		{"idle down unknown", board.Idle{}, PointerDown{ItemID: 9}, board.KindIdle},
		{"drag move", drag, PointerMove{}, board.KindDragging},
		{"drag up", drag, PointerUp{}, board.KindIdle},
		{"drag cancel", drag, PointerCancel{}, board.KindIdle},
		{"drag down handle replaces", drag, PointerDown{ItemID: 1, Target: TargetHandle}, board.KindResizing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Next(tt.state, tt.ev, lookup, Point{})
			if got.Kind() != tt.want {
				t.Errorf("Next = %s, want %s", got.Kind(), tt.want)
			}
		})
	}
}
