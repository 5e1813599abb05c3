package interaction

import (
	"math"

	"github.com/matzehuels/visionboard/pkg/board"
)

// Begin starts an interaction for a pointer-down on item. A body press
// starts a drag whose offset is the pointer position relative to the item's
// top-left corner; a handle press starts a resize anchored at the pointer.
func Begin(item board.Item, down PointerDown, origin Point) board.Interaction {
	if down.Target == TargetHandle {
		return board.Resizing{
			ItemID:        item.ID,
			AnchorX:       down.X,
			AnchorY:       down.Y,
			InitialWidth:  item.Width,
			InitialHeight: item.Height,
		}
	}
	local := down.Point.Sub(origin)
	return board.Dragging{
		ItemID:  item.ID,
		OffsetX: local.X - item.X,
		OffsetY: local.Y - item.Y,
	}
}

// Drag returns item moved so that the pointer keeps its offset, clamped to
// [0, w-width] x [0, h-height]. Size is unchanged.
func Drag(item board.Item, d board.Dragging, p, origin Point, w, h float64) board.Item {
	local := p.Sub(origin)
	item.X = clamp(local.X-d.OffsetX, w-item.Width)
	item.Y = clamp(local.Y-d.OffsetY, h-item.Height)
	return item
}

// Resize returns item with its size set to the initial size plus the pointer
// delta, floored at [board.MinSize]. Position is unchanged.
func Resize(item board.Item, r board.Resizing, p Point) board.Item {
	item.Width = math.Max(board.MinSize, r.InitialWidth+p.X-r.AnchorX)
	item.Height = math.Max(board.MinSize, r.InitialHeight+p.Y-r.AnchorY)
	return item
}

// Next returns the interaction after ev. lookup resolves item ids for
// pointer-down; a press on an unknown item leaves state unchanged. A press
// while another interaction is active replaces it.
func Next(state board.Interaction, ev Event, lookup func(board.ItemID) (board.Item, bool), origin Point) board.Interaction {
	switch e := ev.(type) {
	case PointerDown:
		item, ok := lookup(e.ItemID)
		if !ok {
			return state
		}
		return Begin(item, e, origin)
	case PointerUp, PointerCancel:
		return board.Idle{}
	}
	return state
}

// clamp limits v to [0, hi]. When hi is negative the item is larger than
// the canvas and 0 wins.
func clamp(v, hi float64) float64 {
	return math.Max(0, math.Min(v, hi))
}
