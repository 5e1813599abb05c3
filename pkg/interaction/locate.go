package interaction

import "github.com/matzehuels/visionboard/pkg/board"

// HandleSize is the side of the square resize handle at an item's
// bottom-right corner, in board pixels.
const HandleSize = 16.0

// Hit is the result of [Locate].
type Hit struct {
	ItemID board.ItemID
	Target Target
}

// Locate returns the topmost item under the canvas-local point p. Later
// items are drawn above earlier ones.
func Locate(items []board.Item, p Point) (Hit, bool) {
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if !it.Contains(p.X, p.Y) {
			continue
		}
		target := TargetBody
		if p.X >= it.X+it.Width-HandleSize && p.Y >= it.Y+it.Height-HandleSize {
			target = TargetHandle
		}
		return Hit{ItemID: it.ID, Target: target}, true
	}
	return Hit{}, false
}

// PressAt builds the pointer-down for a press at client position p, or
// reports false when the press misses every item.
func (c *Controller) PressAt(p Point) (PointerDown, bool) {
	hit, ok := Locate(c.board.Items(), p.Sub(c.origin))
	if !ok {
		return PointerDown{}, false
	}
	return PointerDown{Point: p, ItemID: hit.ItemID, Target: hit.Target}, true
}
