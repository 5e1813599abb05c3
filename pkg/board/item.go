package board

import "github.com/matzehuels/visionboard/pkg/layout"

// Canvas dimensions and the minimum item size, in board pixels.
const (
	Width   = 800.0
	Height  = 600.0
	MinSize = 50.0
)

// ItemID identifies an item for its whole lifetime.
type ItemID int64

// Item is one placed image.
type Item struct {
	ID     ItemID  `json:"id"`
	URL    string  `json:"url"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect returns the item's geometry.
func (it Item) Rect() layout.Rect {
	return layout.Rect{X: it.X, Y: it.Y, Width: it.Width, Height: it.Height}
}

// Contains reports whether (x, y) lies inside the item.
func (it Item) Contains(x, y float64) bool {
	return x >= it.X && x < it.X+it.Width && y >= it.Y && y < it.Y+it.Height
}
