package interaction

import (
	"fmt"

	"github.com/matzehuels/visionboard/pkg/board"
)

// Point is a pointer position.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Target distinguishes the part of an item under the pointer.
type Target int

const (
	TargetBody Target = iota
	TargetHandle
)

func (t Target) String() string {
	switch t {
	case TargetBody:
		return "body"
	case TargetHandle:
		return "handle"
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// ParseTarget parses "body" or "handle". An empty string means body.
func ParseTarget(s string) (Target, error) {
	switch s {
	case "", "body":
		return TargetBody, nil
	case "handle":
		return TargetHandle, nil
	}
	return 0, fmt.Errorf("unknown target %q", s)
}

// Event is a pointer event: one of [PointerDown], [PointerMove],
// [PointerUp] or [PointerCancel].
type Event interface {
	event()
}

// PointerDown presses the pointer over an item.
type PointerDown struct {
	Point
	ItemID board.ItemID
	Target Target
}

// PointerMove moves the pointer anywhere.
type PointerMove struct {
	Point
}

// PointerUp releases the pointer anywhere.
type PointerUp struct {
	Point
}

// PointerCancel aborts the current gesture, for example on focus loss.
type PointerCancel struct{}

func (PointerDown) event()   {}
func (PointerMove) event()   {}
func (PointerUp) event()     {}
func (PointerCancel) event() {}
