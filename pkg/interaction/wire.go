package interaction

import (
	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/errors"
)

// Wire event types.
const (
	WireDown   = "down"
	WireMove   = "move"
	WireUp     = "up"
	WireCancel = "cancel"
)

// Wire is the serialized form of an [Event], used by gesture scripts and
// the HTTP API.
type Wire struct {
	Type   string       `json:"type" yaml:"type"`
	X      float64      `json:"x,omitempty" yaml:"x,omitempty"`
	Y      float64      `json:"y,omitempty" yaml:"y,omitempty"`
	ItemID board.ItemID `json:"item_id,omitempty" yaml:"item_id,omitempty"`
	Target string       `json:"target,omitempty" yaml:"target,omitempty"`
}

// Decode converts w into a typed event.
func (w Wire) Decode() (Event, error) {
	p := Point{X: w.X, Y: w.Y}
	switch w.Type {
	case WireDown:
		target, err := ParseTarget(w.Target)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "pointer down")
		}
		return PointerDown{Point: p, ItemID: w.ItemID, Target: target}, nil
	case WireMove:
		return PointerMove{Point: p}, nil
	case WireUp:
		return PointerUp{Point: p}, nil
	case WireCancel:
		return PointerCancel{}, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q", w.Type)
}

// Encode converts ev into its wire form.
func Encode(ev Event) Wire {
	switch e := ev.(type) {
	case PointerDown:
		return Wire{Type: WireDown, X: e.X, Y: e.Y, ItemID: e.ItemID, Target: e.Target.String()}
	case PointerMove:
		return Wire{Type: WireMove, X: e.X, Y: e.Y}
	case PointerUp:
		return Wire{Type: WireUp, X: e.X, Y: e.Y}
	}
	return Wire{Type: WireCancel}
}

// DecodeAll decodes a sequence of wire events, stopping at the first error.
func DecodeAll(ws []Wire) ([]Event, error) {
	events := make([]Event, 0, len(ws))
	for i, w := range ws {
		ev, err := w.Decode()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidEvent, err, "event %d", i)
		}
		events = append(events, ev)
	}
	return events, nil
}

// Replay applies events in order and returns how many were consumed.
func (c *Controller) Replay(events []Event) int {
	n := 0
	for _, ev := range events {
		if c.Handle(ev) {
			n++
		}
	}
	return n
}
