package board

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	verrors "github.com/matzehuels/visionboard/pkg/errors"
)

// Snapshot is the serialized form of a board.
type Snapshot struct {
	ID          string          `json:"id"`
	Width       float64         `json:"width"`
	Height      float64         `json:"height"`
	Items       []Item          `json:"items"`
	Interaction InteractionJSON `json:"interaction"`
}

// InteractionJSON wraps an [Interaction] with a kind discriminator.
type InteractionJSON struct {
	Interaction
}

type interactionWire struct {
	Kind          Kind    `json:"kind"`
	ItemID        ItemID  `json:"item_id,omitempty"`
	OffsetX       float64 `json:"offset_x,omitempty"`
	OffsetY       float64 `json:"offset_y,omitempty"`
	AnchorX       float64 `json:"anchor_x,omitempty"`
	AnchorY       float64 `json:"anchor_y,omitempty"`
	InitialWidth  float64 `json:"initial_width,omitempty"`
	InitialHeight float64 `json:"initial_height,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (v InteractionJSON) MarshalJSON() ([]byte, error) {
	var w interactionWire
	switch in := v.Interaction.(type) {
	case nil, Idle:
		w.Kind = KindIdle
	case Dragging:
		w = interactionWire{Kind: KindDragging, ItemID: in.ItemID, OffsetX: in.OffsetX, OffsetY: in.OffsetY}
	case Resizing:
		w = interactionWire{
			Kind:          KindResizing,
			ItemID:        in.ItemID,
			AnchorX:       in.AnchorX,
			AnchorY:       in.AnchorY,
			InitialWidth:  in.InitialWidth,
			InitialHeight: in.InitialHeight,
		}
	default:
		return nil, fmt.Errorf("unknown interaction %T", in)
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *InteractionJSON) UnmarshalJSON(data []byte) error {
	var w interactionWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case KindIdle, "":
		v.Interaction = Idle{}
	case KindDragging:
		v.Interaction = Dragging{ItemID: w.ItemID, OffsetX: w.OffsetX, OffsetY: w.OffsetY}
	case KindResizing:
		v.Interaction = Resizing{
			ItemID:        w.ItemID,
			AnchorX:       w.AnchorX,
			AnchorY:       w.AnchorY,
			InitialWidth:  w.InitialWidth,
			InitialHeight: w.InitialHeight,
		}
	default:
		return fmt.Errorf("unknown interaction kind %q", w.Kind)
	}
	return nil
}

// Snapshot returns a deep copy of the board.
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		ID:          b.id,
		Width:       b.width,
		Height:      b.height,
		Items:       b.Items(),
		Interaction: InteractionJSON{b.interaction},
	}
}

// Sanitize checks a snapshot read from outside the process. Item sizes are
// floored at [MinSize]; duplicate ids, blank URLs, negative positions and
// non-finite numbers fail with INVALID_INPUT.
func (s *Snapshot) Sanitize() error {
	if !finite(s.Width, s.Height) || s.Width < 0 || s.Height < 0 {
		return verrors.New(verrors.ErrCodeInvalidInput, "invalid board size %vx%v", s.Width, s.Height)
	}
	seen := make(map[ItemID]bool, len(s.Items))
	for i := range s.Items {
		it := &s.Items[i]
		switch {
		case seen[it.ID]:
			return verrors.New(verrors.ErrCodeInvalidInput, "duplicate item id %d", it.ID)
		case strings.TrimSpace(it.URL) == "":
			return verrors.New(verrors.ErrCodeInvalidInput, "item %d has no url", it.ID)
		case !finite(it.X, it.Y, it.Width, it.Height):
			return verrors.New(verrors.ErrCodeInvalidInput, "item %d has non-finite geometry", it.ID)
		case it.X < 0 || it.Y < 0:
			return verrors.New(verrors.ErrCodeInvalidInput, "item %d at (%v,%v) is off the canvas", it.ID, it.X, it.Y)
		}
		seen[it.ID] = true
		it.Width = math.Max(it.Width, MinSize)
		it.Height = math.Max(it.Height, MinSize)
	}
	return nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Restore rebuilds a board from a snapshot. An interaction that refers to a
// missing item is dropped in favour of Idle.
func Restore(s Snapshot) *Board {
	b := &Board{
		id:     s.ID,
		width:  s.Width,
		height: s.Height,
		items:  make([]Item, len(s.Items)),
	}
	if b.width <= 0 || b.height <= 0 {
		b.width, b.height = Width, Height
	}
	copy(b.items, s.Items)
	b.SetInteraction(s.Interaction.Interaction)
	if id, ok := Target(b.interaction); ok && b.index(id) < 0 {
		b.interaction = Idle{}
	}
	return b
}
