package board

// Kind names an interaction variant.
type Kind string

const (
	KindIdle     Kind = "idle"
	KindDragging Kind = "dragging"
	KindResizing Kind = "resizing"
)

// Interaction is the board's active pointer interaction. It is one of
// [Idle], [Dragging] or [Resizing].
type Interaction interface {
	Kind() Kind
	interaction()
}

// Idle means no pointer interaction is in progress.
type Idle struct{}

// Dragging moves ItemID. The offset is the pointer position relative to the
// item's top-left corner at pointer-down.
type Dragging struct {
	ItemID  ItemID  `json:"item_id"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// Resizing grows or shrinks ItemID from its bottom-right corner. The anchor
// is the pointer position at pointer-down.
type Resizing struct {
	ItemID        ItemID  `json:"item_id"`
	AnchorX       float64 `json:"anchor_x"`
	AnchorY       float64 `json:"anchor_y"`
	InitialWidth  float64 `json:"initial_width"`
	InitialHeight float64 `json:"initial_height"`
}

func (Idle) Kind() Kind     { return KindIdle }
func (Dragging) Kind() Kind { return KindDragging }
func (Resizing) Kind() Kind { return KindResizing }

func (Idle) interaction()     {}
func (Dragging) interaction() {}
func (Resizing) interaction() {}

// Active reports whether in is a drag or a resize.
func Active(in Interaction) bool {
	return in != nil && in.Kind() != KindIdle
}

// Target returns the item an active interaction applies to.
func Target(in Interaction) (ItemID, bool) {
	switch v := in.(type) {
	case Dragging:
		return v.ItemID, true
	case Resizing:
		return v.ItemID, true
	}
	return 0, false
}
