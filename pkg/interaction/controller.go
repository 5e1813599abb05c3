package interaction

import (
	"github.com/matzehuels/visionboard/pkg/board"
)

// Controller applies pointer events to a board. It is not safe for
// concurrent use.
type Controller struct {
	board     *board.Board
	origin    Point
	listeners Listeners
	attached  bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithOrigin sets the client position of the canvas' top-left corner.
func WithOrigin(p Point) ControllerOption {
	return func(c *Controller) { c.origin = p }
}

// WithListeners sets the listener collaborator.
func WithListeners(l Listeners) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.listeners = l
		}
	}
}

// NewController returns a controller for b. If b already has an active
// interaction, for example after restoring a snapshot, listeners are
// attached immediately.
func NewController(b *board.Board, opts ...ControllerOption) *Controller {
	c := &Controller{board: b, listeners: NopListeners{}}
	for _, o := range opts {
		o(c)
	}
	c.sync()
	return c
}

// Board returns the controlled board.
func (c *Controller) Board() *board.Board { return c.board }

// Origin returns the canvas origin in client coordinates.
func (c *Controller) Origin() Point { return c.origin }

// SetOrigin updates the canvas origin, for example after the canvas moved.
func (c *Controller) SetOrigin(p Point) { c.origin = p }

// Active reports whether a drag or resize is in progress.
func (c *Controller) Active() bool { return board.Active(c.board.Interaction()) }

// Handle applies ev and reports whether it was consumed. A consumed
// pointer-down must not be handled further by the caller.
func (c *Controller) Handle(ev Event) bool {
	consumed := false
	switch e := ev.(type) {
	case PointerMove:
		consumed = c.move(e.Point)
	case PointerDown:
		_, consumed = c.board.Item(e.ItemID)
		c.board.SetInteraction(Next(c.board.Interaction(), e, c.board.Item, c.origin))
	case PointerUp, PointerCancel:
		consumed = c.Active()
		c.board.SetInteraction(Next(c.board.Interaction(), e, c.board.Item, c.origin))
	}
	c.sync()
	return consumed
}

// Cancel aborts any active interaction.
func (c *Controller) Cancel() {
	c.Handle(PointerCancel{})
}

// Reset clears the board and releases listeners.
func (c *Controller) Reset() {
	c.board.Reset()
	c.sync()
}

func (c *Controller) move(p Point) bool {
	switch in := c.board.Interaction().(type) {
	case board.Dragging:
		w, h := c.board.Size()
		return c.board.Update(in.ItemID, func(it *board.Item) {
			*it = Drag(*it, in, p, c.origin, w, h)
		})
	case board.Resizing:
		return c.board.Update(in.ItemID, func(it *board.Item) {
			*it = Resize(*it, in, p)
		})
	}
	return false
}

// sync attaches or detaches listeners on active/inactive transitions.
func (c *Controller) sync() {
	active := c.Active()
	switch {
	case active && !c.attached:
		c.listeners.Attach()
		c.attached = true
	case !active && c.attached:
		c.listeners.Detach()
		c.attached = false
	}
}
