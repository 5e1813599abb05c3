package board

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	verrors "github.com/matzehuels/visionboard/pkg/errors"
	"github.com/matzehuels/visionboard/pkg/layout"
)

// ErrNoImages is returned by [New] when no URL survives trimming.
// Callers treat it as a silent no-op.
var ErrNoImages = errors.New("no images")

// Board is a fixed-size canvas of placed images.
type Board struct {
	id          string
	width       float64
	height      float64
	items       []Item
	interaction Interaction
}

// Option configures [New].
type Option func(*config)

type config struct {
	now    func() time.Time
	id     string
	width  float64
	height float64
}

// WithClock sets the clock used to derive item ids.
func WithClock(now func() time.Time) Option {
	return func(c *config) { c.now = now }
}

// WithID sets the board id instead of generating one.
func WithID(id string) Option {
	return func(c *config) { c.id = id }
}

// WithSize overrides the canvas size. Only tests and tools use this;
// boards served to users are always [Width] x [Height].
func WithSize(w, h float64) Option {
	return func(c *config) { c.width, c.height = w, h }
}

// New creates a board from urls, seeding item geometry from the grid
// planner. Blank URLs are dropped after trimming. If nothing remains New
// returns [ErrNoImages]. A plan whose cells have no positive area fails
// with TOO_MANY_ITEMS.
func New(urls []string, opts ...Option) (*Board, error) {
	cfg := config{now: time.Now, width: Width, height: Height}
	for _, o := range opts {
		o(&cfg)
	}

	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			kept = append(kept, u)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoImages
	}

	spec := layout.Plan(len(kept), cfg.width, cfg.height)
	if spec.Degenerate() {
		return nil, verrors.New(verrors.ErrCodeTooManyItems,
			"%d images do not fit on a %.0fx%.0f board", len(kept), cfg.width, cfg.height)
	}

	base := ItemID(cfg.now().UnixMilli())
	items := make([]Item, len(kept))
	for i, cell := range layout.Place(len(kept), spec) {
		r := spec.Rect(cell)
		items[i] = Item{
			ID:     base + ItemID(i),
			URL:    kept[i],
			X:      r.X,
			Y:      r.Y,
			Width:  r.Width,
			Height: r.Height,
		}
	}

	id := cfg.id
	if id == "" {
		id = uuid.NewString()
	}
	return &Board{
		id:          id,
		width:       cfg.width,
		height:      cfg.height,
		items:       items,
		interaction: Idle{},
	}, nil
}

// ID returns the board id.
func (b *Board) ID() string { return b.id }

// Size returns the canvas dimensions.
func (b *Board) Size() (w, h float64) { return b.width, b.height }

// Len returns the number of items.
func (b *Board) Len() int { return len(b.items) }

// Items returns a copy of the items in drawing order.
func (b *Board) Items() []Item {
	out := make([]Item, len(b.items))
	copy(out, b.items)
	return out
}

// Item returns a copy of the item with the given id.
func (b *Board) Item(id ItemID) (Item, bool) {
	if i := b.index(id); i >= 0 {
		return b.items[i], true
	}
	return Item{}, false
}

// Interaction returns the active interaction.
func (b *Board) Interaction() Interaction { return b.interaction }

// SetInteraction replaces the active interaction. A nil value means Idle.
func (b *Board) SetInteraction(in Interaction) {
	if in == nil {
		in = Idle{}
	}
	b.interaction = in
}

// Update applies fn to the item with the given id and reports whether it
// exists. No other item is touched. The id cannot be changed through fn.
func (b *Board) Update(id ItemID, fn func(*Item)) bool {
	i := b.index(id)
	if i < 0 {
		return false
	}
	it := b.items[i]
	fn(&it)
	it.ID = id
	b.items[i] = it
	return true
}

// Reset discards all items and returns to Idle.
func (b *Board) Reset() {
	b.items = nil
	b.interaction = Idle{}
}

func (b *Board) index(id ItemID) int {
	for i := range b.items {
		if b.items[i].ID == id {
			return i
		}
	}
	return -1
}
