package layout

import "math"

// DefaultPadding is the gap in pixels between cells and around the grid.
const DefaultPadding = 10.0

// Grid is a column/row arrangement.
type Grid struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Cells returns the number of slots in the grid.
func (g Grid) Cells() int { return g.Cols * g.Rows }

// curated maps small counts to hand-picked grids.
var curated = map[int]Grid{
	1:  {Cols: 1, Rows: 1},
	2:  {Cols: 2, Rows: 1},
	3:  {Cols: 3, Rows: 1},
	4:  {Cols: 2, Rows: 2},
	5:  {Cols: 3, Rows: 2},
	6:  {Cols: 3, Rows: 2},
	7:  {Cols: 4, Rows: 2},
	8:  {Cols: 4, Rows: 2},
	9:  {Cols: 3, Rows: 3},
	10: {Cols: 4, Rows: 3},
	11: {Cols: 4, Rows: 3},
	12: {Cols: 4, Rows: 3},
}

// MaxCurated is the largest count served by the curated table.
const MaxCurated = 12

// GridFor returns the grid used for count items.
// Non-positive counts yield the zero Grid.
func GridFor(count int) Grid {
	if count <= 0 {
		return Grid{}
	}
	if g, ok := curated[count]; ok {
		return g
	}
	cols := int(math.Ceil(math.Sqrt(float64(count))))
	rows := (count + cols - 1) / cols
	return Grid{Cols: cols, Rows: rows}
}

// Spec is the derived grid geometry for one board.
type Spec struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
	Padding    float64 `json:"padding"`
}

// Plan computes the grid geometry for count items on a canvas of the given size.
// It never fails; a non-positive count returns the zero Spec.
func Plan(count int, canvasWidth, canvasHeight float64) Spec {
	g := GridFor(count)
	if g.Cols == 0 {
		return Spec{}
	}
	p := DefaultPadding
	return Spec{
		Cols:       g.Cols,
		Rows:       g.Rows,
		CellWidth:  (canvasWidth - p*float64(g.Cols+1)) / float64(g.Cols),
		CellHeight: (canvasHeight - p*float64(g.Rows+1)) / float64(g.Rows),
		Padding:    p,
	}
}

// Degenerate reports whether the cells have no positive area.
func (s Spec) Degenerate() bool {
	return s.CellWidth <= 0 || s.CellHeight <= 0
}

// Cell is a grid slot.
type Cell struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Place assigns count items to cells in row-major order.
func Place(count int, s Spec) []Cell {
	if count <= 0 || s.Cols <= 0 {
		return nil
	}
	cells := make([]Cell, count)
	for i := range cells {
		cells[i] = Cell{Row: i / s.Cols, Col: i % s.Cols}
	}
	return cells
}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Rect returns the pixel geometry of c.
func (s Spec) Rect(c Cell) Rect {
	return Rect{
		X:      s.Padding + float64(c.Col)*(s.CellWidth+s.Padding),
		Y:      s.Padding + float64(c.Row)*(s.CellHeight+s.Padding),
		Width:  s.CellWidth,
		Height: s.CellHeight,
	}
}

// Seed plans and places count items and returns one Rect per item index.
func Seed(count int, canvasWidth, canvasHeight float64) []Rect {
	s := Plan(count, canvasWidth, canvasHeight)
	cells := Place(count, s)
	rects := make([]Rect, len(cells))
	for i, c := range cells {
		rects[i] = s.Rect(c)
	}
	return rects
}
