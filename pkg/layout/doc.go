// Package layout seeds the initial placement of images on a board.
//
// # Overview
//
// Given an item count and canvas dimensions, [Plan] chooses a grid and
// computes a uniform cell size; [Place] assigns each item index a grid cell
// in row-major order; [Spec.Rect] converts a cell into pixel geometry.
//
// # Grid Selection
//
// Counts from 1 to 12 use a curated table rather than a formula. The table
// encodes preferences that no simple rule reproduces, for example three
// items sit side by side in one row rather than in a 2×2 with a hole:
//
//	count  1   2   3   4   5   6   7   8   9   10  11  12
//	grid  1×1 2×1 3×1 2×2 3×2 3×2 4×2 4×2 3×3 4×3 4×3 4×3
//
// Larger counts fall back to cols = ⌈√count⌉, rows = ⌈count / cols⌉.
//
// # Geometry
//
// A fixed [DefaultPadding] separates cells from each other and from the
// canvas edges:
//
//	cellWidth  = (canvasWidth  - padding*(cols+1)) / cols
//	cellHeight = (canvasHeight - padding*(rows+1)) / rows
//
// No minimum cell size is enforced. Very large counts produce tiny or
// negative cells; [Spec.Degenerate] reports that condition so callers can
// decide what to do with it.
//
// # Usage
//
//	spec := layout.Plan(4, 800, 600)
//	for _, cell := range layout.Place(4, spec) {
//	    r := spec.Rect(cell)
//	    fmt.Println(r.X, r.Y, r.Width, r.Height)
//	}
package layout
