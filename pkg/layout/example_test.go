package layout_test

import (
	"fmt"

	"github.com/matzehuels/visionboard/pkg/layout"
)

func Example() {
	spec := layout.Plan(4, 800, 600)
	fmt.Printf("grid %dx%d, cell %.0fx%.0f\n", spec.Cols, spec.Rows, spec.CellWidth, spec.CellHeight)

	for i, cell := range layout.Place(4, spec) {
		r := spec.Rect(cell)
		fmt.Printf("%d: (%.0f,%.0f)\n", i, r.X, r.Y)
	}
	// Output:
	// grid 2x2, cell 385x285
	// 0: (10,10)
	// 1: (405,10)
	// 2: (10,305)
	// 3: (405,305)
}

func ExampleGridFor() {
	for _, n := range []int{3, 5, 13} {
		g := layout.GridFor(n)
		fmt.Printf("%d -> %dx%d\n", n, g.Cols, g.Rows)
	}
	// Output:
	// 3 -> 3x1
	// 5 -> 3x2
	// 13 -> 4x4
}
