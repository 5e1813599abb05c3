package interaction_test

import (
	"fmt"

	"github.com/matzehuels/visionboard/pkg/board"
	"github.com/matzehuels/visionboard/pkg/interaction"
)

func ExampleController() {
	b := board.Restore(board.Snapshot{
		ID:    "demo",
		Items: []board.Item{{ID: 3, X: 100, Y: 100, Width: 200, Height: 150}},
	})
	c := interaction.NewController(b)

	c.Handle(interaction.PointerDown{Point: interaction.Point{X: 110, Y: 110}, ItemID: 3})
	c.Handle(interaction.PointerMove{Point: interaction.Point{X: 50, Y: 50}})
	c.Handle(interaction.PointerUp{})

	it, _ := b.Item(3)
	fmt.Printf("(%.0f,%.0f) %s\n", it.X, it.Y, b.Interaction().Kind())
	// Output: (40,40) idle
}
