// Package interaction turns pointer events into board mutations.
//
// The state machine has three states, held on the board as a
// [board.Interaction]:
//
//	Idle --down on body-->   Dragging --move--> Dragging (clamped move)
//	Idle --down on handle--> Resizing --move--> Resizing (floored resize)
//	Dragging|Resizing --up|cancel--> Idle
//
// Pointer coordinates are client coordinates; the [Controller] subtracts the
// canvas origin before applying drag offsets. A drag keeps the item fully on
// the canvas. A resize never moves the item and never clamps it to the
// canvas; it only enforces [board.MinSize] on each axis.
//
// The transition functions [Begin], [Drag], [Resize] and [Next] are pure and
// exported for direct testing. [Controller] composes them with a board and a
// [Listeners] collaborator that is attached exactly while an interaction is
// active, mirroring global move/up subscriptions in a windowing system.
package interaction
