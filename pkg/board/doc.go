// Package board holds the in-memory state of a single vision board.
//
// A [Board] owns an ordered list of [Item] values and exactly one active
// [Interaction]. Items are seeded from a URL list by [New] using the grid
// planner in package layout; afterwards their geometry changes only through
// [Board.Update], which callers in package interaction drive from pointer
// events.
//
// # Ownership
//
// The board is the single owner of its items. [Board.Items] and
// [Board.Item] return copies, so mutating the result never affects the board.
// A board is not safe for concurrent use; callers serialize access per board.
//
// # Identity
//
// Item ids are assigned at creation as creationTimeMillis + index and stay
// stable for the lifetime of the item. They never encode the item's current
// position in the slice.
//
// # Snapshots
//
// [Board.Snapshot] produces a JSON-serializable copy of the board including
// its interaction variant, and [Restore] rebuilds a board from one. Sessions
// and the HTTP API store and transmit boards in this form.
package board
