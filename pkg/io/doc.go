// Package io reads and writes the file formats used around a board.
//
// # URL lists
//
// A URL list is plain text with one image URL per line. Blank lines and
// lines starting with # are ignored:
//
//	# mood
//	https://images.example/sunrise.jpg
//	https://images.example/ocean.png
//
// # Gesture scripts
//
// A gesture script replays pointer input against a board, in YAML (or
// JSON, which YAML accepts). Coordinates are client coordinates, with an
// optional canvas origin:
//
//	origin: {x: 0, y: 0}
//	events:
//	  - {type: down, x: 110, y: 110, item: 1}
//	  - {type: move, x: 300, y: 200}
//	  - {type: up}
//
// Items are addressed by their 1-based position in the URL list, since
// ids are only assigned when the board is created. A raw item_id field is
// accepted as well and wins over item.
//
// # Board JSON
//
// [WriteBoardJSON] writes a board snapshot, including the active
// interaction, and [ReadBoardJSON] restores it:
//
//	{
//	  "id": "5b0c...",
//	  "width": 800,
//	  "height": 600,
//	  "items": [{"id": 1718000000000, "url": "...", "x": 10, "y": 10, "width": 385, "height": 285}],
//	  "interaction": {"kind": "idle"}
//	}
package io
