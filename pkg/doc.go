// Package pkg provides the core libraries for visionboard.
//
// # Overview
//
// Visionboard places a list of image URLs on a fixed 800x600 canvas in a
// balanced grid, lets the user drag and resize them with a pointer, and
// exports the canvas as PNG, JPEG or PDF. The pkg directory is organized
// into three areas:
//
//  1. Domain logic: [layout], [board], [interaction] and [export]
//  2. Infrastructure: [render], [cache], [session], [httputil], [config]
//  3. Orchestration: [pipeline] and [server]
//
// # Architecture
//
// The typical data flow:
//
//	Image URLs
//	     ↓
//	[layout] package (grid plan + cell rectangles)
//	     ↓
//	[board] package (items, interaction state)
//	     ↓
//	[interaction] package (pointer events → drag / resize)
//	     ↓
//	[export] package (capture via [render] → PNG/JPEG/PDF)
//
// # Quick Start
//
//	b, err := board.New([]string{"https://example.com/a.jpg", "https://example.com/b.jpg"})
//	if err != nil {
//	    return err
//	}
//
//	ctrl := interaction.NewController(b)
//	ctrl.Handle(interaction.PointerDown{Point: interaction.Point{X: 20, Y: 20}, ItemID: b.Items()[0].ID})
//	ctrl.Handle(interaction.PointerMove{Point: interaction.Point{X: 120, Y: 80}})
//	ctrl.Handle(interaction.PointerUp{})
//
//	loader := render.NewMultiLoader(render.NewHTTPLoader(), render.FileLoader{})
//	p := export.New(render.NewRasterizer(loader), export.WithDownloader(export.FileDownloader{Dir: "out"}))
//	_, err = p.Export(ctx, b, export.FormatPNG)
//
// # Main Packages
//
// [layout] - Pure grid planning: curated grids for up to 12 images,
// ceil(sqrt(n)) columns beyond, 10px padding.
//
// [board] - The board model: ordered items, the single active interaction
// and JSON snapshots.
//
// [interaction] - Pointer event handling. A press on an item body starts a
// drag, a press on its bottom-right handle starts a resize; listeners are
// attached only while an interaction is active.
//
// [export] - Capture, encode and deliver the board. Failures surface a
// single user notice and never download partial output.
//
// [render] - Rasterizes boards with gg, loading images over HTTP with
// CORS semantics or from local files.
//
// [pipeline] - URLs → board → gestures → export, with artifact caching. Used
// by the CLI.
//
// [server] - HTTP API over boards held in a [session] store.
//
// # Testing
//
//	go test ./pkg/...           # All tests
//	go test -run Example ./...  # Examples only
package pkg
