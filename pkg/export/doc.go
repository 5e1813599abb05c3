// Package export snapshots a board into a raster and encodes it as PNG, JPG
// or PDF.
//
// # Collaborators
//
// Two services are injected:
//
//   - [Capturer] turns a [Region] (board size plus item copies) into a
//     [Canvas]. The default implementation lives in package render.
//   - [PDFEncoder] wraps a PNG into a single-page document. [FPDFEncoder]
//     is the default, built on go-pdf/fpdf.
//
// Results leave the pipeline through a [Downloader] and failures are shown
// to the user through a [Notifier].
//
// # Tainted canvases
//
// A capture that drew cross-origin content without CORS approval is marked
// [Canvas.Tainted]. Its pixels cannot be read back, so encoding fails with
// TAINTED_CANVAS. Capture with AllowTaint disabled skips such images instead.
//
// # Failure handling
//
// [Pipeline.Export] catches every capture and encoding failure, shows the
// single notice [FailureNotice], writes nothing and returns a coded error.
// The board is never touched, so the export can simply be retried. A second
// export for the same board while one is running fails fast with
// EXPORT_IN_FLIGHT.
package export
