// Package render rasterizes boards for export.
//
// # Overview
//
// [Rasterizer] is the default [export.Capturer]. It composites the items of
// a region onto an upscaled canvas:
//
//   - canvas size round(width*scale) x round(height*scale), cleared to the
//     background color
//   - items drawn in slice order, so later items cover earlier ones
//   - each image cover-fitted into its scaled rectangle (center crop)
//   - items larger than the canvas are clipped at its edges
//
// Compositing uses fogleman/gg; resampling uses disintegration/imaging.
//
// # Loading
//
// Images come from a [Loader]:
//
//   - [HTTPLoader] fetches http(s) URLs with retry and caching, sending an
//     Origin header when CORS is requested and recording whether the
//     response approved cross-origin reads
//   - [FileLoader] reads local paths and file:// URLs
//   - [MultiLoader] dispatches by URL scheme
//
// Images load concurrently, at most four at a time. Any load failure fails
// the whole capture with CAPTURE_FAILED.
//
// # Cross-origin images
//
// An image without CORS approval is drawn only when AllowTaint is set, and
// then marks the canvas tainted; otherwise it is left out.
//
//	r := render.NewRasterizer(render.NewMultiLoader(httpLoader, render.FileLoader{}))
//	canvas, err := r.Capture(ctx, export.RegionOf(b), export.DefaultCaptureOptions())
package render
