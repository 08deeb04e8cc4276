// Package pipeline runs the curve beautification pass end to end.
//
// A run is a single synchronous pass over one Drawing:
//
//	Loader -> Close -> DetectSymmetry -> Fit -> Render -> Rasterize
//
// Every subpath is closed, tested for symmetry and fitted in input order. The
// fitted curves of each group become one rendered path. Any failure aborts the
// run; errors name the group and subpath index where they occurred and keep
// the underlying *geom.ParseError, *geom.DegenerateShapeError or
// *geom.GeometryError reachable through errors.As.
//
// # Configuration
//
// Config collects the options of every stage. DefaultConfig reproduces the
// standard output: first-appearance grouping, nearest-vertex symmetry
// matching, no fitting, the seven-color palette, stroke width 3, padding 0.1,
// a white background and a 1024 pixel target. LoadConfig overlays a JSON file
// on the defaults.
//
// # Output
//
// WriteOutputs rasterizes before touching the filesystem so that a raster
// failure leaves no SVG behind.
package pipeline
