// Package imaging rasterizes rendered curve documents into bitmap previews.
//
// The rasterizer consumes only a render.Document: its paths and bounding box.
// Path coordinates are scaled uniformly so that the smaller side of the
// bounding box maps to the requested target size, then stroked onto a solid
// background with round caps and joins.
//
// # Coordinate System
//
// Drawing coordinates map directly to pixels after scaling: (0,0) is the
// top-left corner, X increases rightward and Y increases downward, matching
// the SVG viewBox the renderer writes. No Y-axis flip is applied.
//
// # Raster Size
//
// For a bounding box of W x H drawing units and a target size T:
//
//	scale  = T / min(W, H)
//	width  = round(W * scale)
//	height = round(H * scale)
//
// A box with zero or non-finite area cannot be scaled and is reported as a
// *geom.GeometryError, never clamped to a default.
//
// # Color Representation
//
// Colors are "#RRGGBB" hex strings parsed with go-colorful. The same parser
// validates the renderer's palette, so any palette the renderer accepts can be
// rasterized.
//
// # Output
//
// Images can be written to disk as PNG (SavePNG) or returned base64-encoded
// for transport (EncodePNGBase64), optionally downscaled first with Preview.
package imaging
