// Package geom defines the geometric data model shared by every stage of the
// curve pipeline, along with the error kinds the stages report.
//
// # Data Model
//
// The model is hierarchical:
//
//	Drawing -> PathGroup -> Subpath -> Polyline -> Point
//
// A Drawing is the unit of work. Its PathGroups are ordered: the index of a
// group defines both its z-order and its palette color. Each group holds one or
// more Subpaths, each wrapping a Polyline of points in input order.
//
// Fitting produces a FittedCurve per Subpath, which is either a polyline (raw
// or resampled) or a sequence of cubic BezierSegments.
//
// # Coordinate System
//
// Coordinates are real-valued and unitless. They are written to SVG unchanged,
// so Y increases downward in the rendered output.
//
// # Closing Shapes
//
// IsOpen and Close implement the closed-shape normalizer. A polyline is closed
// when its first and last points coincide within Epsilon. Close never mutates
// its argument and is idempotent.
//
// # Error Handling
//
// Three error kinds are defined and are matched with errors.As:
//   - ParseError: malformed or empty input
//   - DegenerateShapeError: too few distinct points, singular parameterization
//   - GeometryError: NaN or infinite coordinates, zero-area output boxes
//
// Stages wrap these with context using fmt.Errorf and %w, so callers should
// never compare errors by identity.
package geom
