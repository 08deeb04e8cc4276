// Package detection finds reflective symmetry in closed polylines.
//
// DetectSymmetry sweeps candidate axes through the shape's centroid and
// reports every angle whose mirror image maps the vertex ring onto itself
// within a tolerance. The result feeds the symmetric-spline fit strategy,
// which only smooths shapes that have at least one axis.
//
// # Correspondence
//
// Two ways of matching reflected vertices are available:
//
//   - MatchNearest (default): the reflected vertex ring must coincide with
//     the shape's ring up to a cyclic shift and a reversal. Detects the axes
//     of regular shapes regardless of where the polyline starts, and respects
//     connectivity: a self-crossing bowtie keeps only its two true axes.
//   - MatchPointwise: reflected vertex i must land near vertex i. This is
//     the legacy test; it misses most axes because reflection reverses the
//     traversal order.
//
// # Coordinate System
//
// Angles are measured counterclockwise from the positive X axis in the
// input's coordinate space, in radians in [0, π). SymmetryResult.AxesDegrees
// converts them for display.
package detection
