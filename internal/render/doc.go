// Package render turns fitted curves into vector paths and SVG documents.
//
// Each path group becomes one Path whose stroke color is chosen from the
// palette by the group's index, so colors are stable for a given input order.
// Coordinates are written unchanged: the document's bounding box starts at
// the origin and extends to the largest coordinate plus a padding fraction.
//
// # Path Commands
//
// A polyline curve contributes "M" to its first point followed by "L" for every
// remaining point. A Bezier curve contributes "M" to the first anchor of each
// segment followed by a single "C". Curves whose end does not meet their start
// get a final "L" back to the start.
//
// Nothing here touches the filesystem; WriteSVG writes to any io.Writer.
package render
