// Package loader turns tabular curve data into a geom.Drawing.
//
// # Input Format
//
// Input is comma-separated text with one point per row:
//
//	groupId,subId,x,y
//
// All four fields must be numeric. groupId and subId are grouping keys only;
// they are not assumed to be sorted, contiguous, or integral. Blank lines and
// lines starting with '#' are ignored.
//
// # Grouping Order
//
// Two orderings are supported:
//   - OrderFirstAppearance (default): groups are ordered by the first row that
//     mentions their groupId, subpaths by the first row that mentions their
//     subId within the group. This preserves the input's draw order.
//   - OrderSorted: groups and subpaths are ordered by ascending key value.
//     This reproduces the legacy behavior and silently reorders paths whenever
//     keys are non-monotonic in the input. Use it only when exact legacy
//     output order is required.
//
// Within a subpath, points always keep input order.
//
// # Error Handling
//
// Malformed rows, non-numeric fields, and empty input are reported as
// *geom.ParseError with the offending line number. Non-finite coordinates are
// reported as *geom.GeometryError.
//
// # Caching
//
// Cache keeps loaded drawings in memory keyed by path and order, for the MCP
// server where several tool calls usually target the same file. Cache is safe
// for concurrent use.
package loader
