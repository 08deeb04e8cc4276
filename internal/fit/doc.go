// Package fit converts polylines into smooth curves.
//
// # Strategies
//
// Each strategy is an independent capability; callers choose one with
// Options.Strategy:
//
//   - StrategyNone: the polyline is passed through unchanged.
//   - StrategySpline: an interpolating parametric cubic spline through the
//     points, resampled to a fixed number of points (see Spline).
//   - StrategyBezier: a single cubic Bezier whose control points are taken
//     directly from the input at indices 0, n/3, 2n/3 and n-1 (see
//     HeuristicBezier). This is subsampling, not fitting: the curve may
//     deviate arbitrarily from the input between control points.
//   - StrategyLeastSquares: a single cubic Bezier with the input endpoints as
//     anchors and inner control points chosen by linear least squares (see
//     LeastSquaresBezier).
//   - StrategySymmetricSpline: the spline strategy for shapes reported
//     symmetric, the raw polyline otherwise. This couples symmetry to fitting
//     quality and exists to reproduce the legacy pipeline.
//
// # Parameterization
//
// Both the spline and the least-squares fit parameterize the input by
// normalized cumulative chord length, so u runs from 0 at the first point to
// 1 at the last.
//
// # Error Handling
//
// Inputs that cannot be fitted are reported as *geom.DegenerateShapeError:
// fewer than 2 distinct points for any strategy, fewer than 4 distinct points
// or a repeated consecutive point for the spline, fewer than 4 points for the
// Bezier strategies. Fitting never silently returns its input.
package fit
