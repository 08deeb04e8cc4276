package fit

import (
	"fmt"

	"gonum.org/v1/gonum/interp"

	"github.com/ironsheep/curve-tools-mcp/internal/geom"
)

// DefaultSplineSamples is the number of points a spline is resampled to.
const DefaultSplineSamples = 100

// Spline fits an interpolating parametric cubic spline through p and resamples
// it into a polyline of exactly samples points.
//
// Parameters:
//   - p: The polyline to fit. Needs at least 4 distinct points and no two
//     consecutive points may coincide.
//   - samples: Number of output points, at least 2. The spline is evaluated
//     at uniformly spaced parameters in [0, 1], endpoints included.
//
// Returns:
//   - geom.Polyline: The resampled curve. Its first and last points are the
//     first and last points of p.
//   - error: *geom.DegenerateShapeError if p cannot be parameterized,
//     *geom.GeometryError if p or the result holds non-finite values.
//
// # Algorithm
//
//  1. Parameterize p by normalized cumulative chord length u ∈ [0, 1].
//  2. Fit one natural cubic spline x(u) and one y(u). The fit interpolates
//     every input point (no smoothing).
//  3. Evaluate both at u = i/(samples-1).
func Spline(p geom.Polyline, samples int) (geom.Polyline, error) {
	if samples < 2 {
		return nil, fmt.Errorf("spline samples must be at least 2, got %d", samples)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if n := p.Distinct(); n < 4 {
		return nil, &geom.DegenerateShapeError{Reason: fmt.Sprintf("spline fit needs at least 4 distinct points, got %d", n)}
	}

	u, err := chordParams(p, true)
	if err != nil {
		return nil, err
	}

	xs := make([]float64, len(p))
	ys := make([]float64, len(p))
	for i, pt := range p {
		xs[i], ys[i] = pt.X, pt.Y
	}

	var sx, sy interp.NaturalCubic
	if err := sx.Fit(u, xs); err != nil {
		return nil, &geom.DegenerateShapeError{Reason: fmt.Sprintf("spline fit failed for x: %v", err)}
	}
	if err := sy.Fit(u, ys); err != nil {
		return nil, &geom.DegenerateShapeError{Reason: fmt.Sprintf("spline fit failed for y: %v", err)}
	}

	out := make(geom.Polyline, samples)
	last := float64(samples - 1)
	for i := range out {
		t := float64(i) / last
		out[i] = geom.Point{X: sx.Predict(t), Y: sy.Predict(t)}
	}
	// Pin the endpoints so closed inputs stay exactly closed.
	out[0] = p[0]
	out[samples-1] = p[len(p)-1]

	if err := out.Validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// chordParams returns the normalized cumulative chord length of each point of
// p. With strict set, a zero-length chord is a singular parameterization and
// is reported as a DegenerateShapeError; otherwise repeated points share a
// parameter.
func chordParams(p geom.Polyline, strict bool) ([]float64, error) {
	u := make([]float64, len(p))
	for i := 1; i < len(p); i++ {
		d := geom.Distance(p[i-1], p[i])
		if strict && d <= geom.Epsilon {
			return nil, &geom.DegenerateShapeError{Reason: fmt.Sprintf("points %d and %d coincide; chord-length parameterization is singular", i-1, i)}
		}
		u[i] = u[i-1] + d
	}

	total := u[len(u)-1]
	if total <= geom.Epsilon {
		return nil, &geom.DegenerateShapeError{Reason: "polyline has zero length"}
	}
	for i := range u {
		u[i] /= total
	}
	u[len(u)-1] = 1
	return u, nil
}
