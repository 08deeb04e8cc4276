package fit

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/ironsheep/curve-tools-mcp/internal/geom"
)

// HeuristicBezier approximates p with a single cubic Bezier segment by
// subsampling: the control points are p[0], p[n/3], p[2n/3] and p[n-1].
//
// This is an approximation, not a fit. The curve passes through the first and
// last points exactly but may deviate arbitrarily from the input in between,
// and is only adequate when the input is already close to a smooth cubic.
//
// Returns a *geom.DegenerateShapeError when p has fewer than 4 points or
// fewer than 2 distinct points.
func HeuristicBezier(p geom.Polyline) (geom.BezierSegment, error) {
	if err := checkBezierInput(p); err != nil {
		return geom.BezierSegment{}, err
	}
	n := len(p)
	return geom.BezierSegment{p[0], p[n/3], p[2*n/3], p[n-1]}, nil
}

// LeastSquaresBezier fits a single cubic Bezier segment to p with the
// endpoints fixed at p[0] and p[n-1].
//
// The inner control points minimize the sum of squared distances between each
// input point and the curve evaluated at that point's chord-length parameter.
// The output contract matches HeuristicBezier: four control points, anchors
// equal to the input endpoints.
//
// # Algorithm
//
// With t_i the normalized chord length of point i and B0..B3 the cubic
// Bernstein polynomials, solve the overdetermined system
//
//	B1(t_i)·P1 + B2(t_i)·P2 = p_i - B0(t_i)·p_0 - B3(t_i)·p_n-1
//
// for P1 and P2 (both coordinates at once) with a QR least-squares solve.
//
// Returns a *geom.DegenerateShapeError for inputs HeuristicBezier rejects and
// for inputs whose parameters make the system singular.
func LeastSquaresBezier(p geom.Polyline) (geom.BezierSegment, error) {
	if err := checkBezierInput(p); err != nil {
		return geom.BezierSegment{}, err
	}

	t, err := chordParams(p, false)
	if err != nil {
		return geom.BezierSegment{}, err
	}

	p0, p3 := p[0], p[len(p)-1]
	m := len(p)
	a := mat.NewDense(m, 2, nil)
	b := mat.NewDense(m, 2, nil)
	for i, pt := range p {
		ti := t[i]
		u := 1 - ti
		b0 := u * u * u
		b1 := 3 * u * u * ti
		b2 := 3 * u * ti * ti
		b3 := ti * ti * ti

		a.Set(i, 0, b1)
		a.Set(i, 1, b2)
		b.Set(i, 0, pt.X-b0*p0.X-b3*p3.X)
		b.Set(i, 1, pt.Y-b0*p0.Y-b3*p3.Y)
	}

	var x mat.Dense
	if err := x.Solve(a, b); err != nil {
		return geom.BezierSegment{}, &geom.DegenerateShapeError{Reason: fmt.Sprintf("least-squares Bezier system is singular: %v", err)}
	}

	seg := geom.BezierSegment{
		p0,
		{X: x.At(0, 0), Y: x.At(0, 1)},
		{X: x.At(1, 0), Y: x.At(1, 1)},
		p3,
	}
	if err := geom.Polyline(seg[:]).Validate(); err != nil {
		return geom.BezierSegment{}, err
	}
	return seg, nil
}

func checkBezierInput(p geom.Polyline) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if len(p) < 4 {
		return &geom.DegenerateShapeError{Reason: fmt.Sprintf("Bezier fit needs at least 4 points, got %d", len(p))}
	}
	if n := p.Distinct(); n < 2 {
		return &geom.DegenerateShapeError{Reason: fmt.Sprintf("Bezier fit needs at least 2 distinct points, got %d", n)}
	}
	return nil
}
