package detection

import (
	"fmt"
	"math"

	"github.com/ironsheep/curve-tools-mcp/internal/geom"
)

// Correspondence selects how a reflected vertex is matched against the
// original shape.
type Correspondence int

const (
	// MatchNearest matches the reflected ring against the shape's ring at the
	// nearest starting vertex, walking in either direction. Vertices pair one
	// to one and neighbours stay neighbours, so symmetric shapes are found
	// regardless of where sampling starts or which way it winds, and a shape
	// whose vertex set is symmetric but whose edges are not is rejected.
	MatchNearest Correspondence = iota

	// MatchPointwise matches each reflected vertex only against the vertex with
	// the same index. This only detects symmetry when the sampling order is
	// itself symmetric, which in practice means every vertex lies on the axis.
	// It reproduces the legacy detector and is kept for comparison.
	MatchPointwise
)

func (c Correspondence) String() string {
	switch c {
	case MatchNearest:
		return "nearest"
	case MatchPointwise:
		return "pointwise"
	default:
		return fmt.Sprintf("Correspondence(%d)", int(c))
	}
}

// ParseCorrespondence converts "nearest" or "pointwise" into a
// Correspondence. The empty string selects MatchNearest.
func ParseCorrespondence(s string) (Correspondence, error) {
	switch s {
	case "", "nearest":
		return MatchNearest, nil
	case "pointwise":
		return MatchPointwise, nil
	default:
		return 0, fmt.Errorf("unknown symmetry correspondence %q (want nearest or pointwise)", s)
	}
}

// MarshalText encodes the correspondence by name.
func (c Correspondence) MarshalText() ([]byte, error) {
	if c != MatchNearest && c != MatchPointwise {
		return nil, fmt.Errorf("unknown symmetry correspondence %d", int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a name accepted by ParseCorrespondence.
func (c *Correspondence) UnmarshalText(text []byte) error {
	v, err := ParseCorrespondence(string(text))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// Options configures DetectSymmetry.
type Options struct {
	// Tolerance is the largest distance between a reflected vertex and its
	// match for the axis to qualify.
	Tolerance float64 `json:"tolerance"`

	// Samples is the number of axis angles tested, uniformly over [0, π).
	Samples int `json:"samples"`

	// Correspondence selects how reflected vertices are matched.
	Correspondence Correspondence `json:"correspondence"`
}

// DefaultOptions returns a tolerance of 0.01, 180 samples (1° steps) and
// nearest-vertex matching.
func DefaultOptions() Options {
	return Options{
		Tolerance:      1e-2,
		Samples:        180,
		Correspondence: MatchNearest,
	}
}

// Validate reports an error for a non-positive tolerance or sample count.
func (o Options) Validate() error {
	if !(o.Tolerance > 0) || math.IsInf(o.Tolerance, 0) {
		return fmt.Errorf("symmetry tolerance must be a positive finite number, got %v", o.Tolerance)
	}
	if o.Samples < 1 {
		return fmt.Errorf("symmetry samples must be at least 1, got %d", o.Samples)
	}
	return nil
}

// SymmetryResult contains the outcome of a symmetry test.
type SymmetryResult struct {
	// Symmetric is true when at least one axis qualifies.
	Symmetric bool `json:"symmetric"`

	// Axes lists the qualifying axis angles in radians, ascending, each in
	// [0, π). An axis passes through Centroid.
	Axes []float64 `json:"axes"`

	// Centroid is the mean of the shape's vertices.
	Centroid geom.Point `json:"centroid"`
}

// AxesDegrees returns Axes converted to degrees.
func (r *SymmetryResult) AxesDegrees() []float64 {
	out := make([]float64, len(r.Axes))
	for i, a := range r.Axes {
		out[i] = a * 180 / math.Pi
	}
	return out
}

// DetectSymmetry tests a closed polyline for reflective symmetry.
//
// Parameters:
//   - p: A closed polyline (first point equals last point within
//     geom.Epsilon) with at least one point. A ring whose points all
//     coincide is symmetric about every axis.
//   - opts: Tolerance, angle resolution, and correspondence mode.
//
// Returns:
//   - *SymmetryResult: Whether any axis qualifies, and every qualifying axis.
//   - error: *geom.DegenerateShapeError for open or empty polylines,
//     *geom.GeometryError for non-finite coordinates, or a plain error for
//     invalid options.
//
// # Algorithm
//
//  1. Centroid: the arithmetic mean of the vertex ring. The closing duplicate
//     is excluded so it does not pull the centroid toward the start point.
//  2. For θ = k·π/Samples, k = 0..Samples-1: reflect every vertex across the
//     line through the centroid with direction θ by rotating into the axis
//     frame, negating the perpendicular coordinate, and rotating back.
//  3. The axis qualifies iff every reflected vertex lies within Tolerance of
//     its match. MatchPointwise pairs equal indices. MatchNearest pairs the
//     reflected ring with a cyclic shift of the original ring, forwards or
//     reversed, starting at a vertex near the first reflected vertex.
//
// The search is exhaustive over all samples. MatchPointwise costs
// O(Samples × n); MatchNearest costs O(Samples × n²).
func DetectSymmetry(p geom.Polyline, opts Options) (*SymmetryResult, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if geom.IsOpen(p) {
		return nil, &geom.DegenerateShapeError{Reason: "symmetry detection requires a closed polyline"}
	}
	if len(p) == 0 {
		return nil, &geom.DegenerateShapeError{Reason: "symmetry detection needs at least one point"}
	}

	verts := p.Vertices()
	c := centroid(verts)
	result := &SymmetryResult{Centroid: c, Axes: []float64{}}

	reflected := make(geom.Polyline, len(verts))
	for k := 0; k < opts.Samples; k++ {
		theta := float64(k) * math.Pi / float64(opts.Samples)
		for i, v := range verts {
			reflected[i] = reflect(v, c, theta)
		}

		var ok bool
		switch opts.Correspondence {
		case MatchPointwise:
			ok = matchPointwise(verts, reflected, opts.Tolerance)
		default:
			ok = matchRing(verts, reflected, opts.Tolerance)
		}
		if ok {
			result.Axes = append(result.Axes, theta)
		}
	}

	result.Symmetric = len(result.Axes) > 0
	return result, nil
}

// centroid returns the arithmetic mean of pts.
func centroid(pts geom.Polyline) geom.Point {
	var sx, sy float64
	for _, p := range pts {
		sx += p.X
		sy += p.Y
	}
	n := float64(len(pts))
	return geom.Point{X: sx / n, Y: sy / n}
}

// reflect mirrors p across the line through c with direction angle theta.
func reflect(p, c geom.Point, theta float64) geom.Point {
	cos, sin := math.Cos(theta), math.Sin(theta)
	dx, dy := p.X-c.X, p.Y-c.Y

	// Axis frame: u along the axis, v perpendicular to it.
	u := cos*dx + sin*dy
	v := -sin*dx + cos*dy
	v = -v

	return geom.Point{
		X: c.X + cos*u - sin*v,
		Y: c.Y + sin*u + cos*v,
	}
}

func matchPointwise(orig, reflected geom.Polyline, tol float64) bool {
	for i := range orig {
		if geom.Distance(orig[i], reflected[i]) >= tol {
			return false
		}
	}
	return true
}

// matchRing reports whether reflected traces the same closed ring as orig:
// some cyclic shift of orig, walked forwards or backwards, lies within tol of
// reflected vertex by vertex.
func matchRing(orig, reflected geom.Polyline, tol float64) bool {
	n := len(orig)
	for k := range n {
		if geom.Distance(orig[k], reflected[0]) >= tol {
			continue
		}
		for _, dir := range [2]int{1, -1} {
			ok := true
			for i := 1; i < n; i++ {
				j := ((k+dir*i)%n + n) % n
				if geom.Distance(orig[j], reflected[i]) >= tol {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
	}
	return false
}
