package geom

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used to decide whether two points coincide.
const Epsilon = 1e-8

// Point is a 2D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Add returns p + q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Scale returns p scaled by s.
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }

// Equal reports whether p and q coincide within Epsilon.
func (p Point) Equal(q Point) bool { return Distance(p, q) <= Epsilon }

// IsFinite reports whether both coordinates are finite numbers.
func (p Point) IsFinite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Distance returns the Euclidean distance between p and q.
func Distance(p, q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Polyline is an ordered sequence of points approximating a curve.
type Polyline []Point

// Clone returns a copy of p that shares no memory with it.
func (p Polyline) Clone() Polyline {
	if p == nil {
		return nil
	}
	out := make(Polyline, len(p))
	copy(out, p)
	return out
}

// Distinct returns the number of distinct points in p, where points within
// Epsilon of each other count once.
func (p Polyline) Distinct() int {
	seen := make([]Point, 0, len(p))
outer:
	for _, pt := range p {
		for _, s := range seen {
			if s.Equal(pt) {
				continue outer
			}
		}
		seen = append(seen, pt)
	}
	return len(seen)
}

// Vertices returns the ring of p without its closing duplicate point. For an
// open polyline it returns p itself.
func (p Polyline) Vertices() Polyline {
	if len(p) > 1 && !IsOpen(p) {
		return p[:len(p)-1]
	}
	return p
}

// Validate reports a GeometryError if any coordinate is NaN or infinite.
func (p Polyline) Validate() error {
	for i, pt := range p {
		if !pt.IsFinite() {
			return &GeometryError{Reason: fmt.Sprintf("non-finite coordinate (%v, %v) at index %d", pt.X, pt.Y, i)}
		}
	}
	return nil
}

// Max returns the largest X and Y coordinate in p. An empty polyline yields
// (0, 0).
func (p Polyline) Max() (maxX, maxY float64) {
	for i, pt := range p {
		if i == 0 || pt.X > maxX {
			maxX = pt.X
		}
		if i == 0 || pt.Y > maxY {
			maxY = pt.Y
		}
	}
	return maxX, maxY
}

// Subpath is a polyline together with the subId it was loaded under.
type Subpath struct {
	ID     float64  `json:"id"`
	Points Polyline `json:"points"`
}

// PathGroup is a set of subpaths sharing one logical shape identity.
type PathGroup struct {
	ID       float64   `json:"id"`
	Subpaths []Subpath `json:"subpaths"`
}

// Drawing is an ordered sequence of path groups.
type Drawing struct {
	Groups []PathGroup `json:"groups"`
}

// PointCount returns the total number of points across all subpaths.
func (d *Drawing) PointCount() int {
	n := 0
	for _, g := range d.Groups {
		for _, s := range g.Subpaths {
			n += len(s.Points)
		}
	}
	return n
}

// Validate checks every subpath for non-finite coordinates.
func (d *Drawing) Validate() error {
	for gi, g := range d.Groups {
		for si, s := range g.Subpaths {
			if err := s.Points.Validate(); err != nil {
				return fmt.Errorf("group %d subpath %d: %w", gi, si, err)
			}
		}
	}
	return nil
}

// BezierSegment holds the four control points of a cubic Bezier curve:
// anchor, control, control, anchor.
type BezierSegment [4]Point

// Eval returns the point at parameter t in [0, 1] using cubic Bernstein
// blending.
func (b BezierSegment) Eval(t float64) Point {
	u := 1 - t
	b0 := u * u * u
	b1 := 3 * u * u * t
	b2 := 3 * u * t * t
	b3 := t * t * t
	return b[0].Scale(b0).Add(b[1].Scale(b1)).Add(b[2].Scale(b2)).Add(b[3].Scale(b3))
}

// Flatten samples the segment at n uniformly spaced parameters, endpoints
// included. n < 2 is treated as 2.
func (b BezierSegment) Flatten(n int) Polyline {
	if n < 2 {
		n = 2
	}
	out := make(Polyline, n)
	for i := range n {
		out[i] = b.Eval(float64(i) / float64(n-1))
	}
	return out
}

// CurveKind discriminates the two FittedCurve representations.
type CurveKind int

const (
	// CurvePolyline is a raw or resampled polyline.
	CurvePolyline CurveKind = iota
	// CurveBezier is a sequence of cubic Bezier segments.
	CurveBezier
)

func (k CurveKind) String() string {
	switch k {
	case CurvePolyline:
		return "polyline"
	case CurveBezier:
		return "bezier"
	default:
		return fmt.Sprintf("CurveKind(%d)", int(k))
	}
}

// MarshalText encodes the kind as "polyline" or "bezier".
func (k CurveKind) MarshalText() ([]byte, error) {
	if k != CurvePolyline && k != CurveBezier {
		return nil, fmt.Errorf("unknown curve kind %d", int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes "polyline" or "bezier".
func (k *CurveKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "polyline":
		*k = CurvePolyline
	case "bezier":
		*k = CurveBezier
	default:
		return fmt.Errorf("unknown curve kind %q", text)
	}
	return nil
}

// FittedCurve is the output of the curve fitter for one subpath.
type FittedCurve struct {
	Kind     CurveKind       `json:"kind"`
	Points   Polyline        `json:"points,omitempty"`
	Segments []BezierSegment `json:"segments,omitempty"`
}

// RawCurve wraps an unfitted polyline as a FittedCurve.
func RawCurve(p Polyline) FittedCurve {
	return FittedCurve{Kind: CurvePolyline, Points: p}
}

// BezierCurve wraps Bezier segments as a FittedCurve.
func BezierCurve(segs ...BezierSegment) FittedCurve {
	return FittedCurve{Kind: CurveBezier, Segments: segs}
}

// Start returns the first point of the curve.
func (c FittedCurve) Start() (Point, bool) {
	switch c.Kind {
	case CurveBezier:
		if len(c.Segments) > 0 {
			return c.Segments[0][0], true
		}
	default:
		if len(c.Points) > 0 {
			return c.Points[0], true
		}
	}
	return Point{}, false
}

// End returns the last point of the curve.
func (c FittedCurve) End() (Point, bool) {
	switch c.Kind {
	case CurveBezier:
		if len(c.Segments) > 0 {
			return c.Segments[len(c.Segments)-1][3], true
		}
	default:
		if len(c.Points) > 0 {
			return c.Points[len(c.Points)-1], true
		}
	}
	return Point{}, false
}

// IsOpen reports whether the curve's end point differs from its start.
func (c FittedCurve) IsOpen() bool {
	s, ok := c.Start()
	if !ok {
		return false
	}
	e, _ := c.End()
	return Distance(s, e) > Epsilon
}

// ControlPoints returns every point that defines the curve, including Bezier
// control points, in drawing order.
func (c FittedCurve) ControlPoints() Polyline {
	if c.Kind != CurveBezier {
		return c.Points
	}
	out := make(Polyline, 0, 4*len(c.Segments))
	for _, s := range c.Segments {
		out = append(out, s[:]...)
	}
	return out
}
