package geom

// IsOpen reports whether the first and last points of p are farther apart
// than Epsilon. Polylines with fewer than two points are never open.
func IsOpen(p Polyline) bool {
	if len(p) < 2 {
		return false
	}
	return Distance(p[0], p[len(p)-1]) > Epsilon
}

// Close returns p with its first point appended when p is open. A closed
// polyline is returned unchanged. The argument is never modified.
func Close(p Polyline) Polyline {
	if !IsOpen(p) {
		return p
	}
	out := make(Polyline, len(p), len(p)+1)
	copy(out, p)
	return append(out, p[0])
}

// NormalizeDrawing returns a new Drawing in which every subpath is closed.
func NormalizeDrawing(d *Drawing) *Drawing {
	out := &Drawing{Groups: make([]PathGroup, len(d.Groups))}
	for gi, g := range d.Groups {
		ng := PathGroup{ID: g.ID, Subpaths: make([]Subpath, len(g.Subpaths))}
		for si, s := range g.Subpaths {
			ng.Subpaths[si] = Subpath{ID: s.ID, Points: Close(s.Points)}
		}
		out.Groups[gi] = ng
	}
	return out
}
