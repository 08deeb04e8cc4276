package loader

import (
	"github.com/ironsheep/curve-tools-mcp/internal/geom"
)

// SubpathSummary describes one loaded subpath.
type SubpathSummary struct {
	ID     float64 `json:"id"`
	Points int     `json:"points"`
	Open   bool    `json:"open"`
}

// GroupSummary describes one loaded path group.
type GroupSummary struct {
	Index    int              `json:"index"`
	ID       float64          `json:"id"`
	Subpaths []SubpathSummary `json:"subpaths"`
}

// Summary contains metadata about a loaded drawing.
type Summary struct {
	// Groups is the number of path groups.
	Groups int `json:"groups"`

	// Subpaths is the total number of subpaths across all groups.
	Subpaths int `json:"subpaths"`

	// Points is the total number of points.
	Points int `json:"points"`

	// OpenSubpaths counts subpaths whose endpoints do not coincide.
	OpenSubpaths int `json:"open_subpaths"`

	// MaxX and MaxY are the largest coordinates in the drawing.
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`

	// Detail lists every group in drawing order.
	Detail []GroupSummary `json:"detail"`
}

// Summarize computes a Summary for d.
func Summarize(d *geom.Drawing) *Summary {
	s := &Summary{Groups: len(d.Groups), Detail: make([]GroupSummary, 0, len(d.Groups))}
	first := true
	for gi, g := range d.Groups {
		gs := GroupSummary{Index: gi, ID: g.ID, Subpaths: make([]SubpathSummary, 0, len(g.Subpaths))}
		for _, sp := range g.Subpaths {
			open := geom.IsOpen(sp.Points)
			gs.Subpaths = append(gs.Subpaths, SubpathSummary{ID: sp.ID, Points: len(sp.Points), Open: open})
			s.Subpaths++
			s.Points += len(sp.Points)
			if open {
				s.OpenSubpaths++
			}
			if len(sp.Points) == 0 {
				continue
			}
			x, y := sp.Points.Max()
			if first || x > s.MaxX {
				s.MaxX = x
			}
			if first || y > s.MaxY {
				s.MaxY = y
			}
			first = false
		}
		s.Detail = append(s.Detail, gs)
	}
	return s
}
