package render

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/curve-tools-mcp/internal/geom"
)

// DefaultPalette is the color cycle applied to path groups.
var DefaultPalette = []string{"#FF5733", "#33FF57", "#3357FF", "#FF33A1", "#FFB833", "#8D33FF", "#33FFB3"}

const (
	// DefaultPadding is the fraction added beyond the largest coordinate.
	DefaultPadding = 0.1
	// DefaultStrokeWidth is the stroke width in drawing units.
	DefaultStrokeWidth = 3.0
)

// Options configures Render.
type Options struct {
	Palette     []string `json:"palette"`
	Padding     float64  `json:"padding"`
	StrokeWidth float64  `json:"stroke_width"`
}

// DefaultOptions returns the standard palette, padding and stroke width.
func DefaultOptions() Options {
	return Options{
		Palette:     append([]string(nil), DefaultPalette...),
		Padding:     DefaultPadding,
		StrokeWidth: DefaultStrokeWidth,
	}
}

// Validate checks that the palette is non-empty and holds hex colors, and
// that padding and stroke width are usable.
func (o Options) Validate() error {
	if len(o.Palette) == 0 {
		return fmt.Errorf("palette must contain at least one color")
	}
	for i, c := range o.Palette {
		if _, err := colorful.Hex(c); err != nil {
			return fmt.Errorf("palette entry %d (%q) is not a #RRGGBB color: %w", i, c, err)
		}
	}
	if math.IsNaN(o.Padding) || math.IsInf(o.Padding, 0) || o.Padding < 0 {
		return fmt.Errorf("padding must be a finite non-negative number, got %v", o.Padding)
	}
	if math.IsNaN(o.StrokeWidth) || math.IsInf(o.StrokeWidth, 0) || o.StrokeWidth <= 0 {
		return fmt.Errorf("stroke width must be a finite positive number, got %v", o.StrokeWidth)
	}
	return nil
}

// BoundingBox is the drawing extent, anchored at the origin.
type BoundingBox struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ComputeBoundingBox returns the box from (0, 0) to the largest X and Y over
// every point of every curve, Bezier control points included, scaled by
// 1 + padding. An input without points yields a zero box.
func ComputeBoundingBox(groups [][]geom.FittedCurve, padding float64) BoundingBox {
	var maxX, maxY float64
	seen := false
	for _, g := range groups {
		for _, c := range g {
			pts := c.ControlPoints()
			if len(pts) == 0 {
				continue
			}
			x, y := pts.Max()
			if !seen || x > maxX {
				maxX = x
			}
			if !seen || y > maxY {
				maxY = y
			}
			seen = true
		}
	}
	return BoundingBox{Width: maxX * (1 + padding), Height: maxY * (1 + padding)}
}

// Command is a single path command. Op is 'M', 'L' or 'C'; C carries three
// points, M and L one.
type Command struct {
	Op     byte
	Points []geom.Point
}

func (c Command) String() string {
	var sb strings.Builder
	sb.WriteByte(c.Op)
	for i, p := range c.Points {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(formatNumber(p.X))
		sb.WriteByte(',')
		sb.WriteString(formatNumber(p.Y))
	}
	return sb.String()
}

// Path is the vector output of one path group.
type Path struct {
	Color    string
	Commands []Command
}

// D formats the commands as an SVG path data string, for example
// "M0,0 L1,0 L1,1 L0,1 L0,0".
func (p *Path) D() string {
	parts := make([]string, len(p.Commands))
	for i, c := range p.Commands {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Document is a rendered drawing: one Path per group plus its extent.
type Document struct {
	Box         BoundingBox
	StrokeWidth float64
	Paths       []Path
}

// Render converts fitted curves into a Document.
//
// Parameters:
//   - groups: Fitted curves per path group, in draw order. groups[i] becomes
//     Paths[i] and is colored Palette[i % len(Palette)].
//   - opts: Palette, padding and stroke width. Validated before use.
//
// Returns:
//   - *Document: Paths and the padded bounding box.
//   - error: Non-nil for invalid options, for a curve with no points
//     (*geom.DegenerateShapeError) or a non-finite coordinate
//     (*geom.GeometryError).
func Render(groups [][]geom.FittedCurve, opts Options) (*Document, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid render options: %w", err)
	}

	doc := &Document{
		Box:         ComputeBoundingBox(groups, opts.Padding),
		StrokeWidth: opts.StrokeWidth,
		Paths:       make([]Path, len(groups)),
	}
	for gi, g := range groups {
		path := Path{Color: ColorFor(gi, opts.Palette)}
		for ci, c := range g {
			cmds, err := curveCommands(c)
			if err != nil {
				return nil, fmt.Errorf("group %d curve %d: %w", gi, ci, err)
			}
			path.Commands = append(path.Commands, cmds...)
		}
		doc.Paths[gi] = path
	}
	return doc, nil
}

// ColorFor returns the palette color for the group at index i.
func ColorFor(i int, palette []string) string {
	return palette[i%len(palette)]
}

func curveCommands(c geom.FittedCurve) ([]Command, error) {
	if err := c.ControlPoints().Validate(); err != nil {
		return nil, err
	}
	start, ok := c.Start()
	if !ok {
		return nil, &geom.DegenerateShapeError{Reason: "curve has no points"}
	}

	var cmds []Command
	switch c.Kind {
	case geom.CurveBezier:
		for _, s := range c.Segments {
			cmds = append(cmds,
				Command{Op: 'M', Points: []geom.Point{s[0]}},
				Command{Op: 'C', Points: []geom.Point{s[1], s[2], s[3]}},
			)
		}
	default:
		cmds = append(cmds, Command{Op: 'M', Points: []geom.Point{start}})
		for _, p := range c.Points[1:] {
			cmds = append(cmds, Command{Op: 'L', Points: []geom.Point{p}})
		}
	}

	if c.IsOpen() {
		cmds = append(cmds, Command{Op: 'L', Points: []geom.Point{start}})
	}
	return cmds, nil
}

// formatNumber writes v with the fewest digits that round-trip and never in
// exponent form.
func formatNumber(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
