package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/curve-tools-mcp/internal/geom"
	"github.com/ironsheep/curve-tools-mcp/internal/render"
)

const (
	// DefaultTargetSize is the pixel length of the raster's smaller side.
	DefaultTargetSize = 1024

	// MaxDimension bounds either side of a raster. Extremely elongated
	// drawings would otherwise allocate unbounded memory.
	MaxDimension = 1 << 14

	// DefaultBackground is the canvas color behind the strokes.
	DefaultBackground = "#FFFFFF"
)

// Size is the pixel size of a raster and the drawing-to-pixel scale factor.
type Size struct {
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Scale  float64 `json:"scale"`
}

// RasterSize derives the pixel dimensions for box.
//
// Parameters:
//   - box: The document bounding box in drawing units.
//   - target: Pixel length of the smaller side. Must be positive.
//
// Returns:
//   - Size: scale = target / min(W, H); each side is round(side * scale).
//   - error: *geom.GeometryError if the box has zero, negative or non-finite
//     extent, or if the result exceeds MaxDimension on either side.
func RasterSize(box render.BoundingBox, target int) (Size, error) {
	if target <= 0 {
		return Size{}, fmt.Errorf("target size must be positive, got %d", target)
	}
	w, h := box.Width, box.Height
	if !finitePositive(w) || !finitePositive(h) {
		return Size{}, &geom.GeometryError{Reason: fmt.Sprintf("bounding box %v x %v has no area; cannot derive raster scale", w, h)}
	}

	scale := float64(target) / math.Min(w, h)
	pw, ph := math.Round(w*scale), math.Round(h*scale)
	if pw > MaxDimension || ph > MaxDimension {
		return Size{}, &geom.GeometryError{Reason: fmt.Sprintf("raster size %vx%v exceeds %d pixels per side", pw, ph, MaxDimension)}
	}
	return Size{Width: max(int(pw), 1), Height: max(int(ph), 1), Scale: scale}, nil
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// Rasterize strokes every path of doc onto a solid background.
//
// Parameters:
//   - doc: The rendered document. Its bounding box fixes the raster size.
//   - target: Pixel length of the smaller side (see RasterSize).
//   - background: "#RRGGBB" canvas color.
//
// Returns:
//   - *image.NRGBA: The raster.
//   - Size: The pixel size and scale that were used.
//   - error: Non-nil for an unusable box, an invalid color or a path command
//     the rasterizer does not understand.
//
// # Algorithm
//
// Each path is drawn in document order, so later groups paint over earlier
// ones. Coordinates and stroke width are multiplied by the scale. Every "M"
// command ends the current subpath and starts a new one; subpaths are never
// implicitly closed because the renderer already emits explicit closing lines.
func Rasterize(doc *render.Document, target int, background string) (*image.NRGBA, Size, error) {
	size, err := RasterSize(doc.Box, target)
	if err != nil {
		return nil, Size{}, err
	}
	bg, err := ParseColor(background)
	if err != nil {
		return nil, Size{}, fmt.Errorf("failed to parse background: %w", err)
	}

	img := imaging.New(size.Width, size.Height, bg)
	stroke := fixed.Int26_6(math.Round(doc.StrokeWidth * size.Scale * 64))

	for i := range doc.Paths {
		p := &doc.Paths[i]
		c, err := ParseColor(p.Color)
		if err != nil {
			return nil, Size{}, fmt.Errorf("path %d: %w", i, err)
		}
		if err := strokePath(img, size, stroke, c, p.Commands); err != nil {
			return nil, Size{}, fmt.Errorf("path %d: %w", i, err)
		}
	}
	return img, size, nil
}

func strokePath(img *image.NRGBA, size Size, stroke fixed.Int26_6, c color.Color, cmds []render.Command) error {
	scanner := rasterx.NewScannerGV(size.Width, size.Height, img, img.Bounds())
	dasher := rasterx.NewDasher(size.Width, size.Height, scanner)
	dasher.SetStroke(stroke, 0, rasterx.RoundCap, rasterx.RoundCap, rasterx.RoundGap, rasterx.ArcClip, nil, 0)
	dasher.SetColor(c)

	toFixed := func(p geom.Point) fixed.Point26_6 {
		return rasterx.ToFixedP(p.X*size.Scale, p.Y*size.Scale)
	}

	started := false
	for _, cmd := range cmds {
		switch cmd.Op {
		case 'M':
			if len(cmd.Points) != 1 {
				return fmt.Errorf("M command needs 1 point, got %d", len(cmd.Points))
			}
			if started {
				dasher.Stop(false)
			}
			dasher.Start(toFixed(cmd.Points[0]))
			started = true
		case 'L':
			if !started || len(cmd.Points) != 1 {
				return fmt.Errorf("malformed L command")
			}
			dasher.Line(toFixed(cmd.Points[0]))
		case 'C':
			if !started || len(cmd.Points) != 3 {
				return fmt.Errorf("malformed C command")
			}
			dasher.CubeBezier(toFixed(cmd.Points[0]), toFixed(cmd.Points[1]), toFixed(cmd.Points[2]))
		default:
			return fmt.Errorf("unsupported path command %q", cmd.Op)
		}
	}
	if started {
		dasher.Stop(false)
	}
	dasher.Draw()
	return nil
}
