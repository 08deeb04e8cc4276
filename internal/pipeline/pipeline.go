package pipeline

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/ironsheep/curve-tools-mcp/internal/detection"
	"github.com/ironsheep/curve-tools-mcp/internal/fit"
	"github.com/ironsheep/curve-tools-mcp/internal/geom"
	"github.com/ironsheep/curve-tools-mcp/internal/imaging"
	"github.com/ironsheep/curve-tools-mcp/internal/loader"
	"github.com/ironsheep/curve-tools-mcp/internal/render"
)

// ShapeReport describes what the pipeline did with one subpath.
type ShapeReport struct {
	Group     int     `json:"group"`
	GroupID   float64 `json:"group_id"`
	Subpath   int     `json:"subpath"`
	SubpathID float64 `json:"subpath_id"`

	// Points is the point count after closing.
	Points int `json:"points"`

	// WasOpen is true when the normalizer appended a closing point.
	WasOpen bool `json:"was_open"`

	Symmetry *detection.SymmetryResult `json:"symmetry"`

	// Curve is the kind of the fitted curve, "polyline" or "bezier".
	Curve string `json:"curve"`
}

// Result is the output of Process.
type Result struct {
	// Drawing is the normalized drawing: every subpath closed.
	Drawing *geom.Drawing `json:"-"`

	// Curves holds the fitted curves per group, parallel to Drawing.Groups.
	Curves [][]geom.FittedCurve `json:"-"`

	Shapes   []ShapeReport    `json:"shapes"`
	Document *render.Document `json:"-"`
}

// Process runs normalization, symmetry detection, fitting and rendering over
// d. d is not modified.
//
// Returns an error wrapping the first stage failure, prefixed with the group
// and subpath index it occurred at.
func Process(d *geom.Drawing, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}

	norm := geom.NormalizeDrawing(d)
	res := &Result{
		Drawing: norm,
		Curves:  make([][]geom.FittedCurve, len(norm.Groups)),
	}

	for gi, g := range norm.Groups {
		curves := make([]geom.FittedCurve, 0, len(g.Subpaths))
		for si, sp := range g.Subpaths {
			orig := d.Groups[gi].Subpaths[si].Points

			sym, err := detection.DetectSymmetry(sp.Points, cfg.Symmetry)
			if err != nil {
				return nil, fmt.Errorf("group %d subpath %d: symmetry: %w", gi, si, err)
			}
			c, err := fit.Fit(sp.Points, sym.Symmetric, cfg.Fit)
			if err != nil {
				return nil, fmt.Errorf("group %d subpath %d: fit %s: %w", gi, si, cfg.Fit.Strategy, err)
			}
			curves = append(curves, c)

			res.Shapes = append(res.Shapes, ShapeReport{
				Group:     gi,
				GroupID:   g.ID,
				Subpath:   si,
				SubpathID: sp.ID,
				Points:    len(sp.Points),
				WasOpen:   geom.IsOpen(orig),
				Symmetry:  sym,
				Curve:     c.Kind.String(),
			})
			cfg.logf("group %d subpath %d: %d points, %d symmetry axes, %s", gi, si, len(sp.Points), len(sym.Axes), c.Kind)
		}
		res.Curves[gi] = curves
	}

	doc, err := render.Render(res.Curves, cfg.Render)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Document = doc
	cfg.logf("rendered %d paths, box %gx%g", len(doc.Paths), doc.Box.Width, doc.Box.Height)
	return res, nil
}

// ProcessFile loads path with cfg.Order and runs Process on it.
func ProcessFile(path string, cfg Config) (*Result, error) {
	d, err := loader.LoadFile(path, cfg.Order)
	if err != nil {
		return nil, err
	}
	cfg.logf("loaded %s: %d groups, %d points", path, len(d.Groups), d.PointCount())
	return Process(d, cfg)
}

// Rasterize renders res.Document to a bitmap using cfg's target size and
// background.
func Rasterize(res *Result, cfg Config) (image.Image, imaging.Size, error) {
	img, size, err := imaging.Rasterize(res.Document, cfg.TargetSize, cfg.Background)
	if err != nil {
		return nil, imaging.Size{}, fmt.Errorf("rasterize: %w", err)
	}
	return img, size, nil
}

// PNGPathFor derives the raster output path from an SVG path by replacing a
// ".svg" extension with ".png", or appending ".png" if there is none.
func PNGPathFor(svgPath string) string {
	ext := filepath.Ext(svgPath)
	if strings.EqualFold(ext, ".svg") {
		return strings.TrimSuffix(svgPath, ext) + ".png"
	}
	return svgPath + ".png"
}

// WriteOutputs writes res as an SVG file at svgPath and a PNG at pngPath.
// An empty pngPath is derived with PNGPathFor. The raster is produced first,
// so nothing is written if it fails.
func WriteOutputs(res *Result, cfg Config, svgPath, pngPath string) error {
	img, _, err := Rasterize(res, cfg)
	if err != nil {
		return err
	}
	return SaveOutputs(res, img, cfg, svgPath, pngPath)
}

// SaveOutputs writes res.Document as SVG to svgPath and the already
// rasterized img as PNG to pngPath. An empty pngPath is derived with
// PNGPathFor.
func SaveOutputs(res *Result, img image.Image, cfg Config, svgPath, pngPath string) error {
	if pngPath == "" {
		pngPath = PNGPathFor(svgPath)
	}

	if err := writeSVGFile(svgPath, res.Document); err != nil {
		return err
	}
	cfg.logf("wrote %s", svgPath)

	if err := imaging.SavePNG(pngPath, img); err != nil {
		return err
	}
	b := img.Bounds()
	cfg.logf("wrote %s (%dx%d)", pngPath, b.Dx(), b.Dy())
	return nil
}

func writeSVGFile(path string, doc *render.Document) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create SVG file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close SVG file: %w", cerr)
		}
	}()
	return render.WriteSVG(f, doc)
}
