package server

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ironsheep/curve-tools-mcp/internal/detection"
	"github.com/ironsheep/curve-tools-mcp/internal/fit"
	"github.com/ironsheep/curve-tools-mcp/internal/geom"
	"github.com/ironsheep/curve-tools-mcp/internal/imaging"
	"github.com/ironsheep/curve-tools-mcp/internal/loader"
	"github.com/ironsheep/curve-tools-mcp/internal/pipeline"
	"github.com/ironsheep/curve-tools-mcp/internal/render"
)

// defaultPreviewSize bounds the preview image returned by curve_render.
const defaultPreviewSize = 512

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "curve_load", "curve_fit").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Overlays the arguments on the server's pipeline configuration
//  3. Loads the drawing from the cache
//  4. Runs the requested pipeline stages
//  5. Returns the result or error
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "curve_load":
		return s.handleCurveLoad(args)
	case "curve_detect_symmetry":
		return s.handleCurveDetectSymmetry(args)
	case "curve_fit":
		return s.handleCurveFit(args)
	case "curve_render":
		return s.handleCurveRender(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments, treating missing arguments as an
// empty object.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

// === Shared argument handling ===

type drawingArgs struct {
	Path  string `json:"path"`
	Order string `json:"order"`
}

func (s *Server) loadDrawing(a drawingArgs) (*geom.Drawing, loader.Order, error) {
	if a.Path == "" {
		return nil, 0, fmt.Errorf("path is required")
	}
	order := s.cfg.Order
	if a.Order != "" {
		o, err := loader.ParseOrder(a.Order)
		if err != nil {
			return nil, 0, err
		}
		order = o
	}
	d, err := s.cache.Load(a.Path, order)
	if err != nil {
		return nil, 0, err
	}
	return d, order, nil
}

type selectorArgs struct {
	Group   *int `json:"group"`
	Subpath *int `json:"subpath"`
}

// selectedShape is one closed subpath picked by a selector.
type selectedShape struct {
	Group     int
	GroupID   float64
	Subpath   int
	SubpathID float64
	WasOpen   bool
	Points    geom.Polyline
}

// selectShapes returns the closed subpaths of d matched by sel, in drawing
// order. Out-of-range indices are an error.
func selectShapes(d *geom.Drawing, sel selectorArgs) ([]selectedShape, error) {
	if sel.Subpath != nil && sel.Group == nil {
		return nil, fmt.Errorf("subpath requires group")
	}
	if sel.Group != nil && (*sel.Group < 0 || *sel.Group >= len(d.Groups)) {
		return nil, fmt.Errorf("group %d out of range (drawing has %d groups)", *sel.Group, len(d.Groups))
	}
	if sel.Subpath != nil {
		n := len(d.Groups[*sel.Group].Subpaths)
		if *sel.Subpath < 0 || *sel.Subpath >= n {
			return nil, fmt.Errorf("subpath %d out of range (group %d has %d subpaths)", *sel.Subpath, *sel.Group, n)
		}
	}

	var out []selectedShape
	for gi, g := range d.Groups {
		if sel.Group != nil && gi != *sel.Group {
			continue
		}
		for si, sp := range g.Subpaths {
			if sel.Subpath != nil && si != *sel.Subpath {
				continue
			}
			out = append(out, selectedShape{
				Group:     gi,
				GroupID:   g.ID,
				Subpath:   si,
				SubpathID: sp.ID,
				WasOpen:   geom.IsOpen(sp.Points),
				Points:    geom.Close(sp.Points),
			})
		}
	}
	return out, nil
}

type fitArgs struct {
	Strategy      string `json:"strategy"`
	SplineSamples int    `json:"spline_samples"`
}

func (s *Server) fitOptions(a fitArgs) (fit.Options, error) {
	opts := s.cfg.Fit
	if a.Strategy != "" {
		st, err := fit.ParseStrategy(a.Strategy)
		if err != nil {
			return fit.Options{}, err
		}
		opts.Strategy = st
	}
	if a.SplineSamples != 0 {
		opts.SplineSamples = a.SplineSamples
	}
	return opts, nil
}

// === Loading ===

type curveLoadArgs struct {
	drawingArgs
	Reload bool `json:"reload"`
}

// CurveLoadResult is returned by curve_load.
type CurveLoadResult struct {
	Path  string `json:"path"`
	Order string `json:"order"`
	*loader.Summary
}

func (s *Server) handleCurveLoad(args json.RawMessage) (interface{}, error) {
	var a curveLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Reload {
		s.cache.Evict(a.Path)
	}
	d, order, err := s.loadDrawing(a.drawingArgs)
	if err != nil {
		return nil, err
	}
	return &CurveLoadResult{Path: a.Path, Order: order.String(), Summary: loader.Summarize(d)}, nil
}

// === Symmetry ===

type curveSymmetryArgs struct {
	drawingArgs
	selectorArgs
	Tolerance      float64 `json:"tolerance"`
	Samples        int     `json:"samples"`
	Correspondence string  `json:"correspondence"`
}

// ShapeSymmetry is the symmetry verdict for one subpath.
type ShapeSymmetry struct {
	Group       int        `json:"group"`
	GroupID     float64    `json:"group_id"`
	Subpath     int        `json:"subpath"`
	SubpathID   float64    `json:"subpath_id"`
	WasOpen     bool       `json:"was_open"`
	Symmetric   bool       `json:"symmetric"`
	AxesDegrees []float64  `json:"axes_degrees"`
	Centroid    geom.Point `json:"centroid"`
}

func (s *Server) handleCurveDetectSymmetry(args json.RawMessage) (interface{}, error) {
	var a curveSymmetryArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}

	opts := s.cfg.Symmetry
	if a.Tolerance != 0 {
		opts.Tolerance = a.Tolerance
	}
	if a.Samples != 0 {
		opts.Samples = a.Samples
	}
	if a.Correspondence != "" {
		c, err := detection.ParseCorrespondence(a.Correspondence)
		if err != nil {
			return nil, err
		}
		opts.Correspondence = c
	}

	d, _, err := s.loadDrawing(a.drawingArgs)
	if err != nil {
		return nil, err
	}
	shapes, err := selectShapes(d, a.selectorArgs)
	if err != nil {
		return nil, err
	}

	out := make([]ShapeSymmetry, 0, len(shapes))
	for _, sh := range shapes {
		r, err := detection.DetectSymmetry(sh.Points, opts)
		if err != nil {
			return nil, fmt.Errorf("group %d subpath %d: %w", sh.Group, sh.Subpath, err)
		}
		out = append(out, ShapeSymmetry{
			Group:       sh.Group,
			GroupID:     sh.GroupID,
			Subpath:     sh.Subpath,
			SubpathID:   sh.SubpathID,
			WasOpen:     sh.WasOpen,
			Symmetric:   r.Symmetric,
			AxesDegrees: r.AxesDegrees(),
			Centroid:    r.Centroid,
		})
	}
	return map[string]interface{}{"shapes": out}, nil
}

// === Fitting ===

type curveFitArgs struct {
	drawingArgs
	selectorArgs
	fitArgs
}

// ShapeFit is the fitted curve for one subpath.
type ShapeFit struct {
	Group     int              `json:"group"`
	GroupID   float64          `json:"group_id"`
	Subpath   int              `json:"subpath"`
	SubpathID float64          `json:"subpath_id"`
	Symmetric bool             `json:"symmetric"`
	Curve     geom.FittedCurve `json:"curve"`

	// Sampled traces a Bezier curve as a polyline of spline_samples points
	// per segment. Empty for polyline curves.
	Sampled geom.Polyline `json:"sampled,omitempty"`
}

// sampleCurve flattens every Bezier segment of c into n points, dropping the
// duplicate joint between consecutive segments.
func sampleCurve(c geom.FittedCurve, n int) geom.Polyline {
	if c.Kind != geom.CurveBezier {
		return nil
	}
	var out geom.Polyline
	for i, seg := range c.Segments {
		pts := seg.Flatten(n)
		if i > 0 {
			pts = pts[1:]
		}
		out = append(out, pts...)
	}
	return out
}

func (s *Server) handleCurveFit(args json.RawMessage) (interface{}, error) {
	var a curveFitArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	opts, err := s.fitOptions(a.fitArgs)
	if err != nil {
		return nil, err
	}

	d, _, err := s.loadDrawing(a.drawingArgs)
	if err != nil {
		return nil, err
	}
	shapes, err := selectShapes(d, a.selectorArgs)
	if err != nil {
		return nil, err
	}

	out := make([]ShapeFit, 0, len(shapes))
	for _, sh := range shapes {
		sym, err := detection.DetectSymmetry(sh.Points, s.cfg.Symmetry)
		if err != nil {
			return nil, fmt.Errorf("group %d subpath %d: symmetry: %w", sh.Group, sh.Subpath, err)
		}
		c, err := fit.Fit(sh.Points, sym.Symmetric, opts)
		if err != nil {
			return nil, fmt.Errorf("group %d subpath %d: fit %s: %w", sh.Group, sh.Subpath, opts.Strategy, err)
		}
		out = append(out, ShapeFit{
			Group:     sh.Group,
			GroupID:   sh.GroupID,
			Subpath:   sh.Subpath,
			SubpathID: sh.SubpathID,
			Symmetric: sym.Symmetric,
			Curve:     c,
			Sampled:   sampleCurve(c, opts.SplineSamples),
		})
	}
	return map[string]interface{}{"strategy": opts.Strategy.String(), "shapes": out}, nil
}

// === Rendering ===

type curveRenderArgs struct {
	drawingArgs
	fitArgs
	SVGPath     string `json:"svg_path"`
	PNGPath     string `json:"png_path"`
	TargetSize  int    `json:"target_size"`
	Background  string `json:"background"`
	PreviewSize *int   `json:"preview_size"`
	IncludeSVG  bool   `json:"include_svg"`
}

// RenderedPath is one path of the rendered document.
type RenderedPath struct {
	Color string `json:"color"`
	D     string `json:"d"`
}

// CurveRenderResult is returned by curve_render.
type CurveRenderResult struct {
	Box     render.BoundingBox     `json:"box"`
	Paths   []RenderedPath         `json:"paths"`
	Shapes  []pipeline.ShapeReport `json:"shapes"`
	Raster  imaging.Size           `json:"raster"`
	SVG     string                 `json:"svg,omitempty"`
	SVGPath string                 `json:"svg_path,omitempty"`
	PNGPath string                 `json:"png_path,omitempty"`
	Preview *imaging.EncodedImage  `json:"preview,omitempty"`
}

func (s *Server) handleCurveRender(args json.RawMessage) (interface{}, error) {
	var a curveRenderArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.PNGPath != "" && a.SVGPath == "" {
		return nil, fmt.Errorf("png_path requires svg_path")
	}

	cfg := s.cfg
	fitOpts, err := s.fitOptions(a.fitArgs)
	if err != nil {
		return nil, err
	}
	cfg.Fit = fitOpts
	if a.TargetSize != 0 {
		cfg.TargetSize = a.TargetSize
	}
	if a.Background != "" {
		cfg.Background = a.Background
	}

	d, order, err := s.loadDrawing(a.drawingArgs)
	if err != nil {
		return nil, err
	}
	cfg.Order = order

	res, err := pipeline.Process(d, cfg)
	if err != nil {
		return nil, err
	}

	out := &CurveRenderResult{
		Box:    res.Document.Box,
		Paths:  make([]RenderedPath, len(res.Document.Paths)),
		Shapes: res.Shapes,
	}
	for i := range res.Document.Paths {
		p := &res.Document.Paths[i]
		out.Paths[i] = RenderedPath{Color: p.Color, D: p.D()}
	}

	if a.IncludeSVG {
		var buf bytes.Buffer
		if err := render.WriteSVG(&buf, res.Document); err != nil {
			return nil, err
		}
		out.SVG = buf.String()
	}

	img, size, err := pipeline.Rasterize(res, cfg)
	if err != nil {
		return nil, err
	}
	out.Raster = size

	if a.SVGPath != "" {
		pngPath := a.PNGPath
		if pngPath == "" {
			pngPath = pipeline.PNGPathFor(a.SVGPath)
		}
		if err := pipeline.SaveOutputs(res, img, cfg, a.SVGPath, pngPath); err != nil {
			return nil, err
		}
		out.SVGPath, out.PNGPath = a.SVGPath, pngPath
	}

	previewSize := defaultPreviewSize
	if a.PreviewSize != nil {
		previewSize = *a.PreviewSize
	}
	if previewSize > 0 {
		enc, err := imaging.EncodePNGBase64(imaging.Preview(img, previewSize))
		if err != nil {
			return nil, err
		}
		out.Preview = enc
	}
	return out, nil
}
