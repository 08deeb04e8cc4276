package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// createTestCSV writes a curve CSV file and returns its path.
func createTestCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "curves.csv")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write CSV: %v", err)
	}
	return path
}

// callTool issues a tools/call request and returns the response.
func callTool(t *testing.T, s *Server, name string, args map[string]interface{}) *MCPResponse {
	t.Helper()
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("failed to marshal params: %v", err)
	}

	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	})
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// callToolOK calls a tool, fails the test on an error response, and decodes
// the text content into out.
func callToolOK(t *testing.T, s *Server, name string, args map[string]interface{}, out interface{}) {
	t.Helper()
	resp := callTool(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %+v", name, resp.Error)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) != 1 {
		t.Fatalf("content = %#v", result["content"])
	}
	text, _ := content[0]["text"].(string)
	if err := json.Unmarshal([]byte(text), out); err != nil {
		t.Fatalf("%s: result is not JSON: %v\n%s", name, err, text)
	}
}

// Group 7: an open unit square. Group 3: a scalene triangle, closed.
const testCurves = `7,0,0,0
7,0,1,0
7,0,1,1
7,0,0,1
3,0,2,2
3,0,6,2
3,0,3,4
3,0,2,2
`

func TestHandleToolsCall_CurveLoad(t *testing.T) {
	s := New()
	path := createTestCSV(t, testCurves)

	var result struct {
		Path         string  `json:"path"`
		Order        string  `json:"order"`
		Groups       int     `json:"groups"`
		Subpaths     int     `json:"subpaths"`
		Points       int     `json:"points"`
		OpenSubpaths int     `json:"open_subpaths"`
		MaxX         float64 `json:"max_x"`
		MaxY         float64 `json:"max_y"`
		Detail       []struct {
			ID float64 `json:"id"`
		} `json:"detail"`
	}
	callToolOK(t, s, "curve_load", map[string]interface{}{"path": path}, &result)

	if result.Path != path || result.Order != "first-appearance" {
		t.Errorf("path/order = %q, %q", result.Path, result.Order)
	}
	if result.Groups != 2 || result.Subpaths != 2 || result.Points != 8 || result.OpenSubpaths != 1 {
		t.Errorf("counts = %+v", result)
	}
	if result.MaxX != 6 || result.MaxY != 4 {
		t.Errorf("extent = %v, %v", result.MaxX, result.MaxY)
	}
	if len(result.Detail) != 2 || result.Detail[0].ID != 7 || result.Detail[1].ID != 3 {
		t.Errorf("group order = %+v, want ids 7 then 3", result.Detail)
	}

	// Legacy sorting reverses the groups.
	callToolOK(t, s, "curve_load", map[string]interface{}{"path": path, "order": "sorted"}, &result)
	if result.Detail[0].ID != 3 {
		t.Errorf("sorted first group id = %v, want 3", result.Detail[0].ID)
	}
	if s.cache.Len() != 2 {
		t.Errorf("cache holds %d drawings, want 2", s.cache.Len())
	}
}

func TestHandleToolsCall_CurveLoadReload(t *testing.T) {
	s := New()
	path := createTestCSV(t, testCurves)

	var result struct {
		Groups int `json:"groups"`
	}
	callToolOK(t, s, "curve_load", map[string]interface{}{"path": path}, &result)

	if err := os.WriteFile(path, []byte("1,0,0,0\n1,0,1,1\n"), 0644); err != nil {
		t.Fatalf("failed to rewrite CSV: %v", err)
	}

	callToolOK(t, s, "curve_load", map[string]interface{}{"path": path}, &result)
	if result.Groups != 2 {
		t.Errorf("cached load: groups = %d, want 2", result.Groups)
	}
	callToolOK(t, s, "curve_load", map[string]interface{}{"path": path, "reload": true}, &result)
	if result.Groups != 1 {
		t.Errorf("reload: groups = %d, want 1", result.Groups)
	}
}

func TestHandleToolsCall_CurveDetectSymmetry(t *testing.T) {
	s := New()
	path := createTestCSV(t, testCurves)

	var result struct {
		Shapes []ShapeSymmetry `json:"shapes"`
	}
	callToolOK(t, s, "curve_detect_symmetry", map[string]interface{}{"path": path}, &result)

	if len(result.Shapes) != 2 {
		t.Fatalf("got %d shapes, want 2", len(result.Shapes))
	}
	sq := result.Shapes[0]
	if !sq.Symmetric || len(sq.AxesDegrees) != 4 || !sq.WasOpen {
		t.Errorf("square = %+v", sq)
	}
	if sq.Centroid.X != 0.5 || sq.Centroid.Y != 0.5 {
		t.Errorf("square centroid = %+v, want (0.5, 0.5)", sq.Centroid)
	}
	if tri := result.Shapes[1]; tri.Symmetric || tri.WasOpen {
		t.Errorf("triangle = %+v", tri)
	}

	// Pointwise matching misses the square's symmetry.
	callToolOK(t, s, "curve_detect_symmetry", map[string]interface{}{
		"path": path, "group": 0, "subpath": 0, "correspondence": "pointwise",
	}, &result)
	if len(result.Shapes) != 1 {
		t.Fatalf("got %d shapes, want 1", len(result.Shapes))
	}
	if result.Shapes[0].Symmetric {
		t.Errorf("pointwise square = %+v, want no axes", result.Shapes[0])
	}
}

func TestHandleToolsCall_CurveFit(t *testing.T) {
	s := New()
	path := createTestCSV(t, testCurves)

	var result struct {
		Strategy string `json:"strategy"`
		Shapes   []struct {
			Group int `json:"group"`
			Curve struct {
				Kind     string                      `json:"kind"`
				Points   []interface{}               `json:"points"`
				Segments [][4]struct{ X, Y float64 } `json:"segments"`
			} `json:"curve"`
			Sampled []struct{ X, Y float64 } `json:"sampled"`
		} `json:"shapes"`
	}
	callToolOK(t, s, "curve_fit", map[string]interface{}{"path": path, "strategy": "bezier"}, &result)

	if result.Strategy != "bezier" || len(result.Shapes) != 2 {
		t.Fatalf("result = %+v", result)
	}
	for _, sh := range result.Shapes {
		if sh.Curve.Kind != "bezier" || len(sh.Curve.Segments) != 1 {
			t.Errorf("group %d curve = %+v", sh.Group, sh.Curve)
		}
	}
	seg := result.Shapes[0].Curve.Segments[0]
	if seg[0].X != 0 || seg[0].Y != 0 || seg[3].X != 0 || seg[3].Y != 0 {
		t.Errorf("closed square Bezier anchors = %+v, want (0,0)", seg)
	}

	// The sampled trace runs from anchor to anchor with spline_samples points.
	sampled := result.Shapes[0].Sampled
	if len(sampled) != 100 {
		t.Fatalf("sampled trace has %d points, want 100", len(sampled))
	}
	if first, last := sampled[0], sampled[len(sampled)-1]; first != seg[0] || last != seg[3] {
		t.Errorf("sampled trace ends = %+v, %+v, want anchors", first, last)
	}

	var spline struct {
		Shapes []ShapeFit `json:"shapes"`
	}
	callToolOK(t, s, "curve_fit", map[string]interface{}{
		"path": path, "strategy": "spline", "spline_samples": 25, "group": 0,
	}, &spline)
	if len(spline.Shapes) != 1 || len(spline.Shapes[0].Curve.Points) != 25 {
		t.Fatalf("spline result = %+v", spline)
	}
	if len(spline.Shapes[0].Sampled) != 0 {
		t.Errorf("polyline curve has a sampled trace of %d points", len(spline.Shapes[0].Sampled))
	}
}

func TestHandleToolsCall_CurveRender(t *testing.T) {
	s := New()
	path := createTestCSV(t, testCurves)
	svgPath := filepath.Join(t.TempDir(), "out.svg")

	var result CurveRenderResult
	callToolOK(t, s, "curve_render", map[string]interface{}{
		"path":         path,
		"svg_path":     svgPath,
		"target_size":  100,
		"preview_size": 50,
		"include_svg":  true,
	}, &result)

	if len(result.Paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(result.Paths))
	}
	if result.Paths[0].D != "M0,0 L1,0 L1,1 L0,1 L0,0" {
		t.Errorf("path 0 d = %q", result.Paths[0].D)
	}
	if result.Paths[1].Color != "#33FF57" {
		t.Errorf("path 1 color = %q", result.Paths[1].Color)
	}
	if !strings.Contains(result.SVG, "<svg") {
		t.Error("SVG text not returned")
	}
	if result.Raster.Width != 150 || result.Raster.Height != 100 {
		t.Errorf("raster = %+v, want 150x100", result.Raster)
	}

	if result.PNGPath != strings.TrimSuffix(svgPath, ".svg")+".png" {
		t.Errorf("png path = %q", result.PNGPath)
	}
	for _, p := range []string{result.SVGPath, result.PNGPath} {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("output %s not written: %v", p, err)
		}
	}

	if result.Preview == nil {
		t.Fatal("preview missing")
	}
	data, err := base64.StdEncoding.DecodeString(result.Preview.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode preview: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("preview is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 33 {
		t.Errorf("preview = %dx%d, want 50x33", b.Dx(), b.Dy())
	}
}

func TestHandleToolsCall_CurveRenderNoPreview(t *testing.T) {
	s := New()
	path := createTestCSV(t, testCurves)

	var result CurveRenderResult
	callToolOK(t, s, "curve_render", map[string]interface{}{"path": path, "preview_size": 0}, &result)
	if result.Preview != nil || result.SVG != "" || result.SVGPath != "" {
		t.Errorf("unexpected optional output: %+v", result)
	}
	if result.Raster.Height != 1024 {
		t.Errorf("raster height = %d, want 1024", result.Raster.Height)
	}
}

func TestHandleToolsCall_Errors(t *testing.T) {
	s := New()
	path := createTestCSV(t, testCurves)
	bad := createTestCSV(t, "1,0,0\n")

	tests := []struct {
		name    string
		tool    string
		args    map[string]interface{}
		wantMsg string
	}{
		{"unknown tool", "curve_unknown", map[string]interface{}{}, "unknown tool"},
		{"missing path", "curve_load", map[string]interface{}{}, "path is required"},
		{"missing file", "curve_load", map[string]interface{}{"path": "/nonexistent/curves.csv"}, "failed to open curve file"},
		{"parse error", "curve_load", map[string]interface{}{"path": bad}, "parse error on line 1"},
		{"bad order", "curve_load", map[string]interface{}{"path": path, "order": "random"}, "unknown group order"},
		{"bad strategy", "curve_fit", map[string]interface{}{"path": path, "strategy": "nurbs"}, "unknown fit strategy"},
		{"group out of range", "curve_fit", map[string]interface{}{"path": path, "strategy": "none", "group": 5}, "out of range"},
		{"subpath without group", "curve_detect_symmetry", map[string]interface{}{"path": path, "subpath": 0}, "subpath requires group"},
		{"spline on triangle", "curve_fit", map[string]interface{}{"path": path, "strategy": "spline"}, "group 1 subpath 0"},
		{"png without svg", "curve_render", map[string]interface{}{"path": path, "png_path": "/tmp/x.png"}, "png_path requires svg_path"},
		{"bad background", "curve_render", map[string]interface{}{"path": path, "background": "white"}, "background"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("expected error response")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
			data, _ := resp.Error.Data.(string)
			if !strings.Contains(data, tt.wantMsg) {
				t.Errorf("error data %q does not contain %q", data, tt.wantMsg)
			}
		})
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New()
	resp := s.handleRequest(&MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`[1,2,3]`),
	})
	if resp.Error == nil || resp.Error.Code != -32602 {
		t.Errorf("response = %+v, want -32602", resp)
	}
}
