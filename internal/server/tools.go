package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Shared schema fragments.
var (
	pathProperty = map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to a CSV file of groupId,subId,x,y rows",
	}
	orderProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"first-appearance", "sorted"},
		"description": "Group and subpath ordering. first-appearance keeps input order; sorted orders ids ascending (legacy). Default first-appearance",
	}
	groupProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Optional 0-based group index. Omit to process every group",
	}
	subpathProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Optional 0-based subpath index within the selected group",
	}
	strategyProperty = map[string]interface{}{
		"type":        "string",
		"enum":        []string{"none", "spline", "bezier", "bezier-lsq", "symmetric-spline"},
		"description": "Fitting strategy. Default none",
	}
	splineSamplesProperty = map[string]interface{}{
		"type":        "integer",
		"description": "Points per fitted spline, and per sampled Bezier segment. Default 100",
		"default":     100,
	}
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "curve_load",
			Description: "Load a curve CSV file and summarize its groups, subpaths, point counts, open subpaths and extent. The drawing is cached for subsequent curve_* calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":  pathProperty,
					"order": orderProperty,
					"reload": map[string]interface{}{
						"type":        "boolean",
						"description": "Discard any cached copy and re-read the file. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "curve_detect_symmetry",
			Description: "Close each subpath and test it for reflective symmetry. Returns the centroid and every qualifying axis angle in degrees.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty,
					"order":   orderProperty,
					"group":   groupProperty,
					"subpath": subpathProperty,
					"tolerance": map[string]interface{}{
						"type":        "number",
						"description": "Largest distance between a reflected vertex and its match. Default 0.01",
					},
					"samples": map[string]interface{}{
						"type":        "integer",
						"description": "Number of axis angles tested over [0, 180) degrees. Default 180",
					},
					"correspondence": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"nearest", "pointwise"},
						"description": "nearest matches reflected vertices to any vertex; pointwise only to the same index (legacy). Default nearest",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "curve_fit",
			Description: "Close each subpath and fit a curve to it. Returns the fitted polyline points, or Bezier control points plus a sampled trace of spline_samples points, per subpath.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty,
					"order":          orderProperty,
					"group":          groupProperty,
					"subpath":        subpathProperty,
					"strategy":       strategyProperty,
					"spline_samples": splineSamplesProperty,
				},
				"required": []string{"path", "strategy"},
			},
		},
		{
			Name:        "curve_render",
			Description: "Run the full pipeline (close, symmetry, fit, render, rasterize). Returns the SVG path data and bounding box with a base64 PNG preview, and optionally writes SVG and PNG files.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":           pathProperty,
					"order":          orderProperty,
					"strategy":       strategyProperty,
					"spline_samples": splineSamplesProperty,
					"svg_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional output SVG file. When set, a PNG is written next to it unless png_path is given",
					},
					"png_path": map[string]interface{}{
						"type":        "string",
						"description": "Optional output PNG file. Requires svg_path",
					},
					"target_size": map[string]interface{}{
						"type":        "integer",
						"description": "Pixel length of the raster's smaller side. Default 1024",
					},
					"background": map[string]interface{}{
						"type":        "string",
						"description": "Raster background as #RRGGBB. Default #FFFFFF",
					},
					"preview_size": map[string]interface{}{
						"type":        "integer",
						"description": "Largest side of the returned preview image. 0 omits the preview. Default 512",
						"default":     512,
					},
					"include_svg": map[string]interface{}{
						"type":        "boolean",
						"description": "Return the full SVG document text. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
