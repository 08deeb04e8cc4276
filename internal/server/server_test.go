package server

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/ironsheep/curve-tools-mcp/internal/fit"
	"github.com/ironsheep/curve-tools-mcp/internal/loader"
	"github.com/ironsheep/curve-tools-mcp/internal/pipeline"
)

func TestNew(t *testing.T) {
	s := New()
	if s == nil {
		t.Fatal("New() returned nil")
	}
	if s.cache == nil {
		t.Fatal("New() did not initialize cache")
	}
	if s.cfg.Order != loader.OrderFirstAppearance || s.cfg.Fit.Strategy != fit.StrategyNone {
		t.Errorf("New() config = %+v, want defaults", s.cfg)
	}
}

func TestNewWithConfig(t *testing.T) {
	cfg := pipeline.DefaultConfig()
	cfg.Order = loader.OrderSorted
	cfg.Fit.Strategy = fit.StrategyBezier
	s := NewWithConfig(cfg)
	path := createTestCSV(t, testCurves)

	var load struct {
		Order string `json:"order"`
	}
	callToolOK(t, s, "curve_load", map[string]interface{}{"path": path}, &load)
	if load.Order != "sorted" {
		t.Errorf("order = %q, want server default sorted", load.Order)
	}

	// An omitted strategy falls back to the server configuration.
	var render CurveRenderResult
	callToolOK(t, s, "curve_render", map[string]interface{}{"path": path, "preview_size": 0, "target_size": 10}, &render)
	for _, sh := range render.Shapes {
		if sh.Curve != "bezier" {
			t.Errorf("group %d curve = %q, want bezier", sh.Group, sh.Curve)
		}
	}
}

func TestHandleRequest(t *testing.T) {
	tests := []struct {
		name     string
		method   string
		id       interface{}
		wantNil  bool
		wantCode int
	}{
		{"initialize", "initialize", 1, false, 0},
		{"ping", "ping", "ping-1", false, 0},
		{"tools list", "tools/list", 2, false, 0},
		{"initialized notification", "notifications/initialized", nil, true, 0},
		{"unknown method", "nonexistent/method", 3, false, -32601},
	}

	s := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.handleRequest(&MCPRequest{JSONRPC: "2.0", ID: tt.id, Method: tt.method})

			if tt.wantNil {
				if resp != nil {
					t.Errorf("expected no response, got %+v", resp)
				}
				return
			}
			if resp == nil {
				t.Fatal("handleRequest returned nil")
			}
			if resp.ID != tt.id {
				t.Errorf("ID: got %v, want %v", resp.ID, tt.id)
			}
			if tt.wantCode == 0 && resp.Error != nil {
				t.Fatalf("Unexpected error: %v", resp.Error)
			}
			if tt.wantCode != 0 && (resp.Error == nil || resp.Error.Code != tt.wantCode) {
				t.Errorf("Error: got %+v, want code %d", resp.Error, tt.wantCode)
			}
		})
	}
}

func TestHandleInitialize(t *testing.T) {
	s := New()
	resp := s.handleInitialize(&MCPRequest{JSONRPC: "2.0", ID: "init-1"})

	if resp.ID != "init-1" || resp.JSONRPC != "2.0" {
		t.Errorf("envelope = %+v", resp)
	}

	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	if result["protocolVersion"] != "2024-11-05" {
		t.Errorf("protocolVersion: got %v", result["protocolVersion"])
	}

	serverInfo, ok := result["serverInfo"].(map[string]interface{})
	if !ok {
		t.Fatal("serverInfo should be a map")
	}
	if serverInfo["name"] != "curve-tools-mcp" {
		t.Errorf("serverInfo.name: got %v", serverInfo["name"])
	}
	if serverInfo["version"] != "dev" {
		t.Errorf("serverInfo.version: got %v, want dev", serverInfo["version"])
	}

	s.SetVersion("1.4.2")
	resp = s.handleInitialize(&MCPRequest{JSONRPC: "2.0", ID: "init-2"})
	serverInfo = resp.Result.(map[string]interface{})["serverInfo"].(map[string]interface{})
	if serverInfo["version"] != "1.4.2" {
		t.Errorf("serverInfo.version: got %v, want 1.4.2", serverInfo["version"])
	}
}

// serveLines runs Serve over the given request lines and decodes every
// response.
func serveLines(t *testing.T, s *Server, lines ...string) []MCPResponse {
	t.Helper()
	var out bytes.Buffer
	if err := s.Serve(strings.NewReader(strings.Join(lines, "\n")), &out); err != nil {
		t.Fatalf("Serve failed: %v", err)
	}

	var responses []MCPResponse
	sc := bufio.NewScanner(&out)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		var resp MCPResponse
		if err := json.Unmarshal(sc.Bytes(), &resp); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		responses = append(responses, resp)
	}
	return responses
}

func TestServe(t *testing.T) {
	responses := serveLines(t, New(),
		`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		``,
		`not json`,
		`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
	)

	if len(responses) != 3 {
		t.Fatalf("got %d responses, want 3 (initialize, parse error, ping)", len(responses))
	}
	if responses[0].ID != float64(1) || responses[0].Error != nil {
		t.Errorf("initialize response = %+v", responses[0])
	}
	if responses[1].Error == nil || responses[1].Error.Code != -32700 {
		t.Errorf("parse error response = %+v", responses[1])
	}
	if responses[2].ID != float64(2) || responses[2].Error != nil {
		t.Errorf("ping response = %+v", responses[2])
	}
}

func TestServe_ToolCalls(t *testing.T) {
	path := createTestCSV(t, testCurves)
	pathJSON, _ := json.Marshal(path)

	responses := serveLines(t, New(),
		fmt.Sprintf(`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"curve_load","arguments":{"path":%s}}}`, pathJSON),
		fmt.Sprintf(`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"curve_fit","arguments":{"path":%s,"strategy":"nurbs"}}}`, pathJSON),
	)

	if len(responses) != 2 {
		t.Fatalf("got %d responses, want 2", len(responses))
	}

	result, ok := responses[0].Result.(map[string]interface{})
	if !ok || responses[0].Error != nil {
		t.Fatalf("curve_load response = %+v", responses[0])
	}
	content, _ := result["content"].([]interface{})
	if len(content) != 1 {
		t.Fatalf("content = %#v", result["content"])
	}
	text, _ := content[0].(map[string]interface{})["text"].(string)
	if !strings.Contains(text, `"groups": 2`) {
		t.Errorf("curve_load text = %s", text)
	}

	if responses[1].Error == nil || responses[1].Error.Code != -32000 {
		t.Errorf("curve_fit response = %+v, want -32000", responses[1])
	}
}
