// Package server implements the MCP (Model Context Protocol) server for the
// curve beautification tools.
//
// This package provides a JSON-RPC 2.0 server that exposes the pipeline
// stages (loading, symmetry detection, curve fitting, rendering) through the
// MCP protocol, so a client can inspect and clean up hand-drawn curves one
// step at a time.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - curve_load: Load a CSV drawing and summarize it
//   - curve_detect_symmetry: Reflective symmetry axes per closed subpath
//   - curve_fit: Fitted polyline or Bezier control points per subpath
//   - curve_render: Full pipeline with SVG path data, PNG preview and
//     optional SVG/PNG files
//
// Every tool takes the CSV path and an optional group order. Per-call
// arguments override the configuration the server was created with.
//
// # Drawing Caching
//
// Loaded drawings are cached by path and order and reused across tool calls.
// curve_load with reload set discards the cached copy. The cache persists for
// the lifetime of the server process.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string, including the group and subpath at fault
//
// # Usage
//
//	srv := server.NewWithConfig(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
