package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/beevik/etree"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "square.csv")
	content := "0,0,0,0\n0,0,1,0\n0,0,1,1\n0,0,0,1\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write input: %v", err)
	}
	return path
}

func TestRun_DefaultOutputs(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	if err := run([]string{"-target", "64", input}); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromFile(filepath.Join(dir, "square.svg")); err != nil {
		t.Fatalf("failed to read SVG: %v", err)
	}
	paths := doc.FindElements("//path")
	if len(paths) != 1 {
		t.Fatalf("got %d paths, want 1", len(paths))
	}
	if d := paths[0].SelectAttrValue("d", ""); d != "M0,0 L1,0 L1,1 L0,1 L0,0" {
		t.Errorf("d = %q", d)
	}
	if _, err := os.Stat(filepath.Join(dir, "square.png")); err != nil {
		t.Errorf("PNG not written: %v", err)
	}
}

func TestRun_ExplicitOutputsAndFit(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)
	svg := filepath.Join(dir, "curves.svg")
	png := filepath.Join(dir, "raster.png")

	if err := run([]string{"-svg", svg, "-png", png, "-fit", "bezier", "-target", "32", input}); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	data, err := os.ReadFile(svg)
	if err != nil {
		t.Fatalf("failed to read SVG: %v", err)
	}
	if !strings.Contains(string(data), " C") {
		t.Errorf("Bezier fit should emit a C command:\n%s", data)
	}
	if _, err := os.Stat(png); err != nil {
		t.Errorf("PNG not written: %v", err)
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	input := writeInput(t, dir)

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"no input", []string{}, "expected one input file"},
		{"bad flag", []string{"-bogus", input}, "bogus"},
		{"bad strategy", []string{"-fit", "nurbs", input}, "unknown fit strategy"},
		{"bad order", []string{"-order", "random", input}, "unknown group order"},
		{"missing config", []string{"-config", filepath.Join(dir, "none.json"), input}, "failed to read config"},
		{"missing input", []string{filepath.Join(dir, "none.csv")}, "failed to open curve file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := run(tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}

func TestServe_ArgumentErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		args    []string
		wantMsg string
	}{
		{"bad flag", []string{"-bogus"}, "bogus"},
		{"stray argument", []string{"input.csv"}, "serve takes no arguments"},
		{"missing config", []string{"-config", filepath.Join(dir, "none.json")}, "failed to read config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := serve(tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("error %q does not contain %q", err, tt.wantMsg)
			}
		})
	}
}
