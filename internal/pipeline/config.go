package pipeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/ironsheep/curve-tools-mcp/internal/detection"
	"github.com/ironsheep/curve-tools-mcp/internal/fit"
	"github.com/ironsheep/curve-tools-mcp/internal/imaging"
	"github.com/ironsheep/curve-tools-mcp/internal/loader"
	"github.com/ironsheep/curve-tools-mcp/internal/render"
)

// Config holds the options of every pipeline stage.
type Config struct {
	Order    loader.Order      `json:"order"`
	Symmetry detection.Options `json:"symmetry"`
	Fit      fit.Options       `json:"fit"`
	Render   render.Options    `json:"render"`

	// TargetSize is the pixel length of the raster's smaller side.
	TargetSize int `json:"target_size"`

	// Background is the raster canvas color as "#RRGGBB".
	Background string `json:"background"`

	// Logger receives progress messages. Nil disables logging.
	Logger *log.Logger `json:"-"`
}

// DefaultConfig returns the standard configuration.
func DefaultConfig() Config {
	return Config{
		Order:      loader.OrderFirstAppearance,
		Symmetry:   detection.DefaultOptions(),
		Fit:        fit.DefaultOptions(),
		Render:     render.DefaultOptions(),
		TargetSize: imaging.DefaultTargetSize,
		Background: imaging.DefaultBackground,
	}
}

// LoadConfig reads a JSON configuration file. Fields absent from the file
// keep their DefaultConfig values; unknown fields are an error. The result is
// validated before it is returned.
//
// Example file:
//
//	{
//	  "order": "sorted",
//	  "fit": {"strategy": "symmetric-spline", "spline_samples": 100},
//	  "render": {"stroke_width": 2}
//	}
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks every stage's options.
func (c *Config) Validate() error {
	if _, err := c.Order.MarshalText(); err != nil {
		return err
	}
	if err := c.Symmetry.Validate(); err != nil {
		return fmt.Errorf("symmetry: %w", err)
	}
	if _, err := c.Fit.Strategy.MarshalText(); err != nil {
		return fmt.Errorf("fit: %w", err)
	}
	if c.Fit.SplineSamples < 2 {
		return fmt.Errorf("fit: spline samples must be at least 2, got %d", c.Fit.SplineSamples)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if c.TargetSize <= 0 {
		return fmt.Errorf("target size must be positive, got %d", c.TargetSize)
	}
	if _, err := imaging.ParseColor(c.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	return nil
}

func (c *Config) logf(format string, args ...interface{}) {
	if c.Logger != nil {
		c.Logger.Printf(format, args...)
	}
}
