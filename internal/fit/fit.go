package fit

import (
	"fmt"
	"strings"

	"github.com/ironsheep/curve-tools-mcp/internal/geom"
)

// Strategy selects how a polyline is turned into a FittedCurve.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategySpline
	StrategyBezier
	StrategyLeastSquares
	StrategySymmetricSpline
)

var strategyNames = map[Strategy]string{
	StrategyNone:            "none",
	StrategySpline:          "spline",
	StrategyBezier:          "bezier",
	StrategyLeastSquares:    "bezier-lsq",
	StrategySymmetricSpline: "symmetric-spline",
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// MarshalText encodes the strategy by name.
func (s Strategy) MarshalText() ([]byte, error) {
	if _, ok := strategyNames[s]; !ok {
		return nil, fmt.Errorf("unknown fit strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText decodes a strategy name as accepted by ParseStrategy.
func (s *Strategy) UnmarshalText(text []byte) error {
	v, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseStrategy converts a strategy name into a Strategy. The empty string
// selects StrategyNone.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StrategyNone, nil
	}
	for s, n := range strategyNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown fit strategy %q (want none, spline, bezier, bezier-lsq or symmetric-spline)", name)
}

// StrategyNames lists the accepted strategy names in declaration order.
func StrategyNames() []string {
	out := make([]string, 0, len(strategyNames))
	for s := StrategyNone; s <= StrategySymmetricSpline; s++ {
		out = append(out, s.String())
	}
	return out
}

// Options configures Fit.
type Options struct {
	Strategy Strategy `json:"strategy"`

	// SplineSamples is the output point count of the spline strategy.
	SplineSamples int `json:"spline_samples"`
}

// DefaultOptions returns StrategyNone with DefaultSplineSamples.
func DefaultOptions() Options {
	return Options{Strategy: StrategyNone, SplineSamples: DefaultSplineSamples}
}

// Fit converts p into a FittedCurve using opts.Strategy. symmetric is the
// symmetry detector's verdict for p and is only consulted by
// StrategySymmetricSpline.
func Fit(p geom.Polyline, symmetric bool, opts Options) (geom.FittedCurve, error) {
	switch opts.Strategy {
	case StrategyNone:
		return geom.RawCurve(p.Clone()), nil

	case StrategySymmetricSpline:
		if !symmetric {
			return geom.RawCurve(p.Clone()), nil
		}
		fallthrough

	case StrategySpline:
		pts, err := Spline(p, opts.SplineSamples)
		if err != nil {
			return geom.FittedCurve{}, err
		}
		return geom.RawCurve(pts), nil

	case StrategyBezier:
		seg, err := HeuristicBezier(p)
		if err != nil {
			return geom.FittedCurve{}, err
		}
		return geom.BezierCurve(seg), nil

	case StrategyLeastSquares:
		seg, err := LeastSquaresBezier(p)
		if err != nil {
			return geom.FittedCurve{}, err
		}
		return geom.BezierCurve(seg), nil

	default:
		return geom.FittedCurve{}, fmt.Errorf("unknown fit strategy %v", opts.Strategy)
	}
}
