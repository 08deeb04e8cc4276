package geom

import "fmt"

// ParseError reports malformed or empty input.
type ParseError struct {
	// Line is the 1-based input line, or 0 when the error is not tied to a
	// line (for example, empty input).
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if e.Line > 0 {
		return fmt.Sprintf("parse error on line %d: %s", e.Line, msg)
	}
	return "parse error: " + msg
}

func (e *ParseError) Unwrap() error { return e.Err }

// DegenerateShapeError reports a shape that cannot be fitted or analyzed:
// too few distinct points, or a singular parameterization.
type DegenerateShapeError struct {
	Reason string
}

func (e *DegenerateShapeError) Error() string {
	return "degenerate shape: " + e.Reason
}

// GeometryError reports numeric instability such as NaN or infinite
// coordinates, or an output box with no area.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return "geometry error: " + e.Reason
}
