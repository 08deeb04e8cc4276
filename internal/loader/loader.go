package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/ironsheep/curve-tools-mcp/internal/geom"
)

// Order selects how groups and subpaths are ordered in the loaded Drawing.
type Order int

const (
	// OrderFirstAppearance orders keys by their first occurrence in the input.
	OrderFirstAppearance Order = iota
	// OrderSorted orders keys by ascending value (legacy behavior).
	OrderSorted
)

func (o Order) String() string {
	switch o {
	case OrderFirstAppearance:
		return "first-appearance"
	case OrderSorted:
		return "sorted"
	default:
		return fmt.Sprintf("Order(%d)", int(o))
	}
}

// MarshalText encodes the order by name.
func (o Order) MarshalText() ([]byte, error) {
	if o != OrderFirstAppearance && o != OrderSorted {
		return nil, fmt.Errorf("unknown group order %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes a name accepted by ParseOrder.
func (o *Order) UnmarshalText(text []byte) error {
	v, err := ParseOrder(string(text))
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// ParseOrder converts a name as accepted on the command line into an Order.
// The empty string selects OrderFirstAppearance.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "first-appearance", "insertion":
		return OrderFirstAppearance, nil
	case "sorted", "legacy":
		return OrderSorted, nil
	default:
		return 0, fmt.Errorf("unknown group order %q (want first-appearance or sorted)", s)
	}
}

// Row is one labeled point of the input.
type Row struct {
	GroupID float64
	SubID   float64
	X       float64
	Y       float64
	// Line is the 1-based input line the row came from, 0 if unknown.
	Line int
}

// ReadRows parses comma-separated groupId,subId,x,y rows from r.
//
// Returns a *geom.ParseError if any row does not have exactly four numeric
// fields, if a grouping key is not finite, or if the input holds no rows.
func ReadRows(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	var rows []Row
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var cerr *csv.ParseError
			if errors.As(err, &cerr) {
				return nil, &geom.ParseError{Line: cerr.Line, Msg: "malformed row", Err: cerr.Err}
			}
			return nil, &geom.ParseError{Msg: "failed to read input", Err: err}
		}

		line, _ := cr.FieldPos(0)
		if len(rec) != 4 {
			return nil, &geom.ParseError{Line: line, Msg: fmt.Sprintf("expected 4 fields, got %d", len(rec))}
		}

		var vals [4]float64
		for i, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil {
				return nil, &geom.ParseError{Line: line, Msg: fmt.Sprintf("non-numeric %s %q", fieldNames[i], field), Err: err}
			}
			vals[i] = v
		}
		for i := 0; i < 2; i++ {
			if math.IsNaN(vals[i]) || math.IsInf(vals[i], 0) {
				return nil, &geom.ParseError{Line: line, Msg: fmt.Sprintf("non-finite %s %q", fieldNames[i], rec[i])}
			}
		}

		rows = append(rows, Row{GroupID: vals[0], SubID: vals[1], X: vals[2], Y: vals[3], Line: line})
	}

	if len(rows) == 0 {
		return nil, &geom.ParseError{Msg: "input contains no rows"}
	}
	return rows, nil
}

var fieldNames = [4]string{"groupId", "subId", "x", "y"}

// Group builds a Drawing from rows.
//
// Groups and subpaths are ordered according to order; points keep input
// order. Grouping uses an explicit insertion-ordered index, so keys are never
// re-sorted unless OrderSorted is requested.
//
// Returns a *geom.ParseError for empty input and a *geom.GeometryError if a
// coordinate is NaN or infinite.
func Group(rows []Row, order Order) (*geom.Drawing, error) {
	if len(rows) == 0 {
		return nil, &geom.ParseError{Msg: "input contains no rows"}
	}

	type groupIndex struct {
		pos  int
		subs map[float64]int
	}
	index := make(map[float64]*groupIndex)
	d := &geom.Drawing{}

	for _, r := range rows {
		pt := geom.Point{X: r.X, Y: r.Y}
		if !pt.IsFinite() {
			return nil, &geom.GeometryError{Reason: fmt.Sprintf("non-finite coordinate (%v, %v) on line %d", r.X, r.Y, r.Line)}
		}

		gi, ok := index[r.GroupID]
		if !ok {
			gi = &groupIndex{pos: len(d.Groups), subs: make(map[float64]int)}
			index[r.GroupID] = gi
			d.Groups = append(d.Groups, geom.PathGroup{ID: r.GroupID})
		}
		g := &d.Groups[gi.pos]

		si, ok := gi.subs[r.SubID]
		if !ok {
			si = len(g.Subpaths)
			gi.subs[r.SubID] = si
			g.Subpaths = append(g.Subpaths, geom.Subpath{ID: r.SubID})
		}
		g.Subpaths[si].Points = append(g.Subpaths[si].Points, pt)
	}

	if order == OrderSorted {
		sort.SliceStable(d.Groups, func(i, j int) bool { return d.Groups[i].ID < d.Groups[j].ID })
		for i := range d.Groups {
			subs := d.Groups[i].Subpaths
			sort.SliceStable(subs, func(a, b int) bool { return subs[a].ID < subs[b].ID })
		}
	}

	return d, nil
}

// Load reads rows from r and groups them.
func Load(r io.Reader, order Order) (*geom.Drawing, error) {
	rows, err := ReadRows(r)
	if err != nil {
		return nil, err
	}
	return Group(rows, order)
}

// LoadFile opens path and loads the drawing it contains.
func LoadFile(path string, order Order) (*geom.Drawing, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open curve file: %w", err)
	}
	defer f.Close()

	d, err := Load(f, order)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}
