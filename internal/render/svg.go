package render

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
)

// NewSVG builds the SVG element tree for doc: an <svg> root sized to the
// bounding box with one unfilled, stroked <path> per group.
func NewSVG(doc *Document) *etree.Document {
	x := etree.NewDocument()
	x.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	w, h := formatNumber(doc.Box.Width), formatNumber(doc.Box.Height)
	svg := x.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", w)
	svg.CreateAttr("height", h)
	svg.CreateAttr("viewBox", fmt.Sprintf("0 0 %s %s", w, h))

	stroke := formatNumber(doc.StrokeWidth)
	for i := range doc.Paths {
		p := &doc.Paths[i]
		el := svg.CreateElement("path")
		el.CreateAttr("d", p.D())
		el.CreateAttr("fill", "none")
		el.CreateAttr("stroke", p.Color)
		el.CreateAttr("stroke-width", stroke)
	}

	x.Indent(2)
	return x
}

// WriteSVG serializes doc as an SVG document.
func WriteSVG(w io.Writer, doc *Document) error {
	if _, err := NewSVG(doc).WriteTo(w); err != nil {
		return fmt.Errorf("failed to write SVG: %w", err)
	}
	return nil
}
