// Package preview draws design tree as a picture, standing in for a real
// renderer when looking at compiler output.
package preview

import (
	"math"
	"strconv"

	"github.com/beevik/etree"

	"h2d/design"
	"h2d/style"
)

// SVG returns design tree as SVG document. Every node is a rectangle at its
// absolute position, text is set with <text> elements.
func SVG(root *design.Node, margin int) []byte {
	w, h := canvasSize(root, margin)

	doc := etree.NewDocument()
	svg := doc.CreateElement("svg")
	svg.CreateAttr("xmlns", "http://www.w3.org/2000/svg")
	svg.CreateAttr("width", strconv.Itoa(w))
	svg.CreateAttr("height", strconv.Itoa(h))
	svg.CreateAttr("viewBox", "0 0 "+strconv.Itoa(w)+" "+strconv.Itoa(h))

	walkAbsolute(root, float64(margin), float64(margin), func(n *design.Node, x, y float64) {
		appendNode(svg, n, x, y)
	})

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		// writing to memory does not fail
		panic(err)
	}
	return data
}

func canvasSize(root *design.Node, margin int) (int, int) {
	w := int(math.Ceil(root.Geometry.Width)) + 2*margin
	h := int(math.Ceil(root.Geometry.Height)) + 2*margin
	return max(w, 1), max(h, 1)
}

// walkAbsolute visits nodes parents first passing absolute coordinates.
func walkAbsolute(n *design.Node, ox, oy float64, fn func(n *design.Node, x, y float64)) {
	x, y := ox+n.Geometry.X, oy+n.Geometry.Y
	fn(n, x, y)
	for _, c := range n.Children {
		walkAbsolute(c, x, y, fn)
	}
}

func appendNode(svg *etree.Element, n *design.Node, x, y float64) {
	g, s := n.Geometry, n.Style
	if g.Width <= 0 || g.Height <= 0 {
		return
	}

	rect := svg.CreateElement("rect")
	rect.CreateAttr("x", num(x))
	rect.CreateAttr("y", num(y))
	rect.CreateAttr("width", num(g.Width))
	rect.CreateAttr("height", num(g.Height))
	rect.CreateAttr("rx", num(s.CornerRadii.TopLeft))
	if len(s.Fills) > 0 {
		rect.CreateAttr("fill", s.Fills[0].Color.Hex())
		rect.CreateAttr("fill-opacity", num(s.Fills[0].Opacity))
	} else {
		rect.CreateAttr("fill", "none")
	}
	rect.CreateAttr("opacity", num(s.Opacity))
	if len(s.Strokes) > 0 {
		rect.CreateAttr("stroke", s.Strokes[0].Color.Hex())
		rect.CreateAttr("stroke-width", num(s.Strokes[0].Weight))
	}

	if n.Variant == design.Image {
		stroke := "#9ca3af"
		if len(s.Strokes) > 0 {
			stroke = s.Strokes[0].Color.Hex()
		}
		cross := svg.CreateElement("path")
		cross.CreateAttr("d", "M"+num(x)+" "+num(y)+"L"+num(x+g.Width)+" "+num(y+g.Height)+
			"M"+num(x+g.Width)+" "+num(y)+"L"+num(x)+" "+num(y+g.Height))
		cross.CreateAttr("stroke", stroke)
		cross.CreateAttr("stroke-width", "1")
		cross.CreateAttr("fill", "none")
	}

	text := caption(n)
	if text == "" {
		return
	}
	var (
		color  style.RGB
		size   = float64(style.BaseFontSize)
		family = "sans-serif"
	)
	if ty := n.Style.Typography; ty != nil {
		color, size, family = ty.Color, ty.FontSize, ty.FontFamily
	}
	el := svg.CreateElement("text")
	el.CreateAttr("x", num(x+n.Layout.Padding.Left))
	el.CreateAttr("y", num(y+n.Layout.Padding.Top+size))
	el.CreateAttr("font-family", family)
	el.CreateAttr("font-size", num(size))
	el.CreateAttr("fill", color.Hex())
	el.SetText(text)
}

// caption returns text painted inside node.
func caption(n *design.Node) string {
	switch {
	case n.Text == "":
		return ""
	case n.Marker != "":
		return n.Marker + " " + n.Text
	}
	return n.Text
}

func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
