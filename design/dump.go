package design

import (
	"h2d/utils/debug"
)

// Dump returns indented human readable representation of the tree.
func Dump(roots ...*Node) string {
	tw := debug.NewTreeWriter(debug.WithTextLimit(60))
	for _, r := range roots {
		r.Walk(func(n *Node, depth int) {
			dumpNode(tw, n, depth)
		})
	}
	return tw.String()
}

func dumpNode(tw *debug.TreeWriter, n *Node, depth int) {
	g := n.Geometry
	tw.Line(depth, "%s %s [%s] (%g,%g %gx%g)", n.Variant, n.Name, n.Tag, g.X, g.Y, g.Width, g.Height)

	l := n.Layout
	if l.Mode != Manual || len(n.Children) > 0 {
		tw.Fields(depth+1, "layout", string(l.Mode), "direction", string(l.Direction),
			"main", string(l.MainAlign), "cross", string(l.CrossAlign), "gap", l.Gap)
	}
	if n.Text != "" {
		tw.Text(depth+1, "text", n.Marker+prefixSpace(n.Marker)+n.Text)
	}
	for _, f := range n.Style.Fills {
		tw.Fields(depth+1, "fill", f.Color.Hex())
	}
	for _, s := range n.Style.Strokes {
		tw.Fields(depth+1, "stroke", s.Color.Hex(), "weight", s.Weight)
	}
	if ty := n.Style.Typography; ty != nil {
		tw.Fields(depth+1, "font", ty.FontFamily, "size", ty.FontSize, "weight", string(ty.Weight), "color", ty.Color.Hex())
	}
}

func prefixSpace(marker string) string {
	if marker == "" {
		return ""
	}
	return " "
}
