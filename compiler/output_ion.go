package compiler

import (
	"fmt"
	"io"

	"github.com/amazon-ion/ion-go/ion"

	"h2d/design"
	"h2d/style"
)

// WriteIon writes result as Amazon Ion text annotated with "design_tree".
// Enumerations are written as symbols, colors as hex strings.
func (r *Result) WriteIon(w io.Writer) error {
	iw := &ionWriter{writer: ion.NewTextWriter(w)}

	iw.annotate("design_tree")
	iw.begin(false)
	iw.field("root")
	iw.node(r.Root)
	iw.field("warnings")
	iw.begin(true)
	for _, warn := range r.Warnings {
		iw.str(warn)
	}
	iw.end(true)
	iw.intField("rules", r.Rules)
	iw.intField("elements", r.Elements)
	iw.end(false)

	if iw.err == nil {
		iw.err = iw.writer.Finish()
	}
	if iw.err != nil {
		return fmt.Errorf("unable to encode result as ion: %w", iw.err)
	}
	return nil
}

// ionWriter wraps ion.Writer remembering the first error, so the tree could
// be written without checking every call.
type ionWriter struct {
	writer ion.Writer
	err    error
}

func (w *ionWriter) do(fn func() error) {
	if w.err == nil {
		w.err = fn()
	}
}

func (w *ionWriter) annotate(name string) {
	w.do(func() error { return w.writer.Annotation(ion.NewSymbolTokenFromString(name)) })
}

func (w *ionWriter) field(name string) {
	w.do(func() error { return w.writer.FieldName(ion.NewSymbolTokenFromString(name)) })
}

func (w *ionWriter) begin(list bool) {
	if list {
		w.do(w.writer.BeginList)
		return
	}
	w.do(w.writer.BeginStruct)
}

func (w *ionWriter) end(list bool) {
	if list {
		w.do(w.writer.EndList)
		return
	}
	w.do(w.writer.EndStruct)
}

func (w *ionWriter) str(v string) {
	w.do(func() error { return w.writer.WriteString(v) })
}

func (w *ionWriter) strField(name, v string) {
	if v == "" {
		return
	}
	w.field(name)
	w.str(v)
}

// symbolField writes enumeration value, empty ones are omitted.
func (w *ionWriter) symbolField(name, v string) {
	if v == "" {
		return
	}
	w.field(name)
	w.do(func() error { return w.writer.WriteSymbol(ion.NewSymbolTokenFromString(v)) })
}

func (w *ionWriter) floatField(name string, v float64) {
	w.field(name)
	w.do(func() error { return w.writer.WriteFloat(v) })
}

func (w *ionWriter) intField(name string, v int) {
	w.field(name)
	w.do(func() error { return w.writer.WriteInt(int64(v)) })
}

func (w *ionWriter) colorField(name string, c style.RGB) {
	w.strField(name, c.Hex())
}

func (w *ionWriter) sides(name string, s style.Sides) {
	w.field(name)
	w.begin(false)
	w.floatField("top", s.Top)
	w.floatField("right", s.Right)
	w.floatField("bottom", s.Bottom)
	w.floatField("left", s.Left)
	w.end(false)
}

func (w *ionWriter) node(n *design.Node) {
	w.begin(false)
	w.strField("id", n.ID)
	w.strField("name", n.Name)
	w.strField("tag", n.Tag)
	w.symbolField("variant", string(n.Variant))

	w.field("geometry")
	w.begin(false)
	w.floatField("x", n.Geometry.X)
	w.floatField("y", n.Geometry.Y)
	w.floatField("width", n.Geometry.Width)
	w.floatField("height", n.Geometry.Height)
	w.end(false)

	w.layout(n.Layout)
	w.style(n.Style)
	w.strField("text", n.Text)
	w.strField("marker", n.Marker)
	if n.Absorbed > 0 {
		w.intField("absorbed", n.Absorbed)
	}

	if len(n.Children) > 0 {
		w.field("children")
		w.begin(true)
		for _, c := range n.Children {
			w.node(c)
		}
		w.end(true)
	}
	w.end(false)
}

func (w *ionWriter) layout(l design.Layout) {
	w.field("layout")
	w.begin(false)
	w.symbolField("mode", string(l.Mode))
	w.symbolField("direction", string(l.Direction))
	w.symbolField("main_align", string(l.MainAlign))
	w.symbolField("cross_align", string(l.CrossAlign))
	w.floatField("gap", l.Gap)
	w.sides("padding", l.Padding)
	w.field("sizing")
	w.begin(false)
	w.symbolField("width", string(l.Sizing.Width))
	w.symbolField("height", string(l.Sizing.Height))
	w.end(false)
	w.end(false)
}

func (w *ionWriter) style(s design.ResolvedStyle) {
	w.field("style")
	w.begin(false)

	w.field("fills")
	w.begin(true)
	for _, f := range s.Fills {
		w.begin(false)
		w.colorField("color", f.Color)
		w.floatField("opacity", f.Opacity)
		w.end(false)
	}
	w.end(true)

	w.field("strokes")
	w.begin(true)
	for _, st := range s.Strokes {
		w.begin(false)
		w.colorField("color", st.Color)
		w.floatField("weight", st.Weight)
		w.end(false)
	}
	w.end(true)

	w.field("corner_radii")
	w.begin(false)
	w.floatField("top_left", s.CornerRadii.TopLeft)
	w.floatField("top_right", s.CornerRadii.TopRight)
	w.floatField("bottom_right", s.CornerRadii.BottomRight)
	w.floatField("bottom_left", s.CornerRadii.BottomLeft)
	w.end(false)

	w.sides("padding", s.Padding)

	w.field("effects")
	w.begin(true)
	for _, e := range s.Effects {
		w.begin(false)
		w.symbolField("type", "DROP_SHADOW")
		w.floatField("offset_x", e.OffsetX)
		w.floatField("offset_y", e.OffsetY)
		w.floatField("radius", e.Radius)
		w.colorField("color", e.Color)
		w.floatField("alpha", e.Alpha)
		w.end(false)
	}
	w.end(true)

	w.floatField("opacity", s.Opacity)

	if t := s.Typography; t != nil {
		w.field("typography")
		w.begin(false)
		w.strField("font_family", t.FontFamily)
		w.floatField("font_size", t.FontSize)
		w.symbolField("weight", string(t.Weight))
		w.floatField("line_height", t.LineHeight)
		w.floatField("letter_spacing", t.LetterSpacing)
		w.symbolField("align", string(t.Align))
		w.colorField("color", t.Color)
		w.end(false)
	}
	w.end(false)
}
