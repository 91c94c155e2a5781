package design

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"h2d/config"
	"h2d/css"
	"h2d/markup"
	"h2d/style"
)

// default font size by tag, tags missing here use style.BaseFontSize
var textFontSizes = map[string]float64{
	"h1":   48,
	"h2":   36,
	"h3":   30,
	"h4":   24,
	"h5":   20,
	"h6":   18,
	"p":    16,
	"span": 14,
}

var textTags = map[string]bool{
	"h1": true, "h2": true, "h3": true, "h4": true, "h5": true, "h6": true,
	"p": true, "span": true, "strong": true, "b": true, "em": true, "i": true,
	"label": true, "a": true, "small": true,
}

// Weights which css cannot override. Target font family has no italic, em
// and i get Medium instead.
var forcedWeights = map[string]style.Weight{
	"h1": style.Bold, "h2": style.Bold, "h3": style.Bold,
	"h4": style.Bold, "h5": style.Bold, "h6": style.Bold,
	"strong": style.Bold, "b": style.Bold,
	"em": style.Medium, "i": style.Medium,
}

var buttonInputTypes = map[string]bool{"submit": true, "button": true, "reset": true}

const (
	controlFontSize    = 14
	defaultPlaceholder = "Enter text..."
	bulletMarker       = "•"
)

var idSpace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("h2d/design"))

// ElementError describes element which was left out of design tree.
type ElementError struct {
	Path string
	Tag  string
	Err  error
}

func (e *ElementError) Error() string {
	return fmt.Sprintf("element <%s> at %s skipped: %v", e.Tag, e.Path, e.Err)
}

func (e *ElementError) Unwrap() error {
	return e.Err
}

// Emitter converts raw elements into design nodes. Nodes get their variant,
// resolved style and intrinsic size of leaves, container geometry is left to
// layout.
type Emitter struct {
	cfg *config.CompilerConfig
	log *zap.Logger
}

// NewEmitter creates emitter, nil cfg means compiled in defaults.
func NewEmitter(cfg *config.CompilerConfig, log *zap.Logger) *Emitter {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Emitter{cfg: cfg, log: log.Named("emitter")}
}

// Emit builds design nodes for elements. Elements which could not be built
// (error or panic) are skipped together with their subtree, returned error
// combines ElementError for every one of them and could be split with
// multierr.Errors.
//
// Cancellation is checked between top level elements only, ctx error is
// returned as is with no nodes.
func (e *Emitter) Emit(ctx context.Context, elements []*markup.Element, rules *css.RuleSet) ([]*Node, error) {
	b := &builder{Emitter: e, rules: rules}
	nodes := make([]*Node, 0, len(elements))
	for i, el := range elements {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := "/" + strconv.Itoa(i)
		if n := b.guard(el, p, func() (*Node, error) { return b.emit(el, p) }); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes, b.errs
}

// builder holds state of a single Emit call.
type builder struct {
	*Emitter
	rules *css.RuleSet
	errs  error
}

func (b *builder) children(elements []*markup.Element, path string) []*Node {
	nodes := make([]*Node, 0, len(elements))
	for i, el := range elements {
		p := path + "/" + strconv.Itoa(i)
		if n := b.guard(el, p, func() (*Node, error) { return b.emit(el, p) }); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

// guard runs build recovering from panics. Failure is recorded and nil is
// returned.
func (b *builder) guard(el *markup.Element, path string, build func() (*Node, error)) (n *Node) {
	var tag string
	if el != nil {
		tag = el.Tag
	}
	defer func() {
		if r := recover(); r != nil {
			b.fail(&ElementError{Path: path, Tag: tag, Err: fmt.Errorf("panic: %v", r)})
			n = nil
		}
	}()
	n, err := build()
	if err != nil {
		b.fail(&ElementError{Path: path, Tag: tag, Err: err})
		return nil
	}
	return n
}

func (b *builder) fail(err *ElementError) {
	b.log.Warn("Element skipped", zap.String("tag", err.Tag), zap.String("path", err.Path), zap.Error(err.Err))
	b.errs = multierr.Append(b.errs, err)
}

// base creates node with everything which does not depend on variant.
func (b *builder) base(el *markup.Element, path string) (*Node, error) {
	if el == nil {
		return nil, errors.New("nil element")
	}
	if el.Tag == "" {
		return nil, errors.New("element without tag name")
	}
	st := css.Resolve(el, b.rules)
	return &Node{
		ID:      NodeID(path, el.Tag),
		Name:    layerName(el),
		Tag:     el.Tag,
		Variant: Container,
		Layout:  Layout{Mode: Manual, Sizing: AxisSizing{Width: Fixed, Height: Fixed}},
		Style:   b.boxStyle(st),
		CSS:     st,
	}, nil
}

func (b *builder) emit(el *markup.Element, path string) (*Node, error) {
	n, err := b.base(el, path)
	if err != nil {
		return nil, err
	}

	switch tag := el.Tag; {
	case textTags[tag] && inlineOnly(el):
		b.text(n, n.Tag, el.Text)
		b.absorb(n, el)
	case tag == "button":
		b.button(n, el.Text, b.cfg.Defaults.Button)
	case tag == "input" && buttonInputTypes[strings.ToLower(attr(el, "type"))]:
		caption := attr(el, "value")
		if caption == "" {
			caption = "Submit"
		}
		b.button(n, caption, b.cfg.Defaults.Button)
	case tag == "input":
		b.input(n, el, b.cfg.Defaults.Input)
	case tag == "textarea":
		b.input(n, el, b.cfg.Defaults.Textarea)
	case tag == "img":
		b.image(n, el)
	case tag == "ul" || tag == "ol":
		b.list(n, el, path)
	case len(el.Children) > 0:
		b.container(n, el, path)
	case el.Text != "":
		n.Children = []*Node{b.textChild(n, el.Text, path)}
	}
	return n, nil
}

// inlineOnly reports whether all descendants are text tags, so the element
// could be set as a single text run.
func inlineOnly(el *markup.Element) bool {
	for _, c := range el.Children {
		if !textTags[c.Tag] || !inlineOnly(c) {
			return false
		}
	}
	return true
}

// absorb records inline descendants merged into text run of n.
func (b *builder) absorb(n *Node, el *markup.Element) {
	el.Walk(func(e *markup.Element, _ int) bool {
		if e != el {
			n.Absorbed++
		}
		return true
	})
	if n.Absorbed > 0 {
		b.log.Debug("Inline elements merged into text", zap.String("tag", el.Tag), zap.Int("absorbed", n.Absorbed))
	}
}

func (b *builder) container(n *Node, el *markup.Element, path string) {
	n.Children = b.children(el.Children, path)
	// own text of text tags and list items is never dropped
	if b.cfg.Text.OwnText || textTags[el.Tag] || el.Tag == "li" {
		if own := el.OwnText(); own != "" {
			n.Children = append([]*Node{b.textChild(n, own, path)}, n.Children...)
		}
	}
}

// textChild creates anonymous text node carrying text of parent.
func (b *builder) textChild(parent *Node, text, path string) *Node {
	n := &Node{
		ID:      NodeID(path+"/#text", ""),
		Name:    textLayerName(text),
		Variant: Text,
		Layout:  Layout{Mode: Manual},
		Style:   ResolvedStyle{Opacity: 1},
		CSS:     css.Style{},
	}
	// text takes font properties of its parent, box properties stay there
	for _, name := range []string{"font-size", "font-weight", "font-family", "color", "line-height",
		"letter-spacing", "text-align", "text-transform"} {
		if v, ok := parent.CSS[name]; ok {
			n.CSS[name] = v
		}
	}
	b.text(n, parent.Tag, text)
	return n
}

// text makes n a text run, tag selects default font size and weight.
func (b *builder) text(n *Node, tag, text string) {
	n.Variant = Text
	n.Text = style.ApplyTextTransform(text, n.CSS["text-transform"])

	ty := b.typography(tag, n.CSS, defaultFontSize(tag), b.cfg.Text.Color)
	n.Style.Typography = ty

	pad := n.Style.Padding
	maxWidth, fixedW := explicitSize(n.CSS, "width")
	if !fixedW {
		maxWidth = b.cfg.Text.MaxWidth
	}
	m := style.MeasureText(n.Text, ty.FontSize, ty.LineHeight, ty.LetterSpacing, maxWidth-pad.Horizontal())

	n.Geometry.Width = m.Width + pad.Horizontal()
	n.Geometry.Height = m.Height + pad.Vertical()
	n.Layout.Sizing = AxisSizing{Width: Hug, Height: Hug}
	if fixedW {
		n.Geometry.Width = maxWidth
		n.Layout.Sizing.Width = Fixed
	}
	if h, ok := explicitSize(n.CSS, "height"); ok {
		n.Geometry.Height = h
		n.Layout.Sizing.Height = Fixed
	}
}

func (b *builder) button(n *Node, caption string, d config.BoxDefaults) {
	n.Variant = Button
	n.Text = style.ApplyTextTransform(caption, n.CSS["text-transform"])
	if len(n.Style.Fills) == 0 {
		n.Style.Fills = paints(d.Fill)
	}

	ty := b.typography(n.Tag, n.CSS, controlFontSize, d.TextColor)
	if !n.CSS.Has("text-align") {
		ty.Align = style.AlignCenter
	}
	n.Style.Typography = ty

	pad := n.Style.Padding
	if pad.IsZero() {
		pad = style.Sides{Top: 8, Right: 16, Bottom: 8, Left: 16}
	}
	n.Layout = Layout{
		Mode:       HorizontalStack,
		Direction:  Horizontal,
		MainAlign:  AlignCenter,
		CrossAlign: AlignCenter,
		Padding:    pad,
		Sizing:     AxisSizing{Width: Fixed, Height: Fixed},
	}

	w, fixedW := explicitSize(n.CSS, "width")
	h, fixedH := explicitSize(n.CSS, "height")
	m := style.MeasureText(n.Text, ty.FontSize, ty.LineHeight, ty.LetterSpacing, 0)
	if !fixedW {
		w = max(d.Width, m.Width+pad.Horizontal())
	}
	if !fixedH {
		h = max(d.Height, m.Height+pad.Vertical())
	}
	n.Geometry.Width, n.Geometry.Height = w, h
}

func (b *builder) input(n *Node, el *markup.Element, d config.BoxDefaults) {
	n.Variant = Input

	text := strings.TrimSpace(attr(el, "placeholder"))
	if text == "" {
		text = el.Text
	}
	if text == "" {
		text = defaultPlaceholder
	}
	n.Text = text

	if len(n.Style.Fills) == 0 {
		n.Style.Fills = paints(d.Fill)
	}
	if len(n.Style.Strokes) == 0 {
		if c, ok := style.ParseColor(d.Stroke); ok {
			n.Style.Strokes = []Stroke{{Color: c, Weight: 1}}
		}
	}
	n.Style.Typography = b.typography(n.Tag, n.CSS, controlFontSize, d.TextColor)
	if n.Style.Padding.IsZero() {
		n.Layout.Padding = style.Sides{Top: 8, Right: 12, Bottom: 8, Left: 12}
	} else {
		n.Layout.Padding = n.Style.Padding
	}

	n.Geometry.Width, n.Geometry.Height = d.Width, d.Height
	if w, ok := explicitSize(n.CSS, "width"); ok {
		n.Geometry.Width = w
	}
	if h, ok := explicitSize(n.CSS, "height"); ok {
		n.Geometry.Height = h
	}
}

func (b *builder) image(n *Node, el *markup.Element) {
	d := b.cfg.Defaults.Image
	n.Variant = Image
	n.Text = attr(el, "alt")

	if len(n.Style.Fills) == 0 {
		n.Style.Fills = paints(d.Fill)
	}
	if len(n.Style.Strokes) == 0 {
		if c, ok := style.ParseColor(d.Stroke); ok {
			n.Style.Strokes = []Stroke{{Color: c, Weight: 1}}
		}
	}

	n.Geometry.Width = imageSide(el, n.CSS, "width", d.Width)
	n.Geometry.Height = imageSide(el, n.CSS, "height", d.Height)
}

// imageSide takes size from attribute, then css, then default.
func imageSide(el *markup.Element, st css.Style, name string, def float64) float64 {
	if v := style.ParseSize(attr(el, name)); v > 0 {
		return v
	}
	if v, ok := explicitSize(st, name); ok {
		return v
	}
	return def
}

func (b *builder) list(n *Node, el *markup.Element, path string) {
	n.Variant = List
	ordered := el.Tag == "ol"

	var counter int
	for i, c := range el.Children {
		p := path + "/" + strconv.Itoa(i)
		var build func() (*Node, error)
		if c != nil && c.Tag == "li" {
			counter++
			marker := bulletMarker
			if ordered {
				marker = strconv.Itoa(counter) + "."
			}
			build = func() (*Node, error) { return b.listItem(c, p, marker) }
		} else {
			build = func() (*Node, error) { return b.emit(c, p) }
		}
		if child := b.guard(c, p, build); child != nil {
			n.Children = append(n.Children, child)
		}
	}
}

func (b *builder) listItem(el *markup.Element, path, marker string) (*Node, error) {
	n, err := b.base(el, path)
	if err != nil {
		return nil, err
	}
	n.Marker = marker

	if len(el.Children) > 0 && !inlineOnly(el) {
		b.container(n, el, path)
		n.Variant = ListItem
		return n, nil
	}

	b.text(n, n.Tag, el.Text)
	b.absorb(n, el)
	n.Variant = ListItem
	// leave room for marker
	ty := n.Style.Typography
	mm := style.MeasureText(marker+" ", ty.FontSize, ty.LineHeight, ty.LetterSpacing, 0)
	n.Geometry.Width += mm.Width
	n.Geometry.Height = max(n.Geometry.Height, mm.Height)
	return n, nil
}

func (b *builder) typography(tag string, st css.Style, size float64, defColor string) *Typography {
	if st.Has("font-size") {
		size = style.ParseFontSize(st["font-size"])
	}
	weight := style.Regular
	if w, ok := style.ParseFontWeight(st["font-weight"]); ok {
		weight = w
	}
	if w, ok := forcedWeights[tag]; ok {
		weight = w
	}
	color, ok := style.ParseColor(st["color"])
	if !ok {
		color, _ = style.ParseColor(defColor)
	}
	return &Typography{
		FontFamily:    fontFamily(st["font-family"], b.cfg.Text.FontFamily),
		FontSize:      size,
		Weight:        weight,
		LineHeight:    style.ParseLineHeight(st["line-height"], size, b.cfg.Text.LineHeight),
		LetterSpacing: style.ParseLetterSpacing(st["letter-spacing"], size),
		Align:         style.ParseTextAlign(st["text-align"]),
		Color:         color,
	}
}

func (b *builder) boxStyle(st css.Style) ResolvedStyle {
	rs := ResolvedStyle{Opacity: 1}
	if c, ok := background(st); ok {
		rs.Fills = []Paint{{Color: c, Opacity: 1}}
	}
	if s, ok := border(st); ok {
		rs.Strokes = []Stroke{s}
	}
	if v := st["border-radius"]; v != "" {
		rs.CornerRadii = style.ParseCornerRadii(v)
	}
	rs.Padding = padding(st)
	if sh, ok := style.ParseShadow(st["box-shadow"]); ok {
		rs.Effects = []style.Shadow{sh}
	}
	if v := st["opacity"]; v != "" {
		rs.Opacity = style.ParseOpacity(v)
	}
	return rs
}

// background returns solid color of background-color or of the first
// resolvable part of background shorthand.
func background(st css.Style) (style.RGB, bool) {
	if c, ok := style.ParseColor(st["background-color"]); ok {
		return c, true
	}
	v := st["background"]
	if c, ok := style.ParseColor(v); ok {
		return c, true
	}
	for _, f := range style.Fields(v) {
		if c, ok := style.ParseColor(f); ok {
			return c, true
		}
	}
	return style.RGB{}, false
}

func border(st css.Style) (Stroke, bool) {
	b := style.ParseBorder(st["border"])
	if v := st["border-width"]; v != "" {
		b.Width = max(0, style.ParseSize(v))
	}
	if c, ok := style.ParseColor(st["border-color"]); ok {
		b.Color, b.HasColor = c, true
	}
	if b.Width <= 0 {
		return Stroke{}, false
	}
	// without color border is painted in black (currentColor of default text)
	return Stroke{Color: b.Color, Weight: b.Width}, true
}

func padding(st css.Style) style.Sides {
	p := style.ParseBoxSides(st["padding"])
	for name, side := range map[string]*float64{
		"padding-top":    &p.Top,
		"padding-right":  &p.Right,
		"padding-bottom": &p.Bottom,
		"padding-left":   &p.Left,
	} {
		if v := st[name]; v != "" {
			*side = max(0, style.ParseSize(v))
		}
	}
	return p
}

func paints(hex string) []Paint {
	if c, ok := style.ParseColor(hex); ok {
		return []Paint{{Color: c, Opacity: 1}}
	}
	return nil
}

// explicitSize returns positive size declared in css.
func explicitSize(st css.Style, name string) (float64, bool) {
	if v := style.ParseSize(st[name]); v > 0 {
		return v, true
	}
	return 0, false
}

func defaultFontSize(tag string) float64 {
	if v, ok := textFontSizes[tag]; ok {
		return v
	}
	return style.BaseFontSize
}

// fontFamily returns first family of css font-family list.
func fontFamily(value, def string) string {
	first, _, _ := strings.Cut(value, ",")
	first = strings.Trim(strings.TrimSpace(first), `"'`)
	if first == "" {
		return def
	}
	return first
}

func attr(el *markup.Element, name string) string {
	v, _ := el.Attr(name)
	return v
}

// NodeID returns stable identifier of node at path (slash separated indexes
// of elements from the top) with tag.
func NodeID(path, tag string) string {
	return uuid.NewSHA1(idSpace, []byte(path+":"+tag)).String()
}
