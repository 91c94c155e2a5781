package layout

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"h2d/config"
	"h2d/css"
	"h2d/design"
	"h2d/style"
)

// wide containers, everything else is either block or default
var wideTags = map[string]bool{"header": true, "footer": true, "nav": true, "body": true, "main": true}

// NodeError describes node removed from the tree because it could not be laid
// out.
type NodeError struct {
	Name string
	Err  error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("node %q removed: %v", e.Name, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Translator computes geometry and layout policy of design nodes.
type Translator struct {
	cfg *config.LayoutConfig
	log *zap.Logger
}

// NewTranslator creates translator, nil cfg means compiled in defaults.
func NewTranslator(cfg *config.CompilerConfig, log *zap.Logger) *Translator {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Translator{cfg: &cfg.Layout, log: log.Named("layout")}
}

// Layout sizes and positions every node of the trees rooted at roots. Roots
// are placed at origin. Nodes failing layout are removed with their subtree,
// surviving roots are returned together with combined NodeError of removed
// ones.
func (t *Translator) Layout(roots []*design.Node) ([]*design.Node, error) {
	var errs error
	survivors := t.measureAll(roots, &errs)
	for _, r := range survivors {
		r.Geometry.X, r.Geometry.Y = 0, 0
		t.place(r)
	}
	return survivors, errs
}

// measureAll measures nodes dropping failed ones.
func (t *Translator) measureAll(nodes []*design.Node, errs *error) []*design.Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if err := t.safeMeasure(n, errs); err != nil {
			name := "<nil>"
			if n != nil {
				name = n.Name
			}
			t.log.Warn("Node removed from layout", zap.String("node", name), zap.Error(err))
			*errs = multierr.Append(*errs, &NodeError{Name: name, Err: err})
			continue
		}
		out = append(out, n)
	}
	return out
}

func (t *Translator) safeMeasure(n *design.Node, errs *error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return t.measure(n, errs)
}

// measure computes size of node after sizing all of its children.
func (t *Translator) measure(n *design.Node, errs *error) error {
	if n == nil {
		return errors.New("nil node")
	}

	kind := Classify(n.Tag, n.CSS, isContainer(n))
	if kind == Leaf {
		sanitize(&n.Geometry)
		return nil
	}

	n.Children = t.measureAll(n.Children, errs)
	n.Layout = t.policy(kind, n)

	w, fixedW := t.width(n, kind)
	h, fixedH := explicit(n.CSS, "height")

	pad := n.Layout.Padding
	if kind == Flex {
		mainSum, crossMax := t.extent(n)
		if n.Layout.Direction == design.Horizontal {
			if !fixedW {
				w = mainSum + pad.Horizontal()
			}
			if !fixedH {
				h = crossMax + pad.Vertical()
			}
		} else {
			if !fixedW {
				w = crossMax + pad.Horizontal()
			}
			if !fixedH {
				h = mainSum + pad.Vertical()
			}
		}
		w = capWidth(n.CSS, w)
	} else if !fixedH {
		var sum float64
		for i, c := range n.Children {
			if i > 0 {
				sum += n.Layout.Gap
			}
			sum += c.Geometry.Height
		}
		h = sum + pad.Vertical()
	}

	if minH, ok := explicit(n.CSS, "min-height"); ok && h < minH {
		h = minH
	}

	n.Layout.Sizing = design.AxisSizing{Width: design.Fixed, Height: design.Fixed}
	if kind == Flex && !fixedW {
		n.Layout.Sizing.Width = design.Hug
	}
	if !fixedH {
		n.Layout.Sizing.Height = design.Hug
	}

	n.Geometry.Width, n.Geometry.Height = w, h
	sanitize(&n.Geometry)
	return nil
}

// policy returns layout policy of container node.
func (t *Translator) policy(kind Kind, n *design.Node) design.Layout {
	var l design.Layout
	switch kind {
	case Flex:
		l = FlexLayout(n.CSS, t.cfg.FlexGap)
		l.Padding = n.Style.Padding
	case Block:
		l = design.Layout{Mode: design.VerticalStack, Direction: design.Vertical, Gap: t.cfg.BlockGap,
			MainAlign: design.AlignStart, CrossAlign: design.AlignStart}
		l.Padding = style.Uniform(t.cfg.BlockPadding)
		if hasPadding(n.CSS) {
			l.Padding = n.Style.Padding
		}
	case Stack:
		l = design.Layout{Mode: design.VerticalStack, Direction: design.Vertical, Gap: t.cfg.ListGap,
			MainAlign: design.AlignStart, CrossAlign: design.AlignStart}
		l.Padding = n.Style.Padding
	default:
		l = design.Layout{Mode: design.Manual, Gap: t.cfg.ManualGap}
		l.Padding = n.Style.Padding
	}
	return l
}

// width resolves container width: explicit, then tag default, capped by
// max-width.
func (t *Translator) width(n *design.Node, kind Kind) (float64, bool) {
	if w, ok := explicit(n.CSS, "width"); ok {
		return capWidth(n.CSS, w), true
	}
	if kind == Flex {
		// hugs children, computed by caller
		return 0, false
	}
	w := t.cfg.DefaultWidth
	switch {
	case wideTags[n.Tag]:
		w = t.cfg.WideWidth
	case blockTags[n.Tag]:
		w = t.cfg.BlockWidth
	}
	return capWidth(n.CSS, w), false
}

// extent returns sum of children sizes along main axis including gaps and the
// largest child size across it.
func (t *Translator) extent(n *design.Node) (mainSum, crossMax float64) {
	for i, c := range n.Children {
		main, cross := axes(c.Geometry, n.Layout.Direction)
		if i > 0 {
			mainSum += n.Layout.Gap
		}
		mainSum += main
		crossMax = max(crossMax, cross)
	}
	return mainSum, crossMax
}

// place assigns child positions relative to n, all sizes are known.
func (t *Translator) place(n *design.Node) {
	if len(n.Children) == 0 {
		return
	}

	pad := n.Layout.Padding
	if n.Layout.Mode == design.AutoLayoutFlex {
		t.placeFlex(n)
	} else {
		y := pad.Top
		for _, c := range n.Children {
			c.Geometry.X, c.Geometry.Y = pad.Left, y
			y += c.Geometry.Height + n.Layout.Gap
		}
	}

	for _, c := range n.Children {
		sanitize(&c.Geometry)
		t.place(c)
	}
}

func (t *Translator) placeFlex(n *design.Node) {
	l, pad := n.Layout, n.Layout.Padding
	horizontal := l.Direction == design.Horizontal

	availMain, availCross := n.Geometry.Height-pad.Vertical(), n.Geometry.Width-pad.Horizontal()
	startMain, startCross := pad.Top, pad.Left
	if horizontal {
		availMain, availCross = availCross, availMain
		startMain, startCross = startCross, startMain
	}

	var sizes float64
	for _, c := range n.Children {
		main, _ := axes(c.Geometry, l.Direction)
		sizes += main
	}
	count := float64(len(n.Children))
	free := availMain - sizes - l.Gap*(count-1)

	offset, spacing := 0.0, l.Gap
	switch l.MainAlign {
	case design.AlignCenter:
		offset = free / 2
	case design.AlignEnd:
		offset = free
	case design.AlignSpaceBetween:
		if count > 1 {
			spacing = max(l.Gap, (availMain-sizes)/(count-1))
		}
	}
	pos := startMain + max(0, offset)

	for _, c := range n.Children {
		main, cross := axes(c.Geometry, l.Direction)
		var crossOff float64
		switch l.CrossAlign {
		case design.AlignCenter:
			crossOff = (availCross - cross) / 2
		case design.AlignEnd:
			crossOff = availCross - cross
		}
		crossPos := startCross + max(0, crossOff)

		if horizontal {
			c.Geometry.X, c.Geometry.Y = pos, crossPos
		} else {
			c.Geometry.X, c.Geometry.Y = crossPos, pos
		}
		pos += main + spacing
	}
}

// axes returns sizes along and across direction.
func axes(g design.Geometry, d design.Direction) (main, cross float64) {
	if d == design.Vertical {
		return g.Height, g.Width
	}
	return g.Width, g.Height
}

func explicit(st css.Style, name string) (float64, bool) {
	if v := style.ParseSize(st[name]); v > 0 && !math.IsInf(v, 0) {
		return v, true
	}
	return 0, false
}

// capWidth applies max-width, which never widens.
func capWidth(st css.Style, w float64) float64 {
	if m, ok := explicit(st, "max-width"); ok && w > m {
		return m
	}
	return w
}

func hasPadding(st css.Style) bool {
	for _, name := range []string{"padding", "padding-top", "padding-right", "padding-bottom", "padding-left"} {
		if st.Has(name) {
			return true
		}
	}
	return false
}

// sanitize replaces NaN, infinite and negative values with 0.
func sanitize(g *design.Geometry) {
	for _, v := range []*float64{&g.X, &g.Y, &g.Width, &g.Height} {
		if math.IsNaN(*v) || math.IsInf(*v, 0) || *v < 0 {
			*v = 0
		}
	}
}
