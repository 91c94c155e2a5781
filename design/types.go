// Package design defines host agnostic design tree and builds it from raw
// elements.
package design

import (
	"h2d/css"
	"h2d/style"
)

// Variant is kind of design node.
type Variant string

const (
	Container Variant = "CONTAINER"
	Text      Variant = "TEXT"
	Button    Variant = "BUTTON"
	Input     Variant = "INPUT"
	Image     Variant = "IMAGE"
	List      Variant = "LIST"
	ListItem  Variant = "LIST_ITEM"
)

// Mode is layout policy of a container.
type Mode string

const (
	Manual          Mode = "MANUAL"
	VerticalStack   Mode = "VERTICAL_STACK"
	HorizontalStack Mode = "HORIZONTAL_STACK"
	AutoLayoutFlex  Mode = "AUTO_LAYOUT_FLEX"
)

// Direction is main axis of auto layout.
type Direction string

const (
	Horizontal Direction = "HORIZONTAL"
	Vertical   Direction = "VERTICAL"
)

// Align is placement of children along an axis.
type Align string

const (
	AlignStart        Align = "MIN"
	AlignCenter       Align = "CENTER"
	AlignEnd          Align = "MAX"
	AlignSpaceBetween Align = "SPACE_BETWEEN"
)

// Sizing tells whether node dimension is fixed or hugs its content.
type Sizing string

const (
	Fixed Sizing = "FIXED"
	Hug   Sizing = "HUG"
)

// Geometry is node position relative to its parent and its size.
type Geometry struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// AxisSizing is sizing policy for both axes.
type AxisSizing struct {
	Width  Sizing `json:"width" yaml:"width"`
	Height Sizing `json:"height" yaml:"height"`
}

// Layout is layout policy of node children.
type Layout struct {
	Mode       Mode        `json:"mode" yaml:"mode"`
	Direction  Direction   `json:"direction,omitempty" yaml:"direction,omitempty"`
	MainAlign  Align       `json:"main_align,omitempty" yaml:"main_align,omitempty"`
	CrossAlign Align       `json:"cross_align,omitempty" yaml:"cross_align,omitempty"`
	Gap        float64     `json:"gap" yaml:"gap"`
	Padding    style.Sides `json:"padding" yaml:"padding"`
	Sizing     AxisSizing  `json:"sizing" yaml:"sizing"`
}

// Paint is solid fill.
type Paint struct {
	Color   style.RGB `json:"color" yaml:"color"`
	Opacity float64   `json:"opacity" yaml:"opacity"`
}

// Stroke is border line.
type Stroke struct {
	Color  style.RGB `json:"color" yaml:"color"`
	Weight float64   `json:"weight" yaml:"weight"`
}

// Typography describes how node text is set.
type Typography struct {
	FontFamily    string       `json:"font_family" yaml:"font_family"`
	FontSize      float64      `json:"font_size" yaml:"font_size"`
	Weight        style.Weight `json:"weight" yaml:"weight"`
	LineHeight    float64      `json:"line_height" yaml:"line_height"`
	LetterSpacing float64      `json:"letter_spacing,omitempty" yaml:"letter_spacing,omitempty"`
	Align         style.Align  `json:"align" yaml:"align"`
	Color         style.RGB    `json:"color" yaml:"color"`
}

// ResolvedStyle is node appearance with all values interpreted.
type ResolvedStyle struct {
	Fills       []Paint        `json:"fills,omitempty" yaml:"fills,omitempty"`
	Strokes     []Stroke       `json:"strokes,omitempty" yaml:"strokes,omitempty"`
	CornerRadii style.Corners  `json:"corner_radii" yaml:"corner_radii"`
	Padding     style.Sides    `json:"padding" yaml:"padding"`
	Effects     []style.Shadow `json:"effects,omitempty" yaml:"effects,omitempty"`
	Opacity     float64        `json:"opacity" yaml:"opacity"`
	Typography  *Typography    `json:"typography,omitempty" yaml:"typography,omitempty"`
}

// Node is a single element of design tree.
type Node struct {
	ID       string        `json:"id" yaml:"id"`
	Name     string        `json:"name" yaml:"name"`
	Tag      string        `json:"tag,omitempty" yaml:"tag,omitempty"`
	Variant  Variant       `json:"variant" yaml:"variant"`
	Geometry Geometry      `json:"geometry" yaml:"geometry"`
	Layout   Layout        `json:"layout" yaml:"layout"`
	Style    ResolvedStyle `json:"style" yaml:"style"`
	Text     string        `json:"text,omitempty" yaml:"text,omitempty"`
	Marker   string        `json:"marker,omitempty" yaml:"marker,omitempty"`
	// Absorbed is number of inline elements whose text was merged into
	// this text run instead of getting nodes of their own.
	Absorbed int     `json:"absorbed,omitempty" yaml:"absorbed,omitempty"`
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`

	// CSS is effective style node was built from, layout reads sizing
	// properties from it.
	CSS css.Style `json:"-" yaml:"-"`
}

// Walk calls fn for node and all its descendants depth first.
func (n *Node) Walk(fn func(n *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(n *Node, depth int), depth int) {
	fn(n, depth)
	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns number of nodes in the subtree.
func (n *Node) Count() int {
	var count int
	n.Walk(func(*Node, int) { count++ })
	return count
}
