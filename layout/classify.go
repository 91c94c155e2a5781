// Package layout sizes and positions design nodes.
//
// Flexbox is approximated by single axis stacking with alignment, everything
// else is stacked vertically with fixed gaps. Sizes are computed bottom-up
// first, positions are assigned top-down after the whole tree is sized.
package layout

import (
	"strings"

	"h2d/css"
	"h2d/design"
	"h2d/style"
)

// Kind is layout policy class of a node.
type Kind int

const (
	// Leaf keeps intrinsic size provided by emitter.
	Leaf Kind = iota
	// Flex is auto layout along a single axis.
	Flex
	// Block is vertical stack of div, section and article.
	Block
	// Stack is vertical stack of list items.
	Stack
	// Manual containers get explicit child coordinates.
	Manual
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Flex:
		return "flex"
	case Block:
		return "block"
	case Stack:
		return "stack"
	case Manual:
		return "manual"
	}
	return "unknown"
}

var blockTags = map[string]bool{"div": true, "section": true, "article": true}

var listTags = map[string]bool{"ul": true, "ol": true}

// Classify returns layout class of element with tag and effective style.
// Containers are nodes which may hold children, leaves never do.
func Classify(tag string, st css.Style, container bool) Kind {
	if !container {
		return Leaf
	}
	switch strings.ToLower(strings.TrimSpace(st["display"])) {
	case "flex", "inline-flex":
		return Flex
	}
	switch {
	case blockTags[tag]:
		return Block
	case listTags[tag]:
		return Stack
	}
	return Manual
}

// isContainer reports whether node variant holds laid out children.
func isContainer(n *design.Node) bool {
	switch n.Variant {
	case design.Container, design.List:
		return true
	case design.ListItem:
		return len(n.Children) > 0
	}
	return false
}

// FlexLayout translates flex properties into auto layout, gap falls back to
// defaultGap.
func FlexLayout(st css.Style, defaultGap float64) design.Layout {
	l := design.Layout{
		Mode:       design.AutoLayoutFlex,
		Direction:  design.Horizontal,
		MainAlign:  design.AlignStart,
		CrossAlign: design.AlignStart,
		Gap:        defaultGap,
	}

	switch strings.ToLower(strings.TrimSpace(st["flex-direction"])) {
	case "column", "column-reverse":
		l.Direction = design.Vertical
	}

	switch strings.ToLower(strings.TrimSpace(st["justify-content"])) {
	case "center":
		l.MainAlign = design.AlignCenter
	case "flex-end", "end":
		l.MainAlign = design.AlignEnd
	case "space-between", "space-around", "space-evenly":
		l.MainAlign = design.AlignSpaceBetween
	}

	// stretch is not modeled, items keep their size
	switch strings.ToLower(strings.TrimSpace(st["align-items"])) {
	case "center":
		l.CrossAlign = design.AlignCenter
	case "flex-end", "end":
		l.CrossAlign = design.AlignEnd
	}

	// row and column gaps, the one along main axis matters
	if f := style.Fields(st["gap"]); len(f) > 0 {
		g := f[0]
		if len(f) > 1 && l.Direction == design.Horizontal {
			g = f[1]
		}
		l.Gap = max(0, style.ParseSize(g))
	}
	return l
}
