package style

import (
	"strings"
)

// ShadowAlpha is the opacity every shadow gets, alpha of shadow color itself
// is not used.
const ShadowAlpha = 0.1

// Shadow is a single drop shadow.
type Shadow struct {
	OffsetX float64 `json:"offset_x" yaml:"offset_x"`
	OffsetY float64 `json:"offset_y" yaml:"offset_y"`
	Radius  float64 `json:"radius" yaml:"radius"`
	Color   RGB     `json:"color" yaml:"color"`
	Alpha   float64 `json:"alpha" yaml:"alpha"`
}

// ParseShadow parses "<x> <y> <blur> <color>" box-shadow. Spread, inset and
// multiple shadows are not supported. "none" and anything unparsable return
// ok == false.
func ParseShadow(s string) (Shadow, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return Shadow{}, false
	}

	// color may contain spaces inside of function arguments
	var lengths []string
	rest := s
	for range 3 {
		rest = strings.TrimSpace(rest)
		i := strings.IndexAny(rest, " \t")
		if i < 0 {
			return Shadow{}, false
		}
		lengths = append(lengths, rest[:i])
		rest = rest[i+1:]
	}

	var v [3]float64
	for i, l := range lengths {
		px, ok := parseLength(l)
		if !ok {
			return Shadow{}, false
		}
		v[i] = px
	}

	c, ok := ParseColor(rest)
	if !ok {
		return Shadow{}, false
	}
	return Shadow{OffsetX: v[0], OffsetY: v[1], Radius: nonNegative(v[2]), Color: c, Alpha: ShadowAlpha}, true
}

// Border is parsed border shorthand.
type Border struct {
	Width float64
	Style string
	Color RGB
	// HasColor is false when color was missing or not resolvable
	HasColor bool
}

var borderStyles = map[string]bool{
	"none": true, "hidden": true, "dotted": true, "dashed": true, "solid": true,
	"double": true, "groove": true, "ridge": true, "inset": true, "outset": true,
}

// ParseBorder parses "<width> <style> <color>" in any order. Missing width
// defaults to 1 when style is visible.
func ParseBorder(s string) Border {
	var b Border
	width := -1.0
	for _, f := range Fields(s) {
		lf := strings.ToLower(f)
		switch {
		case borderStyles[lf]:
			b.Style = lf
		case lf == "thin":
			width = 1
		case lf == "medium":
			width = 3
		case lf == "thick":
			width = 5
		default:
			if v, ok := parseLength(lf); ok {
				width = nonNegative(v)
			} else if c, ok := ParseColor(f); ok {
				b.Color, b.HasColor = c, true
			}
		}
	}
	switch {
	case b.Style == "none" || b.Style == "hidden":
		b.Width = 0
	case width >= 0:
		b.Width = width
	case b.Style != "" || b.HasColor:
		b.Width = 1
	}
	return b
}

// Fields splits css value on whitespace outside of parentheses, so
// "1px solid rgb(0, 0, 0)" has three fields.
func Fields(s string) []string {
	var (
		parts []string
		depth int
		start = -1
	)
	for i, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case (r == ' ' || r == '\t' || r == '\n') && depth == 0:
			if start >= 0 {
				parts = append(parts, s[start:i])
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		parts = append(parts, s[start:])
	}
	return parts
}
