// Package style converts raw css value strings into numbers and structured
// values. All functions are total: unparsable input results in a documented
// fallback, never in a panic or error.
package style

import (
	"math"
	"strconv"
	"strings"
)

// BaseFontSize is the size 1em and 1rem resolve to.
const BaseFontSize = 16

// MaxLength bounds absolute value of every length in pixels, so arithmetic
// on results stays finite.
const MaxLength = 1e6

// unit multipliers to pixels, viewport units are rough approximations
var unitFactors = []struct {
	suffix string
	factor float64
}{
	// longer suffixes first, "rem" must be checked before "em"
	{"rem", BaseFontSize},
	{"em", BaseFontSize},
	{"px", 1},
	{"pt", 1.33},
	{"vh", 10},
	{"vw", 14},
	{"%", 1},
}

// ParseSize converts css length to pixels. Percentages are returned as is
// without resolving against any base. Unitless numbers are pixels. Empty or
// non-numeric input returns 0.
func ParseSize(s string) float64 {
	v, ok := parseLength(s)
	if !ok {
		return 0
	}
	return v
}

// parseLength returns pixel value and whether s was numeric.
func parseLength(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	factor := 1.0
	for _, u := range unitFactors {
		if strings.HasSuffix(s, u.suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, u.suffix))
			factor = u.factor
			break
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return clampLength(v * factor), true
}

// clampLength limits v to [-MaxLength, MaxLength], NaN becomes 0.
func clampLength(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(-MaxLength, math.Min(MaxLength, v))
}

var namedFontSizes = map[string]float64{
	"xx-small": 9,
	"x-small":  10,
	"small":    13,
	"medium":   16,
	"large":    18,
	"x-large":  24,
	"xx-large": 32,
	"smaller":  13,
	"larger":   18,
}

// ParseFontSize converts css font-size to pixels. Handles the same units as
// ParseSize and named sizes. Empty or unknown input returns BaseFontSize.
func ParseFontSize(s string) float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if v, ok := namedFontSizes[s]; ok {
		return v
	}
	if v, ok := parseLength(s); ok && v > 0 {
		return v
	}
	return BaseFontSize
}

// ParseBoxSides parses 1 to 4 value shorthand (padding, margin) into top,
// right, bottom and left pixel values.
func ParseBoxSides(s string) Sides {
	f := strings.Fields(s)
	v := make([]float64, len(f))
	for i := range f {
		v[i] = nonNegative(ParseSize(f[i]))
	}
	switch len(v) {
	case 0:
		return Sides{}
	case 1:
		return Sides{Top: v[0], Right: v[0], Bottom: v[0], Left: v[0]}
	case 2:
		return Sides{Top: v[0], Right: v[1], Bottom: v[0], Left: v[1]}
	case 3:
		return Sides{Top: v[0], Right: v[1], Bottom: v[2], Left: v[1]}
	default:
		return Sides{Top: v[0], Right: v[1], Bottom: v[2], Left: v[3]}
	}
}

// Sides holds per side pixel values.
type Sides struct {
	Top    float64 `json:"top" yaml:"top"`
	Right  float64 `json:"right" yaml:"right"`
	Bottom float64 `json:"bottom" yaml:"bottom"`
	Left   float64 `json:"left" yaml:"left"`
}

// Uniform returns sides all set to v.
func Uniform(v float64) Sides {
	return Sides{Top: v, Right: v, Bottom: v, Left: v}
}

// Horizontal returns sum of left and right.
func (s Sides) Horizontal() float64 { return s.Left + s.Right }

// Vertical returns sum of top and bottom.
func (s Sides) Vertical() float64 { return s.Top + s.Bottom }

// IsZero reports whether all sides are zero.
func (s Sides) IsZero() bool { return s == Sides{} }

// Corners holds corner radii in css order.
type Corners struct {
	TopLeft     float64 `json:"top_left" yaml:"top_left"`
	TopRight    float64 `json:"top_right" yaml:"top_right"`
	BottomRight float64 `json:"bottom_right" yaml:"bottom_right"`
	BottomLeft  float64 `json:"bottom_left" yaml:"bottom_left"`
}

// IsZero reports whether all radii are zero.
func (c Corners) IsZero() bool { return c == Corners{} }

// ParseCornerRadii parses border-radius shorthand. Elliptic radii ("a / b")
// use horizontal part only.
func ParseCornerRadii(s string) Corners {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	b := ParseBoxSides(s)
	// shorthand semantics are the same as for box sides, only naming differs
	return Corners{TopLeft: b.Top, TopRight: b.Right, BottomRight: b.Bottom, BottomLeft: b.Left}
}

// ParseOpacity parses opacity as number or percentage clamped to [0,1].
// Unparsable input returns 1.
func ParseOpacity(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1
	}
	pct := strings.HasSuffix(s, "%")
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || math.IsNaN(v) {
		return 1
	}
	if pct {
		v /= 100
	}
	return math.Max(0, math.Min(1, v))
}

// ParseLineHeight returns line height in pixels for given font size. Unitless
// numbers and percentages are multipliers, "normal" or garbage returns
// fallback multiplier.
func ParseLineHeight(s string, fontSize, fallback float64) float64 {
	return clampLength(lineHeight(s, fontSize, fallback))
}

func lineHeight(s string, fontSize, fallback float64) float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == "normal" {
		return fontSize * fallback
	}
	if strings.HasSuffix(s, "%") {
		if v, ok := parseLength(s); ok && v > 0 {
			return fontSize * v / 100
		}
		return fontSize * fallback
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v > 0 && !math.IsInf(v, 0) {
		return fontSize * v
	}
	if v, ok := parseLength(s); ok && v > 0 {
		return v
	}
	return fontSize * fallback
}

func nonNegative(v float64) float64 {
	if v < 0 || math.IsNaN(v) {
		return 0
	}
	return v
}
