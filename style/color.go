package style

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RGB is a color with channels in [0,1].
type RGB struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// Hex returns color as #rrggbb.
func (c RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", channel8(c.R), channel8(c.G), channel8(c.B))
}

// RGBA8 returns 8 bit channels.
func (c RGB) RGBA8() (r, g, b uint8) {
	return channel8(c.R), channel8(c.G), channel8(c.B)
}

func channel8(v float64) uint8 {
	return uint8(math.Round(clamp01(v) * 255))
}

func rgb8(r, g, b int) RGB {
	return RGB{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

// transparent is mapped to white: nodes are painted on white canvas and there
// is no alpha in RGB.
var namedColors = map[string]RGB{
	"black":       rgb8(0, 0, 0),
	"white":       rgb8(255, 255, 255),
	"red":         rgb8(255, 0, 0),
	"green":       rgb8(0, 128, 0),
	"blue":        rgb8(0, 0, 255),
	"yellow":      rgb8(255, 255, 0),
	"orange":      rgb8(255, 165, 0),
	"purple":      rgb8(128, 0, 128),
	"pink":        rgb8(255, 192, 203),
	"brown":       rgb8(165, 42, 42),
	"gray":        rgb8(128, 128, 128),
	"grey":        rgb8(128, 128, 128),
	"lightgray":   rgb8(211, 211, 211),
	"lightgrey":   rgb8(211, 211, 211),
	"darkgray":    rgb8(169, 169, 169),
	"darkgrey":    rgb8(169, 169, 169),
	"silver":      rgb8(192, 192, 192),
	"maroon":      rgb8(128, 0, 0),
	"navy":        rgb8(0, 0, 128),
	"teal":        rgb8(0, 128, 128),
	"olive":       rgb8(128, 128, 0),
	"lime":        rgb8(0, 255, 0),
	"aqua":        rgb8(0, 255, 255),
	"cyan":        rgb8(0, 255, 255),
	"fuchsia":     rgb8(255, 0, 255),
	"magenta":     rgb8(255, 0, 255),
	"indigo":      rgb8(75, 0, 130),
	"violet":      rgb8(238, 130, 238),
	"gold":        rgb8(255, 215, 0),
	"transparent": rgb8(255, 255, 255),
}

// ParseColor parses css color. Supported forms are named colors, hex #rgb and
// #rrggbb with or without leading #, rgb()/rgba() and hsl()/hsla(); alpha is
// ignored. Anything else (gradients, currentColor, var()) is reported with
// ok == false, so callers can tell it from black.
func ParseColor(s string) (c RGB, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return RGB{}, false
	}
	if c, ok := namedColors[s]; ok {
		return c, true
	}

	switch {
	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		return parseRGBFunc(s)
	case strings.HasPrefix(s, "hsla(") || strings.HasPrefix(s, "hsl("):
		return parseHSLFunc(s)
	}
	return parseHex(strings.TrimPrefix(s, "#"))
}

func parseHex(hex string) (RGB, bool) {
	switch len(hex) {
	case 3:
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	case 6:
	default:
		return RGB{}, false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return RGB{}, false
	}
	return rgb8(int(v>>16&0xff), int(v>>8&0xff), int(v&0xff)), true
}

// funcArgs returns arguments of css color function, both comma and space
// separated notations are accepted, "/ alpha" is dropped.
func funcArgs(s string) ([]string, bool) {
	open, end := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
	if open < 0 || end < open {
		return nil, false
	}
	inner := s[open+1 : end]
	if i := strings.IndexByte(inner, '/'); i >= 0 {
		inner = inner[:i]
	}
	args := strings.Fields(strings.ReplaceAll(inner, ",", " "))
	if len(args) < 3 {
		return nil, false
	}
	return args, true
}

func parseRGBFunc(s string) (RGB, bool) {
	args, ok := funcArgs(s)
	if !ok {
		return RGB{}, false
	}
	var ch [3]float64
	for i := range ch {
		a := args[i]
		pct := strings.HasSuffix(a, "%")
		v, err := strconv.ParseFloat(strings.TrimSuffix(a, "%"), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return RGB{}, false
		}
		if pct {
			ch[i] = clamp01(v / 100)
		} else {
			ch[i] = clamp01(v / 255)
		}
	}
	return RGB{R: ch[0], G: ch[1], B: ch[2]}, true
}

func parseHSLFunc(s string) (RGB, bool) {
	args, ok := funcArgs(s)
	if !ok {
		return RGB{}, false
	}
	h, err := strconv.ParseFloat(strings.TrimSuffix(args[0], "deg"), 64)
	if err != nil || math.IsNaN(h) || math.IsInf(h, 0) {
		return RGB{}, false
	}
	sat, ok1 := percent(args[1])
	light, ok2 := percent(args[2])
	if !ok1 || !ok2 {
		return RGB{}, false
	}
	return hslToRGB(h, sat, light), true
}

func percent(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "%"), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return clamp01(v / 100), true
}

// hslToRGB converts hue in degrees, saturation and lightness in [0,1].
func hslToRGB(h, s, l float64) RGB {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	h /= 360

	if s == 0 {
		return RGB{R: l, G: l, B: l}
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	return RGB{
		R: hueToRGB(p, q, h+1.0/3),
		G: hueToRGB(p, q, h),
		B: hueToRGB(p, q, h-1.0/3),
	}
}

func hueToRGB(p, q, t float64) float64 {
	if t < 0 {
		t++
	}
	if t > 1 {
		t--
	}
	switch {
	case t < 1.0/6:
		return p + (q-p)*6*t
	case t < 1.0/2:
		return q
	case t < 2.0/3:
		return p + (q-p)*(2.0/3-t)*6
	}
	return p
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
