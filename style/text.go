package style

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Weight is font weight understood by design surface.
type Weight string

const (
	Regular Weight = "Regular"
	Medium  Weight = "Medium"
	Bold    Weight = "Bold"
)

// ParseFontWeight maps css font-weight to Weight, ok is false for empty or
// unknown values.
func ParseFontWeight(s string) (Weight, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "bold", "bolder":
		return Bold, true
	case "normal", "lighter":
		return Regular, true
	case "medium":
		return Medium, true
	}
	w, err := strconv.Atoi(s)
	if err != nil || w <= 0 {
		return "", false
	}
	switch {
	case w >= 600:
		return Bold, true
	case w >= 500:
		return Medium, true
	default:
		return Regular, true
	}
}

// Align is horizontal text alignment.
type Align string

const (
	AlignLeft    Align = "LEFT"
	AlignCenter  Align = "CENTER"
	AlignRight   Align = "RIGHT"
	AlignJustify Align = "JUSTIFIED"
)

// ParseTextAlign maps css text-align, unknown values are left aligned.
func ParseTextAlign(s string) Align {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "center":
		return AlignCenter
	case "right", "end":
		return AlignRight
	case "justify":
		return AlignJustify
	}
	return AlignLeft
}

// ApplyTextTransform applies css text-transform to text.
func ApplyTextTransform(text, transform string) string {
	switch strings.ToLower(strings.TrimSpace(transform)) {
	case "uppercase":
		return cases.Upper(language.Und).String(text)
	case "lowercase":
		return cases.Lower(language.Und).String(text)
	case "capitalize":
		return cases.Title(language.Und, cases.NoLower).String(text)
	}
	return text
}

// ParseLetterSpacing returns letter spacing in pixels, "normal" is 0.
func ParseLetterSpacing(s string, fontSize float64) float64 {
	s = strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(s, "em") && !strings.HasSuffix(s, "rem") {
		if v, err := strconv.ParseFloat(strings.TrimSuffix(s, "em"), 64); err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) {
			return clampLength(v * fontSize)
		}
		return 0
	}
	return ParseSize(s)
}

// Metrics of reference face, measurements are scaled from it linearly.
var (
	refFace    font.Face = basicfont.Face7x13
	refAdvance           = float64(font.MeasureString(refFace, "x").Round())
	refHeight            = float64(refFace.Metrics().Height.Round())
)

// Measure is text block size estimate.
type Measure struct {
	Width  float64
	Height float64
	Lines  int
}

// MeasureText estimates size of text set in fontSize with line height
// lineHeight (pixels) wrapped greedily at maxWidth. Zero maxWidth disables
// wrapping. Real glyph metrics belong to the renderer, which is free to reflow.
func MeasureText(text string, fontSize, lineHeight, letterSpacing, maxWidth float64) Measure {
	if fontSize <= 0 {
		fontSize = BaseFontSize
	}
	if lineHeight <= 0 {
		lineHeight = fontSize * refHeight / 13
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return Measure{}
	}

	advance := fontSize*refAdvance/13 + letterSpacing
	if advance < 0 {
		advance = 0
	}
	wordWidth := func(w string) float64 {
		return float64(len([]rune(w))) * advance
	}
	space := advance

	var (
		lines     = 1
		lineWidth float64
		widest    float64
	)
	for i, w := range words {
		ww := wordWidth(w)
		switch {
		case i == 0:
			lineWidth = ww
		case maxWidth > 0 && lineWidth+space+ww > maxWidth:
			widest = math.Max(widest, lineWidth)
			lines++
			lineWidth = ww
		default:
			lineWidth += space + ww
		}
	}
	widest = math.Max(widest, lineWidth)
	if maxWidth > 0 {
		widest = math.Min(widest, maxWidth)
	}
	return Measure{Width: clampLength(math.Ceil(widest)), Height: clampLength(math.Ceil(float64(lines) * lineHeight)), Lines: lines}
}
