package design

import (
	"strings"
	"sync"

	"github.com/gosimple/slug"
	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"

	"h2d/markup"
)

// Words of element text used in layer names.
const labelWords = 4

var (
	splitterOnce sync.Once
	splitter     *sentences.DefaultSentenceTokenizer
)

// layerName makes readable layer name from tag and the most specific label
// element has: id, first class or beginning of its text.
func layerName(el *markup.Element) string {
	label := el.ID()
	if label == "" {
		if classes := el.Classes(); len(classes) > 0 {
			label = classes[0]
		}
	}
	if label == "" {
		label = textLabel(el.Text)
	}
	if name := slug.Make(el.Tag + " " + label); name != "" {
		return name
	}
	return el.Tag
}

func textLayerName(text string) string {
	if name := slug.Make(textLabel(text)); name != "" {
		return name
	}
	return "text"
}

// textLabel returns first words of the first sentence of text.
func textLabel(text string) string {
	return firstWords(firstSentence(text), labelWords)
}

func firstSentence(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}
	splitterOnce.Do(func() {
		// english model is compiled in, error means broken build
		if t, err := english.NewSentenceTokenizer(nil); err == nil {
			splitter = t
		}
	})
	if splitter == nil {
		return text
	}
	for _, s := range splitter.Tokenize(text) {
		if first := strings.TrimSpace(s.Text); first != "" {
			return first
		}
	}
	return text
}

func firstWords(text string, n int) string {
	words := strings.Fields(text)
	if len(words) > n {
		words = words[:n]
	}
	return strings.Join(words, " ")
}
