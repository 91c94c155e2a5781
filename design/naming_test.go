package design

import (
	"testing"

	"h2d/markup"
)

func TestTextLayerName(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Hello world", "hello-world"},
		{"Short one. Then a much longer second sentence follows.", "short-one"},
		{"One two three four five six", "one-two-three-four"},
		{"   ", "text"},
		{"!!!", "text"},
	}
	for _, tt := range tests {
		if got := textLayerName(tt.text); got != tt.want {
			t.Errorf("textLayerName(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}

func TestLayerName(t *testing.T) {
	tests := []struct {
		name string
		el   *markup.Element
		want string
	}{
		{"id wins", &markup.Element{Tag: "div", Attrs: map[string]string{"id": "Main", "class": "card"}}, "div-main"},
		{"first class", &markup.Element{Tag: "section", Attrs: map[string]string{"class": "hero wide"}}, "section-hero"},
		{"text", &markup.Element{Tag: "p", Text: "Welcome home. Stay a while."}, "p-welcome-home"},
		{"bare tag", &markup.Element{Tag: "div"}, "div"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := layerName(tt.el); got != tt.want {
				t.Errorf("layerName() = %q, want %q", got, tt.want)
			}
		})
	}
}
