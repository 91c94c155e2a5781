package css_test

import (
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"h2d/css"
)

func TestExtractStyleBlocks(t *testing.T) {
	doc := `<html><head>
<STYLE type="text/css">p { color: red; }</STYLE>
</head><body><style>.a { margin: 0 }</style><p>x</p></body></html>`

	blocks := css.ExtractStyleBlocks(doc)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if !strings.Contains(blocks[0], "color: red") {
		t.Errorf("first block = %q", blocks[0])
	}
	if !strings.Contains(blocks[1], ".a") {
		t.Errorf("second block = %q", blocks[1])
	}
}

func TestParser_Basic(t *testing.T) {
	p := css.NewParser(zap.NewNop())

	rs := p.Parse([]byte(`
		div { color: blue; padding: 8px 16px; }
		.card{COLOR:Green;margin:0}
		#main { width: 100% }
	`))

	if rs.Len() != 3 {
		t.Fatalf("got %d rules, want 3:\n%s", rs.Len(), rs)
	}

	tests := []struct {
		selector string
		prop     string
		want     string
	}{
		{"div", "color", "blue"},
		{"div", "padding", "8px 16px"},
		{".card", "color", "Green"},
		{".card", "margin", "0"},
		{"#main", "width", "100%"},
	}
	for _, tt := range tests {
		props, ok := rs.Lookup(tt.selector)
		if !ok {
			t.Errorf("selector %q not found", tt.selector)
			continue
		}
		if got := props[tt.prop]; got != tt.want {
			t.Errorf("%s { %s } = %q, want %q", tt.selector, tt.prop, got, tt.want)
		}
	}
}

func TestParser_RuleOrder(t *testing.T) {
	p := css.NewParser(nil)
	rs := p.Parse([]byte(`b { x: 1 } a { x: 2 } c { x: 3 }`))

	var got []string
	for _, r := range rs.Rules() {
		got = append(got, r.Selector)
	}
	if want := []string{"b", "a", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestParser_SameSelectorReplaces(t *testing.T) {
	p := css.NewParser(nil)
	rs := p.Parse([]byte(`
		p { color: red; margin: 4px }
		h1 { color: black }
		p { padding: 2px }
	`))

	props, ok := rs.Lookup("p")
	if !ok {
		t.Fatal("selector p not found")
	}
	if want := map[string]string{"padding": "2px"}; !reflect.DeepEqual(props, want) {
		t.Errorf("p = %v, want %v (full replacement)", props, want)
	}
	if first := rs.Rules()[0].Selector; first != "p" {
		t.Errorf("replaced rule moved, first selector = %q", first)
	}
}

func TestParser_GroupedSelectors(t *testing.T) {
	p := css.NewParser(nil)
	rs := p.Parse([]byte(`h1, h2 ,  nav   ul li { font-weight: bold }`))

	for _, sel := range []string{"h1", "h2", "nav ul li"} {
		props, ok := rs.Lookup(sel)
		if !ok {
			t.Errorf("selector %q not found, have:\n%s", sel, rs)
			continue
		}
		if props["font-weight"] != "bold" {
			t.Errorf("%s font-weight = %q", sel, props["font-weight"])
		}
	}
}

func TestParser_ComplexValues(t *testing.T) {
	p := css.NewParser(nil)
	rs := p.Parse([]byte(`
		.x {
			box-shadow: 0px 4px 6px rgba(0, 0, 0, 0.1);
			background: hsl(210, 50%, 40%) !important;
			font-family: "Inter", sans-serif;
		}
	`))

	props, ok := rs.Lookup(".x")
	if !ok {
		t.Fatal(".x not found")
	}
	if got := props["box-shadow"]; !strings.HasPrefix(got, "0px 4px 6px rgba(") {
		t.Errorf("box-shadow = %q", got)
	}
	if got := props["background"]; strings.Contains(got, "important") || !strings.HasPrefix(got, "hsl(") {
		t.Errorf("background = %q", got)
	}
	if got := props["font-family"]; !strings.Contains(got, "Inter") {
		t.Errorf("font-family = %q", got)
	}
}

func TestParser_AtRulesSkipped(t *testing.T) {
	p := css.NewParser(nil)
	rs := p.Parse([]byte(`
		@import url("x.css");
		@media (max-width: 600px) { p { color: red } .a { color: blue } }
		p { color: green }
		@font-face { font-family: X; src: url(x.woff) }
	`))

	props, ok := rs.Lookup("p")
	if !ok || props["color"] != "green" {
		t.Errorf("p = %v, want color green", props)
	}
	if _, ok := rs.Lookup(".a"); ok {
		t.Error("rule inside @media must be skipped")
	}
	if len(rs.Warnings) < 3 {
		t.Errorf("got %d warnings, want at least 3: %v", len(rs.Warnings), rs.Warnings)
	}
}

func TestParser_Malformed(t *testing.T) {
	inputs := []string{
		"",
		"{}",
		"p { color }",
		"p { : red }",
		"p { color: red",
		"}}}} p { color: red }",
		"@media {",
		"p { color: red;;; margin: 0 }",
	}
	p := css.NewParser(nil)
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			rs := p.Parse([]byte(in))
			for _, r := range rs.Rules() {
				for name, value := range r.Properties {
					if name == "" || value == "" {
						t.Errorf("empty declaration kept in %q: %q=%q", r.Selector, name, value)
					}
				}
			}
		})
	}
}

func TestParseDocument(t *testing.T) {
	p := css.NewParser(nil)
	rs := p.ParseDocument(`<style>p { color: red }</style><div></div><style>p { margin: 0 } div { x: 1 }</style>`)

	props, _ := rs.Lookup("p")
	if want := map[string]string{"margin": "0"}; !reflect.DeepEqual(props, want) {
		t.Errorf("p = %v, want %v", props, want)
	}
	if rs.Len() != 2 {
		t.Errorf("got %d rules, want 2", rs.Len())
	}
}

func TestParseDeclarations(t *testing.T) {
	tests := []struct {
		in   string
		want map[string]string
	}{
		{"", map[string]string{}},
		{"color:red", map[string]string{"color": "red"}},
		{" Display : flex ; gap: 8px ", map[string]string{"display": "flex", "gap": "8px"}},
		{"color: red; color: blue", map[string]string{"color": "blue"}},
		{"width: 10px !important", map[string]string{"width": "10px"}},
		{"nonsense; height: 4px", map[string]string{"height": "4px"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := css.ParseDeclarations(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseDeclarations(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestRuleSet_String(t *testing.T) {
	rs := css.NewRuleSet()
	rs.Add("p", map[string]string{"margin": "0", "color": "red"})
	rs.Add(".a", nil)

	want := "p {\n  color: red;\n  margin: 0;\n}\n\n.a {\n}\n"
	if got := rs.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestRuleSet_AddClones(t *testing.T) {
	props := map[string]string{"color": "red"}
	rs := css.NewRuleSet()
	rs.Add("p", props)
	props["color"] = "blue"

	got, _ := rs.Lookup("p")
	if got["color"] != "red" {
		t.Errorf("stored rule changed through caller map: %v", got)
	}
}

func TestStyle_Get(t *testing.T) {
	s := css.Style{"color": "red", "margin": ""}
	if got := s.Get("color", "black"); got != "red" {
		t.Errorf("Get(color) = %q", got)
	}
	if got := s.Get("margin", "4px"); got != "4px" {
		t.Errorf("Get(margin) = %q, want fallback", got)
	}
	if s.Has("margin") || s.Has("padding") || !s.Has("color") {
		t.Error("Has() mismatch")
	}
}
