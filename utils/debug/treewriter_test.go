package debug

import (
	"strings"
	"testing"
)

func TestTreeWriter_Line(t *testing.T) {
	tests := []struct {
		name   string
		depth  int
		format string
		args   []any
		want   string
	}{
		{"no depth", 0, "root", nil, "root\n"},
		{"depth 1", 1, "child", nil, "  child\n"},
		{"depth 2", 2, "grandchild", nil, "    grandchild\n"},
		{"with formatting", 1, "size %gx%g", []any{10.5, 20.0}, "  size 10.5x20\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter()
			tw.Line(tt.depth, tt.format, tt.args...)
			if got := tw.String(); got != tt.want {
				t.Errorf("Line() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Indent(t *testing.T) {
	tw := NewTreeWriter(WithIndent("|\t"))
	tw.Line(2, "x")
	if got, want := tw.String(), "|\t|\tx\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTreeWriter_Text(t *testing.T) {
	tests := []struct {
		name  string
		limit int
		value string
		want  string
	}{
		{"empty", 0, "", "  text: \n"},
		{"plain", 0, "hello world", "  text: \"hello world\"\n"},
		{"quotes", 0, `say "hi"`, "  text: \"say \\\"hi\\\"\"\n"},
		{"newline", 0, "a\nb", "  text: \"a\\nb\"\n"},
		{"limited", 5, "hello world", "  text: \"hello…\"\n"},
		{"under limit", 20, "hello", "  text: \"hello\"\n"},
		{"runes", 2, "привет", "  text: \"пр…\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tw := NewTreeWriter(WithTextLimit(tt.limit))
			tw.Text(1, "text", tt.value)
			if got := tw.String(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTreeWriter_Fields(t *testing.T) {
	tw := NewTreeWriter()
	tw.Fields(1, "gap", 8.0, "mode", "FLEX", "empty", "", "zero", 0.0, "on", true, "off", false, "n", 3, "none", nil)
	tw.Fields(1, "only", "")

	if got, want := tw.String(), "  gap=8 mode=\"FLEX\" on=true n=3\n"; got != want {
		t.Errorf("Fields() = %q, want %q", got, want)
	}
}

func TestTreeWriter_WriteTo(t *testing.T) {
	tw := NewTreeWriter()
	tw.Line(0, "root")
	tw.Line(1, "child")

	var sb strings.Builder
	n, err := tw.WriteTo(&sb)
	if err != nil {
		t.Fatalf("WriteTo() error = %v", err)
	}
	if n != int64(len(tw.String())) || sb.String() != "root\n  child\n" {
		t.Errorf("WriteTo() wrote %d bytes %q", n, sb.String())
	}
}
