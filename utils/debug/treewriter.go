// Package debug produces human readable dumps of trees.
package debug

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// TreeWriter accumulates indented lines of a tree dump.
type TreeWriter struct {
	sb     strings.Builder
	indent string
	limit  int
}

// Option configures TreeWriter.
type Option func(*TreeWriter)

// WithIndent sets string repeated once per depth level, two spaces by
// default.
func WithIndent(indent string) Option {
	return func(tw *TreeWriter) {
		tw.indent = indent
	}
}

// WithTextLimit cuts text values longer than n runes, 0 keeps them whole.
func WithTextLimit(n int) Option {
	return func(tw *TreeWriter) {
		tw.limit = max(0, n)
	}
}

func NewTreeWriter(opts ...Option) *TreeWriter {
	tw := &TreeWriter{indent: "  "}
	for _, o := range opts {
		o(tw)
	}
	return tw
}

func (tw *TreeWriter) String() string {
	return tw.sb.String()
}

// WriteTo implements io.WriterTo.
func (tw *TreeWriter) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, tw.sb.String())
	return int64(n), err
}

func (tw *TreeWriter) pad(depth int) {
	for range depth {
		tw.sb.WriteString(tw.indent)
	}
}

// Line writes formatted line at depth.
func (tw *TreeWriter) Line(depth int, format string, args ...any) {
	tw.pad(depth)
	fmt.Fprintf(&tw.sb, format, args...)
	tw.sb.WriteByte('\n')
}

// Text writes labeled quoted text at depth, empty value is written bare.
func (tw *TreeWriter) Text(depth int, label, value string) {
	tw.pad(depth)
	tw.sb.WriteString(label)
	tw.sb.WriteString(": ")
	tw.sb.WriteString(tw.quote(value))
	tw.sb.WriteByte('\n')
}

// Fields writes "key=value" pairs on a single line at depth. Pairs with zero
// values (empty string, 0, false, nil) are left out, line with no pairs left
// is not written.
func (tw *TreeWriter) Fields(depth int, kv ...any) {
	var parts []string
	for i := 0; i+1 < len(kv); i += 2 {
		var s string
		switch v := kv[i+1].(type) {
		case nil:
			continue
		case string:
			if v == "" {
				continue
			}
			s = tw.quote(v)
		case bool:
			if !v {
				continue
			}
			s = "true"
		case float64:
			if v == 0 {
				continue
			}
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			if v == 0 {
				continue
			}
			s = strconv.Itoa(v)
		default:
			s = fmt.Sprint(v)
		}
		parts = append(parts, fmt.Sprintf("%v=%s", kv[i], s))
	}
	if len(parts) == 0 {
		return
	}
	tw.Line(depth, "%s", strings.Join(parts, " "))
}

func (tw *TreeWriter) quote(raw string) string {
	if raw == "" {
		return raw
	}
	if r := []rune(raw); tw.limit > 0 && len(r) > tw.limit {
		raw = string(r[:tw.limit]) + "…"
	}
	return strconv.Quote(raw)
}
