package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var (
	commentPattern = regexp.MustCompile(`(?s)<!--.*?-->`)
	scriptPattern  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	stylePattern   = regexp.MustCompile(`(?is)<style\b[^>]*>.*?</style\s*>`)
	bodyPattern    = regexp.MustCompile(`(?is)<body\b[^>]*>(.*)</body\s*>`)
	bodyOpen       = regexp.MustCompile(`(?is)<body\b[^>]*>`)
	openTagPattern = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9-]*)((?:[^>"']|"[^"]*"|'[^']*')*?)(/?)>`)
	tagPattern     = regexp.MustCompile(`<[^>]*>`)
	spacePattern   = regexp.MustCompile(`\s+`)
)

// elements which never have content and are often written without "/>".
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true, "wbr": true,
}

// Scanner extracts element tree from html text.
type Scanner struct {
	// MaxDepth limits nesting, 0 means no limit. Elements at the limit keep
	// their text but children are not scanned.
	MaxDepth int
}

// Parse scans document without nesting limit.
func Parse(doc string) []*Element {
	return (&Scanner{}).Parse(doc)
}

// Scan scans fragment without nesting limit.
func Scan(fragment string) []*Element {
	return (&Scanner{}).Scan(fragment)
}

// Parse returns top level elements of the document. When document has <body>
// only its content is considered.
func (s *Scanner) Parse(doc string) []*Element {
	return s.Scan(Body(Clean(doc)))
}

// Scan returns elements found at the top level of the fragment, recursing into
// each element content for its children.
func (s *Scanner) Scan(fragment string) []*Element {
	elements, _ := s.scan(fragment, 1)
	return elements
}

// Clean removes comments, scripts and style blocks.
func Clean(doc string) string {
	doc = commentPattern.ReplaceAllString(doc, "")
	doc = scriptPattern.ReplaceAllString(doc, "")
	return stylePattern.ReplaceAllString(doc, "")
}

// Body returns content of <body> element, or the whole text if there is none.
func Body(doc string) string {
	if m := bodyPattern.FindStringSubmatch(doc); m != nil {
		return m[1]
	}
	if loc := bodyOpen.FindStringIndex(doc); loc != nil {
		// unclosed body
		return doc[loc[1]:]
	}
	return doc
}

// scan returns elements of a single nesting level and the fragment text which
// does not belong to any of them.
func (s *Scanner) scan(fragment string, depth int) ([]*Element, string) {
	var (
		elements []*Element
		loose    strings.Builder
		lower    = asciiLower(fragment)
		pos      int
	)

	for pos < len(fragment) {
		m := openTagPattern.FindStringSubmatchIndex(fragment[pos:])
		if m == nil {
			break
		}
		start, openEnd := pos+m[0], pos+m[1]
		name := strings.ToLower(fragment[pos+m[2] : pos+m[3]])
		attrs := fragment[pos+m[4] : pos+m[5]]
		selfClosing := m[7] > m[6] || voidElements[name]

		var inner string
		end := openEnd
		if !selfClosing {
			closeStart, closeEnd := findClose(lower, name, openEnd)
			if closeStart < 0 {
				// no partner, content of the tag becomes siblings
				loose.WriteString(fragment[pos:start])
				pos = openEnd
				continue
			}
			inner, end = fragment[openEnd:closeStart], closeEnd
		}
		loose.WriteString(fragment[pos:start])
		pos = end

		if name == "script" || name == "style" {
			continue
		}

		el := &Element{
			Tag:   name,
			Attrs: ParseAttributes(attrs),
			Text:  TextOf(inner),
		}
		if inner != "" {
			if s.MaxDepth > 0 && depth >= s.MaxDepth {
				el.Truncated = openTagPattern.MatchString(inner)
			} else {
				var own string
				el.Children, own = s.scan(inner, depth+1)
				el.ownText = TextOf(own)
			}
		}
		elements = append(elements, el)
	}
	if pos < len(fragment) {
		loose.WriteString(fragment[pos:])
	}
	return elements, loose.String()
}

// findClose locates the first closing tag for name at or after from. Search
// is done in asciiLower copy of the fragment, so returned offsets are valid
// for the original.
func findClose(lower, name string, from int) (int, int) {
	needle := "</" + name
	for from < len(lower) {
		idx := strings.Index(lower[from:], needle)
		if idx < 0 {
			return -1, -1
		}
		start := from + idx
		i := start + len(needle)
		for i < len(lower) && isSpace(lower[i]) {
			i++
		}
		if i < len(lower) && lower[i] == '>' {
			return start, i + 1
		}
		// "</divx>" or similar - keep looking
		from = start + len(needle)
	}
	return -1, -1
}

// asciiLower lowercases ASCII letters only. Unlike strings.ToLower it never
// changes byte length, tag names are ASCII anyway.
func asciiLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if 'A' <= c && c <= 'Z' {
			b[i] = c + 'a' - 'A'
		}
	}
	return string(b)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// TextOf strips all tags from html fragment, decodes character references and
// collapses whitespace.
func TextOf(fragment string) string {
	if fragment == "" {
		return ""
	}
	text := tagPattern.ReplaceAllString(fragment, "")
	text = html.UnescapeString(text)
	return strings.TrimSpace(spacePattern.ReplaceAllString(text, " "))
}
