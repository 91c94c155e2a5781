package markup

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var attrPattern = regexp.MustCompile(`([^\s"'>/=]+)(?:\s*=\s*(?:"([^"]*)"|'([^']*)'|([^\s"'=<>` + "`" + `]+)))?`)

// ParseAttributes converts raw attribute text of an opening tag into a map.
// Names are lowercased, the last occurrence of a name wins, attributes without
// value (disabled, checked) map to empty string. Character references in
// values are decoded.
func ParseAttributes(raw string) map[string]string {
	attrs := make(map[string]string)
	for _, m := range attrPattern.FindAllStringSubmatch(raw, -1) {
		name := strings.ToLower(m[1])
		var value string
		switch {
		case m[2] != "":
			value = m[2]
		case m[3] != "":
			value = m[3]
		default:
			value = m[4]
		}
		attrs[name] = html.UnescapeString(value)
	}
	return attrs
}
