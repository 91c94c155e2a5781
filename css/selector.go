package css

import (
	"slices"
	"strings"
)

// compoundClasses returns class names of a compound class selector (".a.b").
// Selector must consist of dot separated class names only and have at least
// two of them, otherwise nil is returned.
func compoundClasses(selector string) []string {
	if !strings.HasPrefix(selector, ".") || strings.ContainsAny(selector, " #:[>+~*") {
		return nil
	}
	parts := strings.Split(selector[1:], ".")
	if len(parts) < 2 || slices.Contains(parts, "") {
		return nil
	}
	return parts
}

// matchesCompound reports whether all classes of compound selector are
// present among element classes regardless of their order.
func matchesCompound(classes, selectorClasses []string) bool {
	for _, c := range selectorClasses {
		if !slices.Contains(classes, c) {
			return false
		}
	}
	return true
}

// isLooseDescendant reports whether selector is a descendant chain made of
// tag names only ("nav ul li").
func isLooseDescendant(selector string) bool {
	return strings.Contains(selector, " ") && !strings.ContainsAny(selector, ".#")
}

// lastToken returns the last space separated token of selector.
func lastToken(selector string) string {
	if i := strings.LastIndexByte(selector, ' '); i >= 0 {
		return selector[i+1:]
	}
	return selector
}
