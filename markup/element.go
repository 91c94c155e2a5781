// Package markup turns html text into a tree of raw elements.
//
// Scanning is pattern based and intentionally forgiving: every opening tag is
// paired with the first following closing tag of the same name, so improperly
// nested elements with equal names (an unclosed <div> followed by a sibling
// <div>) are paired wrongly. Malformed input never causes an error, at worst
// nothing is found.
package markup

import "strings"

// Element is a single html element as found in the document.
type Element struct {
	Tag      string            // lowercase tag name
	Attrs    map[string]string // attributes, names lowercased
	Text     string            // inner text including text of nested elements
	Children []*Element

	// Truncated is set when element nesting was deeper than allowed and
	// children were not scanned.
	Truncated bool

	ownText string
}

// Attr returns attribute value and presence flag.
func (e *Element) Attr(name string) (string, bool) {
	if e == nil || e.Attrs == nil {
		return "", false
	}
	v, ok := e.Attrs[name]
	return v, ok
}

// ID returns value of id attribute.
func (e *Element) ID() string {
	v, _ := e.Attr("id")
	return strings.TrimSpace(v)
}

// Classes returns classes in the order they are listed in class attribute.
func (e *Element) Classes() []string {
	v, _ := e.Attr("class")
	return strings.Fields(v)
}

// HasClass reports whether element carries class name.
func (e *Element) HasClass(name string) bool {
	for _, c := range e.Classes() {
		if c == name {
			return true
		}
	}
	return false
}

// OwnText returns text which belongs to the element itself, excluding text of
// nested elements.
func (e *Element) OwnText() string {
	if len(e.Children) == 0 {
		return e.Text
	}
	return e.ownText
}

// Walk calls fn for element and all its descendants depth first, stopping
// descent when fn returns false.
func (e *Element) Walk(fn func(el *Element, depth int) bool) {
	e.walk(fn, 0)
}

func (e *Element) walk(fn func(el *Element, depth int) bool, depth int) {
	if !fn(e, depth) {
		return
	}
	for _, c := range e.Children {
		c.walk(fn, depth+1)
	}
}
