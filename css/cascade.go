package css

import (
	"h2d/markup"
)

// Resolve computes effective style of element. Sources are overlaid per
// property in order of increasing precedence:
//
//	*
//	tag
//	.class for every class in attribute order, each followed by compound
//	  class selectors (.a.b) satisfied by the element classes
//	#id
//	tag:hover (there is no interaction state, hover rules always apply)
//	descendant chains of tag names ending with element tag (ancestors are
//	  not checked)
//	inline style attribute
//
// Selectors mixing kinds (div.card, .card:hover) never match. Resolve does not
// modify its arguments and returns a fresh map every time.
func Resolve(el *markup.Element, rules *RuleSet) Style {
	st := make(Style)
	if el == nil {
		return st
	}

	apply := func(selector string) {
		if props, ok := rules.Lookup(selector); ok {
			st.overlay(props)
		}
	}

	apply("*")
	apply(el.Tag)

	classes := el.Classes()
	for _, class := range classes {
		apply("." + class)
		for _, rule := range rules.Rules() {
			if sc := compoundClasses(rule.Selector); sc != nil && matchesCompound(classes, sc) {
				st.overlay(rule.Properties)
			}
		}
	}

	if id := el.ID(); id != "" {
		apply("#" + id)
	}

	apply(el.Tag + ":hover")

	for _, rule := range rules.Rules() {
		if isLooseDescendant(rule.Selector) && lastToken(rule.Selector) == el.Tag {
			st.overlay(rule.Properties)
		}
	}

	if inline, ok := el.Attr("style"); ok {
		st.overlay(ParseDeclarations(inline))
	}
	return st
}
