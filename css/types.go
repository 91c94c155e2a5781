// Package css extracts style rules from html documents and computes effective
// style of elements.
//
// Selectors are kept as plain strings and matched by text, there is no
// selector tree and no specificity calculation: precedence is fixed by the
// kind of selector (see Resolve).
package css

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Rule is a single selector with its declarations.
type Rule struct {
	Selector   string
	Properties map[string]string
}

// RuleSet keeps rules keyed by selector in order of first appearance. Adding
// a rule for a selector which is already known replaces previous declarations
// completely, merging happens only during cascade.
type RuleSet struct {
	rules    []Rule
	index    map[string]int
	Warnings []string // unsupported constructs met while parsing
}

// NewRuleSet returns empty rule set.
func NewRuleSet() *RuleSet {
	return &RuleSet{index: make(map[string]int)}
}

// Add stores declarations for selector replacing earlier ones.
func (rs *RuleSet) Add(selector string, props map[string]string) {
	if rs.index == nil {
		rs.index = make(map[string]int)
	}
	props = maps.Clone(props)
	if props == nil {
		props = map[string]string{}
	}
	if i, ok := rs.index[selector]; ok {
		rs.rules[i].Properties = props
		return
	}
	rs.index[selector] = len(rs.rules)
	rs.rules = append(rs.rules, Rule{Selector: selector, Properties: props})
}

// Lookup returns declarations stored for selector.
func (rs *RuleSet) Lookup(selector string) (map[string]string, bool) {
	if rs == nil {
		return nil, false
	}
	i, ok := rs.index[selector]
	if !ok {
		return nil, false
	}
	return rs.rules[i].Properties, true
}

// Rules returns all rules in order. Returned slice must not be modified.
func (rs *RuleSet) Rules() []Rule {
	if rs == nil {
		return nil
	}
	return rs.rules
}

// Len returns number of distinct selectors.
func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.rules)
}

// WriteTo writes rule set as css text in rule order, implementing io.WriterTo.
// Property order within a rule is sorted for deterministic output.
func (rs *RuleSet) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for i, rule := range rs.Rules() {
		if i > 0 {
			n, err := fmt.Fprint(w, "\n")
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err := fmt.Fprintf(w, "%s {\n", rule.Selector)
		total += int64(n)
		if err != nil {
			return total, err
		}
		for _, name := range slices.Sorted(maps.Keys(rule.Properties)) {
			n, err = fmt.Fprintf(w, "  %s: %s;\n", name, rule.Properties[name])
			total += int64(n)
			if err != nil {
				return total, err
			}
		}
		n, err = fmt.Fprint(w, "}\n")
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// String returns css text of the rule set.
func (rs *RuleSet) String() string {
	var sb strings.Builder
	rs.WriteTo(&sb) //nolint:errcheck
	return sb.String()
}

// Style is effective style of a single element: property name to raw value.
type Style map[string]string

// Get returns value of property or fallback when property is absent or empty.
func (s Style) Get(name, fallback string) string {
	if v, ok := s[name]; ok && v != "" {
		return v
	}
	return fallback
}

// Has reports whether property is set.
func (s Style) Has(name string) bool {
	v, ok := s[name]
	return ok && v != ""
}

// overlay copies every property of src into s.
func (s Style) overlay(src map[string]string) {
	maps.Copy(s, src)
}
