// Package compiler turns html documents into design trees.
package compiler

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"h2d/config"
	"h2d/css"
	"h2d/design"
	"h2d/layout"
	"h2d/markup"
)

var (
	// ErrEmptyInput is returned for blank documents.
	ErrEmptyInput = errors.New("empty html document")
	// ErrNoElements is returned when document has no elements to convert.
	ErrNoElements = errors.New("no elements found in html document")
	// ErrNoElementsSurvived is returned when every element failed conversion.
	ErrNoElementsSurvived = errors.New("no elements survived conversion")
)

// Result is compiled design tree with non fatal problems found on the way.
type Result struct {
	Root     *design.Node `json:"root" yaml:"root"`
	Warnings []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	// Rules is number of distinct css selectors found.
	Rules int `json:"rules" yaml:"rules"`
	// Elements is number of html elements scanned.
	Elements int `json:"elements" yaml:"elements"`

	rules *css.RuleSet
}

// RuleSet returns style rules document was compiled with.
func (r *Result) RuleSet() *css.RuleSet {
	return r.rules
}

// Compiler runs scanning, cascade, emitting and layout in sequence.
type Compiler struct {
	cfg *config.CompilerConfig
	log *zap.Logger
}

// New creates compiler, nil cfg means compiled in defaults.
func New(cfg *config.CompilerConfig, log *zap.Logger) *Compiler {
	if cfg == nil {
		cfg = config.Defaults()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Compiler{cfg: cfg, log: log}
}

// Compile converts html text into design tree. Several top level elements are
// wrapped into synthetic body container. Context is checked between top level
// elements only.
func (c *Compiler) Compile(ctx context.Context, html string) (*Result, error) {
	if strings.TrimSpace(html) == "" {
		return nil, ErrEmptyInput
	}

	res := &Result{}

	parser := css.NewParser(c.log)
	res.rules = parser.ParseDocument(html)
	res.Rules = res.rules.Len()
	res.Warnings = append(res.Warnings, res.rules.Warnings...)

	elements, err := c.scan(html)
	if err != nil {
		return nil, err
	}
	if len(elements) == 0 {
		return nil, ErrNoElements
	}
	for _, el := range elements {
		el.Walk(func(e *markup.Element, _ int) bool {
			res.Elements++
			if e.Truncated {
				res.Warnings = append(res.Warnings, fmt.Sprintf("element <%s> nested deeper than %d levels, children ignored", e.Tag, c.cfg.MaxDepth))
			}
			return true
		})
	}
	c.log.Debug("Document scanned", zap.Int("top", len(elements)), zap.Int("elements", res.Elements), zap.Int("rules", res.Rules))

	nodes, errs := design.NewEmitter(c.cfg, c.log).Emit(ctx, elements, res.rules)
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("compilation interrupted: %w", err)
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: %d element(s) failed: %w", ErrNoElementsSurvived, len(multierr.Errors(errs)), errs)
	}

	root, synthetic := nodes[0], len(nodes) > 1
	if synthetic {
		root = syntheticRoot(nodes)
	}

	survivors, err := layout.NewTranslator(c.cfg, c.log).Layout([]*design.Node{root})
	errs = multierr.Append(errs, err)
	if len(survivors) == 0 || (synthetic && len(root.Children) == 0) {
		return nil, fmt.Errorf("%w: %w", ErrNoElementsSurvived, errs)
	}
	res.Root = survivors[0]

	for _, e := range multierr.Errors(errs) {
		res.Warnings = append(res.Warnings, e.Error())
	}
	return res, nil
}

// scan extracts element tree. Scanner failure on a malformed document is
// reported as absence of elements instead of crashing the caller.
func (c *Compiler) scan(html string) (elements []*markup.Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error("Document scanning failed", zap.Any("panic", r))
			elements, err = nil, fmt.Errorf("%w: scanning failed: %v", ErrNoElements, r)
		}
	}()
	scanner := &markup.Scanner{MaxDepth: c.cfg.MaxDepth}
	return scanner.Parse(html), nil
}

const syntheticTag = "body"

func syntheticRoot(children []*design.Node) *design.Node {
	return &design.Node{
		ID:       design.NodeID("", syntheticTag),
		Name:     "body",
		Tag:      syntheticTag,
		Variant:  design.Container,
		Layout:   design.Layout{Mode: design.Manual},
		Style:    design.ResolvedStyle{Opacity: 1},
		Children: children,
		CSS:      css.Style{},
	}
}
