package css

import (
	"errors"
	"io"
	"regexp"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

var (
	styleBlockPattern = regexp.MustCompile(`(?is)<style\b[^>]*>(.*?)</style\s*>`)
	importantPattern  = regexp.MustCompile(`(?i)\s*!\s*important\s*$`)
)

// ExtractStyleBlocks returns content of every <style> block in document order.
func ExtractStyleBlocks(doc string) []string {
	var blocks []string
	for _, m := range styleBlockPattern.FindAllStringSubmatch(doc, -1) {
		blocks = append(blocks, m[1])
	}
	return blocks
}

// Parser parses style sheets into rule sets.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

// ParseDocument collects all <style> blocks of html document and parses them
// as a single style sheet.
func (p *Parser) ParseDocument(doc string) *RuleSet {
	return p.Parse([]byte(strings.Join(ExtractStyleBlocks(doc), "\n")))
}

// Parse parses CSS text into a RuleSet.
// The optional source parameter identifies what's being parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) *RuleSet {
	rs := NewRuleSet()

	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	parser := css.NewParser(parse.NewInput(strings.NewReader(string(data))), false)

	// recoverable errors always consume input, this is a guard against
	// parser misbehaving on garbage
	budget := len(data) + 1

	for budget > 0 {
		gt, _, data := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if atEOF(parser) {
				return rs
			}
			budget--
			p.log.Debug("CSS parse error", zap.Error(parser.Err()))

		case css.BeginAtRuleGrammar:
			atRule := string(data)
			p.skipAtRuleBlock(parser)
			rs.Warnings = append(rs.Warnings, "unsupported at-rule skipped: "+atRule)
			p.log.Debug("Skipping @-rule", zap.String("rule", atRule))

		case css.AtRuleGrammar:
			atRule := string(data)
			rs.Warnings = append(rs.Warnings, "unsupported at-rule skipped: "+atRule)
			p.log.Debug("Skipping @-rule", zap.String("rule", atRule))

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			selectors := parseSelectors(data, parser.Values())
			var props map[string]string
			if gt == css.BeginRulesetGrammar {
				props = p.parseDeclarations(parser)
			}
			if props == nil {
				continue
			}
			for _, sel := range selectors {
				rs.Add(sel, props)
			}
		}
	}
	return rs
}

func atEOF(parser *css.Parser) bool {
	err := parser.Err()
	return err == nil || errors.Is(err, io.EOF) || err.Error() == "EOF"
}

// parseSelectors extracts selector strings from token data. Grouped selectors
// are split, whitespace inside of selector is normalized to single space.
func parseSelectors(data []byte, values []css.Token) []string {
	var sb strings.Builder
	sb.Write(data)
	for _, v := range values {
		sb.Write(v.Data)
	}

	var selectors []string
	for s := range strings.SplitSeq(sb.String(), ",") {
		s = strings.Join(strings.Fields(s), " ")
		if s != "" {
			selectors = append(selectors, s)
		}
	}
	return selectors
}

// parseDeclarations reads property declarations until the end of ruleset.
func (p *Parser) parseDeclarations(parser *css.Parser) map[string]string {
	props := make(map[string]string)

	for {
		gt, _, data := parser.Next()

		switch gt {
		case css.EndRulesetGrammar:
			return props

		case css.ErrorGrammar:
			if atEOF(parser) {
				return props
			}
			// malformed declaration, skip it
			p.log.Debug("Skipping malformed declaration", zap.Error(parser.Err()))

		case css.DeclarationGrammar:
			addDeclaration(props, string(data), parser.Values())

		case css.CustomPropertyGrammar:
			// CSS custom properties (--var) are not resolved
			continue
		}
	}
}

// ParseDeclarations parses declaration list of inline style attribute with the
// same rules as ruleset body.
func ParseDeclarations(text string) map[string]string {
	props := make(map[string]string)
	if strings.TrimSpace(text) == "" {
		return props
	}

	parser := css.NewParser(parse.NewInput(strings.NewReader(text)), true)
	budget := len(text) + 1
	for budget > 0 {
		gt, _, data := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if atEOF(parser) {
				return props
			}
			budget--
		case css.DeclarationGrammar:
			addDeclaration(props, string(data), parser.Values())
		}
	}
	return props
}

func addDeclaration(props map[string]string, name string, values []css.Token) {
	name = strings.ToLower(strings.TrimSpace(name))
	value := rawValue(values)
	if name == "" || value == "" {
		return
	}
	props[name] = value
}

// rawValue converts value tokens back to text, whitespace runs become single
// space, !important is dropped.
func rawValue(tokens []css.Token) string {
	var sb strings.Builder
	for _, t := range tokens {
		if t.TokenType == css.WhitespaceToken {
			if sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			continue
		}
		sb.Write(t.Data)
	}
	return importantPattern.ReplaceAllString(strings.TrimSpace(sb.String()), "")
}

// skipAtRuleBlock skips tokens until the matching end of an @-rule block.
func (p *Parser) skipAtRuleBlock(parser *css.Parser) {
	depth := 1
	for depth > 0 {
		gt, _, _ := parser.Next()
		switch gt {
		case css.ErrorGrammar:
			if atEOF(parser) {
				return
			}
		case css.BeginAtRuleGrammar, css.BeginRulesetGrammar:
			depth++
		case css.EndAtRuleGrammar, css.EndRulesetGrammar:
			depth--
		}
	}
}
