// Package parser turns a token sequence into a PromotionDefinition.
//
// The grammar is a single-pass, newline-terminated line grammar:
//
//	program        := promotionDef EOF
//	promotionDef   := 'promotion' ':' STRING NEWLINE
//	                   'conditions' ':' NEWLINE condition+
//	                   'rewards' ':' NEWLINE reward+
//	condition      := '-' IDENT functionCall expression? NEWLINE
//	reward         := '-' 'condition' IDENT functionCall expression? NEWLINE
//	functionCall   := IDENT propertyAccess?
//	propertyAccess := IDENT ('.' IDENT)*
//	expression     := comparison (('&&'|'||') comparison)*
//	comparison     := operand (('='|'>'|'<'|'>='|'<='|'!=') operand)?
//	operand        := propertyAccess | NUMBER | STRING
//
// Parsing stops at the first mismatch; there is no error recovery.
//
// Two deliberate quirks of the reference behavior are preserved:
//
//   - When an expression chains more than one comparison, a single
//     combining operator is applied uniformly across the whole chain:
//     && if the chain contains && anywhere, else ||. A line mixing the
//     two therefore collapses to one operator. See EvaluateExpression
//     callers before relying on mixed-operator precedence.
//   - A comparison may consist of a single operand with no operator; it
//     evaluates as a truthiness test on that operand.
package parser

import (
	"fmt"
	"strconv"

	"github.com/promolang/promolang/internal/ast"
	"github.com/promolang/promolang/internal/lexer"
)

// ParseError reports a grammar mismatch at the first point of failure.
type ParseError struct {
	Expected string
	Found    lexer.Token
}

func (e *ParseError) Error() string {
	found := e.Found.Type.String()
	if e.Found.Type == lexer.IDENT || e.Found.Type == lexer.NUMBER || e.Found.Type == lexer.STRING {
		found = fmt.Sprintf("%s %q", found, e.Found.Literal)
	}
	return fmt.Sprintf("line %d, column %d: expected %s, found %s",
		e.Found.Line, e.Found.Column, e.Expected, found)
}

// Parse consumes a token sequence produced by lexer.Tokenize.
func Parse(tokens []lexer.Token) (*ast.PromotionDefinition, error) {
	p := &parser{tokens: tokens}
	return p.parseProgram()
}

// ParseSource tokenizes and parses DSL text in one step.
func ParseSource(src string) (*ast.PromotionDefinition, error) {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

type parser struct {
	tokens []lexer.Token
	pos    int
}

func (p *parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peek(n int) lexer.Token {
	if p.pos+n >= len(p.tokens) {
		return lexer.Token{Type: lexer.EOF}
	}
	return p.tokens[p.pos+n]
}

func (p *parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

func (p *parser) expect(tt lexer.TokenType, expected string) (lexer.Token, error) {
	if p.cur().Type != tt {
		return lexer.Token{}, &ParseError{Expected: expected, Found: p.cur()}
	}
	return p.advance(), nil
}

func (p *parser) parseProgram() (*ast.PromotionDefinition, error) {
	def := &ast.PromotionDefinition{Active: true}

	if _, err := p.expect(lexer.PROMOTION, "'promotion'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON, "':'"); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.STRING, "promotion name string")
	if err != nil {
		return nil, err
	}
	def.Name = stripQuotes(name.Literal)
	if _, err := p.expect(lexer.NEWLINE, "end of line"); err != nil {
		return nil, err
	}

	if _, err := p.expect(lexer.CONDITIONS, "'conditions'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON, "':'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.NEWLINE, "end of line"); err != nil {
		return nil, err
	}

	for p.cur().Type == lexer.DASH {
		cond, err := p.parseCondition()
		if err != nil {
			return nil, err
		}
		def.Conditions = append(def.Conditions, cond)
	}
	if len(def.Conditions) == 0 {
		return nil, &ParseError{Expected: "'-' condition entry", Found: p.cur()}
	}

	if _, err := p.expect(lexer.REWARDS, "'rewards'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.COLON, "':'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.NEWLINE, "end of line"); err != nil {
		return nil, err
	}

	for p.cur().Type == lexer.DASH {
		reward, err := p.parseReward()
		if err != nil {
			return nil, err
		}
		def.Rewards = append(def.Rewards, reward)
	}
	if len(def.Rewards) == 0 {
		return nil, &ParseError{Expected: "'-' reward entry", Found: p.cur()}
	}

	if _, err := p.expect(lexer.EOF, "end of input"); err != nil {
		return nil, err
	}
	return def, nil
}

// condition := '-' IDENT functionCall expression? NEWLINE
func (p *parser) parseCondition() (*ast.Condition, error) {
	if _, err := p.expect(lexer.DASH, "'-'"); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.IDENT, "condition name")
	if err != nil {
		return nil, err
	}

	cond := &ast.Condition{Name: name.Literal}
	if err := p.parseFunctionCall(&cond.Function, &cond.Params); err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.NEWLINE {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		cond.Expr = expr
	}
	if _, err := p.expect(lexer.NEWLINE, "end of line"); err != nil {
		return nil, err
	}
	return cond, nil
}

// reward := '-' 'condition' IDENT functionCall expression? NEWLINE
func (p *parser) parseReward() (*ast.Reward, error) {
	if _, err := p.expect(lexer.DASH, "'-'"); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.CONDITION, "'condition'"); err != nil {
		return nil, err
	}
	target, err := p.expect(lexer.IDENT, "target condition name")
	if err != nil {
		return nil, err
	}

	reward := &ast.Reward{ConditionName: target.Literal}
	if err := p.parseFunctionCall(&reward.Type, &reward.Params); err != nil {
		return nil, err
	}
	if p.cur().Type != lexer.NEWLINE {
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		reward.Expr = expr
	}
	if _, err := p.expect(lexer.NEWLINE, "end of line"); err != nil {
		return nil, err
	}
	return reward, nil
}

// functionCall := IDENT propertyAccess?
//
// A property path following the function name is ambiguous: it may be the
// function's single parameter or the first operand of the attached
// expression. The path belongs to the expression exactly when the token
// after the full path is a comparison or logical operator; otherwise it is
// the parameter. The base grammar admits at most one parameter this way;
// richer parameterization goes through the attached expression.
func (p *parser) parseFunctionCall(name *string, params *[]ast.Operand) error {
	fn, err := p.expect(lexer.IDENT, "function name")
	if err != nil {
		return err
	}
	*name = fn.Literal

	if p.cur().Type == lexer.IDENT && !p.pathStartsExpression() {
		path, err := p.parsePropertyAccess()
		if err != nil {
			return err
		}
		*params = append(*params, path)
	}
	return nil
}

// pathStartsExpression scans past the property path at the current
// position and reports whether an operator follows it.
func (p *parser) pathStartsExpression() bool {
	i := 0
	// IDENT ('.' IDENT)*
	for {
		i++ // past IDENT
		if p.peek(i).Type == lexer.DOT && p.peek(i+1).Type == lexer.IDENT {
			i += 2
			continue
		}
		break
	}
	switch p.peek(i).Type {
	case lexer.EQ, lexer.NOT_EQ, lexer.GT, lexer.LT, lexer.GTE, lexer.LTE, lexer.AND, lexer.OR:
		return true
	}
	return false
}

// expression := comparison (('&&'|'||') comparison)*
//
// Chained comparisons are folded left with ONE operator chosen for the
// whole chain: && if any link is &&, else ||. This mirrors the reference
// behavior, which picks the operator by scanning the line for the literal
// substring rather than tracking it per pair. One deliberate deviation:
// the scan here is over operator tokens, so "&&" inside a string literal
// does not flip an all-|| chain to AND the way a raw text scan would.
func (p *parser) parseExpression() (ast.Expression, error) {
	first, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	var rest []ast.Expression
	sawAnd := false
	for p.cur().Type == lexer.AND || p.cur().Type == lexer.OR {
		if p.advance().Type == lexer.AND {
			sawAnd = true
		}
		next, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		rest = append(rest, next)
	}
	if len(rest) == 0 {
		return first, nil
	}

	op := ast.OpOr
	if sawAnd {
		op = ast.OpAnd
	}
	expr := ast.Expression(first)
	for _, next := range rest {
		expr = &ast.Logical{Left: expr, Op: op, Right: next}
	}
	return expr, nil
}

// comparison := operand (op operand)?
func (p *parser) parseComparison() (ast.Expression, error) {
	left, err := p.parseOperand()
	if err != nil {
		return nil, err
	}

	var op ast.CompareOp
	switch p.cur().Type {
	case lexer.EQ:
		op = ast.OpEq
	case lexer.NOT_EQ:
		op = ast.OpNeq
	case lexer.GT:
		op = ast.OpGt
	case lexer.LT:
		op = ast.OpLt
	case lexer.GTE:
		op = ast.OpGte
	case lexer.LTE:
		op = ast.OpLte
	default:
		// Bare comparison: truthiness test on the single operand.
		return &ast.Comparison{Left: left, Op: ast.OpNone}, nil
	}
	p.advance()

	right, err := p.parseOperand()
	if err != nil {
		return nil, err
	}
	return &ast.Comparison{Left: left, Op: op, Right: right}, nil
}

// operand := propertyAccess | NUMBER | STRING
func (p *parser) parseOperand() (ast.Operand, error) {
	switch p.cur().Type {
	case lexer.IDENT:
		return p.parsePropertyAccess()
	case lexer.NUMBER:
		tok := p.advance()
		val, err := strconv.ParseFloat(tok.Literal, 64)
		if err != nil {
			return nil, &ParseError{Expected: "numeric literal", Found: tok}
		}
		return &ast.NumberLiteral{Value: val, Text: tok.Literal}, nil
	case lexer.STRING:
		tok := p.advance()
		return &ast.StringLiteral{Value: stripQuotes(tok.Literal)}, nil
	default:
		return nil, &ParseError{Expected: "operand (property, number, or string)", Found: p.cur()}
	}
}

// propertyAccess := IDENT ('.' IDENT)*
func (p *parser) parsePropertyAccess() (*ast.PropertyAccess, error) {
	first, err := p.expect(lexer.IDENT, "property path")
	if err != nil {
		return nil, err
	}
	segments := []string{first.Literal}
	for p.cur().Type == lexer.DOT {
		p.advance()
		next, err := p.expect(lexer.IDENT, "property path segment")
		if err != nil {
			return nil, err
		}
		segments = append(segments, next.Literal)
	}
	return &ast.PropertyAccess{Segments: segments}, nil
}

// stripQuotes removes exactly one leading and one trailing quote
// character. Empty input passes through unchanged.
func stripQuotes(s string) string {
	if s == "" {
		return s
	}
	if s[0] == '"' {
		s = s[1:]
	}
	if len(s) > 0 && s[len(s)-1] == '"' {
		s = s[:len(s)-1]
	}
	return s
}
