// Package ast defines the structured representation of a parsed promotion
// definition: the expression sum type plus the Condition/Reward/
// PromotionDefinition containers.
//
// Nodes are pure data built exclusively by the parser and immutable once
// built. Every expression subtree is owned by exactly one Condition or
// Reward; there is no sharing and no cycles. The only behavior is String(),
// which renders a node back to DSL-like text for diagnostics and
// round-trip tests.
package ast

import (
	"strconv"
	"strings"
)

// CompareOp is a comparison operator. OpNone marks a bare comparison: a
// single operand whose evaluation reduces to a truthiness test.
type CompareOp string

const (
	OpNone CompareOp = ""
	OpEq   CompareOp = "="
	OpNeq  CompareOp = "!="
	OpGt   CompareOp = ">"
	OpLt   CompareOp = "<"
	OpGte  CompareOp = ">="
	OpLte  CompareOp = "<="
)

// LogicalOp combines two boolean expressions.
type LogicalOp string

const (
	OpAnd LogicalOp = "&&"
	OpOr  LogicalOp = "||"
)

// Expression is the sum type of everything evaluable to a boolean.
type Expression interface {
	exprNode()
	String() string
}

// Operand is the subset of nodes usable as a comparison side or a
// function argument: property paths and literals.
type Operand interface {
	Expression
	operandNode()
}

// Comparison compares two operands. Right is nil when Op is OpNone.
type Comparison struct {
	Left  Operand
	Op    CompareOp
	Right Operand
}

// Logical combines two expressions with && or ||.
type Logical struct {
	Left  Expression
	Op    LogicalOp
	Right Expression
}

// FunctionCall names a builtin function with its arguments.
type FunctionCall struct {
	Name string
	Args []Operand
}

// PropertyAccess is a dotted path such as cart.totalAmount.
type PropertyAccess struct {
	Segments []string
}

// NumberLiteral holds a numeric literal. Text preserves the source
// spelling so String() can reproduce it exactly.
type NumberLiteral struct {
	Value float64
	Text  string
}

// StringLiteral holds a string literal with quotes already stripped.
type StringLiteral struct {
	Value string
}

func (*Comparison) exprNode()     {}
func (*Logical) exprNode()        {}
func (*FunctionCall) exprNode()   {}
func (*PropertyAccess) exprNode() {}
func (*NumberLiteral) exprNode()  {}
func (*StringLiteral) exprNode()  {}

func (*PropertyAccess) operandNode() {}
func (*NumberLiteral) operandNode()  {}
func (*StringLiteral) operandNode()  {}

func (c *Comparison) String() string {
	if c.Op == OpNone {
		return c.Left.String()
	}
	return c.Left.String() + " " + string(c.Op) + " " + c.Right.String()
}

func (l *Logical) String() string {
	return "(" + l.Left.String() + " " + string(l.Op) + " " + l.Right.String() + ")"
}

func (f *FunctionCall) String() string {
	if len(f.Args) == 0 {
		return f.Name
	}
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return f.Name + " " + strings.Join(args, " ")
}

func (p *PropertyAccess) String() string {
	return strings.Join(p.Segments, ".")
}

func (n *NumberLiteral) String() string {
	if n.Text != "" {
		return n.Text
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (s *StringLiteral) String() string {
	return `"` + s.Value + `"`
}
