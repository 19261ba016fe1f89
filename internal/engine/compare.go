// internal/engine/compare.go
package engine

import (
	"strings"

	"github.com/promolang/promolang/internal/ast"
	"github.com/promolang/promolang/internal/types"
)

/*
 * Expression and comparison evaluation.
 *
 * Fail-soft throughout: an unresolved operand, a type mismatch, or an
 * operator a type does not support all evaluate to false. Evaluation
 * never returns an error and never mutates the context.
 *
 * Comparison rules:
 *   - Bare comparison (no operator): truthiness of the single operand.
 *   - String comparisons support only = and !=, case-insensitive.
 *   - Everything else is numeric: both sides coerce through AsNumber
 *     (numbers pass through, numeric strings parse, booleans refuse);
 *     a failed coercion on either side is false.
 *
 * Logical operators always compute both sides. Evaluation is pure, so
 * skipping the right side would save nothing observable, and computing
 * it keeps the behavior identical for either evaluation order.
 */

// EvaluateExpression evaluates an expression tree against the context.
func EvaluateExpression(expr ast.Expression, ctx *types.Context) bool {
	switch e := expr.(type) {
	case *ast.Comparison:
		return evaluateComparison(e, ctx)
	case *ast.Logical:
		left := EvaluateExpression(e.Left, ctx)
		right := EvaluateExpression(e.Right, ctx)
		if e.Op == ast.OpAnd {
			return left && right
		}
		return left || right
	case *ast.FunctionCall:
		// Nested function calls are not reachable from the line grammar;
		// an evaluator seeing one treats it as an unresolvable operand.
		return false
	case *ast.PropertyAccess:
		v, ok := resolve(e, ctx)
		return ok && v.Truthy()
	case *ast.NumberLiteral:
		return e.Value != 0
	case *ast.StringLiteral:
		return e.Value != ""
	}
	return false
}

func evaluateComparison(cmp *ast.Comparison, ctx *types.Context) bool {
	left, ok := resolveOperand(cmp.Left, ctx)
	if !ok {
		return false
	}

	if cmp.Op == ast.OpNone {
		return left.Truthy()
	}

	if cmp.Right == nil {
		return false
	}
	right, ok := resolveOperand(cmp.Right, ctx)
	if !ok {
		return false
	}

	if left.Kind() == types.KindString && right.Kind() == types.KindString {
		return compareStrings(left, right, cmp.Op)
	}
	return compareNumbers(left, right, cmp.Op)
}

func compareStrings(left, right types.Value, op ast.CompareOp) bool {
	l, _ := left.AsText()
	r, _ := right.AsText()
	switch op {
	case ast.OpEq:
		return strings.EqualFold(l, r)
	case ast.OpNeq:
		return !strings.EqualFold(l, r)
	}
	// Ordering operators are not defined for strings.
	return false
}

func compareNumbers(left, right types.Value, op ast.CompareOp) bool {
	l, ok := left.AsNumber()
	if !ok {
		return false
	}
	r, ok := right.AsNumber()
	if !ok {
		return false
	}

	switch op {
	case ast.OpEq:
		return l == r
	case ast.OpNeq:
		return l != r
	case ast.OpGt:
		return l > r
	case ast.OpLt:
		return l < r
	case ast.OpGte:
		return l >= r
	case ast.OpLte:
		return l <= r
	}
	return false
}
