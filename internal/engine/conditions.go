// internal/engine/conditions.go
package engine

import (
	"strings"

	"github.com/promolang/promolang/internal/ast"
	"github.com/promolang/promolang/internal/types"
)

/*
 * Builtin condition functions.
 *
 * Dispatch is case-insensitive. The threshold functions read their
 * threshold from the condition's single parameter, which in practice is
 * a config.* path; the parameter is resolved through the same operand
 * machinery as expressions, so a literal threshold works too.
 *
 * An unknown function name evaluates to false rather than erroring.
 * Definition-time validity checks (ast.Condition.IsValid) are the place
 * where unknown names are reported; at runtime one bad condition must
 * not take down the promotion.
 *
 * An attached expression is combined with the function result using AND:
 * both the function and the expression must hold for the condition to
 * trigger.
 */

// EvaluateCondition reports whether a condition triggers for the context.
func EvaluateCondition(cond *ast.Condition, ctx *types.Context) bool {
	var result bool
	switch strings.ToLower(cond.Function) {
	case "minimumspending":
		result = thresholdMet(cond.Params, ctx, cartTotalAmount)
	case "minimumquantity":
		result = thresholdMet(cond.Params, ctx, cartTotalQuantity)
	case "any", "all":
		// Baseline semantics: the cart is non-empty. Per-item predicates
		// ride along in the attached expression.
		result = ctx.Cart != nil && len(ctx.Cart.Items) > 0
	default:
		return false
	}

	if result && cond.Expr != nil {
		result = EvaluateExpression(cond.Expr, ctx)
	}
	return result
}

func cartTotalAmount(ctx *types.Context) float64 {
	if ctx.Cart == nil {
		return 0
	}
	return ctx.Cart.TotalAmount()
}

func cartTotalQuantity(ctx *types.Context) float64 {
	if ctx.Cart == nil {
		return 0
	}
	return float64(ctx.Cart.TotalQuantity())
}

// thresholdMet compares a cart-derived figure against the condition's
// configured threshold, inclusive. A missing or non-numeric threshold is
// false, never an error.
func thresholdMet(params []ast.Operand, ctx *types.Context, figure func(*types.Context) float64) bool {
	if len(params) == 0 {
		return false
	}
	v, ok := resolveOperand(params[0], ctx)
	if !ok {
		return false
	}
	threshold, ok := v.AsNumber()
	if !ok {
		return false
	}
	return figure(ctx) >= threshold
}
