package engine

import (
	"testing"

	"github.com/promolang/promolang/internal/ast"
)

func num(f float64) *ast.NumberLiteral { return &ast.NumberLiteral{Value: f} }
func str(s string) *ast.StringLiteral  { return &ast.StringLiteral{Value: s} }
func cmp(l ast.Operand, op ast.CompareOp, r ast.Operand) *ast.Comparison {
	return &ast.Comparison{Left: l, Op: op, Right: r}
}

func TestEvaluateComparison_Numeric(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name string
		expr *ast.Comparison
		want bool
	}{
		{name: "gt true", expr: cmp(num(5), ast.OpGt, num(3)), want: true},
		{name: "gt false", expr: cmp(num(3), ast.OpGt, num(5)), want: false},
		{name: "gte at boundary", expr: cmp(num(5), ast.OpGte, num(5)), want: true},
		{name: "lte at boundary", expr: cmp(num(5), ast.OpLte, num(5)), want: true},
		{name: "eq", expr: cmp(num(5), ast.OpEq, num(5)), want: true},
		{name: "neq", expr: cmp(num(5), ast.OpNeq, num(6)), want: true},
		{name: "numeric string coerces", expr: cmp(str("10"), ast.OpGt, num(5)), want: true},
		{name: "numeric string with spaces coerces", expr: cmp(str("  10  "), ast.OpEq, num(10)), want: true},
		{name: "non-numeric string fails soft", expr: cmp(str("abc"), ast.OpGt, num(5)), want: false},
		{name: "property against literal", expr: cmp(path("cart", "totalAmount"), ast.OpGte, num(28.5)), want: true},
		{name: "unresolvable property fails soft", expr: cmp(path("cart", "weight"), ast.OpGt, num(0)), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateComparison(tt.expr, ctx); got != tt.want {
				t.Errorf("evaluateComparison() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateComparison_Strings(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name string
		expr *ast.Comparison
		want bool
	}{
		{name: "eq case-insensitive", expr: cmp(str("VIP"), ast.OpEq, str("vip")), want: true},
		{name: "neq", expr: cmp(str("vip"), ast.OpNeq, str("standard")), want: true},
		{name: "ordering not defined for strings", expr: cmp(str("b"), ast.OpGt, str("a")), want: false},
		{name: "property string match", expr: cmp(path("item", "category"), ast.OpEq, str("Coffee")), want: true},
		{name: "config string match", expr: cmp(path("config", "label"), ast.OpEq, str("vip")), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateComparison(tt.expr, ctx); got != tt.want {
				t.Errorf("evaluateComparison() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateComparison_Bare(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name string
		left ast.Operand
		want bool
	}{
		{name: "non-zero number", left: num(1), want: true},
		{name: "zero number", left: num(0), want: false},
		{name: "non-empty string", left: str("x"), want: true},
		{name: "empty string", left: str(""), want: false},
		{name: "resolvable property", left: path("item", "sku"), want: true},
		{name: "unresolvable property", left: path("item", "brand"), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr := &ast.Comparison{Left: tt.left, Op: ast.OpNone}
			if got := evaluateComparison(expr, ctx); got != tt.want {
				t.Errorf("evaluateComparison() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluateExpression_Logical(t *testing.T) {
	ctx := testContext()
	yes := cmp(num(1), ast.OpEq, num(1))
	no := cmp(num(1), ast.OpEq, num(2))

	tests := []struct {
		name string
		expr ast.Expression
		want bool
	}{
		{name: "and both true", expr: &ast.Logical{Left: yes, Op: ast.OpAnd, Right: yes}, want: true},
		{name: "and one false", expr: &ast.Logical{Left: yes, Op: ast.OpAnd, Right: no}, want: false},
		{name: "or one true", expr: &ast.Logical{Left: no, Op: ast.OpOr, Right: yes}, want: true},
		{name: "or both false", expr: &ast.Logical{Left: no, Op: ast.OpOr, Right: no}, want: false},
		{name: "nested", expr: &ast.Logical{
			Left:  &ast.Logical{Left: yes, Op: ast.OpAnd, Right: yes},
			Op:    ast.OpOr,
			Right: no,
		}, want: true},
		{name: "function call is unresolvable", expr: &ast.FunctionCall{Name: "custom"}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateExpression(tt.expr, ctx); got != tt.want {
				t.Errorf("EvaluateExpression() = %v, want %v", got, tt.want)
			}
		})
	}
}
