package ast

import (
	"testing"
)

func path(segments ...string) *PropertyAccess {
	return &PropertyAccess{Segments: segments}
}

func TestExpressionString(t *testing.T) {
	tests := []struct {
		name string
		expr Expression
		want string
	}{
		{
			"bare comparison",
			&Comparison{Left: path("item", "quantity"), Op: OpNone},
			"item.quantity",
		},
		{
			"comparison",
			&Comparison{Left: path("item", "quantity"), Op: OpGte, Right: &NumberLiteral{Value: 2, Text: "2"}},
			"item.quantity >= 2",
		},
		{
			"number keeps source spelling",
			&Comparison{Left: path("cart", "totalAmount"), Op: OpGt, Right: &NumberLiteral{Value: 50, Text: "50.00"}},
			"cart.totalAmount > 50.00",
		},
		{
			"string literal requotes",
			&Comparison{Left: path("item", "category"), Op: OpEq, Right: &StringLiteral{Value: "coffee"}},
			`item.category = "coffee"`,
		},
		{
			"logical chain",
			&Logical{
				Left: &Logical{
					Left:  &Comparison{Left: path("a"), Op: OpNone},
					Op:    OpAnd,
					Right: &Comparison{Left: path("b"), Op: OpNone},
				},
				Op:    OpAnd,
				Right: &Comparison{Left: path("c"), Op: OpNone},
			},
			"((a && b) && c)",
		},
		{
			"function call with args",
			&FunctionCall{Name: "minimumSpending", Args: []Operand{path("config", "minAmount")}},
			"minimumSpending config.minAmount",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.expr.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsConditionFunction(t *testing.T) {
	for _, name := range []string{"minimumSpending", "MINIMUMSPENDING", "minimumQuantity", "any", "All"} {
		if !IsConditionFunction(name) {
			t.Errorf("IsConditionFunction(%q) = false, want true", name)
		}
	}
	if IsConditionFunction("frequentBuyer") {
		t.Error("IsConditionFunction accepted an unknown function")
	}
}

func TestIsRewardType(t *testing.T) {
	for _, name := range []string{"discount", "discountPercentage", "DiscountAmount", "freeItem", "freeShipping", "points"} {
		if !IsRewardType(name) {
			t.Errorf("IsRewardType(%q) = false, want true", name)
		}
	}
	if IsRewardType("cashback") {
		t.Error("IsRewardType accepted an unknown type")
	}
}

func TestConditionLookupCaseInsensitive(t *testing.T) {
	def := &PromotionDefinition{
		Conditions: []*Condition{
			{Name: "BigSpender", Function: "minimumSpending"},
		},
	}

	if def.Condition("bigspender") == nil {
		t.Error("Condition(\"bigspender\") = nil, want the BigSpender condition")
	}
	if def.Condition("other") != nil {
		t.Error("Condition(\"other\") != nil, want nil")
	}
}

func TestLint(t *testing.T) {
	t.Run("clean definition", func(t *testing.T) {
		def := &PromotionDefinition{
			Conditions: []*Condition{{Name: "A", Function: "minimumSpending"}},
			Rewards:    []*Reward{{ConditionName: "A", Type: "discount"}},
		}
		if issues := def.Lint(); len(issues) != 0 {
			t.Errorf("Lint() = %v, want none", issues)
		}
	})

	t.Run("duplicate condition names", func(t *testing.T) {
		def := &PromotionDefinition{
			Conditions: []*Condition{
				{Name: "A", Function: "any"},
				{Name: "a", Function: "all"},
			},
		}
		issues := def.Lint()
		if len(issues) != 1 {
			t.Fatalf("Lint() = %v, want one issue", issues)
		}
		if issues[0] != "duplicate condition name: a" {
			t.Errorf("issue = %q", issues[0])
		}
	})

	t.Run("dangling reward", func(t *testing.T) {
		def := &PromotionDefinition{
			Conditions: []*Condition{{Name: "A", Function: "any"}},
			Rewards:    []*Reward{{ConditionName: "B", Type: "freeShipping"}},
		}
		issues := def.Lint()
		if len(issues) != 1 {
			t.Fatalf("Lint() = %v, want one issue", issues)
		}
		if issues[0] != "reward references unknown condition: B" {
			t.Errorf("issue = %q", issues[0])
		}
	})

	t.Run("reward match is case-insensitive", func(t *testing.T) {
		def := &PromotionDefinition{
			Conditions: []*Condition{{Name: "A", Function: "any"}},
			Rewards:    []*Reward{{ConditionName: "a", Type: "discount"}},
		}
		if issues := def.Lint(); len(issues) != 0 {
			t.Errorf("Lint() = %v, want none", issues)
		}
	})
}

func TestIsValid(t *testing.T) {
	cond := &Condition{Name: "A", Function: "minimumSpending"}
	if !cond.IsValid() {
		t.Error("valid condition reported invalid")
	}

	cond = &Condition{Name: "A", Function: "frequentBuyer"}
	if cond.IsValid() {
		t.Error("condition with unknown function reported valid")
	}

	reward := &Reward{ConditionName: "A", Type: "Points"}
	if !reward.IsValid() {
		t.Error("valid reward reported invalid")
	}

	reward = &Reward{ConditionName: "", Type: "points"}
	if reward.IsValid() {
		t.Error("reward without a condition name reported valid")
	}
}
