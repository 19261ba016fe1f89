// internal/engine/rewards.go
package engine

import (
	"fmt"
	"strings"

	"github.com/promolang/promolang/internal/ast"
	"github.com/promolang/promolang/internal/types"
)

/*
 * Reward application and value computation.
 *
 * Value by reward type (case-insensitive):
 *   discount, discountPercentage  cart total x (configured percent / 100)
 *   discountAmount                raw configured amount
 *   freeItem                      configured item value, 0 when absent
 *   freeShipping                  configured shipping cost, 0 when absent
 *   points                        cart total x configured multiplier,
 *                                 multiplier defaults to 1
 *
 * The percentage types degrade to 0 when their config value is missing
 * or non-numeric; a promotion with a bad discount key applies a zero
 * discount instead of failing the cart.
 *
 * ApplyReward on an unknown type returns an error wrapping
 * types.ErrUnsupportedRewardType. CalculateValue on the same input
 * returns 0: value estimation is a soft query, application is not.
 */

// ApplyReward materializes a reward into an AppliedReward record.
func ApplyReward(reward *ast.Reward, ctx *types.Context) (types.AppliedReward, error) {
	if !ast.IsRewardType(reward.Type) {
		return types.AppliedReward{}, fmt.Errorf("reward for condition %q: %w: %s",
			reward.ConditionName, types.ErrUnsupportedRewardType, reward.Type)
	}

	value := CalculateValue(reward, ctx)
	return types.AppliedReward{
		Type:          reward.Type,
		ConditionName: reward.ConditionName,
		Value:         value,
		Description:   describeReward(reward, value),
		Params:        paramSnapshot(reward.Params),
	}, nil
}

// CalculateValue computes a reward's monetary or point value without
// applying it. Unknown types and missing configuration degrade to 0.
func CalculateValue(reward *ast.Reward, ctx *types.Context) float64 {
	total := cartTotalAmount(ctx)

	switch strings.ToLower(reward.Type) {
	case "discount", "discountpercentage":
		return total * (paramNumber(reward.Params, ctx, 0) / 100)
	case "discountamount":
		return paramNumber(reward.Params, ctx, 0)
	case "freeitem":
		return paramNumber(reward.Params, ctx, 0)
	case "freeshipping":
		return paramNumber(reward.Params, ctx, 0)
	case "points":
		return total * paramNumber(reward.Params, ctx, 1)
	}
	return 0
}

// paramNumber resolves the reward's first parameter to a number, falling
// back to def when the parameter is absent, unresolvable, or non-numeric.
func paramNumber(params []ast.Operand, ctx *types.Context, def float64) float64 {
	if len(params) == 0 {
		return def
	}
	v, ok := resolveOperand(params[0], ctx)
	if !ok {
		return def
	}
	n, ok := v.AsNumber()
	if !ok {
		return def
	}
	return n
}

func paramSnapshot(params []ast.Operand) []string {
	if len(params) == 0 {
		return nil
	}
	snapshot := make([]string, len(params))
	for i, p := range params {
		snapshot[i] = operandKey(p)
	}
	return snapshot
}

func describeReward(reward *ast.Reward, value float64) string {
	switch strings.ToLower(reward.Type) {
	case "discount", "discountpercentage":
		return fmt.Sprintf("Discount of %.2f on cart total", value)
	case "discountamount":
		return fmt.Sprintf("Fixed discount of %.2f", value)
	case "freeitem":
		return fmt.Sprintf("Free item worth %.2f", value)
	case "freeshipping":
		return fmt.Sprintf("Free shipping worth %.2f", value)
	case "points":
		return fmt.Sprintf("%.0f loyalty points", value)
	}
	return reward.Type
}
