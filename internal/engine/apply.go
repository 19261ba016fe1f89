// internal/engine/apply.go
package engine

import (
	"fmt"
	"strings"

	"github.com/promolang/promolang/internal/ast"
	"github.com/promolang/promolang/internal/types"
)

/*
 * Promotion orchestration.
 *
 * A promotion moves through exactly one pass:
 *
 *   Unvalidated -> Validated -> Evaluated (applicable | not applicable)
 *
 * Validate collects problems as strings instead of failing; Apply runs
 * Validate first and short-circuits on any problem without evaluating a
 * single condition. Otherwise conditions are evaluated in declaration
 * order, then for each triggered condition every reward targeting it
 * (case-insensitive) is applied in declaration order. A reward that
 * fails to apply is recorded in the result's error list and processing
 * continues with the remaining rewards.
 *
 * Everything here is a pure function of (definition, context). The same
 * definition may be applied concurrently against different contexts as
 * long as it is not mutated after parsing.
 */

// Validate checks a definition against a context and returns all problems
// found. An empty slice means the promotion may be applied.
func Validate(def *ast.PromotionDefinition, ctx *types.Context) []string {
	var errs []string

	if !def.Active {
		errs = append(errs, fmt.Sprintf("promotion %q is not active", def.Name))
	}
	now := ctx.Clock()
	if def.StartDate != nil && now.Before(*def.StartDate) {
		errs = append(errs, fmt.Sprintf("promotion %q has not started yet", def.Name))
	}
	if def.EndDate != nil && now.After(*def.EndDate) {
		errs = append(errs, fmt.Sprintf("promotion %q has expired", def.Name))
	}

	if ctx.Cart == nil {
		errs = append(errs, "no cart provided")
	} else if len(ctx.Cart.Items) == 0 {
		errs = append(errs, "cart is empty")
	}
	if ctx.Config == nil {
		errs = append(errs, "no configuration provided")
	}

	for _, cond := range def.Conditions {
		if !cond.IsValid() {
			errs = append(errs, fmt.Sprintf("condition %q is invalid: unknown function %q", cond.Name, cond.Function))
		}
	}
	for _, reward := range def.Rewards {
		if !reward.IsValid() {
			errs = append(errs, fmt.Sprintf("reward for condition %q is invalid: unknown type %q", reward.ConditionName, reward.Type))
		}
	}
	return errs
}

// Apply evaluates the promotion against the context and returns a fresh
// result. It never returns an error: failures degrade into the result's
// error list.
func Apply(def *ast.PromotionDefinition, ctx *types.Context) *types.PromotionResult {
	result := &types.PromotionResult{
		TriggeredConditions: []string{},
		Rewards:             []types.AppliedReward{},
		Metadata:            map[string]any{},
	}

	if errs := Validate(def, ctx); len(errs) > 0 {
		result.Errors = errs
		finalize(result)
		return result
	}

	for _, cond := range def.Conditions {
		if EvaluateCondition(cond, ctx) {
			result.TriggeredConditions = append(result.TriggeredConditions, cond.Name)
		}
	}
	if len(result.TriggeredConditions) == 0 {
		finalize(result)
		return result
	}

	result.Applicable = true
	for _, name := range result.TriggeredConditions {
		for _, reward := range def.Rewards {
			if !strings.EqualFold(reward.ConditionName, name) {
				continue
			}
			if reward.Expr != nil && !EvaluateExpression(reward.Expr, ctx) {
				continue
			}
			applied, err := ApplyReward(reward, ctx)
			if err != nil {
				result.Errors = append(result.Errors, err.Error())
				continue
			}
			result.Rewards = append(result.Rewards, applied)
		}
	}

	finalize(result)
	return result
}

// IsEligible reports whether Apply would find the promotion applicable,
// without materializing rewards.
func IsEligible(def *ast.PromotionDefinition, ctx *types.Context) bool {
	if len(Validate(def, ctx)) > 0 {
		return false
	}
	for _, cond := range def.Conditions {
		if EvaluateCondition(cond, ctx) {
			return true
		}
	}
	return false
}

// PotentialValue estimates the total value the promotion would yield for
// the context. The validation gate is deliberately skipped: the estimate
// answers "what would this cart earn" even for an inactive or not yet
// started promotion.
func PotentialValue(def *ast.PromotionDefinition, ctx *types.Context) float64 {
	total := 0.0
	for _, cond := range def.Conditions {
		if !EvaluateCondition(cond, ctx) {
			continue
		}
		for _, reward := range def.Rewards {
			if !strings.EqualFold(reward.ConditionName, cond.Name) {
				continue
			}
			if reward.Expr != nil && !EvaluateExpression(reward.Expr, ctx) {
				continue
			}
			total += CalculateValue(reward, ctx)
		}
	}
	return total
}

func finalize(result *types.PromotionResult) {
	total := 0.0
	for _, r := range result.Rewards {
		total += r.Value
	}
	result.Metadata["total_value"] = total
	result.Metadata["triggered_conditions"] = len(result.TriggeredConditions)
	result.Metadata["applied_rewards"] = len(result.Rewards)
}
