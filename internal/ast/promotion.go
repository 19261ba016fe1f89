package ast

import (
	"strings"
	"time"
)

// Builtin condition functions and reward types, keyed by lowercase name.
// Dispatch is case-insensitive everywhere; these sets are the single
// source of truth for structural validity checks and engine dispatch.
var conditionFunctions = map[string]struct{}{
	"minimumspending": {},
	"minimumquantity": {},
	"any":             {},
	"all":             {},
}

var rewardTypes = map[string]struct{}{
	"discount":           {},
	"discountpercentage": {},
	"discountamount":     {},
	"freeitem":           {},
	"freeshipping":       {},
	"points":             {},
}

// IsConditionFunction reports whether name is a builtin condition function.
func IsConditionFunction(name string) bool {
	_, ok := conditionFunctions[strings.ToLower(name)]
	return ok
}

// IsRewardType reports whether name is a builtin reward type.
func IsRewardType(name string) bool {
	_, ok := rewardTypes[strings.ToLower(name)]
	return ok
}

// Condition is a named boolean rule: a builtin function with parameters,
// optionally conjoined with an attached expression.
type Condition struct {
	Name     string
	Function string
	Params   []Operand
	Expr     Expression // optional, nil if absent
}

// IsValid reports whether the condition is structurally sound. An unknown
// function name fails here (fail-loud at definition time) even though
// evaluating it merely yields false (fail-soft at runtime).
func (c *Condition) IsValid() bool {
	return c.Name != "" && IsConditionFunction(c.Function)
}

// Reward is a computation triggered by a condition name.
type Reward struct {
	ConditionName string
	Type          string
	Params        []Operand
	Expr          Expression // optional, nil if absent
}

// IsValid reports whether the reward is structurally sound.
func (r *Reward) IsValid() bool {
	return r.ConditionName != "" && IsRewardType(r.Type)
}

// PromotionDefinition is the parsed form of one promotion: a name plus
// ordered condition and reward lists. Active and the validity window are
// not expressible in the DSL source; they default to usable values at
// parse time and are overridden from stored metadata when a definition is
// loaded from the store.
type PromotionDefinition struct {
	Name       string
	Conditions []*Condition
	Rewards    []*Reward
	Active     bool
	StartDate  *time.Time
	EndDate    *time.Time
}

// Condition returns the condition with the given name (case-insensitive),
// or nil if absent.
func (p *PromotionDefinition) Condition(name string) *Condition {
	for _, c := range p.Conditions {
		if strings.EqualFold(c.Name, name) {
			return c
		}
	}
	return nil
}

// Lint reports definition-level consistency problems that are not
// evaluation gates: duplicate condition names and rewards whose target
// condition does not exist. A dangling reward is legal at Apply time (it
// simply never fires) but almost always a typo, so the validate command
// surfaces it here.
func (p *PromotionDefinition) Lint() []string {
	var issues []string

	seen := make(map[string]struct{}, len(p.Conditions))
	for _, c := range p.Conditions {
		key := strings.ToLower(c.Name)
		if _, dup := seen[key]; dup {
			issues = append(issues, "duplicate condition name: "+c.Name)
		}
		seen[key] = struct{}{}
	}

	for _, r := range p.Rewards {
		if _, ok := seen[strings.ToLower(r.ConditionName)]; !ok {
			issues = append(issues, "reward references unknown condition: "+r.ConditionName)
		}
	}

	return issues
}
