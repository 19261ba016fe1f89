// Package types provides domain models shared across promolang components.
//
// The evaluation context (Cart, Config) and the evaluation output
// (PromotionResult) live here so that the lexer/parser/engine packages and
// the outer API surface agree on one set of shapes. Everything in this
// package is plain data; derived cart figures are computed on read and
// never cached, so they always reflect the current item list.
package types

import "time"

// CartItem is a single line in a shopping cart. Price is the unit price;
// Quantity is the number of units. Properties carries free-form string
// attributes (category, brand, ...) consulted by item.* property lookups.
type CartItem struct {
	SKU        string            `json:"sku"`
	Name       string            `json:"name"`
	Price      float64           `json:"price"`
	Quantity   int               `json:"quantity"`
	Properties map[string]string `json:"properties,omitempty"`
}

// TotalPrice returns the line total (unit price times quantity).
func (i CartItem) TotalPrice() float64 {
	return i.Price * float64(i.Quantity)
}

// Property looks up a free-form attribute by name.
func (i CartItem) Property(name string) (string, bool) {
	v, ok := i.Properties[name]
	return v, ok
}

// Cart is the ordered list of items under evaluation.
type Cart struct {
	Items []CartItem `json:"items"`
}

// AddItem appends an item to the cart. Carts are assembled before
// evaluation starts; the engine never mutates them.
func (c *Cart) AddItem(item CartItem) {
	c.Items = append(c.Items, item)
}

// TotalAmount returns the sum of all line totals.
func (c *Cart) TotalAmount() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.TotalPrice()
	}
	return total
}

// TotalQuantity returns the sum of all item quantities.
func (c *Cart) TotalQuantity() int {
	total := 0
	for _, item := range c.Items {
		total += item.Quantity
	}
	return total
}

// ItemCount returns the number of distinct lines in the cart.
func (c *Cart) ItemCount() int {
	return len(c.Items)
}

// Config maps configuration keys to values. It is set once before
// evaluation and treated as read-only by the engine.
type Config map[string]Value

// Lookup returns the value stored under key.
func (c Config) Lookup(key string) (Value, bool) {
	v, ok := c[key]
	return v, ok
}

// Context is the read-only runtime input to an evaluation: the cart being
// checked out plus the promotion configuration. Now overrides the wall
// clock for validity-window checks; the zero value means time.Now.
type Context struct {
	Cart   *Cart     `json:"cart"`
	Config Config    `json:"config"`
	Now    time.Time `json:"-"`
}

// Clock returns the evaluation timestamp.
func (c *Context) Clock() time.Time {
	if c.Now.IsZero() {
		return time.Now()
	}
	return c.Now
}

// AppliedReward records one reward that fired during Apply.
type AppliedReward struct {
	// Type is the reward type name as written in the definition.
	Type string `json:"type"`

	// ConditionName is the condition whose trigger caused this reward.
	ConditionName string `json:"condition_name"`

	// Value is the computed monetary or point value.
	Value float64 `json:"value"`

	// Description is a human-readable summary of the reward.
	Description string `json:"description"`

	// Params is a snapshot of the reward's parameter list as written.
	Params []string `json:"params,omitempty"`
}

// PromotionResult is the sole output of applying a promotion to a context.
// A fresh result is created per Apply call and never reused.
type PromotionResult struct {
	Applicable          bool            `json:"applicable"`
	TriggeredConditions []string        `json:"triggered_conditions"`
	Rewards             []AppliedReward `json:"rewards"`
	Errors              []string        `json:"errors,omitempty"`
	Metadata            map[string]any  `json:"metadata"`
}

// Resource limits enforced at the edges to keep evaluation bounded.
const (
	// MaxSourceSize limits DSL source accepted by the API and store.
	// 64KB holds thousands of condition lines; larger inputs are almost
	// certainly not promotion definitions.
	MaxSourceSize = 64 * 1024

	// MaxPathDepth bounds property path resolution. Promotion paths are
	// two or three segments (root plus field); 8 leaves generous slack.
	MaxPathDepth = 8
)
