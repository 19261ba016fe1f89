// internal/engine/resolve.go
package engine

import (
	"strconv"
	"strings"

	"github.com/promolang/promolang/internal/ast"
	"github.com/promolang/promolang/internal/types"
)

/*
 * Property path resolution against the evaluation context.
 *
 * Paths resolve against three roots:
 *   item.<field>   - the FIRST cart item only (sku, price, quantity,
 *                    totalPrice, name; anything else is a free-form
 *                    property lookup on that item)
 *   config.<key>   - lookup in the Config mapping; multi-segment keys
 *                    are rejoined with dots (config.limits.max -> "limits.max")
 *   cart.<field>   - totalAmount, totalQuantity, itemsCount
 *
 * The first-item restriction on item.* is intentional: multi-item carts
 * are not iterated, the evaluator only ever inspects Items[0]. Per-item
 * logic belongs in condition functions, not path resolution.
 *
 * Resolution never fails: an unknown root, missing field, absent item,
 * or over-deep path yields (zero Value, false). Comparisons treat an
 * unresolved operand as an automatic mismatch.
 */

// resolve returns the value at path within ctx, and whether it was found.
func resolve(path *ast.PropertyAccess, ctx *types.Context) (types.Value, bool) {
	if path == nil || len(path.Segments) < 2 || len(path.Segments) > types.MaxPathDepth {
		return types.Value{}, false
	}

	switch strings.ToLower(path.Segments[0]) {
	case "item":
		return resolveItem(path.Segments[1], ctx)
	case "config":
		return resolveConfig(path.Segments[1:], ctx)
	case "cart":
		return resolveCart(path.Segments[1], ctx)
	}
	return types.Value{}, false
}

func resolveItem(field string, ctx *types.Context) (types.Value, bool) {
	if ctx.Cart == nil || len(ctx.Cart.Items) == 0 {
		return types.Value{}, false
	}
	item := ctx.Cart.Items[0]

	switch strings.ToLower(field) {
	case "sku":
		return types.Text(item.SKU), true
	case "name":
		return types.Text(item.Name), true
	case "price":
		return types.Number(item.Price), true
	case "quantity":
		return types.Number(float64(item.Quantity)), true
	case "totalprice":
		return types.Number(item.TotalPrice()), true
	}

	if v, ok := item.Property(field); ok {
		return types.Text(v), true
	}
	return types.Value{}, false
}

func resolveConfig(segments []string, ctx *types.Context) (types.Value, bool) {
	if ctx.Config == nil {
		return types.Value{}, false
	}
	return ctx.Config.Lookup(strings.Join(segments, "."))
}

func resolveCart(field string, ctx *types.Context) (types.Value, bool) {
	if ctx.Cart == nil {
		return types.Value{}, false
	}

	switch strings.ToLower(field) {
	case "totalamount":
		return types.Number(ctx.Cart.TotalAmount()), true
	case "totalquantity":
		return types.Number(float64(ctx.Cart.TotalQuantity())), true
	case "itemscount":
		return types.Number(float64(ctx.Cart.ItemCount())), true
	}
	return types.Value{}, false
}

// resolveOperand materializes any operand kind as a Value. Literals always
// resolve; property paths may not.
func resolveOperand(op ast.Operand, ctx *types.Context) (types.Value, bool) {
	switch o := op.(type) {
	case *ast.PropertyAccess:
		return resolve(o, ctx)
	case *ast.NumberLiteral:
		return types.Number(o.Value), true
	case *ast.StringLiteral:
		return types.Text(o.Value), true
	}
	return types.Value{}, false
}

// operandKey renders an operand the way it was written, for config-key
// parameters: a property path keeps its dotted form minus the config root,
// literals render as themselves.
func operandKey(op ast.Operand) string {
	switch o := op.(type) {
	case *ast.PropertyAccess:
		segments := o.Segments
		if len(segments) > 1 && strings.EqualFold(segments[0], "config") {
			segments = segments[1:]
		}
		return strings.Join(segments, ".")
	case *ast.NumberLiteral:
		if o.Text != "" {
			return o.Text
		}
		return strconv.FormatFloat(o.Value, 'f', -1, 64)
	case *ast.StringLiteral:
		return o.Value
	}
	return ""
}
