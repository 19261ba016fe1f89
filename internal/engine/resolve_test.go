package engine

import (
	"testing"

	"github.com/promolang/promolang/internal/ast"
	"github.com/promolang/promolang/internal/types"
)

func testContext() *types.Context {
	return &types.Context{
		Cart: &types.Cart{
			Items: []types.CartItem{
				{
					SKU:      "SKU-1",
					Name:     "Espresso Beans",
					Price:    12.50,
					Quantity: 2,
					Properties: map[string]string{
						"category": "coffee",
					},
				},
				{
					SKU:      "SKU-2",
					Name:     "Filter Papers",
					Price:    3.50,
					Quantity: 1,
				},
			},
		},
		Config: types.Config{
			"minAmount":       types.Number(50),
			"discountPercent": types.Number(10),
			"limits.max":      types.Number(3),
			"label":           types.Text("vip"),
		},
	}
}

func path(segments ...string) *ast.PropertyAccess {
	return &ast.PropertyAccess{Segments: segments}
}

func TestResolve(t *testing.T) {
	ctx := testContext()

	tests := []struct {
		name      string
		path      *ast.PropertyAccess
		want      types.Value
		wantFound bool
	}{
		{name: "item sku", path: path("item", "sku"), want: types.Text("SKU-1"), wantFound: true},
		{name: "item name", path: path("item", "name"), want: types.Text("Espresso Beans"), wantFound: true},
		{name: "item price", path: path("item", "price"), want: types.Number(12.50), wantFound: true},
		{name: "item quantity", path: path("item", "quantity"), want: types.Number(2), wantFound: true},
		{name: "item totalPrice", path: path("item", "totalPrice"), want: types.Number(25), wantFound: true},
		{name: "item free-form property", path: path("item", "category"), want: types.Text("coffee"), wantFound: true},
		{name: "item missing property", path: path("item", "brand"), wantFound: false},
		{name: "cart totalAmount", path: path("cart", "totalAmount"), want: types.Number(28.5), wantFound: true},
		{name: "cart totalQuantity", path: path("cart", "totalQuantity"), want: types.Number(3), wantFound: true},
		{name: "cart itemsCount", path: path("cart", "itemsCount"), want: types.Number(2), wantFound: true},
		{name: "cart unknown field", path: path("cart", "weight"), wantFound: false},
		{name: "config key", path: path("config", "minAmount"), want: types.Number(50), wantFound: true},
		{name: "config dotted key", path: path("config", "limits", "max"), want: types.Number(3), wantFound: true},
		{name: "config missing key", path: path("config", "absent"), wantFound: false},
		{name: "fields are case-insensitive", path: path("Cart", "TOTALAMOUNT"), want: types.Number(28.5), wantFound: true},
		{name: "unknown root", path: path("order", "total"), wantFound: false},
		{name: "bare root", path: path("cart"), wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := resolve(tt.path, ctx)
			if found != tt.wantFound {
				t.Fatalf("resolve() found = %v, want %v", found, tt.wantFound)
			}
			if found && got != tt.want {
				t.Errorf("resolve() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolve_FirstItemOnly(t *testing.T) {
	// item.* always reads the first cart item, never iterates.
	ctx := testContext()
	got, found := resolve(path("item", "sku"), ctx)
	if !found {
		t.Fatal("resolve() found = false, want true")
	}
	if s, _ := got.AsText(); s != "SKU-1" {
		t.Errorf("item.sku = %q, want first item %q", s, "SKU-1")
	}
}

func TestResolve_EmptyContext(t *testing.T) {
	ctx := &types.Context{}

	for _, p := range []*ast.PropertyAccess{
		path("item", "sku"),
		path("cart", "totalAmount"),
		path("config", "minAmount"),
	} {
		if _, found := resolve(p, ctx); found {
			t.Errorf("resolve(%s) found = true, want false on empty context", p)
		}
	}
}

func TestResolve_DepthLimit(t *testing.T) {
	segments := make([]string, types.MaxPathDepth+1)
	segments[0] = "config"
	for i := 1; i < len(segments); i++ {
		segments[i] = "x"
	}
	if _, found := resolve(&ast.PropertyAccess{Segments: segments}, testContext()); found {
		t.Error("resolve() found = true, want false for over-deep path")
	}
}

func TestOperandKey(t *testing.T) {
	tests := []struct {
		name string
		op   ast.Operand
		want string
	}{
		{name: "config path drops root", op: path("config", "minAmount"), want: "minAmount"},
		{name: "dotted config key", op: path("config", "limits", "max"), want: "limits.max"},
		{name: "non-config path keeps root", op: path("item", "sku"), want: "item.sku"},
		{name: "number keeps written form", op: &ast.NumberLiteral{Value: 10, Text: "10.0"}, want: "10.0"},
		{name: "string literal", op: &ast.StringLiteral{Value: "vip"}, want: "vip"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := operandKey(tt.op); got != tt.want {
				t.Errorf("operandKey() = %q, want %q", got, tt.want)
			}
		})
	}
}
