package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

/*
 * Closed value type for configuration and resolved properties.
 *
 * Config values and property lookups produce one of three kinds: number,
 * string, or boolean. Conversions return an explicit ok flag instead of
 * throwing or defaulting silently; callers decide the fallback.
 *
 * Coercion rules:
 *   - AsNumber: numbers pass through; numeric strings parse (trimmed);
 *     booleans are rejected to avoid the "true" vs 1 ambiguity.
 *   - AsText: lenient, every kind has a string form.
 *   - AsBool: strict, booleans only.
 *   - Truthy: booleans as-is, numbers non-zero, strings non-empty.
 */

// Kind discriminates the variants of Value.
type Kind int

const (
	KindNumber Kind = iota
	KindString
	KindBool
)

// Value is an immutable tagged union of number, string, and boolean.
// The zero value is the number 0.
type Value struct {
	kind Kind
	num  float64
	str  string
	b    bool
}

// Number wraps a float64 as a Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Text wraps a string as a Value.
func Text(s string) Value {
	return Value{kind: KindString, str: s}
}

// Bool wraps a boolean as a Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Kind returns the variant tag.
func (v Value) Kind() Kind {
	return v.kind
}

// AsNumber converts the value to a float64. Numeric strings coerce;
// whitespace-only strings and booleans do not.
func (v Value) AsNumber() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		s := strings.TrimSpace(v.str)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// AsText converts the value to its string form. Always succeeds.
func (v Value) AsText() (string, bool) {
	return v.String(), true
}

// AsBool returns the boolean payload. Strict: no string or number coercion.
func (v Value) AsBool() (bool, bool) {
	if v.kind == KindBool {
		return v.b, true
	}
	return false, false
}

// Truthy reports whether the value counts as true in a bare comparison.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindBool:
		return v.b
	case KindNumber:
		return v.num != 0
	default:
		return v.str != ""
	}
}

// String renders the value for display and parameter snapshots.
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.b)
	default:
		return v.str
	}
}

// MarshalJSON implements json.Marshaler.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		return json.Marshal(v.num)
	case KindBool:
		return json.Marshal(v.b)
	default:
		return json.Marshal(v.str)
	}
}

// UnmarshalJSON implements json.Unmarshaler. Accepts JSON numbers,
// strings, and booleans; anything else is rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch x := raw.(type) {
	case float64:
		*v = Number(x)
	case string:
		*v = Text(x)
	case bool:
		*v = Bool(x)
	default:
		return fmt.Errorf("config value must be number, string, or boolean, got %T", raw)
	}
	return nil
}
