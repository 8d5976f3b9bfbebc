// Package schema validates untrusted payloads crossing the merchant
// boundary. Merchant callbacks are arbitrary code; every value they return
// (and every caller-supplied order line handed to them) passes through
// these checks before it influences pricing, cart state, or anything shown
// to the tool layer. All functions are pure and return a field-level
// *model.ValidationError, or nil when the payload is valid.
package schema

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"merchant-kit/internal/model"
)

// AsFloat coerces a payload value to a float64. Numeric strings such as
// "12.50" are accepted; booleans and other shapes are not.
func AsFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// AsInt coerces a payload value to an int. Floats are accepted only when
// integral, since JSON decoding delivers every number as float64.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	default:
		return 0, false
	}
}

// AsIntStrict is AsInt without string coercion, for fields whose contract
// declares an integer rather than something integer-like.
func AsIntStrict(v any) (int, bool) {
	if _, isStr := v.(string); isStr {
		return 0, false
	}
	return AsInt(v)
}

// AsString returns a payload value as a string if it is one.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsList returns a payload value as a generic list. JSON decoding yields
// []any, but adapters that build payloads in Go often produce
// []map[string]any directly; both are accepted.
func AsList(v any) ([]any, bool) {
	switch l := v.(type) {
	case []any:
		return l, true
	case []map[string]any:
		out := make([]any, len(l))
		for i, m := range l {
			out[i] = m
		}
		return out, true
	default:
		return nil, false
	}
}

// ValidateProduct checks a raw product payload. The path prefix appears in
// any returned error (use "product" for a standalone payload).
func ValidateProduct(product map[string]any, path string) *model.ValidationError {
	if product == nil {
		return model.NewValidationError(path, "must be an object")
	}

	for _, field := range []string{"id", "name", "base_price", "stock_level"} {
		if _, ok := product[field]; !ok {
			return model.NewValidationError(path+"."+field, "missing required field")
		}
	}

	if s, ok := AsString(product["id"]); !ok || strings.TrimSpace(s) == "" {
		return model.NewValidationError(path+".id", "must be a non-empty string")
	}
	if s, ok := AsString(product["name"]); !ok || strings.TrimSpace(s) == "" {
		return model.NewValidationError(path+".name", "must be a non-empty string")
	}

	price, ok := AsFloat(product["base_price"])
	if !ok {
		return model.NewValidationError(path+".base_price", "must be numeric")
	}
	if price < 0 {
		return model.NewValidationError(path+".base_price", "must be >= 0")
	}

	stock, ok := AsIntStrict(product["stock_level"])
	if !ok {
		return model.NewValidationError(path+".stock_level", "must be an integer")
	}
	if stock < 0 {
		return model.NewValidationError(path+".stock_level", "must be >= 0")
	}

	if v, ok := product["description"]; ok {
		if _, isStr := AsString(v); !isStr {
			return model.NewValidationError(path+".description", "must be a string")
		}
	}
	if v, ok := product["image"]; ok && v != nil {
		if _, isStr := AsString(v); !isStr {
			return model.NewValidationError(path+".image", "must be a string or null")
		}
	}

	if v, ok := product["variations"]; ok && v != nil {
		vars, isList := AsList(v)
		if !isList {
			return model.NewValidationError(path+".variations", "must be a list or null")
		}
		for i, raw := range vars {
			if err := validateVariation(raw, fmt.Sprintf("%s.variations[%d]", path, i)); err != nil {
				return err
			}
		}
	}

	return nil
}

func validateVariation(v any, path string) *model.ValidationError {
	variation, ok := v.(map[string]any)
	if !ok {
		return model.NewValidationError(path, "must be an object")
	}
	for _, field := range []string{"type", "name", "price_modifier"} {
		if _, ok := variation[field]; !ok {
			return model.NewValidationError(path+"."+field, "missing required field")
		}
	}
	if s, ok := AsString(variation["type"]); !ok || strings.TrimSpace(s) == "" {
		return model.NewValidationError(path+".type", "must be a non-empty string")
	}
	if s, ok := AsString(variation["name"]); !ok || strings.TrimSpace(s) == "" {
		return model.NewValidationError(path+".name", "must be a non-empty string")
	}
	if _, ok := AsFloat(variation["price_modifier"]); !ok {
		return model.NewValidationError(path+".price_modifier", "must be numeric")
	}
	return nil
}

// ValidateProductList checks a raw product list. An empty list is valid;
// the list is valid iff every element is.
func ValidateProductList(products []map[string]any) *model.ValidationError {
	for i, p := range products {
		if err := ValidateProduct(p, fmt.Sprintf("products[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

// ValidateOrderItem checks a raw order line. Applied to caller input
// before it reaches merchant code, and to merchant output items on the
// way back.
func ValidateOrderItem(item map[string]any, path string) *model.ValidationError {
	if item == nil {
		return model.NewValidationError(path, "must be an object")
	}

	if _, ok := item["product_id"]; !ok {
		return model.NewValidationError(path+".product_id", "missing required field")
	}
	if s, ok := AsString(item["product_id"]); !ok || strings.TrimSpace(s) == "" {
		return model.NewValidationError(path+".product_id", "must be a non-empty string")
	}

	if _, ok := item["quantity"]; !ok {
		return model.NewValidationError(path+".quantity", "missing required field")
	}
	qty, ok := AsInt(item["quantity"])
	if !ok {
		return model.NewValidationError(path+".quantity", "must be an integer")
	}
	if qty <= 0 {
		return model.NewValidationError(path+".quantity", "must be > 0")
	}

	if v, ok := item["variations"]; ok && v != nil {
		vars, isList := AsList(v)
		if !isList {
			return model.NewValidationError(path+".variations", "must be a list or null")
		}
		for i, raw := range vars {
			varPath := fmt.Sprintf("%s.variations[%d]", path, i)
			variation, isMap := raw.(map[string]any)
			if !isMap {
				return model.NewValidationError(varPath, "must be an object")
			}
			if _, ok := variation["type"]; !ok {
				return model.NewValidationError(varPath+".type", "missing required field")
			}
			if _, ok := variation["name"]; !ok {
				return model.NewValidationError(varPath+".name", "missing required field")
			}
			if _, ok := AsString(variation["type"]); !ok {
				return model.NewValidationError(varPath+".type", "must be a string")
			}
			if _, ok := AsString(variation["name"]); !ok {
				return model.NewValidationError(varPath+".name", "must be a string")
			}
		}
	}

	return nil
}

// ValidateOrder checks a raw order payload returned by the merchant's
// order-creation callback.
func ValidateOrder(order map[string]any) *model.ValidationError {
	if order == nil {
		return model.NewValidationError("order", "must be an object")
	}

	for _, field := range []string{"order_id", "items", "total_amount"} {
		if _, ok := order[field]; !ok {
			return model.NewValidationError("order."+field, "missing required field")
		}
	}

	if s, ok := AsString(order["order_id"]); !ok || strings.TrimSpace(s) == "" {
		return model.NewValidationError("order.order_id", "must be a non-empty string")
	}

	items, ok := AsList(order["items"])
	if !ok {
		return model.NewValidationError("order.items", "must be a list")
	}
	if len(items) == 0 {
		return model.NewValidationError("order.items", "cannot be empty")
	}
	for i, raw := range items {
		path := fmt.Sprintf("order.items[%d]", i)
		item, isMap := raw.(map[string]any)
		if !isMap {
			return model.NewValidationError(path, "must be an object")
		}
		if err := ValidateOrderItem(item, path); err != nil {
			return err
		}
	}

	total, ok := AsFloat(order["total_amount"])
	if !ok {
		return model.NewValidationError("order.total_amount", "must be numeric")
	}
	if total < 0 {
		return model.NewValidationError("order.total_amount", "cannot be negative")
	}

	return nil
}
