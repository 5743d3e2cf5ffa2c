package homework

import (
	"encoding/json"
	"fmt"
	"math"
)

const (
	keyHomeworks   = "homeworks"
	keyCurrentDate = "current_date"
)

// ValidateResponse checks the shape of a successful poll result and returns
// its homeworks array unchanged (possibly empty). Individual records are not
// inspected here.
func ValidateResponse(v any) ([]any, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: response is %s, want object", ErrMalformedResponse, kindOf(v))
	}
	raw, ok := m[keyHomeworks]
	if !ok {
		return nil, fmt.Errorf("%w: key %q is absent", ErrMalformedResponse, keyHomeworks)
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q is %s, want array", ErrMalformedResponse, keyHomeworks, kindOf(raw))
	}
	return list, nil
}

// CurrentDate returns the server-reported current_date (unix seconds) if the
// response carries a usable one.
func CurrentDate(v any) (int64, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return 0, false
	}
	switch x := m[keyCurrentDate].(type) {
	case json.Number:
		n, err := x.Int64()
		if err != nil || n < 0 {
			return 0, false
		}
		return n, true
	case float64:
		if x < 0 || x != math.Trunc(x) {
			return 0, false
		}
		return int64(x), true
	case int64:
		return x, x >= 0
	case int:
		return int64(x), x >= 0
	default:
		return 0, false
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "bool"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
