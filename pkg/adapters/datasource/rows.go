package datasource

import (
	"fmt"
	"strconv"
)

// Drivers disagree on how they surface performance_schema counters: int64,
// uint64, float64, []byte, or string depending on driver and column type.
// These helpers coerce row values into the type diagnostics math needs.

// Float64Value coerces a row value to float64, returning 0 for NULL or
// anything non-numeric.
func Float64Value(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case float32:
		return float64(x)
	case int64:
		return float64(x)
	case int:
		return float64(x)
	case uint64:
		return float64(x)
	case []byte:
		f, _ := strconv.ParseFloat(string(x), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(x, 64)
		return f
	default:
		return 0
	}
}

// Int64Value coerces a row value to int64, returning 0 for NULL or anything
// non-numeric.
func Int64Value(v any) int64 {
	switch x := v.(type) {
	case nil:
		return 0
	case int64:
		return x
	case int:
		return int64(x)
	case uint64:
		return int64(x)
	case float64:
		return int64(x)
	case []byte:
		n, _ := strconv.ParseInt(string(x), 10, 64)
		return n
	case string:
		n, _ := strconv.ParseInt(x, 10, 64)
		return n
	default:
		return 0
	}
}

// StringValue coerces a row value to string, returning "" for NULL.
func StringValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
