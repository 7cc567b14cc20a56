// Package timeline maps sparse per-channel emotion observations onto a
// shared time axis: timestamp normalization, ordered series, segment lookup,
// majority-vote smoothing and change detection.
package timeline

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float converts a loosely typed JSON/YAML value into a finite float64.
// Anything non-numeric, unparseable, NaN or infinite yields ok=false.
func Float(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case nil:
		return 0, false
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case uint32:
		f = float64(x)
	case json.Number:
		p, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = p
	case string:
		p, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = p
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Normalize converts a timestamp in seconds from media start. Values that
// fail conversion or are negative are unusable: callers drop them instead
// of defaulting to zero.
func Normalize(v any) (float64, bool) {
	f, ok := Float(v)
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}
