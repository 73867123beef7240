package player

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// coercion outcomes for a single raw field.
type coercion int

const (
	absent coercion = iota
	parsed
	malformed
)

// leadingNumber parses the longest decimal literal at the start of s, after
// leading whitespace, the way browsers parse "12.5abc" as 12.5. Non-finite
// results are rejected.
func leadingNumber(s string) (float64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0, false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || !finite(v) {
		return 0, false
	}
	return v, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// toFloat coerces a decoded JSON value to a finite float64.
func toFloat(v any) (float64, coercion) {
	switch t := v.(type) {
	case nil:
		return 0, absent
	case float64:
		if !finite(t) {
			return 0, malformed
		}
		return t, parsed
	case float32:
		return toFloat(float64(t))
	case int:
		return float64(t), parsed
	case int64:
		return float64(t), parsed
	case int32:
		return float64(t), parsed
	case json.Number:
		return toFloat(t.String())
	case string:
		if f, ok := leadingNumber(t); ok {
			return f, parsed
		}
		return 0, malformed
	default:
		return 0, malformed
	}
}

// toString renders scalar raw values as text; nil and composites are absent.
func toString(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case int, int64, int32, bool:
		return fmt.Sprint(t), true
	default:
		return "", false
	}
}
