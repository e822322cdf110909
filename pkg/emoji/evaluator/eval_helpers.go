package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ToDisplayString converts a value to the text that 📢 prints and that 🤝
// uses when either side is a string.
func ToDisplayString(obj Object) string {
	switch v := obj.(type) {
	case *String:
		return v.Value
	case *Integer, *Float, *Boolean, *List, *Null, *Error:
		return v.Inspect()
	}
	return fmt.Sprintf("%v", obj)
}

// IsTruthy evaluates an object for truthiness. Zero, NaN excepted, the
// empty string, an empty list, None and False are falsy.
func IsTruthy(obj Object) bool {
	switch v := obj.(type) {
	case *Boolean:
		return v.Value
	case *Integer:
		return v.Value != 0
	case *Float:
		return v.Value != 0
	case *String:
		return v.Value != ""
	case *List:
		return len(v.Elements) > 0
	case *Null:
		return false
	}
	return true
}

// toInteger accepts the values usable as a whole-number count or index.
func toInteger(obj Object) (int64, bool) {
	switch v := obj.(type) {
	case *Integer:
		return v.Value, true
	case *Boolean:
		if v.Value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// formatFloat renders the shortest round-trip digits with a fractional
// part, switching to exponent form below 1e-4 and from 1e16.
func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, expText, _ := strings.Cut(sci, "e")
	exp, _ := strconv.Atoi(expText)

	if f != 0 && (exp < -4 || exp >= 16) {
		sign := "+"
		if exp < 0 {
			sign = "-"
			exp = -exp
		}
		return fmt.Sprintf("%se%s%02d", mantissa, sign, exp)
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// quoteString renders a string inside a list: single quotes unless the
// text holds a single quote and no double quote.
func quoteString(s string) string {
	quote := '\''
	if strings.ContainsRune(s, '\'') && !strings.ContainsRune(s, '"') {
		quote = '"'
	}

	var sb strings.Builder
	sb.WriteRune(quote)
	for _, r := range s {
		switch {
		case r == quote || r == '\\':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		case r == '\n':
			sb.WriteString(`\n`)
		case r == '\r':
			sb.WriteString(`\r`)
		case r == '\t':
			sb.WriteString(`\t`)
		case !strconv.IsPrint(r):
			if r < 0x100 {
				fmt.Fprintf(&sb, `\x%02x`, r)
			} else if r < 0x10000 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				fmt.Fprintf(&sb, `\U%08x`, r)
			}
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteRune(quote)
	return sb.String()
}
