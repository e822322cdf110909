package evaluator

import (
	"math"

	"github.com/sambeau/emojiscript/pkg/emoji/lexer"
)

// number is an operand after numeric promotion. Booleans count as 0 and 1.
type number struct {
	i       int64
	f       float64
	isFloat bool
}

func toNumber(obj Object) (number, bool) {
	switch v := obj.(type) {
	case *Integer:
		return number{i: v.Value, f: float64(v.Value)}, true
	case *Boolean:
		if v.Value {
			return number{i: 1, f: 1}, true
		}
		return number{}, true
	case *Float:
		return number{f: v.Value, isFloat: true}, true
	}
	return number{}, false
}

func evalInfixExpression(operator lexer.TokenType, left, right Object) Object {
	switch {
	case operator == lexer.PLUS && (left.Type() == STRING_OBJ || right.Type() == STRING_OBJ):
		// String concatenation with automatic conversion of the other side
		return &String{Value: ToDisplayString(left) + ToDisplayString(right)}
	case left.Type() == STRING_OBJ && right.Type() == STRING_OBJ:
		return evalStringInfixExpression(operator, left.(*String), right.(*String))
	}

	l, lok := toNumber(left)
	r, rok := toNumber(right)
	if !lok || !rok {
		return newOperandError(operator, left, right)
	}

	if operator == lexer.DIVIDE || l.isFloat || r.isFloat {
		return evalFloatInfixExpression(operator, l.f, r.f)
	}
	return evalIntegerInfixExpression(operator, l.i, r.i, left, right)
}

func evalIntegerInfixExpression(operator lexer.TokenType, a, b int64, left, right Object) Object {
	switch operator {
	case lexer.PLUS:
		sum := a + b
		if (a > 0 && b > 0 && sum < 0) || (a < 0 && b < 0 && sum >= 0) {
			return newOverflowError(operator, left, right)
		}
		return &Integer{Value: sum}
	case lexer.MINUS:
		if (b > 0 && a < math.MinInt64+b) || (b < 0 && a > math.MaxInt64+b) {
			return newOverflowError(operator, left, right)
		}
		return &Integer{Value: a - b}
	case lexer.TIMES:
		product := a * b
		if a != 0 && (product/a != b || (a == -1 && b == math.MinInt64)) {
			return newOverflowError(operator, left, right)
		}
		return &Integer{Value: product}
	case lexer.GT:
		return nativeBoolToBoolean(a > b)
	case lexer.LT:
		return nativeBoolToBoolean(a < b)
	}
	return newOperandError(operator, left, right)
}

// evalFloatInfixExpression follows IEEE 754: dividing by zero gives an
// infinity or NaN, never an error.
func evalFloatInfixExpression(operator lexer.TokenType, a, b float64) Object {
	switch operator {
	case lexer.PLUS:
		return &Float{Value: a + b}
	case lexer.MINUS:
		return &Float{Value: a - b}
	case lexer.TIMES:
		return &Float{Value: a * b}
	case lexer.DIVIDE:
		return &Float{Value: a / b}
	case lexer.GT:
		return nativeBoolToBoolean(a > b)
	case lexer.LT:
		return nativeBoolToBoolean(a < b)
	}
	return newOperandError(operator, &Float{Value: a}, &Float{Value: b})
}

// evalStringInfixExpression handles the operators other than 🤝 that accept
// two strings: lexicographic comparison by code point.
func evalStringInfixExpression(operator lexer.TokenType, left, right *String) Object {
	switch operator {
	case lexer.GT:
		return nativeBoolToBoolean(left.Value > right.Value)
	case lexer.LT:
		return nativeBoolToBoolean(left.Value < right.Value)
	}
	return newOperandError(operator, left, right)
}

func newOverflowError(operator lexer.TokenType, left, right Object) *Error {
	return newStructuredError("VALUE-0003", map[string]any{
		"Left":     left.Inspect(),
		"Operator": operator.Symbol(),
		"Right":    right.Inspect(),
	})
}

func nativeBoolToBoolean(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}
