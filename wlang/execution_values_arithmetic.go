package wlang

import (
	"math"
	"strconv"
	"strings"
)

// addValues concatenates display text when either operand is a String and
// adds numerically otherwise.
func addValues(left, right Value) (Value, error) {
	if left.Kind() == KindString || right.Kind() == KindString {
		return NewString(left.String() + right.String()), nil
	}
	return arithmetic(tokenPlus, left, right)
}

func subtractValues(left, right Value) (Value, error) {
	return arithmetic(tokenMinus, left, right)
}

func multiplyValues(left, right Value) (Value, error) {
	return arithmetic(tokenAsterisk, left, right)
}

func divideValues(left, right Value) (Value, error) {
	return arithmetic(tokenSlash, left, right)
}

// arithmetic keeps Int when both operands are Int and widens to Float
// otherwise. Int division truncates toward zero.
func arithmetic(op TokenType, left, right Value) (Value, error) {
	if !left.IsNumeric() || !right.IsNumeric() {
		return Value{}, newFault(TypeError, "operator '%s' needs numbers, got %s and %s", op, describe(left), describe(right))
	}

	if left.Kind() == KindInt && right.Kind() == KindInt {
		a, b := left.Int(), right.Int()
		switch op {
		case tokenPlus:
			return NewInt(a + b), nil
		case tokenMinus:
			return NewInt(a - b), nil
		case tokenAsterisk:
			return NewInt(a * b), nil
		case tokenSlash:
			if b == 0 {
				return Value{}, newFault(DivisionByZero, "division by zero")
			}
			if a == math.MinInt64 && b == -1 {
				return NewFloat(-float64(a)), nil
			}
			return NewInt(a / b), nil
		}
	}

	a, b := left.Float(), right.Float()
	switch op {
	case tokenPlus:
		return NewFloat(a + b), nil
	case tokenMinus:
		return NewFloat(a - b), nil
	case tokenAsterisk:
		return NewFloat(a * b), nil
	case tokenSlash:
		if b == 0 {
			return Value{}, newFault(DivisionByZero, "division by zero")
		}
		return NewFloat(a / b), nil
	}
	return Value{}, newFault(TypeError, "unknown arithmetic operator '%s'", op)
}

// compareValues orders numbers by value and strings lexicographically.
// Bools and arrays only support == and !=; mixed kinds never compare.
func compareValues(op TokenType, left, right Value) (Value, error) {
	if op == tokenEQ || op == tokenNotEQ {
		if !comparableKinds(left, right) {
			return Value{}, newFault(TypeError, "cannot compare %s with %s", describe(left), describe(right))
		}
		equal := left.Equal(right)
		if op == tokenNotEQ {
			equal = !equal
		}
		return NewBool(equal), nil
	}

	var cmp int
	switch {
	case left.IsNumeric() && right.IsNumeric():
		a, b := left.Float(), right.Float()
		if left.Kind() == KindInt && right.Kind() == KindInt {
			cmp = compareInts(left.Int(), right.Int())
		} else {
			cmp = compareFloats(a, b)
		}
	case left.Kind() == KindString && right.Kind() == KindString:
		cmp = strings.Compare(left.Str(), right.Str())
	default:
		return Value{}, newFault(TypeError, "operator '%s' cannot order %s and %s", op, describe(left), describe(right))
	}

	switch op {
	case tokenLT:
		return NewBool(cmp < 0), nil
	case tokenLTE:
		return NewBool(cmp <= 0), nil
	case tokenGT:
		return NewBool(cmp > 0), nil
	case tokenGTE:
		return NewBool(cmp >= 0), nil
	}
	return Value{}, newFault(TypeError, "unknown comparison operator '%s'", op)
}

func comparableKinds(left, right Value) bool {
	if left.IsNumeric() && right.IsNumeric() {
		return true
	}
	return left.Kind() == right.Kind()
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareFloats(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func negateValue(val Value) (Value, error) {
	switch val.Kind() {
	case KindInt:
		return NewInt(-val.Int()), nil
	case KindFloat:
		return NewFloat(-val.Float()), nil
	}
	return Value{}, newFault(TypeError, "unary '-' needs a number, got %s", describe(val))
}

// coerceNumeric returns numbers unchanged and parses numeric strings.
func coerceNumeric(val Value) (Value, bool) {
	switch val.Kind() {
	case KindInt, KindFloat:
		return val, true
	case KindString:
		return parseNumber(val.Str())
	}
	return Value{}, false
}

func parseNumber(text string) (Value, bool) {
	text = strings.TrimSpace(text)
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return NewInt(i), true
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return Value{}, false
	}
	return NewFloat(f), true
}
