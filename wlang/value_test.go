package wlang

import (
	"math"
	"testing"
)

func TestValueDisplay(t *testing.T) {
	cases := []struct {
		val  Value
		want string
	}{
		{NewInt(-7), "-7"},
		{NewFloat(2), "2.0"},
		{NewFloat(-5.2), "-5.2"},
		{NewFloat(0.1 + 0.2), "0.30000000000000004"},
		{NewFloat(math.Inf(1)), "+Inf"},
		{NewBool(true), "true"},
		{NewString("plain"), "plain"},
		{NewArray(ElementNumeric, []Value{NewInt(1), NewFloat(2.5)}), "[1, 2.5]"},
		{NewArray(ElementString, nil), "[]"},
	}
	for _, tc := range cases {
		if got := tc.val.String(); got != tc.want {
			t.Fatalf("display of %v kind: want %q, got %q", tc.val.Kind(), tc.want, got)
		}
	}
}

func TestArrayValuesDoNotShareStorage(t *testing.T) {
	items := []Value{NewInt(1)}
	arr := NewArray(ElementNumeric, items)
	items[0] = NewInt(99)
	if arr.Elements()[0].Int() != 1 {
		t.Fatalf("array aliased its input slice")
	}
	elems := arr.Elements()
	elems[0] = NewInt(5)
	if arr.Elements()[0].Int() != 1 {
		t.Fatalf("Elements exposed internal storage")
	}
}

func TestValueEqual(t *testing.T) {
	if !NewInt(2).Equal(NewFloat(2)) {
		t.Fatalf("expected 2 == 2.0")
	}
	if NewString("1").Equal(NewInt(1)) {
		t.Fatalf("string and int must differ")
	}
	a := NewArray(ElementString, []Value{NewString("x")})
	b := NewArray(ElementString, []Value{NewString("x")})
	if !a.Equal(b) {
		t.Fatalf("expected equal arrays")
	}
	if a.Equal(NewArray(ElementNumeric, nil)) {
		t.Fatalf("arrays of different lengths must differ")
	}
}

func TestArithmeticWidening(t *testing.T) {
	got, err := arithmetic(tokenSlash, NewInt(math.MinInt64), NewInt(-1))
	if err != nil {
		t.Fatalf("divide: %v", err)
	}
	if got.Kind() != KindFloat {
		t.Fatalf("expected overflowing division to widen, got %v", got.Kind())
	}

	got, err = arithmetic(tokenMinus, NewInt(5), NewFloat(0.5))
	if err != nil || got.Kind() != KindFloat || got.Float() != 4.5 {
		t.Fatalf("unexpected mixed subtraction %v (%v)", got, err)
	}

	if _, err := arithmetic(tokenAsterisk, NewBool(true), NewInt(1)); KindOf(err) != TypeError {
		t.Fatalf("expected TypeError, got %v", err)
	}
	if _, err := arithmetic(tokenSlash, NewFloat(1), NewFloat(0)); KindOf(err) != DivisionByZero {
		t.Fatalf("expected DivisionByZero, got %v", err)
	}
}

func TestCompareValues(t *testing.T) {
	cases := []struct {
		op          TokenType
		left, right Value
		want        bool
	}{
		{tokenLT, NewInt(1), NewFloat(1.5), true},
		{tokenGTE, NewInt(3), NewInt(3), true},
		{tokenEQ, NewBool(true), NewBool(true), true},
		{tokenNotEQ, NewString("a"), NewString("b"), true},
		{tokenGT, NewString("b"), NewString("a"), true},
	}
	for _, tc := range cases {
		got, err := compareValues(tc.op, tc.left, tc.right)
		if err != nil {
			t.Fatalf("%v %s %v: %v", tc.left, tc.op, tc.right, err)
		}
		if got.Bool() != tc.want {
			t.Fatalf("%v %s %v: want %v", tc.left, tc.op, tc.right, tc.want)
		}
	}

	if _, err := compareValues(tokenLT, NewBool(false), NewBool(true)); KindOf(err) != TypeError {
		t.Fatalf("expected bools to reject ordering, got %v", err)
	}
	if _, err := compareValues(tokenEQ, NewInt(1), NewString("1")); KindOf(err) != TypeError {
		t.Fatalf("expected mixed equality to be a TypeError, got %v", err)
	}
}

func TestCoerceNumeric(t *testing.T) {
	if v, ok := coerceNumeric(NewString(" 12 ")); !ok || v.Kind() != KindInt || v.Int() != 12 {
		t.Fatalf("unexpected coercion %v %v", v, ok)
	}
	if v, ok := coerceNumeric(NewString("1.5")); !ok || v.Kind() != KindFloat {
		t.Fatalf("unexpected coercion %v %v", v, ok)
	}
	for _, bad := range []string{"abc", "", "NaN", "Inf"} {
		if _, ok := coerceNumeric(NewString(bad)); ok {
			t.Fatalf("expected %q to be rejected", bad)
		}
	}
}

func TestEnvSnapshotAndNames(t *testing.T) {
	env := newEnv()
	env.Set("b", NewInt(2))
	env.Set("a", NewInt(1))
	env.Define(&Function{Name: "f"})
	names := env.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "b" {
		t.Fatalf("unexpected names %v", names)
	}
	env.ClearValues()
	if len(env.Names()) != 0 {
		t.Fatalf("expected values cleared")
	}
	if _, ok := env.Function("f"); !ok {
		t.Fatalf("expected function to survive clear")
	}
}

func TestSuggestions(t *testing.T) {
	if got := suggestName("totl", []string{"total", "other"}); got != " (did you mean 'total'?)" {
		t.Fatalf("unexpected suggestion %q", got)
	}
	if got := suggestName("zzz", []string{"total"}); got != "" {
		t.Fatalf("expected no suggestion, got %q", got)
	}
	got := Complete("wh", []string{"show", "while", "write"})
	if len(got) == 0 || got[0] != "while" {
		t.Fatalf("expected prefix match first, got %v", got)
	}
}
