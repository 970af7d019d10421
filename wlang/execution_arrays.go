package wlang

import "math"

// lookupArray fetches a bound array or explains why name is not one.
func (exec *Execution) lookupArray(name string) (Value, error) {
	val, ok := exec.env.Get(name)
	if !ok {
		return Value{}, exec.undefinedVariable(name)
	}
	if val.Kind() != KindArray {
		return Value{}, newFault(TypeError, "'%s' is %s, not an array", name, describe(val))
	}
	return val, nil
}

func (exec *Execution) evalArrayLen(s *ArrayLenStmt) error {
	arr, err := exec.lookupArray(s.Array)
	if err != nil {
		return err
	}
	return exec.bind(s.Target, NewInt(int64(arr.Len())))
}

func (exec *Execution) evalArrayPush(s *ArrayPushStmt) error {
	arr, err := exec.lookupArray(s.Array)
	if err != nil {
		return err
	}
	val, err := exec.evalExpression(s.Value)
	if err != nil {
		return err
	}
	item, err := coerceElement(arr.ElementKind(), val)
	if err != nil {
		return err
	}
	exec.env.Set(s.Array, NewArray(arr.ElementKind(), append(arr.Elements(), item)))
	return nil
}

// coerceElement checks val against an array's element kind. Numeric
// strings are accepted into numeric arrays.
func coerceElement(kind ElementKind, val Value) (Value, error) {
	switch kind {
	case ElementNumeric:
		if num, ok := coerceNumeric(val); ok {
			return num, nil
		}
		return Value{}, newFault(TypeError, "cannot push %s onto a numeric array", describe(val))
	default:
		if val.Kind() == KindString {
			return val, nil
		}
		return Value{}, newFault(TypeError, "cannot push %s onto a string array", describe(val))
	}
}

func (exec *Execution) evalArrayPop(s *ArrayPopStmt) error {
	arr, err := exec.lookupArray(s.Array)
	if err != nil {
		return err
	}
	items := arr.Elements()
	if len(items) == 0 {
		return newFault(IndexError, "pop from empty array '%s'", s.Array)
	}
	last := items[len(items)-1]
	exec.env.Set(s.Array, NewArray(arr.ElementKind(), items[:len(items)-1]))
	return exec.bind(s.Target, last)
}

func (exec *Execution) evalArrayGet(s *ArrayGetStmt) error {
	arr, err := exec.lookupArray(s.Array)
	if err != nil {
		return err
	}
	idx, err := exec.evalExpression(s.Index)
	if err != nil {
		return err
	}
	index, ok := integralIndex(idx)
	if !ok {
		return newFault(TypeError, "array index must be a whole number, got %s", describe(idx))
	}
	if index < 0 || index >= int64(arr.Len()) {
		return newFault(IndexError, "index %d out of range for array '%s' of length %d", index, s.Array, arr.Len())
	}
	return exec.bind(s.Target, arr.Elements()[index])
}

func integralIndex(val Value) (int64, bool) {
	switch val.Kind() {
	case KindInt:
		return val.Int(), true
	case KindFloat:
		f := val.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return int64(f), true
	}
	return 0, false
}
