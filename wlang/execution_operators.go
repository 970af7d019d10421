package wlang

func (exec *Execution) evalExpression(expr Expression) (Value, error) {
	switch e := expr.(type) {
	case *IntegerLiteral:
		return NewInt(e.Value), nil
	case *FloatLiteral:
		return NewFloat(e.Value), nil
	case *StringLiteral:
		return NewString(e.Value), nil
	case *BoolLiteral:
		return NewBool(e.Value), nil
	case *Identifier:
		return exec.lookup(e)
	case *UnaryExpr:
		return exec.evalUnary(e)
	case *BinaryExpr:
		return exec.evalBinary(e)
	default:
		return Value{}, newFault(TypeError, "unsupported expression %T", expr)
	}
}

// lookup resolves a name. An unbound double-quoted name reads as the
// literal text between the quotes.
func (exec *Execution) lookup(ident *Identifier) (Value, error) {
	if val, ok := exec.env.Get(ident.Name); ok {
		return val, nil
	}
	if ident.Quote == '"' {
		return NewString(ident.Name), nil
	}
	return Value{}, exec.undefinedVariable(ident.Name)
}

func (exec *Execution) undefinedVariable(name string) *Error {
	fault := newFault(NameError, "undefined variable '%s'", name)
	if hint := suggestName(name, exec.env.Names()); hint != "" {
		fault.Message += hint
	}
	return fault
}

func (exec *Execution) evalUnary(e *UnaryExpr) (Value, error) {
	right, err := exec.evalExpression(e.Right)
	if err != nil {
		return Value{}, err
	}
	switch e.Operator {
	case tokenMinus:
		return negateValue(right)
	case tokenNot:
		if right.Kind() != KindBool {
			return Value{}, newFault(TypeError, "'not' needs a bool, got %s", describe(right))
		}
		return NewBool(!right.Bool()), nil
	}
	return Value{}, newFault(TypeError, "unsupported unary operator '%s'", e.Operator)
}

func (exec *Execution) evalBinary(e *BinaryExpr) (Value, error) {
	if e.Operator == tokenAnd || e.Operator == tokenOr {
		return exec.evalLogical(e)
	}

	left, err := exec.evalExpression(e.Left)
	if err != nil {
		return Value{}, err
	}
	right, err := exec.evalExpression(e.Right)
	if err != nil {
		return Value{}, err
	}

	switch e.Operator {
	case tokenPlus:
		return addValues(left, right)
	case tokenMinus:
		return subtractValues(left, right)
	case tokenAsterisk:
		return multiplyValues(left, right)
	case tokenSlash:
		return divideValues(left, right)
	case tokenEQ, tokenNotEQ, tokenLT, tokenLTE, tokenGT, tokenGTE:
		return compareValues(e.Operator, left, right)
	}
	return Value{}, newFault(TypeError, "unsupported operator '%s'", e.Operator)
}

// evalLogical short-circuits and requires bool operands on both sides.
func (exec *Execution) evalLogical(e *BinaryExpr) (Value, error) {
	word := "and"
	if e.Operator == tokenOr {
		word = "or"
	}

	left, err := exec.evalExpression(e.Left)
	if err != nil {
		return Value{}, err
	}
	if left.Kind() != KindBool {
		return Value{}, newFault(TypeError, "'%s' needs bool operands, got %s", word, describe(left))
	}
	if e.Operator == tokenAnd && !left.Bool() {
		return NewBool(false), nil
	}
	if e.Operator == tokenOr && left.Bool() {
		return NewBool(true), nil
	}

	right, err := exec.evalExpression(e.Right)
	if err != nil {
		return Value{}, err
	}
	if right.Kind() != KindBool {
		return Value{}, newFault(TypeError, "'%s' needs bool operands, got %s", word, describe(right))
	}
	return right, nil
}

// evalCondition evaluates an if or while condition, which must be a bool.
func (exec *Execution) evalCondition(keyword string, expr Expression) (bool, error) {
	val, err := exec.evalExpression(expr)
	if err != nil {
		return false, err
	}
	if val.Kind() != KindBool {
		return false, newFault(TypeError, "%s condition must be true or false, got %s", keyword, describe(val))
	}
	return val.Bool(), nil
}
