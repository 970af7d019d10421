package wlang

import "strconv"

func (p *parser) parseExpression(precedence int) Expression {
	prefix := p.prefixFns[p.curToken.Type]
	if prefix == nil {
		p.errorExpected(p.curToken, "expression")
		return nil
	}

	left := prefix()
	for left != nil && !p.peekToken.IsSeparator() && precedence < p.peekPrecedence() {
		if p.splitSigns && p.peekToken.Sign {
			return left
		}
		infix := p.infixFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *parser) parseIdentifier() Expression {
	return &Identifier{Name: p.curToken.Literal, Quote: p.curToken.Quote, position: p.curToken.Pos}
}

func (p *parser) parseIntegerLiteral() Expression {
	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError(p.curToken.Pos, "integer literal %s is out of range", p.curToken.Literal)
		return nil
	}
	return &IntegerLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseFloatLiteral() Expression {
	value, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.addError(p.curToken.Pos, "invalid float literal %s", p.curToken.Literal)
		return nil
	}
	return &FloatLiteral{Value: value, position: p.curToken.Pos}
}

func (p *parser) parseStringLiteral() Expression {
	return &StringLiteral{Value: p.curToken.Literal, position: p.curToken.Pos}
}

func (p *parser) parseBoolLiteral() Expression {
	return &BoolLiteral{Value: p.curToken.Type == tokenTrue, position: p.curToken.Pos}
}

func (p *parser) parseGroupedExpression() Expression {
	if !p.advance("expression") {
		return nil
	}
	split := p.splitSigns
	p.splitSigns = false
	expr := p.parseExpression(lowestPrec)
	p.splitSigns = split
	if expr == nil {
		return nil
	}
	if p.peekToken.Type != tokenRParen {
		p.errorExpected(p.peekToken, "')'")
		return nil
	}
	p.nextToken()
	return expr
}

// parsePrefixExpression binds unary minus tightest; not takes a whole
// comparison as its operand.
func (p *parser) parsePrefixExpression() Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	precedence := precPrefix
	if operator == tokenNot {
		precedence = precNot
	}
	if !p.advance("expression") {
		return nil
	}
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &UnaryExpr{Operator: operator, Right: right, position: pos}
}

func (p *parser) parseInfixExpression(left Expression) Expression {
	pos := p.curToken.Pos
	operator := p.curToken.Type
	if operator == tokenAssign {
		operator = tokenEQ
	}
	precedence := p.curPrecedence()
	if !p.advance("expression") {
		return nil
	}
	right := p.parseExpression(precedence)
	if right == nil {
		return nil
	}
	return &BinaryExpr{Left: left, Operator: operator, Right: right, position: pos}
}
