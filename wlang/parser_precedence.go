package wlang

const (
	lowestPrec = iota
	precLogic
	precNot
	precComparison
	precSum
	precProduct
	precPrefix
)

// and/or share one level and group left to right.
var precedences = map[TokenType]int{
	tokenAnd:      precLogic,
	tokenOr:       precLogic,
	tokenEQ:       precComparison,
	tokenNotEQ:    precComparison,
	tokenAssign:   precComparison,
	tokenLT:       precComparison,
	tokenLTE:      precComparison,
	tokenGT:       precComparison,
	tokenGTE:      precComparison,
	tokenPlus:     precSum,
	tokenMinus:    precSum,
	tokenSlash:    precProduct,
	tokenAsterisk: precProduct,
}

func (p *parser) peekPrecedence() int {
	return p.precedenceOf(p.peekToken.Type)
}

func (p *parser) curPrecedence() int {
	return p.precedenceOf(p.curToken.Type)
}

func (p *parser) precedenceOf(tt TokenType) int {
	if tt == tokenAssign && !p.condition {
		return lowestPrec
	}
	if prec, ok := precedences[tt]; ok {
		return prec
	}
	return lowestPrec
}
