package wlang

import "fmt"

func (p *parser) errorExpected(tok Token, expected string) {
	if tok.Type == tokenIllegal {
		return
	}
	p.addError(tok.Pos, "expected %s, got %s", expected, tokenLabel(tok))
}

func (p *parser) addError(pos Position, format string, args ...any) {
	err := newError(ParseError, pos.Line, format, args...)
	err.Column = pos.Column
	p.errors = append(p.errors, err)
}

func (p *parser) addLexError(tok Token) {
	err := newError(LexError, tok.Pos.Line, "%s", tok.Literal)
	err.Column = tok.Pos.Column
	p.errors = append(p.errors, err)
}

func tokenLabel(tok Token) string {
	switch tok.Type {
	case tokenIllegal:
		return "invalid token"
	case tokenEOF:
		return "end of input"
	case tokenNewline:
		return "end of line"
	case tokenIdent:
		if tok.Quote != 0 {
			return fmt.Sprintf("name %c%s%c", tok.Quote, tok.Literal, tok.Quote)
		}
		return fmt.Sprintf("name %s", tok.Literal)
	case tokenInteger, tokenFloat:
		return fmt.Sprintf("number %s", tok.Literal)
	case tokenString:
		return fmt.Sprintf("string %q", tok.Literal)
	default:
		return fmt.Sprintf("'%s'", tok.Literal)
	}
}
