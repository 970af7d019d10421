package wlang

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexer struct {
	input string

	offset int
	width  int

	line   int
	column int

	ch rune

	// prev is the type of the last emitted token, used to tell a negative
	// literal from a binary minus.
	prev TokenType
}

func newLexer(input string) *lexer {
	return newLexerAt(input, 1)
}

func newLexerAt(input string, firstLine int) *lexer {
	if firstLine < 1 {
		firstLine = 1
	}
	l := &lexer{input: input, line: firstLine, column: 0, prev: tokenNewline}
	l.readRune()
	return l
}

func (l *lexer) readRune() {
	if l.offset >= len(l.input) {
		l.width = 0
		l.ch = 0
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.offset:])
	l.width = w
	l.offset += w

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	l.column++

	l.ch = r
}

func (l *lexer) peekRune() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset:])
	return r
}

// NextToken returns the next token and remembers its type.
func (l *lexer) NextToken() Token {
	tok := l.scan()
	l.prev = tok.Type
	return tok
}

func (l *lexer) scan() Token {
	spaced := l.skipWhitespaceAndComments()

	tok := Token{Pos: Position{Line: l.line, Column: l.column}}

	switch l.ch {
	case 0:
		tok.Type = tokenEOF
		tok.Literal = ""
	case '\n':
		tok = l.makeToken(tokenNewline, "\n")
		l.readRune()
	case ';':
		tok = l.makeToken(tokenSemicolon, ";")
		l.readRune()
	case ',':
		tok = l.makeToken(tokenComma, ",")
		l.readRune()
	case '(':
		tok = l.makeToken(tokenLParen, "(")
		l.readRune()
	case ')':
		tok = l.makeToken(tokenRParen, ")")
		l.readRune()
	case '+':
		tok = l.makeToken(tokenPlus, "+")
		l.readRune()
	case '-':
		if isDigit(l.peekRune()) && !endsOperand(l.prev) {
			l.readRune()
			literal, isFloat := l.readNumber()
			tok.Literal = "-" + literal
			tok.Type = numberType(isFloat)
			return tok
		}
		tok = l.makeToken(tokenMinus, "-")
		tok.Sign = spaced && isDigit(l.peekRune())
		l.readRune()
	case '*':
		tok = l.makeToken(tokenAsterisk, "*")
		l.readRune()
	case '/':
		tok = l.makeToken(tokenSlash, "/")
		l.readRune()
	case '=':
		tok = l.twoRune('=', tokenEQ, tokenAssign)
	case '!':
		if l.peekRune() == '=' {
			tok = l.twoRune('=', tokenNotEQ, tokenIllegal)
		} else {
			tok = l.illegal(fmt.Sprintf("unexpected character %q", l.ch))
			l.readRune()
		}
	case '>':
		tok = l.twoRune('=', tokenGTE, tokenGT)
	case '<':
		tok = l.twoRune('=', tokenLTE, tokenLT)
	case '&':
		if l.peekRune() == '&' {
			tok = l.twoRune('&', tokenAnd, tokenIllegal)
		} else {
			tok = l.illegal("unexpected character '&' (did you mean '&&'?)")
			l.readRune()
		}
	case '|':
		if l.peekRune() == '|' {
			tok = l.twoRune('|', tokenOr, tokenIllegal)
		} else {
			tok = l.illegal("unexpected character '|' (did you mean '||'?)")
			l.readRune()
		}
	case '"', '\'':
		quote := l.ch
		literal, errMsg := l.readQuoted(quote)
		if errMsg != "" {
			tok.Type = tokenIllegal
			tok.Literal = errMsg
			return tok
		}
		if isIdentifier(literal) {
			tok.Type = tokenIdent
			tok.Quote = quote
		} else {
			tok.Type = tokenString
		}
		tok.Literal = literal
	default:
		switch {
		case isIdentifierStart(l.ch):
			literal := l.readIdentifier()
			if literal == "clear" && l.atClearOutputSuffix() {
				for range len("-output") {
					l.readRune()
				}
				literal = "clear-output"
			}
			tok.Type = lookupIdent(literal)
			tok.Literal = literal
		case isDigit(l.ch):
			literal, isFloat := l.readNumber()
			tok.Literal = literal
			tok.Type = numberType(isFloat)
		default:
			tok = l.illegal(fmt.Sprintf("unexpected character %q", l.ch))
			l.readRune()
		}
	}

	return tok
}

func (l *lexer) currentOffset() int {
	return l.offset - l.width
}

func (l *lexer) makeToken(tt TokenType, literal string) Token {
	return Token{Type: tt, Literal: literal, Pos: Position{Line: l.line, Column: l.column}}
}

func (l *lexer) illegal(msg string) Token {
	return l.makeToken(tokenIllegal, msg)
}

// twoRune emits long when the next rune is second, short otherwise.
func (l *lexer) twoRune(second rune, long, short TokenType) Token {
	if l.peekRune() == second {
		first := l.ch
		tok := l.makeToken(long, string(first)+string(second))
		l.readRune()
		l.readRune()
		return tok
	}
	tok := l.makeToken(short, string(l.ch))
	l.readRune()
	return tok
}

// skipWhitespaceAndComments stops at newlines, which are separators.
func (l *lexer) skipWhitespaceAndComments() bool {
	skipped := false
	for {
		switch l.ch {
		case ' ', '\t', '\r', '\f', '\v':
			l.readRune()
		case '#':
			for l.ch != 0 && l.ch != '\n' {
				l.readRune()
			}
		default:
			return skipped
		}
		skipped = true
	}
}

func (l *lexer) readIdentifier() string {
	start := l.currentOffset()
	for isIdentifierRune(l.peekRune()) {
		l.readRune()
	}
	literal := l.input[start:l.offset]
	l.readRune()
	return literal
}

func (l *lexer) atClearOutputSuffix() bool {
	rest := l.input[l.currentOffset():]
	if !strings.HasPrefix(rest, "-output") {
		return false
	}
	next, _ := utf8.DecodeRuneInString(rest[len("-output"):])
	return !isIdentifierRune(next)
}

func (l *lexer) readNumber() (string, bool) {
	var sb strings.Builder
	hasDot := false

	sb.WriteRune(l.ch)
	for {
		r := l.peekRune()
		switch {
		case r == '.' && !hasDot && isDigit(l.peekSecond()):
			hasDot = true
			l.readRune()
			sb.WriteRune('.')
		case isDigit(r):
			l.readRune()
			sb.WriteRune(r)
		default:
			l.readRune()
			return sb.String(), hasDot
		}
	}
}

func (l *lexer) peekSecond() rune {
	if l.offset >= len(l.input) {
		return 0
	}
	_, w := utf8.DecodeRuneInString(l.input[l.offset:])
	if l.offset+w >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.offset+w:])
	return r
}

// readQuoted reads up to the matching quote on the same line.
func (l *lexer) readQuoted(quote rune) (string, string) {
	var sb strings.Builder
	for {
		l.readRune()
		switch l.ch {
		case 0, '\n':
			return "", "unterminated string"
		case quote:
			l.readRune()
			return sb.String(), ""
		default:
			sb.WriteRune(l.ch)
		}
	}
}

func numberType(isFloat bool) TokenType {
	if isFloat {
		return tokenFloat
	}
	return tokenInteger
}

// endsOperand reports whether a token of this type can close an operand,
// in which case a following '-' is a binary minus.
func endsOperand(tt TokenType) bool {
	switch tt {
	case tokenIdent, tokenInteger, tokenFloat, tokenString, tokenRParen, tokenTrue, tokenFalse:
		return true
	}
	return false
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentifierStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || isDigit(r) || r == '_'
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentifierStart(r) {
			return false
		}
		if !isIdentifierRune(r) {
			return false
		}
	}
	return true
}

func lookupIdent(ident string) TokenType {
	if tt, ok := keywords[ident]; ok {
		return tt
	}
	return tokenIdent
}

// Tokenize splits source into tokens, ending with an EOF token. Lexical
// errors are returned as an ErrorList alongside the tokens read.
func Tokenize(source string) ([]Token, error) {
	l := newLexer(source)
	var tokens []Token
	var errs ErrorList
	for {
		tok := l.NextToken()
		if tok.Type == tokenIllegal {
			errs = append(errs, newError(LexError, tok.Pos.Line, "%s", tok.Literal))
		}
		tokens = append(tokens, tok)
		if tok.Type == tokenEOF {
			break
		}
	}
	if len(errs) > 0 {
		return tokens, errs
	}
	return tokens, nil
}
