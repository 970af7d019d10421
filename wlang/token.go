package wlang

// TokenType identifies the lexical category of a token.
type TokenType string

const (
	tokenIllegal TokenType = "ILLEGAL"
	tokenEOF     TokenType = "EOF"

	tokenNewline   TokenType = "NEWLINE"
	tokenSemicolon TokenType = ";"

	tokenIdent   TokenType = "IDENT"
	tokenInteger TokenType = "INTEGER"
	tokenFloat   TokenType = "FLOAT"
	tokenString  TokenType = "STRING"

	tokenAssign   TokenType = "="
	tokenPlus     TokenType = "+"
	tokenMinus    TokenType = "-"
	tokenAsterisk TokenType = "*"
	tokenSlash    TokenType = "/"
	tokenLT       TokenType = "<"
	tokenGT       TokenType = ">"
	tokenLTE      TokenType = "<="
	tokenGTE      TokenType = ">="
	tokenEQ       TokenType = "=="
	tokenNotEQ    TokenType = "!="
	tokenAnd      TokenType = "&&"
	tokenOr       TokenType = "||"
	tokenNot      TokenType = "not"

	tokenComma  TokenType = ","
	tokenLParen TokenType = "("
	tokenRParen TokenType = ")"

	tokenShow        TokenType = "show"
	tokenInt         TokenType = "int"
	tokenBool        TokenType = "bool"
	tokenArray       TokenType = "array"
	tokenArrayStr    TokenType = "array_str"
	tokenLeng        TokenType = "leng"
	tokenPush        TokenType = "push"
	tokenPop         TokenType = "pop"
	tokenGet         TokenType = "get"
	tokenIf          TokenType = "if"
	tokenElse        TokenType = "else"
	tokenWhile       TokenType = "while"
	tokenDone        TokenType = "done"
	tokenFunc        TokenType = "func"
	tokenCall        TokenType = "call"
	tokenInput       TokenType = "input"
	tokenTime        TokenType = "time"
	tokenDate        TokenType = "date"
	tokenDateTime    TokenType = "datetime"
	tokenSleep       TokenType = "sleep"
	tokenRandom      TokenType = "random"
	tokenWrite       TokenType = "write"
	tokenRead        TokenType = "read"
	tokenClear       TokenType = "clear"
	tokenClearOutput TokenType = "clear-output"
	tokenEnd         TokenType = "END"
	tokenTrue        TokenType = "true"
	tokenFalse       TokenType = "false"
)

var keywords = map[string]TokenType{
	"show":         tokenShow,
	"int":          tokenInt,
	"bool":         tokenBool,
	"array":        tokenArray,
	"array_str":    tokenArrayStr,
	"leng":         tokenLeng,
	"push":         tokenPush,
	"pop":          tokenPop,
	"get":          tokenGet,
	"if":           tokenIf,
	"else":         tokenElse,
	"while":        tokenWhile,
	"done":         tokenDone,
	"func":         tokenFunc,
	"call":         tokenCall,
	"input":        tokenInput,
	"time":         tokenTime,
	"date":         tokenDate,
	"datetime":     tokenDateTime,
	"sleep":        tokenSleep,
	"random":       tokenRandom,
	"write":        tokenWrite,
	"read":         tokenRead,
	"clear":        tokenClear,
	"clear-output": tokenClearOutput,
	"END":          tokenEnd,
	"and":          tokenAnd,
	"or":           tokenOr,
	"not":          tokenNot,
	"true":         tokenTrue,
	"false":        tokenFalse,
}

// Token captures lexical information for the parser.
type Token struct {
	Type    TokenType
	Literal string
	Pos     Position
	// Quote is the quote rune around a quoted name such as 'x' or "x", or 0.
	Quote rune
	// Sign marks a binary '-' written like a sign: space before it and a
	// digit right after, as in `random -5 -1`.
	Sign bool
}

// Position identifies a location in the source.
type Position struct {
	Line   int
	Column int
}

// OpensBlock reports whether the token starts a block closed by done.
func (t Token) OpensBlock() bool {
	return t.Type == tokenWhile || t.Type == tokenFunc
}

// ClosesBlock reports whether the token is a done keyword.
func (t Token) ClosesBlock() bool {
	return t.Type == tokenDone
}

// IsKeyword reports whether the token is a reserved word.
func (t Token) IsKeyword() bool {
	if t.Quote != 0 {
		return false
	}
	_, ok := keywords[t.Literal]
	return ok && t.Type != tokenIdent
}

// IsSeparator reports whether the token ends a statement.
func (t Token) IsSeparator() bool {
	return t.Type == tokenNewline || t.Type == tokenSemicolon || t.Type == tokenEOF
}

// Keywords returns the reserved words in a stable order.
func Keywords() []string {
	return []string{
		"show", "int", "bool", "array", "array_str", "leng", "push", "pop", "get",
		"if", "else", "while", "done", "func", "call", "input",
		"time", "date", "datetime", "sleep", "random", "write", "read",
		"clear", "clear-output", "END", "and", "or", "not", "true", "false",
	}
}
