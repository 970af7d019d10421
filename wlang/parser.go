package wlang

import (
	"fmt"
	"strings"
)

type (
	prefixParseFn func() Expression
	infixParseFn  func(Expression) Expression
)

type parser struct {
	l *lexer

	curToken  Token
	peekToken Token

	errors ErrorList

	prefixFns map[TokenType]prefixParseFn
	infixFns  map[TokenType]infixParseFn

	// condition is set while parsing an if or while condition, where a
	// single '=' compares instead of naming an assignment target.
	condition bool
	// splitSigns stops an expression before a '-' marked as a sign.
	splitSigns bool
}

// blockFrame accumulates the body of an open while or func block.
type blockFrame struct {
	opener  Statement
	keyword TokenType
	pos     Position
	body    []Statement
}

func (f *blockFrame) close() Statement {
	switch stmt := f.opener.(type) {
	case *WhileStmt:
		stmt.Body = f.body
		return stmt
	case *FuncStmt:
		stmt.Body = f.body
		return stmt
	}
	return nil
}

func newParser(input string, firstLine int) *parser {
	p := &parser{l: newLexerAt(input, firstLine)}

	p.prefixFns = map[TokenType]prefixParseFn{
		tokenIdent:   p.parseIdentifier,
		tokenInteger: p.parseIntegerLiteral,
		tokenFloat:   p.parseFloatLiteral,
		tokenString:  p.parseStringLiteral,
		tokenTrue:    p.parseBoolLiteral,
		tokenFalse:   p.parseBoolLiteral,
		tokenMinus:   p.parsePrefixExpression,
		tokenNot:     p.parsePrefixExpression,
		tokenLParen:  p.parseGroupedExpression,
	}
	p.infixFns = make(map[TokenType]infixParseFn)
	for tt := range precedences {
		p.infixFns[tt] = p.parseInfixExpression
	}

	p.nextToken()
	p.nextToken()

	return p
}

func (p *parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if p.peekToken.Type == tokenIllegal {
		p.addLexError(p.peekToken)
	}
}

// ParseProgram parses every statement, matching while and func blocks with
// their done through a stack of open frames.
func (p *parser) ParseProgram() (*Program, ErrorList) {
	frames := []*blockFrame{{}}

	for p.curToken.Type != tokenEOF {
		if p.curToken.Type == tokenNewline || p.curToken.Type == tokenSemicolon {
			p.nextToken()
			continue
		}

		top := frames[len(frames)-1]
		ok := true
		switch p.curToken.Type {
		case tokenWhile, tokenFunc:
			frame := p.parseBlockHeader()
			frames = append(frames, frame)
			ok = frame.opener != nil
		case tokenDone:
			if len(frames) == 1 {
				p.addError(p.curToken.Pos, "'done' without a matching 'while' or 'func'")
				break
			}
			frames = frames[:len(frames)-1]
			if stmt := top.close(); stmt != nil {
				parent := frames[len(frames)-1]
				parent.body = append(parent.body, stmt)
			}
		default:
			stmt := p.parseStatement()
			if stmt != nil {
				top.body = append(top.body, stmt)
			}
			ok = stmt != nil
		}

		p.endStatement(ok)
		p.nextToken()
	}

	for i := len(frames) - 1; i > 0; i-- {
		frame := frames[i]
		err := newError(ParseError, frame.pos.Line, "'%s' block opened on line %d is missing 'done'", frame.keyword, frame.pos.Line)
		err.Column = frame.pos.Column
		err.Incomplete = true
		p.errors = append(p.errors, err)
	}

	return &Program{Statements: frames[0].body}, p.errors
}

// endStatement requires a separator after a statement. After a failed
// statement it skips the rest of the line.
func (p *parser) endStatement(ok bool) {
	if p.curToken.IsSeparator() || p.peekToken.IsSeparator() {
		return
	}
	if ok && p.peekToken.Type != tokenIllegal {
		p.addError(p.peekToken.Pos, "unexpected %s after statement", tokenLabel(p.peekToken))
	}
	for !p.peekToken.IsSeparator() {
		p.nextToken()
	}
}

func (p *parser) peekEndsStatement() bool {
	return p.peekToken.IsSeparator() || p.peekToken.Type == tokenElse
}

func (p *parser) parseBlockHeader() *blockFrame {
	frame := &blockFrame{keyword: p.curToken.Type, pos: p.curToken.Pos}
	switch p.curToken.Type {
	case tokenWhile:
		if cond := p.parseCondition(); cond != nil {
			frame.opener = &WhileStmt{Condition: cond, position: frame.pos}
		}
	case tokenFunc:
		if name, ok := p.expectName(); ok {
			frame.opener = &FuncStmt{Name: name, position: frame.pos}
		}
	}
	return frame
}

func (p *parser) parseStatement() Statement {
	switch p.curToken.Type {
	case tokenShow:
		return p.parseShowStatement()
	case tokenInt:
		return p.parseIntStatement()
	case tokenBool:
		return p.parseBoolStatement()
	case tokenArray:
		return p.parseArrayStatement()
	case tokenArrayStr:
		return p.parseArrayStrStatement()
	case tokenLeng, tokenPop:
		return p.parseArrayTargetStatement()
	case tokenPush:
		return p.parsePushStatement()
	case tokenGet:
		return p.parseGetStatement()
	case tokenIf:
		return p.parseIfStatement()
	case tokenCall:
		return p.parseCallStatement()
	case tokenInput:
		return p.parseInputStatement()
	case tokenTime, tokenDate, tokenDateTime:
		return p.parseTimeStatement()
	case tokenSleep:
		return p.parseSleepStatement()
	case tokenRandom:
		return p.parseRandomStatement()
	case tokenWrite:
		return p.parseWriteStatement()
	case tokenRead:
		return p.parseReadStatement()
	case tokenClear:
		return &ClearStmt{position: p.curToken.Pos}
	case tokenClearOutput:
		return &ClearOutputStmt{position: p.curToken.Pos}
	case tokenEnd:
		return &EndStmt{position: p.curToken.Pos}
	case tokenElse:
		p.addError(p.curToken.Pos, "'else' without a matching 'if'")
		return nil
	case tokenWhile, tokenFunc, tokenDone:
		p.addError(p.curToken.Pos, "'%s' cannot be used as a single-statement branch", p.curToken.Literal)
		return nil
	default:
		return p.parseExpressionStatement()
	}
}

func (p *parser) parseShowStatement() Statement {
	pos := p.curToken.Pos
	value := p.nextExpression()
	if value == nil {
		return nil
	}
	return &ShowStmt{Value: value, position: pos}
}

// parseIntStatement accepts `int expr 'name'` and the older `int 'name' expr`.
func (p *parser) parseIntStatement() Statement {
	pos := p.curToken.Pos
	value := p.leadingOperand()
	if value == nil {
		return nil
	}
	if ident, ok := value.(*Identifier); ok && !p.peekEndsStatement() && p.peekToken.Type != tokenIdent {
		legacy := p.nextExpression()
		if legacy == nil {
			return nil
		}
		return &AssignStmt{Name: ident.Name, Value: legacy, Decl: DeclInt, position: pos}
	}
	name, ok := p.expectName()
	if !ok {
		return nil
	}
	return &AssignStmt{Name: name, Value: value, Decl: DeclInt, position: pos}
}

// parseBoolStatement accepts `bool [expr] 'name'` and `bool 'name' expr`.
// A bare name declares false.
func (p *parser) parseBoolStatement() Statement {
	pos := p.curToken.Pos
	value := p.leadingOperand()
	if value == nil {
		return nil
	}
	ident, isIdent := value.(*Identifier)
	switch {
	case isIdent && p.peekEndsStatement():
		return &AssignStmt{Name: ident.Name, Value: &BoolLiteral{Value: false, position: pos}, Decl: DeclBool, position: pos}
	case isIdent && p.peekToken.Type != tokenIdent:
		legacy := p.nextExpression()
		if legacy == nil {
			return nil
		}
		return &AssignStmt{Name: ident.Name, Value: legacy, Decl: DeclBool, position: pos}
	}
	name, ok := p.expectName()
	if !ok {
		return nil
	}
	return &AssignStmt{Name: name, Value: value, Decl: DeclBool, position: pos}
}

// parseArrayStatement converts the numeric list immediately, either from a
// quoted "1,2,-3" or a bare 1,2,-3.
func (p *parser) parseArrayStatement() Statement {
	pos := p.curToken.Pos
	if !p.advance("array elements") {
		return nil
	}

	listPos := p.curToken.Pos
	var text string
	if p.curToken.Type == tokenString {
		text = p.curToken.Literal
	} else {
		var ok bool
		if text, ok = p.collectNumberList(); !ok {
			return nil
		}
	}

	items, err := parseNumberList(text)
	if err != nil {
		p.addError(listPos, "%s", err.Error())
		return nil
	}
	name, ok := p.expectName()
	if !ok {
		return nil
	}
	return &ArrayDeclStmt{Name: name, Value: NewArray(ElementNumeric, items), position: pos}
}

func (p *parser) collectNumberList() (string, bool) {
	var parts []string
	for {
		if p.curToken.Type != tokenInteger && p.curToken.Type != tokenFloat {
			p.errorExpected(p.curToken, "number")
			return "", false
		}
		parts = append(parts, p.curToken.Literal)
		if p.peekToken.Type != tokenComma {
			return strings.Join(parts, ","), true
		}
		p.nextToken()
		if !p.advance("number") {
			return "", false
		}
	}
}

func parseNumberList(text string) ([]Value, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	fields := strings.Split(text, ",")
	items := make([]Value, 0, len(fields))
	for _, field := range fields {
		field = strings.TrimSpace(field)
		if field == "" {
			return nil, fmt.Errorf("empty element in array literal %q", text)
		}
		num, ok := parseNumber(field)
		if !ok {
			return nil, fmt.Errorf("invalid number %q in array literal", field)
		}
		items = append(items, num)
	}
	return items, nil
}

func (p *parser) parseArrayStrStatement() Statement {
	pos := p.curToken.Pos
	if !p.advance("array elements") {
		return nil
	}

	if p.curToken.Type == tokenIdent && p.peekEndsStatement() {
		return &ArrayDeclStmt{Name: p.curToken.Literal, Value: NewArray(ElementString, nil), position: pos}
	}

	var items []Value
	for {
		if !isQuotedText(p.curToken) {
			p.errorExpected(p.curToken, "quoted string")
			return nil
		}
		items = append(items, NewString(p.curToken.Literal))
		if p.peekToken.Type != tokenComma {
			break
		}
		p.nextToken()
		if !p.advance("quoted string") {
			return nil
		}
	}

	if len(items) == 1 && strings.Contains(items[0].Str(), ",") {
		fields := strings.Split(items[0].Str(), ",")
		items = items[:0]
		for _, field := range fields {
			items = append(items, NewString(strings.TrimSpace(field)))
		}
	}

	name, ok := p.expectName()
	if !ok {
		return nil
	}
	return &ArrayDeclStmt{Name: name, Value: NewArray(ElementString, items), position: pos}
}

func isQuotedText(tok Token) bool {
	return tok.Type == tokenString || (tok.Type == tokenIdent && tok.Quote != 0)
}

// parseArrayTargetStatement handles leng and pop, which both take an array
// name and an optional `= 'target'`.
func (p *parser) parseArrayTargetStatement() Statement {
	pos := p.curToken.Pos
	keyword := p.curToken.Type
	array, ok := p.expectName()
	if !ok {
		return nil
	}
	target, ok := p.parseTarget(false)
	if !ok {
		return nil
	}
	if keyword == tokenLeng {
		return &ArrayLenStmt{Array: array, Target: target, position: pos}
	}
	return &ArrayPopStmt{Array: array, Target: target, position: pos}
}

func (p *parser) parsePushStatement() Statement {
	pos := p.curToken.Pos
	array, ok := p.expectName()
	if !ok {
		return nil
	}
	value := p.nextExpression()
	if value == nil {
		return nil
	}
	return &ArrayPushStmt{Array: array, Value: value, position: pos}
}

func (p *parser) parseGetStatement() Statement {
	pos := p.curToken.Pos
	array, ok := p.expectName()
	if !ok {
		return nil
	}
	index := p.nextExpression()
	if index == nil {
		return nil
	}
	target, ok := p.parseTarget(false)
	if !ok {
		return nil
	}
	return &ArrayGetStmt{Array: array, Index: index, Target: target, position: pos}
}

func (p *parser) parseIfStatement() Statement {
	pos := p.curToken.Pos
	cond := p.parseCondition()
	if cond == nil {
		return nil
	}
	if p.peekEndsStatement() {
		p.errorExpected(p.peekToken, "statement after if condition")
		return nil
	}
	p.nextToken()
	then := p.parseStatement()
	if then == nil {
		return nil
	}

	stmt := &IfStmt{Condition: cond, Then: then, position: pos}
	if p.peekToken.Type != tokenElse {
		return stmt
	}
	p.nextToken()
	if p.peekEndsStatement() {
		p.errorExpected(p.peekToken, "statement after 'else'")
		return nil
	}
	p.nextToken()
	if stmt.Else = p.parseStatement(); stmt.Else == nil {
		return nil
	}
	return stmt
}

func (p *parser) parseCondition() Expression {
	p.condition = true
	defer func() { p.condition = false }()
	return p.nextExpression()
}

func (p *parser) parseCallStatement() Statement {
	pos := p.curToken.Pos
	name, ok := p.expectName()
	if !ok {
		return nil
	}
	return &CallStmt{Name: name, position: pos}
}

// parseInputStatement accepts `input [prompt] [=] 'name'`.
func (p *parser) parseInputStatement() Statement {
	pos := p.curToken.Pos
	if p.peekToken.Type == tokenAssign {
		target, ok := p.parseTarget(true)
		if !ok {
			return nil
		}
		return &InputStmt{Target: target, position: pos}
	}

	first := p.nextExpression()
	if first == nil {
		return nil
	}
	if ident, ok := first.(*Identifier); ok && p.peekEndsStatement() {
		return &InputStmt{Target: ident.Name, position: pos}
	}
	target, ok := p.parseTarget(true)
	if !ok {
		return nil
	}
	return &InputStmt{Prompt: first, Target: target, position: pos}
}

func (p *parser) parseTimeStatement() Statement {
	stmt := &TimeStmt{position: p.curToken.Pos}
	switch p.curToken.Type {
	case tokenDate:
		stmt.Query = QueryDate
	case tokenDateTime:
		stmt.Query = QueryDateTime
	default:
		stmt.Query = QueryUnix
	}
	target, ok := p.parseTarget(false)
	if !ok {
		return nil
	}
	stmt.Target = target
	return stmt
}

func (p *parser) parseSleepStatement() Statement {
	pos := p.curToken.Pos
	seconds := p.nextExpression()
	if seconds == nil {
		return nil
	}
	return &SleepStmt{Seconds: seconds, position: pos}
}

func (p *parser) parseRandomStatement() Statement {
	pos := p.curToken.Pos
	start := p.nextOperand()
	if start == nil {
		return nil
	}
	end := p.nextExpression()
	if end == nil {
		return nil
	}
	target, ok := p.parseTarget(true)
	if !ok {
		return nil
	}
	return &RandomStmt{Start: start, End: end, Target: target, position: pos}
}

func (p *parser) parseWriteStatement() Statement {
	pos := p.curToken.Pos
	text := p.nextOperand()
	if text == nil {
		return nil
	}
	file := p.nextExpression()
	if file == nil {
		return nil
	}
	return &WriteStmt{Text: text, File: file, position: pos}
}

func (p *parser) parseReadStatement() Statement {
	pos := p.curToken.Pos
	file := p.nextExpression()
	if file == nil {
		return nil
	}
	target, ok := p.parseTarget(true)
	if !ok {
		return nil
	}
	return &ReadStmt{File: file, Target: target, position: pos}
}

// parseExpressionStatement handles `expr = 'name'` and bare expressions.
func (p *parser) parseExpressionStatement() Statement {
	pos := p.curToken.Pos
	expr := p.parseExpression(lowestPrec)
	if expr == nil {
		return nil
	}
	if p.peekToken.Type != tokenAssign {
		return &ExprStmt{Expr: expr, position: pos}
	}
	p.nextToken()
	name, ok := p.expectName()
	if !ok {
		return nil
	}
	return &AssignStmt{Name: name, Value: expr, position: pos}
}

// parseTarget reads `= 'name'`. Required targets may omit the '='.
func (p *parser) parseTarget(required bool) (string, bool) {
	if p.peekToken.Type == tokenAssign {
		p.nextToken()
		return p.expectName()
	}
	if !required {
		return "", true
	}
	if p.peekToken.Type == tokenIdent {
		return p.expectName()
	}
	p.errorExpected(p.peekToken, "'=' and a variable name")
	return "", false
}

func (p *parser) expectName() (string, bool) {
	if p.peekToken.Type != tokenIdent {
		p.errorExpected(p.peekToken, "variable name")
		return "", false
	}
	p.nextToken()
	return p.curToken.Literal, true
}

// advance moves to the next token unless the statement ends there.
func (p *parser) advance(expected string) bool {
	if p.peekEndsStatement() {
		p.errorExpected(p.peekToken, expected)
		return false
	}
	p.nextToken()
	return true
}

func (p *parser) nextExpression() Expression {
	if !p.advance("expression") {
		return nil
	}
	return p.parseExpression(lowestPrec)
}

// nextOperand reads an operand that another operand follows. A '-' marked
// as a sign ends it, so `random -5 -1` reads two numbers while `show 5 -3`
// still subtracts.
func (p *parser) nextOperand() Expression {
	p.splitSigns = true
	defer func() { p.splitSigns = false }()
	return p.nextExpression()
}

// leadingOperand reads the first operand of int and bool, which is split
// only when it starts with a name (the older `int 'x' -5` order).
func (p *parser) leadingOperand() Expression {
	if p.peekToken.Type == tokenIdent {
		return p.nextOperand()
	}
	return p.nextExpression()
}
