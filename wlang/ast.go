package wlang

type Node interface {
	Pos() Position
}

type Statement interface {
	Node
	stmtNode()
}

type Expression interface {
	Node
	exprNode()
}

type Program struct {
	Statements []Statement
}

func (p *Program) Pos() Position {
	if len(p.Statements) == 0 {
		return Position{}
	}
	return p.Statements[0].Pos()
}

type ShowStmt struct {
	Value    Expression
	position Position
}

func (s *ShowStmt) stmtNode()     {}
func (s *ShowStmt) Pos() Position { return s.position }

// DeclKind records which prefix keyword introduced an assignment.
type DeclKind int

const (
	DeclNone DeclKind = iota
	DeclInt
	DeclBool
)

type AssignStmt struct {
	Name     string
	Value    Expression
	Decl     DeclKind
	position Position
}

func (s *AssignStmt) stmtNode()     {}
func (s *AssignStmt) Pos() Position { return s.position }

type ArrayDeclStmt struct {
	Name     string
	Value    Value
	position Position
}

func (s *ArrayDeclStmt) stmtNode()     {}
func (s *ArrayDeclStmt) Pos() Position { return s.position }

type ArrayLenStmt struct {
	Array    string
	Target   string
	position Position
}

func (s *ArrayLenStmt) stmtNode()     {}
func (s *ArrayLenStmt) Pos() Position { return s.position }

type ArrayPushStmt struct {
	Array    string
	Value    Expression
	position Position
}

func (s *ArrayPushStmt) stmtNode()     {}
func (s *ArrayPushStmt) Pos() Position { return s.position }

type ArrayPopStmt struct {
	Array    string
	Target   string
	position Position
}

func (s *ArrayPopStmt) stmtNode()     {}
func (s *ArrayPopStmt) Pos() Position { return s.position }

type ArrayGetStmt struct {
	Array    string
	Index    Expression
	Target   string
	position Position
}

func (s *ArrayGetStmt) stmtNode()     {}
func (s *ArrayGetStmt) Pos() Position { return s.position }

type IfStmt struct {
	Condition Expression
	Then      Statement
	Else      Statement
	position  Position
}

func (s *IfStmt) stmtNode()     {}
func (s *IfStmt) Pos() Position { return s.position }

type WhileStmt struct {
	Condition Expression
	Body      []Statement
	position  Position
}

func (s *WhileStmt) stmtNode()     {}
func (s *WhileStmt) Pos() Position { return s.position }

type FuncStmt struct {
	Name     string
	Body     []Statement
	position Position
}

func (s *FuncStmt) stmtNode()     {}
func (s *FuncStmt) Pos() Position { return s.position }

type CallStmt struct {
	Name     string
	position Position
}

func (s *CallStmt) stmtNode()     {}
func (s *CallStmt) Pos() Position { return s.position }

type InputStmt struct {
	Prompt   Expression
	Target   string
	position Position
}

func (s *InputStmt) stmtNode()     {}
func (s *InputStmt) Pos() Position { return s.position }

// TimeQuery selects what a time statement reports.
type TimeQuery int

const (
	QueryUnix TimeQuery = iota
	QueryDate
	QueryDateTime
)

type TimeStmt struct {
	Query    TimeQuery
	Target   string
	position Position
}

func (s *TimeStmt) stmtNode()     {}
func (s *TimeStmt) Pos() Position { return s.position }

type SleepStmt struct {
	Seconds  Expression
	position Position
}

func (s *SleepStmt) stmtNode()     {}
func (s *SleepStmt) Pos() Position { return s.position }

type RandomStmt struct {
	Start    Expression
	End      Expression
	Target   string
	position Position
}

func (s *RandomStmt) stmtNode()     {}
func (s *RandomStmt) Pos() Position { return s.position }

type WriteStmt struct {
	Text     Expression
	File     Expression
	position Position
}

func (s *WriteStmt) stmtNode()     {}
func (s *WriteStmt) Pos() Position { return s.position }

type ReadStmt struct {
	File     Expression
	Target   string
	position Position
}

func (s *ReadStmt) stmtNode()     {}
func (s *ReadStmt) Pos() Position { return s.position }

type ClearStmt struct {
	position Position
}

func (s *ClearStmt) stmtNode()     {}
func (s *ClearStmt) Pos() Position { return s.position }

type ClearOutputStmt struct {
	position Position
}

func (s *ClearOutputStmt) stmtNode()     {}
func (s *ClearOutputStmt) Pos() Position { return s.position }

type EndStmt struct {
	position Position
}

func (s *EndStmt) stmtNode()     {}
func (s *EndStmt) Pos() Position { return s.position }

// ExprStmt displays the value of a bare expression.
type ExprStmt struct {
	Expr     Expression
	position Position
}

func (s *ExprStmt) stmtNode()     {}
func (s *ExprStmt) Pos() Position { return s.position }

type Identifier struct {
	Name     string
	Quote    rune
	position Position
}

func (e *Identifier) exprNode()     {}
func (e *Identifier) Pos() Position { return e.position }

type IntegerLiteral struct {
	Value    int64
	position Position
}

func (e *IntegerLiteral) exprNode()     {}
func (e *IntegerLiteral) Pos() Position { return e.position }

type FloatLiteral struct {
	Value    float64
	position Position
}

func (e *FloatLiteral) exprNode()     {}
func (e *FloatLiteral) Pos() Position { return e.position }

type StringLiteral struct {
	Value    string
	position Position
}

func (e *StringLiteral) exprNode()     {}
func (e *StringLiteral) Pos() Position { return e.position }

type BoolLiteral struct {
	Value    bool
	position Position
}

func (e *BoolLiteral) exprNode()     {}
func (e *BoolLiteral) Pos() Position { return e.position }

type UnaryExpr struct {
	Operator TokenType
	Right    Expression
	position Position
}

func (e *UnaryExpr) exprNode()     {}
func (e *UnaryExpr) Pos() Position { return e.position }

type BinaryExpr struct {
	Left     Expression
	Operator TokenType
	Right    Expression
	position Position
}

func (e *BinaryExpr) exprNode()     {}
func (e *BinaryExpr) Pos() Position { return e.position }
