package ast

import (
	"bytes"
	"strconv"

	"github.com/sambeau/emojiscript/pkg/emoji/lexer"
)

// Node represents any node in the AST
type Node interface {
	TokenLiteral() string
	// String renders the node as source text that parses back to an
	// equivalent node.
	String() string
}

// Statement represents statement nodes
type Statement interface {
	Node
	statementNode()
}

// Expression represents expression nodes
type Expression interface {
	Node
	expressionNode()
}

// Program represents the root node of every AST
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer

	for i, s := range p.Statements {
		if i > 0 {
			out.WriteString("\n")
		}
		out.WriteString(s.String())
	}

	return out.String()
}

// writeBody appends an optional single-statement body.
func writeBody(out *bytes.Buffer, body Statement) {
	if body != nil {
		out.WriteString(" ")
		out.WriteString(body.String())
	}
}

// PrintStatement represents '📢 expr'
type PrintStatement struct {
	Token lexer.Token // the 📢 token
	Value Expression
}

func (ps *PrintStatement) statementNode()       {}
func (ps *PrintStatement) TokenLiteral() string { return ps.Token.Literal }
func (ps *PrintStatement) String() string {
	return lexer.PRINT.Symbol() + " " + ps.Value.String()
}

// AssignStatement represents '📦name = expr'
type AssignStatement struct {
	Token lexer.Token // the variable token
	Name  *Identifier
	Value Expression
}

func (as *AssignStatement) statementNode()       {}
func (as *AssignStatement) TokenLiteral() string { return as.Token.Literal }
func (as *AssignStatement) String() string {
	return as.Name.String() + " = " + as.Value.String()
}

// IfStatement represents '🤔 cond stmt [🤷 stmt]'. Either branch may be
// nil when the source leaves it empty.
type IfStatement struct {
	Token       lexer.Token // the 🤔 token
	Condition   Expression
	Consequence Statement
	Alternative Statement
	HasElse     bool // an 🤷 was written, even if its statement is empty
}

func (is *IfStatement) statementNode()       {}
func (is *IfStatement) TokenLiteral() string { return is.Token.Literal }
func (is *IfStatement) String() string {
	var out bytes.Buffer

	out.WriteString(lexer.IF.Symbol() + " ")
	out.WriteString(is.Condition.String())
	writeBody(&out, is.Consequence)

	if is.HasElse {
		out.WriteString(" " + lexer.ELSE.Symbol())
		writeBody(&out, is.Alternative)
	}

	return out.String()
}

// LoopStatement represents '🔁 count stmt'
type LoopStatement struct {
	Token lexer.Token // the 🔁 token
	Count Expression
	Body  Statement // may be nil
}

func (ls *LoopStatement) statementNode()       {}
func (ls *LoopStatement) TokenLiteral() string { return ls.Token.Literal }
func (ls *LoopStatement) String() string {
	var out bytes.Buffer

	out.WriteString(lexer.LOOP.Symbol() + " ")
	out.WriteString(ls.Count.String())
	writeBody(&out, ls.Body)

	return out.String()
}

// SleepStatement represents '💤 seconds'
type SleepStatement struct {
	Token    lexer.Token // the 💤 token
	Duration Expression
}

func (ss *SleepStatement) statementNode()       {}
func (ss *SleepStatement) TokenLiteral() string { return ss.Token.Literal }
func (ss *SleepStatement) String() string {
	return lexer.SLEEP.Symbol() + " " + ss.Duration.String()
}

// ListCreateStatement represents '📋 📦name'
type ListCreateStatement struct {
	Token lexer.Token // the 📋 token
	Name  *Identifier
}

func (lc *ListCreateStatement) statementNode()       {}
func (lc *ListCreateStatement) TokenLiteral() string { return lc.Token.Literal }
func (lc *ListCreateStatement) String() string {
	return lexer.LIST.Symbol() + " " + lc.Name.String()
}

// ListAppendStatement represents '📎 📦name expr'
type ListAppendStatement struct {
	Token lexer.Token // the 📎 token
	Name  *Identifier
	Value Expression
}

func (la *ListAppendStatement) statementNode()       {}
func (la *ListAppendStatement) TokenLiteral() string { return la.Token.Literal }
func (la *ListAppendStatement) String() string {
	return lexer.APPEND.Symbol() + " " + la.Name.String() + " " + la.Value.String()
}

// Identifier represents a 📦name reference. Value keeps the marker.
type Identifier struct {
	Token lexer.Token // the lexer.VARIABLE token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Value }

// IntegerLiteral represents integer literals
type IntegerLiteral struct {
	Token lexer.Token
	Value int64
}

func (il *IntegerLiteral) expressionNode()      {}
func (il *IntegerLiteral) TokenLiteral() string { return il.Token.Literal }
func (il *IntegerLiteral) String() string       { return strconv.FormatInt(il.Value, 10) }

// StringLiteral represents 💭"..." literals
type StringLiteral struct {
	Token lexer.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Literal }
func (sl *StringLiteral) String() string       { return `💭"` + sl.Value + `"` }

// InfixExpression represents binary operations. Operator is the token
// type of the operator symbol.
type InfixExpression struct {
	Token    lexer.Token // the operator token, e.g. 🤝
	Left     Expression
	Operator lexer.TokenType
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Literal }
func (ie *InfixExpression) String() string {
	var out bytes.Buffer

	out.WriteString(lexer.LPAREN.Symbol())
	out.WriteString(ie.Left.String())
	out.WriteString(" " + ie.Operator.Symbol() + " ")
	out.WriteString(ie.Right.String())
	out.WriteString(lexer.RPAREN.Symbol())

	return out.String()
}

// RandomExpression represents '🎲 max'
type RandomExpression struct {
	Token lexer.Token // the 🎲 token
	Max   Expression
}

func (re *RandomExpression) expressionNode()      {}
func (re *RandomExpression) TokenLiteral() string { return re.Token.Literal }
func (re *RandomExpression) String() string {
	return lexer.LPAREN.Symbol() + lexer.RANDOM.Symbol() + " " + re.Max.String() + lexer.RPAREN.Symbol()
}

// GetExpression represents '🎣 📦name index'
type GetExpression struct {
	Token lexer.Token // the 🎣 token
	Name  *Identifier
	Index Expression
}

func (ge *GetExpression) expressionNode()      {}
func (ge *GetExpression) TokenLiteral() string { return ge.Token.Literal }
func (ge *GetExpression) String() string {
	return lexer.LPAREN.Symbol() + lexer.GET.Symbol() + " " + ge.Name.String() + " " + ge.Index.String() + lexer.RPAREN.Symbol()
}
