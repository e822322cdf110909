package parser

import (
	"fmt"
	"strconv"

	"github.com/sambeau/emojiscript/pkg/emoji/ast"
	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
	"github.com/sambeau/emojiscript/pkg/emoji/lexer"
)

// Precedence levels for operators. 🎲 and 🎣 are prefix forms whose
// operand is parsed at LOWEST, so they bind looser than any binary
// operator.
const (
	_ int = iota
	LOWEST
	LESSGREATER // 📈 or 📉
	SUM         // 🤝 or 💔
	PRODUCT     // 💫 or ✂️
)

// precedences maps tokens to their precedence
var precedences = map[lexer.TokenType]int{
	lexer.GT:     LESSGREATER,
	lexer.LT:     LESSGREATER,
	lexer.PLUS:   SUM,
	lexer.MINUS:  SUM,
	lexer.TIMES:  PRODUCT,
	lexer.DIVIDE: PRODUCT,
}

// Parser represents the parser
type Parser struct {
	l *lexer.Lexer

	structuredErrors []*perrors.ScriptError

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// New creates a new parser instance
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l: l,
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.VARIABLE, p.parseIdentifier)
	p.registerPrefix(lexer.NUMBER, p.parseIntegerLiteral)
	p.registerPrefix(lexer.STRING, p.parseStringLiteral)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(lexer.RANDOM, p.parseRandomExpression)
	p.registerPrefix(lexer.GET, p.parseGetExpression)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	for tt := range precedences {
		p.registerInfix(tt, p.parseInfixExpression)
	}

	// Read two tokens, so curToken and peekToken are both set
	p.nextToken()
	p.nextToken()

	return p
}

// Parse parses source text into a program. Any syntax error aborts the
// whole parse: the returned program is nil and the error is the first
// *errors.ScriptError encountered. Illegal characters do not fail the
// parse; use a Parser directly to see them via LexErrors.
func Parse(input string) (*ast.Program, error) {
	p := New(lexer.New(input))
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		return nil, errs[0]
	}
	return program, nil
}

// Errors returns parser errors as strings (convenience method for tests).
// Prefer StructuredErrors() for production code.
func (p *Parser) Errors() []string {
	result := make([]string, len(p.structuredErrors))
	for i, err := range p.structuredErrors {
		if err.Line > 0 {
			result[i] = fmt.Sprintf("line %d, column %d: %s", err.Line, err.Column, err.Message)
		} else {
			result[i] = err.Message
		}
	}
	return result
}

// StructuredErrors returns parser errors as structured ScriptError objects.
func (p *Parser) StructuredErrors() []*perrors.ScriptError {
	return p.structuredErrors
}

// LexErrors returns the illegal characters skipped while parsing.
func (p *Parser) LexErrors() []*perrors.ScriptError {
	return p.l.Errors()
}

// addError records a syntax error.
// Only the first error is recorded; the parse stops there.
func (p *Parser) addError(err *perrors.ScriptError) {
	if len(p.structuredErrors) > 0 {
		return
	}
	p.structuredErrors = append(p.structuredErrors, err)
}

func (p *Parser) failed() bool {
	return len(p.structuredErrors) > 0
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

// nextToken advances curToken and peekToken
func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// ParseProgram parses the whole input. It returns nil if a syntax error
// was found; empty lines produce no statements.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	program.Statements = []ast.Statement{}

	for {
		if !p.curTokenIs(lexer.NEWLINE) && !p.curTokenIs(lexer.EOF) {
			stmt := p.parseStatement()
			if p.failed() {
				return nil
			}
			program.Statements = append(program.Statements, stmt)

			// a statement must end the line
			if !p.peekTokenIs(lexer.NEWLINE) && !p.peekTokenIs(lexer.EOF) {
				p.unexpected(p.peekToken)
				return nil
			}
			p.nextToken()
		}

		if p.curTokenIs(lexer.EOF) {
			return program
		}
		p.nextToken()
	}
}

// parseStatement parses the statement starting at curToken and leaves
// curToken on its last token.
func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case lexer.PRINT:
		return p.parsePrintStatement()
	case lexer.VARIABLE:
		return p.parseAssignStatement()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.LOOP:
		return p.parseLoopStatement()
	case lexer.SLEEP:
		return p.parseSleepStatement()
	case lexer.LIST:
		return p.parseListCreateStatement()
	case lexer.APPEND:
		return p.parseListAppendStatement()
	default:
		p.unexpected(p.curToken)
		return nil
	}
}

// parseBody parses the single statement that follows an 🤔 condition, an
// 🤷 or a 🔁 count. The statement may be empty, in which case nothing is
// consumed and nil is returned.
func (p *Parser) parseBody() ast.Statement {
	if p.peekTokenIs(lexer.NEWLINE) || p.peekTokenIs(lexer.EOF) || p.peekTokenIs(lexer.ELSE) {
		return nil
	}
	p.nextToken()
	return p.parseStatement()
}

func (p *Parser) parsePrintStatement() ast.Statement {
	stmt := &ast.PrintStatement{Token: p.curToken}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseAssignStatement() ast.Statement {
	stmt := &ast.AssignStatement{
		Token: p.curToken,
		Name:  &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal},
	}
	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

// parseIfStatement parses '🤔 cond stmt [🤷 stmt]'. An 🤷 binds to the
// nearest unfinished 🤔.
func (p *Parser) parseIfStatement() ast.Statement {
	stmt := &ast.IfStatement{Token: p.curToken}
	p.nextToken()
	stmt.Condition = p.parseExpression(LOWEST)
	if stmt.Condition == nil {
		return nil
	}

	stmt.Consequence = p.parseBody()
	if p.failed() {
		return nil
	}

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken()
		stmt.HasElse = true
		stmt.Alternative = p.parseBody()
		if p.failed() {
			return nil
		}
	}

	return stmt
}

func (p *Parser) parseLoopStatement() ast.Statement {
	stmt := &ast.LoopStatement{Token: p.curToken}
	p.nextToken()
	stmt.Count = p.parseExpression(LOWEST)
	if stmt.Count == nil {
		return nil
	}

	stmt.Body = p.parseBody()
	if p.failed() {
		return nil
	}
	return stmt
}

func (p *Parser) parseSleepStatement() ast.Statement {
	stmt := &ast.SleepStatement{Token: p.curToken}
	p.nextToken()
	stmt.Duration = p.parseExpression(LOWEST)
	if stmt.Duration == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseListCreateStatement() ast.Statement {
	stmt := &ast.ListCreateStatement{Token: p.curToken}
	if !p.expectPeek(lexer.VARIABLE) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	return stmt
}

func (p *Parser) parseListAppendStatement() ast.Statement {
	stmt := &ast.ListAppendStatement{Token: p.curToken}
	if !p.expectPeek(lexer.VARIABLE) {
		return nil
	}
	stmt.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	stmt.Value = p.parseExpression(LOWEST)
	if stmt.Value == nil {
		return nil
	}
	return stmt
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.unexpected(p.curToken)
		return nil
	}

	leftExp := prefix()

	for leftExp != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) parseIdentifier() ast.Expression {
	return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	lit := &ast.IntegerLiteral{Token: p.curToken}

	value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.addError(perrors.NewWithPosition("PARSE-0003", p.curToken.Line, p.curToken.Column,
			map[string]any{"Literal": p.curToken.Literal}))
		return nil
	}

	lit.Value = value
	return lit
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

// parseGroupedExpression returns the inner expression; parentheses only
// steer precedence and leave no node behind.
func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()

	exp := p.parseExpression(LOWEST)
	if exp == nil {
		return nil
	}

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return exp
}

func (p *Parser) parseRandomExpression() ast.Expression {
	expression := &ast.RandomExpression{Token: p.curToken}
	p.nextToken()
	expression.Max = p.parseExpression(LOWEST)
	if expression.Max == nil {
		return nil
	}
	return expression
}

func (p *Parser) parseGetExpression() ast.Expression {
	expression := &ast.GetExpression{Token: p.curToken}
	if !p.expectPeek(lexer.VARIABLE) {
		return nil
	}
	expression.Name = &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	p.nextToken()
	expression.Index = p.parseExpression(LOWEST)
	if expression.Index == nil {
		return nil
	}
	return expression
}

// parseInfixExpression parses the right operand one level tighter than
// the operator, which makes every binary operator left-associative.
func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	expression := &ast.InfixExpression{
		Token:    p.curToken,
		Left:     left,
		Operator: p.curToken.Type,
	}

	precedence := p.curPrecedence()
	p.nextToken()
	expression.Right = p.parseExpression(precedence)
	if expression.Right == nil {
		return nil
	}

	return expression
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.unexpected(p.peekToken)
	return false
}

// unexpected records a syntax error at tok.
func (p *Parser) unexpected(tok lexer.Token) {
	if tok.Type == lexer.EOF {
		p.addError(perrors.NewWithPosition("PARSE-0002", tok.Line, tok.Column, nil))
		return
	}
	p.addError(perrors.NewWithPosition("PARSE-0001", tok.Line, tok.Column,
		map[string]any{"Token": tokenDisplay(tok)}))
}

// tokenDisplay returns how a token is quoted in syntax errors.
func tokenDisplay(tok lexer.Token) string {
	switch tok.Type {
	case lexer.NEWLINE:
		return "newline"
	case lexer.STRING:
		return `💭"` + tok.Literal + `"`
	}
	return tok.Literal
}

func (p *Parser) peekPrecedence() int {
	if p, ok := precedences[p.peekToken.Type]; ok {
		return p
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if p, ok := precedences[p.curToken.Type]; ok {
		return p
	}
	return LOWEST
}
