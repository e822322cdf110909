package lexer

import (
	"fmt"
	"iter"
	"strings"
	"unicode/utf8"

	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
	"golang.org/x/text/unicode/norm"
)

// TokenType represents different types of tokens
type TokenType int

const (
	// Special tokens
	ILLEGAL TokenType = iota
	EOF
	NEWLINE // one or more '\n'

	// Literals
	NUMBER   // 1343456
	STRING   // 💭"foobar"
	VARIABLE // 📦name

	// Operators
	PLUS   // 🤝
	MINUS  // 💔
	TIMES  // 💫
	DIVIDE // ✂️
	GT     // 📈
	LT     // 📉
	ASSIGN // =

	// Delimiters
	LPAREN // 🤜
	RPAREN // 🤛

	// Keywords
	PRINT  // 📢
	IF     // 🤔
	ELSE   // 🤷
	LOOP   // 🔁
	RANDOM // 🎲
	SLEEP  // 💤
	LIST   // 📋
	GET    // 🎣
	APPEND // 📎
)

const (
	variableMarker = '📦'
	stringMarker   = '💭'
	// emoji presentation selector, absorbed after any fixed symbol
	variationSelector = '\uFE0F'
)

// symbols maps each fixed single-codepoint symbol to its token type.
var symbols = map[rune]TokenType{
	'🤝': PLUS,
	'💔': MINUS,
	'💫': TIMES,
	'\u2702': DIVIDE, // ✂
	'📈': GT,
	'📉': LT,
	'=': ASSIGN,
	'🤜': LPAREN,
	'🤛': RPAREN,
	'📢': PRINT,
	'🤔': IF,
	'🤷': ELSE,
	'🔁': LOOP,
	'🎲': RANDOM,
	'💤': SLEEP,
	'📋': LIST,
	'🎣': GET,
	'📎': APPEND,
}

var tokenNames = map[TokenType]string{
	ILLEGAL:  "ILLEGAL",
	EOF:      "EOF",
	NEWLINE:  "NEWLINE",
	NUMBER:   "NUMBER",
	STRING:   "STRING",
	VARIABLE: "VARIABLE",
	PLUS:     "PLUS",
	MINUS:    "MINUS",
	TIMES:    "TIMES",
	DIVIDE:   "DIVIDE",
	GT:       "GT",
	LT:       "LT",
	ASSIGN:   "EQUALS",
	LPAREN:   "LPAREN",
	RPAREN:   "RPAREN",
	PRINT:    "PRINT",
	IF:       "IF",
	ELSE:     "ELSE",
	LOOP:     "LOOP",
	RANDOM:   "RANDOM",
	SLEEP:    "SLEEP",
	LIST:     "LIST",
	GET:      "GET",
	APPEND:   "APPEND",
}

// String returns the grammar name of the token type
func (tt TokenType) String() string {
	if name, ok := tokenNames[tt]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Symbol returns the canonical source spelling of a fixed-symbol token type,
// or "" for literal and special token types.
func (tt TokenType) Symbol() string {
	for r, t := range symbols {
		if t == tt {
			if tt == DIVIDE {
				return string(r) + string(variationSelector)
			}
			return string(r)
		}
	}
	return ""
}

// Token represents a single token
type Token struct {
	Type    TokenType
	Literal string // source text; for STRING the unquoted content
	Line    int
	Column  int
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("{Type: %s, Literal: %q, Line: %d, Column: %d}",
		t.Type, t.Literal, t.Line, t.Column)
}

// Lexer represents the lexical analyzer
type Lexer struct {
	input        string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current character, 0 at end of input
	line         int
	column       int
	errors       []*perrors.ScriptError
	onError      func(*perrors.ScriptError)
}

// New creates a new lexer instance. The input is normalised to NFC so that
// composed and decomposed spellings lex identically.
func New(input string) *Lexer {
	l := &Lexer{
		input: norm.NFC.String(input),
		line:  1,
	}
	l.readChar()
	return l
}

// OnError registers a callback invoked for every illegal character as it is
// skipped, in addition to recording it in Errors.
func (l *Lexer) OnError(fn func(*perrors.ScriptError)) {
	l.onError = fn
}

// Errors returns the illegal-character errors seen so far.
func (l *Lexer) Errors() []*perrors.ScriptError {
	return l.errors
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}

	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

// NextToken returns the next token, skipping whitespace, comments and
// illegal characters. At end of input it keeps returning EOF.
func (l *Lexer) NextToken() Token {
	for {
		l.skipWhitespace()

		if l.atEnd() {
			return Token{Type: EOF, Line: l.line, Column: l.column + 1}
		}

		line, column := l.line, l.column

		switch {
		case l.ch == '#':
			l.skipComment()
			continue

		case l.ch == '\n':
			start := l.position
			for l.ch == '\n' {
				l.readChar()
			}
			return Token{Type: NEWLINE, Literal: l.input[start:l.position], Line: line, Column: column}

		case isDigit(l.ch):
			return Token{Type: NUMBER, Literal: l.readNumber(), Line: line, Column: column}

		case l.ch == variableMarker && isLetter(l.peekChar()):
			return Token{Type: VARIABLE, Literal: l.readVariable(), Line: line, Column: column}

		case l.ch == stringMarker && l.peekChar() == '"':
			if value, ok := l.readString(); ok {
				return Token{Type: STRING, Literal: value, Line: line, Column: column}
			}
		}

		if tt, ok := symbols[l.ch]; ok {
			start := l.position
			l.readChar()
			if l.ch == variationSelector {
				l.readChar()
			}
			return Token{Type: tt, Literal: l.input[start:l.position], Line: line, Column: column}
		}

		l.illegal(line, column)
	}
}

// illegal records the current character as unrecognized and skips exactly
// that one character.
func (l *Lexer) illegal(line, column int) {
	err := perrors.NewWithPosition("LEX-0001", line, column, map[string]any{"Char": string(l.ch)})
	l.errors = append(l.errors, err)
	if l.onError != nil {
		l.onError(err)
	}
	l.readChar()
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' {
		l.readChar()
	}
}

// skipComment discards '#' up to, but not including, the end of line.
func (l *Lexer) skipComment() {
	for !l.atEnd() && l.ch != '\n' {
		l.readChar()
	}
}

func (l *Lexer) readNumber() string {
	position := l.position
	for isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readVariable reads the 📦 marker and the name after it; the returned
// literal keeps the marker.
func (l *Lexer) readVariable() string {
	position := l.position
	l.readChar() // skip marker
	for isLetter(l.ch) || isDigit(l.ch) {
		l.readChar()
	}
	return l.input[position:l.position]
}

// readString reads 💭"..." and returns the content between the quotes.
// An unterminated string leaves the lexer where it started and reports
// false, so the marker is then handled as an illegal character.
func (l *Lexer) readString() (string, bool) {
	// past the marker and the opening quote
	if !strings.Contains(l.input[l.readPosition+1:], `"`) {
		return "", false
	}

	l.readChar() // marker
	l.readChar() // opening quote
	position := l.position
	for l.ch != '"' {
		l.readChar()
	}
	value := l.input[position:l.position]
	l.readChar() // closing quote
	return value, true
}

// isLetter reports ASCII letters and underscore, the only characters a
// variable name may start with.
func isLetter(ch rune) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

// Tokens returns a lazy sequence of the tokens in input, ending before EOF.
// Each iteration lexes the input afresh, so the sequence can be ranged over
// more than once. Illegal characters are skipped silently; use a Lexer with
// OnError to observe them.
func Tokens(input string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		l := New(input)
		for {
			tok := l.NextToken()
			if tok.Type == EOF || !yield(tok) {
				return
			}
		}
	}
}

// Tokenize lexes the whole input, returning every token before EOF and
// every illegal-character error.
func Tokenize(input string) ([]Token, []*perrors.ScriptError) {
	l := New(input)
	var tokens []Token
	for {
		tok := l.NextToken()
		if tok.Type == EOF {
			return tokens, l.Errors()
		}
		tokens = append(tokens, tok)
	}
}
