package evaluator

import (
	"fmt"
	"math/rand/v2"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/sambeau/emojiscript/pkg/emoji/ast"
	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
)

// ObjectType represents the type of objects in our language
type ObjectType string

const (
	INTEGER_OBJ = "INTEGER"
	FLOAT_OBJ   = "FLOAT"
	BOOLEAN_OBJ = "BOOLEAN"
	STRING_OBJ  = "STRING"
	LIST_OBJ    = "LIST"
	NULL_OBJ    = "NULL"
	ERROR_OBJ   = "ERROR"
)

// Object represents all values in our language
type Object interface {
	Type() ObjectType
	Inspect() string
}

// Integer represents integer objects
type Integer struct {
	Value int64
}

func (i *Integer) Inspect() string  { return strconv.FormatInt(i.Value, 10) }
func (i *Integer) Type() ObjectType { return INTEGER_OBJ }

// Float represents floating-point objects. Only division produces them.
type Float struct {
	Value float64
}

func (f *Float) Inspect() string  { return formatFloat(f.Value) }
func (f *Float) Type() ObjectType { return FLOAT_OBJ }

// Boolean represents boolean objects
type Boolean struct {
	Value bool
}

func (b *Boolean) Inspect() string {
	if b.Value {
		return "True"
	}
	return "False"
}
func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }

// String represents string objects
type String struct {
	Value string
}

func (s *String) Inspect() string  { return quoteString(s.Value) }
func (s *String) Type() ObjectType { return STRING_OBJ }

// List represents a list owned by the environment under its name.
// Appends mutate it in place.
type List struct {
	Elements []Object
}

func (l *List) Inspect() string {
	parts := make([]string, len(l.Elements))
	for i, el := range l.Elements {
		parts[i] = el.Inspect()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *List) Type() ObjectType { return LIST_OBJ }

// Null is the missing value produced by a failed list lookup
type Null struct{}

func (n *Null) Inspect() string  { return "None" }
func (n *Null) Type() ObjectType { return NULL_OBJ }

// Error represents a fatal runtime error. It stops evaluation of the
// current run and propagates up to the caller of Eval.
type Error struct {
	Message string
	Line    int
	Column  int
	Class   perrors.ErrorClass
	Code    string
	Hints   []string
	File    string
	Data    map[string]any
}

func (e *Error) Type() ObjectType { return ERROR_OBJ }
func (e *Error) Inspect() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Message)
	}
	return "ERROR: " + e.Message
}

// ToScriptError converts this Error to a ScriptError for reporting.
func (e *Error) ToScriptError() *perrors.ScriptError {
	class := e.Class
	if class == "" {
		class = perrors.ClassType
	}
	return &perrors.ScriptError{
		Class:   class,
		Code:    e.Code,
		Message: e.Message,
		Hints:   e.Hints,
		Line:    e.Line,
		Column:  e.Column,
		File:    e.File,
		Data:    e.Data,
	}
}

// Global constants
var (
	NULL  = &Null{}
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
)

// Logger receives everything a program reports: one Output call per 📢
// and one Notice per recoverable problem.
type Logger interface {
	Output(text string)
	Notice(err *perrors.ScriptError)
}

// defaultStdoutLogger is the default logger that writes to stdout
type defaultStdoutLogger struct{}

func (l *defaultStdoutLogger) Output(text string) {
	fmt.Fprintln(os.Stdout, "🎯 Output:", text)
}

func (l *defaultStdoutLogger) Notice(err *perrors.ScriptError) {
	fmt.Fprintln(os.Stdout, "😱", err.Message)
}

// DefaultLogger is the default stdout logger
var DefaultLogger Logger = &defaultStdoutLogger{}

// Environment holds every binding a program can see. Scalars and lists
// live in separate namespaces keyed by the same 📦name text.
type Environment struct {
	store    map[string]Object
	lists    map[string]*List
	Filename string
	Logger   Logger
	Rand     *rand.Rand          // source for 🎲; nil uses the global generator
	Sleep    func(time.Duration) // implementation of 💤; nil means time.Sleep
}

// NewEnvironment creates a new, empty environment
func NewEnvironment() *Environment {
	return &Environment{
		store:  make(map[string]Object),
		lists:  make(map[string]*List),
		Logger: DefaultLogger,
	}
}

// Get retrieves a scalar from the environment
func (e *Environment) Get(name string) (Object, bool) {
	obj, ok := e.store[name]
	return obj, ok
}

// Set binds a scalar, replacing any earlier value
func (e *Environment) Set(name string, val Object) Object {
	e.store[name] = val
	return val
}

// GetList retrieves a list from the environment
func (e *Environment) GetList(name string) (*List, bool) {
	list, ok := e.lists[name]
	return list, ok
}

// CreateList binds a new empty list, discarding any earlier contents
func (e *Environment) CreateList(name string) *List {
	list := &List{Elements: []Object{}}
	e.lists[name] = list
	return list
}

// Names returns the bound scalar names in sorted order
func (e *Environment) Names() []string {
	return sortedKeys(e.store)
}

// ListNames returns the bound list names in sorted order
func (e *Environment) ListNames() []string {
	return sortedKeys(e.lists)
}

// Clear removes every scalar and list binding
func (e *Environment) Clear() {
	clear(e.store)
	clear(e.lists)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (e *Environment) logger() Logger {
	if e.Logger == nil {
		return DefaultLogger
	}
	return e.Logger
}

// notice reports a recoverable problem and lets evaluation continue.
func (e *Environment) notice(err *perrors.ScriptError) {
	if e.Filename != "" {
		err = err.WithFile(e.Filename)
	}
	e.logger().Notice(err)
}

// randomInt returns a uniform integer in [1, n].
func (e *Environment) randomInt(n int64) int64 {
	if e.Rand != nil {
		return 1 + e.Rand.Int64N(n)
	}
	return 1 + rand.Int64N(n)
}

func (e *Environment) sleep(d time.Duration) {
	if e.Sleep != nil {
		e.Sleep(d)
		return
	}
	time.Sleep(d)
}

// Eval evaluates a node. Statements produce NULL; expressions produce
// their value. A *Error result is fatal and ends the current program.
func Eval(node ast.Node, env *Environment) Object {
	switch node := node.(type) {

	// Statements
	case *ast.Program:
		return evalProgram(node.Statements, env)

	case *ast.PrintStatement:
		val := Eval(node.Value, env)
		if isError(val) {
			return val
		}
		env.logger().Output(ToDisplayString(val))
		return NULL

	case *ast.AssignStatement:
		val := Eval(node.Value, env)
		if isError(val) {
			return val
		}
		env.Set(node.Name.Value, val)
		return NULL

	case *ast.IfStatement:
		return evalIfStatement(node, env)

	case *ast.LoopStatement:
		return evalLoopStatement(node, env)

	case *ast.SleepStatement:
		return evalSleepStatement(node, env)

	case *ast.ListCreateStatement:
		env.CreateList(node.Name.Value)
		return NULL

	case *ast.ListAppendStatement:
		return evalListAppend(node, env)

	// Expressions
	case *ast.IntegerLiteral:
		return &Integer{Value: node.Value}

	case *ast.StringLiteral:
		return &String{Value: node.Value}

	case *ast.Identifier:
		return evalIdentifier(node, env)

	case *ast.InfixExpression:
		left := Eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := Eval(node.Right, env)
		if isError(right) {
			return right
		}
		return withPosition(evalInfixExpression(node.Operator, left, right), node.Token, env)

	case *ast.RandomExpression:
		return evalRandomExpression(node, env)

	case *ast.GetExpression:
		return evalListGet(node, env)
	}

	return newErrorWithClass(perrors.ClassType, "unknown node type: %T", node)
}

func evalProgram(stmts []ast.Statement, env *Environment) Object {
	for _, statement := range stmts {
		if result := Eval(statement, env); isError(result) {
			return result
		}
	}
	return NULL
}

// evalBody runs the optional single statement of an 🤔, 🤷 or 🔁.
func evalBody(body ast.Statement, env *Environment) Object {
	if body == nil {
		return NULL
	}
	return Eval(body, env)
}

func evalIdentifier(node *ast.Identifier, env *Environment) Object {
	if val, ok := env.Get(node.Value); ok {
		return val
	}
	err := perrors.NewUndefinedVariable(node.Value, env.Names())
	env.notice(err.WithPosition(node.Token.Line, node.Token.Column))
	return &Integer{Value: 0}
}

func isError(obj Object) bool {
	if obj != nil {
		return obj.Type() == ERROR_OBJ
	}
	return false
}
