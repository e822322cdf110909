// eval_errors.go - Error creation helpers for the EmojiScript evaluator
//
// Fatal problems are returned as *Error objects. Recoverable ones are sent
// to the environment's Logger as notices and never become *Error values.

package evaluator

import (
	"fmt"

	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
	"github.com/sambeau/emojiscript/pkg/emoji/lexer"
)

// newErrorWithClass creates a simple error with a class (no error code or catalog).
func newErrorWithClass(class perrors.ErrorClass, format string, a ...any) *Error {
	return &Error{
		Class:   class,
		Message: fmt.Sprintf(format, a...),
	}
}

// newStructuredError creates a structured error from the catalog.
func newStructuredError(code string, data map[string]any) *Error {
	perr := perrors.New(code, data)
	return &Error{
		Class:   perr.Class,
		Code:    perr.Code,
		Message: perr.Message,
		Hints:   perr.Hints,
		Data:    perr.Data,
	}
}

// newStructuredErrorWithPos creates a structured error located at tok.
func newStructuredErrorWithPos(code string, tok lexer.Token, env *Environment, data map[string]any) *Error {
	err := newStructuredError(code, data)
	err.Line = tok.Line
	err.Column = tok.Column
	if env != nil {
		err.File = env.Filename
	}
	return err
}

// newOperandError reports an operator applied to unsupported types.
func newOperandError(operator lexer.TokenType, left, right Object) *Error {
	return newStructuredError("TYPE-0001", map[string]any{
		"Operator": operator.Symbol(),
		"Left":     typeName(left),
		"Right":    typeName(right),
	})
}

// newIntegerExpectedError reports a non-integer where a whole number is required.
func newIntegerExpectedError(tok lexer.Token, env *Environment, got Object) *Error {
	return newStructuredErrorWithPos("TYPE-0002", tok, env, map[string]any{
		"Operation": tok.Type.Symbol(),
		"Got":       typeName(got),
	})
}

// newNumberExpectedError reports a non-number where a number is required.
func newNumberExpectedError(tok lexer.Token, env *Environment, got Object) *Error {
	return newStructuredErrorWithPos("TYPE-0003", tok, env, map[string]any{
		"Operation": tok.Type.Symbol(),
		"Got":       typeName(got),
	})
}

// newListNotFound builds the notice for a list that was never created.
func newListNotFound(name lexer.Token) *perrors.ScriptError {
	return perrors.NewWithPosition("UNDEF-0002", name.Line, name.Column,
		map[string]any{"Name": name.Literal})
}

// withPosition adds line/column position to an error if it doesn't already have one.
// Returns the object unchanged if it's not an error or already has position info.
func withPosition(obj Object, tok lexer.Token, env *Environment) Object {
	if err, ok := obj.(*Error); ok {
		if err.Line == 0 && err.Column == 0 {
			err.Line = tok.Line
			err.Column = tok.Column
		}
		if err.File == "" && env != nil {
			err.File = env.Filename
		}
	}
	return obj
}

// typeName returns the user-facing name of a value's type.
func typeName(obj Object) string {
	switch obj.(type) {
	case *Integer:
		return "integer"
	case *Float:
		return "float"
	case *Boolean:
		return "boolean"
	case *String:
		return "string"
	case *List:
		return "list"
	case *Null:
		return "None"
	}
	return "unknown"
}
