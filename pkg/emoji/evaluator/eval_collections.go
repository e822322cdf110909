package evaluator

import (
	"github.com/sambeau/emojiscript/pkg/emoji/ast"
	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
)

// evalListAppend appends to a created list. For an unknown list the value
// expression is not evaluated at all.
func evalListAppend(node *ast.ListAppendStatement, env *Environment) Object {
	list, ok := env.GetList(node.Name.Value)
	if !ok {
		env.notice(newListNotFound(node.Name.Token))
		return NULL
	}

	val := Eval(node.Value, env)
	if isError(val) {
		return val
	}

	list.Elements = append(list.Elements, val)
	return NULL
}

// evalListGet returns the element at the index. Negative indexes count
// back from the end. Unknown lists and bad indexes report a notice and
// yield NULL.
func evalListGet(node *ast.GetExpression, env *Environment) Object {
	list, ok := env.GetList(node.Name.Value)
	if !ok {
		env.notice(newListNotFound(node.Name.Token))
		return NULL
	}

	val := Eval(node.Index, env)
	if isError(val) {
		return val
	}

	idx, ok := toInteger(val)
	if !ok {
		return newIntegerExpectedError(node.Token, env, val)
	}

	length := int64(len(list.Elements))
	pos := idx
	if pos < 0 {
		pos += length
	}
	if pos < 0 || pos >= length {
		env.notice(perrors.NewWithPosition("INDEX-0001", node.Token.Line, node.Token.Column,
			map[string]any{"Index": idx}))
		return NULL
	}

	return list.Elements[pos]
}
