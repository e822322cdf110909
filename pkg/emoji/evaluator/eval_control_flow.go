package evaluator

import (
	"math"
	"time"

	"github.com/sambeau/emojiscript/pkg/emoji/ast"
)

// evalIfStatement runs the consequence when the condition is truthy,
// otherwise the alternative if one was written.
func evalIfStatement(node *ast.IfStatement, env *Environment) Object {
	condition := Eval(node.Condition, env)
	if isError(condition) {
		return condition
	}

	if IsTruthy(condition) {
		return evalBody(node.Consequence, env)
	}
	return evalBody(node.Alternative, env)
}

// evalLoopStatement evaluates the count once and runs the body that many
// times. A count of zero or less runs nothing.
func evalLoopStatement(node *ast.LoopStatement, env *Environment) Object {
	count := Eval(node.Count, env)
	if isError(count) {
		return count
	}

	n, ok := toInteger(count)
	if !ok {
		return newIntegerExpectedError(node.Token, env, count)
	}

	for i := int64(0); i < n; i++ {
		if result := evalBody(node.Body, env); isError(result) {
			return result
		}
	}
	return NULL
}

func evalSleepStatement(node *ast.SleepStatement, env *Environment) Object {
	val := Eval(node.Duration, env)
	if isError(val) {
		return val
	}

	num, ok := toNumber(val)
	if !ok {
		return newNumberExpectedError(node.Token, env, val)
	}

	seconds := num.f
	if !(seconds >= 0) || seconds*float64(time.Second) >= math.MaxInt64 {
		return newStructuredErrorWithPos("VALUE-0002", node.Token, env,
			map[string]any{"Got": val.Inspect()})
	}

	env.sleep(time.Duration(seconds * float64(time.Second)))
	return NULL
}

// evalRandomExpression draws a uniform integer in [1, max].
func evalRandomExpression(node *ast.RandomExpression, env *Environment) Object {
	val := Eval(node.Max, env)
	if isError(val) {
		return val
	}

	n, ok := toInteger(val)
	if !ok {
		return newIntegerExpectedError(node.Token, env, val)
	}
	if n < 1 {
		return newStructuredErrorWithPos("VALUE-0001", node.Token, env,
			map[string]any{"Got": n})
	}

	return &Integer{Value: env.randomInt(n)}
}
