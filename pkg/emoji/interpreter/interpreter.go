// Package interpreter provides the public API for running EmojiScript.
//
// An Interpreter owns one environment for its whole lifetime: variables
// and lists created by one Run are visible to the next.
package interpreter

import (
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/sambeau/emojiscript/pkg/emoji/ast"
	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
	"github.com/sambeau/emojiscript/pkg/emoji/evaluator"
	"github.com/sambeau/emojiscript/pkg/emoji/lexer"
	"github.com/sambeau/emojiscript/pkg/emoji/parser"
)

// Options configures an Interpreter. The zero value writes to stdout,
// seeds 🎲 from the clock and really sleeps.
type Options struct {
	Logger Logger
	Seed   uint64              // fixed 🎲 seed; 0 seeds from the clock
	Sleep  func(time.Duration) // replaces time.Sleep for 💤
}

// Interpreter runs programs against a persistent environment
type Interpreter struct {
	env    *evaluator.Environment
	logger Logger
}

// New creates an interpreter with an empty environment
func New(opts Options) *Interpreter {
	logger := opts.Logger
	if logger == nil {
		logger = evaluator.DefaultLogger
	}

	env := evaluator.NewEnvironment()
	env.Logger = logger
	env.Sleep = opts.Sleep
	if opts.Seed != 0 {
		env.Rand = rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	}

	return &Interpreter{env: env, logger: logger}
}

// Parse turns source text into a program without running it. It has no
// side effects; illegal characters are skipped silently.
func Parse(source string) (*ast.Program, error) {
	return parser.Parse(source)
}

// Check returns every problem found in source without running it:
// illegal characters first, then the syntax error if there is one.
func Check(source string) []*perrors.ScriptError {
	p := parser.New(lexer.New(source))
	p.ParseProgram()
	problems := append([]*perrors.ScriptError(nil), p.LexErrors()...)
	return append(problems, p.StructuredErrors()...)
}

// Run parses source and evaluates it statement by statement. Illegal
// characters and recoverable runtime problems are reported as notices.
// A syntax error means nothing runs. A fatal runtime error stops the
// program at that statement. Either is reported and returned.
func (in *Interpreter) Run(source string) error {
	l := lexer.New(source)
	l.OnError(in.report)

	p := parser.New(l)
	program := p.ParseProgram()
	if errs := p.StructuredErrors(); len(errs) > 0 {
		err := errs[0]
		if in.env.Filename != "" {
			err = err.WithFile(in.env.Filename)
		}
		in.logger.Notice(err)
		return err
	}

	if result, ok := evaluator.Eval(program, in.env).(*evaluator.Error); ok {
		err := result.ToScriptError()
		in.logger.Notice(err)
		return err
	}
	return nil
}

// RunFile reads a source file and runs it, tagging notices with its path.
func (in *Interpreter) RunFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	previous := in.env.Filename
	in.env.Filename = path
	defer func() { in.env.Filename = previous }()

	return in.Run(string(source))
}

func (in *Interpreter) report(err *perrors.ScriptError) {
	if in.env.Filename != "" {
		err = err.WithFile(in.env.Filename)
	}
	in.logger.Notice(err)
}

// Environment exposes the interpreter's bindings
func (in *Interpreter) Environment() *evaluator.Environment {
	return in.env
}

// Reset forgets every variable and list
func (in *Interpreter) Reset() {
	in.env.Clear()
}
