// Package repl implements the interactive EmojiScript shell.
package repl

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/sambeau/emojiscript/pkg/emoji/evaluator"
	"github.com/sambeau/emojiscript/pkg/emoji/help"
	"github.com/sambeau/emojiscript/pkg/emoji/interpreter"
)

const PROMPT = "emoji> "
const CONTINUATION_PROMPT = "...    "

const BANNER = `🎮 Welcome to EmojiScript REPL! 🎮
Type your code (use Ctrl+D or Ctrl+C to exit)
Commands: help, examples, exit
Try: 📢 💭"Hello, World! 👋"`

// Options configures a REPL session. Empty fields take defaults.
type Options struct {
	Prompt      string
	HistoryFile string // no history is kept when empty
	Interpreter *interpreter.Interpreter
}

// session holds the state of one REPL run, independent of line editing
type session struct {
	out    io.Writer
	interp *interpreter.Interpreter
	buffer strings.Builder
}

// Start starts the REPL with line editing, history, and tab completion
func Start(out io.Writer, version string, opts Options) {
	line := liner.NewLiner()
	defer line.Close()

	// Ctrl+C aborts the current line instead of the process
	line.SetCtrlCAborts(true)

	s := newSession(out, opts.Interpreter)
	line.SetCompleter(func(l string) []string {
		return filterCompletions(l, s.interp.Environment())
	})

	if opts.HistoryFile != "" {
		if f, err := os.Open(opts.HistoryFile); err == nil {
			line.ReadHistory(f)
			f.Close()
		}
		defer func() {
			if f, err := os.Create(opts.HistoryFile); err == nil {
				line.WriteHistory(f)
				f.Close()
			}
		}()
	}

	prompt := opts.Prompt
	if prompt == "" {
		prompt = PROMPT
	}

	fmt.Fprintln(out, BANNER)
	if version != "" {
		fmt.Fprintln(out, "v", version)
	}
	fmt.Fprintln(out, "")

	for {
		currentPrompt := prompt
		if s.buffer.Len() > 0 {
			currentPrompt = CONTINUATION_PROMPT
		}
		input, err := line.Prompt(currentPrompt)
		if err != nil {
			if err == liner.ErrPromptAborted {
				s.abort()
				continue
			}
			if err == io.EOF {
				fmt.Fprintln(out, "\n👋 Goodbye!")
				return
			}
			fmt.Fprintf(out, "Error reading input: %v\n", err)
			continue
		}

		source, done := s.handleLine(input)
		if done {
			return
		}
		if source != "" {
			line.AppendHistory(source)
		}
	}
}

func newSession(out io.Writer, interp *interpreter.Interpreter) *session {
	if interp == nil {
		interp = interpreter.New(interpreter.Options{
			Logger: interpreter.WriterLogger(out, interpreter.LoggerOptions{}),
		})
	}
	return &session{out: out, interp: interp}
}

// handleLine processes one line of input. It returns the complete source
// that was run, if any, and whether the session should end.
func (s *session) handleLine(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)

	if s.buffer.Len() == 0 {
		switch {
		case trimmed == "":
			return "", false
		case trimmed == "exit" || trimmed == "quit":
			fmt.Fprintln(s.out, "👋 Goodbye!")
			return "", true
		case trimmed == "help" || trimmed == "examples" || strings.HasPrefix(trimmed, ":"):
			s.handleCommand(trimmed)
			return "", false
		}
	}

	if s.buffer.Len() > 0 {
		s.buffer.WriteString("\n")
	}
	s.buffer.WriteString(input)

	source := s.buffer.String()
	if needsMoreInput(source) {
		return "", false
	}
	s.buffer.Reset()

	// errors have already been reported through the interpreter's logger
	_ = s.interp.Run(source)
	return source, false
}

// abort discards any partially entered program
func (s *session) abort() {
	if s.buffer.Len() > 0 {
		fmt.Fprintln(s.out, "^C (cleared)")
	} else {
		fmt.Fprintln(s.out, "^C")
	}
	s.buffer.Reset()
}

// handleCommand handles the help and examples commands and the ':'
// meta-commands
func (s *session) handleCommand(cmd string) {
	switch cmd {
	case "help", ":help", ":h", ":?":
		fmt.Fprint(s.out, help.QuickReference())
		fmt.Fprintln(s.out, "")
		fmt.Fprintln(s.out, "REPL Commands:")
		fmt.Fprintln(s.out, "  :env             Show variables and lists")
		fmt.Fprintln(s.out, "  :clear           Forget all variables and lists")
		fmt.Fprintln(s.out, "  :help <topic>    Describe a symbol or category")

	case "examples", ":examples":
		fmt.Fprint(s.out, help.ExamplesText())

	case ":env":
		printEnvironment(s.interp.Environment(), s.out)

	case ":clear":
		s.interp.Reset()
		fmt.Fprintln(s.out, "Environment cleared")

	default:
		if topic, ok := strings.CutPrefix(cmd, ":help "); ok {
			text, err := help.DescribeTopic(topic)
			if err != nil {
				fmt.Fprintln(s.out, err)
				return
			}
			fmt.Fprint(s.out, text)
			return
		}
		fmt.Fprintf(s.out, "Unknown command: %s (type help for commands)\n", cmd)
	}
}

// printEnvironment displays every variable and list, sorted by name
func printEnvironment(env *evaluator.Environment, out io.Writer) {
	names := env.Names()
	lists := env.ListNames()
	if len(names) == 0 && len(lists) == 0 {
		fmt.Fprintln(out, "(no variables or lists)")
		return
	}

	for _, name := range names {
		obj, _ := env.Get(name)
		fmt.Fprintf(out, "  %s: %s = %s\n", name, obj.Type(), truncate(obj.Inspect()))
	}
	for _, name := range lists {
		list, _ := env.GetList(name)
		fmt.Fprintf(out, "  📋 %s = %s\n", name, truncate(list.Inspect()))
	}
}

func truncate(value string) string {
	r := []rune(value)
	if len(r) > 60 {
		return string(r[:57]) + "..."
	}
	return value
}

// filterCompletions returns whole-line completions for the word being typed.
// Variable names complete from the environment; ASCII symbol names such as
// "print" complete to their emoji.
func filterCompletions(line string, env *evaluator.Environment) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	if strings.HasSuffix(line, " ") || strings.HasSuffix(line, "\t") {
		return nil
	}

	start := strings.LastIndexAny(line, " \t") + 1
	head, word := line[:start], line[start:]

	var matches []string
	if strings.HasPrefix(word, "📦") {
		seen := make(map[string]bool)
		for _, name := range append(env.Names(), env.ListNames()...) {
			if strings.HasPrefix(name, word) && !seen[name] {
				seen[name] = true
				matches = append(matches, head+name)
			}
		}
		return matches
	}

	lower := strings.ToLower(word)
	for _, s := range help.Symbols {
		if strings.HasPrefix(s.Name, lower) {
			matches = append(matches, head+s.Symbol+" ")
		}
	}
	return matches
}

// needsMoreInput reports whether input ends inside a 💭 string, the only
// construct that may span lines
func needsMoreInput(input string) bool {
	inString := false

	for i := 0; i < len(input); {
		rest := input[i:]
		switch {
		case inString:
			if rest[0] == '"' {
				inString = false
			}
			i++
		case strings.HasPrefix(rest, `💭"`):
			inString = true
			i += len(`💭"`)
		case rest[0] == '#':
			nl := strings.IndexByte(rest, '\n')
			if nl < 0 {
				return false
			}
			i += nl
		default:
			i++
		}
	}

	return inString
}
