package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"

	"github.com/sambeau/emojiscript/config"
	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
	"github.com/sambeau/emojiscript/pkg/emoji/help"
	"github.com/sambeau/emojiscript/pkg/emoji/interpreter"
	"github.com/sambeau/emojiscript/pkg/emoji/repl"
)

// Version is set at compile time via -ldflags
var Version = "0.1.0"

const ansiCyan = "\x1b[36m"
const ansiReset = "\x1b[0m"

// options holds the parsed command line
type options struct {
	help       bool
	version    bool
	eval       string
	check      bool
	watch      bool
	noColor    bool
	configPath string
	seed       uint64
	args       []string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr, os.Getenv))
}

// run executes the emoji command and returns the process exit code
func run(args []string, stdout, stderr io.Writer, getenv func(string) string) int {
	if len(args) > 0 && args[0] == "describe" {
		return describeCommand(args[1:], stdout, stderr)
	}

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	if opts.help {
		printHelp(stdout)
		return 0
	}
	if opts.version {
		fmt.Fprintf(stdout, "emoji version %s\n", Version)
		return 0
	}

	cfg, err := config.Load(opts.configPath, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	if opts.noColor {
		cfg.Color = string(interpreter.ColorNever)
	}
	if opts.seed != 0 {
		cfg.RandomSeed = opts.seed
	}

	switch {
	case opts.eval != "":
		return executeInline(opts.eval, cfg, stdout)
	case opts.check:
		if len(opts.args) == 0 {
			fmt.Fprintln(stderr, "Error: --check requires at least one file")
			return 2
		}
		return checkFiles(opts.args, stdout, stderr)
	case opts.watch:
		if len(opts.args) != 1 {
			fmt.Fprintln(stderr, "Error: --watch requires exactly one file")
			return 2
		}
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return watchFile(ctx, opts.args[0], cfg, stdout, stderr)
	case len(opts.args) > 0:
		return executeFile(opts.args[0], newInterpreter(cfg, stdout), colorMode(cfg), stdout)
	default:
		repl.Start(stdout, Version, repl.Options{
			Prompt:      cfg.Prompt,
			HistoryFile: cfg.HistoryFile,
			Interpreter: newInterpreter(cfg, stdout),
		})
		return 0
	}
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fset := flag.NewFlagSet("emoji", flag.ContinueOnError)
	fset.SetOutput(stderr)
	fset.Usage = func() { printHelp(stderr) }

	fset.BoolVar(&opts.help, "h", false, "Show help message")
	fset.BoolVar(&opts.help, "help", false, "Show help message")
	fset.BoolVar(&opts.version, "V", false, "Show version information")
	fset.BoolVar(&opts.version, "version", false, "Show version information")
	fset.StringVar(&opts.eval, "e", "", "Run code string")
	fset.StringVar(&opts.eval, "eval", "", "Run code string")
	fset.BoolVar(&opts.check, "check", false, "Check syntax without running")
	fset.BoolVar(&opts.watch, "w", false, "Re-run the file whenever it changes")
	fset.BoolVar(&opts.watch, "watch", false, "Re-run the file whenever it changes")
	fset.BoolVar(&opts.noColor, "no-color", false, "Never color notices")
	fset.StringVar(&opts.configPath, "config", "", "Path to emojiscript.yaml")
	fset.Uint64Var(&opts.seed, "seed", 0, "Fixed seed for 🎲")

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	opts.args = fset.Args()
	return opts, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `emoji - EmojiScript interpreter version %s

Usage:
  emoji [options] [file]
  emoji -e "code"
  emoji --check <file>...
  emoji -w <file>
  emoji describe <topic>

Options:
  -h, --help            Show this help message
  -V, --version         Show version information
  -e, --eval <code>     Run a code string
  --check               Check syntax without running (can specify multiple files)
  -w, --watch           Re-run the file whenever it changes
  --no-color            Never color notices
  --config <path>       Use this config file instead of searching for emojiscript.yaml
  --seed <n>            Fixed seed for 🎲, so runs repeat

Examples:
  emoji                       Start interactive REPL
  emoji hello.emoji           Run a program
  emoji -e '📢 6 💫 7'        Run inline code (prints: 🎯 Output: 42)
  emoji --check *.emoji       Check syntax without running
  emoji -w game.emoji         Run, then re-run on every save
  emoji describe loop         Show help for a symbol or category
`, Version)
}

// describeCommand implements the 'emoji describe <topic>' subcommand
func describeCommand(args []string, stdout, stderr io.Writer) int {
	topic := strings.Join(args, " ")
	if strings.TrimSpace(topic) == "" {
		fmt.Fprintln(stderr, `Usage: emoji describe <topic>

Topics:
  <symbol>     A symbol or its name (📢, print, 🔁, loop, ...)
  <category>   A group of symbols (lists, comparisons, control flow, ...)
  examples     Example programs`)
		return 1
	}

	text, err := help.DescribeTopic(topic)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprint(stdout, text)
	return 0
}

func colorMode(cfg *config.Config) interpreter.ColorMode {
	// config.Load has already validated the mode
	mode, _ := interpreter.ParseColorMode(cfg.Color)
	return mode
}

// newInterpreter builds an interpreter whose logger follows the config
func newInterpreter(cfg *config.Config, out io.Writer) *interpreter.Interpreter {
	return interpreter.New(interpreter.Options{
		Logger: interpreter.WriterLogger(out, interpreter.LoggerOptions{
			OutputPrefix: cfg.OutputPrefix,
			Color:        colorMode(cfg),
			Positions:    cfg.Positions,
		}),
		Seed: cfg.RandomSeed,
	})
}

// executeInline runs code provided via -e
func executeInline(code string, cfg *config.Config, stdout io.Writer) int {
	if err := newInterpreter(cfg, stdout).Run(code); err != nil {
		return 1
	}
	return 0
}

// checkFiles checks the syntax of one or more files without running them
func checkFiles(files []string, stdout, stderr io.Writer) int {
	hasErrors := false

	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(stderr, "Error reading %s: %v\n", filename, err)
			return 2
		}

		problems := interpreter.Check(string(content))
		for _, p := range problems {
			fmt.Fprintln(stderr, p.WithFile(filename).Error())
			if p.IsParseError() {
				hasErrors = true
			}
		}
		if len(problems) == 0 {
			fmt.Fprintf(stdout, "%s: ok\n", filename)
		}
	}

	if hasErrors {
		return 1
	}
	return 0
}

// executeFile announces and runs one source file
func executeFile(filename string, interp *interpreter.Interpreter, color interpreter.ColorMode, stdout io.Writer) int {
	_, err := os.Stat(filename)
	if err == nil {
		banner := fmt.Sprintf("🚀 Running %s...", filename)
		if color.Enabled(stdout) {
			banner = ansiCyan + banner + ansiReset
		}
		fmt.Fprintf(stdout, "%s\n\n", banner)

		err = interp.RunFile(filename)
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, fs.ErrNotExist):
		fmt.Fprintf(stdout, "%sFile not found: %s\n", interpreter.NoticePrefix, filename)
	case !isScriptError(err):
		fmt.Fprintf(stdout, "%s%v\n", interpreter.NoticePrefix, err)
	}
	return 1
}

// isScriptError reports whether err was already shown as a notice
func isScriptError(err error) bool {
	var se *perrors.ScriptError
	return errors.As(err, &se)
}
