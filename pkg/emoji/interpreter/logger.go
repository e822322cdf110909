package interpreter

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/mattn/go-isatty"

	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
	"github.com/sambeau/emojiscript/pkg/emoji/evaluator"
)

// Logger is an alias for evaluator.Logger for convenience
type Logger = evaluator.Logger

// Default prefixes for the two kinds of reported line
const (
	DefaultOutputPrefix = "🎯 Output: "
	NoticePrefix        = "😱 "
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// ColorMode selects when notices are colored
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ParseColorMode validates a color setting from flags or config.
func ParseColorMode(s string) (ColorMode, error) {
	switch mode := ColorMode(strings.ToLower(s)); mode {
	case ColorAuto, ColorAlways, ColorNever:
		return mode, nil
	case "":
		return ColorAuto, nil
	}
	return "", fmt.Errorf("invalid color mode %q (want auto, always or never)", s)
}

// Enabled reports whether output to w should be colored. In auto mode only
// terminals are colored, and NO_COLOR turns coloring off.
func (m ColorMode) Enabled(w io.Writer) bool {
	switch m {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// LoggerOptions configures a WriterLogger
type LoggerOptions struct {
	OutputPrefix string    // defaults to DefaultOutputPrefix
	Color        ColorMode // defaults to ColorAuto
	Positions    bool      // prefix notices with their line and column
}

// writerLogger writes to an io.Writer
type writerLogger struct {
	mu        sync.Mutex
	w         io.Writer
	prefix    string
	color     bool
	positions bool
}

// WriterLogger returns a logger that writes output lines and notices to w
func WriterLogger(w io.Writer, opts LoggerOptions) Logger {
	prefix := opts.OutputPrefix
	if prefix == "" {
		prefix = DefaultOutputPrefix
	}
	return &writerLogger{
		w:         w,
		prefix:    prefix,
		color:     opts.Color.Enabled(w),
		positions: opts.Positions,
	}
}

func (l *writerLogger) Output(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, l.prefix+text)
}

func (l *writerLogger) Notice(err *perrors.ScriptError) {
	l.mu.Lock()
	defer l.mu.Unlock()

	line := formatNotice(err, l.positions)
	if l.color {
		line = ansiRed + line + ansiReset
	}
	fmt.Fprintln(l.w, line)
}

// formatNotice renders a notice with its hints on following lines
func formatNotice(err *perrors.ScriptError, positions bool) string {
	var sb strings.Builder
	sb.WriteString(NoticePrefix)
	if positions && err.Line > 0 {
		if err.File != "" {
			sb.WriteString(err.File + ": ")
		}
		fmt.Fprintf(&sb, "line %d, column %d: ", err.Line, err.Column)
	}
	sb.WriteString(err.Message)
	for _, hint := range err.Hints {
		sb.WriteString("\n   ")
		sb.WriteString(hint)
	}
	return sb.String()
}

// BufferedLogger captures output and notices for later retrieval
type BufferedLogger struct {
	mu      sync.Mutex
	outputs []string
	notices []*perrors.ScriptError
	lines   []string
}

// NewBufferedLogger creates a new buffered logger
func NewBufferedLogger() *BufferedLogger {
	return &BufferedLogger{}
}

func (l *BufferedLogger) Output(text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = append(l.outputs, text)
	l.lines = append(l.lines, DefaultOutputPrefix+text)
}

func (l *BufferedLogger) Notice(err *perrors.ScriptError) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.notices = append(l.notices, err)
	l.lines = append(l.lines, NoticePrefix+err.Message)
}

// Outputs returns the printed values, without prefixes
func (l *BufferedLogger) Outputs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.outputs...)
}

// Notices returns every notice reported so far
func (l *BufferedLogger) Notices() []*perrors.ScriptError {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*perrors.ScriptError(nil), l.notices...)
}

// Lines returns outputs and notices interleaved, as a terminal would show them
func (l *BufferedLogger) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.lines...)
}

// String returns all captured lines joined with newlines
func (l *BufferedLogger) String() string {
	lines := l.Lines()
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Reset clears all captured output
func (l *BufferedLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.outputs = nil
	l.notices = nil
	l.lines = nil
}

// nullLogger discards all output
type nullLogger struct{}

func (l *nullLogger) Output(string)               {}
func (l *nullLogger) Notice(*perrors.ScriptError) {}

// NullLogger returns a logger that discards all output
func NullLogger() Logger {
	return &nullLogger{}
}
