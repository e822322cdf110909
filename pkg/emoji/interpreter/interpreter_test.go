package interpreter

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	perrors "github.com/sambeau/emojiscript/pkg/emoji/errors"
)

func newTestInterpreter() (*Interpreter, *BufferedLogger) {
	log := NewBufferedLogger()
	in := New(Options{
		Logger: log,
		Seed:   42,
		Sleep:  func(time.Duration) {},
	})
	return in, log
}

func TestRunHelloWorld(t *testing.T) {
	in, log := newTestInterpreter()
	if err := in.Run(`📢 💭"Hello, World! 👋"`); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := log.String(); got != "🎯 Output: Hello, World! 👋\n" {
		t.Errorf("output = %q", got)
	}
}

func TestRunDemoProgram(t *testing.T) {
	source := `# Counting and lists
📦counter = 0
🔁 3 📦counter = 📦counter 🤝 1
📢 💭"Counter: " 🤝 📦counter

📋 📦items
📎 📦items 17
📎 📦items 42
📢 🎣 📦items 1

🤔 🤜📦counter 📈 2🤛 📢 💭"big" 🤷 📢 💭"small"
📢 15 ✂️ 3
`
	in, log := newTestInterpreter()
	if err := in.Run(source); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"Counter: 3", "42", "big", "5.0"}
	if got := log.Outputs(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("outputs = %q, want %q", got, want)
	}
}

func TestParseErrorRunsNothing(t *testing.T) {
	in, log := newTestInterpreter()
	err := in.Run("📢 1\n📦x = 5\n📢 2 🤝")
	if err == nil {
		t.Fatal("expected a syntax error")
	}
	var se *perrors.ScriptError
	if !errors.As(err, &se) || se.Message != "Syntax error at EOF" {
		t.Errorf("error = %v", err)
	}
	if len(log.Outputs()) != 0 {
		t.Errorf("statements ran despite the syntax error: %q", log.Outputs())
	}
	if _, ok := in.Environment().Get("📦x"); ok {
		t.Error("assignment ran despite the syntax error")
	}
	if lines := log.Lines(); len(lines) != 1 || lines[0] != "😱 Syntax error at EOF" {
		t.Errorf("lines = %q", lines)
	}
}

func TestIllegalCharactersAreNotices(t *testing.T) {
	in, log := newTestInterpreter()
	if err := in.Run("📢 1 $ 🤝 2"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"😱 Illegal character '$'", "🎯 Output: 3"}
	if got := log.Lines(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("lines = %q, want %q", got, want)
	}
}

func TestRecoverableNoticesContinue(t *testing.T) {
	in, log := newTestInterpreter()
	err := in.Run("📢 📦nope\n📎 📦missing 1\n📋 📦l\n📢 🎣 📦l 3\n📢 💭\"done\"")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		"😱 Undefined variable: 📦nope",
		"🎯 Output: 0",
		"😱 List 📦missing not found!",
		"😱 Index 3 out of range!",
		"🎯 Output: None",
		"🎯 Output: done",
	}
	if got := log.Lines(); strings.Join(got, "\n") != strings.Join(want, "\n") {
		t.Errorf("lines =\n%s\nwant\n%s", strings.Join(got, "\n"), strings.Join(want, "\n"))
	}
}

func TestFatalErrorStopsRun(t *testing.T) {
	in, log := newTestInterpreter()
	err := in.Run("📢 1\n📢 💭\"a\" 💫 2\n📢 3")
	if err == nil {
		t.Fatal("expected a runtime error")
	}
	if got := log.Outputs(); len(got) != 1 || got[0] != "1" {
		t.Errorf("outputs = %q", got)
	}
	notices := log.Notices()
	if len(notices) != 1 || notices[0].Code != "TYPE-0001" || notices[0].Line != 2 {
		t.Errorf("notices = %+v", notices)
	}
}

func TestEnvironmentPersistsAcrossRuns(t *testing.T) {
	in, log := newTestInterpreter()
	runs := []string{"📦x = 1", "📋 📦l", "📎 📦l 📦x 🤝 1", "📢 🎣 📦l 0"}
	for _, src := range runs {
		if err := in.Run(src); err != nil {
			t.Fatalf("Run(%q): %v", src, err)
		}
	}
	if got := log.Outputs(); len(got) != 1 || got[0] != "2" {
		t.Errorf("outputs = %q", got)
	}

	in.Reset()
	log.Reset()
	in.Run("📢 📦x")
	if got := log.Outputs(); len(got) != 1 || got[0] != "0" {
		t.Errorf("after Reset outputs = %q", got)
	}
}

func TestSeedMakesRandomRepeatable(t *testing.T) {
	draw := func() string {
		in, log := newTestInterpreter()
		in.Run("🔁 10 📢 🎲 6")
		return strings.Join(log.Outputs(), ",")
	}
	if a, b := draw(), draw(); a != b {
		t.Errorf("seeded runs differ: %s vs %s", a, b)
	}
}

func TestSleepUsesInjectedFunc(t *testing.T) {
	var total time.Duration
	in := New(Options{
		Logger: NullLogger(),
		Sleep:  func(d time.Duration) { total += d },
	})
	if err := in.Run("🔁 4 💤 1 ✂️ 4"); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if total != time.Second {
		t.Errorf("slept %v, want 1s", total)
	}
}

func TestParseIsPure(t *testing.T) {
	program, err := Parse("📦x = 1\n📢 📦x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(program.Statements) != 2 {
		t.Errorf("statements = %d", len(program.Statements))
	}
	if _, err := Parse("📢 🤜1"); err == nil {
		t.Error("expected a syntax error")
	}
}

func TestCheck(t *testing.T) {
	if problems := Check("📢 1"); len(problems) != 0 {
		t.Errorf("problems = %v", problems)
	}
	problems := Check("📢 1 @\n📢 🤛")
	if len(problems) != 2 {
		t.Fatalf("problems = %v", problems)
	}
	if problems[0].Class != perrors.ClassLex || problems[1].Class != perrors.ClassParse {
		t.Errorf("classes = %s, %s", problems[0].Class, problems[1].Class)
	}
}

func TestRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hello.emoji")
	if err := os.WriteFile(path, []byte("📢 📦who"), 0o644); err != nil {
		t.Fatal(err)
	}

	in, log := newTestInterpreter()
	if err := in.RunFile(path); err != nil {
		t.Fatalf("RunFile: %v", err)
	}
	notices := log.Notices()
	if len(notices) != 1 || notices[0].File != path {
		t.Errorf("notices = %+v", notices)
	}
	if in.Environment().Filename != "" {
		t.Error("filename leaked past RunFile")
	}

	err := in.RunFile(filepath.Join(dir, "missing.emoji"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestWriterLogger(t *testing.T) {
	tests := []struct {
		name string
		opts LoggerOptions
		want string
	}{
		{
			name: "defaults",
			opts: LoggerOptions{Color: ColorNever},
			want: "😱 Undefined variable: 📦y\n   Did you mean `📦x`?\n🎯 Output: 0\n",
		},
		{
			name: "custom prefix with positions",
			opts: LoggerOptions{Color: ColorNever, OutputPrefix: "> ", Positions: true},
			want: "😱 line 1, column 3: Undefined variable: 📦y\n   Did you mean `📦x`?\n> 0\n",
		},
		{
			name: "color always",
			opts: LoggerOptions{Color: ColorAlways},
			want: "\x1b[31m😱 Undefined variable: 📦y\n   Did you mean `📦x`?\x1b[0m\n🎯 Output: 0\n",
		},
		{
			name: "auto is plain for buffers",
			opts: LoggerOptions{Color: ColorAuto},
			want: "😱 Undefined variable: 📦y\n   Did you mean `📦x`?\n🎯 Output: 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			in := New(Options{Logger: WriterLogger(&buf, tt.opts)})
			in.Run("📦x = 0")
			buf.Reset()
			in.Run("📢 📦y")
			if buf.String() != tt.want {
				t.Errorf("got %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorMode
		wantErr bool
	}{
		{"", ColorAuto, false},
		{"auto", ColorAuto, false},
		{"ALWAYS", ColorAlways, false},
		{"never", ColorNever, false},
		{"sometimes", "", true},
	}
	for _, tt := range tests {
		got, err := ParseColorMode(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseColorMode(%q) = %q, %v", tt.in, got, err)
		}
	}
}
