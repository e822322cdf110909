package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// testEnv keeps tests away from any real EMOJISCRIPT_CONFIG
func testEnv(string) string { return "" }

func runCommand(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr, testEnv)
	return code, stdout.String(), stderr.String()
}

func writeProgram(t *testing.T, name, source string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(source), 0644); err != nil {
		t.Fatalf("failed to write program: %v", err)
	}
	return path
}

func TestEvaluateInline(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		exit     int
		expected string
	}{
		{"number", "📢 6 💫 7", 0, "🎯 Output: 42\n"},
		{"string", `📢 💭"hi"`, 0, "🎯 Output: hi\n"},
		{"division", "📢 7 ✂️ 2", 0, "🎯 Output: 3.5\n"},
		{"notice keeps going", "📢 📦x\n📢 1", 0, "😱 Undefined variable: 📦x\n🎯 Output: 0\n🎯 Output: 1\n"},
		{"syntax error", "📢 🤜1", 1, "😱 Syntax error at EOF\n"},
		{"fatal error", "📢 🎲 0", 1, "😱 🎲 needs a bound of at least 1, got 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, _ := runCommand(t, "--no-color", "-e", tt.code)
			if code != tt.exit {
				t.Errorf("exit code = %d, want %d", code, tt.exit)
			}
			if stdout != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, stdout)
			}
		})
	}
}

func TestSeedFlagRepeats(t *testing.T) {
	_, first, _ := runCommand(t, "--seed", "5", "-e", "🔁 5 📢 🎲 100")
	_, second, _ := runCommand(t, "--seed", "5", "-e", "🔁 5 📢 🎲 100")
	if first != second {
		t.Errorf("seeded runs differ:\n%s\n%s", first, second)
	}
}

func TestExecuteFile(t *testing.T) {
	path := writeProgram(t, "count.emoji", "📦n = 0\n🔁 3 📦n = 📦n 🤝 1\n📢 📦n\n")

	code, stdout, _ := runCommand(t, "--no-color", path)
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	want := "🚀 Running " + path + "...\n\n🎯 Output: 3\n"
	if stdout != want {
		t.Errorf("expected %q, got %q", want, stdout)
	}
}

func TestExecuteFileNotFound(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.emoji")

	code, stdout, _ := runCommand(t, "--no-color", missing)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if stdout != "😱 File not found: "+missing+"\n" {
		t.Errorf("got %q", stdout)
	}
}

func TestCheckFiles(t *testing.T) {
	good := writeProgram(t, "good.emoji", "📢 1\n")
	bad := writeProgram(t, "bad.emoji", "📢 1\n📢 🤛\n")
	lexOnly := writeProgram(t, "lex.emoji", "📢 1 $\n")

	tests := []struct {
		name   string
		files  []string
		exit   int
		stdout string
		stderr string
	}{
		{"good", []string{good}, 0, good + ": ok\n", ""},
		{"bad", []string{good, bad}, 1, good + ": ok\n", bad + ": line 2, column 3: Syntax error at '🤛'"},
		{"illegal characters are not syntax errors", []string{lexOnly}, 0, "", "Illegal character '$'"},
		{"missing", []string{filepath.Join(t.TempDir(), "x.emoji")}, 2, "", "Error reading"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, stdout, stderr := runCommand(t, append([]string{"--check"}, tt.files...)...)
			if code != tt.exit {
				t.Errorf("exit code = %d, want %d", code, tt.exit)
			}
			if stdout != tt.stdout {
				t.Errorf("stdout = %q, want %q", stdout, tt.stdout)
			}
			if !strings.Contains(stderr, tt.stderr) {
				t.Errorf("stderr = %q, want it to contain %q", stderr, tt.stderr)
			}
		})
	}
}

func TestCheckRequiresFiles(t *testing.T) {
	if code, _, _ := runCommand(t, "--check"); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
}

func TestVersionAndHelp(t *testing.T) {
	code, stdout, _ := runCommand(t, "-V")
	if code != 0 || stdout != "emoji version "+Version+"\n" {
		t.Errorf("-V: %d %q", code, stdout)
	}

	code, stdout, _ = runCommand(t, "--help")
	if code != 0 || !strings.Contains(stdout, "Usage:") {
		t.Errorf("--help: %d %q", code, stdout)
	}

	if code, _, _ := runCommand(t, "--bogus"); code != 2 {
		t.Errorf("unknown flag exit code = %d, want 2", code)
	}
}

func TestDescribe(t *testing.T) {
	code, stdout, _ := runCommand(t, "describe", "📎")
	if code != 0 || !strings.Contains(stdout, "append (Lists)") {
		t.Errorf("describe 📎: %d %q", code, stdout)
	}

	code, stdout, _ = runCommand(t, "describe", "control", "flow")
	if code != 0 || !strings.Contains(stdout, "🤷") {
		t.Errorf("describe control flow: %d %q", code, stdout)
	}

	code, _, stderr := runCommand(t, "describe", "lop")
	if code != 1 || !strings.Contains(stderr, `did you mean "loop"`) {
		t.Errorf("describe lop: %d %q", code, stderr)
	}

	if code, _, _ := runCommand(t, "describe"); code != 1 {
		t.Errorf("describe without topic exit code = %d", code)
	}
}

func TestConfigFile(t *testing.T) {
	cfgPath := writeProgram(t, "emojiscript.yaml", "output_prefix: \"=> \"\ncolor: never\n")

	code, stdout, _ := runCommand(t, "--config", cfgPath, "-e", "📢 1")
	if code != 0 || stdout != "=> 1\n" {
		t.Errorf("got %d %q", code, stdout)
	}

	code, _, stderr := runCommand(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "-e", "📢 1")
	if code != 1 || !strings.Contains(stderr, "config file not found") {
		t.Errorf("missing config: %d %q", code, stderr)
	}
}

func TestFileWatcherDebouncesChanges(t *testing.T) {
	path := writeProgram(t, "watched.emoji", "📢 1\n")

	var runs atomic.Int32
	changed := make(chan struct{}, 10)
	var log bytes.Buffer
	w, err := newFileWatcher(path, 150*time.Millisecond, func() {
		runs.Add(1)
		changed <- struct{}{}
	}, &log, &log)
	if err != nil {
		t.Fatalf("newFileWatcher: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	// unrelated files in the same directory are ignored
	other := filepath.Join(filepath.Dir(path), "other.emoji")
	if err := os.WriteFile(other, []byte("📢 2\n"), 0644); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("📢 3\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no run after the file changed")
	}
	time.Sleep(500 * time.Millisecond)

	cancel()
	<-done

	if n := runs.Load(); n != 1 {
		t.Errorf("runs = %d, want 1", n)
	}
	if !strings.Contains(log.String(), "[WATCH] changed: ") {
		t.Errorf("log = %q", log.String())
	}
}
