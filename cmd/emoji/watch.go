package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sambeau/emojiscript/config"
)

// fileWatcher re-runs a program whenever its source file changes
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	path     string
	debounce time.Duration
	onChange func()
	stdout   io.Writer
	stderr   io.Writer
}

// newFileWatcher watches the directory holding path, since editors often
// save by replacing the file rather than writing to it.
func newFileWatcher(path string, debounce time.Duration, onChange func(), stdout, stderr io.Writer) (*fileWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(filepath.Dir(abs)); err != nil {
		fsWatcher.Close()
		return nil, err
	}

	return &fileWatcher{
		watcher:  fsWatcher,
		path:     abs,
		debounce: debounce,
		onChange: onChange,
		stdout:   stdout,
		stderr:   stderr,
	}, nil
}

// Run processes events until ctx is cancelled or the watcher fails.
// A burst of changes triggers one run, debounce after the last event.
func (w *fileWatcher) Run(ctx context.Context) {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.logInfo("changed: %s", w.path)
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logError("watcher error: %v", err)
		}
	}
}

// Close stops the watcher
func (w *fileWatcher) Close() error {
	return w.watcher.Close()
}

func (w *fileWatcher) logInfo(format string, args ...interface{}) {
	fmt.Fprintf(w.stdout, "[WATCH] "+format+"\n", args...)
}

func (w *fileWatcher) logError(format string, args ...interface{}) {
	fmt.Fprintf(w.stderr, "[WATCH ERROR] "+format+"\n", args...)
}

// watchFile runs filename, then runs it again after every change until ctx
// is cancelled. Each run starts with an empty environment.
func watchFile(ctx context.Context, filename string, cfg *config.Config, stdout, stderr io.Writer) int {
	runOnce := func() {
		executeFile(filename, newInterpreter(cfg, stdout), colorMode(cfg), stdout)
	}

	w, err := newFileWatcher(filename, cfg.Watch.Debounce, runOnce, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "[WATCH ERROR] failed to watch %s: %v\n", filename, err)
		return 1
	}
	defer w.Close()

	runOnce()
	w.logInfo("watching %s (Ctrl+C to stop)", filename)
	w.Run(ctx)
	return 0
}
