package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config represents the complete EmojiScript tool configuration
type Config struct {
	BaseDir      string      `yaml:"-"`             // Directory containing config file, for resolving relative paths
	Color        string      `yaml:"color"`         // auto, always or never
	OutputPrefix string      `yaml:"output_prefix"` // printed before every 📢 value (default: "🎯 Output: ")
	Positions    bool        `yaml:"positions"`     // prefix notices with line and column
	HistoryFile  string      `yaml:"history_file"`  // REPL history location
	Prompt       string      `yaml:"prompt"`        // REPL prompt (default: "emoji> ")
	RandomSeed   uint64      `yaml:"random_seed"`   // fixed 🎲 seed; 0 seeds from the clock
	Watch        WatchConfig `yaml:"watch"`
}

// WatchConfig holds settings for `emoji -w`
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"` // quiet period before re-running (default: 200ms)
}

// Defaults returns a Config with sensible defaults
func Defaults() *Config {
	return &Config{
		Color:        "auto",
		OutputPrefix: "🎯 Output: ",
		HistoryFile:  filepath.Join(os.TempDir(), ".emojiscript_history"),
		Prompt:       "emoji> ",
		Watch: WatchConfig{
			Debounce: 200 * time.Millisecond,
		},
	}
}
