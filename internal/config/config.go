// Package config resolves tmark's settings from defaults, a .env file, the
// environment and command-line flags, in increasing priority.
package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting.
type Config struct {
	VideoPath     string
	ShortcutsPath string
	Player        string
	FFprobe       string
	Prefix        string
	LogFile       string
	LogLevel      string
	ShowHelp      bool
	ShowVersion   bool
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Player:   "mpv",
		FFprobe:  "ffprobe",
		Prefix:   "Chapter",
		LogLevel: "info",
	}
}

// Load builds the configuration for args (without the program name). A .env
// file in the working directory is read first; variables already set in the
// environment win over it.
func Load(args []string, usage func()) (*Config, error) {
	// a missing .env is the normal case
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.applyEnv(os.Getenv)

	fs := flag.NewFlagSet("tmark", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	if usage != nil {
		fs.Usage = usage
	}

	fs.StringVar(&cfg.ShortcutsPath, "shortcuts", cfg.ShortcutsPath, "Path to a shortcut file (JSON or YAML)")
	fs.StringVar(&cfg.Player, "player", cfg.Player, "Player used for previews")
	fs.StringVar(&cfg.Prefix, "prefix", cfg.Prefix, "Prefix for auto-named chapters")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Write logs to this file")
	fs.BoolVar(&cfg.ShowHelp, "help", false, "Show usage info")
	fs.BoolVar(&cfg.ShowVersion, "version", false, "Show version info")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	switch rest := fs.Args(); len(rest) {
	case 0:
	case 1:
		cfg.VideoPath = rest[0]
	default:
		return nil, fmt.Errorf("expected at most one video file, got %d", len(rest))
	}

	if strings.TrimSpace(cfg.Prefix) == "" {
		return nil, fmt.Errorf("chapter prefix cannot be empty")
	}

	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("TMARK_SHORTCUTS"); v != "" {
		c.ShortcutsPath = v
	}
	if v := getenv("TMARK_PLAYER"); v != "" {
		c.Player = v
	}
	if v := getenv("TMARK_FFPROBE"); v != "" {
		c.FFprobe = v
	}
	if v := getenv("TMARK_PREFIX"); v != "" {
		c.Prefix = v
	}
	if v := getenv("TMARK_LOG"); v != "" {
		c.LogFile = v
	}
	if v := getenv("TMARK_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}
