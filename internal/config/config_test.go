package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Player != "mpv" {
		t.Errorf("Player = %s; want mpv", cfg.Player)
	}
	if cfg.FFprobe != "ffprobe" {
		t.Errorf("FFprobe = %s; want ffprobe", cfg.FFprobe)
	}
	if cfg.Prefix != "Chapter" {
		t.Errorf("Prefix = %s; want Chapter", cfg.Prefix)
	}
}

func TestLoad_FlagsAndVideo(t *testing.T) {
	t.Setenv("TMARK_PLAYER", "vlc")
	t.Setenv("TMARK_PREFIX", "")

	cfg, err := Load([]string{"-prefix", "Goal", "-shortcuts", "keys.yaml", "talk.mp4"}, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.VideoPath != "talk.mp4" {
		t.Errorf("VideoPath = %s; want talk.mp4", cfg.VideoPath)
	}
	if cfg.Prefix != "Goal" {
		t.Errorf("Prefix = %s; want Goal", cfg.Prefix)
	}
	if cfg.ShortcutsPath != "keys.yaml" {
		t.Errorf("ShortcutsPath = %s; want keys.yaml", cfg.ShortcutsPath)
	}
	if cfg.Player != "vlc" {
		t.Errorf("Player = %s; want vlc from the environment", cfg.Player)
	}
}

func TestLoad_FlagOverridesEnv(t *testing.T) {
	t.Setenv("TMARK_PLAYER", "vlc")

	cfg, err := Load([]string{"-player", "mplayer"}, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Player != "mplayer" {
		t.Errorf("Player = %s; want mplayer", cfg.Player)
	}
	if cfg.VideoPath != "" {
		t.Errorf("VideoPath = %s; want empty", cfg.VideoPath)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"Two videos", []string{"a.mp4", "b.mp4"}},
		{"Unknown flag", []string{"-nope"}},
		{"Empty prefix", []string{"-prefix", " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(tt.args, func() {}); err == nil {
				t.Error("Expected error but got none")
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"TMARK_SHORTCUTS": "/etc/keys.json",
		"TMARK_FFPROBE":   "/opt/ffprobe",
		"TMARK_LOG":       "tmark.log",
		"TMARK_LOG_LEVEL": "debug",
	}

	cfg := DefaultConfig()
	cfg.applyEnv(func(k string) string { return env[k] })

	want := &Config{
		ShortcutsPath: "/etc/keys.json",
		Player:        "mpv",
		FFprobe:       "/opt/ffprobe",
		Prefix:        "Chapter",
		LogFile:       "tmark.log",
		LogLevel:      "debug",
	}
	if !reflect.DeepEqual(cfg, want) {
		t.Errorf("applyEnv() = %+v; want %+v", cfg, want)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("TMARK_FFPROBE=/from/dotenv\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	// t.Setenv registers a cleanup that restores the variable godotenv sets.
	t.Setenv("TMARK_FFPROBE", "")
	os.Unsetenv("TMARK_FFPROBE")

	cfg, err := Load(nil, nil)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.FFprobe != "/from/dotenv" {
		t.Errorf("FFprobe = %s; want /from/dotenv", cfg.FFprobe)
	}
}
