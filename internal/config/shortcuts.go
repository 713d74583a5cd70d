package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Shortcut binds a key combination to an auto-named chapter prefix.
type Shortcut struct {
	KeyCombination string `yaml:"key_combination"`
	ChapterPrefix  string `yaml:"chapter_prefix"`
}

// LoadShortcuts reads a shortcut file. JSON is valid YAML, so both formats
// are accepted. Records missing either field are dropped.
func LoadShortcuts(path string) ([]Shortcut, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shortcuts file: %w", err)
	}

	var raw []Shortcut
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse shortcuts file: %w", err)
	}

	shortcuts := make([]Shortcut, 0, len(raw))
	for _, s := range raw {
		if s.KeyCombination == "" || s.ChapterPrefix == "" {
			continue
		}
		s.KeyCombination = NormalizeKey(s.KeyCombination)
		shortcuts = append(shortcuts, s)
	}

	return shortcuts, nil
}

// FindShortcutsFile searches the standard locations.
// Returns empty string if not found (non-fatal)
func FindShortcutsFile() string {
	locations := []string{
		"./shortcuts.json",
		"./shortcuts.yaml",
		"./shortcuts.yml",
	}
	if exe, err := os.Executable(); err == nil {
		dir := filepath.Dir(exe)
		locations = append(locations,
			filepath.Join(dir, "shortcuts.json"),
			filepath.Join(dir, "shortcuts.yaml"),
		)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		locations = append(locations,
			filepath.Join(dir, "tmark", "shortcuts.json"),
			filepath.Join(dir, "tmark", "shortcuts.yaml"),
		)
	}

	for _, path := range locations {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// ResolveShortcuts loads the configured shortcut file, falling back to the
// standard locations. Any problem disables custom shortcuts and is returned
// for logging only.
func (c *Config) ResolveShortcuts() ([]Shortcut, error) {
	path := c.ShortcutsPath
	if path == "" {
		path = FindShortcutsFile()
	}
	if path == "" {
		return nil, nil
	}
	return LoadShortcuts(path)
}

// NormalizeKey turns a key sequence written like "Ctrl+O" or "Shift+G" into
// the form the terminal reports ("ctrl+o", "G"). Shift on a single letter
// becomes the uppercase letter, since terminals send no separate shift flag
// for printable keys.
func NormalizeKey(combo string) string {
	parts := strings.Split(strings.TrimSpace(combo), "+")
	var mods []string
	shift, ctrl := false, false
	for _, p := range parts[:len(parts)-1] {
		p = strings.ToLower(strings.TrimSpace(p))
		switch p {
		case "control", "ctrl":
			p, ctrl = "ctrl", true
		case "option", "meta":
			p = "alt"
		case "shift":
			shift = true
		}
		mods = append(mods, p)
	}

	k := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	switch k {
	case "return":
		k = "enter"
	case "escape":
		k = "esc"
	case "del":
		k = "delete"
	case "space":
		k = " "
	}

	if shift && !ctrl && len(k) == 1 && k[0] >= 'a' && k[0] <= 'z' {
		k = strings.ToUpper(k)
		kept := mods[:0]
		for _, m := range mods {
			if m != "shift" {
				kept = append(kept, m)
			}
		}
		mods = kept
	}

	// bubbletea puts alt ahead of every other modifier.
	for i, m := range mods {
		if m == "alt" && i > 0 {
			copy(mods[1:i+1], mods[:i])
			mods[0] = "alt"
			break
		}
	}

	return strings.Join(append(mods, k), "+")
}
