package main

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/aschmelyun/tmark/internal/chapters"
	"github.com/aschmelyun/tmark/internal/config"
	"github.com/aschmelyun/tmark/internal/video"
)

const tickInterval = 100 * time.Millisecond

const maxStatuses = 6

// reservedKeys cannot be taken by custom shortcuts.
var reservedKeys = map[string]bool{
	"q": true, "ctrl+c": true, " ": true, "ctrl+o": true, "ctrl+s": true,
	"i": true, "a": true, "e": true, "enter": true, "d": true, "delete": true,
	"g": true, "p": true, "?": true, "+": true, "=": true, "-": true,
	"left": true, "right": true, "shift+left": true, "shift+right": true,
	"up": true, "down": true, "k": true, "j": true, "esc": true,
}

func openVideoCmd(prober video.Prober, path string) tea.Cmd {
	return func() tea.Msg {
		info, err := prober.Probe(path)
		if err != nil {
			return videoFailedMsg{path: path, err: err}
		}
		return videoOpenedMsg{info: info}
	}
}

func previewCmd(player video.Player, path string, seconds float64) tea.Cmd {
	return func() tea.Msg {
		return previewDoneMsg{err: player.Preview(path, seconds)}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func chapterItems(store *chapters.Store) []list.Item {
	all := store.Chapters()
	items := make([]list.Item, len(all))
	for i, c := range all {
		items[i] = item{
			label:     c.Label,
			timestamp: chapters.FormatTime(c.Seconds),
		}
	}
	return items
}

func newChapterList(items []list.Item, width, height int) list.Model {
	l := list.New(items, itemDelegate{}, width, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(true)
	l.SetShowPagination(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.KeyMap.ForceQuit.SetEnabled(false)

	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
			key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
			key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "rename")),
			key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
			key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "seek")),
		}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{
			key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "seek 5s")),
			key.NewBinding(key.WithKeys("shift+left", "shift+right"), key.WithHelp("shift+←/→", "seek 30s")),
			key.NewBinding(key.WithKeys("+", "-"), key.WithHelp("+/-", "speed")),
			key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "preview")),
			key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
			key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "import")),
			key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "export")),
		}
	}

	return l
}

// namedKeys holds every non-rune key string bubbletea can report.
var namedKeys = func() map[string]bool {
	names := make(map[string]bool)
	for kt := tea.KeyType(-256); kt < 256; kt++ {
		if kt == tea.KeyRunes {
			continue
		}
		if name := (tea.Key{Type: kt}).String(); name != "" {
			names[name] = true
		}
	}
	return names
}()

// keyCanFire reports whether the terminal can ever deliver k as a key string.
func keyCanFire(k string) bool {
	k = strings.TrimPrefix(k, "alt+")
	if namedKeys[k] {
		return true
	}
	if utf8.RuneCountInString(k) != 1 {
		return false
	}
	r, _ := utf8.DecodeRuneInString(k)
	return unicode.IsPrint(r)
}

// shortcutMap indexes the usable custom shortcuts by key. Shortcuts that
// collide with a built-in key are returned in reserved, ones the terminal
// cannot produce in dead.
func shortcutMap(shortcuts []config.Shortcut) (m map[string]string, reserved, dead []string) {
	m = make(map[string]string, len(shortcuts))
	for _, s := range shortcuts {
		switch {
		case reservedKeys[s.KeyCombination]:
			reserved = append(reserved, s.KeyCombination)
		case !keyCanFire(s.KeyCombination):
			dead = append(dead, s.KeyCombination)
		default:
			m[s.KeyCombination] = s.ChapterPrefix
		}
	}
	return m, reserved, dead
}

func aboutText() string {
	return strings.Join([]string{
		TitleStyle.Render("tmark") + DimTextStyle.Render(" v"+VERSION),
		"",
		TextStyle.Render("Scrub through a video and record named chapter markers."),
		TextStyle.Render("Chapters export to and import from \"HH:MM:SS - label\" text files."),
		"",
		DimTextStyle.Render("License: MIT"),
		DimTextStyle.Render("Press any key to return"),
	}, "\n")
}

func styleOutput(statuses []string) string {
	var styledStatuses []string
	for i, status := range statuses {
		bullet := "├"
		if i == len(statuses)-1 {
			bullet = "└"
		}
		styledStatuses = append(styledStatuses, BulletStyle.Render(bullet)+TextStyle.Render(status))
	}
	return strings.Join(styledStatuses, "\n") + "\n"
}

func usageLine(flagName, description string) string {
	spaces := strings.Repeat(" ", max(1, 12-len(flagName)))
	return BulletStyle.Render("├────") + TextStyle.Render(flagName) + DimTextStyle.Render(spaces+description)
}

func dependencyLine(command string) string {
	status := "✔ installed"
	if !video.Available(command) {
		status = "✗ missing"
	}
	spaces := strings.Repeat(" ", max(1, 10-len(command)))
	return BulletStyle.Render("├────") + TextStyle.Render(command) + DimTextStyle.Render(spaces+status)
}

func printUsage() {
	fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Usage: tmark [options] [video-file]"))
	fmt.Println(BulletStyle.Render("│"))
	fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Options:"))
	fmt.Println(usageLine("--shortcuts", "shortcut file mapping keys to chapter prefixes"))
	fmt.Println(usageLine("--prefix", "prefix for auto-named chapters (default Chapter)"))
	fmt.Println(usageLine("--player", "player used for previews (default mpv)"))
	fmt.Println(usageLine("--log", "write logs to this file"))
	fmt.Println(BulletStyle.Render("│"))
	fmt.Println(BulletStyle.Render("├") + TextStyle.Render("Requirements:"))
	for _, dependency := range []string{"ffprobe", "mpv"} {
		fmt.Println(dependencyLine(dependency))
	}
	fmt.Println(BulletStyle.Render("│"))
	fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Chapter format:") + DimTextStyle.Render(" HH:MM:SS - label, one per line"))
}
