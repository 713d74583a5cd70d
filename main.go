package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/aschmelyun/tmark/internal/chapters"
	"github.com/aschmelyun/tmark/internal/config"
	"github.com/aschmelyun/tmark/internal/logging"
	"github.com/aschmelyun/tmark/internal/session"
	"github.com/aschmelyun/tmark/internal/video"
)

const VERSION = "0.1.0"

func (i item) FilterValue() string { return i.label }

func (d itemDelegate) Height() int                             { return 1 }
func (d itemDelegate) Spacing() int                            { return 0 }
func (d itemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d itemDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	i, ok := listItem.(item)
	if !ok {
		return
	}

	str := TimestampStyle.Render(i.timestamp) + i.label

	fn := ItemStyle.Render
	if index == m.Index() {
		fn = func(s ...string) string {
			return SelectedItemStyle.Render("> " + strings.Join(s, " "))
		}
	}

	fmt.Fprint(w, fn(str))
}

func newModel(cfg *config.Config, logger *slog.Logger, width, height int) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	ti := textinput.New()
	ti.CharLimit = 512
	ti.Width = 60

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40

	m := model{
		session:  session.New(logging.WithComponent(logger, "session")),
		prober:   video.Prober{Binary: cfg.FFprobe},
		player:   video.Player{Binary: cfg.Player},
		logger:   logger,
		spinner:  s,
		progress: bar,
		input:    ti,
		prefix:   cfg.Prefix,
		width:    width,
		height:   height,
	}
	m.list = newChapterList(nil, width, m.listHeight())

	shortcuts, err := cfg.ResolveShortcuts()
	if err != nil {
		// a broken shortcut file only disables custom shortcuts
		logger.Debug("shortcuts disabled", "error", err)
	}
	var reserved, dead []string
	m.shortcuts, reserved, dead = shortcutMap(shortcuts)
	for _, k := range reserved {
		logger.Warn("shortcut conflicts with a built-in key", "key", k)
	}
	for _, k := range dead {
		logger.Warn("shortcut key cannot be sent by a terminal", "key", k)
	}
	for k, prefix := range m.shortcuts {
		logger.Info("shortcut added", "key", k, "prefix", prefix)
	}

	if cfg.VideoPath != "" {
		m.startPath = cfg.VideoPath
		m.loading = true
		m.loadingMsg = "Probing " + filepath.Base(cfg.VideoPath) + " with ffprobe..."
	}

	return m
}

func (m model) Init() tea.Cmd {
	if m.loading {
		return tea.Batch(
			m.spinner.Tick,
			openVideoCmd(m.prober, m.startPath),
		)
	}
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width, m.listHeight())
		m.progress.Width = max(10, min(msg.Width-24, 60))
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.prompt != promptNone {
			return m.updatePrompt(msg)
		}
		if m.loading {
			return m, nil
		}
		if m.showAbout {
			m.showAbout = false
			return m, nil
		}
		return m.handleKey(msg)

	case videoOpenedMsg:
		m.loading = false
		m.session.Open(msg.info)
		m.warning = ""
		m.notify("Opened " + filepath.Base(msg.info.Path) + fmt.Sprintf(" (%.3g fps, %d frames)", msg.info.FPS, msg.info.FrameCount))
		return m, m.startTicking()

	case videoFailedMsg:
		m.loading = false
		m.session.Open(nil)
		m.logger.Warn("video open failed", "path", msg.path, "error", msg.err)
		m.warn(fmt.Errorf("failed to open video: %w", msg.err))
		return m, nil

	case tickMsg:
		now := time.Time(msg)
		elapsed := now.Sub(m.lastTick)
		m.lastTick = now
		if m.session.Advance(elapsed) {
			return m, tickCmd()
		}
		m.ticking = false
		return m, nil

	case previewDoneMsg:
		if msg.err != nil {
			m.warn(msg.err)
		}
		return m, nil

	case spinner.TickMsg:
		if m.loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	}

	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()

	if prefix, ok := m.shortcuts[k]; ok {
		label, err := m.session.AddAutoChapter(prefix)
		if err != nil {
			return m, nil
		}
		m.refreshChapters()
		m.notify("Added " + label + " at " + chapters.FormatTime(m.session.CurrentSeconds()))
		return m, nil
	}

	switch k {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case " ":
		if m.session.TogglePlay() {
			return m, m.startTicking()
		}
		return m, nil

	case "ctrl+o":
		return m, m.openPrompt(promptOpen, "")

	case "i":
		return m, m.openPrompt(promptImport, "")

	case "ctrl+s":
		if m.session.Chapters().Len() == 0 {
			m.warn(chapters.ErrNoChapters)
			return m, nil
		}
		m.session.Pause()
		return m, m.openPrompt(promptExport, m.session.DefaultExportPath())

	case "a":
		if !m.session.Loaded() {
			return m, nil
		}
		m.pendingSeconds = m.session.CurrentSeconds()
		return m, m.openPrompt(promptAdd, m.session.PendingLabel(m.prefix))

	case "e", "enter":
		all := m.session.Chapters().Chapters()
		index := m.list.Index()
		if index < 0 || index >= len(all) {
			return m, nil
		}
		m.pendingIndex = index
		return m, m.openPrompt(promptRename, all[index].Label)

	case "d", "delete":
		if err := m.session.DeleteChapter(m.list.Index()); err != nil {
			return m, nil
		}
		m.refreshChapters()
		return m, nil

	case "g":
		if err := m.session.SeekToChapter(m.list.Index()); err != nil {
			return m, nil
		}
		return m, nil

	case "left":
		m.session.SeekBy(-5)
		return m, nil
	case "right":
		m.session.SeekBy(5)
		return m, nil
	case "shift+left":
		m.session.SeekBy(-30)
		return m, nil
	case "shift+right":
		m.session.SeekBy(30)
		return m, nil

	case "+", "=":
		m.session.SpeedUp()
		return m, nil
	case "-":
		m.session.SpeedDown()
		return m, nil

	case "p":
		if !m.session.Loaded() {
			return m, nil
		}
		m.session.Pause()
		return m, previewCmd(m.player, m.session.Video().Path, m.session.CurrentSeconds())

	case "?":
		m.showAbout = true
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closePrompt()
		return m, nil

	case "enter":
		kind := m.prompt
		value := strings.TrimSpace(m.input.Value())
		m.closePrompt()
		if value == "" {
			return m, nil
		}
		return m.submitPrompt(kind, value)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) submitPrompt(kind promptKind, value string) (tea.Model, tea.Cmd) {
	switch kind {
	case promptAdd:
		added, err := m.session.AddChapterAt(m.pendingSeconds, value)
		if err != nil || !added {
			return m, nil
		}
		m.refreshChapters()
		m.notify("Added " + value + " at " + chapters.FormatTime(m.pendingSeconds))

	case promptRename:
		changed, err := m.session.RenameChapter(m.pendingIndex, value)
		if err != nil || !changed {
			return m, nil
		}
		m.refreshChapters()

	case promptOpen:
		m.loading = true
		m.loadingMsg = "Probing " + filepath.Base(value) + " with ffprobe..."
		return m, tea.Batch(m.spinner.Tick, openVideoCmd(m.prober, value))

	case promptImport:
		if err := m.session.ImportChapters(value); err != nil {
			m.warn(err)
			return m, nil
		}
		m.refreshChapters()
		m.list.Select(0)
		m.succeed(fmt.Sprintf("Imported %d chapters from %s", m.session.Chapters().Len(), filepath.Base(value)))

	case promptExport:
		if err := m.session.ExportChapters(value); err != nil {
			m.warn(err)
			return m, nil
		}
		m.succeed("Chapters exported to " + value)
	}

	return m, nil
}

func (m *model) openPrompt(kind promptKind, value string) tea.Cmd {
	m.prompt = kind
	m.input.Prompt = PromptStyle.Render(kind.label())
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *model) closePrompt() {
	m.prompt = promptNone
	m.input.Blur()
	m.input.SetValue("")
}

func (m *model) startTicking() tea.Cmd {
	if m.ticking || !m.session.Playing() {
		return nil
	}
	m.ticking = true
	m.lastTick = time.Now()
	return tickCmd()
}

func (m *model) refreshChapters() {
	items := chapterItems(m.session.Chapters())
	m.list.SetItems(items)
	if len(items) > 0 {
		m.list.Select(min(m.list.Index(), len(items)-1))
	}
}

func (m *model) notify(status string) {
	m.warning = ""
	m.succeeded = false
	m.statuses = append(m.statuses, status)
	if len(m.statuses) > maxStatuses {
		m.statuses = m.statuses[len(m.statuses)-maxStatuses:]
	}
}

func (m *model) succeed(status string) {
	m.notify(status)
	m.succeeded = true
}

func (m *model) warn(err error) {
	m.notify(err.Error())
	m.warning = err.Error()
}

func (m model) listHeight() int {
	return max(4, m.height-14)
}

func (m model) videoPanel() string {
	if !m.session.Loaded() {
		return PanelStyle.Render(DimTextStyle.Render("No video loaded. Press ctrl+o to open one."))
	}

	state := "⏸ paused"
	if m.session.Playing() {
		state = "▶ playing"
	}

	lines := []string{
		TitleStyle.Render(filepath.Base(m.session.Video().Path)),
		TextStyle.Render(m.session.TimeLabel()) + "  " + m.progress.ViewAs(m.session.Progress()),
		DimTextStyle.Render(fmt.Sprintf("%s  speed %s", state, m.session.SpeedLabel())),
	}
	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func (m model) View() string {
	if m.quitting {
		return styleOutput(m.statuses)
	}

	if m.showAbout {
		return PanelStyle.Render(aboutText()) + "\n"
	}

	if m.loading {
		loadingText := fmt.Sprintf("%s%s", m.spinner.View(), m.loadingMsg)
		if len(m.statuses) > 0 {
			return styleOutput(m.statuses) + loadingText
		}
		return loadingText
	}

	var b strings.Builder
	b.WriteString(m.videoPanel())
	b.WriteString("\n")

	b.WriteString(BulletStyle.Render("┌") + TitleStyle.Render("Chapters") + "\n")
	if m.session.Chapters().Len() == 0 {
		b.WriteString(ItemStyle.Render(DimTextStyle.Render("No chapters yet. Press a to add one.")) + "\n")
	} else {
		b.WriteString(m.list.View() + "\n")
	}

	if m.prompt != promptNone {
		b.WriteString(m.input.View() + "\n")
	}

	if m.warning != "" || m.succeeded {
		style := SuccessStyle
		if m.warning != "" {
			style = ErrorStyle
		}
		last := len(m.statuses) - 1
		for _, status := range m.statuses[:last] {
			b.WriteString(BulletStyle.Render("├") + TextStyle.Render(status) + "\n")
		}
		b.WriteString(BulletStyle.Render("└") + style.Render(m.statuses[last]) + "\n")
	} else if len(m.statuses) > 0 {
		b.WriteString(styleOutput(m.statuses))
	}

	return b.String()
}

func main() {
	fmt.Println(BulletStyle.Render("┌") + TitleStyle.Render("tmark"))

	cfg, err := config.Load(os.Args[1:], printUsage)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Println(BulletStyle.Render("└") + ErrorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}

	if cfg.ShowHelp {
		printUsage()
		os.Exit(0)
	}

	if cfg.ShowVersion {
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render(VERSION))
		os.Exit(0)
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Println(BulletStyle.Render("└") + TextStyle.Render("Error: tmark needs an interactive terminal."))
		os.Exit(1)
	}

	var logOut io.Writer
	if cfg.LogFile != "" {
		f, err := tea.LogToFile(cfg.LogFile, "tmark")
		if err != nil {
			fmt.Printf(BulletStyle.Render("└")+TextStyle.Render("Error: could not open log file: %v")+"\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := logging.NewLogger(cfg.LogLevel, logOut)

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		width, height = 80, 24
	}

	initialModel := newModel(cfg, logger, width, height)

	p := tea.NewProgram(initialModel, tea.WithAltScreen())

	final, err := p.Run()
	if err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}

	if fm, ok := final.(model); ok && len(fm.statuses) > 0 {
		fmt.Print(styleOutput(fm.statuses))
	}
}
