package main

import (
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/aschmelyun/tmark/internal/session"
	"github.com/aschmelyun/tmark/internal/video"
)

type videoOpenedMsg struct {
	info *video.Info
}

type videoFailedMsg struct {
	path string
	err  error
}

type previewDoneMsg struct {
	err error
}

type tickMsg time.Time

type promptKind int

const (
	promptNone promptKind = iota
	promptAdd
	promptRename
	promptOpen
	promptImport
	promptExport
)

func (p promptKind) label() string {
	switch p {
	case promptAdd:
		return "Chapter name: "
	case promptRename:
		return "New chapter name: "
	case promptOpen:
		return "Open video: "
	case promptImport:
		return "Import chapters from: "
	case promptExport:
		return "Export chapters to: "
	}
	return ""
}

type model struct {
	session *session.Session
	prober  video.Prober
	player  video.Player
	logger  *slog.Logger

	spinner    spinner.Model
	loading    bool
	loadingMsg string
	list       list.Model
	progress   progress.Model
	input      textinput.Model

	prompt         promptKind
	pendingSeconds float64
	pendingIndex   int

	startPath string
	prefix    string
	shortcuts map[string]string

	ticking  bool
	lastTick time.Time

	width     int
	height    int
	showAbout bool
	quitting  bool
	warning   string
	succeeded bool
	statuses  []string
}

type item struct {
	label     string
	timestamp string
}

type itemDelegate struct{}
