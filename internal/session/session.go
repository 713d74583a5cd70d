// Package session holds the state of one editing session: the loaded video,
// the virtual playhead and the chapter store. It has no terminal dependency so
// every command can be driven from tests.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aschmelyun/tmark/internal/chapters"
	"github.com/aschmelyun/tmark/internal/video"
)

// ErrNoVideo is returned by commands that need a loaded video.
var ErrNoVideo = errors.New("no video loaded")

// Speeds is the playback speed ladder.
var Speeds = []float64{0.5, 0.75, 1, 2, 4, 8}

const defaultSpeedIndex = 2

// Session is the mutable state behind the UI. It is not safe for concurrent
// use; the UI event loop is its only caller.
type Session struct {
	video      *video.Info
	store      *chapters.Store
	frame      float64
	playing    bool
	speedIndex int
	logger     *slog.Logger
}

// New returns a session with no video and no chapters.
func New(logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Session{
		store:      chapters.NewStore(),
		speedIndex: defaultSpeedIndex,
		logger:     logger,
	}
}

// Open loads a video, rewinds the playhead and starts playing. Chapters are
// kept.
func (s *Session) Open(info *video.Info) {
	s.video = info
	s.frame = 0
	s.playing = info != nil
	if info != nil {
		s.logger.Info("video opened", "path", info.Path, "fps", info.FPS, "frames", info.FrameCount)
	}
}

// Loaded reports whether a video is open.
func (s *Session) Loaded() bool {
	return s.video != nil
}

// Video returns the open video or nil.
func (s *Session) Video() *video.Info {
	return s.video
}

// Chapters exposes the chapter store.
func (s *Session) Chapters() *chapters.Store {
	return s.store
}

// PendingLabel is the suggested label for a prompted chapter.
func (s *Session) PendingLabel(prefix string) string {
	return s.store.AutoName(prefix)
}

// AddChapter adds label at the current playhead. An empty label is a no-op.
func (s *Session) AddChapter(label string) (bool, error) {
	if !s.Loaded() {
		return false, ErrNoVideo
	}
	return s.AddChapterAt(s.CurrentSeconds(), label)
}

// AddChapterAt adds label at seconds, used when the timestamp was captured
// before the label was prompted for.
func (s *Session) AddChapterAt(seconds float64, label string) (bool, error) {
	if !s.Loaded() {
		return false, ErrNoVideo
	}
	added := s.store.Add(seconds, label)
	if added {
		s.logger.Debug("chapter added", "seconds", seconds, "label", label)
	}
	return added, nil
}

// AddAutoChapter adds a chapter named from prefix and a running count at the
// current playhead and returns its label.
func (s *Session) AddAutoChapter(prefix string) (string, error) {
	if !s.Loaded() {
		return "", ErrNoVideo
	}
	label := s.store.AutoName(prefix)
	if _, err := s.AddChapter(label); err != nil {
		return "", err
	}
	return label, nil
}

// RenameChapter relabels the chapter at display index.
func (s *Session) RenameChapter(index int, label string) (bool, error) {
	return s.store.Rename(index, label)
}

// DeleteChapter removes the chapter at display index.
func (s *Session) DeleteChapter(index int) error {
	if err := s.store.Delete(index); err != nil {
		return err
	}
	s.logger.Debug("chapter deleted", "index", index)
	return nil
}

// SeekToChapter moves the playhead to the chapter at display index.
func (s *Session) SeekToChapter(index int) error {
	if !s.Loaded() {
		return ErrNoVideo
	}
	seconds, err := s.store.ResolveSeek(index)
	if err != nil {
		return err
	}
	s.Seek(float64(chapters.SecondsToFrame(seconds, s.video.FPS)))
	return nil
}

// DefaultExportPath returns the suggested export file for the open video, or
// "chapters.txt" when none is open.
func (s *Session) DefaultExportPath() string {
	if !s.Loaded() {
		return "chapters.txt"
	}
	return chapters.DefaultExportPath(s.video.Path)
}

// ExportChapters pauses playback and writes the chapters to path.
func (s *Session) ExportChapters(path string) error {
	if s.store.Len() == 0 {
		return chapters.ErrNoChapters
	}
	s.Pause()
	if err := s.store.Export(path); err != nil {
		return err
	}
	s.logger.Info("chapters exported", "path", path, "count", s.store.Len())
	return nil
}

// ImportChapters replaces every chapter with the contents of path. On error
// the existing chapters are kept.
func (s *Session) ImportChapters(path string) error {
	if err := s.store.Import(path); err != nil {
		s.logger.Warn("chapter import failed", "path", path, "error", err)
		return fmt.Errorf("failed to import chapters: %w", err)
	}
	s.logger.Info("chapters imported", "path", path, "count", s.store.Len())
	return nil
}

// Playing reports whether the playhead is advancing.
func (s *Session) Playing() bool {
	return s.playing
}

// TogglePlay flips between playing and paused and returns the new state.
func (s *Session) TogglePlay() bool {
	if !s.Loaded() {
		return false
	}
	s.playing = !s.playing
	if s.playing && s.atEnd() {
		s.frame = 0
	}
	return s.playing
}

// Pause stops the playhead.
func (s *Session) Pause() {
	s.playing = false
}

// Advance moves the playhead by elapsed wall time scaled by the current speed
// and reports whether playback is still running. Playback stops on the last
// frame.
func (s *Session) Advance(elapsed time.Duration) bool {
	if !s.Loaded() || !s.playing {
		return false
	}
	s.frame += elapsed.Seconds() * s.video.FPS * s.Speed()
	if s.atEnd() {
		s.frame = float64(s.video.FrameCount)
		s.playing = false
	}
	return s.playing
}

// Seek moves the playhead to frame, clamped to the video.
func (s *Session) Seek(frame float64) {
	if !s.Loaded() {
		return
	}
	if frame < 0 {
		frame = 0
	}
	if last := float64(s.video.FrameCount); frame > last {
		frame = last
	}
	s.frame = frame
}

// SeekBy moves the playhead by a signed number of seconds.
func (s *Session) SeekBy(seconds float64) {
	if !s.Loaded() {
		return
	}
	s.Seek(s.frame + seconds*s.video.FPS)
}

// Frame returns the current frame index.
func (s *Session) Frame() float64 {
	return s.frame
}

// CurrentSeconds returns the playhead position in seconds.
func (s *Session) CurrentSeconds() float64 {
	if !s.Loaded() {
		return 0
	}
	return chapters.FrameToSeconds(s.frame, s.video.FPS)
}

// TotalSeconds returns the video length derived from its frame count.
func (s *Session) TotalSeconds() float64 {
	if !s.Loaded() {
		return 0
	}
	return chapters.FrameToSeconds(float64(s.video.FrameCount), s.video.FPS)
}

// TimeLabel renders "HH:MM:SS / HH:MM:SS".
func (s *Session) TimeLabel() string {
	return chapters.FormatTime(s.CurrentSeconds()) + " / " + chapters.FormatTime(s.TotalSeconds())
}

// Progress returns the playhead position as a fraction of the video.
func (s *Session) Progress() float64 {
	if !s.Loaded() || s.video.FrameCount <= 0 {
		return 0
	}
	return s.frame / float64(s.video.FrameCount)
}

// Speed returns the current playback multiplier.
func (s *Session) Speed() float64 {
	return Speeds[s.speedIndex]
}

// SpeedLabel renders the multiplier as "2x" or "0.75x".
func (s *Session) SpeedLabel() string {
	return strconv.FormatFloat(s.Speed(), 'f', -1, 64) + "x"
}

// SpeedUp moves one step up the ladder and returns the new speed.
func (s *Session) SpeedUp() float64 {
	if s.speedIndex < len(Speeds)-1 {
		s.speedIndex++
	}
	return s.Speed()
}

// SpeedDown moves one step down the ladder and returns the new speed.
func (s *Session) SpeedDown() float64 {
	if s.speedIndex > 0 {
		s.speedIndex--
	}
	return s.Speed()
}

func (s *Session) atEnd() bool {
	return s.frame >= float64(s.video.FrameCount)
}
