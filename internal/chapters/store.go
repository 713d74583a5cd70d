// Package chapters keeps the list of named timestamp markers for a video and
// converts it to and from the "HH:MM:SS - label" text format.
package chapters

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNoChapters is returned when exporting an empty store.
	ErrNoChapters = errors.New("no chapters to export")

	// ErrIndexOutOfRange is returned for an index outside the display list.
	ErrIndexOutOfRange = errors.New("chapter index out of range")
)

// Chapter is a named marker at a playback timestamp.
type Chapter struct {
	Seconds float64 `json:"seconds"`
	Label   string  `json:"label"`
}

// String renders the chapter as a display/export line without the newline.
func (c Chapter) String() string {
	return FormatTime(c.Seconds) + separator + c.Label
}

// Store holds chapters sorted ascending by timestamp. Chapters sharing a
// timestamp keep the order they were added in, so the index of a rendered
// line is also its index for Rename, Delete and ResolveSeek.
type Store struct {
	chapters []Chapter
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of chapters.
func (s *Store) Len() int {
	return len(s.chapters)
}

// Chapters returns a copy of the chapters in display order.
func (s *Store) Chapters() []Chapter {
	out := make([]Chapter, len(s.chapters))
	copy(out, s.chapters)
	return out
}

// AutoName returns prefix followed by one more than the number of labels
// already starting with prefix.
//
//	AutoName("Chapter") // "Chapter1" on an empty store, then "Chapter2"
func (s *Store) AutoName(prefix string) string {
	count := 0
	for _, c := range s.chapters {
		if strings.HasPrefix(c.Label, prefix) {
			count++
		}
	}
	return fmt.Sprintf("%s%d", prefix, count+1)
}

// Add inserts a chapter and reports whether it was added. An empty label is
// ignored.
func (s *Store) Add(seconds float64, label string) bool {
	if label == "" {
		return false
	}
	if seconds < 0 {
		seconds = 0
	}

	i := sort.Search(len(s.chapters), func(i int) bool {
		return s.chapters[i].Seconds > seconds
	})
	s.chapters = append(s.chapters, Chapter{})
	copy(s.chapters[i+1:], s.chapters[i:])
	s.chapters[i] = Chapter{Seconds: seconds, Label: label}
	return true
}

// Rename replaces the label at index and reports whether anything changed.
// An empty label is ignored.
func (s *Store) Rename(index int, label string) (bool, error) {
	if err := s.check(index); err != nil {
		return false, err
	}
	if label == "" {
		return false, nil
	}
	s.chapters[index].Label = label
	return true, nil
}

// Delete removes the chapter at index.
func (s *Store) Delete(index int) error {
	if err := s.check(index); err != nil {
		return err
	}
	s.chapters = append(s.chapters[:index], s.chapters[index+1:]...)
	return nil
}

// ResolveSeek returns the timestamp of the chapter at index.
func (s *Store) ResolveSeek(index int) (float64, error) {
	if err := s.check(index); err != nil {
		return 0, err
	}
	return s.chapters[index].Seconds, nil
}

// Render returns one "HH:MM:SS - label" line per chapter in display order.
func (s *Store) Render() []string {
	lines := make([]string, len(s.chapters))
	for i, c := range s.chapters {
		lines[i] = c.String()
	}
	return lines
}

// Replace swaps the whole collection for chapters, sorting them stably by
// timestamp.
func (s *Store) Replace(chapters []Chapter) {
	sorted := make([]Chapter, len(chapters))
	copy(sorted, chapters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Seconds < sorted[j].Seconds
	})
	s.chapters = sorted
}

func (s *Store) check(index int) error {
	if index < 0 || index >= len(s.chapters) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.chapters))
	}
	return nil
}
