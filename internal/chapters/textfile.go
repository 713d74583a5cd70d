package chapters

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

const (
	separator = " - "

	// ExportSuffix is appended to the video path (minus extension) to build
	// the default export filename.
	ExportSuffix = "_Chapters.txt"
)

// ParseError describes the first line of a chapter file that could not be
// parsed.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// DefaultExportPath derives the chapter filename for a video:
// "/videos/talk.mp4" becomes "/videos/talk_Chapters.txt".
func DefaultExportPath(videoPath string) string {
	return strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + ExportSuffix
}

// WriteTo writes every chapter as "HH:MM:SS - label\n" in display order.
func (s *Store) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, c := range s.chapters {
		n, err := io.WriteString(w, c.String()+"\n")
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// Export writes the store to path. Fails with ErrNoChapters when empty.
func (s *Store) Export(path string) error {
	if len(s.chapters) == 0 {
		return ErrNoChapters
	}

	var buf bytes.Buffer
	if _, err := s.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to render chapters: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write chapters file: %w", err)
	}

	return nil
}

// Parse reads chapter lines in file order. Blank lines are skipped; any other
// line must be "HH:MM:SS - label", split on the first separator.
func Parse(r io.Reader) ([]Chapter, error) {
	var chapters []Chapter

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		timeStr, label, ok := strings.Cut(line, separator)
		if !ok {
			return nil, &ParseError{Line: lineNo, Text: line, Err: fmt.Errorf("missing %q separator", separator)}
		}

		seconds, err := ParseTime(timeStr)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Text: line, Err: err}
		}

		chapters = append(chapters, Chapter{Seconds: float64(seconds), Label: label})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chapters: %w", err)
	}

	return chapters, nil
}

// Import replaces the store with the chapters in path. The store is only
// touched once the whole file has parsed.
func (s *Store) Import(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open chapters file: %w", err)
	}
	defer f.Close()

	parsed, err := Parse(f)
	if err != nil {
		return err
	}

	s.Replace(parsed)
	return nil
}
