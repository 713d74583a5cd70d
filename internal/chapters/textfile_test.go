package chapters

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultExportPath(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/videos/talk.mp4", "/videos/talk_Chapters.txt"},
		{"clip.final.mkv", "clip.final_Chapters.txt"},
		{"noext", "noext_Chapters.txt"},
	}

	for _, tt := range tests {
		if got := DefaultExportPath(tt.input); got != tt.expected {
			t.Errorf("DefaultExportPath(%q) = %q; want %q", tt.input, got, tt.expected)
		}
	}
}

func TestExport_Single(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	s := NewStore()
	s.Add(65, "Intro")
	if err := s.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read export: %v", err)
	}
	if string(data) != "00:01:05 - Intro\n" {
		t.Errorf("export content = %q", string(data))
	}

	imported := NewStore()
	if err := imported.Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	want := []Chapter{{Seconds: 65, Label: "Intro"}}
	if got := imported.Chapters(); !reflect.DeepEqual(got, want) {
		t.Errorf("imported = %v; want %v", got, want)
	}
}

func TestExport_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	err := NewStore().Export(path)
	if !errors.Is(err, ErrNoChapters) {
		t.Fatalf("Export error = %v; want ErrNoChapters", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Export of an empty store should not create a file")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "round.txt")

	s := NewStore()
	s.Add(3725.8, "Part - two")
	s.Add(0, "Start")
	s.Add(61.2, "Chapter1")
	if err := s.Export(path); err != nil {
		t.Fatalf("Export failed: %v", err)
	}

	imported := NewStore()
	if err := imported.Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	want := []Chapter{
		{Seconds: 0, Label: "Start"},
		{Seconds: 61, Label: "Chapter1"},
		{Seconds: 3725, Label: "Part - two"},
	}
	if got := imported.Chapters(); !reflect.DeepEqual(got, want) {
		t.Errorf("imported = %v; want %v", got, want)
	}
}

func TestParse(t *testing.T) {
	input := "00:00:10 - Intro\r\n\n01:00:00 - Credits - roll\n  00:00:05 - Cold open  \n"

	got, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	// File order is preserved; sorting is the store's job.
	want := []Chapter{
		{Seconds: 10, Label: "Intro"},
		{Seconds: 3600, Label: "Credits - roll"},
		{Seconds: 5, Label: "Cold open"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Parse() = %v; want %v", got, want)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		line int
		body string
	}{
		{"Missing separator", 1, "00:00:10 Intro\n"},
		{"Non numeric time", 2, "00:00:01 - ok\nbad - line - label\n"},
		{"Two time fields", 1, "00:10 - Intro\n"},
		{"Fractional seconds", 3, "00:00:01 - a\n00:00:02 - b\n00:00:03.5 - c\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.body))
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}
			if parseErr.Line != tt.line {
				t.Errorf("ParseError.Line = %d; want %d", parseErr.Line, tt.line)
			}
		})
	}
}

func TestImport_FailureLeavesStoreUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.txt")
	body := "00:00:01 - Good\nbad - line - label\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	s := NewStore()
	s.Add(42, "Existing")

	if err := s.Import(path); err == nil {
		t.Fatal("Import of a malformed file should fail")
	}

	want := []Chapter{{Seconds: 42, Label: "Existing"}}
	if got := s.Chapters(); !reflect.DeepEqual(got, want) {
		t.Errorf("store after failed import = %v; want %v", got, want)
	}
}

func TestImport_MissingFile(t *testing.T) {
	s := NewStore()
	if err := s.Import(filepath.Join(t.TempDir(), "nope.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestImport_EmptyFileClearsStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	s := NewStore()
	s.Add(1, "A")
	if err := s.Import(path); err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if s.Len() != 0 {
		t.Errorf("expected empty store, got %d chapters", s.Len())
	}
}
