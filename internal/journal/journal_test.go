package journal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/atikulmunna/sigma-input/internal/model"
)

func TestFormatLine(t *testing.T) {
	ts := time.Date(2026, 2, 17, 12, 3, 4, 900_000_000, time.Local)
	got := FormatLine(model.Record{Timestamp: ts, Description: "key KEY_A got with value 1"})
	want := "2026-02-17 12:03:04  key KEY_A got with value 1"
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFileAppendsInOrder(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys.log")
	if err := os.WriteFile(path, []byte("existing\n"), 0644); err != nil {
		t.Fatal(err)
	}

	f := NewFile(path)
	ts := time.Date(2026, 2, 17, 12, 0, 0, 0, time.Local)
	for _, desc := range []string{"first", "second", "third"} {
		if err := f.Append(model.Record{Timestamp: ts, Description: desc}); err != nil {
			t.Fatalf("append %s: %v", desc, err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	want := []string{
		"existing",
		"2026-02-17 12:00:00  first",
		"2026-02-17 12:00:00  second",
		"2026-02-17 12:00:00  third",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestFileCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.log")
	if err := NewFile(path).Append(model.Record{Timestamp: time.Now(), Description: "x"}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected file to be created: %v", err)
	}
}

func TestFileUnwritablePath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "keys.log")
	err := NewFile(path).Append(model.Record{Timestamp: time.Now(), Description: "x"})
	if !errors.Is(err, ErrWrite) {
		t.Fatalf("expected ErrWrite, got %v", err)
	}
}

func TestControlCharactersStayOnOneLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.log")
	f := NewFile(path)
	ts := time.Date(2026, 2, 17, 12, 0, 0, 0, time.Local)
	desc := "Opened device: /tmp/evil\n2026-01-01 00:00:00  forged (x\r\ty)"
	if err := f.Append(model.Record{Timestamp: ts, Description: desc}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := `2026-02-17 12:00:00  Opened device: /tmp/evil\n2026-01-01 00:00:00  forged (x\r\ty)` + "\n"
	if string(data) != want {
		t.Errorf("expected %q, got %q", want, string(data))
	}
}
