// Package journal appends keystroke records to a plain-text log file.
package journal

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/atikulmunna/sigma-input/internal/model"
)

// TimeLayout is the second-precision local timestamp that prefixes every line.
const TimeLayout = "2006-01-02 15:04:05"

// ErrWrite marks a line that could not be persisted.
var ErrWrite = errors.New("log write failed")

// Appender persists records in the order they are given.
type Appender interface {
	Append(rec model.Record) error
}

// File appends to a path, opening and closing the file for every line so a
// crash loses at most the write in flight.
type File struct {
	path string
}

// NewFile returns an appender for path. The file is created on first append.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the log file location.
func (f *File) Path() string {
	return f.path
}

// Append writes one formatted line.
func (f *File) Append(rec model.Record) error {
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	if _, err := fh.WriteString(FormatLine(rec) + "\n"); err != nil {
		fh.Close()
		return fmt.Errorf("%w: %s: %v", ErrWrite, f.path, err)
	}
	if err := fh.Close(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrWrite, f.path, err)
	}
	return nil
}

// FormatLine renders a record without the trailing newline. Control
// characters in the description are escaped so a record is always one line.
func FormatLine(rec model.Record) string {
	return rec.Timestamp.Local().Format(TimeLayout) + "  " + escapeControl(rec.Description)
}

func escapeControl(s string) string {
	if !strings.ContainsFunc(s, unicode.IsControl) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) {
			q := strconv.QuoteRune(r)
			b.WriteString(q[1 : len(q)-1])
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
