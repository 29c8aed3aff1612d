package tailer

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/atikulmunna/sigma-input/internal/model"
	"github.com/atikulmunna/sigma-input/internal/watcher"
	"github.com/fsnotify/fsnotify"
)

// Tailer follows keystroke logs and emits newly appended lines. The monitor
// only ever appends, so reading concurrently needs no coordination.
type Tailer struct {
	mu        sync.Mutex
	files     map[string]*trackedFile
	out       chan model.RawLine
	events    <-chan watcher.Event
	watch     *watcher.Watcher
	fromStart bool
	log       *slog.Logger
}

type trackedFile struct {
	path   string
	file   *os.File
	reader *bufio.Reader
	buf    string // partial line carried to the next read
}

// Options configures a Tailer.
type Options struct {
	FromStart bool // emit existing content before following
	Logger    *slog.Logger
}

// New creates a Tailer that reads events from the given Watcher.
func New(w *watcher.Watcher, opts Options) *Tailer {
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return &Tailer{
		files:     make(map[string]*trackedFile),
		out:       make(chan model.RawLine, 512),
		events:    w.Events,
		watch:     w,
		fromStart: opts.FromStart,
		log:       lg,
	}
}

// Lines returns the channel where raw log lines are sent.
func (t *Tailer) Lines() <-chan model.RawLine {
	return t.out
}

// Start begins processing watcher events. Blocks until context is cancelled.
func (t *Tailer) Start(ctx context.Context) {
	defer close(t.out)

	for _, p := range t.watch.Paths() {
		t.openFile(p, t.fromStart)
		t.readNewLines(ctx, p)
	}

	for {
		select {
		case <-ctx.Done():
			t.closeAll()
			return

		case ev, ok := <-t.events:
			if !ok {
				t.closeAll()
				return
			}
			t.handleEvent(ctx, ev)
		}
	}
}

// handleEvent dispatches watcher events to the appropriate handler.
func (t *Tailer) handleEvent(ctx context.Context, ev watcher.Event) {
	switch {
	case ev.Op&fsnotify.Write != 0:
		t.readNewLines(ctx, ev.Path)

	case ev.Op&fsnotify.Create != 0:
		// A recreated log starts empty; read it from the top.
		t.openFile(ev.Path, true)
		t.readNewLines(ctx, ev.Path)

	case ev.Gone():
		t.closeFile(ev.Path)
		go t.reconnect(ctx, ev.Path)
	}
}

// openFile opens a file for tailing, either at its start or its end.
func (t *Tailer) openFile(path string, fromStart bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.files[path]; exists {
		return
	}

	f, err := os.Open(path)
	if err != nil {
		t.log.Warn("cannot open log", "path", path, "error", err)
		return
	}
	if !fromStart {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			t.log.Warn("cannot seek log", "path", path, "error", err)
		}
	}

	t.files[path] = &trackedFile{
		path:   path,
		file:   f,
		reader: bufio.NewReader(f),
	}
}

// readNewLines reads to EOF and emits complete lines; a trailing fragment is
// held until its newline arrives.
func (t *Tailer) readNewLines(ctx context.Context, path string) {
	t.mu.Lock()
	tf, ok := t.files[path]
	t.mu.Unlock()
	if !ok {
		return
	}

	for {
		chunk, err := tf.reader.ReadString('\n')
		if err != nil {
			tf.buf += chunk
			if !errors.Is(err, io.EOF) {
				t.log.Warn("read error", "path", path, "error", err)
			}
			return
		}
		line := strings.TrimRight(tf.buf+chunk, "\r\n")
		tf.buf = ""

		select {
		case t.out <- model.RawLine{Text: line, Source: path}:
		case <-ctx.Done():
			return
		}
	}
}

// closeFile releases a tracked file.
func (t *Tailer) closeFile(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if tf, ok := t.files[path]; ok {
		tf.file.Close()
		delete(t.files, path)
	}
}

// reconnect polls for a file to reappear after rotation (up to 5 retries).
func (t *Tailer) reconnect(ctx context.Context, path string) {
	for i := 0; i < 5; i++ {
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
		if _, err := os.Stat(path); err == nil {
			t.log.Info("reconnected to rotated log", "path", path)
			_ = t.watch.ReWatch(path)
			t.openFile(path, true)
			return
		}
	}
	t.log.Warn("gave up reconnecting", "path", path, "retries", 5)
}

// closeAll closes all tracked file handles.
func (t *Tailer) closeAll() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for path, tf := range t.files {
		tf.file.Close()
		delete(t.files, path)
	}
}
