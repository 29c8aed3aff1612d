package gate

import (
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/atikulmunna/sigma-input/internal/journal"
	"github.com/atikulmunna/sigma-input/internal/model"
)

// Options configures a Logger.
type Options struct {
	Appender journal.Appender
	Clock    func() time.Time
	Notify   func(model.Record) // called after every emitted record, written or not
	Logger   *slog.Logger
}

// Logger owns the modifier state and turns events into appended records.
// It is driven from a single goroutine; only Failures may be read concurrently.
type Logger struct {
	state    State
	appender journal.Appender
	clock    func() time.Time
	notify   func(model.Record)
	log      *slog.Logger
	failures atomic.Int64
}

// New builds a Logger in the initial (modifier up) state.
func New(opts Options) *Logger {
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return &Logger{
		appender: opts.Appender,
		clock:    clock,
		notify:   opts.Notify,
		log:      lg,
	}
}

// Handle processes one key event.
func (l *Logger) Handle(ev model.KeyEvent) {
	desc, emit := l.state.Observe(ev)
	if !emit {
		return
	}
	kind := model.KindKey
	if ev.Code == Modifier {
		kind = model.KindModifier
	}
	l.emit(model.Record{
		Kind:        kind,
		Key:         ev.Code.String(),
		Value:       ev.Value,
		Description: desc,
	})
}

// Note writes a record that is not tied to a key event.
func (l *Logger) Note(kind model.Kind, desc string) {
	l.emit(model.Record{Kind: kind, Description: desc})
}

// AltDown reports the current modifier state.
func (l *Logger) AltDown() bool {
	return l.state.AltDown()
}

// Failures returns how many records could not be written to the log.
func (l *Logger) Failures() int64 {
	return l.failures.Load()
}

// emit stamps and appends a record. Write failures drop the line and never
// interrupt monitoring.
func (l *Logger) emit(rec model.Record) {
	rec.Timestamp = l.clock()
	if l.appender != nil {
		if err := l.appender.Append(rec); err != nil {
			l.failures.Add(1)
			l.log.Warn("dropped log line", "error", err, "description", rec.Description)
		}
	}
	if l.notify != nil {
		l.notify(rec)
	}
}
