// Package monitor drives the poll/dispatch loop between a device and the
// modifier-gated logger.
package monitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/atikulmunna/sigma-input/internal/device"
	"github.com/atikulmunna/sigma-input/internal/model"
)

// DefaultIdle is the pause between batches.
const DefaultIdle = time.Millisecond

// Source yields batches of raw driver events.
type Source interface {
	Poll(ctx context.Context) ([]device.RawEvent, error)
}

// Handler consumes key events in order.
type Handler interface {
	Handle(ev model.KeyEvent)
}

// Options configures a Monitor.
type Options struct {
	Source  Source
	Handler Handler
	Idle    time.Duration // negative disables the pause
	Logger  *slog.Logger
}

// Monitor runs the loop on the calling goroutine.
type Monitor struct {
	source  Source
	handler Handler
	idle    time.Duration
	log     *slog.Logger

	batches int64
	events  int64
}

// New constructs a Monitor.
func New(opts Options) *Monitor {
	idle := opts.Idle
	if idle == 0 {
		idle = DefaultIdle
	}
	lg := opts.Logger
	if lg == nil {
		lg = slog.Default()
	}
	return &Monitor{
		source:  opts.Source,
		handler: opts.Handler,
		idle:    idle,
		log:     lg,
	}
}

// Run polls until the source fails or ctx is cancelled. It always returns a
// non-nil error: the read failure, or the cancellation cause.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		batch, err := m.source.Poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return context.Cause(ctx)
			}
			return err
		}
		m.batches++

		for _, raw := range batch {
			ev, ok := raw.KeyEvent()
			if !ok {
				continue
			}
			m.events++
			m.handler.Handle(ev)
		}

		if m.idle > 0 {
			select {
			case <-ctx.Done():
				return context.Cause(ctx)
			case <-time.After(m.idle):
			}
		}
	}
}

// Counts returns the number of batches and key events processed so far.
// Only call it after Run has returned.
func (m *Monitor) Counts() (batches, events int64) {
	return m.batches, m.events
}
