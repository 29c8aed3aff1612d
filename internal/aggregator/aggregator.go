package aggregator

import (
	"context"
	"sync"
	"time"

	"github.com/atikulmunna/sigma-input/internal/model"
)

const rateWindow = 5 * time.Second

// Stats holds a point-in-time snapshot of aggregated metrics.
type Stats struct {
	Uptime        string               `json:"uptime"`
	Device        string               `json:"device"`
	TotalRecords  int64                `json:"total_records"`
	RPS           float64              `json:"rps"`
	KindCounts    map[model.Kind]int64 `json:"kind_counts"`
	ModifierHeld  bool                 `json:"modifier_held"`
	LastRecord    *model.Record        `json:"last_record,omitempty"`
	DroppedLive   int64                `json:"dropped_live"`
	WriteFailures int64                `json:"write_failures"`
}

// Aggregator consumes a hub subscription and keeps running counters.
type Aggregator struct {
	mu           sync.RWMutex
	startTime    time.Time
	device       string
	totalRecords int64
	kindCounts   map[model.Kind]int64
	modifierHeld bool
	last         *model.Record
	window       []time.Time // arrival times for the rate calculation
	dropped      func() int64
	failures     func() int64
	records      <-chan model.Record
}

// New creates an Aggregator reading records from a hub subscription.
// droppedFn and failuresFn provide live values from the Hub and the gated logger.
func New(records <-chan model.Record, device string, droppedFn, failuresFn func() int64) *Aggregator {
	return &Aggregator{
		startTime:  time.Now(),
		device:     device,
		kindCounts: make(map[model.Kind]int64),
		dropped:    droppedFn,
		failures:   failuresFn,
		records:    records,
	}
}

// Snapshot returns the current metrics.
func (a *Aggregator) Snapshot() Stats {
	a.mu.RLock()
	defer a.mu.RUnlock()

	counts := make(map[model.Kind]int64, len(a.kindCounts))
	for k, v := range a.kindCounts {
		counts[k] = v
	}

	cutoff := time.Now().Add(-rateWindow)
	var recent int
	for _, t := range a.window {
		if t.After(cutoff) {
			recent++
		}
	}

	var last *model.Record
	if a.last != nil {
		cp := *a.last
		last = &cp
	}

	return Stats{
		Uptime:        time.Since(a.startTime).Truncate(time.Second).String(),
		Device:        a.device,
		TotalRecords:  a.totalRecords,
		RPS:           float64(recent) / rateWindow.Seconds(),
		KindCounts:    counts,
		ModifierHeld:  a.modifierHeld,
		LastRecord:    last,
		DroppedLive:   callOrZero(a.dropped),
		WriteFailures: callOrZero(a.failures),
	}
}

// Start begins consuming records and updating metrics. Blocks until the
// context is cancelled or the subscription is closed.
func (a *Aggregator) Start(ctx context.Context) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case rec, ok := <-a.records:
			if !ok {
				return
			}
			a.record(rec)
		case <-ticker.C:
			a.prune()
		}
	}
}

// record adds a record to the metrics. The held flag mirrors the logged
// modifier events, which are never filtered.
func (a *Aggregator) record(rec model.Record) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalRecords++
	a.kindCounts[rec.Kind]++
	if rec.Kind == model.KindModifier {
		switch rec.Value {
		case model.Pressed:
			a.modifierHeld = true
		case model.Released:
			a.modifierHeld = false
		}
	}
	a.last = &rec
	a.window = append(a.window, time.Now())
}

// prune removes arrival times older than the rate window.
func (a *Aggregator) prune() {
	a.mu.Lock()
	defer a.mu.Unlock()

	cutoff := time.Now().Add(-rateWindow)
	i := 0
	for _, t := range a.window {
		if t.After(cutoff) {
			a.window[i] = t
			i++
		}
	}
	a.window = a.window[:i]
}

func callOrZero(fn func() int64) int64 {
	if fn == nil {
		return 0
	}
	return fn()
}
