package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/atikulmunna/sigma-input/internal/model"
)

func TestRateCalculation(t *testing.T) {
	ch := make(chan model.Record, 100)
	agg := New(ch, "kbd", func() int64 { return 0 }, func() int64 { return 0 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Start(ctx)

	// Send 10 records quickly.
	for i := 0; i < 10; i++ {
		ch <- model.Record{Kind: model.KindKey, Key: "KEY_A"}
	}

	// Wait for processing.
	time.Sleep(200 * time.Millisecond)

	stats := agg.Snapshot()
	if stats.TotalRecords != 10 {
		t.Errorf("expected 10 total records, got %d", stats.TotalRecords)
	}
	if stats.RPS <= 0 {
		t.Errorf("expected positive RPS, got %f", stats.RPS)
	}
	if stats.Device != "kbd" {
		t.Errorf("expected device kbd, got %q", stats.Device)
	}

	cancel()
}

func TestKindCountsAndModifierState(t *testing.T) {
	ch := make(chan model.Record, 100)
	agg := New(ch, "kbd", func() int64 { return 3 }, func() int64 { return 1 })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go agg.Start(ctx)

	ch <- model.Record{Kind: model.KindDevice}
	ch <- model.Record{Kind: model.KindModifier, Value: model.Pressed}
	ch <- model.Record{Kind: model.KindKey, Key: "KEY_A", Value: model.Pressed}
	ch <- model.Record{Kind: model.KindModifier, Value: model.Repeated}

	time.Sleep(200 * time.Millisecond)

	stats := agg.Snapshot()
	if stats.KindCounts[model.KindModifier] != 2 {
		t.Errorf("expected 2 modifier records, got %d", stats.KindCounts[model.KindModifier])
	}
	if stats.KindCounts[model.KindKey] != 1 {
		t.Errorf("expected 1 key record, got %d", stats.KindCounts[model.KindKey])
	}
	if !stats.ModifierHeld {
		t.Error("expected modifier to be reported held after press and repeat")
	}
	if stats.LastRecord == nil || stats.LastRecord.Value != model.Repeated {
		t.Errorf("unexpected last record %+v", stats.LastRecord)
	}
	if stats.DroppedLive != 3 || stats.WriteFailures != 1 {
		t.Errorf("expected dropped=3 failures=1, got %d/%d", stats.DroppedLive, stats.WriteFailures)
	}

	ch <- model.Record{Kind: model.KindModifier, Value: model.Released}
	time.Sleep(200 * time.Millisecond)
	if agg.Snapshot().ModifierHeld {
		t.Error("expected modifier released")
	}

	cancel()
}
