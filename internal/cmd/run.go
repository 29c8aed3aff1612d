package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/atikulmunna/sigma-input/internal/aggregator"
	"github.com/atikulmunna/sigma-input/internal/device"
	"github.com/atikulmunna/sigma-input/internal/gate"
	"github.com/atikulmunna/sigma-input/internal/hub"
	"github.com/atikulmunna/sigma-input/internal/journal"
	"github.com/atikulmunna/sigma-input/internal/model"
	"github.com/atikulmunna/sigma-input/internal/monitor"
	"github.com/atikulmunna/sigma-input/internal/output"
	"github.com/atikulmunna/sigma-input/internal/server"
	"github.com/atikulmunna/sigma-input/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func runMonitor(cmd *cobra.Command, args []string) error {
	devPath, logPath := args[0], args[1]

	logger, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	var renderer output.Renderer
	if viper.GetBool("echo") {
		if renderer, err = output.New(viper.GetString("output"), cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
	}

	// --- Open the device ---
	if _, err := os.Stat(devPath); err != nil {
		return &missingError{path: devPath}
	}
	dev, err := device.Open(devPath)
	if err != nil {
		return openFailure(devPath, err)
	}
	defer dev.Close()

	// --- Set up context with graceful shutdown ---
	ctx, cancel := context.WithCancelCause(context.Background())
	defer cancel(nil)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("shutting down", "signal", sig.String())
			cancel(context.Canceled)
		case <-ctx.Done():
		}
	}()

	// --- Wire the pipeline ---
	h := hub.New(logger)
	defer h.Close()

	gated := gate.New(gate.Options{
		Appender: journal.NewFile(logPath),
		Logger:   logger,
		Notify: func(rec model.Record) {
			h.Publish(rec)
			if renderer != nil {
				if err := renderer.Render(rec); err != nil {
					logger.Debug("render failed", "error", err)
				}
			}
		},
	})

	agg := aggregator.New(h.Subscribe(), dev.Name(), h.Dropped, gated.Failures)
	go agg.Start(ctx)

	if addr := viper.GetString("listen"); addr != "" {
		srv := server.New(h, agg, addr, logger)
		go func() {
			if err := srv.Start(ctx); err != nil {
				logger.Error("stats server stopped", "addr", addr, "error", err)
			}
		}()
		logger.Info("stats server listening", "addr", addr)
	}

	if viper.GetBool("watch-device") {
		watchDevice(ctx, cancel, devPath, logger)
	}

	gated.Note(model.KindDevice, fmt.Sprintf("Opened device: %s (%s)", devPath, dev.Name()))
	logger.Info("monitoring device", "device", devPath, "name", dev.Name(), "log", logPath)

	// --- Run until the device fails or we are told to stop ---
	idle := viper.GetDuration("idle")
	if idle <= 0 {
		idle = -1
	}
	m := monitor.New(monitor.Options{Source: dev, Handler: gated, Idle: idle, Logger: logger})
	runErr := m.Run(ctx)

	batches, events := m.Counts()
	stats := agg.Snapshot()
	logger.Info("monitor stopped",
		"batches", batches,
		"key_events", events,
		"records", stats.TotalRecords,
		"write_failures", gated.Failures(),
		"dropped_live", h.Dropped(),
	)

	return monitorOutcome(runErr)
}

// monitorOutcome maps the reason monitoring stopped to the command result:
// an external stop is a clean exit, anything else is fatal.
func monitorOutcome(runErr error) error {
	if runErr == nil || errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

// watchDevice cancels ctx with a read error once the device node disappears.
// Reads on a vanished device fail too; the watcher only makes it prompt.
func watchDevice(ctx context.Context, cancel context.CancelCauseFunc, path string, logger *slog.Logger) {
	w, err := watcher.New(nil, logger)
	if err != nil {
		logger.Warn("device watch unavailable", "error", err)
		return
	}
	node, err := w.AddNode(path)
	if err != nil {
		logger.Warn("device watch unavailable", "device", path, "error", err)
	}
	go w.Start(ctx)
	go func() {
		for ev := range w.Events {
			if ev.Path == node && ev.Gone() {
				cancel(fmt.Errorf("%w: %s was removed", device.ErrRead, path))
				return
			}
		}
	}()
}
