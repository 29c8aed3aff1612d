package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/atikulmunna/sigma-input/internal/output"
	"github.com/atikulmunna/sigma-input/internal/parser"
	"github.com/atikulmunna/sigma-input/internal/tailer"
	"github.com/atikulmunna/sigma-input/internal/watcher"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var fromStart bool

var tailCmd = &cobra.Command{
	Use:   "tail <logfile>...",
	Short: "Follow keystroke logs as they are written",
	Long: `Follow one or more keystroke logs (or glob patterns) and print new records
as the monitor appends them. Supports colorized output and JSON mode.

Examples:
  sigma-input tail ~/alt-keys.log
  sigma-input tail "/var/log/sigma/**/*.log" --output json
  sigma-input tail ~/alt-keys.log --from-start`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTail,
}

func init() {
	tailCmd.Flags().BoolVar(&fromStart, "from-start", false, "print existing records before following")
	rootCmd.AddCommand(tailCmd)
}

func runTail(cmd *cobra.Command, args []string) error {
	logger, err := newLogger(cmd)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	renderer, err := output.New(viper.GetString("output"), cmd.OutOrStdout())
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	// --- Set up context with graceful shutdown ---
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			cancel()
		case <-ctx.Done():
		}
	}()

	// --- Initialize watcher ---
	w, err := watcher.New(args, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	watched := w.Paths()
	if len(watched) == 0 {
		return fmt.Errorf("no files matched the given patterns: %v", args)
	}
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "Following %d log(s):\n", len(watched))
	for _, p := range watched {
		fmt.Fprintf(stderr, "   • %s\n", p)
	}
	fmt.Fprintln(stderr)

	t := tailer.New(w, tailer.Options{FromStart: fromStart, Logger: logger})
	p := parser.NewLineParser()

	// --- Start pipeline ---
	go w.Start(ctx)
	go t.Start(ctx)

	for raw := range t.Lines() {
		if err := renderer.Render(p.Parse(raw.Text, raw.Source)); err != nil {
			logger.Warn("render error", "error", err)
		}
	}
	return nil
}
