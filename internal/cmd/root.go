package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/atikulmunna/sigma-input/internal/logging"
	"github.com/atikulmunna/sigma-input/internal/monitor"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const binName = "sigma-input"

var cfgFile string

// rootCmd monitors one device when called with a device and a log path.
var rootCmd = &cobra.Command{
	Use:   binName + " <device> <logfile>",
	Short: "Record key events typed while Left Alt is held",
	Long: `sigma-input watches a single evdev input device and appends to a plain-text
log every Left Alt press, release and repeat, plus every other key event that
happens while Left Alt is held. It only observes: events still reach the
system unchanged.

Examples:
  sigma-input /dev/input/event3 ~/alt-keys.log
  sigma-input devices
  sigma-input tail ~/alt-keys.log`,
	Args:          exactArgs(2),
	RunE:          runMonitor,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with status 1 on any failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		report(os.Stderr, binName, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{reason: err.Error()}
	})

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default: $HOME/.sigma-input.yaml)")
	pf.StringP("output", "o", "text", "terminal output format: text, json")
	pf.String("log-level", "info", "diagnostic log level: debug, info, warn, error")
	pf.String("log-format", "text", "diagnostic log format: text, json")

	f := rootCmd.Flags()
	f.Duration("idle", monitor.DefaultIdle, "pause between device reads (0 disables)")
	f.Bool("echo", false, "also print every logged record to stdout")
	f.String("listen", "", "serve live stats and a record stream on this address (e.g. 127.0.0.1:7070)")
	f.Bool("watch-device", true, "stop as soon as the device node is removed")

	for _, name := range []string{"output", "log-level", "log-format"} {
		_ = viper.BindPFlag(name, pf.Lookup(name))
	}
	for _, name := range []string{"idle", "echo", "listen", "watch-device"} {
		_ = viper.BindPFlag(name, f.Lookup(name))
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".sigma-input")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("SIGMA_INPUT")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.ReadInConfig()
}

// exactArgs is cobra.ExactArgs with a usage-classified error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(_ *cobra.Command, args []string) error {
		if len(args) != n {
			return &usageError{reason: fmt.Sprintf("expected %d arguments, got %d", n, len(args))}
		}
		return nil
	}
}

func newLogger(cmd *cobra.Command) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  viper.GetString("log-level"),
		Format: viper.GetString("log-format"),
		Output: cmd.ErrOrStderr(),
	})
}
