package cmd

import (
	"fmt"

	"github.com/atikulmunna/sigma-input/internal/device"
	"github.com/atikulmunna/sigma-input/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	devicePattern string
	sysRoot       string
)

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List input device nodes and their names",
	Long: `List evdev nodes with the names the kernel reports for them, to find the
device path to monitor. Names come from sysfs, so no device access is needed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		infos, err := device.List(devicePattern, sysRoot)
		if err != nil {
			return fmt.Errorf("list devices: %w", err)
		}
		return output.RenderDevices(cmd.OutOrStdout(), viper.GetString("output"), infos)
	},
}

func init() {
	devicesCmd.Flags().StringVar(&devicePattern, "pattern", device.DefaultPattern, "glob of device nodes to list")
	devicesCmd.Flags().StringVar(&sysRoot, "sys", device.DefaultSysRoot, "sysfs mount point")
	_ = devicesCmd.Flags().MarkHidden("sys")
	rootCmd.AddCommand(devicesCmd)
}
