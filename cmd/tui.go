package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-forecast/internal/ui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Show current weather and forecast in an interactive view",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		holder := a.StateHolder()
		defer holder.Close()

		return ui.Run(holder)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
