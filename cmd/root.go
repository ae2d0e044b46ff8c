package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	latFlag     float64
	lonFlag     float64
	offlineFlag bool
)

var rootCmd = &cobra.Command{
	Use:   "weather",
	Short: "Current weather and forecast for a location",
	Long: `weather fetches the current conditions and the forecast for a location from
OpenWeatherMap, keeps them in a local store for offline reads and shows them in the
terminal or over HTTP.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetRootCmd returns the root command for introspection purposes.
func GetRootCmd() *cobra.Command {
	return rootCmd
}

func init() {
	rootCmd.PersistentFlags().Float64Var(&latFlag, "lat", 0, "Latitude (defaults to location.latitude)")
	rootCmd.PersistentFlags().Float64Var(&lonFlag, "lon", 0, "Longitude (defaults to location.longitude)")
}
