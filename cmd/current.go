package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/presentation"
	"github.com/fakhrymubarak/weather-forecast/internal/usecase"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the current weather",
	Long: `Fetch the current weather for the location and store it. When the network is
unreachable, or with --offline, the last stored conditions are shown instead.`,
	RunE: runCurrent,
}

func runCurrent(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, offlineFlag)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var res model.Resource[model.CurrentLocationWeather]
	if online(ctx, a) {
		coords, err := a.Location.Coordinates(ctx)
		if err != nil {
			return err
		}
		res = usecase.Last(a.UseCases.FetchCurrentWeather.Execute(ctx, coords))
		if res.Status == model.StatusSuccess {
			saved := usecase.Last(a.UseCases.InsertCurrentWeather.Execute(ctx, []model.CurrentLocationWeather{res.Data}))
			if saved.Status == model.StatusError {
				config.GetLogger().Errorw("Error storing current weather", "error", saved.Message)
			}
		}
	} else {
		res = usecase.Last(a.UseCases.GetCurrentWeather.Execute(ctx, model.Coordinates{}))
	}

	printCurrent(cmd.OutOrStdout(), presentation.CurrentStateOf(res))
	return nil
}

func init() {
	rootCmd.AddCommand(currentCmd)
	currentCmd.Flags().BoolVar(&offlineFlag, "offline", false, "Read the stored weather without calling the provider")
}
