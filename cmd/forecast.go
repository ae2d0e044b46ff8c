package cmd

import (
	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/presentation"
	"github.com/fakhrymubarak/weather-forecast/internal/usecase"
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Show the forecast, one line per day",
	RunE:  runForecast,
}

func runForecast(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, offlineFlag)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	var res model.Resource[[]model.CurrentLocationWeather]
	if online(ctx, a) {
		coords, err := a.Location.Coordinates(ctx)
		if err != nil {
			return err
		}
		res = usecase.Last(a.UseCases.FetchWeatherForecast.Execute(ctx, coords))
		if res.Status == model.StatusSuccess && len(res.Data) > 0 {
			saved := usecase.Last(a.UseCases.InsertWeatherForecast.Execute(ctx, res.Data))
			if saved.Status == model.StatusError {
				config.GetLogger().Errorw("Error storing weather forecast", "error", saved.Message)
			}
		}
	} else {
		res = usecase.Last(a.UseCases.GetWeatherForecast.Execute(ctx, model.Coordinates{}))
	}

	printForecast(cmd.OutOrStdout(), presentation.ForecastStateOf(res))
	return nil
}

func init() {
	rootCmd.AddCommand(forecastCmd)
	forecastCmd.Flags().BoolVar(&offlineFlag, "offline", false, "Read the stored forecast without calling the provider")
}
