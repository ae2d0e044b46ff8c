package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-forecast/internal/app"
	"github.com/fakhrymubarak/weather-forecast/internal/connectivity"
	"github.com/fakhrymubarak/weather-forecast/internal/location"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/presentation"
)

const noWeatherData = "No weather data"

// newApp builds the app, honouring --lat/--lon and, when offline is set, skipping the network.
func newApp(cmd *cobra.Command, offline bool) (*app.App, error) {
	var opts app.Options

	latSet, lonSet := cmd.Flags().Changed("lat"), cmd.Flags().Changed("lon")
	if latSet != lonSet {
		return nil, fmt.Errorf("--lat and --lon must be given together")
	}
	if latSet {
		src, err := location.NewStaticSource(latFlag, lonFlag)
		if err != nil {
			return nil, err
		}
		opts.Location = src
	}
	if offline {
		opts.Connectivity = connectivity.Static(false)
	}

	return app.New(opts)
}

// online reports whether the command should hit the provider.
func online(ctx context.Context, a *app.App) bool {
	return a.Connectivity.IsNetworkAvailable(ctx)
}

func printCurrent(w io.Writer, state presentation.CurrentWeatherState) {
	switch s := state.(type) {
	case presentation.CurrentSuccess:
		fmt.Fprintln(w, formatWeather(s.Weather))
	default:
		fmt.Fprintln(w, noWeatherData)
	}
}

func printForecast(w io.Writer, state presentation.ForecastState) {
	s, ok := state.(presentation.ForecastSuccess)
	if !ok {
		fmt.Fprintln(w, noWeatherData)
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, d := range presentation.DistinctByDay(s.Forecast) {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s / %s\n",
			d.DayOfTheWeek,
			presentation.ConvertKelvinToCelsius(d.Temp),
			d.WeatherTypeDescription,
			presentation.ConvertKelvinToCelsius(d.TempMin),
			presentation.ConvertKelvinToCelsius(d.TempMax))
	}
	_ = tw.Flush()
}

func printFavourites(w io.Writer, items []model.CurrentLocationWeather) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No favourites yet")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLAT\tLON\tTEMP\tCONDITIONS")
	for _, it := range items {
		fmt.Fprintf(tw, "%s\t%s\t%.4f\t%.4f\t%s\t%s\n",
			it.ID, it.Name, it.Coord.Lat, it.Coord.Lon,
			presentation.ConvertKelvinToCelsius(it.MainInfo.Temp),
			it.PrimaryWeather().Description)
	}
	_ = tw.Flush()
}

func formatWeather(w model.CurrentLocationWeather) string {
	name := w.Name
	if name == "" {
		name = fmt.Sprintf("%.4f, %.4f", w.Coord.Lat, w.Coord.Lon)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n", name, presentation.ConvertKelvinToCelsius(w.MainInfo.Temp), w.PrimaryWeather().Description)
	fmt.Fprintf(&b, "min %s  max %s",
		presentation.ConvertKelvinToCelsius(w.MainInfo.TempMin),
		presentation.ConvertKelvinToCelsius(w.MainInfo.TempMax))
	return b.String()
}
