package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/usecase"
)

var favouriteCmd = &cobra.Command{
	Use:     "favourite",
	Aliases: []string{"fav"},
	Short:   "Manage favourite locations",
}

var favouriteAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Fetch the current weather for the location and save it as a favourite",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		coords, err := a.Location.Coordinates(ctx)
		if err != nil {
			return err
		}
		res := usecase.Last(a.UseCases.FetchCurrentWeather.Execute(ctx, coords))
		if res.Status != model.StatusSuccess {
			return fmt.Errorf("fetch current weather: %s", res.Message)
		}

		saved := usecase.Last(a.UseCases.InsertFavourites.Execute(ctx, []model.CurrentLocationWeather{res.Data}))
		if saved.Status != model.StatusSuccess {
			return errors.New(saved.Message)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s to favourites\n", formatName(res.Data))
		return nil
	},
}

var favouriteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favourite locations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd, true)
		if err != nil {
			return err
		}
		defer a.Close()

		res := usecase.Last(a.UseCases.GetFavourites.Execute(cmd.Context()))
		if res.Status != model.StatusSuccess {
			return errors.New(res.Message)
		}
		printFavourites(cmd.OutOrStdout(), res.Data)
		return nil
	},
}

func formatName(w model.CurrentLocationWeather) string {
	if w.Name != "" {
		return w.Name
	}
	return fmt.Sprintf("%.4f, %.4f", w.Coord.Lat, w.Coord.Lon)
}

func init() {
	rootCmd.AddCommand(favouriteCmd)
	favouriteCmd.AddCommand(favouriteAddCmd)
	favouriteCmd.AddCommand(favouriteListCmd)
}
