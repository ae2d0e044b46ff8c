package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/fakhrymubarak/weather-forecast/internal/app"
	"github.com/fakhrymubarak/weather-forecast/internal/middleware"
	"github.com/fakhrymubarak/weather-forecast/internal/scheduler"
)

var noSchedulerFlag bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the weather HTTP API",
	Long: `Serve the weather endpoints on server.port behind the rate limiter. Unless
--no-scheduler is given, weather for the configured location is refreshed and stored
every scheduler.interval.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return serve(ctx, a, !noSchedulerFlag)
}

func serve(ctx context.Context, a *app.App, withScheduler bool) error {
	rl := middleware.NewRateLimiterFromConfig()
	rl.StartCleanup(ctx)

	if withScheduler {
		// publishing never blocks, so nobody has to read the holder's streams
		holder := a.StateHolder()
		defer holder.Close()

		s := scheduler.NewFromConfig(holder)
		if err := s.Start(); err != nil {
			return err
		}
		defer s.Stop()
	}

	return app.Serve(ctx, app.NewServer(a.Handler(rl)))
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&noSchedulerFlag, "no-scheduler", false, "Do not refresh weather in the background")
}
