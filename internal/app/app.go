// Package app wires the weather components together from config.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/connectivity"
	"github.com/fakhrymubarak/weather-forecast/internal/handler"
	"github.com/fakhrymubarak/weather-forecast/internal/location"
	"github.com/fakhrymubarak/weather-forecast/internal/middleware"
	"github.com/fakhrymubarak/weather-forecast/internal/network"
	"github.com/fakhrymubarak/weather-forecast/internal/presentation"
	"github.com/fakhrymubarak/weather-forecast/internal/repository"
	"github.com/fakhrymubarak/weather-forecast/internal/storage"
	"github.com/fakhrymubarak/weather-forecast/internal/usecase"
)

type App struct {
	Store        storage.Store
	API          network.WeatherAPI
	Repository   repository.WeatherRepository
	UseCases     *usecase.UseCases
	Location     location.Source
	Connectivity connectivity.Provider
}

// Options overrides parts of the config-built graph. Zero fields fall back to config.
type Options struct {
	Location     location.Source
	Connectivity connectivity.Provider
	HTTPClient   *http.Client
}

func New(opts Options) (*App, error) {
	store, err := storage.OpenFromConfig()
	if err != nil {
		config.GetLogger().Errorw("Error opening weather store", "driver", config.GetStorageDriver(), "error", err)
		return nil, err
	}

	src := opts.Location
	if src == nil {
		static, err := location.NewSourceFromConfig()
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		src = static
	}

	conn := opts.Connectivity
	if conn == nil {
		conn = connectivity.NewDialProviderFromConfig()
	}

	api := network.NewClientFromConfig(opts.HTTPClient)
	repo := repository.NewWeatherRepository(api, store)

	return &App{
		Store:        store,
		API:          api,
		Repository:   repo,
		UseCases:     usecase.New(repo),
		Location:     src,
		Connectivity: conn,
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}

// StateHolder returns a new holder over the app's use cases.
func (a *App) StateHolder() *presentation.StateHolder {
	return presentation.NewStateHolder(a.UseCases, a.Location, a.Connectivity)
}

// Handler returns the HTTP routes behind the rate limiter.
func (a *App) Handler(rl *middleware.RateLimiter) http.Handler {
	mux := http.NewServeMux()
	var wrap func(http.Handler) http.Handler
	if rl != nil {
		wrap = rl.Middleware
	}
	handler.NewWeatherHandler(a.UseCases, a.Location).Routes(mux, wrap)
	return mux
}

// NewServer builds the HTTP server with the timeouts from server.*.
func NewServer(h http.Handler) *http.Server {
	return &http.Server{
		Addr:              net.JoinHostPort("", config.GetServerPort()),
		Handler:           h,
		ReadHeaderTimeout: config.GetServerTimeoutDuration("read_header_timeout", 15*time.Second),
		ReadTimeout:       config.GetServerTimeoutDuration("read_timeout", 15*time.Second),
		WriteTimeout:      config.GetServerTimeoutDuration("write_timeout", 10*time.Second),
		IdleTimeout:       config.GetServerTimeoutDuration("idle_timeout", 30*time.Second),
	}
}

// Serve runs srv until ctx is done, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server) error {
	serverErr := make(chan error, 1)
	go func() {
		config.GetLogger().Infow("Starting weather server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	config.GetLogger().Infow("Shutting down weather server")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-serverErr
}
