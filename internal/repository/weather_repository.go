package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/mapper"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/network"
	"github.com/fakhrymubarak/weather-forecast/internal/storage"
)

var (
	ErrNoCurrentWeather = errors.New("no current weather stored")
)

// WeatherRepository combines the remote provider with the local store. Every read
// returns a channel that yields exactly one Success or Error resource and is then closed.
// Nothing is retried.
type WeatherRepository interface {
	FetchCurrentWeather(ctx context.Context, lat, lon float64) <-chan model.Resource[model.CurrentLocationWeather]
	FetchWeatherForecast(ctx context.Context, lat, lon float64) <-chan model.Resource[[]model.CurrentLocationWeather]
	GetCurrentWeather(ctx context.Context) <-chan model.Resource[model.CurrentLocationWeather]
	GetWeatherForecast(ctx context.Context) <-chan model.Resource[[]model.CurrentLocationWeather]
	GetFavourites(ctx context.Context) <-chan model.Resource[[]model.CurrentLocationWeather]
	InsertCurrentWeather(ctx context.Context, items []model.CurrentLocationWeather) error
	InsertWeatherForecast(ctx context.Context, items []model.CurrentLocationWeather) error
	InsertFavourites(ctx context.Context, items []model.CurrentLocationWeather) error
}

// weatherRepository implements WeatherRepository
type weatherRepository struct {
	api   network.WeatherAPI
	store storage.Store
}

func NewWeatherRepository(api network.WeatherAPI, store storage.Store) WeatherRepository {
	return &weatherRepository{
		api:   api,
		store: store,
	}
}

// single runs fn on its own goroutine and delivers its result as the only value of the stream.
func single[T any](fn func() model.Resource[T]) <-chan model.Resource[T] {
	ch := make(chan model.Resource[T], 1)
	go func() {
		defer close(ch)
		ch <- fn()
	}()
	return ch
}

func (r *weatherRepository) FetchCurrentWeather(ctx context.Context, lat, lon float64) <-chan model.Resource[model.CurrentLocationWeather] {
	return single(func() model.Resource[model.CurrentLocationWeather] {
		dto, err := r.api.FetchCurrentWeather(ctx, lat, lon)
		if err != nil {
			config.GetLogger().Errorw("Error fetching current weather", "lat", lat, "lon", lon, "error", err)
			return model.Error[model.CurrentLocationWeather](err.Error())
		}
		return model.Success(mapper.CurrentWeatherToDomain(*dto))
	})
}

func (r *weatherRepository) FetchWeatherForecast(ctx context.Context, lat, lon float64) <-chan model.Resource[[]model.CurrentLocationWeather] {
	return single(func() model.Resource[[]model.CurrentLocationWeather] {
		dto, err := r.api.FetchWeatherForecast(ctx, lat, lon)
		if err != nil {
			config.GetLogger().Errorw("Error fetching weather forecast", "lat", lat, "lon", lon, "error", err)
			return model.Error[[]model.CurrentLocationWeather](err.Error())
		}
		return model.Success(mapper.ForecastToDomain(*dto))
	})
}

func (r *weatherRepository) GetCurrentWeather(ctx context.Context) <-chan model.Resource[model.CurrentLocationWeather] {
	return single(func() model.Resource[model.CurrentLocationWeather] {
		rows, err := r.store.FindCurrentWeather(ctx)
		if err != nil {
			config.GetLogger().Errorw("Error reading current weather", "error", err)
			return model.Error[model.CurrentLocationWeather](err.Error())
		}
		if len(rows) == 0 {
			return model.Error[model.CurrentLocationWeather](ErrNoCurrentWeather.Error())
		}
		return model.Success(mapper.ToDomain(rows[0]))
	})
}

func (r *weatherRepository) GetWeatherForecast(ctx context.Context) <-chan model.Resource[[]model.CurrentLocationWeather] {
	return single(func() model.Resource[[]model.CurrentLocationWeather] {
		rows, err := r.store.WeatherForecast(ctx)
		if err != nil {
			config.GetLogger().Errorw("Error reading weather forecast", "error", err)
			return model.Error[[]model.CurrentLocationWeather](err.Error())
		}
		return model.Success(mapper.ToDomainList(rows))
	})
}

func (r *weatherRepository) GetFavourites(ctx context.Context) <-chan model.Resource[[]model.CurrentLocationWeather] {
	return single(func() model.Resource[[]model.CurrentLocationWeather] {
		rows, err := r.store.FindFavourites(ctx)
		if err != nil {
			config.GetLogger().Errorw("Error reading favourites", "error", err)
			return model.Error[[]model.CurrentLocationWeather](err.Error())
		}
		return model.Success(mapper.ToDomainList(rows))
	})
}

// InsertCurrentWeather stores items under the reserved current id. The last item wins.
func (r *weatherRepository) InsertCurrentWeather(ctx context.Context, items []model.CurrentLocationWeather) error {
	rows := mapper.ToLocalList(items)
	for i := range rows {
		rows[i].ID = model.CurrentWeatherID
	}
	if err := r.store.InsertCurrentWeather(ctx, rows); err != nil {
		config.GetLogger().Errorw("Error storing current weather", "count", len(rows), "error", err)
		return fmt.Errorf("insert current weather: %w", err)
	}
	return nil
}

func (r *weatherRepository) InsertWeatherForecast(ctx context.Context, items []model.CurrentLocationWeather) error {
	rows := mapper.ToLocalList(items)
	if err := r.store.InsertWeatherForecast(ctx, rows); err != nil {
		config.GetLogger().Errorw("Error storing weather forecast", "count", len(rows), "error", err)
		return fmt.Errorf("insert weather forecast: %w", err)
	}
	return nil
}

// InsertFavourites flags items as favourites. A record carrying the reserved current id
// gets a fresh id so it does not overwrite the current conditions.
func (r *weatherRepository) InsertFavourites(ctx context.Context, items []model.CurrentLocationWeather) error {
	rows := mapper.ToLocalList(items)
	for i := range rows {
		rows[i].IsFavourite = true
		if rows[i].IsCurrent() || rows[i].ID == "" {
			rows[i].ID = uuid.New().String()
		}
	}
	if err := r.store.InsertLocationToFavourites(ctx, rows); err != nil {
		config.GetLogger().Errorw("Error storing favourites", "count", len(rows), "error", err)
		return fmt.Errorf("insert favourites: %w", err)
	}
	return nil
}
