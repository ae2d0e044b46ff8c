package usecase

import (
	"context"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/repository"
)

type FetchCurrentWeather struct {
	repo repository.WeatherRepository
}

func (u *FetchCurrentWeather) Execute(ctx context.Context, coords model.Coordinates) <-chan model.Resource[model.CurrentLocationWeather] {
	return withLoading(func() <-chan model.Resource[model.CurrentLocationWeather] {
		return u.repo.FetchCurrentWeather(ctx, coords.Lat, coords.Lon)
	})
}

// FetchWeatherForecast passes the provider's slots through untouched; grouping by day is
// left to presentation.
type FetchWeatherForecast struct {
	repo repository.WeatherRepository
}

func (u *FetchWeatherForecast) Execute(ctx context.Context, coords model.Coordinates) <-chan model.Resource[[]model.CurrentLocationWeather] {
	return withLoading(func() <-chan model.Resource[[]model.CurrentLocationWeather] {
		return u.repo.FetchWeatherForecast(ctx, coords.Lat, coords.Lon)
	})
}
