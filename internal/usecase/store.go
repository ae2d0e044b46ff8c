package usecase

import (
	"context"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/repository"
)

// Store reads accept coordinates for a uniform call shape; the store holds a single
// location so they are not used.

type GetCurrentWeather struct {
	repo repository.WeatherRepository
}

func (u *GetCurrentWeather) Execute(ctx context.Context, _ model.Coordinates) <-chan model.Resource[model.CurrentLocationWeather] {
	return withLoading(func() <-chan model.Resource[model.CurrentLocationWeather] {
		return u.repo.GetCurrentWeather(ctx)
	})
}

type GetWeatherForecast struct {
	repo repository.WeatherRepository
}

func (u *GetWeatherForecast) Execute(ctx context.Context, _ model.Coordinates) <-chan model.Resource[[]model.CurrentLocationWeather] {
	return withLoading(func() <-chan model.Resource[[]model.CurrentLocationWeather] {
		return u.repo.GetWeatherForecast(ctx)
	})
}

type GetFavourites struct {
	repo repository.WeatherRepository
}

func (u *GetFavourites) Execute(ctx context.Context) <-chan model.Resource[[]model.CurrentLocationWeather] {
	return withLoading(func() <-chan model.Resource[[]model.CurrentLocationWeather] {
		return u.repo.GetFavourites(ctx)
	})
}
