package usecase

import (
	"context"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/repository"
)

// insert turns a repository write into a stream whose Success carries the number of records written.
func insert(ctx context.Context, items []model.CurrentLocationWeather,
	write func(context.Context, []model.CurrentLocationWeather) error) <-chan model.Resource[int] {
	return withLoading(func() <-chan model.Resource[int] {
		ch := make(chan model.Resource[int], 1)
		go func() {
			defer close(ch)
			if err := write(ctx, items); err != nil {
				ch <- model.Error[int](err.Error())
				return
			}
			ch <- model.Success(len(items))
		}()
		return ch
	})
}

type InsertCurrentWeather struct {
	repo repository.WeatherRepository
}

func (u *InsertCurrentWeather) Execute(ctx context.Context, items []model.CurrentLocationWeather) <-chan model.Resource[int] {
	return insert(ctx, items, u.repo.InsertCurrentWeather)
}

type InsertWeatherForecast struct {
	repo repository.WeatherRepository
}

func (u *InsertWeatherForecast) Execute(ctx context.Context, items []model.CurrentLocationWeather) <-chan model.Resource[int] {
	return insert(ctx, items, u.repo.InsertWeatherForecast)
}

type InsertFavourites struct {
	repo repository.WeatherRepository
}

func (u *InsertFavourites) Execute(ctx context.Context, items []model.CurrentLocationWeather) <-chan model.Resource[int] {
	return insert(ctx, items, u.repo.InsertFavourites)
}
