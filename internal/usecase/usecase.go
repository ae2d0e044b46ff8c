// Package usecase wraps each repository operation behind one invocation contract: the
// returned stream first yields Loading, then forwards the repository's terminal resource.
package usecase

import (
	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/repository"
)

// UseCases bundles one use case per repository operation.
type UseCases struct {
	FetchCurrentWeather   *FetchCurrentWeather
	FetchWeatherForecast  *FetchWeatherForecast
	GetCurrentWeather     *GetCurrentWeather
	GetWeatherForecast    *GetWeatherForecast
	GetFavourites         *GetFavourites
	InsertCurrentWeather  *InsertCurrentWeather
	InsertWeatherForecast *InsertWeatherForecast
	InsertFavourites      *InsertFavourites
}

func New(repo repository.WeatherRepository) *UseCases {
	return &UseCases{
		FetchCurrentWeather:   &FetchCurrentWeather{repo: repo},
		FetchWeatherForecast:  &FetchWeatherForecast{repo: repo},
		GetCurrentWeather:     &GetCurrentWeather{repo: repo},
		GetWeatherForecast:    &GetWeatherForecast{repo: repo},
		GetFavourites:         &GetFavourites{repo: repo},
		InsertCurrentWeather:  &InsertCurrentWeather{repo: repo},
		InsertWeatherForecast: &InsertWeatherForecast{repo: repo},
		InsertFavourites:      &InsertFavourites{repo: repo},
	}
}

// withLoading pushes Loading, then runs call and forwards what it emits.
func withLoading[T any](call func() <-chan model.Resource[T]) <-chan model.Resource[T] {
	out := make(chan model.Resource[T], 2)
	out <- model.Loading[T]()
	go func() {
		defer close(out)
		for r := range call() {
			out <- r
		}
	}()
	return out
}

// Last drains a stream and returns its final resource.
func Last[T any](ch <-chan model.Resource[T]) model.Resource[T] {
	var last model.Resource[T]
	for r := range ch {
		last = r
	}
	return last
}
