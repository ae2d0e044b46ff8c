// Package storage persists weather rows. One table holds current conditions under the
// reserved id, forecast slots, and favourites flagged with IsFavourite.
package storage

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/redis"
)

const (
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
	DriverBolt   = "bolt"
)

var ErrUnknownDriver = errors.New("unknown storage driver")

// Store is the local weather store. Inserts are upserts keyed on ID; reads of an empty
// store return an empty slice and no error.
type Store interface {
	InsertCurrentWeather(ctx context.Context, rows []model.LocationWeatherEntity) error
	InsertWeatherForecast(ctx context.Context, rows []model.LocationWeatherEntity) error
	InsertLocationToFavourites(ctx context.Context, rows []model.LocationWeatherEntity) error
	FindCurrentWeather(ctx context.Context) ([]model.LocationWeatherEntity, error)
	WeatherForecast(ctx context.Context) ([]model.LocationWeatherEntity, error)
	FindFavourites(ctx context.Context) ([]model.LocationWeatherEntity, error)
	Close() error
}

// Open returns the backend named by driver. path is ignored by the redis backend.
func Open(driver, path string) (Store, error) {
	switch driver {
	case DriverSQLite:
		return NewSQLiteStore(path)
	case DriverBolt:
		return NewBoltStore(path)
	case DriverRedis:
		return NewRedisStore(redis.GetClient(), config.GetCacheTTL(), redis.Close), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
}

// OpenFromConfig opens the backend selected by storage.driver.
func OpenFromConfig() (Store, error) {
	return Open(config.GetStorageDriver(), config.GetStoragePath())
}

func isForecast(e model.LocationWeatherEntity) bool {
	return !e.IsCurrent() && !e.IsFavourite
}

func filterRows(rows []model.LocationWeatherEntity, keep func(model.LocationWeatherEntity) bool) []model.LocationWeatherEntity {
	out := make([]model.LocationWeatherEntity, 0, len(rows))
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// sortForecast orders rows by forecast time, then id. Rows without a time come first.
func sortForecast(rows []model.LocationWeatherEntity) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := forecastKey(rows[i]), forecastKey(rows[j])
		if a != b {
			return a < b
		}
		return rows[i].ID < rows[j].ID
	})
}

func sortByID(rows []model.LocationWeatherEntity) {
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].ID < rows[j].ID })
}

func forecastKey(e model.LocationWeatherEntity) string {
	if e.TimeForecast == nil {
		return ""
	}
	return *e.TimeForecast
}
