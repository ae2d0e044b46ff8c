// Package location supplies the coordinates weather is fetched for.
package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
)

var validate = validator.New()

var ErrInvalidCoordinates = errors.New("invalid coordinates")

type Source interface {
	Coordinates(ctx context.Context) (model.Coordinates, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (model.Coordinates, error)

func (f SourceFunc) Coordinates(ctx context.Context) (model.Coordinates, error) {
	return f(ctx)
}

// StaticSource always reports the same location.
type StaticSource struct {
	coords model.Coordinates
}

func NewStaticSource(lat, lon float64) (*StaticSource, error) {
	c := model.Coordinates{Lat: lat, Lon: lon}
	if err := Validate(c); err != nil {
		return nil, err
	}
	return &StaticSource{coords: c}, nil
}

// NewSourceFromConfig uses location.latitude and location.longitude.
func NewSourceFromConfig() (*StaticSource, error) {
	return NewStaticSource(config.GetDefaultCoordinates())
}

func (s *StaticSource) Coordinates(ctx context.Context) (model.Coordinates, error) {
	if err := ctx.Err(); err != nil {
		return model.Coordinates{}, err
	}
	return s.coords, nil
}

// Validate checks that lat is within [-90, 90] and lon within [-180, 180].
func Validate(c model.Coordinates) error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCoordinates, err)
	}
	return nil
}
