package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		coords  model.Coordinates
		wantErr bool
	}{
		{"nairobi", model.Coordinates{Lat: -1.2921, Lon: 36.8219}, false},
		{"origin", model.Coordinates{}, false},
		{"poles and antimeridian", model.Coordinates{Lat: 90, Lon: -180}, false},
		{"latitude too high", model.Coordinates{Lat: 90.5, Lon: 0}, true},
		{"latitude too low", model.Coordinates{Lat: -91, Lon: 0}, true},
		{"longitude too high", model.Coordinates{Lat: 0, Lon: 180.01}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.coords)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCoordinates)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestStaticSource(t *testing.T) {
	s, err := NewStaticSource(51.5, -0.12)
	require.NoError(t, err)

	c, err := s.Coordinates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Coordinates{Lat: 51.5, Lon: -0.12}, c)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Coordinates(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNewStaticSource_Invalid(t *testing.T) {
	_, err := NewStaticSource(100, 0)
	assert.ErrorIs(t, err, ErrInvalidCoordinates)
}

func TestNewSourceFromConfig(t *testing.T) {
	s, err := NewSourceFromConfig()
	require.NoError(t, err)
	c, err := s.Coordinates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Coordinates{Lat: -1.2921, Lon: 36.8219}, c)
}

func TestSourceFunc(t *testing.T) {
	var s Source = SourceFunc(func(context.Context) (model.Coordinates, error) {
		return model.Coordinates{Lat: 1, Lon: 2}, nil
	})
	c, err := s.Coordinates(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.0, c.Lon)
}
