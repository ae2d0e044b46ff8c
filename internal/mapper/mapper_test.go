package mapper

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
)

const currentBody = `{
	"id": 184745,
	"name": "Nairobi",
	"dt": 1700000000,
	"coord": {"lat": -1.2921, "lon": 36.8219},
	"weather": [{"id": 803, "main": "Clouds", "description": "broken clouds", "icon": "04d"}],
	"main": {"temp": 293.15, "temp_min": 290.37, "temp_max": 295.93, "humidity": 60}
}`

const forecastBody = `{
	"cnt": 2,
	"city": {"id": 184745, "name": "Nairobi", "coord": {"lat": -1.2921, "lon": 36.8219}},
	"list": [
		{"dt": 1700010800, "dt_txt": "2023-11-15 03:00:00",
		 "weather": [{"main": "Rain", "description": "light rain"}],
		 "main": {"temp": 288.1, "temp_min": 287.5, "temp_max": 289.0}},
		{"dt": 1700021600, "dt_txt": "2023-11-15 06:00:00",
		 "weather": [{"main": "Clear", "description": "clear sky"}],
		 "main": {"temp": 291.4, "temp_min": 290.0, "temp_max": 292.2}}
	]
}`

func TestCurrentWeatherToDomain(t *testing.T) {
	var dto model.OpenWeatherMapResponse
	require.NoError(t, json.Unmarshal([]byte(currentBody), &dto))

	w := CurrentWeatherToDomain(dto)

	assert.Equal(t, "184745", w.ID)
	assert.Equal(t, "Nairobi", w.Name)
	assert.Equal(t, int64(1700000000), w.Timestamp)
	assert.Equal(t, model.Coordinates{Lat: -1.2921, Lon: 36.8219}, w.Coord)
	assert.Equal(t, []model.WeatherInfo{{Main: "Clouds", Description: "broken clouds"}}, w.WeatherInfo)
	assert.Equal(t, model.MainInfo{Temp: 293.15, TempMin: 290.37, TempMax: 295.93}, w.MainInfo)
	assert.Nil(t, w.TimeForecast)
}

func TestForecastToDomain(t *testing.T) {
	var dto model.OpenWeatherMapForecastResponse
	require.NoError(t, json.Unmarshal([]byte(forecastBody), &dto))

	list := ForecastToDomain(dto)

	require.Len(t, list, 2)
	assert.Equal(t, "forecast_1700010800", list[0].ID)
	assert.Equal(t, "forecast_1700021600", list[1].ID)
	require.NotNil(t, list[0].TimeForecast)
	assert.Equal(t, "2023-11-15 03:00:00", *list[0].TimeForecast)
	assert.Equal(t, model.Coordinates{Lat: -1.2921, Lon: 36.8219}, list[1].Coord)
	assert.Equal(t, "light rain", list[0].WeatherInfo[0].Description)
	assert.Equal(t, 291.4, list[1].MainInfo.Temp)
}

func TestForecastToDomain_Empty(t *testing.T) {
	list := ForecastToDomain(model.OpenWeatherMapForecastResponse{})
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestToLocal_FavouriteStartsFalse(t *testing.T) {
	e := ToLocal(model.CurrentLocationWeather{
		ID:          "184745",
		WeatherInfo: []model.WeatherInfo{{Main: "Clear", Description: "clear sky"}},
	})
	assert.False(t, e.IsFavourite)
	assert.Equal(t, "Clear", e.WeatherType)
	assert.Equal(t, "clear sky", e.WeatherTypeDescription)
}

func TestToLocal_NoConditions(t *testing.T) {
	e := ToLocal(model.CurrentLocationWeather{ID: "x"})
	assert.Empty(t, e.WeatherType)
	assert.Empty(t, e.WeatherTypeDescription)
}

func TestRoundTripDomainLocalDomain(t *testing.T) {
	ts := "2023-11-15 03:00:00"
	cases := []model.CurrentLocationWeather{
		{
			ID:          model.CurrentWeatherID,
			Name:        "Nairobi",
			Timestamp:   1700000000,
			Coord:       model.Coordinates{Lat: -1.2921, Lon: 36.8219},
			WeatherInfo: []model.WeatherInfo{{Main: "Clouds", Description: "broken clouds"}},
			MainInfo:    model.MainInfo{Temp: 293.15, TempMin: 290.37, TempMax: 295.93},
		},
		{
			ID:           "forecast_1700010800",
			Coord:        model.Coordinates{Lat: 89.9, Lon: -179.9},
			WeatherInfo:  []model.WeatherInfo{{Main: "Snow", Description: "heavy snow"}},
			MainInfo:     model.MainInfo{Temp: 250.5, TempMin: 249.0, TempMax: 251.25},
			TimeForecast: &ts,
		},
	}

	for _, want := range cases {
		t.Run(want.ID, func(t *testing.T) {
			got := ToDomain(ToLocal(want))
			assert.Equal(t, want, got)
		})
	}
}

func TestRoundTripDoesNotAliasTimeForecast(t *testing.T) {
	ts := "2023-11-15 03:00:00"
	e := ToLocal(model.CurrentLocationWeather{ID: "a", TimeForecast: &ts})
	ts = "changed"
	require.NotNil(t, e.TimeForecast)
	assert.Equal(t, "2023-11-15 03:00:00", *e.TimeForecast)
}

func TestListMappers(t *testing.T) {
	rows := ToLocalList([]model.CurrentLocationWeather{{ID: "a"}, {ID: "b"}})
	require.Len(t, rows, 2)
	back := ToDomainList(rows)
	require.Len(t, back, 2)
	assert.Equal(t, "a", back[0].ID)
	assert.Equal(t, "b", back[1].ID)
}
