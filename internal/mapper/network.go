// Package mapper converts weather records between the provider wire shape, the domain
// shape and the stored row. All functions are pure.
package mapper

import (
	"fmt"
	"strconv"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
)

// ForecastID returns the identifier given to a forecast slot.
func ForecastID(dt int64) string {
	return fmt.Sprintf("forecast_%d", dt)
}

func CoordinatesToDomain(c model.OpenWeatherMapCoord) model.Coordinates {
	return model.Coordinates{
		Lat: c.Lat,
		Lon: c.Lon,
	}
}

func MainInfoToDomain(m model.OpenWeatherMapMain) model.MainInfo {
	return model.MainInfo{
		Temp:    m.Temp,
		TempMin: m.TempMin,
		TempMax: m.TempMax,
	}
}

func WeatherInfoToDomain(items []model.OpenWeatherMapWeather) []model.WeatherInfo {
	out := make([]model.WeatherInfo, 0, len(items))
	for _, w := range items {
		out = append(out, model.WeatherInfo{
			Main:        w.Main,
			Description: w.Description,
		})
	}
	return out
}

// CurrentWeatherToDomain maps a data/2.5/weather body.
func CurrentWeatherToDomain(dto model.OpenWeatherMapResponse) model.CurrentLocationWeather {
	return model.CurrentLocationWeather{
		ID:          strconv.FormatInt(dto.ID, 10),
		Name:        dto.Name,
		Timestamp:   dto.Dt,
		Coord:       CoordinatesToDomain(dto.Coord),
		WeatherInfo: WeatherInfoToDomain(dto.Weather),
		MainInfo:    MainInfoToDomain(dto.Main),
	}
}

// ForecastItemToDomain maps one forecast slot; the slot takes its coordinates and name from the city.
func ForecastItemToDomain(item model.OpenWeatherMapForecastItem, city model.OpenWeatherMapCity) model.CurrentLocationWeather {
	w := model.CurrentLocationWeather{
		ID:          ForecastID(item.Dt),
		Name:        city.Name,
		Timestamp:   item.Dt,
		Coord:       CoordinatesToDomain(city.Coord),
		WeatherInfo: WeatherInfoToDomain(item.Weather),
		MainInfo:    MainInfoToDomain(item.Main),
	}
	if item.DtTxt != "" {
		ts := item.DtTxt
		w.TimeForecast = &ts
	}
	return w
}

// ForecastToDomain maps a data/2.5/forecast body, keeping the provider's slot order.
func ForecastToDomain(resp model.OpenWeatherMapForecastResponse) []model.CurrentLocationWeather {
	out := make([]model.CurrentLocationWeather, 0, len(resp.List))
	for _, item := range resp.List {
		out = append(out, ForecastItemToDomain(item, resp.City))
	}
	return out
}
