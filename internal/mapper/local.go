package mapper

import "github.com/fakhrymubarak/weather-forecast/internal/model"

// ToLocal maps a domain record to its stored row. Only the primary condition is stored and
// the favourite flag always starts false.
func ToLocal(w model.CurrentLocationWeather) model.LocationWeatherEntity {
	primary := w.PrimaryWeather()
	return model.LocationWeatherEntity{
		ID:                     w.ID,
		Name:                   w.Name,
		Timestamp:              w.Timestamp,
		TimeForecast:           copyString(w.TimeForecast),
		Lat:                    w.Coord.Lat,
		Lon:                    w.Coord.Lon,
		WeatherType:            primary.Main,
		WeatherTypeDescription: primary.Description,
		Temp:                   w.MainInfo.Temp,
		TempMin:                w.MainInfo.TempMin,
		TempMax:                w.MainInfo.TempMax,
		IsFavourite:            false,
	}
}

// ToDomain maps a stored row back to the domain shape.
func ToDomain(e model.LocationWeatherEntity) model.CurrentLocationWeather {
	return model.CurrentLocationWeather{
		ID:          e.ID,
		Name:        e.Name,
		Timestamp:   e.Timestamp,
		Coord:       model.Coordinates{Lat: e.Lat, Lon: e.Lon},
		WeatherInfo: []model.WeatherInfo{{Main: e.WeatherType, Description: e.WeatherTypeDescription}},
		MainInfo: model.MainInfo{
			Temp:    e.Temp,
			TempMin: e.TempMin,
			TempMax: e.TempMax,
		},
		TimeForecast: copyString(e.TimeForecast),
	}
}

func ToLocalList(items []model.CurrentLocationWeather) []model.LocationWeatherEntity {
	out := make([]model.LocationWeatherEntity, 0, len(items))
	for _, w := range items {
		out = append(out, ToLocal(w))
	}
	return out
}

func ToDomainList(rows []model.LocationWeatherEntity) []model.CurrentLocationWeather {
	out := make([]model.CurrentLocationWeather, 0, len(rows))
	for _, e := range rows {
		out = append(out, ToDomain(e))
	}
	return out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
