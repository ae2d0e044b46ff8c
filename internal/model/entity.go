package model

// CurrentWeatherID is the reserved primary key of the current-conditions row.
const CurrentWeatherID = "current_weather"

// LocationWeatherEntity is the stored row of weather_table.
type LocationWeatherEntity struct {
	ID                     string  `json:"id"`
	Name                   string  `json:"name,omitempty"`
	Timestamp              int64   `json:"timestamp,omitempty"`
	TimeForecast           *string `json:"time_forecast,omitempty"`
	Lat                    float64 `json:"lat"`
	Lon                    float64 `json:"lon"`
	WeatherType            string  `json:"weather_type"`
	WeatherTypeDescription string  `json:"weather_type_description"`
	Temp                   float64 `json:"temp"`
	TempMin                float64 `json:"temp_min"`
	TempMax                float64 `json:"temp_max"`
	IsFavourite            bool    `json:"is_favourite"`
}

// IsCurrent reports whether the row holds the current conditions.
func (e LocationWeatherEntity) IsCurrent() bool {
	return e.ID == CurrentWeatherID
}
