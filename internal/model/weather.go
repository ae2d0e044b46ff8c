package model

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	Lat float64 `json:"lat" validate:"gte=-90,lte=90"`
	Lon float64 `json:"lon" validate:"gte=-180,lte=180"`
}

// WeatherInfo is the provider's condition group ("Clouds", "Rain"...) and its description.
type WeatherInfo struct {
	Main        string `json:"main"`
	Description string `json:"description"`
}

// MainInfo holds temperatures in Kelvin.
type MainInfo struct {
	Temp    float64 `json:"temp"`
	TempMin float64 `json:"temp_min"`
	TempMax float64 `json:"temp_max"`
}

// CurrentLocationWeather is the domain shape of a weather snapshot, used for both the
// current conditions and each forecast slot.
type CurrentLocationWeather struct {
	ID           string        `json:"id"`
	Name         string        `json:"name,omitempty"`
	Timestamp    int64         `json:"timestamp,omitempty"`
	Coord        Coordinates   `json:"coord"`
	WeatherInfo  []WeatherInfo `json:"weather_info"`
	MainInfo     MainInfo      `json:"main_info"`
	TimeForecast *string       `json:"time_forecast,omitempty"`
}

// PrimaryWeather returns the first condition, or a zero value when the provider sent none.
func (w CurrentLocationWeather) PrimaryWeather() WeatherInfo {
	if len(w.WeatherInfo) == 0 {
		return WeatherInfo{}
	}
	return w.WeatherInfo[0]
}
