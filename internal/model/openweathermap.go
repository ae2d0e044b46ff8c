package model

type OpenWeatherMapCoord struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type OpenWeatherMapMain struct {
	Temp      float64 `json:"temp"`
	FeelsLike float64 `json:"feels_like"`
	TempMin   float64 `json:"temp_min"`
	TempMax   float64 `json:"temp_max"`
	Pressure  int     `json:"pressure"`
	Humidity  int     `json:"humidity"`
	SeaLevel  int     `json:"sea_level"`
	GrndLevel int     `json:"grnd_level"`
}

type OpenWeatherMapWeather struct {
	ID          int    `json:"id"`
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// OpenWeatherMapResponse is the body of data/2.5/weather.
type OpenWeatherMapResponse struct {
	ID      int64                   `json:"id"`
	Name    string                  `json:"name"`
	Dt      int64                   `json:"dt"`
	Coord   OpenWeatherMapCoord     `json:"coord"`
	Main    OpenWeatherMapMain      `json:"main"`
	Weather []OpenWeatherMapWeather `json:"weather"`
}

// OpenWeatherMapForecastItem is one 3-hour slot of data/2.5/forecast.
type OpenWeatherMapForecastItem struct {
	Dt      int64                   `json:"dt"`
	DtTxt   string                  `json:"dt_txt"`
	Main    OpenWeatherMapMain      `json:"main"`
	Weather []OpenWeatherMapWeather `json:"weather"`
}

type OpenWeatherMapCity struct {
	ID    int64               `json:"id"`
	Name  string              `json:"name"`
	Coord OpenWeatherMapCoord `json:"coord"`
}

// OpenWeatherMapForecastResponse is the body of data/2.5/forecast.
type OpenWeatherMapForecastResponse struct {
	Cnt  int                          `json:"cnt"`
	List []OpenWeatherMapForecastItem `json:"list"`
	City OpenWeatherMapCity           `json:"city"`
}
