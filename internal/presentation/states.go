// Package presentation turns use case streams into UI states.
package presentation

import "github.com/fakhrymubarak/weather-forecast/internal/model"

// CurrentWeatherState is one of CurrentLoading, CurrentEmpty, CurrentCleared,
// CurrentFailure or CurrentSuccess.
type CurrentWeatherState interface {
	isCurrentWeatherState()
}

type CurrentLoading struct{}
type CurrentEmpty struct{}
type CurrentCleared struct{}
type CurrentFailure struct {
	Message string
}
type CurrentSuccess struct {
	Weather model.CurrentLocationWeather
}

func (CurrentLoading) isCurrentWeatherState() {}
func (CurrentEmpty) isCurrentWeatherState()   {}
func (CurrentCleared) isCurrentWeatherState() {}
func (CurrentFailure) isCurrentWeatherState() {}
func (CurrentSuccess) isCurrentWeatherState() {}

// ForecastState is one of ForecastLoading, ForecastEmpty, ForecastCleared,
// ForecastFailure or ForecastSuccess.
type ForecastState interface {
	isForecastState()
}

type ForecastLoading struct{}
type ForecastEmpty struct{}
type ForecastCleared struct{}
type ForecastFailure struct {
	Message string
}
type ForecastSuccess struct {
	Forecast []ForecastPresentation
}

func (ForecastLoading) isForecastState() {}
func (ForecastEmpty) isForecastState()   {}
func (ForecastCleared) isForecastState() {}
func (ForecastFailure) isForecastState() {}
func (ForecastSuccess) isForecastState() {}

// ForecastPresentation is a forecast slot ready for display. Temperatures stay in Kelvin.
type ForecastPresentation struct {
	ID                     string  `json:"id"`
	DayOfTheWeek           string  `json:"day_of_the_week"`
	Lat                    float64 `json:"lat"`
	Lon                    float64 `json:"lon"`
	WeatherType            string  `json:"weather_type"`
	WeatherTypeDescription string  `json:"weather_type_description"`
	Temp                   float64 `json:"temp"`
	TempMin                float64 `json:"temp_min"`
	TempMax                float64 `json:"temp_max"`
	TimeForecast           *string `json:"time_forecast,omitempty"`
}

func ToPresentation(w model.CurrentLocationWeather) ForecastPresentation {
	primary := w.PrimaryWeather()
	p := ForecastPresentation{
		ID:                     w.ID,
		DayOfTheWeek:           undefinedDay,
		Lat:                    w.Coord.Lat,
		Lon:                    w.Coord.Lon,
		WeatherType:            primary.Main,
		WeatherTypeDescription: primary.Description,
		Temp:                   w.MainInfo.Temp,
		TempMin:                w.MainInfo.TempMin,
		TempMax:                w.MainInfo.TempMax,
		TimeForecast:           w.TimeForecast,
	}
	if w.TimeForecast != nil {
		p.DayOfTheWeek = DayOfWeek(*w.TimeForecast)
	}
	return p
}

func ToPresentationList(items []model.CurrentLocationWeather) []ForecastPresentation {
	out := make([]ForecastPresentation, 0, len(items))
	for _, w := range items {
		out = append(out, ToPresentation(w))
	}
	return out
}

// CurrentStateOf maps a resource to its UI state. A success without a record is Empty.
func CurrentStateOf(r model.Resource[model.CurrentLocationWeather]) CurrentWeatherState {
	switch r.Status {
	case model.StatusLoading:
		return CurrentLoading{}
	case model.StatusError:
		return CurrentFailure{Message: r.Message}
	}
	if r.Data.ID == "" {
		return CurrentEmpty{}
	}
	return CurrentSuccess{Weather: r.Data}
}

// ForecastStateOf maps a resource to its UI state. An empty list is Empty.
func ForecastStateOf(r model.Resource[[]model.CurrentLocationWeather]) ForecastState {
	switch r.Status {
	case model.StatusLoading:
		return ForecastLoading{}
	case model.StatusError:
		return ForecastFailure{Message: r.Message}
	}
	if len(r.Data) == 0 {
		return ForecastEmpty{}
	}
	return ForecastSuccess{Forecast: ToPresentationList(r.Data)}
}
