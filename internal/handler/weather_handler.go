package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/location"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/presentation"
	"github.com/fakhrymubarak/weather-forecast/internal/repository"
	"github.com/fakhrymubarak/weather-forecast/internal/usecase"
)

const maxFavouritesBody = 1 << 20

var errMissingCoordinates = errors.New("both 'lat' and 'lon' query parameters are required")

type WeatherHandler struct {
	UseCases *usecase.UseCases
	// Location answers requests that carry no coordinates.
	Location location.Source
}

func NewWeatherHandler(useCases *usecase.UseCases, src location.Source) *WeatherHandler {
	return &WeatherHandler{
		UseCases: useCases,
		Location: src,
	}
}

// Routes registers every endpoint on mux behind wrap, typically the rate limiter.
func (h *WeatherHandler) Routes(mux *http.ServeMux, wrap func(http.Handler) http.Handler) {
	if wrap == nil {
		wrap = func(next http.Handler) http.Handler { return next }
	}
	mux.Handle("/weather/current", wrap(http.HandlerFunc(h.HandleCurrentWeather)))
	mux.Handle("/weather/forecast", wrap(http.HandlerFunc(h.HandleWeatherForecast)))
	mux.Handle("/weather/stored/current", wrap(http.HandlerFunc(h.HandleStoredCurrentWeather)))
	mux.Handle("/weather/stored/forecast", wrap(http.HandlerFunc(h.HandleStoredWeatherForecast)))
	mux.Handle("/weather/favourites", wrap(http.HandlerFunc(h.HandleFavourites)))
}

func (h *WeatherHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		config.GetLogger().Errorw("could not encode json", "error", err)
	}
}

func (h *WeatherHandler) writeError(w http.ResponseWriter, statusCode int, errMsg string) {
	h.writeJSONResponse(w, statusCode, model.Response{
		Error:   &errMsg,
		Message: "Error",
	})
}

func (h *WeatherHandler) writeSuccess(w http.ResponseWriter, data interface{}) {
	h.writeJSONResponse(w, http.StatusOK, model.Response{
		Data:    data,
		Message: "Success",
	})
}

func (h *WeatherHandler) allow(w http.ResponseWriter, r *http.Request, methods ...string) bool {
	for _, m := range methods {
		if r.Method == m {
			return true
		}
	}
	for _, m := range methods {
		w.Header().Add("Allow", m)
	}
	h.writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
	return false
}

// coordinates reads lat and lon from the query, falling back to the configured location
// when both are absent.
func (h *WeatherHandler) coordinates(r *http.Request) (model.Coordinates, error) {
	q := r.URL.Query()
	latStr, lonStr := q.Get("lat"), q.Get("lon")
	if latStr == "" && lonStr == "" {
		if h.Location == nil {
			return model.Coordinates{}, errMissingCoordinates
		}
		return h.Location.Coordinates(r.Context())
	}
	if latStr == "" || lonStr == "" {
		return model.Coordinates{}, errMissingCoordinates
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return model.Coordinates{}, errors.New("invalid 'lat' query parameter")
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return model.Coordinates{}, errors.New("invalid 'lon' query parameter")
	}
	c := model.Coordinates{Lat: lat, Lon: lon}
	if err := location.Validate(c); err != nil {
		return model.Coordinates{}, err
	}
	return c, nil
}

func (h *WeatherHandler) HandleCurrentWeather(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	coords, err := h.coordinates(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := usecase.Last(h.UseCases.FetchCurrentWeather.Execute(r.Context(), coords))
	if res.Status != model.StatusSuccess {
		h.writeError(w, http.StatusBadGateway, res.Message)
		return
	}
	h.writeSuccess(w, res.Data)
}

// HandleWeatherForecast returns one forecast entry per day.
func (h *WeatherHandler) HandleWeatherForecast(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	coords, err := h.coordinates(r)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res := usecase.Last(h.UseCases.FetchWeatherForecast.Execute(r.Context(), coords))
	if res.Status != model.StatusSuccess {
		h.writeError(w, http.StatusBadGateway, res.Message)
		return
	}
	h.writeSuccess(w, presentation.DistinctByDay(presentation.ToPresentationList(res.Data)))
}

func (h *WeatherHandler) HandleStoredCurrentWeather(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	res := usecase.Last(h.UseCases.GetCurrentWeather.Execute(r.Context(), model.Coordinates{}))
	if res.Status != model.StatusSuccess {
		status := http.StatusInternalServerError
		if res.Message == repository.ErrNoCurrentWeather.Error() {
			status = http.StatusNotFound
		}
		h.writeError(w, status, res.Message)
		return
	}
	h.writeSuccess(w, res.Data)
}

func (h *WeatherHandler) HandleStoredWeatherForecast(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	res := usecase.Last(h.UseCases.GetWeatherForecast.Execute(r.Context(), model.Coordinates{}))
	if res.Status != model.StatusSuccess {
		h.writeError(w, http.StatusInternalServerError, res.Message)
		return
	}
	if len(res.Data) == 0 {
		h.writeError(w, http.StatusNotFound, "no weather forecast stored")
		return
	}
	h.writeSuccess(w, presentation.DistinctByDay(presentation.ToPresentationList(res.Data)))
}

// HandleFavourites lists favourites on GET and stores the posted records on POST.
func (h *WeatherHandler) HandleFavourites(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet, http.MethodPost) {
		return
	}
	if r.Method == http.MethodPost {
		h.addFavourites(w, r)
		return
	}

	res := usecase.Last(h.UseCases.GetFavourites.Execute(r.Context()))
	if res.Status != model.StatusSuccess {
		h.writeError(w, http.StatusInternalServerError, res.Message)
		return
	}
	h.writeSuccess(w, res.Data)
}

func (h *WeatherHandler) addFavourites(w http.ResponseWriter, r *http.Request) {
	var items []model.CurrentLocationWeather
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFavouritesBody)).Decode(&items); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(items) == 0 {
		h.writeError(w, http.StatusBadRequest, "At least one record is required")
		return
	}
	for _, it := range items {
		if err := location.Validate(it.Coord); err != nil {
			h.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	res := usecase.Last(h.UseCases.InsertFavourites.Execute(r.Context(), items))
	if res.Status != model.StatusSuccess {
		h.writeError(w, http.StatusInternalServerError, res.Message)
		return
	}
	h.writeJSONResponse(w, http.StatusCreated, model.Response{
		Data:    map[string]int{"inserted": res.Data},
		Message: "Success",
	})
}
