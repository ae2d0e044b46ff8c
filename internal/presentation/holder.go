package presentation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/connectivity"
	"github.com/fakhrymubarak/weather-forecast/internal/location"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/usecase"
)

const streamBuffer = 16

var ErrNoCurrentWeather = errors.New("no current weather to pin")

// StateHolder drives the use cases and publishes the resulting states. Each stream keeps
// the most recent values; when a subscriber falls behind the oldest value is dropped.
type StateHolder struct {
	useCases     *usecase.UseCases
	location     location.Source
	connectivity connectivity.Provider

	mu       sync.Mutex
	closed   bool
	current  chan CurrentWeatherState
	forecast chan ForecastState
	latest   struct {
		current  CurrentWeatherState
		forecast ForecastState
	}
}

func NewStateHolder(useCases *usecase.UseCases, src location.Source, conn connectivity.Provider) *StateHolder {
	h := &StateHolder{
		useCases:     useCases,
		location:     src,
		connectivity: conn,
		current:      make(chan CurrentWeatherState, streamBuffer),
		forecast:     make(chan ForecastState, streamBuffer),
	}
	h.latest.current = CurrentEmpty{}
	h.latest.forecast = ForecastEmpty{}
	return h
}

func (h *StateHolder) CurrentWeather() <-chan CurrentWeatherState {
	return h.current
}

func (h *StateHolder) Forecast() <-chan ForecastState {
	return h.forecast
}

// Snapshot returns the last published state of both streams.
func (h *StateHolder) Snapshot() (CurrentWeatherState, ForecastState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.latest.current, h.latest.forecast
}

// Refresh loads current weather and the forecast concurrently, from the network when it
// is reachable and from the store otherwise. Network results are written to the store.
// It returns once both streams reached a terminal state; the error reports failed writes.
func (h *StateHolder) Refresh(ctx context.Context) error {
	if !h.connectivity.IsNetworkAvailable(ctx) {
		h.loadLocal(ctx)
		return nil
	}

	coords, err := h.location.Coordinates(ctx)
	if err != nil {
		config.GetLogger().Errorw("Error resolving coordinates", "error", err)
		h.publishCurrent(CurrentFailure{Message: err.Error()})
		h.publishForecast(ForecastFailure{Message: err.Error()})
		return nil
	}
	return h.loadNetwork(ctx, coords)
}

func (h *StateHolder) loadNetwork(ctx context.Context, coords model.Coordinates) error {
	var (
		wg          sync.WaitGroup
		currentErr  error
		forecastErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		var last model.Resource[model.CurrentLocationWeather]
		for r := range h.useCases.FetchCurrentWeather.Execute(ctx, coords) {
			h.publishCurrent(CurrentStateOf(r))
			last = r
		}
		if last.Status == model.StatusSuccess {
			currentErr = h.persist("current weather",
				h.useCases.InsertCurrentWeather.Execute(ctx, []model.CurrentLocationWeather{last.Data}))
		}
	}()
	go func() {
		defer wg.Done()
		var last model.Resource[[]model.CurrentLocationWeather]
		for r := range h.useCases.FetchWeatherForecast.Execute(ctx, coords) {
			h.publishForecast(ForecastStateOf(r))
			last = r
		}
		if last.Status == model.StatusSuccess && len(last.Data) > 0 {
			forecastErr = h.persist("weather forecast",
				h.useCases.InsertWeatherForecast.Execute(ctx, last.Data))
		}
	}()
	wg.Wait()
	return errors.Join(currentErr, forecastErr)
}

func (h *StateHolder) loadLocal(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for r := range h.useCases.GetCurrentWeather.Execute(ctx, model.Coordinates{}) {
			h.publishCurrent(CurrentStateOf(r))
		}
	}()
	go func() {
		defer wg.Done()
		for r := range h.useCases.GetWeatherForecast.Execute(ctx, model.Coordinates{}) {
			h.publishForecast(ForecastStateOf(r))
		}
	}()
	wg.Wait()
}

func (h *StateHolder) persist(what string, ch <-chan model.Resource[int]) error {
	res := usecase.Last(ch)
	if res.Status == model.StatusError {
		config.GetLogger().Errorw("Error persisting "+what, "error", res.Message)
		return fmt.Errorf("persist %s: %s", what, res.Message)
	}
	return nil
}

// PinCurrent stores the last successfully loaded current weather as a favourite.
func (h *StateHolder) PinCurrent(ctx context.Context) error {
	current, _ := h.Snapshot()
	success, ok := current.(CurrentSuccess)
	if !ok {
		return ErrNoCurrentWeather
	}
	res := usecase.Last(h.useCases.InsertFavourites.Execute(ctx, []model.CurrentLocationWeather{success.Weather}))
	if res.Status == model.StatusError {
		return errors.New(res.Message)
	}
	return nil
}

// Clear publishes Cleared on both streams.
func (h *StateHolder) Clear() {
	h.publishCurrent(CurrentCleared{})
	h.publishForecast(ForecastCleared{})
}

// Close ends both streams. Later publishes only update the snapshot.
func (h *StateHolder) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.current)
	close(h.forecast)
}

func (h *StateHolder) publishCurrent(s CurrentWeatherState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest.current = s
	if h.closed {
		return
	}
	publish(h.current, s)
}

func (h *StateHolder) publishForecast(s ForecastState) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.latest.forecast = s
	if h.closed {
		return
	}
	publish(h.forecast, s)
}

// publish never blocks: a full channel loses its oldest value. Callers hold h.mu.
func publish[T any](ch chan T, v T) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}
