package repository

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
	"github.com/fakhrymubarak/weather-forecast/internal/network"
	"github.com/fakhrymubarak/weather-forecast/internal/storage"
)

const currentJSON = `{"id": 184745, "name": "Nairobi", "dt": 1700000000,
	"coord": {"lat": -1.2921, "lon": 36.8219},
	"weather": [{"main": "Clouds", "description": "broken clouds"}],
	"main": {"temp": 293.15, "temp_min": 290.37, "temp_max": 295.93}}`

const forecastJSON = `{"cnt": 2, "city": {"id": 184745, "name": "Nairobi", "coord": {"lat": -1.2921, "lon": 36.8219}},
	"list": [
		{"dt": 1700010800, "dt_txt": "2023-11-15 03:00:00",
		 "weather": [{"main": "Rain", "description": "light rain"}],
		 "main": {"temp": 288.1, "temp_min": 287.5, "temp_max": 289.0}},
		{"dt": 1700021600, "dt_txt": "2023-11-15 06:00:00",
		 "weather": [{"main": "Clear", "description": "clear sky"}],
		 "main": {"temp": 291.4, "temp_min": 290.0, "temp_max": 292.2}}]}`

// fakeStore is an in-memory storage.Store with injectable failures.
type fakeStore struct {
	mu        sync.Mutex
	rows      map[string]model.LocationWeatherEntity
	readErr   error
	insertErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]model.LocationWeatherEntity)}
}

func (f *fakeStore) put(rows []model.LocationWeatherEntity) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, r := range rows {
		f.rows[r.ID] = r
	}
	return nil
}

func (f *fakeStore) find(keep func(model.LocationWeatherEntity) bool) ([]model.LocationWeatherEntity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return nil, f.readErr
	}
	out := make([]model.LocationWeatherEntity, 0)
	for _, r := range f.rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeStore) InsertCurrentWeather(_ context.Context, rows []model.LocationWeatherEntity) error {
	return f.put(rows)
}
func (f *fakeStore) InsertWeatherForecast(_ context.Context, rows []model.LocationWeatherEntity) error {
	return f.put(rows)
}
func (f *fakeStore) InsertLocationToFavourites(_ context.Context, rows []model.LocationWeatherEntity) error {
	return f.put(rows)
}
func (f *fakeStore) FindCurrentWeather(context.Context) ([]model.LocationWeatherEntity, error) {
	return f.find(func(e model.LocationWeatherEntity) bool { return e.IsCurrent() })
}
func (f *fakeStore) WeatherForecast(context.Context) ([]model.LocationWeatherEntity, error) {
	return f.find(func(e model.LocationWeatherEntity) bool { return !e.IsCurrent() && !e.IsFavourite })
}
func (f *fakeStore) FindFavourites(context.Context) ([]model.LocationWeatherEntity, error) {
	return f.find(func(e model.LocationWeatherEntity) bool { return e.IsFavourite })
}
func (f *fakeStore) Close() error { return nil }

func newMockHTTPClient(fn func(req *http.Request) *http.Response) *http.Client {
	return &http.Client{Transport: network.RoundTripperFunc(fn)}
}

func jsonResponse(status int, statusLine, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     statusLine,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newAPI(fn func(req *http.Request) *http.Response) network.WeatherAPI {
	return network.NewClient(network.Options{
		BaseURL:         "http://weather.test/",
		Timeout:         time.Second,
		BreakerInterval: time.Minute,
		BreakerTimeout:  time.Minute,
	}, newMockHTTPClient(fn))
}

func okAPI() network.WeatherAPI {
	return newAPI(func(req *http.Request) *http.Response {
		if strings.HasSuffix(req.URL.Path, "/forecast") {
			return jsonResponse(http.StatusOK, "200 OK", forecastJSON)
		}
		return jsonResponse(http.StatusOK, "200 OK", currentJSON)
	})
}

// collect drains a stream and checks that it carries exactly one value.
func collect[T any](t *testing.T, ch <-chan model.Resource[T]) model.Resource[T] {
	t.Helper()
	var got []model.Resource[T]
	timeout := time.After(2 * time.Second)
	for {
		select {
		case r, ok := <-ch:
			if !ok {
				require.Len(t, got, 1, "stream must carry exactly one terminal value")
				require.True(t, got[0].IsTerminal())
				return got[0]
			}
			got = append(got, r)
		case <-timeout:
			t.Fatal("stream was not closed")
		}
	}
}

func TestNewWeatherRepository(t *testing.T) {
	repo := NewWeatherRepository(okAPI(), newFakeStore())
	if repo == nil {
		t.Error("Expected repository to be created")
	}
}

func TestFetchCurrentWeather_Success(t *testing.T) {
	repo := NewWeatherRepository(okAPI(), newFakeStore())

	res := collect(t, repo.FetchCurrentWeather(context.Background(), -1.2921, 36.8219))

	require.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, "184745", res.Data.ID)
	assert.Equal(t, 293.15, res.Data.MainInfo.Temp)
	assert.Equal(t, 36.8219, res.Data.Coord.Lon)
	assert.Equal(t, "broken clouds", res.Data.WeatherInfo[0].Description)
}

func TestFetchCurrentWeather_ServerError(t *testing.T) {
	repo := NewWeatherRepository(newAPI(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusInternalServerError, "500 Server Error", `{"cod": "500"}`)
	}), newFakeStore())

	res := collect(t, repo.FetchCurrentWeather(context.Background(), 0, 0))

	assert.Equal(t, model.StatusError, res.Status)
	assert.Equal(t, "Server Error", res.Message)
}

func TestFetchCurrentWeather_DecodeError(t *testing.T) {
	repo := NewWeatherRepository(newAPI(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusOK, "200 OK", "not-json")
	}), newFakeStore())

	res := collect(t, repo.FetchCurrentWeather(context.Background(), 0, 0))
	assert.Equal(t, model.StatusError, res.Status)
	assert.NotEmpty(t, res.Message)
}

func TestFetchWeatherForecast_Success(t *testing.T) {
	repo := NewWeatherRepository(okAPI(), newFakeStore())

	res := collect(t, repo.FetchWeatherForecast(context.Background(), -1.2921, 36.8219))

	require.Equal(t, model.StatusSuccess, res.Status)
	require.Len(t, res.Data, 2)
	assert.Equal(t, "forecast_1700010800", res.Data[0].ID)
	require.NotNil(t, res.Data[1].TimeForecast)
	assert.Equal(t, "2023-11-15 06:00:00", *res.Data[1].TimeForecast)
}

func TestFetchWeatherForecast_NotFound(t *testing.T) {
	repo := NewWeatherRepository(newAPI(func(req *http.Request) *http.Response {
		return jsonResponse(http.StatusNotFound, "404 Not Found", `{"cod": "404", "message": "city not found"}`)
	}), newFakeStore())

	res := collect(t, repo.FetchWeatherForecast(context.Background(), 0, 0))
	assert.Equal(t, model.StatusError, res.Status)
	assert.Equal(t, "Not Found", res.Message)
}

func TestFetchWeatherForecast_CancelledContext(t *testing.T) {
	repo := NewWeatherRepository(okAPI(), newFakeStore())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := collect(t, repo.FetchWeatherForecast(ctx, 0, 0))
	assert.Equal(t, model.StatusError, res.Status)
}

func TestGetCurrentWeather_EmptyStore(t *testing.T) {
	repo := NewWeatherRepository(okAPI(), newFakeStore())

	res := collect(t, repo.GetCurrentWeather(context.Background()))

	assert.Equal(t, model.StatusError, res.Status)
	assert.Equal(t, ErrNoCurrentWeather.Error(), res.Message)
}

func TestGetWeatherForecast_EmptyStore(t *testing.T) {
	repo := NewWeatherRepository(okAPI(), newFakeStore())

	res := collect(t, repo.GetWeatherForecast(context.Background()))

	assert.Equal(t, model.StatusSuccess, res.Status)
	assert.Empty(t, res.Data)
}

func TestStoreReadErrors(t *testing.T) {
	store := newFakeStore()
	store.readErr = errors.New("disk I/O error")
	repo := NewWeatherRepository(okAPI(), store)
	ctx := context.Background()

	assert.Equal(t, "disk I/O error", collect(t, repo.GetCurrentWeather(ctx)).Message)
	assert.Equal(t, "disk I/O error", collect(t, repo.GetWeatherForecast(ctx)).Message)
	assert.Equal(t, "disk I/O error", collect(t, repo.GetFavourites(ctx)).Message)
}

func TestInsertErrorsAreReturned(t *testing.T) {
	store := newFakeStore()
	store.insertErr = errors.New("database is locked")
	repo := NewWeatherRepository(okAPI(), store)
	ctx := context.Background()
	items := []model.CurrentLocationWeather{{ID: "a"}}

	assert.ErrorIs(t, repo.InsertCurrentWeather(ctx, items), store.insertErr)
	assert.ErrorIs(t, repo.InsertWeatherForecast(ctx, items), store.insertErr)
	assert.ErrorIs(t, repo.InsertFavourites(ctx, items), store.insertErr)
}

func TestInsertCurrentWeather_UsesReservedID(t *testing.T) {
	store := newFakeStore()
	repo := NewWeatherRepository(okAPI(), store)
	ctx := context.Background()

	current := collect(t, repo.FetchCurrentWeather(ctx, 0, 0)).Data
	require.NoError(t, repo.InsertCurrentWeather(ctx, []model.CurrentLocationWeather{current}))

	res := collect(t, repo.GetCurrentWeather(ctx))
	require.Equal(t, model.StatusSuccess, res.Status)
	assert.Equal(t, model.CurrentWeatherID, res.Data.ID)
	assert.Equal(t, current.MainInfo, res.Data.MainInfo)
	assert.Equal(t, current.WeatherInfo, res.Data.WeatherInfo)
	assert.Equal(t, current.Coord, res.Data.Coord)
	assert.False(t, store.rows[model.CurrentWeatherID].IsFavourite)
}

func TestInsertFavourites(t *testing.T) {
	store := newFakeStore()
	repo := NewWeatherRepository(okAPI(), store)
	ctx := context.Background()

	require.NoError(t, repo.InsertFavourites(ctx, []model.CurrentLocationWeather{
		{ID: "184745", Name: "Nairobi"},
		{ID: model.CurrentWeatherID, Name: "Pinned"},
	}))

	res := collect(t, repo.GetFavourites(ctx))
	require.Equal(t, model.StatusSuccess, res.Status)
	require.Len(t, res.Data, 2)
	for _, f := range res.Data {
		assert.NotEqual(t, model.CurrentWeatherID, f.ID)
		if f.Name == "Pinned" {
			_, err := uuid.Parse(f.ID)
			assert.NoError(t, err)
		}
	}
	for _, r := range store.rows {
		assert.True(t, r.IsFavourite)
	}

	current := collect(t, repo.GetCurrentWeather(ctx))
	assert.Equal(t, model.StatusError, current.Status)
}

func TestRepository_WithSQLiteStore(t *testing.T) {
	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "weather.db"))
	require.NoError(t, err)
	defer store.Close()
	repo := NewWeatherRepository(okAPI(), store)
	ctx := context.Background()

	forecast := collect(t, repo.FetchWeatherForecast(ctx, 0, 0))
	require.Equal(t, model.StatusSuccess, forecast.Status)
	require.NoError(t, repo.InsertWeatherForecast(ctx, forecast.Data))

	stored := collect(t, repo.GetWeatherForecast(ctx))
	require.Equal(t, model.StatusSuccess, stored.Status)
	assert.Equal(t, forecast.Data, stored.Data)
}

func TestRepository_ConcurrentAccess(t *testing.T) {
	repo := NewWeatherRepository(okAPI(), newFakeStore())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r := <-repo.FetchCurrentWeather(ctx, 0, 0)
			assert.Equal(t, model.StatusSuccess, r.Status)
		}()
	}
	wg.Wait()
}
