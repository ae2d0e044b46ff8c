package cmd

import (
	"bytes"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakhrymubarak/weather-forecast/internal/app"
	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/connectivity"
	"github.com/fakhrymubarak/weather-forecast/internal/storage"
)

const owmCurrent = `{"id": 2643743, "name": "London", "dt": 1700000000,
	"coord": {"lat": 51.5, "lon": -0.12},
	"weather": [{"main": "Clouds", "description": "overcast clouds"}],
	"main": {"temp": 288.15, "temp_min": 287.0, "temp_max": 289.0}}`

const owmForecast = `{"city": {"id": 2643743, "name": "London", "coord": {"lat": 51.5, "lon": -0.12}},
	"list": [
		{"dt": 1700010800, "dt_txt": "2023-11-15 03:00:00", "weather": [{"main": "Rain", "description": "light rain"}], "main": {"temp": 284.0, "temp_min": 283.5, "temp_max": 284.5}},
		{"dt": 1700021600, "dt_txt": "2023-11-15 06:00:00", "weather": [{"main": "Rain", "description": "moderate rain"}], "main": {"temp": 284.3}},
		{"dt": 1700096400, "dt_txt": "2023-11-16 03:00:00", "weather": [{"main": "Clear", "description": "clear sky"}], "main": {"temp": 285.0}}]}`

// setupProvider points config at a fake provider and a fresh bolt file.
func setupProvider(t *testing.T) *httptest.Server {
	t.Helper()
	owm := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("lat") == "0" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/data/2.5/weather":
			_, _ = w.Write([]byte(owmCurrent))
		case "/data/2.5/forecast":
			_, _ = w.Write([]byte(owmForecast))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(owm.Close)

	viper.Set("openweathermap.api_url", owm.URL+"/")
	viper.Set("connectivity.address", owm.Listener.Addr().String())
	viper.Set("storage.driver", storage.DriverBolt)
	viper.Set("storage.path", filepath.Join(t.TempDir(), "weather.bolt"))
	config.ReloadConfigForTest()
	return owm
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCurrentCommand(t *testing.T) {
	setupProvider(t)

	out, err := execute(t, "current", "--offline=true", "--lat", "51.5", "--lon", "-0.12")
	require.NoError(t, err)
	assert.Equal(t, noWeatherData+"\n", out)

	out, err = execute(t, "current", "--offline=false", "--lat", "51.5", "--lon", "-0.12")
	require.NoError(t, err)
	assert.Contains(t, out, "London  15°  overcast clouds")
	assert.Contains(t, out, "min 13°  max 15°")

	out, err = execute(t, "current", "--offline=true", "--lat", "51.5", "--lon", "-0.12")
	require.NoError(t, err)
	assert.Contains(t, out, "London  15°  overcast clouds")
}

func TestCurrentCommand_ProviderError(t *testing.T) {
	setupProvider(t)

	out, err := execute(t, "current", "--offline=false", "--lat", "0", "--lon", "0")
	require.NoError(t, err)
	assert.Equal(t, noWeatherData+"\n", out)
}

func TestCurrentCommand_NetworkUnreachable(t *testing.T) {
	setupProvider(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())
	viper.Set("connectivity.address", addr)

	out, err := execute(t, "current", "--offline=false", "--lat", "51.5", "--lon", "-0.12")
	require.NoError(t, err)
	assert.Equal(t, noWeatherData+"\n", out)
}

func TestForecastCommand(t *testing.T) {
	setupProvider(t)

	out, err := execute(t, "forecast", "--offline=false", "--lat", "51.5", "--lon", "-0.12")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "Wednesday")
	assert.Contains(t, lines[0], "10°")
	assert.Contains(t, lines[0], "light rain")
	assert.NotContains(t, out, "moderate rain")
	assert.Contains(t, lines[1], "Thursday")

	out, err = execute(t, "forecast", "--offline=true", "--lat", "51.5", "--lon", "-0.12")
	require.NoError(t, err)
	assert.Contains(t, out, "Wednesday")
	assert.Contains(t, out, "Thursday")
}

func TestFavouriteCommands(t *testing.T) {
	setupProvider(t)

	out, err := execute(t, "favourite", "list", "--lat", "51.5", "--lon", "-0.12")
	require.NoError(t, err)
	assert.Equal(t, "No favourites yet\n", out)

	out, err = execute(t, "favourite", "add", "--lat", "51.5", "--lon", "-0.12")
	require.NoError(t, err)
	assert.Equal(t, "✓ Saved London to favourites\n", out)

	out, err = execute(t, "fav", "list", "--lat", "51.5", "--lon", "-0.12")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "2643743")
	assert.Contains(t, out, "London")
	assert.Contains(t, out, "overcast clouds")

	_, err = execute(t, "favourite", "add", "--lat", "0", "--lon", "0")
	assert.Error(t, err)
}

func TestNewApp_LatWithoutLon(t *testing.T) {
	setupProvider(t)
	c := &cobra.Command{}
	c.Flags().Float64("lat", 0, "")
	c.Flags().Float64("lon", 0, "")
	require.NoError(t, c.Flags().Set("lat", "1"))

	_, err := newApp(c, false)
	assert.Error(t, err)
}

func TestNewApp_InvalidCoordinates(t *testing.T) {
	setupProvider(t)
	_, err := execute(t, "current", "--offline=true", "--lat", "91", "--lon", "0")
	assert.Error(t, err)
}

func TestServe(t *testing.T) {
	setupProvider(t)
	viper.Set("server.port", "0")
	defer viper.Set("server.port", "8080")

	a, err := app.New(app.Options{Connectivity: connectivity.Static(true)})
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, a, true) }()
	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return")
	}
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range GetRootCmd().Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"current", "forecast", "favourite", "serve", "tui"} {
		assert.True(t, names[want], "missing command %s", want)
	}
}
