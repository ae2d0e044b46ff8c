// Package network talks to the OpenWeatherMap 2.5 API.
package network

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
)

const (
	currentWeatherPath  = "data/2.5/weather"
	weatherForecastPath = "data/2.5/forecast"
)

// WeatherAPI is the remote weather provider.
type WeatherAPI interface {
	FetchCurrentWeather(ctx context.Context, lat, lon float64) (*model.OpenWeatherMapResponse, error)
	FetchWeatherForecast(ctx context.Context, lat, lon float64) (*model.OpenWeatherMapForecastResponse, error)
}

type Options struct {
	BaseURL       string
	APIKey        string
	TokenType     string
	Timeout       time.Duration
	RequireAPIKey bool

	BreakerMaxRequests uint32
	BreakerInterval    time.Duration
	BreakerTimeout     time.Duration
}

// OptionsFromConfig reads the client settings from config and the environment.
func OptionsFromConfig() Options {
	maxRequests, interval, timeout := config.GetBreakerConfig()
	return Options{
		BaseURL:            config.GetOpenWeatherApiUrl(),
		APIKey:             config.GetOpenWeatherMapAPIKey(),
		TokenType:          config.GetOpenWeatherTokenType(),
		Timeout:            config.GetOpenWeatherTimeout(),
		RequireAPIKey:      config.GetOpenWeatherRequireAPIKey(),
		BreakerMaxRequests: maxRequests,
		BreakerInterval:    interval,
		BreakerTimeout:     timeout,
	}
}

// Client calls the provider through a circuit breaker. It never retries.
type Client struct {
	rest       *resty.Client
	breaker    *gobreaker.CircuitBreaker
	apiKey     string
	requireKey bool
}

// NewClientFromConfig builds a Client from config. An optional http.Client replaces the transport.
func NewClientFromConfig(httpClient ...*http.Client) *Client {
	return NewClient(OptionsFromConfig(), httpClient...)
}

func NewClient(opts Options, httpClient ...*http.Client) *Client {
	var rest *resty.Client
	if len(httpClient) > 0 && httpClient[0] != nil {
		rest = resty.NewWithClient(httpClient[0])
	} else {
		rest = resty.New()
	}
	rest.SetBaseURL(opts.BaseURL).
		SetHeader("Accept", "application/json")
	if opts.Timeout > 0 {
		rest.SetTimeout(opts.Timeout)
	}

	if opts.APIKey != "" {
		tokenType := opts.TokenType
		if tokenType == "" {
			tokenType = "Bearer"
		}
		authorization := tokenType + " " + opts.APIKey
		rest.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
			req.SetHeader("Authorization", authorization)
			return nil
		})
	}

	rest.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		config.GetLogger().Debugw("provider response",
			"method", resp.Request.Method,
			"url", resp.Request.URL,
			"status", resp.StatusCode(),
			"duration", resp.Time().String(),
		)
		return nil
	})

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:         "openweathermap",
		MaxRequests:  opts.BreakerMaxRequests,
		Interval:     opts.BreakerInterval,
		Timeout:      opts.BreakerTimeout,
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			config.GetLogger().Warnw("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		},
	})

	return &Client{
		rest:       rest,
		breaker:    breaker,
		apiKey:     opts.APIKey,
		requireKey: opts.RequireAPIKey,
	}
}

// countsAsSuccess decides what the breaker counts as a failure. Only transport and decode
// errors do; an error status from the provider and a cancelled call do not.
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var statusErr *StatusError
	return errors.As(err, &statusErr)
}

func (c *Client) FetchCurrentWeather(ctx context.Context, lat, lon float64) (*model.OpenWeatherMapResponse, error) {
	var out model.OpenWeatherMapResponse
	if err := c.post(ctx, currentWeatherPath, lat, lon, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) FetchWeatherForecast(ctx context.Context, lat, lon float64) (*model.OpenWeatherMapForecastResponse, error) {
	var out model.OpenWeatherMapForecastResponse
	if err := c.post(ctx, weatherForecastPath, lat, lon, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, path string, lat, lon float64, out any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.requireKey && c.apiKey == "" {
		return ErrAPIKeyMissing
	}

	_, err := c.breaker.Execute(func() (interface{}, error) {
		req := c.rest.R().
			SetContext(ctx).
			SetQueryParam("lat", strconv.FormatFloat(lat, 'f', -1, 64)).
			SetQueryParam("lon", strconv.FormatFloat(lon, 'f', -1, 64))
		if c.apiKey != "" {
			req.SetQueryParam("appid", c.apiKey)
		}

		resp, err := req.Post(path)
		if err != nil {
			return nil, err
		}
		if !resp.IsSuccess() {
			return nil, newStatusError(resp)
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return nil, fmt.Errorf("decode %s response: %w", path, err)
		}
		return nil, nil
	})
	return err
}
