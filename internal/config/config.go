package config

import (
	"flag"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var once sync.Once
var logger *zap.SugaredLogger
var loggerOnce sync.Once

// isTestRun returns true if the current process is a Go test binary.
func isTestRun() bool {
	return flag.Lookup("test.v") != nil || filepath.Ext(os.Args[0]) == ".test"
}

func initConfig() {
	once.Do(func() {
		root, err := getProjectRoot()
		if err != nil {
			GetLogger().Errorw("Error finding project root", "error", err)
		}
		viper.SetConfigType("yaml")

		viper.SetConfigName("config")
		viper.AddConfigPath(root)
		if err = viper.ReadInConfig(); err != nil {
			GetLogger().Errorw("Error reading config file", "error", err)
		}

		if isTestRun() {
			viper.SetConfigName("config_test")
			viper.AddConfigPath(root)
			if err = viper.MergeInConfig(); err != nil {
				GetLogger().Errorw("Error merging test config file", "error", err)
			}
		}
	})
}

func getProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", os.ErrNotExist
}

// ProjectRoot returns the directory holding go.mod, or the working directory when none is found.
func ProjectRoot() string {
	root, err := getProjectRoot()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	return root
}

func GetOpenWeatherApiUrl() string {
	initConfig()
	url := viper.GetString("openweathermap.api_url")
	if url == "" {
		url = "https://api.openweathermap.org/"
	}
	return url
}

func GetOpenWeatherMapAPIKey() string {
	_ = godotenv.Load()
	return os.Getenv("OPENWEATHERMAP_API_KEY")
}

// GetOpenWeatherTokenType returns the scheme placed in front of the API key in the Authorization header.
func GetOpenWeatherTokenType() string {
	initConfig()
	tokenType := viper.GetString("openweathermap.token_type")
	if tokenType == "" {
		tokenType = "Bearer"
	}
	return tokenType
}

// GetOpenWeatherRequireAPIKey reports whether provider calls fail without OPENWEATHERMAP_API_KEY.
func GetOpenWeatherRequireAPIKey() bool {
	initConfig()
	if !viper.IsSet("openweathermap.require_api_key") {
		return true
	}
	return viper.GetBool("openweathermap.require_api_key")
}

// GetOpenWeatherTimeout returns the HTTP client timeout. Defaults to 15s.
func GetOpenWeatherTimeout() time.Duration {
	initConfig()
	return getDuration("openweathermap.timeout", 15*time.Second)
}

// GetBreakerConfig returns the circuit breaker settings for provider calls.
func GetBreakerConfig() (maxRequests uint32, interval, timeout time.Duration) {
	initConfig()
	maxRequests = viper.GetUint32("network.breaker.max_requests")
	if maxRequests == 0 {
		maxRequests = 5
	}
	interval = getDuration("network.breaker.interval", time.Minute)
	timeout = getDuration("network.breaker.timeout", 2*time.Minute)
	return
}

func GetStorageDriver() string {
	initConfig()
	driver := viper.GetString("storage.driver")
	if driver == "" {
		driver = "sqlite"
	}
	return driver
}

// GetStoragePath returns the database file path, resolved against the project root when relative.
func GetStoragePath() string {
	initConfig()
	path := viper.GetString("storage.path")
	if path == "" {
		path = filepath.Join("data", "weather.db")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(ProjectRoot(), path)
	}
	return path
}

func GetRedisAddr() string {
	initConfig()
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return addr
	}
	addr := viper.GetString("redis.addr")
	if addr == "" {
		addr = "localhost:6379"
	}
	return addr
}

func GetServerPort() string {
	initConfig()
	serverPort := viper.GetString("server.port")
	if serverPort == "" {
		serverPort = "8080"
	}
	return serverPort
}

// GetCacheTTL returns cache.expiration as a duration. Zero means records never expire.
func GetCacheTTL() time.Duration {
	initConfig()
	return getDuration("cache.expiration", 0)
}

func GetServerTimeout(key string) string {
	initConfig()
	return viper.GetString("server." + key)
}

// GetServerTimeoutDuration parses a server timeout, falling back to def.
func GetServerTimeoutDuration(key string, def time.Duration) time.Duration {
	initConfig()
	return getDuration("server."+key, def)
}

// GetDefaultCoordinates returns the configured location used when no coordinates are given.
func GetDefaultCoordinates() (lat, lon float64) {
	initConfig()
	return viper.GetFloat64("location.latitude"), viper.GetFloat64("location.longitude")
}

// GetConnectivityProbe returns the address dialled to decide whether the network is reachable.
func GetConnectivityProbe() (address string, timeout time.Duration) {
	initConfig()
	address = viper.GetString("connectivity.address")
	if address == "" {
		address = "api.openweathermap.org:443"
	}
	timeout = getDuration("connectivity.timeout", 3*time.Second)
	return
}

// GetRefreshInterval returns how often the scheduler refreshes weather. Defaults to 15m.
func GetRefreshInterval() time.Duration {
	initConfig()
	return getDuration("scheduler.interval", 15*time.Minute)
}

// ReloadConfigForTest resets the config singleton and reloads Viper config. Use only in tests.
func ReloadConfigForTest() {
	once = sync.Once{}
	initConfig()
}

func GetLogger() *zap.SugaredLogger {
	loggerOnce.Do(func() {
		l, err := zap.NewDevelopment()
		if err != nil {
			panic(err)
		}
		logger = l.Sugar()
	})
	return logger
}

// GetRateLimiterCleanupTimeout returns the rate limiter cleanup timeout as a time.Duration.
// Defaults to 3m if not set or invalid.
func GetRateLimiterCleanupTimeout() time.Duration {
	initConfig()
	return getDuration("rate_limiter.cleanup_timeout", 3*time.Minute)
}

// GetGlobalRateLimiterConfig returns the rate and burst for the global rate limiter from config.
func GetGlobalRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.global.rate")
	if rate == 0 {
		rate = 10
	}
	burst = viper.GetInt("rate_limiter.global.burst")
	if burst == 0 {
		burst = 10
	}
	return
}

// GetParamRateLimiterConfig returns the rate and burst for the param rate limiter from config.
func GetParamRateLimiterConfig() (rate float64, burst int) {
	initConfig()
	rate = viper.GetFloat64("rate_limiter.param.rate")
	if rate == 0 {
		rate = 2
	}
	burst = viper.GetInt("rate_limiter.param.burst")
	if burst == 0 {
		burst = 2
	}
	return
}

func getDuration(key string, def time.Duration) time.Duration {
	durStr := viper.GetString(key)
	if durStr == "" {
		return def
	}
	dur, err := time.ParseDuration(durStr)
	if err != nil {
		return def
	}
	return dur
}
