package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
	"github.com/fakhrymubarak/weather-forecast/internal/model"
)

const noParam = "__none__"

// visitor holds a limiter and the last time its key was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limit is a token bucket expressed as requests per minute with a burst.
type Limit struct {
	PerMinute float64
	Burst     int
}

func (l Limit) newLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Limit(l.PerMinute/60.0), l.Burst)
}

// ParamFunc derives the per-param bucket from a request. An empty result shares one bucket.
type ParamFunc func(r *http.Request) string

// CoordinateParam keys requests by their "lat,lon" query pair.
func CoordinateParam(r *http.Request) string {
	q := r.URL.Query()
	lat, lon := q.Get("lat"), q.Get("lon")
	if lat == "" && lon == "" {
		return ""
	}
	return lat + "," + lon
}

// RateLimiter enforces a global per-IP limit and a per-IP per-param limit.
type RateLimiter struct {
	global   Limit
	param    Limit
	paramOf  ParamFunc
	staleFor time.Duration

	muGlobal       sync.Mutex
	globalVisitors map[string]*visitor // key: ip
	muParam        sync.Mutex
	paramVisitors  map[string]map[string]*visitor // key: ip -> param -> visitor
}

func NewRateLimiter(global, param Limit, paramOf ParamFunc, staleFor time.Duration) *RateLimiter {
	if paramOf == nil {
		paramOf = CoordinateParam
	}
	return &RateLimiter{
		global:         global,
		param:          param,
		paramOf:        paramOf,
		staleFor:       staleFor,
		globalVisitors: make(map[string]*visitor),
		paramVisitors:  make(map[string]map[string]*visitor),
	}
}

// NewRateLimiterFromConfig reads rate_limiter.* and keys the param bucket by coordinates.
func NewRateLimiterFromConfig() *RateLimiter {
	globalRate, globalBurst := config.GetGlobalRateLimiterConfig()
	paramRate, paramBurst := config.GetParamRateLimiterConfig()
	return NewRateLimiter(
		Limit{PerMinute: globalRate, Burst: globalBurst},
		Limit{PerMinute: paramRate, Burst: paramBurst},
		CoordinateParam,
		config.GetRateLimiterCleanupTimeout(),
	)
}

func (rl *RateLimiter) globalLimiter(ip string) *rate.Limiter {
	rl.muGlobal.Lock()
	defer rl.muGlobal.Unlock()
	v, exists := rl.globalVisitors[ip]
	if !exists {
		v = &visitor{limiter: rl.global.newLimiter()}
		rl.globalVisitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (rl *RateLimiter) paramLimiter(ip, param string) *rate.Limiter {
	rl.muParam.Lock()
	defer rl.muParam.Unlock()
	if _, ok := rl.paramVisitors[ip]; !ok {
		rl.paramVisitors[ip] = make(map[string]*visitor)
	}
	v, exists := rl.paramVisitors[ip][param]
	if !exists {
		v = &visitor{limiter: rl.param.newLimiter()}
		rl.paramVisitors[ip][param] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

// Cleanup drops visitors not seen for longer than the stale timeout.
func (rl *RateLimiter) Cleanup(now time.Time) {
	rl.muGlobal.Lock()
	for ip, v := range rl.globalVisitors {
		if now.Sub(v.lastSeen) > rl.staleFor {
			delete(rl.globalVisitors, ip)
		}
	}
	rl.muGlobal.Unlock()

	rl.muParam.Lock()
	for ip, params := range rl.paramVisitors {
		for param, v := range params {
			if now.Sub(v.lastSeen) > rl.staleFor {
				delete(params, param)
			}
		}
		if len(params) == 0 {
			delete(rl.paramVisitors, ip)
		}
	}
	rl.muParam.Unlock()
}

// StartCleanup runs Cleanup every minute until ctx is done.
func (rl *RateLimiter) StartCleanup(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				rl.Cleanup(now)
			}
		}
	}()
}

// Reset clears all visitor state.
func (rl *RateLimiter) Reset() {
	rl.muGlobal.Lock()
	rl.globalVisitors = make(map[string]*visitor)
	rl.muGlobal.Unlock()
	rl.muParam.Lock()
	rl.paramVisitors = make(map[string]map[string]*visitor)
	rl.muParam.Unlock()
}

// getIP extracts the client's IP address from the HTTP request, considering X-Forwarded-For headers.
func getIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

func tooManyRequests(w http.ResponseWriter, errMsg, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(model.Response{
		Error:   &errMsg,
		Message: message,
	})
}

// Middleware responds 429 with a JSON error once either limit is exhausted.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := getIP(r)
		param := rl.paramOf(r)
		if param == "" {
			param = noParam
		}
		if !rl.globalLimiter(ip).Allow() {
			tooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per user/IP", rl.global.PerMinute),
				"Too Many Requests (global limit)")
			return
		}
		if !rl.paramLimiter(ip, param).Allow() {
			tooManyRequests(w,
				fmt.Sprintf("Rate limit exceeded: max %g requests per minute per location per user/IP", rl.param.PerMinute),
				"Too Many Requests (per-location limit)")
			return
		}
		next.ServeHTTP(w, r)
	})
}
