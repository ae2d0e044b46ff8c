package redis

import (
	"context"
	"sync"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/fakhrymubarak/weather-forecast/internal/config"
)

var (
	client *redisv9.Client
	once   sync.Once
	mu     sync.Mutex
)

// GetClient returns the process-wide client for redis.addr.
func GetClient() *redisv9.Client {
	mu.Lock()
	defer mu.Unlock()
	once.Do(func() {
		client = NewClient(config.GetRedisAddr())
	})
	return client
}

func NewClient(addr string) *redisv9.Client {
	return redisv9.NewClient(&redisv9.Options{
		Addr: addr,
	})
}

// Ping checks that the shared client can reach the server.
func Ping(ctx context.Context) error {
	return GetClient().Ping(ctx).Err()
}

// Close closes the shared client. The next GetClient dials again.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if client == nil {
		return nil
	}
	err := client.Close()
	once = sync.Once{}
	client = nil
	return err
}

// ResetClientForTest resets the Redis client singleton. Use only in tests.
func ResetClientForTest() {
	mu.Lock()
	defer mu.Unlock()
	once = sync.Once{}
	client = nil
}
