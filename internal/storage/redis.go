package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
)

const (
	redisKeyPrefix = "weather:"
	// outside redisKeyPrefix so no row id can land on it
	redisIndexKey = "weather_index"
)

// RedisStore keeps one JSON value per row under "weather:<id>" plus a set of known ids
// under "weather_index".
// Rows expire after ttl when ttl is positive.
type RedisStore struct {
	client redisv9.UniversalClient
	ttl    time.Duration
	closer func() error
}

// NewRedisStore wraps client. closer runs on Close; nil closes client itself.
func NewRedisStore(client redisv9.UniversalClient, ttl time.Duration, closer func() error) *RedisStore {
	if closer == nil {
		closer = client.Close
	}
	return &RedisStore{client: client, ttl: ttl, closer: closer}
}

func (s *RedisStore) Close() error {
	return s.closer()
}

func (s *RedisStore) InsertCurrentWeather(ctx context.Context, rows []model.LocationWeatherEntity) error {
	return s.put(ctx, rows)
}

func (s *RedisStore) InsertWeatherForecast(ctx context.Context, rows []model.LocationWeatherEntity) error {
	return s.put(ctx, rows)
}

func (s *RedisStore) InsertLocationToFavourites(ctx context.Context, rows []model.LocationWeatherEntity) error {
	return s.put(ctx, rows)
}

func (s *RedisStore) FindCurrentWeather(ctx context.Context) ([]model.LocationWeatherEntity, error) {
	out := make([]model.LocationWeatherEntity, 0, 1)
	val, err := s.client.Get(ctx, redisKeyPrefix+model.CurrentWeatherID).Result()
	if err == redisv9.Nil {
		return out, nil
	}
	if err != nil {
		return nil, err
	}
	var e model.LocationWeatherEntity
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return nil, fmt.Errorf("decode %s: %w", model.CurrentWeatherID, err)
	}
	return append(out, e), nil
}

func (s *RedisStore) WeatherForecast(ctx context.Context) ([]model.LocationWeatherEntity, error) {
	rows, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := filterRows(rows, isForecast)
	sortForecast(out)
	return out, nil
}

func (s *RedisStore) FindFavourites(ctx context.Context) ([]model.LocationWeatherEntity, error) {
	rows, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	out := filterRows(rows, func(e model.LocationWeatherEntity) bool { return e.IsFavourite })
	sortByID(out)
	return out, nil
}

func (s *RedisStore) put(ctx context.Context, rows []model.LocationWeatherEntity) error {
	if len(rows) == 0 {
		return nil
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redisv9.Pipeliner) error {
		for _, r := range rows {
			b, err := json.Marshal(r)
			if err != nil {
				return err
			}
			pipe.Set(ctx, redisKeyPrefix+r.ID, b, s.ttl)
			pipe.SAdd(ctx, redisIndexKey, r.ID)
		}
		return nil
	})
	return err
}

// all loads every indexed row. Ids whose value has expired are dropped from the index.
func (s *RedisStore) all(ctx context.Context) ([]model.LocationWeatherEntity, error) {
	ids, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.LocationWeatherEntity, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = redisKeyPrefix + id
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	var expired []interface{}
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			expired = append(expired, ids[i])
			continue
		}
		var e model.LocationWeatherEntity
		if err := json.Unmarshal([]byte(str), &e); err != nil {
			return nil, fmt.Errorf("decode %s: %w", ids[i], err)
		}
		out = append(out, e)
	}
	if len(expired) > 0 {
		if err := s.client.SRem(ctx, redisIndexKey, expired...).Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
