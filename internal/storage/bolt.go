package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
)

const boltBucketWeather = "weather" // key: row id -> LocationWeatherEntity JSON

// BoltStore keeps rows as JSON values in a single bbolt bucket.
type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucketWeather))
		return err
	}); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

func (b *BoltStore) Close() error {
	return b.db.Close()
}

func (b *BoltStore) InsertCurrentWeather(_ context.Context, rows []model.LocationWeatherEntity) error {
	return b.put(rows)
}

func (b *BoltStore) InsertWeatherForecast(_ context.Context, rows []model.LocationWeatherEntity) error {
	return b.put(rows)
}

func (b *BoltStore) InsertLocationToFavourites(_ context.Context, rows []model.LocationWeatherEntity) error {
	return b.put(rows)
}

func (b *BoltStore) FindCurrentWeather(_ context.Context) ([]model.LocationWeatherEntity, error) {
	var out []model.LocationWeatherEntity
	err := b.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket([]byte(boltBucketWeather)).Get([]byte(model.CurrentWeatherID))
		out = make([]model.LocationWeatherEntity, 0, 1)
		if data == nil {
			return nil
		}
		var e model.LocationWeatherEntity
		if err := json.Unmarshal(data, &e); err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

func (b *BoltStore) WeatherForecast(_ context.Context) ([]model.LocationWeatherEntity, error) {
	rows, err := b.all()
	if err != nil {
		return nil, err
	}
	out := filterRows(rows, isForecast)
	sortForecast(out)
	return out, nil
}

func (b *BoltStore) FindFavourites(_ context.Context) ([]model.LocationWeatherEntity, error) {
	rows, err := b.all()
	if err != nil {
		return nil, err
	}
	out := filterRows(rows, func(e model.LocationWeatherEntity) bool { return e.IsFavourite })
	sortByID(out)
	return out, nil
}

func (b *BoltStore) put(rows []model.LocationWeatherEntity) error {
	if len(rows) == 0 {
		return nil
	}
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(boltBucketWeather))
		for _, r := range rows {
			data, err := json.Marshal(&r)
			if err != nil {
				return err
			}
			if err := bucket.Put([]byte(r.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (b *BoltStore) all() ([]model.LocationWeatherEntity, error) {
	out := make([]model.LocationWeatherEntity, 0)
	err := b.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(boltBucketWeather)).ForEach(func(_, v []byte) error {
			var e model.LocationWeatherEntity
			if err := json.Unmarshal(v, &e); err != nil {
				return err
			}
			out = append(out, e)
			return nil
		})
	})
	return out, err
}
