package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/fakhrymubarak/weather-forecast/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS weather_table (
	id TEXT PRIMARY KEY NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	timestamp INTEGER NOT NULL DEFAULT 0,
	time_forecast TEXT,
	lat REAL NOT NULL,
	lon REAL NOT NULL,
	weather_type TEXT NOT NULL,
	weather_type_description TEXT NOT NULL,
	temp REAL NOT NULL,
	temp_min REAL NOT NULL,
	temp_max REAL NOT NULL,
	is_favourite INTEGER NOT NULL DEFAULT 0
);`

const selectColumns = `SELECT id, name, timestamp, time_forecast, lat, lon, weather_type,
	weather_type_description, temp, temp_min, temp_max, is_favourite FROM weather_table`

// SQLiteStore keeps weather_table in a single SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// one writer keeps upserts serialised
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertCurrentWeather(ctx context.Context, rows []model.LocationWeatherEntity) error {
	return s.upsert(ctx, rows)
}

func (s *SQLiteStore) InsertWeatherForecast(ctx context.Context, rows []model.LocationWeatherEntity) error {
	return s.upsert(ctx, rows)
}

func (s *SQLiteStore) InsertLocationToFavourites(ctx context.Context, rows []model.LocationWeatherEntity) error {
	return s.upsert(ctx, rows)
}

func (s *SQLiteStore) FindCurrentWeather(ctx context.Context) ([]model.LocationWeatherEntity, error) {
	return s.query(ctx, selectColumns+` WHERE id = ?`, model.CurrentWeatherID)
}

func (s *SQLiteStore) WeatherForecast(ctx context.Context) ([]model.LocationWeatherEntity, error) {
	return s.query(ctx, selectColumns+` WHERE id <> ? AND is_favourite = 0
		ORDER BY COALESCE(time_forecast, ''), id`, model.CurrentWeatherID)
}

func (s *SQLiteStore) FindFavourites(ctx context.Context) ([]model.LocationWeatherEntity, error) {
	return s.query(ctx, selectColumns+` WHERE is_favourite = 1 ORDER BY id`)
}

func (s *SQLiteStore) upsert(ctx context.Context, rows []model.LocationWeatherEntity) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO weather_table
		(id, name, timestamp, time_forecast, lat, lon, weather_type, weather_type_description,
		 temp, temp_min, temp_max, is_favourite)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, r := range rows {
		var timeForecast sql.NullString
		if r.TimeForecast != nil {
			timeForecast = sql.NullString{String: *r.TimeForecast, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, r.ID, r.Name, r.Timestamp, timeForecast, r.Lat, r.Lon,
			r.WeatherType, r.WeatherTypeDescription, r.Temp, r.TempMin, r.TempMax, r.IsFavourite); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("upsert %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

func (s *SQLiteStore) query(ctx context.Context, q string, args ...any) ([]model.LocationWeatherEntity, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.LocationWeatherEntity, 0)
	for rows.Next() {
		var (
			e            model.LocationWeatherEntity
			timeForecast sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.Name, &e.Timestamp, &timeForecast, &e.Lat, &e.Lon,
			&e.WeatherType, &e.WeatherTypeDescription, &e.Temp, &e.TempMin, &e.TempMax, &e.IsFavourite); err != nil {
			return nil, err
		}
		if timeForecast.Valid {
			v := timeForecast.String
			e.TimeForecast = &v
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
