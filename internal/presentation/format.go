package presentation

import (
	"fmt"
	"math"
	"time"
)

const (
	kelvinOffset = 273.15
	// differences closer than this to a whole degree are that degree
	kelvinSnap = 1e-9

	forecastTimeLayout = "2006-01-02 15:04:05"
	undefinedDay       = "undefined"
)

// ConvertKelvinToCelsius renders k as whole degrees Celsius, truncated toward zero.
func ConvertKelvinToCelsius(k float64) string {
	c := k - kelvinOffset
	if r := math.Round(c); math.Abs(c-r) < kelvinSnap {
		c = r
	}
	return fmt.Sprintf("%d°", int(c))
}

// DayOfWeek turns a forecast time such as "2023-11-15 03:00:00" into "Wednesday".
func DayOfWeek(ts string) string {
	t, err := time.Parse(forecastTimeLayout, ts)
	if err != nil {
		return undefinedDay
	}
	return t.Weekday().String()
}

// DistinctByDay keeps the first entry of each day, preserving order.
func DistinctByDay(items []ForecastPresentation) []ForecastPresentation {
	seen := make(map[string]struct{}, len(items))
	out := make([]ForecastPresentation, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.DayOfTheWeek]; ok {
			continue
		}
		seen[it.DayOfTheWeek] = struct{}{}
		out = append(out, it)
	}
	return out
}
