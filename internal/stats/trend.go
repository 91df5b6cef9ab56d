package stats

import (
	"slices"
	"strings"
	"time"

	"github.com/2beens/workoutplanner/internal/calendar"
	"github.com/2beens/workoutplanner/internal/workout"
)

type Direction string

const (
	DirectionUp               Direction = "up"
	DirectionDown             Direction = "down"
	DirectionStable           Direction = "stable"
	DirectionInsufficientData Direction = "insufficient_data"
)

// trendThreshold is the change, in percent, above which a trend is not stable.
const trendThreshold = 5.0

type Trend struct {
	Direction     Direction `json:"direction"`
	ChangePercent *float64  `json:"changePercent,omitempty"`
	DataPoints    int       `json:"dataPoints"`
	PeriodDays    int       `json:"periodDays"`
}

// ProgressTrend compares the first and second half of the per-entry values
// logged for exercise in the last days days, counted from today.
func ProgressTrend(exercise workout.Exercise, logs []workout.LogEntry, days int, today time.Time) Trend {
	cutoffISO := calendar.FormatISO(calendar.Midnight(today).AddDate(0, 0, -days))

	var recent []workout.LogEntry
	for _, e := range logs {
		if e.ExerciseID == exercise.ID && e.DateISO >= cutoffISO {
			recent = append(recent, e)
		}
	}
	slices.SortStableFunc(recent, func(a, b workout.LogEntry) int {
		return strings.Compare(a.DateISO, b.DateISO)
	})

	points := make([]float64, 0, len(recent))
	for _, e := range recent {
		v, ok := EntryValue(exercise.Type, e)
		if !ok || v <= 0 {
			continue
		}
		points = append(points, v)
	}

	trend := Trend{
		Direction:  DirectionInsufficientData,
		DataPoints: len(points),
		PeriodDays: days,
	}
	if len(points) < 2 {
		return trend
	}

	half := len(points) / 2
	firstAvg := average(points[:half])
	secondAvg := average(points[half:])
	change := (secondAvg - firstAvg) / firstAvg * 100

	switch {
	case change > trendThreshold:
		trend.Direction = DirectionUp
	case change < -trendThreshold:
		trend.Direction = DirectionDown
	default:
		trend.Direction = DirectionStable
	}
	rounded := round1(change)
	trend.ChangePercent = &rounded
	return trend
}

func average(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
