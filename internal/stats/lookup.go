package stats

import (
	"github.com/2beens/workoutplanner/internal/workout"
)

// LatestLog returns the most recent entry of exerciseID.
func LatestLog(logs []workout.LogEntry, exerciseID string) (workout.LogEntry, bool) {
	return latestWhere(logs, func(e workout.LogEntry) bool {
		return e.ExerciseID == exerciseID
	})
}

// LatestLogBefore returns the most recent entry of exerciseID dated strictly
// before beforeISO.
func LatestLogBefore(logs []workout.LogEntry, exerciseID, beforeISO string) (workout.LogEntry, bool) {
	return latestWhere(logs, func(e workout.LogEntry) bool {
		return e.ExerciseID == exerciseID && e.DateISO < beforeISO
	})
}

// LogOnDate returns the first entry of exerciseID logged on dateISO.
func LogOnDate(logs []workout.LogEntry, exerciseID, dateISO string) (workout.LogEntry, bool) {
	for _, e := range logs {
		if e.ExerciseID == exerciseID && e.DateISO == dateISO {
			return e, true
		}
	}
	return workout.LogEntry{}, false
}

func latestWhere(logs []workout.LogEntry, match func(workout.LogEntry) bool) (workout.LogEntry, bool) {
	var (
		latest workout.LogEntry
		found  bool
	)
	for _, e := range logs {
		if !match(e) {
			continue
		}
		if !found || e.DateISO > latest.DateISO {
			latest = e
			found = true
		}
	}
	return latest, found
}
