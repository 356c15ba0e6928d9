// Package metrics computes derived values by folding over the immutable log
// and waste collections. Nothing here is ever stored.
package metrics

import (
	"time"

	"kaizen/internal/domain"
)

// TotalPoints sums points over all log entries. Zero-point clock events
// contribute nothing.
func TotalPoints(entries []domain.LogEntry) int {
	total := 0
	for _, entry := range entries {
		total += entry.Points
	}
	return total
}

// TotalWastePoints sums points over all waste entries.
func TotalWastePoints(entries []domain.WasteEntry) int {
	total := 0
	for _, entry := range entries {
		total += entry.Points
	}
	return total
}

// SessionElapsed returns the running session duration, or 0 when the space is
// not clocked in.
func SessionElapsed(s domain.Space, now time.Time) time.Duration {
	if !s.IsClockedIn || s.ClockInStartTime == nil {
		return 0
	}
	elapsed := now.Sub(*s.ClockInStartTime)
	if elapsed < 0 {
		return 0
	}
	return elapsed
}

// SessionPoints sums points over entries logged since clock-in, or 0 when the
// space is not clocked in.
func SessionPoints(s domain.Space, entries []domain.LogEntry) int {
	if !s.IsClockedIn || s.ClockInStartTime == nil {
		return 0
	}
	start := *s.ClockInStartTime
	total := 0
	for _, entry := range entries {
		if !entry.Timestamp.Before(start) {
			total += entry.Points
		}
	}
	return total
}

// PointsPerHour is the session rate. A zero or negative elapsed time yields
// 0, never NaN or infinity.
func PointsPerHour(points int, elapsed time.Duration) float64 {
	seconds := elapsed.Seconds()
	if seconds <= 0 {
		return 0
	}
	return float64(points) / (seconds / 3600)
}

// Summary bundles every derived metric for one space.
type Summary struct {
	TotalPoints           int     `json:"total_points"`
	TotalWastePoints      int     `json:"total_waste_points"`
	SessionPoints         int     `json:"session_points"`
	SessionElapsedSeconds int     `json:"session_elapsed_seconds"`
	PointsPerHour         float64 `json:"points_per_hour"`
	TotalClockedMinutes   int     `json:"total_clocked_minutes"`
	IsClockedIn           bool    `json:"is_clocked_in"`
}

// Compute folds the collections into a Summary.
func Compute(s domain.Space, logs []domain.LogEntry, waste []domain.WasteEntry, now time.Time) Summary {
	elapsed := SessionElapsed(s, now)
	sessionPoints := SessionPoints(s, logs)
	return Summary{
		TotalPoints:           TotalPoints(logs),
		TotalWastePoints:      TotalWastePoints(waste),
		SessionPoints:         sessionPoints,
		SessionElapsedSeconds: int(elapsed.Seconds()),
		PointsPerHour:         PointsPerHour(sessionPoints, elapsed),
		TotalClockedMinutes:   s.TotalClockedInTime,
		IsClockedIn:           s.IsClockedIn,
	}
}
