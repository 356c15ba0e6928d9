package metrics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"kaizen/internal/domain"
	"kaizen/internal/metrics"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestTotalPoints(t *testing.T) {
	logs := []domain.LogEntry{
		{Points: 5, Type: domain.LogTypeAction},
		{Points: 0, Type: domain.LogTypeClockIn},
		{Points: 10, Type: domain.LogTypeQuestStep},
	}
	assert.Equal(t, 15, metrics.TotalPoints(logs))
	assert.Equal(t, 0, metrics.TotalPoints(nil))
}

func TestTotalWastePoints(t *testing.T) {
	waste := []domain.WasteEntry{{Points: 4}, {Points: 7}}
	assert.Equal(t, 11, metrics.TotalWastePoints(waste))
}

func TestSessionElapsed(t *testing.T) {
	start := epoch
	clockedIn := domain.Space{IsClockedIn: true, ClockInStartTime: &start}

	assert.Equal(t, 90*time.Minute, metrics.SessionElapsed(clockedIn, epoch.Add(90*time.Minute)))
	assert.Equal(t, time.Duration(0), metrics.SessionElapsed(domain.Space{}, epoch))
	// clock skew must not produce a negative duration
	assert.Equal(t, time.Duration(0), metrics.SessionElapsed(clockedIn, epoch.Add(-time.Minute)))
}

func TestSessionPointsFiltersBySessionStart(t *testing.T) {
	start := epoch.Add(time.Hour)
	s := domain.Space{IsClockedIn: true, ClockInStartTime: &start}
	logs := []domain.LogEntry{
		{Points: 5, Timestamp: epoch},                       // before the session
		{Points: 3, Timestamp: start},                       // at session start
		{Points: 7, Timestamp: start.Add(10 * time.Minute)}, // during
	}
	assert.Equal(t, 10, metrics.SessionPoints(s, logs))
	assert.Equal(t, 0, metrics.SessionPoints(domain.Space{}, logs))
}

func TestPointsPerHour(t *testing.T) {
	assert.InDelta(t, 20.0, metrics.PointsPerHour(10, 30*time.Minute), 1e-9)
	assert.Equal(t, 0.0, metrics.PointsPerHour(10, 0))
	assert.Equal(t, 0.0, metrics.PointsPerHour(10, -time.Minute))
}

func TestCompute(t *testing.T) {
	start := epoch
	s := domain.Space{
		IsClockedIn:        true,
		ClockInStartTime:   &start,
		TotalClockedInTime: 120,
	}
	logs := []domain.LogEntry{
		{Points: 5, Timestamp: epoch.Add(-time.Hour)},
		{Points: 10, Timestamp: epoch.Add(15 * time.Minute)},
	}
	waste := []domain.WasteEntry{{Points: 4}}

	sum := metrics.Compute(s, logs, waste, epoch.Add(30*time.Minute))
	assert.Equal(t, 15, sum.TotalPoints)
	assert.Equal(t, 4, sum.TotalWastePoints)
	assert.Equal(t, 10, sum.SessionPoints)
	assert.Equal(t, 1800, sum.SessionElapsedSeconds)
	assert.InDelta(t, 20.0, sum.PointsPerHour, 1e-9)
	assert.Equal(t, 120, sum.TotalClockedMinutes)
	assert.True(t, sum.IsClockedIn)
}
