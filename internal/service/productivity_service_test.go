package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/activity-insights-api/internal/models"
)

func interval(start string, seconds float64, afk bool) models.ActivityInterval {
	return models.ActivityInterval{StartTime: start, DurationSeconds: seconds, IsAFK: afk}
}

func TestComputeDailySplitsActiveAndAFK(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	metrics := svc.ComputeDaily([]models.ActivityInterval{
		interval("2024-03-01T09:00:00", 3600, false),
		interval("2024-03-01T10:00:00", 3600, true),
	})

	assert.InDelta(t, 2.0, metrics.TotalHours, 1e-9)
	assert.InDelta(t, 1.0, metrics.ActiveHours, 1e-9)
	assert.InDelta(t, 1.0, metrics.AFKHours, 1e-9)
	assert.InDelta(t, 1.0, metrics.InactiveHours, 1e-9)
	assert.InDelta(t, 50.0, metrics.ActivityRate, 1e-9)
	assert.InDelta(t, 50.0, metrics.InactivityRate, 1e-9)
	assert.InDelta(t, 50.0, metrics.AFKRate, 1e-9)
	assert.Equal(t, 2, metrics.TotalRecords)
}

func TestComputeDailyEmptyInputYieldsZeros(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	metrics := svc.ComputeDaily(nil)

	assert.Zero(t, metrics.TotalHours)
	assert.Zero(t, metrics.ActivityRate)
	assert.Zero(t, metrics.InactivityRate)
	assert.Zero(t, metrics.AFKRate)
	assert.Zero(t, metrics.TotalRecords)
}

func TestComputeDailyIdentities(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	cases := []struct {
		name      string
		intervals []models.ActivityInterval
	}{
		{"all active", []models.ActivityInterval{
			interval("2024-03-01T09:00:00", 1800, false),
			interval("2024-03-01T09:30:00", 5400, false),
		}},
		{"all afk", []models.ActivityInterval{
			interval("2024-03-01T09:00:00", 900, true),
			interval("2024-03-01T09:15:00", 2700, true),
		}},
		{"mixed", []models.ActivityInterval{
			interval("2024-03-01T09:00:00", 1234.5, false),
			interval("2024-03-01T10:00:00", 678.9, true),
			interval("2024-03-01T11:00:00", 4321, false),
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			metrics := svc.ComputeDaily(tc.intervals)

			assert.InDelta(t, metrics.TotalHours, metrics.ActiveHours+metrics.InactiveHours, 1e-9)
			assert.InDelta(t, metrics.AFKHours, metrics.InactiveHours, 1e-9)
			assert.GreaterOrEqual(t, metrics.ActivityRate, 0.0)
			assert.LessOrEqual(t, metrics.ActivityRate, 100.0)
			assert.GreaterOrEqual(t, metrics.InactivityRate, 0.0)
			assert.LessOrEqual(t, metrics.InactivityRate, 100.0)
			assert.InDelta(t, 100.0, metrics.ActivityRate+metrics.InactivityRate, 1e-9)
		})
	}
}

func TestAssessOrderAndMetricNames(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	assessments := svc.Assess(models.DailyMetrics{TotalHours: 8, ActivityRate: 85, InactivityRate: 15})

	require.Len(t, assessments, 3)
	assert.Equal(t, "total_hours", assessments[0].Metric)
	assert.Equal(t, "activity_rate", assessments[1].Metric)
	assert.Equal(t, "inactivity_rate", assessments[2].Metric)
}

func TestAssessTotalHoursTiers(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	cases := []struct {
		hours float64
		level models.AssessmentLevel
	}{
		{8.0, models.LevelExcellent},
		{9.5, models.LevelExcellent},
		{7.999, models.LevelGood},
		{6.0, models.LevelGood},
		{5.999, models.LevelPoor},
		{0, models.LevelPoor},
	}

	for _, tc := range cases {
		got := svc.Assess(models.DailyMetrics{TotalHours: tc.hours})[0]
		assert.Equalf(t, tc.level, got.Level, "total hours %v", tc.hours)
		assert.Equal(t, tc.hours, got.Value)
	}
}

func TestAssessActivityRateTiers(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	cases := []struct {
		rate  float64
		level models.AssessmentLevel
	}{
		{100, models.LevelExcellent},
		{80.0, models.LevelExcellent},
		{79.999, models.LevelGood},
		{60.0, models.LevelGood},
		{59.999, models.LevelPoor},
		{0, models.LevelPoor},
	}

	for _, tc := range cases {
		got := svc.Assess(models.DailyMetrics{ActivityRate: tc.rate})[1]
		assert.Equalf(t, tc.level, got.Level, "activity rate %v", tc.rate)
	}
}

func TestAssessInactivityRateTiers(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	cases := []struct {
		rate  float64
		level models.AssessmentLevel
	}{
		{0, models.LevelExcellent},
		{20.0, models.LevelExcellent},
		{20.001, models.LevelGood},
		{40.0, models.LevelGood},
		{40.001, models.LevelPoor},
		{100, models.LevelPoor},
	}

	for _, tc := range cases {
		got := svc.Assess(models.DailyMetrics{InactivityRate: tc.rate})[2]
		assert.Equalf(t, tc.level, got.Level, "inactivity rate %v", tc.rate)
	}
}

func TestAssessMessagesEmbedValues(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	assessments := svc.Assess(models.DailyMetrics{TotalHours: 8.25, ActivityRate: 85.5, InactivityRate: 14.5})

	assert.Equal(t, "Full work day tracked (8.2h) - committed work schedule", assessments[0].Message)
	assert.Equal(t, "Excellent activity rate (85.5%) - highly focused work", assessments[1].Message)
	assert.Equal(t, "Low inactivity (14.5%) - efficient time usage", assessments[2].Message)
}

func TestTimeRangeEmptyInput(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	tr := svc.TimeRange(nil)

	assert.Equal(t, "N/A", tr.Started)
	assert.Equal(t, "N/A", tr.Ended)
}

func TestTimeRangeFormatsTwelveHourClock(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	tr := svc.TimeRange([]models.ActivityInterval{
		interval("2024-03-01T14:30:00", 600, false),
		interval("2024-03-01T08:05:00", 600, false),
		interval("2024-03-01T11:00:00", 600, true),
	})

	assert.Equal(t, "08:05 AM", tr.Started)
	assert.Equal(t, "02:30 PM", tr.Ended)
}

func TestTimeRangeHandlesOffsetsAndFractions(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	tr := svc.TimeRange([]models.ActivityInterval{
		interval("2024-03-01T09:15:42.123456+07:00", 600, false),
	})

	assert.Equal(t, "09:15 AM", tr.Started)
	assert.Equal(t, "09:15 AM", tr.Ended)
}

func TestTimeRangeUnparseableTimestamp(t *testing.T) {
	svc := NewProductivityService(zap.NewNop())

	tr := svc.TimeRange([]models.ActivityInterval{
		interval("not-a-timestamp", 600, false),
	})

	assert.Equal(t, "Invalid", tr.Started)
	assert.Equal(t, "Invalid", tr.Ended)
}
