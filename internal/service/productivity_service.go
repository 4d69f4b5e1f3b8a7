package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/activity-insights-api/internal/dto"
	"github.com/noah-isme/activity-insights-api/internal/models"
)

const secondsPerHour = 3600

// Productivity tier thresholds. Boundary values belong to the better tier.
const (
	totalHoursExcellent = 8.0
	totalHoursGood      = 6.0

	activityRateExcellent = 80.0
	activityRateGood      = 60.0

	inactivityRateExcellent = 20.0
	inactivityRateGood      = 40.0
)

// ProductivityService reduces validated intervals into daily summary
// statistics and derives tiered qualitative assessments from them. All
// methods are pure functions of their input.
type ProductivityService struct {
	logger *zap.Logger
}

// NewProductivityService constructs the service.
func NewProductivityService(logger *zap.Logger) *ProductivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductivityService{logger: logger}
}

// ComputeDaily folds an interval collection into daily metrics. An empty
// input yields all-zero metrics; that is a defined base case, not an error.
// Values are trusted arithmetically: upstream parsing is the only gate.
func (s *ProductivityService) ComputeDaily(intervals []models.ActivityInterval) models.DailyMetrics {
	if len(intervals) == 0 {
		return models.DailyMetrics{}
	}

	var totalSeconds, afkSeconds float64
	for _, interval := range intervals {
		totalSeconds += interval.DurationSeconds
		if interval.IsAFK {
			afkSeconds += interval.DurationSeconds
		}
	}
	activeSeconds := totalSeconds - afkSeconds

	totalHours := totalSeconds / secondsPerHour
	afkHours := afkSeconds / secondsPerHour
	activeHours := activeSeconds / secondsPerHour
	inactiveHours := totalHours - activeHours

	var activityRate, inactivityRate, afkRate float64
	if totalSeconds > 0 {
		activityRate = activeSeconds / totalSeconds * 100
	}
	if totalHours > 0 {
		inactivityRate = inactiveHours / totalHours * 100
		afkRate = afkHours / totalHours * 100
	}

	return models.DailyMetrics{
		TotalHours:     totalHours,
		ActiveHours:    activeHours,
		InactiveHours:  inactiveHours,
		AFKHours:       afkHours,
		ActivityRate:   activityRate,
		InactivityRate: inactivityRate,
		AFKRate:        afkRate,
		TotalRecords:   len(intervals),
	}
}

// Assess derives the three ordered judgements: total hours first, then
// activity rate, then inactivity rate.
func (s *ProductivityService) Assess(metrics models.DailyMetrics) []models.Assessment {
	assessments := make([]models.Assessment, 0, 3)

	var totalLevel models.AssessmentLevel
	var totalMsg string
	switch {
	case metrics.TotalHours >= totalHoursExcellent:
		totalLevel = models.LevelExcellent
		totalMsg = fmt.Sprintf("Full work day tracked (%.1fh) - committed work schedule", metrics.TotalHours)
	case metrics.TotalHours >= totalHoursGood:
		totalLevel = models.LevelGood
		totalMsg = fmt.Sprintf("Substantial work time (%.1fh) - good productivity window", metrics.TotalHours)
	default:
		totalLevel = models.LevelPoor
		totalMsg = fmt.Sprintf("Limited work time (%.1fh) - short work sessions", metrics.TotalHours)
	}
	assessments = append(assessments, models.Assessment{
		Metric:  "total_hours",
		Level:   totalLevel,
		Value:   metrics.TotalHours,
		Message: totalMsg,
	})

	var activityLevel models.AssessmentLevel
	var activityMsg string
	switch {
	case metrics.ActivityRate >= activityRateExcellent:
		activityLevel = models.LevelExcellent
		activityMsg = fmt.Sprintf("Excellent activity rate (%.1f%%) - highly focused work", metrics.ActivityRate)
	case metrics.ActivityRate >= activityRateGood:
		activityLevel = models.LevelGood
		activityMsg = fmt.Sprintf("Good activity rate (%.1f%%) - productive work sessions", metrics.ActivityRate)
	default:
		activityLevel = models.LevelPoor
		activityMsg = fmt.Sprintf("Low activity rate (%.1f%%) - high distraction levels", metrics.ActivityRate)
	}
	assessments = append(assessments, models.Assessment{
		Metric:  "activity_rate",
		Level:   activityLevel,
		Value:   metrics.ActivityRate,
		Message: activityMsg,
	})

	var inactivityLevel models.AssessmentLevel
	var inactivityMsg string
	switch {
	case metrics.InactivityRate <= inactivityRateExcellent:
		inactivityLevel = models.LevelExcellent
		inactivityMsg = fmt.Sprintf("Low inactivity (%.1f%%) - efficient time usage", metrics.InactivityRate)
	case metrics.InactivityRate <= inactivityRateGood:
		inactivityLevel = models.LevelGood
		inactivityMsg = fmt.Sprintf("Moderate inactivity (%.1f%%) - room for improvement", metrics.InactivityRate)
	default:
		inactivityLevel = models.LevelPoor
		inactivityMsg = fmt.Sprintf("High inactivity (%.1f%%) - significant time loss", metrics.InactivityRate)
	}
	assessments = append(assessments, models.Assessment{
		Metric:  "inactivity_rate",
		Level:   inactivityLevel,
		Value:   metrics.InactivityRate,
		Message: inactivityMsg,
	})

	return assessments
}

// TimeRange reports the first and last interval start of a tracked day in
// 12-hour clock notation.
func (s *ProductivityService) TimeRange(intervals []models.ActivityInterval) dto.TimeRange {
	if len(intervals) == 0 {
		return dto.TimeRange{Started: "N/A", Ended: "N/A"}
	}

	earliest := intervals[0].StartTime
	latest := intervals[0].StartTime
	for _, interval := range intervals[1:] {
		if interval.StartTime < earliest {
			earliest = interval.StartTime
		}
		if interval.StartTime > latest {
			latest = interval.StartTime
		}
	}

	started, err := formatClock(earliest)
	if err != nil {
		s.logger.Warn("failed to parse interval start time", zap.String("start_time", earliest), zap.Error(err))
		return dto.TimeRange{Started: "Invalid", Ended: "Invalid"}
	}
	ended, err := formatClock(latest)
	if err != nil {
		s.logger.Warn("failed to parse interval start time", zap.String("start_time", latest), zap.Error(err))
		return dto.TimeRange{Started: "Invalid", Ended: "Invalid"}
	}

	return dto.TimeRange{Started: started, Ended: ended}
}

func formatClock(timestamp string) (string, error) {
	parsed, err := time.Parse(time.RFC3339Nano, timestamp)
	if err != nil {
		// Some agents omit the offset entirely.
		parsed, err = time.Parse("2006-01-02T15:04:05", timestamp)
		if err != nil {
			return "", err
		}
	}
	return parsed.Format("03:04 PM"), nil
}
