package service

import (
	"go.uber.org/zap"

	"github.com/noah-isme/activity-insights-api/internal/models"
)

// SummaryService folds per-day metrics across a date range. It does not
// decide which days to include; it aggregates exactly what it is given, so
// days with zero records still count toward the day total when supplied.
type SummaryService struct {
	logger *zap.Logger
}

// NewSummaryService constructs the service.
func NewSummaryService(logger *zap.Logger) *SummaryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SummaryService{logger: logger}
}

// Aggregate sums the hour quantities across all supplied days and derives
// per-day averages plus the overall activity rate. The overall rate is the
// ratio of summed active to summed tracked hours; averaging the per-day
// rates would overweight short days.
func (s *SummaryService) Aggregate(days []models.DatedMetrics) models.AggregateSummary {
	summary := models.AggregateSummary{TotalDays: len(days)}

	for _, day := range days {
		summary.TotalActiveHours += day.Metrics.ActiveHours
		summary.TotalTrackedHours += day.Metrics.TotalHours
		summary.TotalInactiveHours += day.Metrics.InactiveHours
		summary.TotalAFKHours += day.Metrics.AFKHours
	}

	if summary.TotalDays > 0 {
		totalDays := float64(summary.TotalDays)
		summary.AvgActiveHours = summary.TotalActiveHours / totalDays
		summary.AvgTotalHours = summary.TotalTrackedHours / totalDays
		summary.AvgInactiveHours = summary.TotalInactiveHours / totalDays
		summary.AvgAFKHours = summary.TotalAFKHours / totalDays
	}

	if summary.TotalTrackedHours > 0 {
		summary.OverallActivityRate = summary.TotalActiveHours / summary.TotalTrackedHours * 100
	}

	return summary
}
