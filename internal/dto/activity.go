package dto

import "github.com/noah-isme/activity-insights-api/internal/models"

// DailyMetricsResponse carries computed metrics for one employee and date.
type DailyMetricsResponse struct {
	EmployeeID string              `json:"employee_id"`
	Date       string              `json:"date"`
	Metrics    models.DailyMetrics `json:"metrics"`
	TimeRange  TimeRange           `json:"time_range"`
}

// TimeRange reports the first and last interval start of a tracked day in
// 12-hour clock notation, or "N/A" when no data exists.
type TimeRange struct {
	Started string `json:"started"`
	Ended   string `json:"ended"`
}

// AssessmentResponse pairs daily metrics with their ordered qualitative
// assessments: total hours first, then activity rate, then inactivity.
type AssessmentResponse struct {
	EmployeeID  string              `json:"employee_id"`
	Date        string              `json:"date"`
	Metrics     models.DailyMetrics `json:"metrics"`
	Assessments []models.Assessment `json:"assessments"`
}

// AvailableDatesResponse lists the distinct tracked dates for one employee.
type AvailableDatesResponse struct {
	EmployeeID string   `json:"employee_id"`
	Dates      []string `json:"dates"`
	TotalDays  int      `json:"total_days"`
}

// SummaryResponse folds per-day metrics across all available dates.
type SummaryResponse struct {
	EmployeeID string                  `json:"employee_id"`
	Days       []models.DatedMetrics   `json:"days"`
	Summary    models.AggregateSummary `json:"summary"`
}
