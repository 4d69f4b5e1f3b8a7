package models

// RawRecord is one activity-tracking record exactly as stored by the tracking
// agent. The duration and AFK flag are opaque encrypted strings; nothing in
// this shape is trusted until it passes the parser.
type RawRecord struct {
	EmployeeID      string `db:"employee_id" json:"employee_id"`
	StartTime       string `db:"start_time" json:"start_time"`
	DurationSeconds string `db:"duration_seconds" json:"duration_seconds"`
	IsAFK           string `db:"is_afk" json:"is_afk"`
}

// ActivityInterval is a validated, decrypted tracking interval. Instances
// exist only when both encrypted fields decrypted and the duration parsed.
type ActivityInterval struct {
	StartTime       string  `json:"start_time"`
	DurationSeconds float64 `json:"duration_seconds"`
	IsAFK           bool    `json:"is_afk"`
}

// Date returns the calendar date portion (YYYY-MM-DD) of the interval start.
func (i ActivityInterval) Date() string {
	if len(i.StartTime) < 10 {
		return i.StartTime
	}
	return i.StartTime[:10]
}

// DailyMetrics summarises one employee's tracked time for a single date.
//
// InactiveHours is defined as TotalHours-ActiveHours, which equals AFKHours
// exactly because active time is itself derived from the AFK flag. The two
// fields are kept distinct for report compatibility with the tracking agent's
// historical output; treat InactiveHours as an alias of AFKHours until the
// agent emits an independent idle signal.
type DailyMetrics struct {
	TotalHours     float64 `json:"total_hours"`
	ActiveHours    float64 `json:"active_hours"`
	InactiveHours  float64 `json:"inactive_hours"`
	AFKHours       float64 `json:"afk_hours"`
	ActivityRate   float64 `json:"activity_rate"`
	InactivityRate float64 `json:"inactivity_rate"`
	AFKRate        float64 `json:"afk_rate"`
	TotalRecords   int     `json:"total_records"`
}

// DatedMetrics pairs computed daily metrics with their calendar date for
// multi-date aggregation.
type DatedMetrics struct {
	Date    string       `json:"date"`
	Metrics DailyMetrics `json:"metrics"`
}

// AssessmentLevel is a qualitative productivity tier.
type AssessmentLevel string

const (
	LevelExcellent AssessmentLevel = "EXCELLENT"
	LevelGood      AssessmentLevel = "GOOD"
	LevelPoor      AssessmentLevel = "POOR"
)

// Assessment is one tiered judgement over a daily metric.
type Assessment struct {
	Metric  string          `json:"metric"`
	Level   AssessmentLevel `json:"level"`
	Value   float64         `json:"value"`
	Message string          `json:"message"`
}

// AggregateSummary folds per-day metrics across a date range. The overall
// activity rate is a ratio of summed hours, not an average of per-day rates,
// so days with unequal tracked time weigh correctly.
type AggregateSummary struct {
	TotalDays           int     `json:"total_days"`
	TotalActiveHours    float64 `json:"total_active_hours"`
	TotalTrackedHours   float64 `json:"total_tracked_hours"`
	TotalInactiveHours  float64 `json:"total_inactive_hours"`
	TotalAFKHours       float64 `json:"total_afk_hours"`
	AvgActiveHours      float64 `json:"avg_active_hours"`
	AvgTotalHours       float64 `json:"avg_total_hours"`
	AvgInactiveHours    float64 `json:"avg_inactive_hours"`
	AvgAFKHours         float64 `json:"avg_afk_hours"`
	OverallActivityRate float64 `json:"overall_activity_rate"`
}
