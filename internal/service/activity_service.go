package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/activity-insights-api/internal/dto"
	"github.com/noah-isme/activity-insights-api/internal/models"
	appErrors "github.com/noah-isme/activity-insights-api/pkg/errors"
)

type recordSource interface {
	Snapshot(ctx context.Context) ([]models.RawRecord, error)
}

type recordValidator interface {
	Parse(raw models.RawRecord) (models.ActivityInterval, bool)
}

// ActivityServiceConfig tunes activity pipeline behaviour.
type ActivityServiceConfig struct {
	SourceDriver string
	CacheTTL     time.Duration
}

// ActivityService orchestrates the full tracking pipeline: load the raw
// record snapshot, filter it to the requested employee and date, decrypt and
// validate the survivors, then compute metrics over what remains.
type ActivityService struct {
	source       recordSource
	parser       recordValidator
	productivity *ProductivityService
	summary      *SummaryService
	cache        *CacheService
	metrics      *MetricsService
	validate     *validator.Validate
	logger       *zap.Logger
	cfg          ActivityServiceConfig
}

type activityQuery struct {
	EmployeeID string `validate:"required"`
	Date       string `validate:"required,tracking_date"`
}

// ActivityServiceParams groups constructor dependencies.
type ActivityServiceParams struct {
	Source       recordSource
	Parser       recordValidator
	Productivity *ProductivityService
	Summary      *SummaryService
	Cache        *CacheService
	Metrics      *MetricsService
	Validate     *validator.Validate
	Logger       *zap.Logger
	Config       ActivityServiceConfig
}

// NewActivityService constructs an ActivityService with sane defaults.
func NewActivityService(params ActivityServiceParams) *ActivityService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validate
	if validate == nil {
		validate = validator.New()
	}
	// Dates arrive as opaque strings; the calendar check lives here so both
	// HTTP and export paths share it.
	_ = validate.RegisterValidation("tracking_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	return &ActivityService{
		source:       params.Source,
		parser:       params.Parser,
		productivity: params.Productivity,
		summary:      params.Summary,
		cache:        params.Cache,
		metrics:      params.Metrics,
		validate:     validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// DailyMetrics computes metrics for one employee and date. It reports
// ErrNoActivityData when no interval for the pair survives validation.
func (s *ActivityService) DailyMetrics(ctx context.Context, employeeID, date string) (*dto.DailyMetricsResponse, bool, error) {
	if err := s.validateQuery(employeeID, date); err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("activity:daily:%s:%s", employeeID, date)
	if s.cache != nil {
		var cached dto.DailyMetricsResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	records, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}
	intervals := s.intervalsFor(records, employeeID, date)
	if len(intervals) == 0 {
		return nil, false, appErrors.Clone(appErrors.ErrNoActivityData,
			fmt.Sprintf("no activity data for employee %s on %s", employeeID, date))
	}

	resp := &dto.DailyMetricsResponse{
		EmployeeID: employeeID,
		Date:       date,
		Metrics:    s.productivity.ComputeDaily(intervals),
		TimeRange:  s.productivity.TimeRange(intervals),
	}
	s.persistCache(ctx, cacheKey, resp)
	return resp, false, nil
}

// Assessment computes metrics for one employee and date and derives the
// ordered qualitative assessments from them.
func (s *ActivityService) Assessment(ctx context.Context, employeeID, date string) (*dto.AssessmentResponse, bool, error) {
	if err := s.validateQuery(employeeID, date); err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("activity:assess:%s:%s", employeeID, date)
	if s.cache != nil {
		var cached dto.AssessmentResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	records, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}
	intervals := s.intervalsFor(records, employeeID, date)
	if len(intervals) == 0 {
		return nil, false, appErrors.Clone(appErrors.ErrNoActivityData,
			fmt.Sprintf("no activity data for employee %s on %s", employeeID, date))
	}

	metrics := s.productivity.ComputeDaily(intervals)
	resp := &dto.AssessmentResponse{
		EmployeeID:  employeeID,
		Date:        date,
		Metrics:     metrics,
		Assessments: s.productivity.Assess(metrics),
	}
	s.persistCache(ctx, cacheKey, resp)
	return resp, false, nil
}

// AvailableDates lists the distinct tracked dates for an employee in
// ascending order. Dates come from the raw records, so a date whose records
// all fail decryption still appears here.
func (s *ActivityService) AvailableDates(ctx context.Context, employeeID string) (*dto.AvailableDatesResponse, bool, error) {
	if employeeID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "employeeId is required")
	}

	cacheKey := fmt.Sprintf("activity:dates:%s", employeeID)
	if s.cache != nil {
		var cached dto.AvailableDatesResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	records, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}
	dates := availableDates(records, employeeID)

	resp := &dto.AvailableDatesResponse{
		EmployeeID: employeeID,
		Dates:      dates,
		TotalDays:  len(dates),
	}
	s.persistCache(ctx, cacheKey, resp)
	return resp, false, nil
}

// Summary aggregates metrics over every available date for an employee. Days
// where all records fail validation contribute zero metrics but still count
// toward the day total, so per-day averages stay honest. An employee with no
// records at all gets an empty summary, not an error.
func (s *ActivityService) Summary(ctx context.Context, employeeID string) (*dto.SummaryResponse, bool, error) {
	if employeeID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "employeeId is required")
	}

	cacheKey := fmt.Sprintf("activity:summary:%s", employeeID)
	if s.cache != nil {
		var cached dto.SummaryResponse
		if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
			return &cached, true, nil
		}
	}

	records, err := s.load(ctx)
	if err != nil {
		return nil, false, err
	}

	dates := availableDates(records, employeeID)
	byDate := make(map[string][]models.ActivityInterval)
	for _, raw := range records {
		if raw.EmployeeID != employeeID {
			continue
		}
		if interval, ok := s.parser.Parse(raw); ok {
			byDate[interval.Date()] = append(byDate[interval.Date()], interval)
		}
	}

	days := make([]models.DatedMetrics, 0, len(dates))
	for _, date := range dates {
		days = append(days, models.DatedMetrics{
			Date:    date,
			Metrics: s.productivity.ComputeDaily(byDate[date]),
		})
	}

	resp := &dto.SummaryResponse{
		EmployeeID: employeeID,
		Days:       days,
		Summary:    s.summary.Aggregate(days),
	}
	s.persistCache(ctx, cacheKey, resp)
	return resp, false, nil
}

func (s *ActivityService) load(ctx context.Context) ([]models.RawRecord, error) {
	start := time.Now()
	records, err := s.source.Snapshot(ctx)
	s.metrics.ObserveSourceLoad(s.cfg.SourceDriver, time.Since(start))
	if err != nil {
		s.logger.Error("record source snapshot failed",
			zap.String("driver", s.cfg.SourceDriver), zap.Error(err))
		return nil, err
	}
	return records, nil
}

// intervalsFor filters the snapshot to one employee and date, then runs the
// survivors through decryption and validation. Filtering happens on the raw
// shape so records for other employees are never decrypted.
func (s *ActivityService) intervalsFor(records []models.RawRecord, employeeID, date string) []models.ActivityInterval {
	var intervals []models.ActivityInterval
	for _, raw := range records {
		if raw.EmployeeID != employeeID || !strings.HasPrefix(raw.StartTime, date) {
			continue
		}
		if interval, ok := s.parser.Parse(raw); ok {
			intervals = append(intervals, interval)
		}
	}
	return intervals
}

func (s *ActivityService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("activity cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func availableDates(records []models.RawRecord, employeeID string) []string {
	seen := make(map[string]struct{})
	for _, raw := range records {
		if raw.EmployeeID != employeeID || len(raw.StartTime) < 10 {
			continue
		}
		seen[raw.StartTime[:10]] = struct{}{}
	}
	dates := make([]string, 0, len(seen))
	for date := range seen {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

func (s *ActivityService) validateQuery(employeeID, date string) error {
	err := s.validate.Struct(activityQuery{EmployeeID: employeeID, Date: date})
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		switch {
		case first.Field() == "EmployeeID":
			return appErrors.Clone(appErrors.ErrValidation, "employeeId is required")
		case first.Tag() == "required":
			return appErrors.Clone(appErrors.ErrValidation, "date is required")
		default:
			return appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, err.Error())
}
