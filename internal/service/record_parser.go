package service

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/activity-insights-api/internal/models"
)

// FieldDecryptor decrypts one opaque record field.
type FieldDecryptor interface {
	Decrypt(field string) (string, error)
}

// RecordParser turns a raw tracking record into a validated activity
// interval. Raw data is never trusted past this boundary: any decryption or
// parse failure drops the record with a warning and processing continues.
type RecordParser struct {
	decryptor FieldDecryptor
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewRecordParser constructs a parser around the given decryptor.
func NewRecordParser(decryptor FieldDecryptor, metrics *MetricsService, logger *zap.Logger) *RecordParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordParser{decryptor: decryptor, metrics: metrics, logger: logger}
}

// Parse decrypts and validates a single record. The boolean reports whether
// the record survived; a false return means it contributes nothing downstream.
func (p *RecordParser) Parse(raw models.RawRecord) (models.ActivityInterval, bool) {
	durationStr, err := p.decryptor.Decrypt(raw.DurationSeconds)
	if err != nil {
		p.drop(raw, "duration_decrypt_failed", err)
		return models.ActivityInterval{}, false
	}

	afkStr, err := p.decryptor.Decrypt(raw.IsAFK)
	if err != nil {
		p.drop(raw, "afk_decrypt_failed", err)
		return models.ActivityInterval{}, false
	}

	duration, err := strconv.ParseFloat(strings.TrimSpace(durationStr), 64)
	if err != nil {
		p.drop(raw, "duration_not_numeric", err)
		return models.ActivityInterval{}, false
	}

	// Anything other than "true" (any casing) is a plain active interval;
	// a garbled flag is a permissive default, not a validation error.
	isAFK := strings.EqualFold(strings.TrimSpace(afkStr), "true")

	return models.ActivityInterval{
		StartTime:       raw.StartTime,
		DurationSeconds: duration,
		IsAFK:           isAFK,
	}, true
}

func (p *RecordParser) drop(raw models.RawRecord, reason string, err error) {
	if p.metrics != nil {
		p.metrics.IncRecordsDropped(reason)
	}
	p.logger.Warn("dropping activity record",
		zap.String("employee_id", raw.EmployeeID),
		zap.String("start_time", raw.StartTime),
		zap.String("reason", reason),
		zap.Error(err),
	)
}
