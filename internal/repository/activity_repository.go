package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/activity-insights-api/internal/models"
)

// ActivityRepository reads raw tracking records from PostgreSQL. Records are
// returned exactly as stored; decryption and validation happen downstream.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository instantiates the repository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Snapshot returns the full record collection ordered by start time. One bulk
// read per report request; callers reuse the slice across date queries.
func (r *ActivityRepository) Snapshot(ctx context.Context) ([]models.RawRecord, error) {
	const query = `SELECT employee_id, start_time, duration_seconds, is_afk
FROM activity_records ORDER BY start_time ASC`
	var records []models.RawRecord
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("query activity records: %w", err)
	}
	return records, nil
}
