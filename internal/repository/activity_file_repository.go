package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/noah-isme/activity-insights-api/internal/models"
	appErrors "github.com/noah-isme/activity-insights-api/pkg/errors"
)

// ActivityFileRepository reads raw tracking records from the agent's JSON
// dump file (activity.json). It distinguishes a missing source from a
// malformed one so callers can surface the right failure.
type ActivityFileRepository struct {
	path string
}

// NewActivityFileRepository constructs a file-backed record source.
func NewActivityFileRepository(path string) *ActivityFileRepository {
	if path == "" {
		path = "activity.json"
	}
	return &ActivityFileRepository{path: path}
}

// Snapshot loads the full record collection from disk.
func (r *ActivityFileRepository) Snapshot(_ context.Context) ([]models.RawRecord, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Wrap(err, appErrors.ErrSourceNotFound.Code, appErrors.ErrSourceNotFound.Status,
				fmt.Sprintf("activity data file not found: %s", r.path))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status,
			fmt.Sprintf("read activity data file: %s", r.path))
	}

	var records []models.RawRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrSourceMalformed.Code, appErrors.ErrSourceMalformed.Status,
			fmt.Sprintf("invalid JSON in %s", r.path))
	}
	return records, nil
}
