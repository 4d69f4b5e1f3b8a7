package repository

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/activity-insights-api/pkg/errors"
)

func TestActivityFileRepositorySnapshot(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.json")
	payload := `[
		{"employee_id":"emp-1","start_time":"2025-01-01T09:00:00Z","duration_seconds":"enc-a","is_afk":"enc-b"},
		{"employee_id":"emp-2","start_time":"2025-01-02T10:00:00Z","duration_seconds":"enc-c","is_afk":"enc-d"}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	repo := NewActivityFileRepository(path)
	records, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "emp-1", records[0].EmployeeID)
	assert.Equal(t, "enc-c", records[1].DurationSeconds)
}

func TestActivityFileRepositoryNotFound(t *testing.T) {
	repo := NewActivityFileRepository(filepath.Join(t.TempDir(), "missing.json"))

	_, err := repo.Snapshot(context.Background())
	require.Error(t, err)

	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, appErrors.ErrSourceNotFound.Code, typed.Code)
}

func TestActivityFileRepositoryMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "activity.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	repo := NewActivityFileRepository(path)
	_, err := repo.Snapshot(context.Background())
	require.Error(t, err)

	var typed *appErrors.Error
	require.True(t, errors.As(err, &typed))
	assert.Equal(t, appErrors.ErrSourceMalformed.Code, typed.Code)
}
