package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func newActivityRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestActivityRepositorySnapshot(t *testing.T) {
	db, mock, cleanup := newActivityRepoMock(t)
	defer cleanup()

	repo := NewActivityRepository(db)
	rows := sqlmock.NewRows([]string{"employee_id", "start_time", "duration_seconds", "is_afk"}).
		AddRow("emp-1", "2025-01-01T09:00:00Z", "enc-duration", "enc-afk").
		AddRow("emp-2", "2025-01-01T09:05:00Z", "enc-duration-2", "enc-afk-2")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT employee_id, start_time, duration_seconds, is_afk")).
		WillReturnRows(rows)

	records, err := repo.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)
	require.Equal(t, "emp-1", records[0].EmployeeID)
	require.Equal(t, "2025-01-01T09:00:00Z", records[0].StartTime)
	require.Equal(t, "enc-duration", records[0].DurationSeconds)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityRepositorySnapshotError(t *testing.T) {
	db, mock, cleanup := newActivityRepoMock(t)
	defer cleanup()

	repo := NewActivityRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT employee_id, start_time, duration_seconds, is_afk")).
		WillReturnError(context.DeadlineExceeded)

	_, err := repo.Snapshot(context.Background())
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
