package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/activity-insights-api/internal/dto"
	"github.com/noah-isme/activity-insights-api/internal/models"
	"github.com/noah-isme/activity-insights-api/pkg/storage"
)

type fakeSummaryProvider struct {
	resp *dto.SummaryResponse
	err  error
}

func (f *fakeSummaryProvider) Summary(context.Context, string) (*dto.SummaryResponse, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	return f.resp, false, nil
}

func testSummaryResponse() *dto.SummaryResponse {
	return &dto.SummaryResponse{
		EmployeeID: "emp-1",
		Days: []models.DatedMetrics{
			{Date: "2024-03-01", Metrics: models.DailyMetrics{
				TotalHours: 8, ActiveHours: 6, InactiveHours: 2, AFKHours: 2,
				ActivityRate: 75, InactivityRate: 25, AFKRate: 25, TotalRecords: 16,
			}},
			{Date: "2024-03-02", Metrics: models.DailyMetrics{
				TotalHours: 4, ActiveHours: 4, ActivityRate: 100, TotalRecords: 8,
			}},
		},
		Summary: models.AggregateSummary{
			TotalDays:           2,
			TotalActiveHours:    10,
			TotalTrackedHours:   12,
			TotalInactiveHours:  2,
			TotalAFKHours:       2,
			AvgActiveHours:      5,
			AvgTotalHours:       6,
			AvgInactiveHours:    1,
			AvgAFKHours:         1,
			OverallActivityRate: 10.0 / 12.0 * 100,
		},
	}
}

func newTestExportService(t *testing.T, provider summaryProvider) *ExportService {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("test-secret", time.Hour)
	return NewExportService(provider, store, signer, ExportConfig{APIPrefix: "/api/v1"}, zap.NewNop(), nil, nil)
}

func productivityJob(format models.ReportFormat) *models.ReportJob {
	return &models.ReportJob{
		ID:     "job-1",
		Type:   models.ReportTypeProductivity,
		Params: models.ReportJobParams{EmployeeID: "emp-1", Format: format},
	}
}

func TestGenerateCSVReport(t *testing.T) {
	svc := newTestExportService(t, &fakeSummaryProvider{resp: testSummaryResponse()})

	result, err := svc.Generate(context.Background(), productivityJob(models.ReportFormatCSV))

	require.NoError(t, err)
	assert.Equal(t, models.ReportFormatCSV, result.Format)
	assert.True(t, strings.HasSuffix(result.RelativePath, ".csv"))
	assert.True(t, strings.HasPrefix(result.URL, "/api/v1/export/"))
	assert.NotEmpty(t, result.Token)

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	payload, err := os.ReadFile(file.Name())
	require.NoError(t, err)

	content := string(payload)
	assert.Contains(t, content, "Date,Total Hours,Active Hours,Inactive Hours,AFK Hours")
	assert.Contains(t, content, "2024-03-01,8.00,6.00,2.00,2.00,75.0,25.0,25.0,16")
	assert.Contains(t, content, "TOTAL,12.00,10.00,2.00,2.00")
	assert.Contains(t, content, "AVERAGE,6.00,5.00,1.00,1.00,83.3")
}

func TestGeneratePDFReport(t *testing.T) {
	svc := newTestExportService(t, &fakeSummaryProvider{resp: testSummaryResponse()})

	result, err := svc.Generate(context.Background(), productivityJob(models.ReportFormatPDF))

	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(result.RelativePath, ".pdf"))

	file, err := svc.Open(result.RelativePath)
	require.NoError(t, err)
	defer file.Close()
	header := make([]byte, 5)
	_, err = file.Read(header)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-", string(header))
}

func TestGenerateRejectsUnsupportedFormat(t *testing.T) {
	svc := newTestExportService(t, &fakeSummaryProvider{resp: testSummaryResponse()})

	_, err := svc.Generate(context.Background(), productivityJob(models.ReportFormat("xlsx")))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestGenerateRejectsUnsupportedType(t *testing.T) {
	svc := newTestExportService(t, &fakeSummaryProvider{resp: testSummaryResponse()})

	job := productivityJob(models.ReportFormatCSV)
	job.Type = models.ReportType("attendance")
	_, err := svc.Generate(context.Background(), job)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported report type")
}

func TestGeneratePropagatesSummaryError(t *testing.T) {
	svc := newTestExportService(t, &fakeSummaryProvider{err: assert.AnError})

	_, err := svc.Generate(context.Background(), productivityJob(models.ReportFormatCSV))

	assert.ErrorIs(t, err, assert.AnError)
}

func TestGenerateTokenRoundTrip(t *testing.T) {
	svc := newTestExportService(t, &fakeSummaryProvider{resp: testSummaryResponse()})

	result, err := svc.Generate(context.Background(), productivityJob(models.ReportFormatCSV))
	require.NoError(t, err)

	jobID, relPath, expiresAt, err := svc.ParseToken(result.Token, false)
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)
	assert.Equal(t, result.RelativePath, relPath)
	assert.True(t, expiresAt.After(time.Now()))
}
