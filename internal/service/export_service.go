package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/activity-insights-api/internal/dto"
	"github.com/noah-isme/activity-insights-api/internal/models"
	"github.com/noah-isme/activity-insights-api/pkg/export"
	"github.com/noah-isme/activity-insights-api/pkg/storage"
)

type summaryProvider interface {
	Summary(ctx context.Context, employeeID string) (*dto.SummaryResponse, bool, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
}

type tableRenderer interface {
	Render(table export.Table) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	ExpiresAt    time.Time
}

// ExportService renders productivity summaries into downloadable files. One
// row per tracked day plus a totals-and-averages footer mirroring the
// aggregate summary.
type ExportService struct {
	activity summaryProvider
	storage  fileStorage
	csv      tableRenderer
	pdf      tableRenderer
	signer   *storage.SignedURLSigner
	logger   *zap.Logger
	cfg      ExportConfig
}

// NewExportService constructs an ExportService.
func NewExportService(activity summaryProvider, store fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger, csv, pdf tableRenderer) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		activity: activity,
		storage:  store,
		csv:      csv,
		pdf:      pdf,
		signer:   signer,
		logger:   logger,
		cfg:      cfg,
	}
}

// Generate builds the export for a job and stores the rendered file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, fmt.Errorf("job nil")
	}
	table, err := s.buildTable(ctx, job)
	if err != nil {
		return nil, err
	}

	var payload []byte
	switch job.Params.Format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(table)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(table)
	default:
		err = fmt.Errorf("unsupported format %s", job.Params.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          fmt.Sprintf("%s/export/%s", prefix, token),
		Format:       job.Params.Format,
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

func (s *ExportService) buildTable(ctx context.Context, job *models.ReportJob) (export.Table, error) {
	switch job.Type {
	case models.ReportTypeProductivity:
		return s.buildProductivityTable(ctx, job.Params)
	default:
		return export.Table{}, fmt.Errorf("unsupported report type %s", job.Type)
	}
}

func (s *ExportService) buildProductivityTable(ctx context.Context, params models.ReportJobParams) (export.Table, error) {
	summary, _, err := s.activity.Summary(ctx, params.EmployeeID)
	if err != nil {
		return export.Table{}, err
	}

	rows := make([][]string, 0, len(summary.Days))
	for _, day := range summary.Days {
		m := day.Metrics
		rows = append(rows, []string{
			day.Date,
			fmt.Sprintf("%.2f", m.TotalHours),
			fmt.Sprintf("%.2f", m.ActiveHours),
			fmt.Sprintf("%.2f", m.InactiveHours),
			fmt.Sprintf("%.2f", m.AFKHours),
			fmt.Sprintf("%.1f", m.ActivityRate),
			fmt.Sprintf("%.1f", m.InactivityRate),
			fmt.Sprintf("%.1f", m.AFKRate),
			fmt.Sprintf("%d", m.TotalRecords),
		})
	}

	agg := summary.Summary
	footer := [][]string{
		{"TOTAL",
			fmt.Sprintf("%.2f", agg.TotalTrackedHours),
			fmt.Sprintf("%.2f", agg.TotalActiveHours),
			fmt.Sprintf("%.2f", agg.TotalInactiveHours),
			fmt.Sprintf("%.2f", agg.TotalAFKHours),
			"", "", "", fmt.Sprintf("%d days", agg.TotalDays)},
		{"AVERAGE",
			fmt.Sprintf("%.2f", agg.AvgTotalHours),
			fmt.Sprintf("%.2f", agg.AvgActiveHours),
			fmt.Sprintf("%.2f", agg.AvgInactiveHours),
			fmt.Sprintf("%.2f", agg.AvgAFKHours),
			fmt.Sprintf("%.1f", agg.OverallActivityRate),
			"", "", ""},
	}

	return export.Table{
		Title:   fmt.Sprintf("Productivity Report %s", params.EmployeeID),
		Headers: []string{"Date", "Total Hours", "Active Hours", "Inactive Hours", "AFK Hours", "Activity Rate %", "Inactivity Rate %", "AFK Rate %", "Records"},
		Rows:    rows,
		Footer:  footer,
	}, nil
}

func (s *ExportService) buildFilename(job *models.ReportJob) string {
	timestamp := time.Now().UTC().Format("20060102_150405")
	employeePart := sanitizeFilename(job.Params.EmployeeID)
	return fmt.Sprintf("%s_%s_%s.%s", strings.ToLower(string(job.Type)), employeePart, timestamp, job.Params.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "na"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}
