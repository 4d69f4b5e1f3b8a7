package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/activity-insights-api/internal/dto"
	"github.com/noah-isme/activity-insights-api/internal/models"
	"github.com/noah-isme/activity-insights-api/internal/service"
	appErrors "github.com/noah-isme/activity-insights-api/pkg/errors"
)

type reportServiceMock struct {
	createResp  *dto.ReportJobResponse
	createErr   error
	statusResp  *dto.ReportStatusResponse
	statusErr   error
	download    *service.ReportDownload
	downloadErr error
}

func (m *reportServiceMock) CreateJob(context.Context, dto.ReportRequest) (*dto.ReportJobResponse, error) {
	return m.createResp, m.createErr
}

func (m *reportServiceMock) GetStatus(context.Context, string) (*dto.ReportStatusResponse, error) {
	return m.statusResp, m.statusErr
}

func (m *reportServiceMock) ResolveDownload(context.Context, string) (*service.ReportDownload, error) {
	return m.download, m.downloadErr
}

func newGinJSONContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func TestReportHandlerGenerateReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{
		createResp: &dto.ReportJobResponse{ID: "job-1", Status: models.ReportStatusQueued, Progress: 0},
	})

	payload, _ := json.Marshal(dto.ReportRequest{EmployeeID: "emp-1", Format: models.ReportFormatCSV})
	c, w := newGinJSONContext(http.MethodPost, "/reports", payload)

	h.GenerateReport(c)

	require.Equal(t, http.StatusAccepted, w.Code)
	envelope := decodeEnvelope(t, w)
	data, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "job-1", data["id"])
	assert.Equal(t, string(models.ReportStatusQueued), data["status"])
}

func TestReportHandlerGenerateReportRejectsBadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{})

	cases := []string{
		`{}`,
		`{"employeeId":"emp-1"}`,
		`{"employeeId":"emp-1","format":"xlsx"}`,
		`not json`,
	}
	for _, body := range cases {
		c, w := newGinJSONContext(http.MethodPost, "/reports", []byte(body))

		h.GenerateReport(c)

		assert.Equalf(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestReportHandlerReportStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{
		statusResp: &dto.ReportStatusResponse{ID: "job-1", Status: models.ReportStatusFinished, Progress: 100},
	})

	c, w := newGinJSONContext(http.MethodGet, "/reports/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	h.ReportStatus(c)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestReportHandlerReportStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{statusErr: appErrors.ErrNotFound})

	c, w := newGinJSONContext(http.MethodGet, "/reports/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.ReportStatus(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerDownloadReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	file, err := os.CreateTemp(t.TempDir(), "report*.csv")
	require.NoError(t, err)
	_, _ = file.WriteString("Date,Total Hours\n2024-03-01,8.00\n")
	_, _ = file.Seek(0, 0)

	h := NewReportHandler(&reportServiceMock{
		download: &service.ReportDownload{
			File:      file,
			Filename:  "report.csv",
			Format:    models.ReportFormatCSV,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	})

	c, w := newGinJSONContext(http.MethodGet, "/export/token", nil)
	c.Params = gin.Params{{Key: "token", Value: "token"}}

	h.DownloadReport(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "report.csv")
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "2024-03-01,8.00")
}

func TestReportHandlerDownloadReportInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewReportHandler(&reportServiceMock{
		downloadErr: appErrors.Clone(appErrors.ErrValidation, "invalid or expired download token"),
	})

	c, w := newGinJSONContext(http.MethodGet, "/export/bogus", nil)
	c.Params = gin.Params{{Key: "token", Value: "bogus"}}

	h.DownloadReport(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}
