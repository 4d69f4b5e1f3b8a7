package dto

import (
	"time"

	"github.com/noah-isme/activity-insights-api/internal/models"
)

// ReportRequest queues an asynchronous productivity export.
type ReportRequest struct {
	EmployeeID string              `json:"employeeId" binding:"required"`
	Format     models.ReportFormat `json:"format" binding:"required,oneof=csv pdf"`
}

// ReportJobResponse acknowledges a queued job.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job lifecycle details.
type ReportStatusResponse struct {
	ID           string              `json:"id"`
	Type         models.ReportType   `json:"type"`
	Status       models.ReportStatus `json:"status"`
	Progress     int                 `json:"progress"`
	ResultURL    *string             `json:"result_url,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	FinishedAt   *time.Time          `json:"finished_at,omitempty"`
	ErrorMessage *string             `json:"error_message,omitempty"`
}
