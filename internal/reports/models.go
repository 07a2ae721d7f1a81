package reports

import (
	"time"

	"github.com/fdg312/health-diary/internal/storage"
	"github.com/google/uuid"
)

// Report describes a generated export.
type Report struct {
	ID        uuid.UUID
	Format    string // "pdf" or "csv"
	From      time.Time
	To        time.Time
	ObjectKey *string
	SizeBytes int64
	CreatedBy string
	CreatedAt time.Time
	Data      []byte // local mode only
}

// DayRow is one line of an export.
type DayRow struct {
	Date            time.Time
	Calories        float64
	Protein         float64
	Carbs           float64
	Fat             float64
	WaterOz         float64
	ExerciseMinutes int
	CaloriesBurned  float64
	WeightKg        *float64
}

// Summary aggregates the rows of an export.
type Summary struct {
	Days            int
	LoggedDays      int
	AvgCalories     float64
	AvgProtein      float64
	AvgWaterOz      float64
	ExerciseMinutes int
	CaloriesBurned  float64
	WeightDelta     *float64
}

// CreateReportRequest is the request to create a new export.
type CreateReportRequest struct {
	From   string `json:"from" validate:"required"`
	To     string `json:"to" validate:"required"`
	Format string `json:"format" validate:"required,oneof=pdf csv"`
}

// ReportDTO is the response representation of a report
type ReportDTO struct {
	ID          uuid.UUID `json:"id"`
	Format      string    `json:"format"`
	From        string    `json:"from"`
	To          string    `json:"to"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedBy   string    `json:"created_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ReportsResponse is the list response
type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

const (
	FormatPDF = storage.ExportPDF
	FormatCSV = storage.ExportCSV
)

func contentType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}
