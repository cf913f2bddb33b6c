package domain

import (
	"time"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// ValidFormat reports whether f is a supported export format
func ValidFormat(f string) bool {
	return f == FormatCSV || f == FormatJSON
}

// Exportable data types
const (
	DataTypeItems      = "items"
	DataTypeCategories = "categories"
	DataTypeMovements  = "movements"
	DataTypeAlerts     = "alerts"
)

// ValidDataType reports whether t is an exportable data type
func ValidDataType(t string) bool {
	switch t {
	case DataTypeItems, DataTypeCategories, DataTypeMovements, DataTypeAlerts:
		return true
	}
	return false
}

// Job statuses. pending is the only initial state; completed and failed are
// terminal, no transition leaves them.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// CanTransition reports whether the job state machine allows from -> to
func CanTransition(from, to string) bool {
	switch from {
	case StatusPending:
		return to == StatusProcessing || to == StatusFailed
	case StatusProcessing:
		return to == StatusCompleted || to == StatusFailed
	}
	return false
}

// IsTerminal reports whether status is an absorbing state
func IsTerminal(status string) bool {
	return status == StatusCompleted || status == StatusFailed
}

// ErrorMessageCancelled marks jobs failed by an explicit cancel request
const ErrorMessageCancelled = "cancelled"

// DateRange bounds the exported movements; zero values mean unbounded
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ExportJob is one asynchronous export unit of work. Only the worker
// executing the job mutates it; pollers read it.
type ExportJob struct {
	ID             string     `json:"id" gorm:"primaryKey;size:36"`
	Format         string     `json:"format" gorm:"not null"`
	DataTypes      []string   `json:"data_types" gorm:"serializer:json"`
	DateRange      DateRange  `json:"date_range" gorm:"embedded;embeddedPrefix:range_"`
	Status         string     `json:"status" gorm:"not null;default:'pending';index"`
	Progress       int        `json:"progress" gorm:"not null;default:0"`
	CreatedBy      string     `json:"created_by"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
	LastProgressAt time.Time  `json:"last_progress_at"`
	DownloadURL    string     `json:"download_url,omitempty"`
	FileSize       int64      `json:"file_size,omitempty"`
	ErrorMessage   string     `json:"error_message,omitempty"`
}

// TableName specifies the table name
func (ExportJob) TableName() string {
	return "export_jobs"
}

// IsTerminal reports whether the job reached an absorbing state
func (j *ExportJob) IsTerminal() bool {
	return IsTerminal(j.Status)
}

// ExportJobRepository defines the contract for export job persistence. The
// guarded mutations enforce the state machine at the storage layer: a
// transition not allowed from the current state affects zero rows.
type ExportJobRepository interface {
	Create(job *ExportJob) error
	FindByID(id string) (*ExportJob, error)
	FindAll(limit, offset int) ([]ExportJob, error)
	// MarkProcessing moves a pending job to processing; returns false when
	// the job is no longer pending
	MarkProcessing(id string) (bool, error)
	// UpdateProgress bumps progress of a processing job; decreases are
	// ignored so progress stays monotonic
	UpdateProgress(id string, progress int) error
	// MarkCompleted finishes a processing job
	MarkCompleted(id string, downloadURL string, fileSize int64) (bool, error)
	// MarkFailed fails a pending or processing job; returns false when the
	// job already reached a terminal state
	MarkFailed(id string, errorMessage string) (bool, error)
	// FindStale returns processing jobs with no progress since the cutoff
	FindStale(cutoff time.Time) ([]ExportJob, error)
}
