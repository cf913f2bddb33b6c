package repository

import (
	"time"

	"gorm.io/gorm"

	"github.com/gemdesk/inventory-service/internal/export/domain"
)

type GormExportJobRepository struct {
	db *gorm.DB
}

func NewGormExportJobRepository(db *gorm.DB) *GormExportJobRepository {
	return &GormExportJobRepository{db: db}
}

func (r *GormExportJobRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.ExportJob{})
}

func (r *GormExportJobRepository) Create(job *domain.ExportJob) error {
	return r.db.Create(job).Error
}

func (r *GormExportJobRepository) FindByID(id string) (*domain.ExportJob, error) {
	var job domain.ExportJob
	err := r.db.First(&job, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *GormExportJobRepository) FindAll(limit, offset int) ([]domain.ExportJob, error) {
	var jobs []domain.ExportJob
	err := r.db.Order("created_at DESC, id").Limit(limit).Offset(offset).Find(&jobs).Error
	return jobs, err
}

// MarkProcessing moves a pending job to processing. The status guard in the
// WHERE clause makes the transition race-free: a cancelled job matches zero
// rows.
func (r *GormExportJobRepository) MarkProcessing(id string) (bool, error) {
	now := time.Now()
	result := r.db.Model(&domain.ExportJob{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]interface{}{
			"status":           domain.StatusProcessing,
			"started_at":       now,
			"last_progress_at": now,
		})
	return result.RowsAffected > 0, result.Error
}

// UpdateProgress bumps progress of a processing job. The progress guard
// keeps the value monotonic even under races.
func (r *GormExportJobRepository) UpdateProgress(id string, progress int) error {
	return r.db.Model(&domain.ExportJob{}).
		Where("id = ? AND status = ? AND progress <= ?", id, domain.StatusProcessing, progress).
		Updates(map[string]interface{}{
			"progress":         progress,
			"last_progress_at": time.Now(),
		}).Error
}

func (r *GormExportJobRepository) MarkCompleted(id string, downloadURL string, fileSize int64) (bool, error) {
	now := time.Now()
	result := r.db.Model(&domain.ExportJob{}).
		Where("id = ? AND status = ?", id, domain.StatusProcessing).
		Updates(map[string]interface{}{
			"status":           domain.StatusCompleted,
			"progress":         100,
			"completed_at":     now,
			"last_progress_at": now,
			"download_url":     downloadURL,
			"file_size":        fileSize,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *GormExportJobRepository) MarkFailed(id string, errorMessage string) (bool, error) {
	result := r.db.Model(&domain.ExportJob{}).
		Where("id = ? AND status IN ?", id, []string{domain.StatusPending, domain.StatusProcessing}).
		Updates(map[string]interface{}{
			"status":        domain.StatusFailed,
			"completed_at":  time.Now(),
			"error_message": errorMessage,
		})
	return result.RowsAffected > 0, result.Error
}

func (r *GormExportJobRepository) FindStale(cutoff time.Time) ([]domain.ExportJob, error) {
	var jobs []domain.ExportJob
	err := r.db.Where("status = ? AND last_progress_at < ?", domain.StatusProcessing, cutoff).
		Find(&jobs).Error
	return jobs, err
}
