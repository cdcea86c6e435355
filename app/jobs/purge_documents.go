package jobs

import (
	"context"
	"fmt"
	"time"

	"mdbase/app/models"
	"mdbase/core/logger"

	"gorm.io/gorm"
)

// DocumentPurgeJob hard-deletes documents whose soft-delete timestamp is
// older than the retention window. Until then a deleted document can still
// be restored by clearing its timestamp.
type DocumentPurgeJob struct {
	DB            *gorm.DB
	Logger        logger.Logger
	RetentionDays int
}

func NewDocumentPurgeJob(db *gorm.DB, logger logger.Logger, retentionDays int) *DocumentPurgeJob {
	if retentionDays <= 0 {
		retentionDays = 30
	}
	return &DocumentPurgeJob{
		DB:            db,
		Logger:        logger,
		RetentionDays: retentionDays,
	}
}

// Execute removes expired soft-deleted documents and reports how many rows
// went away.
func (j *DocumentPurgeJob) Execute(ctx context.Context) error {
	cutoff := time.Now().AddDate(0, 0, -j.RetentionDays)

	result := j.DB.WithContext(ctx).Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&models.Document{})
	if result.Error != nil {
		return fmt.Errorf("failed to purge documents: %w", result.Error)
	}

	if result.RowsAffected > 0 {
		j.Logger.Info("purged soft-deleted documents",
			logger.Int64("count", result.RowsAffected),
			logger.Int("retention_days", j.RetentionDays))
	}

	return nil
}
