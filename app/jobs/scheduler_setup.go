package jobs

import (
	"context"

	"mdbase/core/config"
	"mdbase/core/logger"
	"mdbase/core/scheduler"

	"gorm.io/gorm"
)

// SetupScheduler registers all scheduled jobs with the cron scheduler
func SetupScheduler(db *gorm.DB, cfg *config.Config, logger logger.Logger) *scheduler.CronScheduler {
	cronScheduler := scheduler.NewCronScheduler(logger)

	purgeJob := NewDocumentPurgeJob(db, logger, cfg.DocumentRetentionDays)

	// Runs nightly, well outside interactive hours.
	err := cronScheduler.RegisterTask(&scheduler.CronTask{
		Name:        "documents_purge",
		Description: "Hard-delete documents soft-deleted longer ago than the retention window",
		CronExpr:    "0 3 * * *",
		Handler: func(ctx context.Context) error {
			return purgeJob.Execute(ctx)
		},
		Enabled: true,
	})
	if err != nil {
		logger.Error("failed to register documents purge job")
	}

	return cronScheduler
}
