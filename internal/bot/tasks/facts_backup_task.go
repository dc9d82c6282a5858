package tasks

import (
	"context"
	"fmt"
	"time"
)

// newFactsBackupTask creates the scheduled task function that copies the
// learned-facts file into the configured backup directory.
func newFactsBackupTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "facts_backup")
	backupDir := deps.Config.Storage.BackupDir

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled facts backup task...", "backup_dir", backupDir)
		startTime := time.Now()

		path, err := deps.FactsStore.Backup(backupDir)

		duration := time.Since(startTime)
		if err != nil {
			log.ErrorContext(ctx, "Facts backup task failed", "error", err, "duration", duration)
			return fmt.Errorf("facts backup failed: %w", err)
		}

		log.InfoContext(ctx, "Scheduled facts backup task completed successfully", "path", path, "duration", duration)
		return nil
	}
}
