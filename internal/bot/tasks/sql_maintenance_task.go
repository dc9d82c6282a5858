package tasks

import (
	"context"
	"fmt"
	"time"
)

// newSQLMaintenanceTask creates the scheduled task function that compacts and
// re-analyzes the message archive database.
func newSQLMaintenanceTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "sql_maintenance")

	return func(ctx context.Context) error {
		log.InfoContext(ctx, "Starting scheduled SQL maintenance task...")
		startTime := time.Now()

		err := deps.Store.RunMaintenance(ctx)

		duration := time.Since(startTime)
		if err != nil {
			log.ErrorContext(ctx, "SQL maintenance task failed", "error", err, "duration", duration)
			return fmt.Errorf("sql maintenance failed: %w", err)
		}

		count, err := deps.Store.CountMessages(ctx)
		if err != nil {
			// Maintenance itself succeeded; the size report is best-effort.
			log.WarnContext(ctx, "Could not count archived messages after maintenance", "error", err)
			count = -1
		}

		log.InfoContext(ctx, "Scheduled SQL maintenance task completed successfully",
			"duration", duration, "archived_messages", count)
		return nil
	}
}
