// Package tasks implements the scheduled background tasks of the assistant:
// database maintenance and facts-file backups.
package tasks

import (
	"log/slog"

	"github.com/Shakir788/cortexV3/internal/config"
	"github.com/Shakir788/cortexV3/internal/database"
	"github.com/Shakir788/cortexV3/internal/facts"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger     *slog.Logger
	Store      database.Store
	FactsStore *facts.Store
	Config     *config.Config
}
