package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Shakir788/cortexV3/internal/config"
	"github.com/Shakir788/cortexV3/internal/database"
	"github.com/Shakir788/cortexV3/internal/facts"
)

type fakeStore struct {
	database.Store
	maintenanceErr   error
	maintenanceCalls int
	count            int64
	countErr         error
	countCalls       int
}

func (f *fakeStore) RunMaintenance(context.Context) error {
	f.maintenanceCalls++
	return f.maintenanceErr
}

func (f *fakeStore) CountMessages(context.Context) (int64, error) {
	f.countCalls++
	return f.count, f.countErr
}

func testDeps(t *testing.T, store *fakeStore) TaskDeps {
	t.Helper()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	factsPath := filepath.Join(t.TempDir(), "memories.json")
	return TaskDeps{
		Logger:     log,
		Store:      store,
		FactsStore: facts.NewStore(factsPath, log),
		Config: &config.Config{
			Storage: config.StorageConfig{
				FactsPath: factsPath,
				BackupDir: filepath.Join(t.TempDir(), "backups"),
			},
		},
	}
}

func TestRegisterAllTasks(t *testing.T) {
	t.Parallel()

	taskMap := RegisterAllTasks(testDeps(t, &fakeStore{}))

	for _, name := range []string{"sql_maintenance", "facts_backup"} {
		if _, ok := taskMap[name]; !ok {
			t.Errorf("RegisterAllTasks() missing task %q", name)
		}
	}
}

func TestSQLMaintenanceTask(t *testing.T) {
	t.Parallel()

	t.Run("delegates to the store and reports the archive size", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{count: 42}
		task := newSQLMaintenanceTask(testDeps(t, store))

		if err := task(context.Background()); err != nil {
			t.Fatalf("task error = %v", err)
		}
		if store.maintenanceCalls != 1 {
			t.Errorf("RunMaintenance calls = %d, want 1", store.maintenanceCalls)
		}
		if store.countCalls != 1 {
			t.Errorf("CountMessages calls = %d, want 1", store.countCalls)
		}
	})

	t.Run("propagates failures", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{maintenanceErr: errors.New("disk full")}
		task := newSQLMaintenanceTask(testDeps(t, store))

		if err := task(context.Background()); err == nil {
			t.Fatal("task error = nil, want the store failure")
		}
		if store.countCalls != 0 {
			t.Errorf("CountMessages calls = %d, want 0 when maintenance fails", store.countCalls)
		}
	})

	t.Run("count failure does not fail the task", func(t *testing.T) {
		t.Parallel()

		store := &fakeStore{countErr: errors.New("locked")}
		task := newSQLMaintenanceTask(testDeps(t, store))

		if err := task(context.Background()); err != nil {
			t.Fatalf("task error = %v, want nil when only the count fails", err)
		}
	})
}

func TestFactsBackupTask(t *testing.T) {
	t.Parallel()

	deps := testDeps(t, &fakeStore{})
	if err := deps.FactsStore.Append("u1", "backup me"); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	task := newFactsBackupTask(deps)
	if err := task(context.Background()); err != nil {
		t.Fatalf("task error = %v", err)
	}

	entries, err := os.ReadDir(deps.Config.Storage.BackupDir)
	if err != nil {
		t.Fatalf("failed to read backup dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("backup dir has %d entries, want 1", len(entries))
	}
}
