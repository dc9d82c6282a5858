// Package facts implements the persisted per-user remembered-facts store.
// The backing file is a single flat JSON object mapping user identifiers to
// ordered lists of free-text facts; the whole document is the unit of load
// and save, and the file is rewritten in full on every append.
package facts

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ErrEmptyFact is returned when an append is attempted with a fact that is
// empty after trimming.
var ErrEmptyFact = fmt.Errorf("fact is empty after trimming")

// Store owns the facts table. The mutex only protects in-process callers;
// concurrent processes sharing the file can still clobber each other's
// unsaved changes, which is an accepted limitation of the single-user
// assistant use case.
type Store struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	table map[string][]string
}

// NewStore creates a facts store backed by the JSON document at path. The
// file is not read until the first operation.
func NewStore(path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{
		path:   path,
		logger: logger.With("component", "facts_store"),
		table:  nil,
	}
}

// Append trims fact and adds it to userID's list, then rewrites the whole
// document. Identical facts may be recorded twice; entries are never edited
// or deduplicated. Returns ErrEmptyFact for blank input.
func (s *Store) Append(userID, fact string) error {
	trimmed := strings.TrimSpace(fact)
	if trimmed == "" {
		return ErrEmptyFact
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()
	s.table[userID] = append(s.table[userID], trimmed)

	if err := s.flush(); err != nil {
		s.logger.Error("Failed to save facts file", "path", s.path, "user_id", userID, "error", err)
		return fmt.Errorf("failed to save facts: %w", err)
	}

	s.logger.Debug("Fact saved", "user_id", userID, "fact_count", len(s.table[userID]))
	return nil
}

// List returns userID's facts in insertion order. The returned slice is a
// copy; mutating it does not affect the store.
func (s *Store) List(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()

	src := s.table[userID]
	if len(src) == 0 {
		return nil
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// Backup writes a timestamped copy of the current facts document into dir.
// Used by the scheduled facts_backup task.
func (s *Store) Backup(dir string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reload()

	data, err := json.MarshalIndent(s.table, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal facts for backup: %w", err)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	name := fmt.Sprintf("memories-%s.json", time.Now().UTC().Format("20060102-150405"))
	dest := filepath.Join(dir, name)
	if err := os.WriteFile(dest, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write backup file: %w", err)
	}

	return dest, nil
}

// reload reads the backing file into memory. A missing or malformed file
// degrades to an empty table, never an error. Callers must hold s.mu.
func (s *Store) reload() {
	s.table = make(map[string][]string)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Error("Failed to read facts file, starting empty", "path", s.path, "error", err)
		}
		return
	}

	if err := json.Unmarshal(data, &s.table); err != nil {
		s.logger.Error("Facts file contains invalid JSON, starting empty", "path", s.path, "error", err)
		s.table = make(map[string][]string)
	}
}

// flush rewrites the whole document. Callers must hold s.mu.
func (s *Store) flush() error {
	data, err := json.MarshalIndent(s.table, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal facts table: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create facts directory: %w", err)
		}
	}

	return os.WriteFile(s.path, data, 0o644)
}
