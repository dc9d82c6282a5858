package profile_test

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Shakir788/cortexV3/internal/profile"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	p := profile.Load(filepath.Join(t.TempDir(), "missing.json"), discardLogger())

	if p.Name != profile.DefaultName {
		t.Errorf("Name = %q, want default %q", p.Name, profile.DefaultName)
	}
	if p.DreamsGoals != profile.DefaultDreamsGoals {
		t.Errorf("DreamsGoals = %q, want default", p.DreamsGoals)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.json")
	if err := os.WriteFile(path, []byte("{broken"), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	p := profile.Load(path, discardLogger())
	if p.Name != profile.DefaultName {
		t.Errorf("Name = %q, want default after malformed load", p.Name)
	}
}

func TestLoadPartialFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "profile.json")
	doc := `{"name": "Asha", "skills": "Photography"}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("failed to seed file: %v", err)
	}

	p := profile.Load(path, discardLogger())
	if p.Name != "Asha" {
		t.Errorf("Name = %q, want the file value", p.Name)
	}
	if p.Skills != "Photography" {
		t.Errorf("Skills = %q, want the file value", p.Skills)
	}
	if p.Personality != profile.DefaultPersonality {
		t.Errorf("Personality = %q, want default for missing field", p.Personality)
	}
	if p.Interests != profile.DefaultInterests {
		t.Errorf("Interests = %q, want default for missing field", p.Interests)
	}
}
