// Package profile loads the static user profile that seeds the assistant's
// system prompt and the !profile/!dream command replies.
package profile

import (
	"encoding/json"
	"log/slog"
	"os"
)

// Default field values used when profile.json is missing or incomplete.
const (
	DefaultName        = "Mohammad"
	DefaultPersonality = "Caring and supportive"
	DefaultSkills      = "Coding, Designing, etc."
	DefaultInterests   = "Khud ki company, Marvel, Old songs, AI."
	DefaultDreamsGoals = "Ek successful app/AI banana aur apne bhai ko proud feel karana."
)

// Profile is the fixed per-installation user record. It is loaded once at
// process start and read-only thereafter.
type Profile struct {
	Name        string `json:"name"`
	Personality string `json:"personality"`
	Skills      string `json:"skills"`
	Interests   string `json:"interests"`
	DreamsGoals string `json:"dreams_goals"`
}

// Load reads the profile document from path. A missing or malformed file
// degrades to the documented defaults and is never a fatal error; individual
// missing fields fall back to their defaults as well.
func Load(path string, log *slog.Logger) *Profile {
	p := &Profile{}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info("Profile file not found, using defaults", "path", path)
		} else {
			log.Error("Failed to read profile file, using defaults", "path", path, "error", err)
		}
		p.applyDefaults()
		return p
	}

	if err := json.Unmarshal(data, p); err != nil {
		log.Error("Profile file contains invalid JSON, using defaults", "path", path, "error", err)
		*p = Profile{}
	}

	p.applyDefaults()
	log.Debug("Profile loaded", "path", path, "name", p.Name)
	return p
}

func (p *Profile) applyDefaults() {
	if p.Name == "" {
		p.Name = DefaultName
	}
	if p.Personality == "" {
		p.Personality = DefaultPersonality
	}
	if p.Skills == "" {
		p.Skills = DefaultSkills
	}
	if p.Interests == "" {
		p.Interests = DefaultInterests
	}
	if p.DreamsGoals == "" {
		p.DreamsGoals = DefaultDreamsGoals
	}
}
