package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Shakir788/cortexV3/internal/config"
)

// minimalYAML carries only the values without defaults; everything else must
// come from setDefaults.
const minimalYAML = `
whatsapp:
  verify_token: "verify-secret"
  access_token: "wa-token"
  phone_number_id: "12345"
ai:
  token: "ai-token"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, minimalYAML))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.AssistantName != "Cortex" {
		t.Errorf("AssistantName = %q, want default Cortex", cfg.AssistantName)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want default 5000", cfg.Server.Port)
	}
	if cfg.History.MaxTurns != 10 {
		t.Errorf("History.MaxTurns = %d, want default 10", cfg.History.MaxTurns)
	}
	if cfg.AI.BaseURL != "https://openrouter.ai/api/v1" {
		t.Errorf("AI.BaseURL = %q, want the OpenRouter default", cfg.AI.BaseURL)
	}
	if cfg.AI.Timeout != 2*time.Minute {
		t.Errorf("AI.Timeout = %v, want default 2m", cfg.AI.Timeout)
	}
	if cfg.AI.MaxToolRounds != 1 {
		t.Errorf("AI.MaxToolRounds = %d, want default 1", cfg.AI.MaxToolRounds)
	}
	if cfg.Media.Vision != "openai" || cfg.Media.Transcriber != "disabled" {
		t.Errorf("Media = %+v, want openai vision and disabled transcriber", cfg.Media)
	}
	if cfg.Messages.GeneralError == "" {
		t.Error("Messages.GeneralError is empty, want a default reply text")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, minimalYAML+`
server:
  port: 8080
logger:
  level: "debug"
history:
  max_turns: 20
`))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want override 8080", cfg.Server.Port)
	}
	if cfg.Logger.Level != "debug" {
		t.Errorf("Logger.Level = %q, want override debug", cfg.Logger.Level)
	}
	if cfg.History.MaxTurns != 20 {
		t.Errorf("History.MaxTurns = %d, want override 20", cfg.History.MaxTurns)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing whatsapp credentials",
			yaml: `
ai:
  token: "ai-token"
`,
		},
		{
			name: "missing ai token",
			yaml: `
whatsapp:
  verify_token: "a"
  access_token: "b"
  phone_number_id: "c"
`,
		},
		{
			name: "invalid log level",
			yaml: minimalYAML + `
logger:
  level: "verbose"
`,
		},
		{
			name: "invalid port",
			yaml: minimalYAML + `
server:
  port: 99999
`,
		},
		{
			name: "invalid media strategy",
			yaml: minimalYAML + `
media:
  vision: "azure"
`,
		},
		{
			name: "gemini strategy without api key",
			yaml: minimalYAML + `
media:
  transcriber: "gemini"
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, tt.yaml))
			if err == nil {
				t.Fatal("Load() error = nil, want validation error")
			}
			if !errors.Is(err, config.ErrConfiguration) {
				t.Errorf("Load() error = %v, want it to wrap ErrConfiguration", err)
			}
		})
	}
}

func TestLoadMissingFileUsesDefaultsAndEnv(t *testing.T) {
	t.Setenv("BOT_WHATSAPP_VERIFY_TOKEN", "env-verify")
	t.Setenv("BOT_WHATSAPP_ACCESS_TOKEN", "env-access")
	t.Setenv("BOT_WHATSAPP_PHONE_NUMBER_ID", "env-phone")
	t.Setenv("BOT_AI_TOKEN", "env-ai")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.WhatsApp.VerifyToken != "env-verify" {
		t.Errorf("VerifyToken = %q, want the env value", cfg.WhatsApp.VerifyToken)
	}
	if cfg.AI.Token != "env-ai" {
		t.Errorf("AI.Token = %q, want the env value", cfg.AI.Token)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want default 5000", cfg.Server.Port)
	}
}
