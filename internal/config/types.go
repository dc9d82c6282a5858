// Package config provides configuration loading and validation for the
// CortexV3 WhatsApp assistant. Values come from defaults, an optional
// config.yaml, and BOT_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"time"
)

var ErrConfiguration = errors.New("configuration error")

// LoggerConfig controls log output.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"required,oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// ServerConfig controls the webhook HTTP listener.
type ServerConfig struct {
	Bind string `mapstructure:"bind" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lte=65535"`
}

// WhatsAppConfig holds the Cloud API credentials and endpoint parameters.
type WhatsAppConfig struct {
	VerifyToken   string `mapstructure:"verify_token"    validate:"required"`
	AccessToken   string `mapstructure:"access_token"    validate:"required"`
	PhoneNumberID string `mapstructure:"phone_number_id" validate:"required"`
	APIBaseURL    string `mapstructure:"api_base_url"    validate:"required,url"`
	APIVersion    string `mapstructure:"api_version"     validate:"required"`
}

// AIConfig holds the chat completion endpoint parameters. The endpoint is
// OpenAI-compatible (OpenRouter by default).
type AIConfig struct {
	Token         string        `mapstructure:"token"           validate:"required"`
	BaseURL       string        `mapstructure:"base_url"        validate:"required,url"`
	Model         string        `mapstructure:"model"           validate:"required"`
	Temperature   float32       `mapstructure:"temperature"     validate:"min=0,max=2"`
	Timeout       time.Duration `mapstructure:"timeout"         validate:"required,min=1s,max=10m"`
	MaxToolRounds int           `mapstructure:"max_tool_rounds" validate:"min=0,max=5"`
}

// GeminiConfig holds credentials for the optional Gemini media backend.
// APIKey is required only when a gemini strategy is selected in MediaConfig.
type GeminiConfig struct {
	APIKey            string `mapstructure:"api_key"`
	Model             string `mapstructure:"model"`
	MaxRetries        int    `mapstructure:"max_retries"         validate:"min=0,max=5"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"min=0,max=60"`
}

// MediaConfig selects the vision and transcription strategies.
type MediaConfig struct {
	Vision      string `mapstructure:"vision"      validate:"required,oneof=openai gemini"`
	Transcriber string `mapstructure:"transcriber" validate:"required,oneof=openai gemini disabled"`
}

// ToolsConfig controls the callable tools offered to the model.
type ToolsConfig struct {
	WebSearchEnabled bool `mapstructure:"websearch_enabled"`
}

// StorageConfig holds paths for the on-disk state files.
type StorageConfig struct {
	ProfilePath string `mapstructure:"profile_path" validate:"required"`
	FactsPath   string `mapstructure:"facts_path"   validate:"required"`
	DBPath      string `mapstructure:"db_path"      validate:"required"`
	BackupDir   string `mapstructure:"backup_dir"   validate:"required"`
}

// HistoryConfig controls the in-memory conversation window.
type HistoryConfig struct {
	MaxTurns int `mapstructure:"max_turns" validate:"required,gt=0,lte=100"`
}

// TaskConfig describes a single scheduled task entry.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks"`
}

// MessagesConfig holds the fixed user-facing reply texts. The defaults keep
// Cortex's original Hinglish voice; operators may override any of them.
type MessagesConfig struct {
	GeneralError     string `mapstructure:"general_error"      validate:"required"`
	AIError          string `mapstructure:"ai_error"           validate:"required"`
	ImageProcessing  string `mapstructure:"image_processing"   validate:"required"`
	ImageError       string `mapstructure:"image_error"        validate:"required"`
	AudioUnavailable string `mapstructure:"audio_unavailable"  validate:"required"`
	AudioEmpty       string `mapstructure:"audio_empty"        validate:"required"`
	AudioError       string `mapstructure:"audio_error"        validate:"required"`
	UnsupportedType  string `mapstructure:"unsupported_type"   validate:"required"`
	InteractiveAck   string `mapstructure:"interactive_ack"    validate:"required"`
}

// Config defines the application configuration parameters for all components
// of the CortexV3 system.
type Config struct {
	Logger    LoggerConfig    `mapstructure:"logger"`
	Server    ServerConfig    `mapstructure:"server"`
	WhatsApp  WhatsAppConfig  `mapstructure:"whatsapp"`
	AI        AIConfig        `mapstructure:"ai"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Media     MediaConfig     `mapstructure:"media"`
	Tools     ToolsConfig     `mapstructure:"tools"`
	Storage   StorageConfig   `mapstructure:"storage"`
	History   HistoryConfig   `mapstructure:"history"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Messages  MessagesConfig  `mapstructure:"messages"`

	// AssistantName overrides the display name used in prompts and replies.
	AssistantName string `mapstructure:"assistant_name" validate:"required"`
}
