package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load loads and validates configuration from:
// 1. Default values
// 2. config.yaml file (optional)
// 3. BOT_* environment variables
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Allow missing config file, env and defaults still apply
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: failed to read config file: %v", ErrConfiguration, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrConfiguration, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfiguration, err)
	}

	return cfg, nil
}

// Validate checks the configuration against the struct validation tags plus
// the cross-field constraints the tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err
	}

	// Gemini credentials are only required when a gemini strategy is selected.
	if (c.Media.Vision == "gemini" || c.Media.Transcriber == "gemini") && c.Gemini.APIKey == "" {
		return fmt.Errorf("gemini.api_key is required when a gemini media strategy is selected")
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("assistant_name", "Cortex")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.json", true)

	v.SetDefault("server.bind", "0.0.0.0")
	v.SetDefault("server.port", 5000)

	v.SetDefault("whatsapp.api_base_url", "https://graph.facebook.com")
	v.SetDefault("whatsapp.api_version", "v18.0")

	// Secrets default to empty so AutomaticEnv can see the keys; validation
	// still rejects the empty values.
	v.SetDefault("whatsapp.verify_token", "")
	v.SetDefault("whatsapp.access_token", "")
	v.SetDefault("whatsapp.phone_number_id", "")
	v.SetDefault("ai.token", "")
	v.SetDefault("gemini.api_key", "")

	v.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("ai.model", "openai/gpt-3.5-turbo")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.timeout", 2*time.Minute)
	v.SetDefault("ai.max_tool_rounds", 1)

	v.SetDefault("gemini.model", "gemini-2.0-flash")
	v.SetDefault("gemini.max_retries", 2)
	v.SetDefault("gemini.retry_delay_seconds", 5)

	v.SetDefault("media.vision", "openai")
	v.SetDefault("media.transcriber", "disabled")

	v.SetDefault("tools.websearch_enabled", true)

	v.SetDefault("storage.profile_path", "data/profile.json")
	v.SetDefault("storage.facts_path", "data/memories.json")
	v.SetDefault("storage.db_path", "storage.db")
	v.SetDefault("storage.backup_dir", "data/backups")

	v.SetDefault("history.max_turns", 10)

	v.SetDefault("messages.general_error", "Cortex: Maafi chahunga, mere system mein kuch gadbad ho gayi. Thodi der baad try karein. 🙏")
	v.SetDefault("messages.ai_error", "Cortex: Maafi chahunga, mere system mein kuch gadbad ho gayi (LLM Error). Mohammad isko theek kar rahe hain!")
	v.SetDefault("messages.image_processing", "Cortex: Photo mil gayi! Thoda samay deejye, main ise samajh raha hoon. 📸")
	v.SetDefault("messages.image_error", "Cortex: Maafi chahunga, photo samajhne mein dikkat aa gayi. Dobara bhej ke dekhein. 📸")
	v.SetDefault("messages.audio_unavailable", "Cortex: Maafi chahunga, Voice Note feature abhi Maintenance mein hai. Kripya text message ya Image bhejein. 🙏")
	v.SetDefault("messages.audio_empty", "Cortex: Maafi chahunga, voice note mein kuch sunai nahi diya. Dobara bol ke dekhein. 🎙️")
	v.SetDefault("messages.audio_error", "Cortex: Maafi chahunga, voice note samajhne mein dikkat aa gayi. 🎙️")
	v.SetDefault("messages.unsupported_type", "Cortex: Abhi main sirf text, images, aur buttons samajh sakta hoon!")
	v.SetDefault("messages.interactive_ack", "Cortex: Aapne **%s** chuna hai. Main ab jawab de raha hoon.")
}
