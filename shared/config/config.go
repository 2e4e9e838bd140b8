package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Notes      NotesConfig      `yaml:"notes"`
	Transcript TranscriptConfig `yaml:"transcript"`
	AI         AIConfig         `yaml:"ai"`
	YouTube    YouTubeConfig    `yaml:"youtube"`
	Email      EmailConfig      `yaml:"email"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Schedule   string           `yaml:"schedule"`
}

type NotesConfig struct {
	VaultDir string `yaml:"vault_dir"`
	DataDir  string `yaml:"data_dir"`
}

type TranscriptConfig struct {
	Languages      []string `yaml:"languages"`
	MaxRetries     int      `yaml:"max_retries"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type AIConfig struct {
	GeminiAPIKey       string `yaml:"gemini_api_key" env:"GEMINI_API_KEY"`
	Model              string `yaml:"model"`
	MaxTranscriptChars int    `yaml:"max_transcript_chars"`
}

type YouTubeConfig struct {
	// APIKey enables official metadata enrichment. Optional; the scraped
	// page metadata is used when unset.
	APIKey string `yaml:"api_key" env:"YOUTUBE_API_KEY"`
}

type EmailConfig struct {
	SMTPServer string `yaml:"smtp_server"`
	SMTPPort   int    `yaml:"smtp_port"`
	Username   string `yaml:"username" env:"EMAIL_USERNAME"`
	Password   string `yaml:"password" env:"EMAIL_PASSWORD"`
	FromEmail  string `yaml:"from_email"`
	ToEmail    string `yaml:"to_email"`
}

// Enabled reports whether the digest email is configured at all.
func (e *EmailConfig) Enabled() bool {
	return e.SMTPServer != "" && e.ToEmail != ""
}

type MonitoringConfig struct {
	HealthPort int `yaml:"health_port"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	configFile := os.Getenv("CONFIG_FILE")
	if configFile == "" {
		configFile = "config.yaml"
	}

	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configFile, err)
	}

	if cfg.AI.GeminiAPIKey == "" {
		cfg.AI.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.YouTube.APIKey == "" {
		cfg.YouTube.APIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if cfg.Email.Username == "" {
		cfg.Email.Username = os.Getenv("EMAIL_USERNAME")
	}
	if cfg.Email.Password == "" {
		cfg.Email.Password = os.Getenv("EMAIL_PASSWORD")
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if len(c.Transcript.Languages) == 0 {
		c.Transcript.Languages = []string{"ko", "en"}
	}
	if c.Transcript.MaxRetries == 0 {
		c.Transcript.MaxRetries = 3
	}
	if c.Transcript.TimeoutSeconds == 0 {
		c.Transcript.TimeoutSeconds = 30
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
	if c.AI.MaxTranscriptChars == 0 {
		c.AI.MaxTranscriptChars = 100000
	}
	if c.Notes.DataDir == "" {
		c.Notes.DataDir = "data"
	}
	if c.Monitoring.HealthPort == 0 {
		c.Monitoring.HealthPort = 8080
	}
	if c.Schedule == "" {
		c.Schedule = "0 0 7 * * *" // Daily at 7 AM
	}
}

func (c *Config) validate() error {
	if c.Notes.VaultDir == "" {
		return fmt.Errorf("notes vault directory is required (set notes.vault_dir)")
	}
	if c.AI.GeminiAPIKey == "" {
		return fmt.Errorf("Gemini API key is required (set GEMINI_API_KEY or ai.gemini_api_key)")
	}
	if c.Email.Enabled() {
		if c.Email.Username == "" {
			return fmt.Errorf("email username is required when email is configured (set EMAIL_USERNAME or email.username)")
		}
		if c.Email.Password == "" {
			return fmt.Errorf("email password is required when email is configured (set EMAIL_PASSWORD or email.password)")
		}
		if c.Email.FromEmail == "" {
			return fmt.Errorf("email from address is required when email is configured (set email.from_email)")
		}
	}
	return nil
}
