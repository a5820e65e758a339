// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	Filename string `yaml:"filename"`
}

type DiscordConfig struct {
	// DMTestMode short-circuits direct messages: "", "real", "success", "fail",
	// "forbidden", "unauthorized", "not_found" or "bot_token_missing".
	DMTestMode        string  `yaml:"dm_test_mode"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	BotToken          string  `yaml:"-"` // Loaded from environment
	WebhookURL        string  `yaml:"-"` // Loaded from environment
}

type EmailConfig struct {
	Region          string `yaml:"region"`
	Sender          string `yaml:"sender"`
	ReplyTo         string `yaml:"reply_to"`
	AccessKeyID     string `yaml:"-"`
	SecretAccessKey string `yaml:"-"`
}

// Enabled reports whether SES credentials and a sender are present.
func (e EmailConfig) Enabled() bool {
	return e.AccessKeyID != "" && e.SecretAccessKey != "" && e.Region != "" && e.Sender != ""
}

type ValorantConfig struct {
	APIBaseURL        string `yaml:"api_base_url"`
	Region            string `yaml:"region"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
	RateLimitRetries  int    `yaml:"rate_limit_retries"`
	APIKey            string `yaml:"-"`
}

type Config struct {
	App struct {
		Name            string `yaml:"name"`
		Environment     string `yaml:"environment"`
		Port            int    `yaml:"port"`
		BaseURL         string `yaml:"base_url"`
		DefaultTimezone string `yaml:"default_timezone"`
		TrustProxy      bool   `yaml:"trust_proxy"`
		SecretKey       string `yaml:"-"` // Loaded from environment
	} `yaml:"app"`

	Database DatabaseConfig `yaml:"database"`
	Discord  DiscordConfig  `yaml:"discord"`
	Email    EmailConfig    `yaml:"email"`
	Valorant ValorantConfig `yaml:"valorant"`

	Nudges struct {
		CooldownHours int `yaml:"cooldown_hours"`
	} `yaml:"nudges"`

	ActionLinks struct {
		TTLHours int `yaml:"ttl_hours"`
	} `yaml:"action_links"`

	Reminders struct {
		Enabled bool   `yaml:"enabled"`
		Cron    string `yaml:"cron"`
	} `yaml:"reminders"`

	Features struct {
		EnableDebug bool `yaml:"enable_debug"`
	} `yaml:"features"`
}

var validDMTestModes = map[string]bool{
	"":                  true,
	"real":              true,
	"success":           true,
	"fail":              true,
	"forbidden":         true,
	"unauthorized":      true,
	"not_found":         true,
	"bot_token_missing": true,
}

// Load loads both .env and yaml configuration
func Load(configPath string) (*Config, error) {
	envPath := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}

	cfg.LoadSecretsFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Parse decodes YAML and fills defaults without touching the environment.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadSecretsFromEnv copies sensitive values from the environment.
func (c *Config) LoadSecretsFromEnv() {
	c.App.SecretKey = os.Getenv("APP_SECRET_KEY")
	c.Discord.BotToken = strings.TrimSpace(os.Getenv("DISCORD_BOT_TOKEN"))
	c.Discord.WebhookURL = strings.TrimSpace(os.Getenv("DISCORD_WEBHOOK_URL"))
	c.Email.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	c.Email.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	c.Valorant.APIKey = os.Getenv("HENRIK_API_KEY")
}

func (c *Config) applyDefaults() {
	if c.App.Environment == "" {
		c.App.Environment = "development"
	}
	if c.App.DefaultTimezone == "" {
		c.App.DefaultTimezone = "UTC"
	}
	if c.Discord.RequestsPerSecond <= 0 {
		c.Discord.RequestsPerSecond = 5
	}
	if c.Valorant.APIBaseURL == "" {
		c.Valorant.APIBaseURL = "https://api.henrikdev.xyz/valorant"
	}
	if c.Valorant.Region == "" {
		c.Valorant.Region = "eu"
	}
	if c.Valorant.RequestsPerMinute <= 0 {
		c.Valorant.RequestsPerMinute = 25
	}
	if c.Valorant.RateLimitRetries <= 0 {
		c.Valorant.RateLimitRetries = 2
	}
	if c.Nudges.CooldownHours <= 0 {
		c.Nudges.CooldownHours = 24
	}
	if c.ActionLinks.TTLHours <= 0 {
		c.ActionLinks.TTLHours = 72
	}
	if c.Reminders.Cron == "" {
		c.Reminders.Cron = "*/15 * * * *"
	}
}

func (c *Config) Validate() error {
	if c.App.Name == "" {
		return fmt.Errorf("app name is required")
	}
	if c.App.Port == 0 {
		return fmt.Errorf("app port is required")
	}
	if c.App.SecretKey == "" {
		return fmt.Errorf("APP_SECRET_KEY is required")
	}
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver is required")
	}

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Filename == "" {
			return fmt.Errorf("database filename is required for sqlite")
		}
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}

	if _, err := time.LoadLocation(c.App.DefaultTimezone); err != nil {
		return fmt.Errorf("invalid default timezone %q: %w", c.App.DefaultTimezone, err)
	}
	if !validDMTestModes[c.Discord.DMTestMode] {
		return fmt.Errorf("unsupported discord dm_test_mode: %s", c.Discord.DMTestMode)
	}
	if c.Reminders.Enabled {
		if _, err := cron.ParseStandard(c.Reminders.Cron); err != nil {
			return fmt.Errorf("invalid reminders cron %q: %w", c.Reminders.Cron, err)
		}
	}

	return nil
}

// NudgeCooldown returns the per-recipient nudge cooldown.
func (c *Config) NudgeCooldown() time.Duration {
	return time.Duration(c.Nudges.CooldownHours) * time.Hour
}

// ActionLinkTTL returns how long signed response links stay valid.
func (c *Config) ActionLinkTTL() time.Duration {
	return time.Duration(c.ActionLinks.TTLHours) * time.Hour
}
