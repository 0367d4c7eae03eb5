package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SendGrid  SendGridConfig  `yaml:"sendgrid"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Email     EmailConfig     `yaml:"email"`
	JWT       JWTConfig       `yaml:"jwt"`
	App       AppConfig       `yaml:"app"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string `yaml:"host" env:"SERVER_HOST"`
	Port                int    `yaml:"port" env:"SERVER_PORT"`
	ReadTimeoutSeconds  int    `yaml:"read_timeout_seconds" env:"SERVER_READ_TIMEOUT_SECONDS"`
	WriteTimeoutSeconds int    `yaml:"write_timeout_seconds" env:"SERVER_WRITE_TIMEOUT_SECONDS"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host" env:"DB_HOST"`
	Port     int    `yaml:"port" env:"DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Database string `yaml:"database" env:"DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" env:"DB_SSL_MODE"`
	Migrate  bool   `yaml:"migrate" env:"DB_MIGRATE"`
}

// SendGridConfig enables the primary email provider when APIKey is set.
type SendGridConfig struct {
	APIKey string `yaml:"api_key" env:"SENDGRID_API_KEY"`
}

// SMTPConfig is the fallback provider. All four connection fields must be set
// for it to be used.
type SMTPConfig struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASS"`
}

func (c SMTPConfig) Complete() bool {
	return c.Host != "" && c.Port > 0 && c.User != "" && c.Password != ""
}

type EmailConfig struct {
	From     string `yaml:"from" env:"EMAIL_FROM"`
	FromName string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret" env:"JWT_SECRET"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes" env:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES"`
}

func (c JWTConfig) AccessTTL() time.Duration {
	return time.Duration(c.AccessTokenExpiry) * time.Minute
}

// AppConfig holds the public base URL used in links sent to users.
type AppConfig struct {
	URL string `yaml:"url" env:"APP_URL"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`   // "debug", "info", "warn", "error"
	Format string `yaml:"format" env:"LOG_FORMAT"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	DeadlineReminders   string `yaml:"deadline_reminders" env:"SCHEDULE_DEADLINE_REMINDERS"`
	ReminderWindowHours int    `yaml:"reminder_window_hours" env:"REMINDER_WINDOW_HOURS"`
}

func (c SchedulerConfig) ReminderWindow() time.Duration {
	return time.Duration(c.ReminderWindowHours) * time.Hour
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Environment variables win over the file.
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	c.applyDefaults()

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// SMTP is optional, but a port that is set must be valid.
	if c.SMTP.Port < 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}

	if c.Scheduler.ReminderWindowHours <= 0 {
		return fmt.Errorf("reminder window must be positive: %d hours", c.Scheduler.ReminderWindowHours)
	}

	u, err := url.Parse(c.App.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid app url: %q", c.App.URL)
	}
	if c.Email.From == "" {
		c.Email.From = "noreply@" + u.Hostname()
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 30
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 7 * 24 * 60 // 7 days
	}
	if c.App.URL == "" {
		c.App.URL = "http://localhost:3000"
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Collab Deck"
	}
	if c.Scheduler.DeadlineReminders == "" {
		c.Scheduler.DeadlineReminders = "0 0 8 * * *" // 8 AM UTC
	}
	if c.Scheduler.ReminderWindowHours == 0 {
		c.Scheduler.ReminderWindowHours = 24
	}
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     fmt.Sprintf("%s:%d", c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.Database,
		RawQuery: "sslmode=" + url.QueryEscape(c.Database.SSLMode),
	}
	return u.String()
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
