package config

import (
	"fmt"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Ops       OpsConfig       `yaml:"ops"`
	Database  DatabaseConfig  `yaml:"database"`
	Email     EmailConfig     `yaml:"email"`
	Session   SessionConfig   `yaml:"session"`
	Storage   StorageConfig   `yaml:"storage"`
	Log       LogConfig       `yaml:"log"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Site      SiteConfig      `yaml:"site"`
}

// ServerConfig contains public HTTP server settings
type ServerConfig struct {
	Host            string `yaml:"host"`
	Port            int    `yaml:"port"`
	BaseURL         string `yaml:"base_url"`
	ShutdownSeconds int    `yaml:"shutdown_seconds"`
	MetricsEnabled  bool   `yaml:"metrics_enabled"`

	// Public form submissions allowed per client IP and minute.
	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
	RateLimitBurst     int `yaml:"rate_limit_burst"`

	// Addresses or CIDR prefixes of reverse proxies whose forwarding headers are honored.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// OpsConfig contains the gRPC health/reflection listener settings. Port 0 disables it.
type OpsConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	AutoMigrate  bool   `yaml:"auto_migrate"`
}

// EmailConfig contains transactional email settings
type EmailConfig struct {
	Provider       string `yaml:"provider"` // "sendgrid", "smtp" or "log"
	From           string `yaml:"from"`
	FromName       string `yaml:"from_name"`
	BusinessEmail  string `yaml:"business_email"`
	RedirectTo     string `yaml:"redirect_to"` // when set, every message goes here instead
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	SMTPHost       string `yaml:"smtp_host"`
	SMTPPort       int    `yaml:"smtp_port"`
	SMTPUser       string `yaml:"smtp_user"`
	SMTPPassword   string `yaml:"smtp_password"`
}

// SessionConfig contains admin session settings
type SessionConfig struct {
	Secret     string `yaml:"secret"`
	CookieName string `yaml:"cookie_name"`
	TTLHours   int    `yaml:"ttl_hours"`
	Secure     bool   `yaml:"secure"`
}

// StorageConfig contains bike image storage settings
type StorageConfig struct {
	Type         string   `yaml:"type"`       // only "local" is supported
	UploadDir    string   `yaml:"upload_dir"` // For local storage
	BaseURL      string   `yaml:"base_url"`   // Server base URL for upload/download URLs
	MaxFileSize  int64    `yaml:"max_file_size_mb"`
	AllowedTypes []string `yaml:"allowed_types"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings (seconds precision)
type SchedulerConfig struct {
	ActivateBookings     string `yaml:"activate_bookings"`
	CompleteBookings     string `yaml:"complete_bookings"`
	SendPaymentReminders string `yaml:"send_payment_reminders"`
	NotifyWaitlist       string `yaml:"notify_waitlist"`
	PurgeExpiredSessions string `yaml:"purge_expired_sessions"`
}

// SiteConfig contains public site settings
type SiteConfig struct {
	Name          string   `yaml:"name"`
	DefaultLocale string   `yaml:"default_locale"`
	Locales       []string `yaml:"locales"`
	Timezone      string   `yaml:"timezone"`
}

// Load reads configuration from a YAML file. A .env file next to the working directory
// is loaded first when present so that its values take part in the env overrides.
func Load(configPath string) (*Config, error) {
	return LoadWithEnvFile(configPath, ".env")
}

// LoadWithEnvFile is Load with an explicit .env path. An empty path skips .env loading.
func LoadWithEnvFile(configPath, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load env file: %w", err)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setString(dst *string, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func setInt(dst *int, key string) {
	if val := os.Getenv(key); val != "" {
		fmt.Sscanf(val, "%d", dst)
	}
}

func setBool(dst *bool, key string) {
	if val := os.Getenv(key); val != "" {
		*dst = strings.EqualFold(val, "true") || val == "1"
	}
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	setString(&c.Database.Host, "DB_HOST")
	setInt(&c.Database.Port, "DB_PORT")
	setString(&c.Database.User, "DB_USER")
	setString(&c.Database.Password, "DB_PASSWORD")
	setString(&c.Database.Database, "DB_NAME")
	setString(&c.Database.SSLMode, "DB_SSL_MODE")
	setBool(&c.Database.AutoMigrate, "DB_AUTO_MIGRATE")

	setString(&c.Email.Provider, "EMAIL_PROVIDER")
	setString(&c.Email.From, "EMAIL_FROM")
	setString(&c.Email.BusinessEmail, "BUSINESS_EMAIL")
	setString(&c.Email.RedirectTo, "EMAIL_REDIRECT_TO")
	setString(&c.Email.SendGridAPIKey, "SENDGRID_API_KEY")
	setString(&c.Email.SMTPHost, "SMTP_HOST")
	setInt(&c.Email.SMTPPort, "SMTP_PORT")
	setString(&c.Email.SMTPUser, "SMTP_USER")
	setString(&c.Email.SMTPPassword, "SMTP_PASSWORD")

	setString(&c.Session.Secret, "SESSION_SECRET")
	setBool(&c.Session.Secure, "SESSION_SECURE")

	setString(&c.Server.Host, "SERVER_HOST")
	setInt(&c.Server.Port, "SERVER_PORT")
	setString(&c.Server.BaseURL, "BASE_URL")
	setInt(&c.Ops.Port, "OPS_PORT")

	setString(&c.Storage.UploadDir, "UPLOAD_DIR")

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	setString(&c.Site.Timezone, "SITE_TIMEZONE")

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Ops.Port < 0 || c.Ops.Port > 65535 {
		return fmt.Errorf("invalid ops port: %d", c.Ops.Port)
	}
	if c.Ops.Port != 0 && c.Ops.Port == c.Server.Port {
		return fmt.Errorf("ops port must differ from server port")
	}
	if c.Server.ShutdownSeconds == 0 {
		c.Server.ShutdownSeconds = 15
	}
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = fmt.Sprintf("http://localhost:%d", c.Server.Port)
	}
	if c.Server.RateLimitPerMinute == 0 {
		c.Server.RateLimitPerMinute = 20
	}
	if c.Server.RateLimitBurst == 0 {
		c.Server.RateLimitBurst = 5
	}
	for _, p := range c.Server.TrustedProxies {
		if _, err := netip.ParsePrefix(p); err == nil {
			continue
		}
		if _, err := netip.ParseAddr(p); err != nil {
			return fmt.Errorf("invalid trusted proxy %q", p)
		}
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
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	switch c.Email.Provider {
	case "":
		c.Email.Provider = "log"
	case "log":
	case "sendgrid":
		if c.Email.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid API key is required for the sendgrid provider")
		}
	case "smtp":
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("SMTP host is required for the smtp provider")
		}
		if c.Email.SMTPPort <= 0 || c.Email.SMTPPort > 65535 {
			return fmt.Errorf("invalid SMTP port: %d", c.Email.SMTPPort)
		}
	default:
		return fmt.Errorf("unknown email provider: %s", c.Email.Provider)
	}
	if c.Email.From == "" {
		return fmt.Errorf("email from address is required")
	}
	if c.Email.FromName == "" {
		c.Email.FromName = "Be On Bikes"
	}
	if c.Email.BusinessEmail == "" {
		c.Email.BusinessEmail = c.Email.From
	}

	if c.Session.Secret == "" {
		return fmt.Errorf("session secret is required")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("session secret must be at least 32 characters")
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "beonbikes_session"
	}
	if c.Session.TTLHours == 0 {
		c.Session.TTLHours = 24 * 7
	}

	if c.Storage.Type == "" {
		c.Storage.Type = "local"
	}
	if c.Storage.Type != "local" {
		return fmt.Errorf("unsupported storage type: %s", c.Storage.Type)
	}
	if c.Storage.UploadDir == "" {
		return fmt.Errorf("upload directory is required")
	}
	if c.Storage.BaseURL == "" {
		c.Storage.BaseURL = c.Server.BaseURL
	}
	if c.Storage.MaxFileSize == 0 {
		c.Storage.MaxFileSize = 8
	}
	if len(c.Storage.AllowedTypes) == 0 {
		c.Storage.AllowedTypes = []string{"image/jpeg", "image/png", "image/webp"}
	}

	if c.Site.Name == "" {
		c.Site.Name = "Be On Bikes"
	}
	if c.Site.DefaultLocale == "" {
		c.Site.DefaultLocale = "es"
	}
	if len(c.Site.Locales) == 0 {
		c.Site.Locales = []string{"es", "en"}
	}
	if c.Site.Timezone == "" {
		c.Site.Timezone = "UTC"
	}
	if _, err := time.LoadLocation(c.Site.Timezone); err != nil {
		return fmt.Errorf("invalid site timezone %q: %w", c.Site.Timezone, err)
	}

	// Scheduler defaults
	if c.Scheduler.ActivateBookings == "" {
		c.Scheduler.ActivateBookings = "0 5 0 * * *" // 00:05 daily
	}
	if c.Scheduler.CompleteBookings == "" {
		c.Scheduler.CompleteBookings = "0 10 0 * * *" // 00:10 daily
	}
	if c.Scheduler.SendPaymentReminders == "" {
		c.Scheduler.SendPaymentReminders = "0 0 9 * * MON" // Monday 9 AM
	}
	if c.Scheduler.NotifyWaitlist == "" {
		c.Scheduler.NotifyWaitlist = "0 0 10 * * *" // 10 AM daily
	}
	if c.Scheduler.PurgeExpiredSessions == "" {
		c.Scheduler.PurgeExpiredSessions = "0 15 * * * *" // hourly
	}

	return nil
}

// Location returns the site's time zone. Validate guarantees it loads.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Site.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SessionTTL returns the lifetime of admin sessions
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.Session.TTLHours) * time.Hour
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the public HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetOpsAddress returns the gRPC ops server address
func (c *Config) GetOpsAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Ops.Port)
}
