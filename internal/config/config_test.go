package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validYAML = `
server:
  host: 127.0.0.1
  port: 8080
database:
  host: localhost
  user: beon
  database: beonbikes
email:
  from: hola@beonbikes.test
session:
  secret: 0123456789abcdef0123456789abcdef
storage:
  upload_dir: /tmp/beonbikes
site:
  timezone: Australia/Sydney
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWithEnvFile(writeConfig(t, validYAML), "")
	require.NoError(t, err)

	assert.Equal(t, "log", cfg.Email.Provider)
	assert.Equal(t, "hola@beonbikes.test", cfg.Email.BusinessEmail)
	assert.Equal(t, "beonbikes_session", cfg.Session.CookieName)
	assert.Equal(t, 168, cfg.Session.TTLHours)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "http://localhost:8080", cfg.Server.BaseURL)
	assert.Equal(t, cfg.Server.BaseURL, cfg.Storage.BaseURL)
	assert.Equal(t, []string{"es", "en"}, cfg.Site.Locales)
	assert.Equal(t, "0 0 9 * * MON", cfg.Scheduler.SendPaymentReminders)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "Australia/Sydney", cfg.Location().String())
	assert.Equal(t, "postgres://beon:@localhost:5432/beonbikes?sslmode=disable", cfg.GetDatabaseConnectionString())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("SESSION_SECURE", "true")

	cfg, err := LoadWithEnvFile(writeConfig(t, validYAML), "")
	require.NoError(t, err)

	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Session.Secure)
}

func TestLoad_EnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("BUSINESS_EMAIL=rentals@beonbikes.test\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("BUSINESS_EMAIL") })

	cfg, err := LoadWithEnvFile(writeConfig(t, validYAML), envPath)
	require.NoError(t, err)
	assert.Equal(t, "rentals@beonbikes.test", cfg.Email.BusinessEmail)
}

func TestLoad_MissingEnvFileIsIgnored(t *testing.T) {
	_, err := LoadWithEnvFile(writeConfig(t, validYAML), filepath.Join(t.TempDir(), "missing.env"))
	assert.NoError(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:   ServerConfig{Port: 8080},
			Database: DatabaseConfig{Host: "localhost", User: "beon", Database: "beonbikes"},
			Email:    EmailConfig{From: "hola@beonbikes.test"},
			Session:  SessionConfig{Secret: "0123456789abcdef0123456789abcdef"},
			Storage:  StorageConfig{UploadDir: "/tmp/uploads"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }, "invalid server port"},
		{"ops port clash", func(c *Config) { c.Ops.Port = 8080 }, "ops port must differ"},
		{"missing db host", func(c *Config) { c.Database.Host = "" }, "database host is required"},
		{"short secret", func(c *Config) { c.Session.Secret = "short" }, "at least 32 characters"},
		{"sendgrid without key", func(c *Config) { c.Email.Provider = "sendgrid" }, "sendgrid API key"},
		{"smtp without host", func(c *Config) { c.Email.Provider = "smtp" }, "SMTP host is required"},
		{"unknown provider", func(c *Config) { c.Email.Provider = "pigeon" }, "unknown email provider"},
		{"unsupported storage", func(c *Config) { c.Storage.Type = "s3" }, "unsupported storage type"},
		{"bad timezone", func(c *Config) { c.Site.Timezone = "Mars/Olympus" }, "invalid site timezone"},
		{"trusted proxies", func(c *Config) { c.Server.TrustedProxies = []string{"10.0.0.0/8", "127.0.0.1"} }, ""},
		{"bad trusted proxy", func(c *Config) { c.Server.TrustedProxies = []string{"lb.internal"} }, "invalid trusted proxy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := base()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			if assert.Error(t, err) {
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
