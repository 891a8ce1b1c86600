package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:            "development",
		Port:           "5000",
		JWTSecret:      "secure-secret-at-least-32-chars-long",
		JWTExpiry:      time.Hour,
		DBPassword:     "secure-password",
		DBSSLMode:      "require",
		PasswordPolicy: "strict",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"valid development", func(_ *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"zero expiry", func(c *Config) { c.JWTExpiry = 0 }, true},
		{"unknown password policy", func(c *Config) { c.PasswordPolicy = "relaxed" }, true},
		{"short secret allowed in development", func(c *Config) { c.JWTSecret = "short" }, false},
		{"production valid", func(c *Config) { c.Env = "production" }, false},
		{"production default jwt secret", func(c *Config) {
			c.Env = "production"
			c.JWTSecret = defaultJWTSecret
		}, true},
		{"production short jwt secret", func(c *Config) {
			c.Env = "prod"
			c.JWTSecret = "short"
		}, true},
		{"production weak db password", func(c *Config) {
			c.Env = "production"
			c.DBPassword = "password"
		}, true},
		{"production database url skips db part checks", func(c *Config) {
			c.Env = "production"
			c.DBPassword = ""
			c.DatabaseURL = "postgres://app:s3cret@db:5432/socialhub?sslmode=require"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_DSN(t *testing.T) {
	c := validConfig()
	c.DBHost = "db"
	c.DBPort = "5433"
	c.DBUser = "app"
	c.DBName = "social"
	c.DBSSLMode = ""
	assert.Equal(t, "host=db port=5433 user=app password=secure-password dbname=social sslmode=disable", c.DSN())

	c.DatabaseURL = "sqlite://dev.db"
	assert.Equal(t, "sqlite://dev.db", c.DSN())
}

func TestLoadConfig_FromEnvironment(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_EXPIRY", "90m")
	t.Setenv("PASSWORD_POLICY", "basic")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	t.Setenv("DATABASE_URL", "file::memory:?cache=shared")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", c.Port)
	assert.Equal(t, 90*time.Minute, c.JWTExpiry)
	assert.Equal(t, "basic", string(c.Policy()))
	assert.False(t, c.RateLimitOn)
	assert.Equal(t, "file::memory:?cache=shared", c.DSN())
	assert.Equal(t, "uploads", c.UploadDir)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, time.Hour, c.JWTExpiry)
	assert.True(t, c.RateLimitOn)
	assert.False(t, c.IsProduction())
}
