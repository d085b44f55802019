package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Port:                "8080",
		Env:                 "development",
		JWTSecret:           "secure-secret-at-least-32-chars-long",
		DBPassword:          "secure-password",
		DBSSLMode:           "disable",
		RedisURL:            "localhost:6379",
		ModerationURL:       "https://inference.example.com/models/toxicity",
		ModerationThreshold: 0.7,
		RateLimitMode:       "fail_open",
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid development config", func(c *Config) {}, false},
		{"missing port", func(c *Config) { c.Port = "" }, true},
		{"missing jwt secret", func(c *Config) { c.JWTSecret = "" }, true},
		{"threshold above one", func(c *Config) { c.ModerationThreshold = 1.5 }, true},
		{"negative threshold", func(c *Config) { c.ModerationThreshold = -0.1 }, true},
		{"unknown rate limit mode", func(c *Config) { c.RateLimitMode = "sometimes" }, true},
		{"fail_closed accepted", func(c *Config) { c.RateLimitMode = "fail_closed" }, false},
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

func TestConfigValidateProduction(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		expectError bool
	}{
		{"valid production config", func(c *Config) {}, false},
		{"default jwt secret", func(c *Config) { c.JWTSecret = "your-secret-key-change-in-production" }, true},
		{"short jwt secret", func(c *Config) { c.JWTSecret = "short" }, true},
		{"default db password", func(c *Config) { c.DBPassword = "password" }, true},
		{"empty db password", func(c *Config) { c.DBPassword = "" }, true},
		{"missing moderation url", func(c *Config) { c.ModerationURL = "" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			c.Env = "production"
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

func TestLoadConfigDefaults(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")
	os.Setenv("APP_ENV", "development")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "LABEL_1", c.ModerationToxicLabel)
	assert.InDelta(t, 0.7, c.ModerationThreshold, 1e-9)
	assert.Equal(t, "fail_open", c.RateLimitMode)
}

func TestLoadConfigNormalizesSSLMode(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("DB_SSLMODE")

	os.Setenv("APP_ENV", "development")
	os.Setenv("DB_SSLMODE", "  DISABLE  ")

	c, err := LoadConfig()
	assert.NoError(t, err)
	assert.Equal(t, "disable", c.DBSSLMode)
}
