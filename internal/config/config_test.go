package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func validConfig() Config {
	return Config{
		Port:      "8081",
		GinMode:   "release",
		LogLevel:  "info",
		TopN:      10,
		TrendDays: 30,
		Timezone:  "UTC",
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*Config)
		wantErr     bool
		errorString string
	}{
		{name: "valid config", mutate: func(*Config) {}},
		{name: "local timezone", mutate: func(c *Config) { c.Timezone = "Local" }},
		{name: "invalid port - non-numeric", mutate: func(c *Config) { c.Port = "abc" }, wantErr: true, errorString: "invalid port 'abc'"},
		{name: "invalid port - out of range", mutate: func(c *Config) { c.Port = "70000" }, wantErr: true, errorString: "invalid port 70000"},
		{name: "invalid gin mode", mutate: func(c *Config) { c.GinMode = "loud" }, wantErr: true, errorString: "invalid gin mode"},
		{name: "invalid log level", mutate: func(c *Config) { c.LogLevel = "chatty" }, wantErr: true, errorString: "invalid log level"},
		{name: "invalid top n", mutate: func(c *Config) { c.TopN = 0 }, wantErr: true, errorString: "invalid top N"},
		{name: "invalid trend days", mutate: func(c *Config) { c.TrendDays = 400 }, wantErr: true, errorString: "invalid trend days"},
		{name: "invalid timezone", mutate: func(c *Config) { c.Timezone = "Mars/Olympus" }, wantErr: true, errorString: "invalid timezone"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorString)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_ValidateReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "0"
	cfg.TopN = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 0")
	assert.Contains(t, err.Error(), "invalid top N -1")
}

func TestLoad(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("ANALYTICS_TOP_N", "5")
	t.Setenv("ANALYTICS_TREND_DAYS", "not-a-number")
	t.Setenv("ANALYTICS_STRICT", "true")
	t.Setenv("ANALYTICS_TIMEZONE", "UTC")
	t.Setenv("GIN_MODE", "")

	cfg := Load()
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "release", cfg.GinMode)
	assert.Equal(t, 5, cfg.TopN)
	assert.Equal(t, 30, cfg.TrendDays)
	assert.True(t, cfg.Strict)

	lvl, err := cfg.Level()
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, lvl)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
	assert.NoError(t, cfg.Validate())
}
