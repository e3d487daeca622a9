package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

type Config struct {
	// HTTP Server
	Port    string
	GinMode string

	// Logging
	LogLevel string

	// Analytics
	TopN      int
	TrendDays int
	Strict    bool
	Timezone  string
}

// Load reads the configuration from the environment. Call godotenv.Load
// first if a .env file should be honoured.
func Load() *Config {
	return &Config{
		Port:    getEnv("PORT", "8081"),
		GinMode: getEnv("GIN_MODE", "release"),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		TopN:      getEnvInt("ANALYTICS_TOP_N", 10),
		TrendDays: getEnvInt("ANALYTICS_TREND_DAYS", 30),
		Strict:    getEnvBool("ANALYTICS_STRICT", false),
		Timezone:  getEnv("ANALYTICS_TIMEZONE", "Local"),
	}
}

// Validate validates the configuration and returns every problem found.
func (c *Config) Validate() error {
	var problems []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		problems = append(problems, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		problems = append(problems, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.GinMode {
	case "debug", "release", "test":
	default:
		problems = append(problems, fmt.Sprintf("invalid gin mode '%s': must be debug, release or test", c.GinMode))
	}

	if _, err := c.Level(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.TopN < 1 {
		problems = append(problems, fmt.Sprintf("invalid top N %d: must be positive", c.TopN))
	}
	if c.TrendDays < 1 || c.TrendDays > 366 {
		problems = append(problems, fmt.Sprintf("invalid trend days %d: must be between 1 and 366", c.TrendDays))
	}

	if _, err := c.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("invalid timezone '%s': %v", c.Timezone, err))
	}

	if len(problems) > 0 {
		return errors.New("configuration validation failed: " + strings.Join(problems, "; "))
	}
	return nil
}

// Level parses LogLevel into a zap level.
func (c *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

// Location resolves Timezone; "Local" and "" mean the process time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}
