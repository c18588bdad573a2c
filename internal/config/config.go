// Package config provides configuration for the cardctl command with
// support for environment variables, command-line flags, and .env files.
// The SDK itself never reads ambient configuration; the base endpoint is
// handed to the client explicitly.
package config

import (
	"bufio"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/cardmakerapp/cardmaker-go/internal/validation"
)

// Config holds the cardctl configuration.
type Config struct {
	App     AppConfig
	Logger  LoggerConfig
	API     APIConfig
	Session SessionConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string `json:"environment" validate:"oneof=development staging production"`
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level  string `json:"level" validate:"oneof=debug info warn error"`
	Format string `json:"format" validate:"omitempty,oneof=json text"`
}

// APIConfig holds the CardMaker backend configuration.
type APIConfig struct {
	// Endpoint is the base URL all resource paths resolve against.
	Endpoint string `json:"endpoint" validate:"required,url"`
	// Timeout bounds a single request (default: 30s).
	Timeout time.Duration `json:"timeout" validate:"gt=0"`
	// RateLimit throttles outgoing requests per second; 0 disables
	// throttling.
	RateLimit float64 `json:"rate_limit" validate:"gte=0"`
	// RateBurst is the burst size used when RateLimit is set.
	RateBurst int `json:"rate_burst" validate:"gte=0"`
	// PropagateReads surfaces read failures instead of absorbing them
	// into logged defaults.
	PropagateReads bool `json:"propagate_reads"`
}

// HTTPClient builds an HTTP client honoring the configured timeout.
func (c APIConfig) HTTPClient() *http.Client {
	return &http.Client{
		Timeout: c.Timeout,
	}
}

// SessionConfig holds session persistence configuration.
type SessionConfig struct {
	// Path is the directory of the durable session database
	// (default: ~/.cardmaker/session).
	Path string `json:"path" validate:"required"`
}

// LoadConfig loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func LoadConfig() (*Config, error) {
	env := flag.String("env", "", "Environment (development, staging, production)")
	logLevel := flag.String("log-level", "", "Log level (debug, info, warn, error)")
	logFormat := flag.String("log-format", "", "Log format (json, text)")
	endpoint := flag.String("endpoint", "", "CardMaker API base URL")
	timeout := flag.String("timeout", "", "HTTP request timeout (default: 30s)")
	rateLimit := flag.String("rate-limit", "", "Max requests per second, 0 disables (default: 0)")
	rateBurst := flag.String("rate-burst", "", "Request burst size (default: 3)")
	propagateReads := flag.String("propagate-reads", "", "Fail hard on read errors instead of returning defaults (default: false)")
	sessionPath := flag.String("session-path", "", "Directory for the session database")
	envFile := flag.String("env-file", ".env", "Path to .env file")

	flag.Parse()

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level:  getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			Format: getConfigValue(*logFormat, "LOG_FORMAT", ""),
		},
		API: APIConfig{
			Endpoint:       getConfigValue(*endpoint, "CARDMAKER_ENDPOINT", ""),
			RateLimit:      getFloatConfigValue(*rateLimit, "CARDMAKER_RATE_LIMIT", 0),
			RateBurst:      getIntConfigValue(*rateBurst, "CARDMAKER_RATE_BURST", 3),
			PropagateReads: getBoolConfigValue(*propagateReads, "CARDMAKER_PROPAGATE_READS", false),
		},
		Session: SessionConfig{
			Path: getConfigValue(*sessionPath, "CARDMAKER_SESSION_PATH", ""),
		},
	}

	timeoutStr := getConfigValue(*timeout, "CARDMAKER_TIMEOUT", "30s")
	timeoutDuration, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout %q: %w", timeoutStr, err)
	}
	cfg.API.Timeout = timeoutDuration

	// Expand and default the session path.
	if err := cfg.expandSessionPath(); err != nil {
		return nil, fmt.Errorf("invalid session path: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	v := validation.New()
	if err := v.Validate(c.App); err != nil {
		return err
	}
	if err := v.Validate(c.Logger); err != nil {
		return err
	}
	if err := v.Validate(c.API); err != nil {
		return err
	}
	return v.Validate(c.Session)
}

// expandSessionPath expands ~ and makes the path absolute.
// Defaults to ~/.cardmaker/session.
func (c *Config) expandSessionPath() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("failed to get home directory: %w", err)
	}
	defaultPath := filepath.Join(homeDir, ".cardmaker", "session")

	expanded, err := expandPath(c.Session.Path, defaultPath)
	if err != nil {
		return err
	}
	c.Session.Path = expanded
	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float64 from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), `"'`)

		// Existing environment variables win over the .env file.
		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
	return scanner.Err()
}
