// Package config loads bookfinder configuration from command-line flags, environment
// variables, and an optional .env file.
package config

import (
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the client configuration.
type Config struct {
	App    AppConfig
	Logger LoggerConfig
	API    APIConfig
	UI     UIConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
	// File receives all log output; the terminal belongs to the UI.
	File string
}

// APIConfig holds catalog backend configuration.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
	// RPS caps outbound catalog requests per second.
	RPS float64
}

// UIConfig holds terminal UI configuration.
type UIConfig struct {
	ProbeCovers bool
	SearchLimit int
}

// DevServerConfig holds the local catalog server configuration.
type DevServerConfig struct {
	App    AppConfig
	Logger LoggerConfig
	Addr   string
	// Catalog is a JSON file of books; empty uses the embedded sample catalog.
	Catalog string
}

// Load reads client configuration with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("bookfinder", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	logFile := fs.String("log-file", "", "Log file path (default: user cache dir)")
	apiURL := fs.String("api-url", "", "Catalog API base URL (default: http://localhost:8000)")
	apiTimeout := fs.String("api-timeout", "", "Catalog request timeout (default: 10s)")
	apiRPS := fs.String("api-rps", "", "Max catalog requests per second (default: 5)")
	probeCovers := fs.String("probe-covers", "", "Check cover URLs before showing them (default: true)")
	searchLimit := fs.String("search-limit", "", "Max search results (default: 20)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	// Missing .env is fine. Existing environment variables win over file values.
	_ = godotenv.Load(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
			File:  getConfigValue(*logFile, "LOG_FILE", ""),
		},
		API: APIConfig{
			BaseURL: strings.TrimRight(getConfigValue(*apiURL, "BOOKFINDER_API_URL", "http://localhost:8000"), "/"),
		},
		UI: UIConfig{
			ProbeCovers: getBoolConfigValue(*probeCovers, "BOOKFINDER_PROBE_COVERS", true),
			SearchLimit: getIntConfigValue(*searchLimit, "BOOKFINDER_SEARCH_LIMIT", 20),
		},
	}

	timeoutStr := getConfigValue(*apiTimeout, "BOOKFINDER_API_TIMEOUT", "10s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid api timeout %q: %w", timeoutStr, err)
	}
	cfg.API.Timeout = timeout

	rpsStr := getConfigValue(*apiRPS, "BOOKFINDER_API_RPS", "5")
	rps, err := strconv.ParseFloat(rpsStr, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid api rps %q: %w", rpsStr, err)
	}
	cfg.API.RPS = rps

	if err := cfg.expandLogFile(); err != nil {
		return nil, fmt.Errorf("invalid log file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all config values are present and valid.
func (c *Config) Validate() error {
	if err := validateCommon(c.App, c.Logger); err != nil {
		return err
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid api url: %q (must be an absolute http or https URL)", c.API.BaseURL)
	}
	if c.API.Timeout <= 0 {
		return errors.New("api timeout must be positive")
	}
	if c.API.RPS <= 0 {
		return errors.New("api rps must be positive")
	}
	if c.UI.SearchLimit <= 0 {
		return errors.New("search limit must be positive")
	}

	return nil
}

// LoadDevServer reads the dev server configuration with the same precedence as Load.
func LoadDevServer(args []string) (*DevServerConfig, error) {
	fs := flag.NewFlagSet("bookfinder-devserver", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")
	addr := fs.String("addr", "", "Listen address (default: :8000)")
	catalog := fs.String("catalog", "", "Path to a JSON catalog (default: embedded sample)")
	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	_ = godotenv.Load(*envFile)

	cfg := &DevServerConfig{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Addr:    getConfigValue(*addr, "DEVSERVER_ADDR", ":8000"),
		Catalog: getConfigValue(*catalog, "DEVSERVER_CATALOG", ""),
	}

	if cfg.Catalog != "" {
		expanded, err := expandPath(cfg.Catalog, "")
		if err != nil {
			return nil, fmt.Errorf("invalid catalog path: %w", err)
		}
		cfg.Catalog = expanded
	}

	if err := validateCommon(cfg.App, cfg.Logger); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if cfg.Addr == "" {
		return nil, errors.New("config validation failed: addr is required")
	}

	return cfg, nil
}

func validateCommon(app AppConfig, lg LoggerConfig) error {
	if app.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[app.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", app.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(lg.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", lg.Level)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// expandLogFile defaults the log file to {user cache dir}/bookfinder/bookfinder.log.
func (c *Config) expandLogFile() error {
	defaultPath := ""
	if c.Logger.File == "" {
		cacheDir, err := os.UserCacheDir()
		if err != nil {
			return fmt.Errorf("failed to get cache directory: %w", err)
		}
		defaultPath = filepath.Join(cacheDir, "bookfinder", "bookfinder.log")
	}

	expanded, err := expandPath(c.Logger.File, defaultPath)
	if err != nil {
		return err
	}
	c.Logger.File = expanded
	return nil
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
