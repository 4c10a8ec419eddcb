package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override
const EnvPrefix = "SYSSECURA_"

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.syssecura.yaml",               // Project-specific config (highest priority)
	"~/.config/syssecura/config.yaml", // User config
	"/etc/syssecura/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
	getenv      func(string) string
	warn        func(format string, args ...any)
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
		getenv:      os.Getenv,
		warn: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "Warning: "+format+"\n", args...)
		},
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.syssecura.yaml
// 4. ~/.config/syssecura/config.yaml
// 5. /etc/syssecura/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// lowest priority first so later files win
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			path := expandPath(l.configPaths[i])
			if !fileExists(path) {
				continue
			}
			if err := l.loadFromFile(config, path); err != nil {
				l.warn("failed to load config from %s: %v", path, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// fileConfig mirrors Config with pointer leaves so a file can set a field
// to its zero value (verbose: false, timeout: 0s).
type fileConfig struct {
	Version *string `yaml:"version"`
	Predict struct {
		Endpoint *string        `yaml:"endpoint"`
		Timeout  *time.Duration `yaml:"timeout"`
	} `yaml:"predict"`
	Intake struct {
		MaxFileSize *int64 `yaml:"max_file_size"`
	} `yaml:"intake"`
	Output struct {
		DefaultFormat *string `yaml:"default_format"`
		ColorMode     *string `yaml:"color_mode"`
		Theme         *string `yaml:"theme"`
		Verbose       *bool   `yaml:"verbose"`
	} `yaml:"output"`
	Server struct {
		Addr            *string        `yaml:"addr"`
		ReadTimeout     *time.Duration `yaml:"read_timeout"`
		ShutdownTimeout *time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() or comes from ConfigPaths
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var src fileConfig
	if err := yaml.Unmarshal(data, &src); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &src)
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		"PREDICT_ENDPOINT": func(v string) error { config.Predict.Endpoint = v; return nil },
		"PREDICT_TIMEOUT":  func(v string) error { return parseDuration(v, &config.Predict.Timeout) },

		"INTAKE_MAX_FILE_SIZE": func(v string) error { return parseInt64(v, &config.Intake.MaxFileSize) },

		"OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"OUTPUT_THEME":          func(v string) error { config.Output.Theme = v; return nil },
		"OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },

		"SERVER_ADDR":             func(v string) error { config.Server.Addr = v; return nil },
		"SERVER_READ_TIMEOUT":     func(v string) error { return parseDuration(v, &config.Server.ReadTimeout) },
		"SERVER_SHUTDOWN_TIMEOUT": func(v string) error { return parseDuration(v, &config.Server.ShutdownTimeout) },
	}

	for suffix, setter := range envMappings {
		envVar := EnvPrefix + suffix
		if value := l.getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range GetConfigPaths() {
		if fileExists(path) {
			return path, true
		}
	}
	return "", false
}

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/etc/passwd") ||
		strings.HasPrefix(absPath, "/etc/shadow") ||
		strings.HasPrefix(absPath, "/proc/") ||
		strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// mergeConfigs copies every field the file set onto dst
func mergeConfigs(dst *Config, src *fileConfig) {
	setIf(&dst.Version, src.Version)

	setIf(&dst.Predict.Endpoint, src.Predict.Endpoint)
	setIf(&dst.Predict.Timeout, src.Predict.Timeout)

	setIf(&dst.Intake.MaxFileSize, src.Intake.MaxFileSize)

	setIf(&dst.Output.DefaultFormat, src.Output.DefaultFormat)
	setIf(&dst.Output.ColorMode, src.Output.ColorMode)
	setIf(&dst.Output.Theme, src.Output.Theme)
	setIf(&dst.Output.Verbose, src.Output.Verbose)

	setIf(&dst.Server.Addr, src.Server.Addr)
	setIf(&dst.Server.ReadTimeout, src.Server.ReadTimeout)
	setIf(&dst.Server.ShutdownTimeout, src.Server.ShutdownTimeout)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Type conversion helpers

func parseInt64(s string, dst *int64) error {
	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseBool(s string, dst *bool) error {
	val, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	val, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = val
	return nil
}
