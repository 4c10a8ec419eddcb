package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// testLoader searches only the given paths and reads env from a map
func testLoader(paths []string, env map[string]string) *Loader {
	l := NewLoader()
	l.configPaths = paths
	l.getenv = func(key string) string { return env[key] }
	l.warn = func(string, ...any) {}
	return l
}

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	if loader == nil {
		t.Fatal("NewLoader returned nil")
	}
	if len(loader.configPaths) != 3 {
		t.Errorf("Expected 3 config paths, got %d", len(loader.configPaths))
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	loader := testLoader([]string{filepath.Join(dir, "missing.yaml")}, nil)

	cfg, err := loader.LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load default config: %v", err)
	}
	if cfg.Predict.Endpoint != "http://localhost:5000/predict" {
		t.Errorf("Expected default endpoint, got %s", cfg.Predict.Endpoint)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format text, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "test-config.yaml", `version: "1.0"
predict:
  endpoint: "http://ml.internal:9000/predict"
  timeout: 45s
intake:
  max_file_size: 1048576
output:
  default_format: "json"
  verbose: true
server:
  addr: ":9090"
`)

	cfg, err := testLoader(nil, nil).LoadConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config from file: %v", err)
	}

	if cfg.Predict.Endpoint != "http://ml.internal:9000/predict" {
		t.Errorf("Expected endpoint from file, got %s", cfg.Predict.Endpoint)
	}
	if cfg.Predict.Timeout != 45*time.Second {
		t.Errorf("Expected timeout 45s, got %v", cfg.Predict.Timeout)
	}
	if cfg.Intake.MaxFileSize != 1048576 {
		t.Errorf("Expected max file size 1048576, got %d", cfg.Intake.MaxFileSize)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected output format json, got %s", cfg.Output.DefaultFormat)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Expected server addr :9090, got %s", cfg.Server.Addr)
	}
	// untouched sections keep defaults
	if cfg.Output.ColorMode != "auto" {
		t.Errorf("Expected default color mode, got %s", cfg.Output.ColorMode)
	}
}

func TestLoadConfigPriority(t *testing.T) {
	dir := t.TempDir()
	high := writeConfig(t, dir, "project.yaml", `output:
  default_format: "csv"
  verbose: false
`)
	low := writeConfig(t, dir, "system.yaml", `predict:
  endpoint: "http://system:5000/predict"
output:
  default_format: "markdown"
  verbose: true
`)

	cfg, err := testLoader([]string{high, low}, nil).LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Output.DefaultFormat != "csv" {
		t.Errorf("Expected higher priority file to win, got %s", cfg.Output.DefaultFormat)
	}
	if cfg.Output.Verbose {
		t.Error("Expected explicit false in higher priority file to override true")
	}
	if cfg.Predict.Endpoint != "http://system:5000/predict" {
		t.Errorf("Expected lower priority value kept when not overridden, got %s", cfg.Predict.Endpoint)
	}
}

func TestLoadConfigSkipsBrokenStandardFile(t *testing.T) {
	dir := t.TempDir()
	broken := writeConfig(t, dir, "broken.yaml", "output: [unterminated\n")

	var warnings []string
	loader := testLoader([]string{broken}, nil)
	loader.warn = func(format string, args ...any) {
		warnings = append(warnings, format)
	}

	if _, err := loader.LoadConfig(""); err != nil {
		t.Fatalf("Broken standard file should not fail loading: %v", err)
	}
	if len(warnings) != 1 {
		t.Errorf("Expected one warning, got %d", len(warnings))
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "invalid-config.yaml", `version: "1.0"
output:
  default_format: "json
  verbose: true
`)

	if _, err := testLoader(nil, nil).LoadConfig(configPath); err == nil {
		t.Error("Expected error loading invalid YAML config, but got none")
	}
}

func TestLoadConfigValidationFailure(t *testing.T) {
	dir := t.TempDir()
	configPath := writeConfig(t, dir, "bad.yaml", `output:
  default_format: "xml"
`)

	_, err := testLoader(nil, nil).LoadConfig(configPath)
	if err == nil || !strings.Contains(err.Error(), "configuration validation failed") {
		t.Errorf("Expected validation failure, got %v", err)
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	env := map[string]string{
		"SYSSECURA_PREDICT_ENDPOINT":        "https://predict.example.com/predict",
		"SYSSECURA_PREDICT_TIMEOUT":         "12s",
		"SYSSECURA_INTAKE_MAX_FILE_SIZE":    "2048",
		"SYSSECURA_OUTPUT_VERBOSE":          "true",
		"SYSSECURA_OUTPUT_THEME":            "high-contrast",
		"SYSSECURA_SERVER_ADDR":             "0.0.0.0:8000",
		"SYSSECURA_SERVER_SHUTDOWN_TIMEOUT": "3s",
	}

	cfg := DefaultConfig()
	if err := testLoader(nil, env).applyEnvOverrides(cfg); err != nil {
		t.Fatalf("Failed to apply env overrides: %v", err)
	}

	if cfg.Predict.Endpoint != "https://predict.example.com/predict" {
		t.Errorf("Expected endpoint override, got %s", cfg.Predict.Endpoint)
	}
	if cfg.Predict.Timeout != 12*time.Second {
		t.Errorf("Expected timeout 12s, got %v", cfg.Predict.Timeout)
	}
	if cfg.Intake.MaxFileSize != 2048 {
		t.Errorf("Expected max file size 2048, got %d", cfg.Intake.MaxFileSize)
	}
	if !cfg.Output.Verbose {
		t.Errorf("Expected verbose to be true")
	}
	if cfg.Output.Theme != "high-contrast" {
		t.Errorf("Expected theme override, got %s", cfg.Output.Theme)
	}
	if cfg.Server.Addr != "0.0.0.0:8000" {
		t.Errorf("Expected server addr override, got %s", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("Expected shutdown timeout 3s, got %v", cfg.Server.ShutdownTimeout)
	}
}

func TestEnvOverridesBeatFiles(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "project.yaml", `output:
  default_format: "csv"
`)

	cfg, err := testLoader([]string{path}, map[string]string{
		"SYSSECURA_OUTPUT_DEFAULT_FORMAT": "json",
	}).LoadConfig("")
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Output.DefaultFormat != "json" {
		t.Errorf("Expected env to win over file, got %s", cfg.Output.DefaultFormat)
	}
}

func TestApplyEnvOverridesInvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid int", "SYSSECURA_INTAKE_MAX_FILE_SIZE", "five-megabytes"},
		{"invalid bool", "SYSSECURA_OUTPUT_VERBOSE", "not-a-bool"},
		{"invalid duration", "SYSSECURA_PREDICT_TIMEOUT", "not-a-duration"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := testLoader(nil, map[string]string{tt.envVar: tt.value})
			err := loader.applyEnvOverrides(DefaultConfig())
			if err == nil {
				t.Error("Expected error for invalid env var value, but got none")
			} else if !strings.Contains(err.Error(), tt.envVar) {
				t.Errorf("Expected error to name %s, got %v", tt.envVar, err)
			}
		})
	}
}

func TestParseDuration(t *testing.T) {
	var duration time.Duration

	if err := parseDuration("30s", &duration); err != nil {
		t.Errorf("Failed to parse duration: %v", err)
	}
	if duration != 30*time.Second {
		t.Errorf("Expected 30s, got %v", duration)
	}
	if err := parseDuration("invalid", &duration); err == nil {
		t.Error("Expected error for invalid duration, but got none")
	}
}

func TestParseInt64(t *testing.T) {
	var value int64

	if err := parseInt64("5242880", &value); err != nil {
		t.Errorf("Failed to parse int: %v", err)
	}
	if value != 5242880 {
		t.Errorf("Expected 5242880, got %d", value)
	}
	if err := parseInt64("not-a-number", &value); err == nil {
		t.Error("Expected error for invalid int, but got none")
	}
}

func TestParseBool(t *testing.T) {
	var value bool

	if err := parseBool("true", &value); err != nil || !value {
		t.Errorf("Expected true, got %v (err %v)", value, err)
	}
	if err := parseBool("false", &value); err != nil || value {
		t.Errorf("Expected false, got %v (err %v)", value, err)
	}
	if err := parseBool("not-a-bool", &value); err == nil {
		t.Error("Expected error for invalid bool, but got none")
	}
}

func TestFileExists(t *testing.T) {
	if fileExists("/path/that/does/not/exist") {
		t.Error("Expected file to not exist, but fileExists returned true")
	}

	dir := t.TempDir()
	if fileExists(dir) {
		t.Error("Expected directory to be rejected")
	}

	tempFile := filepath.Join(dir, "test-file")
	if err := os.WriteFile(tempFile, []byte("test"), 0o600); err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if !fileExists(tempFile) {
		t.Error("Expected file to exist, but fileExists returned false")
	}
}

func TestGetConfigPaths(t *testing.T) {
	paths := GetConfigPaths()
	if len(paths) != len(ConfigPaths) {
		t.Fatalf("Expected %d paths, got %d", len(ConfigPaths), len(paths))
	}
	for _, p := range paths {
		if strings.HasPrefix(p, "~") {
			t.Errorf("Expected home directory expanded, got %s", p)
		}
	}
}

func TestValidateConfigPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
		errMsg  string
	}{
		{name: "valid yaml file", path: "config.yaml"},
		{name: "valid yml file", path: "config.yml"},
		{name: "relative path with valid extension", path: "./configs/app.yaml"},
		{
			name:    "path traversal attempt",
			path:    "../../../etc/passwd",
			wantErr: true,
			errMsg:  "path traversal not allowed",
		},
		{
			name:    "non-yaml file",
			path:    "config.txt",
			wantErr: true,
			errMsg:  "config file must have .yaml or .yml extension",
		},
		{
			name:    "system file access",
			path:    "/etc/passwd.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
		{
			name:    "proc filesystem access",
			path:    "/proc/version.yaml",
			wantErr: true,
			errMsg:  "access to system files not allowed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateConfigPath(tt.path)
			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				} else if !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
