package config

import (
	"strings"
	"testing"
	"time"

	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/predict"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.Predict.Endpoint != predict.DefaultEndpoint {
		t.Errorf("Expected endpoint %s, got %s", predict.DefaultEndpoint, cfg.Predict.Endpoint)
	}
	if cfg.Predict.Timeout != 0 {
		t.Errorf("Expected no prediction timeout by default, got %v", cfg.Predict.Timeout)
	}
	if cfg.Intake.MaxFileSize != intake.DefaultMaxFileSize {
		t.Errorf("Expected max file size %d, got %d", intake.DefaultMaxFileSize, cfg.Intake.MaxFileSize)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected output format text, got %s", cfg.Output.DefaultFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}
}

func TestPredictorConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Predict.Endpoint = "https://predict.example.com/v1/predict"
	cfg.Predict.Timeout = 5 * time.Second

	pc := cfg.PredictorConfig()
	if pc.Endpoint != cfg.Predict.Endpoint || pc.Timeout != 5*time.Second {
		t.Errorf("Unexpected predictor config: %+v", pc)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: false,
		},
		{
			name:    "empty endpoint",
			mutate:  func(c *Config) { c.Predict.Endpoint = "" },
			wantErr: true,
			errMsg:  "predict endpoint must not be empty",
		},
		{
			name:    "endpoint without scheme",
			mutate:  func(c *Config) { c.Predict.Endpoint = "localhost:5000/predict" },
			wantErr: true,
			errMsg:  "invalid predict config",
		},
		{
			name:    "negative predict timeout",
			mutate:  func(c *Config) { c.Predict.Timeout = -time.Second },
			wantErr: true,
			errMsg:  "invalid predict config",
		},
		{
			name:    "negative max file size",
			mutate:  func(c *Config) { c.Intake.MaxFileSize = -1 },
			wantErr: true,
			errMsg:  "max_file_size must be non-negative",
		},
		{
			name:    "unlimited file size",
			mutate:  func(c *Config) { c.Intake.MaxFileSize = 0 },
			wantErr: false,
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "xml" },
			wantErr: true,
			errMsg:  "invalid output format",
		},
		{
			name:    "invalid color mode",
			mutate:  func(c *Config) { c.Output.ColorMode = "sometimes" },
			wantErr: true,
			errMsg:  "invalid color mode",
		},
		{
			name:    "invalid theme",
			mutate:  func(c *Config) { c.Output.Theme = "neon" },
			wantErr: true,
			errMsg:  "invalid theme",
		},
		{
			name:    "known theme",
			mutate:  func(c *Config) { c.Output.Theme = "minimal" },
			wantErr: false,
		},
		{
			name:    "empty server addr",
			mutate:  func(c *Config) { c.Server.Addr = "" },
			wantErr: true,
			errMsg:  "server addr must not be empty",
		},
		{
			name:    "negative shutdown timeout",
			mutate:  func(c *Config) { c.Server.ShutdownTimeout = -time.Second },
			wantErr: true,
			errMsg:  "shutdown_timeout must be non-negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				if err == nil {
					t.Error("Expected validation error but got none")
				} else if tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
					t.Errorf("Expected error message to contain '%s', got '%s'", tt.errMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("Unexpected validation error: %v", err)
			}
		})
	}
}
