package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/yildizm/SysSecura/internal/intake"
	"github.com/yildizm/SysSecura/internal/predict"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Predict PredictConfig `yaml:"predict" json:"predict"`
	Intake  IntakeConfig  `yaml:"intake" json:"intake"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Server  ServerConfig  `yaml:"server" json:"server"`
}

// PredictConfig configures the prediction service connection
type PredictConfig struct {
	Endpoint string        `yaml:"endpoint" json:"endpoint"` // prediction endpoint URL
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`   // 0 waits for the service indefinitely
}

// IntakeConfig configures file acceptance
type IntakeConfig struct {
	MaxFileSize int64 `yaml:"max_file_size" json:"max_file_size"` // bytes, 0 disables the limit
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // json|text|markdown|csv
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Theme         string `yaml:"theme" json:"theme"`                   // interactive UI theme
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
}

// ServerConfig configures the browser front end
type ServerConfig struct {
	Addr            string        `yaml:"addr" json:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout" json:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" json:"shutdown_timeout"`
}

// Themes lists the theme names the interactive UI understands
var Themes = []string{"default", "high-contrast", "minimal"}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Predict: PredictConfig{
			Endpoint: predict.DefaultEndpoint,
			Timeout:  0,
		},
		Intake: IntakeConfig{
			MaxFileSize: intake.DefaultMaxFileSize,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Theme:         "default",
			Verbose:       false,
		},
		Server: ServerConfig{
			Addr:            "127.0.0.1:8080",
			ReadTimeout:     30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
	}
}

// PredictorConfig returns the prediction client settings
func (c *Config) PredictorConfig() predict.Config {
	return predict.Config{
		Endpoint: c.Predict.Endpoint,
		Timeout:  c.Predict.Timeout,
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.validatePredictConfig(); err != nil {
		return err
	}
	if c.Intake.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be non-negative")
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return c.validateServerConfig()
}

func (c *Config) validatePredictConfig() error {
	if c.Predict.Endpoint == "" {
		return fmt.Errorf("predict endpoint must not be empty")
	}
	pc := c.PredictorConfig()
	if err := pc.Validate(); err != nil {
		return fmt.Errorf("invalid predict config: %w", err)
	}
	return nil
}

// validateOutputConfig validates output-related configuration
func (c *Config) validateOutputConfig() error {
	if c.Output.DefaultFormat != "" {
		validFormats := map[string]bool{
			"json":     true,
			"text":     true,
			"markdown": true,
			"csv":      true,
		}
		if !validFormats[c.Output.DefaultFormat] {
			return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown, csv)", c.Output.DefaultFormat)
		}
	}
	if c.Output.ColorMode != "" {
		validColorModes := map[string]bool{
			"auto":   true,
			"always": true,
			"never":  true,
		}
		if !validColorModes[c.Output.ColorMode] {
			return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
		}
	}
	if c.Output.Theme != "" {
		known := false
		for _, name := range Themes {
			if name == c.Output.Theme {
				known = true
				break
			}
		}
		if !known {
			return fmt.Errorf("invalid theme: %s (must be one of: default, high-contrast, minimal)", c.Output.Theme)
		}
	}
	return nil
}

func (c *Config) validateServerConfig() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if _, err := url.Parse("http://" + c.Server.Addr); err != nil {
		return fmt.Errorf("invalid server addr %q: %w", c.Server.Addr, err)
	}
	if c.Server.ReadTimeout < 0 {
		return fmt.Errorf("read_timeout must be non-negative")
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("shutdown_timeout must be non-negative")
	}
	return nil
}
