// Package config provides XML-based configuration with environment overrides.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
)

// DefaultFileName is the configuration file looked up next to the executable.
const DefaultFileName = "LaneDashboard.config"

// EnvPrefix prefixes every environment override, e.g. LANES_SERVER_PORT.
const EnvPrefix = "LANES"

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"LaneDashboard" ignored:"true"`

	// Server configuration
	Server ServerConfig `xml:"Server" envconfig:"SERVER"`

	// Processing configuration
	Processing ProcessingConfig `xml:"Processing" envconfig:"PROCESSING"`

	// Column profiles
	Profiles ProfilesConfig `xml:"Profiles" envconfig:"PROFILES"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced" envconfig:"ADVANCED"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port         int    `xml:"Port" envconfig:"PORT" validate:"min=1,max=65535"`
	BindAddress  string `xml:"BindAddress" envconfig:"BIND_ADDRESS"`
	EnableCORS   bool   `xml:"EnableCORS" envconfig:"ENABLE_CORS"`
	AllowOrigins string `xml:"AllowOrigins" envconfig:"ALLOW_ORIGINS"`
	ReadTimeout  int    `xml:"ReadTimeoutSeconds" envconfig:"READ_TIMEOUT" validate:"min=1"`
	WriteTimeout int    `xml:"WriteTimeoutSeconds" envconfig:"WRITE_TIMEOUT" validate:"min=1"`
	IdleTimeout  int    `xml:"IdleTimeoutSeconds" envconfig:"IDLE_TIMEOUT" validate:"min=1"`
}

// ProcessingConfig contains report and session settings
type ProcessingConfig struct {
	TopN                   int    `xml:"TopN" envconfig:"TOP_N" validate:"min=1"`
	IncludeMatrix          bool   `xml:"IncludeMatrix" envconfig:"INCLUDE_MATRIX"`
	Engine                 string `xml:"Engine" envconfig:"ENGINE" validate:"oneof=memory duckdb"`
	MaxSessions            int    `xml:"MaxSessions" envconfig:"MAX_SESSIONS" validate:"min=1"`
	SessionTimeoutMinutes  int    `xml:"SessionTimeoutMinutes" envconfig:"SESSION_TIMEOUT_MINUTES" validate:"min=1"`
	CleanupIntervalMinutes int    `xml:"CleanupIntervalMinutes" envconfig:"CLEANUP_INTERVAL_MINUTES" validate:"min=1"`
	MaxUploadSize          string `xml:"MaxUploadSize" envconfig:"MAX_UPLOAD_SIZE" validate:"required"`
}

// ProfilesConfig points at the YAML file of column profiles. An empty path
// or a missing file uses the built-in profiles.
type ProfilesConfig struct {
	Path string `xml:"Path" envconfig:"FILE"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	LogLevel             string `xml:"LogLevel" envconfig:"LOG_LEVEL" validate:"oneof=debug info warn error"`
	Development          bool   `xml:"Development" envconfig:"DEVELOPMENT"`
	EnableRequestLogging bool   `xml:"EnableRequestLogging" envconfig:"ENABLE_REQUEST_LOGGING"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:         8089,
			BindAddress:  "0.0.0.0",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  30,
			WriteTimeout: 30,
			IdleTimeout:  120,
		},
		Processing: ProcessingConfig{
			TopN:                   20,
			IncludeMatrix:          false,
			Engine:                 "memory",
			MaxSessions:            50,
			SessionTimeoutMinutes:  30,
			CleanupIntervalMinutes: 5,
			MaxUploadSize:          "64M",
		},
		Profiles: ProfilesConfig{
			Path: "./profiles.yaml",
		},
		Advanced: AdvancedConfig{
			LogLevel:             "info",
			Development:          false,
			EnableRequestLogging: true,
		},
	}
}

// LoadConfig loads configuration from XML file. A missing file is created
// with the defaults. Environment overrides apply in both cases.
func LoadConfig(configPath string) (*AppConfig, error) {
	var config *AppConfig
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config = DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		config = DefaultConfig()
		if err := xml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := config.applyEnvironmentOverrides(); err != nil {
		return nil, err
	}
	config.resolvePaths(filepath.Dir(configPath))

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- Lane Dashboard Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides lets LANES_* variables override config values.
// Unset variables leave the file's values in place.
func (c *AppConfig) applyEnvironmentOverrides() error {
	if err := envconfig.Process(EnvPrefix, c); err != nil {
		return fmt.Errorf("invalid environment override: %w", err)
	}
	return nil
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if c.Profiles.Path != "" && !filepath.IsAbs(c.Profiles.Path) {
		c.Profiles.Path = filepath.Join(configDir, c.Profiles.Path)
	}
}

// Validate checks value ranges after overrides are applied.
func (c *AppConfig) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// SessionTimeout is how long an idle session is kept.
func (c *AppConfig) SessionTimeout() time.Duration {
	return time.Duration(c.Processing.SessionTimeoutMinutes) * time.Minute
}

// CleanupInterval is how often the session janitor runs.
func (c *AppConfig) CleanupInterval() time.Duration {
	return time.Duration(c.Processing.CleanupIntervalMinutes) * time.Minute
}
