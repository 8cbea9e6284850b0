// Package config provides XML-based configuration management for self-contained deployment.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// AppConfig represents the root XML configuration structure
type AppConfig struct {
	XMLName xml.Name `xml:"F1Dashboard"`

	// Server configuration
	Server ServerConfig `xml:"Server"`

	// Data configuration
	Data DataConfig `xml:"Data"`

	// Live API configuration
	Live LiveConfig `xml:"Live"`

	// Security configuration
	Security SecurityConfig `xml:"Security"`

	// Advanced options
	Advanced AdvancedConfig `xml:"Advanced"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port             int    `xml:"Port"`
	BindAddress      string `xml:"BindAddress"`
	EnableCORS       bool   `xml:"EnableCORS"`
	AllowOrigins     string `xml:"AllowOrigins"`
	ReadTimeout      int    `xml:"ReadTimeoutSeconds"`
	WriteTimeout     int    `xml:"WriteTimeoutSeconds"`
	IdleTimeout      int    `xml:"IdleTimeoutSeconds"`
	EnableGzip       bool   `xml:"EnableGzip"`
	CompressionLevel int    `xml:"CompressionLevel"`
}

// DataConfig contains dataset and schedule settings
type DataConfig struct {
	DataDirectory      string `xml:"DataDirectory"`
	TempDirectory      string `xml:"TempDirectory"`
	SnapshotsDirectory string `xml:"SnapshotsDirectory"`
	ScheduleFile       string `xml:"ScheduleFile"`
	SettingsFile       string `xml:"SettingsFile"`
	StartYear          int    `xml:"StartYear"`
	ScheduleCacheTTL   int    `xml:"ScheduleCacheTTLSeconds"`
}

// LiveConfig contains settings for the upstream live standings API
type LiveConfig struct {
	Enabled  bool   `xml:"Enabled"`
	BaseURL  string `xml:"BaseURL"`
	Timeout  int    `xml:"TimeoutSeconds"`
	CacheTTL int    `xml:"CacheTTLSeconds"`
}

// SecurityConfig contains security settings
type SecurityConfig struct {
	AllowSnapshotDeletion bool `xml:"AllowSnapshotDeletion"`
}

// AdvancedConfig contains advanced/tuning options
type AdvancedConfig struct {
	EnableRequestLogging bool   `xml:"EnableRequestLogging"`
	DuckDBThreads        int    `xml:"DuckDBThreads"`
	DuckDBMemoryLimit    string `xml:"DuckDBMemoryLimit"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:             8090,
			BindAddress:      "0.0.0.0",
			EnableCORS:       true,
			AllowOrigins:     "*",
			ReadTimeout:      30,
			WriteTimeout:     30,
			IdleTimeout:      120,
			EnableGzip:       true,
			CompressionLevel: 5,
		},
		Data: DataConfig{
			DataDirectory:      "./data",
			TempDirectory:      "./data/temp",
			SnapshotsDirectory: "./data/snapshots",
			ScheduleFile:       "./data/f1-2025-schedule.json",
			SettingsFile:       "./data/defaults/dashboard.yaml",
			StartYear:          1950,
			ScheduleCacheTTL:   3600,
		},
		Live: LiveConfig{
			Enabled:  true,
			BaseURL:  "https://api.jolpi.ca/ergast/f1",
			Timeout:  10,
			CacheTTL: 300,
		},
		Security: SecurityConfig{
			AllowSnapshotDeletion: true,
		},
		Advanced: AdvancedConfig{
			EnableRequestLogging: true,
			DuckDBThreads:        4,
			DuckDBMemoryLimit:    "1GB",
		},
	}
}

// LoadConfig loads configuration from XML file
func LoadConfig(configPath string) (*AppConfig, error) {
	// If file doesn't exist, create default
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		config := DefaultConfig()
		if err := config.Save(configPath); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		config.applyEnvironmentOverrides()
		config.resolvePaths(filepath.Dir(configPath))
		return config, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := &AppConfig{}
	if err := xml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply environment variable overrides
	config.applyEnvironmentOverrides()

	// Resolve relative paths
	config.resolvePaths(filepath.Dir(configPath))

	return config, nil
}

// Save saves the configuration to XML file
func (c *AppConfig) Save(configPath string) error {
	output, err := xml.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(xml.Header + "\n<!-- F1 Analytics Dashboard Configuration -->\n<!-- This file is auto-generated on first run -->\n\n")
	content := append(header, output...)

	if err := os.WriteFile(configPath, content, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// applyEnvironmentOverrides allows environment variables to override config values
func (c *AppConfig) applyEnvironmentOverrides() {
	// PORT override
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}

	// DATA_DIR override
	if dataDir := os.Getenv("DATA_DIR"); dataDir != "" {
		c.Data.DataDirectory = dataDir
	}

	// F1_LIVE_URL override for pointing at an Ergast-compatible mirror
	if liveURL := os.Getenv("F1_LIVE_URL"); liveURL != "" {
		c.Live.BaseURL = liveURL
	}
}

// resolvePaths converts relative paths to absolute based on config file location
func (c *AppConfig) resolvePaths(configDir string) {
	if !filepath.IsAbs(c.Data.DataDirectory) {
		c.Data.DataDirectory = filepath.Join(configDir, c.Data.DataDirectory)
	}
	if !filepath.IsAbs(c.Data.TempDirectory) {
		c.Data.TempDirectory = filepath.Join(configDir, c.Data.TempDirectory)
	}
	if !filepath.IsAbs(c.Data.SnapshotsDirectory) {
		c.Data.SnapshotsDirectory = filepath.Join(configDir, c.Data.SnapshotsDirectory)
	}
	if !filepath.IsAbs(c.Data.ScheduleFile) {
		c.Data.ScheduleFile = filepath.Join(configDir, c.Data.ScheduleFile)
	}
	if !filepath.IsAbs(c.Data.SettingsFile) {
		c.Data.SettingsFile = filepath.Join(configDir, c.Data.SettingsFile)
	}
}

// GetDataDir returns the absolute data directory path
func (c *AppConfig) GetDataDir() string {
	return c.Data.DataDirectory
}

// GetSnapshotsDir returns the absolute snapshots directory path
func (c *AppConfig) GetSnapshotsDir() string {
	return c.Data.SnapshotsDirectory
}

// GetServerAddr returns the server bind address
func (c *AppConfig) GetServerAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// EnsureDirectories creates all necessary directories
func (c *AppConfig) EnsureDirectories() error {
	dirs := []string{
		c.Data.DataDirectory,
		c.Data.TempDirectory,
		c.Data.SnapshotsDirectory,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}
