// Package config handles Parrot configuration loading and validation.
package config

import (
	"fmt"
	"net/mail"
	"os"
	"path/filepath"
	"time"
)

// Config is the root configuration structure for Parrot.
type Config struct {
	// Global settings
	Global GlobalConfig `yaml:"global" mapstructure:"global"`

	// Database settings
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`

	// Logging settings
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`

	// Theme selection settings
	Theme ThemeConfig `yaml:"theme" mapstructure:"theme"`

	// Server settings for parrotd
	Server ServerConfig `yaml:"server" mapstructure:"server"`

	// Contact channel settings
	Contact ContactConfig `yaml:"contact" mapstructure:"contact"`
}

// GlobalConfig contains global Parrot settings.
type GlobalConfig struct {
	// DataDir is where Parrot stores its data (default: ~/.local/share/parrot).
	DataDir string `yaml:"data_dir" mapstructure:"data_dir"`

	// ConfigDir is where config files are stored (default: ~/.config/parrot).
	ConfigDir string `yaml:"config_dir" mapstructure:"config_dir"`
}

// DatabaseConfig contains database settings.
type DatabaseConfig struct {
	// Path is the SQLite database file path.
	Path string `yaml:"path" mapstructure:"path"`

	// MaxConnections is the maximum number of database connections.
	MaxConnections int `yaml:"max_connections" mapstructure:"max_connections"`

	// BusyTimeoutMs is how long to wait for a locked database.
	BusyTimeoutMs int `yaml:"busy_timeout_ms" mapstructure:"busy_timeout_ms"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error).
	Level string `yaml:"level" mapstructure:"level"`

	// Format is the output format (json, console).
	Format string `yaml:"format" mapstructure:"format"`

	// File is an optional log file path.
	File string `yaml:"file" mapstructure:"file"`

	// EnableCaller adds caller information to logs.
	EnableCaller bool `yaml:"enable_caller" mapstructure:"enable_caller"`
}

// ThemeConfig controls how the daily theme is chosen.
type ThemeConfig struct {
	// Timezone is the IANA zone whose calendar date selects the theme.
	// Empty means the local zone.
	Timezone string `yaml:"timezone" mapstructure:"timezone"`

	// TableFile is an optional YAML file replacing the built-in table.
	TableFile string `yaml:"table_file" mapstructure:"table_file"`
}

// ServerConfig contains parrotd listener settings.
type ServerConfig struct {
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	GRPCPort int    `yaml:"grpc_port" mapstructure:"grpc_port"`

	// Domain enables an autocert HTTPS listener when set.
	Domain    string `yaml:"domain" mapstructure:"domain"`
	CertDir   string `yaml:"cert_dir" mapstructure:"cert_dir"`
	HTTPSPort int    `yaml:"https_port" mapstructure:"https_port"`

	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ContactConfig holds the destinations for contact messages.
type ContactConfig struct {
	// Email receives mailto submissions.
	Email string `yaml:"email" mapstructure:"email"`

	// WhatsApp is the wa.me phone number, digits only.
	WhatsApp string `yaml:"whatsapp" mapstructure:"whatsapp"`

	// OpenDelay is how long clients wait before opening the WhatsApp link.
	OpenDelay time.Duration `yaml:"open_delay" mapstructure:"open_delay"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Global: GlobalConfig{
			DataDir:   filepath.Join(homeDir, ".local", "share", "parrot"),
			ConfigDir: filepath.Join(homeDir, ".config", "parrot"),
		},
		Database: DatabaseConfig{
			Path:           "", // Will be set to DataDir/parrot.db
			MaxConnections: 10,
			BusyTimeoutMs:  5000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Host:            "127.0.0.1",
			Port:            8080,
			GRPCPort:        50061,
			HTTPSPort:       443,
			ReadTimeout:     10 * time.Second,
			ShutdownTimeout: 5 * time.Second,
		},
		Contact: ContactConfig{
			Email:     "contact@parrot-apps.com",
			WhatsApp:  "573002685861",
			OpenDelay: 500 * time.Millisecond,
		},
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database.max_connections must be at least 1")
	}

	if c.Theme.Timezone != "" {
		if _, err := time.LoadLocation(c.Theme.Timezone); err != nil {
			return fmt.Errorf("theme.timezone: %w", err)
		}
	}

	if err := validPort("server.port", c.Server.Port, false); err != nil {
		return err
	}
	if err := validPort("server.grpc_port", c.Server.GRPCPort, true); err != nil {
		return err
	}
	if c.Server.Domain != "" {
		if err := validPort("server.https_port", c.Server.HTTPSPort, false); err != nil {
			return err
		}
	}
	if c.Server.ShutdownTimeout < 0 {
		return fmt.Errorf("server.shutdown_timeout must not be negative")
	}

	if _, err := mail.ParseAddress(c.Contact.Email); err != nil {
		return fmt.Errorf("contact.email is not a valid address: %w", err)
	}
	if c.Contact.WhatsApp == "" {
		return fmt.Errorf("contact.whatsapp is required")
	}
	for _, r := range c.Contact.WhatsApp {
		if r < '0' || r > '9' {
			return fmt.Errorf("contact.whatsapp must contain digits only")
		}
	}
	if c.Contact.OpenDelay < 0 {
		return fmt.Errorf("contact.open_delay must not be negative")
	}

	return nil
}

// validPort allows 0 only when the listener is optional.
func validPort(key string, port int, optional bool) error {
	if optional && port == 0 {
		return nil
	}
	if port < 1 || port > 65535 {
		return fmt.Errorf("%s must be between 1 and 65535", key)
	}
	return nil
}

// Location resolves the configured theme timezone.
func (c *Config) Location() *time.Location {
	if c.Theme.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Theme.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Global.DataDir,
		c.Global.ConfigDir,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// DatabasePath returns the full database path.
func (c *Config) DatabasePath() string {
	if c.Database.Path != "" {
		return c.Database.Path
	}
	return filepath.Join(c.Global.DataDir, "parrot.db")
}

// CertDir returns the autocert cache directory.
func (c *Config) CertDir() string {
	if c.Server.CertDir != "" {
		return c.Server.CertDir
	}
	return filepath.Join(c.Global.DataDir, "certs")
}
