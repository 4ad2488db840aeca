package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/logistica/presencas/pkg/core/model"
)

// DatabaseConfig holds non-secret connection settings. Credentials belong in the
// secrets file or the environment.
type DatabaseConfig struct {
	Host           string `yaml:"host,omitempty" validate:"omitempty,hostname|ip"`
	Port           int    `yaml:"port,omitempty" validate:"omitempty,min=1,max=65535"`
	Name           string `yaml:"name,omitempty"`
	User           string `yaml:"user,omitempty"`
	SSLMode        string `yaml:"sslMode,omitempty" validate:"omitempty,oneof=disable allow prefer require verify-ca verify-full"`
	ConnectTimeout int    `yaml:"connectTimeout,omitempty" validate:"omitempty,min=1"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr           string        `yaml:"addr,omitempty" validate:"omitempty,hostname_port"`
	AllowedOrigins []string      `yaml:"allowedOrigins,omitempty" validate:"dive,url"`
	SessionTTL     time.Duration `yaml:"sessionTTL,omitempty" validate:"omitempty,min=1m"`
}

// AccessConfig lists who may log in. The secrets file can add to both lists.
type AccessConfig struct {
	AllowedEmails []string `yaml:"allowedEmails,omitempty" validate:"dive,email"`
	AdminEmails   []string `yaml:"adminEmails,omitempty" validate:"dive,email"`
}

// ImportConfig configures the shift import
type ImportConfig struct {
	SpreadsheetID string `yaml:"spreadsheetID,omitempty"`
	DefaultShift  string `yaml:"defaultShift,omitempty" validate:"omitempty,shift"`
}

// Config represents the application configuration
type Config struct {
	Database     DatabaseConfig `yaml:"database"`
	Server       ServerConfig   `yaml:"server"`
	Access       AccessConfig   `yaml:"access"`
	Import       ImportConfig   `yaml:"import"`
	StrictShifts bool           `yaml:"strictShifts,omitempty"`
}

const (
	DefaultAddr       = ":8080"
	DefaultSessionTTL = 12 * time.Hour
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterValidation("shift", func(fl validator.FieldLevel) bool {
		return model.IsValidShift(fl.Field().String())
	})
}

// LoadWithEnv loads and validates the configuration with an environment suffix.
// For example, env="test" will look for "presencas_config.test.yaml".
func LoadWithEnv(env string) (*Config, error) {
	configPath, err := findFile(fileName("presencas_config", env, "yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to find config file: %w", err)
	}

	return LoadFromPath(configPath)
}

// LoadFromPath loads and validates the configuration from a specific path
func LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the configuration used when no config file exists
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.SessionTTL == 0 {
		c.Server.SessionTTL = DefaultSessionTTL
	}
	if c.Import.DefaultShift == "" {
		c.Import.DefaultShift = model.ShiftFirst
	}
}

// Validate validates the configuration struct
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// fileName returns base.ext, or base.env.ext when env is set
func fileName(base, env, ext string) string {
	if env == "" {
		return base + "." + ext
	}
	return base + "." + env + "." + ext
}

// findFile searches for name in the current directory and then the home directory
func findFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory: %w", name, os.ErrNotExist)
}
