package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DatabaseSecrets holds connection settings kept out of the main config file.
// URL, when set, replaces every other field.
type DatabaseSecrets struct {
	URL      string `yaml:"url,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	Name     string `yaml:"name,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	SSLMode  string `yaml:"sslMode,omitempty"`
}

// Secrets is the optional presencas_secrets[.<env>].yaml file
type Secrets struct {
	Database DatabaseSecrets `yaml:"database"`
	Users    []string        `yaml:"users,omitempty" validate:"dive,email"`
	Admins   []string        `yaml:"admins,omitempty" validate:"dive,email"`
}

// LoadSecretsWithEnv loads the secrets file for env. A missing file yields empty secrets.
func LoadSecretsWithEnv(env string) (*Secrets, error) {
	path, err := findFile(fileName("presencas_secrets", env, "yaml"))
	if errors.Is(err, os.ErrNotExist) {
		return &Secrets{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find secrets file: %w", err)
	}
	return LoadSecretsFromPath(path)
}

// LoadSecretsFromPath loads and validates a secrets file
func LoadSecretsFromPath(path string) (*Secrets, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file: %w", err)
	}

	var s Secrets
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse secrets file: %w", err)
	}
	if err := validate.Struct(&s); err != nil {
		return nil, fmt.Errorf("secrets validation failed: %w", err)
	}
	return &s, nil
}

// LoadDotEnv loads .env.<env> and .env into the process environment if present.
// Variables already set are not overridden.
func LoadDotEnv(env string) error {
	files := []string{".env"}
	if env != "" {
		files = []string{".env." + env, ".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}
