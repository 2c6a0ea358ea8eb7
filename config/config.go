// config/config.go
package config

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port" validate:"required,numeric"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

// CitySource describes where one city's trip records come from.
// Kind "csv" reads Path directly; "url" downloads URL to Path first;
// "mysql" reads Table from the configured database.
type CitySource struct {
	Kind  string `yaml:"kind" validate:"required,oneof=csv url mysql"`
	Path  string `yaml:"path" validate:"required_unless=Kind mysql"`
	URL   string `yaml:"url" validate:"omitempty,url,required_if=Kind url"`
	Table string `yaml:"table" validate:"required_if=Kind mysql"`

	// Optional data-portal page carrying an "Updated MM/DD/YYYY" stamp
	// for this dataset, used by the refresh service.
	CatalogPage     string `yaml:"catalog_page" validate:"omitempty,url"`
	CatalogSelector string `yaml:"catalog_selector"`
}

// Config is one analysis session's configuration. The city map is handed
// explicitly to the loader; it is not process-wide mutable state.
type Config struct {
	Server   ServerConfig          `yaml:"server"`
	Database DatabaseConfig        `yaml:"database"`
	Cities   map[string]CitySource `yaml:"cities" validate:"required,min=1"`
}

// AppConfig holds the configuration loaded at startup, for the outer
// HTTP/CLI layer. Core packages take the values they need as arguments.
var AppConfig *Config

// Load reads, validates and returns the configuration. When configPath is
// empty the standard locations are probed.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		potentialPaths := []string{
			"config.yaml",
			"config/config.yaml",
		}
		for _, p := range potentialPaths {
			if _, err := os.Stat(p); err == nil {
				configPath = p
				break
			}
		}
		if configPath == "" {
			return nil, fmt.Errorf("config.yaml not found in standard locations")
		}
	}

	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Environment (populated from .env by main) overrides the database
	// credentials so they can stay out of the YAML file.
	if v := os.Getenv("BIKESHARE_DB_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("BIKESHARE_DB_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("BIKESHARE_DB_HOST"); v != "" {
		cfg.Database.Host = v
	}

	v := validator.New()
	if err := v.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	for city, source := range cfg.Cities {
		if err := v.Struct(source); err != nil {
			return nil, fmt.Errorf("invalid source for city %q: %w", city, err)
		}
	}

	return &cfg, nil
}
