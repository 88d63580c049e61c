package server

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
)

// DefaultConfigPath is the config file read by serve and written by init.
const DefaultConfigPath = "catalog.yaml"

// ErrConfigExists is returned by Init when the config file is already present.
var ErrConfigExists = errors.New("config file already exists")

type CatalogOption struct {
	ServiceName               string               `yaml:"service_name"`
	Endpoint                  string               `yaml:"endpoint"`
	Port                      int                  `yaml:"port"`
	EnablePlayground          bool                 `yaml:"enable_playground"`
	EnableComplementRequestId bool                 `yaml:"enable_complement_request_id"`
	Opentelemetry             OpentelemetrySetting `yaml:"opentelemetry"`
}

type OpentelemetrySetting struct {
	TracingSetting OpentelemetryTracingSetting `yaml:"tracing"`
}

type OpentelemetryTracingSetting struct {
	Enable bool `yaml:"enable"`
}

// DefaultOption returns the settings used when no config file is present.
func DefaultOption() CatalogOption {
	return CatalogOption{
		ServiceName:               "catalog",
		Endpoint:                  "/graphql",
		Port:                      8000,
		EnablePlayground:          true,
		EnableComplementRequestId: true,
	}
}

// LoadOption reads a YAML config file. Keys missing from the file keep their default.
// A missing file is reported with an error wrapping fs.ErrNotExist.
func LoadOption(path string) (CatalogOption, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return CatalogOption{}, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return ParseOption(src)
}

// ParseOption decodes YAML settings on top of DefaultOption and validates them.
func ParseOption(src []byte) (CatalogOption, error) {
	opt := DefaultOption()
	if len(bytes.TrimSpace(src)) > 0 {
		if err := yaml.Unmarshal(src, &opt); err != nil {
			return CatalogOption{}, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	if err := opt.validate(); err != nil {
		return CatalogOption{}, err
	}

	return opt, nil
}

func (o CatalogOption) validate() error {
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid port %d", o.Port)
	}
	if !strings.HasPrefix(o.Endpoint, "/") {
		return fmt.Errorf("endpoint must start with '/': %q", o.Endpoint)
	}
	if o.ServiceName == "" {
		return errors.New("service_name must not be empty")
	}
	return nil
}

// Init writes the default config to path.
func Init(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s: %w", path, ErrConfigExists)
	}

	src, err := yaml.Marshal(DefaultOption())
	if err != nil {
		return fmt.Errorf("failed to encode default config: %w", err)
	}

	if err := os.WriteFile(path, src, 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
