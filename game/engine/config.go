package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// MapConfig is the on-disk form of a catalog
type MapConfig struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Locations   []Location `json:"locations" yaml:"locations"`
}

// DefaultMapConfig returns the built-in catalog as a map configuration
func DefaultMapConfig() *MapConfig {
	return &MapConfig{
		Name:        Default().CatalogName(),
		Description: "The 32-planet standard map",
		Locations:   Default().Locations(),
	}
}

// ValidateMapConfig validates a map configuration for structure and ranges
func ValidateMapConfig(config *MapConfig) error {
	if config == nil {
		return fmt.Errorf("map validation: config cannot be nil")
	}
	if config.Name == "" {
		return fmt.Errorf("map validation: name is required")
	}
	if len(config.Locations) == 0 {
		return fmt.Errorf("map validation: at least one location is required")
	}

	for id, loc := range config.Locations {
		for _, c := range []struct {
			axis  string
			value uint32
		}{{"x", loc.Position.X}, {"y", loc.Position.Y}, {"z", loc.Position.Z}} {
			if c.value > MaxCoordinate {
				return fmt.Errorf("map validation: location %d (%s) position.%s must be at most %d, got %d",
					id, loc.Name, c.axis, MaxCoordinate, c.value)
			}
		}
		switch loc.Volume {
		case "", Large, Medium, Small, Tiny:
		default:
			return fmt.Errorf("map validation: location %d (%s) has unknown volume %q", id, loc.Name, loc.Volume)
		}
	}

	// Names and adjacency are checked by the catalog constructor
	if _, err := NewCatalog(config.Name, config.Locations); err != nil {
		return fmt.Errorf("map validation: %w", err)
	}

	return nil
}

// Catalog validates the configuration and builds its catalog
func (m *MapConfig) Catalog() (*Catalog, error) {
	if err := ValidateMapConfig(m); err != nil {
		return nil, err
	}
	return NewCatalog(m.Name, m.Locations)
}

// ParseMapConfig decodes a map from JSON or YAML depending on the file extension
func ParseMapConfig(filename string, data []byte) (*MapConfig, error) {
	var config MapConfig

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse map file '%s': %w", filename, err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse map file '%s': %w", filename, err)
		}
	default:
		return nil, fmt.Errorf("unsupported map file extension: %s", filename)
	}

	return &config, nil
}

// LoadMapConfig loads and validates a map configuration file
func LoadMapConfig(filename string) (*MapConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	config, err := ParseMapConfig(filename, data)
	if err != nil {
		return nil, err
	}

	if err := ValidateMapConfig(config); err != nil {
		return nil, fmt.Errorf("invalid map '%s': %w", filename, err)
	}

	return config, nil
}

// MarshalMapConfig encodes a map as indented JSON or YAML by extension
func MarshalMapConfig(filename string, config *MapConfig) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		return yaml.Marshal(config)
	case ".json":
		return json.MarshalIndent(config, "", "  ")
	default:
		return nil, fmt.Errorf("unsupported map file extension: %s", filename)
	}
}
