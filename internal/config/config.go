package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const fileName = "kaizen.yml"

// WasteCategory is one entry of the waste taxonomy. Points is the fixed
// weight copied onto every waste entry logged against the category.
type WasteCategory struct {
	ID     string `yaml:"id" json:"id"`
	Name   string `yaml:"name" json:"name"`
	Points int    `yaml:"points" json:"points"`
}

// Config models kaizen.yml.
type Config struct {
	Waste struct {
		Catalog []WasteCategory `yaml:"catalog"`
	} `yaml:"waste"`
	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// Default returns the built-in configuration with the TIMWOODS eight.
func Default() *Config {
	c := &Config{}
	c.Waste.Catalog = []WasteCategory{
		{ID: "transportation", Name: "Transportation", Points: 1},
		{ID: "inventory", Name: "Inventory", Points: 2},
		{ID: "motion", Name: "Motion", Points: 3},
		{ID: "waiting", Name: "Waiting", Points: 4},
		{ID: "overprocessing", Name: "Overprocessing", Points: 5},
		{ID: "overproduction", Name: "Overproduction", Points: 6},
		{ID: "defects", Name: "Defects", Points: 7},
		{ID: "skills", Name: "Skills", Points: 8},
	}
	c.Log.Level = "info"
	return c
}

// Path returns the config file location for the workspace.
func Path(workspace string) string {
	if workspace == "" {
		workspace = "."
	}
	return filepath.Join(workspace, fileName)
}

// Load reads kaizen.yml from the workspace, falling back to Default when the
// file does not exist.
func Load(workspace string) (*Config, error) {
	data, err := os.ReadFile(Path(workspace))
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}
	return FromYAML(data)
}

// FromYAML parses and validates a config document. A missing waste catalog is
// filled in from the defaults.
func FromYAML(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Waste.Catalog) == 0 {
		cfg.Waste.Catalog = Default().Waste.Catalog
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return &cfg, cfg.Validate()
}

// Validate ensures the waste catalog is usable.
func (c *Config) Validate() error {
	if len(c.Waste.Catalog) == 0 {
		return fmt.Errorf("config.waste.catalog is required")
	}
	seen := map[string]bool{}
	for _, cat := range c.Waste.Catalog {
		id := strings.ToLower(strings.TrimSpace(cat.ID))
		if id == "" {
			return fmt.Errorf("config.waste.catalog contains empty category id")
		}
		if seen[id] {
			return fmt.Errorf("config.waste.catalog has duplicate category %s", id)
		}
		seen[id] = true
		if cat.Name == "" {
			return fmt.Errorf("category %s has empty name", id)
		}
		if cat.Points < 1 {
			return fmt.Errorf("category %s has non-positive points %d", id, cat.Points)
		}
	}
	return nil
}

// Category looks up a catalog entry by id, case-insensitively.
func (c *Config) Category(id string) (WasteCategory, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, cat := range c.Waste.Catalog {
		if strings.ToLower(cat.ID) == id {
			return cat, true
		}
	}
	return WasteCategory{}, false
}
