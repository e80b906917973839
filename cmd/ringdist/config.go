package main

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

var knownAlgorithms = map[string]bool{
	"consistent":          true,
	"multi-probe":         true,
	"rendezvous":          true,
	"weighted-rendezvous": true,
	"maglev":              true,
	"jump":                true,
	"carp":                true,
}

// Config controls which rings are built and how they are parameterized.
type Config struct {
	Servers    int       `yaml:"servers"`
	Objects    int       `yaml:"objects"`
	Algorithms []string  `yaml:"algorithms"`
	Replicas   int       `yaml:"replicas"`
	Probes     int       `yaml:"probes"`
	TableSize  int       `yaml:"table_size"`
	Weights    []float64 `yaml:"weights"`
	Seed       int64     `yaml:"seed"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Servers:  10,
		Objects:  100000,
		Replicas: 160,
		Probes:   21,
		Seed:     42,
		Algorithms: []string{
			"consistent",
			"multi-probe",
			"rendezvous",
			"weighted-rendezvous",
			"maglev",
			"jump",
			"carp",
		},
	}
}

// Load reads a YAML config file on top of the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration and fills derived defaults.
func (c *Config) Validate() error {
	if c.Servers <= 0 {
		return errors.New("servers must be positive")
	}
	if c.Objects <= 0 {
		return errors.New("objects must be positive")
	}
	if c.Replicas <= 0 {
		return errors.New("replicas must be positive")
	}
	if c.Probes <= 0 {
		return errors.New("probes must be positive")
	}
	if c.TableSize < 0 {
		return errors.New("table_size must not be negative")
	}
	if len(c.Algorithms) == 0 {
		return errors.New("at least one algorithm is required")
	}
	for _, a := range c.Algorithms {
		if !knownAlgorithms[a] {
			return fmt.Errorf("unknown algorithm: %q", a)
		}
	}
	if len(c.Weights) == 0 {
		c.Weights = make([]float64, c.Servers)
		for i := range c.Weights {
			c.Weights[i] = 1
		}
	}
	if len(c.Weights) != c.Servers {
		return fmt.Errorf(
			"weights length %d does not match servers %d",
			len(c.Weights), c.Servers,
		)
	}
	for i, w := range c.Weights {
		if w <= 0 {
			return fmt.Errorf("weights[%d] must be positive", i)
		}
	}
	return nil
}
