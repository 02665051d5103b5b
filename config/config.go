// Package config loads sector classification and benchmark weight
// configuration for sector attribution. The engine treats both as
// immutable inputs; this package is the one place they are read and
// validated.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/aristath/attribution/domain"
	"github.com/aristath/attribution/numeric"
)

// SectorConfig maps assets to sectors and sectors to benchmark weight
// fractions.
type SectorConfig struct {
	Sectors          map[string]string  `yaml:"sectors"`
	BenchmarkWeights map[string]float64 `yaml:"benchmark_weights"`
}

// LoadFile reads and parses a sector configuration file.
func LoadFile(path string) (*SectorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sector config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates sector configuration from YAML.
func Parse(data []byte) (*SectorConfig, error) {
	var cfg SectorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse sector config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that benchmark weights are finite, non-negative
// fractions. Weights are not required to sum to 1; callers can check
// WeightSum when they want to warn about incomplete benchmarks.
func (c *SectorConfig) Validate() error {
	for sector, weight := range c.BenchmarkWeights {
		if !numeric.IsFinite(weight) || weight < 0 {
			return fmt.Errorf("benchmark weight for sector %q must be a non-negative finite fraction", sector)
		}
	}
	return nil
}

// WeightSum returns the sum of the configured benchmark fractions.
func (c *SectorConfig) WeightSum() float64 {
	total := 0.0
	for _, w := range c.BenchmarkWeights {
		total += w
	}
	return total
}

// SectorMap converts the asset-to-sector mapping into the engine's type.
func (c *SectorConfig) SectorMap() domain.SectorMap {
	out := make(domain.SectorMap, len(c.Sectors))
	for asset, sector := range c.Sectors {
		out[asset] = sector
	}
	return out
}

// Benchmark converts the benchmark fractions into the engine's type.
func (c *SectorConfig) Benchmark() domain.BenchmarkWeights {
	out := make(domain.BenchmarkWeights, len(c.BenchmarkWeights))
	for sector, weight := range c.BenchmarkWeights {
		out[sector] = weight
	}
	return out
}
