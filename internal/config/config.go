// Package config loads engine settings from an XDG-discovered JSON file,
// falling back to built-in defaults when no file exists.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/adrg/xdg"
)

var cfgFile = "gammon/config.json"

// InvalidConfig reports a configuration value that fails validation.
type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

// SearchConfig bounds the move selector.
type SearchConfig struct {
	MinDepth   int     `json:"min_depth"`
	MaxDepth   int     `json:"max_depth"`
	Iterations int     `json:"iterations"`
	Explore    float64 `json:"explore"`
}

// ValuationConfig holds the heuristic weights and cache size.
type ValuationConfig struct {
	BearOff    float64 `json:"bear_off"`
	Home       float64 `json:"home"`
	Blots      float64 `json:"blots"`
	Blockades  float64 `json:"blockades"`
	Pip        float64 `json:"pip"`
	NormFactor float64 `json:"norm_factor"`
	CacheSize  uint32  `json:"cache_size"`
}

// ServerConfig holds the analysis server settings.
type ServerConfig struct {
	Host           string `json:"host"`
	Port           int    `json:"port"`
	MaxFastWorkers int    `json:"max_fast_workers"`
	MaxSlowWorkers int    `json:"max_slow_workers"`
}

// Config is the full engine configuration.
type Config struct {
	Search    SearchConfig    `json:"search"`
	Valuation ValuationConfig `json:"valuation"`
	Server    ServerConfig    `json:"server"`
}

// DefaultConfig is used when no config file is found.
var DefaultConfig = Config{
	Search: SearchConfig{
		MinDepth:   2,
		MaxDepth:   7,
		Iterations: 120,
		Explore:    1.0,
	},
	Valuation: ValuationConfig{
		BearOff:    15.0,
		Home:       2.0,
		Blots:      3.0,
		Blockades:  1.0,
		Pip:        0.1,
		NormFactor: 225.0,
		CacheSize:  1 << 16,
	},
	Server: ServerConfig{
		Host:           "localhost",
		Port:           8080,
		MaxFastWorkers: 100,
		MaxSlowWorkers: 4,
	},
}

// InitConfig loads the config file if one exists in an XDG config path and
// validates the result.
func InitConfig() (*Config, error) {
	config := DefaultConfig
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err == nil {
		if err := readCfgFile(absPath, &config); err != nil {
			return nil, err
		}
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func readCfgFile(path string, config *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, config); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Validate checks the loaded values for internal consistency.
func (c *Config) Validate() error {
	if c.Search.MinDepth <= 0 {
		return &InvalidConfig{"search.min_depth must be positive"}
	}
	if c.Search.MaxDepth < c.Search.MinDepth {
		return &InvalidConfig{"search.max_depth must be >= search.min_depth"}
	}
	if c.Search.Iterations <= 0 {
		return &InvalidConfig{"search.iterations must be positive"}
	}
	if c.Search.Explore <= 0 {
		return &InvalidConfig{"search.explore must be positive"}
	}
	if c.Valuation.NormFactor <= 0 {
		return &InvalidConfig{"valuation.norm_factor must be positive"}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &InvalidConfig{"server.port out of range"}
	}
	return nil
}
