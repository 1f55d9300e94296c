// =============================================================================
// CONFIG.GO - Mempool & Address Index Configuration
// =============================================================================

package main

import (
	"encoding/json"
	"fmt"
	"io/ioutil"
)

// =============================================================================
// MEMPOOL CONFIGURATION
// =============================================================================

// MempoolConfig is the top-level operational configuration for a mempool
// instance and the persistent address store backing it.
type MempoolConfig struct {
	ChainID  string     `json:"chain_id"`
	LogLevel string     `json:"log_level"`
	Store    StoreConfig `json:"store"`
}

// LoadMempoolConfig loads configuration from a JSON file on disk.
func LoadMempoolConfig(path string) (*MempoolConfig, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mempool config file: %v", err)
	}

	var config MempoolConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse mempool config JSON: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid mempool config: %v", err)
	}

	return &config, nil
}

// Validate checks that the configuration is usable.
func (c *MempoolConfig) Validate() error {
	if c.ChainID == "" {
		return fmt.Errorf("chain_id must not be empty")
	}
	if c.Store.DataDir == "" {
		return fmt.Errorf("store.data_dir must not be empty")
	}
	switch c.LogLevel {
	case "", "trace", "debug", "info", "warn", "error", "critical", "off":
	default:
		return fmt.Errorf("unrecognized log_level: %s", c.LogLevel)
	}
	return nil
}

// SaveToFile writes the configuration back out as JSON, mainly for tests
// and for generating a starter config file.
func (c *MempoolConfig) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal mempool config: %v", err)
	}

	if err := ioutil.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write mempool config file: %v", err)
	}

	return nil
}

// DefaultMempoolConfig returns sane defaults for local development.
func DefaultMempoolConfig() *MempoolConfig {
	return &MempoolConfig{
		ChainID:  "tpaycore-mainnet-1",
		LogLevel: "info",
		Store: StoreConfig{
			DataDir: "./tpaycore-data",
		},
	}
}
