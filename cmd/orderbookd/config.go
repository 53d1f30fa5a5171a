package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Config holds the orderbookd runtime configuration, loaded from a JSON
// file and overridable with CLI flags, matching the offchain matcher's
// config/flag precedence.
type Config struct {
	BookCapacity  uint32        `json:"book_capacity"`
	QueueCapacity uint32        `json:"queue_capacity"`
	BroadcastAddr string        `json:"broadcast_addr"`
	DrainInterval time.Duration `json:"drain_interval"`
	Demo          bool          `json:"demo"`
	ReplayFile    string        `json:"replay_file"`
}

// DefaultConfig returns the CLI's built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		BookCapacity:  1024,
		QueueCapacity: 488,
		BroadcastAddr: ":8089",
		DrainInterval: 200 * time.Millisecond,
		Demo:          false,
	}
}

// LoadConfig loads configuration from path, falling back to defaults if
// path is empty or the file does not exist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	return cfg, nil
}
