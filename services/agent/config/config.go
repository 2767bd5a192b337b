package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// ScopeConfig defines where the flow record of a topic, broker or cluster is polled from
type ScopeConfig struct {
	Name string `toml:"Name"`
	Kind string `toml:"Kind"`
	URL  string `toml:"URL"`
	Path string `toml:"Path"`
}

// Config maps to the config.toml file for the flow agent
type Config struct {
	Name                   string        `toml:"Name"`
	QueryIntervalInSeconds uint32        `toml:"QueryIntervalInSeconds"`
	PollTimeoutInSeconds   uint32        `toml:"PollTimeoutInSeconds"`
	ReportEndpoint         string        `toml:"ReportEndpoint"`
	ReportTimeoutInSeconds uint32        `toml:"ReportTimeoutInSeconds"`
	Scopes                 []ScopeConfig `toml:"Scopes"`
}

// LoadConfig parses a TOML file into the Config struct
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", filepath, err)
	}

	var cfg Config
	err = toml.Unmarshal(data, &cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	return &cfg, nil
}
