package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tailored-agentic-units/assistant/ollama"
)

// Config holds orchestrator initialization parameters. The server section
// is fixed at construction; the model is the one option a caller may change
// between requests (see SetModel).
type Config struct {
	Server ollama.Config `json:"server"`
	Model  string        `json:"model,omitempty"`
}

// DefaultConfig returns a Config with subsystem defaults. The server base
// URL stays empty: it is required input with no assumed host.
func DefaultConfig() Config {
	return Config{
		Server: ollama.DefaultConfig(),
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Server.Merge(&source.Server)

	if source.Model != "" {
		c.Model = source.Model
	}
}

// LoadConfig reads a JSON config file and merges it onto defaults.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
