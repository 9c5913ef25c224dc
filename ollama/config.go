package ollama

// Config holds inference-server connection parameters.
type Config struct {
	// BaseURL is the server root, e.g. "http://localhost:11434".
	// Required; the client assumes no default host.
	BaseURL string `json:"base_url"`
}

// DefaultConfig returns the default server configuration. BaseURL is left
// empty on purpose: callers must supply one.
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
}
