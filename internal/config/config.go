// Package config provides configuration loading and management for the CRML
// CLI.
package config

// EngineConfig contains external-engine settings.
type EngineConfig struct {
	// Python is an explicit interpreter path for the external engine.
	// Env: CRML_PYTHON. Default: discovered per request.
	Python string `json:"python,omitempty"`
}

// ServerConfig contains local API server settings.
type ServerConfig struct {
	// Addr is the listen address for `crml serve`.
	// Env: CRML_ADDR. Default: "127.0.0.1:8787".
	Addr string `json:"addr,omitempty"`
}

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: false. Override with --timestamps flag.
	Timestamps *bool `json:"timestamps,omitempty"`
}

// Config represents the CRML CLI configuration.
// Loaded from ~/.crml/config.yaml, validated against the embedded CUE schema.
type Config struct {
	// Engine contains external-engine settings.
	Engine EngineConfig `json:"engine,omitempty"`

	// Server contains local API server settings.
	Server ServerConfig `json:"server,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `json:"log,omitempty"`
}

// DefaultAddr is the default listen address for the local API server.
const DefaultAddr = "127.0.0.1:8787"

// DefaultConfig returns a Config with all default values populated.
// Used by `crml config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: DefaultAddr},
	}
}

// WithDefaults fills unset fields with their defaults.
func (c *Config) WithDefaults() *Config {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	return c
}
