package config

import (
	"os"

	"github.com/crmodel/cli/internal/output"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue describes a single resolved configuration value.
type ResolvedValue struct {
	Key      string
	Value    string
	Source   ConfigSource
	Shadowed map[ConfigSource]string
}

// ResolvePythonOptions contains options for interpreter resolution.
type ResolvePythonOptions struct {
	// FlagValue is the --python flag value (empty if not set).
	FlagValue string
	// ConfigValue is the engine.python value from config file (empty if not set).
	ConfigValue string
}

// ResolvePython resolves the engine interpreter path using precedence:
// (1) --python flag, (2) CRML_PYTHON env, (3) config engine.python
//
// When none is set the value stays empty and the execution bridge
// discovers an interpreter on its own.
func ResolvePython(opts ResolvePythonOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      "engine.python",
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv("CRML_PYTHON")

	if opts.FlagValue != "" {
		result.Value = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		if opts.ConfigValue != "" {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
	} else if envValue != "" {
		result.Value = envValue
		result.Source = SourceEnv
		if opts.ConfigValue != "" {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
	} else if opts.ConfigValue != "" {
		result.Value = opts.ConfigValue
		result.Source = SourceConfig
	}

	return result
}

// ResolveAddrOptions contains options for server address resolution.
type ResolveAddrOptions struct {
	// FlagValue is the --addr flag value (empty if not set).
	FlagValue string
	// ConfigValue is the server.addr value from config file (empty if not set).
	ConfigValue string
}

// ResolveAddr resolves the server listen address using precedence:
// (1) --addr flag, (2) CRML_ADDR env, (3) config server.addr, (4) default
func ResolveAddr(opts ResolveAddrOptions) ResolvedValue {
	result := ResolvedValue{
		Key:      "server.addr",
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv("CRML_ADDR")

	if opts.FlagValue != "" {
		result.Value = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		if opts.ConfigValue != "" {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
		result.Shadowed[SourceDefault] = DefaultAddr
	} else if envValue != "" {
		result.Value = envValue
		result.Source = SourceEnv
		if opts.ConfigValue != "" {
			result.Shadowed[SourceConfig] = opts.ConfigValue
		}
		result.Shadowed[SourceDefault] = DefaultAddr
	} else if opts.ConfigValue != "" {
		result.Value = opts.ConfigValue
		result.Source = SourceConfig
		result.Shadowed[SourceDefault] = DefaultAddr
	} else {
		result.Value = DefaultAddr
		result.Source = SourceDefault
	}

	return result
}

// ResolveConfigPathOptions contains options for config path resolution.
type ResolveConfigPathOptions struct {
	// FlagValue is the --config flag value (empty if not set).
	FlagValue string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CRML_CONFIG env, (3) ~/.crml/config.yaml default
func ResolveConfigPath(opts ResolveConfigPathOptions) (ResolvedValue, error) {
	result := ResolvedValue{
		Key:      "config",
		Shadowed: make(map[ConfigSource]string),
	}

	envValue := os.Getenv("CRML_CONFIG")

	paths, err := DefaultPaths()
	if err != nil {
		return result, err
	}
	defaultPath := paths.ConfigFile

	if opts.FlagValue != "" {
		result.Value = opts.FlagValue
		result.Source = SourceFlag
		if envValue != "" {
			result.Shadowed[SourceEnv] = envValue
		}
		result.Shadowed[SourceDefault] = defaultPath
	} else if envValue != "" {
		result.Value = envValue
		result.Source = SourceEnv
		result.Shadowed[SourceDefault] = defaultPath
	} else {
		result.Value = defaultPath
		result.Source = SourceDefault
	}

	return result, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level when verbose.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}
