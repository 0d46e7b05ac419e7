package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	assert.Empty(t, cfg.Engine.Python)
}

func TestWithDefaults(t *testing.T) {
	cfg := &Config{}
	cfg = cfg.WithDefaults()
	assert.Equal(t, DefaultAddr, cfg.Server.Addr)

	cfg = &Config{Server: ServerConfig{Addr: "0.0.0.0:9000"}}
	cfg = cfg.WithDefaults()
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
}

func TestLoaderLoad(t *testing.T) {
	t.Run("missing file yields empty config", func(t *testing.T) {
		loader := NewLoader()
		cfg, err := loader.Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Empty(t, cfg.Engine.Python)
	})

	t.Run("reads values from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		data := "engine:\n  python: /opt/python3\nserver:\n  addr: 127.0.0.1:9999\n"
		require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

		loader := NewLoader()
		cfg, err := loader.Load(path)
		require.NoError(t, err)
		assert.Equal(t, "/opt/python3", cfg.Engine.Python)
		assert.Equal(t, "127.0.0.1:9999", cfg.Server.Addr)
	})

	t.Run("applies defaults", func(t *testing.T) {
		loader := NewLoader()
		cfg, err := loader.LoadWithDefaults(filepath.Join(t.TempDir(), "nope.yaml"))
		require.NoError(t, err)
		assert.Equal(t, DefaultAddr, cfg.Server.Addr)
	})
}

func TestResolvePython(t *testing.T) {
	t.Run("flag wins over env and config", func(t *testing.T) {
		t.Setenv("CRML_PYTHON", "/env/python")
		result := ResolvePython(ResolvePythonOptions{
			FlagValue:   "/flag/python",
			ConfigValue: "/cfg/python",
		})
		assert.Equal(t, "/flag/python", result.Value)
		assert.Equal(t, SourceFlag, result.Source)
		assert.Equal(t, "/env/python", result.Shadowed[SourceEnv])
		assert.Equal(t, "/cfg/python", result.Shadowed[SourceConfig])
	})

	t.Run("env wins over config", func(t *testing.T) {
		t.Setenv("CRML_PYTHON", "/env/python")
		result := ResolvePython(ResolvePythonOptions{ConfigValue: "/cfg/python"})
		assert.Equal(t, "/env/python", result.Value)
		assert.Equal(t, SourceEnv, result.Source)
	})

	t.Run("config used when nothing else set", func(t *testing.T) {
		t.Setenv("CRML_PYTHON", "")
		result := ResolvePython(ResolvePythonOptions{ConfigValue: "/cfg/python"})
		assert.Equal(t, "/cfg/python", result.Value)
		assert.Equal(t, SourceConfig, result.Source)
	})

	t.Run("empty when unset everywhere", func(t *testing.T) {
		t.Setenv("CRML_PYTHON", "")
		result := ResolvePython(ResolvePythonOptions{})
		assert.Empty(t, result.Value)
	})
}

func TestResolveAddr(t *testing.T) {
	t.Run("default when unset", func(t *testing.T) {
		t.Setenv("CRML_ADDR", "")
		result := ResolveAddr(ResolveAddrOptions{})
		assert.Equal(t, DefaultAddr, result.Value)
		assert.Equal(t, SourceDefault, result.Source)
	})

	t.Run("config shadows default", func(t *testing.T) {
		t.Setenv("CRML_ADDR", "")
		result := ResolveAddr(ResolveAddrOptions{ConfigValue: "0.0.0.0:9000"})
		assert.Equal(t, "0.0.0.0:9000", result.Value)
		assert.Equal(t, SourceConfig, result.Source)
		assert.Equal(t, DefaultAddr, result.Shadowed[SourceDefault])
	})

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv("CRML_ADDR", "1.2.3.4:1")
		result := ResolveAddr(ResolveAddrOptions{FlagValue: ":8080", ConfigValue: ":9090"})
		assert.Equal(t, ":8080", result.Value)
		assert.Equal(t, SourceFlag, result.Source)
	})
}

func TestValidator(t *testing.T) {
	validator, err := NewValidator()
	require.NoError(t, err)

	t.Run("accepts valid config", func(t *testing.T) {
		cfg := &Config{
			Engine: EngineConfig{Python: "/usr/bin/python3"},
			Server: ServerConfig{Addr: "127.0.0.1:8787"},
		}
		assert.NoError(t, validator.Validate(cfg))
	})

	t.Run("accepts empty config", func(t *testing.T) {
		assert.NoError(t, validator.Validate(&Config{}))
	})

	t.Run("rejects malformed addr", func(t *testing.T) {
		cfg := &Config{Server: ServerConfig{Addr: "not an address"}}
		err := validator.Validate(cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.addr")
	})
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	expanded, err := ExpandPath("~/x/y.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "x", "y.yaml"), expanded)

	plain, err := ExpandPath("/abs/path.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path.yaml", plain)
}

func TestGetConfigFile(t *testing.T) {
	t.Run("env override", func(t *testing.T) {
		t.Setenv("CRML_CONFIG", "/custom/config.yaml")
		path, err := GetConfigFile()
		require.NoError(t, err)
		assert.Equal(t, "/custom/config.yaml", path)
	})

	t.Run("default under home", func(t *testing.T) {
		t.Setenv("CRML_CONFIG", "")
		path, err := GetConfigFile()
		require.NoError(t, err)
		assert.Contains(t, path, filepath.Join(".crml", "config.yaml"))
	})
}
