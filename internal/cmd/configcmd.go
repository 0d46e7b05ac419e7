package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/crmodel/cli/internal/config"
	oerrors "github.com/crmodel/cli/internal/errors"
	"github.com/crmodel/cli/internal/output"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
	}

	cmd.AddCommand(NewConfigInitCmd())
	cmd.AddCommand(NewConfigVetCmd())

	return cmd
}

var forceFlag bool

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a default configuration file",
		Long: `Write a default configuration file to the resolved config path.

The config path is resolved using precedence:
  --config flag > CRML_CONFIG env > ~/.crml/config.yaml

Examples:
  crml config init
  crml config init --config ./crml.yaml`,
		RunE: runConfigInit,
	}

	cmd.Flags().BoolVar(&forceFlag, "force", false, "Overwrite an existing config file")

	return cmd
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	pathValue, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		return exitWith(fmt.Errorf("resolving config path: %w", err))
	}
	configPath, err := config.ExpandPath(pathValue.Value)
	if err != nil {
		return exitWith(err)
	}

	if _, err := os.Stat(configPath); err == nil && !forceFlag {
		return exitWith(&oerrors.DetailError{
			Type:     "already exists",
			Message:  "configuration file already exists",
			Location: configPath,
			Hint:     "Use --force to overwrite",
		})
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		return exitWith(fmt.Errorf("creating config directory: %w", err))
	}

	data, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return exitWith(fmt.Errorf("encoding default config: %w", err))
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return exitWith(fmt.Errorf("writing config file: %w", err))
	}

	output.Println(output.GetStyles().Check.Render("✓") + " wrote " + configPath)
	return nil
}

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the CRML CLI configuration file.

Checks performed:
  1. Config file exists at resolved path
  2. Config file is syntactically valid YAML
  3. Config satisfies the embedded schema

The config path is resolved using precedence:
  --config flag > CRML_CONFIG env > ~/.crml/config.yaml

Examples:
  crml config vet
  crml config vet --config ./crml.yaml`,
		RunE: runConfigVet,
	}

	return cmd
}

func runConfigVet(cmd *cobra.Command, args []string) error {
	pathValue, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
	if err != nil {
		return exitWith(fmt.Errorf("resolving config path: %w", err))
	}
	configPath, err := config.ExpandPath(pathValue.Value)
	if err != nil {
		return exitWith(err)
	}

	output.Debug("validating config", "path", configPath, "source", pathValue.Source)

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return exitWith(&oerrors.DetailError{
			Type:     "not found",
			Message:  "configuration file not found",
			Location: configPath,
			Hint:     "Run 'crml config init' to create default configuration",
			Cause:    oerrors.ErrNotFound,
		})
	}

	validator, err := config.NewValidator()
	if err != nil {
		return exitWith(err)
	}
	if err := validator.ValidateFile(configPath); err != nil {
		return exitWith(oerrors.NewValidationError(err.Error(), configPath, "fix the reported fields"))
	}

	output.Println("Configuration is valid: " + configPath)
	return nil
}
