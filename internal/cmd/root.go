// Package cmd provides CLI command implementations.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/crmodel/cli/internal/config"
	"github.com/crmodel/cli/internal/output"
)

var (
	// Global flags
	configFlag       string
	pythonFlag       string
	outputFormatFlag string
	verboseFlag      bool
	timestampsFlag   bool

	// Loaded configuration (populated during PersistentPreRunE)
	crmlConfig *config.Config
)

// NewRootCmd creates the root command for the CRML CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "crml",
		Short:         "CRML risk modeling workbench CLI",
		Long:          `crml composes, validates, and simulates CRML cyber-risk model documents.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: CRML_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&pythonFlag, "python", "", "Path to the engine interpreter (env: CRML_PYTHON)")
	rootCmd.PersistentFlags().StringVarP(&outputFormatFlag, "output", "o", "text", "Output format: text, yaml, json")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", false, "Show timestamps in log output")

	rootCmd.AddCommand(NewBundleCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewSimulateCmd())
	rootCmd.AddCommand(NewToggleCmd())
	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// initializeGlobals sets up logging and loads configuration.
func initializeGlobals(cmd *cobra.Command) error {
	loader := config.NewLoader()
	cfg, err := loader.LoadWithDefaults(configFlag)
	if err != nil {
		output.Debug("config load error", "error", err)
		// Commands that don't need config should still work.
		cfg = config.DefaultConfig()
	}
	crmlConfig = cfg

	logCfg := output.LogConfig{
		Verbose: verboseFlag,
	}
	// Timestamps: flag (if explicitly set) > config > default (off)
	if cmd.Flags().Changed("timestamps") {
		logCfg.Timestamps = output.BoolPtr(timestampsFlag)
	} else if cfg.Log.Timestamps != nil {
		logCfg.Timestamps = cfg.Log.Timestamps
	}
	output.SetupLogging(logCfg)

	if verboseFlag {
		pathValue, err := config.ResolveConfigPath(config.ResolveConfigPathOptions{FlagValue: configFlag})
		if err == nil {
			config.LogResolvedValues([]config.ResolvedValue{
				pathValue,
				config.ResolvePython(config.ResolvePythonOptions{
					FlagValue:   pythonFlag,
					ConfigValue: cfg.Engine.Python,
				}),
				config.ResolveAddr(config.ResolveAddrOptions{
					ConfigValue: cfg.Server.Addr,
				}),
			})
		}
	}

	return nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *config.Config {
	if crmlConfig != nil {
		return crmlConfig
	}
	return config.DefaultConfig()
}

// GetPython returns the resolved engine interpreter path, empty when the
// execution bridge should discover one itself.
func GetPython() string {
	return config.ResolvePython(config.ResolvePythonOptions{
		FlagValue:   pythonFlag,
		ConfigValue: GetConfig().Engine.Python,
	}).Value
}
