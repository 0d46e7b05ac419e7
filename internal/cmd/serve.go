package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/crmodel/cli/internal/config"
	"github.com/crmodel/cli/internal/engine"
	"github.com/crmodel/cli/internal/httpapi"
)

var addrFlag string

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local workbench API server",
		Long: `Run a local HTTP API exposing validate, simulate, bundle, and
inclusion-toggle operations for editor and UI integrations.

The server binds to loopback by default and shuts down cleanly on SIGINT
and SIGTERM.

Examples:
  # Default address (127.0.0.1:8787)
  crml serve

  # Custom address
  crml serve --addr 127.0.0.1:9000`,
		RunE: runServe,
	}

	cmd.Flags().StringVar(&addrFlag, "addr", "", "Listen address (env: CRML_ADDR)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := config.ResolveAddr(config.ResolveAddrOptions{
		FlagValue:   addrFlag,
		ConfigValue: GetConfig().Server.Addr,
	}).Value

	bridge := engine.New()
	bridge.Python = GetPython()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := httpapi.NewServer(bridge)
	if err := server.ListenAndServe(ctx, addr); err != nil {
		return exitWith(err)
	}
	return nil
}
