package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crmodel/cli/internal/output"
	"github.com/crmodel/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show CRML CLI version information.

Displays:
  - CLI version, commit, and build date
  - CRML language and bundle format versions`,
		RunE: runVersion,
	}
}

func runVersion(cmd *cobra.Command, args []string) error {
	info := version.GetInfo()

	if format, ok := output.ParseFormat(outputFormatFlag); ok && format == output.FormatJSON {
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		output.Println(string(data))
		return nil
	}

	output.Println(fmt.Sprintf("crml version %s", info.Version))
	output.Println(fmt.Sprintf("  Commit:    %s", info.GitCommit))
	output.Println(fmt.Sprintf("  Built:     %s", info.BuildDate))
	output.Println(fmt.Sprintf("  Go:        %s", info.GoVersion))
	output.Println(fmt.Sprintf("  Language:  %s", info.LanguageVersion))
	output.Println(fmt.Sprintf("  Bundle:    %s", info.BundleVersion))

	return nil
}
