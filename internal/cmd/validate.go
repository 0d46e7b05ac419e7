package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"sigs.k8s.io/yaml"

	"github.com/crmodel/cli/internal/engine"
	oerrors "github.com/crmodel/cli/internal/errors"
	"github.com/crmodel/cli/internal/output"
	"github.com/crmodel/cli/internal/result"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Validate a CRML document",
		Long: `Validate a CRML document with the external CRML validator.

The document is checked as-is; metadata such as name, version, and risk
tolerance is extracted locally and reported alongside the validator output.

Examples:
  # Validate a scenario
  crml validate scenario.yaml

  # Machine-readable result
  crml validate scenario.yaml -o json`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return exitWith(oerrors.NewNotFoundError("document not found", path, "check the file path"))
		}
		return exitWith(fmt.Errorf("reading %s: %w", path, err))
	}
	text := string(data)

	bridge := engine.New()
	bridge.Python = GetPython()

	var outcome engine.Outcome
	err = output.RunWithSpinner(cmd.Context(), "Validating "+path, func() error {
		outcome = bridge.ValidateText(cmd.Context(), text)
		return nil
	})
	if err != nil {
		return exitWith(err)
	}

	validation := result.NormalizeValidate(outcome)
	validation.Info = result.ExtractInfo(text)

	if err := renderValidation(validation); err != nil {
		return exitWith(err)
	}

	switch {
	case outcome.LaunchFailed:
		return exitPrinted(oerrors.ExitEnvironmentError, oerrors.ErrEnvironment)
	case !validation.Valid:
		return exitPrinted(oerrors.ExitValidationError, oerrors.ErrValidation)
	}
	return nil
}

func renderValidation(v result.Validation) error {
	format, ok := output.ParseFormat(outputFormatFlag)
	if !ok {
		return fmt.Errorf("unknown output format %q (valid: %v)", outputFormatFlag, output.ValidFormats())
	}

	switch format {
	case output.FormatJSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		output.Println(string(data))
		return nil
	case output.FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return err
		}
		output.Print(string(data))
		return nil
	}

	styles := output.GetStyles()

	if v.Info != nil && v.Info.Name != "" {
		line := v.Info.Name
		if v.Info.Version != "" {
			line += " (" + v.Info.Version + ")"
		}
		output.Println(styles.Noun.Render(line))
	}

	for _, w := range v.Warnings {
		output.Println(styles.Warning.Render("warning: " + w))
	}

	if v.Valid {
		output.Println(styles.Check.Render("✓") + " document is valid")
		return nil
	}

	for _, e := range v.Errors {
		output.Println(styles.Error.Render("error: ") + e)
	}
	return nil
}
