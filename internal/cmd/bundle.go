package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crmodel/cli/internal/bundle"
	oerrors "github.com/crmodel/cli/internal/errors"
	"github.com/crmodel/cli/internal/output"
)

// NewBundleCmd creates the bundle command group.
func NewBundleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bundle",
		Short: "Compose and compare portfolio bundles",
	}

	cmd.AddCommand(NewBundleComposeCmd())
	cmd.AddCommand(NewBundleDiffCmd())

	return cmd
}

var (
	portfolioFlag string
	scenarioFlags []string
	packFlags     []string
	bundleOutFlag string
)

// NewBundleComposeCmd creates the bundle compose command.
func NewBundleComposeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compose",
		Short: "Compose a portfolio bundle from selected documents",
		Long: `Compose a single self-contained portfolio bundle from a portfolio,
one or more scenarios, and optional reference packs.

Scenario documents are embedded verbatim; packs are embedded under the
bundle field matching their kind. Compatibility warnings (currency and
frequency-model mismatches, missing catalogs) are advisory and never block
composition.

Examples:
  # Compose to stdout
  crml bundle compose --portfolio p.yaml --scenario s1.yaml --scenario s2.yaml

  # Include a control catalog and write to a file
  crml bundle compose --portfolio p.yaml --scenario s.yaml --pack controls.yaml --out bundle.yaml`,
		RunE: runBundleCompose,
	}

	cmd.Flags().StringVar(&portfolioFlag, "portfolio", "", "Portfolio document")
	cmd.Flags().StringArrayVar(&scenarioFlags, "scenario", nil, "Scenario document (repeatable)")
	cmd.Flags().StringArrayVar(&packFlags, "pack", nil, "Reference pack document (repeatable)")
	cmd.Flags().StringVar(&bundleOutFlag, "out", "", "Write the bundle to this file instead of stdout")

	return cmd
}

func runBundleCompose(cmd *cobra.Command, args []string) error {
	portfolio, err := readSelection(portfolioFlag)
	if err != nil {
		return exitWith(err)
	}

	scenarios, err := readSelections(scenarioFlags)
	if err != nil {
		return exitWith(err)
	}
	packs, err := readSelections(packFlags)
	if err != nil {
		return exitWith(err)
	}

	res := bundle.Compose(portfolio, scenarios, packs)

	styles := output.GetStyles()
	for _, w := range res.Warnings {
		output.Println(styles.Warning.Render("warning: " + w))
	}

	if len(res.Errors) > 0 {
		for _, e := range res.Errors {
			output.Println(styles.Error.Render("error: ") + e)
		}
		return exitPrinted(oerrors.ExitValidationError, oerrors.ErrValidation)
	}

	if bundleOutFlag != "" {
		if err := os.WriteFile(bundleOutFlag, []byte(res.YAML), 0o644); err != nil {
			return exitWith(fmt.Errorf("writing %s: %w", bundleOutFlag, err))
		}
		output.Println(styles.Check.Render("✓") + " wrote " + bundleOutFlag)
		return nil
	}

	output.Print(res.YAML)
	return nil
}

// readSelection reads one named document selection. A blank path yields nil
// so composition reports the missing selection itself.
func readSelection(path string) (*bundle.Selection, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oerrors.NewNotFoundError("document not found", path, "check the file path")
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return &bundle.Selection{Name: filepath.Base(path), Text: string(data)}, nil
}

func readSelections(paths []string) ([]bundle.Selection, error) {
	out := make([]bundle.Selection, 0, len(paths))
	for _, p := range paths {
		sel, err := readSelection(p)
		if err != nil {
			return nil, err
		}
		if sel != nil {
			out = append(out, *sel)
		}
	}
	return out, nil
}

// NewBundleDiffCmd creates the bundle diff command.
func NewBundleDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Compare two bundles semantically",
		Long: `Compare two YAML documents structurally, ignoring formatting noise.

Exits with a non-zero status when the documents differ.

Examples:
  crml bundle diff bundle-v1.yaml bundle-v2.yaml`,
		Args: cobra.ExactArgs(2),
		RunE: runBundleDiff,
	}

	return cmd
}

func runBundleDiff(cmd *cobra.Command, args []string) error {
	oldData, err := os.ReadFile(args[0])
	if err != nil {
		return exitWith(oerrors.NewNotFoundError("document not found", args[0], "check the file path"))
	}
	newData, err := os.ReadFile(args[1])
	if err != nil {
		return exitWith(oerrors.NewNotFoundError("document not found", args[1], "check the file path"))
	}

	report, err := output.DiffYAML(args[0], oldData, args[1], newData)
	if err != nil {
		return exitWith(err)
	}

	if report == "" {
		output.Println("no differences")
		return nil
	}

	output.Print(report)
	return exitPrinted(oerrors.ExitGeneralError, errors.New("documents differ"))
}
