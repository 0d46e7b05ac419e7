package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/apimachinery/pkg/util/sets"

	oerrors "github.com/crmodel/cli/internal/errors"
	"github.com/crmodel/cli/internal/inclusion"
	"github.com/crmodel/cli/internal/output"
)

// NewToggleCmd creates the toggle command group.
func NewToggleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "toggle",
		Short: "Inspect and apply control and attack toggles",
	}

	cmd.AddCommand(NewToggleListCmd())
	cmd.AddCommand(NewToggleApplyCmd())

	return cmd
}

// NewToggleListCmd creates the toggle list command.
func NewToggleListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list <file>",
		Short: "List toggleable control and attack identifiers",
		Long: `List the control and ATT&CK technique identifiers that can be toggled
off in a scenario or portfolio bundle. Other document kinds have no
toggleable identifiers.

Examples:
  crml toggle list scenario.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runToggleList,
	}

	return cmd
}

func runToggleList(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		return exitWith(err)
	}

	set := inclusion.Detect(text)
	if set == nil {
		output.Println("no toggleable identifiers")
		return nil
	}

	styles := output.GetStyles()
	output.Println(styles.Noun.Render(string(set.DocKind)))
	if len(set.ControlIDs) > 0 {
		output.Println("controls:")
		for _, id := range set.ControlIDs {
			output.Println("  " + id)
		}
	}
	if len(set.AttackIDs) > 0 {
		output.Println("attacks:")
		for _, id := range set.AttackIDs {
			output.Println("  " + id)
		}
	}
	return nil
}

var (
	disableControlFlags []string
	disableAttackFlags  []string
	toggleOutFlag       string
)

// NewToggleApplyCmd creates the toggle apply command.
func NewToggleApplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <file>",
		Short: "Filter disabled controls and attacks out of a document",
		Long: `Produce a copy of a scenario or portfolio bundle with the given
controls and ATT&CK techniques removed from every affected scenario body.
The source file is never modified; with no toggles the document passes
through byte-for-byte.

Examples:
  crml toggle apply scenario.yaml --disable-control CTL-001 --out filtered.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: runToggleApply,
	}

	cmd.Flags().StringArrayVar(&disableControlFlags, "disable-control", nil, "Control id to remove (repeatable)")
	cmd.Flags().StringArrayVar(&disableAttackFlags, "disable-attack", nil, "ATT&CK technique id to remove (repeatable)")
	cmd.Flags().StringVar(&toggleOutFlag, "out", "", "Write the filtered document to this file instead of stdout")

	return cmd
}

func runToggleApply(cmd *cobra.Command, args []string) error {
	text, err := readDocument(args[0])
	if err != nil {
		return exitWith(err)
	}

	filtered := inclusion.Apply(text,
		sets.New(disableControlFlags...),
		sets.New(disableAttackFlags...))

	if toggleOutFlag != "" {
		if err := os.WriteFile(toggleOutFlag, []byte(filtered), 0o644); err != nil {
			return exitWith(fmt.Errorf("writing %s: %w", toggleOutFlag, err))
		}
		output.Println(output.GetStyles().Check.Render("✓") + " wrote " + toggleOutFlag)
		return nil
	}

	output.Print(filtered)
	return nil
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", oerrors.NewNotFoundError("document not found", path, "check the file path")
		}
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
