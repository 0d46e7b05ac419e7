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

// DefaultRuns is the default Monte Carlo iteration count.
const DefaultRuns = 10000

var (
	runsFlag     int
	seedFlag     int64
	currencyFlag string
)

// NewSimulateCmd creates the simulate command.
func NewSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate <file>",
		Short: "Run a Monte Carlo simulation",
		Long: `Run the external CRML engine against a portfolio bundle.

Results are reported as a versioned simulation envelope. The run count must
be between 100 and 100000, and the output currency must be a supported
ISO 4217 code.

Examples:
  # Simulate with defaults (10000 runs, USD)
  crml simulate bundle.yaml

  # Reproducible run in euros
  crml simulate bundle.yaml --runs 50000 --seed 42 --currency EUR`,
		Args: cobra.ExactArgs(1),
		RunE: runSimulate,
	}

	cmd.Flags().IntVar(&runsFlag, "runs", DefaultRuns, "Number of Monte Carlo runs")
	cmd.Flags().Int64Var(&seedFlag, "seed", 0, "Random seed for reproducible runs")
	cmd.Flags().StringVar(&currencyFlag, "currency", "USD", "Output currency code")

	return cmd
}

func runSimulate(cmd *cobra.Command, args []string) error {
	path := args[0]

	if !engine.ValidRuns(runsFlag) {
		return exitWith(oerrors.NewValidationError(
			fmt.Sprintf("runs must be between %d and %d, got %d", engine.MinRuns, engine.MaxRuns, runsFlag),
			"", "adjust --runs"))
	}
	if !engine.ValidCurrency(currencyFlag) {
		return exitWith(oerrors.NewValidationError(
			fmt.Sprintf("unsupported output currency %q", currencyFlag),
			"", "choose one of the supported ISO 4217 codes"))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return exitWith(oerrors.NewNotFoundError("document not found", path, "check the file path"))
		}
		return exitWith(fmt.Errorf("reading %s: %w", path, err))
	}

	var seed *int64
	if cmd.Flags().Changed("seed") {
		seed = &seedFlag
	}

	bridge := engine.New()
	bridge.Python = GetPython()

	var outcome engine.Outcome
	err = output.RunWithSpinner(cmd.Context(), "Simulating "+path, func() error {
		outcome = bridge.Simulate(cmd.Context(), string(data), runsFlag, seed, currencyFlag)
		return nil
	})
	if err != nil {
		return exitWith(err)
	}

	envelope := result.NormalizeSimulate(outcome, result.SimRequest{
		Runs:           runsFlag,
		Seed:           seed,
		OutputCurrency: currencyFlag,
	})

	if err := renderSimulation(envelope); err != nil {
		return exitWith(err)
	}

	switch {
	case outcome.TimedOut:
		return exitPrinted(oerrors.ExitTimeout, oerrors.ErrTimeout)
	case outcome.LaunchFailed:
		return exitPrinted(oerrors.ExitEnvironmentError, oerrors.ErrEnvironment)
	case !envelope.Result.Success:
		return exitPrinted(oerrors.ExitGeneralError, errors.New("simulation failed"))
	}
	return nil
}

func renderSimulation(e result.SimulationEnvelope) error {
	format, ok := output.ParseFormat(outputFormatFlag)
	if !ok {
		return fmt.Errorf("unknown output format %q (valid: %v)", outputFormatFlag, output.ValidFormats())
	}

	switch format {
	case output.FormatJSON:
		data, err := json.MarshalIndent(e, "", "  ")
		if err != nil {
			return err
		}
		output.Println(string(data))
		return nil
	case output.FormatYAML:
		data, err := yaml.Marshal(e)
		if err != nil {
			return err
		}
		output.Print(string(data))
		return nil
	}

	styles := output.GetStyles()
	r := e.Result

	for _, w := range r.Warnings {
		output.Println(styles.Warning.Render("warning: " + w))
	}

	if !r.Success {
		for _, msg := range r.Errors {
			output.Println(styles.Error.Render("error: ") + msg)
		}
		return nil
	}

	output.Println(styles.Check.Render("✓") + fmt.Sprintf(" simulation completed: %d runs in %s",
		r.Run.Runs, r.Run.OutputCurrency))
	for _, m := range r.Results.Measures {
		line, err := json.Marshal(m)
		if err != nil {
			continue
		}
		output.Println(styles.Dim.Render("  " + string(line)))
	}
	return nil
}
