package result

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/crmodel/cli/internal/engine"
)

// SimulationVersion is the simulation envelope version tag.
const SimulationVersion = "1.0"

// SimRequest echoes the request parameters into failure envelopes.
type SimRequest struct {
	Runs           int
	Seed           *int64
	OutputCurrency string
}

// NormalizeSimulate turns a raw engine outcome into the simulation envelope.
// Each failure mode maps to a distinct error: timeout, non-zero exit,
// unparseable stdout, and exhausted candidates. The envelope is fully shaped
// in every case.
func NormalizeSimulate(outcome engine.Outcome, req SimRequest) SimulationEnvelope {
	switch {
	case outcome.TimedOut:
		return failureEnvelope(req, fmt.Sprintf(
			"simulation exceeded the %s time budget and was terminated; reduce the number of runs or simplify the model",
			engine.SimulateTimeout))

	case outcome.LaunchFailed:
		hint := "no usable Python interpreter was found; recreate the project's .venv environment or point " +
			engine.PythonEnvVar + " at a working interpreter"
		if outcome.FailureMessage != "" {
			hint = fmt.Sprintf("%s (last attempt: %s)", hint, outcome.FailureMessage)
		}
		return failureEnvelope(req, hint)

	case outcome.ExitCode != 0:
		msg := strings.TrimSpace(outcome.Stderr)
		if msg == "" {
			msg = "the simulation engine reported an unknown error"
		}
		return failureEnvelope(req, msg)
	}

	var envelope SimulationEnvelope
	if err := json.Unmarshal([]byte(strings.TrimSpace(outcome.Stdout)), &envelope); err != nil {
		return failureEnvelope(req, "failed to parse simulation results")
	}

	envelope.CrmlSimulationResult = SimulationVersion
	fillEnvelope(&envelope, req)
	return envelope
}

func failureEnvelope(req SimRequest, errMsg string) SimulationEnvelope {
	e := SimulationEnvelope{
		CrmlSimulationResult: SimulationVersion,
		Result: SimulationResult{
			Success: false,
			Errors:  []string{errMsg},
		},
	}
	fillEnvelope(&e, req)
	return e
}

// fillEnvelope guarantees every envelope field is populated, echoing the
// requested run parameters back even when the engine never ran.
func fillEnvelope(e *SimulationEnvelope, req SimRequest) {
	r := &e.Result
	if r.Errors == nil {
		r.Errors = []string{}
	}
	if r.Warnings == nil {
		r.Warnings = []string{}
	}
	if r.Engine.Name == "" {
		r.Engine.Name = "crml-engine"
	}
	if r.Engine.Version == "" {
		r.Engine.Version = "unknown"
	}
	if r.Run.Runs == 0 {
		r.Run.Runs = req.Runs
	}
	if r.Run.Seed == nil {
		r.Run.Seed = req.Seed
	}
	if r.Run.OutputCurrency == "" {
		r.Run.OutputCurrency = req.OutputCurrency
	}
	if r.Inputs.Source == "" {
		r.Inputs.Source = "inline"
	}
	if r.Results.Measures == nil {
		r.Results.Measures = []map[string]any{}
	}
	if r.Results.Artifacts == nil {
		r.Results.Artifacts = []map[string]any{}
	}
}
