// Package result turns raw external-process output into the stable response
// envelopes consumed by the CLI and the HTTP API. Envelopes are always
// well-formed, even on total failure.
package result

// Validation is the validate response envelope.
type Validation struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
	Info     *Info    `json:"info,omitempty"`
}

// Info is best-effort metadata extracted from the document itself,
// independent of whether external validation succeeds.
type Info struct {
	Name                 string         `json:"name,omitempty"`
	Version              string         `json:"version,omitempty"`
	Description          string         `json:"description,omitempty"`
	Author               string         `json:"author,omitempty"`
	Organization         string         `json:"organization,omitempty"`
	CompanySizes         []string       `json:"company_sizes,omitempty"`
	Industries           []string       `json:"industries,omitempty"`
	RegulatoryFrameworks []string       `json:"regulatory_frameworks,omitempty"`
	Tags                 []string       `json:"tags,omitempty"`
	Regions              []string       `json:"regions,omitempty"`
	Countries            []string       `json:"countries,omitempty"`
	RiskTolerance        *RiskTolerance `json:"risk_tolerance,omitempty"`
}

// RiskTolerance is the portfolio's declared loss tolerance.
type RiskTolerance struct {
	Metric    string  `json:"metric,omitempty"`
	Threshold float64 `json:"threshold,omitempty"`
	Currency  string  `json:"currency,omitempty"`
}

// SimulationEnvelope is the simulate response envelope.
type SimulationEnvelope struct {
	CrmlSimulationResult string           `json:"crml_simulation_result"`
	Result               SimulationResult `json:"result"`
}

// SimulationResult carries the outcome of one simulation run. Every field is
// populated in every failure case so downstream consumers never need
// null-checks beyond the Success flag.
type SimulationResult struct {
	Success  bool              `json:"success"`
	Errors   []string          `json:"errors"`
	Warnings []string          `json:"warnings"`
	Engine   EngineInfo        `json:"engine"`
	Run      RunInfo           `json:"run"`
	Inputs   InputsInfo        `json:"inputs"`
	Results  SimulationOutputs `json:"results"`
}

// EngineInfo identifies the engine that produced the result.
type EngineInfo struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// RunInfo echoes the requested run parameters.
type RunInfo struct {
	Runs           int    `json:"runs"`
	Seed           *int64 `json:"seed"`
	OutputCurrency string `json:"output_currency"`
}

// InputsInfo describes where the simulated document came from.
type InputsInfo struct {
	Source string `json:"source"`
}

// SimulationOutputs holds the engine's measures and artifacts.
type SimulationOutputs struct {
	Measures  []map[string]any `json:"measures"`
	Artifacts []map[string]any `json:"artifacts"`
}
