package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/crmodel/cli/internal/bundle"
	"github.com/crmodel/cli/internal/engine"
	"github.com/crmodel/cli/internal/inclusion"
	"github.com/crmodel/cli/internal/result"
)

// validateRequest is the POST /api/validate body.
type validateRequest struct {
	YAML string `json:"yaml"`
	// Revision is an opaque client correlation token echoed back verbatim,
	// so callers can match responses to the editor state they submitted.
	Revision string `json:"revision,omitempty"`
}

// validateResponse echoes the revision alongside the validation envelope.
type validateResponse struct {
	Revision string `json:"revision,omitempty"`
	result.Validation
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.YAML) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "yaml must not be empty")
		return
	}

	outcome := s.bridge.ValidateText(r.Context(), req.YAML)
	validation := result.NormalizeValidate(outcome)
	validation.Info = result.ExtractInfo(req.YAML)

	writeJSON(w, http.StatusOK, validateResponse{
		Revision:   req.Revision,
		Validation: validation,
	})
}

// simulateRequest is the POST /api/simulate body.
type simulateRequest struct {
	YAML           string `json:"yaml"`
	Runs           int    `json:"runs"`
	Seed           *int64 `json:"seed,omitempty"`
	OutputCurrency string `json:"output_currency,omitempty"`
	Revision       string `json:"revision,omitempty"`
}

// simulateResponse echoes the revision alongside the simulation envelope.
type simulateResponse struct {
	Revision string `json:"revision,omitempty"`
	result.SimulationEnvelope
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.YAML) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", "yaml must not be empty")
		return
	}

	// Parameter checks happen before any process is spawned.
	if !engine.ValidRuns(req.Runs) {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("runs must be between %d and %d", engine.MinRuns, engine.MaxRuns))
		return
	}
	currency := req.OutputCurrency
	if currency == "" {
		currency = "USD"
	}
	if !engine.ValidCurrency(currency) {
		writeError(w, http.StatusBadRequest, "bad_request",
			fmt.Sprintf("unsupported output currency %q", req.OutputCurrency))
		return
	}

	outcome := s.bridge.Simulate(r.Context(), req.YAML, req.Runs, req.Seed, currency)
	envelope := result.NormalizeSimulate(outcome, result.SimRequest{
		Runs:           req.Runs,
		Seed:           req.Seed,
		OutputCurrency: currency,
	})

	writeJSON(w, http.StatusOK, simulateResponse{
		Revision:           req.Revision,
		SimulationEnvelope: envelope,
	})
}

// namedDocument is a document selection in a bundle request.
type namedDocument struct {
	Name string `json:"name"`
	Text string `json:"text"`
}

// bundleRequest is the POST /api/bundle body.
type bundleRequest struct {
	Portfolio *namedDocument  `json:"portfolio,omitempty"`
	Scenarios []namedDocument `json:"scenarios,omitempty"`
	Packs     []namedDocument `json:"packs,omitempty"`
}

// bundleResponse is the POST /api/bundle result.
type bundleResponse struct {
	YAML     string   `json:"yaml,omitempty"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (s *Server) handleBundle(w http.ResponseWriter, r *http.Request) {
	var req bundleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	var portfolio *bundle.Selection
	if req.Portfolio != nil {
		portfolio = &bundle.Selection{Name: req.Portfolio.Name, Text: req.Portfolio.Text}
	}

	res := bundle.Compose(portfolio, toSelections(req.Scenarios), toSelections(req.Packs))
	writeJSON(w, http.StatusOK, bundleResponse{
		YAML:     res.YAML,
		Errors:   res.Errors,
		Warnings: res.Warnings,
	})
}

func toSelections(docs []namedDocument) []bundle.Selection {
	out := make([]bundle.Selection, 0, len(docs))
	for _, d := range docs {
		out = append(out, bundle.Selection{Name: d.Name, Text: d.Text})
	}
	return out
}

// inclusionsDetectRequest is the POST /api/inclusions/detect body.
type inclusionsDetectRequest struct {
	YAML string `json:"yaml"`
}

// inclusionsDetectResponse lists the toggleable identifiers in a document.
type inclusionsDetectResponse struct {
	Applicable bool     `json:"applicable"`
	DocKind    string   `json:"doc_kind,omitempty"`
	ControlIDs []string `json:"control_ids,omitempty"`
	AttackIDs  []string `json:"attack_ids,omitempty"`
}

func (s *Server) handleInclusionsDetect(w http.ResponseWriter, r *http.Request) {
	var req inclusionsDetectRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	set := inclusion.Detect(req.YAML)
	if set == nil {
		writeJSON(w, http.StatusOK, inclusionsDetectResponse{Applicable: false})
		return
	}

	writeJSON(w, http.StatusOK, inclusionsDetectResponse{
		Applicable: true,
		DocKind:    string(set.DocKind),
		ControlIDs: set.ControlIDs,
		AttackIDs:  set.AttackIDs,
	})
}

// inclusionsApplyRequest is the POST /api/inclusions/apply body.
type inclusionsApplyRequest struct {
	YAML             string   `json:"yaml"`
	DisabledControls []string `json:"disabled_controls,omitempty"`
	DisabledAttacks  []string `json:"disabled_attacks,omitempty"`
}

// inclusionsApplyResponse carries the filtered document.
type inclusionsApplyResponse struct {
	YAML string `json:"yaml"`
}

func (s *Server) handleInclusionsApply(w http.ResponseWriter, r *http.Request) {
	var req inclusionsApplyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "invalid JSON body")
		return
	}

	filtered := inclusion.Apply(req.YAML,
		sets.New(req.DisabledControls...),
		sets.New(req.DisabledAttacks...))

	writeJSON(w, http.StatusOK, inclusionsApplyResponse{YAML: filtered})
}
