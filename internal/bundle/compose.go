// Package bundle composes a portfolio, selected scenarios, and optional
// packs into one self-contained portfolio bundle document.
package bundle

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/crmodel/cli/internal/document"
)

// Selection is one document chosen for composition: its file name (used for
// labeling, slugging, and traceability) and its raw text.
type Selection struct {
	Name string
	Text string
}

// Result is the composition output. A non-empty Errors list means YAML, even
// when present, must be treated as provisional.
type Result struct {
	YAML     string
	Errors   []string
	Warnings []string
}

// packFields maps each pack kind to its bundle field, in emission order.
var packFields = []struct {
	kind  document.Kind
	field string
}{
	{document.KindControlCatalog, "control_catalogs"},
	{document.KindAssessment, "assessments"},
	{document.KindControlRelationships, "control_relationships"},
	{document.KindAttackCatalog, "attack_catalogs"},
	{document.KindAttackControlRelationships, "attack_control_relationships"},
}

// Compose merges the selected documents into a portfolio bundle. All
// selection and parse errors are collected before deciding whether
// composition can proceed; it stops only when the portfolio or every
// scenario is unusable.
func Compose(portfolio *Selection, scenarios []Selection, packs []Selection) Result {
	var res Result

	if portfolio == nil {
		res.Errors = append(res.Errors, "select a portfolio")
	}
	if len(scenarios) == 0 {
		res.Errors = append(res.Errors, "select at least one scenario")
	}

	var portfolioDoc *document.Document
	if portfolio != nil {
		doc, err := document.Parse(portfolio.Text)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("portfolio: %v", err))
		} else {
			portfolioDoc = doc
		}
	}

	type parsedScenario struct {
		sel Selection
		doc *document.Document
	}
	var parsedScenarios []parsedScenario
	for _, sel := range scenarios {
		doc, err := document.Parse(sel.Text)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("scenario %s: %v", sel.Name, err))
			continue
		}
		parsedScenarios = append(parsedScenarios, parsedScenario{sel: sel, doc: doc})
	}

	type parsedPack struct {
		sel  Selection
		doc  *document.Document
		kind document.Kind
	}
	var parsedPacks []parsedPack
	for _, sel := range packs {
		doc, err := document.Parse(sel.Text)
		if err != nil {
			res.Errors = append(res.Errors, fmt.Sprintf("pack %s: %v", sel.Name, err))
			continue
		}
		parsedPacks = append(parsedPacks, parsedPack{sel: sel, doc: doc, kind: doc.Kind()})
	}

	selectedPackKinds := make(map[document.Kind]bool, len(parsedPacks))
	for _, p := range parsedPacks {
		selectedPackKinds[p.kind] = true
	}

	if len(scenarios) > 0 {
		res.Warnings = append(res.Warnings, compatibilityWarnings(scenarios, selectedPackKinds)...)
	}

	if portfolioDoc == nil || len(parsedScenarios) == 0 {
		return res
	}

	// Rewrite the portfolio so the bundle is self-contained.
	rewritten := portfolioDoc.Clone().Root()
	body := document.MapGet(rewritten, "portfolio")
	if body == nil || body.Kind != yaml.MappingNode {
		body = rewritten
	}

	refs := document.SequenceNode()
	for _, ps := range parsedScenarios {
		ref := document.MappingNode()
		document.MapSet(ref, "id", document.ScalarNode(Slug(ps.sel.Name)))
		document.MapSet(ref, "path", document.ScalarNode(ps.sel.Name))
		refs.Content = append(refs.Content, ref)
	}
	document.MapSet(body, "scenarios", refs)

	// Path existence and external re-validation semantics do not apply to an
	// inlined bundle.
	document.MapSet(body, "require_paths_exist", document.BoolNode(false))
	document.MapSet(body, "validate_scenarios", document.BoolNode(false))

	for _, pf := range packFields {
		var names []*yaml.Node
		for _, p := range parsedPacks {
			if p.kind == pf.kind {
				names = append(names, document.ScalarNode(p.sel.Name))
			}
		}
		if len(names) > 0 {
			document.MapSet(body, pf.field, document.SequenceNode(names...))
		}
	}

	// Assemble the bundle document.
	payload := document.MappingNode()
	document.MapSet(payload, "portfolio", rewritten)

	entries := document.SequenceNode()
	for _, ps := range parsedScenarios {
		entry := document.MappingNode()
		document.MapSet(entry, "id", document.ScalarNode(Slug(ps.sel.Name)))
		document.MapSet(entry, "weight", document.IntNode(1))
		document.MapSet(entry, "source_path", document.ScalarNode("examples/"+ps.sel.Name))
		document.MapSet(entry, "scenario", ps.doc.Clone().Root())
		entries.Content = append(entries.Content, entry)
	}
	document.MapSet(payload, "scenarios", entries)

	for _, pf := range packFields {
		var bodies []*yaml.Node
		for _, p := range parsedPacks {
			if p.kind == pf.kind {
				bodies = append(bodies, p.doc.Clone().Root())
			}
		}
		// A kind with zero selections is omitted entirely, never an empty array.
		if len(bodies) > 0 {
			document.MapSet(payload, pf.field, document.SequenceNode(bodies...))
		}
	}

	root := document.MappingNode()
	document.MapSet(root, "crml_portfolio_bundle", document.ScalarNode("1.0"))
	document.MapSet(root, "portfolio_bundle", payload)

	text, err := document.EncodeNode(root)
	if err != nil {
		res.Errors = append(res.Errors, fmt.Sprintf("serializing bundle: %v", err))
		return res
	}
	res.YAML = text

	return res
}
