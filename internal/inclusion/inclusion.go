// Package inclusion extracts and filters the control and attack identifiers
// embedded in scenario and portfolio bundle documents. Toggling is a
// non-destructive filter applied at invocation time; the canonical source
// text is never mutated.
package inclusion

import (
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/crmodel/cli/internal/document"
	"gopkg.in/yaml.v3"
)

// Set lists the toggleable identifiers found in a document. The id slices
// are deduplicated and lexicographically sorted.
type Set struct {
	DocKind    document.Kind
	ControlIDs []string
	AttackIDs  []string
}

// Detect extracts the inclusion set from text. It returns nil when the text
// does not parse, is not a scenario or portfolio bundle, or yields zero ids
// of both kinds. A nil result means "no toggles apply", not an error.
func Detect(text string) *Set {
	doc, err := document.Parse(text)
	if err != nil {
		return nil
	}

	controls := sets.New[string]()
	attacks := sets.New[string]()

	switch doc.Kind() {
	case document.KindScenario:
		collectIDs(doc.Data(), controls, attacks)
	case document.KindPortfolioBundle:
		for _, body := range bundleScenarioBodies(doc.Data()) {
			collectIDs(body, controls, attacks)
		}
	default:
		return nil
	}

	if controls.Len() == 0 && attacks.Len() == 0 {
		return nil
	}

	return &Set{
		DocKind:    doc.Kind(),
		ControlIDs: sets.List(controls),
		AttackIDs:  sets.List(attacks),
	}
}

// Apply returns text with the disabled controls and attacks filtered out of
// every affected scenario body. It is total and best-effort: when both
// disabled sets are empty, when the text does not parse, or when the document
// is neither a scenario nor a portfolio bundle, the original text is returned
// unchanged.
func Apply(text string, disabledControls, disabledAttacks sets.Set[string]) string {
	if disabledControls.Len() == 0 && disabledAttacks.Len() == 0 {
		return text
	}

	doc, err := document.Parse(text)
	if err != nil {
		return text
	}

	switch doc.Kind() {
	case document.KindScenario, document.KindPortfolioBundle:
	default:
		return text
	}

	clone := doc.Clone()
	root := clone.Root()

	if clone.Kind() == document.KindScenario {
		filterScenarioBody(root, disabledControls, disabledAttacks)
	} else {
		for _, body := range bundleScenarioNodes(root) {
			filterScenarioBody(body, disabledControls, disabledAttacks)
		}
	}

	out, err := clone.Serialize()
	if err != nil {
		return text
	}
	return out
}

// collectIDs gathers control ids from scenario.controls[] (bare strings or
// {id} objects) and attack ids from meta.attck[] in a scenario body mapping.
func collectIDs(body map[string]any, controls, attacks sets.Set[string]) {
	if meta, ok := body["meta"].(map[string]any); ok {
		if attck, ok := meta["attck"].([]any); ok {
			for _, v := range attck {
				if s, ok := v.(string); ok && s != "" {
					attacks.Insert(s)
				}
			}
		}
	}

	scenario, ok := body["scenario"].(map[string]any)
	if !ok {
		return
	}
	entries, ok := scenario["controls"].([]any)
	if !ok {
		return
	}
	for _, entry := range entries {
		switch v := entry.(type) {
		case string:
			if v != "" {
				controls.Insert(v)
			}
		case map[string]any:
			if id, ok := v["id"].(string); ok && id != "" {
				controls.Insert(id)
			}
		}
	}
}

// bundleScenarioBodies returns the decoded scenario bodies embedded in a
// portfolio bundle mapping.
func bundleScenarioBodies(data map[string]any) []map[string]any {
	bundle, ok := data["portfolio_bundle"].(map[string]any)
	if !ok {
		return nil
	}
	entries, ok := bundle["scenarios"].([]any)
	if !ok {
		return nil
	}
	var bodies []map[string]any
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if body, ok := entry["scenario"].(map[string]any); ok {
			bodies = append(bodies, body)
		}
	}
	return bodies
}

// bundleScenarioNodes returns the scenario body mapping nodes embedded in a
// portfolio bundle root node.
func bundleScenarioNodes(root *yaml.Node) []*yaml.Node {
	bundle := document.MapGet(root, "portfolio_bundle")
	entries := document.MapGet(bundle, "scenarios")
	if entries == nil || entries.Kind != yaml.SequenceNode {
		return nil
	}
	var bodies []*yaml.Node
	for _, entry := range entries.Content {
		if body := document.MapGet(entry, "scenario"); body != nil {
			bodies = append(bodies, body)
		}
	}
	return bodies
}

// filterScenarioBody removes disabled ids from meta.attck and
// scenario.controls in one scenario body node. Arrays left empty by the
// filter are deleted so the output is equivalent to the field never having
// been set.
func filterScenarioBody(body *yaml.Node, disabledControls, disabledAttacks sets.Set[string]) {
	if meta := document.MapGet(body, "meta"); meta != nil {
		filterSequence(meta, "attck", func(n *yaml.Node) bool {
			return !disabledAttacks.Has(n.Value)
		})
	}

	if scenario := document.MapGet(body, "scenario"); scenario != nil {
		filterSequence(scenario, "controls", func(n *yaml.Node) bool {
			return !disabledControls.Has(controlID(n))
		})
	}
}

// controlID returns the id of a controls[] entry node: its scalar value, or
// the value of its "id" field for object entries.
func controlID(n *yaml.Node) string {
	if n.Kind == yaml.ScalarNode {
		return n.Value
	}
	if id := document.MapGet(n, "id"); id != nil {
		return id.Value
	}
	return ""
}

// filterSequence keeps the entries of m[key] accepted by keep, deleting the
// key entirely when no entries remain.
func filterSequence(m *yaml.Node, key string, keep func(*yaml.Node) bool) {
	seq := document.MapGet(m, key)
	if seq == nil || seq.Kind != yaml.SequenceNode {
		return
	}
	kept := seq.Content[:0]
	for _, item := range seq.Content {
		if keep(item) {
			kept = append(kept, item)
		}
	}
	seq.Content = kept
	if len(seq.Content) == 0 {
		document.MapDelete(m, key)
	}
}
