package bundle

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crmodel/cli/internal/document"
)

// Compatibility warnings are heuristic scans over the raw scenario text, not
// structural checks. They flag likely omissions in the selection; they do not
// guarantee correctness, and they tolerate partial or templated documents
// that would not parse cleanly.

var (
	currencyPattern  = regexp.MustCompile(`(?m)^\s*currency:\s*["']?([A-Za-z]{3})["']?\s*$`)
	frequencyPattern = regexp.MustCompile(`frequency:\s*\r?\n\s*model:\s*["']?([A-Za-z0-9_-]+)`)
)

// catalogHints maps a raw-text substring to the pack kind whose absence it
// flags. Checked per scenario against the selected pack kinds.
var catalogHints = []struct {
	substring string
	kind      document.Kind
	label     string
}{
	{"control_catalog", document.KindControlCatalog, "control catalog"},
	{"attack_catalog", document.KindAttackCatalog, "attack catalog"},
	{"control_relationships", document.KindControlRelationships, "control relationships"},
}

func compatibilityWarnings(scenarios []Selection, selectedPackKinds map[document.Kind]bool) []string {
	var warnings []string

	if w := mismatchWarning(scenarios, currencyPattern,
		"selected scenarios use different currencies"); w != "" {
		warnings = append(warnings, w)
	}
	if w := mismatchWarning(scenarios, frequencyPattern,
		"selected scenarios use different frequency models"); w != "" {
		warnings = append(warnings, w)
	}

	for _, sel := range scenarios {
		for _, hint := range catalogHints {
			if strings.Contains(sel.Text, hint.substring) && !selectedPackKinds[hint.kind] {
				warnings = append(warnings, fmt.Sprintf(
					"scenario %s references a %s but no %s pack is selected; consider adding one",
					sel.Name, hint.label, hint.label))
			}
		}
	}

	return warnings
}

// mismatchWarning collects the first pattern capture from each scenario text
// and warns when more than one distinct value appears across the selection.
func mismatchWarning(scenarios []Selection, pattern *regexp.Regexp, prefix string) string {
	var distinct []string
	seen := map[string]bool{}
	for _, sel := range scenarios {
		m := pattern.FindStringSubmatch(sel.Text)
		if m == nil {
			continue
		}
		if !seen[m[1]] {
			seen[m[1]] = true
			distinct = append(distinct, m[1])
		}
	}
	if len(distinct) > 1 {
		return fmt.Sprintf("%s: %s", prefix, strings.Join(distinct, ", "))
	}
	return ""
}
