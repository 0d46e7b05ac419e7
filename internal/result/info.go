package result

import (
	yamlv3 "gopkg.in/yaml.v3"
	"sigs.k8s.io/yaml"

	"github.com/crmodel/cli/internal/document"
)

// ExtractInfo pulls display metadata straight out of the parsed input,
// independent of whether external validation succeeds. The meta mapping is
// located at the document root or, for bundles, at portfolio_bundle.meta
// falling back to portfolio_bundle.portfolio.meta. Returns nil when no meta
// is found or the text does not parse.
func ExtractInfo(text string) *Info {
	doc, err := document.Parse(text)
	if err != nil {
		return nil
	}

	meta := locateMeta(doc.Data())
	if meta == nil {
		return nil
	}

	info := &Info{}
	if !decodeInto(meta, info) {
		return nil
	}

	if locale, ok := meta["locale"].(map[string]any); ok {
		var loc struct {
			Regions   []string `json:"regions,omitempty"`
			Countries []string `json:"countries,omitempty"`
		}
		if decodeInto(locale, &loc) {
			info.Regions = loc.Regions
			info.Countries = loc.Countries
		}
	}

	return info
}

func locateMeta(data map[string]any) map[string]any {
	if meta, ok := data["meta"].(map[string]any); ok {
		return meta
	}
	bundle, ok := data["portfolio_bundle"].(map[string]any)
	if !ok {
		return nil
	}
	if meta, ok := bundle["meta"].(map[string]any); ok {
		return meta
	}
	if portfolio, ok := bundle["portfolio"].(map[string]any); ok {
		// The embedded portfolio may itself be a full document or a body.
		if meta, ok := portfolio["meta"].(map[string]any); ok {
			return meta
		}
		if body, ok := portfolio["portfolio"].(map[string]any); ok {
			if meta, ok := body["meta"].(map[string]any); ok {
				return meta
			}
		}
	}
	return nil
}

// decodeInto round-trips a decoded mapping through YAML into a struct with
// json tags, tolerating unknown fields.
func decodeInto(data map[string]any, target any) bool {
	raw, err := yamlv3.Marshal(data)
	if err != nil {
		return false
	}
	return yaml.Unmarshal(raw, target) == nil
}
