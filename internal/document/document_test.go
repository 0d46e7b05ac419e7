package document

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_ValidScenario(t *testing.T) {
	doc, err := Parse("crml_scenario: \"1.0\"\nmeta:\n  name: Ransomware\n")
	require.NoError(t, err)

	assert.Equal(t, KindScenario, doc.Kind())
	assert.Equal(t, "1.0", doc.Data()["crml_scenario"])
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse("foo: [unclosed")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrParse))
}

func TestParse_NonMappingRoot(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"scalar root", "just a string"},
		{"sequence root", "- a\n- b\n"},
		{"empty document", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrParse))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		data map[string]any
		want Kind
	}{
		{"portfolio bundle", map[string]any{"crml_portfolio_bundle": "1.0"}, KindPortfolioBundle},
		{"scenario", map[string]any{"crml_scenario": "1.0"}, KindScenario},
		{"portfolio", map[string]any{"crml_portfolio": "1.0"}, KindPortfolio},
		{"attack catalog", map[string]any{"crml_attack_catalog": "1.0"}, KindAttackCatalog},
		{"control catalog", map[string]any{"crml_control_catalog": "1.0"}, KindControlCatalog},
		{"control relationships", map[string]any{"crml_control_relationships": "1.0"}, KindControlRelationships},
		{"attack control relationships", map[string]any{"crml_attack_control_relationships": "1.0"}, KindAttackControlRelationships},
		{"assessment", map[string]any{"crml_assessment": "1.0"}, KindAssessment},
		{"fx config", map[string]any{"crml_fx_config": "1.0"}, KindFXConfig},
		{"no discriminator", map[string]any{"name": "x"}, KindUnknown},
		{"non-string discriminator", map[string]any{"crml_scenario": 1}, KindUnknown},
		{"empty", map[string]any{}, KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.data))
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// When multiple discriminators are present, the fixed priority order wins.
	data := map[string]any{
		"crml_scenario":         "1.0",
		"crml_portfolio_bundle": "1.0",
	}
	assert.Equal(t, KindPortfolioBundle, Classify(data))
}

func TestClone_DoesNotAliasNodes(t *testing.T) {
	doc, err := Parse("crml_scenario: \"1.0\"\nmeta:\n  attck:\n    - T1486\n")
	require.NoError(t, err)

	clone := doc.Clone()
	meta := MapGet(clone.Root(), "meta")
	require.NotNil(t, meta)
	MapDelete(meta, "attck")

	// Original still carries the field.
	assert.NotNil(t, MapGet(MapGet(doc.Root(), "meta"), "attck"))
}

func TestSerialize_PreservesKeyOrder(t *testing.T) {
	text := "crml_portfolio: \"1.0\"\nzebra: 1\nalpha: 2\nmiddle: 3\n"
	doc, err := Parse(text)
	require.NoError(t, err)

	out, err := doc.Serialize()
	require.NoError(t, err)
	assert.Equal(t, text, out)
}

func TestMapSet_ReplacesAndAppends(t *testing.T) {
	doc, err := Parse("a: 1\nb: 2\n")
	require.NoError(t, err)

	root := doc.Clone().Root()
	MapSet(root, "b", ScalarNode("two"))
	MapSet(root, "c", IntNode(3))

	out, err := EncodeNode(root)
	require.NoError(t, err)
	assert.Equal(t, "a: 1\nb: two\nc: 3\n", out)
}
