package inclusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/apimachinery/pkg/util/sets"
)

const scenarioText = `crml_scenario: "1.0"
meta:
  name: Ransomware outbreak
  attck:
    - T1486
    - T1078
scenario:
  frequency:
    model: poisson
  controls:
    - CTRL-BACKUP
    - id: CTRL-MFA
      effect: 0.4
    - CTRL-EDR
`

const bundleText = `crml_portfolio_bundle: "1.0"
portfolio_bundle:
  portfolio:
    crml_portfolio: "1.0"
  scenarios:
    - id: ransomware
      weight: 1
      source_path: examples/ransomware.yaml
      scenario:
        crml_scenario: "1.0"
        meta:
          attck:
            - T1486
        scenario:
          controls:
            - CTRL-BACKUP
    - id: phishing
      weight: 1
      source_path: examples/phishing.yaml
      scenario:
        crml_scenario: "1.0"
        meta:
          attck:
            - T1566
        scenario:
          controls:
            - id: CTRL-MFA
`

func TestDetect_Scenario(t *testing.T) {
	set := Detect(scenarioText)
	require.NotNil(t, set)

	assert.Equal(t, []string{"CTRL-BACKUP", "CTRL-EDR", "CTRL-MFA"}, set.ControlIDs)
	assert.Equal(t, []string{"T1078", "T1486"}, set.AttackIDs)
}

func TestDetect_BundleUnionsScenarios(t *testing.T) {
	set := Detect(bundleText)
	require.NotNil(t, set)

	assert.Equal(t, []string{"CTRL-BACKUP", "CTRL-MFA"}, set.ControlIDs)
	assert.Equal(t, []string{"T1486", "T1566"}, set.AttackIDs)
}

func TestDetect_NotApplicable(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"wrong kind", "crml_portfolio: \"1.0\"\n"},
		{"unparseable", "nope: [oops"},
		{"no ids", "crml_scenario: \"1.0\"\nmeta:\n  name: empty\n"},
		{"unknown kind", "name: plain mapping\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Detect(tt.text))
		})
	}
}

func TestApply_EmptySetsIsIdentity(t *testing.T) {
	out := Apply(scenarioText, sets.New[string](), sets.New[string]())
	assert.Equal(t, scenarioText, out)
}

func TestApply_UnparseableTextUnchanged(t *testing.T) {
	text := "broken: [yaml"
	out := Apply(text, sets.New("CTRL-MFA"), sets.New[string]())
	assert.Equal(t, text, out)
}

func TestApply_WrongKindUnchanged(t *testing.T) {
	text := "crml_portfolio: \"1.0\"\nportfolio:\n  name: x\n"
	out := Apply(text, sets.New("CTRL-MFA"), sets.New[string]())
	assert.Equal(t, text, out)
}

func TestApply_FiltersControlsAndAttacks(t *testing.T) {
	out := Apply(scenarioText, sets.New("CTRL-MFA"), sets.New("T1078"))

	set := Detect(out)
	require.NotNil(t, set)
	assert.Equal(t, []string{"CTRL-BACKUP", "CTRL-EDR"}, set.ControlIDs)
	assert.Equal(t, []string{"T1486"}, set.AttackIDs)
}

func TestApply_DeletesEmptiedFields(t *testing.T) {
	out := Apply(scenarioText,
		sets.New("CTRL-BACKUP", "CTRL-MFA", "CTRL-EDR"),
		sets.New("T1486", "T1078"))

	assert.NotContains(t, out, "controls:")
	assert.NotContains(t, out, "attck:")
	// The surrounding structure survives.
	assert.Contains(t, out, "crml_scenario:")
	assert.Contains(t, out, "frequency:")
}

func TestApply_BundleFiltersEveryScenario(t *testing.T) {
	out := Apply(bundleText, sets.New("CTRL-BACKUP"), sets.New("T1566"))

	set := Detect(out)
	require.NotNil(t, set)
	assert.Equal(t, []string{"CTRL-MFA"}, set.ControlIDs)
	assert.Equal(t, []string{"T1486"}, set.AttackIDs)
}

func TestApply_RepeatedCallsAreIndependent(t *testing.T) {
	first := Apply(scenarioText, sets.New("CTRL-MFA"), sets.New[string]())
	second := Apply(scenarioText, sets.New("CTRL-EDR"), sets.New[string]())

	assert.Contains(t, first, "CTRL-EDR")
	assert.Contains(t, second, "CTRL-MFA")
}

func TestApply_DetectMinusDisabled(t *testing.T) {
	// detect(apply(D, dc, da)) == detect(D) minus the disabled sets.
	before := Detect(bundleText)
	require.NotNil(t, before)

	disabled := sets.New("CTRL-MFA")
	out := Apply(bundleText, disabled, sets.New[string]())
	after := Detect(out)
	require.NotNil(t, after)

	want := sets.New(before.ControlIDs...).Difference(disabled)
	assert.Equal(t, sets.List(want), after.ControlIDs)
	assert.Equal(t, before.AttackIDs, after.AttackIDs)
}
