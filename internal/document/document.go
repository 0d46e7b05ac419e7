// Package document parses CRML YAML documents and classifies them by kind.
package document

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind identifies the CRML document type, derived from the discriminator key.
type Kind string

// Recognized document kinds.
const (
	KindPortfolioBundle            Kind = "portfolio_bundle"
	KindScenario                   Kind = "scenario"
	KindPortfolio                  Kind = "portfolio"
	KindAttackCatalog              Kind = "attack_catalog"
	KindControlCatalog             Kind = "control_catalog"
	KindControlRelationships       Kind = "control_relationships"
	KindAttackControlRelationships Kind = "attack_control_relationships"
	KindAssessment                 Kind = "assessment"
	KindFXConfig                   Kind = "fx_config"
	KindUnknown                    Kind = "unknown"
)

// discriminatorOrder lists the recognized kinds in authority order. The first
// discriminator key present at the document root with a string value wins.
var discriminatorOrder = []Kind{
	KindPortfolioBundle,
	KindScenario,
	KindPortfolio,
	KindAttackCatalog,
	KindControlCatalog,
	KindControlRelationships,
	KindAttackControlRelationships,
	KindAssessment,
	KindFXConfig,
}

// DiscriminatorKey returns the top-level key that marks a document of the
// given kind, e.g. "crml_scenario" for KindScenario.
func DiscriminatorKey(k Kind) string {
	return "crml_" + string(k)
}

// ErrParse is the sentinel cause for all document parse failures.
var ErrParse = errors.New("parse error")

// ParseError reports why a text artifact could not be parsed as a CRML document.
type ParseError struct {
	Reason string
	Cause  error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Cause)
	}
	return e.Reason
}

// Unwrap returns ErrParse so callers can match with errors.Is.
func (e *ParseError) Unwrap() error { return ErrParse }

// Document is a parsed CRML artifact. It keeps both the order-preserving
// yaml.Node tree (for mutation and deterministic re-serialization) and a
// plain decoded mapping (for read-only inspection). Immutable once parsed;
// mutating callers must work on a Clone.
type Document struct {
	root *yaml.Node
	data map[string]any
	kind Kind
}

// Parse parses text into a Document. It fails if the text is not valid YAML
// or if the document root is not a mapping.
func Parse(text string) (*Document, error) {
	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, &ParseError{Reason: "invalid YAML", Cause: err}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, &ParseError{Reason: "empty document"}
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, &ParseError{Reason: "document root must be a mapping"}
	}

	var data map[string]any
	if err := root.Decode(&data); err != nil {
		return nil, &ParseError{Reason: "invalid YAML", Cause: err}
	}

	return &Document{
		root: &root,
		data: data,
		kind: Classify(data),
	}, nil
}

// Classify derives the document kind from its root mapping. Pure and total:
// unrecognized or missing discriminators yield KindUnknown, never an error.
func Classify(data map[string]any) Kind {
	for _, k := range discriminatorOrder {
		if v, ok := data[DiscriminatorKey(k)]; ok {
			if _, isString := v.(string); isString {
				return k
			}
		}
	}
	return KindUnknown
}

// Kind returns the classified document kind.
func (d *Document) Kind() Kind { return d.kind }

// Data returns the decoded root mapping. Callers must not mutate it.
func (d *Document) Data() map[string]any { return d.data }

// Root returns the root mapping node of the document.
func (d *Document) Root() *yaml.Node { return d.root.Content[0] }

// Clone returns a deep copy of the document. The copy shares no nested
// structure with the original, so mutations against it are independent.
func (d *Document) Clone() *Document {
	return &Document{
		root: CloneNode(d.root),
		data: d.data,
		kind: d.kind,
	}
}

// Serialize encodes the document's node tree back to YAML text. Key order
// follows the node tree (input order), not alphabetical order.
func (d *Document) Serialize() (string, error) {
	return EncodeNode(d.root)
}

// EncodeNode encodes a yaml.Node to text with two-space indentation.
func EncodeNode(n *yaml.Node) (string, error) {
	var sb strings.Builder
	enc := yaml.NewEncoder(&sb)
	enc.SetIndent(2)
	if err := enc.Encode(n); err != nil {
		return "", fmt.Errorf("encoding YAML: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encoding YAML: %w", err)
	}
	return sb.String(), nil
}
