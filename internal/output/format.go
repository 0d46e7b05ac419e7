package output

import "strings"

// OutputFormat specifies the output format.
type OutputFormat string

const (
	// FormatYAML outputs in YAML format.
	FormatYAML OutputFormat = "yaml"

	// FormatJSON outputs in JSON format.
	FormatJSON OutputFormat = "json"

	// FormatText outputs a styled human-readable report.
	FormatText OutputFormat = "text"
)

// String returns the string representation of the output format.
func (f OutputFormat) String() string {
	return string(f)
}

// ParseFormat parses a string into an OutputFormat. The second return is
// false when the string names no known format.
func ParseFormat(s string) (OutputFormat, bool) {
	switch strings.ToLower(s) {
	case "yaml", "yml":
		return FormatYAML, true
	case "json":
		return FormatJSON, true
	case "text", "":
		return FormatText, true
	default:
		return FormatText, false
	}
}

// ValidFormats returns the valid output format strings.
func ValidFormats() []string {
	return []string{"text", "yaml", "json"}
}
