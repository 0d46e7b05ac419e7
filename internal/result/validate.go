package result

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/crmodel/cli/internal/engine"
)

// Validator report markers, as printed by the external CRML validator.
const (
	successMarker = "[OK]"
	warningMarker = "[WARNING]"
	errorMarker   = "[ERROR]"
)

var (
	// numberedLine matches the numbered detail lines of a validation report.
	numberedLine = regexp.MustCompile(`^\s*\d+\.\s`)

	// failedSummary matches the generic failed-validation sentence and
	// captures the schema version.
	failedSummary = regexp.MustCompile(`failed CRML\s+([0-9][0-9.]*)\s+validation`)

	// failedSummaryWithCount matches the redundant report header; the
	// numbered lines beneath it carry the actual detail, so it is dropped.
	failedSummaryWithCount = regexp.MustCompile(`failed CRML\s+[0-9][0-9.]*\s+validation with \d+ error`)

	// tempBundlePath matches absolute validator temp-file paths in both
	// POSIX and Windows shapes.
	tempBundlePath = regexp.MustCompile(`(?:/[^\s"']*crml-validator/[^\s"']*\.ya?ml|[A-Za-z]:\\[^\s"']*crml-validator\\[^\s"']*\.ya?ml)`)
)

// NormalizeValidate turns a raw validator outcome into the validation
// envelope. Success requires a launched process whose stdout carries the
// success marker; everything else is scanned line-by-line for warnings and
// errors, which are sanitized for display.
func NormalizeValidate(outcome engine.Outcome) Validation {
	if !outcome.LaunchFailed && strings.Contains(outcome.Stdout, successMarker) {
		return Validation{Valid: true, Warnings: collectWarnings(outcome)}
	}

	res := Validation{Valid: false, Warnings: collectWarnings(outcome)}

	for _, line := range outputLines(outcome) {
		if !isErrorCandidate(line) {
			continue
		}
		res.Errors = append(res.Errors, SanitizeError(stripMarker(line, errorMarker)))
	}

	if len(res.Errors) == 0 {
		if outcome.LaunchFailed {
			msg := outcome.FailureMessage
			if msg == "" {
				msg = "no usable Python environment was found"
			}
			res.Errors = append(res.Errors, fmt.Sprintf("the validator could not be run: %s", msg))
		} else {
			res.Errors = append(res.Errors, "the validator ran but produced no recognizable output")
		}
	}

	return res
}

func outputLines(outcome engine.Outcome) []string {
	combined := outcome.Stdout + "\n" + outcome.Stderr
	return strings.Split(combined, "\n")
}

func collectWarnings(outcome engine.Outcome) []string {
	var warnings []string
	for _, line := range outputLines(outcome) {
		if strings.Contains(line, warningMarker) {
			warnings = append(warnings, stripMarker(line, warningMarker))
		}
	}
	return warnings
}

// isErrorCandidate reports whether a report line carries error detail. The
// generic "failed ... with N error(s)" header is excluded: it is redundant
// next to the numbered lines beneath it.
func isErrorCandidate(line string) bool {
	if failedSummaryWithCount.MatchString(line) {
		return false
	}
	if strings.Contains(line, errorMarker) {
		return true
	}
	if numberedLine.MatchString(line) {
		return true
	}
	return failedSummary.MatchString(line)
}

func stripMarker(line, marker string) string {
	return strings.TrimSpace(strings.Replace(line, marker, "", 1))
}

// SanitizeError rewrites a raw validator message into a user-safe one:
// validator temp paths become "your bundle", the failed-validation summary
// becomes a friendlier sentence preserving the version number, schema
// phrasing is softened, and disallowed-field messages get a documentation
// pointer.
func SanitizeError(msg string) string {
	msg = tempBundlePath.ReplaceAllString(msg, "your bundle")

	if m := failedSummary.FindStringSubmatch(msg); m != nil {
		return fmt.Sprintf("your bundle did not pass CRML %s validation", m[1])
	}

	msg = strings.ReplaceAll(msg, "Additional property", "Unexpected field")
	msg = strings.ReplaceAll(msg, "additional property", "Unexpected field")

	if strings.Contains(msg, "is not allowed") {
		msg += " (see the CRML schema documentation for the fields allowed here)"
	}

	return msg
}
