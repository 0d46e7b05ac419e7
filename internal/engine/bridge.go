package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/crmodel/cli/internal/output"
)

// SimulateTimeout is the hard wall-clock budget for one simulation run.
const SimulateTimeout = 30 * time.Second

// maxAncestorSearch bounds the upward search for the CRML project layout.
const maxAncestorSearch = 6

// repoMarkers are the nested directories that identify a CRML source tree.
// Both must be present under the candidate root.
var repoMarkers = [][]string{
	{"crml_lang", "src", "crml_lang"},
	{"crml_engine", "src", "crml_engine"},
}

// Bridge invokes the external CRML validator and engine. Candidate lists are
// rebuilt on every call; the bridge itself holds no per-request state.
type Bridge struct {
	// WorkDir anchors repo-root search and venv discovery. Defaults to the
	// process working directory.
	WorkDir string

	// Python, when set, is tried before any discovered interpreter. It takes
	// precedence over the CRML_PYTHON environment variable.
	Python string

	// Timeout bounds one simulation run. Defaults to SimulateTimeout.
	Timeout time.Duration
}

// New creates a Bridge with default settings.
func New() *Bridge {
	return &Bridge{Timeout: SimulateTimeout}
}

func (b *Bridge) workDir() string {
	if b.WorkDir != "" {
		return b.WorkDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

func (b *Bridge) timeout() time.Duration {
	if b.Timeout > 0 {
		return b.Timeout
	}
	return SimulateTimeout
}

// tempFileSeq numbers validation temp files within this process.
var tempFileSeq atomic.Int64

// ValidateText writes yamlText to a scoped temp file, runs the external
// validator against it, and removes the file on every exit path. Cleanup
// failures are swallowed.
func (b *Bridge) ValidateText(ctx context.Context, yamlText string) Outcome {
	dir, err := os.MkdirTemp("", "crml-")
	if err != nil {
		return Outcome{LaunchFailed: true, FailureMessage: fmt.Sprintf("creating temp dir: %v", err)}
	}
	defer os.RemoveAll(dir)

	sub := filepath.Join(dir, "crml-validator")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		return Outcome{LaunchFailed: true, FailureMessage: fmt.Sprintf("creating temp dir: %v", err)}
	}

	path := filepath.Join(sub, fmt.Sprintf("crml-%d.yaml", tempFileSeq.Add(1)))
	if err := os.WriteFile(path, []byte(yamlText), 0o644); err != nil {
		return Outcome{LaunchFailed: true, FailureMessage: fmt.Sprintf("writing temp file: %v", err)}
	}

	return b.Validate(ctx, path)
}

// Validate runs the external validator CLI against the temp file at path.
// A candidate that launches is accepted immediately, even when its exit code
// signals a validation failure: a non-zero exit here is legitimate
// application output, not an environment problem. Only recognized
// interpreter-or-module-missing symptoms trigger fallback to the next
// candidate. Blocks for as long as the validator takes; bounded only by ctx.
func (b *Bridge) Validate(ctx context.Context, path string) Outcome {
	var lastFailure string

	if root, ok := findRepoRoot(b.workDir()); ok {
		pythonPath := filepath.Join(root, "crml_lang", "src") +
			string(os.PathListSeparator) +
			filepath.Join(root, "crml_engine", "src")

		candidates := validateCandidates(root)
		if b.Python != "" {
			candidates = dedupeCandidates(append([]Candidate{{Command: b.Python}}, candidates...))
		}

		for _, c := range candidates {
			output.Debug("trying validator candidate", "command", c.Command)
			out := runProcess(ctx, runSpec{
				candidate: c,
				args:      []string{"-m", "crml_lang", "validate", path},
				extraEnv:  []string{"PYTHONPATH=" + pythonPath},
			})
			if accepted, failure := classifyValidateOutcome(out); accepted {
				return out
			} else if failure != "" {
				lastFailure = failure
			}
		}
	} else {
		// No source tree nearby: an explicit interpreter runs the installed
		// package module, otherwise fall back to an installed crml binary,
		// local virtual environment first.
		if b.Python != "" {
			out := runProcess(ctx, runSpec{
				candidate: Candidate{Command: b.Python},
				args:      []string{"-m", "crml_lang", "validate", path},
			})
			if accepted, failure := classifyValidateOutcome(out); accepted {
				return out
			} else if failure != "" {
				lastFailure = failure
			}
		}
		fallbacks := []Candidate{
			{Command: venvBinary(b.workDir(), "crml")},
			{Command: "crml"},
		}
		for _, c := range fallbacks {
			output.Debug("trying validator binary", "command", c.Command)
			out := runProcess(ctx, runSpec{
				candidate: c,
				args:      []string{"validate", path},
			})
			if accepted, failure := classifyValidateOutcome(out); accepted {
				return out
			} else if failure != "" {
				lastFailure = failure
			}
		}
	}

	return Outcome{LaunchFailed: true, FailureMessage: lastFailure}
}

// classifyValidateOutcome decides whether an outcome is acceptable final
// output or an environment failure worth falling through.
func classifyValidateOutcome(out Outcome) (accepted bool, failure string) {
	if !out.Launched {
		return false, out.FailureMessage
	}
	combined := out.Stdout + "\n" + out.Stderr
	if out.ExitCode != 0 && IsEnvironmentFailure(combined, nil) {
		return false, combined
	}
	return true, ""
}

// Simulate runs the external engine against yamlText via an inline driver
// that reads the payload from stdin, keeping it off the command line. A hard
// wall-clock timeout forcibly terminates the child and is reported as a
// distinct TimedOut outcome, never conflated with a non-zero exit.
func (b *Bridge) Simulate(ctx context.Context, yamlText string, runs int, seed *int64, outputCurrency string) Outcome {
	candidates := simulateCandidates(b.workDir())
	if b.Python != "" {
		candidates = dedupeCandidates(append([]Candidate{{Command: b.Python}}, candidates...))
	}
	if len(candidates) == 0 {
		return Outcome{LaunchFailed: true, FailureMessage: "no Python interpreter found"}
	}

	seedArg := ""
	if seed != nil {
		seedArg = strconv.FormatInt(*seed, 10)
	}

	var lastFailure string
	for _, c := range candidates {
		output.Debug("trying engine candidate", "command", c.Command)
		out := runProcess(ctx, runSpec{
			candidate: c,
			args:      []string{"-c", simulateDriver, strconv.Itoa(runs), seedArg, outputCurrency},
			stdin:     yamlText,
			timeout:   b.timeout(),
		})

		if !out.Launched {
			lastFailure = out.FailureMessage
			continue
		}
		if out.TimedOut {
			return out
		}
		if out.ExitCode != 0 && IsBrokenLauncher(out.Stderr) {
			lastFailure = out.Stderr
			continue
		}
		// Any other exit, zero or not, is the final result.
		return out
	}

	return Outcome{LaunchFailed: true, FailureMessage: lastFailure}
}

// findRepoRoot walks up from start looking for the CRML project layout,
// checking start and up to maxAncestorSearch ancestors.
func findRepoRoot(start string) (string, bool) {
	dir := start
	for i := 0; i <= maxAncestorSearch; i++ {
		if hasRepoMarkers(dir) {
			return dir, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

func hasRepoMarkers(dir string) bool {
	for _, marker := range repoMarkers {
		path := filepath.Join(append([]string{dir}, marker...)...)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			return false
		}
	}
	return true
}
