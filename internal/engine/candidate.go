// Package engine locates and invokes the external CRML validator and
// simulation engine across heterogeneous host and interpreter setups.
package engine

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// PythonEnvVar overrides interpreter discovery when set and non-blank.
const PythonEnvVar = "CRML_PYTHON"

// Candidate is one ordered hypothesis for how to invoke the external
// runtime. Candidates are tried strictly in order, never in parallel, and the
// list is recomputed per request because host state may change between
// requests in a long-lived process.
type Candidate struct {
	Command    string
	ArgsPrefix []string
}

func (c Candidate) key() string {
	return c.Command + "\x00" + strings.Join(c.ArgsPrefix, "\x00")
}

// venvPython returns the path of a local virtual-environment interpreter
// under dir, without checking that it exists.
func venvPython(dir string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, ".venv", "Scripts", "python.exe")
	}
	return filepath.Join(dir, ".venv", "bin", "python")
}

// venvBinary returns the path of a locally installed console script under
// dir's virtual environment.
func venvBinary(dir, name string) string {
	if runtime.GOOS == "windows" {
		return filepath.Join(dir, ".venv", "Scripts", name+".exe")
	}
	return filepath.Join(dir, ".venv", "bin", name)
}

// platformInterpreters returns the platform-default launcher candidates, in
// preference order.
func platformInterpreters() []Candidate {
	if runtime.GOOS == "windows" {
		return []Candidate{
			{Command: "py", ArgsPrefix: []string{"-3"}},
			{Command: "python"},
		}
	}
	return []Candidate{
		{Command: "python3"},
		{Command: "python"},
	}
}

// validateCandidates builds the interpreter list for the validate path: the
// repo-local virtual environment first, then the platform defaults. No
// existence probing here; a missing interpreter surfaces as an environment
// failure and triggers fallback.
func validateCandidates(repoRoot string) []Candidate {
	out := []Candidate{{Command: venvPython(repoRoot)}}
	return append(out, platformInterpreters()...)
}

// simulateCandidates builds the interpreter list for the simulate path by
// probing for existence: the CRML_PYTHON override first, then a local
// virtual-environment interpreter if present on disk, then platform
// launchers found on PATH. Duplicates are removed preserving first-seen
// order.
func simulateCandidates(workDir string) []Candidate {
	var out []Candidate

	if override := strings.TrimSpace(os.Getenv(PythonEnvVar)); override != "" {
		out = append(out, Candidate{Command: override})
	}

	if venv := venvPython(workDir); fileExists(venv) {
		out = append(out, Candidate{Command: venv})
	}

	for _, c := range platformInterpreters() {
		if _, err := exec.LookPath(c.Command); err == nil {
			out = append(out, c)
		}
	}

	return dedupeCandidates(out)
}

func dedupeCandidates(in []Candidate) []Candidate {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, c := range in {
		if seen[c.key()] {
			continue
		}
		seen[c.key()] = true
		out = append(out, c)
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
