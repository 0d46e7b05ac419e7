package engine

import "strings"

// Failure classification is heuristic by necessity: a missing interpreter or
// module and a legitimate non-zero exit are indistinguishable without
// inspecting the message. The classifiers are pure so they can be tested
// apart from process spawning.

// environmentSignatures mark output that means the interpreter or the CRML
// modules are missing from this candidate's environment. Such a candidate is
// skipped and the next one is tried.
var environmentSignatures = []string{
	"no such file or directory",
	"not recognized as an internal or external command",
	"command not found",
	"executable file not found",
	"modulenotfounderror",
	"importerror",
	"no module named",
}

// brokenLauncherSignatures mark a launcher whose base interpreter has been
// relocated or removed, as seen on some Windows virtual environments. The
// candidate is unusable but the host may still have a working one.
var brokenLauncherSignatures = []string{
	"no python at",
	"did not find executable",
	"unable to create process using",
}

// IsEnvironmentFailure reports whether combined process output or a launch
// error message indicates a missing interpreter or module rather than a
// legitimate application failure.
func IsEnvironmentFailure(output string, launchErr error) bool {
	if launchErr != nil && matchesAny(launchErr.Error(), environmentSignatures) {
		return true
	}
	return matchesAny(output, environmentSignatures)
}

// IsBrokenLauncher reports whether stderr indicates a broken venv launcher.
func IsBrokenLauncher(stderr string) bool {
	return matchesAny(stderr, brokenLauncherSignatures)
}

func matchesAny(s string, signatures []string) bool {
	lower := strings.ToLower(s)
	for _, sig := range signatures {
		if strings.Contains(lower, sig) {
			return true
		}
	}
	return false
}
