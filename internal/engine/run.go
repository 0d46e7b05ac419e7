package engine

import (
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"
)

// maxCaptureBytes caps captured stdout/stderr per stream to bound memory use
// against runaway child output.
const maxCaptureBytes = 10 * 1024 * 1024

// Outcome is the raw result of one external process invocation. Transient;
// never persisted.
type Outcome struct {
	Stdout   string
	Stderr   string
	ExitCode int
	// Launched is false when the process could not be started at all; in
	// that case ExitCode is meaningless.
	Launched bool
	TimedOut bool
	// LaunchFailed is set when every candidate was exhausted without a
	// usable interpreter.
	LaunchFailed bool
	// FailureMessage carries the raw launch failure text when LaunchFailed.
	FailureMessage string
}

// cappedBuffer collects writes up to a fixed limit and silently discards the
// rest.
type cappedBuffer struct {
	buf   strings.Builder
	limit int
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if remaining := b.limit - b.buf.Len(); remaining > 0 {
		if len(p) > remaining {
			b.buf.Write(p[:remaining])
		} else {
			b.buf.Write(p)
		}
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string { return b.buf.String() }

// runSpec describes one process invocation.
type runSpec struct {
	candidate Candidate
	args      []string
	stdin     string
	extraEnv  []string
	timeout   time.Duration
}

// runProcess executes one candidate and classifies only the mechanics of the
// run (launch, timeout, exit); interpreting the streams is the caller's job.
func runProcess(ctx context.Context, spec runSpec) Outcome {
	if spec.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, spec.timeout)
		defer cancel()
	}

	args := append(append([]string{}, spec.candidate.ArgsPrefix...), spec.args...)
	cmd := exec.CommandContext(ctx, spec.candidate.Command, args...)
	// Give the child a short grace period after cancellation, then kill it.
	cmd.WaitDelay = 5 * time.Second

	if spec.stdin != "" {
		cmd.Stdin = strings.NewReader(spec.stdin)
	}
	if len(spec.extraEnv) > 0 {
		cmd.Env = append(os.Environ(), spec.extraEnv...)
	}

	stdout := &cappedBuffer{limit: maxCaptureBytes}
	stderr := &cappedBuffer{limit: maxCaptureBytes}
	cmd.Stdout = io.Writer(stdout)
	cmd.Stderr = io.Writer(stderr)

	err := cmd.Run()

	out := Outcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Launched: true,
	}

	if ctx.Err() == context.DeadlineExceeded {
		out.TimedOut = true
		return out
	}

	if err == nil {
		return out
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		out.ExitCode = exitErr.ExitCode()
		return out
	}

	// The process never started (interpreter missing, permission, ...).
	out.Launched = false
	out.FailureMessage = err.Error()
	return out
}
