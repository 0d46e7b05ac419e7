package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crmodel/cli/internal/engine"
)

func TestNormalizeValidate_Success(t *testing.T) {
	out := NormalizeValidate(engine.Outcome{
		Launched: true,
		Stdout:   "[OK] /tmp/x/crml-validator/crml-1.yaml is a valid CRML 1.1 document.\n",
	})

	assert.True(t, out.Valid)
	assert.Empty(t, out.Errors)
}

func TestNormalizeValidate_SuccessWithWarnings(t *testing.T) {
	out := NormalizeValidate(engine.Outcome{
		Launched: true,
		Stdout:   "[WARNING] scenario has no controls\n[OK] document is a valid CRML 1.1 document.\n",
	})

	assert.True(t, out.Valid)
	require.Len(t, out.Warnings, 1)
	assert.Equal(t, "scenario has no controls", out.Warnings[0])
}

func TestNormalizeValidate_ErrorLines(t *testing.T) {
	out := NormalizeValidate(engine.Outcome{
		Launched: true,
		ExitCode: 1,
		Stdout: "failed CRML 1.1 validation with 2 error(s)\n" +
			"1. meta.name is required\n" +
			"2. scenario.frequency is required\n",
	})

	assert.False(t, out.Valid)
	require.Len(t, out.Errors, 2)
	assert.Contains(t, out.Errors[0], "meta.name is required")
	// The redundant summary header is excluded.
	for _, e := range out.Errors {
		assert.NotContains(t, e, "with 2 error")
	}
}

func TestNormalizeValidate_SummaryRewrite(t *testing.T) {
	out := NormalizeValidate(engine.Outcome{
		Launched: true,
		ExitCode: 1,
		Stdout:   "[ERROR] /tmp/abc123/crml-validator/crml-999.yaml failed CRML 1.1 validation.\n",
	})

	assert.False(t, out.Valid)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "your bundle")
	assert.Contains(t, out.Errors[0], "1.1")
	assert.NotContains(t, out.Errors[0], "/tmp/abc123")
}

func TestNormalizeValidate_NoRecognizableOutput(t *testing.T) {
	out := NormalizeValidate(engine.Outcome{Launched: true, ExitCode: 3, Stderr: "segfault\n"})

	assert.False(t, out.Valid)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "no recognizable output")
}

func TestNormalizeValidate_LaunchFailed(t *testing.T) {
	out := NormalizeValidate(engine.Outcome{
		LaunchFailed:   true,
		FailureMessage: "executable file not found in $PATH",
	})

	assert.False(t, out.Valid)
	require.Len(t, out.Errors, 1)
	assert.Contains(t, out.Errors[0], "could not be run")
	assert.Contains(t, out.Errors[0], "executable file not found")
}

func TestSanitizeError(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want func(t *testing.T, got string)
	}{
		{
			name: "posix temp path replaced",
			in:   "error in /tmp/abc123/crml-validator/crml-999.yaml near line 4",
			want: func(t *testing.T, got string) {
				assert.Contains(t, got, "your bundle")
				assert.NotContains(t, got, "/tmp/abc123")
			},
		},
		{
			name: "windows temp path replaced",
			in:   `error in C:\Users\x\AppData\Local\Temp\crml-9\crml-validator\crml-1.yaml`,
			want: func(t *testing.T, got string) {
				assert.Contains(t, got, "your bundle")
				assert.NotContains(t, got, `C:\Users`)
			},
		},
		{
			name: "additional property rewritten",
			in:   "Additional property 'foo' is not allowed",
			want: func(t *testing.T, got string) {
				assert.Contains(t, got, "Unexpected field")
				assert.NotContains(t, got, "Additional property")
				assert.Contains(t, got, "schema documentation")
			},
		},
		{
			name: "lowercase additional property rewritten",
			in:   "found additional property 'bar'",
			want: func(t *testing.T, got string) {
				assert.Contains(t, got, "Unexpected field")
			},
		},
		{
			name: "summary preserves version",
			in:   "your-file.yaml failed CRML 1.2 validation.",
			want: func(t *testing.T, got string) {
				assert.Contains(t, got, "1.2")
				assert.Contains(t, got, "did not pass")
			},
		},
		{
			name: "ordinary message untouched",
			in:   "meta.name is required",
			want: func(t *testing.T, got string) {
				assert.Equal(t, "meta.name is required", got)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.want(t, SanitizeError(tt.in))
		})
	}
}
