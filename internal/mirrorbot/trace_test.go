package mirrorbot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTrace(t *testing.T) {
	tests := []struct {
		name    string
		trace   string
		verdict TraceVerdict
	}{
		{
			name:    "empty trace is a genuine failure",
			trace:   "",
			verdict: TraceVerdictWarn,
		},
		{
			name:    "test failure output",
			trace:   "--- FAIL: TestFrobnicate (0.01s)\nFAIL\n",
			verdict: TraceVerdictWarn,
		},
		{
			name:    "oom killed job",
			trace:   "compiling...\nERROR: Job failed: exit code 137\n",
			verdict: TraceVerdictRetry,
		},
		{
			name:    "runner lost connection",
			trace:   "ERROR: Job failed: exit status 255\n",
			verdict: TraceVerdictRetry,
		},
		{
			name:    "runner system failure",
			trace:   "ERROR: Job failed (system failure): aborted: terminated\n",
			verdict: TraceVerdictRetry,
		},
		{
			name:    "artifact upload failed",
			trace:   "Uploading artifacts to coordinator... failed  id=1 responseStatus=502 Bad Gateway\n",
			verdict: TraceVerdictRetry,
		},
		{
			name:    "artifact upload failed then succeeded on retry",
			trace:   "Uploading artifacts to coordinator... failed  id=1 responseStatus=502 Bad Gateway\nUploading artifacts to coordinator... ok  id=1\n",
			verdict: TraceVerdictWarn,
		},
		{
			name:    "artifact upload succeeded then failed",
			trace:   "Uploading artifacts to coordinator... ok  id=1\nUploading artifacts to coordinator... failed  id=2 responseStatus=502 Bad Gateway\n",
			verdict: TraceVerdictRetry,
		},
		{
			name:    "curl transfer aborted",
			trace:   "curl: (18) transfer closed with outstanding read data remaining\n",
			verdict: TraceVerdictRetry,
		},
		{
			name:    "wget got a server error",
			trace:   "HTTP request sent, awaiting response... 500 Internal Server Error\n",
			verdict: TraceVerdictRetry,
		},
		{
			name:    "git remote hung up",
			trace:   "fetch failed: The remote end hung up unexpectedly\n",
			verdict: TraceVerdictRetry,
		},
		{
			name:    "checkout of an outdated commit",
			trace:   "fatal: reference is not a tree: 66a231f06eda5889d7d02afa832935e425fca6fe\n",
			verdict: TraceVerdictIgnore,
		},
		{
			name:    "image of an outdated commit is gone",
			trace:   "manifest for registry.example.com/ci:66a231f not found\n",
			verdict: TraceVerdictIgnore,
		},
		{
			name:    "infrastructure kill wins over test failure output",
			trace:   "--- FAIL: TestFrobnicate (0.01s)\nERROR: Job failed: exit code 137\n",
			verdict: TraceVerdictRetry,
		},
		{
			name:    "transient marker wins over benign marker",
			trace:   "fatal: reference is not a tree: abc\nThe remote end hung up unexpectedly\n",
			verdict: TraceVerdictRetry,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.verdict, ClassifyTrace(tc.trace))
		})
	}
}

func TestTraceVerdictString(t *testing.T) {
	assert.Equal(t, "warn", TraceVerdictWarn.String())
	assert.Equal(t, "retry", TraceVerdictRetry.String())
	assert.Equal(t, "ignore", TraceVerdictIgnore.String())
	assert.Equal(t, "undefined", TraceVerdict(99).String())
}
