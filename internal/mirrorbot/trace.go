package mirrorbot

import (
	"regexp"
	"strings"
)

// TraceVerdict is the outcome of classifying the log output of a failed CI
// job.
type TraceVerdict int

const (
	// TraceVerdictWarn marks a genuine failure that must be reported as a
	// commit status.
	TraceVerdictWarn TraceVerdict = iota
	// TraceVerdictRetry marks a transient infrastructure failure, the job
	// is retried without involving a human.
	TraceVerdictRetry
	// TraceVerdictIgnore marks an expected benign failure that carries no
	// actionable signal.
	TraceVerdictIgnore
)

func (v TraceVerdict) String() string {
	switch v {
	case TraceVerdictWarn:
		return "warn"
	case TraceVerdictRetry:
		return "retry"
	case TraceVerdictIgnore:
		return "ignore"
	default:
		return "undefined"
	}
}

// infraKillMarkers are printed when the job was terminated by the runner
// infrastructure, e.g. OOM kills or runner shutdowns.
var infraKillMarkers = []string{
	"Job failed: exit code 137",
	"Job failed: exit status 255",
	"Job failed (system failure)",
}

var (
	artifactUploadFailedRe = regexp.MustCompile(`Uploading artifacts[^\n]*\.\.\. failed`)
	artifactUploadOKRe     = regexp.MustCompile(`Uploading artifacts[^\n]*\.\.\. ok`)
)

var networkFlakeMarkers = []string{
	"transfer closed with outstanding read data remaining",
	"HTTP request sent, awaiting response... 500 Internal Server Error",
	"The remote end hung up unexpectedly",
}

const refNotATreeMarker = "fatal: reference is not a tree"

var manifestNotFoundRe = regexp.MustCompile(`manifest for .* not found`)

// ClassifyTrace maps the log output of a failed CI job to a verdict.
//
// The rules are evaluated in order, the first matching one wins. Transient
// infrastructure markers are checked first: they can co-occur with output
// that would otherwise be classified as a genuine failure, and retrying
// must take priority over reporting.
func ClassifyTrace(trace string) TraceVerdict {
	for _, marker := range infraKillMarkers {
		if strings.Contains(trace, marker) {
			return TraceVerdictRetry
		}
	}

	// a failed artifact upload is only transient when it was not retried
	// successfully later in the same job
	if failedIdx := lastMatchIndex(artifactUploadFailedRe, trace); failedIdx >= 0 {
		if lastMatchIndex(artifactUploadOKRe, trace) < failedIdx {
			return TraceVerdictRetry
		}
	}

	for _, marker := range networkFlakeMarkers {
		if strings.Contains(trace, marker) {
			return TraceVerdictRetry
		}
	}

	if strings.Contains(trace, refNotATreeMarker) {
		return TraceVerdictIgnore
	}

	if manifestNotFoundRe.MatchString(trace) {
		return TraceVerdictIgnore
	}

	return TraceVerdictWarn
}

func lastMatchIndex(re *regexp.Regexp, s string) int {
	locs := re.FindAllStringIndex(s, -1)
	if locs == nil {
		return -1
	}

	return locs[len(locs)-1][0]
}
