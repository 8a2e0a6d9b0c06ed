package mirrorbot

import (
	"fmt"
	"regexp"
	"strconv"
)

// BackportSpec is the configuration of the backport workflow for one
// milestone. It is encoded as a fixed-grammar sentence in the milestone
// description and immutable once decoded.
//
// A pull request is backport-tracked iff the description of its milestone
// decodes successfully.
type BackportSpec struct {
	// BackportTo is the name of the branch the change should additionally
	// land on.
	BackportTo string
	// RequestInclusionColumn is the project board column holding pull
	// requests that await their backport.
	RequestInclusionColumn int64
	// BackportedColumn is the project board column holding pull requests
	// whose backport is done.
	BackportedColumn int64
	// RejectedMilestone is assigned to pull requests whose backport
	// request was rejected.
	RejectedMilestone int
}

var backportSpecRe = regexp.MustCompile(
	`backport to ([^\s(]+) \(request inclusion column: \S+#column-(\d+); backported column: \S+#column-(\d+); rejected milestone: \S+/milestone/(\d+)\)`)

// DecodeBackportSpec parses the backport workflow sentence of a milestone
// description.
// It returns false when the description does not contain a sentence of
// exactly the expected shape. This is not an error, the milestone simply
// does not drive a backport workflow.
func DecodeBackportSpec(milestoneDescription string) (*BackportSpec, bool) {
	m := backportSpecRe.FindStringSubmatch(milestoneDescription)
	if m == nil {
		return nil, false
	}

	requestInclusionColumn, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return nil, false
	}

	backportedColumn, err := strconv.ParseInt(m[3], 10, 64)
	if err != nil {
		return nil, false
	}

	rejectedMilestone, err := strconv.Atoi(m[4])
	if err != nil {
		return nil, false
	}

	return &BackportSpec{
		BackportTo:             m[1],
		RequestInclusionColumn: requestInclusionColumn,
		BackportedColumn:       backportedColumn,
		RejectedMilestone:      rejectedMilestone,
	}, true
}

// Encode renders the spec as the milestone description sentence that
// DecodeBackportSpec parses.
// projectURL and repoURL are the web addresses of the project board and the
// repository, they must not contain whitespace.
func (s *BackportSpec) Encode(projectURL, repoURL string) string {
	return fmt.Sprintf(
		"backport to %s (request inclusion column: %s#column-%d; backported column: %s#column-%d; rejected milestone: %s/milestone/%d)",
		s.BackportTo,
		projectURL, s.RequestInclusionColumn,
		projectURL, s.BackportedColumn,
		repoURL, s.RejectedMilestone,
	)
}
