package mirrorbot

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/profclems/mirrorbot/internal/boterr"
	"github.com/profclems/mirrorbot/internal/githubclt"
)

func TestRunnerSystemFailureRetriesJobOnce(t *testing.T) {
	b := newTestBot(t)

	b.ciClient.EXPECT().
		RetryJob(gomock.Any(), gomock.Eq(7), gomock.Eq(42)).
		Return(nil).
		Times(1)

	// no commit status is reported for infrastructure failures
	b.process(newJobEvent(7, 42, "unittest", "failed", "runner_system_failure", false))
}

func TestStuckOrTimeoutFailureReportsFailureStatus(t *testing.T) {
	b := newTestBot(t)

	b.ghClient.EXPECT().
		CreateCommitStatus(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq("deadbeef"), gomock.Any()).
		DoAndReturn(func(_, _, _, _ any, status *githubclt.CommitStatus) error {
			assert.Equal(t, "failure", status.State)
			assert.Equal(t, "ci/mirror/unittest", status.Context)
			return nil
		})

	b.process(newJobEvent(7, 42, "unittest", "failed", "stuck_or_timeout_failure", false))
}

func TestStuckOrTimeoutFailureOfOptionalJobIsIgnored(t *testing.T) {
	b := newTestBot(t)

	b.process(newJobEvent(7, 42, "unittest", "failed", "stuck_or_timeout_failure", true))
}

func TestScriptFailureWithTransientTraceRetriesJob(t *testing.T) {
	b := newTestBot(t)

	b.ciClient.EXPECT().
		JobTrace(gomock.Any(), gomock.Eq(7), gomock.Eq(42)).
		Return("...\nERROR: Job failed: exit code 137\n", nil)
	b.ciClient.EXPECT().
		RetryJob(gomock.Any(), gomock.Eq(7), gomock.Eq(42)).
		Return(nil).
		Times(1)

	b.process(newJobEvent(7, 42, "unittest", "failed", "script_failure", false))
}

func TestScriptFailureWithBenignTraceIsIgnored(t *testing.T) {
	b := newTestBot(t)

	b.ciClient.EXPECT().
		JobTrace(gomock.Any(), gomock.Eq(7), gomock.Eq(42)).
		Return("fatal: reference is not a tree: deadbeef\n", nil)

	b.process(newJobEvent(7, 42, "unittest", "failed", "script_failure", false))
}

func TestScriptFailureWithGenuineTraceReportsFailureStatus(t *testing.T) {
	b := newTestBot(t)

	b.ciClient.EXPECT().
		JobTrace(gomock.Any(), gomock.Eq(7), gomock.Eq(42)).
		Return("--- FAIL: TestSomething (0.03s)\n", nil)
	b.ghClient.EXPECT().
		CreateCommitStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("deadbeef"), gomock.Any()).
		DoAndReturn(func(_, _, _, _ any, status *githubclt.CommitStatus) error {
			assert.Equal(t, "failure", status.State)
			assert.Contains(t, status.TargetURL, "/-/jobs/42")
			return nil
		})

	b.process(newJobEvent(7, 42, "unittest", "failed", "script_failure", false))
}

func TestUnknownFailureReasonReportsFailureStatus(t *testing.T) {
	b := newTestBot(t)

	b.ghClient.EXPECT().
		CreateCommitStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("deadbeef"), gomock.Any()).
		Return(nil)

	b.process(newJobEvent(7, 42, "unittest", "failed", "data_integrity_failure", false))
}

func TestFetchJobTracePollsUntilTraceAppears(t *testing.T) {
	b := newTestBot(t)
	b.tracePollInitialInterval = time.Millisecond

	gomock.InOrder(
		b.ciClient.EXPECT().JobTrace(gomock.Any(), 7, 42).Return("", nil),
		b.ciClient.EXPECT().JobTrace(gomock.Any(), 7, 42).Return("", nil),
		b.ciClient.EXPECT().JobTrace(gomock.Any(), 7, 42).Return("output", nil),
	)

	trace, err := b.fetchJobTrace(context.Background(), zaptest.NewLogger(t), 7, 42)
	require.NoError(t, err)
	assert.Equal(t, "output", trace)
}

func TestFetchJobTraceGivesUpWhenTraceStaysEmpty(t *testing.T) {
	b := newTestBot(t)
	b.tracePollInitialInterval = time.Millisecond
	b.tracePollMaxAttempts = 3

	b.ciClient.EXPECT().JobTrace(gomock.Any(), 7, 42).Return("", nil).Times(3)

	_, err := b.fetchJobTrace(context.Background(), zaptest.NewLogger(t), 7, 42)
	require.ErrorIs(t, err, boterr.ErrRetryTimeout)
}

func TestFetchJobTraceReturnsClientErrors(t *testing.T) {
	b := newTestBot(t)
	b.tracePollInitialInterval = time.Millisecond

	b.ciClient.EXPECT().JobTrace(gomock.Any(), 7, 42).Return("", errors.New("404 not found"))

	_, err := b.fetchJobTrace(context.Background(), zaptest.NewLogger(t), 7, 42)
	require.Error(t, err)
}

func TestJobSuccessOverridesExistingStatus(t *testing.T) {
	b := newTestBot(t)

	b.ghClient.EXPECT().
		ListCommitStatuses(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq("deadbeef")).
		Return([]*githubclt.CommitStatus{
			{State: "failure", Context: "ci/mirror/unittest"},
		}, nil)
	b.ghClient.EXPECT().
		CreateCommitStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("deadbeef"), gomock.Any()).
		DoAndReturn(func(_, _, _, _ any, status *githubclt.CommitStatus) error {
			assert.Equal(t, "success", status.State)
			assert.Equal(t, "ci/mirror/unittest", status.Context)
			return nil
		})

	b.process(newJobEvent(7, 42, "unittest", "success", "", false))
}

func TestJobSuccessWithoutPriorStatusIsIgnored(t *testing.T) {
	b := newTestBot(t)

	b.ghClient.EXPECT().
		ListCommitStatuses(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("deadbeef")).
		Return([]*githubclt.CommitStatus{
			{State: "failure", Context: "ci/mirror/otherjob"},
		}, nil)

	// no status exists for this job, nothing must be overridden
	b.process(newJobEvent(7, 42, "unittest", "success", "", false))
}

func TestDocBuildSuccessLinksArtifact(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)

	b := newTestBot(t)
	b.conf.DocBuildName = "ref-docs"
	b.conf.DocArtifactURL = srv.URL + "/artifacts/%d/index.html"

	b.ghClient.EXPECT().
		CreateCommitStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("deadbeef"), gomock.Any()).
		DoAndReturn(func(_, _, _, _ any, status *githubclt.CommitStatus) error {
			assert.Equal(t, "success", status.State)
			assert.Equal(t, srv.URL+"/artifacts/42/index.html", status.TargetURL)
			assert.Equal(t, "ci/mirror/ref-docs", status.Context)
			return nil
		})

	b.process(newJobEvent(7, 42, "ref-docs", "success", "", false))
}

func TestDocBuildSuccessWithMissingArtifactReportsFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	b := newTestBot(t)
	b.conf.DocBuildName = "ref-docs"
	b.conf.DocArtifactURL = srv.URL + "/artifacts/%d/index.html"

	b.ghClient.EXPECT().
		CreateCommitStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("deadbeef"), gomock.Any()).
		DoAndReturn(func(_, _, _, _ any, status *githubclt.CommitStatus) error {
			assert.Equal(t, "failure", status.State)
			assert.Contains(t, status.TargetURL, "/-/jobs/42")
			return nil
		})

	b.process(newJobEvent(7, 42, "ref-docs", "success", "", false))
}

func TestJobEventWithUnsupportedStatusIsIgnored(t *testing.T) {
	b := newTestBot(t)

	b.process(newJobEvent(7, 42, "unittest", "running", "", false))
}

func TestJobEventsOfOtherProjectsAreIgnored(t *testing.T) {
	b := newTestBot(t)
	b.conf.CIProjectID = 7

	// no expectations, the event belongs to another project
	b.process(newJobEvent(8, 42, "unittest", "failed", "runner_system_failure", false))
}
