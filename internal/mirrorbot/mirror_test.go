package mirrorbot

import (
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/profclems/mirrorbot/internal/githubclt"
)

func TestMirrorPushesFastForwardResult(t *testing.T) {
	b := newTestBot(t)

	gomock.InOrder(
		b.git.EXPECT().
			FetchCheckout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("master")).
			Return(nil),
		b.git.EXPECT().
			PullFastForward(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("pr_branch")).
			Return(nil),
		b.git.EXPECT().
			PushForce(gomock.Any(), gomock.Any(), gomock.Eq(mirrorRemoteURL), gomock.Eq("pr-17")).
			Return(nil),
	)

	b.process(newPullRequestEvent("synchronize", 17, "master", "pr_branch", "aaaa"))
}

func TestMirrorNotFastForwardAddsLabelAndFailureStatus(t *testing.T) {
	b := newTestBot(t)

	b.git.EXPECT().
		FetchCheckout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("master")).
		Return(nil)
	b.git.EXPECT().
		PullFastForward(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("pr_branch")).
		Return(errors.New("fatal: not possible to fast-forward, aborting"))

	b.ghClient.EXPECT().
		AddLabel(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(17), gomock.Eq("needs: rebase")).
		Return(nil)
	b.ghClient.EXPECT().
		CreateCommitStatus(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq("aaaa"), gomock.Any()).
		DoAndReturn(func(_, _, _, _ any, status *githubclt.CommitStatus) error {
			assert.Equal(t, "failure", status.State)
			assert.Equal(t, "ci/mirror", status.Context)
			assert.Contains(t, status.Description, "rebase")
			return nil
		})

	// the mirror branch must not be touched
	b.process(newPullRequestEvent("synchronize", 17, "master", "pr_branch", "aaaa"))
}

func TestMirrorRemovesRebaseLabelOnSuccess(t *testing.T) {
	b := newTestBot(t)

	b.git.EXPECT().FetchCheckout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	b.git.EXPECT().PullFastForward(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	b.git.EXPECT().PushForce(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("pr-3")).Return(nil)

	b.ghClient.EXPECT().
		RemoveLabel(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(3), gomock.Eq("needs: rebase")).
		Return(nil)

	b.process(newPullRequestEvent("opened", 3, "master", "pr_branch", "bbbb", "needs: rebase"))
}

func TestMirrorKeepsQuietWhenLabelIsAbsent(t *testing.T) {
	b := newTestBot(t)

	b.git.EXPECT().FetchCheckout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	b.git.EXPECT().PullFastForward(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	b.git.EXPECT().PushForce(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	// no RemoveLabel expectation, the pull request carries no rebase label
	b.process(newPullRequestEvent("opened", 3, "master", "pr_branch", "bbbb"))
}

func TestMirrorFailedPushIsBestEffort(t *testing.T) {
	b := newTestBot(t)

	b.git.EXPECT().FetchCheckout(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	b.git.EXPECT().PullFastForward(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	b.git.EXPECT().
		PushForce(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("remote unreachable"))

	b.ghClient.EXPECT().
		RemoveLabel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(9), gomock.Any()).
		Return(nil)

	b.process(newPullRequestEvent("synchronize", 9, "master", "pr_branch", "cccc", "needs: rebase"))
}

func TestClosedUnmergedPRClearsMilestoneAndDeletesBranch(t *testing.T) {
	b := newTestBot(t)

	b.git.EXPECT().
		DeleteRemoteBranch(gomock.Any(), gomock.Any(), gomock.Eq(mirrorRemoteURL), gomock.Eq("pr-21")).
		Return(nil)
	b.ghClient.EXPECT().
		ClearMilestone(gomock.Any(), gomock.Eq(repoOwner), gomock.Eq(repo), gomock.Eq(21)).
		Return(nil)

	b.process(newPullRequestClosedEvent(21, false))
}

func TestClosedMergedPRKeepsMilestone(t *testing.T) {
	b := newTestBot(t)

	b.git.EXPECT().
		DeleteRemoteBranch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq("pr-21")).
		Return(nil)

	b.process(newPullRequestClosedEvent(21, true))
}

func TestClosedPRBranchDeletionIsBestEffort(t *testing.T) {
	b := newTestBot(t)

	b.git.EXPECT().
		DeleteRemoteBranch(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("remote unreachable"))
	b.ghClient.EXPECT().
		ClearMilestone(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Eq(21)).
		Return(nil)

	b.process(newPullRequestClosedEvent(21, false))
}

func TestMirrorBranchName(t *testing.T) {
	assert.Equal(t, "pr-1", MirrorBranchName(1))
	assert.Equal(t, "pr-4242", MirrorBranchName(4242))
}
