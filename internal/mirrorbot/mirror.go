package mirrorbot

import (
	"context"
	"fmt"
	"os"

	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/githubclt"
	"github.com/profclems/mirrorbot/internal/logfields"
)

// MirrorBranchName returns the name of the branch on the CI mirror
// repository that tracks the pull request.
func MirrorBranchName(prNumber int) string {
	return fmt.Sprintf("pr-%d", prNumber)
}

func (b *Bot) processPullRequestEvent(ctx context.Context, logger *zap.Logger, ev *github.PullRequestEvent) error {
	switch ev.GetAction() {
	case "opened", "reopened", "synchronize":
		return b.mirror(ctx, logger, ev)

	case "closed":
		return b.retire(ctx, logger, ev)

	default:
		logger.Debug(
			"ignoring pull-request event, action is unsupported",
			logFieldEventIgnored,
			zap.String("github.pull_request_event.action", ev.GetAction()),
		)

		return nil
	}
}

// mirror updates the mirror branch of the pull request with a fast-forward
// merge of its head onto its base.
//
// The merge is performed in an ephemeral worktree: the base branch is
// fetched and checked out, the head branch is fast-forward merged onto it
// and the result is force-pushed to the mirror branch. The push is
// best-effort, its failure does not fail the operation.
// A failing fetch or merge means the pull request branch is not rebased on
// its base: the rebase label is added and a failing commit status is
// reported. On success the rebase label is removed if it was present.
func (b *Bot) mirror(ctx context.Context, logger *zap.Logger, ev *github.PullRequestEvent) error {
	pr := ev.GetPullRequest()
	prNumber := ev.GetNumber()

	baseRepoURL := pr.GetBase().GetRepo().GetCloneURL()
	baseRef := pr.GetBase().GetRef()
	headRepoURL := pr.GetHead().GetRepo().GetCloneURL()
	headRef := pr.GetHead().GetRef()
	headSHA := pr.GetHead().GetSHA()

	logger = logger.With(
		logfields.PullRequest(prNumber),
		logfields.BaseBranch(baseRef),
		logfields.Branch(headRef),
		logfields.Commit(headSHA),
	)

	workDir, err := os.MkdirTemp(b.conf.CheckoutRootDir, fmt.Sprintf("pr-%d-", prNumber))
	if err != nil {
		return fmt.Errorf("creating scratch worktree failed: %w", err)
	}

	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn(
				"removing scratch worktree failed",
				logfields.Event("mirror_worktree_removal_failed"),
				zap.String("working_dir", workDir),
				zap.Error(err),
			)
		}
	}()

	err = b.git.FetchCheckout(ctx, workDir, baseRepoURL, baseRef)
	if err == nil {
		err = b.git.PullFastForward(ctx, workDir, headRepoURL, headRef)
	}

	if err != nil {
		metrics.MirrorRunsInc(mirrorResultNotFastForward)
		logger.Info(
			"mirroring pull request failed, branch can not be fast-forward merged onto its base",
			logfields.Event("mirror_not_fast_forward"),
			zap.Error(err),
		)

		return b.reportNotRebased(ctx, logger, prNumber, headSHA, baseRef)
	}

	if err := b.git.PushForce(ctx, workDir, b.conf.MirrorRemoteURL, MirrorBranchName(prNumber)); err != nil {
		// best-effort, the merge result is still the rebase signal
		metrics.MirrorRunsInc(mirrorResultPushFailedVal)
		logger.Warn(
			"force-pushing mirror branch failed",
			logfields.Event("mirror_push_failed"),
			zap.Error(err),
		)
	} else {
		metrics.MirrorRunsInc(mirrorResultSuccessVal)
	}

	if !hasLabel(pr.Labels, b.conf.RebaseLabel) {
		return nil
	}

	return b.retryer.Run(ctx, func(ctx context.Context) error {
		return b.ghClient.RemoveLabel(ctx, b.conf.Repository.Owner, b.conf.Repository.RepositoryName, prNumber, b.conf.RebaseLabel)
	}, logFieldsLabelOp(prNumber, b.conf.RebaseLabel))
}

func (b *Bot) reportNotRebased(ctx context.Context, logger *zap.Logger, prNumber int, headSHA, baseRef string) error {
	err := b.retryer.Run(ctx, func(ctx context.Context) error {
		return b.ghClient.AddLabel(ctx, b.conf.Repository.Owner, b.conf.Repository.RepositoryName, prNumber, b.conf.RebaseLabel)
	}, logFieldsLabelOp(prNumber, b.conf.RebaseLabel))
	if err != nil {
		return fmt.Errorf("adding rebase label failed: %w", err)
	}

	status := githubclt.CommitStatus{
		State:       "failure",
		Description: fmt.Sprintf("Branch is not up to date with %s, please rebase", baseRef),
		Context:     b.conf.LaneContext,
	}

	err = b.retryer.Run(ctx, func(ctx context.Context) error {
		return b.ghClient.CreateCommitStatus(ctx, b.conf.Repository.Owner, b.conf.Repository.RepositoryName, headSHA, &status)
	}, []zap.Field{logfields.PullRequest(prNumber), logfields.Commit(headSHA)})
	if err != nil {
		return fmt.Errorf("reporting failed commit status failed: %w", err)
	}

	return nil
}

// retire deletes the mirror branch of a closed pull request.
// The deletion is best-effort, a failure is only logged.
// If the pull request was closed without being merged its milestone is
// cleared.
func (b *Bot) retire(ctx context.Context, logger *zap.Logger, ev *github.PullRequestEvent) error {
	prNumber := ev.GetNumber()

	logger = logger.With(logfields.PullRequest(prNumber))

	workDir, err := os.MkdirTemp(b.conf.CheckoutRootDir, fmt.Sprintf("retire-%d-", prNumber))
	if err != nil {
		return fmt.Errorf("creating scratch worktree failed: %w", err)
	}

	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			logger.Warn(
				"removing scratch worktree failed",
				logfields.Event("mirror_worktree_removal_failed"),
				zap.String("working_dir", workDir),
				zap.Error(err),
			)
		}
	}()

	if err := b.git.DeleteRemoteBranch(ctx, workDir, b.conf.MirrorRemoteURL, MirrorBranchName(prNumber)); err != nil {
		logger.Warn(
			"deleting mirror branch failed",
			logfields.Event("mirror_branch_deletion_failed"),
			zap.Error(err),
		)
	}

	if ev.GetPullRequest().GetMerged() {
		return nil
	}

	return b.retryer.Run(ctx, func(ctx context.Context) error {
		return b.ghClient.ClearMilestone(ctx, b.conf.Repository.Owner, b.conf.Repository.RepositoryName, prNumber)
	}, []zap.Field{logfields.PullRequest(prNumber)})
}

func hasLabel(labels []*github.Label, name string) bool {
	for _, label := range labels {
		if label.GetName() == name {
			return true
		}
	}

	return false
}

func logFieldsLabelOp(prNumber int, label string) []zap.Field {
	return []zap.Field{
		logfields.PullRequest(prNumber),
		logfields.Label(label),
	}
}
