package mirrorbot

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/githubclt"
	"github.com/profclems/mirrorbot/internal/logfields"
)

// StagingBranchName returns the name of the branch on the CI mirror
// repository on which backports for targetBranch are tested.
func StagingBranchName(targetBranch string) string {
	return "staging-" + targetBranch
}

var (
	mergeCommitTitleRe    = regexp.MustCompile(`^Merge PR #(\d+)`)
	backportCommitTitleRe = regexp.MustCompile(`^Backport PR #(\d+)`)

	cardContentURLRe = regexp.MustCompile(`/(?:issues|pulls?)/(\d+)$`)
)

func commitTitle(message string) string {
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		return message[:idx]
	}

	return message
}

// processPushEvent drives the backport workflow from commits pushed to the
// monitored repository.
//
// A pushed merge commit of a pull request whose milestone carries a
// backport declaration either marks the pull request as backported, when it
// was merged into the backport target branch directly, or requests its
// inclusion on the project board and prepares a staging branch on the
// mirror.
// A pushed backport commit moves the pull request card on the backport
// project board to the backported column.
func (b *Bot) processPushEvent(ctx context.Context, logger *zap.Logger, ev *github.PushEvent) error {
	branch := strings.TrimPrefix(ev.GetRef(), "refs/heads/")
	if branch == ev.GetRef() {
		logger.Debug(
			"ignoring push event, ref is not a branch",
			logFieldEventIgnored,
			zap.String("git.ref", ev.GetRef()),
		)

		return nil
	}

	logger = logger.With(logfields.Branch(branch))

	for _, commit := range ev.Commits {
		title := commitTitle(commit.GetMessage())

		if m := mergeCommitTitleRe.FindStringSubmatch(title); m != nil {
			prNumber, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}

			if err := b.processMergedPR(ctx, logger, prNumber, branch); err != nil {
				return fmt.Errorf("processing merge commit of pr #%d failed: %w", prNumber, err)
			}

			continue
		}

		if m := backportCommitTitleRe.FindStringSubmatch(title); m != nil {
			prNumber, err := strconv.Atoi(m[1])
			if err != nil {
				continue
			}

			if err := b.processBackportedPR(ctx, logger, prNumber); err != nil {
				return fmt.Errorf("processing backport commit of pr #%d failed: %w", prNumber, err)
			}
		}
	}

	return nil
}

func (b *Bot) processMergedPR(ctx context.Context, logger *zap.Logger, prNumber int, pushBranch string) error {
	logger = logger.With(logfields.PullRequest(prNumber))

	info, err := b.backportInfo(ctx, prNumber)
	if err != nil {
		return fmt.Errorf("retrieving backport information failed: %w", err)
	}

	if !info.Merged {
		// the commit title matched but github does not record the pull
		// request as merged, e.g. a push reverting the merge commit
		logger.Debug(
			"ignoring merge commit, pull request is not merged",
			logFieldEventIgnored,
		)

		return nil
	}

	logger = logger.With(
		logfields.BaseBranch(info.BaseRef),
		zap.String("git.head_branch", info.HeadRef),
	)

	spec, ok := DecodeBackportSpec(info.MilestoneDescription)
	if !ok {
		logger.Debug(
			"pull request milestone does not declare a backport",
			logFieldEventIgnored,
			logfields.Milestone(info.MilestoneTitle),
		)

		return nil
	}

	logger = logger.With(zap.String("git.backport_branch", spec.BackportTo))

	if pushBranch == spec.BackportTo {
		// merged into the backport target directly, no backport needed
		err := b.retryer.Run(ctx, func(ctx context.Context) error {
			return b.ghClient.CreateProjectCard(ctx, spec.BackportedColumn, info.ContentID)
		}, []zap.Field{logfields.PullRequest(prNumber)})
		if err != nil {
			return fmt.Errorf("adding card to backported column failed: %w", err)
		}

		logger.Info(
			"pull request was merged into the backport branch, marked as backported",
			logfields.Event("backport_marked_done"),
		)

		return nil
	}

	b.stageBackport(ctx, logger, prNumber, spec.BackportTo)

	err = b.retryer.Run(ctx, func(ctx context.Context) error {
		return b.ghClient.CreateProjectCard(ctx, spec.RequestInclusionColumn, info.ContentID)
	}, []zap.Field{logfields.PullRequest(prNumber)})
	if err != nil {
		return fmt.Errorf("adding card to request-inclusion column failed: %w", err)
	}

	logger.Info(
		"backport requested for pull request",
		logfields.Event("backport_requested"),
	)

	return nil
}

// stageBackport applies the backport of the pull request onto the target
// branch in an ephemeral worktree and force-pushes the result to the
// staging branch on the mirror.
// The staging branch only exists to let CI evaluate the backport before a
// maintainer includes it, failures are logged and do not fail the caller.
func (b *Bot) stageBackport(ctx context.Context, logger *zap.Logger, prNumber int, targetBranch string) {
	workDir, err := os.MkdirTemp(b.conf.CheckoutRootDir, fmt.Sprintf("backport-%d-", prNumber))
	if err != nil {
		logger.Warn(
			"creating scratch worktree failed",
			logfields.Event("backport_staging_failed"),
			zap.Error(err),
		)

		return
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

	if err := b.git.FetchCheckout(ctx, workDir, b.upstreamRepoURL(), targetBranch); err != nil {
		logger.Warn(
			"checking out backport target branch failed",
			logfields.Event("backport_staging_failed"),
			zap.Error(err),
		)

		return
	}

	if err := b.git.RunBackportScript(ctx, workDir, prNumber, targetBranch); err != nil {
		logger.Warn(
			"backport script failed",
			logfields.Event("backport_staging_failed"),
			zap.Error(err),
		)

		return
	}

	if err := b.git.PushForce(ctx, workDir, b.conf.MirrorRemoteURL, StagingBranchName(targetBranch)); err != nil {
		logger.Warn(
			"force-pushing staging branch failed",
			logfields.Event("backport_staging_failed"),
			zap.Error(err),
		)

		return
	}

	logger.Info(
		"staging branch updated with backport",
		logfields.Event("backport_staged"),
	)
}

func (b *Bot) processBackportedPR(ctx context.Context, logger *zap.Logger, prNumber int) error {
	logger = logger.With(logfields.PullRequest(prNumber))

	info, err := b.backportInfo(ctx, prNumber)
	if err != nil {
		return fmt.Errorf("retrieving backport information failed: %w", err)
	}

	spec, ok := DecodeBackportSpec(info.MilestoneDescription)
	if !ok {
		logger.Debug(
			"pull request milestone does not declare a backport",
			logFieldEventIgnored,
			logfields.Milestone(info.MilestoneTitle),
		)

		return nil
	}

	// The card is identified via the columns of its project board, not
	// via its current column. Maintainers can move cards around freely,
	// the card must end up in the backported column from wherever it is.
	for _, card := range info.Cards {
		if !card.OnProjectWithColumn(spec.BackportedColumn) {
			continue
		}

		if card.ColumnID == spec.BackportedColumn {
			logger.Debug(
				"pull request card is already in the backported column",
				logFieldEventIgnored,
			)

			return nil
		}

		err := b.retryer.Run(ctx, func(ctx context.Context) error {
			return b.ghClient.MoveProjectCard(ctx, card.ID, spec.BackportedColumn)
		}, []zap.Field{logfields.PullRequest(prNumber)})
		if err != nil {
			return fmt.Errorf("moving card to backported column failed: %w", err)
		}

		logger.Info(
			"pull request card moved to backported column",
			logfields.Event("backport_marked_done"),
			zap.String("github.project_card.column", card.ColumnName),
		)

		return nil
	}

	logger.Debug(
		"pull request has no card on the backport project board",
		logFieldEventIgnored,
	)

	return nil
}

// processProjectCardEvent assigns the rejected milestone to a pull request
// whose card was deleted from the request-inclusion column.
// Deleting the card is how maintainers decline a requested backport.
func (b *Bot) processProjectCardEvent(ctx context.Context, logger *zap.Logger, ev *github.ProjectCardEvent) error {
	if ev.GetAction() != "deleted" {
		logger.Debug(
			"ignoring project-card event, action is unsupported",
			logFieldEventIgnored,
			zap.String("github.project_card_event.action", ev.GetAction()),
		)

		return nil
	}

	m := cardContentURLRe.FindStringSubmatch(ev.GetProjectCard().GetContentURL())
	if m == nil {
		logger.Debug(
			"ignoring project-card event, card does not reference a pull request",
			logFieldEventIgnored,
		)

		return nil
	}

	prNumber, err := strconv.Atoi(m[1])
	if err != nil {
		return fmt.Errorf("parsing pull request number from card content url failed: %w", err)
	}

	logger = logger.With(logfields.PullRequest(prNumber))

	info, err := b.backportInfo(ctx, prNumber)
	if err != nil {
		return fmt.Errorf("retrieving backport information failed: %w", err)
	}

	spec, ok := DecodeBackportSpec(info.MilestoneDescription)
	if !ok {
		logger.Debug(
			"pull request milestone does not declare a backport",
			logFieldEventIgnored,
			logfields.Milestone(info.MilestoneTitle),
		)

		return nil
	}

	if ev.GetProjectCard().GetColumnID() != spec.RequestInclusionColumn {
		logger.Debug(
			"ignoring project-card event, card was not in the request-inclusion column",
			logFieldEventIgnored,
			zap.Int64("github.project_card.column_id", ev.GetProjectCard().GetColumnID()),
		)

		return nil
	}

	err = b.retryer.Run(ctx, func(ctx context.Context) error {
		return b.ghClient.SetMilestone(ctx, b.conf.Repository.Owner, b.conf.Repository.RepositoryName, prNumber, spec.RejectedMilestone)
	}, []zap.Field{logfields.PullRequest(prNumber)})
	if err != nil {
		return fmt.Errorf("assigning rejected milestone failed: %w", err)
	}

	logger.Info(
		"backport rejected, milestone assigned",
		logfields.Event("backport_rejected"),
		zap.Int("github.milestone_number", spec.RejectedMilestone),
	)

	return nil
}

func (b *Bot) backportInfo(ctx context.Context, prNumber int) (*githubclt.BackportInfo, error) {
	var info *githubclt.BackportInfo

	err := b.retryer.Run(ctx, func(ctx context.Context) error {
		var err error
		info, err = b.ghClient.PullRequestBackportInfo(ctx, b.conf.Repository.Owner, b.conf.Repository.RepositoryName, prNumber)
		return err
	}, []zap.Field{logfields.PullRequest(prNumber)})
	if err != nil {
		return nil, err
	}

	return info, nil
}

func (b *Bot) upstreamRepoURL() string {
	return fmt.Sprintf("https://github.com/%s/%s.git",
		b.conf.Repository.Owner, b.conf.Repository.RepositoryName)
}
