// Package gitcmd executes git commands and the backport merge script as
// subprocesses.
// The only observable result of a command is its success or failure, output
// is only recorded in logs.
package gitcmd

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/logfields"
)

const loggerName = "gitcmd"

type Runner struct {
	logger         *zap.Logger
	backportScript string
}

// New returns a Runner that executes git via the git binary found in PATH
// and backport merges via the passed script path.
func New(backportScript string) *Runner {
	return &Runner{
		logger:         zap.L().Named(loggerName),
		backportScript: backportScript,
	}
}

func (r *Runner) run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	logger := r.logger.With(
		zap.String("command", name+" "+strings.Join(args, " ")),
		zap.String("working_dir", dir),
	)

	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Debug(
			"command failed",
			logfields.Event("command_failed"),
			zap.ByteString("output", out),
			zap.Error(err),
		)

		return fmt.Errorf("running %q failed: %w", name+" "+strings.Join(args, " "), err)
	}

	logger.Debug("command executed successfully", logfields.Event("command_executed"))

	return nil
}

// FetchCheckout initializes a git repository in dir, fetches ref from
// repoURL and checks the fetched commit out.
func (r *Runner) FetchCheckout(ctx context.Context, dir, repoURL, ref string) error {
	if err := r.run(ctx, dir, "git", "init", "--quiet", "."); err != nil {
		return err
	}

	if err := r.run(ctx, dir, "git", "fetch", "--quiet", repoURL, ref); err != nil {
		return err
	}

	return r.run(ctx, dir, "git", "checkout", "--quiet", "FETCH_HEAD")
}

// PullFastForward merges ref of repoURL into the checked out branch in dir.
// It fails if the merge is not a strict fast-forward.
func (r *Runner) PullFastForward(ctx context.Context, dir, repoURL, ref string) error {
	return r.run(ctx, dir, "git", "pull", "--quiet", "--ff-only", repoURL, ref)
}

// PushForce force-pushes the checked out commit in dir to dstBranch on
// remoteURL.
func (r *Runner) PushForce(ctx context.Context, dir, remoteURL, dstBranch string) error {
	return r.run(ctx, dir, "git", "push", "--quiet", "--force", remoteURL, "HEAD:refs/heads/"+dstBranch)
}

// DeleteRemoteBranch deletes branch on remoteURL.
// dir must be an empty scratch directory, a repository is initialized in it
// to run the push from.
func (r *Runner) DeleteRemoteBranch(ctx context.Context, dir, remoteURL, branch string) error {
	if err := r.run(ctx, dir, "git", "init", "--quiet", "."); err != nil {
		return err
	}

	return r.run(ctx, dir, "git", "push", "--quiet", remoteURL, "--delete", branch)
}

// RunBackportScript invokes the backport merge script for prNumber and
// targetBranch in dir.
// The exit status of the script is its sole outcome signal.
func (r *Runner) RunBackportScript(ctx context.Context, dir string, prNumber int, targetBranch string) error {
	return r.run(ctx, dir, r.backportScript, strconv.Itoa(prNumber), targetBranch)
}
