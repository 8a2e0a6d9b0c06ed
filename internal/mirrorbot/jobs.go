package mirrorbot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	gitlab "github.com/xanzy/go-gitlab"
	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/boterr"
	"github.com/profclems/mirrorbot/internal/githubclt"
	"github.com/profclems/mirrorbot/internal/logfields"
)

// CI job failure reasons reported in GitLab job webhooks.
const (
	failureReasonRunnerSystem   = "runner_system_failure"
	failureReasonStuckOrTimeout = "stuck_or_timeout_failure"
	failureReasonScript         = "script_failure"
)

func (b *Bot) processJobEvent(ctx context.Context, logger *zap.Logger, ev *gitlab.JobEvent) error {
	logger = logger.With(
		logfields.CIProject(ev.ProjectID),
		logfields.CIJob(ev.BuildID),
		logfields.CIJobName(ev.BuildName),
		logfields.Commit(ev.SHA),
	)

	switch ev.BuildStatus {
	case "success":
		return b.processJobSuccess(ctx, logger, ev)

	case "failed":
		return b.processJobFailure(ctx, logger, ev)

	default:
		logger.Debug(
			"ignoring job event, status is unsupported",
			logFieldEventIgnored,
			zap.String("ci.job_status", ev.BuildStatus),
		)

		return nil
	}
}

// processJobSuccess reports a successful job to GitHub.
//
// For the reference documentation build the published artifact is verified
// to be reachable, a success status linking to it is only posted when it
// is.
// For any other build a success status is only posted when a status for the
// same commit and build already exists, overriding a previously reported
// failure after a retry.
func (b *Bot) processJobSuccess(ctx context.Context, logger *zap.Logger, ev *gitlab.JobEvent) error {
	if b.conf.DocBuildName != "" && ev.BuildName == b.conf.DocBuildName {
		artifactURL := fmt.Sprintf(b.conf.DocArtifactURL, ev.BuildID)

		available, err := b.artifactAvailable(ctx, artifactURL)
		if err != nil {
			return fmt.Errorf("checking documentation artifact failed: %w", err)
		}

		if !available {
			logger.Info(
				"documentation artifact is not reachable",
				logfields.Event("job_doc_artifact_missing"),
				zap.String("artifact_url", artifactURL),
			)

			return b.postJobStatus(ctx, ev, "failure", jobWebURL(ev), "Documentation artifact is missing")
		}

		return b.postJobStatus(ctx, ev, "success", artifactURL, "Documentation built successfully")
	}

	existing, err := b.listStatuses(ctx, ev.SHA)
	if err != nil {
		return fmt.Errorf("listing commit statuses failed: %w", err)
	}

	statusContext := b.statusContext(ev.BuildName)
	for _, status := range existing {
		if status.Context != statusContext {
			continue
		}

		logger.Debug(
			"overriding existing commit status after successful job",
			logfields.Event("job_status_overridden"),
		)

		return b.postJobStatus(ctx, ev, "success", jobWebURL(ev), "Job succeeded")
	}

	// no prior status for this commit and build, nothing to override
	return nil
}

func (b *Bot) processJobFailure(ctx context.Context, logger *zap.Logger, ev *gitlab.JobEvent) error {
	logger = logger.With(zap.String("ci.job_failure_reason", ev.BuildFailureReason))

	switch ev.BuildFailureReason {
	case failureReasonRunnerSystem:
		// the runner infrastructure failed, the trace carries no signal
		return b.retryJob(ctx, logger, ev)

	case failureReasonStuckOrTimeout:
		if ev.BuildAllowFailure {
			return nil
		}

		return b.postJobStatus(ctx, ev, "failure", jobWebURL(ev), "Job timed out or got stuck")

	case failureReasonScript:
		trace, err := b.fetchJobTrace(ctx, logger, ev.ProjectID, ev.BuildID)
		if err != nil {
			return fmt.Errorf("fetching job trace failed: %w", err)
		}

		verdict := ClassifyTrace(trace)
		metrics.TraceVerdictsInc(verdict)
		logger.Info(
			"classified trace of failed job",
			logfields.Event("job_trace_classified"),
			zap.String("trace_verdict", verdict.String()),
		)

		switch verdict {
		case TraceVerdictRetry:
			return b.retryJob(ctx, logger, ev)

		case TraceVerdictIgnore:
			return nil

		default:
			return b.postJobStatus(ctx, ev, "failure", jobWebURL(ev), "Job failed")
		}

	default:
		if ev.BuildAllowFailure {
			return nil
		}

		return b.postJobStatus(ctx, ev, "failure", jobWebURL(ev), "Job failed: "+ev.BuildFailureReason)
	}
}

func (b *Bot) retryJob(ctx context.Context, logger *zap.Logger, ev *gitlab.JobEvent) error {
	err := b.retryer.Run(ctx, func(ctx context.Context) error {
		return b.ciClient.RetryJob(ctx, ev.ProjectID, ev.BuildID)
	}, []zap.Field{logfields.CIProject(ev.ProjectID), logfields.CIJob(ev.BuildID)})
	if err != nil {
		return fmt.Errorf("requesting job retry failed: %w", err)
	}

	metrics.JobRetriesInc()
	logger.Info("job retry requested", logfields.Event("job_retry_requested"))

	return nil
}

// fetchJobTrace fetches the trace of a job, polling with a doubling delay
// while the trace is still empty.
// Traces become available asynchronously after the job webhook is
// delivered. The polling is bounded, boterr.ErrRetryTimeout is returned
// when the trace stays empty.
func (b *Bot) fetchJobTrace(ctx context.Context, logger *zap.Logger, projectID, jobID int) (string, error) {
	delay := b.tracePollInitialInterval

	timer := time.NewTimer(0)
	defer timer.Stop()

	for attempt := 1; ; attempt++ {
		select {
		case <-ctx.Done():
			return "", ctx.Err()

		case <-timer.C:
		}

		trace, err := b.ciClient.JobTrace(ctx, projectID, jobID)
		if err != nil {
			return "", err
		}

		if trace != "" {
			return trace, nil
		}

		if attempt >= b.tracePollMaxAttempts {
			return "", fmt.Errorf("job trace is still empty after %d attempts: %w",
				attempt, boterr.ErrRetryTimeout)
		}

		logger.Debug(
			"job trace is empty, polling again",
			logfields.Event("job_trace_poll_scheduled"),
			zap.Int("attempt", attempt),
			zap.Duration("retry_in", delay),
		)

		timer.Reset(delay)
		delay *= 2
	}
}

func (b *Bot) postJobStatus(ctx context.Context, ev *gitlab.JobEvent, state, targetURL, description string) error {
	status := githubclt.CommitStatus{
		State:       state,
		TargetURL:   targetURL,
		Description: description,
		Context:     b.statusContext(ev.BuildName),
	}

	return b.retryer.Run(ctx, func(ctx context.Context) error {
		return b.ghClient.CreateCommitStatus(ctx, b.conf.Repository.Owner, b.conf.Repository.RepositoryName, ev.SHA, &status)
	}, []zap.Field{logfields.Commit(ev.SHA), logfields.CIJobName(ev.BuildName)})
}

func (b *Bot) listStatuses(ctx context.Context, commit string) ([]*githubclt.CommitStatus, error) {
	var result []*githubclt.CommitStatus

	err := b.retryer.Run(ctx, func(ctx context.Context) error {
		var err error
		result, err = b.ghClient.ListCommitStatuses(ctx, b.conf.Repository.Owner, b.conf.Repository.RepositoryName, commit)
		return err
	}, []zap.Field{logfields.Commit(commit)})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (b *Bot) statusContext(buildName string) string {
	return b.conf.LaneContext + "/" + buildName
}

func (b *Bot) artifactAvailable(ctx context.Context, url string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	return resp.StatusCode == http.StatusOK, nil
}

func jobWebURL(ev *gitlab.JobEvent) string {
	if ev.Repository == nil || ev.Repository.Homepage == "" {
		return ""
	}

	return fmt.Sprintf("%s/-/jobs/%d", ev.Repository.Homepage, ev.BuildID)
}
