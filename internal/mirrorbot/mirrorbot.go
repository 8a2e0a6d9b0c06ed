// Package mirrorbot keeps a CI mirror repository synchronized with pull
// requests, reacts to CI job results and drives the backport workflow.
//
// It processes webhook events of the monitored GitHub repository and of the
// GitLab CI project that runs the mirrored pipelines. Every event is
// handled independently in a goroutine of a bounded pool, state is only
// kept on the forge (milestone descriptions, project board columns, commit
// statuses) and in the mirror repository itself.
package mirrorbot

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/go-github/v59/github"
	gitlab "github.com/xanzy/go-gitlab"
	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/githubclt"
	"github.com/profclems/mirrorbot/internal/logfields"
	"github.com/profclems/mirrorbot/internal/provider"
	"github.com/profclems/mirrorbot/internal/routines"
)

const loggerName = "mirrorbot"

const DefEventChannelBufferSize = 512

const defTracePollInitialInterval = 2 * time.Second
const defTracePollMaxAttempts = 10

// GithubClient is the forge API surface the handlers depend on.
type GithubClient interface {
	AddLabel(ctx context.Context, owner, repo string, prNumber int, label string) error
	RemoveLabel(ctx context.Context, owner, repo string, prNumber int, label string) error
	CreateCommitStatus(ctx context.Context, owner, repo, commit string, status *githubclt.CommitStatus) error
	ListCommitStatuses(ctx context.Context, owner, repo, commit string) ([]*githubclt.CommitStatus, error)
	SetMilestone(ctx context.Context, owner, repo string, issueOrPRNr, milestoneNumber int) error
	ClearMilestone(ctx context.Context, owner, repo string, issueOrPRNr int) error
	CreateProjectCard(ctx context.Context, columnID, contentID int64) error
	MoveProjectCard(ctx context.Context, cardID, columnID int64) error
	PullRequestBackportInfo(ctx context.Context, owner, repo string, prNumber int) (*githubclt.BackportInfo, error)
}

// CIClient is the CI provider API surface the job handler depends on.
type CIClient interface {
	RetryJob(ctx context.Context, projectID, jobID int) error
	JobTrace(ctx context.Context, projectID, jobID int) (string, error)
}

// GitCmd executes git operations and the backport script, only their
// success or failure is observable.
type GitCmd interface {
	FetchCheckout(ctx context.Context, dir, repoURL, ref string) error
	PullFastForward(ctx context.Context, dir, repoURL, ref string) error
	PushForce(ctx context.Context, dir, remoteURL, dstBranch string) error
	DeleteRemoteBranch(ctx context.Context, dir, remoteURL, branch string) error
	RunBackportScript(ctx context.Context, dir string, prNumber int, targetBranch string) error
}

// Retryer is an interface used for running forge client methods repeatedly
// if they fail with a temporary error.
type Retryer interface {
	Run(context.Context, func(context.Context) error, []zap.Field) error
	Stop()
}

type Repository struct {
	Owner          string
	RepositoryName string
}

func (r *Repository) String() string {
	return fmt.Sprintf("%s/%s", r.Owner, r.RepositoryName)
}

// Config contains the static parameters of the bot.
type Config struct {
	Repository Repository

	// MirrorRemoteURL is the git remote of the CI mirror repository.
	MirrorRemoteURL string
	// CheckoutRootDir is the directory in that ephemeral git worktrees
	// are created.
	CheckoutRootDir string

	// LaneContext is the prefix of the commit status contexts the bot
	// reports under.
	LaneContext string
	// DocBuildName is the name of the reference documentation CI job.
	// Empty disables the documentation artifact check.
	DocBuildName string
	// DocArtifactURL is a format string with one %d verb for the job id,
	// it addresses the published documentation artifact.
	DocArtifactURL string

	// RebaseLabel is added to pull requests whose branch is not rebased
	// on their base branch.
	RebaseLabel string

	// CIProjectID is the id of the GitLab project whose job events are
	// processed. Zero disables the filter.
	CIProjectID int

	MaxConcurrentHandlers uint
	// EventChannelBufferSize is the capacity of the webhook event
	// channel. Zero means DefEventChannelBufferSize.
	EventChannelBufferSize uint
}

// Bot receives webhook events and dispatches them to the pull-request
// mirroring, job outcome and backport workflow handlers.
// Handlers run fire-and-forget in a bounded goroutine pool, an error in one
// handler never affects another one.
type Bot struct {
	conf   Config
	ch     chan *provider.Event
	logger *zap.Logger

	ghClient GithubClient
	ciClient CIClient
	git      GitCmd
	retryer  Retryer

	pool     *routines.Pool
	loopDone chan struct{}

	httpClient *http.Client

	tracePollInitialInterval time.Duration
	tracePollMaxAttempts     int

	routineDeferFn func()
}

// WithRoutineDeferFunc sets a function that is deferred in every handler
// goroutine. It can be used to install a panic handler.
func WithRoutineDeferFunc(fn func()) func(*Bot) {
	return func(b *Bot) {
		b.routineDeferFn = fn
	}
}

func New(conf Config, ghClient GithubClient, ciClient CIClient, git GitCmd, retryer Retryer, opts ...func(*Bot)) *Bot {
	poolSize := conf.MaxConcurrentHandlers
	if poolSize == 0 {
		poolSize = 1
	}

	chanBufSize := conf.EventChannelBufferSize
	if chanBufSize == 0 {
		chanBufSize = DefEventChannelBufferSize
	}

	b := Bot{
		conf:     conf,
		ch:       make(chan *provider.Event, chanBufSize),
		ghClient: ghClient,
		ciClient: ciClient,
		git:      git,
		retryer:  retryer,
		pool:     routines.NewPool(poolSize),
		loopDone: make(chan struct{}),
		httpClient: &http.Client{
			Timeout: time.Minute,
		},
		tracePollInitialInterval: defTracePollInitialInterval,
		tracePollMaxAttempts:     defTracePollMaxAttempts,
	}

	for _, opt := range opts {
		opt(&b)
	}

	if b.logger == nil {
		b.logger = zap.L().Named(loggerName)
	}

	return &b
}

// C returns the event channel.
// Events sent to this channel will be processed.
// The channel is closed when Stop() is called.
func (b *Bot) C() chan<- *provider.Event {
	return b.ch
}

var logFieldEventIgnored = logfields.Event("event_ignored")

func (b *Bot) isMonitoredRepository(owner, repositoryName string) bool {
	return owner == b.conf.Repository.Owner &&
		repositoryName == b.conf.Repository.RepositoryName
}

// EventLoop processes events from the event channel until it is closed.
func (b *Bot) EventLoop() {
	defer close(b.loopDone)

	b.logger.Info("ready to process events", logfields.Event("eventloop_started"))

	for event := range b.ch {
		b.processEvent(event)
	}

	b.logger.Info(
		"event loop terminated, event channel was closed",
		logfields.Event("eventloop_terminated"),
	)
}

func (b *Bot) processEvent(event *provider.Event) {
	logger := b.logger.With(event.LogFields...)

	logger.Debug("event received", logfields.Event("event_received"))
	metrics.ProcessedEventsInc()

	switch ev := event.Event.(type) {
	case *github.PullRequestEvent:
		if !b.isMonitoredRepository(ev.GetRepo().GetOwner().GetLogin(), ev.GetRepo().GetName()) {
			b.ignoreEvent(logger, "repository is not monitored")
			return
		}

		b.dispatch(logger, "pull_request", func(ctx context.Context) error {
			return b.processPullRequestEvent(ctx, logger, ev)
		})

	case *github.PushEvent:
		if !b.isMonitoredRepository(ev.GetRepo().GetOwner().GetLogin(), ev.GetRepo().GetName()) {
			b.ignoreEvent(logger, "repository is not monitored")
			return
		}

		b.dispatch(logger, "push", func(ctx context.Context) error {
			return b.processPushEvent(ctx, logger, ev)
		})

	case *github.ProjectCardEvent:
		if !b.isMonitoredRepository(ev.GetRepo().GetOwner().GetLogin(), ev.GetRepo().GetName()) {
			b.ignoreEvent(logger, "repository is not monitored")
			return
		}

		b.dispatch(logger, "project_card", func(ctx context.Context) error {
			return b.processProjectCardEvent(ctx, logger, ev)
		})

	case *gitlab.JobEvent:
		if b.conf.CIProjectID != 0 && ev.ProjectID != b.conf.CIProjectID {
			b.ignoreEvent(logger, "ci project is not monitored")
			return
		}

		b.dispatch(logger, "job", func(ctx context.Context) error {
			return b.processJobEvent(ctx, logger, ev)
		})

	default:
		b.ignoreEvent(logger, "event type is unsupported")
	}
}

func (b *Bot) ignoreEvent(logger *zap.Logger, reason string) {
	metrics.IgnoredEventsInc()
	logger.Debug(
		"ignoring event",
		logFieldEventIgnored,
		zap.String("reason", reason),
	)
}

// dispatch schedules fn in the handler pool.
// The caller is not blocked unless all pool goroutines are busy.
// Errors of fn are logged and counted, they are not propagated.
func (b *Bot) dispatch(logger *zap.Logger, handler string, fn func(context.Context) error) {
	b.pool.Queue(func() {
		if b.routineDeferFn != nil {
			defer b.routineDeferFn()
		}

		if err := fn(context.Background()); err != nil {
			metrics.HandlerFailuresInc(handler)
			logger.Error(
				"handling event failed",
				logfields.Event("event_handling_failed"),
				zap.String("handler", handler),
				zap.Error(err),
			)

			return
		}

		logger.Debug(
			"event handled",
			logfields.Event("event_handled"),
			zap.String("handler", handler),
		)
	})
}

// Stop terminates the event loop, waits until all scheduled handlers
// terminated and then stops the retryer.
// The retryer must outlive the handlers, otherwise in-flight retried
// operations would be aborted and their results silently dropped.
// The event channel (Bot.C()) will be closed.
func (b *Bot) Stop() {
	b.logger.Debug("event loop terminating", logfields.Event("eventloop_terminating"))
	close(b.ch)
	<-b.loopDone

	b.logger.Debug(
		"waiting for scheduled handlers to terminate",
		logfields.Event("eventloop_terminating"),
	)
	b.pool.Wait()

	b.retryer.Stop()

	b.logger.Info("event loop terminated", logfields.Event("eventloop_terminated"))
}
