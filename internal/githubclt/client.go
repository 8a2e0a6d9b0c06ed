// Package githubclt provides a github API client.
package githubclt

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/google/go-github/v59/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/profclems/mirrorbot/internal/boterr"
	"github.com/profclems/mirrorbot/internal/logfields"
)

const DefaultHTTPClientTimeout = time.Minute

const loggerName = "github_client"

// New returns a new github api client.
func New(oauthAPItoken string) *Client {
	httpClient := newHTTPClient(oauthAPItoken)
	return &Client{
		restClt:    github.NewClient(httpClient),
		graphQLClt: githubv4.NewClient(httpClient),
		logger:     zap.L().Named(loggerName),
	}
}

func newHTTPClient(apiToken string) *http.Client {
	if apiToken == "" {
		return &http.Client{
			Timeout: DefaultHTTPClientTimeout,
		}
	}

	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: apiToken},
	)

	tc := oauth2.NewClient(context.Background(), ts)
	tc.Timeout = DefaultHTTPClientTimeout

	return tc
}

// Client is an github API client.
// All methods return a boterr.RetryableError when an operation can be
// retried. This can be e.g. the case when the API ratelimit is exceeded.
type Client struct {
	restClt    *github.Client
	graphQLClt *githubv4.Client
	logger     *zap.Logger
}

// AddLabel adds a label to a Pull-Request or Issue.
func (clt *Client) AddLabel(ctx context.Context, owner, repo string, pullRequestOrIssueNumber int, label string) error {
	if label == "" {
		// by default github removes all labels when none is provided,
		// we do not need this functionality, as safe guard fail if
		// because of a bug an empty label value is passed:
		return errors.New("provided label is empty")
	}
	_, _, err := clt.restClt.Issues.AddLabelsToIssue(ctx, owner, repo, pullRequestOrIssueNumber, []string{label})
	return clt.wrapRetryableErrors(err)
}

// RemoveLabel removes a label from a Pull-Request or issue.
// If the issue or PR does not have the label, the operation succeeds.
func (clt *Client) RemoveLabel(ctx context.Context, owner, repo string, pullRequestOrIssueNumber int, label string) error {
	_, err := clt.restClt.Issues.RemoveLabelForIssue(
		ctx,
		owner,
		repo,
		pullRequestOrIssueNumber,
		label,
	)
	if err != nil {
		var respErr *github.ErrorResponse
		if errors.As(err, &respErr) {
			if respErr.Response.StatusCode == http.StatusNotFound {
				clt.logger.Debug("removing label returned a not found response, interpreting it as success",
					logfields.RepositoryOwner(owner),
					logfields.Repository(repo),
					logfields.PullRequest(pullRequestOrIssueNumber),
					logfields.Label(label),
					logfields.Event("github_remove_label_returned_not_found"),
					zap.Error(err),
				)

				return nil
			}
		}

		return clt.wrapRetryableErrors(err)
	}

	return nil
}

// CommitStatus describes a commit status check.
type CommitStatus struct {
	State       string
	TargetURL   string
	Description string
	Context     string
}

// CreateCommitStatus creates or overwrites the status check with the same
// context for the commit.
func (clt *Client) CreateCommitStatus(ctx context.Context, owner, repo, commit string, status *CommitStatus) error {
	_, _, err := clt.restClt.Repositories.CreateStatus(ctx, owner, repo, commit, &github.RepoStatus{
		State:       &status.State,
		TargetURL:   &status.TargetURL,
		Description: &status.Description,
		Context:     &status.Context,
	})

	return clt.wrapRetryableErrors(err)
}

// ListCommitStatuses returns all status checks that were reported for the
// commit.
func (clt *Client) ListCommitStatuses(ctx context.Context, owner, repo, commit string) ([]*CommitStatus, error) {
	var result []*CommitStatus

	opts := github.ListOptions{PerPage: 100}

	for {
		statuses, resp, err := clt.restClt.Repositories.ListStatuses(ctx, owner, repo, commit, &opts)
		if err != nil {
			return nil, clt.wrapRetryableErrors(err)
		}

		for _, status := range statuses {
			result = append(result, &CommitStatus{
				State:       status.GetState(),
				TargetURL:   status.GetTargetURL(),
				Description: status.GetDescription(),
				Context:     status.GetContext(),
			})
		}

		if resp.NextPage == 0 {
			break
		}

		opts.Page = resp.NextPage
	}

	return result, nil
}

// SetMilestone assigns the milestone to a Pull-Request or Issue, replacing
// an already assigned milestone.
func (clt *Client) SetMilestone(ctx context.Context, owner, repo string, issueOrPRNr, milestoneNumber int) error {
	_, _, err := clt.restClt.Issues.Edit(ctx, owner, repo, issueOrPRNr, &github.IssueRequest{
		Milestone: &milestoneNumber,
	})

	return clt.wrapRetryableErrors(err)
}

// ClearMilestone removes the milestone from a Pull-Request or Issue.
func (clt *Client) ClearMilestone(ctx context.Context, owner, repo string, issueOrPRNr int) error {
	_, _, err := clt.restClt.Issues.RemoveMilestone(ctx, owner, repo, issueOrPRNr)
	return clt.wrapRetryableErrors(err)
}

// CreateProjectCard adds a card for the content, identified by its database
// id, to a project board column.
func (clt *Client) CreateProjectCard(ctx context.Context, columnID, contentID int64) error {
	_, _, err := clt.restClt.Projects.CreateProjectCard(ctx, columnID, &github.ProjectCardOptions{
		ContentID:   contentID,
		ContentType: "PullRequest",
	})

	return clt.wrapRetryableErrors(err)
}

// MoveProjectCard moves an existing card to the top of a project board
// column.
func (clt *Client) MoveProjectCard(ctx context.Context, cardID, columnID int64) error {
	_, err := clt.restClt.Projects.MoveProjectCard(ctx, cardID, &github.ProjectCardMoveOptions{
		Position: "top",
		ColumnID: columnID,
	})

	return clt.wrapRetryableErrors(err)
}

func (clt *Client) wrapRetryableErrors(err error) error {
	switch v := err.(type) {
	case *github.RateLimitError:
		clt.logger.Info(
			"rate limit exceeded",
			logfields.Event("github_api_rate_limit_exceeded"),
			zap.Int("github_api_rate_limit", v.Rate.Limit),
			zap.Time("github_api_rate_limit_reset_time", v.Rate.Reset.Time),
		)

		return boterr.NewRetryableError(err, v.Rate.Reset.Time)

	case *github.ErrorResponse:
		if v.Response.StatusCode >= 500 && v.Response.StatusCode < 600 {
			return boterr.NewRetryableAnytimeError(err)
		}
	}

	return err
}

var graphQlHTTPStatusErrRe = regexp.MustCompile(`^non-200 OK status code: ([0-9]+) .*`)

func (clt *Client) wrapGraphQLRetryableErrors(err error) error {
	matches := graphQlHTTPStatusErrRe.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return err
	}

	errcode, atoiErr := strconv.Atoi(matches[1])
	if atoiErr != nil {
		clt.logger.Info(
			"parsing http code from error string failed",
			zap.Error(atoiErr),
			zap.String("error_string", err.Error()),
			zap.String("http_errcode", matches[1]),
		)
		return err
	}

	if errcode >= 500 && errcode < 600 {
		return boterr.NewRetryableAnytimeError(err)
	}

	return err
}
