// Package gitlabclt provides a client for the GitLab CI API.
package gitlabclt

import (
	"context"
	"fmt"
	"io"
	"net/http"

	gitlab "github.com/xanzy/go-gitlab"
	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/boterr"
	"github.com/profclems/mirrorbot/internal/logfields"
)

const loggerName = "gitlab_client"

// Client is a GitLab API client.
// Like githubclt, its methods return a boterr.RetryableError when the failed
// operation can be retried.
type Client struct {
	clt    *gitlab.Client
	logger *zap.Logger
}

// New returns a new GitLab api client for the instance at baseURL.
func New(apiToken, baseURL string) (*Client, error) {
	clt, err := gitlab.NewClient(apiToken, gitlab.WithBaseURL(baseURL))
	if err != nil {
		return nil, fmt.Errorf("creating gitlab client failed: %w", err)
	}

	return &Client{
		clt:    clt,
		logger: zap.L().Named(loggerName),
	}, nil
}

// RetryJob requests that the CI provider runs the job again.
func (clt *Client) RetryJob(ctx context.Context, projectID, jobID int) error {
	_, resp, err := clt.clt.Jobs.RetryJob(projectID, jobID, gitlab.WithContext(ctx))
	if err != nil {
		return clt.wrapRetryableErrors(err, resp)
	}

	clt.logger.Debug(
		"job retry requested",
		logfields.Event("gitlab_job_retry_requested"),
		logfields.CIProject(projectID),
		logfields.CIJob(jobID),
	)

	return nil
}

// JobTrace fetches the log output of a job.
// An empty string is returned when the trace is not available yet.
func (clt *Client) JobTrace(ctx context.Context, projectID, jobID int) (string, error) {
	reader, resp, err := clt.clt.Jobs.GetTraceFile(projectID, jobID, gitlab.WithContext(ctx))
	if err != nil {
		return "", clt.wrapRetryableErrors(err, resp)
	}

	trace, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("reading job trace failed: %w", err)
	}

	return string(trace), nil
}

func (clt *Client) wrapRetryableErrors(err error, resp *gitlab.Response) error {
	if resp == nil {
		return err
	}

	if resp.StatusCode >= 500 && resp.StatusCode < 600 {
		return boterr.NewRetryableAnytimeError(err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return boterr.NewRetryableAnytimeError(err)
	}

	return err
}
