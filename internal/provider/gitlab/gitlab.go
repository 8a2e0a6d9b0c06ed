// Package gitlab receives GitLab webhook http-requests and forwards CI job
// events to a channel.
package gitlab

import (
	"crypto/subtle"
	"io"
	"net/http"

	gitlab "github.com/xanzy/go-gitlab"
	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/logfields"
	"github.com/profclems/mirrorbot/internal/provider"
)

const loggerName = "gitlab-event-provider"

// maxPayloadSize limits how much of a webhook body is read, payloads larger
// than this are rejected.
const maxPayloadSize = 25 * 1024 * 1024

// Provider listens for GitLab webhook http-requests at a http-server
// handler, validates the webhook token, parses the payload and forwards job
// events to an event channel.
type Provider struct {
	logger        *zap.Logger
	webhookSecret []byte
	c             chan<- *provider.Event
}

type option func(*Provider)

// WithWebhookSecret enables validating the X-Gitlab-Token header of
// incoming requests against secret.
func WithWebhookSecret(secret string) option {
	return func(p *Provider) {
		p.webhookSecret = []byte(secret)
	}
}

func New(eventChan chan<- *provider.Event, opts ...option) *Provider {
	p := Provider{
		c: eventChan,
	}

	for _, o := range opts {
		o(&p)
	}

	if p.logger == nil {
		p.logger = zap.L().Named(loggerName)
	}

	return &p
}

func (p *Provider) HTTPHandler(resp http.ResponseWriter, req *http.Request) {
	hookType := gitlab.HookEventType(req)

	logFields := []zap.Field{
		logfields.EventProvider("gitlab"),
		zap.String("gitlab.webhook_type", string(hookType)),
	}

	logger := p.logger.With(logFields...)

	if len(p.webhookSecret) != 0 {
		token := gitlab.HookEventToken(req)
		if subtle.ConstantTimeCompare([]byte(token), p.webhookSecret) != 1 {
			logger.Info(
				"received invalid http request, webhook token mismatch",
				logfields.Event("gitlab_http_request_validation_failed"),
			)
			http.Error(resp, "invalid webhook token", http.StatusUnauthorized)
			return
		}
	}

	payload, err := io.ReadAll(io.LimitReader(req.Body, maxPayloadSize))
	if err != nil {
		logger.Info(
			"reading http request body failed",
			logfields.Event("gitlab_http_request_read_failed"),
			zap.Error(err),
		)
		http.Error(resp, err.Error(), http.StatusBadRequest)
		return
	}

	event, err := gitlab.ParseWebhook(hookType, payload)
	if err != nil {
		logger.Info(
			"received invalid http request, parsing failed",
			logfields.Event("gitlab_event_parsing_failed"),
			zap.Error(err),
		)
		http.Error(resp, err.Error(), http.StatusBadRequest)
		return
	}

	jobEvent, ok := event.(*gitlab.JobEvent)
	if !ok {
		logger.Debug("ignoring event, event type is unsupported",
			logfields.Event("gitlab_unsupported_event_received"),
		)

		http.Error(resp, "unsupported event type", http.StatusBadRequest)
		return
	}

	logFields = append(
		logFields,
		logfields.CIProject(jobEvent.ProjectID),
		logfields.CIJob(jobEvent.BuildID),
		logfields.CIJobName(jobEvent.BuildName),
		zap.String("ci.job_status", jobEvent.BuildStatus),
	)

	ev := provider.Event{
		Provider:  "gitlab",
		EventType: string(hookType),
		Event:     jobEvent,
		LogFields: logFields,
	}

	select {
	case p.c <- &ev:
		logger.Debug("event forwarded to channel",
			logfields.Event("gitlab_event_forwarded"),
		)

	default:
		logger.Warn(
			"event lost, forwarding event to channel failed",
			zap.String("error", "could not forward event to channel, send would have blocked"),
			logfields.Event("gitlab_forwarding_event_failed"),
		)

		http.Error(resp, "queue full", http.StatusServiceUnavailable)
		return
	}
}
