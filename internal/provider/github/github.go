// Package github receives GitHub webhook http-requests, validates and
// parses them and forwards them as events to a channel.
package github

import (
	"net/http"

	"github.com/google/go-github/v59/github"
	"go.uber.org/zap"

	"github.com/profclems/mirrorbot/internal/logfields"
	"github.com/profclems/mirrorbot/internal/provider"
)

const loggerName = "github-event-provider"

// Provider listens for github-webhook http-requests at a http-server
// handler, validates and converts the requests to events and forwards them
// to an event channel.
type Provider struct {
	logger        *zap.Logger
	webhookSecret []byte
	c             chan<- *provider.Event
}

type option func(*Provider)

// WithPayloadSecret enables HMAC validation of webhook payloads with the
// shared secret.
func WithPayloadSecret(secret string) option {
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
	deliveryID := github.DeliveryID(req)
	hookType := github.WebHookType(req)

	logFields := []zap.Field{
		logfields.EventProvider("github"),
		zap.String("github.delivery_id", deliveryID),
		zap.String("github.webhook_type", hookType),
	}

	logger := p.logger.With(logFields...)

	payload, err := github.ValidatePayload(req, p.webhookSecret)
	if err != nil {
		logger.Info(
			"received invalid http request, payload validation failed",
			logfields.Event("github_http_request_validation_failed"),
			zap.Error(err),
		)
		http.Error(resp, err.Error(), http.StatusBadRequest)
		return
	}

	event, err := github.ParseWebHook(hookType, payload)
	if err != nil {
		logger.Info(
			"received invalid http request, parsing failed",
			logfields.Event("github_event_parsing_failed"),
			zap.Error(err),
		)
		http.Error(resp, err.Error(), http.StatusBadRequest)
		return
	}

	switch event := event.(type) {
	case *github.PullRequestEvent:
		logFields = append(
			logFields,
			logfields.Repository(event.GetRepo().GetName()),
			logfields.PullRequest(event.GetNumber()),
			logfields.Commit(event.GetPullRequest().GetHead().GetSHA()),
			zap.String("github.pull_request_event.action", event.GetAction()),
		)

	case *github.PushEvent:
		logFields = append(
			logFields,
			logfields.Repository(event.GetRepo().GetName()),
			zap.String("github.push_event.ref", event.GetRef()),
		)

	case *github.ProjectCardEvent:
		logFields = append(
			logFields,
			logfields.Repository(event.GetRepo().GetName()),
			zap.String("github.project_card_event.action", event.GetAction()),
			zap.Int64("github.project_card_id", event.GetProjectCard().GetID()),
		)

	default:
		logger.Debug("ignoring event, event type is unsupported",
			logfields.Event("github_unsupported_event_received"),
		)

		http.Error(resp, "unsupported event type", http.StatusBadRequest)
		return
	}

	ev := provider.Event{
		Provider:   "github",
		DeliveryID: deliveryID,
		EventType:  hookType,
		Event:      event,
		LogFields:  logFields,
	}

	select {
	case p.c <- &ev:
		logger.Debug("event forwarded to channel",
			logfields.Event("github_event_forwarded"),
		)

	default:
		logger.Warn(
			"event lost, forwarding event to channel failed",
			zap.String("error", "could not forward event to channel, send would have blocked"),
			logfields.Event("github_forwarding_event_failed"),
		)

		http.Error(resp, "queue full", http.StatusServiceUnavailable)
		return
	}
}
