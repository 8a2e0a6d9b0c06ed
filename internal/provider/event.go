// Package provider defines the event envelope that webhook receivers
// forward to the event loop.
package provider

import (
	"fmt"

	"go.uber.org/zap"
)

// Event is a preprocessed webhook event.
type Event struct {
	// Provider is the name of the webhook receiver that produced the
	// event, e.g. "github" or "gitlab".
	Provider string
	// DeliveryID is the unique id the forge assigned to the webhook
	// delivery, it is empty when the forge does not provide one.
	DeliveryID string
	// EventType is the declared webhook event type.
	EventType string
	// Event is the parsed webhook payload, e.g. a value returned by
	// github.ParseWebHook() or gitlab.ParseWebhook().
	Event any
	// LogFields identify the event in log messages.
	LogFields []zap.Field
}

func (e *Event) String() string {
	if e.DeliveryID == "" {
		return fmt.Sprintf("%s %s event", e.Provider, e.EventType)
	}

	return fmt.Sprintf("%s %s event (deliveryID: %s)", e.Provider, e.EventType, e.DeliveryID)
}
