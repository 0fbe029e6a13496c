// Package payment adapts the hosted checkout provider to the subscription
// service.
package payment

import (
	"context"
	"errors"
)

// ErrInvalidSignature is returned when a webhook payload fails verification.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// EventType is a provider-neutral webhook event type.
type EventType string

const (
	EventCheckoutCompleted     EventType = "checkout_completed"
	EventSubscriptionCancelled EventType = "subscription_cancelled"
	EventIgnored               EventType = "ignored"
)

// Checkout is the provider's view of a checkout session.
type Checkout struct {
	SessionID      string
	Email          string
	CustomerID     string
	SubscriptionID string
	// Paid is true once the session completed with payment collected.
	Paid bool
}

// Event is a verified webhook notification.
type Event struct {
	ID             string
	Type           EventType
	RawType        string
	Email          string
	CustomerID     string
	SubscriptionID string
	// Paid is set for completed checkouts whose payment went through.
	Paid bool
}

// Provider creates hosted checkout sessions and verifies their webhooks.
type Provider interface {
	CreateCheckout(ctx context.Context, email string) (string, error)
	RetrieveCheckout(ctx context.Context, sessionID string) (*Checkout, error)
	ParseWebhook(payload []byte, signature string) (*Event, error)
}
