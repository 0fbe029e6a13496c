package models

import (
	"time"

	"github.com/google/uuid"
)

// Status is the billing state of a subscriber.
type Status string

const (
	StatusActive   Status = "active"
	StatusCanceled Status = "canceled"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusCanceled
}

// Subscriber is a paying customer identified by email.
type Subscriber struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	CustomerID     string    `json:"customer_id"`
	SubscriptionID string    `json:"subscription_id"`
	Status         Status    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsActive reports whether the subscriber may use premium features.
func (s *Subscriber) IsActive() bool {
	return s != nil && s.Status == StatusActive
}

// CheckoutResult is what a caller gets back from a completed checkout.
type CheckoutResult struct {
	Subscriber *Subscriber
	Pass       string
	ExpiresAt  time.Time
}
