package notify

import (
	"context"
	"errors"

	"hotpicks/internal/lines"
)

// ErrDisabled is returned by the no-op mailer when email is not configured.
var ErrDisabled = errors.New("email delivery is not configured")

// Mailer sends a batch of lines to one recipient.
type Mailer interface {
	SendLines(ctx context.Context, recipient string, batch []lines.Line) error
}

// Delivery is the caller-visible outcome of a send. A failed send never
// fails the request that triggered it.
type Delivery struct {
	Sent   bool   `json:"sent"`
	Reason string `json:"reason,omitempty"`
}

// Deliver sends batch and folds any error into the returned Delivery.
func Deliver(ctx context.Context, m Mailer, recipient string, batch []lines.Line) Delivery {
	if m == nil {
		return Delivery{Reason: ErrDisabled.Error()}
	}
	if err := m.SendLines(ctx, recipient, batch); err != nil {
		return Delivery{Reason: err.Error()}
	}
	return Delivery{Sent: true}
}

// Disabled is a Mailer that always reports ErrDisabled.
type Disabled struct{}

func (Disabled) SendLines(context.Context, string, []lines.Line) error {
	return ErrDisabled
}
