package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeConfig holds the Stripe credentials and redirect URLs.
type StripeConfig struct {
	SecretKey     string
	PriceID       string
	WebhookSecret string
	SuccessURL    string
	CancelURL     string
}

// Stripe implements Provider with Stripe Checkout in subscription mode.
type Stripe struct {
	api *client.API
	cfg StripeConfig
}

// NewStripe builds a Stripe provider. The secret key and price are required.
func NewStripe(cfg StripeConfig) (*Stripe, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	if cfg.PriceID == "" {
		return nil, errors.New("stripe price id is required")
	}
	return &Stripe{api: client.New(cfg.SecretKey, nil), cfg: cfg}, nil
}

// CreateCheckout opens a subscription checkout for email and returns its URL.
func (s *Stripe) CreateCheckout(ctx context.Context, email string) (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		CustomerEmail:      stripe.String(email),
		LineItems: []*stripe.CheckoutSessionLineItemParams{{
			Price:    stripe.String(s.cfg.PriceID),
			Quantity: stripe.Int64(1),
		}},
		SuccessURL: stripe.String(s.cfg.SuccessURL),
		CancelURL:  stripe.String(s.cfg.CancelURL),
	}
	params.Context = ctx

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// RetrieveCheckout loads a checkout session by id.
func (s *Stripe) RetrieveCheckout(ctx context.Context, sessionID string) (*Checkout, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx
	params.AddExpand("subscription")
	params.AddExpand("customer")

	sess, err := s.api.CheckoutSessions.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve checkout session: %w", err)
	}
	return checkoutFromSession(sess), nil
}

// ParseWebhook verifies the Stripe-Signature header and maps the event.
func (s *Stripe) ParseWebhook(payload []byte, signature string) (*Event, error) {
	evt, err := webhook.ConstructEventWithOptions(payload, signature, s.cfg.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return eventFromStripe(evt)
}

func checkoutFromSession(sess *stripe.CheckoutSession) *Checkout {
	c := &Checkout{
		SessionID: sess.ID,
		Email:     sess.CustomerEmail,
		Paid: sess.Status == stripe.CheckoutSessionStatusComplete &&
			sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusUnpaid,
	}
	if c.Email == "" && sess.CustomerDetails != nil {
		c.Email = sess.CustomerDetails.Email
	}
	if sess.Customer != nil {
		c.CustomerID = sess.Customer.ID
	}
	if sess.Subscription != nil {
		c.SubscriptionID = sess.Subscription.ID
	}
	return c
}

func eventFromStripe(evt stripe.Event) (*Event, error) {
	out := &Event{ID: evt.ID, RawType: string(evt.Type), Type: EventIgnored}
	if evt.Data == nil {
		return out, nil
	}

	switch evt.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(evt.Data.Raw, &sess); err != nil {
			return nil, fmt.Errorf("decode checkout session: %w", err)
		}
		c := checkoutFromSession(&sess)
		out.Type = EventCheckoutCompleted
		out.Email = c.Email
		out.CustomerID = c.CustomerID
		out.SubscriptionID = c.SubscriptionID
		out.Paid = c.Paid
	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(evt.Data.Raw, &sub); err != nil {
			return nil, fmt.Errorf("decode subscription: %w", err)
		}
		out.Type = EventSubscriptionCancelled
		out.SubscriptionID = sub.ID
		if sub.Customer != nil {
			out.CustomerID = sub.Customer.ID
		}
	}
	return out, nil
}
