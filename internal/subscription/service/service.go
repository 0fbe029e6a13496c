package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks SubscriberStore,CheckoutProvider,PassIssuer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"hotpicks/internal/subscription/metrics"
	"hotpicks/internal/subscription/models"
	"hotpicks/internal/subscription/pass"
	"hotpicks/internal/subscription/payment"
	dErrors "hotpicks/pkg/domain-errors"
	"hotpicks/pkg/email"
	"hotpicks/pkg/platform/sentinel"
	"hotpicks/pkg/requestcontext"
)

type SubscriberStore interface {
	Upsert(ctx context.Context, sub *models.Subscriber) error
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscriber, error)
	ListActive(ctx context.Context) ([]*models.Subscriber, error)
}

type CheckoutProvider interface {
	CreateCheckout(ctx context.Context, email string) (string, error)
	RetrieveCheckout(ctx context.Context, sessionID string) (*payment.Checkout, error)
	ParseWebhook(payload []byte, signature string) (*payment.Event, error)
}

type PassIssuer interface {
	Issue(subscriberID uuid.UUID, email string, now time.Time) (string, time.Time, error)
	Validate(token string) (*pass.Claims, error)
}

// Service runs the checkout flow and decides who may use premium features.
type Service struct {
	store    SubscriberStore
	provider CheckoutProvider
	passes   PassIssuer
	logger   *slog.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithClock overrides the request time stamped by the requesttime middleware.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New constructs a Service. All three collaborators are required.
func New(store SubscriberStore, provider CheckoutProvider, passes PassIssuer, opts ...Option) (*Service, error) {
	if store == nil {
		return nil, errors.New("subscriber store is required")
	}
	if provider == nil {
		return nil, errors.New("checkout provider is required")
	}
	if passes == nil {
		return nil, errors.New("pass issuer is required")
	}
	s := &Service{
		store:    store,
		provider: provider,
		passes:   passes,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// StartCheckout opens a hosted checkout for rawEmail and returns its URL.
// Provider failures surface as upstream errors and are not retried.
func (s *Service) StartCheckout(ctx context.Context, rawEmail string) (string, error) {
	address := email.Normalize(rawEmail)
	if !email.IsValid(address) {
		return "", dErrors.New(dErrors.CodeValidation, "a valid email address is required")
	}

	url, err := s.provider.CreateCheckout(ctx, address)
	if err != nil {
		s.logger.ErrorContext(ctx, "checkout creation failed", "error", err)
		return "", dErrors.Wrap(err, dErrors.CodeUpstream, "checkout could not be started: "+err.Error())
	}
	s.metrics.IncrementCheckoutStarted()
	return url, nil
}

// CompleteCheckout confirms a paid session, activates its subscriber and
// issues a pass.
func (s *Service) CompleteCheckout(ctx context.Context, sessionID string) (*models.CheckoutResult, error) {
	if sessionID == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "session_id is required")
	}

	checkout, err := s.provider.RetrieveCheckout(ctx, sessionID)
	if err != nil {
		s.logger.ErrorContext(ctx, "checkout lookup failed", "session_id", sessionID, "error", err)
		return nil, dErrors.Wrap(err, dErrors.CodeUpstream, "checkout could not be verified")
	}
	if !checkout.Paid {
		return nil, dErrors.New(dErrors.CodeForbidden, "payment has not been completed")
	}

	address := email.Normalize(checkout.Email)
	if !email.IsValid(address) {
		return nil, dErrors.New(dErrors.CodeUpstream, "checkout has no usable email address")
	}

	sub, err := s.activate(ctx, address, checkout.CustomerID, checkout.SubscriptionID)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.passes.Issue(sub.ID, sub.Email, s.clock(ctx))
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue pass")
	}
	s.metrics.IncrementCheckoutCompleted()
	s.logger.InfoContext(ctx, "subscriber activated", "subscriber_id", sub.ID)

	return &models.CheckoutResult{Subscriber: sub, Pass: token, ExpiresAt: expiresAt}, nil
}

// HandleWebhook verifies and applies a payment webhook. Completed checkouts
// activate, deleted subscriptions cancel, everything else is acknowledged
// and ignored.
func (s *Service) HandleWebhook(ctx context.Context, payload []byte, signature string) (payment.EventType, error) {
	evt, err := s.provider.ParseWebhook(payload, signature)
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			return "", dErrors.New(dErrors.CodeBadRequest, "invalid webhook signature")
		}
		return "", dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid webhook payload")
	}
	s.metrics.IncrementWebhook(string(evt.Type))

	switch evt.Type {
	case payment.EventCheckoutCompleted:
		if !evt.Paid {
			s.logger.InfoContext(ctx, "ignoring unpaid checkout", "event_id", evt.ID)
			return payment.EventIgnored, nil
		}
		address := email.Normalize(evt.Email)
		if !email.IsValid(address) {
			s.logger.WarnContext(ctx, "checkout event without usable email", "event_id", evt.ID)
			return evt.Type, nil
		}
		if _, err := s.activate(ctx, address, evt.CustomerID, evt.SubscriptionID); err != nil {
			return "", err
		}
		s.metrics.IncrementCheckoutCompleted()
	case payment.EventSubscriptionCancelled:
		if err := s.cancel(ctx, evt.SubscriptionID); err != nil {
			return "", err
		}
	default:
		s.logger.DebugContext(ctx, "ignoring webhook event", "event_type", evt.RawType)
	}
	return evt.Type, nil
}

// Authorize resolves a pass to an active subscriber.
func (s *Service) Authorize(ctx context.Context, token string) (*models.Subscriber, error) {
	if token == "" {
		s.metrics.IncrementRejected("missing")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "subscriber pass is required")
	}
	claims, err := s.passes.Validate(token)
	if err != nil {
		s.metrics.IncrementRejected("invalid")
		return nil, err
	}

	sub, err := s.store.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncrementRejected("unknown")
			return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown subscriber")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subscriber")
	}
	if sub.ID != claims.SubscriberID() {
		s.metrics.IncrementRejected("unknown")
		return nil, dErrors.New(dErrors.CodeUnauthorized, "unknown subscriber")
	}
	if !sub.IsActive() {
		s.metrics.IncrementRejected("inactive")
		return nil, dErrors.New(dErrors.CodeForbidden, "subscription is not active")
	}
	return sub, nil
}

// ActiveSubscribers lists everyone who should receive the digest.
func (s *Service) ActiveSubscribers(ctx context.Context) ([]*models.Subscriber, error) {
	subs, err := s.store.ListActive(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list subscribers")
	}
	return subs, nil
}

func (s *Service) clock(ctx context.Context) time.Time {
	if s.now != nil {
		return s.now()
	}
	return requestcontext.Now(ctx)
}

func (s *Service) activate(ctx context.Context, address, customerID, subscriptionID string) (*models.Subscriber, error) {
	now := s.clock(ctx)
	sub, err := s.store.FindByEmail(ctx, address)
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		sub = &models.Subscriber{ID: uuid.New(), Email: address, CreatedAt: now}
	case err != nil:
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subscriber")
	}

	if customerID != "" {
		sub.CustomerID = customerID
	}
	if subscriptionID != "" {
		sub.SubscriptionID = subscriptionID
	}
	sub.Status = models.StatusActive
	sub.UpdatedAt = now

	if err := s.store.Upsert(ctx, sub); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save subscriber")
	}
	return sub, nil
}

func (s *Service) cancel(ctx context.Context, subscriptionID string) error {
	sub, err := s.store.FindBySubscriptionID(ctx, subscriptionID)
	if errors.Is(err, sentinel.ErrNotFound) {
		s.logger.WarnContext(ctx, "cancellation for unknown subscription", "subscription_id", subscriptionID)
		return nil
	}
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to load subscriber")
	}
	if sub.Status == models.StatusCanceled {
		return nil
	}

	sub.Status = models.StatusCanceled
	sub.UpdatedAt = s.clock(ctx)
	if err := s.store.Upsert(ctx, sub); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save subscriber")
	}
	s.metrics.IncrementCancellation()
	s.logger.InfoContext(ctx, "subscription canceled", "subscriber_id", sub.ID)
	return nil
}
