// Package requestcontext provides HTTP-independent context accessors for request-scoped values.
//
// Middleware sets these values; handlers, services and workers read them without
// importing net/http.
//
//	requestID := requestcontext.RequestID(ctx)
//	sub, ok := requestcontext.Subscriber(ctx)
//	now := requestcontext.Now(ctx)
package requestcontext

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type (
	requestIDKey   struct{}
	requestTimeKey struct{}
	subscriberKey  struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
	ContextKeySubscriber  = subscriberKey{}
)

// SubscriberIdentity is the authenticated subscriber attached by the pass middleware.
type SubscriberIdentity struct {
	ID    uuid.UUID
	Email string
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Subscriber retrieves the authenticated subscriber, if any.
func Subscriber(ctx context.Context) (SubscriberIdentity, bool) {
	sub, ok := ctx.Value(ContextKeySubscriber).(SubscriberIdentity)
	return sub, ok
}

// WithSubscriber injects the authenticated subscriber into the context.
func WithSubscriber(ctx context.Context, sub SubscriberIdentity) context.Context {
	return context.WithValue(ctx, ContextKeySubscriber, sub)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() if not set (workers, CLI, tests).
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
