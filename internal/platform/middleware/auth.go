package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"hotpicks/internal/subscription/models"
	"hotpicks/pkg/platform/httputil"
	"hotpicks/pkg/requestcontext"
)

// Authorizer resolves a subscriber pass to an active subscriber.
type Authorizer interface {
	Authorize(ctx context.Context, token string) (*models.Subscriber, error)
}

// RequireSubscriber rejects requests without a valid pass for an active
// subscriber and attaches the subscriber identity to the context otherwise.
func RequireSubscriber(authorizer Authorizer, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				token = ""
			}

			sub, err := authorizer.Authorize(ctx, strings.TrimSpace(token))
			if err != nil {
				logger.WarnContext(ctx, "premium access denied",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				httputil.WriteError(w, err)
				return
			}

			ctx = requestcontext.WithSubscriber(ctx, requestcontext.SubscriberIdentity{ID: sub.ID, Email: sub.Email})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
