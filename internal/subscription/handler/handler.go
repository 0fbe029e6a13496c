package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hotpicks/internal/subscription/models"
	"hotpicks/internal/subscription/payment"
	dErrors "hotpicks/pkg/domain-errors"
	"hotpicks/pkg/platform/httputil"
	"hotpicks/pkg/requestcontext"
)

// maxWebhookBytes matches the payload ceiling Stripe documents for events.
const maxWebhookBytes = 64 << 10

// Service defines the subscription operations exposed over HTTP.
type Service interface {
	StartCheckout(ctx context.Context, email string) (string, error)
	CompleteCheckout(ctx context.Context, sessionID string) (*models.CheckoutResult, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) (payment.EventType, error)
}

// Handler serves the checkout and webhook endpoints.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register registers the subscription routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/subscriptions/checkout", h.HandleCheckout)
	r.Get("/subscriptions/complete", h.HandleComplete)
	r.Post("/webhooks/stripe", h.HandleStripeWebhook)
}

// HandleCheckout opens a hosted checkout and returns its URL.
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[CheckoutRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	url, err := h.service.StartCheckout(ctx, req.Email)
	if err != nil {
		h.logger.WarnContext(ctx, "checkout not started",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, CheckoutResponse{CheckoutURL: url})
}

// HandleComplete is the checkout success redirect target. It confirms the
// session and hands back a subscriber pass.
func (h *Handler) HandleComplete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	result, err := h.service.CompleteCheckout(ctx, r.URL.Query().Get("session_id"))
	if err != nil {
		h.logger.WarnContext(ctx, "checkout completion failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toCompleteResponse(result))
}

// HandleStripeWebhook verifies and applies a Stripe event.
func (h *Handler) HandleStripeWebhook(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	payload, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBytes))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "unreadable webhook body"))
		return
	}

	evtType, err := h.service.HandleWebhook(ctx, payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		h.logger.WarnContext(ctx, "webhook rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, WebhookResponse{Received: true, Type: string(evtType)})
}
