package handler

import (
	"time"

	"hotpicks/internal/subscription/models"
)

type CheckoutResponse struct {
	CheckoutURL string `json:"checkout_url"`
}

type SubscriberResponse struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Status string `json:"status"`
}

type CompleteResponse struct {
	Subscriber SubscriberResponse `json:"subscriber"`
	Pass       string             `json:"pass"`
	ExpiresAt  time.Time          `json:"expires_at"`
}

type WebhookResponse struct {
	Received bool   `json:"received"`
	Type     string `json:"type"`
}

func toCompleteResponse(result *models.CheckoutResult) CompleteResponse {
	return CompleteResponse{
		Subscriber: SubscriberResponse{
			ID:     result.Subscriber.ID.String(),
			Email:  result.Subscriber.Email,
			Status: string(result.Subscriber.Status),
		},
		Pass:      result.Pass,
		ExpiresAt: result.ExpiresAt,
	}
}
