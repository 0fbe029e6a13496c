// Package store persists subscribers. Every implementation keys records by
// normalized email and reports missing records as sentinel.ErrNotFound.
package store

import (
	"context"

	"hotpicks/internal/subscription/models"
)

// Store is the subscriber persistence contract shared by the memory, Redis
// and Postgres backends.
type Store interface {
	Upsert(ctx context.Context, sub *models.Subscriber) error
	FindByEmail(ctx context.Context, email string) (*models.Subscriber, error)
	FindBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscriber, error)
	ListActive(ctx context.Context) ([]*models.Subscriber, error)
}

func clone(sub *models.Subscriber) *models.Subscriber {
	if sub == nil {
		return nil
	}
	c := *sub
	return &c
}
