package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hotpicks/internal/subscription/models"
	"hotpicks/pkg/platform/sentinel"
)

// PostgresStore persists subscribers in the subscribers table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const subscriberColumns = `id, email, customer_id, subscription_id, status, created_at, updated_at`

func (s *PostgresStore) Upsert(ctx context.Context, sub *models.Subscriber) error {
	if sub == nil || sub.Email == "" {
		return errors.New("subscriber email is required")
	}
	query := `
		INSERT INTO subscribers (` + subscriberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET
			customer_id = EXCLUDED.customer_id,
			subscription_id = EXCLUDED.subscription_id,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.pool.Exec(ctx, query,
		sub.ID, sub.Email, sub.CustomerID, sub.SubscriptionID, string(sub.Status), sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+subscriberColumns+` FROM subscribers WHERE email = $1`, email)
	sub, err := scanSubscriber(row)
	if err != nil {
		return nil, wrapNotFound(err, "find subscriber by email")
	}
	return sub, nil
}

func (s *PostgresStore) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscriber, error) {
	if subscriptionID == "" {
		return nil, sentinel.ErrNotFound
	}
	row := s.pool.QueryRow(ctx, `SELECT `+subscriberColumns+` FROM subscribers WHERE subscription_id = $1`, subscriptionID)
	sub, err := scanSubscriber(row)
	if err != nil {
		return nil, wrapNotFound(err, "find subscriber by subscription")
	}
	return sub, nil
}

func (s *PostgresStore) ListActive(ctx context.Context) ([]*models.Subscriber, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+subscriberColumns+` FROM subscribers WHERE status = $1 ORDER BY email`, string(models.StatusActive))
	if err != nil {
		return nil, fmt.Errorf("list active subscribers: %w", err)
	}
	defer rows.Close()

	out := []*models.Subscriber{}
	for rows.Next() {
		sub, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscriber: %w", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list active subscribers: %w", err)
	}
	return out, nil
}

func scanSubscriber(row pgx.Row) (*models.Subscriber, error) {
	var sub models.Subscriber
	var status string
	err := row.Scan(&sub.ID, &sub.Email, &sub.CustomerID, &sub.SubscriptionID, &status, &sub.CreatedAt, &sub.UpdatedAt)
	if err != nil {
		return nil, err
	}
	sub.Status = models.Status(status)
	return &sub, nil
}

func wrapNotFound(err error, op string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
