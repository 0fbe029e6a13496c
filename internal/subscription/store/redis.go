package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"

	"hotpicks/internal/subscription/models"
	"hotpicks/pkg/platform/sentinel"
)

const (
	subscriberKeyPrefix   = "hotpicks:subscriber:"
	subscriptionKeyPrefix = "hotpicks:subscription:"
	activeSetKey          = "hotpicks:subscribers:active"

	// WATCH conflicts are retried this many times before Upsert gives up.
	maxUpsertAttempts = 5
)

// RedisStore keeps each subscriber as a JSON value keyed by email, with a
// subscription id index and a set of active emails.
type RedisStore struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Upsert(ctx context.Context, sub *models.Subscriber) error {
	if sub == nil || sub.Email == "" {
		return errors.New("subscriber email is required")
	}
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal subscriber: %w", err)
	}

	key := subscriberKeyPrefix + sub.Email
	upsert := func(tx *redis.Tx) error {
		prev, err := decodeSubscriber(tx.Get(ctx, key).Bytes())
		if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, 0)
			if prev != nil && prev.SubscriptionID != "" && prev.SubscriptionID != sub.SubscriptionID {
				pipe.Del(ctx, subscriptionKeyPrefix+prev.SubscriptionID)
			}
			if sub.SubscriptionID != "" {
				pipe.Set(ctx, subscriptionKeyPrefix+sub.SubscriptionID, sub.Email, 0)
			}
			if sub.IsActive() {
				pipe.SAdd(ctx, activeSetKey, sub.Email)
			} else {
				pipe.SRem(ctx, activeSetKey, sub.Email)
			}
			return nil
		})
		return err
	}

	for range maxUpsertAttempts {
		err = s.client.Watch(ctx, upsert, key)
		if !errors.Is(err, redis.TxFailedErr) {
			break
		}
	}
	if err != nil {
		return fmt.Errorf("upsert subscriber: %w", err)
	}
	return nil
}

func (s *RedisStore) FindByEmail(ctx context.Context, email string) (*models.Subscriber, error) {
	return decodeSubscriber(s.client.Get(ctx, subscriberKeyPrefix+email).Bytes())
}

func decodeSubscriber(raw []byte, err error) (*models.Subscriber, error) {
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber by email: %w", err)
	}
	var sub models.Subscriber
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, fmt.Errorf("decode subscriber: %w", err)
	}
	return &sub, nil
}

func (s *RedisStore) FindBySubscriptionID(ctx context.Context, subscriptionID string) (*models.Subscriber, error) {
	if subscriptionID == "" {
		return nil, sentinel.ErrNotFound
	}
	email, err := s.client.Get(ctx, subscriptionKeyPrefix+subscriptionID).Result()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find subscriber by subscription: %w", err)
	}
	return s.FindByEmail(ctx, email)
}

func (s *RedisStore) ListActive(ctx context.Context) ([]*models.Subscriber, error) {
	emails, err := s.client.SMembers(ctx, activeSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list active subscribers: %w", err)
	}
	if len(emails) == 0 {
		return []*models.Subscriber{}, nil
	}
	sort.Strings(emails)

	keys := make([]string, len(emails))
	for i, email := range emails {
		keys[i] = subscriberKeyPrefix + email
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load active subscribers: %w", err)
	}

	out := make([]*models.Subscriber, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// index entry without a record; skip
			continue
		}
		var sub models.Subscriber
		if err := json.Unmarshal([]byte(raw), &sub); err != nil {
			return nil, fmt.Errorf("decode subscriber: %w", err)
		}
		if sub.IsActive() {
			out = append(out, &sub)
		}
	}
	return out, nil
}
