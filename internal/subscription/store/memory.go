package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"hotpicks/internal/subscription/models"
	"hotpicks/pkg/platform/sentinel"
)

// InMemoryStore keeps subscribers in process memory. It is the default when
// no database is configured.
type InMemoryStore struct {
	mu             sync.RWMutex
	byEmail        map[string]*models.Subscriber
	bySubscription map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byEmail:        make(map[string]*models.Subscriber),
		bySubscription: make(map[string]string),
	}
}

func (s *InMemoryStore) Upsert(_ context.Context, sub *models.Subscriber) error {
	if sub == nil || sub.Email == "" {
		return errors.New("subscriber email is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byEmail[sub.Email]; ok && prev.SubscriptionID != "" && prev.SubscriptionID != sub.SubscriptionID {
		delete(s.bySubscription, prev.SubscriptionID)
	}
	s.byEmail[sub.Email] = clone(sub)
	if sub.SubscriptionID != "" {
		s.bySubscription[sub.SubscriptionID] = sub.Email
	}
	return nil
}

func (s *InMemoryStore) FindByEmail(_ context.Context, email string) (*models.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sub, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return clone(sub), nil
}

func (s *InMemoryStore) FindBySubscriptionID(_ context.Context, subscriptionID string) (*models.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	email, ok := s.bySubscription[subscriptionID]
	if !ok || subscriptionID == "" {
		return nil, sentinel.ErrNotFound
	}
	return clone(s.byEmail[email]), nil
}

// ListActive returns active subscribers ordered by email.
func (s *InMemoryStore) ListActive(_ context.Context) ([]*models.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Subscriber, 0, len(s.byEmail))
	for _, sub := range s.byEmail {
		if sub.IsActive() {
			out = append(out, clone(sub))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}
