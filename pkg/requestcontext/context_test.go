package requestcontext

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAccessorsOnEmptyContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestID(ctx))
	_, ok := Subscriber(ctx)
	assert.False(t, ok)
	assert.WithinDuration(t, time.Now(), Now(ctx), time.Second)
}

func TestAccessorsRoundTrip(t *testing.T) {
	fixed := time.Date(2026, 3, 3, 20, 45, 0, 0, time.UTC)
	sub := SubscriberIdentity{ID: uuid.New(), Email: "ada@example.com"}

	ctx := WithRequestID(context.Background(), "req-42")
	ctx = WithTime(ctx, fixed)
	ctx = WithSubscriber(ctx, sub)

	assert.Equal(t, "req-42", RequestID(ctx))
	assert.Equal(t, fixed, Now(ctx))
	got, ok := Subscriber(ctx)
	assert.True(t, ok)
	assert.Equal(t, sub, got)
}
