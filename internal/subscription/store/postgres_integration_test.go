//go:build integration

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"hotpicks/internal/subscription/models"
	"hotpicks/internal/subscription/store"
	"hotpicks/pkg/platform/sentinel"
	"hotpicks/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	version, err := store.Migrate(s.postgres.URL)
	s.Require().NoError(err)
	s.Equal(uint(1), version)
	s.store = store.NewPostgres(s.postgres.Pool)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "subscribers"))
}

func (s *PostgresStoreSuite) TestMigrateIsIdempotent() {
	version, err := store.Migrate(s.postgres.URL)
	s.Require().NoError(err)
	s.Equal(uint(1), version)
}

func (s *PostgresStoreSuite) TestUpsertKeepsIdentity() {
	ctx := context.Background()
	sub := makeSubscriber("ada@example.com", "sub_1", models.StatusActive)
	s.Require().NoError(s.store.Upsert(ctx, sub))

	replacement := makeSubscriber("ada@example.com", "sub_2", models.StatusCanceled)
	s.Require().NoError(s.store.Upsert(ctx, replacement))

	found, err := s.store.FindByEmail(ctx, "ada@example.com")
	s.Require().NoError(err)
	s.Equal(sub.ID, found.ID)
	s.Equal("sub_2", found.SubscriptionID)
	s.Equal(models.StatusCanceled, found.Status)
}

func (s *PostgresStoreSuite) TestListActiveOrdersByEmail() {
	ctx := context.Background()
	s.Require().NoError(s.store.Upsert(ctx, makeSubscriber("zoe@example.com", "sub_z", models.StatusActive)))
	s.Require().NoError(s.store.Upsert(ctx, makeSubscriber("bob@example.com", "sub_b", models.StatusCanceled)))
	s.Require().NoError(s.store.Upsert(ctx, makeSubscriber("ada@example.com", "sub_a", models.StatusActive)))

	active, err := s.store.ListActive(ctx)
	s.Require().NoError(err)
	s.Require().Len(active, 2)
	s.Equal("ada@example.com", active[0].Email)
	s.Equal("zoe@example.com", active[1].Email)

	found, err := s.store.FindBySubscriptionID(ctx, "sub_b")
	s.Require().NoError(err)
	s.Equal("bob@example.com", found.Email)
}

func (s *PostgresStoreSuite) TestNotFound() {
	_, err := s.store.FindByEmail(context.Background(), "missing@example.com")
	s.ErrorIs(err, sentinel.ErrNotFound)
}
