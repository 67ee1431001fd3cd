package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridianapps/accounts/internal/accounts/domain"
	"github.com/meridianapps/accounts/internal/accounts/store"
	"github.com/meridianapps/accounts/internal/accounts/store/drivers/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestUsersInsertAndFind(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Users().Insert(ctx, domain.User{
		Name:           "alice",
		Email:          "alice@example.com",
		SaltedPassword: "deadbeef",
		Salt:           "somesalt12345678",
	})
	require.NoError(t, err)
	require.Positive(t, id)

	byEmail, err := s.Users().FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	require.Equal(t, id, byEmail.ID)
	require.Equal(t, "alice", byEmail.Name)
	require.Nil(t, byEmail.Avatar)
	require.False(t, byEmail.CreatedAt.IsZero())

	byID, err := s.Users().FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, byEmail.Email, byID.Email)
}

func TestUsersFindMissing(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.Users().FindByEmail(ctx, "ghost@example.com")
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.Users().FindByID(ctx, 999)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUsersDuplicateEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u := domain.User{Name: "bob", Email: "bob@example.com", SaltedPassword: "x", Salt: "y"}
	_, err := s.Users().Insert(ctx, u)
	require.NoError(t, err)

	_, err = s.Users().Insert(ctx, u)
	require.Error(t, err)
}

func TestUsersUpdateName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.Users().Insert(ctx, domain.User{
		Name: "carol", Email: "carol@example.com", SaltedPassword: "x", Salt: "y",
	})
	require.NoError(t, err)

	require.NoError(t, s.Users().UpdateName(ctx, id, "caroline"))

	u, err := s.Users().FindByID(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "caroline", u.Name)

	require.ErrorIs(t, s.Users().UpdateName(ctx, 999, "nobody"), store.ErrNotFound)
}

func TestClients(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Clients().Insert(ctx, domain.Client{
		ID: 100, Secret: "client-secret", Official: true,
	}))

	c, err := s.Clients().FindByID(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, "client-secret", c.Secret)
	require.True(t, c.Official)

	_, err = s.Clients().FindByID(ctx, 404)
	require.ErrorIs(t, err, store.ErrNotFound)
}
