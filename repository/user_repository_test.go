package repository

import (
	"context"
	"testing"

	"tradesim/repository/testutil"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_GetByID(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByID(ctx, 999999)
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created, err := repo.Create(ctx, "alice", "hash", testutil.Cash("10000.00"))
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.Equal(t, created.ID, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.Equal(t, "hash", user.PasswordHash)
		assert.True(t, user.Cash.Equal(testutil.Cash("10000.00")))
	})
}

func TestUserRepository_GetByUsername(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("user not found", func(t *testing.T) {
		user, err := repo.GetByUsername(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("user found", func(t *testing.T) {
		created, err := repo.Create(ctx, "bob", "hash", testutil.Cash("10000.00"))
		require.NoError(t, err)

		user, err := repo.GetByUsername(ctx, "bob")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.ID, user.ID)
	})
}

func TestUserRepository_Create(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful creation", func(t *testing.T) {
		user, err := repo.Create(ctx, "alice", "hash", testutil.Cash("10000.00"))
		require.NoError(t, err)
		require.NotNil(t, user)

		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice", user.Username)
		assert.True(t, user.Cash.Equal(testutil.Cash("10000.00")))
		assert.False(t, user.CreatedAt.IsZero())
		assert.False(t, user.UpdatedAt.IsZero())
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, "carol", "hash", testutil.Cash("10000.00"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, "carol", "other-hash", testutil.Cash("10000.00"))
		assert.Error(t, err)
	})
}

func TestUserRepository_UpdateCash(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("successful update", func(t *testing.T) {
		created, err := repo.Create(ctx, "alice", "hash", testutil.Cash("10000.00"))
		require.NoError(t, err)

		err = repo.UpdateCash(ctx, created.ID, testutil.Cash("8500.00"))
		require.NoError(t, err)

		user, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, user.Cash.Equal(testutil.Cash("8500.00")))
	})

	t.Run("user not found", func(t *testing.T) {
		err := repo.UpdateCash(ctx, 999999, testutil.Cash("100.00"))
		assert.Error(t, err)
	})

	t.Run("negative cash rejected by constraint", func(t *testing.T) {
		created, err := repo.Create(ctx, "dave", "hash", testutil.Cash("10000.00"))
		require.NoError(t, err)

		err = repo.UpdateCash(ctx, created.ID, decimal.RequireFromString("-1.00"))
		assert.Error(t, err)
	})
}

func TestUserRepository_UpdatePasswordHash(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, "alice", "old-hash", testutil.Cash("10000.00"))
	require.NoError(t, err)

	err = repo.UpdatePasswordHash(ctx, created.ID, "new-hash")
	require.NoError(t, err)

	user, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new-hash", user.PasswordHash)
}
