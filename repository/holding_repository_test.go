package repository

import (
	"context"
	"testing"

	"tradesim/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHoldingRepository(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	users := NewUserRepository(testDB.DB)
	repo := NewHoldingRepository(testDB.DB)
	ctx := context.Background()

	alice, err := users.Create(ctx, "alice", "hash", testutil.Cash("10000.00"))
	require.NoError(t, err)
	bob, err := users.Create(ctx, "bob", "hash", testutil.Cash("10000.00"))
	require.NoError(t, err)

	t.Run("holding not found", func(t *testing.T) {
		holding, err := repo.GetByUserAndSymbol(ctx, alice.ID, "AAPL")
		require.NoError(t, err)
		assert.Nil(t, holding)
	})

	t.Run("create and fetch", func(t *testing.T) {
		err := repo.Create(ctx, testutil.CreateTestHolding(alice.ID, "AAPL", 10))
		require.NoError(t, err)

		holding, err := repo.GetByUserAndSymbol(ctx, alice.ID, "AAPL")
		require.NoError(t, err)
		require.NotNil(t, holding)
		assert.Equal(t, int64(10), holding.Shares)
		assert.Equal(t, "AAPL Inc", holding.Name)
	})

	t.Run("update shares", func(t *testing.T) {
		err := repo.UpdateShares(ctx, alice.ID, "AAPL", 15)
		require.NoError(t, err)

		holding, err := repo.GetByUserAndSymbol(ctx, alice.ID, "AAPL")
		require.NoError(t, err)
		assert.Equal(t, int64(15), holding.Shares)
	})

	t.Run("all holdings ordered by symbol", func(t *testing.T) {
		err := repo.Create(ctx, testutil.CreateTestHolding(alice.ID, "NFLX", 2))
		require.NoError(t, err)
		err = repo.Create(ctx, testutil.CreateTestHolding(alice.ID, "GOOG", 1))
		require.NoError(t, err)

		holdings, err := repo.GetAllByUser(ctx, alice.ID)
		require.NoError(t, err)
		require.Len(t, holdings, 3)
		assert.Equal(t, "AAPL", holdings[0].Symbol)
		assert.Equal(t, "GOOG", holdings[1].Symbol)
		assert.Equal(t, "NFLX", holdings[2].Symbol)
	})

	t.Run("delete is scoped to one user", func(t *testing.T) {
		err := repo.Create(ctx, testutil.CreateTestHolding(bob.ID, "AAPL", 5))
		require.NoError(t, err)

		err = repo.Delete(ctx, alice.ID, "AAPL")
		require.NoError(t, err)

		holding, err := repo.GetByUserAndSymbol(ctx, alice.ID, "AAPL")
		require.NoError(t, err)
		assert.Nil(t, holding)

		// Bob's position in the same symbol is untouched
		bobHolding, err := repo.GetByUserAndSymbol(ctx, bob.ID, "AAPL")
		require.NoError(t, err)
		require.NotNil(t, bobHolding)
		assert.Equal(t, int64(5), bobHolding.Shares)
	})

	t.Run("empty result for user without holdings", func(t *testing.T) {
		carol, err := users.Create(ctx, "carol", "hash", testutil.Cash("10000.00"))
		require.NoError(t, err)

		holdings, err := repo.GetAllByUser(ctx, carol.ID)
		require.NoError(t, err)
		assert.Empty(t, holdings)
	})
}
