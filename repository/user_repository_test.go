package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hangman/repository/testutil"
)

func TestUserRepository_CreateAndGetByName(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	t.Run("absent user", func(t *testing.T) {
		user, err := repo.GetByName(ctx, "nobody")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("create and retrieve", func(t *testing.T) {
		created, err := repo.Create(ctx, "alice", "alice@example.com")
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "alice", created.Name)
		assert.Equal(t, "alice@example.com", created.Email)

		// Counters start at zero with undefined aggregates
		assert.Zero(t, created.Wins)
		assert.Zero(t, created.TotalGames)
		assert.Nil(t, created.WinRatio)
		assert.Nil(t, created.AvgMisses)
		assert.Nil(t, created.AvgWonDifficulty)

		user, err := repo.GetByName(ctx, "alice")
		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, created.ID, user.ID)
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, "alice", "")
		assert.Error(t, err)
	})

	t.Run("empty email allowed", func(t *testing.T) {
		created, err := repo.Create(ctx, "bob", "")
		require.NoError(t, err)
		assert.Empty(t, created.Email)
	})
}

func TestUserRepository_UpdateAggregates(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "carol", "")
	require.NoError(t, err)

	user.ApplyResult(true, 2, 9)
	require.NoError(t, repo.UpdateAggregates(ctx, user))

	reloaded, err := repo.GetByName(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, int64(1), reloaded.Wins)
	assert.Equal(t, int64(1), reloaded.TotalGames)
	assert.Equal(t, int64(2), reloaded.Misses)
	assert.Equal(t, int64(9), reloaded.WonGamesDifficulty)
	require.NotNil(t, reloaded.WinRatio)
	assert.Equal(t, 1.0, *reloaded.WinRatio)
	require.NotNil(t, reloaded.AvgMisses)
	assert.Equal(t, 2.0, *reloaded.AvgMisses)
	require.NotNil(t, reloaded.AvgWonDifficulty)
	assert.Equal(t, 9.0, *reloaded.AvgWonDifficulty)
}

func TestUserRepository_UpdateAggregates_MissingUser(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user, err := repo.Create(ctx, "dave", "")
	require.NoError(t, err)
	user.ID = user.ID + 1000
	user.ApplyResult(false, 6, 5)

	err = repo.UpdateAggregates(ctx, user)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestUserRepository_GetRanked(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	fresh, err := repo.Create(ctx, "fresh", "")
	require.NoError(t, err)

	veteran, err := repo.Create(ctx, "veteran", "")
	require.NoError(t, err)
	veteran.ApplyResult(true, 3, 7)
	require.NoError(t, repo.UpdateAggregates(ctx, veteran))

	ranked, err := repo.GetRanked(ctx)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "veteran", ranked[0].Name)
	assert.NotEqual(t, fresh.ID, ranked[0].ID)
}

func TestUserRepository_GetByIDForUpdate(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)

	ctx := context.Background()
	repo := NewUserRepository(testDB.DB)

	created, err := repo.Create(ctx, "erin", "")
	require.NoError(t, err)

	tx, err := testDB.DB.Begin(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	txRepo := newUserRepositoryWithTx(tx)

	user, err := txRepo.GetByIDForUpdate(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "erin", user.Name)

	missing, err := txRepo.GetByIDForUpdate(ctx, created.ID+1000)
	require.NoError(t, err)
	assert.Nil(t, missing)
}
