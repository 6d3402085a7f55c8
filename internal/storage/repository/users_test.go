package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darusc/expense-tracker/internal/models"
)

func TestRegisterAndGetUser(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	id, err := storage.RegisterUser(ctx, models.User{
		Username:     "testuser",
		PasswordHash: "hash",
		Email:        "test@example.com",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := storage.GetUserByUsername(ctx, "testuser")
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	assert.Equal(t, "test@example.com", got.Email)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestRegisterUser_EmptyEmailStoredAsNull(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	_, err := storage.RegisterUser(ctx, models.User{Username: "noemail", PasswordHash: "hash"})
	require.NoError(t, err)

	got, err := storage.GetUserByUsername(ctx, "noemail")
	require.NoError(t, err)
	assert.Empty(t, got.Email)

	var isNull bool
	err = storage.DB.QueryRow(`SELECT email IS NULL FROM users WHERE username = 'noemail'`).Scan(&isNull)
	require.NoError(t, err)
	assert.True(t, isNull)
}

func TestRegisterUser_DuplicateUsername(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()

	_, err := storage.RegisterUser(ctx, models.User{Username: "taken", PasswordHash: "hash"})
	require.NoError(t, err)

	_, err = storage.RegisterUser(ctx, models.User{Username: "taken", PasswordHash: "otherhash"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)
}

func TestGetUserByUsername_NotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	_, err := storage.GetUserByUsername(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestFindUsersWithExpenses(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage, t)

	withEmail := factory.CreateUser("with-email", "mail@example.com")
	noEmail := factory.CreateUser("no-email", "")
	idle := factory.CreateUser("idle", "idle@example.com")
	_ = idle

	factory.CreateExpense(withEmail, "2025-08-01", "Groceries", 1000, "a")
	factory.CreateExpense(withEmail, "2025-08-02", "Transport", 500, "b")
	factory.CreateExpense(noEmail, "2025-08-03", "Groceries", 700, "c")

	users, err := storage.FindUsersWithExpenses(ctx, 2025, 8)
	require.NoError(t, err)
	// Только пользователь с email и тратами, ровно один раз
	require.Len(t, users, 1)
	assert.Equal(t, "with-email", users[0].Username)
	assert.Equal(t, "mail@example.com", users[0].Email)

	users, err = storage.FindUsersWithExpenses(ctx, 2025, 1)
	require.NoError(t, err)
	assert.Empty(t, users)
}
