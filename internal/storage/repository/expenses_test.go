package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/darusc/expense-tracker/internal/models"
)

func TestExpenseCRUD(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage, t)
	userID := factory.CreateUser("testuser", "")

	id, err := storage.CreateExpense(ctx, models.Expense{
		UserID:      userID,
		Date:        time.Date(2025, 8, 15, 0, 0, 0, 0, time.UTC),
		Category:    "Groceries",
		AmountCents: 1250,
		Description: "weekly shopping",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := storage.ReadExpense(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, userID, got.UserID)
	assert.Equal(t, "Groceries", got.Category)
	assert.Equal(t, int64(1250), got.AmountCents)
	assert.Equal(t, "weekly shopping", got.Description)
	assert.Equal(t, 2025, got.Date.Year())
	assert.Equal(t, time.August, got.Date.Month())

	updated := *got
	updated.Category = "Transport"
	updated.AmountCents = 900
	rows, err := storage.UpdateExpense(ctx, updated, id)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	got, err = storage.ReadExpense(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Transport", got.Category)
	assert.Equal(t, int64(900), got.AmountCents)

	rows, err = storage.RemoveExpense(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)

	_, err = storage.ReadExpense(ctx, id)
	assert.ErrorIs(t, err, ErrExpenseNotFound)
}

func TestCreateExpenseBatch_RollbackOnFailure(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage, t)
	userID := factory.CreateUser("testuser", "")

	date := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	batch := []models.Expense{
		{UserID: userID, Date: date, Category: "Groceries", AmountCents: 1000, Description: "ok"},
		// Отрицательная сумма нарушает CHECK, вся пачка должна откатиться
		{UserID: userID, Date: date, Category: "Groceries", AmountCents: -5, Description: "bad"},
	}

	err := storage.CreateExpenseBatch(ctx, batch)
	require.Error(t, err)

	count, err := storage.CountExpenses(ctx, userID, 2025, 8)
	require.NoError(t, err)
	assert.Equal(t, 0, count, "failed batch must not leave partial rows")
}

func TestCreateExpenseBatch_Success(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage, t)
	userID := factory.CreateUser("testuser", "")

	date := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	batch := []models.Expense{
		{UserID: userID, Date: date, Category: "Groceries", AmountCents: 1000, Description: "a"},
		{UserID: userID, Date: date, Category: "Transport", AmountCents: 500, Description: "b"},
		{UserID: userID, Date: date.AddDate(0, 0, 1), Category: "Groceries", AmountCents: 300, Description: "c"},
	}

	require.NoError(t, storage.CreateExpenseBatch(ctx, batch))

	count, err := storage.CountExpenses(ctx, userID, 2025, 8)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestListExpenses(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage, t)
	userID := factory.CreateUser("testuser", "")
	otherID := factory.CreateUser("other", "")

	factory.CreateExpense(userID, "2025-08-01", "Groceries", 1000, "first")
	factory.CreateExpense(userID, "2025-08-15", "Transport", 500, "second")
	factory.CreateExpense(userID, "2025-08-20", "Groceries", 700, "third")
	// Чужие траты и другой месяц не должны попадать в выборку
	factory.CreateExpense(otherID, "2025-08-10", "Groceries", 9999, "foreign")
	factory.CreateExpense(userID, "2025-07-10", "Groceries", 9999, "last month")

	t.Run("сортировка по дате по убыванию", func(t *testing.T) {
		expenses, err := storage.ListExpenses(ctx, userID, 2025, 8, 10, 0)
		require.NoError(t, err)
		require.Len(t, expenses, 3)
		assert.Equal(t, "third", expenses[0].Description)
		assert.Equal(t, "second", expenses[1].Description)
		assert.Equal(t, "first", expenses[2].Description)
	})

	t.Run("пагинация", func(t *testing.T) {
		page1, err := storage.ListExpenses(ctx, userID, 2025, 8, 2, 0)
		require.NoError(t, err)
		require.Len(t, page1, 2)

		page2, err := storage.ListExpenses(ctx, userID, 2025, 8, 2, 2)
		require.NoError(t, err)
		require.Len(t, page2, 1)
		assert.Equal(t, "first", page2[0].Description)
	})

	t.Run("подсчёт за месяц", func(t *testing.T) {
		count, err := storage.CountExpenses(ctx, userID, 2025, 8)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		count, err = storage.CountExpenses(ctx, userID, 2025, 6)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})
}

func TestListExpenseYears(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage, t)
	userID := factory.CreateUser("testuser", "")

	factory.CreateExpense(userID, "2023-03-01", "Groceries", 100, "old")
	factory.CreateExpense(userID, "2025-08-01", "Groceries", 100, "new")
	factory.CreateExpense(userID, "2025-01-01", "Transport", 100, "same year")

	years, err := storage.ListExpenseYears(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, []int{2025, 2023}, years)
}

func TestAggregates(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage, t)
	userID := factory.CreateUser("testuser", "")

	factory.CreateExpense(userID, "2025-08-01", "Groceries", 1000, "a")
	factory.CreateExpense(userID, "2025-08-02", "Groceries", 2000, "b")
	factory.CreateExpense(userID, "2025-08-03", "Transport", 500, "c")

	total, err := storage.SumAmounts(ctx, userID, 2025, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(3500), total)

	groceries, err := storage.SumAmountsByCategory(ctx, userID, 2025, 8, "Groceries")
	require.NoError(t, err)
	assert.Equal(t, int64(3000), groceries)

	avg, err := storage.AverageAmountsByCategory(ctx, userID, 2025, 8, "Groceries")
	require.NoError(t, err)
	assert.InDelta(t, 1500.0, avg, 0.001)

	t.Run("пустой месяц - нулевые агрегаты", func(t *testing.T) {
		total, err := storage.SumAmounts(ctx, userID, 2025, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(0), total)

		avg, err := storage.AverageAmountsByCategory(ctx, userID, 2025, 1, "Groceries")
		require.NoError(t, err)
		assert.Equal(t, 0.0, avg)
	})
}
