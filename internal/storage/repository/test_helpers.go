package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/darusc/expense-tracker/internal/models"
)

// setupTestDatabase поднимает контейнер postgres и создаёт схему.
func setupTestDatabase(t *testing.T) (*Storage, func()) {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sql.Open("pgx", dsn)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `
		CREATE TABLE users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			email TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		);
		CREATE TABLE expenses (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users (id) ON DELETE CASCADE,
			date DATE NOT NULL,
			category TEXT NOT NULL,
			amount_cents BIGINT NOT NULL CHECK (amount_cents > 0),
			description TEXT NOT NULL
		);
	`)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return &Storage{DB: db}, cleanup
}

// TestDataFactory создаёт тестовые данные напрямую в базе.
type TestDataFactory struct {
	storage *Storage
	t       *testing.T
}

func NewTestDataFactory(storage *Storage, t *testing.T) *TestDataFactory {
	return &TestDataFactory{storage: storage, t: t}
}

// CreateUser добавляет пользователя и возвращает его ID.
func (f *TestDataFactory) CreateUser(username, email string) int64 {
	f.t.Helper()

	var nullableEmail sql.NullString
	if email != "" {
		nullableEmail = sql.NullString{String: email, Valid: true}
	}

	var id int64
	err := f.storage.DB.QueryRow(`
		INSERT INTO users (username, password_hash, email)
		VALUES ($1, $2, $3)
		RETURNING id
	`, username, "test-hash", nullableEmail).Scan(&id)
	require.NoError(f.t, err)
	return id
}

// CreateExpense добавляет трату и возвращает её ID.
func (f *TestDataFactory) CreateExpense(userID int64, date, category string, amountCents int64, description string) int64 {
	f.t.Helper()

	day, err := time.Parse("2006-01-02", date)
	require.NoError(f.t, err)

	id, err := f.storage.CreateExpense(context.Background(), models.Expense{
		UserID:      userID,
		Date:        day,
		Category:    category,
		AmountCents: amountCents,
		Description: description,
	})
	require.NoError(f.t, err)
	return id
}
