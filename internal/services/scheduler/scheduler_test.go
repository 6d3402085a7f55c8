package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/darusc/expense-tracker/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindUsersWithExpenses(ctx context.Context, year, month int) ([]*models.User, error) {
	args := m.Called(ctx, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

type MockAlertProvider struct {
	mock.Mock
}

func (m *MockAlertProvider) Generate(ctx context.Context, userID int64, year, month int) (map[string]float64, error) {
	args := m.Called(ctx, userID, year, month)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSchedulerService_runNotifyBudgetOverruns(t *testing.T) {
	user := &models.User{
		ID:       1,
		Username: "testuser",
		Email:    "test@example.com",
	}

	tests := []struct {
		name       string
		setupMocks func(*MockRepository, *MockAlertProvider)
	}{
		{
			name: "успех - нет пользователей с тратами",
			setupMocks: func(r *MockRepository, _ *MockAlertProvider) {
				r.On("FindUsersWithExpenses", mock.Anything, mock.AnythingOfType("int"), mock.AnythingOfType("int")).
					Return([]*models.User{}, nil).Once()
			},
		},
		{
			name: "успех - у пользователя нет превышений",
			setupMocks: func(r *MockRepository, a *MockAlertProvider) {
				r.On("FindUsersWithExpenses", mock.Anything, mock.AnythingOfType("int"), mock.AnythingOfType("int")).
					Return([]*models.User{user}, nil).Once()
				a.On("Generate", mock.Anything, int64(1), mock.AnythingOfType("int"), mock.AnythingOfType("int")).
					Return(map[string]float64{}, nil).Once()
			},
		},
		{
			name: "ошибка репозитория",
			setupMocks: func(r *MockRepository, _ *MockAlertProvider) {
				r.On("FindUsersWithExpenses", mock.Anything, mock.AnythingOfType("int"), mock.AnythingOfType("int")).
					Return(nil, errors.New("db error")).Once()
			},
		},
		{
			name: "ошибка генератора превышений",
			setupMocks: func(r *MockRepository, a *MockAlertProvider) {
				r.On("FindUsersWithExpenses", mock.Anything, mock.AnythingOfType("int"), mock.AnythingOfType("int")).
					Return([]*models.User{user}, nil).Once()
				a.On("Generate", mock.Anything, int64(1), mock.AnythingOfType("int"), mock.AnythingOfType("int")).
					Return(nil, errors.New("summary error")).Once()
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			alerts := new(MockAlertProvider)
			service := NewSchedulerService(repo, alerts, newNoopLogger())

			tt.setupMocks(repo, alerts)

			// Публикации не ожидаются ни в одном случае, канал не нужен
			service.runNotifyBudgetOverruns(context.Background(), nil)

			repo.AssertExpectations(t)
			alerts.AssertExpectations(t)
		})
	}
}

func TestSchedulerService_NewSchedulerService(t *testing.T) {
	repo := new(MockRepository)
	alerts := new(MockAlertProvider)
	logger := newNoopLogger()

	service := NewSchedulerService(repo, alerts, logger)

	assert.NotNil(t, service)
	assert.Equal(t, repo, service.repo)
	assert.Equal(t, alerts, service.alerts)
	assert.Equal(t, logger, service.log)
}
