package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"

	"github.com/darusc/expense-tracker/internal/models"
	services "github.com/darusc/expense-tracker/internal/services/auth"
	"github.com/darusc/expense-tracker/internal/storage/repository"
)

// Мок для UserRepository
type UserRepoMock struct {
	mock.Mock
}

func (m *UserRepoMock) RegisterUser(ctx context.Context, user models.User) (int64, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(int64), args.Error(1)
}

func (m *UserRepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name            string
		username        string
		password        string
		passwordConfirm string
		email           string
		setupMocks      func(*UserRepoMock)
		wantErrs        *models.RegisterErrors
		wantErr         bool
	}{
		{
			name:            "успешная регистрация",
			username:        "newuser",
			password:        "password1",
			passwordConfirm: "password1",
			email:           "new@example.com",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "newuser").
					Return(nil, repository.ErrUserNotFound).Once()
				r.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
					return u.Username == "newuser" && u.Email == "new@example.com" && u.PasswordHash != ""
				})).Return(int64(1), nil).Once()
			},
			wantErrs: nil,
		},
		{
			name:            "успешная регистрация без email",
			username:        "newuser",
			password:        "password1",
			passwordConfirm: "password1",
			email:           "",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "newuser").
					Return(nil, repository.ErrUserNotFound).Once()
				r.On("RegisterUser", mock.Anything, mock.AnythingOfType("models.User")).
					Return(int64(2), nil).Once()
			},
			wantErrs: nil,
		},
		{
			name:            "имя занято - пароль не проверяет существующий аккаунт",
			username:        "existing",
			password:        "password1",
			passwordConfirm: "password1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "existing").
					Return(&models.User{ID: 7, Username: "existing"}, nil).Once()
			},
			wantErrs: &models.RegisterErrors{Username: services.MsgUsernameTaken},
		},
		{
			name:            "имя занято между проверкой и вставкой",
			username:        "existing",
			password:        "password1",
			passwordConfirm: "password1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "existing").
					Return(nil, repository.ErrUserNotFound).Once()
				r.On("RegisterUser", mock.Anything, mock.AnythingOfType("models.User")).
					Return(int64(0), repository.ErrUserAlreadyExists).Once()
			},
			wantErrs: &models.RegisterErrors{Username: services.MsgUsernameTaken},
		},
		{
			name:            "все ошибки накапливаются",
			username:        "ab",
			password:        "short",
			passwordConfirm: "other",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ab").
					Return(nil, repository.ErrUserNotFound).Once()
			},
			wantErrs: &models.RegisterErrors{
				Username:        services.MsgUsernameTooShort,
				Password:        services.MsgPasswordNoDigit,
				PasswordConfirm: services.MsgPasswordMismatch,
			},
		},
		{
			name:            "пароль без цифры",
			username:        "validname",
			password:        "longenoughpassword",
			passwordConfirm: "longenoughpassword",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "validname").
					Return(nil, repository.ErrUserNotFound).Once()
			},
			wantErrs: &models.RegisterErrors{Password: services.MsgPasswordNoDigit},
		},
		{
			name:            "ошибка хранилища",
			username:        "newuser",
			password:        "password1",
			passwordConfirm: "password1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "newuser").
					Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			service := services.NewAuthService(repo, newNoopLogger())

			errs, err := service.Register(context.Background(), tt.username, tt.password, tt.passwordConfirm, tt.email)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantErrs, errs)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("password1"), bcrypt.MinCost)
	assert.NoError(t, err)
	user := &models.User{ID: 1, Username: "testuser", PasswordHash: string(hash)}

	tests := []struct {
		name       string
		username   string
		password   string
		setupMocks func(*UserRepoMock)
		wantErr    error
	}{
		{
			name:     "успешный вход",
			username: "testuser",
			password: "password1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(user, nil).Once()
			},
		},
		{
			name:     "неизвестное имя пользователя",
			username: "ghost",
			password: "password1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "ghost").
					Return(nil, repository.ErrUserNotFound).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
		{
			name:     "неверный пароль - та же ошибка, что и для неизвестного имени",
			username: "testuser",
			password: "wrongpass1",
			setupMocks: func(r *UserRepoMock) {
				r.On("GetUserByUsername", mock.Anything, "testuser").Return(user, nil).Once()
			},
			wantErr: services.ErrInvalidCredentials,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(UserRepoMock)
			tt.setupMocks(repo)
			service := services.NewAuthService(repo, newNoopLogger())

			got, err := service.Login(context.Background(), tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, user, got)
			}
			repo.AssertExpectations(t)
		})
	}
}
