// Package services отвечает за регистрацию пользователей и проверку
// учётных данных при входе.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/darusc/expense-tracker/internal/lib/password"
	"github.com/darusc/expense-tracker/internal/models"
	"github.com/darusc/expense-tracker/internal/storage/repository"
)

// Сообщения об ошибках регистрации, показываемые в форме.
const (
	MsgUsernameTaken    = "Username is already taken"
	MsgUsernameTooShort = "Username must be at least 4 characters"
	MsgPasswordTooShort = "Password must be at least 8 characters"
	MsgPasswordNoDigit  = "Password must contain at least one number"
	MsgPasswordMismatch = "Passwords do not match"

	minUsernameLength = 4
	minPasswordLength = 8
)

// ErrInvalidCredentials возвращается при неверном имени пользователя
// или пароле. Ответ намеренно не различает эти случаи.
var ErrInvalidCredentials = errors.New("invalid username or password")

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его ID.
	RegisterUser(ctx context.Context, user models.User) (int64, error)
	// GetUserByUsername возвращает пользователя по имени.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService реализует бизнес-логику регистрации и входа.
type AuthService struct {
	users UserRepository
	log   *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, log *slog.Logger) *AuthService {
	return &AuthService{users: users, log: log}
}

// Register проверяет данные регистрации и создаёт пользователя.
// Все найденные ошибки накапливаются и возвращаются вместе; при ошибках
// валидации запись не создаётся. Email необязателен и нужен только
// для почтовых уведомлений о превышении бюджета.
func (s *AuthService) Register(ctx context.Context, username, rawPassword, passwordConfirm, email string) (*models.RegisterErrors, error) {
	const op = "services.auth.Register"

	var errs models.RegisterErrors

	_, err := s.users.GetUserByUsername(ctx, username)
	switch {
	case err == nil:
		errs.Username = MsgUsernameTaken
	case !errors.Is(err, repository.ErrUserNotFound):
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if utf8.RuneCountInString(username) < minUsernameLength {
		errs.Username = MsgUsernameTooShort
	}
	if len(rawPassword) < minPasswordLength {
		errs.Password = MsgPasswordTooShort
	}
	if !strings.ContainsAny(rawPassword, "0123456789") {
		errs.Password = MsgPasswordNoDigit
	}
	if rawPassword != passwordConfirm {
		errs.PasswordConfirm = MsgPasswordMismatch
	}
	if errs != (models.RegisterErrors{}) {
		s.log.Info("registration failed validation", slog.String("username", username))
		return &errs, nil
	}

	hash, err := password.GetHash(rawPassword)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.users.RegisterUser(ctx, models.User{
		Username:     username,
		PasswordHash: hash,
		Email:        email,
	})
	// Имя могли занять между проверкой и вставкой
	if errors.Is(err, repository.ErrUserAlreadyExists) {
		s.log.Info("registration lost race for username", slog.String("username", username))
		errs.Username = MsgUsernameTaken
		return &errs, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user registered", slog.Int64("id", id), slog.String("username", username))
	return nil, nil
}

// Login проверяет учётные данные и возвращает пользователя.
// При неизвестном имени и при неверном пароле возвращается одна и та же
// ошибка ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (*models.User, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByUsername(ctx, username)
	if errors.Is(err, repository.ErrUserNotFound) {
		s.log.Info("login failed: unknown username", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		s.log.Info("login failed: wrong password", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
