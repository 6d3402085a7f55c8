package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/darusc/expense-tracker/internal/config"
)

// ErrSessionNotFound возвращается, когда сессия с указанным ID
// отсутствует или истекла.
var ErrSessionNotFound = errors.New("session not found")

// Store хранит сессии в Redis. Данные сериализуются в JSON,
// время жизни ключа продлевается при каждом сохранении.
type Store struct {
	db     *redis.Client
	ttl    time.Duration
	cookie config.Session
}

// NewStore создаёт подключение к Redis и проверяет его доступность.
func NewStore(ctx context.Context, redisCfg config.RedisConnection, sessionCfg config.Session) (*Store, error) {
	const op = "session.NewStore"
	db := redis.NewClient(&redis.Options{
		Addr:         redisCfg.AddressRedis,
		Password:     redisCfg.Password,
		DB:           redisCfg.DB,
		Username:     redisCfg.User,
		MaxRetries:   redisCfg.MaxRetries,
		DialTimeout:  redisCfg.DialTimeout,
		ReadTimeout:  redisCfg.TimeoutRedis,
		WriteTimeout: redisCfg.TimeoutRedis,
	})

	if err := db.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{db: db, ttl: sessionCfg.TTL, cookie: sessionCfg}, nil
}

// CookieName возвращает имя сессионной cookie.
func (st *Store) CookieName() string {
	return st.cookie.CookieName
}

// WriteCookie выставляет сессионную cookie с идентификатором сессии.
// Вызывается после создания сессии и после ротации идентификатора.
func (st *Store) WriteCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     st.cookie.CookieName,
		Value:    s.ID,
		Path:     "/",
		MaxAge:   int(st.ttl.Seconds()),
		HttpOnly: true,
		Secure:   st.cookie.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie удаляет сессионную cookie в ответе.
func (st *Store) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     st.cookie.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   st.cookie.SecureCookie,
		SameSite: http.SameSiteLaxMode,
	})
}

func sessionKey(id string) string {
	return "session:" + id
}

// Create создаёт пустую сессию со свежим идентификатором и сохраняет её.
func (st *Store) Create(ctx context.Context) (*Session, error) {
	const op = "session.Create"
	s := &Session{ID: uuid.New().String()}
	if err := st.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Get возвращает сессию по идентификатору.
func (st *Store) Get(ctx context.Context, id string) (*Session, error) {
	const op = "session.Get"
	val, err := st.db.Get(ctx, sessionKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s: %w", op, ErrSessionNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s := &Session{ID: id}
	if err := json.Unmarshal([]byte(val), &s.Data); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// Save сохраняет данные сессии и продлевает её время жизни.
func (st *Store) Save(ctx context.Context, s *Session) error {
	const op = "session.Save"
	jsonData, err := json.Marshal(s.Data)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := st.db.Set(ctx, sessionKey(s.ID), jsonData, st.ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Rotate выдаёт сессии новый идентификатор и удаляет старый ключ.
// Вызывается после успешного входа для защиты от фиксации сессии.
func (st *Store) Rotate(ctx context.Context, s *Session) error {
	const op = "session.Rotate"
	oldID := s.ID
	s.ID = uuid.New().String()
	if err := st.Save(ctx, s); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := st.db.Del(ctx, sessionKey(oldID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Destroy полностью удаляет сессию и сбрасывает её данные.
// Вызывается при выходе пользователя.
func (st *Store) Destroy(ctx context.Context, s *Session) error {
	const op = "session.Destroy"
	if err := st.db.Del(ctx, sessionKey(s.ID)).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.Data = Data{}
	return nil
}
