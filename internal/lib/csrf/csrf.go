// Package csrf генерирует и проверяет одноразовые токены для защиты
// HTML-форм от межсайтовой подделки запросов. Токен выдаётся при показе
// формы, прячется в скрытом поле и сверяется при отправке.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// NewToken возвращает случайный токен из 32 байт в hex-представлении.
func NewToken() (string, error) {
	const op = "csrf.NewToken"
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}

// Verify сравнивает токен из формы с токеном из сессии за постоянное время.
func Verify(expected, got string) bool {
	if expected == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(expected), []byte(got)) == 1
}
