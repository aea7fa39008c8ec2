package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const sessionIssuer = "mediavault"

var ErrInvalidSession = errors.New("invalid or expired session")

// SessionClaims - содержимое сессионного токена.
type SessionClaims struct {
	UserID  uint `json:"uid"`
	Version uint `json:"ver"`
	jwt.RegisteredClaims
}

// SessionManager выпускает и проверяет подписанные сессионные токены (HS256).
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Issue выпускает токен для пользователя и возвращает момент его истечения.
// version - текущая версия сессий пользователя, сверяется при каждом запросе.
func (m *SessionManager) Issue(userID, version uint) (string, time.Time, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	claims := SessionClaims{
		UserID:  userID,
		Version: version,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    sessionIssuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session token: %w", err)
	}
	return token, expiresAt, nil
}

// Parse проверяет подпись и срок действия токена.
func (m *SessionManager) Parse(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidSession
	}
	return claims, nil
}
