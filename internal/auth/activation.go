package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"mediavault_backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const activationIssuer = "mediavault-activation"

var ErrInvalidUID = errors.New("invalid uid")

type activationClaims struct {
	Fingerprint string `json:"fp"`
	jwt.RegisteredClaims
}

// ActivationTokens выпускает одноразовые токены активации.
// Токен привязан к отпечатку состояния пользователя: после активации
// отпечаток меняется и токен перестаёт проходить проверку.
type ActivationTokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewActivationTokens(secret string, ttl time.Duration) *ActivationTokens {
	return &ActivationTokens{
		// отдельный ключ, чтобы сессионный токен нельзя было выдать за токен активации
		secret: []byte("activation:" + secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (a *ActivationTokens) Make(user *models.User) (string, error) {
	now := a.now()
	claims := activationClaims{
		Fingerprint: fingerprint(user),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    activationIssuer,
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign activation token: %w", err)
	}
	return token, nil
}

// Check возвращает true, если токен выпущен для этого пользователя в его текущем состоянии.
func (a *ActivationTokens) Check(user *models.User, tokenString string) bool {
	if user == nil || tokenString == "" {
		return false
	}

	claims := &activationClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(activationIssuer),
		jwt.WithSubject(strconv.FormatUint(uint64(user.ID), 10)),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil || !token.Valid {
		return false
	}

	expected := fingerprint(user)
	return subtle.ConstantTimeCompare([]byte(claims.Fingerprint), []byte(expected)) == 1
}

func fingerprint(user *models.User) string {
	var lastLogin int64
	if user.LastLogin != nil {
		lastLogin = user.LastLogin.Unix()
	}
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%s|%t|%d|%s",
		user.ID, user.PasswordHash, user.IsActive, lastLogin, user.Email)))
	return hex.EncodeToString(sum[:])
}

// EncodeUID кодирует id пользователя для ссылки активации.
func EncodeUID(id uint) string {
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatUint(uint64(id), 10)))
}

func DecodeUID(uid string) (uint, error) {
	raw, err := base64.RawURLEncoding.DecodeString(uid)
	if err != nil {
		return 0, ErrInvalidUID
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidUID
	}
	return uint(id), nil
}
