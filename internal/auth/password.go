package auth

import (
	"errors"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinPasswordLength = 8
	// bcrypt учитывает только первые 72 байта
	MaxPasswordBytes = 72
)

var hashCost = bcrypt.DefaultCost

// SetHashCost меняет стоимость bcrypt (тесты используют bcrypt.MinCost).
func SetHashCost(cost int) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return
	}
	hashCost = cost
}

// HashPassword создает bcrypt хеш пароля
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), hashCost)
	return string(bytes), err
}

// CheckPasswordHash проверяет пароль против хеша
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ValidatePassword проверяет сложность пароля и возвращает все нарушенные правила.
func ValidatePassword(password, username, email string) []error {
	var problems []error

	if len([]rune(password)) < MinPasswordLength {
		problems = append(problems, errors.New("This password is too short. It must contain at least 8 characters."))
	}
	if len(password) > MaxPasswordBytes {
		problems = append(problems, errors.New("This password is too long."))
	}
	if password != "" && isNumeric(password) {
		problems = append(problems, errors.New("This password is entirely numeric."))
	}
	if isSimilar(password, username) || isSimilar(password, localPart(email)) {
		problems = append(problems, errors.New("The password is too similar to the username or email."))
	}

	return problems
}

func isNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isSimilar(password, attribute string) bool {
	if attribute == "" || password == "" {
		return false
	}
	return strings.EqualFold(password, attribute)
}

func localPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return ""
}
