package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndCheckPassword(t *testing.T) {
	SetHashCost(bcrypt.MinCost)

	hash, err := HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	assert.True(t, CheckPasswordHash("s3cret-pass", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		problems int
	}{
		{"strong", "correct-horse-battery", 0},
		{"too short", "abc12", 1},
		{"numeric", "1234567890", 1},
		{"short and numeric", "1234", 2},
		{"same as username", "alice-wonder", 1},
		{"same as email local part", "alice.mail", 1},
		{"too long", strings.Repeat("a", 73), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problems := ValidatePassword(tt.password, "alice-wonder", "alice.mail@example.com")
			assert.Len(t, problems, tt.problems)
		})
	}
}
