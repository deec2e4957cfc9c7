package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateAndValidateAccessToken(t *testing.T) {
	tokenString, tokenID, expiresAt, err := GenerateAccessToken(3, "manager1", "MANAGER")

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.NotEmpty(t, tokenID)
	assert.WithinDuration(t, time.Now().Add(SessionTTL), expiresAt, time.Minute)

	claims, err := ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), claims.UserID)
	assert.Equal(t, "manager1", claims.Username)
	assert.Equal(t, "MANAGER", claims.Role)
	assert.Equal(t, tokenID, claims.ID)
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	tokenString, _, _, err := GenerateAccessToken(3, "manager1", "MANAGER")
	assert.NoError(t, err)

	// Flip a character in the signature segment.
	parts := strings.Split(tokenString, ".")
	assert.Len(t, parts, 3)
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("not-a-token")
	assert.Error(t, err)
}
