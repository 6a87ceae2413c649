package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
)

func TestJWTUtil_GenerateToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1)

	tokenString, err := jwtUtil.GenerateToken(7, 3, "subuser", []string{"estimates", "reports"})

	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	// Validate the token to ensure it's well-formed and contains correct claims
	claims, err := jwtUtil.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, 7, claims.UserID)
	assert.Equal(t, 3, claims.AccountID)
	assert.Equal(t, "subuser", claims.Role)
	assert.Equal(t, []string{"estimates", "reports"}, claims.Permissions)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestJWTUtil_ValidateToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1)

	tokenString, _ := jwtUtil.GenerateToken(1, 1, "owner", nil)

	claims, err := jwtUtil.ValidateToken(tokenString)

	assert.NoError(t, err)
	assert.NotNil(t, claims)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, 1, claims.AccountID)
	assert.Equal(t, "owner", claims.Role)
	assert.Empty(t, claims.Permissions)
}

func TestJWTUtil_ValidateToken_InvalidToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1)

	_, err := jwtUtil.ValidateToken("invalid.token.string")
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_ExpiredToken(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", -1) // Token expires in the past

	tokenString, _ := jwtUtil.GenerateToken(1, 1, "owner", nil)

	// Wait for a moment to ensure the token is definitely expired if system clock is slightly off
	time.Sleep(1 * time.Second)

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestJWTUtil_ValidateToken_WrongSecret(t *testing.T) {
	jwtUtil1 := NewJWTUtil("secret1", 1)
	jwtUtil2 := NewJWTUtil("secret2", 1)

	tokenString, _ := jwtUtil1.GenerateToken(1, 1, "owner", nil)

	_, err := jwtUtil2.ValidateToken(tokenString)
	assert.Error(t, err)
}

func TestJWTUtil_ValidateToken_InvalidSigningMethod(t *testing.T) {
	jwtUtil := NewJWTUtil("secret", 1)
	// Create a token with a different signing method (e.g., HS384 instead of HS256)
	claims := &JWTClaims{
		UserID:    1,
		AccountID: 1,
		Role:      "owner",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS384, claims)
	// Sign with the same secret, as the key type is compatible for HMAC algorithms
	tokenString, _ := token.SignedString([]byte("secret"))

	_, err := jwtUtil.ValidateToken(tokenString)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected signing method")
}
