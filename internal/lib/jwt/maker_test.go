package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTMaker_GenerateAndParseToken_ValidCases(t *testing.T) {
	secretKey := "test_secret_key_1234567890"
	tokenTTL := 15 * time.Minute
	maker := NewJWTMaker(secretKey, tokenTTL)

	tests := []struct {
		name     string
		userID   string
		email    string
		tokenUse string
	}{
		{
			name:     "access token",
			userID:   "2f6f7f3e-9f4b-4f7e-8a2a-111111111111",
			email:    "ana@vocesdelaextincion.org",
			tokenUse: TokenUseAccess,
		},
		{
			name:     "reset token",
			userID:   "2f6f7f3e-9f4b-4f7e-8a2a-222222222222",
			email:    "luis@vocesdelaextincion.org",
			tokenUse: TokenUseReset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := maker.GenerateToken(tt.userID, tt.email, tt.tokenUse)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			claims, err := maker.ParseToken(token, tt.tokenUse)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.email, claims.Email)
			assert.Equal(t, tt.tokenUse, claims.TokenUse)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestJWTMaker_ParseToken_WrongUse(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	resetToken, err := maker.GenerateToken("uid-1", "ana@vocesdelaextincion.org", TokenUseReset)
	require.NoError(t, err)

	_, err = maker.ParseToken(resetToken, TokenUseAccess)
	assert.Error(t, err)

	accessToken, err := maker.GenerateToken("uid-1", "ana@vocesdelaextincion.org", TokenUseAccess)
	require.NoError(t, err)

	_, err = maker.ParseToken(accessToken, TokenUseReset)
	assert.Error(t, err)
}

func TestJWTMaker_ParseToken_InvalidTokens(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name     string
		tokenStr string
	}{
		{name: "empty token", tokenStr: ""},
		{name: "garbage token", tokenStr: "not.a.token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := maker.ParseToken(tt.tokenStr, TokenUseAccess)
			assert.Error(t, err)
		})
	}
}

func TestJWTMaker_ParseToken_WrongKey(t *testing.T) {
	maker := NewJWTMaker("first_secret_key", 15*time.Minute)
	other := NewJWTMaker("second_secret_key", 15*time.Minute)

	token, err := maker.GenerateToken("uid-1", "ana@vocesdelaextincion.org", TokenUseAccess)
	require.NoError(t, err)

	_, err = other.ParseToken(token, TokenUseAccess)
	assert.Error(t, err)
}

func TestJWTMaker_ParseToken_Expired(t *testing.T) {
	maker := NewJWTMaker("test_secret_key_1234567890", -time.Minute)

	token, err := maker.GenerateToken("uid-1", "ana@vocesdelaextincion.org", TokenUseAccess)
	require.NoError(t, err)

	_, err = maker.ParseToken(token, TokenUseAccess)
	assert.Error(t, err)
}
