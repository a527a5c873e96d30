// Package jwt implements generation and parsing of the signed bearer tokens
// used by the API.
//
// Tokens carry the user id and email plus a token_use claim that separates
// login-session tokens from password-reset tokens, so a reset link can never
// double as a session token.
package jwt

import (
	"time"
)

// Token uses. A token minted for one use is rejected when presented for the
// other.
const (
	TokenUseAccess = "access"
	TokenUseReset  = "reset"
)

// Maker describes the interface for generating and parsing tokens.
type Maker interface {
	// GenerateToken mints a signed token for the given user and use.
	GenerateToken(userID, email, tokenUse string) (string, error)
	// ParseToken validates the signature, expiry and token use, and returns
	// the embedded claims.
	ParseToken(tokenStr, expectedUse string) (*Claims, error)
}

// MakerImpl implements Maker with an HMAC secret key and a token TTL.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
}

// NewJWTMaker creates a MakerImpl from the secret key and TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
