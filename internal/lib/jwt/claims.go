package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims describes the custom data carried by a token.
type Claims struct {
	UserID               string `json:"user_id"`
	Email                string `json:"email"`
	TokenUse             string `json:"token_use"`
	jwt.RegisteredClaims        // ExpiresAt, IssuedAt and the other standard claims
}

// GenerateToken mints an HS256 token with the given user id, email and use.
// The lifetime is determined by tokenTTL.
func (j *MakerImpl) GenerateToken(userID, email, tokenUse string) (string, error) {
	claims := Claims{
		UserID:   userID,
		Email:    email,
		TokenUse: tokenUse,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(j.tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(j.secretKey))
}

// ParseToken parses and validates a token, and checks that it was minted for
// expectedUse. Returns the claims when the token is valid.
func (j *MakerImpl) ParseToken(tokenStr, expectedUse string) (*Claims, error) {
	const op = "jwt.ParseToken"
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(j.secretKey), nil
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%s: invalid token", op)
	}
	if claims.TokenUse != expectedUse {
		return nil, fmt.Errorf("%s: token not valid for %s use", op, expectedUse)
	}
	return claims, nil
}
