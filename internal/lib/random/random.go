// Package random generates the opaque tokens used for email verification.
package random

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Token returns a hex-encoded random string of 2*n characters.
// Used for single-use verification tokens sent by email.
func Token(n int) (string, error) {
	const op = "random.Token"
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(b), nil
}
