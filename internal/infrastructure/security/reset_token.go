package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const resetTokenBytes = 32

// ResetTokens generates opaque password-reset tokens.
// Only the SHA-256 digest is stored, so a leaked table cannot be replayed.
type ResetTokens struct{}

func NewResetTokens() ResetTokens { return ResetTokens{} }

func (ResetTokens) Generate() (string, error) {
	b := make([]byte, resetTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (ResetTokens) Digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
