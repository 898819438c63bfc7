package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// ResetTokenTTL is how long a password-reset token stays consumable.
const ResetTokenTTL = 10 * time.Minute

// resetTokenBytes sizes the random token; 32 bytes yields a 64-character
// hex string.
const resetTokenBytes = 32

// NewResetToken generates a high-entropy password-reset token. The
// plaintext is returned once for out-of-band delivery; only the hash may
// be persisted.
func NewResetToken() (plaintext, hash string, err error) {
	buf := make([]byte, resetTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", "", fmt.Errorf("failed to generate reset token: %w", err)
	}

	plaintext = hex.EncodeToString(buf)
	return plaintext, HashResetToken(plaintext), nil
}

// HashResetToken derives the one-way hash under which a reset token is
// stored and later looked up.
func HashResetToken(plaintext string) string {
	sum := sha256.Sum256([]byte(plaintext))
	return hex.EncodeToString(sum[:])
}
