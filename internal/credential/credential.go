// Package credential derives and verifies portal passwords. Plaintext never
// leaves this package once hashed; stored records are self-contained
// ("hash.salt") so verification needs no side table.
package credential

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters: interactive-login strength (N=32768, r=8, p=1).
const (
	scryptN   = 32768
	scryptR   = 8
	scryptP   = 1
	keyLength = 64
	saltBytes = 16
)

// Hash derives a salted scrypt hash with a fresh random salt and returns a
// single "hash.salt" record (both segments hex-encoded).
func Hash(plaintext string) (string, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(plaintext), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return hex.EncodeToString(key) + "." + hex.EncodeToString(salt), nil
}

// Verify re-derives the key with the salt embedded in record and compares in
// constant time. Malformed records fail verification; they never panic or
// surface an error to callers, who must treat any failure as "not
// authenticated".
func Verify(plaintext, record string) bool {
	hashSegment, saltSegment, ok := strings.Cut(record, ".")
	if !ok {
		return false
	}

	stored, err := hex.DecodeString(hashSegment)
	if err != nil || len(stored) != keyLength {
		return false
	}
	salt, err := hex.DecodeString(saltSegment)
	if err != nil || len(salt) == 0 {
		return false
	}

	key, err := scrypt.Key([]byte(plaintext), salt, scryptN, scryptR, scryptP, keyLength)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(key, stored) == 1
}
