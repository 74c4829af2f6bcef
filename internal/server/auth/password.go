// Package auth implements the credential primitives of the user domain:
// password hashing and verification, constant-time comparison, API key and
// reset-password generation, and signed session tokens.
package auth

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// Hasher derives password hashes. The legacy scheme combines a process-wide
// secret salt with the plaintext using SHA-1; it is deterministic and does
// not depend on the username, so two accounts with the same password share
// the same hash. That equality leak is an inherited limitation kept for
// compatibility with existing credential rows. Deployments can opt newly set
// passwords into bcrypt, which salts per hash; Verify detects the scheme
// from the stored value.
type Hasher struct {
	salt      string
	useBcrypt bool
}

// NewHasher constructs a Hasher. The salt comes from configuration, loaded
// once at startup, never from user input.
func NewHasher(salt string, useBcryptForNewPasswords bool) *Hasher {
	return &Hasher{salt: salt, useBcrypt: useBcryptForNewPasswords}
}

// Hash derives the stored hash for a plaintext password using the scheme
// configured for new passwords.
func (h *Hasher) Hash(password string) (string, error) {
	if h.useBcrypt {
		b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	return h.legacyHash(password), nil
}

// legacyHash is the salt--password digest the original credential rows were
// written with. The exact framing matters: changing it would invalidate
// every stored hash.
func (h *Hasher) legacyHash(password string) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%s--%s--", h.salt, password)))
	return hex.EncodeToString(sum[:])
}

// Verify reports whether password matches the stored hash, regardless of
// which scheme produced it. Comparison of legacy hashes is constant-time.
func (h *Hasher) Verify(storedHash, password string) bool {
	if storedHash == "" {
		return false
	}
	if strings.HasPrefix(storedHash, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(password)) == nil
	}
	return SecureEqual(storedHash, h.legacyHash(password))
}

// SecureEqual compares two strings in time independent of where the first
// mismatching byte occurs.
func SecureEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

const (
	passwordConsonants = "bcdfghjklmnpqrstvwxyz"
	passwordVowels     = "aeiou"
	passwordSyllables  = 4
)

// GenerateResetPassword produces a pronounceable random password: four
// consonant+vowel syllables followed by a two-digit number. It is returned
// once in plaintext for out-of-band delivery and never persisted.
func GenerateResetPassword() (string, error) {
	var sb strings.Builder
	for i := 0; i < passwordSyllables; i++ {
		c, err := randIndex(len(passwordConsonants))
		if err != nil {
			return "", err
		}
		v, err := randIndex(len(passwordVowels))
		if err != nil {
			return "", err
		}
		sb.WriteByte(passwordConsonants[c])
		sb.WriteByte(passwordVowels[v])
	}
	n, err := randIndex(100)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&sb, "%02d", n)
	return sb.String(), nil
}

func randIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}
