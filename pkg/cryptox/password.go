package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"math/big"
)

// SaltLength is the length of per-user salts stored alongside password
// hashes. Salts only exist to defeat precomputed tables, so alphanumeric
// characters are plenty.
const SaltLength = 16

const saltCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SaltPassword returns hex(SHA-256(password || salt)). Clients send an
// already-hashed password; this adds the per-user salt before storage so two
// users with the same password never share a stored hash.
func SaltPassword(password, salt string) string {
	h := sha256.New()
	h.Write([]byte(password))
	h.Write([]byte(salt))
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyPassword compares a presented password against the stored salted
// hash in constant time.
func VerifyPassword(password, salt, saltedHash string) bool {
	computed := SaltPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(saltedHash)) == 1
}

// NewSalt generates a fresh per-user salt of SaltLength alphanumeric
// characters.
func NewSalt() (string, error) {
	salt := make([]byte, SaltLength)
	for i := range salt {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(saltCharset))))
		if err != nil {
			return "", fmt.Errorf("cryptox: failed to generate salt: %w", err)
		}
		salt[i] = saltCharset[n.Int64()]
	}
	return string(salt), nil
}
