package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
)

// Hasher derives deterministic password digests from a process-wide secret.
// The salt is fixed per deployment: url-safe base64 of sha256(secret).
// Identical plaintext and secret always produce the same digest, which is
// what lets stored hashes be verified by recompute-and-compare. Changing
// the secret invalidates every stored credential.
type Hasher struct {
	salt []byte
}

// NewHasher precomputes the deployment salt from secret.
func NewHasher(secret string) *Hasher {
	sum := sha256.Sum256([]byte(secret))
	salt := base64.URLEncoding.EncodeToString(sum[:])
	return &Hasher{salt: []byte(salt)}
}

// Hash returns the lowercase hex sha512 digest of salt || plaintext.
func (h *Hasher) Hash(plaintext string) string {
	d := sha512.New()
	d.Write(h.salt)
	d.Write([]byte(plaintext))
	return hex.EncodeToString(d.Sum(nil))
}

// Verify recomputes the digest for plaintext and compares it to stored in
// constant time.
func (h *Hasher) Verify(plaintext, stored string) bool {
	return hmac.Equal([]byte(h.Hash(plaintext)), []byte(stored))
}
