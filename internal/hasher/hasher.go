// Package hasher provides the one-way digest used to verify the master
// password.
package hasher

import (
	"crypto/sha256"
	"encoding/hex"
)

// Hasher produces a fixed-length digest of a password for comparison.
type Hasher interface {
	// Digest returns a deterministic, hex-encoded digest of password.
	Digest(password string) string
}

// SHA256 implements Hasher with a single unsalted SHA-256 pass, matching the
// digests in existing vault files. There is no salt and no iteration count,
// so the digest offers no brute-force hardening; it only avoids keeping the
// master password itself on disk.
type SHA256 struct{}

// Digest returns the hex-encoded SHA-256 digest of password.
func (SHA256) Digest(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
