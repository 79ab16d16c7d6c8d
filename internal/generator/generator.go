// Package generator produces random passwords from a fixed character pool
// using a cryptographically secure source.
package generator

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultLength is the password length used when the caller does not ask for
// a specific one.
const DefaultLength = 16

// pool contains every character a generated password may draw from:
// uppercase, lowercase, digits and punctuation.
const pool = "ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"abcdefghijklmnopqrstuvwxyz" +
	"0123456789" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// Generate returns a random string of exactly length characters, each drawn
// independently and uniformly from the pool via crypto/rand. There is no
// guarantee that every character class is represented.
func Generate(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("password length must be at least 1, got %d", length)
	}
	max := big.NewInt(int64(len(pool)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("read random index: %w", err)
		}
		out[i] = pool[n.Int64()]
	}
	return string(out), nil
}
