// Package roomcode produces the short, human-shareable codes that identify
// rooms. Codes carry no uniqueness guarantee on their own; the registry
// retries generation when a code collides with a live room.
package roomcode

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// Base-36 alphabet, uppercase. Room ids are case-insensitive on input and
// normalized to this alphabet.
const alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Length is the fixed room code length.
const Length = 6

// Generate returns a random room code.
func Generate() (string, error) {
	code := make([]byte, Length)
	max := big.NewInt(int64(len(alphabet)))

	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = alphabet[n.Int64()]
	}

	return string(code), nil
}

// Normalize uppercases a client-supplied room id. Everywhere else the id is
// an opaque string.
func Normalize(roomID string) string {
	return strings.ToUpper(roomID)
}

// IsValid reports whether a code has the generated shape.
func IsValid(code string) bool {
	if len(code) != Length {
		return false
	}

	for _, c := range code {
		if !strings.ContainsRune(alphabet, c) {
			return false
		}
	}
	return true
}
