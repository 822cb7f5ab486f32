package token

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// VerificationKeyLength gives ~190 bits of entropy over the 62-symbol alphabet.
const VerificationKeyLength = 32

// NewVerificationKey generates a random alphanumeric verification key.
func NewVerificationKey() (string, error) {
	return Alphanumeric(VerificationKeyLength)
}

// Alphanumeric returns n characters drawn uniformly from [A-Za-z0-9] using crypto/rand.
func Alphanumeric(n int) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate token: %w", err)
		}
		b[i] = alphabet[idx.Int64()]
	}
	return string(b), nil
}
