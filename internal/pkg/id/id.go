package id

import (
	"crypto/rand"

	"github.com/oklog/ulid/v2"
)

// New generates a new ULID string. Verification keys carry one so logs can
// refer to a key without printing its secret token.
func New() string {
	return ulid.MustNew(ulid.Now(), rand.Reader).String()
}
