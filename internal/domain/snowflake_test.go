package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSnowflake(t *testing.T) {
	s, err := ParseSnowflake("175928847299117063")
	require.NoError(t, err)
	assert.Equal(t, Snowflake(175928847299117063), s)
	assert.Equal(t, "175928847299117063", s.String())
}

func TestParseSnowflake_Invalid(t *testing.T) {
	for _, in := range []string{"", "abc", "-1", "0"} {
		_, err := ParseSnowflake(in)
		assert.True(t, errors.Is(err, ErrBadRequest), in)
	}
}

func TestVerificationKey_Expired(t *testing.T) {
	now := time.Now()
	assert.False(t, VerificationKey{}.Expired(now), "zero expiry never expires")
	assert.False(t, VerificationKey{ExpiresAt: now.Add(time.Minute)}.Expired(now))
	assert.True(t, VerificationKey{ExpiresAt: now}.Expired(now))
}
