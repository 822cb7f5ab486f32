package domain

import (
	"fmt"
	"strconv"
)

// Snowflake is a chat-platform identifier (guild, member, role, channel).
// It stays numeric so the registry document keeps the {"id": 123} shape.
type Snowflake uint64

// ParseSnowflake parses the decimal string form used by the platform API.
func ParseSnowflake(s string) (Snowflake, error) {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, fmt.Errorf("invalid snowflake %q: %w", s, ErrBadRequest)
	}
	return Snowflake(n), nil
}

func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}
