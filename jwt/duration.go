package jwt

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

var unitSeconds = map[byte]int64{
	's': 1,
	'm': 60,
	'h': 60 * 60,
	'd': 60 * 60 * 24,
}

// ParseExpiresIn parses "<integer><unit>" with unit one of s, m, h or d.
// Anything else, including a bare number or an empty string, fails with [ErrInvalidDuration].
func ParseExpiresIn(value string) (time.Duration, error) {
	seconds, err := parseSeconds(value)
	if err != nil {
		return 0, err
	}
	if seconds > math.MaxInt64/int64(time.Second) {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidDuration, value)
	}
	return time.Duration(seconds) * time.Second, nil
}

func parseSeconds(value string) (int64, error) {
	if len(value) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, value)
	}

	multiplier, ok := unitSeconds[value[len(value)-1]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, value)
	}

	digits := value[:len(value)-1]
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return 0, fmt.Errorf("%w: %q", ErrInvalidDuration, value)
		}
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n > math.MaxInt64/multiplier {
		return 0, fmt.Errorf("%w: %q overflows", ErrInvalidDuration, value)
	}

	return n * multiplier, nil
}
