package token

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// DefaultSessionDuration is used for any duration string the grammar does not recognise.
const DefaultSessionDuration = 7 * 24 * time.Hour

// ParseMillis converts a duration string such as "30s", "15m", "2h" or "7d"
// into milliseconds. The final character is the unit and the leading integer
// of the remainder is the magnitude; anything after that integer is ignored.
// An unknown unit, a missing magnitude or a product that overflows int64
// yields seven days.
func ParseMillis(s string) int64 {
	if s == "" {
		return DefaultSessionDuration.Milliseconds()
	}

	var unitMillis int64
	switch s[len(s)-1] {
	case 's':
		unitMillis = 1000
	case 'm':
		unitMillis = 60 * 1000
	case 'h':
		unitMillis = 60 * 60 * 1000
	case 'd':
		unitMillis = 24 * 60 * 60 * 1000
	default:
		return DefaultSessionDuration.Milliseconds()
	}

	magnitude, ok := leadingInt(s[:len(s)-1])
	if !ok || magnitude > math.MaxInt64/unitMillis || magnitude < math.MinInt64/unitMillis {
		return DefaultSessionDuration.Milliseconds()
	}
	return magnitude * unitMillis
}

// ParseDuration is ParseMillis as a time.Duration. Values beyond the range of
// time.Duration (about 292 years) yield seven days.
func ParseDuration(s string) time.Duration {
	millis := ParseMillis(s)
	if millis > math.MaxInt64/int64(time.Millisecond) || millis < math.MinInt64/int64(time.Millisecond) {
		return DefaultSessionDuration
	}
	return time.Duration(millis) * time.Millisecond
}

// leadingInt reads an optionally signed run of digits after leading whitespace.
func leadingInt(s string) (int64, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, false
	}
	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
