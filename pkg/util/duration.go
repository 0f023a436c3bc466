package util

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// unitSeconds maps RouterOS duration unit tokens to seconds. Longer tokens
// must be matched before their prefixes (ms before m).
var unitSeconds = []struct {
	token string
	secs  float64
}{
	{"w", 604800},
	{"d", 86400},
	{"h", 3600},
	{"ms", 0.001},
	{"m", 60},
	{"s", 1},
}

// ParseROSDuration parses a RouterOS duration string such as "4w2d3h4m5s",
// "1d12h", "10s500ms" or "0s" into a time.Duration. RouterOS reports uptimes
// and hold timers in this concatenated unit format; the empty string parses
// to zero.
func ParseROSDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	var total float64
	rest := s
	for rest != "" {
		i := 0
		for i < len(rest) && (unicode.IsDigit(rune(rest[i])) || rest[i] == '.') {
			i++
		}
		if i == 0 {
			return 0, fmt.Errorf("invalid duration %q: expected digit at %q", s, rest)
		}
		value, err := strconv.ParseFloat(rest[:i], 64)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q: %w", s, err)
		}
		rest = rest[i:]

		matched := false
		for _, u := range unitSeconds {
			if strings.HasPrefix(rest, u.token) {
				total += value * u.secs
				rest = rest[len(u.token):]
				matched = true
				break
			}
		}
		if !matched {
			return 0, fmt.Errorf("invalid duration %q: unknown unit at %q", s, rest)
		}
	}

	return time.Duration(total * float64(time.Second)), nil
}

// ROSDurationSeconds parses a RouterOS duration and returns whole seconds.
// Used by getters whose normalized schema reports uptimes in seconds.
func ROSDurationSeconds(s string) (int64, error) {
	d, err := ParseROSDuration(s)
	if err != nil {
		return 0, err
	}
	return int64(d / time.Second), nil
}
