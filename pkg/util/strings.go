package util

import (
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// SplitCommaSeparated splits a comma-separated string and trims whitespace from each element.
// Empty input returns nil.
func SplitCommaSeparated(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// SortNaturally sorts strings in place so that embedded numbers compare
// numerically: ether2 sorts before ether10. Interface lists are reported in
// this order.
func SortNaturally(items []string) {
	sort.Slice(items, func(i, j int) bool {
		return naturalLess(items[i], items[j])
	})
}

func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, cb := chunk(a), chunk(b)
		if ca != cb {
			na, errA := strconv.Atoi(ca)
			nb, errB := strconv.Atoi(cb)
			if errA == nil && errB == nil {
				return na < nb
			}
			return ca < cb
		}
		a, b = a[len(ca):], b[len(cb):]
	}
	return len(a) < len(b)
}

// chunk returns the leading run of digits or non-digits.
func chunk(s string) string {
	isDigit := unicode.IsDigit(rune(s[0]))
	for i := 1; i < len(s); i++ {
		if unicode.IsDigit(rune(s[i])) != isDigit {
			return s[:i]
		}
	}
	return s
}
