package entities

import (
	"strconv"

	"github.com/cuemby/anchorage/pkg/errors"
)

var byteUnits = map[byte]int64{
	'k': 1024,
	'm': 1024 * 1024,
	'g': 1024 * 1024 * 1024,
}

// ParseBytes parses a memory-limit value: a plain digit string (bytes),
// or a digit string with a trailing unit suffix k/m/g (power-of-1024).
// Any other suffix is a fatal configuration error. An empty string
// yields zero (no limit configured).
//
// The grammar is deliberately narrow: only k/m/g suffixes and bare
// digits are valid, so typos like "10x" fail instead of silently
// parsing as a different limit.
func ParseBytes(subject, s string) (int64, error) {
	if s == "" {
		return 0, nil
	}

	suffix := s[len(s)-1]
	lower := suffix | 0x20 // ASCII lowercase
	if mult, ok := byteUnits[lower]; ok {
		digits := s[:len(s)-1]
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return 0, errors.WrapConfigurationError(subject, err, "invalid memory value %q", s)
		}
		return n * mult, nil
	}

	if !isAllDigits(s) {
		return 0, errors.NewConfigurationError(subject, "unknown unit suffix %q in %q", string(suffix), s)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.WrapConfigurationError(subject, err, "invalid memory value %q", s)
	}
	return n, nil
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// FormatBytes renders n in the same grammar ParseBytes accepts, using
// the largest unit that divides it evenly. For every n >= 0,
// ParseBytes(FormatBytes(n)) returns n; a negative n renders as a
// string ParseBytes rejects.
func FormatBytes(n int64) string {
	const (
		kib = 1024
		mib = 1024 * kib
		gib = 1024 * mib
	)
	switch {
	case n >= gib && n%gib == 0:
		return strconv.FormatInt(n/gib, 10) + "g"
	case n >= mib && n%mib == 0:
		return strconv.FormatInt(n/mib, 10) + "m"
	case n >= kib && n%kib == 0:
		return strconv.FormatInt(n/kib, 10) + "k"
	default:
		return strconv.FormatInt(n, 10)
	}
}
