package workout

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
)

// ParseInput reads a numeric field typed by a user. Non-digit characters
// are dropped, an empty or zero result is rejected and values above max
// are clamped.
func ParseInput(raw string, max int) (int, error) {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := strings.TrimLeft(b.String(), "0")
	if digits == "" {
		return 0, errors.Wrapf(ErrInvalidConfig, "%q is not a positive number", raw)
	}
	// Anything longer than the cap's digit count is already above it.
	if len(digits) > len(strconv.Itoa(max)) {
		return max, nil
	}
	v, err := strconv.Atoi(digits)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidConfig, "%q is not a positive number", raw)
	}
	return min(v, max), nil
}

// ParseOptionalInput is ParseInput for fields that may be left empty.
// An empty string yields 0 and no error.
func ParseOptionalInput(raw string, max int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	return ParseInput(raw, max)
}
