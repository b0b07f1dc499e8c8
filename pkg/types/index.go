package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIndex converts a 1-based note number typed by a user into the
// 0-based position used by the stores. Zero, negatives, and non-numbers
// return ErrInvalidIndex. Upper bounds are checked by the store.
func ParseIndex(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%w %q: use a note number starting at 1", ErrInvalidIndex, s)
	}
	return n - 1, nil
}

// FormatIndex renders a 0-based position as the 1-based number users see.
func FormatIndex(i int) string {
	return strconv.Itoa(i + 1)
}
