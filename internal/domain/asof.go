package domain

import (
	"fmt"
	"time"
)

// ParseAsOf parses a valuation date given as YYYY-MM-DD or RFC 3339
// An empty string yields now
func ParseAsOf(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now, nil
	}

	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as-of date %q: expected YYYY-MM-DD or RFC 3339", s)
	}
	return t, nil
}
