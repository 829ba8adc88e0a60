package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrBadClock is returned by ParseClock for values that are not a
// minute-granular time of day.
var ErrBadClock = errors.New("invalid clock value")

// DateLayout is the wire and storage format for reservation dates.
const DateLayout = "2006-01-02"

// ParseClock converts a wall-clock string into minutes from midnight.
// Accepted forms are "HH:MM" and "HH:MM:SS" (the seconds component,
// produced by MySQL TIME columns, is ignored).  The result is in
// [0, 1440).
func ParseClock(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: %q", ErrBadClock, s)
	}
	return h*60 + m, nil
}

// FormatClock renders minutes from midnight as "HH:MM".
func FormatClock(min int) string {
	return fmt.Sprintf("%02d:%02d", min/60, min%60)
}

// ParseDate validates a "YYYY-MM-DD" string and returns the midnight
// UTC instant of that day.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}
