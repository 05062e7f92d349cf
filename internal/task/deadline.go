package task

import (
	"fmt"
	"math"
	"strings"
	"time"
)

const (
	// DisplayLayout renders deadlines as "Mon, Mar 26, 2024".
	DisplayLayout = "Mon, Jan 2, 2006"
	// InputLayout is the date picker format accepted by the add-task form.
	InputLayout = "2006-01-02"
)

const day = 24 * time.Hour

// FormatDeadline converts a YYYY-MM-DD date into the display format.
func FormatDeadline(iso string, loc *time.Location) (string, error) {
	t, err := time.ParseInLocation(InputLayout, strings.TrimSpace(iso), location(loc))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidDeadline, iso)
	}
	return t.Format(DisplayLayout), nil
}

// ParseDeadline returns local midnight of the calendar day named by a
// display-format deadline.
func ParseDeadline(display string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(DisplayLayout, strings.TrimSpace(display), location(loc))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDeadline, display)
	}
	return t, nil
}

// NormalizeDeadline accepts either input or display format and returns the
// canonical display string. Feeding its output back in yields the same
// string.
func NormalizeDeadline(raw string, loc *time.Location) (string, error) {
	if out, err := FormatDeadline(raw, loc); err == nil {
		return out, nil
	}
	t, err := ParseDeadline(raw, loc)
	if err != nil {
		return "", err
	}
	return t.Format(DisplayLayout), nil
}

// DaysLeft counts whole days, rounded up, from now until the start of the
// deadline day in now's location. Past and unparseable deadlines yield 0.
func DaysLeft(deadline string, now time.Time) int {
	due, err := ParseDeadline(deadline, now.Location())
	if err != nil {
		return 0
	}
	left := math.Ceil(float64(due.Sub(now)) / float64(day))
	if left <= 0 {
		return 0
	}
	return int(left)
}

func location(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
