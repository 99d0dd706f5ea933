package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeOfDay is a wall-clock time expressed in seconds since midnight.
// Stored values are in [0, EndOfDay); EndOfDay itself is only used as the
// exclusive upper bound of a display window.
type TimeOfDay int

const (
	Second   TimeOfDay = 1
	Minute             = 60 * Second
	Hour               = 60 * Minute
	EndOfDay           = 24 * Hour
)

var errBadClock = errors.New("model: invalid time of day")

// Clock builds a TimeOfDay from hour and minute without validation.
func Clock(hour, minute int) TimeOfDay {
	return TimeOfDay(hour)*Hour + TimeOfDay(minute)*Minute
}

// NewTimeOfDay validates the components and builds a TimeOfDay.
func NewTimeOfDay(hour, minute, second int) (TimeOfDay, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, fmt.Errorf("%w: %02d:%02d:%02d", errBadClock, hour, minute, second)
	}
	return Clock(hour, minute) + TimeOfDay(second), nil
}

// TimeOfDayOf extracts the wall-clock part of t in t's own location.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return Clock(t.Hour(), t.Minute()) + TimeOfDay(t.Second())
}

// HoursOf converts fractional hours (e.g. 6 for the start of a window) to a TimeOfDay.
func HoursOf(h float64) TimeOfDay {
	return TimeOfDay(h * float64(Hour))
}

func (t TimeOfDay) Hour() int   { return int(t / Hour) }
func (t TimeOfDay) Minute() int { return int(t%Hour) / int(Minute) }
func (t TimeOfDay) Second() int { return int(t % Minute) }

// Hours returns the time as fractional hours since midnight.
func (t TimeOfDay) Hours() float64 {
	return float64(t) / float64(Hour)
}

// Duration returns the offset from midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Second
}

// Add shifts t by d. The result is not wrapped or clamped.
func (t TimeOfDay) Add(d time.Duration) TimeOfDay {
	return t + TimeOfDay(d/time.Second)
}

// Valid reports whether t is a storable time of day.
func (t TimeOfDay) Valid() bool {
	return t >= 0 && t < EndOfDay
}

// Clock formats t as "15:04".
func (t TimeOfDay) Clock() string {
	return fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute())
}

func (t TimeOfDay) String() string {
	if t.Second() != 0 {
		return fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())
	}
	return t.Clock()
}

// Kitchen formats t as a lower-case 12-hour time, e.g. "8:05pm".
func (t TimeOfDay) Kitchen() string {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	suffix := "am"
	if t.Hour() >= 12 {
		suffix = "pm"
	}
	return fmt.Sprintf("%d:%02d%s", h, t.Minute(), suffix)
}

// MarshalText writes the fixed-precision "15:04:05" form used on disk.
func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(fmt.Sprintf("%02d:%02d:%02d", t.Hour(), t.Minute(), t.Second())), nil
}

// UnmarshalText accepts "15:04" or "15:04:05".
func (t *TimeOfDay) UnmarshalText(b []byte) error {
	parts := strings.Split(strings.TrimSpace(string(b)), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return fmt.Errorf("%w: %q", errBadClock, b)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		// Tolerate fractional seconds ("08:00:00.0000000").
		if i == 2 {
			p, _, _ = strings.Cut(p, ".")
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return fmt.Errorf("%w: %q", errBadClock, b)
		}
		nums[i] = n
	}
	v, err := NewTimeOfDay(nums[0], nums[1], nums[2])
	if err != nil {
		return err
	}
	*t = v
	return nil
}
