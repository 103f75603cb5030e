package domain

import (
	"fmt"
	"time"
)

// DailyDuration returns the operating duration per day, handling the
// across-midnight wrap-around case (e.g. open "22:00", close "06:00" is
// an 8-hour window, not a negative one).
func (h OperatingHours) DailyDuration() (time.Duration, error) {
	open, err := parseClock(h.Open)
	if err != nil {
		return 0, fmt.Errorf("invalid open time %q: %w", h.Open, err)
	}
	closeT, err := parseClock(h.Close)
	if err != nil {
		return 0, fmt.Errorf("invalid close time %q: %w", h.Close, err)
	}
	if open == closeT {
		return 0, fmt.Errorf("operating hours open and close must differ")
	}
	d := closeT - open
	if d < 0 {
		d += 24 * time.Hour
	}
	return d, nil
}

// OpenOn reports whether the hub operates on the given weekday.
func (h OperatingHours) OpenOn(day time.Weekday) bool {
	if len(h.Weekdays) == 0 {
		return true
	}
	for _, w := range h.Weekdays {
		if w == day {
			return true
		}
	}
	return false
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}
