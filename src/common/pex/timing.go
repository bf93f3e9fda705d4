package pex

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const clockLayout = "15:04:05"

const day = 24 * time.Hour

// ParseClock parses an HH:MM:SS clock value into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// Interval returns end - start. An end earlier than start has crossed midnight
// and is moved to the following day before subtracting.
func Interval(start, end time.Duration) time.Duration {
	if end < start {
		end += day
	}
	return end - start
}

// IntervalMinutes parses two clock values and returns the midnight-corrected
// interval between them in minutes.
func IntervalMinutes(start, end string) (float64, error) {
	from, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	to, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return Interval(from, to).Minutes(), nil
}

// ParseAllowance parses a signed +MM'SS literal into minutes.
func ParseAllowance(s string) (float64, error) {
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid allowance %q", s)
	}

	var sign float64
	switch s[0] {
	case '+':
		sign = 1
	case '-':
		sign = -1
	default:
		return 0, fmt.Errorf("invalid allowance sign in %q", s)
	}

	minStr, secStr, ok := strings.Cut(s[1:], "'")
	if !ok {
		return 0, fmt.Errorf("invalid allowance %q", s)
	}
	minutes, err := strconv.Atoi(minStr)
	if err != nil || minutes < 0 || minutes > 59 || len(minStr) > 2 {
		return 0, fmt.Errorf("invalid allowance minutes in %q", s)
	}
	seconds, err := strconv.Atoi(secStr)
	if err != nil || seconds < 0 || seconds > 59 || len(secStr) > 2 {
		return 0, fmt.Errorf("invalid allowance seconds in %q", s)
	}

	return sign * (float64(minutes) + float64(seconds)/60), nil
}

// TimeRange returns the one hour bucket containing the clock value, e.g. "07:00-07:59".
func TimeRange(clock string) (string, error) {
	offset, err := ParseClock(clock)
	if err != nil {
		return "", err
	}
	hour := int(offset / time.Hour)
	return fmt.Sprintf("%02d:00-%02d:59", hour, hour), nil
}
