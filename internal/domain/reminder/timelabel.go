// Package reminder evaluates schedule items against the wall clock.
//
// Schedule items carry human time labels on a 12-hour clock ("08:00 AM",
// "2:30 pm"). The functions here are pure; the periodic trigger that calls
// them lives in the reminder service.
package reminder

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidTimeLabel is returned for labels that are not H:MM AM|PM.
var ErrInvalidTimeLabel = errors.New("invalid time label")

var timeLabelPattern = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*$`)

// ParseTimeLabel converts a 12-hour clock label into a 24-hour hour and minute.
// 12 AM is hour 0, 12 PM stays 12 and PM adds 12 to hours 1 through 11.
func ParseTimeLabel(label string) (hour, minute int, err error) {
	m := timeLabelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidTimeLabel, label)
	}

	// The pattern guarantees digits, so Atoi cannot fail.
	hour, _ = strconv.Atoi(m[1])
	minute, _ = strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %q out of range", ErrInvalidTimeLabel, label)
	}

	pm := strings.EqualFold(m[3], "PM")
	switch {
	case hour == 12 && !pm:
		hour = 0
	case hour != 12 && pm:
		hour += 12
	}
	return hour, minute, nil
}

// FormatTimeLabel renders a 24-hour hour and minute as a label that
// ParseTimeLabel accepts, e.g. 14:05 becomes "02:05 PM".
func FormatTimeLabel(hour, minute int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	h := hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d %s", h, minute, suffix)
}
