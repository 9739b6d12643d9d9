package reminder

import (
	"time"

	"github.com/phrazzld/carecompanion/internal/domain"
)

// DueReminders returns the items whose time label names the same hour and
// minute as now, in their original order. Seconds are ignored. Items with
// labels that fail to parse are never due.
//
// The completed flag is not consulted: a recurring item stays on the
// timeline and reminds again at its time.
func DueReminders(now time.Time, items []domain.ScheduleItem) []domain.ScheduleItem {
	due := make([]domain.ScheduleItem, 0)
	for _, item := range items {
		if IsDue(now, item.Time) {
			due = append(due, item)
		}
	}
	return due
}

// IsDue reports whether label names now's hour and minute.
func IsDue(now time.Time, label string) bool {
	hour, minute, err := ParseTimeLabel(label)
	if err != nil {
		return false
	}
	return now.Hour() == hour && now.Minute() == minute
}

// NextBoundary returns the first multiple of interval after t. A
// non-positive interval means one minute.
func NextBoundary(t time.Time, interval time.Duration) time.Time {
	if interval <= 0 {
		interval = time.Minute
	}
	return t.Truncate(interval).Add(interval)
}
