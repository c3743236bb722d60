package helpers

import (
	"fmt"
	"time"
)

// FormatDate renders a timestamp for display, e.g. "Jan 2, 2006 3:04 PM".
func FormatDate(t time.Time) string {
	return t.Format("Jan 2, 2006 3:04 PM")
}

// GetTimeAgo renders the elapsed time since t in coarse human terms.
func GetTimeAgo(t time.Time) string {
	return timeAgoAt(t, time.Now())
}

func timeAgoAt(t, now time.Time) string {
	elapsed := now.Sub(t)

	switch {
	case elapsed < time.Minute:
		return "just now"
	case elapsed < time.Hour:
		return pluralize(int(elapsed.Minutes()), "minute") + " ago"
	case elapsed < 24*time.Hour:
		return pluralize(int(elapsed.Hours()), "hour") + " ago"
	default:
		return pluralize(int(elapsed.Hours()/24), "day") + " ago"
	}
}

func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// FormatMinutes renders a duration in minutes as "45m" or "1h 30m".
func FormatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	h := minutes / 60
	m := minutes % 60
	if m == 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dh %dm", h, m)
}

const (
	businessDayStartHour = 9
	businessDayEndHour   = 17 // 8-hour business day
)

// CalculateBusinessHoursWaitTime returns the number of whole minutes between
// start and end that fall inside business hours (09:00-17:00, Monday-Friday).
func CalculateBusinessHoursWaitTime(start, end time.Time) int {
	if !end.After(start) {
		return 0
	}

	total := 0
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	for !day.After(end) {
		if day.Weekday() != time.Saturday && day.Weekday() != time.Sunday {
			open := day.Add(businessDayStartHour * time.Hour)
			close := day.Add(businessDayEndHour * time.Hour)

			from := maxTime(start, open)
			to := minTime(end, close)
			if to.After(from) {
				total += int(to.Sub(from).Minutes())
			}
		}
		day = day.AddDate(0, 0, 1)
	}

	return total
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func minTime(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

// GetPositionSuffix returns the ordinal form of a queue position: 1st, 2nd,
// 3rd, 4th... with the 11th/12th/13th exceptions.
func GetPositionSuffix(n int) string {
	suffix := "th"
	if n%100 < 11 || n%100 > 13 {
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// GetCurrentAcademicYear returns the academic year containing now, formatted
// "2025-2026". The year rolls over on August 1.
func GetCurrentAcademicYear() string {
	return academicYearAt(time.Now())
}

func academicYearAt(t time.Time) string {
	start := t.Year()
	if t.Month() < time.August {
		start--
	}
	return fmt.Sprintf("%d-%d", start, start+1)
}
