package domain

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// DefaultWeekStart is the first day of a bucket week.
const DefaultWeekStart = time.Monday

// WeekStart returns the first day (on or before d) of the week containing d,
// where weeks begin on firstDay.
func WeekStart(d civil.Date, firstDay time.Weekday) civil.Date {
	offset := (int(weekday(d)) - int(firstDay) + 7) % 7
	return d.AddDays(-offset)
}

// MonthStart returns the first day of d's calendar month.
func MonthStart(d civil.Date) civil.Date {
	return civil.Date{Year: d.Year, Month: d.Month, Day: 1}
}

// BucketOf returns the start of the bucket containing d.
func BucketOf(d civil.Date, g Granularity, firstDay time.Weekday) civil.Date {
	if g == Week {
		return WeekStart(d, firstDay)
	}
	return MonthStart(d)
}

// NextBucket returns the start of the bucket following the one starting at b.
func NextBucket(b civil.Date, g Granularity) civil.Date {
	if g == Week {
		return b.AddDays(7)
	}
	if b.Month == time.December {
		return civil.Date{Year: b.Year + 1, Month: time.January, Day: 1}
	}
	return civil.Date{Year: b.Year, Month: b.Month + 1, Day: 1}
}

// CompareDates orders two dates: -1, 0 or +1.
func CompareDates(a, b civil.Date) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// ParseWeekday resolves an English weekday name ("monday", "Sun", ...).
func ParseWeekday(s string) (time.Weekday, bool) {
	s = strings.TrimSpace(s)
	if len(s) < 3 {
		return 0, false
	}
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.HasPrefix(strings.ToLower(wd.String()), strings.ToLower(s)) {
			return wd, true
		}
	}
	return 0, false
}

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}
