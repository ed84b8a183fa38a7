package aggregate

import "time"

// Day normalizes t to its UTC calendar date.
func Day(t time.Time) time.Time {
	return t.UTC().Truncate(24 * time.Hour)
}

// WeekStart returns the most recent occurrence of startDay on or before t,
// normalized to a UTC date. With the default Monday start, any date within a
// week maps to that week's Monday.
func WeekStart(t time.Time, startDay time.Weekday) time.Time {
	d := Day(t)
	back := (int(d.Weekday()) - int(startDay) + 7) % 7
	return d.AddDate(0, 0, -back)
}
