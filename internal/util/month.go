package util

import "time"

// PreviousMonth returns the year and month for the previous month
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// NextMonth returns the year and month for the following month
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// DaysInMonth returns the number of days in the given month, accounting for leap years
func DaysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsCurrentMonth reports whether year/month is the month containing now in loc
func IsCurrentMonth(year, month int, now time.Time, loc *time.Location) bool {
	local := now.In(loc)
	return local.Year() == year && int(local.Month()) == month
}
