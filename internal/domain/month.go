package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/dafibh/household/household-backend/internal/util"
)

var monthTokenPattern = regexp.MustCompile(`^(\d{4})-(\d{1,2})$`)

// MonthWindow is one calendar month in a display timezone. End is the last
// representable microsecond of the month, so the window is inclusive on both ends.
type MonthWindow struct {
	Year  int       `json:"year"`
	Month int       `json:"month"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewMonthWindow builds the window for year/month in loc
func NewMonthWindow(year, month int, loc *time.Location) MonthWindow {
	if loc == nil {
		loc = time.UTC
	}
	last := util.DaysInMonth(year, time.Month(month))
	return MonthWindow{
		Year:  year,
		Month: month,
		Start: time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc),
		End:   time.Date(year, time.Month(month), last, 23, 59, 59, 999999000, loc),
	}
}

// ParseMonthToken reads a "YYYY-M" or "YYYY-MM" token. An empty or malformed token,
// or a month outside 1..12, yields the month containing now in loc.
func ParseMonthToken(token string, now time.Time, loc *time.Location) MonthWindow {
	if loc == nil {
		loc = time.UTC
	}
	if m := monthTokenPattern.FindStringSubmatch(token); m != nil {
		year, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 && year >= 1 {
			return NewMonthWindow(year, month, loc)
		}
	}
	local := now.In(loc)
	return NewMonthWindow(local.Year(), int(local.Month()), loc)
}

// Token formats the window as "YYYY-MM"
func (w MonthWindow) Token() string {
	return fmt.Sprintf("%04d-%02d", w.Year, w.Month)
}

// Contains reports whether t falls inside the window
func (w MonthWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

func (w MonthWindow) Previous() MonthWindow {
	year, month := util.PreviousMonth(w.Year, w.Month)
	return NewMonthWindow(year, month, w.Start.Location())
}

func (w MonthWindow) Next() MonthWindow {
	year, month := util.NextMonth(w.Year, w.Month)
	return NewMonthWindow(year, month, w.Start.Location())
}

// Label is the human-readable month name, e.g. "February 2026"
func (w MonthWindow) Label() string {
	return w.Start.Format("January 2006")
}

// AccountLedger is one account's transactions for a single month
type AccountLedger struct {
	Account       *Account       `json:"account"`
	Month         MonthWindow    `json:"month"`
	Label         string         `json:"label"`
	PreviousMonth string         `json:"previousMonth"`
	NextMonth     string         `json:"nextMonth"`
	IsCurrent     bool           `json:"isCurrent"`
	Transactions  []*Transaction `json:"transactions"`
}
