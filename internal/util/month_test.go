package util

import (
	"testing"
	"time"
)

func TestPreviousMonth_SameYear(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 6, 2026, 5},   // June -> May
		{2026, 12, 2026, 11}, // Dec -> Nov
		{2026, 2, 2026, 1},   // Feb -> Jan
	}

	for _, tt := range tests {
		gotYear, gotMonth := PreviousMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("PreviousMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestPreviousMonth_YearBoundary(t *testing.T) {
	// January -> December of previous year
	gotYear, gotMonth := PreviousMonth(2026, 1)
	if gotYear != 2025 || gotMonth != 12 {
		t.Errorf("PreviousMonth(2026, 1) = (%d, %d), want (2025, 12)", gotYear, gotMonth)
	}
}

func TestNextMonth(t *testing.T) {
	tests := []struct {
		year      int
		month     int
		wantYear  int
		wantMonth int
	}{
		{2026, 1, 2026, 2},
		{2026, 11, 2026, 12},
		{2026, 12, 2027, 1}, // Dec -> Jan of next year
	}

	for _, tt := range tests {
		gotYear, gotMonth := NextMonth(tt.year, tt.month)
		if gotYear != tt.wantYear || gotMonth != tt.wantMonth {
			t.Errorf("NextMonth(%d, %d) = (%d, %d), want (%d, %d)",
				tt.year, tt.month, gotYear, gotMonth, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name     string
		year     int
		month    time.Month
		expected int
	}{
		{"january", 2026, time.January, 31},
		{"february common year", 2026, time.February, 28},
		{"february leap year", 2024, time.February, 29},
		{"february century non-leap", 2100, time.February, 28},
		{"february 400-year leap", 2000, time.February, 29},
		{"april", 2026, time.April, 30},
		{"december", 2026, time.December, 31},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.year, tt.month); got != tt.expected {
				t.Errorf("DaysInMonth(%d, %s) = %d, want %d", tt.year, tt.month, got, tt.expected)
			}
		})
	}
}

func TestIsCurrentMonth(t *testing.T) {
	now := time.Date(2026, 3, 31, 23, 30, 0, 0, time.UTC)
	ahead := time.FixedZone("UTC+2", 2*60*60)

	if !IsCurrentMonth(2026, 3, now, time.UTC) {
		t.Error("expected March 2026 to be current in UTC")
	}
	// Already April in UTC+2
	if IsCurrentMonth(2026, 3, now, ahead) {
		t.Error("expected March 2026 not to be current in UTC+2")
	}
	if !IsCurrentMonth(2026, 4, now, ahead) {
		t.Error("expected April 2026 to be current in UTC+2")
	}
}
