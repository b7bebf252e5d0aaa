package raid

import (
	"testing"
	"time"
)

func mustCalendar(t *testing.T, tz string) Calendar {
	t.Helper()
	cal, err := NewCalendar(tz, DefaultResetHour)
	if err != nil {
		t.Fatalf("failed to build calendar: %v", err)
	}
	return cal
}

func TestToday_ResetBoundary(t *testing.T) {
	cal := mustCalendar(t, "Asia/Taipei")
	loc := cal.Location

	before := cal.Today(time.Date(2026, 3, 10, 4, 59, 0, 0, loc))
	after := cal.Today(time.Date(2026, 3, 10, 5, 1, 0, 0, loc))

	if got := FormatDate(before); got != "2026-03-09" {
		t.Fatalf("expected 04:59 to belong to 2026-03-09, got %s", got)
	}
	if got := FormatDate(after); got != "2026-03-10" {
		t.Fatalf("expected 05:01 to belong to 2026-03-10, got %s", got)
	}
	if before.Equal(after) {
		t.Fatal("expected different raid days across the reset boundary")
	}
}

func TestToday_UsesReferenceTimezone(t *testing.T) {
	cal := mustCalendar(t, "Asia/Taipei")
	// 2026-03-09 22:00 UTC is 2026-03-10 06:00 in Taipei.
	got := cal.Today(time.Date(2026, 3, 9, 22, 0, 0, 0, time.UTC))
	if FormatDate(got) != "2026-03-10" {
		t.Fatalf("expected 2026-03-10, got %s", FormatDate(got))
	}
	if got.Location() != time.UTC || got.Hour() != 0 {
		t.Fatalf("expected midnight UTC, got %v", got)
	}
}

func TestToday_CrossesMonthBoundary(t *testing.T) {
	cal := mustCalendar(t, "UTC")
	got := cal.Today(time.Date(2026, 3, 1, 2, 0, 0, 0, time.UTC))
	if FormatDate(got) != "2026-02-28" {
		t.Fatalf("expected 2026-02-28, got %s", FormatDate(got))
	}
}

func TestLast7Days(t *testing.T) {
	cal := mustCalendar(t, "UTC")
	days := cal.Last7Days(time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC))
	if len(days) != 7 {
		t.Fatalf("expected 7 days, got %d", len(days))
	}
	if FormatDate(days[0]) != "2026-03-10" || FormatDate(days[1]) != "2026-03-09" || FormatDate(days[6]) != "2026-03-04" {
		t.Fatalf("unexpected days: %v", days)
	}
}

func TestWeekRange_MondayToSunday(t *testing.T) {
	tests := []struct {
		day   string
		start string
		end   string
	}{
		{day: "2026-03-09", start: "2026-03-09", end: "2026-03-15"},
		{day: "2026-03-12", start: "2026-03-09", end: "2026-03-15"},
		{day: "2026-03-15", start: "2026-03-09", end: "2026-03-15"},
		{day: "2026-01-01", start: "2025-12-29", end: "2026-01-04"},
	}
	for _, tt := range tests {
		day, err := ParseDate(tt.day)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		r := WeekRange(day)
		if FormatDate(r.Start) != tt.start || FormatDate(r.End) != tt.end {
			t.Fatalf("week of %s: expected %s..%s, got %s", tt.day, tt.start, tt.end, r)
		}
	}
}

func TestMonthRange(t *testing.T) {
	day, _ := ParseDate("2028-02-14")
	r := MonthRange(day)
	if FormatDate(r.Start) != "2028-02-01" || FormatDate(r.End) != "2028-02-29" {
		t.Fatalf("unexpected month range: %s", r)
	}
	if !r.Contains(day) {
		t.Fatal("expected month range to contain the source day")
	}
}

func TestLast6WeeksAndMonths(t *testing.T) {
	cal := mustCalendar(t, "UTC")
	now := time.Date(2026, 3, 12, 12, 0, 0, 0, time.UTC)

	weeks := cal.Last6Weeks(now)
	if len(weeks) != 6 || FormatDate(weeks[0].Start) != "2026-03-09" || FormatDate(weeks[5].Start) != "2026-02-02" {
		t.Fatalf("unexpected weeks: %v", weeks)
	}
	months := cal.Last6Months(now)
	if len(months) != 6 || FormatDate(months[0].Start) != "2026-03-01" || FormatDate(months[5].Start) != "2025-10-01" {
		t.Fatalf("unexpected months: %v", months)
	}
}

func TestParseDate_RejectsLooseFormats(t *testing.T) {
	for _, in := range []string{"", "2026-3-1", "03/01/2026", "2026-02-30"} {
		if _, err := ParseDate(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestNewCalendar_Invalid(t *testing.T) {
	if _, err := NewCalendar("Not/AZone", 5); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
	if _, err := NewCalendar("UTC", 24); err == nil {
		t.Fatal("expected error for out of range reset hour")
	}
}

func TestParseType(t *testing.T) {
	if got, ok := ParseType("carno"); !ok || got != Carno {
		t.Fatalf("expected Carno, got %q %v", got, ok)
	}
	if _, ok := ParseType("Belial"); ok {
		t.Fatal("expected unknown raid to be rejected")
	}
	if !IsTracked(Kirollas) || IsTracked(Zenas) {
		t.Fatal("unexpected tracked raid set")
	}
}
