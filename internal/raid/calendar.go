package raid

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"

	DefaultResetHour = 5
)

// Calendar maps wall-clock instants onto raid days. A raid day starts at
// ResetHour in Location, so instants before that hour belong to the previous
// calendar day. Every returned day is midnight UTC.
type Calendar struct {
	Location  *time.Location
	ResetHour int
}

type DateRange struct {
	Start time.Time
	End   time.Time
}

func NewCalendar(timezone string, resetHour int) (Calendar, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return Calendar{}, fmt.Errorf("failed to load raid reset timezone %q: %w", timezone, err)
	}
	if resetHour < 0 || resetHour > 23 {
		return Calendar{}, fmt.Errorf("raid reset hour must be within 0-23, got %d", resetHour)
	}
	return Calendar{Location: loc, ResetHour: resetHour}, nil
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// Today returns the server raid day that now belongs to.
func (c Calendar) Today(now time.Time) time.Time {
	local := now.In(c.location())
	if local.Hour() < c.ResetHour {
		local = local.AddDate(0, 0, -1)
	}
	return Day(local)
}

// Last7Days returns server today followed by the six days before it.
func (c Calendar) Last7Days(now time.Time) []time.Time {
	today := c.Today(now)
	days := make([]time.Time, 0, 7)
	for i := 0; i < 7; i++ {
		days = append(days, today.AddDate(0, 0, -i))
	}
	return days
}

func (c Calendar) Last6Weeks(now time.Time) []DateRange {
	thisWeek := WeekRange(c.Today(now))
	weeks := make([]DateRange, 0, 6)
	for i := 0; i < 6; i++ {
		weeks = append(weeks, WeekRange(thisWeek.Start.AddDate(0, 0, -7*i)))
	}
	return weeks
}

func (c Calendar) Last6Months(now time.Time) []DateRange {
	thisMonth := MonthRange(c.Today(now))
	months := make([]DateRange, 0, 6)
	for i := 0; i < 6; i++ {
		months = append(months, MonthRange(thisMonth.Start.AddDate(0, -i, 0)))
	}
	return months
}

// Day truncates t to its calendar date, expressed as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekRange returns the ISO week (Monday to Sunday) containing day.
func WeekRange(day time.Time) DateRange {
	day = Day(day)
	offset := (int(day.Weekday()) + 6) % 7
	start := day.AddDate(0, 0, -offset)
	return DateRange{Start: start, End: start.AddDate(0, 0, 6)}
}

func MonthRange(day time.Time) DateRange {
	day = Day(day)
	start := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, -1)}
}

func (r DateRange) Contains(day time.Time) bool {
	day = Day(day)
	return !day.Before(r.Start) && !day.After(r.End)
}

func (r DateRange) String() string {
	return FormatDate(r.Start) + " - " + FormatDate(r.End)
}

func FormatDate(day time.Time) string {
	return day.Format(DateLayout)
}

func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}
