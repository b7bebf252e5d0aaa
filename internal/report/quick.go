package report

import (
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
)

// Quick names a report period that is resolved from server today without
// asking for a date.
type Quick string

const (
	QuickToday     Quick = "today"
	QuickYesterday Quick = "yesterday"
	QuickThisWeek  Quick = "this-week"
	QuickLastWeek  Quick = "last-week"
)

var Quicks = []Quick{QuickToday, QuickYesterday, QuickThisWeek, QuickLastWeek}

// Resolve returns the period for q and whether it spans more than one day.
func (q Quick) Resolve(cal raid.Calendar, now time.Time) (period raid.DateRange, ranged bool, ok bool) {
	today := cal.Today(now)
	switch q {
	case QuickToday:
		return raid.DateRange{Start: today, End: today}, false, true
	case QuickYesterday:
		y := today.AddDate(0, 0, -1)
		return raid.DateRange{Start: y, End: y}, false, true
	case QuickThisWeek:
		return raid.WeekRange(today), true, true
	case QuickLastWeek:
		return raid.WeekRange(today.AddDate(0, 0, -7)), true, true
	}
	return raid.DateRange{}, false, false
}
