package raid

import "time"

// LoDWindow is one Land of Death opening. Entry closes when the boss spawns.
type LoDWindow struct {
	Start    time.Time
	Boss     time.Time
	End      time.Time
	Channels []int
}

type lodSlot struct {
	start, boss, end int
	channels         []int
}

// lodSchedule lists the daily openings by local hour.
var lodSchedule = []lodSlot{
	{0, 1, 2, []int{7}},
	{3, 4, 5, []int{1}},
	{6, 7, 8, []int{1}},
	{9, 10, 11, []int{2}},
	{12, 13, 14, []int{3}},
	{15, 16, 17, []int{2, 3, 6}},
	{18, 19, 20, []int{4, 5, 7}},
	{21, 22, 23, []int{4, 5, 6}},
}

// UpcomingLoD returns the openings of today and tomorrow in the calendar's
// location whose boss has not spawned yet and which start within 24 hours.
func (c Calendar) UpcomingLoD(now time.Time) []LoDWindow {
	loc := c.location()
	local := now.In(loc)
	horizon := now.Add(24 * time.Hour)
	var windows []LoDWindow
	for offset := 0; offset <= 1; offset++ {
		y, m, d := local.AddDate(0, 0, offset).Date()
		at := func(hour int) time.Time { return time.Date(y, m, d, hour, 0, 0, 0, loc) }
		for _, slot := range lodSchedule {
			w := LoDWindow{Start: at(slot.start), Boss: at(slot.boss), End: at(slot.end), Channels: slot.channels}
			if w.Boss.After(now) && w.Start.Before(horizon) {
				windows = append(windows, w)
			}
		}
	}
	return windows
}
