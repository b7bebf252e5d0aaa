package raid

import (
	"github.com/foxseedlab/raidtracker/internal/config"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (Calendar, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return NewCalendar(cfg.RaidResetTimezone, cfg.RaidResetHour)
	})
}
