package workflow

import (
	"time"

	"github.com/foxseedlab/raidtracker/internal/config"
	"github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/recorder"
	"github.com/foxseedlab/raidtracker/internal/registry"
	"github.com/foxseedlab/raidtracker/internal/report"
	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/foxseedlab/raidtracker/internal/session"
	"github.com/foxseedlab/raidtracker/internal/vision"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Engine, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		return New(Options{
			Store:          do.MustInvoke[session.Store](i),
			Registry:       do.MustInvoke[*registry.Registry](i),
			Recorder:       do.MustInvoke[*recorder.Recorder](i),
			Reports:        do.MustInvoke[*report.Generator](i),
			Analyzer:       do.MustInvoke[vision.Analyzer](i),
			Messenger:      do.MustInvoke[discord.Messenger](i),
			Calendar:       do.MustInvoke[raid.Calendar](i),
			Now:            time.Now,
			Scheduler:      TimerScheduler{},
			Events:         repo,
			Channels:       repo,
			EventScheduler: do.MustInvoke[discord.EventScheduler](i),
			GuildID:        cfg.DiscordGuildID,
			DetectionTTL:   cfg.DetectionMessageTTL(),
			DefaultLocale:  cfg.DefaultLocale,
		}), nil
	})
}
