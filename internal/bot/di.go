package bot

import (
	"github.com/foxseedlab/raidtracker/internal/config"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/registry"
	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/foxseedlab/raidtracker/internal/workflow"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Bot, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		return New(
			cfg.DiscordGuildID,
			cfg.DefaultLocale,
			do.MustInvoke[*registry.Registry](i),
			do.MustInvoke[*workflow.Engine](i),
			repo,
			repo,
			do.MustInvoke[raid.Calendar](i),
		), nil
	})
}
