package registry

import (
	"time"

	"github.com/foxseedlab/raidtracker/internal/config"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Registry, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		cal := do.MustInvoke[raid.Calendar](i)
		return New(repo, repo, cal, cfg.RegistryCacheTTL(), time.Now), nil
	})
}
