package report

import (
	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Generator, error) {
		repo := do.MustInvoke[repository.Repository](i)
		return NewGenerator(repo, repo), nil
	})
}
