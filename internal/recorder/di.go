package recorder

import (
	"time"

	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Recorder, error) {
		return New(do.MustInvoke[repository.Repository](i), time.Now), nil
	})
}
