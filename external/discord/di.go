package discord

import (
	"github.com/foxseedlab/raidtracker/internal/config"
	discordpkg "github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (discordpkg.Client, error) {
		c := do.MustInvoke[*config.Config](i)
		return NewClient(c.DiscordToken), nil
	})
	do.Provide(injector, func(i do.Injector) (discordpkg.Messenger, error) {
		return do.MustInvoke[discordpkg.Client](i), nil
	})
	do.Provide(injector, func(i do.Injector) (discordpkg.EventScheduler, error) {
		return do.MustInvoke[discordpkg.Client](i), nil
	})
}
