package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/raidtracker/external/config"
	"github.com/foxseedlab/raidtracker/external/discord"
	repositoryimpl "github.com/foxseedlab/raidtracker/external/repository"
	"github.com/foxseedlab/raidtracker/external/sessionstore"
	visionimpl "github.com/foxseedlab/raidtracker/external/vision"
	"github.com/foxseedlab/raidtracker/internal/bot"
	"github.com/foxseedlab/raidtracker/internal/config"
	discordpkg "github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/recorder"
	"github.com/foxseedlab/raidtracker/internal/registry"
	"github.com/foxseedlab/raidtracker/internal/report"
	"github.com/foxseedlab/raidtracker/internal/workflow"
	"github.com/samber/do/v2"
)

const discordConnectTimeout = 20 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env)

	slog.Info("startup: building dependency graph")
	injector := setupDI(cfg)

	slog.Info("startup: launching discord bot")
	runBot(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	sessionstore.RegisterDI(injector)
	discord.RegisterDI(injector)
	visionimpl.RegisterDI(injector)
	raid.RegisterDI(injector)
	registry.RegisterDI(injector)
	recorder.RegisterDI(injector)
	report.RegisterDI(injector)
	workflow.RegisterDI(injector)
	bot.RegisterDI(injector)

	return injector
}

func runBot(cfg *config.Config, injector do.Injector) {
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		slog.Error("failed to resolve discord client", "error", err)
		os.Exit(1)
	}
	b, err := do.Invoke[*bot.Bot](injector)
	if err != nil {
		slog.Error("failed to resolve bot", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancel()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(ctx); err != nil {
		slog.Error("discord connect failed", "error", err)
		os.Exit(1)
	}
	slog.Info("startup: discord connected")

	if err := dc.UpsertGuildCommands(cfg.DiscordGuildID, bot.CommandDefinitions()); err != nil {
		slog.Error("failed to upsert commands", "error", err, "guild_id", cfg.DiscordGuildID)
		os.Exit(1)
	}

	dc.RegisterInteractionHandler(b.HandleInteraction)
	dc.RegisterMessageCreateHandler(b.HandleMessageCreate)
	slog.Info("discord handlers registered", "guild_id", cfg.DiscordGuildID, "commands", len(bot.CommandDefinitions()))
	defer func() {
		if report := injector.Shutdown(); report != nil && !report.Succeed {
			slog.Error("dependency shutdown failed", "error", report.Error())
		}
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
	}
}
