// Package bot routes gateway events to the registry and the workflow engine.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/i18n"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/registry"
	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/foxseedlab/raidtracker/internal/workflow"
)

const (
	interactionTimeout = 30 * time.Second
	// Screenshot analysis goes through a rate limited oracle.
	messageTimeout = 2 * time.Minute
)

// Engine is the part of the workflow engine the bot drives.
type Engine interface {
	Handles(in discord.Interaction) bool
	Dispatch(ctx context.Context, in discord.Interaction)
	StartRaid(ctx context.Context, in discord.Interaction, locale string)
	StartAdminRaid(ctx context.Context, in discord.Interaction, locale string)
	StartReport(ctx context.Context, in discord.Interaction, locale string)
	StartRaidEvent(ctx context.Context, in discord.Interaction, locale string)
	NotifySubmission(ctx context.Context, ev discord.MessageEvent, locale string, isToday bool) error
	DetectSubmission(ctx context.Context, ev discord.MessageEvent, locale string) (bool, error)
}

type Bot struct {
	guildID       string
	defaultLocale string
	registry      *registry.Registry
	engine        Engine
	channels      repository.ChannelSettingRepository
	users         repository.UserSettingRepository
	calendar      raid.Calendar
	now           func() time.Time
}

func New(guildID, defaultLocale string, reg *registry.Registry, engine Engine, channels repository.ChannelSettingRepository, users repository.UserSettingRepository, calendar raid.Calendar) *Bot {
	if defaultLocale == "" {
		defaultLocale = i18n.English
	}
	return &Bot{
		guildID:       guildID,
		defaultLocale: defaultLocale,
		registry:      reg,
		engine:        engine,
		channels:      channels,
		users:         users,
		calendar:      calendar,
		now:           time.Now,
	}
}

// HandleInteraction serves one interaction. It never panics.
func (b *Bot) HandleInteraction(in discord.Interaction) {
	defer recoverPanic("interaction", "user_id", in.UserID, "command", in.CommandName, "custom_id", in.CustomID)
	if in.GuildID != b.guildID {
		slog.Info("ignoring interaction from different guild", "guild_id", in.GuildID, "configured_guild_id", b.guildID)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), interactionTimeout)
	defer cancel()

	switch in.Kind {
	case discord.InteractionComponent, discord.InteractionModalSubmit:
		if b.engine.Handles(in) {
			b.engine.Dispatch(ctx, in)
			return
		}
		slog.Warn("unhandled component interaction", "custom_id", in.CustomID, "user_id", in.UserID)
	case discord.InteractionAutocomplete:
		b.handleAutocomplete(ctx, in)
	case discord.InteractionCommand:
		b.handleCommand(ctx, in)
	}
}

func (b *Bot) handleCommand(ctx context.Context, in discord.Interaction) {
	locale := b.locale(ctx, in.ChannelID)
	p := i18n.For(locale)
	slog.Info("command received", "command", in.CommandName, "user_id", in.UserID, "channel_id", in.ChannelID)

	var err error
	switch in.CommandName {
	case CommandDone:
		b.engine.StartRaid(ctx, in, locale)
	case CommandReport:
		b.engine.StartReport(ctx, in, locale)
	case CommandCreateRaid:
		b.engine.StartRaidEvent(ctx, in, locale)
	case CommandLoD:
		b.handleLoD(in, p)
	case CommandRecordCompletion:
		err = b.handleRecordCompletion(ctx, in, p, locale)
	case CommandRegister:
		err = b.handleRegister(ctx, in, p)
	case CommandDeregister:
		err = b.handleDeregister(ctx, in, p)
	case CommandRename:
		err = b.handleRename(ctx, in, p)
	case CommandCharacters:
		err = b.handleCharacters(ctx, in, p)
	default:
		slog.Warn("unknown command", "command", in.CommandName)
		return
	}
	if err != nil {
		slog.Error("command failed", "command", in.CommandName, "user_id", in.UserID, "error", err)
		reply(in, p.T(i18n.ErrorOccurred))
	}
}

func (b *Bot) handleRecordCompletion(ctx context.Context, in discord.Interaction, p *i18n.Printer, locale string) error {
	admin, err := b.users.IsAdmin(ctx, in.UserID)
	if err != nil {
		return fmt.Errorf("failed to check admin: %w", err)
	}
	if !admin {
		slog.Info("non-admin tried to record completion", "user_id", in.UserID)
		reply(in, p.T(i18n.AdminOnly))
		return nil
	}
	b.engine.StartAdminRaid(ctx, in, locale)
	return nil
}

func (b *Bot) handleRegister(ctx context.Context, in discord.Interaction, p *i18n.Printer) error {
	name := in.Options[optionName]
	c, err := b.registry.Register(ctx, in.UserID, name)
	switch {
	case errors.Is(err, registry.ErrAlreadyRegistered):
		reply(in, p.T(i18n.AlreadyRegistered, strings.TrimSpace(name)))
	case errors.Is(err, registry.ErrInvalidName):
		reply(in, p.T(i18n.InvalidName))
	case err != nil:
		return err
	default:
		slog.Info("character registered", "user_id", in.UserID, "character_id", c.ID, "name", c.Name)
		reply(in, p.T(i18n.Registered, c.Name))
	}
	return nil
}

func (b *Bot) handleDeregister(ctx context.Context, in discord.Interaction, p *i18n.Printer) error {
	name := strings.TrimSpace(in.Options[optionName])
	err := b.registry.Deregister(ctx, in.UserID, name)
	switch {
	case errors.Is(err, registry.ErrNotRegistered):
		reply(in, p.T(i18n.NotRegistered, name))
	case err != nil:
		return err
	default:
		slog.Info("character deregistered", "user_id", in.UserID, "name", name)
		reply(in, p.T(i18n.Deregistered, name))
	}
	return nil
}

func (b *Bot) handleRename(ctx context.Context, in discord.Interaction, p *i18n.Printer) error {
	oldName := strings.TrimSpace(in.Options[optionOldName])
	newName := strings.TrimSpace(in.Options[optionNewName])
	c, err := b.registry.Rename(ctx, in.UserID, oldName, newName)
	switch {
	case errors.Is(err, registry.ErrNotRegistered):
		reply(in, p.T(i18n.NotRegistered, oldName))
	case errors.Is(err, registry.ErrNameTaken):
		reply(in, p.T(i18n.NameTaken, newName))
	case errors.Is(err, registry.ErrInvalidName):
		reply(in, p.T(i18n.InvalidName))
	case err != nil:
		return err
	default:
		slog.Info("character renamed", "user_id", in.UserID, "character_id", c.ID, "from", oldName, "to", c.Name)
		reply(in, p.T(i18n.Renamed, oldName, c.Name))
	}
	return nil
}

func (b *Bot) handleCharacters(ctx context.Context, in discord.Interaction, p *i18n.Printer) error {
	chars, err := b.registry.SearchUserCharacters(ctx, in.UserID, "")
	if err != nil {
		return err
	}
	if len(chars) == 0 {
		reply(in, p.T(i18n.NoCharacterList))
		return nil
	}
	lines := make([]string, 0, len(chars))
	for _, c := range chars {
		lines = append(lines, "- `"+c.Name+"`")
	}
	reply(in, p.T(i18n.CharacterList, strings.Join(lines, "\n")))
	return nil
}

func (b *Bot) handleLoD(in discord.Interaction, p *i18n.Printer) {
	windows := b.calendar.UpcomingLoD(b.now())
	if len(windows) == 0 {
		reply(in, p.T(i18n.NoLoD))
		return
	}
	lines := []string{p.T(i18n.LoDTitle)}
	for _, w := range windows {
		channels := make([]string, 0, len(w.Channels))
		for _, ch := range w.Channels {
			channels = append(channels, strconv.Itoa(ch))
		}
		lines = append(lines, p.T(i18n.LoDLine, relativeTime(w.Start), relativeTime(w.Boss), strings.Join(channels, ", ")))
	}
	reply(in, strings.Join(lines, "\n"))
}

// relativeTime renders t as a Discord timestamp such as "in 2 hours".
func relativeTime(t time.Time) string {
	return fmt.Sprintf("<t:%d:R>", t.Unix())
}

func (b *Bot) handleAutocomplete(ctx context.Context, in discord.Interaction) {
	switch in.CommandName {
	case CommandDeregister, CommandRename:
	default:
		return
	}
	chars, err := b.registry.SearchUserCharacters(ctx, in.UserID, in.Options[in.FocusedOption])
	if err != nil {
		slog.Error("autocomplete failed", "command", in.CommandName, "user_id", in.UserID, "error", err)
	}
	choices := make([]discord.Choice, 0, len(chars))
	for _, c := range chars {
		choices = append(choices, discord.Choice{Name: c.Name, Value: c.Name})
	}
	if err := in.Respond(discord.Response{Kind: discord.ResponseAutocomplete, Choices: choices}); err != nil {
		slog.Error("failed to answer autocomplete", "command", in.CommandName, "error", err)
	}
}

// HandleMessageCreate answers image submissions in submission channels. In
// today channels detection runs first; its failure never blocks the
// notification.
func (b *Bot) HandleMessageCreate(ev discord.MessageEvent) {
	defer recoverPanic("message", "message_id", ev.ID, "user_id", ev.AuthorID)
	if ev.AuthorIsBot || ev.GuildID != b.guildID || len(ev.ImageURLs()) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()

	setting, err := b.channels.GetChannelSetting(ctx, ev.ChannelID)
	if err != nil {
		slog.Error("failed to load channel setting", "channel_id", ev.ChannelID, "error", err)
		return
	}
	if setting == nil {
		return
	}
	isToday := setting.Has(repository.ChannelTodaySubmission)
	if !isToday && !setting.Has(repository.ChannelOtherDateSubmission) {
		return
	}
	locale := localeOf(setting, b.defaultLocale)
	logger := slog.With("message_id", ev.ID, "channel_id", ev.ChannelID, "user_id", ev.AuthorID)

	if isToday {
		if _, err := b.engine.DetectSubmission(ctx, ev, locale); err != nil {
			logger.Error("submission detection failed", "error", err)
		}
	}
	if err := b.engine.NotifySubmission(ctx, ev, locale, isToday); err != nil {
		logger.Error("failed to notify submission", "error", err)
		return
	}
	logger.Info("submission notified", "today", isToday)
}

func (b *Bot) locale(ctx context.Context, channelID string) string {
	setting, err := b.channels.GetChannelSetting(ctx, channelID)
	if err != nil {
		slog.Warn("failed to load channel language", "channel_id", channelID, "error", err)
		return b.defaultLocale
	}
	return localeOf(setting, b.defaultLocale)
}

func localeOf(setting *repository.ChannelSetting, fallback string) string {
	if setting == nil || setting.Language == "" {
		return fallback
	}
	return setting.Language
}

func reply(in discord.Interaction, content string) {
	if in.Respond == nil {
		return
	}
	err := in.Respond(discord.Response{
		Kind:      discord.ResponseReply,
		Ephemeral: true,
		Message:   discord.Message{Content: content},
	})
	if err != nil {
		slog.Error("failed to reply", "command", in.CommandName, "user_id", in.UserID, "error", err)
	}
}

func recoverPanic(event string, attrs ...any) {
	if r := recover(); r != nil {
		slog.Error("recovered panic in "+event+" handler", append(attrs, "panic", r, "stack", string(debug.Stack()))...)
	}
}

var _ Engine = (*workflow.Engine)(nil)
