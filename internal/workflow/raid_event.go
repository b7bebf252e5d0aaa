package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/i18n"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/repository"
)

const (
	eventNameField        = "name"
	eventDateField        = "date"
	eventTimeField        = "time"
	eventDescriptionField = "description"

	eventTimeLayout = "15:04"
	// Every event is hosted in game.
	raidEventLocation = "Nostale"
	raidEventDuration = 15 * time.Minute
)

// StartRaidEvent shows the raid event creation form. The date defaults to
// server tomorrow.
func (e *Engine) StartRaidEvent(ctx context.Context, in discord.Interaction, locale string) {
	_ = ctx
	p := e.printer(locale)
	c := &call{in: in, p: p}
	tomorrow := raid.FormatDate(e.today().AddDate(0, 0, 1))
	err := c.respond(discord.Response{
		Kind: discord.ResponseModal,
		Modal: &discord.Modal{
			CustomID: customID(RouteEventCreate, in.UserID),
			Title:    p.T(i18n.EventModalTitle),
			Inputs: []discord.TextInput{
				{CustomID: eventNameField, Label: p.T(i18n.EventNameLabel), Placeholder: "Weekly Kirollas Run", Required: true, MaxLength: 100},
				{CustomID: eventDateField, Label: p.T(i18n.EventDateLabel), Placeholder: tomorrow, Value: tomorrow, Required: true, MaxLength: 10},
				{CustomID: eventTimeField, Label: p.T(i18n.EventTimeLabel, e.location().String()), Placeholder: "18:00", Required: true, MaxLength: 5},
				{CustomID: eventDescriptionField, Label: p.T(i18n.EventDescriptionLabel), Paragraph: true, MaxLength: 1000},
			},
		},
	})
	if err != nil {
		slog.Error("failed to show raid event form", "user_id", in.UserID, "error", err)
	}
}

func (e *Engine) location() *time.Location {
	if e.calendar.Location == nil {
		return time.UTC
	}
	return e.calendar.Location
}

// channelPrinter speaks the language configured for the channel.
func (e *Engine) channelPrinter(ctx context.Context, channelID string) *i18n.Printer {
	if e.channels == nil {
		return e.printer("")
	}
	setting, err := e.channels.GetChannelSetting(ctx, channelID)
	if err != nil {
		slog.Warn("failed to load channel language", "channel_id", channelID, "error", err)
		return e.printer("")
	}
	if setting == nil {
		return e.printer("")
	}
	return e.printer(setting.Language)
}

func (e *Engine) handleEventCreate(ctx context.Context, c *call) error {
	c.p = e.channelPrinter(ctx, c.in.ChannelID)
	if c.id.SessionID != c.in.UserID {
		return errUnauthorized
	}
	name := strings.TrimSpace(c.in.Fields[eventNameField])
	description := strings.TrimSpace(c.in.Fields[eventDescriptionField])
	start, key, err := e.eventStart(c.in.Fields[eventDateField], c.in.Fields[eventTimeField])
	if err != nil {
		slog.Info("rejected raid event time", "user_id", c.in.UserID, "error", err)
		return c.reply(c.p.T(key))
	}

	if err := c.deferReply(); err != nil {
		return err
	}
	ref, err := e.eventScheduler.CreateScheduledEvent(e.guildID, discord.ScheduledEvent{
		Name:        name,
		Description: description,
		Location:    raidEventLocation,
		Start:       start,
		End:         start.Add(raidEventDuration),
	})
	if err != nil {
		return fmt.Errorf("failed to create scheduled event: %w", err)
	}
	ev, err := e.events.CreateRaidEvent(ctx, repository.CreateRaidEventInput{
		Name:              name,
		Time:              start,
		Location:          raidEventLocation,
		Description:       description,
		OrganizerUserID:   c.in.UserID,
		ScheduledEventID:  ref.ID,
		ScheduledEventURL: ref.URL,
	})
	if err != nil {
		return fmt.Errorf("failed to store raid event: %w", err)
	}
	slog.Info("raid event created", "event_id", ev.ID, "scheduled_event_id", ref.ID, "user_id", c.in.UserID, "start", start)

	if err := e.announceRaidEvent(ctx, ev); err != nil {
		return err
	}
	return c.editReply(c.p.T(i18n.EventCreated, name))
}

// eventStart combines the form's date and time in the server location. The
// returned key describes why the input was rejected.
func (e *Engine) eventStart(dateInput, timeInput string) (time.Time, i18n.Key, error) {
	day, err := raid.ParseDate(strings.TrimSpace(dateInput))
	if err != nil {
		return time.Time{}, i18n.EventInvalidDate, err
	}
	clock, err := time.Parse(eventTimeLayout, strings.TrimSpace(timeInput))
	if err != nil {
		return time.Time{}, i18n.EventInvalidTime, fmt.Errorf("invalid time %q: %w", timeInput, err)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, e.location())
	if !start.After(e.now()) {
		return time.Time{}, i18n.EventMustBeFuture, fmt.Errorf("event time %s is not in the future", start)
	}
	return start, "", nil
}

// announceRaidEvent posts the event to every raid event channel and records
// the messages so later joins can refresh them.
func (e *Engine) announceRaidEvent(ctx context.Context, ev *repository.RaidEvent) error {
	channels, err := e.channels.ListChannelsByType(ctx, repository.ChannelRaidEvent)
	if err != nil {
		return fmt.Errorf("failed to list raid event channels: %w", err)
	}
	logger := slog.With("event_id", ev.ID)
	for _, ch := range channels {
		msg := renderRaidEvent(e.printer(ch.Language), ev, nil)
		messageID, err := e.messenger.SendMessage(ch.ChannelID, msg)
		if err != nil {
			logger.Error("failed to announce raid event", "channel_id", ch.ChannelID, "error", err)
			continue
		}
		ref := repository.RaidEventMessage{ChannelID: ch.ChannelID, MessageID: messageID}
		if err := e.events.AddRaidEventMessage(ctx, ev.ID, ref); err != nil {
			logger.Error("failed to store raid event message", "channel_id", ch.ChannelID, "message_id", messageID, "error", err)
		}
	}
	return nil
}

func (e *Engine) handleEventJoin(ctx context.Context, c *call) error {
	c.p = e.channelPrinter(ctx, c.in.ChannelID)
	ev, err := e.events.GetRaidEvent(ctx, c.id.SessionID)
	if err != nil {
		return fmt.Errorf("failed to load raid event: %w", err)
	}
	chars, err := e.registry.UserCharacters(ctx, c.in.UserID, raid.Day(ev.Time.In(e.location())))
	if err != nil {
		return err
	}
	if len(chars) == 0 {
		return c.reply(c.p.T(i18n.EventNoCharacter))
	}
	// The longest registered character represents the user.
	ch := slices.MinFunc(chars, func(a, b repository.Character) int {
		if d := a.RegisterDate.Compare(b.RegisterDate); d != 0 {
			return d
		}
		return strings.Compare(a.Name, b.Name)
	})

	err = e.events.AddRaidEventParticipant(ctx, ev.ID, ch.ID)
	if errors.Is(err, repository.ErrConflict) {
		return c.reply(c.p.T(i18n.EventAlreadyJoined, ch.Name))
	}
	if err != nil {
		return fmt.Errorf("failed to join raid event: %w", err)
	}
	slog.Info("raid event joined", "event_id", ev.ID, "user_id", c.in.UserID, "character_id", ch.ID)

	e.refreshRaidEvent(ctx, ev)
	return c.reply(c.p.T(i18n.EventJoined, ch.Name))
}

// refreshRaidEvent rewrites every announcement with the current participants.
func (e *Engine) refreshRaidEvent(ctx context.Context, ev *repository.RaidEvent) {
	logger := slog.With("event_id", ev.ID)
	participants, err := e.events.ListRaidEventParticipants(ctx, ev.ID)
	if err != nil {
		logger.Error("failed to list raid event participants", "error", err)
		return
	}
	messages, err := e.events.ListRaidEventMessages(ctx, ev.ID)
	if err != nil {
		logger.Error("failed to list raid event messages", "error", err)
		return
	}
	for _, m := range messages {
		msg := renderRaidEvent(e.channelPrinter(ctx, m.ChannelID), ev, participants)
		if err := e.messenger.EditMessage(m.ChannelID, m.MessageID, msg); err != nil {
			logger.Error("failed to refresh raid event message", "channel_id", m.ChannelID, "message_id", m.MessageID, "error", err)
		}
	}
}

func renderRaidEvent(p *i18n.Printer, ev *repository.RaidEvent, participants []repository.RaidEventParticipant) discord.Message {
	at := ev.Time.Unix()
	description := ev.Description
	if description == "" {
		description = p.T(i18n.EventNoDescription)
	}

	var b strings.Builder
	b.WriteString(p.T(i18n.EventHeader))
	b.WriteString("\n\n")
	for _, line := range [][2]string{
		{p.T(i18n.EventNameField), ev.Name},
		{p.T(i18n.EventTimeField), fmt.Sprintf("<t:%d:F> (<t:%d:R>)", at, at)},
		{p.T(i18n.EventLocationField), ev.Location},
		{p.T(i18n.EventDescriptionField), description},
		{p.T(i18n.EventOrganizerField), discord.Mention(ev.OrganizerUserID)},
		{p.T(i18n.EventParticipantsField), fmt.Sprint(len(participants))},
	} {
		b.WriteString(p.T(i18n.EventLine, line[0], line[1]))
		b.WriteString("\n")
	}
	for _, pt := range participants {
		b.WriteString("- `" + pt.CharacterName + "`\n")
	}
	if ev.ScheduledEventURL != "" {
		b.WriteString("\n[" + p.T(i18n.EventView) + "](" + ev.ScheduledEventURL + ")")
	}

	return discord.Message{
		Content:          strings.TrimRight(b.String(), "\n"),
		SuppressMentions: true,
		Rows: []discord.ActionRow{{Buttons: []discord.Button{
			{Label: p.T(i18n.EventJoin), CustomID: customID(RouteEventJoin, ev.ID), Style: discord.ButtonSuccess},
		}}},
	}
}
