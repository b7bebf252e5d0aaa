package workflow

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/i18n"
	"github.com/foxseedlab/raidtracker/internal/repository"
)

var eventStart = time.Date(2026, 3, 11, 18, 0, 0, 0, time.UTC)

func eventForm(userID string, fields map[string]string, r *responder) discord.Interaction {
	return discord.Interaction{
		Kind:      discord.InteractionModalSubmit,
		GuildID:   "guild-1",
		ChannelID: "chan-1",
		UserID:    userID,
		CustomID:  customID(RouteEventCreate, userID),
		Fields:    fields,
		Respond:   r.respond,
		EditReply: r.editReply,
	}
}

func seedEventChannels(h *harness) {
	h.repo.SetChannel(repository.ChannelSetting{ChannelID: "ev-en", Types: []repository.ChannelType{repository.ChannelRaidEvent}, Language: i18n.English})
	h.repo.SetChannel(repository.ChannelSetting{ChannelID: "ev-zh", Types: []repository.ChannelType{repository.ChannelRaidEvent}, Language: i18n.TraditionalChinese})
	h.repo.SetChannel(repository.ChannelSetting{ChannelID: "subs", Types: []repository.ChannelType{repository.ChannelTodaySubmission}})
}

// createEvent submits a valid form and returns the announced event id.
func createEvent(t *testing.T, h *harness) string {
	t.Helper()
	r := &responder{}
	h.engine.Dispatch(context.Background(), eventForm("org-1", map[string]string{
		eventNameField:        "Kirollas run",
		eventDateField:        "2026-03-11",
		eventTimeField:        "18:00",
		eventDescriptionField: "Bring potions",
	}, r))
	if len(r.edits) != 1 || r.edits[0].Content != en.T(i18n.EventCreated, "Kirollas run") {
		t.Fatalf("unexpected deferred answer: %+v", r.edits)
	}
	if len(h.messenger.sent) == 0 {
		t.Fatal("expected the event to be announced")
	}
	return sessionOf(t, h.messenger.sent[0].msg)
}

func TestStartRaidEvent_ShowsForm(t *testing.T) {
	h := newHarness(t)
	r := &responder{}
	h.engine.StartRaidEvent(context.Background(), command("org-1", r), i18n.English)

	resp := r.last(t)
	if resp.Kind != discord.ResponseModal || resp.Modal == nil {
		t.Fatalf("expected the event form, got %+v", resp)
	}
	m := resp.Modal
	if m.CustomID != customID(RouteEventCreate, "org-1") || len(m.Inputs) != 4 {
		t.Fatalf("unexpected form: %+v", m)
	}
	if date := m.Inputs[1]; date.CustomID != eventDateField || date.Value != "2026-03-11" {
		t.Fatalf("expected tomorrow as the default date, got %+v", date)
	}
	if tm := m.Inputs[2]; !strings.Contains(tm.Label, "UTC") {
		t.Fatalf("expected the time zone in the time label, got %q", tm.Label)
	}
	if desc := m.Inputs[3]; !desc.Paragraph || desc.Required {
		t.Fatalf("expected an optional paragraph description, got %+v", desc)
	}
}

func TestCreateRaidEvent_AnnouncesToEventChannels(t *testing.T) {
	h := newHarness(t)
	seedEventChannels(h)

	r := &responder{}
	h.engine.Dispatch(context.Background(), eventForm("org-1", map[string]string{
		eventNameField: "Kirollas run",
		eventDateField: "2026-03-11",
		eventTimeField: "18:00",
	}, r))

	if len(r.got) != 1 || r.got[0].Kind != discord.ResponseDeferReply || !r.got[0].Ephemeral {
		t.Fatalf("expected an ephemeral deferred reply, got %+v", r.got)
	}
	if len(r.edits) != 1 || r.edits[0].Content != en.T(i18n.EventCreated, "Kirollas run") {
		t.Fatalf("unexpected final answer: %+v", r.edits)
	}

	if len(h.events.events) != 1 || h.events.guildIDs[0] != "guild-1" {
		t.Fatalf("expected one scheduled event in the guild, got %+v", h.events)
	}
	sched := h.events.events[0]
	if !sched.Start.Equal(eventStart) || !sched.End.Equal(eventStart.Add(15*time.Minute)) || sched.Location != "Nostale" {
		t.Fatalf("unexpected scheduled event: %+v", sched)
	}

	if len(h.messenger.sent) != 2 {
		t.Fatalf("expected announcements in both event channels, got %d", len(h.messenger.sent))
	}
	enMsg, zhMsg := h.messenger.sent[0], h.messenger.sent[1]
	if enMsg.channelID != "ev-en" || zhMsg.channelID != "ev-zh" {
		t.Fatalf("unexpected channels: %s %s", enMsg.channelID, zhMsg.channelID)
	}
	stamp := fmt.Sprintf("<t:%d:F>", eventStart.Unix())
	if !strings.Contains(enMsg.msg.Content, stamp) || !strings.Contains(enMsg.msg.Content, en.T(i18n.EventNoDescription)) {
		t.Fatalf("unexpected announcement %q", enMsg.msg.Content)
	}
	if !strings.Contains(enMsg.msg.Content, "https://discord.com/events/guild-1/sched-1") {
		t.Fatalf("expected a link to the scheduled event, got %q", enMsg.msg.Content)
	}
	if !strings.Contains(zhMsg.msg.Content, i18n.For(i18n.TraditionalChinese).T(i18n.EventHeader)) {
		t.Fatalf("expected the channel language, got %q", zhMsg.msg.Content)
	}
	join := enMsg.msg.Rows[0].Buttons[0]
	id, err := ParseCustomID(join.CustomID)
	if err != nil || id.Route != RouteEventJoin {
		t.Fatalf("unexpected join button %+v: %v", join, err)
	}

	stored, err := h.repo.ListRaidEventMessages(context.Background(), id.SessionID)
	if err != nil || len(stored) != 2 {
		t.Fatalf("expected both announcements to be stored, got %v (%v)", stored, err)
	}
	ev, err := h.repo.GetRaidEvent(context.Background(), id.SessionID)
	if err != nil || ev.OrganizerUserID != "org-1" || ev.ScheduledEventID != "sched-1" {
		t.Fatalf("unexpected stored event %+v: %v", ev, err)
	}
}

func TestCreateRaidEvent_RejectsInput(t *testing.T) {
	tests := []struct {
		name       string
		date, time string
		want       i18n.Key
	}{
		{name: "bad date", date: "2026/03/11", time: "18:00", want: i18n.EventInvalidDate},
		{name: "bad time", date: "2026-03-11", time: "25:00", want: i18n.EventInvalidTime},
		{name: "past", date: "2026-03-10", time: "11:59", want: i18n.EventMustBeFuture},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			seedEventChannels(h)
			r := &responder{}
			h.engine.Dispatch(context.Background(), eventForm("org-1", map[string]string{
				eventNameField: "Kirollas run",
				eventDateField: tt.date,
				eventTimeField: tt.time,
			}, r))

			resp := r.last(t)
			if resp.Kind != discord.ResponseReply || !resp.Ephemeral || resp.Message.Content != en.T(tt.want) {
				t.Fatalf("unexpected response: %+v", resp)
			}
			if len(h.events.events) != 0 || len(h.messenger.sent) != 0 {
				t.Fatal("expected nothing to be created")
			}
		})
	}
}

func TestCreateRaidEvent_SchedulerFailureAnswersDeferredReply(t *testing.T) {
	h := newHarness(t)
	seedEventChannels(h)
	h.events.err = errors.New("missing permission")

	r := &responder{}
	h.engine.Dispatch(context.Background(), eventForm("org-1", map[string]string{
		eventNameField: "Kirollas run",
		eventDateField: "2026-03-11",
		eventTimeField: "18:00",
	}, r))

	if len(r.edits) != 1 || r.edits[0].Content != en.T(i18n.ErrorOccurred) {
		t.Fatalf("expected the error in the deferred reply, got %+v", r.edits)
	}
	if len(r.got) != 1 {
		t.Fatalf("expected only the deferral as a response, got %+v", r.got)
	}
	if len(h.messenger.sent) != 0 {
		t.Fatal("expected no announcement")
	}
}

func TestCreateRaidEvent_OnlyTheOpenerCanSubmit(t *testing.T) {
	h := newHarness(t)
	r := &responder{}
	in := eventForm("org-1", map[string]string{eventNameField: "x", eventDateField: "2026-03-11", eventTimeField: "18:00"}, r)
	in.UserID = "user-x"
	h.engine.Dispatch(context.Background(), in)

	if resp := r.last(t); resp.Message.Content != en.T(i18n.CannotUse) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestJoinRaidEvent(t *testing.T) {
	h := newHarness(t)
	seedEventChannels(h)
	h.repo.AddCharacter("user-b", "Amy", today.AddDate(0, 0, -2), nil)
	h.repo.AddCharacter("user-b", "Zed", today.AddDate(0, 0, -10), nil)
	eventID := createEvent(t, h)
	join := customID(RouteEventJoin, eventID)

	resp := h.click(t, "user-b", join)
	if resp.Kind != discord.ResponseReply || !resp.Ephemeral || resp.Message.Content != en.T(i18n.EventJoined, "Zed") {
		t.Fatalf("expected the oldest registration to join, got %+v", resp)
	}
	if len(h.messenger.edited) != 2 {
		t.Fatalf("expected both announcements to be refreshed, got %d", len(h.messenger.edited))
	}
	for _, e := range h.messenger.edited {
		if !strings.Contains(e.msg.Content, "- `Zed`") || len(e.msg.Rows) != 1 {
			t.Fatalf("unexpected refreshed announcement: %+v", e)
		}
	}
	if !strings.Contains(h.messenger.edited[0].msg.Content, en.T(i18n.EventLine, en.T(i18n.EventParticipantsField), "1")) {
		t.Fatalf("expected the participant count, got %q", h.messenger.edited[0].msg.Content)
	}

	resp = h.click(t, "user-b", join)
	if resp.Message.Content != en.T(i18n.EventAlreadyJoined, "Zed") {
		t.Fatalf("expected a duplicate join to be rejected, got %+v", resp)
	}
	if len(h.messenger.edited) != 2 {
		t.Fatal("expected no refresh for a duplicate join")
	}

	resp = h.click(t, "user-c", join)
	if resp.Message.Content != en.T(i18n.EventNoCharacter) {
		t.Fatalf("expected users without characters to be rejected, got %+v", resp)
	}
}

func TestJoinRaidEvent_UnknownEvent(t *testing.T) {
	h := newHarness(t)
	h.repo.AddCharacter("user-b", "Amy", today, nil)

	resp := h.click(t, "user-b", customID(RouteEventJoin, "event-missing"))
	if resp.Kind != discord.ResponseReply || resp.Message.Content != en.T(i18n.ErrorOccurred) {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
