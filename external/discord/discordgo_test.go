package discord

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/raidtracker/internal/discord"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestDeleteMessage_IgnoresUnknownMessage(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodDelete || !strings.HasSuffix(req.URL.Path, "/channels/ch-1/messages/msg-1") {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		return jsonResponse(http.StatusNotFound, `{"message":"Unknown Message","code":10008}`), nil
	})

	c := &Client{session: s}
	if err := c.DeleteMessage("ch-1", "msg-1"); err != nil {
		t.Fatalf("expected unknown message to be ignored, got %v", err)
	}
}

func TestDeleteMessage_ReturnsOtherErrors(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusForbidden, `{"message":"Missing Permissions","code":50013}`), nil
	})

	c := &Client{session: s}
	if err := c.DeleteMessage("ch-1", "msg-1"); err == nil {
		t.Fatal("expected permission error to be returned")
	}
}

func TestSendMessage_SuppressesMentionsAndReplies(t *testing.T) {
	var body map[string]any
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		return jsonResponse(http.StatusOK, `{"id":"msg-2","channel_id":"ch-1"}`), nil
	})

	c := &Client{session: s}
	id, err := c.SendMessage("ch-1", discordpkg.Message{
		Content:          "hello <@1>",
		SuppressMentions: true,
		ReplyTo:          "msg-1",
		Rows: []discordpkg.ActionRow{{Buttons: []discordpkg.Button{
			{Label: "Go", CustomID: "raid.start:abc", Style: discordpkg.ButtonSuccess},
		}}},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "msg-2" {
		t.Fatalf("expected msg-2, got %q", id)
	}
	mentions, ok := body["allowed_mentions"].(map[string]any)
	if !ok || mentions["parse"] == nil {
		t.Fatalf("expected empty allowed mentions, got %v", body["allowed_mentions"])
	}
	ref, ok := body["message_reference"].(map[string]any)
	if !ok || ref["message_id"] != "msg-1" {
		t.Fatalf("expected reply reference, got %v", body["message_reference"])
	}
	rows, ok := body["components"].([]any)
	if !ok || len(rows) != 1 {
		t.Fatalf("expected one action row, got %v", body["components"])
	}
}

func TestToInteraction_ModalSubmit(t *testing.T) {
	var ic discordgo.InteractionCreate
	raw := `{
		"type": 5,
		"guild_id": "g-1",
		"channel_id": "ch-1",
		"member": {"user": {"id": "user-1"}},
		"message": {"id": "msg-1", "channel_id": "ch-1"},
		"data": {
			"custom_id": "event.create:user-1",
			"components": [{"type": 1, "components": [{"type": 4, "custom_id": "date", "value": "2026-03-10"}]}]
		}
	}`
	if err := json.Unmarshal([]byte(raw), &ic); err != nil {
		t.Fatalf("failed to decode interaction: %v", err)
	}

	in, ok := toInteraction(ic.Interaction)
	if !ok {
		t.Fatal("expected interaction to be accepted")
	}
	if in.Kind != discordpkg.InteractionModalSubmit || in.CustomID != "event.create:user-1" || in.UserID != "user-1" {
		t.Fatalf("unexpected interaction: %+v", in)
	}
	if in.Fields["date"] != "2026-03-10" || in.MessageID != "msg-1" {
		t.Fatalf("unexpected fields: %+v", in)
	}
}

func TestToInteraction_MessageCommandTarget(t *testing.T) {
	var ic discordgo.InteractionCreate
	raw := `{
		"type": 2,
		"guild_id": "g-1",
		"channel_id": "ch-1",
		"member": {"user": {"id": "admin-1"}},
		"data": {
			"name": "Record completion",
			"type": 3,
			"target_id": "msg-9",
			"resolved": {"messages": {"msg-9": {
				"id": "msg-9",
				"channel_id": "ch-1",
				"author": {"id": "user-2"},
				"attachments": [{"id": "a", "url": "https://cdn/x.png", "filename": "x.png", "content_type": "image/png"}]
			}}}
		}
	}`
	if err := json.Unmarshal([]byte(raw), &ic); err != nil {
		t.Fatalf("failed to decode interaction: %v", err)
	}

	in, ok := toInteraction(ic.Interaction)
	if !ok || in.Target == nil {
		t.Fatalf("expected a message command with target, got %+v", in)
	}
	if in.Target.AuthorID != "user-2" || in.Target.URL != "https://discord.com/channels/g-1/ch-1/msg-9" {
		t.Fatalf("unexpected target: %+v", in.Target)
	}
	if urls := in.Target.ImageURLs(); len(urls) != 1 {
		t.Fatalf("expected one image, got %v", urls)
	}
}

func TestToInteractionResponse(t *testing.T) {
	r := toInteractionResponse(discordpkg.Response{
		Kind:      discordpkg.ResponseReply,
		Ephemeral: true,
		Message: discordpkg.Message{Rows: []discordpkg.ActionRow{{Select: &discordpkg.SelectMenu{
			CustomID:  "raid.chars:abc",
			MinValues: 1,
			MaxValues: 2,
			Options:   []discordpkg.SelectOption{{Label: "Alice1", Value: "c1"}, {Label: "Alice2", Value: "c2"}},
		}}}},
	})
	if r.Type != discordgo.InteractionResponseChannelMessageWithSource || r.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Fatalf("unexpected response: %+v", r)
	}
	row := r.Data.Components[0].(discordgo.ActionsRow)
	menu := row.Components[0].(discordgo.SelectMenu)
	if menu.MinValues == nil || *menu.MinValues != 1 || menu.MaxValues != 2 || len(menu.Options) != 2 {
		t.Fatalf("unexpected select menu: %+v", menu)
	}

	update := toInteractionResponse(discordpkg.Response{Kind: discordpkg.ResponseUpdate})
	if update.Type != discordgo.InteractionResponseUpdateMessage {
		t.Fatalf("expected update response, got %v", update.Type)
	}
	modal := toInteractionResponse(discordpkg.Response{Kind: discordpkg.ResponseModal, Modal: &discordpkg.Modal{
		CustomID: "event.create:user-1",
		Title:    "Create raid",
		Inputs: []discordpkg.TextInput{
			{CustomID: "name", Label: "Name", Required: true},
			{CustomID: "description", Label: "Description", Paragraph: true},
		},
	}})
	if modal.Type != discordgo.InteractionResponseModal || modal.Data.CustomID != "event.create:user-1" || len(modal.Data.Components) != 2 {
		t.Fatalf("unexpected modal response: %+v", modal)
	}
	name := modal.Data.Components[0].(discordgo.ActionsRow).Components[0].(discordgo.TextInput)
	if name.Required == nil || !*name.Required || name.Style != discordgo.TextInputShort {
		t.Fatalf("expected required short input, got %+v", name)
	}
	desc := modal.Data.Components[1].(discordgo.ActionsRow).Components[0].(discordgo.TextInput)
	if desc.Required == nil || *desc.Required || desc.Style != discordgo.TextInputParagraph {
		t.Fatalf("expected optional paragraph input, got %+v", desc)
	}

	deferred := toInteractionResponse(discordpkg.Response{Kind: discordpkg.ResponseDeferReply, Ephemeral: true})
	if deferred.Type != discordgo.InteractionResponseDeferredChannelMessageWithSource || deferred.Data.Flags != discordgo.MessageFlagsEphemeral {
		t.Fatalf("unexpected deferred response: %+v", deferred)
	}
}

func TestCreateScheduledEvent(t *testing.T) {
	var got discordgo.GuildScheduledEventParams
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "/guilds/g-1/scheduled-events") {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		_ = json.NewDecoder(req.Body).Decode(&got)
		return jsonResponse(http.StatusOK, `{"id":"ev-1","guild_id":"g-1"}`), nil
	})

	start := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)
	c := &Client{session: s}
	ref, err := c.CreateScheduledEvent("g-1", discordpkg.ScheduledEvent{
		Name:     "Kirollas run",
		Location: "Nostale",
		Start:    start,
		End:      start.Add(15 * time.Minute),
	})
	if err != nil {
		t.Fatalf("create scheduled event: %v", err)
	}
	if ref.ID != "ev-1" || ref.URL != "https://discord.com/events/g-1/ev-1" {
		t.Fatalf("unexpected ref: %+v", ref)
	}
	if got.Name != "Kirollas run" || got.EntityType != discordgo.GuildScheduledEventEntityTypeExternal ||
		got.EntityMetadata == nil || got.EntityMetadata.Location != "Nostale" {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got.ScheduledEndTime == nil || !got.ScheduledEndTime.Equal(start.Add(15*time.Minute)) {
		t.Fatalf("unexpected end time: %v", got.ScheduledEndTime)
	}
}

func TestUpsertGuildCommands_SkipsUnchangedCommands(t *testing.T) {
	var created, edited []string
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		switch {
		case req.Method == http.MethodGet:
			return jsonResponse(http.StatusOK, `[
				{"id":"1","name":"done","type":1,"description":"Record raid completion","options":[]},
				{"id":"2","name":"report","type":1,"description":"old description","options":[]}
			]`), nil
		case req.Method == http.MethodPost:
			var cmd discordgo.ApplicationCommand
			_ = json.NewDecoder(req.Body).Decode(&cmd)
			created = append(created, cmd.Name)
			return jsonResponse(http.StatusOK, `{"id":"3"}`), nil
		case req.Method == http.MethodPatch:
			var cmd discordgo.ApplicationCommand
			_ = json.NewDecoder(req.Body).Decode(&cmd)
			edited = append(edited, cmd.Name)
			return jsonResponse(http.StatusOK, `{"id":"2"}`), nil
		}
		t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		return nil, nil
	})
	s.State.User = &discordgo.User{ID: "app-1"}

	c := &Client{session: s}
	err := c.UpsertGuildCommands("g-1", []discordpkg.CommandDefinition{
		{Name: "done", Description: "Record raid completion", Type: discordpkg.CommandChat},
		{Name: "report", Description: "Generate a report", Type: discordpkg.CommandChat},
		{Name: "Record completion", Type: discordpkg.CommandMessage},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(created) != 1 || created[0] != "Record completion" {
		t.Fatalf("unexpected creates: %v", created)
	}
	if len(edited) != 1 || edited[0] != "report" {
		t.Fatalf("unexpected edits: %v", edited)
	}
}
