package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/raidtracker/internal/discord"
)

type Client struct {
	session *discordgo.Session
	token   string
}

func NewClient(token string) *Client {
	return &Client{
		token: token,
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds | discordgo.IntentsGuildMessages | discordgo.IntentsMessageContent)
	return s.Open()
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) SendMessage(channelID string, msg discordpkg.Message) (string, error) {
	send := &discordgo.MessageSend{
		Content:    msg.Content,
		Components: toComponents(msg.Rows),
	}
	if msg.SuppressMentions {
		send.AllowedMentions = &discordgo.MessageAllowedMentions{}
	}
	if msg.ReplyTo != "" {
		failIfNotExists := false
		send.Reference = &discordgo.MessageReference{
			MessageID:       msg.ReplyTo,
			ChannelID:       channelID,
			FailIfNotExists: &failIfNotExists,
		}
	}
	m, err := c.session.ChannelMessageSendComplex(channelID, send)
	if err != nil {
		return "", err
	}
	return m.ID, nil
}

func (c *Client) EditMessage(channelID, messageID string, msg discordpkg.Message) error {
	content := msg.Content
	components := toComponents(msg.Rows)
	edit := &discordgo.MessageEdit{
		ID:         messageID,
		Channel:    channelID,
		Content:    &content,
		Components: &components,
	}
	if msg.SuppressMentions {
		edit.AllowedMentions = &discordgo.MessageAllowedMentions{}
	}
	_, err := c.session.ChannelMessageEditComplex(edit)
	return err
}

func toWebhookEdit(msg discordpkg.Message) *discordgo.WebhookEdit {
	content := msg.Content
	components := toComponents(msg.Rows)
	edit := &discordgo.WebhookEdit{Content: &content, Components: &components}
	if msg.SuppressMentions {
		edit.AllowedMentions = &discordgo.MessageAllowedMentions{}
	}
	return edit
}

// CreateScheduledEvent creates an external guild event visible to members only.
func (c *Client) CreateScheduledEvent(guildID string, ev discordpkg.ScheduledEvent) (discordpkg.ScheduledEventRef, error) {
	created, err := c.session.GuildScheduledEventCreate(guildID, toScheduledEventParams(ev))
	if err != nil {
		return discordpkg.ScheduledEventRef{}, err
	}
	return discordpkg.ScheduledEventRef{
		ID:  created.ID,
		URL: fmt.Sprintf("https://discord.com/events/%s/%s", guildID, created.ID),
	}, nil
}

func toScheduledEventParams(ev discordpkg.ScheduledEvent) *discordgo.GuildScheduledEventParams {
	start, end := ev.Start, ev.End
	return &discordgo.GuildScheduledEventParams{
		Name:               ev.Name,
		Description:        ev.Description,
		ScheduledStartTime: &start,
		ScheduledEndTime:   &end,
		PrivacyLevel:       discordgo.GuildScheduledEventPrivacyLevelGuildOnly,
		EntityType:         discordgo.GuildScheduledEventEntityTypeExternal,
		EntityMetadata:     &discordgo.GuildScheduledEventEntityMetadata{Location: ev.Location},
	}
}

func (c *Client) DeleteMessage(channelID, messageID string) error {
	err := c.session.ChannelMessageDelete(channelID, messageID)
	if err != nil && isUnknownMessage(err) {
		slog.Debug("message was already deleted", "channel_id", channelID, "message_id", messageID)
		return nil
	}
	return err
}

func isUnknownMessage(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	return restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeUnknownMessage
}

func (c *Client) RegisterInteractionHandler(handler func(discordpkg.Interaction)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Interaction == nil {
			return
		}
		in, ok := toInteraction(ic.Interaction)
		if !ok {
			return
		}
		in.Respond = func(resp discordpkg.Response) error {
			return s.InteractionRespond(ic.Interaction, toInteractionResponse(resp))
		}
		in.EditReply = func(msg discordpkg.Message) error {
			_, err := s.InteractionResponseEdit(ic.Interaction, toWebhookEdit(msg))
			return err
		}
		slog.Debug("interaction received", "guild_id", in.GuildID, "channel_id", in.ChannelID, "user_id", in.UserID, "command", in.CommandName, "custom_id", in.CustomID)
		handler(in)
	})
}

func (c *Client) RegisterMessageCreateHandler(handler func(discordpkg.MessageEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, mc *discordgo.MessageCreate) {
		if mc == nil || mc.Message == nil || mc.Author == nil {
			return
		}
		handler(toMessageEvent(mc.Message, mc.GuildID))
	})
}

func interactionUserID(i *discordgo.Interaction) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func toInteraction(i *discordgo.Interaction) (discordpkg.Interaction, bool) {
	in := discordpkg.Interaction{
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		UserID:    interactionUserID(i),
	}
	if in.UserID == "" {
		return in, false
	}

	switch i.Type {
	case discordgo.InteractionApplicationCommand, discordgo.InteractionApplicationCommandAutocomplete:
		data := i.ApplicationCommandData()
		in.Kind = discordpkg.InteractionCommand
		if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
			in.Kind = discordpkg.InteractionAutocomplete
		}
		in.CommandName = data.Name
		in.Options = make(map[string]string, len(data.Options))
		for _, opt := range data.Options {
			if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
				continue
			}
			in.Options[opt.Name] = opt.StringValue()
			if opt.Focused {
				in.FocusedOption = opt.Name
			}
		}
		if data.CommandType == discordgo.MessageApplicationCommand && data.Resolved != nil {
			if m, ok := data.Resolved.Messages[data.TargetID]; ok && m != nil {
				target := toMessageEvent(m, i.GuildID)
				in.Target = &target
			}
		}
	case discordgo.InteractionMessageComponent:
		data := i.MessageComponentData()
		in.Kind = discordpkg.InteractionComponent
		in.CustomID = data.CustomID
		in.Values = data.Values
		if i.Message != nil {
			in.MessageID = i.Message.ID
		}
	case discordgo.InteractionModalSubmit:
		data := i.ModalSubmitData()
		in.Kind = discordpkg.InteractionModalSubmit
		in.CustomID = data.CustomID
		in.Fields = modalFields(data.Components)
		if i.Message != nil {
			in.MessageID = i.Message.ID
		}
	default:
		return in, false
	}
	return in, true
}

func modalFields(components []discordgo.MessageComponent) map[string]string {
	fields := make(map[string]string)
	for _, c := range components {
		row, ok := c.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, inner := range row.Components {
			if input, ok := inner.(*discordgo.TextInput); ok {
				fields[input.CustomID] = input.Value
			}
		}
	}
	return fields
}

func toMessageEvent(m *discordgo.Message, guildID string) discordpkg.MessageEvent {
	if m.GuildID != "" {
		guildID = m.GuildID
	}
	ev := discordpkg.MessageEvent{
		ID:        m.ID,
		ChannelID: m.ChannelID,
		GuildID:   guildID,
		URL:       messageURL(guildID, m.ChannelID, m.ID),
	}
	if m.Author != nil {
		ev.AuthorID = m.Author.ID
		ev.AuthorIsBot = m.Author.Bot
	}
	for _, a := range m.Attachments {
		if a == nil {
			continue
		}
		ev.Attachments = append(ev.Attachments, discordpkg.Attachment{
			URL:         a.URL,
			Filename:    a.Filename,
			ContentType: a.ContentType,
		})
	}
	return ev
}

func messageURL(guildID, channelID, messageID string) string {
	return fmt.Sprintf("https://discord.com/channels/%s/%s/%s", guildID, channelID, messageID)
}

func toInteractionResponse(resp discordpkg.Response) *discordgo.InteractionResponse {
	switch resp.Kind {
	case discordpkg.ResponseDeferUpdate:
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
	case discordpkg.ResponseDeferReply:
		data := &discordgo.InteractionResponseData{}
		if resp.Ephemeral {
			data.Flags = discordgo.MessageFlagsEphemeral
		}
		return &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredChannelMessageWithSource, Data: data}
	case discordpkg.ResponseAutocomplete:
		choices := make([]*discordgo.ApplicationCommandOptionChoice, 0, len(resp.Choices))
		for _, ch := range resp.Choices {
			choices = append(choices, &discordgo.ApplicationCommandOptionChoice{Name: ch.Name, Value: ch.Value})
		}
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionApplicationCommandAutocompleteResult,
			Data: &discordgo.InteractionResponseData{Choices: choices},
		}
	case discordpkg.ResponseModal:
		m := resp.Modal
		if m == nil {
			m = &discordpkg.Modal{}
		}
		rows := make([]discordgo.MessageComponent, 0, len(m.Inputs))
		for _, input := range m.Inputs {
			style := discordgo.TextInputShort
			if input.Paragraph {
				style = discordgo.TextInputParagraph
			}
			required := input.Required
			rows = append(rows, discordgo.ActionsRow{Components: []discordgo.MessageComponent{
				discordgo.TextInput{
					CustomID:    input.CustomID,
					Label:       input.Label,
					Style:       style,
					Placeholder: input.Placeholder,
					Value:       input.Value,
					Required:    &required,
					MinLength:   input.MinLength,
					MaxLength:   input.MaxLength,
				},
			}})
		}
		return &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseModal,
			Data: &discordgo.InteractionResponseData{
				CustomID:   m.CustomID,
				Title:      m.Title,
				Components: rows,
			},
		}
	}

	data := &discordgo.InteractionResponseData{
		Content:    resp.Message.Content,
		Components: toComponents(resp.Message.Rows),
	}
	if resp.Message.SuppressMentions {
		data.AllowedMentions = &discordgo.MessageAllowedMentions{}
	}
	if resp.Ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}
	typ := discordgo.InteractionResponseChannelMessageWithSource
	if resp.Kind == discordpkg.ResponseUpdate {
		typ = discordgo.InteractionResponseUpdateMessage
	}
	return &discordgo.InteractionResponse{Type: typ, Data: data}
}

func toComponents(rows []discordpkg.ActionRow) []discordgo.MessageComponent {
	components := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		var inner []discordgo.MessageComponent
		if row.Select != nil {
			inner = append(inner, toSelectMenu(*row.Select))
		}
		for _, b := range row.Buttons {
			inner = append(inner, discordgo.Button{
				Label:    b.Label,
				CustomID: b.CustomID,
				Style:    toButtonStyle(b.Style),
				Disabled: b.Disabled,
			})
		}
		if len(inner) > 0 {
			components = append(components, discordgo.ActionsRow{Components: inner})
		}
	}
	return components
}

func toSelectMenu(m discordpkg.SelectMenu) discordgo.SelectMenu {
	options := make([]discordgo.SelectMenuOption, 0, len(m.Options))
	for _, o := range m.Options {
		options = append(options, discordgo.SelectMenuOption{
			Label:       o.Label,
			Value:       o.Value,
			Description: o.Description,
			Default:     o.Default,
		})
	}
	menu := discordgo.SelectMenu{
		MenuType:    discordgo.StringSelectMenu,
		CustomID:    m.CustomID,
		Placeholder: m.Placeholder,
		Options:     options,
		MaxValues:   m.MaxValues,
	}
	if m.MinValues > 0 {
		minValues := m.MinValues
		menu.MinValues = &minValues
	}
	return menu
}

func toButtonStyle(style discordpkg.ButtonStyle) discordgo.ButtonStyle {
	switch style {
	case discordpkg.ButtonSecondary:
		return discordgo.SecondaryButton
	case discordpkg.ButtonSuccess:
		return discordgo.SuccessButton
	case discordpkg.ButtonDanger:
		return discordgo.DangerButton
	}
	return discordgo.PrimaryButton
}

func (c *Client) UpsertGuildCommands(guildID string, defs []discordpkg.CommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return fmt.Errorf("discord application id is not available")
	}
	existing, err := c.session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertGuildCommand(appID, guildID, def, existingByName); err != nil {
			return fmt.Errorf("failed to upsert command %s: %w", def.Name, err)
		}
	}
	return nil
}

func (c *Client) upsertGuildCommand(appID, guildID string, def discordpkg.CommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := toApplicationCommand(def)
	cmd, ok := existingByName[def.Name]
	if !ok {
		_, err := c.session.ApplicationCommandCreate(appID, guildID, payload)
		return err
	}
	if sameCommand(cmd, payload) {
		return nil
	}
	_, err := c.session.ApplicationCommandEdit(appID, guildID, cmd.ID, payload)
	return err
}

func toApplicationCommand(def discordpkg.CommandDefinition) *discordgo.ApplicationCommand {
	if def.Type == discordpkg.CommandMessage {
		return &discordgo.ApplicationCommand{
			Name: def.Name,
			Type: discordgo.MessageApplicationCommand,
		}
	}
	options := make([]*discordgo.ApplicationCommandOption, 0, len(def.Options))
	for _, o := range def.Options {
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:         discordgo.ApplicationCommandOptionString,
			Name:         o.Name,
			Description:  o.Description,
			Required:     o.Required,
			Autocomplete: o.Autocomplete,
		})
	}
	return &discordgo.ApplicationCommand{
		Name:        def.Name,
		Type:        discordgo.ChatApplicationCommand,
		Description: def.Description,
		Options:     options,
	}
}

func sameCommand(existing, want *discordgo.ApplicationCommand) bool {
	if existing.Type != want.Type || existing.Description != want.Description {
		return false
	}
	return slices.EqualFunc(existing.Options, want.Options, func(a, b *discordgo.ApplicationCommandOption) bool {
		return a.Name == b.Name && a.Description == b.Description && a.Type == b.Type &&
			a.Required == b.Required && a.Autocomplete == b.Autocomplete
	})
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	if c.session.State.Application != nil && c.session.State.Application.ID != "" {
		return c.session.State.Application.ID
	}
	if c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

func (c *Client) Run() error {
	select {}
}

var _ discordpkg.Client = (*Client)(nil)
