package discord

import (
	"context"
	"path"
	"strings"
	"time"
)

type ButtonStyle int

const (
	ButtonPrimary ButtonStyle = iota + 1
	ButtonSecondary
	ButtonSuccess
	ButtonDanger
)

type Button struct {
	Label    string
	CustomID string
	Style    ButtonStyle
	Disabled bool
}

type SelectOption struct {
	Label       string
	Value       string
	Description string
	Default     bool
}

type SelectMenu struct {
	CustomID    string
	Placeholder string
	Options     []SelectOption
	MinValues   int
	MaxValues   int
}

// ActionRow holds either up to five buttons or a single select menu.
type ActionRow struct {
	Buttons []Button
	Select  *SelectMenu
}

type TextInput struct {
	CustomID    string
	Label       string
	Placeholder string
	Value       string
	Paragraph   bool
	Required    bool
	MinLength   int
	MaxLength   int
}

type Modal struct {
	CustomID string
	Title    string
	Inputs   []TextInput
}

type Message struct {
	Content string
	Rows    []ActionRow
	// SuppressMentions renders mentions without pinging anyone.
	SuppressMentions bool
	// ReplyTo sends the message as a reply to this message id in the same channel.
	ReplyTo string
}

type ResponseKind int

const (
	// ResponseReply answers with a new message.
	ResponseReply ResponseKind = iota + 1
	// ResponseUpdate edits the message the component belongs to.
	ResponseUpdate
	ResponseModal
	// ResponseDeferUpdate acknowledges a component without changing its message.
	ResponseDeferUpdate
	ResponseAutocomplete
	// ResponseDeferReply shows a loading state that is later filled by EditReply.
	ResponseDeferReply
)

type Choice struct {
	Name  string
	Value string
}

type Response struct {
	Kind      ResponseKind
	Message   Message
	Ephemeral bool
	Modal     *Modal
	Choices   []Choice
}

type InteractionKind int

const (
	InteractionCommand InteractionKind = iota + 1
	InteractionComponent
	InteractionModalSubmit
	InteractionAutocomplete
)

type Attachment struct {
	URL         string
	Filename    string
	ContentType string
}

func (a Attachment) IsImage() bool {
	if strings.HasPrefix(a.ContentType, "image/") {
		return true
	}
	switch strings.ToLower(path.Ext(a.Filename)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}

type MessageEvent struct {
	ID          string
	ChannelID   string
	GuildID     string
	AuthorID    string
	AuthorIsBot bool
	URL         string
	Attachments []Attachment
}

func (m MessageEvent) ImageURLs() []string {
	var urls []string
	for _, a := range m.Attachments {
		if a.IsImage() {
			urls = append(urls, a.URL)
		}
	}
	return urls
}

type Interaction struct {
	Kind      InteractionKind
	GuildID   string
	ChannelID string
	UserID    string

	// Commands and autocomplete.
	CommandName   string
	Options       map[string]string
	FocusedOption string
	// Target is the message a message command was invoked on.
	Target *MessageEvent

	// Components and modal submits.
	CustomID  string
	Values    []string
	Fields    map[string]string
	MessageID string

	Respond func(Response) error
	// EditReply replaces the content of a deferred reply.
	EditReply func(Message) error
}

type CommandType int

const (
	CommandChat CommandType = iota + 1
	CommandMessage
)

// CommandOption is a string option of a chat command.
type CommandOption struct {
	Name         string
	Description  string
	Required     bool
	Autocomplete bool
}

type CommandDefinition struct {
	Name        string
	Description string
	Type        CommandType
	Options     []CommandOption
}

// Messenger sends and manages channel messages outside of an interaction response.
type Messenger interface {
	SendMessage(channelID string, msg Message) (string, error)
	EditMessage(channelID, messageID string, msg Message) error
	// DeleteMessage treats an already deleted message as success.
	DeleteMessage(channelID, messageID string) error
}

type ScheduledEvent struct {
	Name        string
	Description string
	Location    string
	Start       time.Time
	End         time.Time
}

type ScheduledEventRef struct {
	ID  string
	URL string
}

type EventScheduler interface {
	CreateScheduledEvent(guildID string, ev ScheduledEvent) (ScheduledEventRef, error)
}

type Client interface {
	Messenger
	EventScheduler
	Connect(ctx context.Context) error
	Close() error
	RegisterInteractionHandler(handler func(Interaction))
	RegisterMessageCreateHandler(handler func(MessageEvent))
	UpsertGuildCommands(guildID string, defs []CommandDefinition) error
	Run() error
}

func Mention(userID string) string {
	return "<@" + userID + ">"
}
