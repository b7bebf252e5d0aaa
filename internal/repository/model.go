package repository

import (
	"slices"
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
)

// Character is one registration of an in-game character name to a Discord
// user. Dates are raid days at midnight UTC.
type Character struct {
	ID             string
	Name           string
	OwnerUserID    string
	RegisterDate   time.Time
	UnregisterDate *time.Time
	CreatedAt      time.Time
}

// ActiveOn reports whether the registration still counts on day.
func (c Character) ActiveOn(day time.Time) bool {
	return c.UnregisterDate == nil || !c.UnregisterDate.Before(day)
}

// Registered reports whether the character has not been deregistered at all.
func (c Character) Registered() bool {
	return c.UnregisterDate == nil
}

type CompletionRecord struct {
	CharacterID string
	RaidType    raid.Type
	RaidDate    time.Time
}

type CompletionEvidence struct {
	UserID     string
	RaidDate   time.Time
	MessageURL string
	CreatedAt  time.Time
}

type ChannelType string

const (
	ChannelTodaySubmission     ChannelType = "today_submission"
	ChannelOtherDateSubmission ChannelType = "other_date_submission"
	ChannelNotification        ChannelType = "notification"
	ChannelRaidEvent           ChannelType = "raid_event"
)

type ChannelSetting struct {
	ChannelID string
	Types     []ChannelType
	Language  string
}

func (c ChannelSetting) Has(t ChannelType) bool {
	return slices.Contains(c.Types, t)
}

type UserSetting struct {
	UserID  string
	IsAdmin bool
}

// RaidEvent is a scheduled group raid announced to the raid event channels.
type RaidEvent struct {
	ID                string
	Name              string
	Time              time.Time
	Location          string
	Description       string
	OrganizerUserID   string
	ScheduledEventID  string
	ScheduledEventURL string
	CreatedAt         time.Time
}

// RaidEventMessage is one announcement of a raid event that is kept in sync
// with its participant list.
type RaidEventMessage struct {
	ChannelID string
	MessageID string
}

type RaidEventParticipant struct {
	CharacterID   string
	CharacterName string
	OwnerUserID   string
	JoinedAt      time.Time
}
