package repository

import (
	"context"
	"errors"
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
)

var (
	// ErrConflict reports a write rejected by a uniqueness constraint.
	ErrConflict = errors.New("repository: conflicting row")
	ErrNotFound = errors.New("repository: row not found")
)

type CreateCharacterInput struct {
	Name         string
	OwnerUserID  string
	RegisterDate time.Time
}

type InsertCompletionsInput struct {
	Records  []CompletionRecord
	Evidence *CompletionEvidence
}

type CharacterRepository interface {
	// ListCharactersByOwner returns the owner's characters whose unregister
	// date is empty or not before asOf, ordered by name.
	ListCharactersByOwner(ctx context.Context, ownerUserID string, asOf time.Time) ([]Character, error)
	// ListActiveCharacters returns every registration that overlaps the
	// inclusive day range [start, end].
	ListActiveCharacters(ctx context.Context, start, end time.Time) ([]Character, error)
	CreateCharacter(ctx context.Context, input CreateCharacterInput) (*Character, error)
	SetUnregisterDate(ctx context.Context, characterID string, day *time.Time) error
	RenameCharacter(ctx context.Context, characterID, name string) error
}

type CompletionRepository interface {
	// InsertCompletions writes the evidence row and the completion rows in
	// one transaction. Rows that already exist are skipped.
	InsertCompletions(ctx context.Context, input InsertCompletionsInput) error
	ListCompletions(ctx context.Context, start, end time.Time, raidTypes []raid.Type) ([]CompletionRecord, error)
}

type ChannelSettingRepository interface {
	// GetChannelSetting returns nil when the channel is not configured.
	GetChannelSetting(ctx context.Context, channelID string) (*ChannelSetting, error)
	ListChannelsByType(ctx context.Context, channelType ChannelType) ([]ChannelSetting, error)
}

type UserSettingRepository interface {
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type CreateRaidEventInput struct {
	Name              string
	Time              time.Time
	Location          string
	Description       string
	OrganizerUserID   string
	ScheduledEventID  string
	ScheduledEventURL string
}

type RaidEventRepository interface {
	CreateRaidEvent(ctx context.Context, input CreateRaidEventInput) (*RaidEvent, error)
	// GetRaidEvent returns ErrNotFound for an unknown id.
	GetRaidEvent(ctx context.Context, id string) (*RaidEvent, error)
	AddRaidEventMessage(ctx context.Context, eventID string, msg RaidEventMessage) error
	ListRaidEventMessages(ctx context.Context, eventID string) ([]RaidEventMessage, error)
	// AddRaidEventParticipant returns ErrConflict when the character already joined.
	AddRaidEventParticipant(ctx context.Context, eventID, characterID string) error
	// ListRaidEventParticipants returns participants in join order.
	ListRaidEventParticipants(ctx context.Context, eventID string) ([]RaidEventParticipant, error)
}

type Repository interface {
	CharacterRepository
	CompletionRepository
	ChannelSettingRepository
	UserSettingRepository
	RaidEventRepository
}
