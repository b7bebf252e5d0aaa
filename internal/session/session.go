package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	DefaultTTL = 300 * time.Second

	idAlphabet = "0123456789abcdef"
	idLength   = 16
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrWrongKind = errors.New("session kind mismatch")
)

type Kind string

const (
	KindRaidWorkflow      Kind = "raid_workflow"
	KindDetectionWorkflow Kind = "detection_workflow"
	KindReportGeneration  Kind = "report_generation"
)

// Session is one in-flight workflow. Implementations are the pointer types
// *RaidWorkflow, *DetectionWorkflow and *ReportGeneration.
type Session interface {
	ID() string
	Kind() Kind
	Actor() string
	base() *Base
}

// Store persists sessions under a sliding TTL. Get and Update return
// ErrNotFound once a session expired or was deleted. Writes replace the whole
// session; concurrent writers race and the last write wins.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id string) (Session, error)
	Update(ctx context.Context, s Session) error
	Delete(ctx context.Context, id string) error
}

type Base struct {
	SessionID            string `json:"sessionId"`
	ActionUserID         string `json:"actionUserId"`
	Locale               string `json:"locale"`
	InteractionMessageID string `json:"interactionMessageId,omitempty"`
	InteractionChannelID string `json:"interactionChannelId,omitempty"`
}

func (b *Base) ID() string    { return b.SessionID }
func (b *Base) Actor() string { return b.ActionUserID }
func (b *Base) base() *Base   { return b }

// IsActor reports whether userID may drive the session.
func IsActor(s Session, userID string) bool {
	return userID != "" && s.Actor() == userID
}

func LocaleOf(s Session) string {
	return s.base().Locale
}

// SetInteractionMessage records the message the workflow renders into.
func SetInteractionMessage(s Session, channelID, messageID string) {
	b := s.base()
	b.InteractionChannelID = channelID
	b.InteractionMessageID = messageID
}

type RaidStep string

const (
	StepDateSelection         RaidStep = "date_selection"
	StepInitial               RaidStep = "initial"
	StepRaidSelection         RaidStep = "raid_selection"
	StepCharacterConfirmation RaidStep = "character_confirmation"
	StepCharacterSelection    RaidStep = "character_selection"
	StepComplete              RaidStep = "complete"
)

type RaidWorkflow struct {
	Base
	TargetUserID       string `json:"targetUserId"`
	IsAdmin            bool   `json:"isAdmin,omitempty"`
	IsToday            bool   `json:"isToday,omitempty"`
	EvidenceMessageURL string `json:"evidenceMessageUrl,omitempty"`

	Step                 RaidStep  `json:"step,omitempty"`
	RaidDate             string    `json:"raidDate,omitempty"`
	BothRaids            bool      `json:"bothRaids,omitempty"`
	SelectedRaid         raid.Type `json:"selectedRaid,omitempty"`
	AllCharacters        bool      `json:"allCharacters,omitempty"`
	SelectedCharacterIDs []string  `json:"selectedCharacterIds,omitempty"`
}

func (*RaidWorkflow) Kind() Kind { return KindRaidWorkflow }

// RaidTypes resolves which raids the workflow records.
func (w *RaidWorkflow) RaidTypes() []raid.Type {
	if w.BothRaids {
		return slices.Clone(raid.Tracked)
	}
	if w.SelectedRaid == "" {
		return nil
	}
	return []raid.Type{w.SelectedRaid}
}

type DetectionWorkflow struct {
	Base
	EvidenceMessageURL string   `json:"evidenceMessageUrl,omitempty"`
	DetectedCharacters []string `json:"detectedCharacters"`
	DetectedOwners     []string `json:"detectedOwners"`
	CompletedOwners    []string `json:"completedOwners"`
}

func (*DetectionWorkflow) Kind() Kind { return KindDetectionWorkflow }

// Pending returns the tagged owners that have not confirmed yet, in tag order.
func (d *DetectionWorkflow) Pending() []string {
	pending := make([]string, 0, len(d.DetectedOwners))
	for _, owner := range d.DetectedOwners {
		if !slices.Contains(d.CompletedOwners, owner) {
			pending = append(pending, owner)
		}
	}
	return pending
}

func (d *DetectionWorkflow) IsPending(userID string) bool {
	return slices.Contains(d.DetectedOwners, userID) && !slices.Contains(d.CompletedOwners, userID)
}

// MarkCompleted moves userID out of the pending set. It returns false when
// the user was not pending.
func (d *DetectionWorkflow) MarkCompleted(userID string) bool {
	if !d.IsPending(userID) {
		return false
	}
	d.CompletedOwners = append(d.CompletedOwners, userID)
	return true
}

type ReportType string

const (
	ReportDaily   ReportType = "daily"
	ReportWeekly  ReportType = "weekly"
	ReportMonthly ReportType = "monthly"
)

func ParseReportType(s string) (ReportType, bool) {
	switch ReportType(s) {
	case ReportDaily, ReportWeekly, ReportMonthly:
		return ReportType(s), true
	default:
		return "", false
	}
}

type ReportGeneration struct {
	Base
	ReportType      ReportType `json:"reportType,omitempty"`
	ReportRaidType  raid.Type  `json:"reportRaidType,omitempty"`
	ReportStartDate string     `json:"reportStartDate,omitempty"`
	ReportEndDate   string     `json:"reportEndDate,omitempty"`
}

func (*ReportGeneration) Kind() Kind { return KindReportGeneration }

// NewID returns a random 16 character lowercase hex session id.
func NewID() (string, error) {
	id, err := gonanoid.Generate(idAlphabet, idLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return id, nil
}

// Load fetches a session and asserts its concrete kind.
func Load[T Session](ctx context.Context, store Store, id string) (T, error) {
	var zero T
	s, err := store.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	typed, ok := s.(T)
	if !ok {
		return zero, fmt.Errorf("session %s is %s: %w", id, s.Kind(), ErrWrongKind)
	}
	return typed, nil
}
