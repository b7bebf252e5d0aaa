// Package repositorytest provides an in-memory repository for tests that
// honors the same uniqueness and transaction rules as the Postgres one.
package repositorytest

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/repository"
)

type completionKey struct {
	characterID string
	raidType    raid.Type
	raidDate    string
}

type Repository struct {
	mu           sync.Mutex
	nextID       int
	characters   []repository.Character
	completions  map[completionKey]repository.CompletionRecord
	evidences    []repository.CompletionEvidence
	channels     map[string]repository.ChannelSetting
	admins       map[string]bool
	events       map[string]repository.RaidEvent
	eventMsgs    map[string][]repository.RaidEventMessage
	participants map[string][]repository.RaidEventParticipant

	// InsertErr, when set, fails InsertCompletions after the evidence row was
	// staged so tests can observe the rollback.
	InsertErr error
	// ListErr fails every read.
	ListErr error

	InsertCalls int
}

func New() *Repository {
	return &Repository{
		completions:  make(map[completionKey]repository.CompletionRecord),
		channels:     make(map[string]repository.ChannelSetting),
		admins:       make(map[string]bool),
		events:       make(map[string]repository.RaidEvent),
		eventMsgs:    make(map[string][]repository.RaidEventMessage),
		participants: make(map[string][]repository.RaidEventParticipant),
	}
}

// AddCharacter seeds a registration and returns it.
func (r *Repository) AddCharacter(owner, name string, registered time.Time, unregistered *time.Time) repository.Character {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	c := repository.Character{
		ID:             fmt.Sprintf("char-%d", r.nextID),
		Name:           name,
		OwnerUserID:    owner,
		RegisterDate:   registered,
		UnregisterDate: unregistered,
	}
	r.characters = append(r.characters, c)
	return c
}

func (r *Repository) SetChannel(setting repository.ChannelSetting) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.channels[setting.ChannelID] = setting
}

func (r *Repository) SetAdmin(userID string, admin bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.admins[userID] = admin
}

func (r *Repository) Characters() []repository.Character {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.characters)
}

// Completions returns every stored record ordered by date, character and raid.
func (r *Repository) Completions() []repository.CompletionRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]repository.CompletionRecord, 0, len(r.completions))
	for _, rec := range r.completions {
		out = append(out, rec)
	}
	sortRecords(out)
	return out
}

func (r *Repository) Evidences() []repository.CompletionEvidence {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.evidences)
}

func (r *Repository) ListCharactersByOwner(_ context.Context, ownerUserID string, asOf time.Time) ([]repository.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	var out []repository.Character
	for _, c := range r.characters {
		if c.OwnerUserID == ownerUserID && c.ActiveOn(asOf) {
			out = append(out, c)
		}
	}
	sortCharacters(out)
	return out, nil
}

func (r *Repository) ListActiveCharacters(_ context.Context, start, end time.Time) ([]repository.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	var out []repository.Character
	for _, c := range r.characters {
		if !c.RegisterDate.After(end) && c.ActiveOn(start) {
			out = append(out, c)
		}
	}
	sortCharacters(out)
	return out, nil
}

func (r *Repository) CreateCharacter(_ context.Context, input repository.CreateCharacterInput) (*repository.Character, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.characters {
		if c.OwnerUserID == input.OwnerUserID && c.Name == input.Name && c.UnregisterDate == nil {
			return nil, repository.ErrConflict
		}
	}
	r.nextID++
	c := repository.Character{
		ID:           fmt.Sprintf("char-%d", r.nextID),
		Name:         input.Name,
		OwnerUserID:  input.OwnerUserID,
		RegisterDate: input.RegisterDate,
	}
	r.characters = append(r.characters, c)
	return &c, nil
}

func (r *Repository) SetUnregisterDate(_ context.Context, characterID string, day *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(characterID)
	if i < 0 {
		return repository.ErrNotFound
	}
	if day == nil {
		for _, c := range r.characters {
			if c.ID != characterID && c.OwnerUserID == r.characters[i].OwnerUserID && c.Name == r.characters[i].Name && c.UnregisterDate == nil {
				return repository.ErrConflict
			}
		}
		r.characters[i].UnregisterDate = nil
		return nil
	}
	d := *day
	r.characters[i].UnregisterDate = &d
	return nil
}

func (r *Repository) RenameCharacter(_ context.Context, characterID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexLocked(characterID)
	if i < 0 {
		return repository.ErrNotFound
	}
	for _, c := range r.characters {
		if c.ID != characterID && c.OwnerUserID == r.characters[i].OwnerUserID && c.Name == name && c.UnregisterDate == nil {
			return repository.ErrConflict
		}
	}
	r.characters[i].Name = name
	return nil
}

func (r *Repository) InsertCompletions(_ context.Context, input repository.InsertCompletionsInput) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.InsertCalls++

	staged := make(map[completionKey]repository.CompletionRecord, len(input.Records))
	for _, rec := range input.Records {
		if r.indexLocked(rec.CharacterID) < 0 {
			return fmt.Errorf("character %s does not exist", rec.CharacterID)
		}
		staged[keyOf(rec)] = rec
	}
	var evidence []repository.CompletionEvidence
	if input.Evidence != nil {
		evidence = append(evidence, *input.Evidence)
	}
	if r.InsertErr != nil {
		return r.InsertErr
	}

	for k, rec := range staged {
		if _, exists := r.completions[k]; exists {
			continue
		}
		r.completions[k] = rec
	}
	r.evidences = append(r.evidences, evidence...)
	return nil
}

func (r *Repository) ListCompletions(_ context.Context, start, end time.Time, raidTypes []raid.Type) ([]repository.CompletionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	var out []repository.CompletionRecord
	for _, rec := range r.completions {
		if rec.RaidDate.Before(start) || rec.RaidDate.After(end) {
			continue
		}
		if len(raidTypes) > 0 && !slices.Contains(raidTypes, rec.RaidType) {
			continue
		}
		out = append(out, rec)
	}
	sortRecords(out)
	return out, nil
}

func (r *Repository) GetChannelSetting(_ context.Context, channelID string) (*repository.ChannelSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.channels[channelID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *Repository) ListChannelsByType(_ context.Context, channelType repository.ChannelType) ([]repository.ChannelSetting, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ListErr != nil {
		return nil, r.ListErr
	}
	var out []repository.ChannelSetting
	for _, s := range r.channels {
		if s.Has(channelType) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ChannelID < out[j].ChannelID })
	return out, nil
}

func (r *Repository) CreateRaidEvent(_ context.Context, input repository.CreateRaidEventInput) (*repository.RaidEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ev := repository.RaidEvent{
		ID:                fmt.Sprintf("event-%d", r.nextID),
		Name:              input.Name,
		Time:              input.Time,
		Location:          input.Location,
		Description:       input.Description,
		OrganizerUserID:   input.OrganizerUserID,
		ScheduledEventID:  input.ScheduledEventID,
		ScheduledEventURL: input.ScheduledEventURL,
	}
	r.events[ev.ID] = ev
	return &ev, nil
}

func (r *Repository) GetRaidEvent(_ context.Context, id string) (*repository.RaidEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ev, ok := r.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ev, nil
}

func (r *Repository) AddRaidEventMessage(_ context.Context, eventID string, msg repository.RaidEventMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[eventID]; !ok {
		return fmt.Errorf("raid event %s does not exist", eventID)
	}
	if !slices.Contains(r.eventMsgs[eventID], msg) {
		r.eventMsgs[eventID] = append(r.eventMsgs[eventID], msg)
	}
	return nil
}

func (r *Repository) ListRaidEventMessages(_ context.Context, eventID string) ([]repository.RaidEventMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.eventMsgs[eventID]), nil
}

func (r *Repository) AddRaidEventParticipant(_ context.Context, eventID, characterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[eventID]; !ok {
		return fmt.Errorf("raid event %s does not exist", eventID)
	}
	i := r.indexLocked(characterID)
	if i < 0 {
		return fmt.Errorf("character %s does not exist", characterID)
	}
	for _, p := range r.participants[eventID] {
		if p.CharacterID == characterID {
			return repository.ErrConflict
		}
	}
	c := r.characters[i]
	r.participants[eventID] = append(r.participants[eventID], repository.RaidEventParticipant{
		CharacterID:   c.ID,
		CharacterName: c.Name,
		OwnerUserID:   c.OwnerUserID,
	})
	return nil
}

func (r *Repository) ListRaidEventParticipants(_ context.Context, eventID string) ([]repository.RaidEventParticipant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.participants[eventID]), nil
}

func (r *Repository) IsAdmin(_ context.Context, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.admins[userID], nil
}

func (r *Repository) indexLocked(characterID string) int {
	for i, c := range r.characters {
		if c.ID == characterID {
			return i
		}
	}
	return -1
}

func keyOf(rec repository.CompletionRecord) completionKey {
	return completionKey{
		characterID: rec.CharacterID,
		raidType:    rec.RaidType,
		raidDate:    raid.FormatDate(rec.RaidDate),
	}
}

func sortCharacters(list []repository.Character) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}

func sortRecords(list []repository.CompletionRecord) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if !a.RaidDate.Equal(b.RaidDate) {
			return a.RaidDate.Before(b.RaidDate)
		}
		if a.CharacterID != b.CharacterID {
			return a.CharacterID < b.CharacterID
		}
		return a.RaidType < b.RaidType
	})
}

var _ repository.Repository = (*Repository)(nil)
