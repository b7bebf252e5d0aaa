package registry

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/repository"
	"golang.org/x/sync/singleflight"
)

const (
	maxCharacterNameLength = 32
	maxSearchResults       = 25

	tagOwners = "owners"
)

var (
	ErrAlreadyRegistered = errors.New("character is already registered")
	ErrNotRegistered     = errors.New("character is not registered")
	ErrNameTaken         = errors.New("character name is already used")
	ErrInvalidName       = errors.New("character name is invalid")
)

// Registry answers ownership and completeness questions over registered
// characters. Ownership reads are cached and dropped on every registration
// mutation; completeness reads always hit the repository because completions
// change without a registration mutation.
type Registry struct {
	characters  repository.CharacterRepository
	completions repository.CompletionRepository
	calendar    raid.Calendar
	now         func() time.Time

	cache *tagCache
	group singleflight.Group
}

func New(characters repository.CharacterRepository, completions repository.CompletionRepository, calendar raid.Calendar, cacheTTL time.Duration, now func() time.Time) *Registry {
	if now == nil {
		now = time.Now
	}
	return &Registry{
		characters:  characters,
		completions: completions,
		calendar:    calendar,
		now:         now,
		cache:       newTagCache(cacheTTL, now),
	}
}

func (r *Registry) today() time.Time {
	return r.calendar.Today(r.now())
}

func userTag(userID string) string {
	return "user:" + userID
}

// UserCharacters returns the characters userID owns on asOf.
func (r *Registry) UserCharacters(ctx context.Context, userID string, asOf time.Time) ([]repository.Character, error) {
	key := "chars:" + userID + ":" + raid.FormatDate(asOf)
	v, err := r.cached(key, []string{userTag(userID)}, func() (any, error) {
		return r.characters.ListCharactersByOwner(ctx, userID, asOf)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list characters of %s: %w", userID, err)
	}
	return slices.Clone(v.([]repository.Character)), nil
}

// CharacterOwners maps each active character name on day to the users that
// registered it. Several users may hold the same name.
func (r *Registry) CharacterOwners(ctx context.Context, day time.Time) (map[string][]string, error) {
	key := "owners:" + raid.FormatDate(day)
	v, err := r.cached(key, []string{tagOwners}, func() (any, error) {
		chars, err := r.characters.ListActiveCharacters(ctx, day, day)
		if err != nil {
			return nil, err
		}
		owners := make(map[string][]string)
		for _, c := range chars {
			if !slices.Contains(owners[c.Name], c.OwnerUserID) {
				owners[c.Name] = append(owners[c.Name], c.OwnerUserID)
			}
		}
		return owners, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve character owners: %w", err)
	}
	src := v.(map[string][]string)
	out := make(map[string][]string, len(src))
	for name, ids := range src {
		out[name] = slices.Clone(ids)
	}
	return out, nil
}

// IncompleteCharacters returns the sorted names of characters that have not
// finished every tracked raid on day.
func (r *Registry) IncompleteCharacters(ctx context.Context, day time.Time) ([]string, error) {
	chars, err := r.incomplete(ctx, day)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, c := range chars {
		if !slices.Contains(names, c.Name) {
			names = append(names, c.Name)
		}
	}
	sort.Strings(names)
	return names, nil
}

// IncompleteUsers returns the users owning at least one incomplete character on day.
func (r *Registry) IncompleteUsers(ctx context.Context, day time.Time) (map[string]struct{}, error) {
	chars, err := r.incomplete(ctx, day)
	if err != nil {
		return nil, err
	}
	users := make(map[string]struct{}, len(chars))
	for _, c := range chars {
		users[c.OwnerUserID] = struct{}{}
	}
	return users, nil
}

func (r *Registry) incomplete(ctx context.Context, day time.Time) ([]repository.Character, error) {
	chars, err := r.characters.ListActiveCharacters(ctx, day, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list active characters: %w", err)
	}
	records, err := r.completions.ListCompletions(ctx, day, day, raid.Tracked)
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	done := make(map[string]map[raid.Type]struct{}, len(records))
	for _, rec := range records {
		if done[rec.CharacterID] == nil {
			done[rec.CharacterID] = make(map[raid.Type]struct{})
		}
		done[rec.CharacterID][rec.RaidType] = struct{}{}
	}
	var out []repository.Character
	for _, c := range chars {
		if len(done[c.ID]) < len(raid.Tracked) {
			out = append(out, c)
		}
	}
	return out, nil
}

// SearchUserCharacters returns up to 25 registered characters of userID whose
// name contains query, for autocomplete.
func (r *Registry) SearchUserCharacters(ctx context.Context, userID, query string) ([]repository.Character, error) {
	chars, err := r.UserCharacters(ctx, userID, r.today())
	if err != nil {
		return nil, err
	}
	query = strings.ToLower(strings.TrimSpace(query))
	var out []repository.Character
	for _, c := range chars {
		if !c.Registered() {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(c.Name), query) {
			continue
		}
		out = append(out, c)
		if len(out) == maxSearchResults {
			break
		}
	}
	return out, nil
}

// Register binds name to userID. A registration removed earlier the same day
// is reactivated instead of creating a second row.
func (r *Registry) Register(ctx context.Context, userID, name string) (*repository.Character, error) {
	name, err := normalizeName(name)
	if err != nil {
		return nil, err
	}
	today := r.today()
	chars, err := r.characters.ListCharactersByOwner(ctx, userID, today)
	if err != nil {
		return nil, fmt.Errorf("failed to list characters of %s: %w", userID, err)
	}

	var reactivate *repository.Character
	for i := range chars {
		c := chars[i]
		if c.Name != name {
			continue
		}
		if c.Registered() || c.UnregisterDate.After(today) {
			return nil, ErrAlreadyRegistered
		}
		reactivate = &c
	}
	defer r.cache.invalidate(userTag(userID), tagOwners)

	if reactivate != nil {
		if err := r.characters.SetUnregisterDate(ctx, reactivate.ID, nil); err != nil {
			if errors.Is(err, repository.ErrConflict) {
				return nil, ErrAlreadyRegistered
			}
			return nil, fmt.Errorf("failed to reactivate character %s: %w", reactivate.ID, err)
		}
		reactivate.UnregisterDate = nil
		return reactivate, nil
	}

	c, err := r.characters.CreateCharacter(ctx, repository.CreateCharacterInput{
		Name:         name,
		OwnerUserID:  userID,
		RegisterDate: today,
	})
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("failed to create character: %w", err)
	}
	return c, nil
}

// Deregister ends userID's registration of name as of server today. The
// character keeps counting for the rest of the day.
func (r *Registry) Deregister(ctx context.Context, userID, name string) error {
	c, err := r.findRegistered(ctx, userID, name)
	if err != nil {
		return err
	}
	today := r.today()
	defer r.cache.invalidate(userTag(userID), tagOwners)
	if err := r.characters.SetUnregisterDate(ctx, c.ID, &today); err != nil {
		return fmt.Errorf("failed to deregister character %s: %w", c.ID, err)
	}
	return nil
}

// Rename changes the name of one of userID's registered characters. The new
// name must not collide with any of the caller's active names.
func (r *Registry) Rename(ctx context.Context, userID, oldName, newName string) (*repository.Character, error) {
	newName, err := normalizeName(newName)
	if err != nil {
		return nil, err
	}
	chars, err := r.characters.ListCharactersByOwner(ctx, userID, r.today())
	if err != nil {
		return nil, fmt.Errorf("failed to list characters of %s: %w", userID, err)
	}
	oldName = strings.TrimSpace(oldName)

	var target *repository.Character
	for i := range chars {
		c := chars[i]
		if c.Name == newName {
			return nil, ErrNameTaken
		}
		if c.Name == oldName && c.Registered() {
			target = &c
		}
	}
	if target == nil {
		return nil, ErrNotRegistered
	}
	defer r.cache.invalidate(userTag(userID), tagOwners)
	if err := r.characters.RenameCharacter(ctx, target.ID, newName); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrNameTaken
		}
		return nil, fmt.Errorf("failed to rename character %s: %w", target.ID, err)
	}
	target.Name = newName
	return target, nil
}

func (r *Registry) findRegistered(ctx context.Context, userID, name string) (*repository.Character, error) {
	name = strings.TrimSpace(name)
	chars, err := r.characters.ListCharactersByOwner(ctx, userID, r.today())
	if err != nil {
		return nil, fmt.Errorf("failed to list characters of %s: %w", userID, err)
	}
	for i := range chars {
		if chars[i].Name == name && chars[i].Registered() {
			return &chars[i], nil
		}
	}
	return nil, ErrNotRegistered
}

func (r *Registry) cached(key string, tags []string, load func() (any, error)) (any, error) {
	if v, ok := r.cache.get(key); ok {
		return v, nil
	}
	v, err, _ := r.group.Do(key, func() (any, error) {
		v, err := load()
		if err != nil {
			return nil, err
		}
		r.cache.set(key, v, tags...)
		return v, nil
	})
	return v, err
}

func normalizeName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || len([]rune(name)) > maxCharacterNameLength {
		return "", ErrInvalidName
	}
	return name, nil
}
