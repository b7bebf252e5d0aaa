// Package recorder writes raid completions together with the evidence that
// justified them.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/repository"
)

var ErrNoRaidTypes = errors.New("no raid types to record")

type Input struct {
	UserID       string
	RaidDate     time.Time
	RaidTypes    []raid.Type
	CharacterIDs []string
	EvidenceURL  string
}

type Recorder struct {
	completions repository.CompletionRepository
	now         func() time.Time
}

func New(completions repository.CompletionRepository, now func() time.Time) *Recorder {
	if now == nil {
		now = time.Now
	}
	return &Recorder{completions: completions, now: now}
}

// Record stores one completion per (character, raid type) pair for the raid
// date and returns how many pairs were submitted. Pairs that already exist are
// left untouched. The evidence row, when present, is written in the same
// transaction.
func (r *Recorder) Record(ctx context.Context, in Input) (int, error) {
	characterIDs := uniq(in.CharacterIDs)
	if len(characterIDs) == 0 {
		return 0, nil
	}
	raidTypes := uniq(in.RaidTypes)
	if len(raidTypes) == 0 {
		return 0, ErrNoRaidTypes
	}
	day := raid.Day(in.RaidDate)

	records := make([]repository.CompletionRecord, 0, len(characterIDs)*len(raidTypes))
	for _, id := range characterIDs {
		for _, t := range raidTypes {
			records = append(records, repository.CompletionRecord{
				CharacterID: id,
				RaidType:    t,
				RaidDate:    day,
			})
		}
	}

	input := repository.InsertCompletionsInput{Records: records}
	if in.EvidenceURL != "" {
		input.Evidence = &repository.CompletionEvidence{
			UserID:     in.UserID,
			RaidDate:   day,
			MessageURL: in.EvidenceURL,
			CreatedAt:  r.now(),
		}
	}
	if err := r.completions.InsertCompletions(ctx, input); err != nil {
		return 0, fmt.Errorf("failed to record completions: %w", err)
	}

	slog.Info("recorded raid completions",
		"user_id", in.UserID,
		"raid_date", raid.FormatDate(day),
		"characters", len(characterIDs),
		"raid_types", len(raidTypes),
		"has_evidence", input.Evidence != nil,
	)
	return len(records), nil
}

func uniq[T comparable](in []T) []T {
	out := make([]T, 0, len(in))
	for _, v := range in {
		if !slices.Contains(out, v) {
			out = append(out, v)
		}
	}
	return out
}
