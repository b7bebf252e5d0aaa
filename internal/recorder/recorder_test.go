package recorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/repository/repositorytest"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newTestRecorder(repo *repositorytest.Repository) *Recorder {
	return New(repo, func() time.Time { return fixedNow })
}

func TestRecord_WritesEveryPairWithEvidence(t *testing.T) {
	repo := repositorytest.New()
	a := repo.AddCharacter("user-a", "Alice1", fixedNow, nil)
	b := repo.AddCharacter("user-a", "Alice2", fixedNow, nil)
	rec := newTestRecorder(repo)

	n, err := rec.Record(context.Background(), Input{
		UserID:       "user-a",
		RaidDate:     time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		RaidTypes:    raid.Tracked,
		CharacterIDs: []string{a.ID, b.ID, a.ID},
		EvidenceURL:  "https://discord.com/channels/g/c/m",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 4 {
		t.Fatalf("expected 4 pairs, got %d", n)
	}
	if got := len(repo.Completions()); got != 4 {
		t.Fatalf("expected 4 stored completions, got %d", got)
	}
	ev := repo.Evidences()
	if len(ev) != 1 || ev[0].UserID != "user-a" || ev[0].MessageURL != "https://discord.com/channels/g/c/m" {
		t.Fatalf("unexpected evidence rows: %+v", ev)
	}
	if !ev[0].CreatedAt.Equal(fixedNow) {
		t.Fatalf("expected evidence timestamp %v, got %v", fixedNow, ev[0].CreatedAt)
	}
}

func TestRecord_IsIdempotent(t *testing.T) {
	repo := repositorytest.New()
	a := repo.AddCharacter("user-a", "Alice1", fixedNow, nil)
	rec := newTestRecorder(repo)
	in := Input{
		UserID:       "user-a",
		RaidDate:     fixedNow,
		RaidTypes:    []raid.Type{raid.Kirollas},
		CharacterIDs: []string{a.ID},
	}

	for range 2 {
		if _, err := rec.Record(context.Background(), in); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	got := repo.Completions()
	if len(got) != 1 {
		t.Fatalf("expected a single completion after repeated recording, got %+v", got)
	}
	if !got[0].RaidDate.Equal(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected raid date truncated to the day, got %v", got[0].RaidDate)
	}
	if len(repo.Evidences()) != 0 {
		t.Fatal("no evidence should be stored without a message url")
	}
}

func TestRecord_NoCharactersWritesNothing(t *testing.T) {
	repo := repositorytest.New()
	rec := newTestRecorder(repo)

	n, err := rec.Record(context.Background(), Input{UserID: "user-a", RaidDate: fixedNow, RaidTypes: raid.Tracked, EvidenceURL: "https://x"})
	if err != nil || n != 0 {
		t.Fatalf("expected (0, nil), got (%d, %v)", n, err)
	}
	if repo.InsertCalls != 0 {
		t.Fatalf("expected no repository call, got %d", repo.InsertCalls)
	}
}

func TestRecord_NoRaidTypes(t *testing.T) {
	repo := repositorytest.New()
	a := repo.AddCharacter("user-a", "Alice1", fixedNow, nil)
	rec := newTestRecorder(repo)

	_, err := rec.Record(context.Background(), Input{UserID: "user-a", RaidDate: fixedNow, CharacterIDs: []string{a.ID}})
	if !errors.Is(err, ErrNoRaidTypes) {
		t.Fatalf("expected ErrNoRaidTypes, got %v", err)
	}
}

func TestRecord_FailureLeavesNothingBehind(t *testing.T) {
	repo := repositorytest.New()
	a := repo.AddCharacter("user-a", "Alice1", fixedNow, nil)
	repo.InsertErr = errors.New("connection reset")
	rec := newTestRecorder(repo)

	_, err := rec.Record(context.Background(), Input{
		UserID:       "user-a",
		RaidDate:     fixedNow,
		RaidTypes:    raid.Tracked,
		CharacterIDs: []string{a.ID},
		EvidenceURL:  "https://discord.com/channels/g/c/m",
	})
	if !errors.Is(err, repo.InsertErr) {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
	if len(repo.Completions()) != 0 || len(repo.Evidences()) != 0 {
		t.Fatal("expected no rows after a failed transaction")
	}
}
