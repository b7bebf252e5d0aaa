package session

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/foxseedlab/raidtracker/internal/raid"
)

func TestEncode_WritesDiscriminant(t *testing.T) {
	s := &ReportGeneration{
		Base:           Base{SessionID: "abc", ActionUserID: "user-1", Locale: "en-US"},
		ReportType:     ReportWeekly,
		ReportRaidType: raid.Carno,
	}
	b, err := Encode(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if raw["sessionType"] != "report_generation" {
		t.Fatalf("expected report_generation discriminant, got %v", raw["sessionType"])
	}
	if raw["sessionId"] != "abc" || raw["actionUserId"] != "user-1" || raw["reportRaidType"] != "Carno" {
		t.Fatalf("expected flat fields, got %s", b)
	}
}

func TestDecode_RestoresConcreteKind(t *testing.T) {
	in := &DetectionWorkflow{
		Base:               Base{SessionID: "s1", ActionUserID: "poster"},
		DetectedCharacters: []string{"Bob1"},
		DetectedOwners:     []string{"user-b", "user-c"},
		CompletedOwners:    []string{"user-c"},
	}
	b, err := Encode(in)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	out, err := Decode(b)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	d, ok := out.(*DetectionWorkflow)
	if !ok {
		t.Fatalf("expected *DetectionWorkflow, got %T", out)
	}
	if got := d.Pending(); len(got) != 1 || got[0] != "user-b" {
		t.Fatalf("unexpected pending set: %v", got)
	}
}

func TestDecode_UnknownKind(t *testing.T) {
	if _, err := Decode([]byte(`{"sessionType":"voice","sessionId":"x"}`)); err == nil {
		t.Fatal("expected error for unknown session type")
	}
}

func TestDetectionWorkflow_MarkCompletedOnlyOnce(t *testing.T) {
	d := &DetectionWorkflow{DetectedOwners: []string{"a", "b"}}
	if !d.MarkCompleted("a") {
		t.Fatal("expected first confirmation to succeed")
	}
	if d.MarkCompleted("a") {
		t.Fatal("expected second confirmation to be rejected")
	}
	if d.MarkCompleted("stranger") {
		t.Fatal("expected non-tagged user to be rejected")
	}
	if got := d.Pending(); len(got) != 1 || got[0] != "b" {
		t.Fatalf("unexpected pending set: %v", got)
	}
}

func TestRaidWorkflow_RaidTypes(t *testing.T) {
	w := &RaidWorkflow{BothRaids: true}
	if got := w.RaidTypes(); len(got) != 2 || got[0] != raid.Kirollas || got[1] != raid.Carno {
		t.Fatalf("unexpected raids: %v", got)
	}
	w = &RaidWorkflow{SelectedRaid: raid.Carno}
	if got := w.RaidTypes(); len(got) != 1 || got[0] != raid.Carno {
		t.Fatalf("unexpected raids: %v", got)
	}
	if got := (&RaidWorkflow{}).RaidTypes(); got != nil {
		t.Fatalf("expected no raids, got %v", got)
	}
}

func TestNewID(t *testing.T) {
	re := regexp.MustCompile(`^[0-9a-f]{16}$`)
	seen := make(map[string]struct{})
	for i := 0; i < 100; i++ {
		id, err := NewID()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !re.MatchString(id) {
			t.Fatalf("unexpected id format: %q", id)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = struct{}{}
	}
}

type mapStore map[string]Session

func (m mapStore) Create(_ context.Context, s Session) error { m[s.ID()] = s; return nil }
func (m mapStore) Update(_ context.Context, s Session) error { m[s.ID()] = s; return nil }
func (m mapStore) Delete(_ context.Context, id string) error { delete(m, id); return nil }
func (m mapStore) Get(_ context.Context, id string) (Session, error) {
	s, ok := m[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func TestLoad_RejectsMismatchedKind(t *testing.T) {
	store := mapStore{}
	_ = store.Create(context.Background(), &RaidWorkflow{Base: Base{SessionID: "r1"}})

	if _, err := Load[*ReportGeneration](context.Background(), store, "r1"); !errors.Is(err, ErrWrongKind) {
		t.Fatalf("expected ErrWrongKind, got %v", err)
	}
	w, err := Load[*RaidWorkflow](context.Background(), store, "r1")
	if err != nil || w.ID() != "r1" {
		t.Fatalf("expected raid workflow, got %v %v", w, err)
	}
	if _, err := Load[*RaidWorkflow](context.Background(), store, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
