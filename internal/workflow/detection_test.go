package workflow

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/i18n"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/foxseedlab/raidtracker/internal/session"
	"github.com/foxseedlab/raidtracker/internal/vision"
)

// seedDetection registers a poster, one pending member and one member who
// already finished today.
func seedDetection(t *testing.T, h *harness) (bob, carl repository.Character) {
	t.Helper()
	h.repo.AddCharacter("user-a", "Alice1", today, nil)
	bob = h.repo.AddCharacter("user-b", "Bob", today, nil)
	carl = h.repo.AddCharacter("user-c", "Carl", today, nil)
	var records []repository.CompletionRecord
	for _, rt := range raid.Tracked {
		records = append(records, repository.CompletionRecord{CharacterID: carl.ID, RaidType: rt, RaidDate: today})
	}
	if err := h.repo.InsertCompletions(context.Background(), repository.InsertCompletionsInput{Records: records}); err != nil {
		t.Fatalf("failed to seed completions: %v", err)
	}
	return bob, carl
}

func TestDetectSubmission_TagsOnlyIncompleteOthers(t *testing.T) {
	h := newHarness(t)
	bob, _ := seedDetection(t, h)
	h.analyzer.detected = []string{"bob", "Carl", "Alice1", "Mallory"}
	ctx := context.Background()

	posted, err := h.engine.DetectSubmission(ctx, submission("user-a"), i18n.English)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !posted {
		t.Fatal("expected a detection prompt")
	}
	if !slices.Equal(h.analyzer.whitelist, []string{"Bob"}) {
		t.Fatalf("whitelist must exclude own and complete characters, got %v", h.analyzer.whitelist)
	}
	msg := h.messenger.sent[0].msg
	if !strings.Contains(msg.Content, "<@user-b>") || strings.Contains(msg.Content, "<@user-c>") || strings.Contains(msg.Content, "<@user-a>") {
		t.Fatalf("unexpected tags: %q", msg.Content)
	}
	if msg.ReplyTo != "sub-1" {
		t.Fatalf("expected a reply to the submission, got %q", msg.ReplyTo)
	}
	if len(h.scheduler.delays) != 1 || h.scheduler.delays[0] != h.engine.detectionTTL {
		t.Fatalf("expected prompt expiry to be scheduled, got %v", h.scheduler.delays)
	}

	sid := sessionOf(t, msg)
	d, err := session.Load[*session.DetectionWorkflow](ctx, h.store, sid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !slices.Equal(d.DetectedOwners, []string{"user-b"}) || d.InteractionMessageID != "bot-msg-1" {
		t.Fatalf("unexpected detection session: %+v", d)
	}

	r := &responder{}
	h.engine.Dispatch(ctx, component("user-b", msg.Rows[0].Buttons[0].CustomID, r))
	if len(r.got) != 1 || r.got[0].Kind != discord.ResponseDeferUpdate {
		t.Fatalf("expected a deferred update once nobody is pending, got %+v", r.got)
	}
	var bobRows int
	for _, rec := range h.repo.Completions() {
		if rec.CharacterID == bob.ID {
			bobRows++
		}
	}
	if bobRows != 2 {
		t.Fatalf("expected both raids recorded for Bob, got %d", bobRows)
	}
	ev := h.repo.Evidences()
	if len(ev) != 1 || ev[0].UserID != "user-b" || ev[0].MessageURL != submission("user-a").URL {
		t.Fatalf("unexpected evidence: %+v", ev)
	}
	if !slices.Contains(h.messenger.deleted, "bot-msg-1") {
		t.Fatalf("expected the prompt to be removed, got %v", h.messenger.deleted)
	}
	if _, err := h.store.Get(ctx, sid); !errors.Is(err, session.ErrNotFound) {
		t.Fatalf("expected detection session to be deleted, got %v", err)
	}
}

func TestDetectConfirm_KeepsPromptWhileOthersPending(t *testing.T) {
	h := newHarness(t)
	h.repo.AddCharacter("user-a", "Alice1", today, nil)
	h.repo.AddCharacter("user-b", "Bob", today, nil)
	h.repo.AddCharacter("user-d", "Dana", today, nil)
	h.analyzer.detected = []string{"Bob", "Dana"}
	ctx := context.Background()

	if _, err := h.engine.DetectSubmission(ctx, submission("user-a"), i18n.English); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	button := h.messenger.sent[0].msg.Rows[0].Buttons[0].CustomID

	resp := h.click(t, "user-b", button)
	if resp.Kind != discord.ResponseUpdate {
		t.Fatalf("expected the prompt to be refreshed, got %+v", resp)
	}
	if strings.Contains(resp.Message.Content, "<@user-b>") || !strings.Contains(resp.Message.Content, "<@user-d>") {
		t.Fatalf("unexpected pending list: %q", resp.Message.Content)
	}

	resp = h.click(t, "user-b", button)
	if resp.Message.Content != en.T(i18n.NotPending) || !resp.Ephemeral {
		t.Fatalf("expected a second click to be rejected, got %+v", resp)
	}
	resp = h.click(t, "user-x", button)
	if resp.Message.Content != en.T(i18n.NotPending) {
		t.Fatalf("expected an untagged user to be rejected, got %+v", resp)
	}
}

func TestDetectSubmission_NothingToTag(t *testing.T) {
	tests := []struct {
		name     string
		detected []string
		err      error
		images   bool
		calls    int
	}{
		{name: "no images", images: false, calls: 0},
		{name: "only own characters", detected: []string{"Alice1"}, images: true, calls: 1},
		{name: "completed owner", detected: []string{"Carl"}, images: true, calls: 1},
		{name: "analysis disabled", err: vision.ErrDisabled, images: true, calls: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			seedDetection(t, h)
			h.analyzer.detected = tt.detected
			h.analyzer.err = tt.err

			ev := submission("user-a")
			if !tt.images {
				ev.Attachments = nil
			}
			posted, err := h.engine.DetectSubmission(context.Background(), ev, i18n.English)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if posted || len(h.messenger.sent) != 0 || h.store.Len() != 0 {
				t.Fatalf("expected nothing posted, sent=%v sessions=%d", h.messenger.contents(), h.store.Len())
			}
			if h.analyzer.calls != tt.calls {
				t.Fatalf("expected %d analyzer calls, got %d", tt.calls, h.analyzer.calls)
			}
		})
	}
}

func TestDetectSubmission_AnalyzerFailure(t *testing.T) {
	h := newHarness(t)
	seedDetection(t, h)
	h.analyzer.err = errors.New("upstream 500")

	if _, err := h.engine.DetectSubmission(context.Background(), submission("user-a"), i18n.English); err == nil {
		t.Fatal("expected analyzer failure to be returned")
	}
	if h.store.Len() != 0 {
		t.Fatal("expected no session")
	}
}

func TestDetectSubmission_SharedNameTagsEveryOwner(t *testing.T) {
	h := newHarness(t)
	h.repo.AddCharacter("user-a", "Alice1", today, nil)
	h.repo.AddCharacter("user-b", "Twin", today, nil)
	h.repo.AddCharacter("user-e", "Twin", today, nil)
	h.analyzer.detected = []string{"Twin"}

	if _, err := h.engine.DetectSubmission(context.Background(), submission("user-a"), i18n.English); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	content := h.messenger.sent[0].msg.Content
	if !strings.Contains(content, "<@user-b>") || !strings.Contains(content, "<@user-e>") {
		t.Fatalf("expected both owners tagged, got %q", content)
	}
}

func TestDetectionExpiry(t *testing.T) {
	h := newHarness(t)
	seedDetection(t, h)
	h.analyzer.detected = []string{"Bob"}
	ctx := context.Background()

	if _, err := h.engine.DetectSubmission(ctx, submission("user-a"), i18n.English); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	h.scheduler.funcs[0]()

	if !slices.Contains(h.messenger.deleted, "bot-msg-1") {
		t.Fatalf("expected prompt removal, got %v", h.messenger.deleted)
	}
	if h.store.Len() != 0 {
		t.Fatal("expected detection session to expire")
	}
}

func TestDetectSubmission_SendFailureDropsSession(t *testing.T) {
	h := newHarness(t)
	seedDetection(t, h)
	h.analyzer.detected = []string{"Bob"}
	h.messenger.sendErr = errors.New("discord unavailable")

	posted, err := h.engine.DetectSubmission(context.Background(), submission("user-a"), i18n.English)
	if err == nil || posted {
		t.Fatalf("expected a send failure, got posted=%v err=%v", posted, err)
	}
	if h.store.Len() != 0 {
		t.Fatalf("expected the unsent session to be deleted, %d left", h.store.Len())
	}
	if len(h.scheduler.delays) != 0 {
		t.Fatalf("expected no expiry to be scheduled, got %v", h.scheduler.delays)
	}
}
