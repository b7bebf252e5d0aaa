package workflow

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/i18n"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/recorder"
	"github.com/foxseedlab/raidtracker/internal/session"
	"github.com/foxseedlab/raidtracker/internal/vision"
	"golang.org/x/sync/errgroup"
)

// DetectSubmission looks for other members' characters on the images of ev
// and, when some are still incomplete today, tags their owners with a
// confirmation button. It reports whether a prompt was posted.
func (e *Engine) DetectSubmission(ctx context.Context, ev discord.MessageEvent, locale string) (bool, error) {
	images := ev.ImageURLs()
	if len(images) == 0 {
		return false, nil
	}
	today := e.today()
	logger := slog.With("message_id", ev.ID, "user_id", ev.AuthorID)

	var (
		own        []string
		incomplete []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		chars, err := e.registry.UserCharacters(gctx, ev.AuthorID, today)
		if err != nil {
			return err
		}
		for _, c := range chars {
			own = append(own, c.Name)
		}
		return nil
	})
	g.Go(func() error {
		names, err := e.registry.IncompleteCharacters(gctx, today)
		incomplete = names
		return err
	})
	if err := g.Wait(); err != nil {
		return false, err
	}

	whitelist := slices.DeleteFunc(incomplete, func(name string) bool {
		return slices.Contains(own, name)
	})
	if len(whitelist) == 0 {
		logger.Debug("no incomplete characters to detect")
		return false, nil
	}

	detection, err := e.analyzer.DetectCharacters(ctx, images, whitelist)
	if errors.Is(err, vision.ErrDisabled) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to analyze submission images: %w", err)
	}
	names := vision.FilterWhitelist(detection.Characters, whitelist)
	if len(names) == 0 {
		logger.Info("no other characters detected")
		return false, nil
	}

	owners, err := e.registry.CharacterOwners(ctx, today)
	if err != nil {
		return false, err
	}
	pendingUsers, err := e.registry.IncompleteUsers(ctx, today)
	if err != nil {
		return false, err
	}
	var tagged []string
	for _, name := range names {
		for _, owner := range owners[name] {
			if owner == ev.AuthorID || slices.Contains(tagged, owner) {
				continue
			}
			if _, ok := pendingUsers[owner]; ok {
				tagged = append(tagged, owner)
			}
		}
	}
	if len(tagged) == 0 {
		logger.Info("detected characters have no pending owners", "characters", names)
		return false, nil
	}

	id, err := session.NewID()
	if err != nil {
		return false, err
	}
	p := e.printer(locale)
	d := &session.DetectionWorkflow{
		Base: session.Base{
			SessionID:    id,
			ActionUserID: ev.AuthorID,
			Locale:       p.Locale(),
		},
		EvidenceMessageURL: ev.URL,
		DetectedCharacters: names,
		DetectedOwners:     tagged,
		CompletedOwners:    []string{},
	}
	if err := e.store.Create(ctx, d); err != nil {
		return false, fmt.Errorf("failed to create detection session: %w", err)
	}

	msg := renderDetection(p, d)
	msg.ReplyTo = ev.ID
	messageID, err := e.messenger.SendMessage(ev.ChannelID, msg)
	if err != nil {
		if delErr := e.store.Delete(ctx, id); delErr != nil {
			slog.Error("failed to delete unsent session", "session_id", id, "error", delErr)
		}
		return false, fmt.Errorf("failed to post detection prompt: %w", err)
	}
	session.SetInteractionMessage(d, ev.ChannelID, messageID)
	if err := e.store.Update(ctx, d); err != nil {
		return false, fmt.Errorf("failed to store detection message: %w", err)
	}

	channelID := ev.ChannelID
	e.scheduler.AfterFunc(e.detectionTTL, func() {
		e.expireDetection(id, channelID, messageID)
	})
	logger.Info("detection prompt posted", "session_id", id, "characters", names, "owners", tagged)
	return true, nil
}

func (e *Engine) expireDetection(sessionID, channelID, messageID string) {
	ctx := context.Background()
	if err := e.messenger.DeleteMessage(channelID, messageID); err != nil {
		slog.Error("failed to remove detection prompt", "session_id", sessionID, "message_id", messageID, "error", err)
	}
	if err := e.store.Delete(ctx, sessionID); err != nil {
		slog.Error("failed to delete detection session", "session_id", sessionID, "error", err)
	}
}

// handleDetectConfirm records every tracked raid for the clicking user. The
// session is shared, so any tagged owner may drive it.
func (e *Engine) handleDetectConfirm(ctx context.Context, c *call) error {
	d, err := session.Load[*session.DetectionWorkflow](ctx, e.store, c.id.SessionID)
	if err != nil {
		return err
	}
	c.p = e.printer(session.LocaleOf(d))
	userID := c.in.UserID
	if !d.IsPending(userID) {
		return c.reply(c.p.T(i18n.NotPending))
	}

	today := e.today()
	chars, err := e.registry.UserCharacters(ctx, userID, today)
	if err != nil {
		return err
	}
	if _, err := e.recorder.Record(ctx, recorder.Input{
		UserID:       userID,
		RaidDate:     today,
		RaidTypes:    raid.Tracked,
		CharacterIDs: characterIDs(chars),
		EvidenceURL:  d.EvidenceMessageURL,
	}); err != nil {
		return err
	}

	d.MarkCompleted(userID)
	logger := slog.With("session_id", d.ID(), "user_id", userID)
	if len(d.Pending()) == 0 {
		if err := c.respond(discord.Response{Kind: discord.ResponseDeferUpdate}); err != nil {
			logger.Error("failed to acknowledge confirmation", "error", err)
		}
		if err := e.messenger.DeleteMessage(d.InteractionChannelID, d.InteractionMessageID); err != nil {
			logger.Error("failed to remove detection prompt", "error", err)
		}
		if err := e.store.Delete(ctx, d.ID()); err != nil {
			logger.Error("failed to delete detection session", "error", err)
		}
	} else {
		if err := e.store.Update(ctx, d); err != nil {
			return err
		}
		if err := c.update(renderDetection(c.p, d)); err != nil {
			logger.Error("failed to refresh detection prompt", "error", err)
		}
	}

	notice := c.p.T(i18n.UserRecorded, discord.Mention(userID), e.raidNames(c.p, raid.Tracked), raid.FormatDate(today))
	if _, err := e.messenger.SendMessage(c.in.ChannelID, discord.Message{Content: notice, SuppressMentions: true}); err != nil {
		logger.Error("failed to post completion notice", "error", err)
	}
	return nil
}

func renderDetection(p *i18n.Printer, d *session.DetectionWorkflow) discord.Message {
	pending := d.Pending()
	mentions := make([]string, 0, len(pending))
	for _, userID := range pending {
		mentions = append(mentions, discord.Mention(userID))
	}
	return discord.Message{
		Content: p.T(i18n.Detected, strings.Join(d.DetectedCharacters, ", ")) + "\n" +
			p.T(i18n.DetectionNotice, strings.Join(mentions, " ")),
		Rows: []discord.ActionRow{{Buttons: []discord.Button{{
			Label:    p.T(i18n.DetectConfirm),
			CustomID: customID(RouteDetectConfirm, d.ID()),
			Style:    discord.ButtonSuccess,
		}}}},
	}
}
