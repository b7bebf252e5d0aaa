package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/i18n"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/recorder"
	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/foxseedlab/raidtracker/internal/session"
)

// maxSelectOptions is the platform cap on options of a select menu.
const maxSelectOptions = 25

// StartRaid begins the completion workflow for the caller of /done.
func (e *Engine) StartRaid(ctx context.Context, in discord.Interaction, locale string) {
	e.startRaid(ctx, in, locale, in.UserID, "", false)
}

// StartAdminRaid begins the completion workflow on behalf of the author of
// the target message. The caller must already be known to be an admin.
func (e *Engine) StartAdminRaid(ctx context.Context, in discord.Interaction, locale string) {
	if in.Target == nil {
		slog.Warn("admin completion without target message", "user_id", in.UserID)
		c := &call{in: in, p: e.printer(locale)}
		if err := c.reply(c.p.T(i18n.ErrorOccurred)); err != nil {
			slog.Error("failed to answer admin completion", "user_id", in.UserID, "error", err)
		}
		return
	}
	evidence := ""
	if len(in.Target.ImageURLs()) > 0 {
		evidence = in.Target.URL
	}
	e.startRaid(ctx, in, locale, in.Target.AuthorID, evidence, true)
}

func (e *Engine) startRaid(ctx context.Context, in discord.Interaction, locale, targetUserID, evidenceURL string, admin bool) {
	c := &call{in: in, p: e.printer(locale)}
	if err := e.createRaid(ctx, c, locale, targetUserID, evidenceURL, admin); err != nil {
		e.fail(ctx, c, err, true)
	}
}

func (e *Engine) createRaid(ctx context.Context, c *call, locale, targetUserID, evidenceURL string, admin bool) error {
	id, err := session.NewID()
	if err != nil {
		return err
	}
	c.id = CustomID{SessionID: id}
	w := &session.RaidWorkflow{
		Base: session.Base{
			SessionID:    id,
			ActionUserID: c.in.UserID,
			Locale:       c.p.Locale(),
		},
		TargetUserID:       targetUserID,
		IsAdmin:            admin,
		EvidenceMessageURL: evidenceURL,
		Step:               session.StepDateSelection,
	}
	if err := e.store.Create(ctx, w); err != nil {
		return fmt.Errorf("failed to create raid session: %w", err)
	}
	msg, empty, err := e.renderRaid(ctx, c.p, w)
	if err != nil {
		return err
	}
	if empty {
		return e.noCharacters(ctx, c, w, false)
	}
	return c.respond(discord.Response{Kind: discord.ResponseReply, Ephemeral: true, Message: msg})
}

// NotifySubmission answers an image posted in a submission channel with the
// buttons that start the completion workflow for its author.
func (e *Engine) NotifySubmission(ctx context.Context, ev discord.MessageEvent, locale string, isToday bool) error {
	id, err := session.NewID()
	if err != nil {
		return err
	}
	p := e.printer(locale)
	w := &session.RaidWorkflow{
		Base: session.Base{
			SessionID:    id,
			ActionUserID: ev.AuthorID,
			Locale:       p.Locale(),
		},
		TargetUserID:       ev.AuthorID,
		IsToday:            isToday,
		EvidenceMessageURL: ev.URL,
		Step:               session.StepDateSelection,
	}
	buttons := []discord.Button{
		{Label: p.T(i18n.StepByStep), CustomID: customID(RouteRaidStart, id), Style: discord.ButtonPrimary},
	}
	if isToday {
		w.Step = session.StepInitial
		w.RaidDate = raid.FormatDate(e.today())
		buttons = append(buttons, discord.Button{Label: p.T(i18n.FastAll), CustomID: customID(RouteRaidFast, id), Style: discord.ButtonSuccess})
	}
	if err := e.store.Create(ctx, w); err != nil {
		return fmt.Errorf("failed to create raid session: %w", err)
	}

	messageID, err := e.messenger.SendMessage(ev.ChannelID, discord.Message{
		Content: p.T(i18n.SubmissionNotice),
		Rows:    []discord.ActionRow{{Buttons: buttons}},
		ReplyTo: ev.ID,
	})
	if err != nil {
		if delErr := e.store.Delete(ctx, id); delErr != nil {
			slog.Error("failed to delete unsent session", "session_id", id, "error", delErr)
		}
		return fmt.Errorf("failed to send submission notification: %w", err)
	}
	session.SetInteractionMessage(w, ev.ChannelID, messageID)
	if err := e.store.Update(ctx, w); err != nil {
		return fmt.Errorf("failed to store notification message: %w", err)
	}
	return nil
}

func (e *Engine) handleRaidStart(ctx context.Context, c *call) error {
	w, err := loadOwned[*session.RaidWorkflow](ctx, e, c)
	if err != nil {
		return err
	}
	msg, empty, err := e.renderRaid(ctx, c.p, w)
	if err != nil {
		return err
	}
	if empty {
		return e.noCharacters(ctx, c, w, false)
	}
	return c.respond(discord.Response{Kind: discord.ResponseReply, Ephemeral: true, Message: msg})
}

func (e *Engine) handleRaidFast(ctx context.Context, c *call) error {
	w, err := loadOwned[*session.RaidWorkflow](ctx, e, c)
	if err != nil {
		return err
	}
	if !w.IsToday || w.RaidDate == "" {
		return fmt.Errorf("%w: fast path needs a today submission", ErrInvalidCustomID)
	}
	w.BothRaids = true
	w.AllCharacters = true
	w.Step = session.StepComplete
	return e.completeRaid(ctx, c, w, false)
}

func (e *Engine) handleRaidDate(ctx context.Context, c *call) error {
	w, err := loadOwned[*session.RaidWorkflow](ctx, e, c)
	if err != nil {
		return err
	}
	if w.Step != session.StepDateSelection {
		return e.rerender(ctx, c, w)
	}

	value := firstValue(c.in.Values)
	valid := slices.ContainsFunc(e.calendar.Last7Days(e.now()), func(d time.Time) bool {
		return raid.FormatDate(d) == value
	})
	if !valid {
		msg := e.renderDateSelection(c.p, w)
		msg.Content = c.p.T(i18n.InvalidDate) + "\n" + msg.Content
		return c.update(msg)
	}

	w.RaidDate = value
	if w.BothRaids && w.AllCharacters {
		w.Step = session.StepComplete
		return e.completeRaid(ctx, c, w, true)
	}
	w.Step = session.StepInitial
	return e.advance(ctx, c, w)
}

func (e *Engine) handleRaidBoth(ctx context.Context, c *call) error {
	w, err := loadOwned[*session.RaidWorkflow](ctx, e, c)
	if err != nil {
		return err
	}
	if w.Step != session.StepInitial {
		return e.rerender(ctx, c, w)
	}
	switch c.id.Arg {
	case argYes:
		w.BothRaids = true
		w.SelectedRaid = ""
		w.Step = session.StepCharacterConfirmation
	case argNo:
		w.BothRaids = false
		w.Step = session.StepRaidSelection
	default:
		return fmt.Errorf("%w: unexpected answer %q", ErrInvalidCustomID, c.id.Arg)
	}
	return e.advance(ctx, c, w)
}

func (e *Engine) handleRaidPick(ctx context.Context, c *call) error {
	w, err := loadOwned[*session.RaidWorkflow](ctx, e, c)
	if err != nil {
		return err
	}
	if w.Step != session.StepRaidSelection {
		return e.rerender(ctx, c, w)
	}
	t, ok := raid.ParseType(firstValue(c.in.Values))
	if !ok {
		return e.rerender(ctx, c, w)
	}
	w.SelectedRaid = t
	w.Step = session.StepCharacterConfirmation
	return e.advance(ctx, c, w)
}

func (e *Engine) handleRaidAll(ctx context.Context, c *call) error {
	w, err := loadOwned[*session.RaidWorkflow](ctx, e, c)
	if err != nil {
		return err
	}
	if w.Step != session.StepCharacterConfirmation {
		return e.rerender(ctx, c, w)
	}
	switch c.id.Arg {
	case argYes:
		w.AllCharacters = true
		w.Step = session.StepComplete
		return e.completeRaid(ctx, c, w, true)
	case argNo:
		w.AllCharacters = false
		w.SelectedCharacterIDs = nil
		w.Step = session.StepCharacterSelection
		return e.advance(ctx, c, w)
	}
	return fmt.Errorf("%w: unexpected answer %q", ErrInvalidCustomID, c.id.Arg)
}

func (e *Engine) handleRaidChars(ctx context.Context, c *call) error {
	w, err := loadOwned[*session.RaidWorkflow](ctx, e, c)
	if err != nil {
		return err
	}
	if w.Step != session.StepCharacterSelection {
		return e.rerender(ctx, c, w)
	}
	chars, err := e.targetCharacters(ctx, w)
	if err != nil {
		return err
	}
	var selected []string
	for _, ch := range chars {
		if slices.Contains(c.in.Values, ch.ID) {
			selected = append(selected, ch.ID)
		}
	}
	w.SelectedCharacterIDs = selected
	return e.advance(ctx, c, w)
}

func (e *Engine) handleRaidConfirm(ctx context.Context, c *call) error {
	w, err := loadOwned[*session.RaidWorkflow](ctx, e, c)
	if err != nil {
		return err
	}
	if w.Step != session.StepCharacterSelection || len(w.SelectedCharacterIDs) == 0 {
		return e.rerender(ctx, c, w)
	}
	w.Step = session.StepComplete
	return e.completeRaid(ctx, c, w, true)
}

// advance persists w and renders its new step in place.
func (e *Engine) advance(ctx context.Context, c *call, w *session.RaidWorkflow) error {
	msg, empty, err := e.renderRaid(ctx, c.p, w)
	if err != nil {
		return err
	}
	if empty {
		return e.noCharacters(ctx, c, w, true)
	}
	if err := e.store.Update(ctx, w); err != nil {
		return err
	}
	return c.update(msg)
}

// rerender shows the step the session is actually at, for clicks on stale UI.
func (e *Engine) rerender(ctx context.Context, c *call, w *session.RaidWorkflow) error {
	msg, empty, err := e.renderRaid(ctx, c.p, w)
	if err != nil {
		return err
	}
	if empty {
		return e.noCharacters(ctx, c, w, true)
	}
	return c.update(msg)
}

func (e *Engine) completeRaid(ctx context.Context, c *call, w *session.RaidWorkflow, update bool) error {
	day, err := e.raidDate(w)
	if err != nil {
		return err
	}
	ids := w.SelectedCharacterIDs
	if w.AllCharacters {
		chars, err := e.registry.UserCharacters(ctx, w.TargetUserID, day)
		if err != nil {
			return err
		}
		ids = characterIDs(chars)
	}

	n, err := e.recorder.Record(ctx, recorder.Input{
		UserID:       w.TargetUserID,
		RaidDate:     day,
		RaidTypes:    w.RaidTypes(),
		CharacterIDs: ids,
		EvidenceURL:  w.EvidenceMessageURL,
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return e.noCharacters(ctx, c, w, update)
	}

	raids := e.raidNames(c.p, w.RaidTypes())
	date := raid.FormatDate(day)
	recorded := discord.Message{Content: c.p.T(i18n.Recorded, raids, date)}
	if err := show(c, recorded, update); err != nil {
		slog.Error("failed to confirm recording", "session_id", w.ID(), "user_id", c.in.UserID, "error", err)
	}

	logger := slog.With("session_id", w.ID(), "user_id", w.TargetUserID)
	// The fast path already rewrote the notification through the interaction update.
	if w.InteractionMessageID != "" && !(update && c.in.MessageID == w.InteractionMessageID) {
		if err := e.messenger.EditMessage(w.InteractionChannelID, w.InteractionMessageID, recorded); err != nil {
			logger.Error("failed to resolve submission notification", "message_id", w.InteractionMessageID, "error", err)
		}
	}
	notice := c.p.T(i18n.UserRecorded, discord.Mention(w.TargetUserID), raids, date)
	if w.IsAdmin && w.ActionUserID != w.TargetUserID {
		notice = c.p.T(i18n.AdminRecorded, discord.Mention(w.ActionUserID), raids, discord.Mention(w.TargetUserID), date)
	}
	if _, err := e.messenger.SendMessage(c.in.ChannelID, discord.Message{Content: notice, SuppressMentions: true}); err != nil {
		logger.Error("failed to post completion notice", "channel_id", c.in.ChannelID, "error", err)
	}
	if err := e.store.Delete(ctx, w.ID()); err != nil {
		logger.Error("failed to delete finished session", "error", err)
	}
	return nil
}

// noCharacters ends the workflow because the target owns no character to record.
func (e *Engine) noCharacters(ctx context.Context, c *call, w *session.RaidWorkflow, update bool) error {
	slog.Info("raid workflow has no characters to record", "session_id", w.ID(), "user_id", w.TargetUserID)
	if err := e.store.Delete(ctx, w.ID()); err != nil {
		slog.Error("failed to delete session", "session_id", w.ID(), "error", err)
	}
	return show(c, discord.Message{Content: c.p.T(i18n.NoCharacters)}, update)
}

func show(c *call, msg discord.Message, update bool) error {
	if update {
		return c.update(msg)
	}
	return c.respond(discord.Response{Kind: discord.ResponseReply, Ephemeral: true, Message: msg})
}

func (e *Engine) raidDate(w *session.RaidWorkflow) (time.Time, error) {
	if w.RaidDate == "" {
		return e.today(), nil
	}
	return raid.ParseDate(w.RaidDate)
}

func (e *Engine) targetCharacters(ctx context.Context, w *session.RaidWorkflow) ([]repository.Character, error) {
	day, err := e.raidDate(w)
	if err != nil {
		return nil, err
	}
	return e.registry.UserCharacters(ctx, w.TargetUserID, day)
}

// renderRaid draws the current step of w. empty is true when the step needs
// characters and the target has none.
func (e *Engine) renderRaid(ctx context.Context, p *i18n.Printer, w *session.RaidWorkflow) (msg discord.Message, empty bool, err error) {
	sid := w.ID()
	switch w.Step {
	case session.StepInitial:
		return discord.Message{
			Content: datePrefix(w) + p.T(i18n.BothRaids, p.RaidName(raid.Tracked[0]), p.RaidName(raid.Tracked[1])),
			Rows:    []discord.ActionRow{yesNo(p, RouteRaidBoth, sid)},
		}, false, nil
	case session.StepRaidSelection:
		options := make([]discord.SelectOption, 0, len(raid.All))
		for _, t := range raid.All {
			options = append(options, discord.SelectOption{Label: p.RaidName(t), Value: string(t)})
		}
		return discord.Message{
			Content: datePrefix(w) + p.T(i18n.WhichRaid),
			Rows: []discord.ActionRow{{Select: &discord.SelectMenu{
				CustomID:    customID(RouteRaidPick, sid),
				Placeholder: p.T(i18n.WhichRaidPlaceholder),
				Options:     options,
				MinValues:   1,
				MaxValues:   1,
			}}},
		}, false, nil
	case session.StepCharacterConfirmation:
		return discord.Message{
			Content: datePrefix(w) + p.T(i18n.AllCharacters),
			Rows:    []discord.ActionRow{yesNo(p, RouteRaidAll, sid)},
		}, false, nil
	case session.StepCharacterSelection:
		chars, err := e.targetCharacters(ctx, w)
		if err != nil {
			return discord.Message{}, false, err
		}
		if len(chars) == 0 {
			return discord.Message{}, true, nil
		}
		return renderCharacterSelection(p, w, chars), false, nil
	}
	return e.renderDateSelection(p, w), false, nil
}

func datePrefix(w *session.RaidWorkflow) string {
	if w.RaidDate == "" {
		return ""
	}
	return "`" + w.RaidDate + "` "
}

func (e *Engine) renderDateSelection(p *i18n.Printer, w *session.RaidWorkflow) discord.Message {
	days := e.calendar.Last7Days(e.now())
	options := make([]discord.SelectOption, 0, len(days))
	for i, d := range days {
		value := raid.FormatDate(d)
		label := value
		switch i {
		case 0:
			label = p.T(i18n.TodayOption, value)
		case 1:
			label = p.T(i18n.YesterdayOption, value)
		}
		options = append(options, discord.SelectOption{Label: label, Value: value})
	}
	return discord.Message{
		Content: p.T(i18n.SelectDate),
		Rows: []discord.ActionRow{{Select: &discord.SelectMenu{
			CustomID:    customID(RouteRaidDate, w.ID()),
			Placeholder: p.T(i18n.SelectDatePlaceholder),
			Options:     options,
			MinValues:   1,
			MaxValues:   1,
		}}},
	}
}

func renderCharacterSelection(p *i18n.Printer, w *session.RaidWorkflow, chars []repository.Character) discord.Message {
	if len(chars) > maxSelectOptions {
		chars = chars[:maxSelectOptions]
	}
	options := make([]discord.SelectOption, 0, len(chars))
	var names []string
	for _, ch := range chars {
		selected := slices.Contains(w.SelectedCharacterIDs, ch.ID)
		if selected {
			names = append(names, ch.Name)
		}
		options = append(options, discord.SelectOption{Label: ch.Name, Value: ch.ID, Default: selected})
	}
	content := p.T(i18n.SelectCharacters)
	if len(names) > 0 {
		content = p.T(i18n.SelectedCharacters, strings.Join(names, ", "))
	}
	return discord.Message{
		Content: content,
		Rows: []discord.ActionRow{
			{Select: &discord.SelectMenu{
				CustomID:    customID(RouteRaidChars, w.ID()),
				Placeholder: p.T(i18n.SelectCharactersHint),
				Options:     options,
				MinValues:   1,
				MaxValues:   len(options),
			}},
			{Buttons: []discord.Button{{
				Label:    p.T(i18n.Confirm),
				CustomID: customID(RouteRaidConfirm, w.ID()),
				Style:    discord.ButtonSuccess,
				Disabled: len(names) == 0,
			}}},
		},
	}
}

func yesNo(p *i18n.Printer, route, sessionID string) discord.ActionRow {
	return discord.ActionRow{Buttons: []discord.Button{
		{Label: p.T(i18n.Yes), CustomID: customID(route, sessionID, argYes), Style: discord.ButtonSuccess},
		{Label: p.T(i18n.No), CustomID: customID(route, sessionID, argNo), Style: discord.ButtonSecondary},
	}}
}

func (e *Engine) raidNames(p *i18n.Printer, types []raid.Type) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, p.RaidName(t))
	}
	return strings.Join(names, " + ")
}

func characterIDs(chars []repository.Character) []string {
	ids := make([]string, 0, len(chars))
	for _, ch := range chars {
		ids = append(ids, ch.ID)
	}
	return ids
}

func firstValue(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
