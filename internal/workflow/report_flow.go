package workflow

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/i18n"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/report"
	"github.com/foxseedlab/raidtracker/internal/session"
)

// StartReport opens the report prompt for the caller of /report.
func (e *Engine) StartReport(ctx context.Context, in discord.Interaction, locale string) {
	c := &call{in: in, p: e.printer(locale)}
	if err := e.createReport(ctx, c); err != nil {
		e.fail(ctx, c, err, true)
	}
}

func (e *Engine) createReport(ctx context.Context, c *call) error {
	id, err := session.NewID()
	if err != nil {
		return err
	}
	c.id = CustomID{SessionID: id}
	r := &session.ReportGeneration{
		Base: session.Base{
			SessionID:    id,
			ActionUserID: c.in.UserID,
			Locale:       c.p.Locale(),
		},
		ReportRaidType: raid.Kirollas,
	}
	if err := e.store.Create(ctx, r); err != nil {
		return fmt.Errorf("failed to create report session: %w", err)
	}
	return c.respond(discord.Response{
		Kind:      discord.ResponseReply,
		Ephemeral: true,
		Message:   e.renderReportPrompt(c.p, r),
	})
}

func (e *Engine) handleReportRaid(ctx context.Context, c *call) error {
	r, err := loadOwned[*session.ReportGeneration](ctx, e, c)
	if err != nil {
		return err
	}
	if t, ok := raid.ParseType(firstValue(c.in.Values)); ok {
		r.ReportRaidType = t
		if err := e.store.Update(ctx, r); err != nil {
			return err
		}
	}
	return c.update(e.renderReportPrompt(c.p, r))
}

func (e *Engine) handleReportQuick(ctx context.Context, c *call) error {
	r, err := loadOwned[*session.ReportGeneration](ctx, e, c)
	if err != nil {
		return err
	}
	period, ranged, ok := report.Quick(c.id.Arg).Resolve(e.calendar, e.now())
	if !ok {
		return fmt.Errorf("%w: unknown quick report %q", ErrInvalidCustomID, c.id.Arg)
	}
	r.ReportType = session.ReportDaily
	if ranged {
		r.ReportType = session.ReportWeekly
	}
	return e.publishReport(ctx, c, r, period)
}

func (e *Engine) handleReportKind(ctx context.Context, c *call) error {
	r, err := loadOwned[*session.ReportGeneration](ctx, e, c)
	if err != nil {
		return err
	}
	kind, ok := session.ParseReportType(c.id.Arg)
	if !ok {
		return fmt.Errorf("%w: unknown report kind %q", ErrInvalidCustomID, c.id.Arg)
	}
	r.ReportType = kind
	if err := e.store.Update(ctx, r); err != nil {
		return err
	}

	return c.update(e.renderPeriodSelect(c.p, r))
}

func (e *Engine) handleReportPeriod(ctx context.Context, c *call) error {
	r, err := loadOwned[*session.ReportGeneration](ctx, e, c)
	if err != nil {
		return err
	}
	value := firstValue(c.in.Values)
	period, err := reportPeriod(r.ReportType, value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCustomID, err)
	}
	return e.publishReport(ctx, c, r, period)
}

// reportPeriod expands the selected start date into the period of a report kind.
func reportPeriod(kind session.ReportType, value string) (raid.DateRange, error) {
	day, err := raid.ParseDate(value)
	if err != nil {
		return raid.DateRange{}, err
	}
	switch kind {
	case session.ReportDaily:
		return raid.DateRange{Start: day, End: day}, nil
	case session.ReportWeekly:
		return raid.WeekRange(day), nil
	case session.ReportMonthly:
		return raid.MonthRange(day), nil
	}
	return raid.DateRange{}, fmt.Errorf("report kind %q has no period", kind)
}

func (e *Engine) publishReport(ctx context.Context, c *call, r *session.ReportGeneration, period raid.DateRange) error {
	r.ReportStartDate = raid.FormatDate(period.Start)
	r.ReportEndDate = raid.FormatDate(period.End)
	footer := report.Footer{
		UserMention: discord.Mention(r.Actor()),
		At:          e.now(),
		Location:    e.calendar.Location,
	}

	var text string
	if r.ReportType == session.ReportDaily {
		d, err := e.reports.Daily(ctx, r.ReportRaidType, period.Start)
		if err != nil {
			return err
		}
		text = report.RenderDaily(c.p, d, footer)
	} else {
		rg, err := e.reports.Ranged(ctx, r.ReportRaidType, period)
		if err != nil {
			return err
		}
		text = report.RenderRanged(c.p, rg, footer)
	}

	for _, chunk := range report.Chunk(text, report.MessageLimit) {
		if _, err := e.messenger.SendMessage(c.in.ChannelID, discord.Message{Content: chunk, SuppressMentions: true}); err != nil {
			return fmt.Errorf("failed to post report: %w", err)
		}
	}
	slog.Info("report posted",
		"session_id", r.ID(),
		"user_id", r.Actor(),
		"report_type", r.ReportType,
		"raid_type", r.ReportRaidType,
		"start", r.ReportStartDate,
		"end", r.ReportEndDate,
	)
	if err := e.store.Delete(ctx, r.ID()); err != nil {
		slog.Error("failed to delete report session", "session_id", r.ID(), "error", err)
	}
	return c.update(discord.Message{Content: c.p.T(i18n.ReportPosted)})
}

// renderPeriodSelect offers the last 7 days, 6 weeks or 6 months depending on
// the report kind. Option values are the start date of each period.
func (e *Engine) renderPeriodSelect(p *i18n.Printer, r *session.ReportGeneration) discord.Message {
	now := e.now()
	var (
		placeholder string
		options     []discord.SelectOption
	)
	switch r.ReportType {
	case session.ReportWeekly:
		placeholder = p.T(i18n.ReportPickWeek)
		for _, w := range e.calendar.Last6Weeks(now) {
			options = append(options, discord.SelectOption{Label: w.String(), Value: raid.FormatDate(w.Start)})
		}
	case session.ReportMonthly:
		placeholder = p.T(i18n.ReportPickMonth)
		for _, m := range e.calendar.Last6Months(now) {
			options = append(options, discord.SelectOption{Label: m.Start.Format(raid.MonthLayout), Value: raid.FormatDate(m.Start)})
		}
	default:
		placeholder = p.T(i18n.ReportPickDay)
		for _, d := range e.calendar.Last7Days(now) {
			options = append(options, discord.SelectOption{Label: raid.FormatDate(d), Value: raid.FormatDate(d)})
		}
	}
	return discord.Message{
		Content: placeholder,
		Rows: []discord.ActionRow{{Select: &discord.SelectMenu{
			CustomID:    customID(RouteReportPeriod, r.ID()),
			Placeholder: placeholder,
			Options:     options,
			MinValues:   1,
			MaxValues:   1,
		}}},
	}
}

func (e *Engine) renderReportPrompt(p *i18n.Printer, r *session.ReportGeneration) discord.Message {
	sid := r.ID()
	options := make([]discord.SelectOption, 0, len(raid.All))
	for _, t := range raid.All {
		options = append(options, discord.SelectOption{Label: p.RaidName(t), Value: string(t), Default: t == r.ReportRaidType})
	}

	now := e.now()
	quick := make([]discord.Button, 0, len(report.Quicks))
	for _, q := range report.Quicks {
		period, _, _ := q.Resolve(e.calendar, now)
		start, end := raid.FormatDate(period.Start), raid.FormatDate(period.End)
		var label string
		switch q {
		case report.QuickToday:
			label = p.T(i18n.ReportToday, start)
		case report.QuickYesterday:
			label = p.T(i18n.ReportYesterday, start)
		case report.QuickThisWeek:
			label = p.T(i18n.ReportThisWeek, start, end)
		case report.QuickLastWeek:
			label = p.T(i18n.ReportLastWeek, start, end)
		}
		quick = append(quick, discord.Button{Label: label, CustomID: customID(RouteReportQuick, sid, string(q)), Style: discord.ButtonPrimary})
	}

	kinds := []discord.Button{
		{Label: p.T(i18n.ReportDaily), CustomID: customID(RouteReportKind, sid, string(session.ReportDaily)), Style: discord.ButtonSecondary},
		{Label: p.T(i18n.ReportWeekly), CustomID: customID(RouteReportKind, sid, string(session.ReportWeekly)), Style: discord.ButtonSecondary},
		{Label: p.T(i18n.ReportMonthly), CustomID: customID(RouteReportKind, sid, string(session.ReportMonthly)), Style: discord.ButtonSecondary},
	}

	return discord.Message{
		Content: p.T(i18n.ReportSelectRaid) + "\n" + p.T(i18n.ReportPrompt),
		Rows: []discord.ActionRow{
			{Select: &discord.SelectMenu{
				CustomID:  customID(RouteReportRaid, sid),
				Options:   options,
				MinValues: 1,
				MaxValues: 1,
			}},
			{Buttons: quick},
			{Buttons: kinds},
		},
	}
}
