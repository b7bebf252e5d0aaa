// Package workflow drives the multi-step interactions of the bot: raid
// completion, detection reconciliation, report generation and raid events.
// Every session backed step
// loads its session, checks the actor, mutates the session in memory and
// writes it back whole.
package workflow

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/foxseedlab/raidtracker/internal/discord"
	"github.com/foxseedlab/raidtracker/internal/i18n"
	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/recorder"
	"github.com/foxseedlab/raidtracker/internal/registry"
	"github.com/foxseedlab/raidtracker/internal/report"
	"github.com/foxseedlab/raidtracker/internal/repository"
	"github.com/foxseedlab/raidtracker/internal/session"
	"github.com/foxseedlab/raidtracker/internal/vision"
)

var errUnauthorized = errors.New("user is not allowed to drive this session")

// Scheduler runs f once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

type TimerScheduler struct{}

func (TimerScheduler) AfterFunc(d time.Duration, f func()) {
	time.AfterFunc(d, f)
}

type Options struct {
	Store     session.Store
	Registry  *registry.Registry
	Recorder  *recorder.Recorder
	Reports   *report.Generator
	Analyzer  vision.Analyzer
	Messenger discord.Messenger
	Calendar  raid.Calendar
	Now       func() time.Time
	Scheduler Scheduler

	Events         repository.RaidEventRepository
	Channels       repository.ChannelSettingRepository
	EventScheduler discord.EventScheduler
	GuildID        string

	// DetectionTTL bounds how long a detection prompt stays in the channel.
	DetectionTTL  time.Duration
	DefaultLocale string
}

type Engine struct {
	store     session.Store
	registry  *registry.Registry
	recorder  *recorder.Recorder
	reports   *report.Generator
	analyzer  vision.Analyzer
	messenger discord.Messenger
	calendar  raid.Calendar
	now       func() time.Time
	scheduler Scheduler

	events         repository.RaidEventRepository
	channels       repository.ChannelSettingRepository
	eventScheduler discord.EventScheduler
	guildID        string

	detectionTTL  time.Duration
	defaultLocale string

	routes map[routeKey]route
}

func New(opts Options) *Engine {
	e := &Engine{
		store:          opts.Store,
		registry:       opts.Registry,
		recorder:       opts.Recorder,
		reports:        opts.Reports,
		analyzer:       opts.Analyzer,
		messenger:      opts.Messenger,
		calendar:       opts.Calendar,
		now:            opts.Now,
		scheduler:      opts.Scheduler,
		events:         opts.Events,
		channels:       opts.Channels,
		eventScheduler: opts.EventScheduler,
		guildID:        opts.GuildID,
		detectionTTL:   opts.DetectionTTL,
		defaultLocale:  opts.DefaultLocale,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.scheduler == nil {
		e.scheduler = TimerScheduler{}
	}
	if e.analyzer == nil {
		e.analyzer = vision.Disabled{}
	}
	if e.detectionTTL <= 0 {
		e.detectionTTL = 5 * time.Minute
	}
	if e.defaultLocale == "" {
		e.defaultLocale = i18n.English
	}
	e.routes = e.routeTable()
	return e
}

func (e *Engine) today() time.Time {
	return e.calendar.Today(e.now())
}

func (e *Engine) printer(locale string) *i18n.Printer {
	if locale == "" {
		locale = e.defaultLocale
	}
	return i18n.For(locale)
}

type routeKey struct {
	kind  discord.InteractionKind
	route string
}

type route struct {
	handle func(ctx context.Context, c *call) error
	// keepSession leaves the session in place after an unexpected failure.
	// Shared sessions must survive one participant's error. Routes without a
	// session set it too since their id slot holds something else.
	keepSession bool
}

func (e *Engine) routeTable() map[routeKey]route {
	component := func(name string) routeKey { return routeKey{discord.InteractionComponent, name} }
	return map[routeKey]route{
		component(RouteRaidStart):                          {handle: e.handleRaidStart},
		component(RouteRaidFast):                           {handle: e.handleRaidFast},
		component(RouteRaidDate):                           {handle: e.handleRaidDate},
		component(RouteRaidBoth):                           {handle: e.handleRaidBoth},
		component(RouteRaidPick):                           {handle: e.handleRaidPick},
		component(RouteRaidAll):                            {handle: e.handleRaidAll},
		component(RouteRaidChars):                          {handle: e.handleRaidChars},
		component(RouteRaidConfirm):                        {handle: e.handleRaidConfirm},
		component(RouteDetectConfirm):                      {handle: e.handleDetectConfirm, keepSession: true},
		component(RouteReportQuick):                        {handle: e.handleReportQuick},
		component(RouteReportKind):                         {handle: e.handleReportKind},
		component(RouteReportRaid):                         {handle: e.handleReportRaid},
		component(RouteReportPeriod):                       {handle: e.handleReportPeriod},
		component(RouteEventJoin):                          {handle: e.handleEventJoin, keepSession: true},
		{discord.InteractionModalSubmit, RouteEventCreate}: {handle: e.handleEventCreate, keepSession: true},
	}
}

// call carries one routed interaction through a handler.
type call struct {
	in discord.Interaction
	id CustomID
	// p is replaced by the session's printer once the session is loaded.
	p         *i18n.Printer
	responded bool
	deferred  bool
}

func (c *call) respond(resp discord.Response) error {
	if c.in.Respond == nil {
		return errors.New("interaction has no responder")
	}
	c.responded = true
	return c.in.Respond(resp)
}

func (c *call) reply(content string) error {
	return c.respond(discord.Response{
		Kind:      discord.ResponseReply,
		Ephemeral: true,
		Message:   discord.Message{Content: content},
	})
}

func (c *call) update(msg discord.Message) error {
	return c.respond(discord.Response{Kind: discord.ResponseUpdate, Message: msg})
}

// deferReply acknowledges slow work with an ephemeral loading state that
// editReply fills in later.
func (c *call) deferReply() error {
	if err := c.respond(discord.Response{Kind: discord.ResponseDeferReply, Ephemeral: true}); err != nil {
		return err
	}
	c.deferred = true
	return nil
}

func (c *call) editReply(content string) error {
	if c.in.EditReply == nil {
		return errors.New("interaction cannot edit its reply")
	}
	return c.in.EditReply(discord.Message{Content: content})
}

// Handles reports whether the interaction belongs to a workflow route.
func (e *Engine) Handles(in discord.Interaction) bool {
	id, err := ParseCustomID(in.CustomID)
	if err != nil {
		return false
	}
	_, ok := e.routes[routeKey{in.Kind, id.Route}]
	return ok
}

// Dispatch routes a component or modal interaction to its workflow step.
// Failures are answered here and never returned.
func (e *Engine) Dispatch(ctx context.Context, in discord.Interaction) {
	c := &call{in: in, p: e.printer("")}
	id, err := ParseCustomID(in.CustomID)
	if err != nil {
		slog.Warn("unroutable interaction", "custom_id", in.CustomID, "user_id", in.UserID, "error", err)
		return
	}
	c.id = id
	rt, ok := e.routes[routeKey{in.Kind, id.Route}]
	if !ok {
		slog.Warn("no route for interaction", "route", id.Route, "kind", in.Kind, "user_id", in.UserID)
		return
	}

	err = rt.handle(ctx, c)
	if err == nil {
		return
	}
	e.fail(ctx, c, err, !rt.keepSession)
}

func (e *Engine) fail(ctx context.Context, c *call, err error, discard bool) {
	logger := slog.With("route", c.id.Route, "session_id", c.id.SessionID, "user_id", c.in.UserID)
	switch {
	case errors.Is(err, session.ErrNotFound), errors.Is(err, session.ErrWrongKind):
		logger.Info("session expired or unknown", "error", err)
		e.answer(c, c.p.T(i18n.SessionExpired))
	case errors.Is(err, errUnauthorized):
		logger.Info("interaction rejected for non-actor")
		e.answer(c, c.p.T(i18n.CannotUse))
	default:
		logger.Error("workflow step failed", "error", err)
		if discard && c.id.SessionID != "" {
			if derr := e.store.Delete(ctx, c.id.SessionID); derr != nil {
				logger.Error("failed to discard session", "error", derr)
			}
		}
		e.answer(c, c.p.T(i18n.ErrorOccurred))
	}
}

func (e *Engine) answer(c *call, content string) {
	if c.deferred {
		if err := c.editReply(content); err != nil {
			slog.Error("failed to answer deferred interaction", "route", c.id.Route, "user_id", c.in.UserID, "error", err)
		}
		return
	}
	if c.responded {
		return
	}
	if err := c.reply(content); err != nil {
		slog.Error("failed to answer interaction", "route", c.id.Route, "user_id", c.in.UserID, "error", err)
	}
}

// loadOwned loads the session behind c and rejects anyone but its actor.
func loadOwned[T session.Session](ctx context.Context, e *Engine, c *call) (T, error) {
	s, err := session.Load[T](ctx, e.store, c.id.SessionID)
	if err != nil {
		var zero T
		return zero, err
	}
	c.p = e.printer(session.LocaleOf(s))
	if !session.IsActor(s, c.in.UserID) {
		var zero T
		return zero, errUnauthorized
	}
	return s, nil
}
