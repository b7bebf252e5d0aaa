package workflow

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidCustomID = errors.New("invalid custom id")

const (
	RouteRaidStart     = "raid.start"
	RouteRaidFast      = "raid.fast"
	RouteRaidDate      = "raid.date"
	RouteRaidBoth      = "raid.both"
	RouteRaidPick      = "raid.pick"
	RouteRaidAll       = "raid.all"
	RouteRaidChars     = "raid.chars"
	RouteRaidConfirm   = "raid.confirm"
	RouteDetectConfirm = "detect.confirm"
	RouteReportQuick   = "report.quick"
	RouteReportKind    = "report.kind"
	RouteReportRaid    = "report.raid"
	RouteReportPeriod  = "report.period"
	// Raid event routes carry the user or event id in the session slot.
	RouteEventCreate = "event.create"
	RouteEventJoin   = "event.join"

	argYes = "yes"
	argNo  = "no"

	customIDSeparator = ":"
	maxCustomIDLength = 100
)

// CustomID is the structured form of a component custom id:
// route:sessionID or route:sessionID:arg.
type CustomID struct {
	Route     string
	SessionID string
	Arg       string
}

func (c CustomID) Encode() string {
	parts := []string{c.Route, c.SessionID}
	if c.Arg != "" {
		parts = append(parts, c.Arg)
	}
	return strings.Join(parts, customIDSeparator)
}

func ParseCustomID(s string) (CustomID, error) {
	if s == "" || len(s) > maxCustomIDLength {
		return CustomID{}, fmt.Errorf("%w: %q", ErrInvalidCustomID, s)
	}
	parts := strings.SplitN(s, customIDSeparator, 3)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return CustomID{}, fmt.Errorf("%w: %q", ErrInvalidCustomID, s)
	}
	id := CustomID{Route: parts[0], SessionID: parts[1]}
	if len(parts) == 3 {
		if parts[2] == "" {
			return CustomID{}, fmt.Errorf("%w: %q", ErrInvalidCustomID, s)
		}
		id.Arg = parts[2]
	}
	return id, nil
}

func customID(route, sessionID string, arg ...string) string {
	c := CustomID{Route: route, SessionID: sessionID}
	if len(arg) > 0 {
		c.Arg = arg[0]
	}
	return c.Encode()
}
