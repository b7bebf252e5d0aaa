package workflow

import (
	"errors"
	"testing"
)

func TestCustomIDRoundTrip(t *testing.T) {
	cases := []CustomID{
		{Route: RouteRaidStart, SessionID: "0123456789abcdef"},
		{Route: RouteRaidBoth, SessionID: "0123456789abcdef", Arg: argYes},
		{Route: RouteReportQuick, SessionID: "0123456789abcdef", Arg: "last-week"},
	}
	for _, want := range cases {
		got, err := ParseCustomID(want.Encode())
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", want.Encode(), err)
		}
		if got != want {
			t.Fatalf("expected %+v, got %+v", want, got)
		}
	}
}

func TestParseCustomID_ArgMayContainSeparator(t *testing.T) {
	got, err := ParseCustomID("report.quick:abc:x:y")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Arg != "x:y" {
		t.Fatalf("expected arg x:y, got %q", got.Arg)
	}
}

func TestParseCustomID_Invalid(t *testing.T) {
	for _, s := range []string{"", "raid.start", ":abc", "raid.start:", "raid.both:abc:"} {
		if _, err := ParseCustomID(s); !errors.Is(err, ErrInvalidCustomID) {
			t.Errorf("%q: expected ErrInvalidCustomID, got %v", s, err)
		}
	}
}
