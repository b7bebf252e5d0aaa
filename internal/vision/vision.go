// Package vision describes the image-analysis oracle used to spot character
// names on submitted screenshots.
package vision

import (
	"context"
	"errors"
	"slices"
	"strings"
)

var ErrDisabled = errors.New("image analysis is not configured")

type Detection struct {
	Characters []string
	// Date is the date text read from the image, if any. It is informational.
	Date string
}

type Analyzer interface {
	// DetectCharacters returns the names from whitelist that appear on any of
	// the images.
	DetectCharacters(ctx context.Context, imageURLs []string, whitelist []string) (*Detection, error)
}

// FilterWhitelist keeps the names of detected that are on whitelist, using
// the whitelist spelling and dropping duplicates. The oracle may answer with
// names it was not asked for.
func FilterWhitelist(detected, whitelist []string) []string {
	canonical := make(map[string]string, len(whitelist))
	for _, name := range whitelist {
		canonical[strings.ToLower(strings.TrimSpace(name))] = name
	}
	var out []string
	for _, name := range detected {
		c, ok := canonical[strings.ToLower(strings.TrimSpace(name))]
		if ok && !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// Disabled is the Analyzer used when no oracle is configured.
type Disabled struct{}

func (Disabled) DetectCharacters(context.Context, []string, []string) (*Detection, error) {
	return nil, ErrDisabled
}
