// Package i18n holds the user-facing strings of the bot in every supported
// locale and formats them with golang.org/x/text/message.
package i18n

import (
	"fmt"

	"github.com/foxseedlab/raidtracker/internal/raid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	English            = "en-US"
	TraditionalChinese = "zh-TW"
)

type Key string

var tags = map[string]language.Tag{
	English:            language.AmericanEnglish,
	TraditionalChinese: language.MustParse(TraditionalChinese),
}

var messages = map[string]map[Key]string{
	English:            en,
	TraditionalChinese: zhTW,
}

var cat = mustBuildCatalog()

func mustBuildCatalog() *catalog.Builder {
	b := catalog.NewBuilder(catalog.Fallback(language.AmericanEnglish))
	for locale, msgs := range messages {
		for key, msg := range msgs {
			if err := b.SetString(tags[locale], string(key), msg); err != nil {
				panic(fmt.Sprintf("i18n: failed to register %s/%s: %v", locale, key, err))
			}
		}
	}
	return b
}

// Supported reports whether locale has a catalog.
func Supported(locale string) bool {
	_, ok := tags[locale]
	return ok
}

type Printer struct {
	locale  string
	printer *message.Printer
}

// For returns a printer for locale, falling back to English when the locale
// has no catalog.
func For(locale string) *Printer {
	if !Supported(locale) {
		locale = English
	}
	return &Printer{
		locale:  locale,
		printer: message.NewPrinter(tags[locale], message.Catalog(cat)),
	}
}

func (p *Printer) Locale() string {
	return p.locale
}

func (p *Printer) T(key Key, args ...any) string {
	return p.printer.Sprintf(string(key), args...)
}

// RaidName returns the localized short name of t.
func (p *Printer) RaidName(t raid.Type) string {
	return p.T(raidKey(t))
}

func raidKey(t raid.Type) Key {
	return Key("raid." + string(t))
}
