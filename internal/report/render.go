package report

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/foxseedlab/raidtracker/internal/i18n"
	"github.com/foxseedlab/raidtracker/internal/raid"
)

// MessageLimit keeps each posted chunk under the platform's 2000 character cap.
const MessageLimit = 1900

type Footer struct {
	UserMention string
	At          time.Time
	Location    *time.Location
}

func (f Footer) render(p *i18n.Printer) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	at := f.At.In(loc)
	return p.T(i18n.GeneratedBy, f.UserMention, at.Format("2006-01-02 15:04:05"), at.Format("MST"))
}

func RenderDaily(p *i18n.Printer, d *Daily, footer Footer) string {
	var completed, missing []string
	for _, row := range d.Rows {
		line := fmt.Sprintf("- `%s`", row.CharacterName)
		if row.Completed {
			completed = append(completed, line)
		} else {
			missing = append(missing, line)
		}
	}

	var b strings.Builder
	b.WriteString(p.T(i18n.DailyReportTitle, p.RaidName(d.RaidType), raid.FormatDate(d.Date)))
	b.WriteString("\n")
	b.WriteString(p.T(i18n.CompletedHeader, len(completed), len(d.Rows)))
	b.WriteString("\n")
	if len(completed) == 0 {
		b.WriteString(p.T(i18n.NoCompleted))
	} else {
		b.WriteString(strings.Join(completed, "\n"))
	}
	b.WriteString("\n")
	b.WriteString(p.T(i18n.NotCompletedHeader, len(missing), len(d.Rows)))
	b.WriteString("\n")
	if len(missing) == 0 {
		b.WriteString(p.T(i18n.AllCompleted))
	} else {
		b.WriteString(strings.Join(missing, "\n"))
	}
	b.WriteString("\n")
	b.WriteString(footer.render(p))
	return b.String()
}

func RenderRanged(p *i18n.Printer, r *Ranged, footer Footer) string {
	var b strings.Builder
	b.WriteString(p.T(i18n.RangeReportTitle, p.RaidName(r.RaidType), raid.FormatDate(r.Range.Start), raid.FormatDate(r.Range.End)))
	b.WriteString("\n")
	b.WriteString(p.T(i18n.RangeHeader, r.Total()))
	b.WriteString("\n")
	if len(r.Rows) == 0 {
		b.WriteString(p.T(i18n.NoCompleted))
		b.WriteString("\n")
	}
	for _, row := range r.Rows {
		fmt.Fprintf(&b, "`%d` - `%s`\n", row.Count, row.CharacterName)
	}
	b.WriteString(footer.render(p))
	return b.String()
}

// Chunk splits text on line boundaries into pieces of at most limit bytes. A
// single line longer than limit is cut at a rune boundary.
func Chunk(text string, limit int) []string {
	var chunks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			chunks = append(chunks, strings.TrimRight(cur.String(), "\n"))
			cur.Reset()
		}
	}
	for _, line := range strings.Split(text, "\n") {
		for len(line) > limit {
			flush()
			cut := limit
			for cut > 0 && !utf8.RuneStart(line[cut]) {
				cut--
			}
			chunks = append(chunks, line[:cut])
			line = line[cut:]
		}
		if cur.Len()+len(line)+1 > limit {
			flush()
		}
		cur.WriteString(line)
		cur.WriteString("\n")
	}
	flush()
	return chunks
}
