// Package report aggregates completion records into daily and ranged reports.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/foxseedlab/raidtracker/internal/raid"
	"github.com/foxseedlab/raidtracker/internal/repository"
)

type DailyRow struct {
	CharacterName string
	Completed     bool
}

type Daily struct {
	RaidType raid.Type
	Date     time.Time
	Rows     []DailyRow
}

func (d *Daily) CompletedCount() int {
	n := 0
	for _, r := range d.Rows {
		if r.Completed {
			n++
		}
	}
	return n
}

type RangedRow struct {
	CharacterName string
	Count         int
}

type Ranged struct {
	RaidType raid.Type
	Range    raid.DateRange
	Rows     []RangedRow
}

func (r *Ranged) Total() int {
	n := 0
	for _, row := range r.Rows {
		n += row.Count
	}
	return n
}

type Generator struct {
	characters  repository.CharacterRepository
	completions repository.CompletionRepository
}

func NewGenerator(characters repository.CharacterRepository, completions repository.CompletionRepository) *Generator {
	return &Generator{characters: characters, completions: completions}
}

// Daily reports, for every character active on day, whether it completed raidType.
func (g *Generator) Daily(ctx context.Context, raidType raid.Type, day time.Time) (*Daily, error) {
	day = raid.Day(day)
	chars, err := g.characters.ListActiveCharacters(ctx, day, day)
	if err != nil {
		return nil, fmt.Errorf("failed to list active characters: %w", err)
	}
	records, err := g.completions.ListCompletions(ctx, day, day, []raid.Type{raidType})
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	done := make(map[string]bool, len(records))
	for _, rec := range records {
		done[rec.CharacterID] = true
	}

	rows := make([]DailyRow, 0, len(chars))
	for _, c := range chars {
		rows = append(rows, DailyRow{CharacterName: c.Name, Completed: done[c.ID]})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CharacterName < rows[j].CharacterName })
	return &Daily{RaidType: raidType, Date: day, Rows: rows}, nil
}

// Ranged counts, per character active at any point of r, the distinct days on
// which it completed raidType. Characters without completions are kept with a
// count of zero.
func (g *Generator) Ranged(ctx context.Context, raidType raid.Type, r raid.DateRange) (*Ranged, error) {
	chars, err := g.characters.ListActiveCharacters(ctx, r.Start, r.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list active characters: %w", err)
	}
	records, err := g.completions.ListCompletions(ctx, r.Start, r.End, []raid.Type{raidType})
	if err != nil {
		return nil, fmt.Errorf("failed to list completions: %w", err)
	}
	days := make(map[string]map[string]struct{})
	for _, rec := range records {
		if days[rec.CharacterID] == nil {
			days[rec.CharacterID] = make(map[string]struct{})
		}
		days[rec.CharacterID][raid.FormatDate(rec.RaidDate)] = struct{}{}
	}

	rows := make([]RangedRow, 0, len(chars))
	for _, c := range chars {
		rows = append(rows, RangedRow{CharacterName: c.Name, Count: len(days[c.ID])})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].CharacterName < rows[j].CharacterName
	})
	return &Ranged{RaidType: raidType, Range: r, Rows: rows}, nil
}
