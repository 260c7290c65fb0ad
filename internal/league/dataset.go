// internal/league/dataset.go
package league

import (
	"fmt"
	"slices"
	"sort"
)

// Dataset is the read-only game record set loaded once at startup and
// passed into every pipeline call.
type Dataset struct {
	games []GameRecord
}

type partitionKey struct {
	team, season, league string
}

// NewDataset validates games and wraps them. It rejects a record set in which a
// team has two records for the same matchday of a season, or in which a later
// matchday is dated before an earlier one.
func NewDataset(games []GameRecord) (*Dataset, error) {
	seen := make(map[partitionKey]map[int]struct{})
	rows := make(map[partitionKey][]int)
	for i, g := range games {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		k := partitionKey{g.Team, g.Season, g.League}
		days, ok := seen[k]
		if !ok {
			days = make(map[int]struct{})
			seen[k] = days
		}
		if _, dup := days[g.Matchday]; dup {
			return nil, fmt.Errorf("record %d: %w: duplicate matchday %d for %s %s %s",
				i+1, ErrInvalidRecord, g.Matchday, g.Team, g.League, g.Season)
		}
		days[g.Matchday] = struct{}{}
		rows[k] = append(rows[k], i)
	}
	for k, idx := range rows {
		slices.SortFunc(idx, func(a, b int) int { return games[a].Matchday - games[b].Matchday })
		for j := 1; j < len(idx); j++ {
			prev, cur := games[idx[j-1]], games[idx[j]]
			if cur.Date.Before(prev.Date) {
				return nil, fmt.Errorf("record %d: %w: matchday %d on %s is dated before matchday %d on %s for %s %s %s",
					idx[j]+1, ErrInvalidRecord, cur.Matchday, cur.Date.Format("2006-01-02"),
					prev.Matchday, prev.Date.Format("2006-01-02"), k.team, k.league, k.season)
			}
		}
	}
	return &Dataset{games: slices.Clone(games)}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int { return len(d.games) }

// Games returns a copy of all records.
func (d *Dataset) Games() []GameRecord { return slices.Clone(d.games) }

// Leagues lists leagues in first-seen order.
func (d *Dataset) Leagues() []string {
	out := []string{}
	seen := map[string]bool{}
	for _, g := range d.games {
		if !seen[g.League] {
			seen[g.League] = true
			out = append(out, g.League)
		}
	}
	return out
}

// Seasons lists seasons ascending.
func (d *Dataset) Seasons() []string {
	return sortedUnique(d.games, func(g GameRecord) string { return g.Season })
}

// Teams lists teams alphabetically.
func (d *Dataset) Teams() []string {
	return sortedUnique(d.games, func(g GameRecord) string { return g.Team })
}

// Matchdays lists matchday numbers ascending.
func (d *Dataset) Matchdays() []int {
	seen := map[int]bool{}
	out := []int{}
	for _, g := range d.games {
		if !seen[g.Matchday] {
			seen[g.Matchday] = true
			out = append(out, g.Matchday)
		}
	}
	sort.Ints(out)
	return out
}

// HasTeam reports whether team appears in any record.
func (d *Dataset) HasTeam(team string) bool {
	for _, g := range d.games {
		if g.Team == team {
			return true
		}
	}
	return false
}

func sortedUnique(games []GameRecord, key func(GameRecord) string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, g := range games {
		k := key(g)
		if !seen[k] {
			seen[k] = true
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
