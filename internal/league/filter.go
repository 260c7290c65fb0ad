// internal/league/filter.go
package league

import (
	"fmt"
	"sort"
)

// Recency limits standings to each team's most recent games.
type Recency string

const (
	RecencyAll    Recency = "all"
	RecencyLast5  Recency = "last5"
	RecencyLast10 Recency = "last10"
)

// Limit returns how many games per team the recency keeps, 0 meaning all.
func (r Recency) Limit() int {
	switch r {
	case RecencyLast5:
		return 5
	case RecencyLast10:
		return 10
	}
	return 0
}

// Filter selects the slice of games a standings table is computed over.
type Filter struct {
	League   string
	Season   string
	HomeAway HomeAway
	Recency  Recency
}

// ParseHomeAway accepts home, away or total; empty means total.
func ParseHomeAway(s string) (HomeAway, error) {
	switch HomeAway(s) {
	case "", Total:
		return Total, nil
	case Home, Away:
		return HomeAway(s), nil
	}
	return "", fmt.Errorf("%w: home_away %q", ErrInvalidFilter, s)
}

// ParseRecency accepts all, last5 or last10; empty means all.
func ParseRecency(s string) (Recency, error) {
	switch Recency(s) {
	case "", RecencyAll:
		return RecencyAll, nil
	case RecencyLast5, RecencyLast10:
		return Recency(s), nil
	}
	return "", fmt.Errorf("%w: recency %q", ErrInvalidFilter, s)
}

// FilterGames returns the played games of one league season, narrowed by
// home/away and recency. An empty league or season selects nothing.
func FilterGames(games []GameRecord, f Filter) []GameRecord {
	out := []GameRecord{}
	if f.League == "" || f.Season == "" {
		return out
	}
	for _, g := range games {
		if g.League != f.League || g.Season != f.Season || !g.Played() {
			continue
		}
		if f.HomeAway != "" && f.HomeAway != Total && g.HomeAway != f.HomeAway {
			continue
		}
		out = append(out, g)
	}
	if n := f.Recency.Limit(); n > 0 {
		out = lastPerTeam(out, n)
	}
	return out
}

// lastPerTeam keeps the n most recent games of every team.
func lastPerTeam(games []GameRecord, n int) []GameRecord {
	sorted := append([]GameRecord(nil), games...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return later(sorted[i], sorted[j])
	})
	kept := make(map[string]int)
	out := []GameRecord{}
	for _, g := range sorted {
		if kept[g.Team] >= n {
			continue
		}
		kept[g.Team]++
		out = append(out, g)
	}
	return out
}

func later(a, b GameRecord) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.Matchday > b.Matchday
}

// SeasonGames returns every record of one league season, played or not.
func SeasonGames(games []GameRecord, league, season string) []GameRecord {
	out := []GameRecord{}
	for _, g := range games {
		if g.League == league && g.Season == season {
			out = append(out, g)
		}
	}
	return out
}

// LeagueGames returns every record of one league across seasons.
func LeagueGames(games []GameRecord, league string) []GameRecord {
	out := []GameRecord{}
	for _, g := range games {
		if g.League == league {
			out = append(out, g)
		}
	}
	return out
}

// MatchdayGames returns the played records of one league at one matchday,
// across all seasons.
func MatchdayGames(games []GameRecord, league string, matchday int) []GameRecord {
	out := []GameRecord{}
	for _, g := range games {
		if g.League == league && g.Matchday == matchday && g.Result != "" {
			out = append(out, g)
		}
	}
	return out
}
