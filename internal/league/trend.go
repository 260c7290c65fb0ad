// internal/league/trend.go
package league

import (
	"sort"
)

// SeasonHorizon returns the earliest matchday that still has an unplayed
// game. ok is false when every game has been played.
func SeasonHorizon(games []GameRecord) (horizon int, ok bool) {
	for _, g := range games {
		if g.Played() {
			continue
		}
		if !ok || g.Matchday < horizon {
			horizon, ok = g.Matchday, true
		}
	}
	return horizon, ok
}

// Snapshots computes every team's cumulative points and goal difference after
// each played matchday of its season and league, with the table position at
// that matchday. A team without a game on a matchday (a rest round) carries its
// totals over, so every team of a league season is ranked on every matchday.
func Snapshots(games []GameRecord) []SeasonPointSnapshot {
	var order []partitionKey
	parts := make(map[partitionKey][]GameRecord)
	matchdays := make(map[seasonKey][]int)
	seenDay := make(map[roundKey]bool)
	for _, g := range games {
		if !g.Played() {
			continue
		}
		k := partitionKey{g.Team, g.Season, g.League}
		if _, ok := parts[k]; !ok {
			order = append(order, k)
		}
		parts[k] = append(parts[k], g)

		rk := roundKey{g.Season, g.League, g.Matchday}
		if !seenDay[rk] {
			seenDay[rk] = true
			sk := seasonKey{g.Season, g.League}
			matchdays[sk] = append(matchdays[sk], g.Matchday)
		}
	}
	for _, mds := range matchdays {
		sort.Ints(mds)
	}

	snaps := []SeasonPointSnapshot{}
	for _, k := range order {
		history := parts[k]
		sort.SliceStable(history, func(i, j int) bool {
			return history[i].Matchday < history[j].Matchday
		})
		pts, gd, next := 0, 0, 0
		for _, md := range matchdays[seasonKey{k.season, k.league}] {
			for next < len(history) && history[next].Matchday <= md {
				pts += history[next].Points
				gd += history[next].ScoreTeam - history[next].ScoreOpponent
				next++
			}
			snaps = append(snaps, SeasonPointSnapshot{
				Team:              k.team,
				Season:            k.season,
				League:            k.league,
				Matchday:          md,
				PointsCum:         pts,
				GoalDifferenceCum: gd,
			})
		}
	}
	assignPositions(snaps)
	return snaps
}

type seasonKey struct {
	season, league string
}

type roundKey struct {
	season, league string
	matchday       int
}

func assignPositions(snaps []SeasonPointSnapshot) {
	rounds := make(map[roundKey][]int)
	for i, s := range snaps {
		k := roundKey{s.Season, s.League, s.Matchday}
		rounds[k] = append(rounds[k], i)
	}
	for _, idx := range rounds {
		sort.SliceStable(idx, func(a, b int) bool {
			x, y := snaps[idx[a]], snaps[idx[b]]
			if x.PointsCum != y.PointsCum {
				return x.PointsCum > y.PointsCum
			}
			return x.GoalDifferenceCum > y.GoalDifferenceCum
		})
		for pos, i := range idx {
			snaps[i].TablePosition = pos + 1
		}
	}
}

// Trend returns the points and position series of one league season, cut at
// the season horizon so that partially played matchdays are left out.
func Trend(seasonGames []GameRecord) []SeasonPointSnapshot {
	horizon, bounded := SeasonHorizon(seasonGames)
	out := []SeasonPointSnapshot{}
	for _, s := range Snapshots(seasonGames) {
		if bounded && s.Matchday >= horizon {
			continue
		}
		out = append(out, s)
	}
	return out
}

// SnapshotsAt selects the snapshots of one league at one matchday.
func SnapshotsAt(snaps []SeasonPointSnapshot, league string, matchday int) []SeasonPointSnapshot {
	out := []SeasonPointSnapshot{}
	for _, s := range snaps {
		if s.League == league && s.Matchday == matchday {
			out = append(out, s)
		}
	}
	return out
}
