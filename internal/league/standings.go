// internal/league/standings.go
package league

import (
	"fmt"
	"slices"
	"sort"

	"github.com/shopspring/decimal"
)

// Aggregate builds one standings row per team present in games, in the order
// teams first appear. Teams without games produce no row.
func Aggregate(games []GameRecord) []TeamStanding {
	order, byTeam := groupByTeam(games)

	entries := make([]TeamStanding, 0, len(order))
	for _, team := range order {
		history := chronological(byTeam[team])
		e := TeamStanding{Team: team, Games: len(history)}
		for _, g := range history {
			e.Points += g.Points
			e.Win += g.Win()
			e.Draw += g.Draw()
			e.Lost += g.Lost()
			e.OTWin += g.OTWin()
			e.OTLoss += g.OTLoss()
			e.Scored += g.ScoreTeam
			e.Conceded += g.ScoreOpponent
		}
		e.GoalDifference = e.Scored - e.Conceded
		e.GoalDifferenceText = fmt.Sprintf("%d - %d (%d)", e.Scored, e.Conceded, e.GoalDifference)
		e.AvgPoints = average(e.Points, e.Games)
		e.AvgScored = average(e.Scored, e.Games)
		e.AvgConceded = average(e.Conceded, e.Games)

		windows := RollingForm(history)
		e.Form = EncodeForm(windows[len(windows)-1])
		entries = append(entries, e)
	}
	return entries
}

// Rank orders standings by points, then goal difference, and numbers them
// 1..N. Rows still tied keep their input order.
func Rank(standings []TeamStanding) []TeamStanding {
	entries := slices.Clone(standings)
	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		return a.GoalDifference > b.GoalDifference
	})
	for i := range entries {
		entries[i].TablePosition = i + 1
	}
	return entries
}

// Standings runs filter, aggregate and rank.
func Standings(games []GameRecord, f Filter) []TeamStanding {
	return Rank(Aggregate(FilterGames(games, f)))
}

func groupByTeam(games []GameRecord) ([]string, map[string][]GameRecord) {
	var order []string
	byTeam := make(map[string][]GameRecord)
	for _, g := range games {
		if _, ok := byTeam[g.Team]; !ok {
			order = append(order, g.Team)
		}
		byTeam[g.Team] = append(byTeam[g.Team], g)
	}
	return order, byTeam
}

// average returns sum/n rounded to two decimals, undefined when n is zero.
func average(sum, n int) NullFloat {
	if n == 0 {
		return NullFloat{}
	}
	v, _ := decimal.NewFromInt(int64(sum)).DivRound(decimal.NewFromInt(int64(n)), 2).Float64()
	return Float(v)
}

func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
