// Package fixtures generates deterministic synthetic hockey seasons for tests
// and demo databases.
package fixtures

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
)

// Pairing is one scheduled game.
type Pairing struct {
	Home, Away string
	Matchday   int
}

// Options describes a generated league.
type Options struct {
	League  string
	Seasons []string
	Teams   int
	// UnplayedFrom leaves every matchday >= UnplayedFrom of the last season
	// unplayed. Zero plays everything.
	UnplayedFrom int
	Scheme       league.PointScheme
}

// Generator produces synthetic records from a seeded faker.
type Generator struct {
	faker *gofakeit.Faker
	seed  uint64
}

// New creates a generator; equal seeds give equal output.
func New(seed uint64) *Generator {
	return &Generator{faker: gofakeit.New(seed), seed: seed}
}

var suffixes = []string{"IF", "HC", "IK", "BK", "HK", "SK"}

// TeamNames returns n distinct club names.
func (g *Generator) TeamNames(n int) []string {
	names := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for len(names) < n {
		name := g.faker.City() + " " + suffixes[g.faker.IntRange(0, len(suffixes)-1)]
		if seen[name] {
			continue
		}
		seen[name] = true
		names = append(names, name)
	}
	return names
}

// League generates every season in opts with the same set of teams.
func (g *Generator) League(opts Options) []league.GameRecord {
	teams := g.TeamNames(opts.Teams)
	var games []league.GameRecord
	for i, season := range opts.Seasons {
		unplayed := 0
		if i == len(opts.Seasons)-1 {
			unplayed = opts.UnplayedFrom
		}
		games = append(games, g.Season(opts.League, season, teams, unplayed, opts.Scheme)...)
	}
	return games
}

// Season plays a double round robin and returns both perspectives of each game.
func (g *Generator) Season(leagueName, season string, teams []string, unplayedFrom int, scheme league.PointScheme) []league.GameRecord {
	strength := make(map[string]float64, len(teams))
	attendance := make(map[string]int, len(teams))
	for _, t := range teams {
		strength[t] = g.faker.Float64Range(0.7, 1.3)
		attendance[t] = g.faker.IntRange(2000, 12000)
	}
	start := seasonStart(season)

	var games []league.GameRecord
	for i, p := range FullSeason(teams) {
		date := start.AddDate(0, 0, 3*(p.Matchday-1))
		home := league.GameRecord{
			Team: p.Home, Opponent: p.Away, League: leagueName, Season: season,
			Matchday: p.Matchday, Date: date, HomeAway: league.Home,
		}
		away := home
		away.Team, away.Opponent, away.HomeAway = p.Away, p.Home, league.Away

		if unplayedFrom > 0 && p.Matchday >= unplayedFrom {
			games = append(games, home, away)
			continue
		}

		hg, ag, overtime := g.play(strength[p.Home], strength[p.Away])
		id := fmt.Sprintf("%s-%s-%03d-%03d", leagueName, season, p.Matchday, i)
		crowd := attendance[p.Home] + g.faker.IntRange(-500, 500)

		home.GameID, home.ScoreTeam, home.ScoreOpponent = id, hg, ag
		away.GameID, away.ScoreTeam, away.ScoreOpponent = id, ag, hg
		home.Result = outcome(hg, ag, overtime)
		away.Result = outcome(ag, hg, overtime)
		home.Points = scheme.Award(home.Result)
		away.Points = scheme.Award(away.Result)
		hc, ac := crowd, crowd
		home.Spectators, away.Spectators = &hc, &ac
		games = append(games, home, away)
	}
	return games
}

// play samples a score; level games are settled in overtime by one goal.
func (g *Generator) play(homeStrength, awayStrength float64) (homeGoals, awayGoals int, overtime bool) {
	total := homeStrength + awayStrength
	homeGoals = g.samplePoisson(homeStrength / total * 5.5)
	awayGoals = g.samplePoisson(awayStrength / total * 5.5)
	if homeGoals == awayGoals {
		overtime = true
		if g.faker.Bool() {
			homeGoals++
		} else {
			awayGoals++
		}
	}
	return homeGoals, awayGoals, overtime
}

func outcome(scored, conceded int, overtime bool) league.Result {
	switch {
	case scored > conceded && overtime:
		return league.ResultOTWin
	case scored > conceded:
		return league.ResultWin
	case scored < conceded && overtime:
		return league.ResultOTLoss
	case scored < conceded:
		return league.ResultLost
	}
	return league.ResultDraw
}

// samplePoisson draws from a Poisson distribution with mean lambda.
func (g *Generator) samplePoisson(lambda float64) int {
	l := math.Exp(-lambda)
	p := 1.0
	k := 0
	for p > l {
		k++
		p *= g.faker.Float64()
	}
	return k - 1
}

// seasonStart places matchday 1 in mid September of the season's first year.
func seasonStart(season string) time.Time {
	year := 2024
	if len(season) >= 4 {
		if y, err := strconv.Atoi(season[:4]); err == nil {
			year = y
		}
	}
	return time.Date(year, time.September, 14, 0, 0, 0, 0, time.UTC)
}

// Schedule returns a single round robin, one slice per matchday.
// With an odd number of teams one team rests each matchday.
func Schedule(teams []string) [][]Pairing {
	if len(teams) < 2 {
		return nil
	}
	rot := append([]string(nil), teams...)
	if len(rot)%2 != 0 {
		rot = append(rot, "")
	}
	n := len(rot)

	rounds := make([][]Pairing, n-1)
	for i := 0; i < n-1; i++ {
		round := make([]Pairing, 0, n/2)
		for j := 0; j < n/2; j++ {
			home, away := rot[j], rot[n-1-j]
			if home == "" || away == "" {
				continue
			}
			round = append(round, Pairing{Home: home, Away: away, Matchday: i + 1})
		}
		rounds[i] = round

		// rotate every position except the first
		last := rot[n-1]
		copy(rot[2:], rot[1:n-1])
		rot[1] = last
	}
	return rounds
}

// FullSeason returns a double round robin with home and away swapped in the
// second half, flattened in matchday order.
func FullSeason(teams []string) []Pairing {
	first := Schedule(teams)
	var out []Pairing
	for _, round := range first {
		out = append(out, round...)
	}
	for i, round := range first {
		for _, p := range round {
			out = append(out, Pairing{Home: p.Away, Away: p.Home, Matchday: len(first) + i + 1})
		}
	}
	return out
}
