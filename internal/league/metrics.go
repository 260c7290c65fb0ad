// internal/league/metrics.go
package league

import (
	"fmt"
	"sort"
)

// Metric names a per-season average that teams can be compared on.
type Metric string

const (
	MetricAvgPoints         Metric = "avg_points"
	MetricAvgScored         Metric = "avg_scored"
	MetricAvgConceded       Metric = "avg_conceded"
	MetricAvgSpectators     Metric = "avg_spectators"
	MetricAvgSpectatorsAway Metric = "avg_spectators_away"
	MetricAvgPointsHome     Metric = "avg_points_home"
	MetricAvgPointsAway     Metric = "avg_points_away"
)

// Metrics lists the comparable metrics in display order.
var Metrics = []Metric{
	MetricAvgPoints, MetricAvgScored, MetricAvgConceded,
	MetricAvgSpectators, MetricAvgSpectatorsAway,
	MetricAvgPointsHome, MetricAvgPointsAway,
}

// ParseMetric accepts one of Metrics; empty means avg_points.
func ParseMetric(s string) (Metric, error) {
	if s == "" {
		return MetricAvgPoints, nil
	}
	for _, m := range Metrics {
		if Metric(s) == m {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: metric %q", ErrInvalidFilter, s)
}

// TeamSeasonMetrics is one team's full record for a league season.
type TeamSeasonMetrics struct {
	Team              string    `json:"team"`
	Season            string    `json:"season"`
	League            string    `json:"league"`
	TablePosition     int       `json:"table_position"`
	Games             int       `json:"games"`
	Points            int       `json:"points"`
	Win               int       `json:"win"`
	Draw              int       `json:"draw"`
	Lost              int       `json:"lost"`
	OTWin             int       `json:"ot_win"`
	OTLoss            int       `json:"ot_loss"`
	Scored            int       `json:"scored"`
	Conceded          int       `json:"conceded"`
	AvgPoints         NullFloat `json:"avg_points"`
	AvgScored         NullFloat `json:"avg_scored"`
	AvgConceded       NullFloat `json:"avg_conceded"`
	AvgPointsHome     NullFloat `json:"avg_points_home"`
	AvgPointsAway     NullFloat `json:"avg_points_away"`
	AvgSpectators     NullFloat `json:"avg_spectators"`
	AvgSpectatorsAway NullFloat `json:"avg_spectators_away"`
}

// Value returns the field selected by metric.
func (m TeamSeasonMetrics) Value(metric Metric) NullFloat {
	switch metric {
	case MetricAvgPoints:
		return m.AvgPoints
	case MetricAvgScored:
		return m.AvgScored
	case MetricAvgConceded:
		return m.AvgConceded
	case MetricAvgSpectators:
		return m.AvgSpectators
	case MetricAvgSpectatorsAway:
		return m.AvgSpectatorsAway
	case MetricAvgPointsHome:
		return m.AvgPointsHome
	case MetricAvgPointsAway:
		return m.AvgPointsAway
	}
	return NullFloat{}
}

type seasonAccum struct {
	m                             TeamSeasonMetrics
	homeGames, homePoints         int
	awayGames, awayPoints         int
	homeSpecGames, homeSpectators int
	awaySpecGames, awaySpectators int
}

// AllSeasonMetrics computes TeamSeasonMetrics for every team, league and
// season with played games, skipping preseason.
func AllSeasonMetrics(games []GameRecord) []TeamSeasonMetrics {
	var order []partitionKey
	accs := make(map[partitionKey]*seasonAccum)
	for _, g := range games {
		if !g.Played() || g.League == PreseasonLeague {
			continue
		}
		k := partitionKey{g.Team, g.Season, g.League}
		a, ok := accs[k]
		if !ok {
			a = &seasonAccum{m: TeamSeasonMetrics{Team: g.Team, Season: g.Season, League: g.League}}
			accs[k] = a
			order = append(order, k)
		}
		a.m.Games++
		a.m.Points += g.Points
		a.m.Win += g.Win()
		a.m.Draw += g.Draw()
		a.m.Lost += g.Lost()
		a.m.OTWin += g.OTWin()
		a.m.OTLoss += g.OTLoss()
		a.m.Scored += g.ScoreTeam
		a.m.Conceded += g.ScoreOpponent
		if g.HomeAway == Home {
			a.homeGames++
			a.homePoints += g.Points
			if g.Spectators != nil {
				a.homeSpecGames++
				a.homeSpectators += *g.Spectators
			}
		} else {
			a.awayGames++
			a.awayPoints += g.Points
			if g.Spectators != nil {
				a.awaySpecGames++
				a.awaySpectators += *g.Spectators
			}
		}
	}

	positions := finalPositions(games, order)
	out := make([]TeamSeasonMetrics, 0, len(order))
	for _, k := range order {
		a := accs[k]
		m := a.m
		m.TablePosition = positions[k]
		m.AvgPoints = average(m.Points, m.Games)
		m.AvgScored = average(m.Scored, m.Games)
		m.AvgConceded = average(m.Conceded, m.Games)
		m.AvgPointsHome = average(a.homePoints, a.homeGames)
		m.AvgPointsAway = average(a.awayPoints, a.awayGames)
		m.AvgSpectators = average(a.homeSpectators, a.homeSpecGames)
		m.AvgSpectatorsAway = average(a.awaySpectators, a.awaySpecGames)
		out = append(out, m)
	}
	return out
}

// finalPositions ranks every league season that appears in keys over all of
// its played games.
func finalPositions(games []GameRecord, keys []partitionKey) map[partitionKey]int {
	type leagueSeason struct{ league, season string }
	done := make(map[leagueSeason]bool)
	positions := make(map[partitionKey]int)
	for _, k := range keys {
		ls := leagueSeason{k.league, k.season}
		if done[ls] {
			continue
		}
		done[ls] = true
		for _, s := range Standings(games, Filter{League: k.league, Season: k.season}) {
			positions[partitionKey{s.Team, k.season, k.league}] = s.TablePosition
		}
	}
	return positions
}

// SeasonMetrics returns team's season records ordered by season.
func SeasonMetrics(games []GameRecord, team string) []TeamSeasonMetrics {
	out := []TeamSeasonMetrics{}
	for _, m := range AllSeasonMetrics(games) {
		if m.Team == team {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Season < out[j].Season })
	return out
}

// ComparisonRow holds one team's metric per season, aligned with
// ComparisonTable.Seasons.
type ComparisonRow struct {
	Team   string      `json:"team"`
	Values []NullFloat `json:"values"`
}

// ComparisonTable pivots one metric to teams by seasons.
type ComparisonTable struct {
	League  string          `json:"league"`
	Metric  Metric          `json:"metric"`
	Seasons []string        `json:"seasons"`
	Rows    []ComparisonRow `json:"rows"`
}

// Comparison pivots metric for every team of league. Teams are sorted by name,
// seasons ascending; seasons a team did not play in are undefined.
func Comparison(games []GameRecord, league string, metric Metric) ComparisonTable {
	t := ComparisonTable{League: league, Metric: metric, Seasons: []string{}, Rows: []ComparisonRow{}}
	cells := make(map[string]map[string]NullFloat)
	seasonSet := make(map[string]bool)
	for _, m := range AllSeasonMetrics(LeagueGames(games, league)) {
		if cells[m.Team] == nil {
			cells[m.Team] = make(map[string]NullFloat)
		}
		cells[m.Team][m.Season] = m.Value(metric)
		seasonSet[m.Season] = true
	}
	for s := range seasonSet {
		t.Seasons = append(t.Seasons, s)
	}
	sort.Strings(t.Seasons)

	teams := make([]string, 0, len(cells))
	for team := range cells {
		teams = append(teams, team)
	}
	sort.Strings(teams)
	for _, team := range teams {
		row := ComparisonRow{Team: team, Values: make([]NullFloat, len(t.Seasons))}
		for i, s := range t.Seasons {
			row.Values[i] = cells[team][s]
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// TeamGames returns team's records outside preseason, by season and matchday.
func TeamGames(games []GameRecord, team string) []GameRecord {
	out := []GameRecord{}
	for _, g := range games {
		if g.Team == team && g.League != PreseasonLeague {
			out = append(out, g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Season != out[j].Season {
			return out[i].Season < out[j].Season
		}
		return out[i].Matchday < out[j].Matchday
	})
	return out
}
