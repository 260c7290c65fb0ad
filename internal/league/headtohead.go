// internal/league/headtohead.go
package league

import "sort"

// OpponentRecord is a team's all-time record against one opponent.
type OpponentRecord struct {
	Opponent  string    `json:"opponent"`
	Games     int       `json:"games"`
	Points    int       `json:"points"`
	Win       int       `json:"win"`
	Draw      int       `json:"draw"`
	Lost      int       `json:"lost"`
	OTWin     int       `json:"ot_win"`
	OTLoss    int       `json:"ot_loss"`
	Scored    int       `json:"scored"`
	Conceded  int       `json:"conceded"`
	AvgPoints NullFloat `json:"avg_points"`
}

// HeadToHead aggregates team's played league games per opponent, best
// opponents (by average points) first.
func HeadToHead(games []GameRecord, team string) []OpponentRecord {
	var order []string
	byOpp := make(map[string]*OpponentRecord)
	for _, g := range games {
		if g.Team != team || !g.Played() || g.League == PreseasonLeague {
			continue
		}
		r, ok := byOpp[g.Opponent]
		if !ok {
			r = &OpponentRecord{Opponent: g.Opponent}
			byOpp[g.Opponent] = r
			order = append(order, g.Opponent)
		}
		r.Games++
		r.Points += g.Points
		r.Win += g.Win()
		r.Draw += g.Draw()
		r.Lost += g.Lost()
		r.OTWin += g.OTWin()
		r.OTLoss += g.OTLoss()
		r.Scored += g.ScoreTeam
		r.Conceded += g.ScoreOpponent
	}

	out := make([]OpponentRecord, 0, len(order))
	for _, opp := range order {
		r := byOpp[opp]
		r.AvgPoints = average(r.Points, r.Games)
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AvgPoints.Float64 > out[j].AvgPoints.Float64
	})
	return out
}

// TopAndBottom keeps the first n and last n records. Lists of at most 2n
// records are returned whole.
func TopAndBottom(records []OpponentRecord, n int) []OpponentRecord {
	if n <= 0 || len(records) <= 2*n {
		return records
	}
	out := make([]OpponentRecord, 0, 2*n)
	out = append(out, records[:n]...)
	return append(out, records[len(records)-n:]...)
}
