// internal/league/league.go
package league

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PreseasonLeague is excluded from team-level history views.
const PreseasonLeague = "preseason"

var (
	// ErrInvalidRecord marks a game record that breaks the column contract.
	ErrInvalidRecord = errors.New("invalid game record")
	// ErrInvalidFilter marks an unknown filter or metric value.
	ErrInvalidFilter = errors.New("invalid filter value")
)

// Result is the outcome category of a game from one team's perspective.
type Result string

const (
	ResultWin    Result = "win"
	ResultDraw   Result = "draw"
	ResultLost   Result = "lost"
	ResultOTWin  Result = "ot win"
	ResultOTLoss Result = "ot loss"
)

// Known reports whether r is one of the recognised categories.
func (r Result) Known() bool {
	switch r {
	case ResultWin, ResultDraw, ResultLost, ResultOTWin, ResultOTLoss:
		return true
	}
	return false
}

// HomeAway says on which side of the fixture the team played.
type HomeAway string

const (
	Home HomeAway = "home"
	Away HomeAway = "away"
	// Total disables the home/away filter.
	Total HomeAway = "total"
)

// GameRecord is one team's view of a played or scheduled game.
// An empty GameID means the game has not been played yet.
type GameRecord struct {
	GameID        string    `json:"game_id"`
	Team          string    `json:"team"`
	Opponent      string    `json:"opponent"`
	League        string    `json:"league"`
	Season        string    `json:"season"`
	Matchday      int       `json:"matchday"`
	Date          time.Time `json:"date"`
	HomeAway      HomeAway  `json:"h_a"`
	Result        Result    `json:"result"`
	ScoreTeam     int       `json:"score_team"`
	ScoreOpponent int       `json:"score_opponent"`
	Points        int       `json:"points"`
	Spectators    *int      `json:"spectators,omitempty"`
}

// Played reports whether the game has a result.
func (g GameRecord) Played() bool { return g.GameID != "" }

func indicator(ok bool) int {
	if ok {
		return 1
	}
	return 0
}

func (g GameRecord) Win() int    { return indicator(g.Result == ResultWin) }
func (g GameRecord) Draw() int   { return indicator(g.Result == ResultDraw) }
func (g GameRecord) Lost() int   { return indicator(g.Result == ResultLost) }
func (g GameRecord) OTWin() int  { return indicator(g.Result == ResultOTWin) }
func (g GameRecord) OTLoss() int { return indicator(g.Result == ResultOTLoss) }

// ScoreLine formats the game the way the match list shows it.
func (g GameRecord) ScoreLine() string {
	if !g.Played() {
		return fmt.Sprintf("%s vs %s", g.Team, g.Opponent)
	}
	return fmt.Sprintf("%s %d - %d %s", g.Team, g.ScoreTeam, g.ScoreOpponent, g.Opponent)
}

// Validate checks the record against the column contract.
func (g GameRecord) Validate() error {
	if g.Team == "" || g.League == "" || g.Season == "" {
		return fmt.Errorf("%w: team, league and season are required", ErrInvalidRecord)
	}
	if g.Matchday <= 0 {
		return fmt.Errorf("%w: matchday %d must be positive", ErrInvalidRecord, g.Matchday)
	}
	if g.HomeAway != Home && g.HomeAway != Away {
		return fmt.Errorf("%w: h_a %q must be home or away", ErrInvalidRecord, g.HomeAway)
	}
	if g.Played() != (g.Result != "") {
		return fmt.Errorf("%w: game_id and result must be set together (game_id=%q result=%q)",
			ErrInvalidRecord, g.GameID, g.Result)
	}
	if g.Played() {
		if !g.Result.Known() {
			return fmt.Errorf("%w: unknown result %q", ErrInvalidRecord, g.Result)
		}
		if g.ScoreTeam < 0 || g.ScoreOpponent < 0 {
			return fmt.Errorf("%w: negative score", ErrInvalidRecord)
		}
	} else if g.ScoreTeam != 0 || g.ScoreOpponent != 0 || g.Points != 0 {
		return fmt.Errorf("%w: unplayed game %s matchday %d carries a score", ErrInvalidRecord, g.Team, g.Matchday)
	}
	return nil
}

// PointScheme awards league points per result category.
type PointScheme struct {
	Win, OTWin, OTLoss, Draw, Lost int
}

// DefaultPointScheme is the three-point system used by the Swedish leagues.
var DefaultPointScheme = PointScheme{Win: 3, OTWin: 2, OTLoss: 1, Draw: 1, Lost: 0}

// Award returns the points for r; unknown results earn nothing.
func (s PointScheme) Award(r Result) int {
	switch r {
	case ResultWin:
		return s.Win
	case ResultOTWin:
		return s.OTWin
	case ResultOTLoss:
		return s.OTLoss
	case ResultDraw:
		return s.Draw
	case ResultLost:
		return s.Lost
	}
	return 0
}

// NullFloat is a float that may be undefined, e.g. an average over zero games.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a defined NullFloat.
func Float(v float64) NullFloat { return NullFloat{Float64: v, Valid: true} }

func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

func (n *NullFloat) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = NullFloat{}
		return nil
	}
	if err := json.Unmarshal(b, &n.Float64); err != nil {
		return err
	}
	n.Valid = true
	return nil
}

// String renders undefined values as an empty string.
func (n NullFloat) String() string {
	if !n.Valid {
		return ""
	}
	return fmt.Sprintf("%.2f", n.Float64)
}

// TeamStanding holds the standings info for one team in a filter slice.
type TeamStanding struct {
	TablePosition      int         `json:"table_position"`
	Team               string      `json:"team"`
	Games              int         `json:"games"`
	Points             int         `json:"points"`
	Win                int         `json:"win"`
	Draw               int         `json:"draw"`
	Lost               int         `json:"lost"`
	OTWin              int         `json:"ot_win"`
	OTLoss             int         `json:"ot_loss"`
	Scored             int         `json:"scored"`
	Conceded           int         `json:"conceded"`
	GoalDifference     int         `json:"goal_difference"`
	GoalDifferenceText string      `json:"goal_difference_txt"`
	AvgPoints          NullFloat   `json:"avg_points"`
	AvgScored          NullFloat   `json:"avg_scored"`
	AvgConceded        NullFloat   `json:"avg_conceded"`
	Form               []FormToken `json:"form"`
}

// SeasonPointSnapshot is a team's running state after one matchday.
type SeasonPointSnapshot struct {
	Team              string `json:"team"`
	Season            string `json:"season"`
	League            string `json:"league"`
	Matchday          int    `json:"matchday"`
	PointsCum         int    `json:"points_cum"`
	GoalDifferenceCum int    `json:"goal_difference_cum"`
	TablePosition     int    `json:"table_position"`
}
