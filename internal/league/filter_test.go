package league

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterGames(t *testing.T) {
	games := []GameRecord{
		played("A", "B", 1, ResultWin, 2, 1, 3),
		away(played("B", "A", 1, ResultLost, 1, 2, 0)),
		inSeason(played("A", "C", 1, ResultWin, 4, 0, 3), "2023/24"),
		unplayed("A", "C", 2),
	}
	allsvenskan := played("A", "D", 1, ResultWin, 1, 0, 3)
	allsvenskan.League = "allsvenskan"
	games = append(games, allsvenskan)

	tests := []struct {
		name   string
		filter Filter
		want   int
	}{
		{"league and season", Filter{League: "shl", Season: "2024/25"}, 2},
		{"total is no filter", Filter{League: "shl", Season: "2024/25", HomeAway: Total}, 2},
		{"home", Filter{League: "shl", Season: "2024/25", HomeAway: Home}, 1},
		{"away", Filter{League: "shl", Season: "2024/25", HomeAway: Away}, 1},
		{"case sensitive", Filter{League: "SHL", Season: "2024/25"}, 0},
		{"missing league", Filter{Season: "2024/25"}, 0},
		{"missing season", Filter{League: "shl"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterGames(games, tt.filter)
			assert.NotNil(t, got)
			assert.Len(t, got, tt.want)
			for _, g := range got {
				assert.True(t, g.Played())
			}
		})
	}
}

func TestFilterGames_RecencyPerTeam(t *testing.T) {
	var games []GameRecord
	for md := 1; md <= 12; md++ {
		games = append(games, played("A", "Z", md, ResultWin, 1, 0, 3))
	}
	for md := 1; md <= 3; md++ {
		games = append(games, played("B", "Z", md, ResultLost, 0, 1, 0))
	}

	last5 := FilterGames(games, Filter{League: "shl", Season: "2024/25", Recency: RecencyLast5})
	counts := map[string]int{}
	minMatchday := map[string]int{}
	for _, g := range last5 {
		counts[g.Team]++
		if m, ok := minMatchday[g.Team]; !ok || g.Matchday < m {
			minMatchday[g.Team] = g.Matchday
		}
	}
	assert.Equal(t, 5, counts["A"])
	assert.Equal(t, 8, minMatchday["A"], "only the most recent games are kept")
	assert.Equal(t, 3, counts["B"], "teams with fewer games keep all of them")

	last10 := FilterGames(games, Filter{League: "shl", Season: "2024/25", Recency: RecencyLast10})
	assert.Len(t, last10, 13)

	table := Standings(games, Filter{League: "shl", Season: "2024/25", Recency: RecencyLast5})
	a, ok := find(table, "A")
	require.True(t, ok)
	assert.Equal(t, 5, a.Games)
	assert.Equal(t, 15, a.Points)
}

func TestParseFilters(t *testing.T) {
	ha, err := ParseHomeAway("")
	require.NoError(t, err)
	assert.Equal(t, Total, ha)
	ha, err = ParseHomeAway("away")
	require.NoError(t, err)
	assert.Equal(t, Away, ha)
	_, err = ParseHomeAway("neutral")
	assert.True(t, errors.Is(err, ErrInvalidFilter))

	r, err := ParseRecency("")
	require.NoError(t, err)
	assert.Equal(t, RecencyAll, r)
	r, err = ParseRecency("last10")
	require.NoError(t, err)
	assert.Equal(t, 10, r.Limit())
	_, err = ParseRecency("last3")
	assert.ErrorIs(t, err, ErrInvalidFilter)

	m, err := ParseMetric("")
	require.NoError(t, err)
	assert.Equal(t, MetricAvgPoints, m)
	_, err = ParseMetric("avg_penalties")
	assert.ErrorIs(t, err, ErrInvalidFilter)
}

func TestMatchdayGames(t *testing.T) {
	games := []GameRecord{
		played("A", "B", 3, ResultWin, 2, 1, 3),
		inSeason(played("A", "B", 3, ResultLost, 0, 1, 0), "2023/24"),
		unplayed("C", "D", 3),
		played("A", "B", 4, ResultWin, 2, 1, 3),
	}
	got := MatchdayGames(games, "shl", 3)
	assert.Len(t, got, 2)
}
