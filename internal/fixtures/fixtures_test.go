package fixtures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
)

func TestSchedule(t *testing.T) {
	for _, n := range []int{4, 5, 6, 14} {
		teams := New(1).TeamNames(n)
		rounds := Schedule(teams)

		meetings := map[[2]string]int{}
		for _, round := range rounds {
			playing := map[string]bool{}
			for _, p := range round {
				assert.False(t, playing[p.Home], "%s plays twice on matchday %d", p.Home, p.Matchday)
				assert.False(t, playing[p.Away], "%s plays twice on matchday %d", p.Away, p.Matchday)
				playing[p.Home], playing[p.Away] = true, true
				a, b := p.Home, p.Away
				if a > b {
					a, b = b, a
				}
				meetings[[2]string{a, b}]++
			}
		}
		assert.Len(t, meetings, n*(n-1)/2, "every pair meets once with %d teams", n)
		for pair, c := range meetings {
			assert.Equal(t, 1, c, "%v", pair)
		}
	}
	assert.Nil(t, Schedule([]string{"lonely"}))
}

func TestFullSeason(t *testing.T) {
	teams := []string{"A", "B", "C", "D"}
	games := FullSeason(teams)
	require.Len(t, games, 12)

	homeCount := map[[2]string]int{}
	for _, p := range games {
		homeCount[[2]string{p.Home, p.Away}]++
	}
	assert.Len(t, homeCount, 12, "each team hosts every other team once")
	assert.Equal(t, 6, games[len(games)-1].Matchday)
}

func TestGeneratorIsDeterministic(t *testing.T) {
	opts := Options{League: "shl", Seasons: []string{"2023/24", "2024/25"}, Teams: 6, UnplayedFrom: 8, Scheme: league.DefaultPointScheme}
	a := New(42).League(opts)
	b := New(42).League(opts)
	assert.Equal(t, a, b)

	c := New(7).League(opts)
	assert.NotEqual(t, a, c)
}

func TestSeasonRecords(t *testing.T) {
	opts := Options{League: "shl", Seasons: []string{"2023/24", "2024/25"}, Teams: 6, UnplayedFrom: 8, Scheme: league.DefaultPointScheme}
	games := New(3).League(opts)

	_, err := league.NewDataset(games)
	require.NoError(t, err)

	byID := map[string][]league.GameRecord{}
	for _, g := range games {
		if g.Season == "2024/25" && g.Matchday >= 8 {
			assert.False(t, g.Played(), "matchday %d should be unplayed", g.Matchday)
			continue
		}
		require.True(t, g.Played())
		byID[g.GameID] = append(byID[g.GameID], g)
	}

	for id, pair := range byID {
		require.Len(t, pair, 2, id)
		h, a := pair[0], pair[1]
		assert.Equal(t, h.ScoreTeam, a.ScoreOpponent)
		assert.Equal(t, h.Opponent, a.Team)
		assert.NotEqual(t, h.ScoreTeam, h.ScoreOpponent, "hockey games end with a winner")
		assert.Equal(t, 3, h.Points+a.Points, "regulation and overtime games both hand out three points")
		assert.Equal(t, *h.Spectators, *a.Spectators)
	}
}
