package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/utakatalp/icehockey-dashboard/internal/fixtures"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	ctx := context.Background()
	s, err := Open(ctx, "sqlite", filepath.Join(t.TempDir(), "games.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(ctx))
	return s
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "whatever")
	assert.ErrorIs(t, err, ErrUnsupportedDriver)
}

func TestRebind(t *testing.T) {
	pg := &Store{driver: "postgres"}
	assert.Equal(t, "a = $1 AND b = $2", pg.rebind("a = ? AND b = ?"))
	lite := &Store{driver: "sqlite"}
	assert.Equal(t, "a = ?", lite.rebind("a = ?"))
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	games := fixtures.New(9).League(fixtures.Options{
		League: "shl", Seasons: []string{"2024/25"}, Teams: 4, UnplayedFrom: 5,
		Scheme: league.DefaultPointScheme,
	})
	require.NoError(t, s.InsertGames(ctx, games))

	n, err := s.CountGames(ctx)
	require.NoError(t, err)
	assert.Equal(t, len(games), n)

	loaded, err := s.LoadGames(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, len(games))

	_, err = league.NewDataset(loaded)
	require.NoError(t, err)

	key := func(g league.GameRecord) string { return fmt.Sprintf("%s/%s/%d", g.Team, g.Season, g.Matchday) }
	byKey := map[string]league.GameRecord{}
	for _, g := range games {
		byKey[key(g)] = g
	}
	for _, got := range loaded {
		want := byKey[key(got)]
		assert.Equal(t, want.GameID, got.GameID)
		assert.Equal(t, want.Result, got.Result)
		assert.Equal(t, want.Points, got.Points)
		assert.True(t, want.Date.Equal(got.Date))
		if want.Spectators == nil {
			assert.Nil(t, got.Spectators)
		} else {
			require.NotNil(t, got.Spectators)
			assert.Equal(t, *want.Spectators, *got.Spectators)
		}
	}

	// per-team totals from the database match totals from memory
	f := league.Filter{League: "shl", Season: "2024/25"}
	fromDB := map[string]league.TeamStanding{}
	for _, e := range league.Aggregate(league.FilterGames(loaded, f)) {
		fromDB[e.Team] = e
	}
	for _, e := range league.Aggregate(league.FilterGames(games, f)) {
		assert.Equal(t, e, fromDB[e.Team], e.Team)
	}
}

func TestInsertGames_Upserts(t *testing.T) {
	ctx := context.Background()
	s := openTemp(t)

	g := league.GameRecord{
		Team: "Frölunda HC", Opponent: "Luleå HF", League: "shl", Season: "2024/25",
		Matchday: 1, HomeAway: league.Home,
	}
	require.NoError(t, s.InsertGames(ctx, []league.GameRecord{g}))

	g.GameID, g.Result, g.ScoreTeam, g.ScoreOpponent, g.Points = "g1", league.ResultWin, 3, 1, 3
	require.NoError(t, s.InsertGames(ctx, []league.GameRecord{g}))

	loaded, err := s.LoadGames(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.True(t, loaded[0].Played())
	assert.Equal(t, 3, loaded[0].Points)

	require.NoError(t, s.DeleteAllGames(ctx))
	n, err := s.CountGames(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
