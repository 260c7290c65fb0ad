// Package store persists team game records in Postgres or sqlite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
)

// ErrUnsupportedDriver is returned by Open for drivers other than postgres and sqlite.
var ErrUnsupportedDriver = errors.New("unsupported database driver")

const dateLayout = "2006-01-02"

// Store wraps a database connection holding the team_games table.
type Store struct {
	DB     *sql.DB
	driver string
}

// Open connects to driver ("postgres" or "sqlite") and pings it.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if driver != "postgres" && driver != "sqlite" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// verify early
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	slog.Debug("database connected", "driver", driver)
	return &Store{DB: db, driver: driver}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.DB.Close()
}

// rebind turns ? placeholders into $n for Postgres.
func (s *Store) rebind(q string) string {
	if s.driver != "postgres" {
		return q
	}
	var b strings.Builder
	n := 0
	for _, r := range q {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Migrate creates the team_games table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS team_games (
			game_id        TEXT,
			team           TEXT    NOT NULL,
			opponent       TEXT    NOT NULL,
			league         TEXT    NOT NULL,
			season         TEXT    NOT NULL,
			matchday       INTEGER NOT NULL,
			game_date      TEXT    NOT NULL,
			h_a            TEXT    NOT NULL,
			result         TEXT,
			score_team     INTEGER NOT NULL DEFAULT 0,
			score_opponent INTEGER NOT NULL DEFAULT 0,
			points         INTEGER NOT NULL DEFAULT 0,
			spectators     INTEGER,
			PRIMARY KEY (team, league, season, matchday)
		)`,
		`CREATE INDEX IF NOT EXISTS team_games_league_season ON team_games (league, season)`,
	}
	for _, q := range queries {
		if _, err := s.DB.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrating: %w", err)
		}
	}
	return nil
}

// InsertGames upserts games in one transaction.
func (s *Store) InsertGames(ctx context.Context, games []league.GameRecord) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin InsertGames tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, s.rebind(`
		INSERT INTO team_games (game_id, team, opponent, league, season, matchday, game_date,
			h_a, result, score_team, score_opponent, points, spectators)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (team, league, season, matchday) DO UPDATE SET
			game_id = excluded.game_id,
			opponent = excluded.opponent,
			game_date = excluded.game_date,
			h_a = excluded.h_a,
			result = excluded.result,
			score_team = excluded.score_team,
			score_opponent = excluded.score_opponent,
			points = excluded.points,
			spectators = excluded.spectators`))
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, g := range games {
		var spectators sql.NullInt64
		if g.Spectators != nil {
			spectators = sql.NullInt64{Int64: int64(*g.Spectators), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			nullString(g.GameID), g.Team, g.Opponent, g.League, g.Season, g.Matchday,
			g.Date.Format(dateLayout), string(g.HomeAway), nullString(string(g.Result)),
			g.ScoreTeam, g.ScoreOpponent, g.Points, spectators,
		); err != nil {
			return fmt.Errorf("inserting %s %s matchday %d: %w", g.Team, g.Season, g.Matchday, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit InsertGames tx: %w", err)
	}
	return nil
}

// LoadGames fetches every record ordered by league, season, team and matchday.
func (s *Store) LoadGames(ctx context.Context) ([]league.GameRecord, error) {
	const q = `
SELECT game_id, team, opponent, league, season, matchday, game_date, h_a, result,
       score_team, score_opponent, points, spectators
FROM team_games
ORDER BY league, season, team, matchday
`
	rows, err := s.DB.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying games: %w", err)
	}
	defer rows.Close()

	var games []league.GameRecord
	for rows.Next() {
		var (
			g              league.GameRecord
			gameID, result sql.NullString
			date, homeAway string
			spectators     sql.NullInt64
		)
		if err := rows.Scan(
			&gameID, &g.Team, &g.Opponent, &g.League, &g.Season, &g.Matchday, &date,
			&homeAway, &result, &g.ScoreTeam, &g.ScoreOpponent, &g.Points, &spectators,
		); err != nil {
			return nil, fmt.Errorf("scanning game row: %w", err)
		}
		g.GameID = gameID.String
		g.Result = league.Result(result.String)
		g.HomeAway = league.HomeAway(homeAway)
		if g.Date, err = time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("parsing date %q for %s matchday %d: %w", date, g.Team, g.Matchday, err)
		}
		if spectators.Valid {
			n := int(spectators.Int64)
			g.Spectators = &n
		}
		games = append(games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating game rows: %w", err)
	}
	return games, nil
}

// CountGames returns the number of stored records.
func (s *Store) CountGames(ctx context.Context) (int, error) {
	var n int
	if err := s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM team_games`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting games: %w", err)
	}
	return n, nil
}

// DeleteAllGames empties the table.
func (s *Store) DeleteAllGames(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, `DELETE FROM team_games`); err != nil {
		return fmt.Errorf("deleting all games: %w", err)
	}
	return nil
}

func nullString(v string) sql.NullString {
	return sql.NullString{String: v, Valid: v != ""}
}
