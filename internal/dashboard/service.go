// internal/dashboard/service.go

// Package dashboard serves the league pipeline over the loaded dataset.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/utakatalp/icehockey-dashboard/internal/config"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
	"github.com/utakatalp/icehockey-dashboard/internal/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ErrUnknownTeam is returned for team lookups that match no record.
var ErrUnknownTeam = errors.New("unknown team")

// headToHeadShown is how many best and worst opponents the team view lists.
const headToHeadShown = 10

// Service answers dashboard queries. The dataset is read-only, so a Service is
// safe for concurrent use.
type Service struct {
	data    *league.Dataset
	games   []league.GameRecord
	cfg     config.DashboardConfig
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

// NewService wraps data. logger and m may be nil.
func NewService(data *league.Dataset, cfg config.DashboardConfig, logger *slog.Logger, m *metrics.Metrics) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	m.SetDatasetSize(data.Len())
	return &Service{
		data:    data,
		games:   data.Games(),
		cfg:     cfg,
		logger:  logger,
		metrics: m,
		tracer:  otel.Tracer("github.com/utakatalp/icehockey-dashboard/internal/dashboard"),
	}
}

// Scheme converts the configured points into a league.PointScheme.
func Scheme(p config.PointsConfig) league.PointScheme {
	return league.PointScheme{Win: p.Win, OTWin: p.OTWin, OTLoss: p.OTLoss, Draw: p.Draw, Lost: p.Lost}
}

// withTelemetry wraps a query with a span, query metrics and panic recovery.
func withTelemetry[T any](s *Service, ctx context.Context, operation, identifier string, op func(ctx context.Context) (T, error)) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, "DashboardService."+operation, trace.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("identifier", identifier),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operation, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered", "operation", operation, "error", err)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		s.metrics.ObserveQuery(operation, start, err)
	}()

	result, err = op(ctx)
	if err != nil {
		s.logger.DebugContext(ctx, "Query rejected", "operation", operation, "identifier", identifier, "error", err)
		return result, err
	}
	s.logger.DebugContext(ctx, "Query served", "operation", operation, "identifier", identifier,
		"duration", time.Since(start))
	return result, nil
}

// Defaults are the preselected dashboard values.
type Defaults struct {
	League   string `json:"league"`
	Season   string `json:"season"`
	Matchday int    `json:"matchday"`
	Team     string `json:"team"`
}

// Options lists the values a client can pick from.
type Options struct {
	Leagues   []string        `json:"leagues"`
	Seasons   []string        `json:"seasons"`
	Teams     []string        `json:"teams"`
	Matchdays []int           `json:"matchdays"`
	HomeAway  []string        `json:"home_away"`
	Recency   []string        `json:"recency"`
	Metrics   []league.Metric `json:"metrics"`
	Defaults  Defaults        `json:"defaults"`
}

// Options returns the selectable values and defaults.
func (s *Service) Options(ctx context.Context) (Options, error) {
	return withTelemetry(s, ctx, "Options", "", func(ctx context.Context) (Options, error) {
		return Options{
			Leagues:   s.data.Leagues(),
			Seasons:   s.data.Seasons(),
			Teams:     s.data.Teams(),
			Matchdays: s.data.Matchdays(),
			HomeAway:  []string{string(league.Total), string(league.Home), string(league.Away)},
			Recency:   []string{string(league.RecencyAll), string(league.RecencyLast5), string(league.RecencyLast10)},
			Metrics:   league.Metrics,
			Defaults:  s.Defaults(),
		}, nil
	})
}

// Defaults returns the configured preselections. Empty ones fall back to the
// first league, the latest season, the last matchday and the first team.
func (s *Service) Defaults() Defaults {
	d := Defaults{
		League:   s.cfg.DefaultLeague,
		Season:   s.cfg.DefaultSeason,
		Matchday: s.cfg.DefaultMatchday,
		Team:     s.cfg.DefaultTeam,
	}
	if leagues := s.data.Leagues(); d.League == "" && len(leagues) > 0 {
		d.League = leagues[0]
	}
	if seasons := s.data.Seasons(); d.Season == "" && len(seasons) > 0 {
		d.Season = seasons[len(seasons)-1]
	}
	if mds := s.data.Matchdays(); d.Matchday <= 0 && len(mds) > 0 {
		d.Matchday = mds[len(mds)-1]
	}
	if teams := s.data.Teams(); d.Team == "" && len(teams) > 0 {
		d.Team = teams[0]
	}
	return d
}

// StandingsQuery carries raw filter values as they arrive from a client.
type StandingsQuery struct {
	League   string `json:"league"`
	Season   string `json:"season"`
	HomeAway string `json:"h_a"`
	Recency  string `json:"recency"`
}

// Filter parses q. Unknown home/away or recency values wrap league.ErrInvalidFilter.
func (q StandingsQuery) Filter() (league.Filter, error) {
	ha, err := league.ParseHomeAway(q.HomeAway)
	if err != nil {
		return league.Filter{}, err
	}
	rec, err := league.ParseRecency(q.Recency)
	if err != nil {
		return league.Filter{}, err
	}
	return league.Filter{League: q.League, Season: q.Season, HomeAway: ha, Recency: rec}, nil
}

// Standings returns the ranked table for q.
func (s *Service) Standings(ctx context.Context, q StandingsQuery) ([]league.TeamStanding, error) {
	return withTelemetry(s, ctx, "Standings", q.League+" "+q.Season, func(ctx context.Context) ([]league.TeamStanding, error) {
		f, err := q.Filter()
		if err != nil {
			return nil, err
		}
		return league.Standings(s.games, f), nil
	})
}

// Trend returns the matchday-by-matchday table positions of one season up to
// its horizon.
func (s *Service) Trend(ctx context.Context, leagueName, season string) ([]league.SeasonPointSnapshot, error) {
	return withTelemetry(s, ctx, "Trend", leagueName+" "+season, func(ctx context.Context) ([]league.SeasonPointSnapshot, error) {
		return league.Trend(league.SeasonGames(s.games, leagueName, season)), nil
	})
}

// Distribution summarizes the points every team had after matchday in each
// season of leagueName, leaving out the configured seasons. An unset matchday
// yields no rows.
func (s *Service) Distribution(ctx context.Context, leagueName string, matchday int) ([]league.SeasonDistribution, error) {
	return withTelemetry(s, ctx, "Distribution", fmt.Sprintf("%s %d", leagueName, matchday), func(ctx context.Context) ([]league.SeasonDistribution, error) {
		if matchday <= 0 {
			return []league.SeasonDistribution{}, nil
		}
		at := league.SnapshotsAt(league.Snapshots(league.LeagueGames(s.games, leagueName)), leagueName, matchday)
		kept := make([]league.SeasonPointSnapshot, 0, len(at))
		for _, snap := range at {
			if !s.cfg.Excluded(snap.League, snap.Season) {
				kept = append(kept, snap)
			}
		}
		return league.Distribution(kept), nil
	})
}

// TeamStats is everything the team view shows.
type TeamStats struct {
	Team       string                     `json:"team"`
	Seasons    []league.TeamSeasonMetrics `json:"seasons"`
	HeadToHead []league.OpponentRecord    `json:"head_to_head"`
	Games      []league.GameRecord        `json:"games"`
}

// TeamStats returns season history, the best and worst ten head-to-head
// records and the game list of team, outside preseason.
func (s *Service) TeamStats(ctx context.Context, team string) (TeamStats, error) {
	return withTelemetry(s, ctx, "TeamStats", team, func(ctx context.Context) (TeamStats, error) {
		if !s.data.HasTeam(team) {
			return TeamStats{}, fmt.Errorf("%w: %q", ErrUnknownTeam, team)
		}
		return TeamStats{
			Team:       team,
			Seasons:    league.SeasonMetrics(s.games, team),
			HeadToHead: league.TopAndBottom(league.HeadToHead(s.games, team), headToHeadShown),
			Games:      league.TeamGames(s.games, team),
		}, nil
	})
}

// Comparison pivots metric for every team of leagueName.
func (s *Service) Comparison(ctx context.Context, leagueName, metric string) (league.ComparisonTable, error) {
	return withTelemetry(s, ctx, "Comparison", leagueName+" "+metric, func(ctx context.Context) (league.ComparisonTable, error) {
		m, err := league.ParseMetric(metric)
		if err != nil {
			return league.ComparisonTable{}, err
		}
		return league.Comparison(s.games, leagueName, m), nil
	})
}

// Len returns the number of loaded records.
func (s *Service) Len() int { return s.data.Len() }
