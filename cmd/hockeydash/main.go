package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"
	"github.com/utakatalp/icehockey-dashboard/internal/api"
	"github.com/utakatalp/icehockey-dashboard/internal/config"
	"github.com/utakatalp/icehockey-dashboard/internal/dashboard"
	"github.com/utakatalp/icehockey-dashboard/internal/export"
	"github.com/utakatalp/icehockey-dashboard/internal/fixtures"
	"github.com/utakatalp/icehockey-dashboard/internal/ingest"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
	"github.com/utakatalp/icehockey-dashboard/internal/mcpserver"
	"github.com/utakatalp/icehockey-dashboard/internal/metrics"
	"github.com/utakatalp/icehockey-dashboard/internal/store"
	"github.com/utakatalp/icehockey-dashboard/internal/telemetry"
)

var version = "dev"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "hockeydash",
		Usage:   "ice hockey standings, trends and point distributions",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the configuration file",
				EnvVars: []string{"HOCKEYDASH_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			standingsCommand(),
			distributionCommand(),
			exportCommand(),
			importCommand(),
			migrateCommand(),
			demoCommand(),
		},
	}
}

// setup loads the configuration and builds the logger.
func setup(c *cli.Context) (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := config.NewLogger(os.Stderr, cfg.Observability)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// loadService reads the configured source into a dashboard service.
func loadService(c *cli.Context, cfg *config.Config, logger *slog.Logger, m *metrics.Metrics) (*dashboard.Service, error) {
	ds, err := dashboard.LoadDataset(c.Context, cfg.Source, dashboard.Scheme(cfg.Dashboard.Points), logger)
	if err != nil {
		return nil, err
	}
	return dashboard.NewService(ds, cfg.Dashboard, logger, m), nil
}

// openStore opens the configured database source. File sources have no store.
func openStore(ctx context.Context, cfg *config.Config) (*store.Store, error) {
	switch cfg.Source.Kind {
	case config.SourcePostgres, config.SourceSQLite:
		return store.Open(ctx, cfg.Source.Kind, cfg.Source.DSN)
	default:
		return nil, fmt.Errorf("source kind %q is not a database", cfg.Source.Kind)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "serve the dashboard, JSON API and MCP tools over HTTP",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer cancel()

			tp, err := telemetry.NewTracerProvider(ctx, cfg.Observability, version)
			if err != nil {
				return err
			}
			shutdownTracing := telemetry.Install(tp)
			defer func() {
				flushCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
				defer stop()
				if err := shutdownTracing(flushCtx); err != nil {
					logger.Warn("Failed to flush traces", "error", err)
				}
			}()

			var m *metrics.Metrics
			if cfg.Observability.MetricsEnabled {
				m = metrics.New()
			}
			svc, err := loadService(c, cfg, logger, m)
			if err != nil {
				return err
			}

			deps := api.Deps{Service: svc, Metrics: m, Logger: logger, HTTP: cfg.HTTP}
			if cfg.MCP.Enabled {
				deps.MCP = mcpserver.Handler(mcpserver.NewServer(svc, version), cfg.MCP.APIKey)
				deps.MCPPath = cfg.MCP.Path
			}
			srv := &http.Server{
				Addr:         cfg.HTTP.Addr,
				Handler:      api.NewRouter(deps),
				ReadTimeout:  cfg.HTTP.ReadTimeout,
				WriteTimeout: cfg.HTTP.WriteTimeout,
			}

			errCh := make(chan error, 1)
			go func() {
				logger.Info("HTTP server listening", "addr", srv.Addr, "mcp", cfg.MCP.Enabled, "games", svc.Len(),
				"tracing_endpoint", cfg.Observability.TracingEndpoint)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			logger.Info("Shutting down HTTP server")
			shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
			defer stop()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("server forced to shutdown: %w", err)
			}
			return nil
		},
	}
}

func standingsCommand() *cli.Command {
	return &cli.Command{
		Name:  "standings",
		Usage: "print a league table",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "league", Usage: "league (default from config)"},
			&cli.StringFlag{Name: "season", Usage: "season (default from config)"},
			&cli.StringFlag{Name: "h_a", Usage: "home, away or total"},
			&cli.StringFlag{Name: "recency", Usage: "all, last5 or last10"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			svc, err := loadService(c, cfg, logger, nil)
			if err != nil {
				return err
			}
			q := standingsQuery(c, svc.Defaults())
			table, err := svc.Standings(c.Context, q)
			if err != nil {
				return err
			}
			league.PrintTable(c.App.Writer, fmt.Sprintf("%s %s", q.League, q.Season), table)
			return nil
		},
	}
}

func standingsQuery(c *cli.Context, d dashboard.Defaults) dashboard.StandingsQuery {
	q := dashboard.StandingsQuery{
		League:   c.String("league"),
		Season:   c.String("season"),
		HomeAway: c.String("h_a"),
		Recency:  c.String("recency"),
	}
	if q.League == "" {
		q.League = d.League
	}
	if q.Season == "" {
		q.Season = d.Season
	}
	return q
}

func distributionCommand() *cli.Command {
	return &cli.Command{
		Name:  "distribution",
		Usage: "print the per season point distribution after a matchday",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "league", Usage: "league (default from config)"},
			&cli.IntFlag{Name: "matchday", Usage: "matchday (default from config)"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			svc, err := loadService(c, cfg, logger, nil)
			if err != nil {
				return err
			}
			leagueName, matchday := distributionArgs(c, svc.Defaults())
			rows, err := svc.Distribution(c.Context, leagueName, matchday)
			if err != nil {
				return err
			}
			league.PrintDistribution(c.App.Writer, fmt.Sprintf("%s after matchday %d", leagueName, matchday), rows)
			return nil
		},
	}
}

func distributionArgs(c *cli.Context, d dashboard.Defaults) (string, int) {
	leagueName, matchday := c.String("league"), c.Int("matchday")
	if leagueName == "" {
		leagueName = d.League
	}
	if matchday == 0 {
		matchday = d.Matchday
	}
	return leagueName, matchday
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "write a view as an xlsx workbook",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "view", Value: "standings", Usage: "standings, distribution or comparison"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Required: true, Usage: "output .xlsx path"},
			&cli.StringFlag{Name: "league"},
			&cli.StringFlag{Name: "season"},
			&cli.StringFlag{Name: "h_a"},
			&cli.StringFlag{Name: "recency"},
			&cli.IntFlag{Name: "matchday"},
			&cli.StringFlag{Name: "metric"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			svc, err := loadService(c, cfg, logger, nil)
			if err != nil {
				return err
			}
			d := svc.Defaults()

			var b []byte
			switch c.String("view") {
			case "standings":
				table, err := svc.Standings(c.Context, standingsQuery(c, d))
				if err != nil {
					return err
				}
				b, err = export.StandingsWorkbook("Standings", table)
				if err != nil {
					return err
				}
			case "distribution":
				leagueName, matchday := distributionArgs(c, d)
				rows, err := svc.Distribution(c.Context, leagueName, matchday)
				if err != nil {
					return err
				}
				b, err = export.DistributionWorkbook("Distribution", rows)
				if err != nil {
					return err
				}
			case "comparison":
				leagueName := c.String("league")
				if leagueName == "" {
					leagueName = d.League
				}
				table, err := svc.Comparison(c.Context, leagueName, c.String("metric"))
				if err != nil {
					return err
				}
				b, err = export.ComparisonWorkbook("Comparison", table)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown view %q", c.String("view"))
			}

			if err := os.WriteFile(c.String("out"), b, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", c.String("out"), err)
			}
			logger.Info("Workbook written", "view", c.String("view"), "path", c.String("out"))
			return nil
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "load a .csv or .xlsx file of game records into the configured database",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "reset", Usage: "delete existing records first"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return errors.New("expected exactly one file")
			}
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			games, err := ingest.LoadFile(c.Args().First(), dashboard.Scheme(cfg.Dashboard.Points))
			if err != nil {
				return err
			}
			if _, err := league.NewDataset(games); err != nil {
				return err
			}
			return storeGames(c.Context, cfg, logger, games, c.Bool("reset"))
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "create the game records table",
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			st, err := openStore(c.Context, cfg)
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.Migrate(c.Context); err != nil {
				return err
			}
			logger.Info("Schema migrated", "driver", cfg.Source.Kind)
			return nil
		},
	}
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "generate synthetic seasons into the configured database or a csv file",
		Flags: []cli.Flag{
			&cli.Uint64Flag{Name: "seed", Value: 1},
			&cli.StringFlag{Name: "league", Value: "shl"},
			&cli.StringSliceFlag{Name: "season", Value: cli.NewStringSlice("2022/23", "2023/24", "2024/25")},
			&cli.IntFlag{Name: "teams", Value: 14},
			&cli.IntFlag{Name: "unplayed-from", Value: 0, Usage: "leave matchdays from here on of the last season unplayed"},
			&cli.StringFlag{Name: "csv", Usage: "write to this csv file instead of the database"},
			&cli.BoolFlag{Name: "reset", Usage: "delete existing records first"},
		},
		Action: func(c *cli.Context) error {
			cfg, logger, err := setup(c)
			if err != nil {
				return err
			}
			if c.Int("teams") < 2 {
				return errors.New("a league needs at least two teams")
			}
			games := fixtures.New(c.Uint64("seed")).League(fixtures.Options{
				League:       c.String("league"),
				Seasons:      c.StringSlice("season"),
				Teams:        c.Int("teams"),
				UnplayedFrom: c.Int("unplayed-from"),
				Scheme:       dashboard.Scheme(cfg.Dashboard.Points),
			})

			if path := c.String("csv"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				defer f.Close()
				if err := ingest.WriteCSV(f, games); err != nil {
					return err
				}
				logger.Info("Demo records written", "path", path, "games", len(games))
				return f.Close()
			}
			return storeGames(c.Context, cfg, logger, games, c.Bool("reset"))
		},
	}
}

func storeGames(ctx context.Context, cfg *config.Config, logger *slog.Logger, games []league.GameRecord, reset bool) error {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		return err
	}
	if reset {
		if err := st.DeleteAllGames(ctx); err != nil {
			return err
		}
	}
	if err := st.InsertGames(ctx, games); err != nil {
		return err
	}
	n, err := st.CountGames(ctx)
	if err != nil {
		return err
	}
	logger.Info("Game records stored", "inserted", len(games), "total", n, "driver", cfg.Source.Kind)
	return nil
}
