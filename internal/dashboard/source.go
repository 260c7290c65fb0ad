// internal/dashboard/source.go
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/utakatalp/icehockey-dashboard/internal/config"
	"github.com/utakatalp/icehockey-dashboard/internal/ingest"
	"github.com/utakatalp/icehockey-dashboard/internal/league"
	"github.com/utakatalp/icehockey-dashboard/internal/store"
)

// LoadGames reads every record from the configured source.
func LoadGames(ctx context.Context, src config.SourceConfig, scheme league.PointScheme) ([]league.GameRecord, error) {
	switch src.Kind {
	case config.SourcePostgres, config.SourceSQLite:
		s, err := store.Open(ctx, src.Kind, src.DSN)
		if err != nil {
			return nil, err
		}
		defer s.Close()
		return s.LoadGames(ctx)
	case config.SourceCSV, config.SourceXLSX:
		return ingest.LoadFile(src.Path, scheme)
	default:
		return nil, fmt.Errorf("unknown source kind %q", src.Kind)
	}
}

// LoadDataset loads and validates the records once at startup.
func LoadDataset(ctx context.Context, src config.SourceConfig, scheme league.PointScheme, logger *slog.Logger) (*league.Dataset, error) {
	start := time.Now()
	games, err := LoadGames(ctx, src, scheme)
	if err != nil {
		return nil, fmt.Errorf("loading %s source: %w", src.Kind, err)
	}
	ds, err := league.NewDataset(games)
	if err != nil {
		return nil, fmt.Errorf("validating %s source: %w", src.Kind, err)
	}
	logger.Info("dataset loaded",
		"source", src.Kind,
		"games", ds.Len(),
		"leagues", len(ds.Leagues()),
		"seasons", len(ds.Seasons()),
		"duration", time.Since(start),
	)
	return ds, nil
}
