package main

import (
	"context"
	"os"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/data"
	"github.com/jack-barr3tt/pex-formatter/src/common/reference"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"go.uber.org/zap"
)

type referenceStore interface {
	EnsureSchema(ctx context.Context) error
	ReplaceOperators(ctx context.Context, operators map[string]string) error
	UpsertTiplocNames(ctx context.Context, stations map[string]string) error
	InvalidateReference(ctx context.Context) error
}

// importReference loads both lookup CSVs before touching the database, so a bad
// file leaves the stored tables as they were.
func importReference(ctx context.Context, store referenceStore, cfg config.ReferenceConfig, log *zap.SugaredLogger) error {
	operators, err := reference.LoadOperators(cfg.OperatorsCSV)
	if err != nil {
		return err
	}
	stations, err := reference.LoadStations(cfg.StationsCSV)
	if err != nil {
		return err
	}

	if err := store.EnsureSchema(ctx); err != nil {
		return err
	}

	log.Infow("updating operator reference data", "file", cfg.OperatorsCSV, "rows", len(operators))
	if err := store.ReplaceOperators(ctx, operators); err != nil {
		return err
	}

	log.Infow("updating tiploc reference data", "file", cfg.StationsCSV, "rows", len(stations))
	if err := store.UpsertTiplocNames(ctx, stations); err != nil {
		return err
	}

	if err := store.InvalidateReference(ctx); err != nil {
		log.Warnw("failed to invalidate cached reference data", "error", err)
	}
	return nil
}

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Getenv("PEX_CONFIG"))
	if err != nil {
		utils.InitLogger("")
		utils.GetLogger().Fatalw("failed to load config", "error", err)
	}

	utils.InitLogger(cfg.LogLevel)
	defer utils.SyncLogger()
	log := utils.GetLogger()

	pg, err := utils.NewPostgresConnection(ctx, cfg.Postgres)
	if err != nil {
		log.Fatalw("failed to connect to postgres", "error", err)
	}
	defer pg.Close()

	rdb := utils.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	dc := data.NewDataClient(pg, rdb, log)

	if err := importReference(ctx, dc, cfg.Reference, log); err != nil {
		log.Errorw("reference data import failed", "error", err)
		return
	}
	log.Info("reference data updated successfully")
}
