package reference

import (
	"context"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/data"
	"github.com/jack-barr3tt/pex-formatter/src/common/pex"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"go.uber.org/zap"
)

// Open loads the resolver for cfg, connecting to Postgres and Redis when the
// reference source is postgres. The returned func releases those connections.
func Open(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*pex.Reference, func(), error) {
	noop := func() {}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	if cfg.Reference.Source != config.ReferencePostgres {
		ref, err := Load(ctx, cfg.Reference, nil)
		return ref, noop, err
	}

	pg, err := utils.NewPostgresConnection(ctx, cfg.Postgres)
	if err != nil {
		return nil, noop, err
	}
	rdb := utils.NewRedisClient(cfg.Redis)
	release := func() {
		rdb.Close()
		pg.Close()
	}

	dc := data.NewDataClient(pg, rdb, logger)
	dc.SetCacheTTL(cfg.Reference.CacheTTL)

	ref, err := Load(ctx, cfg.Reference, dc)
	if err != nil {
		release()
		return nil, noop, err
	}

	operators, stations := ref.Len()
	logger.Infow("loaded reference data", "source", cfg.Reference.Source, "operators", operators, "stations", stations)
	return ref, release, nil
}
