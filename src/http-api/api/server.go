package api

import (
	"context"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/metrics"
	"github.com/jack-barr3tt/pex-formatter/src/common/pex"
	"github.com/jack-barr3tt/pex-formatter/src/common/reference"
	"github.com/jack-barr3tt/pex-formatter/src/common/sink"
	"go.uber.org/zap"
)

var Version = "1.0.0"

type APIServer struct {
	Formatter *pex.Formatter
	Resolver  pex.Resolver
	Metrics   *metrics.Collector
	Publisher sink.Publisher
	BatchSize int
	Logger    *zap.SugaredLogger
}

// New builds a server around an already loaded resolver. publisher may be nil.
func New(resolver pex.Resolver, publisher sink.Publisher, cfg *config.Config, logger *zap.SugaredLogger) *APIServer {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	formatter := pex.NewFormatter(resolver, logger)
	formatter.Workers = cfg.Workers

	return &APIServer{
		Formatter: formatter,
		Resolver:  resolver,
		Metrics:   metrics.NewCollector(),
		Publisher: publisher,
		BatchSize: cfg.Sink.BatchSize,
		Logger:    logger,
	}
}

// NewServer loads reference data and connects the configured sink.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*APIServer, func(), error) {
	resolver, release, err := reference.Open(ctx, cfg, logger)
	if err != nil {
		logger.Errorw("failed to load reference data", "error", err)
		return nil, nil, err
	}

	publisher, err := sink.New(cfg)
	if err != nil {
		logger.Errorw("failed to connect to sink", "sink", cfg.Sink.Kind, "error", err)
		release()
		return nil, nil, err
	}

	closer := func() {
		if publisher != nil {
			publisher.Close()
		}
		release()
	}

	return New(resolver, publisher, cfg, logger), closer, nil
}
