package data

import (
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const DefaultCacheTTL = 6 * time.Hour

type DataClient struct {
	pg       *pgxpool.Pool
	rdb      *redis.Client
	logger   *zap.SugaredLogger
	cacheTTL time.Duration
}

// NewDataClient wraps a pool and an optional redis client. A nil rdb disables caching.
func NewDataClient(db *pgxpool.Pool, rdb *redis.Client, logger *zap.SugaredLogger) *DataClient {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &DataClient{
		pg:       db,
		rdb:      rdb,
		logger:   logger,
		cacheTTL: DefaultCacheTTL,
	}
}

func (dc *DataClient) SetCacheTTL(ttl time.Duration) {
	if ttl > 0 {
		dc.cacheTTL = ttl
	}
}
