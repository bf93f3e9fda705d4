package utils

import (
	"context"
	"time"

	"github.com/go-stomp/stomp/v3"
	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nats-io/nats.go"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
)

func NewRabbitConnection(cfg config.RabbitConfig) (*amqp.Connection, *amqp.Channel, error) {
	connection, err := NewRabbitConnectionOnly(cfg)
	if err != nil {
		return nil, nil, err
	}
	channel, err := connection.Channel()
	if err != nil {
		connection.Close()
		return nil, nil, err
	}

	return connection, channel, nil
}

func NewRabbitConnectionOnly(cfg config.RabbitConfig) (*amqp.Connection, error) {
	amqpConfig := amqp.Config{
		Heartbeat: 60 * time.Second,
		Locale:    "en_US",
	}

	connection, err := amqp.DialConfig(cfg.URL(), amqpConfig)
	if err != nil {
		return nil, err
	}

	return connection, nil
}

func NewStompConnection(cfg config.StompConfig) (*stomp.Conn, error) {
	conn, err := stomp.Dial("tcp", cfg.Endpoint,
		stomp.ConnOpt.Login(cfg.Username, cfg.Password),
	)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

func NewNATSConnection(cfg config.NATSConfig) (*nats.Conn, error) {
	logger := GetLogger()

	return nats.Connect(cfg.URL,
		nats.Name("pex-formatter"),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			logger.Warnw("nats disconnected", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Infow("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
}

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	return rdb
}

func NewPostgresConnection(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	connection, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}

	return connection, nil
}
