package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/data"
	"github.com/jack-barr3tt/pex-formatter/src/common/metrics"
	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const metricsAddr = ":2112"

type batchStore interface {
	StoreEvents(ctx context.Context, batch types.EventBatch) (bool, error)
	CountEvents(ctx context.Context, timetable string) (int, error)
}

type consumer struct {
	store   batchStore
	metrics *metrics.Collector
	log     *zap.SugaredLogger
}

// handle stores one delivery body. A returned error means the message should be
// requeued; undecodable bodies are logged and dropped.
func (c *consumer) handle(ctx context.Context, body []byte) error {
	batch, err := utils.UnmarshalEventBatch(body)
	if err != nil {
		c.log.Warnw("dropping undecodable batch", "error", err)
		return nil
	}

	stored, err := c.store.StoreEvents(ctx, *batch)
	if err != nil {
		c.log.Errorw("failed to store batch", "batch", batch.ID, "timetable", batch.Timetable, "error", err)
		return err
	}
	if !stored {
		c.log.Debugw("batch already stored", "batch", batch.ID)
		return nil
	}

	c.metrics.EventsStored.Add(float64(len(batch.Events)))
	c.log.Infow("stored batch",
		"batch", batch.ID,
		"timetable", batch.Timetable,
		"part", batch.Part,
		"parts", batch.Parts,
		"events", len(batch.Events),
	)

	if batch.Part == batch.Parts {
		total, err := c.store.CountEvents(ctx, batch.Timetable)
		if err != nil {
			c.log.Warnw("failed to count stored events", "timetable", batch.Timetable, "error", err)
			return nil
		}
		c.log.Infow("timetable stored", "timetable", batch.Timetable, "events", total)
	}
	return nil
}

func (c *consumer) run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.handle(ctx, msg.Body); err != nil {
				msg.Nack(false, true)
				continue
			}
			msg.Ack(false)
		}
	}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

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
	if err := dc.EnsureSchema(ctx); err != nil {
		log.Fatalw("failed to create schema", "error", err)
	}

	conn, channel, err := utils.NewRabbitConnection(cfg.RabbitMQ)
	if err != nil {
		log.Fatalw("failed to connect to rabbitmq", "error", err)
	}
	defer conn.Close()
	defer channel.Close()

	if _, err := channel.QueueDeclare(cfg.RabbitMQ.Queue, true, false, false, false, nil); err != nil {
		log.Fatalw("failed to declare queue", "queue", cfg.RabbitMQ.Queue, "error", err)
	}
	if err := channel.Qos(1, 0, false); err != nil {
		log.Fatalw("failed to set prefetch", "error", err)
	}

	msgs, err := channel.Consume(cfg.RabbitMQ.Queue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalw("failed to consume queue", "queue", cfg.RabbitMQ.Queue, "error", err)
	}

	collector := metrics.NewCollector()
	go func() {
		if err := http.ListenAndServe(metricsAddr, collector.Handler()); err != nil {
			log.Errorw("metrics listener stopped", "error", err)
		}
	}()

	log.Infow("storing event batches", "queue", cfg.RabbitMQ.Queue)

	c := &consumer{store: dc, metrics: collector, log: log}
	c.run(ctx, msgs)
}
