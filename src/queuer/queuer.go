package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/sink"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"github.com/jack-barr3tt/pex-formatter/src/queuer/listener"
	"go.uber.org/zap"
)

// relay forwards event batches received from STOMP or NATS into the AMQP
// queue read by the event consumer. A failed publish is returned so the STOMP
// message is nacked and redelivered; undecodable bodies are dropped.
type relay struct {
	publisher sink.Publisher
	log       *zap.SugaredLogger
}

func (r *relay) handle(ctx context.Context, body []byte) error {
	batch, err := utils.UnmarshalEventBatch(body)
	if err != nil {
		r.log.Warnw("error unmarshalling event batch", "error", err)
		return nil
	}

	if err := r.publisher.Publish(ctx, *batch); err != nil {
		r.log.Warnw("error publishing batch to RabbitMQ", "batch", batch.ID, "error", err)
		return err
	}
	r.log.Debugw("relayed event batch", "batch", batch.ID, "timetable", batch.Timetable, "part", batch.Part)
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("PEX_CONFIG"))
	if err != nil {
		utils.InitLogger("")
		utils.GetLogger().Fatalw("failed to load config", "error", err)
	}

	utils.InitLogger(cfg.LogLevel)
	defer utils.SyncLogger()
	logger := utils.GetLogger()

	publisher, err := sink.NewAMQPPublisher(cfg.RabbitMQ)
	if err != nil {
		logger.Fatalw("failed to connect to RabbitMQ", "error", err)
	}
	defer publisher.Close()

	r := &relay{publisher: publisher, log: logger}

	var msgs <-chan listener.Message
	switch cfg.Sink.Kind {
	case config.SinkStomp:
		stompConn, err := utils.NewStompConnection(cfg.Stomp)
		if err != nil {
			logger.Fatalw("failed to connect to stomp", "error", err)
		}
		defer stompConn.Disconnect()

		msgs, err = listener.StompMessages(ctx, stompConn, cfg.Stomp.Destination)
		if err != nil {
			logger.Fatalw("failed to subscribe", "destination", cfg.Stomp.Destination, "error", err)
		}

	case config.SinkNATS:
		nc, err := utils.NewNATSConnection(cfg.NATS)
		if err != nil {
			logger.Fatalw("failed to connect to NATS", "error", err)
		}
		defer nc.Drain()

		msgs, err = listener.NATSMessages(ctx, nc, cfg.NATS.Subject)
		if err != nil {
			logger.Fatalw("failed to subscribe", "subject", cfg.NATS.Subject, "error", err)
		}

	default:
		logger.Fatalw("nothing to relay, sink must be stomp or nats", "sink", cfg.Sink.Kind)
	}

	var wg sync.WaitGroup
	l := listener.NewListener(ctx, &wg, cfg.Sink.Kind, r.handle)
	l.OnSettleError(func(err error) {
		logger.Warnw("failed to settle message", "from", l.Source(), "error", err)
	})

	wg.Add(1)
	go l.Run(msgs)

	logger.Infow("relaying event batches", "from", l.Source(), "queue", cfg.RabbitMQ.Queue)

	<-ctx.Done()
	stop()

	wg.Wait()
}
