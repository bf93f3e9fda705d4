package sink

import (
	"context"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	amqp "github.com/rabbitmq/amqp091-go"
)

type AMQPPublisher struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	queue   string
}

func NewAMQPPublisher(cfg config.RabbitConfig) (*AMQPPublisher, error) {
	conn, channel, err := utils.NewRabbitConnection(cfg)
	if err != nil {
		return nil, err
	}

	if _, err := channel.QueueDeclare(cfg.Queue, true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, err
	}

	return &AMQPPublisher{conn: conn, channel: channel, queue: cfg.Queue}, nil
}

func (p *AMQPPublisher) Name() string { return config.SinkAMQP }

func (p *AMQPPublisher) Publish(ctx context.Context, batch types.EventBatch) error {
	body, err := utils.MarshalEventBatch(batch)
	if err != nil {
		return err
	}

	return p.channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    batch.ID,
		Body:         body,
	})
}

func (p *AMQPPublisher) Close() error {
	p.channel.Close()
	return p.conn.Close()
}
