package sink

import (
	"context"

	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"github.com/nats-io/nats.go"
)

const batchIDMsgHeader = "Batch-Id"

type NATSPublisher struct {
	nc      *nats.Conn
	subject string
}

func NewNATSPublisher(cfg config.NATSConfig) (*NATSPublisher, error) {
	nc, err := utils.NewNATSConnection(cfg)
	if err != nil {
		return nil, err
	}
	return &NATSPublisher{nc: nc, subject: cfg.Subject}, nil
}

func (p *NATSPublisher) Name() string { return config.SinkNATS }

func (p *NATSPublisher) Publish(ctx context.Context, batch types.EventBatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := utils.MarshalEventBatch(batch)
	if err != nil {
		return err
	}

	msg := nats.NewMsg(p.subject)
	msg.Header.Set(batchIDMsgHeader, batch.ID)
	msg.Data = body
	return p.nc.PublishMsg(msg)
}

func (p *NATSPublisher) Close() error {
	return p.nc.Drain()
}
