package sink

import (
	"context"

	"github.com/go-stomp/stomp/v3"
	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
)

const batchIDHeader = "batch-id"

type StompPublisher struct {
	conn        *stomp.Conn
	destination string
}

func NewStompPublisher(cfg config.StompConfig) (*StompPublisher, error) {
	conn, err := utils.NewStompConnection(cfg)
	if err != nil {
		return nil, err
	}
	return &StompPublisher{conn: conn, destination: cfg.Destination}, nil
}

func (p *StompPublisher) Name() string { return config.SinkStomp }

// Publish sends the batch as a persistent JSON frame. STOMP sends do not take a
// context, so ctx is only checked before sending.
func (p *StompPublisher) Publish(ctx context.Context, batch types.EventBatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	body, err := utils.MarshalEventBatch(batch)
	if err != nil {
		return err
	}

	return p.conn.Send(p.destination, "application/json", body,
		stomp.SendOpt.Header(batchIDHeader, batch.ID),
		stomp.SendOpt.Header("persistent", "true"),
	)
}

func (p *StompPublisher) Close() error {
	return p.conn.Disconnect()
}
