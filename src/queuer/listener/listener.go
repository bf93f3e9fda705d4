package listener

import (
	"context"
	"sync"

	"github.com/go-stomp/stomp/v3"
	"github.com/nats-io/nats.go"
)

// Handler processes one message body. A returned error leaves the message
// unacknowledged so the broker can deliver it again.
type Handler func(ctx context.Context, body []byte) error

// Message is a received body with the broker's settlement hooks. Nil hooks are no-ops.
type Message struct {
	Body []byte
	ack  func() error
	nack func() error
}

func NewMessage(body []byte, ack, nack func() error) Message {
	return Message{Body: body, ack: ack, nack: nack}
}

func settle(fn func() error) error {
	if fn == nil {
		return nil
	}
	return fn()
}

type Listener struct {
	ctx     context.Context
	wg      *sync.WaitGroup
	source  string
	handler Handler
	onError func(error)
}

func NewListener(ctx context.Context, wg *sync.WaitGroup, source string, handler Handler) *Listener {
	return &Listener{
		ctx:     ctx,
		wg:      wg,
		source:  source,
		handler: handler,
		onError: func(error) {},
	}
}

func (l *Listener) Source() string { return l.source }

// OnSettleError is called when acking or nacking a message fails.
func (l *Listener) OnSettleError(fn func(error)) { l.onError = fn }

// Run hands every message to the handler until the context is cancelled or
// msgs is closed. Messages are acked after the handler succeeds and nacked
// otherwise.
func (l *Listener) Run(msgs <-chan Message) {
	defer l.wg.Done()

	for {
		select {
		case <-l.ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}

			settleFn := msg.ack
			if err := l.handler(l.ctx, msg.Body); err != nil {
				settleFn = msg.nack
			}
			if err := settle(settleFn); err != nil {
				l.onError(err)
			}
		}
	}
}

// StompMessages subscribes to a STOMP destination with per-message client
// acknowledgement. Frames carrying an error are skipped.
func StompMessages(ctx context.Context, conn *stomp.Conn, destination string) (<-chan Message, error) {
	sub, err := conn.Subscribe(destination, stomp.AckClientIndividual)
	if err != nil {
		return nil, err
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-sub.C:
				if !ok {
					return
				}
				if msg.Err != nil {
					continue
				}
				m := NewMessage(msg.Body,
					func() error { return conn.Ack(msg) },
					func() error { return conn.Nack(msg) },
				)
				select {
				case out <- m:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// NATSMessages subscribes to a NATS subject. Core NATS has no acknowledgement,
// so delivery is at most once: a batch that fails to relay is lost.
func NATSMessages(ctx context.Context, nc *nats.Conn, subject string) (<-chan Message, error) {
	in := make(chan *nats.Msg, 64)
	sub, err := nc.ChanSubscribe(subject, in)
	if err != nil {
		return nil, err
	}

	out := make(chan Message)
	go func() {
		defer close(out)
		defer sub.Unsubscribe()

		for {
			select {
			case <-ctx.Done():
				return
			case msg := <-in:
				select {
				case out <- NewMessage(msg.Data, nil, nil):
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}
