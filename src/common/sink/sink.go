package sink

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jack-barr3tt/pex-formatter/src/common/config"
	"github.com/jack-barr3tt/pex-formatter/src/common/types"
)

// Publisher sends event batches to a message broker.
type Publisher interface {
	Name() string
	Publish(ctx context.Context, batch types.EventBatch) error
	Close() error
}

// Observer is notified of every publish attempt.
type Observer interface {
	ObservePublish(sink string, err error)
}

// New connects the publisher selected by cfg.Sink.Kind. It returns nil when no
// sink is configured.
func New(cfg *config.Config) (Publisher, error) {
	switch cfg.Sink.Kind {
	case config.SinkNone, "":
		return nil, nil
	case config.SinkAMQP:
		return NewAMQPPublisher(cfg.RabbitMQ)
	case config.SinkStomp:
		return NewStompPublisher(cfg.Stomp)
	case config.SinkNATS:
		return NewNATSPublisher(cfg.NATS)
	}
	return nil, fmt.Errorf("unknown sink %q", cfg.Sink.Kind)
}

// Batches splits events into batches of at most size events, each with a fresh id.
func Batches(timetable string, events []types.Event, size int) []types.EventBatch {
	if size <= 0 {
		size = len(events)
	}
	if len(events) == 0 {
		return nil
	}

	parts := (len(events) + size - 1) / size
	batches := make([]types.EventBatch, 0, parts)
	for start := 0; start < len(events); start += size {
		end := min(start+size, len(events))
		batches = append(batches, types.EventBatch{
			ID:        uuid.NewString(),
			Timetable: timetable,
			Part:      len(batches) + 1,
			Parts:     parts,
			Events:    events[start:end],
		})
	}
	return batches
}

// PublishEvents publishes a timetable's events in batches and stops at the first failure.
func PublishEvents(ctx context.Context, p Publisher, obs Observer, timetable string, events []types.Event, size int) (int, error) {
	published := 0
	for _, batch := range Batches(timetable, events, size) {
		err := p.Publish(ctx, batch)
		if obs != nil {
			obs.ObservePublish(p.Name(), err)
		}
		if err != nil {
			return published, fmt.Errorf("failed to publish batch %d/%d of %s: %w", batch.Part, batch.Parts, timetable, err)
		}
		published++
	}
	return published, nil
}
