package main

import (
	"context"
	"errors"
	"testing"

	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"go.uber.org/zap"
)

type fakePublisher struct {
	batches []types.EventBatch
	err     error
}

func (f *fakePublisher) Name() string { return "fake" }

func (f *fakePublisher) Publish(ctx context.Context, batch types.EventBatch) error {
	if f.err != nil {
		return f.err
	}
	f.batches = append(f.batches, batch)
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func TestRelayHandle(t *testing.T) {
	pub := &fakePublisher{}
	r := &relay{publisher: pub, log: zap.NewNop().Sugar()}

	body, err := utils.MarshalEventBatch(types.EventBatch{
		ID:        "b-1",
		Timetable: "WTT.pex",
		Part:      1,
		Parts:     1,
		Events:    []types.Event{{LineInFile: 6}},
	})
	if err != nil {
		t.Fatalf("failed to encode batch: %v", err)
	}

	if err := r.handle(context.Background(), body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// undecodable bodies are dropped, not redelivered
	if err := r.handle(context.Background(), []byte("garbage")); err != nil {
		t.Errorf("expected garbage to be dropped, got %v", err)
	}

	if len(pub.batches) != 1 {
		t.Fatalf("expected 1 relayed batch, got %d", len(pub.batches))
	}
	if pub.batches[0].ID != "b-1" || pub.batches[0].Events[0].LineInFile != 6 {
		t.Errorf("unexpected batch %+v", pub.batches[0])
	}
}

func TestRelayHandlePublishFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	r := &relay{publisher: pub, log: zap.NewNop().Sugar()}

	body, _ := utils.MarshalEventBatch(types.EventBatch{ID: "b-2"})
	if err := r.handle(context.Background(), body); err == nil {
		t.Error("expected the publish failure to be returned so the message is redelivered")
	}

	if len(pub.batches) != 0 {
		t.Errorf("expected nothing relayed, got %d", len(pub.batches))
	}
}
