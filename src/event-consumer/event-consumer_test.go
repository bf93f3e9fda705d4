package main

import (
	"context"
	"errors"
	"testing"

	"github.com/jack-barr3tt/pex-formatter/src/common/metrics"
	"github.com/jack-barr3tt/pex-formatter/src/common/types"
	"github.com/jack-barr3tt/pex-formatter/src/common/utils"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"
)

type fakeStore struct {
	seen   map[string]bool
	stored int
	counts int
	err    error
}

func (f *fakeStore) StoreEvents(ctx context.Context, batch types.EventBatch) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.seen[batch.ID] {
		return false, nil
	}
	f.seen[batch.ID] = true
	f.stored += len(batch.Events)
	return true, nil
}

func (f *fakeStore) CountEvents(ctx context.Context, timetable string) (int, error) {
	f.counts++
	return f.stored, nil
}

func newTestConsumer(store batchStore) *consumer {
	return &consumer{store: store, metrics: metrics.NewCollector(), log: zap.NewNop().Sugar()}
}

func encodedBatch(t *testing.T, id string, events int) []byte {
	t.Helper()
	batch := types.EventBatch{ID: id, Timetable: "WTT.pex", Part: 1, Parts: 1}
	for i := range events {
		batch.Events = append(batch.Events, types.Event{LineInFile: i + 1})
	}
	body, err := utils.MarshalEventBatch(batch)
	if err != nil {
		t.Fatalf("failed to encode batch: %v", err)
	}
	return body
}

func TestHandleStoresOnce(t *testing.T) {
	store := &fakeStore{seen: map[string]bool{}}
	c := newTestConsumer(store)
	body := encodedBatch(t, "b-1", 3)

	for range 2 {
		if err := c.handle(context.Background(), body); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := testutil.ToFloat64(c.metrics.EventsStored); got != 3 {
		t.Errorf("got %v events stored, want 3", got)
	}
	// the redelivery is skipped before the final part count
	if store.counts != 1 {
		t.Errorf("got %d counts, want 1", store.counts)
	}
}

func TestHandleDropsUndecodable(t *testing.T) {
	c := newTestConsumer(&fakeStore{seen: map[string]bool{}})

	for _, body := range []string{"not json", `{"timetable":"x"}`} {
		if err := c.handle(context.Background(), []byte(body)); err != nil {
			t.Errorf("%q: expected the message to be dropped, got %v", body, err)
		}
	}
}

func TestHandleRequeuesOnStoreFailure(t *testing.T) {
	c := newTestConsumer(&fakeStore{err: errors.New("connection refused")})

	if err := c.handle(context.Background(), encodedBatch(t, "b-2", 1)); err == nil {
		t.Error("expected error so the delivery is requeued")
	}
	if got := testutil.ToFloat64(c.metrics.EventsStored); got != 0 {
		t.Errorf("got %v events stored, want 0", got)
	}
}
