package workers

import (
	"context"
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"transition-lab/domain/event"
	"transition-lab/mocks"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestFanoutWorker_DeliversToEverySink(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := make(chan event.DomainEvent, 4)
	telemetry := make(chan event.DomainEvent, 4)
	sink := mocks.NewMockBatchSink(ctrl)

	done := make(chan struct{})
	count := 0
	// Given two sinks consuming the same event
	sink.EXPECT().Consume(gomock.Any(), gomock.Any()).Do(
		func(ctx context.Context, evt event.DomainEvent) {
			count++
			if count == 2 {
				close(done)
			}
		}).Return(nil).
		Times(2)

	worker := NewFanoutWorker(log, events, telemetry, time.Second).Add(sink, sink)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	// When an event is received
	evt := event.BatchSettled{ID: uuid.New()}
	events <- evt

	// Then both sinks consumed it
	select {
	case <-done:
	case <-time.After(time.Second):
		req.Fail("Sinks did not consume the event in time")
	}

	// And a copy landed on the telemetry side channel
	select {
	case forwarded := <-telemetry:
		req.Equal(evt.ID, forwarded.BatchID())
	case <-time.After(time.Second):
		req.Fail("Telemetry copy was not forwarded")
	}
}

func TestFanoutWorker_SinkErrorDoesNotStallOthers(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	events := make(chan event.DomainEvent, 4)
	telemetry := make(chan event.DomainEvent, 4)

	failing := mocks.NewMockBatchSink(ctrl)
	healthy := mocks.NewMockBatchSink(ctrl)

	delivered := make(chan struct{})
	// Given the first sink rejects the event
	failing.EXPECT().Consume(gomock.Any(), gomock.Any()).
		Return(stderrors.New("disk full")).Times(1)
	// Then the second sink still receives it
	healthy.EXPECT().Consume(gomock.Any(), gomock.Any()).Do(
		func(context.Context, event.DomainEvent) { close(delivered) }).
		Return(nil).Times(1)

	worker := NewFanoutWorker(log, events, telemetry, time.Second).Add(failing, healthy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = worker.Run(ctx) }()

	events <- event.BatchSettled{ID: uuid.New()}

	select {
	case <-delivered:
	case <-time.After(time.Second):
		req.Fail("Healthy sink should have received the event")
	}
}
