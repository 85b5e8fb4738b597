package workers

import (
	"context"
	"log/slog"
	"time"

	"transition-lab/contract"
	"transition-lab/domain/event"
)

var _ contract.Worker = (*FanoutWorker)(nil)

// FanoutWorker broadcasts batch lifecycle events to multiple in-process
// consumers.
//
// It provides best-effort fan-out with no guarantees regarding delivery,
// ordering, durability, or retries. FanoutWorker is not a message broker.
//
// It is intended for observability and side effects (timelines, traces,
// metrics), not for the transition protocol itself.
type FanoutWorker struct {
	Log            *slog.Logger
	Events         chan event.DomainEvent
	TelemetryEvent chan event.DomainEvent
	sinkTimeout    time.Duration
	sinks          []contract.BatchSink
}

func NewFanoutWorker(log *slog.Logger, events, telemetryEvent chan event.DomainEvent, sinkTimeout time.Duration) *FanoutWorker {
	return &FanoutWorker{Log: log, Events: events, TelemetryEvent: telemetryEvent, sinkTimeout: sinkTimeout}
}

func (w *FanoutWorker) Add(sinks ...contract.BatchSink) *FanoutWorker {
	w.sinks = append(w.sinks, sinks...)
	return w
}

func (w *FanoutWorker) Run(ctx context.Context) error {
	for {
		select {
		case evt := <-w.Events:
			w.fanout(ctx, evt)
			select {
			case w.TelemetryEvent <- evt:
			default:
				w.Log.Debug("Observability telemetry event lost")
			}
		case <-ctx.Done():
			w.Log.Debug("Context done, stopping event fanout")
			return nil
		}
	}
}

// fanout delivers one event to every sink, each under its own timeout so a
// slow sink cannot stall the others behind it.
func (w *FanoutWorker) fanout(ctx context.Context, evt event.DomainEvent) {
	for _, sink := range w.sinks {
		sinkCtx := ctx
		cancel := context.CancelFunc(func() {})
		if w.sinkTimeout > 0 {
			sinkCtx, cancel = context.WithTimeout(ctx, w.sinkTimeout)
		}
		if err := sink.Consume(sinkCtx, evt); err != nil {
			w.Log.Warn("Sink rejected event", "batch_id", evt.BatchID(), "error", err)
		}
		cancel()
	}
}
