package workers

import (
	"context"
	"log/slog"
	"time"

	"transition-lab/contract"
	"transition-lab/domain/event"
)

var _ contract.Worker = (*TelemetryWorker)(nil)

// TelemetryWorker drains the telemetry side channel at a fixed cadence and
// feeds each event through the configured handlers.
type TelemetryWorker struct {
	log            *slog.Logger
	metricInterval time.Duration
	telemetryChan  chan event.DomainEvent
	handlers       []event.Handler
}

func NewTelemetryWorker(log *slog.Logger,
	metricInterval time.Duration,
	telemetryChan chan event.DomainEvent,
	handlers []event.Handler) *TelemetryWorker {
	return &TelemetryWorker{
		log:            log,
		metricInterval: metricInterval,
		telemetryChan:  telemetryChan,
		handlers:       handlers,
	}
}

func (w TelemetryWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.metricInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case evt := <-w.telemetryChan:
				w.handle(evt)
			}
		}
	}
}

func (w TelemetryWorker) handle(evt event.DomainEvent) {
	for _, h := range w.handlers {
		h.Handle(evt)
	}
}
