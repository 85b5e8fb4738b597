package event

import (
	"log/slog"
	"time"
)

// LatencyHandler measures the lead time between a batch being proposed and
// its settlement, and warns when it crosses the configured threshold.
type LatencyHandler struct {
	log              *slog.Logger
	latencyThreshold time.Duration
}

func NewLatencyHandler(log *slog.Logger, latencyThreshold time.Duration) *LatencyHandler {
	return &LatencyHandler{log: log, latencyThreshold: latencyThreshold}
}

func (h *LatencyHandler) Handle(e DomainEvent) {
	if payload, ok := e.(BatchSettled); ok {
		leadTime := payload.At.Sub(payload.ProposedAt)

		h.log.Info("telemetry: batch lead time",
			"batch_id", payload.ID,
			"phase", payload.Phase.String(),
			"animated", payload.Animated,
			"lead_time_ms", leadTime.Milliseconds(),
		)

		if leadTime > h.latencyThreshold {
			h.log.Warn("high transition latency detected", "lead_time", leadTime)
		}
	}
}
