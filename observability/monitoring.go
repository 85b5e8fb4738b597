package observability

import (
	"context"
	"log/slog"
	"runtime"
	"sync/atomic"

	"transition-lab/contract"
	"transition-lab/domain"
	"transition-lab/domain/event"
)

var _ contract.BatchSink = (*MonitoringManager)(nil)

// MonitoringStats aggregates pipeline counters for health reporting and UIs.
type MonitoringStats struct {
	BatchesProposed   uint64 `json:"batches_proposed"`
	BatchesCompleted  uint64 `json:"batches_completed"`
	BatchesAborted    uint64 `json:"batches_aborted"`
	AnimationsPlayed  uint64 `json:"animations_played"`
	AnimationsSkipped uint64 `json:"animations_skipped"`
	NameConflicts     uint64 `json:"name_conflicts"`

	// --- SYSTEM METRICS ---
	AllocMemMb uint64 `json:"alloc_mem_mb"`
	NumGC      uint32 `json:"num_gc"`
}

// MonitoringManager tracks real-time pipeline telemetry. It consumes the
// same lifecycle events as every other sink, so it stays out of the hot
// path: counters are atomic, no lock is taken while batches run.
type MonitoringManager struct {
	log *slog.Logger

	proposed  uint64
	completed uint64
	aborted   uint64
	played    uint64
	skipped   uint64
	conflicts uint64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log}
}

func (m *MonitoringManager) Consume(_ context.Context, e event.DomainEvent) error {
	switch evt := e.(type) {
	case event.BatchProposed:
		atomic.AddUint64(&m.proposed, 1)
	case event.BatchSettled:
		if evt.Phase == domain.PhaseAborted {
			atomic.AddUint64(&m.aborted, 1)
			return nil
		}
		atomic.AddUint64(&m.completed, 1)
		if evt.Animated {
			atomic.AddUint64(&m.played, 1)
		} else {
			atomic.AddUint64(&m.skipped, 1)
		}
	case event.NameConflictDetected:
		atomic.AddUint64(&m.conflicts, 1)
	}
	return nil
}

// GetLatest returns a point-in-time view of the counters plus Go runtime
// memory numbers.
func (m *MonitoringManager) GetLatest() MonitoringStats {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return MonitoringStats{
		BatchesProposed:   atomic.LoadUint64(&m.proposed),
		BatchesCompleted:  atomic.LoadUint64(&m.completed),
		BatchesAborted:    atomic.LoadUint64(&m.aborted),
		AnimationsPlayed:  atomic.LoadUint64(&m.played),
		AnimationsSkipped: atomic.LoadUint64(&m.skipped),
		NameConflicts:     atomic.LoadUint64(&m.conflicts),
		AllocMemMb:        mem.Alloc / 1024 / 1024,
		NumGC:             mem.NumGC,
	}
}
