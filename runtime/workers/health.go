package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"transition-lab/contract"
	"transition-lab/observability"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*HealthWorker)(nil)

// HealthWorker samples the process's own CPU and memory on a ticker and logs
// them together with the latest pipeline counters. Purely observational.
type HealthWorker struct {
	log        *slog.Logger
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

func NewHealthWorker(log *slog.Logger, monitoring *observability.MonitoringManager, interval time.Duration) *HealthWorker {
	return &HealthWorker{log: log, monitoring: monitoring, interval: interval}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	w.log.Info("Starting pipeline health worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			rss, cpu, status, err := getSelfStats(p)
			if err != nil {
				w.log.Error("Failed to collect self stats", "err", err)
				continue
			}

			stats := w.monitoring.GetLatest()
			w.log.Info("pipeline health",
				"pid", os.Getpid(),
				"pid_status", status,
				"cpu_percent", cpu,
				"ram_bytes", rss,
				"batches_proposed", stats.BatchesProposed,
				"batches_completed", stats.BatchesCompleted,
				"batches_aborted", stats.BatchesAborted,
				"animations_played", stats.AnimationsPlayed,
				"animations_skipped", stats.AnimationsSkipped,
				"name_conflicts", stats.NameConflicts,
				"alloc_mem_mb", stats.AllocMemMb,
			)
		}
	}
}

func getSelfStats(p *process.Process) (uint64, float64, string, error) {
	mem, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, "", err
	}
	cpu, err := p.CPUPercent()
	if err != nil {
		return 0, 0, "", err
	}
	status, err := p.Status()
	if err != nil {
		return 0, 0, "", err
	}
	return mem.RSS, cpu, status, nil
}
