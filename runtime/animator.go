package runtime

import (
	"context"
	"log/slog"

	"transition-lab/contract"
)

var _ contract.Worker = (*AnimatorWorker)(nil)

// AnimatorWorker drains the animation queue and drives the host primitive
// through the Animating phase of each batch. Several animators may run side
// by side: the scheduler guarantees that batches reaching them touch
// disjoint participant sets.
type AnimatorWorker struct {
	log       *slog.Logger
	host      contract.HostPrimitive
	scheduler *Scheduler
	queue     chan *BatchHandle
}

func NewAnimatorWorker(log *slog.Logger, host contract.HostPrimitive, scheduler *Scheduler, queue chan *BatchHandle) *AnimatorWorker {
	return &AnimatorWorker{log: log, host: host, scheduler: scheduler, queue: queue}
}

func (w *AnimatorWorker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.log.Debug("Stopping worker")
			return ctx.Err()
		case h, ok := <-w.queue:
			if !ok {
				w.log.Debug("Animation queue closed")
				return nil
			}
			w.animate(ctx, h)
		}
	}
}

func (w *AnimatorWorker) animate(ctx context.Context, h *BatchHandle) {
	if h.completed() {
		// Superseded while queued.
		return
	}

	handle, err := w.host.BeginTransition(h.ctx, h.batch.Pairs())
	if err != nil {
		// Progressive enhancement: the commit already stands, only the
		// animation is lost.
		w.log.Debug("Host transition unavailable", "batch_id", h.batch.ID, "error", err)
		w.scheduler.finish(h, false)
		return
	}

	select {
	case <-handle.Ready():
	case <-h.ctx.Done():
		handle.Skip()
		return
	case <-ctx.Done():
		handle.Skip()
		w.scheduler.abort(h, ctx.Err())
		return
	case err := <-handle.Finished():
		// Degenerate hosts may finish without signalling readiness.
		w.settle(h, err)
		return
	}

	select {
	case <-h.ctx.Done():
		// Superseded mid-animation: leave no partial animation running.
		handle.Skip()
	case <-ctx.Done():
		handle.Skip()
		w.scheduler.abort(h, ctx.Err())
	case err := <-handle.Finished():
		w.settle(h, err)
	}
}

func (w *AnimatorWorker) settle(h *BatchHandle, err error) {
	if err != nil {
		w.log.Warn("Host transition failed", "batch_id", h.batch.ID, "error", err)
	}
	w.scheduler.finish(h, err == nil)
}
